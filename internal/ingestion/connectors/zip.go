package connectors

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxEntrySize caps every extracted file at 100MB.
const maxEntrySize = 100 * 1024 * 1024

// Downloader fetches an object from artifact storage.
type Downloader interface {
	Download(ctx context.Context, objectName string) (io.ReadCloser, error)
}

// ZipConnector extracts uploaded source archives.
type ZipConnector struct {
	objects Downloader
}

func NewZipConnector(objects Downloader) *ZipConnector {
	return &ZipConnector{objects: objects}
}

// Extract downloads a ZIP archive and extracts it to destDir.
func (z *ZipConnector) Extract(ctx context.Context, objectName, destDir string) error {
	reader, err := z.objects.Download(ctx, objectName)
	if err != nil {
		return fmt.Errorf("download zip: %w", err)
	}
	defer reader.Close()

	// zip needs random access
	tmpFile, err := os.CreateTemp("", "honeydew-zip-*.zip")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, reader); err != nil {
		return fmt.Errorf("copy to temp: %w", err)
	}
	tmpFile.Close()

	return ExtractFile(tmpFile.Name(), destDir)
}

// ExtractFile extracts the archive at path into destDir. Entries escaping
// destDir are rejected.
func ExtractFile(path, destDir string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		target := filepath.Join(destDir, f.Name)

		// Prevent zip slip
		if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("invalid zip entry: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("mkdir: %w", err)
			}
			continue
		}
		if err := extractEntry(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open zip entry: %w", err)
	}
	defer rc.Close()

	outFile, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, io.LimitReader(rc, maxEntrySize)); err != nil {
		return fmt.Errorf("extract file: %w", err)
	}
	return nil
}
