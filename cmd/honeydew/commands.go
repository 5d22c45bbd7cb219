package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dxworks/honeydew/internal/ingestion"
	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/internal/resolver"
)

func runExtract(cmd *cobra.Command, args []string, logger *slog.Logger) error {
	output, _ := cmd.Flags().GetString("output")
	parseWorkers, _ := cmd.Flags().GetInt("parse-workers")

	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	stage := ingestion.NewExtractStage(ingestion.NewRegistry(), nil, parseWorkers, logger)
	rc := &ingestion.RunContext{Repository: filepath.Base(root), Source: ingestion.SourceDirectory, WorkDir: root}
	if err := stage.Execute(cmd.Context(), rc); err != nil {
		return err
	}
	if rc.FilesFailed > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d of %d files failed to parse\n", rc.FilesFailed, rc.FilesParsed+rc.FilesFailed)
	}

	return withOutput(output, func(w io.Writer) error {
		return parser.WriteDocument(w, rc.Raw)
	})
}

func runLink(cmd *cobra.Command, args []string, logger *slog.Logger) error {
	output, _ := cmd.Flags().GetString("output")
	repository, _ := cmd.Flags().GetString("repository")
	workers, _ := cmd.Flags().GetInt("workers")
	parseWorkers, _ := cmd.Flags().GetInt("parse-workers")
	summary, _ := cmd.Flags().GetBool("summary")

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if repository == "" {
		repository = repositoryName(path, info.IsDir())
	}

	rc := &ingestion.RunContext{Repository: repository, Source: ingestion.SourceDirectory, WorkDir: path}
	if !info.IsDir() {
		raw, err := parser.LoadDocument(path)
		if err != nil {
			return err
		}
		rc.Source, rc.WorkDir, rc.Raw = ingestion.SourceDocument, "", raw
	}

	registry := ingestion.NewRegistry()
	engine := resolver.NewEngine(registry, logger, resolver.WithWorkers(workers))
	pipeline := ingestion.NewPipeline(nil, []ingestion.Stage{
		ingestion.NewExtractStage(registry, nil, parseWorkers, logger),
		ingestion.NewLinkStage(engine, logger),
	}, logger)

	rc, err = pipeline.Execute(cmd.Context(), rc)
	if err != nil {
		return err
	}

	if summary {
		printSummary(os.Stderr, rc)
	}

	return withOutput(output, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rc.Document)
	})
}

// repositoryName derives a repository name from a directory or document path.
func repositoryName(path string, isDir bool) string {
	base := filepath.Base(path)
	if isDir {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func withOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, rc *ingestion.RunContext) {
	s := rc.Stats
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "repository\t%s\n", rc.Repository)
	fmt.Fprintf(tw, "solutions\t%d\n", s.Solutions)
	fmt.Fprintf(tw, "projects\t%d\n", s.Projects)
	fmt.Fprintf(tw, "files\t%d\n", s.Files)
	fmt.Fprintf(tw, "parse failures\t%d\n", rc.FilesFailed)
	fmt.Fprintf(tw, "namespaces\t%d\n", s.Namespaces)
	fmt.Fprintf(tw, "entities\t%d\n", s.Entities)
	fmt.Fprintf(tw, "methods\t%d\n", s.Methods)
	fmt.Fprintf(tw, "fields\t%d\n", s.Fields)
	fmt.Fprintf(tw, "calls\t%d\n", s.Calls)
	fmt.Fprintf(tw, "accesses\t%d\n", s.Accesses)
	fmt.Fprintf(tw, "stand-ins\t%d\n", s.Created)
	fmt.Fprintf(tw, "nodes\t%d\n", len(rc.Document.Nodes))
	fmt.Fprintf(tw, "edges\t%d\n", len(rc.Document.Edges))
	tw.Flush()
}
