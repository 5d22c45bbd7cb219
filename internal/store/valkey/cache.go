package valkey

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/dxworks/honeydew/internal/parser"
)

const keyPrefix = "honeydew:raw:"

// DocumentCache keeps raw fact documents keyed by the hash of their content,
// so relinking an unchanged repository skips extraction.
type DocumentCache struct {
	client valkey.Client
	ttl    time.Duration
}

func NewDocumentCache(client valkey.Client, ttl time.Duration) *DocumentCache {
	return &DocumentCache{client: client, ttl: ttl}
}

// Key derives a cache key from a content fingerprint.
func Key(fingerprint []byte) string {
	sum := sha256.Sum256(fingerprint)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached document for key. A miss is (nil, false, nil).
func (c *DocumentCache) Get(ctx context.Context, key string) (*parser.Repository, bool, error) {
	resp := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	data, err := resp.AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached document: %w", err)
	}
	repo, err := parser.DecodeDocument(bytes.NewReader(data), "json")
	if err != nil {
		return nil, false, fmt.Errorf("decode cached document: %w", err)
	}
	return repo, true, nil
}

// Put stores repo under key for the cache TTL.
func (c *DocumentCache) Put(ctx context.Context, key string, repo *parser.Repository) error {
	var buf bytes.Buffer
	if err := parser.WriteDocument(&buf, repo); err != nil {
		return err
	}
	cmd := c.client.B().Set().Key(key).Value(buf.String())
	var resp valkey.ValkeyResult
	if c.ttl > 0 {
		resp = c.client.Do(ctx, cmd.Ex(c.ttl).Build())
	} else {
		resp = c.client.Do(ctx, cmd.Build())
	}
	if err := resp.Error(); err != nil {
		return fmt.Errorf("cache document: %w", err)
	}
	return nil
}
