package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/dxworks/honeydew/internal/config"
)

// clientName shows up in CLIENT LIST next to the queue consumers.
const clientName = "honeydew"

// NewClient connects the client shared by the link-run queue and the raw
// document cache. Client-side caching stays off: cached documents are
// large and read once per run.
func NewClient(ctx context.Context, cfg config.ValkeyConfig) (valkey.Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:  []string{cfg.Addr},
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   clientName,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect valkey %s: %w", cfg.Addr, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey db %d: %w", cfg.DB, err)
	}
	return client, nil
}
