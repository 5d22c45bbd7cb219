package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	StreamName = "honeydew:link"
	GroupName  = "honeydew-workers"
)

// LinkMessage is the payload enqueued for worker processing.
type LinkMessage struct {
	RunID      uuid.UUID `json:"run_id"`
	Repository string    `json:"repository"`
	Source     string    `json:"source"`
	Location   string    `json:"location"`
	Format     string    `json:"format,omitempty"`
}

// Producer enqueues link jobs to the Valkey stream.
type Producer struct {
	client valkey.Client
}

func NewProducer(client valkey.Client) *Producer {
	return &Producer{client: client}
}

func (p *Producer) Enqueue(ctx context.Context, msg LinkMessage) (string, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal message: %w", err)
	}

	resp := p.client.Do(ctx, p.client.B().Xadd().
		Key(StreamName).Id("*").
		FieldValue().FieldValue("data", string(data)).
		Build())
	if err := resp.Error(); err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	id, err := resp.ToString()
	if err != nil {
		return "", fmt.Errorf("parse xadd response: %w", err)
	}
	return id, nil
}

// Consumer reads link jobs from the Valkey stream.
type Consumer struct {
	client     valkey.Client
	consumerID string
	logger     *slog.Logger
}

func NewConsumer(client valkey.Client, consumerID string, logger *slog.Logger) *Consumer {
	return &Consumer{client: client, consumerID: consumerID, logger: logger}
}

// EnsureGroup creates the consumer group if it doesn't exist.
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	resp := c.client.Do(ctx, c.client.B().XgroupCreate().
		Key(StreamName).Group(GroupName).Id("0").Mkstream().Build())
	if err := resp.Error(); err != nil {
		// BUSYGROUP means the group already exists
		if err.Error() != "BUSYGROUP Consumer Group name already exists" {
			return fmt.Errorf("xgroup create: %w", err)
		}
	}
	return nil
}

// Consume blocks until a message is available, processes it via handler, and ACKs.
// On startup, it first drains any pending messages from a previous crash.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, LinkMessage) error) error {
	c.drainPending(ctx, handler)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		resp := c.client.Do(ctx, c.client.B().Xreadgroup().
			Group(GroupName, c.consumerID).
			Count(1).Block(5000).
			Streams().Key(StreamName).Id(">").
			Build())

		if err := resp.Error(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Timeout is normal for BLOCK reads
			continue
		}

		results, err := resp.AsXRead()
		if err != nil {
			continue
		}

		for _, messages := range results {
			for _, msg := range messages {
				c.processMessage(ctx, msg, handler)
			}
		}
	}
}

// drainPending reads messages previously delivered to this consumer but not ACKed.
func (c *Consumer) drainPending(ctx context.Context, handler func(context.Context, LinkMessage) error) {
	resp := c.client.Do(ctx, c.client.B().Xreadgroup().
		Group(GroupName, c.consumerID).
		Count(10).
		Streams().Key(StreamName).Id("0").
		Build())

	if err := resp.Error(); err != nil {
		c.logger.Warn("drain pending failed", slog.String("error", err.Error()))
		return
	}

	results, err := resp.AsXRead()
	if err != nil {
		return
	}

	for _, messages := range results {
		for _, msg := range messages {
			c.logger.Info("recovering pending message", slog.String("id", msg.ID))
			c.processMessage(ctx, msg, handler)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg valkey.XRangeEntry, handler func(context.Context, LinkMessage) error) {
	linkMsg, err := DecodeMessage(msg.FieldValues)
	if err != nil {
		c.logger.Error("drop message", slog.String("error", err.Error()), slog.String("id", msg.ID))
		c.ack(ctx, msg.ID)
		return
	}

	if err := handler(ctx, linkMsg); err != nil {
		c.logger.Error("handle message", slog.String("error", err.Error()),
			slog.String("id", msg.ID),
			slog.String("run_id", linkMsg.RunID.String()))
	} else {
		c.ack(ctx, msg.ID)
	}
}

// DecodeMessage reads a LinkMessage from stream entry fields.
func DecodeMessage(fields map[string]string) (LinkMessage, error) {
	var msg LinkMessage
	data, ok := fields["data"]
	if !ok {
		return msg, fmt.Errorf("message missing data field")
	}
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		return msg, fmt.Errorf("unmarshal message: %w", err)
	}
	if msg.RunID == uuid.Nil {
		return msg, fmt.Errorf("message missing run_id")
	}
	return msg, nil
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	resp := c.client.Do(ctx, c.client.B().Xack().
		Key(StreamName).Group(GroupName).Id(msgID).Build())
	if err := resp.Error(); err != nil {
		c.logger.Error("xack failed", slog.String("error", err.Error()), slog.String("id", msgID))
	}
}
