package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/slumberhaus/storefront/internal/config"
	"github.com/slumberhaus/storefront/internal/pkg/logger"
)

// Catalog event types published on StreamSubjects
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
	EventVariantChanged = "variant.changed"
	EventImageChanged   = "image.changed"
)

// CatalogEvent is emitted whenever an admin mutation touches data that
// feeds the catalog listing (product, variant, or image).
type CatalogEvent struct {
	Type      string    `json:"type"`
	ProductID uuid.UUID `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher handles publishing events to NATS JetStream
type Publisher struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	logger *logger.Logger
}

// NewPublisher creates a new NATS JetStream publisher
func NewPublisher(cfg *config.Config, log *logger.Logger) (*Publisher, error) {
	nc, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"url": cfg.NATS.URL,
	}).Info("Connected to NATS JetStream")

	return &Publisher{
		nc:     nc,
		js:     js,
		logger: log,
	}, nil
}

// PublishCatalogEvent publishes a catalog change event for a product.
// JetStream acks the publish only after the message is stored.
func (p *Publisher) PublishCatalogEvent(ctx context.Context, eventType string, productID uuid.UUID) error {
	event := CatalogEvent{
		Type:      eventType,
		ProductID: productID,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog event: %w", err)
	}

	pubAck, err := p.js.Publish(StreamSubjects, data, nats.Context(ctx))
	if err != nil {
		p.logger.WithFields(map[string]interface{}{
			"subject":    StreamSubjects,
			"type":       eventType,
			"product_id": productID.String(),
		}).Error("Failed to publish catalog event", err)
		return fmt.Errorf("failed to publish to JetStream: %w", err)
	}

	p.logger.WithFields(map[string]interface{}{
		"subject":  StreamSubjects,
		"type":     eventType,
		"stream":   pubAck.Stream,
		"sequence": pubAck.Sequence,
	}).Debug("Published catalog event")

	return nil
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
		p.logger.Info("NATS publisher connection closed")
	}
}
