package workflows

import (
	"context"
	"fmt"

	"github.com/hypernova-labs/agency-functions/internal/config"
	"github.com/inngest/inngestgo"
	"github.com/sirupsen/logrus"
)

// InngestClient publica los eventos de dominio en Inngest
type InngestClient struct {
	client inngestgo.Client
	logger *logrus.Logger
}

// NewInngestClient crea una nueva instancia del cliente
func NewInngestClient(cfg *config.Config, logger *logrus.Logger) (*InngestClient, error) {
	if cfg.Inngest.EventKey == "" {
		return nil, fmt.Errorf("INNGEST_EVENT_KEY not configured")
	}

	opts := inngestgo.ClientOpts{
		AppID:    cfg.Inngest.AppID,
		EventKey: &cfg.Inngest.EventKey,
		Dev:      &cfg.Inngest.Dev,
	}
	if cfg.Inngest.SigningKey != "" {
		opts.SigningKey = &cfg.Inngest.SigningKey
	}

	client, err := inngestgo.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("error creating Inngest client: %w", err)
	}

	return &InngestClient{
		client: client,
		logger: logger,
	}, nil
}

// Publish envía un evento a Inngest
func (c *InngestClient) Publish(ctx context.Context, name string, data map[string]interface{}) error {
	id, err := c.client.Send(ctx, inngestgo.Event{
		Name: name,
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("error sending event %s: %w", name, err)
	}

	c.logger.WithFields(logrus.Fields{
		"event":    name,
		"event_id": id,
	}).Debug("Event published to Inngest")

	return nil
}

// GetClient retorna el cliente de Inngest
func (c *InngestClient) GetClient() inngestgo.Client {
	return c.client
}
