package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/config"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/domain/registrations"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

// SheetsClient writes rows to the spreadsheet backend through its webhook.
type SheetsClient struct {
	webhook     *WebhookClient
	primaryURL  string
	fallbackURL string
}

func NewSheetsClient(webhook *WebhookClient, primaryURL, fallbackURL string) SheetsClient {
	return SheetsClient{
		webhook:     webhook,
		primaryURL:  primaryURL,
		fallbackURL: fallbackURL,
	}
}

// Submit sends a registration row, trying the fallback webhook when the
// primary one fails.
func (c SheetsClient) Submit(ctx context.Context, sub registrations.Submission) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}

	return c.postWithFallback(ctx, body)
}

func (c SheetsClient) AppendContact(ctx context.Context, msg registrations.ContactMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding contact message: %w", err)
	}

	return c.postWithFallback(ctx, body)
}

// Forward sends a submission to the primary webhook only. This is the
// registrations proxy path, which has no fallback of its own.
func (c SheetsClient) Forward(ctx context.Context, sub registrations.Submission) error {
	if c.primaryURL == "" {
		return &config.MissingEnvError{Name: config.EnvSheetsWebhookURL}
	}
	if err := sub.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}

	_, err = c.webhook.PostJSON(ctx, "primary", c.primaryURL, body)
	return err
}

func (c SheetsClient) postWithFallback(ctx context.Context, body []byte) error {
	if c.primaryURL == "" && c.fallbackURL == "" {
		return &config.MissingEnvError{Name: config.EnvSheetsWebhookURL}
	}

	var primaryErr error
	if c.primaryURL != "" {
		_, primaryErr = c.webhook.PostJSON(ctx, "primary", c.primaryURL, body)
		if primaryErr == nil {
			return nil
		}
		if c.fallbackURL == "" {
			return primaryErr
		}

		log.FromContext(ctx).
			WithField("error", primaryErr).
			Warn("Sheets webhook failed, trying fallback")
	}

	_, err := c.webhook.PostJSON(ctx, "fallback", c.fallbackURL, body)
	if err != nil {
		if primaryErr != nil {
			return fmt.Errorf("fallback webhook failed after primary error (%v): %w", primaryErr, err)
		}
		return err
	}

	return nil
}
