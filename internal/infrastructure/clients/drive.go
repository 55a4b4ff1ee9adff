package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/config"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/domain/proofs"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

var ErrBadUploadResponse = errors.New("Upload failed (bad response)")

type uploadResponse struct {
	Ok    *bool  `json:"ok"`
	URL   string `json:"url"`
	Error string `json:"error"`
}

// DriveClient stores payment proofs through the file-storage webhook and
// returns the public URL of the stored file.
type DriveClient struct {
	webhook     *WebhookClient
	primaryURL  string
	fallbackURL string
}

func NewDriveClient(webhook *WebhookClient, primaryURL, fallbackURL string) DriveClient {
	return DriveClient{
		webhook:     webhook,
		primaryURL:  primaryURL,
		fallbackURL: fallbackURL,
	}
}

func (c DriveClient) Upload(ctx context.Context, proof proofs.Proof) (string, error) {
	if c.primaryURL == "" && c.fallbackURL == "" {
		return "", &config.MissingEnvError{Name: config.EnvDriveWebhookURL}
	}

	var primaryErr error
	if c.primaryURL != "" {
		url, err := c.upload(ctx, "primary", c.primaryURL, proof)
		if err == nil {
			return url, nil
		}
		if c.fallbackURL == "" {
			return "", err
		}
		primaryErr = err

		log.FromContext(ctx).
			WithField("error", err).
			Warn("Drive webhook failed, trying fallback")
	}

	url, err := c.upload(ctx, "fallback", c.fallbackURL, proof)
	if err != nil {
		if primaryErr != nil {
			return "", fmt.Errorf("fallback upload failed after primary error (%v): %w", primaryErr, err)
		}
		return "", err
	}

	return url, nil
}

// Forward is the upload proxy path: primary webhook only.
func (c DriveClient) Forward(ctx context.Context, proof proofs.Proof) (string, error) {
	if c.primaryURL == "" {
		return "", &config.MissingEnvError{Name: config.EnvDriveWebhookURL}
	}
	return c.upload(ctx, "primary", c.primaryURL, proof)
}

func (c DriveClient) upload(ctx context.Context, target, url string, proof proofs.Proof) (string, error) {
	body, err := json.Marshal(proof)
	if err != nil {
		return "", fmt.Errorf("encoding proof: %w", err)
	}

	respBody, err := c.webhook.PostJSON(ctx, target, url, body)
	if err != nil {
		return "", err
	}

	var resp uploadResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", ErrBadUploadResponse
	}
	if resp.Ok != nil && !*resp.Ok {
		if resp.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrBadUploadResponse, resp.Error)
		}
		return "", ErrBadUploadResponse
	}
	if resp.URL == "" {
		return "", ErrBadUploadResponse
	}

	return resp.URL, nil
}
