package app

import (
	"context"
	"fmt"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/config"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/domain/proofs"
	rdomain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/registrations"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/infrastructure/clients"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/infrastructure/event_publisher"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

type SheetsService interface {
	Submit(ctx context.Context, sub rdomain.Submission) error
	Forward(ctx context.Context, sub rdomain.Submission) error
	AppendContact(ctx context.Context, msg rdomain.ContactMessage) error
}

type DriveService interface {
	Upload(ctx context.Context, proof proofs.Proof) (string, error)
	Forward(ctx context.Context, proof proofs.Proof) (string, error)
}

// Deps are the outside-world dependencies of the App. Tests swap them for
// mocks.
type Deps struct {
	Sheets    SheetsService
	Drive     DriveService
	Publisher message.Publisher

	// closed on shutdown when set
	redisClient *redis.Client
}

func NewDeps(ctx context.Context, cfg config.Config, watermillLogger watermill.LoggerAdapter) (Deps, error) {
	sheets := clients.NewSheetsClient(
		clients.NewWebhookClient("sheets", cfg.HTTPClientTimeout),
		cfg.SheetsWebhookURL,
		cfg.SheetsFallbackWebhookURL,
	)
	drive := clients.NewDriveClient(
		clients.NewWebhookClient("drive", cfg.HTTPClientTimeout),
		cfg.DriveWebhookURL,
		cfg.DriveFallbackWebhookURL,
	)

	if cfg.RedisAddr == "" {
		return Deps{
			Sheets:    sheets,
			Drive:     drive,
			Publisher: event_publisher.NewInMemoryPubSub(watermillLogger),
		}, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return Deps{}, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
	}

	publisher, err := event_publisher.NewRedisPublisher(watermillLogger, redisClient)
	if err != nil {
		_ = redisClient.Close()
		return Deps{}, err
	}

	return Deps{
		Sheets:      sheets,
		Drive:       drive,
		Publisher:   publisher,
		redisClient: redisClient,
	}, nil
}
