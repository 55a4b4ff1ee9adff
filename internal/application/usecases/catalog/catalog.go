package catalog

import (
	"context"
	"fmt"
	"github.com/AlekSi/pointer"
	domain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/events"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"
)

const featuredLimit = 3

type EventsRepo interface {
	List(ctx context.Context, f domain.Filters) ([]domain.Event, error)
	Get(ctx context.Context, id string) (domain.Event, bool, error)
}

type QueryEventsUsecase struct {
	eventsRepo EventsRepo
}

func NewQueryEventsUsecase(eventsRepo EventsRepo) *QueryEventsUsecase {
	return &QueryEventsUsecase{
		eventsRepo: eventsRepo,
	}
}

func (u *QueryEventsUsecase) ListEvents(ctx context.Context, f domain.Filters) ([]domain.Event, error) {
	events, err := u.eventsRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"category": f.Category(),
		"search":   f.Search(),
		"sort":     f.Sort(),
		"limit":    f.Limit(),
		"results":  len(events),
	}).Debug("Listed events")

	return events, nil
}

// GetEvent returns nil, nil when no event has the id.
func (u *QueryEventsUsecase) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	e, ok, err := u.eventsRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", id, err)
	}
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// FeaturedEvents is what the home page shows: the first three featured events.
func (u *QueryEventsUsecase) FeaturedEvents(ctx context.Context) ([]domain.Event, error) {
	f, err := domain.NewFilters(domain.FilterParams{
		Featured: pointer.ToBool(true),
		Limit:    featuredLimit,
	})
	if err != nil {
		return nil, err
	}
	return u.ListEvents(ctx, f)
}

func (u *QueryEventsUsecase) Categories() []domain.Category {
	return append([]domain.Category(nil), domain.Categories...)
}
