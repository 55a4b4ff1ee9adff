package repository

import (
	"context"
	"fmt"
	domain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/events"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"sync"
	"time"
)

// CatalogRepo keeps events in process memory. Attendee counts reset on
// restart and are not shared between replicas.
type CatalogRepo struct {
	mu     sync.RWMutex
	events []domain.Event
	index  map[string]int
	now    func() time.Time
}

func NewCatalogRepo(events []domain.Event) *CatalogRepo {
	r := &CatalogRepo{
		events: make([]domain.Event, 0, len(events)),
		index:  make(map[string]int, len(events)),
		now:    time.Now,
	}
	for _, e := range events {
		r.index[e.ID] = len(r.events)
		r.events = append(r.events, e.Clone())
	}
	return r
}

// List returns copies in insertion order, filtered and sorted by f.
func (r *CatalogRepo) List(ctx context.Context, f domain.Filters) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := f.Apply(r.events)
	for i := range result {
		result[i] = result[i].Clone()
	}

	return result, nil
}

// Get returns false for unknown ids.
func (r *CatalogRepo) Get(ctx context.Context, id string) (domain.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return domain.Event{}, false, nil
	}

	return r.events[i].Clone(), true, nil
}

// ApplyRegistration is the only way attendee counts change. It never lets
// currentAttendees pass maxAttendees.
func (r *CatalogRepo) ApplyRegistration(ctx context.Context, id string) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return domain.Event{}, fmt.Errorf("event %s: %w", id, domain.ErrEventNotFound)
	}

	e := &r.events[i]
	if e.IsFull() {
		return e.Clone(), fmt.Errorf("event %s has %d/%d attendees: %w", id, e.CurrentAttendees, e.MaxAttendees, domain.ErrEventFull)
	}

	e.CurrentAttendees++
	e.UpdatedAt = r.now().UTC()

	log.FromContext(ctx).
		WithField("event_id", id).
		WithField("current_attendees", e.CurrentAttendees).
		Debug("Registration applied to catalog")

	return e.Clone(), nil
}
