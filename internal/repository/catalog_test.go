package repository_test

import (
	"context"
	domain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/events"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"sync"
	"testing"
)

func TestDefaultEvents(t *testing.T) {
	events, err := repository.DefaultEvents()
	require.NoError(t, err)
	require.Len(t, events, 4)

	first := events[0]
	assert.Equal(t, "evt_001", first.ID)
	assert.Equal(t, "Mindful Morning Coffee Chat", first.Title)
	assert.Equal(t, domain.CategoryWellness, first.Category)
	assert.Equal(t, "2025-03-15", first.Date.Format(domain.DateLayout))
	assert.True(t, first.Price.IsZero())
	assert.True(t, first.Featured)
	assert.Equal(t, []string{"mindfulness", "networking", "coffee"}, first.Tags)
	assert.Equal(t, "Sarah Chen", first.Organizer.Name)
}

func TestLoadEvents_RejectsBadRecords(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{
			name: "over capacity",
			yaml: `- {id: e1, category: Wellness, date: "2025-01-01", max_attendees: 1, current_attendees: 2}`,
		},
		{
			name: "unknown category",
			yaml: `- {id: e1, category: Sports, date: "2025-01-01", max_attendees: 1}`,
		},
		{
			name: "all is not a real category",
			yaml: `- {id: e1, category: All, date: "2025-01-01", max_attendees: 1}`,
		},
		{
			name: "negative price",
			yaml: `- {id: e1, category: Wellness, date: "2025-01-01", max_attendees: 1, price: "-1"}`,
		},
		{
			name: "duplicate id",
			yaml: "- {id: e1, category: Wellness, date: \"2025-01-01\", max_attendees: 1}\n" +
				"- {id: e1, category: Wellness, date: \"2025-01-02\", max_attendees: 1}",
		},
		{
			name: "bad date",
			yaml: `- {id: e1, category: Wellness, date: "15/03/2025", max_attendees: 1}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repository.LoadEvents(strings.NewReader(tc.yaml))
			require.Error(t, err)
		})
	}
}

func TestCatalogRepo_ListAndGet(t *testing.T) {
	ctx := context.Background()
	events, err := repository.DefaultEvents()
	require.NoError(t, err)
	repo := repository.NewCatalogRepo(events)

	f, err := domain.NewFilters(domain.FilterParams{Search: "coffee"})
	require.NoError(t, err)

	got, err := repo.List(ctx, f)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mindful Morning Coffee Chat", got[0].Title)

	e, ok, err := repo.Get(ctx, "evt_002")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Productivity Power Hour", e.Title)

	_, ok, err = repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewCatalogRepo([]domain.Event{
		{ID: "e1", MaxAttendees: 3, Tags: []string{"coffee"}},
	})

	e, _, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	e.CurrentAttendees = 3
	e.Tags[0] = "tea"

	listed, err := repo.List(ctx, domain.AllEvents())
	require.NoError(t, err)
	listed[0].CurrentAttendees = 2

	stored, _, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentAttendees)
	assert.Equal(t, []string{"coffee"}, stored.Tags)
}

func TestCatalogRepo_ApplyRegistration(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewCatalogRepo([]domain.Event{{ID: "e1", MaxAttendees: 1}})

	e, err := repo.ApplyRegistration(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 1, e.CurrentAttendees)

	e, err = repo.ApplyRegistration(ctx, "e1")
	require.ErrorIs(t, err, domain.ErrEventFull)
	assert.Equal(t, 1, e.CurrentAttendees)

	_, err = repo.ApplyRegistration(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestCatalogRepo_ApplyRegistrationConcurrently(t *testing.T) {
	ctx := context.Background()
	const seats = 10
	repo := repository.NewCatalogRepo([]domain.Event{{ID: "e1", MaxAttendees: seats}})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ApplyRegistration(ctx, "e1"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	e, _, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, seats, succeeded)
	assert.Equal(t, seats, e.CurrentAttendees)
}
