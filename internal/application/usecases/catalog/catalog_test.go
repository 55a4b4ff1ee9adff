package catalog_test

import (
	"context"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/application/usecases/catalog"
	domain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/events"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func newUsecase(t *testing.T, events []domain.Event) *catalog.QueryEventsUsecase {
	t.Helper()
	return catalog.NewQueryEventsUsecase(repository.NewCatalogRepo(events))
}

func TestQueryEventsUsecase_FeaturedEvents(t *testing.T) {
	events := []domain.Event{
		{ID: "e1", Featured: true},
		{ID: "e2"},
		{ID: "e3", Featured: true},
		{ID: "e4", Featured: true},
		{ID: "e5", Featured: true},
	}

	got, err := newUsecase(t, events).FeaturedEvents(context.Background())
	require.NoError(t, err)

	var ids []string
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"e1", "e3", "e4"}, ids)
}

func TestQueryEventsUsecase_GetEvent(t *testing.T) {
	uc := newUsecase(t, []domain.Event{{ID: "e1", Title: "Coffee"}})

	e, err := uc.GetEvent(context.Background(), "e1")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "Coffee", e.Title)

	e, err = uc.GetEvent(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestQueryEventsUsecase_Categories(t *testing.T) {
	uc := newUsecase(t, nil)

	cats := uc.Categories()
	require.Len(t, cats, 6)
	assert.Equal(t, domain.CategoryAll, cats[0])

	cats[0] = "Mutated"
	assert.Equal(t, domain.CategoryAll, uc.Categories()[0])
}
