package cmd

import (
	"bytes"
	"encoding/json"
	edomain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"time"
)

func TestEventsCommand_JSON(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"events", "--category", "Creativity", "--json"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		evCategory, evJSON = "", false
	})

	require.NoError(t, Execute())

	var events []edomain.Event
	require.NoError(t, json.Unmarshal(out.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "evt_003", events[0].ID)
}

func TestWriteEventsTable(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	events := []edomain.Event{
		{
			ID:               "e1",
			Title:            "Coffee Chat",
			Date:             edomain.NewDay(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)),
			Category:         edomain.CategoryWellness,
			MaxAttendees:     20,
			CurrentAttendees: 5,
			Price:            decimal.Zero,
		},
		{
			ID:               "e2",
			Title:            "Old Meetup",
			Date:             edomain.NewDay(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)),
			Category:         edomain.CategoryNetworking,
			MaxAttendees:     10,
			CurrentAttendees: 10,
			Price:            decimal.NewFromInt(150000),
		},
	}

	var out bytes.Buffer
	require.NoError(t, writeEventsTable(&out, events, now))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Free")
	assert.Contains(t, lines[1], "15/20")
	assert.Contains(t, lines[1], "upcoming")
	assert.Contains(t, lines[2], "₹1,50,000.00")
	assert.Contains(t, lines[2], "past")
}
