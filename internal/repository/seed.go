package repository

import (
	_ "embed"
	"fmt"
	domain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/events"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"io"
	"time"
)

//go:embed seed/events.yaml
var defaultSeed []byte

type seedOrganizer struct {
	Name   string `yaml:"name"`
	Avatar string `yaml:"avatar"`
}

type seedEvent struct {
	ID               string        `yaml:"id"`
	Title            string        `yaml:"title"`
	Description      string        `yaml:"description"`
	Date             string        `yaml:"date"`
	Time             string        `yaml:"time"`
	Location         string        `yaml:"location"`
	Category         string        `yaml:"category"`
	MaxAttendees     int           `yaml:"max_attendees"`
	CurrentAttendees int           `yaml:"current_attendees"`
	Price            string        `yaml:"price"`
	Image            string        `yaml:"image"`
	Featured         bool          `yaml:"featured"`
	Tags             []string      `yaml:"tags"`
	Organizer        seedOrganizer `yaml:"organizer"`
	CreatedAt        string        `yaml:"created_at"`
	UpdatedAt        string        `yaml:"updated_at"`
}

// DefaultEvents decodes the catalog bundled with the binary.
func DefaultEvents() ([]domain.Event, error) {
	return decodeSeed(defaultSeed)
}

// LoadEvents decodes a seed file in the bundled format.
func LoadEvents(r io.Reader) ([]domain.Event, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading seed: %w", err)
	}
	return decodeSeed(raw)
}

func decodeSeed(raw []byte) ([]domain.Event, error) {
	var seeds []seedEvent
	if err := yaml.Unmarshal(raw, &seeds); err != nil {
		return nil, fmt.Errorf("decoding seed: %w", err)
	}

	events := make([]domain.Event, 0, len(seeds))
	seen := make(map[string]struct{}, len(seeds))
	for i, s := range seeds {
		e, err := s.toEvent()
		if err != nil {
			return nil, fmt.Errorf("seed event #%d (%s): %w", i, s.ID, err)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("seed event #%d: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = struct{}{}
		events = append(events, e)
	}

	return events, nil
}

func (s seedEvent) toEvent() (domain.Event, error) {
	if s.ID == "" {
		return domain.Event{}, fmt.Errorf("missing id")
	}

	category, ok := domain.ParseCategory(s.Category)
	if !ok || category == domain.CategoryAll {
		return domain.Event{}, fmt.Errorf("invalid category %q", s.Category)
	}

	if s.MaxAttendees <= 0 {
		return domain.Event{}, fmt.Errorf("max_attendees must be positive, got %d", s.MaxAttendees)
	}
	if s.CurrentAttendees < 0 || s.CurrentAttendees > s.MaxAttendees {
		return domain.Event{}, fmt.Errorf("current_attendees %d out of range [0, %d]", s.CurrentAttendees, s.MaxAttendees)
	}

	date, err := domain.ParseDay(s.Date)
	if err != nil {
		return domain.Event{}, err
	}

	price := decimal.Zero
	if s.Price != "" {
		price, err = decimal.NewFromString(s.Price)
		if err != nil {
			return domain.Event{}, fmt.Errorf("invalid price: %w", err)
		}
	}
	if price.IsNegative() {
		return domain.Event{}, fmt.Errorf("price must not be negative, got %s", price)
	}

	createdAt, err := parseTimestamp(s.CreatedAt)
	if err != nil {
		return domain.Event{}, fmt.Errorf("invalid created_at: %w", err)
	}
	updatedAt, err := parseTimestamp(s.UpdatedAt)
	if err != nil {
		return domain.Event{}, fmt.Errorf("invalid updated_at: %w", err)
	}

	return domain.Event{
		ID:               s.ID,
		Title:            s.Title,
		Description:      s.Description,
		Date:             date,
		Time:             s.Time,
		Location:         s.Location,
		Category:         category,
		MaxAttendees:     s.MaxAttendees,
		CurrentAttendees: s.CurrentAttendees,
		Price:            price,
		Image:            s.Image,
		Featured:         s.Featured,
		Tags:             s.Tags,
		Organizer:        domain.Organizer{Name: s.Organizer.Name, Avatar: s.Organizer.Avatar},
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
