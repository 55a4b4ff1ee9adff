package events

import (
	"encoding/json"
	"fmt"
	"github.com/shopspring/decimal"
	"math"
	"time"
)

func init() {
	// prices go over the wire as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Category string

const (
	CategoryAll          Category = "All"
	CategoryWellness     Category = "Wellness"
	CategoryProductivity Category = "Productivity"
	CategoryCreativity   Category = "Creativity"
	CategoryCommunity    Category = "Community"
	CategoryNetworking   Category = "Networking"
)

// Categories lists the filterable categories, with the All sentinel first.
var Categories = []Category{
	CategoryAll,
	CategoryWellness,
	CategoryProductivity,
	CategoryCreativity,
	CategoryCommunity,
	CategoryNetworking,
}

func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

const DateLayout = "2006-01-02"

// Day is a calendar date. It is encoded as "2006-01-02" in JSON.
type Day struct {
	time.Time
}

func NewDay(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Day{Time: t}, nil
}

func (d Day) String() string {
	return d.Format(DateLayout)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	day, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

type Organizer struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type Event struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Date             Day             `json:"date"`
	Time             string          `json:"time"`
	Location         string          `json:"location"`
	Category         Category        `json:"category"`
	MaxAttendees     int             `json:"maxAttendees"`
	CurrentAttendees int             `json:"currentAttendees"`
	Price            decimal.Decimal `json:"price"`
	Image            string          `json:"image"`
	Featured         bool            `json:"featured"`
	Tags             []string        `json:"tags"`
	Organizer        Organizer       `json:"organizer"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// SpotsLeft is never negative, even for records that violate the capacity bound.
func (e Event) SpotsLeft() int {
	return max(0, e.MaxAttendees-e.CurrentAttendees)
}

func (e Event) IsFull() bool {
	return e.CurrentAttendees >= e.MaxAttendees
}

func (e Event) IsFree() bool {
	return e.Price.IsZero()
}

// IsUpcoming reports whether the event day starts after now.
func (e Event) IsUpcoming(now time.Time) bool {
	return e.Date.After(now)
}

// DaysUntil rounds up, so an event later today or tomorrow morning counts as 1.
func (e Event) DaysUntil(now time.Time) int {
	return int(math.Ceil(e.Date.Sub(now).Hours() / 24))
}

type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusFull     Status = "full"
	StatusPast     Status = "past"
)

func (e Event) Status(now time.Time) Status {
	if !e.IsUpcoming(now) {
		return StatusPast
	}
	if e.IsFull() {
		return StatusFull
	}
	return StatusUpcoming
}

// Clone returns a copy that shares no slices with e.
func (e Event) Clone() Event {
	c := e
	if e.Tags != nil {
		c.Tags = append([]string(nil), e.Tags...)
	}
	return c
}
