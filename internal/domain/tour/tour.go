package tour

import (
	"context"
	"errors"
)

//go:generate mockgen -source tour.go -destination mock_source.go -package tour

var ErrNotFound = errors.New("tour not found")

// Tour prices are whole VND.
type Tour struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Subtitle    string   `json:"subtitle"`
	Type        string   `json:"type"`
	BookingType string   `json:"booking_type"`
	Duration    string   `json:"duration"`
	Image       string   `json:"image"`
	AdultPrice  int64    `json:"adult_price"`
	ChildPrice  int64    `json:"child_price"`
	InfantPrice int64    `json:"infant_price"`
	Includes    []string `json:"includes"`
	Notes       []string `json:"notes"`
}

// Price is the total for a party. Counts must already be validated as
// non-negative.
func (t Tour) Price(adults, children, infants int) int64 {
	return int64(adults)*t.AdultPrice + int64(children)*t.ChildPrice + int64(infants)*t.InfantPrice
}

// Source is the tour catalog of record.
type Source interface {
	// GetTour returns ErrNotFound for an unknown id.
	GetTour(ctx context.Context, id string) (Tour, error)
	ListTours(ctx context.Context) ([]Tour, error)
}
