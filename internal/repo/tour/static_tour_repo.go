package tour_repo

import (
	"TourPay/internal/domain/tour"
	"context"
	"fmt"
	"slices"
)

// StaticTourRepo serves a fixed catalog. It backs the memory storage mode
// and mirrors the rows seeded by the tours migration.
type StaticTourRepo struct {
	tours []tour.Tour
}

func NewStaticTourRepo(tours ...tour.Tour) *StaticTourRepo {
	if len(tours) == 0 {
		tours = DefaultCatalog()
	}
	return &StaticTourRepo{tours: tours}
}

func (r *StaticTourRepo) GetTour(ctx context.Context, id string) (tour.Tour, error) {
	if err := ctx.Err(); err != nil {
		return tour.Tour{}, err
	}
	for _, t := range r.tours {
		if t.ID == id {
			return t, nil
		}
	}
	return tour.Tour{}, fmt.Errorf("%w: %s", tour.ErrNotFound, id)
}

func (r *StaticTourRepo) ListTours(ctx context.Context) ([]tour.Tour, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(r.tours), nil
}

func DefaultCatalog() []tour.Tour {
	return []tour.Tour{
		{
			ID:          "cu-chi-tunnels",
			Name:        "Cu Chi Tunnels – Binh Duong Eco-tourism",
			Subtitle:    "Unearthing Heritage, Embracing Nature",
			Type:        "Day-tour",
			BookingType: "day-tour",
			Duration:    "5 hours",
			Image:       "/images/tours/cu-chi-tunnels.png",
			AdultPrice:  2_500_000,
			ChildPrice:  2_125_000,
			InfantPrice: 0,
			Includes: []string{
				"Refreshments onboard",
				"Traditional Vietnamese lunch",
				"All entrance fees",
				"Pick-up and drop-off from downtown hotels",
				"Travel insurance",
			},
			Notes: []string{
				"Gratuity: $5 USD/person/day (guide, driver, and staff).",
				"Flexible cancellation up to 10 days prior to travel.",
			},
		},
		{
			ID:          "sunset-cruise",
			Name:        "Saigon Sunset Cruise",
			Subtitle:    "Witness the Golden Hour on Saigon River",
			Type:        "Cruise",
			BookingType: "day-tour",
			Duration:    "2 hours",
			Image:       "/images/tours/sunset-cruise.jpg",
			AdultPrice:  950_000,
			ChildPrice:  650_000,
			InfantPrice: 0,
			Includes: []string{
				"Sunset cruise on Saigon River",
				"Welcome drink",
				"Light snacks",
				"Live music entertainment",
			},
			Notes: []string{
				"Tour departs at 5:30 PM daily",
				"Not recommended for children under 4",
			},
		},
		{
			ID:          "mekong-delta",
			Name:        "Mekong Delta Adventure",
			Subtitle:    "Explore the Rice Bowl of Vietnam",
			Type:        "Day-tour",
			BookingType: "overnight-tour",
			Duration:    "2 days / 1 night",
			Image:       "/images/tours/mekong-delta.jpg",
			AdultPrice:  2_500_000,
			ChildPrice:  1_800_000,
			InfantPrice: 0,
			Includes: []string{
				"Luxury speedboat transfer",
				"Visit to floating markets",
				"Sampan boat ride through canals",
				"English-speaking guide",
			},
			Notes: []string{
				"Early departure at 6:30 AM",
				"Moderate physical activity required",
			},
		},
	}
}
