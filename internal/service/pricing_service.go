package service

import (
	"github.com/campuspool/campuspool/internal/models"
)

// PricingService derives what each rider owes from a ride's flat price.
// The per-seat price depends on total capacity only, never on how many
// seats happen to remain, so a booking's cost is reproducible forever.
type PricingService interface {
	PerSeatPrice(basePrice models.Money, totalSeats int) models.Money
	CostFor(seats int, perSeat models.Money) models.Money
}

type pricingService struct{}

func NewPricingService() PricingService {
	return &pricingService{}
}

// PerSeatPrice splits the base price evenly across all seats, rounding
// half-up to the minor unit. totalSeats must be >= 1; ride creation
// rejects anything else.
func (s *pricingService) PerSeatPrice(basePrice models.Money, totalSeats int) models.Money {
	return basePrice.Div(totalSeats)
}

func (s *pricingService) CostFor(seats int, perSeat models.Money) models.Money {
	return perSeat.Mul(seats)
}
