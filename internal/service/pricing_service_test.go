package service

import (
	"testing"

	"github.com/campuspool/campuspool/internal/models"
)

func TestPerSeatPrice(t *testing.T) {
	ps := NewPricingService()

	tests := []struct {
		name       string
		basePrice  string
		totalSeats int
		want       string
	}{
		{"Even split", "100.00", 4, "25.00"},
		{"Even split three ways", "60.00", 3, "20.00"},
		{"Uneven split rounds half up", "100.00", 3, "33.33"},
		{"Half cent rounds up", "0.50", 4, "0.13"},
		{"Single seat", "12.75", 1, "12.75"},
		{"Free ride", "0.00", 3, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, err := models.ParseMoney(tt.basePrice)
			if err != nil {
				t.Fatalf("ParseMoney(%q): %v", tt.basePrice, err)
			}
			got := ps.PerSeatPrice(base, tt.totalSeats)
			if got.String() != tt.want {
				t.Errorf("PerSeatPrice(%s, %d) = %s, want %s", tt.basePrice, tt.totalSeats, got, tt.want)
			}
		})
	}
}

func TestCostFor(t *testing.T) {
	ps := NewPricingService()

	tests := []struct {
		name    string
		perSeat string
		seats   int
		want    string
	}{
		{"One seat", "25.00", 1, "25.00"},
		{"Two seats", "25.00", 2, "50.00"},
		{"Rounded per-seat price", "33.33", 3, "99.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perSeat, err := models.ParseMoney(tt.perSeat)
			if err != nil {
				t.Fatalf("ParseMoney(%q): %v", tt.perSeat, err)
			}
			got := ps.CostFor(tt.seats, perSeat)
			if got.String() != tt.want {
				t.Errorf("CostFor(%d, %s) = %s, want %s", tt.seats, tt.perSeat, got, tt.want)
			}
		})
	}
}

// The per-seat price is fixed by total capacity, so the cost of a given
// seat count never depends on booking order.
func TestCostIndependentOfRemainingSeats(t *testing.T) {
	ps := NewPricingService()

	base, _ := models.ParseMoney("60.00")
	perSeat := ps.PerSeatPrice(base, 3)

	first := ps.CostFor(2, perSeat)
	second := ps.CostFor(2, perSeat)
	if first != second {
		t.Errorf("same seat count priced differently: %s vs %s", first, second)
	}
	if want, _ := models.ParseMoney("40.00"); first != want {
		t.Errorf("CostFor(2) = %s, want %s", first, want)
	}
}
