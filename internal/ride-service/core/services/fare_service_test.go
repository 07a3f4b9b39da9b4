package services

import (
	"math"
	"testing"

	domain "rideway/internal/ride-service/core/domain/model"
)

func TestHaversineSamePointIsZero(t *testing.T) {
	if d := HaversineKm(51.1694, 71.4491, 51.1694, 71.4491); d != 0 {
		t.Errorf("expected 0 distance, got %v", d)
	}
}

func TestHaversineSymmetry(t *testing.T) {
	a := HaversineKm(51.1694, 71.4491, 43.2389, 76.8897)
	b := HaversineKm(43.2389, 76.8897, 51.1694, 71.4491)

	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance is not symmetric: %v vs %v", a, b)
	}
	if a <= 0 {
		t.Errorf("expected positive distance, got %v", a)
	}
}

func TestQuoteCarTenKm(t *testing.T) {
	fs := NewFareService(DefaultTariffs())

	quote, err := fs.Quote(10, domain.CategoryCar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.DurationMinutes != 20 {
		t.Errorf("duration: expected 20, got %d", quote.DurationMinutes)
	}
	if quote.DurationMinMinutes != 15 || quote.DurationMaxMinutes != 25 {
		t.Errorf("duration window: expected [15, 25], got [%d, %d]",
			quote.DurationMinMinutes, quote.DurationMaxMinutes)
	}
	if quote.BaseFare != 500 {
		t.Errorf("base fare: expected 500, got %d", quote.BaseFare)
	}
	if quote.DistanceFare != 1500 {
		t.Errorf("distance fare: expected 1500, got %d", quote.DistanceFare)
	}
	if quote.TimeFare != 400 {
		t.Errorf("time fare: expected 400, got %d", quote.TimeFare)
	}
	if quote.Subtotal != 2400 {
		t.Errorf("subtotal: expected 2400, got %d", quote.Subtotal)
	}
	if quote.ServiceFee != 240 {
		t.Errorf("service fee: expected 240, got %d", quote.ServiceFee)
	}
	if quote.TotalFare != 2640 {
		t.Errorf("total fare: expected 2640, got %d", quote.TotalFare)
	}
}

func TestQuoteAllCategories(t *testing.T) {
	fs := NewFareService(DefaultTariffs())

	// 6km trip, duration = round(6/30*60) = 12 minutes
	tests := []struct {
		category domain.Category
		subtotal int64
		fee      int64
		total    int64
		distance float64
	}{
		{domain.CategoryBicycle, 620, 31, 651, 6},
		{domain.CategoryMotorcycle, 1080, 86, 1166, 6},
		{domain.CategoryCar, 1640, 164, 1804, 6},
	}

	for _, tc := range tests {
		quote, err := fs.Quote(tc.distance, tc.category)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.category, err)
		}
		if quote.Subtotal != tc.subtotal || quote.ServiceFee != tc.fee || quote.TotalFare != tc.total {
			t.Errorf("%s: expected subtotal/fee/total %d/%d/%d, got %d/%d/%d",
				tc.category, tc.subtotal, tc.fee, tc.total,
				quote.Subtotal, quote.ServiceFee, quote.TotalFare)
		}
	}
}

func TestQuoteUnknownCategory(t *testing.T) {
	fs := NewFareService(DefaultTariffs())

	if _, err := fs.Quote(10, domain.Category("rickshaw")); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestQuoteShortTripDurationWindowFloor(t *testing.T) {
	fs := NewFareService(DefaultTariffs())

	// 1km -> duration round(1/30*60)=2, window floor kicks in
	quote, err := fs.Quote(1, domain.CategoryBicycle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.DurationMinutes != 2 {
		t.Errorf("duration: expected 2, got %d", quote.DurationMinutes)
	}
	if quote.DurationMinMinutes != 5 {
		t.Errorf("window min: expected floor of 5, got %d", quote.DurationMinMinutes)
	}
	if quote.DurationMaxMinutes != 7 {
		t.Errorf("window max: expected 7, got %d", quote.DurationMaxMinutes)
	}
}
