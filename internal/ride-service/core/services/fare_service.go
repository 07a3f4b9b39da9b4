package services

import (
	"errors"
	"fmt"
	"math"

	domain "rideway/internal/ride-service/core/domain/model"
)

var ErrUnknownCategory = errors.New("unknown ride category")

const (
	EarthRadiusKm = 6371

	// Assumed flat average speed for the duration estimate.
	AverageSpeedKmH = 30

	MinDurationWindowMinutes = 5
)

// Tariff is the per-category pricing row. Amounts are whole currency
// units, the service fee is a percentage of the subtotal.
type Tariff struct {
	BaseFare          int64
	PerKmRate         int64
	PerMinuteRate     int64
	ServiceFeePercent int64
}

type TariffTable map[domain.Category]Tariff

// DefaultTariffs returns the fixed tariff table. Injected into the fare
// service rather than referenced as ambient state so tests can override it.
func DefaultTariffs() TariffTable {
	return TariffTable{
		domain.CategoryBicycle:    {BaseFare: 200, PerKmRate: 50, PerMinuteRate: 10, ServiceFeePercent: 5},
		domain.CategoryMotorcycle: {BaseFare: 300, PerKmRate: 100, PerMinuteRate: 15, ServiceFeePercent: 8},
		domain.CategoryCar:        {BaseFare: 500, PerKmRate: 150, PerMinuteRate: 20, ServiceFeePercent: 10},
	}
}

// FareQuote is a deterministic fare breakdown for one trip.
type FareQuote struct {
	Category           domain.Category
	DistanceKm         float64
	DurationMinutes    int64
	DurationMinMinutes int64
	DurationMaxMinutes int64
	BaseFare           int64
	DistanceFare       int64
	TimeFare           int64
	Subtotal           int64
	ServiceFee         int64
	TotalFare          int64
}

type FareService struct {
	tariffs TariffTable
}

func NewFareService(tariffs TariffTable) *FareService {
	return &FareService{tariffs: tariffs}
}

// Estimate produces a fare quote for the trip between two points.
// Rounding is to the nearest whole currency unit and each component is
// rounded before it is added, never after.
func (fs *FareService) Estimate(pickup, destination domain.Location, category domain.Category) (FareQuote, error) {
	distance := HaversineKm(pickup.Latitude, pickup.Longitude, destination.Latitude, destination.Longitude)
	return fs.Quote(distance, category)
}

// Quote prices an already-known distance.
func (fs *FareService) Quote(distance float64, category domain.Category) (FareQuote, error) {
	tariff, ok := fs.tariffs[category]
	if !ok {
		return FareQuote{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	duration := int64(math.Round(distance / AverageSpeedKmH * 60))

	minDuration := duration - MinDurationWindowMinutes
	if minDuration < MinDurationWindowMinutes {
		minDuration = MinDurationWindowMinutes
	}
	maxDuration := duration + MinDurationWindowMinutes

	distanceFare := int64(math.Round(distance * float64(tariff.PerKmRate)))
	timeFare := int64(math.Round(float64(duration) * float64(tariff.PerMinuteRate)))
	subtotal := tariff.BaseFare + distanceFare + timeFare
	serviceFee := int64(math.Round(float64(subtotal) * float64(tariff.ServiceFeePercent) / 100))
	totalFare := subtotal + serviceFee

	return FareQuote{
		Category:           category,
		DistanceKm:         distance,
		DurationMinutes:    duration,
		DurationMinMinutes: minDuration,
		DurationMaxMinutes: maxDuration,
		BaseFare:           tariff.BaseFare,
		DistanceFare:       distanceFare,
		TimeFare:           timeFare,
		Subtotal:           subtotal,
		ServiceFee:         serviceFee,
		TotalFare:          totalFare,
	}, nil
}

// HaversineKm is the great-circle distance between two points given in
// decimal degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
