// Package fare holds the flat per-kilometre rate table used for booking estimates.
package fare

import (
	"math"
	"strconv"

	"ruralride/internal/domain"
)

// DistanceKm is the fixed trip distance the estimate assumes.
const DistanceKm = 10.0

// rates are per-kilometre prices for each vehicle category.
var rates = map[domain.VehicleType]float64{
	domain.VehicleTypeBike: 5,
	domain.VehicleTypeAuto: 8,
	domain.VehicleTypeCar:  12,
	domain.VehicleTypeSUV:  15,
}

// Quote is the estimate shown for one vehicle category.
type Quote struct {
	VehicleType domain.VehicleType `json:"vehicleType"`
	RatePerKm   float64            `json:"ratePerKm"`
	DistanceKm  float64            `json:"distanceKm"`
	Estimate    float64            `json:"estimate"`
}

// Rate returns the per-kilometre rate for a vehicle category.
func Rate(v domain.VehicleType) (float64, bool) {
	r, ok := rates[v]
	return r, ok
}

// Estimate returns rate(v) * DistanceKm, or 0 for an unknown category.
func Estimate(v domain.VehicleType) float64 {
	return rates[v] * DistanceKm
}

// Quotes returns the estimate for every vehicle category in display order.
func Quotes() []Quote {
	quotes := make([]Quote, 0, len(domain.VehicleTypes))
	for _, v := range domain.VehicleTypes {
		quotes = append(quotes, Quote{
			VehicleType: v,
			RatePerKm:   rates[v],
			DistanceKm:  DistanceKm,
			Estimate:    Estimate(v),
		})
	}
	return quotes
}

// Format renders an amount the way estimates travel on the wire ("80", "12.5").
func Format(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// Verify reports whether a submitted fare is within tolerance of the server-side estimate.
// tolerance is a fraction of the estimate (0.1 allows ±10%).
func Verify(v domain.VehicleType, submitted float64, tolerance float64) bool {
	expected := Estimate(v)
	if expected == 0 {
		return false
	}
	return math.Abs(submitted-expected) <= expected*tolerance
}
