package domain

import "time"

// Receipt summarises a booking for the operator.
type Receipt struct {
	Number        string
	BookingID     string
	CustomerName  string
	CustomerPhone string
	Pickup        string
	Drop          string
	VehicleType   VehicleType
	RatePerKm     float64
	DistanceKm    float64
	EstimatedFare string
	PaymentMethod PaymentMethod
	Status        BookingStatus
	ScheduledFor  time.Time
	BookedAt      time.Time
	IssuedAt      time.Time
}
