package domain

import "time"

// BookingStatus represents the lifecycle status of a booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in-progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// BookingStatuses lists every status a booking may hold.
var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

// Valid reports whether s is one of the enumerated statuses.
func (s BookingStatus) Valid() bool {
	for _, st := range BookingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// ParseBookingStatus returns the status named by s, or false if s is not a known status.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	st := BookingStatus(s)
	return st, st.Valid()
}

// VehicleType represents the vehicle category requested for a ride.
type VehicleType string

const (
	VehicleTypeBike VehicleType = "bike"
	VehicleTypeAuto VehicleType = "auto"
	VehicleTypeCar  VehicleType = "car"
	VehicleTypeSUV  VehicleType = "suv"
)

// VehicleTypes lists the accepted vehicle categories in display order.
var VehicleTypes = []VehicleType{VehicleTypeBike, VehicleTypeAuto, VehicleTypeCar, VehicleTypeSUV}

// Valid reports whether v is an accepted vehicle category.
func (v VehicleType) Valid() bool {
	for _, vt := range VehicleTypes {
		if v == vt {
			return true
		}
	}
	return false
}

// PaymentMethod represents how the customer intends to pay.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodWallet PaymentMethod = "wallet"
)

// PaymentMethods lists the accepted payment methods.
var PaymentMethods = []PaymentMethod{PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodWallet}

// Valid reports whether m is an accepted payment method.
func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if m == pm {
			return true
		}
	}
	return false
}

// NewBooking is a validated submission ready to be persisted.
// ID, Status and CreatedAt are assigned by the storage layer.
type NewBooking struct {
	PickupLocation string
	DropLocation   string
	VehicleType    VehicleType
	DateTime       time.Time
	PaymentMethod  PaymentMethod
	EstimatedFare  string
	CustomerName   string
	CustomerPhone  string
}

// Booking is a single ride request record.
type Booking struct {
	ID             string        `json:"id"`
	PickupLocation string        `json:"pickupLocation"`
	DropLocation   string        `json:"dropLocation"`
	VehicleType    VehicleType   `json:"vehicleType"`
	DateTime       time.Time     `json:"dateTime"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	EstimatedFare  string        `json:"estimatedFare"` // decimal string, non-negative
	Status         BookingStatus `json:"status"`
	CustomerName   string        `json:"customerName"`
	CustomerPhone  string        `json:"customerPhone"`
	CreatedAt      time.Time     `json:"createdAt"`
}
