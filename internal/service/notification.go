package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"ruralride/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingCreated       NotificationType = "BOOKING_CREATED"
	NotificationBookingStatusChanged NotificationType = "BOOKING_STATUS_CHANGED"
)

// Notification represents a booking event to be delivered.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	BookingID string           `json:"bookingId"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      map[string]any   `json:"data,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Notifier delivers booking notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log.
type LogNotifier struct {
	log logrus.FieldLogger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs the notification.
func (n *LogNotifier) Notify(ctx context.Context, notification Notification) error {
	n.log.WithFields(logrus.Fields{
		"type":       notification.Type,
		"booking_id": notification.BookingID,
		"title":      notification.Title,
	}).Info(notification.Message)
	return nil
}

func bookingCreatedNotification(b *domain.Booking) Notification {
	return Notification{
		ID:        b.ID + ":created",
		Type:      NotificationBookingCreated,
		BookingID: b.ID,
		Title:     "Booking Received",
		Message:   fmt.Sprintf("Booking for %s from %s to %s by %s", b.CustomerName, b.PickupLocation, b.DropLocation, b.VehicleType),
		Data: map[string]any{
			"vehicleType":   b.VehicleType,
			"paymentMethod": b.PaymentMethod,
			"estimatedFare": b.EstimatedFare,
			"scheduledFor":  b.DateTime,
			"customerPhone": b.CustomerPhone,
		},
		CreatedAt: time.Now().UTC(),
	}
}

func statusChangedNotification(b *domain.Booking) Notification {
	return Notification{
		ID:        fmt.Sprintf("%s:%s", b.ID, b.Status),
		Type:      NotificationBookingStatusChanged,
		BookingID: b.ID,
		Title:     "Booking Updated",
		Message:   fmt.Sprintf("Booking %s is now %s", b.ID, b.Status),
		Data: map[string]any{
			"status": b.Status,
		},
		CreatedAt: time.Now().UTC(),
	}
}
