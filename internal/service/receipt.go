package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"ruralride/internal/domain"
	"ruralride/internal/fare"
)

// ReceiptService handles receipt generation.
type ReceiptService struct {
	now func() time.Time
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService() *ReceiptService {
	return &ReceiptService{now: time.Now}
}

// GenerateReceipt builds a receipt for a booking.
func (s *ReceiptService) GenerateReceipt(booking *domain.Booking) *domain.Receipt {
	rate, _ := fare.Rate(booking.VehicleType)
	return &domain.Receipt{
		Number:        receiptNumber(booking.ID),
		BookingID:     booking.ID,
		CustomerName:  booking.CustomerName,
		CustomerPhone: booking.CustomerPhone,
		Pickup:        booking.PickupLocation,
		Drop:          booking.DropLocation,
		VehicleType:   booking.VehicleType,
		RatePerKm:     rate,
		DistanceKm:    fare.DistanceKm,
		EstimatedFare: booking.EstimatedFare,
		PaymentMethod: booking.PaymentMethod,
		Status:        booking.Status,
		ScheduledFor:  booking.DateTime,
		BookedAt:      booking.CreatedAt,
		IssuedAt:      s.now().UTC(),
	}
}

// RenderPDF renders a receipt as a single-page A4 document.
// It returns the document bytes and a suggested file name.
func (s *ReceiptService) RenderPDF(r *domain.Receipt) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt "+r.Number, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RURALRIDE BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Receipt No : "+r.Number)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued     : "+r.IssuedAt.Format("2006-01-02 15:04")+" UTC")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Customer:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Name   : %s", safe(r.CustomerName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Phone  : %s", safe(r.CustomerPhone, "-")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Trip:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		"Pickup    : " + safe(r.Pickup, "-"),
		"Drop      : " + safe(r.Drop, "-"),
		"Vehicle   : " + strings.ToUpper(string(r.VehicleType)),
		"Scheduled : " + r.ScheduledFor.Format("2006-01-02 15:04") + " UTC",
		"Status    : " + string(r.Status),
		"Payment   : " + strings.ToUpper(string(r.PaymentMethod)),
	}
	for _, l := range lines {
		pdf.MultiCell(0, 6, l, "", "", false)
	}
	pdf.Ln(4)

	pdf.Cell(0, 6, fmt.Sprintf("Rate: INR %s/km x %s km", fare.Format(r.RatePerKm), fare.Format(r.DistanceKm)))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Estimated fare: INR "+r.EstimatedFare)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This is an estimate. The final fare is settled with the driver.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), "receipt-" + r.Number + ".pdf", nil
}

func receiptNumber(bookingID string) string {
	id := strings.ReplaceAll(bookingID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "RR-" + strings.ToUpper(id)
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
