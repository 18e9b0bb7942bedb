package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"ruralride/internal/domain"
)

// FieldError describes one violated field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid booking data: " + strings.Join(parts, "; ")
}

// Has reports whether field is among the failing fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// BookingSubmission is the raw booking form as submitted by a client.
type BookingSubmission struct {
	PickupLocation string `json:"pickupLocation" validate:"required"`
	DropLocation   string `json:"dropLocation" validate:"required"`
	VehicleType    string `json:"vehicleType" validate:"vehicle_type"`
	DateTime       string `json:"dateTime" validate:"required,booking_datetime"`
	PaymentMethod  string `json:"paymentMethod" validate:"payment_method"`
	EstimatedFare  string `json:"estimatedFare" validate:"required,fare_amount"`
	CustomerName   string `json:"customerName" validate:"min=2"`
	CustomerPhone  string `json:"customerPhone" validate:"min=10"`
}

// submissionFields is the schema order used when reporting errors.
var submissionFields = []string{
	"pickupLocation", "dropLocation", "vehicleType", "dateTime",
	"paymentMethod", "estimatedFare", "customerName", "customerPhone",
}

var fieldMessages = map[string]string{
	"pickupLocation":            "Pickup location is required",
	"dropLocation":              "Drop location is required",
	"vehicleType":               "Please select a valid vehicle type",
	"dateTime":                  "Date and time is required",
	"dateTime.booking_datetime": "Date and time must be a valid date",
	"paymentMethod":             "Please select a valid payment method",
	"estimatedFare":             "Estimated fare is required",
	"estimatedFare.fare_amount": "Estimated fare must be a non-negative number",
	"customerName":              "Name must be at least 2 characters",
	"customerPhone":             "Phone number must be at least 10 digits",
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// fareAmount is a plain non-negative decimal such as "80", "80.50" or ".5".
var fareAmount = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("vehicle_type", func(fl validator.FieldLevel) bool {
		return domain.VehicleType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return domain.PaymentMethod(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("booking_datetime", func(fl validator.FieldLevel) bool {
		_, err := ParseDateTime(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("fare_amount", func(fl validator.FieldLevel) bool {
		_, err := parseFare(fl.Field().String())
		return err == nil
	})
	return v
}

// ParseDateTime parses a submitted date-time. Values without a zone are read as UTC.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date-time %q", s)
}

func parseFare(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !fareAmount.MatchString(s) {
		return 0, fmt.Errorf("not a decimal amount: %q", s)
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("fare out of range: %v", amount)
	}
	return amount, nil
}

// ParseSubmission turns an untyped record into a validated submission.
// String values are trimmed before any rule is checked.
// A non-string value for a field is reported as a field error alongside every rule violation.
func ParseSubmission(raw map[string]any) (BookingSubmission, error) {
	values := make(map[string]string, len(submissionFields))
	var typeErrors []FieldError
	for _, field := range submissionFields {
		v, ok := raw[field]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			typeErrors = append(typeErrors, FieldError{
				Field:   field,
				Message: fmt.Sprintf("Expected string, received %s", jsonKind(v)),
			})
			continue
		}
		values[field] = strings.TrimSpace(s)
	}

	sub := BookingSubmission{
		PickupLocation: values["pickupLocation"],
		DropLocation:   values["dropLocation"],
		VehicleType:    values["vehicleType"],
		DateTime:       values["dateTime"],
		PaymentMethod:  values["paymentMethod"],
		EstimatedFare:  values["estimatedFare"],
		CustomerName:   values["customerName"],
		CustomerPhone:  values["customerPhone"],
	}

	fields := typeErrors
	if err := sub.Validate(); err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return sub, err
		}
		for _, fe := range verr.Fields {
			if !hasField(typeErrors, fe.Field) {
				fields = append(fields, fe)
			}
		}
	}
	if len(fields) > 0 {
		sortFields(fields)
		return sub, &ValidationError{Fields: fields}
	}
	return sub, nil
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (s BookingSubmission) Trimmed() BookingSubmission {
	return BookingSubmission{
		PickupLocation: strings.TrimSpace(s.PickupLocation),
		DropLocation:   strings.TrimSpace(s.DropLocation),
		VehicleType:    strings.TrimSpace(s.VehicleType),
		DateTime:       strings.TrimSpace(s.DateTime),
		PaymentMethod:  strings.TrimSpace(s.PaymentMethod),
		EstimatedFare:  strings.TrimSpace(s.EstimatedFare),
		CustomerName:   strings.TrimSpace(s.CustomerName),
		CustomerPhone:  strings.TrimSpace(s.CustomerPhone),
	}
}

// Validate checks every rule and returns a *ValidationError naming each failing field.
// Callers holding untrimmed input validate Trimmed() instead.
func (s BookingSubmission) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: messageFor(fe.Field(), fe.Tag())})
	}
	sortFields(fields)
	return &ValidationError{Fields: fields}
}

// toNewBooking converts a trimmed, validated submission into a storable booking.
// The fare keeps its submitted decimal text.
func (s BookingSubmission) toNewBooking() (*domain.NewBooking, error) {
	dt, err := ParseDateTime(s.DateTime)
	if err != nil {
		return nil, err
	}
	if _, err := parseFare(s.EstimatedFare); err != nil {
		return nil, err
	}
	return &domain.NewBooking{
		PickupLocation: s.PickupLocation,
		DropLocation:   s.DropLocation,
		VehicleType:    domain.VehicleType(s.VehicleType),
		DateTime:       dt,
		PaymentMethod:  domain.PaymentMethod(s.PaymentMethod),
		EstimatedFare:  s.EstimatedFare,
		CustomerName:   s.CustomerName,
		CustomerPhone:  s.CustomerPhone,
	}, nil
}

func messageFor(field, tag string) string {
	if msg, ok := fieldMessages[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := fieldMessages[field]; ok {
		return msg
	}
	return "Invalid value"
}

func hasField(fields []FieldError, field string) bool {
	for _, f := range fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func sortFields(fields []FieldError) {
	rank := make(map[string]int, len(submissionFields))
	for i, f := range submissionFields {
		rank[f] = i
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return rank[fields[i].Field] < rank[fields[j].Field]
	})
}

func jsonKind(v any) string {
	switch v.(type) {
	case float64, int, int64, float32, json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
