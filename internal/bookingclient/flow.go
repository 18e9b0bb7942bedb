package bookingclient

import (
	"context"
	"errors"
	"sync"
	"time"

	"ruralride/internal/domain"
	"ruralride/internal/fare"
)

// State is a step of the submission flow.
type State string

const (
	StateIdle            State = "idle"
	StateSubmitting      State = "submitting"
	StateAssigningDriver State = "assigning-driver"
	StateConfirmed       State = "confirmed"
	StateFailed          State = "failed"
)

// DefaultAssignDelay is how long the driver-assignment screen is shown.
const DefaultAssignDelay = 10 * time.Second

// retryMessage is shown when the API could not be reached.
const retryMessage = "Please try again later"

// ErrBusy is returned when the flow is submitting or assigning a driver.
var ErrBusy = errors.New("booking in progress")

// Driver is the driver profile revealed after assignment. It is not backed by any dispatch.
type Driver struct {
	Name          string
	Phone         string
	VehicleNumber string
	VehicleModel  string
	VehicleColor  string
	Rating        float64
	Experience    string
	Languages     []string
}

// MockDriver is the fixed profile every confirmed booking shows.
var MockDriver = Driver{
	Name:          "Ramesh Kumar",
	Phone:         "+91 98765 43210",
	VehicleNumber: "MH 12 AB 1234",
	VehicleModel:  "Bajaj Auto Rickshaw",
	VehicleColor:  "Yellow & Black",
	Rating:        4.8,
	Experience:    "5 years",
	Languages:     []string{"Hindi", "Marathi", "English"},
}

// Submitter creates bookings. *Client satisfies it.
type Submitter interface {
	CreateBooking(ctx context.Context, sub Submission) (*domain.Booking, error)
}

// Flow is the client-side booking state machine:
// idle -> submitting -> (assigning-driver ->) confirmed, or submitting -> failed.
// A failed flow can be edited and submitted again. Confirmed returns to idle through Reset.
type Flow struct {
	// AssignDelay is the cosmetic driver-assignment delay. Zero confirms immediately without a driver.
	AssignDelay time.Duration

	// OnChange, if set, is called after every state change, outside the lock.
	OnChange func(from, to State)

	submitter Submitter

	mu      sync.Mutex
	state   State
	form    Submission
	booking *domain.Booking
	driver  *Driver
	message string
	fields  []FieldError
	settled chan struct{}
}

// NewFlow creates a Flow in the idle state with the default form.
func NewFlow(submitter Submitter) *Flow {
	return &Flow{
		AssignDelay: DefaultAssignDelay,
		submitter:   submitter,
		state:       StateIdle,
		form:        defaultForm(),
	}
}

func defaultForm() Submission {
	return Submission{
		VehicleType:   string(domain.VehicleTypeAuto),
		PaymentMethod: string(domain.PaymentMethodCash),
		EstimatedFare: fare.Format(fare.Estimate(domain.VehicleTypeAuto)),
	}
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Form returns a copy of the form.
func (f *Flow) Form() Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// Edit applies fn to the form. The fare estimate is recomputed from the vehicle type afterwards.
func (f *Flow) Edit(fn func(*Submission)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.editable() {
		return ErrBusy
	}
	fn(&f.form)
	f.form.EstimatedFare = fare.Format(fare.Estimate(domain.VehicleType(f.form.VehicleType)))
	return nil
}

// SetVehicleType changes the vehicle category and returns the new estimate.
func (f *Flow) SetVehicleType(v domain.VehicleType) (float64, error) {
	if err := f.Edit(func(s *Submission) { s.VehicleType = string(v) }); err != nil {
		return 0, err
	}
	return fare.Estimate(v), nil
}

// EstimatedFare returns the estimate for the selected vehicle category.
func (f *Flow) EstimatedFare() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fare.Estimate(domain.VehicleType(f.form.VehicleType))
}

// Booking returns the confirmed booking, or nil before confirmation.
func (f *Flow) Booking() *domain.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateConfirmed {
		return nil
	}
	return f.booking
}

// Driver returns the revealed driver, or nil if none was assigned.
func (f *Flow) Driver() *Driver {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateConfirmed {
		return nil
	}
	return f.driver
}

// Message returns the failure message of the last submission.
func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// FieldErrors returns the field errors of the last rejected submission.
func (f *Flow) FieldErrors() []FieldError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FieldError(nil), f.fields...)
}

// Submit sends the form. It blocks for the request only; driver assignment continues in the background.
// A rejected or failed request leaves the flow in StateFailed and is returned.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if !f.editable() {
		f.mu.Unlock()
		return ErrBusy
	}
	f.form.EstimatedFare = fare.Format(fare.Estimate(domain.VehicleType(f.form.VehicleType)))
	sub := f.form
	f.message = ""
	f.fields = nil
	from := f.transition(StateSubmitting)
	f.mu.Unlock()
	f.changed(from, StateSubmitting)

	booking, err := f.submitter.CreateBooking(ctx, sub)

	f.mu.Lock()
	if err != nil {
		f.message, f.fields = failureMessage(err)
		from = f.transition(StateFailed)
		f.mu.Unlock()
		f.changed(from, StateFailed)
		return err
	}

	f.booking = booking
	if f.AssignDelay <= 0 {
		from = f.transition(StateConfirmed)
		f.mu.Unlock()
		f.changed(from, StateConfirmed)
		return nil
	}

	f.settled = make(chan struct{})
	settled := f.settled
	from = f.transition(StateAssigningDriver)
	f.mu.Unlock()
	f.changed(from, StateAssigningDriver)

	time.AfterFunc(f.AssignDelay, func() {
		f.mu.Lock()
		driver := MockDriver
		f.driver = &driver
		from := f.transition(StateConfirmed)
		f.mu.Unlock()
		f.changed(from, StateConfirmed)
		close(settled)
	})
	return nil
}

// Wait blocks until driver assignment finishes or ctx is done.
// It returns immediately when no assignment is in progress.
func (f *Flow) Wait(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateAssigningDriver {
		f.mu.Unlock()
		return nil
	}
	settled := f.settled
	f.mu.Unlock()

	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset returns a confirmed or failed flow to idle and clears the form.
func (f *Flow) Reset() error {
	f.mu.Lock()
	if !f.editable() && f.state != StateConfirmed {
		f.mu.Unlock()
		return ErrBusy
	}
	f.form = defaultForm()
	f.booking = nil
	f.driver = nil
	f.message = ""
	f.fields = nil
	from := f.transition(StateIdle)
	f.mu.Unlock()
	f.changed(from, StateIdle)
	return nil
}

func (f *Flow) editable() bool {
	return f.state == StateIdle || f.state == StateFailed
}

func (f *Flow) transition(to State) State {
	from := f.state
	f.state = to
	return from
}

func (f *Flow) changed(from, to State) {
	if f.OnChange != nil {
		f.OnChange(from, to)
	}
}

func failureMessage(err error) (string, []FieldError) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message, apiErr.Fields
	}
	return retryMessage, nil
}
