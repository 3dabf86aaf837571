package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// AttendanceStatus is the position of a registration in its lifecycle.
type AttendanceStatus string

const (
	StatusRegistered AttendanceStatus = "registered"
	StatusCheckedIn  AttendanceStatus = "checked_in"
	StatusCheckedOut AttendanceStatus = "checked_out"
)

// EventRegistration represents a member's registration for an event.
// Timestamps are set exactly when the matching flag is true.
// swagger:model EventRegistration
type EventRegistration struct {
	MemberID        string     `json:"member_id"`
	EventID         string     `json:"event_id"`
	RegisteredAt    time.Time  `json:"registered_at"`
	PaymentVerified bool       `json:"payment_verified"`
	CheckedIn       bool       `json:"checked_in"`
	CheckInTime     *time.Time `json:"check_in_time"`
	CheckedOut      bool       `json:"checked_out"`
	CheckOutTime    *time.Time `json:"check_out_time"`
}

// RegisterOptions tunes a new registration.
type RegisterOptions struct {
	PaymentVerified bool
}

// NewEventRegistration creates a registration in the registered state.
func NewEventRegistration(memberID, eventID string, registeredAt time.Time, paymentVerified bool) *EventRegistration {
	return &EventRegistration{
		MemberID:        memberID,
		EventID:         eventID,
		RegisteredAt:    registeredAt,
		PaymentVerified: paymentVerified,
	}
}

// Status derives the lifecycle state from the flags.
func (r *EventRegistration) Status() AttendanceStatus {
	switch {
	case r.CheckedOut:
		return StatusCheckedOut
	case r.CheckedIn:
		return StatusCheckedIn
	default:
		return StatusRegistered
	}
}

// MarshalJSON adds the derived status to the encoded registration.
func (r EventRegistration) MarshalJSON() ([]byte, error) {
	type registration EventRegistration
	return json.Marshal(struct {
		registration
		Status AttendanceStatus `json:"status"`
	}{registration(r), r.Status()})
}

// CanCheckIn reports the first rule that blocks check-in against ev, or nil.
func (r *EventRegistration) CanCheckIn(ev *Event) error {
	if r.Status() != StatusRegistered {
		return fmt.Errorf("check-in from %s: %w", r.Status(), ErrInvalidTransition)
	}
	if !ev.CheckInEnabled {
		return fmt.Errorf("event %s: %w", ev.ID, ErrCheckInDisabled)
	}
	if ev.RequiresPayment && !r.PaymentVerified {
		return fmt.Errorf("event %s: %w", ev.ID, ErrPaymentRequired)
	}
	return nil
}

// CheckIn moves registered -> checked_in.
func (r *EventRegistration) CheckIn(ev *Event, now time.Time) error {
	if err := r.CanCheckIn(ev); err != nil {
		return err
	}
	t := now
	r.CheckedIn = true
	r.CheckInTime = &t
	return nil
}

// CheckOut moves checked_in -> checked_out. The stamp never precedes the check-in time.
func (r *EventRegistration) CheckOut(now time.Time) error {
	if r.Status() != StatusCheckedIn {
		return fmt.Errorf("check-out from %s: %w", r.Status(), ErrInvalidTransition)
	}
	t := now
	if t.Before(*r.CheckInTime) {
		t = *r.CheckInTime
	}
	r.CheckedOut = true
	r.CheckOutTime = &t
	return nil
}

// VerifyPayment marks payment as verified. It reports whether anything changed:
// already-verified and already-admitted registrations are left as they are.
func (r *EventRegistration) VerifyPayment() bool {
	if r.PaymentVerified || r.Status() != StatusRegistered {
		return false
	}
	r.PaymentVerified = true
	return true
}

// Clone returns a deep copy.
func (r *EventRegistration) Clone() *EventRegistration {
	c := *r
	if r.CheckInTime != nil {
		t := *r.CheckInTime
		c.CheckInTime = &t
	}
	if r.CheckOutTime != nil {
		t := *r.CheckOutTime
		c.CheckOutTime = &t
	}
	return &c
}
