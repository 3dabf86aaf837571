package domain

import (
	"context"
	"fmt"
	"time"
)

// Event is a capacity-bounded gathering members register for.
// swagger:model Event
type Event struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Capacity         int       `json:"capacity"`
	CurrentAttendees int       `json:"current_attendees"`
	RequiresPayment  bool      `json:"requires_payment"`
	IsActive         bool      `json:"is_active"`
	CheckInEnabled   bool      `json:"check_in_enabled"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewEvent returns an active event with check-in enabled and no attendees.
func NewEvent(id, name string, capacity int, requiresPayment bool, createdAt time.Time) (*Event, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive: %w", ErrInvalidInput)
	}
	return &Event{
		ID:              id,
		Name:            name,
		Capacity:        capacity,
		RequiresPayment: requiresPayment,
		IsActive:        true,
		CheckInEnabled:  true,
		CreatedAt:       createdAt,
	}, nil
}

// HasRoom reports whether another attendee fits.
func (e *Event) HasRoom() bool {
	return e.CurrentAttendees < e.Capacity
}

// Admit takes one seat. Inactive or full events are refused with ErrCapacityExceeded
// and left unchanged.
func (e *Event) Admit() error {
	if !e.IsActive {
		return fmt.Errorf("event %s is not active: %w", e.ID, ErrCapacityExceeded)
	}
	if !e.HasRoom() {
		return fmt.Errorf("event %s is full (%d/%d): %w", e.ID, e.CurrentAttendees, e.Capacity, ErrCapacityExceeded)
	}
	e.CurrentAttendees++
	return nil
}

// Clone returns a copy of the event.
func (e *Event) Clone() *Event {
	c := *e
	return &c
}

// EventUpdate holds the optional admin toggles for an event.
type EventUpdate struct {
	IsActive       *bool
	CheckInEnabled *bool
}

// AttendanceSummary aggregates registration states for one event.
// swagger:model AttendanceSummary
type AttendanceSummary struct {
	EventID    string `json:"event_id"`
	Capacity   int    `json:"capacity"`
	Registered int    `json:"registered"`
	CheckedIn  int    `json:"checked_in"`
	CheckedOut int    `json:"checked_out"`
	Present    int    `json:"present"`
	Available  int    `json:"available"`
}

// EventAdmissionLedger owns events and registrations and enforces capacity and
// payment-gated attendance transitions.
type EventAdmissionLedger interface {
	CreateEvent(ctx context.Context, name string, capacity int, requiresPayment bool) (*Event, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID string, update EventUpdate) (*Event, error)

	// Register returns (reg, created, err): created is false when the member was already registered.
	Register(ctx context.Context, memberID, eventID string, opts RegisterOptions) (*EventRegistration, bool, error)
	VerifyPayment(ctx context.Context, memberID, eventID string) (*EventRegistration, error)
	CheckIn(ctx context.Context, memberID, eventID string) (*EventRegistration, error)
	CheckOut(ctx context.Context, memberID, eventID string) (*EventRegistration, error)

	GetRegistration(ctx context.Context, memberID, eventID string) (*EventRegistration, error)
	ListRegistrations(ctx context.Context, eventID string, page PaginationParams) ([]*EventRegistration, int, error)
	ListMemberRegistrations(ctx context.Context, memberID string) ([]*EventRegistration, error)
	AttendanceSummary(ctx context.Context, eventID string) (*AttendanceSummary, error)
}
