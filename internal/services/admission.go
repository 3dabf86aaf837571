package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"memberadmission/internal/domain"
	"memberadmission/internal/telemetry"
)

const (
	transitionCheckIn       = "check_in"
	transitionCheckOut      = "check_out"
	transitionVerifyPayment = "verify_payment"
)

type registrationKey struct {
	memberID string
	eventID  string
}

// eventEntry serializes admission for one event. Register and flag updates take the
// write lock; check-ins only read the flags and share the read lock.
type eventEntry struct {
	mu    sync.RWMutex
	event *domain.Event
}

type registrationEntry struct {
	mu  sync.Mutex
	reg *domain.EventRegistration
}

// admissionLedger owns events and registrations. mu only guards the maps and is never
// held while acquiring an entry lock. Entry locks are taken event first, then registration.
type admissionLedger struct {
	mu       sync.RWMutex
	events   map[string]*eventEntry
	regs     map[registrationKey]*registrationEntry
	byEvent  map[string][]registrationKey
	byMember map[string][]registrationKey
	members  domain.MemberLookup
	metrics  *telemetry.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewAdmissionLedger creates an empty ledger. members may be nil; when set, Register
// refuses member IDs it does not know. metrics may be nil to disable recording.
func NewAdmissionLedger(members domain.MemberLookup, metrics *telemetry.Metrics, logger *slog.Logger) domain.EventAdmissionLedger {
	return &admissionLedger{
		events:   make(map[string]*eventEntry),
		regs:     make(map[registrationKey]*registrationEntry),
		byEvent:  make(map[string][]registrationKey),
		byMember: make(map[string][]registrationKey),
		members:  members,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

func (l *admissionLedger) CreateEvent(ctx context.Context, name string, capacity int, requiresPayment bool) (*domain.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("event name is required: %w", domain.ErrInvalidInput)
	}
	ev, err := domain.NewEvent(uuid.NewString(), name, capacity, requiresPayment, l.now())
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.events[ev.ID] = &eventEntry{event: ev}
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "event created", "event_id", ev.ID, "capacity", capacity, "requires_payment", requiresPayment)
	return ev.Clone(), nil
}

func (l *admissionLedger) eventEntry(eventID string) (*eventEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}
	return e, nil
}

func (l *admissionLedger) registrationEntry(memberID, eventID string) (*registrationEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.regs[registrationKey{memberID: memberID, eventID: eventID}]
	if !ok {
		return nil, fmt.Errorf("registration for member %s at event %s: %w", memberID, eventID, domain.ErrNotFound)
	}
	return r, nil
}

func (l *admissionLedger) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	e, err := l.eventEntry(eventID)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.event.Clone(), nil
}

// ListEvents returns all events, oldest first.
func (l *admissionLedger) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	l.mu.RLock()
	entries := make([]*eventEntry, 0, len(l.events))
	for _, e := range l.events {
		entries = append(entries, e)
	}
	l.mu.RUnlock()

	out := make([]*domain.Event, 0, len(entries))
	for _, e := range entries {
		e.mu.RLock()
		out = append(out, e.event.Clone())
		e.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (l *admissionLedger) UpdateEvent(ctx context.Context, eventID string, update domain.EventUpdate) (*domain.Event, error) {
	e, err := l.eventEntry(eventID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if update.IsActive != nil {
		e.event.IsActive = *update.IsActive
	}
	if update.CheckInEnabled != nil {
		e.event.CheckInEnabled = *update.CheckInEnabled
	}
	l.logger.InfoContext(ctx, "event updated", "event_id", eventID,
		"is_active", e.event.IsActive, "check_in_enabled", e.event.CheckInEnabled)
	return e.event.Clone(), nil
}

func (l *admissionLedger) Register(ctx context.Context, memberID, eventID string, opts domain.RegisterOptions) (*domain.EventRegistration, bool, error) {
	ctx, span := tracer.Start(ctx, "AdmissionLedger.Register", trace.WithAttributes(
		attribute.String("member.id", memberID),
		attribute.String("event.id", eventID),
	))
	defer span.End()

	reg, created, err := l.register(ctx, memberID, eventID, opts)
	switch {
	case err != nil:
		l.metrics.RecordRegistration(outcomeOf(err))
		span.SetStatus(codes.Error, err.Error())
		l.logger.DebugContext(ctx, "registration refused", "member_id", memberID, "event_id", eventID, "err", err)
		return nil, false, err
	case created:
		l.metrics.RecordRegistration(telemetry.OutcomeSuccess)
		l.logger.InfoContext(ctx, "member registered", "member_id", memberID, "event_id", eventID)
	}
	return reg, created, nil
}

func (l *admissionLedger) register(ctx context.Context, memberID, eventID string, opts domain.RegisterOptions) (*domain.EventRegistration, bool, error) {
	if memberID == "" {
		return nil, false, fmt.Errorf("member id is required: %w", domain.ErrInvalidInput)
	}
	e, err := l.eventEntry(eventID)
	if err != nil {
		return nil, false, err
	}
	if l.members != nil && !l.members.MemberExists(ctx, memberID) {
		return nil, false, fmt.Errorf("member %s: %w", memberID, domain.ErrNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	key := registrationKey{memberID: memberID, eventID: eventID}
	l.mu.RLock()
	existing, ok := l.regs[key]
	l.mu.RUnlock()
	if ok {
		existing.mu.Lock()
		defer existing.mu.Unlock()
		return existing.reg.Clone(), false, nil
	}

	if err := e.event.Admit(); err != nil {
		return nil, false, err
	}
	reg := domain.NewEventRegistration(memberID, eventID, l.now(), opts.PaymentVerified)

	l.mu.Lock()
	l.regs[key] = &registrationEntry{reg: reg}
	l.byEvent[eventID] = append(l.byEvent[eventID], key)
	l.byMember[memberID] = append(l.byMember[memberID], key)
	l.mu.Unlock()

	return reg.Clone(), true, nil
}

func (l *admissionLedger) CheckIn(ctx context.Context, memberID, eventID string) (*domain.EventRegistration, error) {
	return l.transition(ctx, transitionCheckIn, memberID, eventID, func(ev *domain.Event, reg *domain.EventRegistration) error {
		return reg.CheckIn(ev, l.now())
	})
}

func (l *admissionLedger) CheckOut(ctx context.Context, memberID, eventID string) (*domain.EventRegistration, error) {
	return l.transition(ctx, transitionCheckOut, memberID, eventID, func(_ *domain.Event, reg *domain.EventRegistration) error {
		return reg.CheckOut(l.now())
	})
}

func (l *admissionLedger) VerifyPayment(ctx context.Context, memberID, eventID string) (*domain.EventRegistration, error) {
	return l.transition(ctx, transitionVerifyPayment, memberID, eventID, func(_ *domain.Event, reg *domain.EventRegistration) error {
		if !reg.VerifyPayment() {
			l.logger.DebugContext(ctx, "payment verification left registration unchanged",
				"member_id", memberID, "event_id", eventID, "status", reg.Status())
		}
		return nil
	})
}

// transition runs fn with the event read-locked and the registration locked, so
// transitions on different registrations proceed in parallel.
func (l *admissionLedger) transition(
	ctx context.Context,
	name, memberID, eventID string,
	fn func(*domain.Event, *domain.EventRegistration) error,
) (*domain.EventRegistration, error) {
	ctx, span := tracer.Start(ctx, "AdmissionLedger."+name, trace.WithAttributes(
		attribute.String("member.id", memberID),
		attribute.String("event.id", eventID),
	))
	defer span.End()

	out, err := l.applyTransition(eventID, memberID, fn)
	if err != nil {
		l.metrics.RecordTransition(name, outcomeOf(err))
		span.SetStatus(codes.Error, err.Error())
		l.logger.DebugContext(ctx, "transition refused", "transition", name, "member_id", memberID, "event_id", eventID, "err", err)
		return nil, err
	}
	l.metrics.RecordTransition(name, telemetry.OutcomeSuccess)
	l.logger.InfoContext(ctx, "attendance updated", "transition", name, "member_id", memberID, "event_id", eventID, "status", out.Status())
	return out, nil
}

func (l *admissionLedger) applyTransition(eventID, memberID string, fn func(*domain.Event, *domain.EventRegistration) error) (*domain.EventRegistration, error) {
	e, err := l.eventEntry(eventID)
	if err != nil {
		return nil, err
	}
	r, err := l.registrationEntry(memberID, eventID)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := fn(e.event, r.reg); err != nil {
		return nil, err
	}
	return r.reg.Clone(), nil
}

func (l *admissionLedger) GetRegistration(ctx context.Context, memberID, eventID string) (*domain.EventRegistration, error) {
	r, err := l.registrationEntry(memberID, eventID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reg.Clone(), nil
}

// snapshot copies the registrations behind keys. The caller must not hold l.mu.
func (l *admissionLedger) snapshot(keys []registrationKey) []*domain.EventRegistration {
	l.mu.RLock()
	entries := make([]*registrationEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, l.regs[k])
	}
	l.mu.RUnlock()

	out := make([]*domain.EventRegistration, 0, len(entries))
	for _, r := range entries {
		r.mu.Lock()
		out = append(out, r.reg.Clone())
		r.mu.Unlock()
	}
	return out
}

func (l *admissionLedger) eventKeys(eventID string) ([]registrationKey, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.events[eventID]; !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}
	return append([]registrationKey(nil), l.byEvent[eventID]...), nil
}

// ListRegistrations returns one page of an event's registrations in registration order,
// plus the total count.
func (l *admissionLedger) ListRegistrations(ctx context.Context, eventID string, page domain.PaginationParams) ([]*domain.EventRegistration, int, error) {
	keys, err := l.eventKeys(eventID)
	if err != nil {
		return nil, 0, err
	}
	start, end := page.Bounds(len(keys))
	return l.snapshot(keys[start:end]), len(keys), nil
}

func (l *admissionLedger) ListMemberRegistrations(ctx context.Context, memberID string) ([]*domain.EventRegistration, error) {
	l.mu.RLock()
	keys := append([]registrationKey(nil), l.byMember[memberID]...)
	l.mu.RUnlock()
	return l.snapshot(keys), nil
}

func (l *admissionLedger) AttendanceSummary(ctx context.Context, eventID string) (*domain.AttendanceSummary, error) {
	keys, err := l.eventKeys(eventID)
	if err != nil {
		return nil, err
	}
	ev, err := l.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	sum := &domain.AttendanceSummary{
		EventID:   eventID,
		Capacity:  ev.Capacity,
		Available: ev.Capacity - ev.CurrentAttendees,
	}
	for _, reg := range l.snapshot(keys) {
		sum.Registered++
		if reg.CheckedIn {
			sum.CheckedIn++
		}
		if reg.CheckedOut {
			sum.CheckedOut++
		}
	}
	sum.Present = sum.CheckedIn - sum.CheckedOut
	return sum, nil
}

// outcomeOf separates business refusals from unexpected failures for metrics.
func outcomeOf(err error) string {
	for _, target := range []error{
		domain.ErrNotFound,
		domain.ErrInvalidInput,
		domain.ErrCapacityExceeded,
		domain.ErrPaymentRequired,
		domain.ErrCheckInDisabled,
		domain.ErrInvalidTransition,
	} {
		if errors.Is(err, target) {
			return telemetry.OutcomeRejected
		}
	}
	return telemetry.OutcomeError
}
