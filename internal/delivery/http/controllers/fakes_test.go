package controllers

import (
	"context"
	"io"
	"log/slog"

	"memberadmission/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeRegistry implements domain.MemberRegistry for handler tests.
type fakeRegistry struct {
	createErr    error
	setHandleErr error
	getErr       error
	resolveErr   error
	members      map[string]*domain.Member
	byHandle     map[string]*domain.Member
	byToken      map[string]*domain.Member

	lastCreateEmail  string
	lastCreateFirst  string
	lastCreateLast   string
	lastCreateType   domain.MemberType
	lastSetHandleID  string
	lastSetHandle    string
	lastResolveToken string
}

func (f *fakeRegistry) MemberExists(ctx context.Context, memberID string) bool {
	_, ok := f.members[memberID]
	return ok
}

func (f *fakeRegistry) CreateMember(ctx context.Context, email, firstName, lastName string, memberType domain.MemberType) (*domain.Member, error) {
	f.lastCreateEmail = email
	f.lastCreateFirst = firstName
	f.lastCreateLast = lastName
	f.lastCreateType = memberType
	if f.createErr != nil {
		return nil, f.createErr
	}
	return domain.NewMember("m-created", email, firstName, lastName, memberType, "qr-token", fixedTime), nil
}

func (f *fakeRegistry) SetHandle(ctx context.Context, memberID, handle string) error {
	f.lastSetHandleID = memberID
	f.lastSetHandle = handle
	if f.setHandleErr != nil {
		return f.setHandleErr
	}
	if m, ok := f.members[memberID]; ok {
		_ = m.AssignHandle(handle)
	}
	return nil
}

func (f *fakeRegistry) GetMember(ctx context.Context, memberID string) (*domain.Member, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	m, ok := f.members[memberID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeRegistry) GetMemberByHandle(ctx context.Context, handle string) (*domain.Member, error) {
	m, ok := f.byHandle[handle]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeRegistry) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []*domain.Member
	for _, m := range f.members {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeRegistry) ResolveToken(ctx context.Context, token string) (*domain.Member, error) {
	f.lastResolveToken = token
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	m, ok := f.byToken[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// fakeLedger implements domain.EventAdmissionLedger for handler tests.
type fakeLedger struct {
	err          error
	event        *domain.Event
	events       []*domain.Event
	registration *domain.EventRegistration
	created      bool
	list         []*domain.EventRegistration
	total        int
	summary      *domain.AttendanceSummary

	lastName            string
	lastCapacity        int
	lastRequiresPayment bool
	lastEventID         string
	lastMemberID        string
	lastUpdate          domain.EventUpdate
	lastOpts            domain.RegisterOptions
	lastPage            domain.PaginationParams
	lastAction          string
}

func (f *fakeLedger) CreateEvent(ctx context.Context, name string, capacity int, requiresPayment bool) (*domain.Event, error) {
	f.lastName, f.lastCapacity, f.lastRequiresPayment = name, capacity, requiresPayment
	if f.err != nil {
		return nil, f.err
	}
	return domain.NewEvent("ev-created", name, capacity, requiresPayment, fixedTime)
}

func (f *fakeLedger) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	f.lastEventID = eventID
	return f.event, f.err
}

func (f *fakeLedger) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return f.events, f.err
}

func (f *fakeLedger) UpdateEvent(ctx context.Context, eventID string, update domain.EventUpdate) (*domain.Event, error) {
	f.lastEventID = eventID
	f.lastUpdate = update
	return f.event, f.err
}

func (f *fakeLedger) Register(ctx context.Context, memberID, eventID string, opts domain.RegisterOptions) (*domain.EventRegistration, bool, error) {
	f.lastMemberID, f.lastEventID, f.lastOpts = memberID, eventID, opts
	f.lastAction = "register"
	return f.registration, f.created, f.err
}

func (f *fakeLedger) VerifyPayment(ctx context.Context, memberID, eventID string) (*domain.EventRegistration, error) {
	return f.record("payment", memberID, eventID)
}

func (f *fakeLedger) CheckIn(ctx context.Context, memberID, eventID string) (*domain.EventRegistration, error) {
	return f.record("check-in", memberID, eventID)
}

func (f *fakeLedger) CheckOut(ctx context.Context, memberID, eventID string) (*domain.EventRegistration, error) {
	return f.record("check-out", memberID, eventID)
}

func (f *fakeLedger) record(action, memberID, eventID string) (*domain.EventRegistration, error) {
	f.lastAction, f.lastMemberID, f.lastEventID = action, memberID, eventID
	return f.registration, f.err
}

func (f *fakeLedger) GetRegistration(ctx context.Context, memberID, eventID string) (*domain.EventRegistration, error) {
	return f.record("get", memberID, eventID)
}

func (f *fakeLedger) ListRegistrations(ctx context.Context, eventID string, page domain.PaginationParams) ([]*domain.EventRegistration, int, error) {
	f.lastEventID, f.lastPage = eventID, page
	return f.list, f.total, f.err
}

func (f *fakeLedger) ListMemberRegistrations(ctx context.Context, memberID string) ([]*domain.EventRegistration, error) {
	f.lastMemberID = memberID
	return f.list, f.err
}

func (f *fakeLedger) AttendanceSummary(ctx context.Context, eventID string) (*domain.AttendanceSummary, error) {
	f.lastEventID = eventID
	return f.summary, f.err
}
