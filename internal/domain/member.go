package domain

import (
	"context"
	"fmt"
	"time"
)

// MemberType is the stakeholder role a member signed up as. The set is open:
// values outside the known list are stored verbatim.
type MemberType string

// Known member types.
const (
	MemberTypeResident         MemberType = "resident"
	MemberTypeBusinessOwner    MemberType = "business_owner"
	MemberTypeEducator         MemberType = "educator"
	MemberTypeTrainer          MemberType = "trainer"
	MemberTypeWorkshopProvider MemberType = "workshop_provider"
	MemberTypeExhibitor        MemberType = "exhibitor"
	MemberTypeVolunteer        MemberType = "volunteer"
	MemberTypeStudent          MemberType = "student"
	MemberTypeSpeaker          MemberType = "speaker"
	MemberTypeStartupFounder   MemberType = "startup_founder"
	MemberTypeJobSeeker        MemberType = "job_seeker"
	MemberTypeAttendee         MemberType = "attendee"
)

// KnownMemberTypes lists the member types this build was compiled with.
var KnownMemberTypes = []MemberType{
	MemberTypeResident,
	MemberTypeBusinessOwner,
	MemberTypeEducator,
	MemberTypeTrainer,
	MemberTypeWorkshopProvider,
	MemberTypeExhibitor,
	MemberTypeVolunteer,
	MemberTypeStudent,
	MemberTypeSpeaker,
	MemberTypeStartupFounder,
	MemberTypeJobSeeker,
	MemberTypeAttendee,
}

// IsKnown reports whether t is one of KnownMemberTypes.
func (t MemberType) IsKnown() bool {
	for _, k := range KnownMemberTypes {
		if t == k {
			return true
		}
	}
	return false
}

func (t MemberType) String() string { return string(t) }

// Member is a registered stakeholder with a permanent identity token and an
// optional one-time handle.
// swagger:model Member
type Member struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	MemberType    MemberType `json:"member_type"`
	QRCode        string     `json:"qr_code"`
	Handle        *string    `json:"handle"`
	HandleChanged bool       `json:"handle_changed"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewMember returns a Member with no handle. id and qrCode are issued by the registry.
func NewMember(id, email, firstName, lastName string, memberType MemberType, qrCode string, createdAt time.Time) *Member {
	return &Member{
		ID:         id,
		Email:      email,
		FirstName:  firstName,
		LastName:   lastName,
		MemberType: memberType,
		QRCode:     qrCode,
		CreatedAt:  createdAt,
	}
}

// AssignHandle sets the handle the first time it is called and fails with
// ErrHandleAlreadySet on every later call. Uniqueness across members is the
// registry's job.
func (m *Member) AssignHandle(handle string) error {
	if m.HandleChanged {
		return fmt.Errorf("member %s: %w", m.ID, ErrHandleAlreadySet)
	}
	h := handle
	m.Handle = &h
	m.HandleChanged = true
	return nil
}

// HandleValue returns the handle or "" when none was set.
func (m *Member) HandleValue() string {
	if m.Handle == nil {
		return ""
	}
	return *m.Handle
}

// Clone returns a deep copy so callers cannot mutate registry state.
func (m *Member) Clone() *Member {
	c := *m
	if m.Handle != nil {
		h := *m.Handle
		c.Handle = &h
	}
	return &c
}

// IdentityTokenIssuer produces the opaque identity token (QR payload) bound to a member.
// Tokens must be unique across members; they need not be deterministic.
type IdentityTokenIssuer interface {
	Issue(ctx context.Context, memberID string) (string, error)
}

// IdentityTokenVerifier checks a scanned token and returns the member ID it was issued for.
type IdentityTokenVerifier interface {
	Verify(token string) (memberID string, err error)
}

// MemberLookup answers whether a member exists. The admission ledger uses it
// to reject registrations for unknown members without reading member data.
type MemberLookup interface {
	MemberExists(ctx context.Context, memberID string) bool
}

// MemberRegistry issues members and governs handle assignment.
type MemberRegistry interface {
	MemberLookup
	CreateMember(ctx context.Context, email, firstName, lastName string, memberType MemberType) (*Member, error)
	// SetHandle assigns a handle once. It returns ErrNotFound, ErrHandleAlreadySet or
	// ErrHandleTaken without mutating anything when the assignment is refused.
	SetHandle(ctx context.Context, memberID, handle string) error
	GetMember(ctx context.Context, memberID string) (*Member, error)
	GetMemberByHandle(ctx context.Context, handle string) (*Member, error)
	ListMembers(ctx context.Context) ([]*Member, error)
	ResolveToken(ctx context.Context, token string) (*Member, error)
}
