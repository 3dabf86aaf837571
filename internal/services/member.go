package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"memberadmission/internal/domain"
	"memberadmission/internal/telemetry"
)

const maxHandleLength = 64

var (
	emailRegexp  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	handleRegexp = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

var tracer = otel.Tracer("memberadmission/internal/services")

// memberRegistry owns every Member it issued plus the handle and token indexes.
// mu guards all three maps.
type memberRegistry struct {
	mu       sync.RWMutex
	members  map[string]*domain.Member
	handles  map[string]string // handle -> member id
	tokens   map[string]string // identity token -> member id
	issuer   domain.IdentityTokenIssuer
	verifier domain.IdentityTokenVerifier
	email    domain.EmailService
	metrics  *telemetry.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewMemberRegistry creates an empty MemberRegistry. emailService may be nil, in which case
// no welcome email is sent; metrics may be nil to disable recording.
func NewMemberRegistry(
	issuer domain.IdentityTokenIssuer,
	verifier domain.IdentityTokenVerifier,
	emailService domain.EmailService,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) domain.MemberRegistry {
	return &memberRegistry{
		members:  make(map[string]*domain.Member),
		handles:  make(map[string]string),
		tokens:   make(map[string]string),
		issuer:   issuer,
		verifier: verifier,
		email:    emailService,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *memberRegistry) CreateMember(ctx context.Context, email, firstName, lastName string, memberType domain.MemberType) (*domain.Member, error) {
	ctx, span := tracer.Start(ctx, "MemberRegistry.CreateMember",
		trace.WithAttributes(attribute.String("member.type", string(memberType))))
	defer span.End()

	email = strings.TrimSpace(strings.ToLower(email))
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	memberType = domain.MemberType(strings.TrimSpace(string(memberType)))
	if errs := validateNewMember(email, firstName, lastName, memberType); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}

	id := uuid.NewString()
	start := time.Now()
	token, err := s.issuer.Issue(ctx, id)
	s.metrics.ObserveTokenIssue(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "identity token")
		return nil, fmt.Errorf("issue identity token: %w", err)
	}
	if token == "" {
		return nil, fmt.Errorf("issue identity token: empty token: %w", domain.ErrTokenUnavailable)
	}

	member := domain.NewMember(id, email, firstName, lastName, memberType, token, s.now())

	s.mu.Lock()
	if owner, taken := s.tokens[token]; taken {
		s.mu.Unlock()
		s.logger.ErrorContext(ctx, "identity token collision", "member_id", id, "owner_id", owner)
		return nil, fmt.Errorf("identity token collides with member %s: %w", owner, domain.ErrTokenUnavailable)
	}
	s.members[id] = member
	s.tokens[token] = id
	out := member.Clone()
	s.mu.Unlock()

	s.metrics.IncrementMembersCreated()
	span.SetAttributes(attribute.String("member.id", id))
	if !memberType.IsKnown() {
		s.logger.InfoContext(ctx, "member created with unlisted type", "member_id", id, "member_type", memberType)
	}
	s.logger.InfoContext(ctx, "member created", "member_id", id)
	s.sendWelcome(ctx, out)
	return out, nil
}

// sendWelcome is best effort: the member already exists, so delivery problems are only logged.
func (s *memberRegistry) sendWelcome(ctx context.Context, m *domain.Member) {
	if s.email == nil {
		return
	}
	data := &domain.WelcomeMessageEmailData{
		Email:      m.Email,
		FirstName:  m.FirstName,
		MemberID:   m.ID,
		MemberType: m.MemberType,
		QRCode:     m.QRCode,
	}
	if err := s.email.SendWelcomeMessage(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "welcome email failed", "member_id", m.ID, "err", err)
	}
}

func validateNewMember(email, firstName, lastName string, memberType domain.MemberType) []string {
	var errs []string
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if firstName == "" {
		errs = append(errs, "first_name is required")
	}
	if lastName == "" {
		errs = append(errs, "last_name is required")
	}
	if memberType == "" {
		errs = append(errs, "member_type is required")
	}
	return errs
}

// ValidateHandle reports why handle cannot be used, or nil.
func ValidateHandle(handle string) error {
	switch {
	case handle == "":
		return fmt.Errorf("handle is required: %w", domain.ErrInvalidInput)
	case len(handle) > maxHandleLength:
		return fmt.Errorf("handle must be at most %d characters: %w", maxHandleLength, domain.ErrInvalidInput)
	case !handleRegexp.MatchString(handle):
		return fmt.Errorf("handle may contain only letters, digits, '_', '-' and '.': %w", domain.ErrInvalidInput)
	}
	return nil
}

func (s *memberRegistry) SetHandle(ctx context.Context, memberID, handle string) error {
	ctx, span := tracer.Start(ctx, "MemberRegistry.SetHandle",
		trace.WithAttributes(attribute.String("member.id", memberID)))
	defer span.End()

	handle = strings.TrimSpace(handle)
	if err := ValidateHandle(handle); err != nil {
		s.metrics.RecordHandleClaim(telemetry.OutcomeRejected)
		return err
	}

	err := s.claimHandle(memberID, handle)
	if err != nil {
		s.metrics.RecordHandleClaim(telemetry.OutcomeRejected)
		span.SetStatus(codes.Error, err.Error())
		s.logger.DebugContext(ctx, "handle refused", "member_id", memberID, "handle", handle, "err", err)
		return err
	}
	s.metrics.RecordHandleClaim(telemetry.OutcomeSuccess)
	s.logger.InfoContext(ctx, "handle set", "member_id", memberID, "handle", handle)
	return nil
}

// claimHandle is the check-and-set: lookup, one-time check, uniqueness check and
// assignment all happen under the write lock.
func (s *memberRegistry) claimHandle(memberID, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[memberID]
	if !ok {
		return fmt.Errorf("member %s: %w", memberID, domain.ErrNotFound)
	}
	if m.HandleChanged {
		return fmt.Errorf("member %s: %w", memberID, domain.ErrHandleAlreadySet)
	}
	if owner, taken := s.handles[handle]; taken {
		return fmt.Errorf("handle %q held by member %s: %w", handle, owner, domain.ErrHandleTaken)
	}
	if err := m.AssignHandle(handle); err != nil {
		return err
	}
	s.handles[handle] = memberID
	return nil
}

func (s *memberRegistry) GetMember(ctx context.Context, memberID string) (*domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[memberID]
	if !ok {
		return nil, fmt.Errorf("member %s: %w", memberID, domain.ErrNotFound)
	}
	return m.Clone(), nil
}

func (s *memberRegistry) MemberExists(ctx context.Context, memberID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[memberID]
	return ok
}

func (s *memberRegistry) GetMemberByHandle(ctx context.Context, handle string) (*domain.Member, error) {
	handle = strings.TrimSpace(handle)
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.handles[handle]
	if !ok {
		return nil, fmt.Errorf("handle %q: %w", handle, domain.ErrNotFound)
	}
	return s.members[id].Clone(), nil
}

// ListMembers returns all members, oldest first.
func (s *memberRegistry) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	s.mu.RLock()
	out := make([]*domain.Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ResolveToken maps a scanned identity token back to its member. The token must verify
// and must be the one the registry bound to that member.
func (s *memberRegistry) ResolveToken(ctx context.Context, token string) (*domain.Member, error) {
	_, span := tracer.Start(ctx, "MemberRegistry.ResolveToken")
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("token is required: %w", domain.ErrInvalidInput)
	}
	if s.verifier != nil {
		if _, err := s.verifier.Verify(token); err != nil {
			span.SetStatus(codes.Error, "verify")
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token]
	if !ok {
		return nil, fmt.Errorf("token not bound to any member: %w", domain.ErrNotFound)
	}
	return s.members[id].Clone(), nil
}
