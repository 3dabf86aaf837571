package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"memberadmission/internal/domain"
	"memberadmission/internal/telemetry"
)

// fakeIssuer hands out "qr:<member>:<n>" tokens, or err when set.
type fakeIssuer struct {
	mu    sync.Mutex
	n     int
	err   error
	fixed string
}

func (f *fakeIssuer) Issue(_ context.Context, memberID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if f.fixed != "" {
		return f.fixed, nil
	}
	f.n++
	return fmt.Sprintf("qr:%s:%d", memberID, f.n), nil
}

// fakeVerifier accepts tokens produced by fakeIssuer.
type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (string, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "qr" {
		return "", domain.ErrInvalidToken
	}
	return parts[1], nil
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.WelcomeMessageEmailData
	err  error
}

func (f *fakeEmailService) SendWelcomeMessage(_ context.Context, data *domain.WelcomeMessageEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testMetrics() *telemetry.Metrics {
	return telemetry.NewMetrics(prometheus.NewRegistry())
}

func newTestRegistry(issuer domain.IdentityTokenIssuer, email domain.EmailService) *memberRegistry {
	return NewMemberRegistry(issuer, fakeVerifier{}, email, testMetrics(), testLogger()).(*memberRegistry)
}

func newTestLedger(members domain.MemberLookup) *admissionLedger {
	return NewAdmissionLedger(members, testMetrics(), testLogger()).(*admissionLedger)
}

// steppingClock returns start, start+step, start+2*step, ...
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(step)
		return t
	}
}
