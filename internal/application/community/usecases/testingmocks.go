package usecases

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"skillswap/internal/domain/community"
	"skillswap/internal/shared/logger"
)

type mockCommunityRepo struct {
	mock.Mock
}

func (m *mockCommunityRepo) FindByID(ctx context.Context, id uint) (*community.Community, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*community.Community); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCommunityRepo) Create(ctx context.Context, c *community.Community) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCommunityRepo) ListActive(ctx context.Context) ([]*community.Community, error) {
	args := m.Called(ctx)
	if cs, ok := args.Get(0).([]*community.Community); ok {
		return cs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCommunityRepo) IncrementMemberCount(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCommunityRepo) DecrementMemberCount(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockMembershipRepo struct {
	mock.Mock
}

func (m *mockMembershipRepo) FindByUserAndCommunity(ctx context.Context, userID, communityID uint) (*community.Membership, error) {
	args := m.Called(ctx, userID, communityID)
	if ms, ok := args.Get(0).(*community.Membership); ok {
		return ms, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMembershipRepo) Create(ctx context.Context, ms *community.Membership) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

func (m *mockMembershipRepo) Update(ctx context.Context, ms *community.Membership) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

func (m *mockMembershipRepo) FindExpired(ctx context.Context, now time.Time) ([]*community.Membership, error) {
	args := m.Called(ctx, now)
	if ms, ok := args.Get(0).([]*community.Membership); ok {
		return ms, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMembershipRepo) FindExpiredAutoRenew(ctx context.Context, now time.Time) ([]community.RenewalCandidate, error) {
	args := m.Called(ctx, now)
	if cs, ok := args.Get(0).([]community.RenewalCandidate); ok {
		return cs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMembershipRepo) ListActiveByUser(ctx context.Context, userID uint) ([]*community.Membership, error) {
	args := m.Called(ctx, userID)
	if ms, ok := args.Get(0).([]*community.Membership); ok {
		return ms, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMembershipRepo) CountActiveByCommunity(ctx context.Context, communityID uint) (int64, error) {
	args := m.Called(ctx, communityID)
	return args.Get(0).(int64), args.Error(1)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Deduct(ctx context.Context, userID uint, amount int, reason string) error {
	args := m.Called(ctx, userID, amount, reason)
	return args.Error(0)
}

func (m *mockLedger) Credit(ctx context.Context, userID uint, amount int, reason string) error {
	args := m.Called(ctx, userID, amount, reason)
	return args.Error(0)
}

func (m *mockLedger) BalanceOf(ctx context.Context, userID uint) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// stubTxManager runs the transaction body inline. Rollback semantics are the
// database's job and are covered by the repository integration tests; here
// the mocks only need to observe which mutations the body attempted.
type stubTxManager struct {
	err error
}

func (s *stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(ctx)
}

// sentNotification records a single fan-out delivery.
type sentNotification struct {
	ToUser   bool
	TargetID uint
	Event    community.Event
}

// recordingNotifier captures post-commit notifications for assertions.
type recordingNotifier struct {
	sent     []sentNotification
	failWith error
}

func (r *recordingNotifier) SendToCommunity(ctx context.Context, communityID uint, event community.Event) error {
	r.sent = append(r.sent, sentNotification{TargetID: communityID, Event: event})
	return r.failWith
}

func (r *recordingNotifier) SendToUser(ctx context.Context, userID uint, event community.Event) error {
	r.sent = append(r.sent, sentNotification{ToUser: true, TargetID: userID, Event: event})
	return r.failWith
}

func (r *recordingNotifier) eventTypes() []community.EventType {
	types := make([]community.EventType, 0, len(r.sent))
	for _, n := range r.sent {
		types = append(types, n.Event.Type)
	}
	return types
}

// nopLogger satisfies logger.Interface without recording anything.
type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any)                   {}
func (nopLogger) Info(msg string, args ...any)                    {}
func (nopLogger) Warn(msg string, args ...any)                    {}
func (nopLogger) Error(msg string, args ...any)                   {}
func (nopLogger) Fatal(msg string, args ...any)                   {}
func (n nopLogger) With(args ...any) logger.Interface             { return n }
func (n nopLogger) Named(name string) logger.Interface            { return n }
func (nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Fatalw(msg string, keysAndValues ...interface{}) {}
