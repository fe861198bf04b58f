package community

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newActiveMembership(t *testing.T, autoRenew bool) *Membership {
	t.Helper()
	m, err := NewMembership(1, 10, RoleMember, autoRenew)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func reconstructMembership(t *testing.T, isActive, autoRenew bool, endsAt *time.Time, leftAt *time.Time) *Membership {
	t.Helper()
	now := time.Now()
	m, err := ReconstructMembership(1, 1, 10, RoleMember, autoRenew, endsAt, now.Add(-48*time.Hour), leftAt, isActive, now.Add(-48*time.Hour), now)
	require.NoError(t, err)
	return m
}

func TestNewMembership_ValidInput(t *testing.T) {
	before := time.Now()
	m, err := NewMembership(1, 10, RoleMember, false)
	after := time.Now()

	require.NoError(t, err)
	require.NotNil(t, m)

	assert.True(t, m.IsActive())
	assert.Equal(t, RoleMember, m.Role())
	assert.False(t, m.IsAutoRenew())
	assert.Nil(t, m.LeftAt())

	require.NotNil(t, m.SubscriptionEndsAt())
	assert.False(t, m.SubscriptionEndsAt().Before(before.Add(SubscriptionPeriod)))
	assert.False(t, m.SubscriptionEndsAt().After(after.Add(SubscriptionPeriod)))
}

func TestNewMembership_InvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		communityID uint
		userID      uint
		role        Role
	}{
		{"missing community", 0, 10, RoleMember},
		{"missing user", 1, 0, RoleMember},
		{"invalid role", 1, 10, Role("owner")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMembership(tt.communityID, tt.userID, tt.role, false)
			assert.Error(t, err)
			assert.Nil(t, m)
		})
	}
}

func TestMembership_Deactivate(t *testing.T) {
	m := newActiveMembership(t, false)

	err := m.Deactivate()

	require.NoError(t, err)
	assert.False(t, m.IsActive())
	require.NotNil(t, m.LeftAt())
	assert.WithinDuration(t, time.Now(), *m.LeftAt(), time.Second)
	// history stays
	assert.NotNil(t, m.SubscriptionEndsAt())
}

func TestMembership_Deactivate_AlreadyInactive(t *testing.T) {
	m := newActiveMembership(t, false)
	require.NoError(t, m.Deactivate())

	err := m.Deactivate()

	assert.Error(t, err)
}

func TestMembership_Reactivate(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	left := time.Now().Add(-30 * time.Minute)
	m := reconstructMembership(t, false, false, &past, &left)

	err := m.Reactivate(true)

	require.NoError(t, err)
	assert.True(t, m.IsActive())
	assert.True(t, m.IsAutoRenew())
	assert.Equal(t, RoleMember, m.Role())
	assert.Nil(t, m.LeftAt())
	require.NotNil(t, m.SubscriptionEndsAt())
	assert.True(t, m.SubscriptionEndsAt().After(time.Now()))
}

func TestMembership_Reactivate_WhileActive(t *testing.T) {
	m := newActiveMembership(t, false)

	err := m.Reactivate(false)

	assert.Error(t, err)
}

func TestMembership_Renew_ExtendsFromGivenOrigin(t *testing.T) {
	stale := time.Now().Add(-10 * 24 * time.Hour)
	m := reconstructMembership(t, true, true, &stale, nil)

	now := time.Now()
	err := m.Renew(now)

	require.NoError(t, err)
	require.NotNil(t, m.SubscriptionEndsAt())
	// a missed sweep must not compound: the new end date counts from the
	// renewal instant, not from the stale end date
	assert.Equal(t, now.Add(SubscriptionPeriod), *m.SubscriptionEndsAt())
}

func TestMembership_Renew_Rejections(t *testing.T) {
	t.Run("inactive membership", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		m := reconstructMembership(t, false, true, &past, &past)
		assert.Error(t, m.Renew(time.Now()))
	})

	t.Run("not auto-renew", func(t *testing.T) {
		m := newActiveMembership(t, false)
		assert.Error(t, m.Renew(time.Now()))
	})
}

func TestMembership_IsLapsed(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name   string
		m      *Membership
		lapsed bool
	}{
		{"active and lapsed", reconstructMembership(t, true, false, &past, nil), true},
		{"active not lapsed", reconstructMembership(t, true, false, &future, nil), false},
		{"inactive never lapsed", reconstructMembership(t, false, false, &past, &past), false},
		{"no end date", reconstructMembership(t, true, false, nil, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.lapsed, tt.m.IsLapsed(now))
		})
	}
}

func TestMembership_SetID(t *testing.T) {
	m := newActiveMembership(t, false)

	require.NoError(t, m.SetID(7))
	assert.Equal(t, uint(7), m.ID())

	assert.Error(t, m.SetID(8), "ID must not be reassignable")
	assert.Error(t, newActiveMembership(t, false).SetID(0))
}
