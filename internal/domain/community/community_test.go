package community

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommunity_ValidInput(t *testing.T) {
	c, err := NewCommunity("Go Study Circle", "weekly code review sessions", 20, "monthly", 5)

	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Go Study Circle", c.Name())
	assert.Equal(t, 20, c.CreditsCost())
	assert.Equal(t, 0, c.MembersCount())
	assert.True(t, c.IsActive())
	assert.True(t, c.IsAdmin(5))
	assert.False(t, c.IsAdmin(6))
}

func TestNewCommunity_InvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		communName  string
		creditsCost int
		adminID     uint
	}{
		{"empty name", "", 10, 5},
		{"negative cost", "Circle", -1, 5},
		{"missing admin", "Circle", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCommunity(tt.communName, "", tt.creditsCost, "monthly", tt.adminID)
			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestReconstructCommunity(t *testing.T) {
	now := time.Now()

	c, err := ReconstructCommunity(3, "Design Crits", "", 0, "monthly", 12, true, 9, now, now)
	require.NoError(t, err)
	assert.Equal(t, uint(3), c.ID())
	assert.Equal(t, 12, c.MembersCount())

	_, err = ReconstructCommunity(0, "Design Crits", "", 0, "monthly", 12, true, 9, now, now)
	assert.Error(t, err, "zero ID must be rejected")

	_, err = ReconstructCommunity(3, "Design Crits", "", -5, "monthly", 12, true, 9, now, now)
	assert.Error(t, err, "negative cost must be rejected")
}
