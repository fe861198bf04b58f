package community

import "time"

// EventType identifies a lifecycle notification event.
type EventType string

const (
	EventMemberJoined        EventType = "member_joined"
	EventMemberLeft          EventType = "member_left"
	EventMemberRemoved       EventType = "member_removed"
	EventSubscriptionRenewed EventType = "subscription_renewed"
	EventBalanceUpdated      EventType = "balance_updated"
)

// Removal reasons carried in member_removed events.
const (
	RemovalReasonExpired         = "subscription_expired"
	RemovalReasonAutoRenewFailed = "auto_renew_failed"
)

// Event is a lifecycle notification payload. Events are appended during a
// transaction and dispatched best-effort after commit; delivery failure never
// affects the owning transaction.
type Event struct {
	Type        EventType      `json:"type"`
	CommunityID uint           `json:"community_id,omitempty"`
	Data        map[string]any `json:"data"`
}

// NewMemberJoinedEvent reports a user joining a community.
func NewMemberJoinedEvent(communityID, userID uint) Event {
	return Event{
		Type:        EventMemberJoined,
		CommunityID: communityID,
		Data: map[string]any{
			"user_id": userID,
		},
	}
}

// NewMemberLeftEvent reports a user leaving a community, voluntarily or not.
func NewMemberLeftEvent(communityID, userID uint) Event {
	return Event{
		Type:        EventMemberLeft,
		CommunityID: communityID,
		Data: map[string]any{
			"user_id": userID,
		},
	}
}

// NewMemberRemovedEvent tells the removed user why their membership ended.
func NewMemberRemovedEvent(communityID, userID uint, reason, message string) Event {
	return Event{
		Type:        EventMemberRemoved,
		CommunityID: communityID,
		Data: map[string]any{
			"user_id": userID,
			"reason":  reason,
			"message": message,
		},
	}
}

// NewSubscriptionRenewedEvent reports a successful auto-renewal to the user.
func NewSubscriptionRenewedEvent(communityID, userID uint, endsAt time.Time, creditsDeducted int) Event {
	return Event{
		Type:        EventSubscriptionRenewed,
		CommunityID: communityID,
		Data: map[string]any{
			"user_id":          userID,
			"ends_at":          endsAt,
			"credits_deducted": creditsDeducted,
		},
	}
}

// NewBalanceUpdatedEvent nudges the user's clients to refresh their wallet.
func NewBalanceUpdatedEvent(userID uint) Event {
	return Event{
		Type: EventBalanceUpdated,
		Data: map[string]any{
			"user_id": userID,
		},
	}
}
