package usecases

import (
	"context"

	"skillswap/internal/domain/community"
	"skillswap/internal/shared/logger"
)

type pendingNotification struct {
	toUser   bool
	targetID uint
	event    community.Event
}

// notificationQueue collects lifecycle events during a transaction body and
// drains them after the commit. Draining uses a fresh context so a cancelled
// request cannot suppress delivery, and every send error is swallowed after
// logging: notifications never affect, delay, or retry the owning
// transaction.
type notificationQueue struct {
	pending []pendingNotification
}

func (q *notificationQueue) toCommunity(communityID uint, event community.Event) {
	q.pending = append(q.pending, pendingNotification{targetID: communityID, event: event})
}

func (q *notificationQueue) toUser(userID uint, event community.Event) {
	q.pending = append(q.pending, pendingNotification{toUser: true, targetID: userID, event: event})
}

func (q *notificationQueue) drain(sender NotificationSender, log logger.Interface) {
	if sender == nil {
		return
	}

	ctx := context.Background()
	for _, n := range q.pending {
		var err error
		if n.toUser {
			err = sender.SendToUser(ctx, n.targetID, n.event)
		} else {
			err = sender.SendToCommunity(ctx, n.targetID, n.event)
		}
		if err != nil {
			log.Warnw("failed to deliver lifecycle notification",
				"event_type", n.event.Type,
				"to_user", n.toUser,
				"target_id", n.targetID,
				"error", err,
			)
		}
	}
	q.pending = nil
}
