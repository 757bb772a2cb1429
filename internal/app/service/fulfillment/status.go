package fulfillment

import (
	"fmt"
	"strings"
	"time"

	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

// Outcome is the local classification of an upstream delivery status.
type Outcome string

const (
	OutcomeCompleted  Outcome = "completed"
	OutcomeFailed     Outcome = "failed"
	OutcomeProcessing Outcome = "processing"
)

var failureMarkers = []string{"failed", "error", "cancelled", "canceled", "rejected", "refund"}
var successMarkers = []string{"successful", "delivered", "completed"}

// Classify maps the provider's free-text order status to a local outcome.
// Failure markers win over success markers so that strings like
// "refund completed" resolve to failed. Anything unrecognized, including an
// empty string, is still processing.
func Classify(statusText string) Outcome {
	s := strings.ToLower(strings.TrimSpace(statusText))
	for _, m := range failureMarkers {
		if strings.Contains(s, m) {
			return OutcomeFailed
		}
	}
	for _, m := range successMarkers {
		if strings.Contains(s, m) {
			return OutcomeCompleted
		}
	}
	return OutcomeProcessing
}

// legalTransitions is the authoritative order-fulfillment state machine:
// pending → processing → completed|failed, with failed re-drivable to
// processing via the admin retry path.
var legalTransitions = map[types.OrderStatus][]types.OrderStatus{
	types.OrderStatusPending:    {types.OrderStatusProcessing, types.OrderStatusFailed},
	types.OrderStatusProcessing: {types.OrderStatusCompleted, types.OrderStatusFailed},
	types.OrderStatusFailed:     {types.OrderStatusProcessing},
	types.OrderStatusCompleted:  {},
}

// Transition validates a fulfillment state change. Self-transitions are
// allowed as no-ops (duplicate deliveries replay the same step).
func Transition(from, to types.OrderStatus) error {
	if from == to {
		return nil
	}
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("illegal order transition %s -> %s", from, to)
}

// retryBackoff is the admin-retry schedule: next eligible retry time offsets
// keyed by the attempt just made.
var retryBackoff = map[int]time.Duration{
	1: 5 * time.Minute,
	2: 15 * time.Minute,
	3: 60 * time.Minute,
}

// NextRetryDelay returns the wait before another manual retry is allowed.
func NextRetryDelay(attempt int) time.Duration {
	if d, ok := retryBackoff[attempt]; ok {
		return d
	}
	return 60 * time.Minute
}
