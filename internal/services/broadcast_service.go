// Package services – BroadcastService
//
// This file implements the operator broadcast fan-out: a sequential send to
// every directory entry with a fixed inter-send delay to respect platform
// throughput limits. Per-recipient failures are classified by substring into
// a "blocked" bucket (the user blocked the bot or deactivated the account)
// versus a generic "failed" bucket; nothing is retried within a run.
//
// The transport is injected as a send callback so this service carries no
// chat-client dependency and stays trivially testable.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BroadcastSummary reports the outcome of one broadcast run.
type BroadcastSummary struct {
	Sent    int
	Blocked int
	Failed  int
	Total   int
}

// BroadcastService fans a message out to the volatile user directory.
type BroadcastService struct {
	// Delay is the pause between consecutive sends.
	Delay time.Duration
}

// NewBroadcastService constructs a BroadcastService with the given inter-send
// delay. Negative delays are coerced to zero.
func NewBroadcastService(delay time.Duration) *BroadcastService {
	if delay < 0 {
		delay = 0
	}
	return &BroadcastService{Delay: delay}
}

// Run delivers to every recipient in order, calling send once per recipient.
// It runs to completion; there is no cancellation of an in-flight fan-out
// beyond ctx expiry between sends, and no per-recipient retry. Each run is
// tagged with a generated run ID in the logs.
func (s *BroadcastService) Run(ctx context.Context, recipients []int64, send func(userID int64) error) BroadcastSummary {
	runID := uuid.NewString()
	sum := BroadcastSummary{Total: len(recipients)}

	lg := log.With().Str("broadcast_id", runID).Logger()
	lg.Info().Int("recipients", sum.Total).Msg("broadcast started")

	for i, id := range recipients {
		if ctx.Err() != nil {
			lg.Warn().Err(ctx.Err()).Int("delivered", i).Msg("broadcast interrupted")
			break
		}
		if err := send(id); err != nil {
			if IsBlockedDelivery(err) {
				sum.Blocked++
				broadcastDeliveries.WithLabelValues("blocked").Inc()
			} else {
				sum.Failed++
				broadcastDeliveries.WithLabelValues("failed").Inc()
			}
			lg.Error().Err(err).Int64("user_id", id).Msg("broadcast delivery failed")
		} else {
			sum.Sent++
			broadcastDeliveries.WithLabelValues("sent").Inc()
		}
		if s.Delay > 0 && i < len(recipients)-1 {
			time.Sleep(s.Delay)
		}
	}

	lg.Info().
		Int("sent", sum.Sent).
		Int("blocked", sum.Blocked).
		Int("failed", sum.Failed).
		Msg("broadcast finished")
	return sum
}

// IsBlockedDelivery classifies a delivery error as "the recipient is gone":
// the user blocked the bot or deactivated the account. The chat platform
// reports these as plain-text API errors, so matching is by substring.
func IsBlockedDelivery(err error) bool {
	if err == nil {
		return false
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "blocked") || strings.Contains(low, "deactivated")
}
