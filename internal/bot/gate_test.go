package bot

import (
	"testing"

	"github.com/tbourn/go-media-bot/internal/config"
	"github.com/tbourn/go-media-bot/internal/state"
)

func newGateBot() *Bot {
	cfg := config.Config{
		Telegram: config.TelegramConfig{
			AdminIDs: []int64{7263519581},
		},
	}
	return &Bot{cfg: cfg, state: state.New()}
}

func TestIsGated_OperatorBypassesJoinGate(t *testing.T) {
	b := newGateBot()

	if !b.isOperator(7263519581) {
		t.Fatal("allow-listed identity must be an operator")
	}
	if !b.isGated(7263519581) {
		t.Fatal("operators bypass the join gate")
	}
}

func TestIsGated_RegularUserNeedsVerification(t *testing.T) {
	b := newGateBot()
	const user = int64(42)

	if b.isOperator(user) {
		t.Fatal("regular user must not be an operator")
	}
	if b.isGated(user) {
		t.Fatal("unverified user must be gated")
	}

	b.state.Verify(user)
	if !b.isGated(user) {
		t.Fatal("verified user passes the gate")
	}
	// Unrelated state changes never revert the transition.
	b.state.Touch(user)
	b.state.ForgetSession(user)
	if !b.isGated(user) {
		t.Fatal("verification is monotonic for the process lifetime")
	}
}
