package bot

import (
	"context"
	"strings"
	"testing"

	tele "gopkg.in/telebot.v3"

	"github.com/tbourn/go-media-bot/internal/search"
	"github.com/tbourn/go-media-bot/internal/services"
)

// recorderContext implements the slice of tele.Context the handlers touch and
// records every outgoing send. Methods the handlers never reach fall through
// to the embedded nil interface and would panic, which is the point.
type recorderContext struct {
	tele.Context
	sender *tele.User
	msg    *tele.Message
	sent   []interface{}
}

func (c *recorderContext) Sender() *tele.User     { return c.sender }
func (c *recorderContext) Message() *tele.Message { return c.msg }

func (c *recorderContext) Send(what interface{}, opts ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

// emptyIndex answers every query with zero hits.
type emptyIndex struct{}

func (emptyIndex) Search(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	return nil, nil
}
func (emptyIndex) Save(ctx context.Context, doc search.Document) error { return nil }
func (emptyIndex) Ping(ctx context.Context) error                      { return nil }

func TestAdminCommands_NonOperatorGetsSilence(t *testing.T) {
	b := newGateBot()
	user := &tele.User{ID: 42}

	handlers := map[string]tele.HandlerFunc{
		"/stats":         b.onStats,
		"/broadcast":     b.onBroadcast,
		"/total_movies":  b.onTotalMovies,
		"/cleanup_users": b.onCleanupUsers,
		"/reload_config": b.onReloadConfig,
		"/refresh":       b.onRefresh,
	}
	for cmd, h := range handlers {
		c := &recorderContext{sender: user, msg: &tele.Message{Payload: "hello"}}
		if err := h(c); err != nil {
			t.Fatalf("%s from non-operator: %v", cmd, err)
		}
		if len(c.sent) != 0 {
			t.Fatalf("%s from non-operator replied %v; want silence", cmd, c.sent)
		}
	}
}

func TestOnStats_OperatorGetsCounters(t *testing.T) {
	b := newGateBot()
	b.state.RecordSearch()

	c := &recorderContext{sender: &tele.User{ID: 7263519581}}
	if err := b.onStats(c); err != nil {
		t.Fatalf("onStats: %v", err)
	}
	if len(c.sent) != 1 {
		t.Fatalf("expected one reply, got %d", len(c.sent))
	}
	body, ok := c.sent[0].(string)
	if !ok || !strings.Contains(body, "Total Searches: 1") {
		t.Fatalf("unexpected stats reply: %v", c.sent[0])
	}
}

func TestOnCleanupUsers_OperatorClearsDirectory(t *testing.T) {
	b := newGateBot()
	b.state.Touch(1)
	b.state.Touch(2)

	c := &recorderContext{sender: &tele.User{ID: 7263519581}}
	if err := b.onCleanupUsers(c); err != nil {
		t.Fatalf("onCleanupUsers: %v", err)
	}
	if len(c.sent) != 1 || !strings.Contains(c.sent[0].(string), "Cleared 2") {
		t.Fatalf("unexpected cleanup reply: %v", c.sent)
	}
	if b.state.CountUsers() != 0 {
		t.Fatalf("expected empty directory, got %d users", b.state.CountUsers())
	}
}

func TestOnSearch_ZeroHitQueryStillCounts(t *testing.T) {
	b := newGateBot()
	b.searchSvc = services.NewSearchService(emptyIndex{}, nil, nil)
	b.state.Verify(42)

	c := &recorderContext{
		sender: &tele.User{ID: 42},
		msg:    &tele.Message{Text: "dune"},
	}
	if err := b.onSearch(c); err != nil {
		t.Fatalf("onSearch: %v", err)
	}
	if got := b.state.Searches(); got != 1 {
		t.Fatalf("Searches = %d after zero-hit query; want 1", got)
	}
	if len(c.sent) != 1 || !strings.Contains(c.sent[0].(string), "dune") {
		t.Fatalf("expected the no-results reply, got %v", c.sent)
	}
}
