// Package bot wires the Telegram transport (telebot) to the application
// services: the join gate, the query path, the channel-post ingestion path,
// and the operator console. Handlers are transport-thin; they validate the
// update, call a service, and shape the reply.
//
// telebot dispatches every update on its own goroutine, so nothing here may
// touch unsynchronized state: all volatile bookkeeping lives behind
// state.State and the services are safe for concurrent use. Handler errors
// are logged and converted to a generic user-facing failure; none of them
// ever take the poller down.
package bot

import (
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"github.com/tbourn/go-media-bot/internal/config"
	"github.com/tbourn/go-media-bot/internal/services"
	"github.com/tbourn/go-media-bot/internal/state"
)

// Bot owns the Telegram client and routes updates to the services.
type Bot struct {
	tb    *tele.Bot
	cfg   config.Config
	state *state.State

	searchSvc    *services.SearchService
	ingestSvc    *services.IngestService
	broadcastSvc *services.BroadcastService
}

// New connects to the Telegram API and registers all handlers. The long-poll
// timeout comes from the configuration; telebot removes any stale webhook
// when polling starts.
func New(
	cfg config.Config,
	st *state.State,
	searchSvc *services.SearchService,
	ingestSvc *services.IngestService,
	broadcastSvc *services.BroadcastService,
) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.BotToken,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.PollTimeout},
		OnError: func(err error, c tele.Context) {
			ev := log.Error().Err(err)
			if c != nil && c.Sender() != nil {
				ev = ev.Int64("user_id", c.Sender().ID)
			}
			ev.Msg("unhandled bot error")
		},
	})
	if err != nil {
		return nil, err
	}

	b := &Bot{
		tb:           tb,
		cfg:          cfg,
		state:        st,
		searchSvc:    searchSvc,
		ingestSvc:    ingestSvc,
		broadcastSvc: broadcastSvc,
	}
	b.register()
	return b, nil
}

// Username returns the authenticated bot account name.
func (b *Bot) Username() string { return b.tb.Me.Username }

// Start begins long polling. It blocks until Stop is called.
func (b *Bot) Start() { b.tb.Start() }

// Stop terminates the poller. In-flight handlers run to completion.
func (b *Bot) Stop() { b.tb.Stop() }

// register attaches middleware and routes updates by type/command.
func (b *Bot) register() {
	b.tb.Use(b.track)

	// User surface
	b.tb.Handle("/start", b.onStart)
	b.tb.Handle("/help", b.onHelp)
	b.tb.Handle(tele.OnText, b.onSearch)
	b.tb.Handle(tele.OnCallback, b.onCallback)

	// Ingestion
	b.tb.Handle(tele.OnChannelPost, b.onChannelPost)

	// Operator console
	b.tb.Handle("/stats", b.onStats)
	b.tb.Handle("/broadcast", b.onBroadcast)
	b.tb.Handle("/total_movies", b.onTotalMovies)
	b.tb.Handle("/cleanup_users", b.onCleanupUsers)
	b.tb.Handle("/reload_config", b.onReloadConfig)
	b.tb.Handle("/refresh", b.onRefresh)
}

// track is the outermost middleware: it records the update, registers the
// sender in the broadcast directory, and fences handler errors off from the
// poller. Channel posts carry no sender and are not directory material.
func (b *Bot) track(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		b.state.RecordUpdate()
		if u := c.Sender(); u != nil && c.Chat() != nil && c.Chat().Type == tele.ChatPrivate {
			b.state.Touch(u.ID)
		}

		if err := next(c); err != nil {
			ev := log.Error().Err(err).Dur("latency", time.Since(start))
			if u := c.Sender(); u != nil {
				ev = ev.Int64("user_id", u.ID)
			}
			ev.Msg("handler failed")

			// Generic acknowledgment; deliberate silence for channel posts.
			if c.Sender() != nil {
				if c.Callback() != nil {
					return c.Respond(&tele.CallbackResponse{Text: cbLinkError})
				}
				return c.Send(msgSearchError)
			}
		}
		return nil
	}
}

// isOperator reports whether id is on the compiled-in operator allow-list.
func (b *Bot) isOperator(id int64) bool { return b.cfg.IsAdmin(id) }

// isGated reports whether id may search: operators bypass the join gate.
func (b *Bot) isGated(id int64) bool {
	return b.isOperator(id) || b.state.IsVerified(id)
}
