package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"github.com/tbourn/go-media-bot/internal/services"
	"github.com/tbourn/go-media-bot/internal/state"
)

// onStart greets the sender: operators get the live console summary,
// unverified users the join gate, verified users the ready prompt.
func (b *Bot) onStart(c tele.Context) error {
	u := c.Sender()
	if u == nil {
		return nil
	}

	if b.isOperator(u.ID) {
		return c.Send(b.adminWelcome())
	}
	if !b.state.IsVerified(u.ID) {
		return c.Send(msgJoinPrompt, b.joinKeyboard())
	}
	return c.Send(msgReadyPrompt)
}

// onHelp lists the operator console for operators and the one-line usage
// hint for everyone else.
func (b *Bot) onHelp(c tele.Context) error {
	u := c.Sender()
	if u == nil {
		return nil
	}
	if b.isOperator(u.ID) {
		return c.Send(msgAdminHelp)
	}
	return c.Send(msgUserHelp)
}

// onSearch is the free-text query path: gate check, cooldown, index query,
// one inline button per hit. Queries inside the cooldown window are dropped
// without any response.
func (b *Bot) onSearch(c tele.Context) error {
	u := c.Sender()
	msg := c.Message()
	if u == nil || msg == nil || msg.Text == "" || msg.Text[0] == '/' {
		return nil
	}
	if !b.isGated(u.ID) {
		return c.Send(msgJoinPrompt, b.joinKeyboard())
	}

	hits, err := b.searchSvc.Search(context.Background(), u.ID, msg.Text)
	switch {
	case errors.Is(err, services.ErrRateLimited), errors.Is(err, services.ErrEmptyQuery):
		return nil
	case errors.Is(err, services.ErrNotReady):
		return c.Send(msgServiceDown)
	case err != nil:
		return err
	}
	// Every query that reached the index counts, hits or not.
	b.state.RecordSearch()
	if len(hits) == 0 {
		return c.Send(fmt.Sprintf(msgNoResults, msg.Text))
	}

	rows := make([][]tele.InlineButton, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, []tele.InlineButton{{
			Text: "🎬 " + b.searchSvc.DisplayTitle(h.Title),
			Data: PostCallback(h.PostID),
		}})
	}
	sent, err := b.tb.Send(u,
		fmt.Sprintf(msgResultsFound, len(hits), msg.Text),
		&tele.ReplyMarkup{InlineKeyboard: rows},
	)
	if err != nil {
		return err
	}

	b.state.RememberResults(u.ID, state.MessageRef{ChatID: sent.Chat.ID, MessageID: sent.ID})
	return nil
}

// onCallback routes button presses: the join-gate acknowledgment and result
// selections.
func (b *Bot) onCallback(c tele.Context) error {
	cb := c.Callback()
	u := c.Sender()
	if cb == nil || u == nil {
		return nil
	}

	data := trimCallbackData(cb.Data)
	if data == cbJoined {
		return b.onJoined(c, u.ID)
	}
	if postID, ok := ParsePostCallback(data); ok {
		return b.onSelect(c, u.ID, postID)
	}
	return c.Respond(&tele.CallbackResponse{Text: cbBadSelection})
}

// onJoined flips the sender to verified. The transition is monotonic for the
// process lifetime.
func (b *Bot) onJoined(c tele.Context, userID int64) error {
	b.state.Verify(userID)
	log.Info().Int64("user_id", userID).Msg("user passed join gate")

	// Replace the gate prompt in place; ignore edit failures on stale prompts.
	_ = c.Edit(msgAccessGranted)
	return c.Respond(&tele.CallbackResponse{Text: cbAccessGranted})
}

// onSelect resolves a result selection into the restricted access link. The
// previous result listing is deleted best-effort to keep the chat uncluttered.
func (b *Bot) onSelect(c tele.Context, userID, postID int64) error {
	if !b.isGated(userID) {
		return c.Respond(&tele.CallbackResponse{Text: cbAccessDenied})
	}

	if ref, ok := b.state.TakeResults(userID); ok {
		_ = b.tb.Delete(tele.StoredMessage{
			MessageID: strconv.Itoa(ref.MessageID),
			ChatID:    ref.ChatID,
		})
	}

	url := PostURL(b.cfg.Telegram.LibraryChannel, postID)
	markup := &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{{Text: btnDownload, URL: url}},
	}}
	if err := c.Send(msgLinkReady, markup); err != nil {
		return err
	}
	log.Info().Int64("user_id", userID).Int64("post_id", postID).Msg("access link sent")
	return c.Respond(&tele.CallbackResponse{Text: cbLinkSent})
}

// onChannelPost feeds library channel posts into the ingestion synchronizer.
// Posts from other chats, posts without a document/video attachment, and
// posts whose caption yields no title are skipped silently, as are edits and
// reposts of already-cataloged posts.
func (b *Bot) onChannelPost(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Chat == nil || msg.Chat.ID != b.cfg.Telegram.LibraryChannel {
		return nil
	}
	if msg.Document == nil && msg.Video == nil {
		return nil
	}

	_, err := b.ingestSvc.Ingest(context.Background(), msg.Caption, int64(msg.ID))
	switch {
	case errors.Is(err, services.ErrNoTitle),
		errors.Is(err, services.ErrAlreadyCataloged):
		return nil
	case errors.Is(err, services.ErrNotReady):
		log.Warn().Int("post_id", msg.ID).Msg("channel post dropped: store not ready")
		return nil
	case err != nil:
		// Never surface ingestion failures into the channel.
		log.Error().Err(err).Int("post_id", msg.ID).Msg("channel post ingestion failed")
		return nil
	}
	return nil
}

// ---- operator console ----

// onStats reports live usage counters. Non-operators get silence.
func (b *Bot) onStats(c tele.Context) error {
	u := c.Sender()
	if u == nil || !b.isOperator(u.ID) {
		return nil
	}
	return c.Send(fmt.Sprintf(
		"📊 Bot Statistics (Live):\n\n"+
			"🔍 Total Searches: %d\n"+
			"📨 Updates Processed: %d\n"+
			"👥 Total Unique Users: %d\n"+
			"🕐 Active (24h): %d\n"+
			"✅ Verified Users: %d\n"+
			"⏱ Uptime: %s",
		b.state.Searches(),
		b.state.Updates(),
		b.state.CountUsers(),
		b.state.ActiveSince(time.Now().UTC().Add(-24*time.Hour)),
		b.state.CountVerified(),
		formatUptime(b.state.Uptime()),
	))
}

// onBroadcast fans a text, or the photo/video the command replies to, out to
// the whole directory and reports a delivery summary.
func (b *Bot) onBroadcast(c tele.Context) error {
	u := c.Sender()
	msg := c.Message()
	if u == nil || msg == nil || !b.isOperator(u.ID) {
		return nil
	}

	text := msg.Payload
	var photo *tele.Photo
	var video *tele.Video
	if r := msg.ReplyTo; r != nil {
		photo, video = r.Photo, r.Video
		if text == "" {
			text = r.Caption
		}
	}
	if text == "" && photo == nil && video == nil {
		return c.Send(msgBroadcastUsage)
	}

	recipients := b.state.Users()
	if len(recipients) == 0 {
		return c.Send(msgBroadcastNoUsers)
	}

	body := "📢 Broadcast:\n\n" + text
	kind := "📝 text"
	switch {
	case photo != nil:
		kind = "📸 photo"
	case video != nil:
		kind = "🎥 video"
	}
	status, err := b.tb.Send(u, fmt.Sprintf("📡 Broadcasting %s to %d users...", kind, len(recipients)))
	if err != nil {
		return err
	}

	sum := b.broadcastSvc.Run(context.Background(), recipients, func(userID int64) error {
		to := &tele.User{ID: userID}
		switch {
		case photo != nil:
			p := *photo
			p.Caption = body
			_, err := b.tb.Send(to, &p)
			return err
		case video != nil:
			v := *video
			v.Caption = body
			_, err := b.tb.Send(to, &v)
			return err
		default:
			_, err := b.tb.Send(to, body)
			return err
		}
	})

	_, err = b.tb.Edit(status, fmt.Sprintf(
		"✅ Broadcast Complete!\n\n"+
			"✅ Sent: %d\n"+
			"🚫 Blocked: %d\n"+
			"❌ Failed: %d\n"+
			"👥 Total Users: %d",
		sum.Sent, sum.Blocked, sum.Failed, sum.Total,
	))
	return err
}

// onTotalMovies reports the live catalog size straight from the store.
func (b *Bot) onTotalMovies(c tele.Context) error {
	u := c.Sender()
	if u == nil || !b.isOperator(u.ID) {
		return nil
	}
	n, maxPostID, err := b.ingestSvc.Snapshot(context.Background())
	if errors.Is(err, services.ErrNotReady) {
		return c.Send("❌ Database connection failed.")
	}
	if err != nil {
		return err
	}
	if n == 0 {
		return c.Send("📊 Live Indexed Movies in DB: 0")
	}
	return c.Send(fmt.Sprintf("📊 Live Indexed Movies in DB: %d (latest post: %d)", n, maxPostID))
}

// onCleanupUsers clears the volatile broadcast directory.
func (b *Bot) onCleanupUsers(c tele.Context) error {
	u := c.Sender()
	if u == nil || !b.isOperator(u.ID) {
		return nil
	}
	dropped := b.state.ClearUsers()
	return c.Send(fmt.Sprintf("🧹 Cleaned up in-memory user list. Cleared %d entries.", dropped))
}

// onReloadConfig acknowledges, but does not apply, a reload request:
// configuration is load-time-only by design.
func (b *Bot) onReloadConfig(c tele.Context) error {
	u := c.Sender()
	if u == nil || !b.isOperator(u.ID) {
		return nil
	}
	return c.Send(msgReloadConfig)
}

// onRefresh resets the caller's session and confirms the pipeline is live.
func (b *Bot) onRefresh(c tele.Context) error {
	u := c.Sender()
	if u == nil || !b.isOperator(u.ID) {
		return nil
	}
	b.state.ForgetSession(u.ID)
	return c.Send(msgRefreshAck)
}

// ---- helpers ----

// joinKeyboard builds the two invite buttons plus the verify button.
func (b *Bot) joinKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{{Text: btnJoinChannel, URL: JoinURL(b.cfg.Telegram.JoinChannel)}},
		{{Text: btnJoinGroup, URL: JoinURL(b.cfg.Telegram.JoinGroup)}},
		{{Text: btnIJoined, Data: cbJoined}},
	}}
}

// adminWelcome renders the operator /start summary.
func (b *Bot) adminWelcome() string {
	return fmt.Sprintf(
		"👑 Welcome, Admin! Bot is LIVE.\n"+
			"────────────────────────\n"+
			"🟢 Status: Operational\n"+
			"📂 Library: @%s\n"+
			"⏱ Uptime: %s\n"+
			"👥 Active Users: %d\n"+
			"🔍 Total Searches: %d\n"+
			"────────────────────────\n"+
			"Quick Commands:\n"+
			"• /total_movies - live indexed catalog size\n"+
			"• /stats - detailed performance counters\n"+
			"• /broadcast [message] - message every known user\n"+
			"• /cleanup_users - clear the in-memory user list\n"+
			"• /reload_config - configuration status\n"+
			"• /help - full command list",
		b.cfg.Telegram.LibraryUsername,
		formatUptime(b.state.Uptime()),
		b.state.CountUsers(),
		b.state.Searches(),
	)
}

// trimCallbackData strips telebot's "\f" routing prefix from raw callback
// payloads.
func trimCallbackData(data string) string {
	if len(data) > 0 && data[0] == '\f' {
		return data[1:]
	}
	return data
}

// formatUptime renders a duration as "3h 25m".
func formatUptime(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%dh %dm", total/3600, (total%3600)/60)
}
