package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback data constants for the inline keyboards.
const (
	cbJoined     = "joined"
	cbPostPrefix = "post_"
)

// PostURL formats the restricted access link for a library channel post.
// Private channel IDs carry a -100 prefix on the wire; the t.me/c/ form
// takes the bare internal ID. The link is a pure function of the channel ID
// and post ID, never a stored URL.
func PostURL(channelID int64, postID int64) string {
	internal := strings.TrimPrefix(strconv.FormatInt(channelID, 10), "-100")
	return fmt.Sprintf("https://t.me/c/%s/%d", internal, postID)
}

// JoinURL formats the public invite link for a channel or group username.
func JoinURL(username string) string {
	return "https://t.me/" + strings.TrimPrefix(username, "@")
}

// PostCallback formats the callback payload for one search result button.
func PostCallback(postID int64) string {
	return cbPostPrefix + strconv.FormatInt(postID, 10)
}

// ParsePostCallback extracts the post ID from a result-button payload.
// telebot prefixes routed callbacks with "\f"; it is stripped before
// matching. ok is false for any payload that is not a well-formed selection.
func ParsePostCallback(data string) (postID int64, ok bool) {
	data = strings.TrimPrefix(strings.TrimSpace(data), "\f")
	if !strings.HasPrefix(data, cbPostPrefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(data, cbPostPrefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
