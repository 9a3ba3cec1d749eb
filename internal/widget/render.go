package widget

import (
	"errors"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/ericfisherdev/commentbox/internal/domain/model"
)

// UnknownTime is shown in place of a timestamp for comments without one.
const UnknownTime = "unknown time"

// User-facing notices.
const (
	loadErrorNotice   = "Could not load comments."
	emptyDraftNotice  = "Please write a comment before posting."
	submitErrorNotice = "Could not post your comment. Please try again."
	noCommentsNotice  = "No comments yet. Be the first!"
	loadingNotice     = "Loading comments…"
)

// CSRFField is the form field name carrying the host's CSRF token.
const CSRFField = "csrf_token"

// timeLayouts are tried in order when parsing a service timestamp. The last
// one accepts zone-less local date-times with optional fractional seconds.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// RenderOptions carries host-supplied inputs that are not widget state.
type RenderOptions struct {
	// Now is the reference instant for relative timestamps. Zero means time.Now().
	Now time.Time
	// ActionURL is the form's POST target and the retry link. Empty renders a
	// form without an action.
	ActionURL string
	// CSRFToken, when set, is embedded as a hidden CSRFField input.
	CSRFToken string
}

// Render returns the widget's current state as markup.
func (w *Widget) Render(opts RenderOptions) templ.Component {
	return Render(w.Snapshot(), opts)
}

// Render is a pure function of state and options: equal inputs always produce
// identical markup.
func Render(s State, opts RenderOptions) templ.Component {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	return widgetView(s, opts)
}

// RenderComment returns the markup for a single existing comment.
func RenderComment(c model.RemoteComment, now time.Time) templ.Component {
	return existingComment(c, now)
}

// RelativeTime renders raw relative to now ("3 minutes ago"). An empty raw
// value yields UnknownTime; an unparsable one is returned unchanged.
func RelativeTime(raw string, now time.Time) string {
	if strings.TrimSpace(raw) == "" {
		return UnknownTime
	}

	t, ok := parseTimestamp(raw)
	if !ok {
		return raw
	}

	return humanize.RelTime(t, now, "ago", "from now")
}

func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func submitErrorMessage(err error) string {
	if errors.Is(err, ErrEmptyComment) {
		return emptyDraftNotice
	}

	var rejected interface{ Rejection() (string, bool) }
	if errors.As(err, &rejected) {
		if msg, ok := rejected.Rejection(); ok {
			return "The comment was rejected: " + msg
		}
	}

	return submitErrorNotice
}
