// Package widget implements the embeddable comment box: a form for new
// comments plus the rendered list of existing comments for one thread ref.
//
// A Widget holds state only. Hosts drive it explicitly: call OnMount when the
// widget is attached, feed form input through the draft setters, call Submit,
// and call Render after every transition they want to show.
package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/ericfisherdev/commentbox/internal/domain/model"
	"github.com/ericfisherdev/commentbox/internal/domain/port/driven"
)

var (
	// ErrEmptyComment is returned by Submit when the draft comment is blank.
	ErrEmptyComment = errors.New("comment is empty")

	// ErrSubmitInFlight is returned by Submit while an earlier submit is outstanding.
	ErrSubmitInFlight = errors.New("a comment is already being posted")
)

// ListStatus is the lifecycle of the comment list. ListEmpty means nothing
// has been loaded yet; a loaded thread with no comments is ListPopulated.
type ListStatus int

const (
	ListEmpty ListStatus = iota
	ListLoading
	ListPopulated
	ListFailed
)

func (s ListStatus) String() string {
	switch s {
	case ListEmpty:
		return "empty"
	case ListLoading:
		return "loading"
	case ListPopulated:
		return "populated"
	case ListFailed:
		return "failed"
	default:
		return fmt.Sprintf("ListStatus(%d)", int(s))
	}
}

// State is a point-in-time copy of a widget's state. Comments is owned by the
// snapshot; mutating it does not affect the widget.
type State struct {
	Ref          string
	Comments     []model.RemoteComment
	DraftName    string
	DraftComment string
	ListStatus   ListStatus
	LoadErr      error
	Submitting   bool
	SubmitErr    error
}

// Widget is one comment box instance bound to a single thread ref.
// All methods are safe for concurrent use; network calls run without the lock.
type Widget struct {
	api    driven.CommentAPI
	ref    string
	logger *slog.Logger

	mu           sync.Mutex
	comments     []model.RemoteComment
	draftName    string
	draftComment string
	listStatus   ListStatus
	loadErr      error
	submitting   bool
	submitErr    error
}

// New creates a widget for ref that talks to api. ref must not be blank.
func New(api driven.CommentAPI, ref string, logger *slog.Logger) (*Widget, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, model.ErrBlankRef
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Widget{
		api:      api,
		ref:      ref,
		logger:   logger.With("ref", ref),
		comments: []model.RemoteComment{},
	}, nil
}

// Ref returns the thread reference this widget is bound to.
func (w *Widget) Ref() string {
	return w.ref
}

// OnMount loads the thread's comments. On success the list is replaced with
// the service's response; on failure the previous list is kept and the error
// is recorded for inline display. Concurrent calls are allowed and the last
// response to arrive wins.
func (w *Widget) OnMount(ctx context.Context) error {
	w.mu.Lock()
	w.listStatus = ListLoading
	w.mu.Unlock()

	comments, err := w.api.FetchComments(ctx, w.ref)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.loadErr = err
		w.listStatus = ListFailed
		w.logger.Warn("failed to load comments", "error", err, "kept", len(w.comments))
		return fmt.Errorf("loading comments for %s: %w", w.ref, err)
	}

	w.setComments(comments)
	w.logger.Debug("comments loaded", "count", len(comments))
	return nil
}

// UpdateDraftName sets the author name draft.
func (w *Widget) UpdateDraftName(value string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draftName = value
}

// UpdateDraftComment sets the comment body draft.
func (w *Widget) UpdateDraftComment(value string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draftComment = value
}

// Submit posts the current drafts as a new comment. A blank comment returns
// ErrEmptyComment without a network call. While a submit is outstanding,
// further calls return ErrSubmitInFlight and leave the state untouched.
//
// On success the list becomes the service's response and both drafts are
// cleared. On failure drafts and list are kept and the error is recorded.
func (w *Widget) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmitInFlight
	}
	if strings.TrimSpace(w.draftComment) == "" {
		w.submitErr = ErrEmptyComment
		w.mu.Unlock()
		return ErrEmptyComment
	}

	draft := model.RemoteComment{
		Ref:     w.ref,
		Name:    w.draftName,
		Comment: w.draftComment,
	}
	w.submitting = true
	w.submitErr = nil
	w.mu.Unlock()

	comments, err := w.api.PostComment(ctx, draft)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false

	if err != nil {
		w.submitErr = err
		w.logger.Warn("failed to post comment", "error", err)
		return fmt.Errorf("posting comment to %s: %w", w.ref, err)
	}

	w.setComments(comments)
	w.draftName = ""
	w.draftComment = ""
	w.logger.Info("comment posted", "count", len(comments))
	return nil
}

// Snapshot returns a copy of the current state.
func (w *Widget) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return State{
		Ref:          w.ref,
		Comments:     slices.Clone(w.comments),
		DraftName:    w.draftName,
		DraftComment: w.draftComment,
		ListStatus:   w.listStatus,
		LoadErr:      w.loadErr,
		Submitting:   w.submitting,
		SubmitErr:    w.submitErr,
	}
}

// setComments replaces the list with a successful response. Callers hold mu.
func (w *Widget) setComments(comments []model.RemoteComment) {
	if comments == nil {
		comments = []model.RemoteComment{}
	}
	w.comments = comments
	w.loadErr = nil
	w.listStatus = ListPopulated
}
