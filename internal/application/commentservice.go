// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/commentbox/internal/domain/model"
	"github.com/ericfisherdev/commentbox/internal/domain/port/driven"
)

// CommentService implements the comment service's use cases on top of a
// CommentStore.
type CommentService struct {
	store  driven.CommentStore
	now    func() time.Time
	logger *slog.Logger
}

// NewCommentService creates a CommentService with all required dependencies.
func NewCommentService(store driven.CommentStore, logger *slog.Logger) *CommentService {
	return &CommentService{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// ListComments returns every comment for ref, newest first.
func (s *CommentService) ListComments(ctx context.Context, ref string) ([]model.Comment, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, model.ErrBlankRef
	}

	comments, err := s.store.ListByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("list comments for %s: %w", ref, err)
	}
	if comments == nil {
		comments = []model.Comment{}
	}

	return comments, nil
}

// AddComment normalizes and validates c, stamps it with the current time when
// it has none, persists it, and returns the ref's full updated collection.
func (s *CommentService) AddComment(ctx context.Context, c model.Comment) ([]model.Comment, error) {
	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.Time == nil {
		now := s.now().UTC().Truncate(time.Second)
		c.Time = &now
	}

	id, err := s.store.Add(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	s.logger.Info("comment added", "ref", c.Ref, "id", id, "name", c.Name)

	return s.ListComments(ctx, c.Ref)
}
