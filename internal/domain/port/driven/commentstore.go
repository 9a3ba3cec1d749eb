package driven

import (
	"context"

	"github.com/ericfisherdev/commentbox/internal/domain/model"
)

// CommentStore defines the driven port for comment persistence.
// ListByRef returns comments newest first (by time, then by id) and an empty
// slice, not nil, when the ref has none.
type CommentStore interface {
	Add(ctx context.Context, comment model.Comment) (int64, error)
	ListByRef(ctx context.Context, ref string) ([]model.Comment, error)
	CountByRef(ctx context.Context, ref string) (int, error)
}
