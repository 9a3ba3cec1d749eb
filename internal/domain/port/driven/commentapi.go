package driven

import (
	"context"

	"github.com/ericfisherdev/commentbox/internal/domain/model"
)

// CommentAPI defines the driven port for a remote comment service as seen by
// the comment widget. Both methods return the service's full collection for
// the ref, in the order the service sent it.
type CommentAPI interface {
	FetchComments(ctx context.Context, ref string) ([]model.RemoteComment, error)
	// PostComment sends a new comment (Time must be empty) and returns the
	// updated collection for comment.Ref.
	PostComment(ctx context.Context, comment model.RemoteComment) ([]model.RemoteComment, error)
}
