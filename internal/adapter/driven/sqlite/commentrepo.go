package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/commentbox/internal/domain/model"
	"github.com/ericfisherdev/commentbox/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CommentStore = (*CommentRepo)(nil)

// timeLayout is the stored created_at format. Fixed width UTC keeps string
// ordering identical to chronological ordering.
const timeLayout = "2006-01-02T15:04:05Z"

// CommentRepo is the SQLite implementation of the CommentStore port interface.
type CommentRepo struct {
	db *DB
}

// NewCommentRepo creates a new CommentRepo backed by the given DB.
func NewCommentRepo(db *DB) *CommentRepo {
	return &CommentRepo{db: db}
}

// Add inserts a comment and returns its generated id. A nil Time is stored as
// the current time.
func (r *CommentRepo) Add(ctx context.Context, comment model.Comment) (int64, error) {
	const query = `INSERT INTO comments (ref, name, comment, created_at) VALUES (?, ?, ?, ?)`

	createdAt := time.Now().UTC()
	if comment.Time != nil {
		createdAt = comment.Time.UTC()
	}

	result, err := r.db.Writer.ExecContext(ctx, query,
		comment.Ref, comment.Name, comment.Comment, createdAt.Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("add comment to %s: %w", comment.Ref, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted comment id: %w", err)
	}

	return id, nil
}

// ListByRef returns all comments for ref, newest first.
func (r *CommentRepo) ListByRef(ctx context.Context, ref string) ([]model.Comment, error) {
	const query = `
		SELECT id, ref, name, comment, created_at
		FROM comments
		WHERE ref = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, ref)
	if err != nil {
		return nil, fmt.Errorf("list comments for %s: %w", ref, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var (
			c         model.Comment
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.Ref, &c.Name, &c.Comment, &createdAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}

		t, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at of comment %d: %w", c.ID, err)
		}
		c.Time = &t

		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

// CountByRef returns the number of comments stored for ref.
func (r *CommentRepo) CountByRef(ctx context.Context, ref string) (int, error) {
	const query = `SELECT COUNT(*) FROM comments WHERE ref = ?`

	var n int
	if err := r.db.Reader.QueryRowContext(ctx, query, ref).Scan(&n); err != nil {
		return 0, fmt.Errorf("count comments for %s: %w", ref, err)
	}

	return n, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
