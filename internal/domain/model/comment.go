package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// AnonymousName is the display name stored when a comment arrives without one.
const AnonymousName = "Anonymous"

// Field length limits, in runes.
const (
	MaxRefLength     = 200
	MaxNameLength    = 100
	MaxCommentLength = 10000
)

var (
	// ErrBlankRef is returned when a comment has no thread reference.
	ErrBlankRef = errors.New("ref may not be blank")

	// ErrBlankComment is returned when the comment body is empty after trimming.
	ErrBlankComment = errors.New("comment may not be blank")

	// ErrFieldTooLong is returned when a field exceeds its length limit.
	ErrFieldTooLong = errors.New("field too long")
)

// Comment is a single user comment attached to a thread reference.
// Time is nil until the comment service persists it.
type Comment struct {
	ID      int64
	Ref     string
	Name    string
	Comment string
	Time    *time.Time
}

// Normalize trims surrounding whitespace from the text fields and applies the
// anonymous default for a blank name. The body keeps its internal formatting.
func (c Comment) Normalize() Comment {
	c.Ref = strings.TrimSpace(c.Ref)
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = AnonymousName
	}
	c.Comment = strings.TrimSpace(c.Comment)
	return c
}

// Validate checks the required fields and length limits.
func (c Comment) Validate() error {
	if strings.TrimSpace(c.Ref) == "" {
		return ErrBlankRef
	}
	if strings.TrimSpace(c.Comment) == "" {
		return ErrBlankComment
	}
	if utf8.RuneCountInString(c.Ref) > MaxRefLength {
		return fmt.Errorf("ref exceeds %d characters: %w", MaxRefLength, ErrFieldTooLong)
	}
	if utf8.RuneCountInString(c.Name) > MaxNameLength {
		return fmt.Errorf("name exceeds %d characters: %w", MaxNameLength, ErrFieldTooLong)
	}
	if utf8.RuneCountInString(c.Comment) > MaxCommentLength {
		return fmt.Errorf("comment exceeds %d characters: %w", MaxCommentLength, ErrFieldTooLong)
	}
	return nil
}

// IsValidationError reports whether err stems from Validate.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrBlankRef) || errors.Is(err, ErrBlankComment) || errors.Is(err, ErrFieldTooLong)
}

// RemoteComment is a comment as exchanged with a comment service. Time holds
// the raw timestamp string the service sent and is empty for new comments.
type RemoteComment struct {
	ID      int64
	Ref     string
	Name    string
	Comment string
	Time    string
}
