package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/commentbox/internal/domain/model"
)

func makeComment(ref, name, body string, at time.Time) model.Comment {
	return model.Comment{Ref: ref, Name: name, Comment: body, Time: &at}
}

func TestCommentRepo_AddAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepo(db)
	ctx := context.Background()

	at := time.Date(2024, 3, 3, 10, 22, 0, 0, time.UTC)
	id, err := repo.Add(ctx, makeComment("post-1", "Alice", "**hi**", at))
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := repo.ListByRef(ctx, "post-1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "post-1", got[0].Ref)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, "**hi**", got[0].Comment)
	require.NotNil(t, got[0].Time)
	assert.True(t, at.Equal(*got[0].Time))
}

func TestCommentRepo_ListByRef_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepo(db)

	got, err := repo.ListByRef(context.Background(), "nothing-here")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCommentRepo_ListByRef_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepo(db)
	ctx := context.Background()

	base := time.Date(2024, 1, 10, 8, 10, 0, 0, time.UTC)
	_, err := repo.Add(ctx, makeComment("test", "TechEnthusiast", "old", base))
	require.NoError(t, err)
	_, err = repo.Add(ctx, makeComment("test", "JohnDoeDev", "newest", base.AddDate(0, 2, 0)))
	require.NoError(t, err)
	_, err = repo.Add(ctx, makeComment("test", "JavaNoob", "middle", base.AddDate(0, 1, 0)))
	require.NoError(t, err)

	got, err := repo.ListByRef(ctx, "test")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "newest", got[0].Comment)
	assert.Equal(t, "middle", got[1].Comment)
	assert.Equal(t, "old", got[2].Comment)
}

func TestCommentRepo_ListByRef_SameTimeNewestIDFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepo(db)
	ctx := context.Background()

	at := time.Date(2024, 5, 1, 18, 32, 0, 0, time.UTC)
	first, err := repo.Add(ctx, makeComment("test", "a", "first", at))
	require.NoError(t, err)
	second, err := repo.Add(ctx, makeComment("test", "b", "second", at))
	require.NoError(t, err)

	got, err := repo.ListByRef(ctx, "test")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second, got[0].ID)
	assert.Equal(t, first, got[1].ID)
}

func TestCommentRepo_ListByRef_IsolatesRefs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepo(db)
	ctx := context.Background()

	now := time.Now().UTC()
	_, err := repo.Add(ctx, makeComment("a", "x", "in a", now))
	require.NoError(t, err)
	_, err = repo.Add(ctx, makeComment("b", "y", "in b", now))
	require.NoError(t, err)

	got, err := repo.ListByRef(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "in a", got[0].Comment)
}

func TestCommentRepo_AddWithoutTimeUsesNow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepo(db)
	ctx := context.Background()

	before := time.Now().UTC().Truncate(time.Second)
	_, err := repo.Add(ctx, model.Comment{Ref: "r", Name: "n", Comment: "c"})
	require.NoError(t, err)

	got, err := repo.ListByRef(ctx, "r")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Time)
	assert.False(t, got[0].Time.Before(before))
}

func TestCommentRepo_CountByRef(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepo(db)
	ctx := context.Background()

	n, err := repo.CountByRef(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	now := time.Now().UTC()
	for range 3 {
		_, err := repo.Add(ctx, makeComment("test", "n", "c", now))
		require.NoError(t, err)
	}

	n, err = repo.CountByRef(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestParseTime_Formats(t *testing.T) {
	want := time.Date(2024, 2, 28, 10, 35, 0, 0, time.UTC)

	for _, s := range []string{
		"2024-02-28T10:35:00Z",
		"2024-02-28 10:35:00",
		"2024-02-28T10:35:00",
		"2024-02-28T12:35:00+02:00",
	} {
		got, err := parseTime(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), s)
	}

	_, err := parseTime("yesterday")
	assert.Error(t, err)
}
