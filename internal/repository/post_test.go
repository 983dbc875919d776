package repository

import (
	"testing"

	"paceup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostLike_IdempotentInsert(t *testing.T) {
	repo := NewPostRepository(testDB, nil)
	author := createTestUser(t)
	liker := createTestUser(t)
	post := createTestPost(t, author, models.PostTypeBlog, models.StatusApproved)

	created, err := repo.Like(ctx(), post.ID, liker.ID)
	require.NoError(t, err)
	assert.True(t, created)

	// Second like hits the unique index and is a no-op.
	created, err = repo.Like(ctx(), post.ID, liker.ID)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.GetByID(ctx(), post.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.True(t, got.Liked)

	require.NoError(t, repo.Unlike(ctx(), post.ID, liker.ID))
	got, err = repo.GetByID(ctx(), post.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikesCount)
	assert.False(t, got.Liked)
}

func TestPostList_StatusFilter(t *testing.T) {
	repo := NewPostRepository(testDB, nil)
	author := createTestUser(t)
	approved := createTestPost(t, author, models.PostTypeBlog, models.StatusApproved)
	pending := createTestPost(t, author, models.PostTypeBlog, models.StatusPending)

	regs, err := repo.List(ctx(), PostFilter{PostType: models.PostTypeBlog, Status: models.StatusApproved, UserID: author.ID, Limit: 10}, "")
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, approved.ID, regs[0].ID)
	assert.Equal(t, author.Username, regs[0].AuthorName)

	all, err := repo.List(ctx(), PostFilter{PostType: models.PostTypeBlog, Status: "all", UserID: author.ID, Limit: 10}, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_ = pending
}

func TestPostUpdateStatus(t *testing.T) {
	repo := NewPostRepository(testDB, nil)
	author := createTestUser(t)
	post := createTestPost(t, author, models.PostTypeBlog, models.StatusPending)

	require.NoError(t, repo.UpdateStatus(ctx(), post.ID, models.StatusApproved))

	got, err := repo.GetByID(ctx(), post.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)

	err = repo.UpdateStatus(ctx(), "missing-post", models.StatusApproved)
	require.Error(t, err)
}

func TestPostList_ZeroLimitReturnsAll(t *testing.T) {
	repo := NewPostRepository(testDB, nil)
	author := createTestUser(t)
	for i := 0; i < 3; i++ {
		createTestPost(t, author, models.PostTypeBlog, models.StatusApproved)
	}

	// A zero Limit must mean "no limit", not LIMIT 0.
	posts, err := repo.List(ctx(), PostFilter{PostType: models.PostTypeBlog, UserID: author.ID, Status: "all"}, "")
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}
