package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blogpress/internal/model"
	"blogpress/internal/repository"
)

func newTestPostService(t *testing.T, db *gorm.DB) *PostService {
	t.Helper()
	return NewPostService(
		repository.NewPostRepository(db),
		repository.NewCommentRepository(db),
		repository.NewUserRepository(db),
		nil,
		nil,
		"",
	)
}

func createTestPost(t *testing.T, svc *PostService, authorID uint, title string) *model.Post {
	t.Helper()
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: authorID,
		Title:    title,
		Content:  "content of " + title,
		Category: "general",
	})
	require.NoError(t, err)
	return post
}

// brokenCache fails every operation, standing in for an unreachable redis.
type brokenCache struct{}

func (brokenCache) GetPost(context.Context, uint, any) (bool, error) {
	return false, fmt.Errorf("cache unavailable")
}

func (brokenCache) SetPost(context.Context, uint, any) error {
	return fmt.Errorf("cache unavailable")
}

func (brokenCache) InvalidatePost(context.Context, uint) error {
	return fmt.Errorf("cache unavailable")
}

func TestGetPostCacheFailureFallsBackToDB(t *testing.T) {
	db := newTestDB(t)
	authSvc := newTestAuthService(t, db)
	author := registerTestUser(t, authSvc, "A", "a@x.com", "secret1")

	postSvc := NewPostService(
		repository.NewPostRepository(db),
		repository.NewCommentRepository(db),
		repository.NewUserRepository(db),
		brokenCache{},
		nil,
		"",
	)
	post := createTestPost(t, postSvc, author.User.ID, "First")

	view, err := postSvc.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, view.ID)
	assert.Equal(t, "First", view.Title)

	// Mutations must also survive failing invalidations.
	_, err = postSvc.UpdatePost(context.Background(), UpdatePostInput{
		CallerID: author.User.ID,
		PostID:   post.ID,
		Content:  "updated",
	})
	require.NoError(t, err)
}

func TestCreatePost(t *testing.T) {
	db := newTestDB(t)
	authSvc := newTestAuthService(t, db)
	postSvc := newTestPostService(t, db)
	author := registerTestUser(t, authSvc, "A", "a@x.com", "secret1")

	post := createTestPost(t, postSvc, author.User.ID, "First")
	assert.NotZero(t, post.ID)
	assert.Equal(t, author.User.ID, post.AuthorID)
	assert.Equal(t, model.DefaultThumbnail, post.Thumbnail)
}

func TestCreatePostValidation(t *testing.T) {
	db := newTestDB(t)
	postSvc := newTestPostService(t, db)

	_, err := postSvc.CreatePost(context.Background(), CreatePostInput{AuthorID: 1, Title: "  ", Content: "c"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = postSvc.CreatePost(context.Background(), CreatePostInput{AuthorID: 1, Title: "t", Content: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreatePostWithThumbnail(t *testing.T) {
	db := newTestDB(t)
	authSvc := newTestAuthService(t, db)
	postSvc := newTestPostService(t, db)
	author := registerTestUser(t, authSvc, "A", "a@x.com", "secret1")

	post, err := postSvc.CreatePost(context.Background(), CreatePostInput{
		AuthorID:      author.User.ID,
		Title:         "t",
		Content:       "c",
		ThumbnailMIME: "image/jpeg",
		ThumbnailData: []byte{0xff, 0xd8},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(post.Thumbnail, "data:image/jpeg;base64,"))
}

func TestGetPost(t *testing.T) {
	db := newTestDB(t)
	authSvc := newTestAuthService(t, db)
	postSvc := newTestPostService(t, db)
	author := registerTestUser(t, authSvc, "A", "a@x.com", "secret1")
	post := createTestPost(t, postSvc, author.User.ID, "First")

	view, err := postSvc.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, view.ID)
	assert.Equal(t, author.User.ID, view.Author.ID)
	assert.Equal(t, "A", view.Author.Name)
	assert.Empty(t, view.Comments)
}

func TestGetPostNotFound(t *testing.T) {
	postSvc := newTestPostService(t, newTestDB(t))

	_, err := postSvc.GetPost(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdatePostOwnership(t *testing.T) {
	db := newTestDB(t)
	authSvc := newTestAuthService(t, db)
	postSvc := newTestPostService(t, db)
	author := registerTestUser(t, authSvc, "A", "a@x.com", "secret1")
	intruder := registerTestUser(t, authSvc, "B", "b@x.com", "secret1")
	post := createTestPost(t, postSvc, author.User.ID, "First")

	_, err := postSvc.UpdatePost(context.Background(), UpdatePostInput{
		CallerID: intruder.User.ID,
		PostID:   post.ID,
		Content:  "hijacked",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	unchanged, err := postSvc.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "content of First", unchanged.Content)

	updated, err := postSvc.UpdatePost(context.Background(), UpdatePostInput{
		CallerID: author.User.ID,
		PostID:   post.ID,
		Content:  "revised",
	})
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Content)
	assert.Equal(t, "First", updated.Title, "omitted fields keep their value")
}

func TestDeletePostOwnership(t *testing.T) {
	db := newTestDB(t)
	authSvc := newTestAuthService(t, db)
	postSvc := newTestPostService(t, db)
	author := registerTestUser(t, authSvc, "A", "a@x.com", "secret1")
	intruder := registerTestUser(t, authSvc, "B", "b@x.com", "secret1")
	post := createTestPost(t, postSvc, author.User.ID, "First")

	err := postSvc.DeletePost(context.Background(), intruder.User.ID, post.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, postSvc.DeletePost(context.Background(), author.User.ID, post.ID))
	_, err = postSvc.GetPost(context.Background(), post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePostRemovesComments(t *testing.T) {
	db := newTestDB(t)
	authSvc := newTestAuthService(t, db)
	postSvc := newTestPostService(t, db)
	author := registerTestUser(t, authSvc, "A", "a@x.com", "secret1")
	post := createTestPost(t, postSvc, author.User.ID, "First")

	_, err := postSvc.AddComment(context.Background(), AddCommentInput{
		CallerID: author.User.ID,
		PostID:   post.ID,
		Body:     "note",
	})
	require.NoError(t, err)

	require.NoError(t, postSvc.DeletePost(context.Background(), author.User.ID, post.ID))

	var commentCount int64
	require.NoError(t, db.Model(&model.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error)
	assert.Zero(t, commentCount)
}

func TestListPostsPage(t *testing.T) {
	db := newTestDB(t)
	authSvc := newTestAuthService(t, db)
	postSvc := newTestPostService(t, db)
	author := registerTestUser(t, authSvc, "A", "a@x.com", "secret1")

	for i := 0; i < 5; i++ {
		createTestPost(t, postSvc, author.User.ID, fmt.Sprintf("post-%d", i))
	}

	page, err := postSvc.ListPostsPage(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 2)
	assert.Equal(t, int64(3), page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)

	_, err = postSvc.ListPostsPage(context.Background(), 0, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListPostsByCategory(t *testing.T) {
	db := newTestDB(t)
	authSvc := newTestAuthService(t, db)
	postSvc := newTestPostService(t, db)
	author := registerTestUser(t, authSvc, "A", "a@x.com", "secret1")

	createTestPost(t, postSvc, author.User.ID, "general one")
	_, err := postSvc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: author.User.ID,
		Title:    "tech one",
		Content:  "c",
		Category: "tech",
	})
	require.NoError(t, err)

	views, err := postSvc.ListPostsByCategory(context.Background(), "tech")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "tech one", views[0].Title)

	_, err = postSvc.ListPostsByCategory(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListPostsByAuthor(t *testing.T) {
	db := newTestDB(t)
	authSvc := newTestAuthService(t, db)
	postSvc := newTestPostService(t, db)
	a := registerTestUser(t, authSvc, "A", "a@x.com", "secret1")
	b := registerTestUser(t, authSvc, "B", "b@x.com", "secret1")

	createTestPost(t, postSvc, a.User.ID, "from A")
	createTestPost(t, postSvc, b.User.ID, "from B")

	posts, err := postSvc.ListPostsByAuthor(a.User.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "from A", posts[0].Title)
}

func TestAddComment(t *testing.T) {
	db := newTestDB(t)
	authSvc := newTestAuthService(t, db)
	postSvc := newTestPostService(t, db)
	author := registerTestUser(t, authSvc, "A", "a@x.com", "secret1")
	commenter := registerTestUser(t, authSvc, "B", "b@x.com", "secret1")
	post := createTestPost(t, postSvc, author.User.ID, "First")

	comments, err := postSvc.AddComment(context.Background(), AddCommentInput{
		CallerID: commenter.User.ID,
		PostID:   post.ID,
		Body:     "  nice post  ",
	})
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "nice post", comments[0].Body)
	assert.Equal(t, commenter.User.ID, comments[0].Author.ID)
	assert.Equal(t, "B", comments[0].Author.Name)
}

func TestAddCommentValidation(t *testing.T) {
	db := newTestDB(t)
	authSvc := newTestAuthService(t, db)
	postSvc := newTestPostService(t, db)
	author := registerTestUser(t, authSvc, "A", "a@x.com", "secret1")
	post := createTestPost(t, postSvc, author.User.ID, "First")

	_, err := postSvc.AddComment(context.Background(), AddCommentInput{
		CallerID: author.User.ID,
		PostID:   post.ID,
		Body:     "   ",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = postSvc.AddComment(context.Background(), AddCommentInput{
		CallerID: author.User.ID,
		PostID:   9999,
		Body:     "hello",
	})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeleteCommentPolicy(t *testing.T) {
	db := newTestDB(t)
	authSvc := newTestAuthService(t, db)
	postSvc := newTestPostService(t, db)
	postOwner := registerTestUser(t, authSvc, "Owner", "owner@x.com", "secret1")
	commenter := registerTestUser(t, authSvc, "Commenter", "commenter@x.com", "secret1")
	bystander := registerTestUser(t, authSvc, "Bystander", "bystander@x.com", "secret1")
	post := createTestPost(t, postSvc, postOwner.User.ID, "First")

	addComment := func() uint {
		comments, err := postSvc.AddComment(context.Background(), AddCommentInput{
			CallerID: commenter.User.ID,
			PostID:   post.ID,
			Body:     "a comment",
		})
		require.NoError(t, err)
		return comments[len(comments)-1].ID
	}

	// A third party may not delete, and the comment survives.
	commentID := addComment()
	err := postSvc.DeleteComment(context.Background(), bystander.User.ID, post.ID, commentID)
	assert.ErrorIs(t, err, ErrForbidden)
	view, err := postSvc.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Len(t, view.Comments, 1)

	// The comment's author may delete.
	require.NoError(t, postSvc.DeleteComment(context.Background(), commenter.User.ID, post.ID, commentID))

	// The post's author may delete as moderation.
	commentID = addComment()
	require.NoError(t, postSvc.DeleteComment(context.Background(), postOwner.User.ID, post.ID, commentID))
}

func TestDeleteCommentNotFound(t *testing.T) {
	db := newTestDB(t)
	authSvc := newTestAuthService(t, db)
	postSvc := newTestPostService(t, db)
	author := registerTestUser(t, authSvc, "A", "a@x.com", "secret1")
	post := createTestPost(t, postSvc, author.User.ID, "First")
	other := createTestPost(t, postSvc, author.User.ID, "Second")

	comments, err := postSvc.AddComment(context.Background(), AddCommentInput{
		CallerID: author.User.ID,
		PostID:   other.ID,
		Body:     "on the other post",
	})
	require.NoError(t, err)

	// A comment id from a different post is not found under this one.
	err = postSvc.DeleteComment(context.Background(), author.User.ID, post.ID, comments[0].ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	err = postSvc.DeleteComment(context.Background(), author.User.ID, 9999, comments[0].ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
