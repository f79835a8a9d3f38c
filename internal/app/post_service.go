package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"blogpress/internal/model"
	"blogpress/internal/repository"
)

// PostCache is the read cache for rendered post payloads. A nil cache
// disables caching; every read then hits the database.
type PostCache interface {
	GetPost(ctx context.Context, postID uint, dest any) (bool, error)
	SetPost(ctx context.Context, postID uint, payload any) error
	InvalidatePost(ctx context.Context, postID uint) error
}

type PostService struct {
	postRepo         *repository.PostRepository
	commentRepo      *repository.CommentRepository
	userRepo         *repository.UserRepository
	cache            PostCache
	publisher        ActivityPublisher
	defaultThumbnail string
}

type CreatePostInput struct {
	AuthorID      uint
	Title         string
	Content       string
	Category      string
	ThumbnailMIME string
	ThumbnailData []byte
}

type UpdatePostInput struct {
	CallerID      uint
	PostID        uint
	Title         string
	Content       string
	Category      string
	ThumbnailMIME string
	ThumbnailData []byte
}

type AddCommentInput struct {
	CallerID uint
	PostID   uint
	Body     string
}

// CommentView is a comment with its author preview resolved.
type CommentView struct {
	ID        uint                `json:"id"`
	PostID    uint                `json:"postId"`
	Author    model.AuthorPreview `json:"author"`
	Body      string              `json:"comment"`
	CreatedAt time.Time           `json:"createdAt"`
}

// PostView is the public shape of a post: author and comment authors are
// resolved to previews, never full user records.
type PostView struct {
	ID        uint                `json:"id"`
	Title     string              `json:"title"`
	Content   string              `json:"content"`
	Category  string              `json:"category"`
	Thumbnail string              `json:"thumbnail"`
	Author    model.AuthorPreview `json:"author"`
	Comments  []CommentView       `json:"comments"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

type PostPage struct {
	Posts       []PostView `json:"posts"`
	TotalPages  int64      `json:"totalPages"`
	CurrentPage int        `json:"currentPage"`
}

func NewPostService(
	postRepo *repository.PostRepository,
	commentRepo *repository.CommentRepository,
	userRepo *repository.UserRepository,
	cache PostCache,
	publisher ActivityPublisher,
	defaultThumbnail string,
) *PostService {
	if defaultThumbnail == "" {
		defaultThumbnail = model.DefaultThumbnail
	}
	return &PostService{
		postRepo:         postRepo,
		commentRepo:      commentRepo,
		userRepo:         userRepo,
		cache:            cache,
		publisher:        publisher,
		defaultThumbnail: defaultThumbnail,
	}
}

func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*model.Post, error) {
	if input.AuthorID == 0 {
		return nil, ErrInvalidInput
	}
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required and cannot be blank", ErrInvalidInput)
	}

	post := &model.Post{
		Title:     title,
		Content:   content,
		Category:  strings.TrimSpace(input.Category),
		Thumbnail: s.defaultThumbnail,
		AuthorID:  input.AuthorID,
	}
	if len(input.ThumbnailData) > 0 {
		post.Thumbnail = dataURI(input.ThumbnailMIME, input.ThumbnailData)
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}

	s.publish(ctx, model.ActivityPostCreated, input.AuthorID, post.ID)
	return post, nil
}

// GetPost returns a single post with author and comments resolved, serving
// from the cache when the payload is fresh.
func (s *PostService) GetPost(ctx context.Context, postID uint) (*PostView, error) {
	if postID == 0 {
		return nil, ErrInvalidInput
	}

	if s.cache != nil {
		var cached PostView
		hit, err := s.cache.GetPost(ctx, postID, &cached)
		if err != nil {
			log.Printf("read post cache %d failed: %v", postID, err)
		} else if hit {
			return &cached, nil
		}
	}

	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	views, err := s.buildViews(ctx, []model.Post{*post})
	if err != nil {
		return nil, err
	}
	view := &views[0]

	if s.cache != nil {
		if err := s.cache.SetPost(ctx, postID, view); err != nil {
			log.Printf("cache post %d failed: %v", postID, err)
		}
	}
	return view, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]PostView, error) {
	posts, err := s.postRepo.List()
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, posts)
}

func (s *PostService) ListPostsPage(ctx context.Context, page, limit int) (*PostPage, error) {
	if page < 1 || limit < 1 {
		return nil, fmt.Errorf("%w: page and limit must be positive", ErrInvalidInput)
	}

	posts, total, err := s.postRepo.ListPage(page, limit)
	if err != nil {
		return nil, err
	}
	views, err := s.buildViews(ctx, posts)
	if err != nil {
		return nil, err
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return &PostPage{
		Posts:       views,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

func (s *PostService) ListPostsByCategory(ctx context.Context, category string) ([]PostView, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("%w: category query parameter is required", ErrInvalidInput)
	}
	posts, err := s.postRepo.ListByCategory(category)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, posts)
}

func (s *PostService) ListPostsByAuthor(authorID uint) ([]model.Post, error) {
	if authorID == 0 {
		return nil, fmt.Errorf("%w: authorId query parameter is required", ErrInvalidInput)
	}
	return s.postRepo.ListByAuthor(authorID)
}

// UpdatePost applies the provided fields. Only the author may update.
func (s *PostService) UpdatePost(ctx context.Context, input UpdatePostInput) (*model.Post, error) {
	if input.PostID == 0 {
		return nil, fmt.Errorf("%w: postId query parameter is required", ErrInvalidInput)
	}
	post, err := s.postRepo.GetByID(input.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.AuthorID != input.CallerID {
		return nil, fmt.Errorf("%w: only the author can update this post", ErrForbidden)
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		post.Title = title
	}
	if content := strings.TrimSpace(input.Content); content != "" {
		post.Content = content
	}
	if category := strings.TrimSpace(input.Category); category != "" {
		post.Category = category
	}
	if len(input.ThumbnailData) > 0 {
		post.Thumbnail = dataURI(input.ThumbnailMIME, input.ThumbnailData)
	}

	if err := s.postRepo.Save(post); err != nil {
		return nil, err
	}
	s.invalidate(ctx, post.ID)
	s.publish(ctx, model.ActivityPostUpdated, input.CallerID, post.ID)
	return post, nil
}

// DeletePost removes the post and its comments. Only the author may delete.
func (s *PostService) DeletePost(ctx context.Context, callerID, postID uint) error {
	if postID == 0 {
		return fmt.Errorf("%w: postId query parameter is required", ErrInvalidInput)
	}
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.AuthorID != callerID {
		return fmt.Errorf("%w: only the author can delete this post", ErrForbidden)
	}

	if err := s.postRepo.Delete(postID); err != nil {
		return err
	}
	s.invalidate(ctx, postID)
	s.publish(ctx, model.ActivityPostDeleted, callerID, postID)
	return nil
}

// AddComment appends a comment and returns the post's full comment list with
// author previews, matching what clients render after posting.
func (s *PostService) AddComment(ctx context.Context, input AddCommentInput) ([]CommentView, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: comment cannot be empty", ErrInvalidInput)
	}

	post, err := s.postRepo.GetByID(input.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &model.Comment{
		PostID:   post.ID,
		AuthorID: input.CallerID,
		Body:     body,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	s.invalidate(ctx, post.ID)
	s.publish(ctx, model.ActivityCommentCreated, input.CallerID, comment.ID)

	comments, err := s.commentRepo.ListByPostID(post.ID)
	if err != nil {
		return nil, err
	}
	return s.buildCommentViews(comments)
}

// DeleteComment is allowed for the comment's author and, as a moderation
// right, for the parent post's author.
func (s *PostService) DeleteComment(ctx context.Context, callerID, postID, commentID uint) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	comment, err := s.commentRepo.GetByIDAndPostID(commentID, postID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}

	if comment.AuthorID != callerID && post.AuthorID != callerID {
		return fmt.Errorf("%w: not authorized to delete this comment", ErrForbidden)
	}

	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return err
	}
	s.invalidate(ctx, postID)
	s.publish(ctx, model.ActivityCommentDeleted, callerID, commentID)
	return nil
}

// buildViews resolves author previews for posts and their comments with one
// batched user query. Authors deleted through non-cascading paths render as
// zero-value previews.
func (s *PostService) buildViews(ctx context.Context, posts []model.Post) ([]PostView, error) {
	idSet := make(map[uint]struct{})
	for i := range posts {
		idSet[posts[i].AuthorID] = struct{}{}
		for j := range posts[i].Comments {
			idSet[posts[i].Comments[j].AuthorID] = struct{}{}
		}
	}
	previews, err := s.loadPreviews(idSet)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		comments := make([]CommentView, 0, len(p.Comments))
		for j := range p.Comments {
			c := &p.Comments[j]
			comments = append(comments, CommentView{
				ID:        c.ID,
				PostID:    c.PostID,
				Author:    previews[c.AuthorID],
				Body:      c.Body,
				CreatedAt: c.CreatedAt,
			})
		}
		views = append(views, PostView{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			Category:  p.Category,
			Thumbnail: p.Thumbnail,
			Author:    previews[p.AuthorID],
			Comments:  comments,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return views, nil
}

func (s *PostService) buildCommentViews(comments []model.Comment) ([]CommentView, error) {
	idSet := make(map[uint]struct{})
	for i := range comments {
		idSet[comments[i].AuthorID] = struct{}{}
	}
	previews, err := s.loadPreviews(idSet)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		views = append(views, CommentView{
			ID:        c.ID,
			PostID:    c.PostID,
			Author:    previews[c.AuthorID],
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
		})
	}
	return views, nil
}

func (s *PostService) loadPreviews(idSet map[uint]struct{}) (map[uint]model.AuthorPreview, error) {
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	users, err := s.userRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	previews := make(map[uint]model.AuthorPreview, len(users))
	for i := range users {
		previews[users[i].ID] = users[i].Preview()
	}
	return previews, nil
}

func (s *PostService) invalidate(ctx context.Context, postID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePost(ctx, postID); err != nil {
		log.Printf("invalidate post cache %d failed: %v", postID, err)
	}
}

func (s *PostService) publish(ctx context.Context, kind string, actorID, subjectID uint) {
	if s.publisher == nil {
		return
	}
	activity := model.Activity{Kind: kind, ActorID: actorID, SubjectID: subjectID}
	if err := s.publisher.Publish(ctx, activity); err != nil {
		log.Printf("publish activity %s failed: %v", kind, err)
	}
}
