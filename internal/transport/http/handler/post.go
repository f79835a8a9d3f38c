package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"blogpress/internal/app"
	"blogpress/internal/transport/http/middleware"
	"blogpress/internal/transport/http/response"
)

type PostHandler struct {
	postService *app.PostService
	maxUpload   int64
}

type AddCommentRequest struct {
	Comment string `json:"comment"`
}

func NewPostHandler(postService *app.PostService, maxUpload int64) *PostHandler {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return &PostHandler{postService: postService, maxUpload: maxUpload}
}

// List serves GET /posts. With postId it returns that single post; with page
// and limit it returns one page plus pagination metadata; with neither it
// returns every post, newest first. These read payloads are returned bare.
func (h *PostHandler) List(c *gin.Context) {
	if rawID := c.Query("postId"); rawID != "" {
		postID, err := parseUintParam(rawID)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid postId")
			return
		}
		view, err := h.postService.GetPost(c.Request.Context(), postID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
		return
	}

	rawPage, rawLimit := c.Query("page"), c.Query("limit")
	if rawPage != "" && rawLimit != "" {
		page, pageErr := strconv.Atoi(rawPage)
		limit, limitErr := strconv.Atoi(rawLimit)
		if pageErr != nil || limitErr != nil {
			response.Error(c, http.StatusBadRequest, "page and limit must be integers")
			return
		}
		result, err := h.postService.ListPostsPage(c.Request.Context(), page, limit)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	views, err := h.postService.ListPosts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *PostHandler) ByCategory(c *gin.Context) {
	views, err := h.postService.ListPostsByCategory(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *PostHandler) ByAuthor(c *gin.Context) {
	authorID, err := parseUintParam(c.Query("authorId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "authorId query parameter is required")
		return
	}
	posts, err := h.postService.ListPostsByAuthor(authorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "you need to log in first")
		return
	}

	mimeType, data, err := readUpload(c.Request, "thumbnail", h.maxUpload)
	if err != nil && err != errNoFile {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), app.CreatePostInput{
		AuthorID:      user.ID,
		Title:         c.PostForm("title"),
		Content:       c.PostForm("content"),
		Category:      c.PostForm("category"),
		ThumbnailMIME: mimeType,
		ThumbnailData: data,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "post created successfully", post)
}

func (h *PostHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "you need to log in first")
		return
	}

	postID, err := parseUintParam(c.Query("postId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "postId query parameter is required")
		return
	}

	mimeType, data, err := readUpload(c.Request, "thumbnail", h.maxUpload)
	if err != nil && err != errNoFile {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), app.UpdatePostInput{
		CallerID:      user.ID,
		PostID:        postID,
		Title:         c.PostForm("title"),
		Content:       c.PostForm("content"),
		Category:      c.PostForm("category"),
		ThumbnailMIME: mimeType,
		ThumbnailData: data,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "post updated successfully", post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "you need to log in first")
		return
	}

	postID, err := parseUintParam(c.Query("postId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "postId query parameter is required")
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), user.ID, postID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "post deleted successfully", nil)
}

func (h *PostHandler) AddComment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "you need to log in first")
		return
	}

	postID, err := parseUintParam(c.Param("postId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid postId")
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	comments, err := h.postService.AddComment(c.Request.Context(), app.AddCommentInput{
		CallerID: user.ID,
		PostID:   postID,
		Body:     req.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "comment added successfully", comments)
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "you need to log in first")
		return
	}

	postID, err := parseUintParam(c.Param("postId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid postId")
		return
	}
	commentID, err := parseUintParam(c.Param("commentId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid commentId")
		return
	}

	if err := h.postService.DeleteComment(c.Request.Context(), user.ID, postID, commentID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "comment deleted successfully", nil)
}

var errZeroID = errors.New("id must be a positive integer")

func parseUintParam(raw string) (uint, error) {
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	if parsed == 0 {
		return 0, errZeroID
	}
	return uint(parsed), nil
}
