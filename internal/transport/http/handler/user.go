package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blogpress/internal/app"
	"blogpress/internal/model"
	"blogpress/internal/transport/http/middleware"
	"blogpress/internal/transport/http/response"
)

type UserHandler struct {
	authService *app.AuthService
	maxUpload   int64
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func NewUserHandler(authService *app.AuthService, maxUpload int64) *UserHandler {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return &UserHandler{authService: authService, maxUpload: maxUpload}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessWithToken(c, http.StatusCreated, "user registered successfully", result.Token, publicUser(result.User))
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessWithToken(c, http.StatusOK, "user logged in successfully", result.Token, publicUser(result.User))
}

func (h *UserHandler) Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "you need to log in first")
		return
	}
	response.Success(c, http.StatusOK, "", publicUser(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "you need to log in first")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := h.authService.UpdateUser(c.Request.Context(), app.UpdateUserInput{
		UserID:      user.ID,
		Name:        req.Name,
		Email:       req.Email,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "user updated successfully", gin.H{
		"name":  updated.Name,
		"email": updated.Email,
	})
}

func (h *UserHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "you need to log in first")
		return
	}

	if err := h.authService.DeleteUser(c.Request.Context(), user.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "user deleted successfully", nil)
}

func (h *UserHandler) UploadProfilePicture(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "you need to log in first")
		return
	}

	mimeType, data, err := readUpload(c.Request, "profilePicture", h.maxUpload)
	if err != nil {
		if err == errNoFile {
			response.Error(c, http.StatusBadRequest, "no file uploaded")
			return
		}
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.authService.SetProfilePicture(c.Request.Context(), user.ID, mimeType, data)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "profile picture uploaded successfully", gin.H{
		"profilePicture": updated.ProfilePicture,
	})
}

// publicUser is the identity projection returned by the API. The password
// hash never appears here.
func publicUser(u *model.User) gin.H {
	return gin.H{
		"id":             u.ID,
		"name":           u.Name,
		"email":          u.Email,
		"createdAt":      u.CreatedAt,
		"profilePicture": u.ProfilePicture,
	}
}
