package response

import "github.com/gin-gonic/gin"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Body is the envelope every mutation endpoint returns. Read endpoints for
// posts return their payload bare, matching the public API contract.
type Body struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
	Data        any    `json:"data,omitempty"`
}

func Success(c *gin.Context, httpStatus int, message string, data any) {
	c.JSON(httpStatus, Body{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func SuccessWithToken(c *gin.Context, httpStatus int, message, accessToken string, data any) {
	c.JSON(httpStatus, Body{
		Status:      StatusSuccess,
		Message:     message,
		AccessToken: accessToken,
		Data:        data,
	})
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, Body{
		Status:  StatusError,
		Message: message,
	})
}
