package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Message is the uniform success/failure envelope. Every error response in
// the API carries exactly this shape.
type Message struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SuccessResponse returns a JSON response with a success flag and message.
func SuccessResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Message{Success: true, Message: message})
}

// SuccessPayload returns a 200 JSON response with an arbitrary body.
func SuccessPayload(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// ErrorResponse returns a JSON failure with the given status code.
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, Message{Success: false, Message: message})
}
