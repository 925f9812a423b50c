package response

import (
	"github.com/gin-gonic/gin"

	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

// Envelope is the JSON body every endpoint returns. Data carries the
// payload on success; Error is set instead when the request failed.
type Envelope struct {
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, Envelope{Message: message, Data: data})
}

// SuccessWithPagination sends a paginated list response
func SuccessWithPagination[T any](c *gin.Context, statusCode int, message string, result *pagination.PaginatedResult[T]) {
	c.JSON(statusCode, Envelope{Message: message, Data: result})
}

// Error maps a service error onto its HTTP status and body
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	c.JSON(appErr.Code, Envelope{
		Message: appErr.Message,
		Error: &ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Errors,
		},
	})
}

// ErrorWithCode sends an error response with an explicit status code
func ErrorWithCode(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{
		Message: message,
		Error:   &ErrorBody{Code: statusCode, Message: message},
	})
}

// OK sends a 200 response
func OK(c *gin.Context, message string, data any) {
	Success(c, 200, message, data)
}

// Created sends a 201 response
func Created(c *gin.Context, message string, data any) {
	Success(c, 201, message, data)
}

// NoContent sends a 204 response
func NoContent(c *gin.Context) {
	c.Status(204)
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, 400, message)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	ErrorWithCode(c, 401, message)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	ErrorWithCode(c, 403, message)
}
