// Package response writes the JSON error body shared by every API endpoint.
package response

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/schema"
)

// Error codes returned in the error_code field.
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeMissingRequestBody   = "MISSING_REQUEST_BODY"
	CodeMissingRequiredField = "MISSING_REQUIRED_FIELDS"
	CodeUserAlreadyExists    = "USER_ALREADY_EXISTS"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeTokenMissing         = "AUTH_TOKEN_MISSING"
	CodeTokenInvalid         = "AUTH_TOKEN_INVALID"
	CodeAuthUserNotFound     = "AUTH_USER_NOT_FOUND"
	CodeAccessDenied         = "ACCESS_DENIED"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeTaskNotFound         = "TASK_NOT_FOUND"
	CodeNoUpdateFields       = "NO_UPDATE_FIELDS"
	CodeEndpointNotFound     = "ENDPOINT_NOT_FOUND"
	CodeInternal             = "INTERNAL_SERVER_ERROR"
	CodeUnhandled            = "UNHANDLED_ERROR"
)

// TimestampLayout は全レスポンスのタイムスタンプ書式です（ミリ秒精度のUTC）。
const TimestampLayout = "2006-01-02T15:04:05.000Z"

const debugKey = "response.debug"

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	ErrorCode string  `json:"error_code,omitempty"`
	Details   *Detail `json:"details,omitempty"`
	Timestamp string  `json:"timestamp"`
}

// Detail is only attached when debug output is enabled.
type Detail struct {
	Message string              `json:"message,omitempty"`
	Fields  []schema.FieldError `json:"fields,omitempty"`
}

// Debug returns a middleware that turns error details on or off for the request.
func Debug(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(debugKey, enabled)
		c.Next()
	}
}

// Timestamp formats t the way every response body does.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Error aborts the request with the structured error body.
// err is only exposed when debug output is enabled for the request.
func Error(c *gin.Context, status int, message, code string, err error) {
	body := ErrorBody{
		Success:   false,
		Message:   message,
		ErrorCode: code,
		Timestamp: Timestamp(time.Now()),
	}
	if c.GetBool(debugKey) && err != nil {
		d := &Detail{Message: err.Error()}
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			d.Fields = verr.Fields
		}
		body.Details = d
	}
	c.AbortWithStatusJSON(status, body)
}
