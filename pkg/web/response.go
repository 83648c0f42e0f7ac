// Package web defines common components for a web application.
package web

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Response holds the common error envelope for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Error wraps a given err into json friendly struct.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// ErrorMsg wraps a given message into json friendly struct.
func ErrorMsg(msg string) Response {
	return Response{Error: msg}
}

// GetErrorMsg renders a human readable message for the failed validation tag.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s should not be empty", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be longer than or equal to %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be shorter than or equal to %s characters", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must be a number string", fe.Field())
	case "uuid4":
		return fmt.Sprintf("%s must be a UUID", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of the following values: %s", fe.Field(), fe.Param())
	case "decimal":
		return fmt.Sprintf("%s is not a valid decimal number.", fe.Field())
	}

	return fmt.Sprintf("%s is invalid", fe.Field())
}
