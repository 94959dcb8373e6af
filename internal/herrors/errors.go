// Package herrors provides the error types used across haxor-news. Each type
// carries a stable code for programmatic handling and wraps its cause.
package herrors

import (
	"errors"
	"fmt"
)

// HaxorError is the interface shared by all haxor-news errors.
type HaxorError interface {
	error
	// Code returns a unique error code.
	Code() string
}

type baseError struct {
	code    string
	message string
	cause   error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Code() string { return e.code }

func (e *baseError) Unwrap() error { return e.cause }

// ConfigError reports a problem reading or writing the config file.
type ConfigError struct {
	baseError
	Path string
}

// NewConfigError creates a new configuration error.
func NewConfigError(path, message string, cause error) *ConfigError {
	return &ConfigError{
		baseError: baseError{code: "CONFIG_ERROR", message: message, cause: cause},
		Path:      path,
	}
}

// APIError reports a failed request to the Hacker News API.
type APIError struct {
	baseError
	URL    string
	Status int
}

// NewAPIError creates a new API error. status is 0 when no response was
// received.
func NewAPIError(url string, status int, message string, cause error) *APIError {
	return &APIError{
		baseError: baseError{code: "API_ERROR", message: message, cause: cause},
		URL:       url,
		Status:    status,
	}
}

// ItemNotFoundError reports an item id the API does not know.
type ItemNotFoundError struct {
	baseError
	ID int
}

// NewItemNotFoundError creates a new item-not-found error.
func NewItemNotFoundError(id int) *ItemNotFoundError {
	return &ItemNotFoundError{
		baseError: baseError{code: "ITEM_NOT_FOUND", message: fmt.Sprintf("item %d not found", id)},
		ID:        id,
	}
}

// UserNotFoundError reports a user id the API does not know.
type UserNotFoundError struct {
	baseError
	User string
}

// NewUserNotFoundError creates a new user-not-found error.
func NewUserNotFoundError(user string) *UserNotFoundError {
	return &UserNotFoundError{
		baseError: baseError{code: "USER_NOT_FOUND", message: fmt.Sprintf("user %q not found", user)},
		User:      user,
	}
}

// InvalidArgumentError reports a malformed command argument.
type InvalidArgumentError struct {
	baseError
	Arg string
}

// NewInvalidArgumentError creates a new invalid-argument error.
func NewInvalidArgumentError(arg, message string, cause error) *InvalidArgumentError {
	return &InvalidArgumentError{
		baseError: baseError{code: "INVALID_ARGUMENT", message: message, cause: cause},
		Arg:       arg,
	}
}

// CodeOf returns the code of the first HaxorError in err's chain, or "".
func CodeOf(err error) string {
	var he HaxorError
	if errors.As(err, &he) {
		return he.Code()
	}
	return ""
}

// IsNotFound reports whether err is an item or user lookup miss.
func IsNotFound(err error) bool {
	var item *ItemNotFoundError
	var user *UserNotFoundError
	return errors.As(err, &item) || errors.As(err, &user)
}
