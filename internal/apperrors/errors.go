// Package apperrors defines the typed error taxonomy shared by services
// and handlers. Services return (and wrap) these; handlers map them to
// HTTP status codes with Status. None of them are retried server-side.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Reason codes carried by BusinessRuleError.
const (
	CodeCategoryTypeMismatch = "CATEGORY_TYPE_MISMATCH"
	CodeCategoryCycle        = "CATEGORY_CYCLE"
	CodeCategoryInUse        = "CATEGORY_IN_USE"
)

// ValidationError is malformed or missing required input (400-class).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidation creates a ValidationError with a formatted message.
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError is a missing entity by id or slug (404-class).
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// NewNotFound creates a NotFoundError for the given entity and lookup key.
func NewNotFound(entity, key string) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

// ConflictError is a duplicate unique key: slug collision, same-name
// category, cart-line race that could not be recovered (409-class).
// The client must re-fetch and retry with corrected input.
type ConflictError struct {
	Resource string
	Key      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Resource, e.Key)
}

// NewConflict creates a ConflictError for the given resource and key.
func NewConflict(resource, key string) *ConflictError {
	return &ConflictError{Resource: resource, Key: key}
}

// BusinessRuleError is a domain invariant violation with a specific
// reason code: category type mismatch with parent, circular parent
// reference, deactivating a category that still has products.
type BusinessRuleError struct {
	Code    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBusinessRule creates a BusinessRuleError with a reason code.
func NewBusinessRule(code, format string, args ...interface{}) *BusinessRuleError {
	return &BusinessRuleError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Status maps an error to the HTTP status code handlers should return.
// Unrecognized errors are treated as internal.
func Status(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		conflict   *ConflictError
		rule       *BusinessRuleError
	)
	switch {
	case errors.As(err, &notFound):
		return fiber.StatusNotFound
	case errors.As(err, &conflict):
		return fiber.StatusConflict
	case errors.As(err, &validation), errors.As(err, &rule):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
