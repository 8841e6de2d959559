package notion

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrMissingTitle = errors.New("page has no title")
)

// MissingTitleError is returned when a page has no usable title property.
type MissingTitleError struct {
	PageID string
}

func (e *MissingTitleError) Error() string {
	return fmt.Sprintf("page %s has no title", e.PageID)
}

func (e *MissingTitleError) Is(target error) bool {
	return target == ErrMissingTitle
}

// APIError is an error response of the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("notion api: status %d (%s): %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Temporary reports whether the request may succeed when repeated.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests ||
		e.Status == http.StatusConflict ||
		e.Status >= http.StatusInternalServerError
}
