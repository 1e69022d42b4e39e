package apiclient

import (
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ErrorBody is the error payload shape the marketplace API returns.
// FastAPI-style servers put the message in "detail"; others use "message".
type ErrorBody struct {
	Status  int                 `json:"status,omitempty"`
	Detail  jsoniter.RawMessage `json:"detail,omitempty"`
	Message string              `json:"message,omitempty"`
	Details interface{}         `json:"details,omitempty"`
}

// Text picks the human-readable message out of the payload. A non-string
// detail (validation error lists) yields "".
func (b ErrorBody) Text() string {
	if len(b.Detail) > 0 {
		var s string
		if err := json.Unmarshal(b.Detail, &s); err == nil && s != "" {
			return s
		}
	}
	return b.Message
}

// PaginatedResponse is the paged list envelope.
type PaginatedResponse[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// MessageResponse is returned by delete endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// PageQuery turns a 1-based page and page size into skip/limit query
// parameters. page < 1 means the first page; limit < 1 means DefaultLimit.
func PageQuery(page, limit int) url.Values {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	q := url.Values{}
	q.Set("skip", strconv.Itoa((page-1)*limit))
	q.Set("limit", strconv.Itoa(limit))
	return q
}
