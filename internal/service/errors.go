package service

import "errors"

// Business-rule failures. None of these are retried: permission, quota, and
// expiry violations are permanent for the given input. Infrastructure failures
// (storage, persistence) are wrapped and propagated unchanged.
var (
	ErrIDRequired       = errors.New("id is required")
	ErrReaderNil        = errors.New("reader is nil")
	ErrNotFound         = errors.New("resource not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrLinkExpired      = errors.New("access link has expired")
	ErrLinkExhausted    = errors.New("access link has reached maximum number of views")
)

// PageMeta describes one page of a paginated listing.
type PageMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// Page is the service-level DTO for paginated results.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

func newPageMeta(total, page, limit int) PageMeta {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return PageMeta{Total: total, Page: page, Limit: limit, Pages: pages}
}

// normalizePage clamps page/limit to sane values and returns them with the
// matching offset.
func normalizePage(page, limit, defaultLimit int) (int, int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return page, limit, (page - 1) * limit
}
