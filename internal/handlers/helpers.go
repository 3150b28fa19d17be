package handlers

import (
	"log"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// PageInput is the shared pagination query pair. The values bind as strings
// so a request like ?page=abc falls back to the per-endpoint defaults
// instead of being rejected.
type PageInput struct {
	Page  string `query:"page" doc:"Page number, starting at 1" required:"false"`
	Limit string `query:"limit" doc:"Items per page" required:"false"`
}

// PageLimit parses the pair leniently; anything non-numeric comes back as
// zero for NormalizePage to resolve.
func (p PageInput) PageLimit() (int, int) {
	page, _ := strconv.Atoi(p.Page)
	limit, _ := strconv.Atoi(p.Limit)
	return page, limit
}

// storeUnavailable hides store failures behind a generic retryable error so
// internal details never reach the caller.
func storeUnavailable(err error) error {
	log.Printf("store error: %v", err)
	return huma.Error503ServiceUnavailable("Service temporarily unavailable. Please try again later.")
}
