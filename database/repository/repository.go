// Package repository holds the storage errors shared by every repository
// implementation.
package repository

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("document not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrVersionConflict    = errors.New("version conflict")
	ErrDuplicate          = errors.New("duplicate document")
	ErrPreconditionFailed = errors.New("precondition failed")
)

const DefaultTimeout = 5 * time.Second

// WithTimeout derives a bounded context from ctx. A transaction session
// carried by ctx is preserved.
func WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultTimeout)
}

// Page normalises pagination input: page >= 1, 1 <= limit <= 100.
func Page(page, limit int) (skip int64, size int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return int64((page - 1) * limit), int64(limit)
}
