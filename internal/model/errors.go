package model

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable identifier for an error class, used in logs and exit mapping.
type ErrorCode string

const (
	CodeInvalidReference  ErrorCode = "INVALID_REFERENCE"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeNoMatchingVariant ErrorCode = "NO_MATCHING_VARIANT"
	CodeInvalidSelection  ErrorCode = "INVALID_SELECTION"
	CodeDownloadFailed    ErrorCode = "DOWNLOAD_FAILED"
	CodeInvalidConfig     ErrorCode = "INVALID_CONFIG"
	CodeInternal          ErrorCode = "INTERNAL_ERROR"
)

var (
	ErrInvalidReference  = errors.New("invalid reference")
	ErrNotFound          = errors.New("item not found")
	ErrNoMatchingVariant = errors.New("no matching variant")
	ErrInvalidSelection  = errors.New("invalid selection")
	ErrDownloadFailed    = errors.New("download failed")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// NoMatchingVariantError names the labels that were tried.
type NoMatchingVariantError struct {
	Requested string
	Fallback  string // empty when no fallback step was available
}

func (e *NoMatchingVariantError) Error() string {
	if e.Fallback == "" {
		return fmt.Sprintf("no %s stream available", e.Requested)
	}
	return fmt.Sprintf("no %s or %s stream available", e.Requested, e.Fallback)
}

func (e *NoMatchingVariantError) Is(target error) bool {
	return target == ErrNoMatchingVariant
}

// DownloadError wraps a transfer failure for one unit.
type DownloadError struct {
	Name string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDownloadFailed, e.Name, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

func (e *DownloadError) Is(target error) bool {
	return target == ErrDownloadFailed
}

// Code maps err to its ErrorCode.
func Code(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidReference):
		return CodeInvalidReference
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrNoMatchingVariant):
		return CodeNoMatchingVariant
	case errors.Is(err, ErrInvalidSelection):
		return CodeInvalidSelection
	case errors.Is(err, ErrDownloadFailed):
		return CodeDownloadFailed
	case errors.Is(err, ErrInvalidConfig):
		return CodeInvalidConfig
	default:
		return CodeInternal
	}
}
