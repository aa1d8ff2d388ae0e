// Package respond provides shared JSON response utilities for API handlers.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Code identifies an API error. Each code carries a fixed HTTP status.
type Code string

const (
	CodeInvalidSort         Code = "INVALID_SORT"
	CodeNotFound            Code = "NOT_FOUND"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodePicksUnavailable    Code = "PICKS_UNAVAILABLE"
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
	CodeInternal            Code = "INTERNAL"
)

var codeStatus = map[Code]int{
	CodeInvalidSort:         http.StatusBadRequest,
	CodeNotFound:            http.StatusNotFound,
	CodeRateLimited:         http.StatusTooManyRequests,
	CodePicksUnavailable:    http.StatusInternalServerError,
	CodeUpstreamUnavailable: http.StatusBadGateway,
	CodeInternal:            http.StatusInternalServerError,
}

// Status returns the HTTP status for c; unknown codes are 500.
func (c Code) Status() int {
	if status, ok := codeStatus[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the standard error shape for all API errors.
type ErrorResponse struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail,omitempty"`
	} `json:"error"`
}

// WriteJSON writes pre-encoded JSON with cache and ETag headers.
func WriteJSON(w http.ResponseWriter, data []byte, etag string, maxAge time.Duration, cacheHit bool) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept-Encoding")
	setCacheHeaders(w, maxAge, cacheHit)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// WriteNotModified sends a 304 with the matching ETag.
func WriteNotModified(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}

// WriteError sends a structured JSON error response with the status of code.
func WriteError(w http.ResponseWriter, code Code, message string) {
	WriteErrorDetail(w, code, message, "")
}

// WriteErrorDetail sends a structured error with additional detail. Errors
// are never cached: a failed standings fetch must not stick at a proxy.
func WriteErrorDetail(w http.ResponseWriter, code Code, message, detail string) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Detail = detail
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code.Status())
	json.NewEncoder(w).Encode(resp)
}

// WriteJSONObject marshals a Go value to JSON and writes it.
func WriteJSONObject(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func setCacheHeaders(w http.ResponseWriter, maxAge time.Duration, cacheHit bool) {
	secs := int(maxAge.Seconds())
	if cacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", secs, secs/2))
}
