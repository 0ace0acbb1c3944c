package service

import (
	"errors"
	"net/http"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrStackFormat         = errors.New("stacks must be lowercase letters only")
	ErrPostNotFound        = errors.New("post not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrForbidden           = errors.New("forbidden")
	ErrAlreadyBookmarked   = errors.New("post already bookmarked")
	ErrNoSuchBookmark      = errors.New("bookmark not found")
	ErrDuplicateNickname   = errors.New("nickname already taken")
	ErrUpstreamAuth        = errors.New("upstream auth provider failure")
	ErrUnsupportedProvider = errors.New("unsupported auth provider")
)

// ErrorInfo is the HTTP status and machine-readable code a sentinel error
// is reported with.
type ErrorInfo struct {
	Status int
	Code   string
}

var errorMap = []struct {
	err  error
	info ErrorInfo
}{
	{ErrValidation, ErrorInfo{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR"}},
	{ErrInvalidCategory, ErrorInfo{Status: http.StatusBadRequest, Code: "INVALID_CATEGORY"}},
	{ErrStackFormat, ErrorInfo{Status: http.StatusBadRequest, Code: "STACK_FORMAT"}},
	{ErrPostNotFound, ErrorInfo{Status: http.StatusNotFound, Code: "POST_NOT_FOUND"}},
	{ErrUserNotFound, ErrorInfo{Status: http.StatusNotFound, Code: "USER_NOT_FOUND"}},
	{ErrForbidden, ErrorInfo{Status: http.StatusForbidden, Code: "FORBIDDEN"}},
	{ErrAlreadyBookmarked, ErrorInfo{Status: http.StatusConflict, Code: "ALREADY_BOOKMARKED"}},
	{ErrNoSuchBookmark, ErrorInfo{Status: http.StatusNotFound, Code: "NO_SUCH_BOOKMARK"}},
	{ErrDuplicateNickname, ErrorInfo{Status: http.StatusConflict, Code: "DUPLICATE_NICKNAME"}},
	{ErrUpstreamAuth, ErrorInfo{Status: http.StatusBadGateway, Code: "UPSTREAM_AUTH_FAILURE"}},
	{ErrUnsupportedProvider, ErrorInfo{Status: http.StatusNotFound, Code: "UNSUPPORTED_PROVIDER"}},
}

// LookupError returns the ErrorInfo of the first sentinel err wraps. It
// returns false for errors that should be reported as internal failures.
func LookupError(err error) (ErrorInfo, bool) {
	for _, e := range errorMap {
		if errors.Is(err, e.err) {
			return e.info, true
		}
	}
	return ErrorInfo{}, false
}
