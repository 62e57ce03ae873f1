package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Users can quote the code shown next to an alert.
//
// # Dataset State (DS001-DS099)
//
//	DS001 - No dataset: Search attempted before any upload
//	        Action: Please upload the dataset
//	DS002 - No match: Search ran but no row contains the term (a warning)
//	        Action: Please try another search term
//
// # Columns (COL001-COL099)
//
//	COL001 - Missing column: Dataset lacks a display column
//	         Action: Check the CSV header includes every display column
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large        Patterns: "file too large", "request body too large"
//	FILE002 - Invalid CSV           Patterns: "invalid csv"
//	FILE003 - Encoding error        Patterns: "encoding error"
//	FILE004 - No file               Patterns: "no file provided"
//	FILE005 - Empty file            Patterns: "empty file"
//	FILE006 - Not a text file       Patterns: "not a text file"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy            Patterns: "too many concurrent uploads"
//	UPL004 - Request cancelled      Patterns: "context canceled"
//	UPL005 - Request timeout        Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific type or pattern matches. Support staff should
// check application logs for the original technical error.
//
// # Matching
//
// Known error types are matched first with errors.Is / errors.As. Errors
// that only carry text (from net/http or other libraries) fall back to
// case-insensitive substring patterns; the first matching pattern wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Severity tells the UI how to present a message.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message  string   // What happened (user-friendly)
	Action   string   // What to do about it
	Code     string   // Error code for support reference
	Severity Severity // How to present it
}

var (
	msgNoDataset = UserMessage{
		Message:  "Dataset not found",
		Action:   "Please upload the dataset.",
		Code:     "DS001",
		Severity: SeverityError,
	}
	msgNoMatch = UserMessage{
		Message:  "No results found",
		Action:   "Please try another search term.",
		Code:     "DS002",
		Severity: SeverityWarning,
	}
	msgMissingColumn = UserMessage{
		Message:  "The dataset is missing one or more display columns",
		Action:   "Check the CSV header includes every display column",
		Code:     "COL001",
		Severity: SeverityError,
	}
	msgTooLarge = UserMessage{
		Message:  "File exceeds the maximum upload size",
		Action:   "Upload a smaller file",
		Code:     "FILE001",
		Severity: SeverityError,
	}
	msgInvalidCSV = UserMessage{
		Message:  "File is not a valid CSV",
		Action:   "Ensure file is comma-separated with a header row",
		Code:     "FILE002",
		Severity: SeverityError,
	}
	msgEncoding = UserMessage{
		Message:  "File contains invalid characters",
		Action:   "Save file as UTF-8 encoding",
		Code:     "FILE003",
		Severity: SeverityError,
	}
	msgNoFile = UserMessage{
		Message:  "No file was selected",
		Action:   "Please select a CSV file to upload",
		Code:     "FILE004",
		Severity: SeverityError,
	}
	msgEmptyFile = UserMessage{
		Message:  "The uploaded file is empty",
		Action:   "Please upload a CSV file with a header row",
		Code:     "FILE005",
		Severity: SeverityError,
	}
	msgNotText = UserMessage{
		Message:  "File does not look like CSV text",
		Action:   "Export the data as CSV (comma-separated values) and upload that file",
		Code:     "FILE006",
		Severity: SeverityError,
	}
	msgBusy = UserMessage{
		Message:  "System is busy processing other uploads",
		Action:   "Please wait a moment and try again",
		Code:     "UPL002",
		Severity: SeverityError,
	}
	msgCancelled = UserMessage{
		Message:  "Request was cancelled",
		Action:   "Please try again",
		Code:     "UPL004",
		Severity: SeverityError,
	}
	msgTimeout = UserMessage{
		Message:  "Request timed out",
		Action:   "Try uploading a smaller file or check your connection",
		Code:     "UPL005",
		Severity: SeverityError,
	}
	msgRateLimit = UserMessage{
		Message:  "Too many requests",
		Action:   "Please wait a moment before trying again",
		Code:     "RATE001",
		Severity: SeverityError,
	}
)

// NoMatchMessage is the warning shown when a search matches nothing.
func NoMatchMessage() UserMessage {
	return msgNoMatch
}

// ErrNoFile is returned by shells when an upload request carries no file.
var ErrNoFile = errors.New("no file provided")

// ErrFileTooLarge is returned by shells when an upload exceeds the size limit.
var ErrFileTooLarge = errors.New("file too large")

// ErrRateLimited is returned by shells when a client exceeds its request budget.
var ErrRateLimited = errors.New("rate limit exceeded")

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// More specific patterns come first.
var errorPatterns = []errorPattern{
	{pattern: "no dataset loaded", msg: msgNoDataset},
	{pattern: "missing display column", msg: msgMissingColumn},
	{pattern: "file too large", msg: msgTooLarge},
	{pattern: "request body too large", msg: msgTooLarge},
	{pattern: "not a text file", msg: msgNotText},
	{pattern: "invalid csv", msg: msgInvalidCSV},
	{pattern: "encoding error", msg: msgEncoding},
	{pattern: "no file provided", msg: msgNoFile},
	{pattern: "empty file", msg: msgEmptyFile},
	{pattern: "too many concurrent uploads", msg: msgBusy},
	{pattern: "context canceled", msg: msgCancelled},
	{pattern: "context deadline exceeded", msg: msgTimeout},
	{pattern: "rate limit", msg: msgRateLimit},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message:  "An unexpected error occurred",
	Action:   "Please try again or contact support",
	Code:     "ERR000",
	Severity: SeverityError,
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	_, err := core.Search(nil, "b27", core.SearchOptions{})
//	msg := MapError(err)
//	// msg.Code == "DS001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var parseErr *DatasetParseError
	var colErr *MissingColumnError
	switch {
	case errors.Is(err, ErrNoDataset):
		return msgNoDataset
	case errors.As(err, &colErr):
		msg := msgMissingColumn
		msg.Message = fmt.Sprintf("The dataset is missing display column(s): %s", strings.Join(colErr.Missing, ", "))
		return msg
	case errors.As(err, &parseErr):
		switch parseErr.Kind {
		case KindEmpty:
			return msgEmptyFile
		case KindNotText:
			return msgNotText
		case KindEncoding:
			return msgEncoding
		}
		return msgInvalidCSV
	case errors.Is(err, ErrTooManyUploads):
		return msgBusy
	case errors.Is(err, ErrFileTooLarge):
		return msgTooLarge
	case errors.Is(err, ErrNoFile):
		return msgNoFile
	case errors.Is(err, ErrRateLimited):
		return msgRateLimit
	case errors.Is(err, context.Canceled):
		return msgCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// Format renders the message as "Message (Code: XXX). Action".
func (m UserMessage) Format() string {
	return fmt.Sprintf("%s (Code: %s). %s", m.Message, m.Code, m.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

// Error returns the formatted user message, code and action included.
func (e *UserError) Error() string {
	return e.User.Format()
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
