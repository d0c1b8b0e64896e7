// Package core provides the chart and diff logic of querychart.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Users can quote the code shown next to a message when reporting a problem.
//
// Error codes are grouped by category:
//
// # Data Errors (DATA001-DATA099)
//
// Errors caused by the pasted result data:
//
//	DATA001 - Invalid format: The data is neither JSON records nor delimited text
//	          Action: Paste a JSON array of objects or comma-separated text with a header
//	          Patterns: "invalid data format"
//
//	DATA002 - No fields: The data has no rows or fields to plot
//	          Action: Include a header line and at least one data row
//	          Patterns: "no usable fields"
//
//	DATA003 - Non-numeric value: The value field holds text or an empty cell
//	          Action: Pick a numeric value field or fix the reported row
//	          Patterns: "non-numeric value"
//
//	DATA004 - Too large: The pasted data exceeds the size limit
//	          Action: Reduce the number of rows
//	          Patterns: "input too large"
//
// # Request Errors (REQ001-REQ099)
//
// Errors caused by request parameters:
//
//	REQ001 - Unsupported chart type
//	         Action: Choose bar, line, pie or doughnut
//	         Patterns: "unsupported chart kind"
//
//	REQ002 - Unreadable request
//	         Action: Send a valid JSON body
//	         Patterns: "invalid request body"
//
//	REQ003 - Unknown comparison mode
//	         Action: Use positional or aligned
//	         Patterns: "unknown diff mode"
//
//	REQ004 - Unsupported image format
//	         Action: Use svg or png
//	         Patterns: "unsupported image format"
//
// # Render Errors (RND001-RND099)
//
//	RND001 - Renderer busy: Too many charts are being drawn
//	         Action: Please wait a moment and try again
//	         Patterns: "too many renders"
//
//	RND002 - Nothing to draw: The chart has no drawable values
//	         Action: Check that the value field has non-zero values
//	         Patterns: "nothing to draw"
//
//	RND003 - Render failed: The chart could not be drawn
//	         Action: Try another chart type or contact support
//	         Patterns: "render failed"
//
// # Canvas Errors (CNV001-CNV099)
//
//	CNV001 - Canvas not found: The chart canvas was released or never existed
//	         Action: Create a new canvas and draw again
//	         Patterns: "canvas not found"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Data Errors (DATA001-DATA004)
	// =========================================================================
	{
		pattern: "invalid data format",
		msg: UserMessage{
			Message: "The data could not be read",
			Action:  "Paste a JSON array of objects or comma-separated text with a header",
			Code:    "DATA001",
		},
	},
	{
		pattern: "no usable fields",
		msg: UserMessage{
			Message: "The data has no rows or fields to plot",
			Action:  "Include a header line and at least one data row",
			Code:    "DATA002",
		},
	},
	{
		pattern: "non-numeric value",
		msg: UserMessage{
			Message: "The value field contains a non-numeric value",
			Action:  "Pick a numeric value field or fix the reported row",
			Code:    "DATA003",
		},
	},
	{
		pattern: "input too large",
		msg: UserMessage{
			Message: "The pasted data is too large",
			Action:  "Reduce the number of rows",
			Code:    "DATA004",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ004)
	// =========================================================================
	{
		pattern: "unsupported chart kind",
		msg: UserMessage{
			Message: "Unsupported chart type",
			Action:  "Choose bar, line, pie or doughnut",
			Code:    "REQ001",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Send a valid JSON body",
			Code:    "REQ002",
		},
	},
	{
		pattern: "unknown diff mode",
		msg: UserMessage{
			Message: "Unknown comparison mode",
			Action:  "Use positional or aligned",
			Code:    "REQ003",
		},
	},
	{
		pattern: "unsupported image format",
		msg: UserMessage{
			Message: "Unsupported image format",
			Action:  "Use svg or png",
			Code:    "REQ004",
		},
	},

	// =========================================================================
	// Render Errors (RND001-RND003)
	// =========================================================================
	{
		pattern: "too many renders",
		msg: UserMessage{
			Message: "The renderer is busy drawing other charts",
			Action:  "Please wait a moment and try again",
			Code:    "RND001",
		},
	},
	{
		pattern: "nothing to draw",
		msg: UserMessage{
			Message: "The chart has no drawable values",
			Action:  "Check that the value field has non-zero values",
			Code:    "RND002",
		},
	},
	{
		pattern: "render failed",
		msg: UserMessage{
			Message: "The chart could not be drawn",
			Action:  "Try another chart type or contact support",
			Code:    "RND003",
		},
	},

	// =========================================================================
	// Canvas Errors (CNV001)
	// =========================================================================
	{
		pattern: "canvas not found",
		msg: UserMessage{
			Message: "Chart canvas not found",
			Action:  "Create a new canvas and draw again",
			Code:    "CNV001",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	_, err := core.ParseTable("")
//	msg := MapError(err)
//	// msg.Code == "DATA001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
//
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
