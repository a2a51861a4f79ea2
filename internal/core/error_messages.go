// Package core provides the business logic for survey project runs.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis. A failed run stores its code in the run history.
//
// Error codes are grouped by category:
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Not configured: The project cannot be exported as configured
//	         Action: Set the project's survey id and the survey API settings
//	         Match: *ConfigurationError
//
// # Rule Errors (COL001-COL099, RULE001-RULE099)
//
// Errors raised by the transformation engine while applying rules:
//
//	COL001 - Column not found: A rule references a column the export lacks
//	         Action: Compare the rule's column names with the survey variables
//	         Match: *engine.ColumnNotFoundError, "column not found"
//
//	COL002 - Duplicate column: A rule would create a column that already exists
//	         Action: Change the rule's destination prefix or range
//	         Match: table.ErrDuplicateColumn
//
//	RULE001 - Invalid rule: A rule is missing a field its process needs
//	          Action: Edit the rule and check its span and destination range
//	          Match: *engine.InvalidRuleError, rules.ErrInvalidRule
//
// # Survey Platform Errors (UPS001-UPS099)
//
//	UPS001 - Rejected credentials: The survey API answered 401 or 403
//	         Action: Check SURVEY_API_USER and SURVEY_API_PASSWORD
//
//	UPS002 - Unavailable: Transport failure, 429 or 5xx after retries
//	         Action: Please try again in a few minutes
//
//	UPS003 - Unexpected response: Any other status or an undecodable body
//	         Action: Verify the survey id and contact support if it persists
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - System busy: Every run slot is taken
//	         Action: Please wait for the current runs to finish
//	         Match: ErrTooManyRuns
//
//	RUN002 - No artifact: The project has not produced a workbook yet
//	         Action: Run the project first
//	         Match: ErrArtifactNotFound
//
// # Project Errors (PRJ001-PRJ099)
//
//	PRJ001 - Project not found
//	PRJ002 - Rule not found
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid input: A required field is missing or malformed
//	         Match: ErrInvalidInput
//
// # Database Errors (DB001-DB099)
//
// Errors related to database operations and constraints:
//
//	DB001 - Duplicate key: A record with this ID already exists
//	        Patterns: "duplicate key"
//
//	DB002 - Unique constraint: This value must be unique but already exists
//	        Patterns: "unique constraint", "violates unique"
//
//	DB003 - Foreign key: Referenced record does not exist
//	        Patterns: "foreign key constraint", "violates foreign key"
//
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
//	DB006 - Timeout: Operation timed out
//	        Patterns: "timeout"
//
//	DB007 - Deadlock: Database was busy with conflicting operations
//	        Patterns: "deadlock"
//
//	DB008 - Check constraint: A stored value is not allowed
//	        Patterns: "violates check constraint"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timed out
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Authentication (AUTH001-AUTH099)
//
// Written by the API key middleware, never by MapError:
//
//	AUTH001 - Missing API key (401)
//	AUTH002 - Invalid API key (403)
//
// # Default Error (ERR000)
//
// Fallback when nothing matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Matching
//
// Typed errors are matched first with errors.As / errors.Is, so wrapping keeps
// the code stable. Everything else falls through to the pattern table, matched
// case-insensitively using strings.Contains. The first matching pattern wins,
// so more specific patterns should be defined before general ones.
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the run history entry for the stored error message
//  3. Review the suggested action to guide the user
//  4. If ERR000, check application logs for the original technical error
package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/surveybase/internal/engine"
	"github.com/JonMunkholm/surveybase/internal/rules"
	"github.com/JonMunkholm/surveybase/internal/survey"
	"github.com/JonMunkholm/surveybase/internal/table"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so order matters:
//   - More specific patterns should come before general ones
//   - Multiple patterns can map to the same error code
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the package documentation at the top of this file
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Constraint Errors (DB001-DB003)
	// These errors occur when data violates database constraints.
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Please reload and try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Choose a different value",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Choose a different value",
			Code:    "DB002",
		},
	},
	{
		pattern: "foreign key constraint",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "The project may have been deleted. Reload and try again",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "The project may have been deleted. Reload and try again",
			Code:    "DB003",
		},
	},

	// =========================================================================
	// Database Connection Errors (DB004-DB007)
	// These errors occur when database connectivity is disrupted.
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	{
		pattern: "violates check constraint",
		msg: UserMessage{
			Message: "A stored value is not allowed",
			Action:  "Check the rule process and ranges",
			Code:    "DB008",
		},
	},

	// =========================================================================
	// Engine Errors (COL001)
	// Errors that lost their type crossing a process boundary.
	// =========================================================================
	{
		pattern: "column not found",
		msg:     msgColumnNotFound,
	},

	// =========================================================================
	// Request Errors (REQ001-REQ002)
	// These errors occur when a request or run is cut short.
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again later or raise RUN_TIMEOUT for large surveys",
			Code:    "REQ002",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// These errors occur when request limits are exceeded.
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

var (
	msgConfiguration = UserMessage{
		Message: "The project cannot be exported as configured",
		Action:  "Set the project's survey id and the survey API settings",
		Code:    "CFG001",
	}
	msgColumnNotFound = UserMessage{
		Message: "A rule references a column the survey export does not contain",
		Action:  "Compare the rule's column names with the survey variables",
		Code:    "COL001",
	}
	msgDuplicateColumn = UserMessage{
		Message: "A rule would create a column that already exists",
		Action:  "Change the rule's destination prefix or range",
		Code:    "COL002",
	}
	msgInvalidRule = UserMessage{
		Message: "A rule is missing a setting its process needs",
		Action:  "Edit the rule and check its span and destination range",
		Code:    "RULE001",
	}
	msgUpstreamAuth = UserMessage{
		Message: "The survey platform rejected the credentials",
		Action:  "Check SURVEY_API_USER and SURVEY_API_PASSWORD",
		Code:    "UPS001",
	}
	msgUpstreamUnavailable = UserMessage{
		Message: "The survey platform is unavailable",
		Action:  "Please try again in a few minutes",
		Code:    "UPS002",
	}
	msgUpstreamUnexpected = UserMessage{
		Message: "The survey platform returned an unexpected response",
		Action:  "Verify the survey id and contact support if it persists",
		Code:    "UPS003",
	}
	msgTooManyRuns = UserMessage{
		Message: "System is busy processing other runs",
		Action:  "Please wait for the current runs to finish",
		Code:    "RUN001",
	}
	msgArtifactNotFound = UserMessage{
		Message: "This project has not produced a workbook yet",
		Action:  "Run the project first",
		Code:    "RUN002",
	}
	msgProjectNotFound = UserMessage{
		Message: "Project not found",
		Action:  "Verify the project id is correct",
		Code:    "PRJ001",
	}
	msgInvalidInput = UserMessage{
		Message: "Some fields are missing or invalid",
		Action:  "Check the highlighted fields and try again",
		Code:    "VAL001",
	}
	msgRuleNotFound = UserMessage{
		Message: "Rule not found",
		Action:  "The rule may have been deleted. Reload the project",
		Code:    "PRJ002",
	}
)

// mapTyped matches the errors this module defines, wherever they sit in the
// wrap chain.
func mapTyped(err error) (UserMessage, bool) {
	var cfgErr *ConfigurationError
	var colErr *engine.ColumnNotFoundError
	var ruleErr *engine.InvalidRuleError
	var upErr *survey.UpstreamError

	switch {
	case errors.As(err, &cfgErr):
		return msgConfiguration, true
	case errors.As(err, &colErr):
		return msgColumnNotFound, true
	case errors.As(err, &ruleErr), errors.Is(err, rules.ErrInvalidRule):
		return msgInvalidRule, true
	case errors.Is(err, table.ErrDuplicateColumn):
		return msgDuplicateColumn, true
	case errors.As(err, &upErr):
		return mapUpstream(upErr), true
	case errors.Is(err, ErrTooManyRuns):
		return msgTooManyRuns, true
	case errors.Is(err, ErrArtifactNotFound):
		return msgArtifactNotFound, true
	case errors.Is(err, ErrProjectNotFound):
		return msgProjectNotFound, true
	case errors.Is(err, ErrRuleNotFound):
		return msgRuleNotFound, true
	case errors.Is(err, ErrInvalidInput):
		return msgInvalidInput, true
	}
	return UserMessage{}, false
}

func mapUpstream(err *survey.UpstreamError) UserMessage {
	switch status := err.StatusCode(); {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return msgUpstreamAuth
	case status == 0, status == http.StatusTooManyRequests, status >= 500:
		return msgUpstreamUnavailable
	default:
		return msgUpstreamUnexpected
	}
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Typed errors are matched first; otherwise it searches through known error
// patterns (case-insensitive) and returns the first match. If nothing
// matches, a generic fallback message with code ERR000 is returned.
//
// Example:
//
//	err := fmt.Errorf("run: %w", &engine.ColumnNotFoundError{Column: "P5_1"})
//	msg := MapError(err)
//	// msg.Code == "COL001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if msg, ok := mapTyped(err); ok {
		return msg
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
//
// Example output: "Project not found (Code: PRJ001). Verify the project id is correct"
//
// This is the primary function for displaying errors to end users.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
// Use this to decide whether to show the raw error or the mapped user message.
//
// Example:
//
//	if IsUserFacing(err) {
//	    showToUser(FormatUserError(err))
//	} else {
//	    log.Error(err) // Log technical error
//	    showToUser("An error occurred. Please try again.")
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// WrapWithUserMessage wraps a technical error with a user-friendly message.
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
// The returned UserError preserves the original technical error for logging via Unwrap(),
// while providing a clean user message via Error().
//
// Returns nil if err is nil.
//
// Example:
//
//	ue := NewUserError(dbErr)
//	log.Error(ue.Technical)          // Log original error
//	fmt.Println(ue.Error())           // Show "A record with this ID already exists"
//	fmt.Println(ue.User.Code)         // Show "DB001"
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
