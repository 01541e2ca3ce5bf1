package api

import (
	"fmt"

	"github.com/opsline/paramstore/cmd/paramstore/filtering"
	"github.com/opsline/paramstore/models/param"
)

const (
	issueSeverityError   = "error"
	issueSeverityWarning = "warning"

	issueCodeInvalid    = "invalid"
	issueCodeNotFound   = "not-found"
	issueCodeProcessing = "processing"
)

// Invalid request content
func NewInvalidParameterIssue(details string) param.Issue {
	return param.Issue{
		Severity: issueSeverityError,
		Code:     issueCodeInvalid,
		Details:  details,
	}
}

// Processing failure
func NewProcessingIssue(details string) param.Issue {
	return param.Issue{
		Severity: issueSeverityError,
		Code:     issueCodeProcessing,
		Details:  details,
	}
}

// Not found
func NewNotFoundIssue(details string) param.Issue {
	return param.Issue{
		Severity: issueSeverityWarning,
		Code:     issueCodeNotFound,
		Details:  details,
	}
}

// issueFromValidation turns a rejected filter clause into a response issue.
func issueFromValidation(validation *filtering.FilterValidation) param.Issue {
	switch validation.ErrorType {
	case "unknown-key":
		return NewInvalidParameterIssue(
			fmt.Sprintf("Filter key '%s' is not supported for this operation", validation.Key))
	case "unsupported-option":
		return NewInvalidParameterIssue(
			fmt.Sprintf("Filter option '%s' is not supported for key '%s'",
				validation.Option, validation.Key))
	default:
		return NewInvalidParameterIssue(
			fmt.Sprintf("Invalid filter '%s'", validation.Key))
	}
}
