/*
Copyright 2025 Clearline Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package taskerror holds the error taxonomy of the task engine. Task
// variants never panic for expected failures; they return one of these
// typed values and the delegator maps them onto the FAILED status path.
package taskerror

import "errors"

// ErrorType distinguishes structured processing failures.
type ErrorType string

// ErrorTypeNoMatch marks "nothing matched yet" so callers can tell it apart
// from "something broke".
const ErrorTypeNoMatch ErrorType = "no_match"

// ValidationError means the unit of work is well-formed as infrastructure
// but fails a domain precondition. It is recoverable by data correction.
type ValidationError struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details map[string]interface{}) ValidationError {
	return ValidationError{Message: message, Details: details}
}

// ProcessingError is either an internal invariant violation (a task used
// without proper initialization) or a wrapped failure from the
// reconciliation engine.
type ProcessingError struct {
	Message string                 `json:"message"`
	Type    ErrorType              `json:"error_type,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e ProcessingError) Error() string {
	return e.Message
}

func NewProcessingError(message string, details map[string]interface{}) ProcessingError {
	return ProcessingError{Message: message, Details: details}
}

// NewNoMatchError wraps an engine "no match found" failure with the
// structured no_match error type.
func NewNoMatchError(message string, details map[string]interface{}) ProcessingError {
	return ProcessingError{Message: message, Type: ErrorTypeNoMatch, Details: details}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// IsNoMatch reports whether err is a ProcessingError carrying the no_match
// error type.
func IsNoMatch(err error) bool {
	var p ProcessingError
	return errors.As(err, &p) && p.Type == ErrorTypeNoMatch
}
