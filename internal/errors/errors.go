package errors

import (
	"fmt"
	"sort"
	"strings"
)

// TemplateFailure records why one template failed a batch operation.
type TemplateFailure struct {
	Template string
	Err      error
}

// Error implements the error interface
func (tf TemplateFailure) Error() string {
	return fmt.Sprintf("%s: %v", tf.Template, tf.Err)
}

// Unwrap returns the underlying failure.
func (tf TemplateFailure) Unwrap() error {
	return tf.Err
}

// ErrorCollector collects failures across many templates so a batch command
// can report all of them instead of stopping at the first.
type ErrorCollector struct {
	failures []TemplateFailure
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		failures: make([]TemplateFailure, 0),
	}
}

// Add records a failure for template. A nil error is ignored.
func (ec *ErrorCollector) Add(template string, err error) {
	if err == nil {
		return
	}
	ec.failures = append(ec.failures, TemplateFailure{Template: template, Err: err})
}

// Failures returns a copy of the collected failures sorted by template.
func (ec *ErrorCollector) Failures() []TemplateFailure {
	result := make([]TemplateFailure, len(ec.failures))
	copy(result, ec.failures)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Template < result[j].Template
	})
	return result
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	return len(ec.failures) > 0
}

// Count returns the number of collected failures.
func (ec *ErrorCollector) Count() int {
	return len(ec.failures)
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.failures = ec.failures[:0]
}

// Err folds the collected failures into a single error, or nil.
func (ec *ErrorCollector) Err() error {
	switch len(ec.failures) {
	case 0:
		return nil
	case 1:
		return ec.failures[0]
	}

	lines := make([]string, 0, len(ec.failures))
	for _, f := range ec.Failures() {
		lines = append(lines, f.Error())
	}
	return fmt.Errorf("%d templates failed:\n  %s", len(ec.failures), strings.Join(lines, "\n  "))
}
