package template

import "fmt"

// Validation errors carry the offending field key so handlers can surface
// field-level feedback. All are input-shape errors: detected synchronously,
// never retried.

// VersionMismatchError means the client's pinned template version does not
// match the server's. No forward/backward compatibility is attempted.
type VersionMismatchError struct {
	TemplateID string
	Requested  string
	Current    string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("template %q version mismatch: requested %q, current %q", e.TemplateID, e.Requested, e.Current)
}

// MissingRequiredFieldError names the first visible required field with no answer.
type MissingRequiredFieldError struct {
	Key string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Key)
}

// SelectionCountError reports a multi_select answer outside its min/max bounds.
type SelectionCountError struct {
	Key    string
	Min    int
	Max    int
	Actual int
}

func (e *SelectionCountError) Error() string {
	return fmt.Sprintf("field %q: selection count %d outside range [%d, %d]", e.Key, e.Actual, e.Min, e.Max)
}

// InvalidOptionError reports a *_select answer value not among the declared options.
type InvalidOptionError struct {
	Key   string
	Value string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("field %q: value %q is not a declared option", e.Key, e.Value)
}

// InvalidAnswerTypeError reports an answer whose shape cannot serve the
// field's declared type even after coercion.
type InvalidAnswerTypeError struct {
	Key      string
	Expected string
}

func (e *InvalidAnswerTypeError) Error() string {
	return fmt.Sprintf("field %q: answer is not a valid %s", e.Key, e.Expected)
}
