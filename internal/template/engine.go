package template

import (
	"fmt"
	"strconv"
	"strings"

	"pulsefit/coach-app/internal/domain"
)

// AssertTemplateVersion pins client and server to the same questionnaire
// shape. Any mismatch is rejected outright.
func AssertTemplateVersion(tpl *domain.PlanTemplate, requestedVersion string) error {
	if requestedVersion != tpl.Version {
		return &VersionMismatchError{TemplateID: tpl.ID, Requested: requestedVersion, Current: tpl.Version}
	}
	return nil
}

// SanitizeAnswers walks the template in step/field order and produces a new
// answers map: values for invisible fields are dropped (and their defaults not
// applied), visible values are coerced to the declared type where unambiguous,
// and defaults fill in visible fields with no supplied value. The input map is
// never mutated. Sanitizing an already-sanitized map is a fixed point.
func SanitizeAnswers(tpl *domain.PlanTemplate, raw domain.Answers) domain.Answers {
	out := domain.Answers{}
	for si := range tpl.Steps {
		for fi := range tpl.Steps[si].Fields {
			field := &tpl.Steps[si].Fields[fi]
			if !isVisible(field, out) {
				continue
			}
			value, ok := raw[field.Key]
			if !ok || value == nil {
				if field.DefaultValue != nil {
					out[field.Key] = field.DefaultValue
				}
				continue
			}
			out[field.Key] = coerceValue(field.Type, value)
		}
	}
	return out
}

// ValidateAnswers checks sanitized answers against the template. Fields are
// checked in declaration order and the first violation wins. Only visible
// fields are validated.
func ValidateAnswers(tpl *domain.PlanTemplate, answers domain.Answers) error {
	for si := range tpl.Steps {
		for fi := range tpl.Steps[si].Fields {
			field := &tpl.Steps[si].Fields[fi]
			if !isVisible(field, answers) {
				continue
			}
			if err := validateField(field, answers); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateField(field *domain.TemplateField, answers domain.Answers) error {
	value, present := answers[field.Key]
	if present {
		present = !isEmptyValue(value)
	}
	if !present {
		if field.Required {
			return &MissingRequiredFieldError{Key: field.Key}
		}
		return nil
	}

	switch field.Type {
	case domain.FieldSingleSelect:
		s, ok := value.(string)
		if !ok {
			return &InvalidAnswerTypeError{Key: field.Key, Expected: "string"}
		}
		if !isDeclaredOption(field, s) {
			return &InvalidOptionError{Key: field.Key, Value: s}
		}
	case domain.FieldMultiSelect:
		values, ok := stringSliceValue(value)
		if !ok {
			return &InvalidAnswerTypeError{Key: field.Key, Expected: "string list"}
		}
		if field.MinSelections > 0 || field.MaxSelections > 0 {
			min := field.MinSelections
			max := field.MaxSelections
			if len(values) < min || (max > 0 && len(values) > max) {
				return &SelectionCountError{Key: field.Key, Min: min, Max: max, Actual: len(values)}
			}
		}
		for _, v := range values {
			if !isDeclaredOption(field, v) {
				return &InvalidOptionError{Key: field.Key, Value: v}
			}
		}
	case domain.FieldNumber:
		if _, ok := numericValue(value); !ok {
			return &InvalidAnswerTypeError{Key: field.Key, Expected: "number"}
		}
	case domain.FieldBoolean:
		if _, ok := value.(bool); !ok {
			return &InvalidAnswerTypeError{Key: field.Key, Expected: "boolean"}
		}
	}
	return nil
}

// BuildUserPrompt deterministically renders the questionnaire answers as a
// natural-language prompt by walking steps and fields in declaration order.
// Option labels, not raw values, are emitted for *_select fields. The output
// is byte-identical for identical (template, answers) pairs.
func BuildUserPrompt(tpl *domain.PlanTemplate, answers domain.Answers) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here are my %s questionnaire answers:\n", tpl.PlanType)
	for si := range tpl.Steps {
		step := &tpl.Steps[si]
		wroteHeader := false
		for fi := range step.Fields {
			field := &step.Fields[fi]
			if !isVisible(field, answers) {
				continue
			}
			value, ok := answers[field.Key]
			if !ok || isEmptyValue(value) {
				continue
			}
			if !wroteHeader {
				fmt.Fprintf(&b, "\n%s\n", step.Title)
				wroteHeader = true
			}
			fmt.Fprintf(&b, "- %s: %s\n", field.Label, renderAnswer(field, value))
		}
	}
	return b.String()
}

// isVisible reports whether the field should be collected given the answers
// sanitized so far. Visibility rules reference earlier fields only, so the
// dependency is always resolved by the time it is consulted.
func isVisible(field *domain.TemplateField, answers domain.Answers) bool {
	if field.Visibility == nil {
		return true
	}
	dep, ok := answers[field.Visibility.DependsOn]
	if !ok || dep == nil {
		return false
	}
	depStr := scalarString(dep)
	for _, want := range field.Visibility.ShowWhen {
		if depStr == want {
			return true
		}
	}
	return false
}

// coerceValue converts an answer toward the field's declared type where the
// conversion is unambiguous; anything else passes through untouched for the
// validator to reject.
func coerceValue(fieldType domain.FieldType, value interface{}) interface{} {
	switch fieldType {
	case domain.FieldNumber:
		if n, ok := numericValue(value); ok {
			return n
		}
		if s, ok := value.(string); ok {
			if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return n
			}
		}
	case domain.FieldBoolean:
		if s, ok := value.(string); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true":
				return true
			case "false":
				return false
			}
		}
	case domain.FieldMultiSelect:
		if values, ok := stringSliceValue(value); ok {
			return values
		}
		if s, ok := value.(string); ok {
			return []string{s}
		}
	case domain.FieldText, domain.FieldSingleSelect, domain.FieldDate:
		if s, ok := value.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return value
}

func renderAnswer(field *domain.TemplateField, value interface{}) string {
	switch field.Type {
	case domain.FieldSingleSelect:
		if s, ok := value.(string); ok {
			return optionLabel(field, s)
		}
	case domain.FieldMultiSelect:
		if values, ok := stringSliceValue(value); ok {
			labels := make([]string, 0, len(values))
			for _, v := range values {
				labels = append(labels, optionLabel(field, v))
			}
			return strings.Join(labels, ", ")
		}
	case domain.FieldNumber:
		if n, ok := numericValue(value); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	case domain.FieldBoolean:
		if v, ok := value.(bool); ok {
			if v {
				return "Yes"
			}
			return "No"
		}
	}
	return scalarString(value)
}

func optionLabel(field *domain.TemplateField, value string) string {
	for i := range field.Options {
		if field.Options[i].Value == value {
			return field.Options[i].Label
		}
	}
	return value
}

func isDeclaredOption(field *domain.TemplateField, value string) bool {
	for i := range field.Options {
		if field.Options[i].Value == value {
			return true
		}
	}
	return false
}

func isEmptyValue(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	}
	return false
}

func numericValue(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func stringSliceValue(value interface{}) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func scalarString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", value)
}
