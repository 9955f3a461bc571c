package domain

// PlanType distinguishes the two plan families the app can generate.
type PlanType string

const (
	PlanTypeWorkout   PlanType = "workout"
	PlanTypeNutrition PlanType = "nutrition"
)

// FieldType enumerates the answer shapes a questionnaire field can collect.
type FieldType string

const (
	FieldSingleSelect FieldType = "single_select"
	FieldMultiSelect  FieldType = "multi_select"
	FieldText         FieldType = "text"
	FieldNumber       FieldType = "number"
	FieldBoolean      FieldType = "boolean"
	FieldDate         FieldType = "date"
)

// FieldOption is one selectable choice for a *_select field.
type FieldOption struct {
	Label       string `bson:"label" json:"label"`
	Value       string `bson:"value" json:"value"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Visibility gates a field on the answer of an earlier field.
// The field is only collectible/validated when the dependsOn field's
// sanitized answer is one of the showWhen values.
type Visibility struct {
	DependsOn string   `bson:"dependsOn" json:"dependsOn"`
	ShowWhen  []string `bson:"showWhen" json:"showWhen"`
}

// TemplateField describes a single questionnaire input.
type TemplateField struct {
	Key          string        `bson:"key" json:"key"` // Unique within a template; the answers-map key
	Label        string        `bson:"label" json:"label"`
	Type         FieldType     `bson:"type" json:"type"`
	Required     bool          `bson:"required" json:"required"`
	DefaultValue interface{}   `bson:"defaultValue,omitempty" json:"defaultValue,omitempty"`
	Options      []FieldOption `bson:"options,omitempty" json:"options,omitempty"` // Required for *_select types
	Visibility   *Visibility   `bson:"visibility,omitempty" json:"visibility,omitempty"`

	// Selection-count constraints for multi_select fields. Zero means unbounded.
	MinSelections int `bson:"minSelections,omitempty" json:"minSelections,omitempty"`
	MaxSelections int `bson:"maxSelections,omitempty" json:"maxSelections,omitempty"`

	// UI metadata; not load-bearing for generation correctness.
	Placeholder string `bson:"placeholder,omitempty" json:"placeholder,omitempty"`
	HelpText    string `bson:"helpText,omitempty" json:"helpText,omitempty"`
}

// TemplateStep groups fields into one page of the onboarding questionnaire.
type TemplateStep struct {
	Title       string          `bson:"title" json:"title"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`
	Fields      []TemplateField `bson:"fields" json:"fields"`
}

// PlanTemplate is a versioned, declarative questionnaire definition. It drives
// both UI rendering and prompt construction. Field keys are unique within a
// template and visibility rules may only reference earlier fields.
type PlanTemplate struct {
	ID       string         `bson:"id" json:"id"`
	Version  string         `bson:"version" json:"version"`
	PlanType PlanType       `bson:"planType" json:"planType"`
	Title    string         `bson:"title" json:"title"`
	Steps    []TemplateStep `bson:"steps" json:"steps"`
}

// Answers maps a template field key to the user-supplied value. Value shapes
// follow the field's declared type: string, []string, float64, bool, or an
// ISO date string.
type Answers map[string]interface{}
