package template

import (
	"errors"

	"pulsefit/coach-app/internal/domain"
)

var ErrTemplateNotFound = errors.New("plan template not found")

// Registry holds the active questionnaire definitions. Constructed once at
// startup and injected into services; templates are immutable after that.
type Registry struct {
	templates []domain.PlanTemplate
}

// NewRegistry returns a registry with the built-in templates.
func NewRegistry() *Registry {
	return &Registry{templates: []domain.PlanTemplate{workoutTemplate, nutritionTemplate}}
}

// NewRegistryWith returns a registry over the given templates. Used by tests.
func NewRegistryWith(templates ...domain.PlanTemplate) *Registry {
	return &Registry{templates: templates}
}

// Get returns the template with the given id.
func (r *Registry) Get(id string) (*domain.PlanTemplate, error) {
	for i := range r.templates {
		if r.templates[i].ID == id {
			return &r.templates[i], nil
		}
	}
	return nil, ErrTemplateNotFound
}

// GetByType returns the active template for a plan type.
func (r *Registry) GetByType(planType domain.PlanType) (*domain.PlanTemplate, error) {
	for i := range r.templates {
		if r.templates[i].PlanType == planType {
			return &r.templates[i], nil
		}
	}
	return nil, ErrTemplateNotFound
}

// List returns all active templates in registration order.
func (r *Registry) List() []domain.PlanTemplate {
	return r.templates
}
