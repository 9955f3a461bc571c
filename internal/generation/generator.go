package generation

import "context"

// Generator is the text-completion collaborator that turns a prompt into a
// candidate plan document. Implementations return the raw model text; parsing
// and validation happen in the planschema package, and retry policy is owned
// by the plan service.
type Generator interface {
	Name() string
	GeneratePlan(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Close() error
}
