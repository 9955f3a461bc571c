package template

import (
	"reflect"
	"testing"

	"pulsefit/coach-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workoutTpl(t *testing.T) *domain.PlanTemplate {
	t.Helper()
	tpl, err := NewRegistry().Get("workout_onboarding")
	require.NoError(t, err)
	return tpl
}

func nutritionTpl(t *testing.T) *domain.PlanTemplate {
	t.Helper()
	tpl, err := NewRegistry().Get("nutrition_onboarding")
	require.NoError(t, err)
	return tpl
}

func validWorkoutAnswers() domain.Answers {
	return domain.Answers{
		"fitness_level":        "intermediate",
		"primary_goal":         "build_muscle",
		"training_environment": "gym",
		"weekly_frequency":     "4",
		"focus_areas":          []string{"upper_body", "core"},
		"has_injuries":         false,
	}
}

func TestAssertTemplateVersion(t *testing.T) {
	tpl := workoutTpl(t)

	assert.NoError(t, AssertTemplateVersion(tpl, tpl.Version))

	err := AssertTemplateVersion(tpl, "0.9.0")
	require.Error(t, err)
	var mismatch *VersionMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "0.9.0", mismatch.Requested)
	assert.Equal(t, tpl.Version, mismatch.Current)
}

func TestSanitizeAnswersDropsInvisibleFields(t *testing.T) {
	tpl := workoutTpl(t)

	raw := validWorkoutAnswers()
	raw["equipment_available"] = []string{"dumbbells"} // Invisible: environment is gym
	raw["injury_details"] = "sore knee"                // Invisible: has_injuries is false

	sanitized := SanitizeAnswers(tpl, raw)

	assert.NotContains(t, sanitized, "equipment_available")
	assert.NotContains(t, sanitized, "injury_details")
	assert.Equal(t, "build_muscle", sanitized["primary_goal"])
}

func TestSanitizeAnswersAppliesDefaults(t *testing.T) {
	tpl := workoutTpl(t)

	raw := validWorkoutAnswers()
	delete(raw, "has_injuries")
	sanitized := SanitizeAnswers(tpl, raw)

	assert.Equal(t, float64(60), sanitized["session_length_minutes"])
	assert.Equal(t, false, sanitized["has_injuries"])
}

func TestSanitizeAnswersDefaultNotAppliedToInvisibleField(t *testing.T) {
	tpl := nutritionTpl(t)

	sanitized := SanitizeAnswers(tpl, domain.Answers{
		"nutrition_goal": "lose_weight",
		"dietary_style":  "omnivore",
		"has_allergies":  false,
	})

	assert.Contains(t, sanitized, "cooking_time")
	assert.NotContains(t, sanitized, "allergies")
}

func TestSanitizeAnswersCoercesTypes(t *testing.T) {
	tpl := workoutTpl(t)

	raw := validWorkoutAnswers()
	raw["session_length_minutes"] = "45"
	raw["has_injuries"] = "false"
	raw["focus_areas"] = []interface{}{"core"}

	sanitized := SanitizeAnswers(tpl, raw)

	assert.Equal(t, float64(45), sanitized["session_length_minutes"])
	assert.Equal(t, false, sanitized["has_injuries"])
	assert.Equal(t, []string{"core"}, sanitized["focus_areas"])
}

func TestSanitizeAnswersDoesNotMutateInput(t *testing.T) {
	tpl := workoutTpl(t)

	raw := validWorkoutAnswers()
	raw["session_length_minutes"] = "45"
	before := domain.Answers{}
	for k, v := range raw {
		before[k] = v
	}

	SanitizeAnswers(tpl, raw)

	assert.True(t, reflect.DeepEqual(before, raw))
}

func TestSanitizeAnswersIsIdempotent(t *testing.T) {
	tpl := workoutTpl(t)

	raw := validWorkoutAnswers()
	raw["session_length_minutes"] = "45"

	once := SanitizeAnswers(tpl, raw)
	twice := SanitizeAnswers(tpl, once)

	assert.True(t, reflect.DeepEqual(once, twice))
}

func TestValidateAnswersReportsFirstViolationInDeclarationOrder(t *testing.T) {
	tpl := workoutTpl(t)

	// Several fields are missing; primary_goal is declared first among them.
	err := ValidateAnswers(tpl, domain.Answers{
		"fitness_level":    "intermediate",
		"weekly_frequency": "4",
		"has_injuries":     false,
	})
	require.Error(t, err)
	var missing *MissingRequiredFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "primary_goal", missing.Key)
}

func TestValidateAnswersSelectionCount(t *testing.T) {
	tpl := workoutTpl(t)

	answers := SanitizeAnswers(tpl, validWorkoutAnswers())
	answers["focus_areas"] = []string{"upper_body", "lower_body", "core", "conditioning"}

	err := ValidateAnswers(tpl, answers)
	require.Error(t, err)
	var count *SelectionCountError
	require.ErrorAs(t, err, &count)
	assert.Equal(t, "focus_areas", count.Key)
	assert.Equal(t, 4, count.Actual)
}

func TestValidateAnswersRejectsUndeclaredOption(t *testing.T) {
	tpl := workoutTpl(t)

	answers := SanitizeAnswers(tpl, validWorkoutAnswers())
	answers["primary_goal"] = "become_astronaut"

	err := ValidateAnswers(tpl, answers)
	require.Error(t, err)
	var invalid *InvalidOptionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "primary_goal", invalid.Key)
	assert.Equal(t, "become_astronaut", invalid.Value)
}

func TestValidateAnswersRejectsWrongType(t *testing.T) {
	tpl := workoutTpl(t)

	answers := SanitizeAnswers(tpl, validWorkoutAnswers())
	answers["has_injuries"] = "maybe"

	err := ValidateAnswers(tpl, answers)
	require.Error(t, err)
	var wrongType *InvalidAnswerTypeError
	require.ErrorAs(t, err, &wrongType)
	assert.Equal(t, "has_injuries", wrongType.Key)
}

func TestValidateAnswersRequiresVisibleDependentField(t *testing.T) {
	tpl := workoutTpl(t)

	raw := validWorkoutAnswers()
	raw["has_injuries"] = true
	answers := SanitizeAnswers(tpl, raw)

	err := ValidateAnswers(tpl, answers)
	require.Error(t, err)
	var missing *MissingRequiredFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "injury_details", missing.Key)

	answers["injury_details"] = "lower back pain"
	assert.NoError(t, ValidateAnswers(tpl, answers))
}

func TestValidateAnswersAcceptsValidInput(t *testing.T) {
	tpl := workoutTpl(t)
	answers := SanitizeAnswers(tpl, validWorkoutAnswers())
	assert.NoError(t, ValidateAnswers(tpl, answers))
}

func TestBuildUserPromptIsDeterministic(t *testing.T) {
	tpl := workoutTpl(t)
	answers := SanitizeAnswers(tpl, validWorkoutAnswers())

	first := BuildUserPrompt(tpl, answers)
	second := BuildUserPrompt(tpl, answers)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestBuildUserPromptUsesOptionLabels(t *testing.T) {
	tpl := workoutTpl(t)
	answers := SanitizeAnswers(tpl, validWorkoutAnswers())

	prompt := BuildUserPrompt(tpl, answers)

	assert.Contains(t, prompt, "Here are my workout questionnaire answers:")
	assert.Contains(t, prompt, "- Primary goal: Build muscle")
	assert.Contains(t, prompt, "- Workouts per week: 4 days")
	assert.Contains(t, prompt, "- Areas to emphasize: Upper body, Core")
	assert.Contains(t, prompt, "- Any current injuries or limitations?: No")
	assert.NotContains(t, prompt, "build_muscle")
}

func TestBuildUserPromptOmitsInvisibleFields(t *testing.T) {
	tpl := workoutTpl(t)
	answers := SanitizeAnswers(tpl, validWorkoutAnswers())

	prompt := BuildUserPrompt(tpl, answers)

	assert.NotContains(t, prompt, "Equipment available")
	assert.NotContains(t, prompt, "Describe your injuries")
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()

	tpl, err := reg.GetByType(domain.PlanTypeNutrition)
	require.NoError(t, err)
	assert.Equal(t, "nutrition_onboarding", tpl.ID)

	_, err = reg.Get("no_such_template")
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	assert.Len(t, reg.List(), 2)
}
