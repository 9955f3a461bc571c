package template

import "pulsefit/coach-app/internal/domain"

// Built-in questionnaire definitions. These are pure data; the engine and the
// UI both render from the same declarative shape. Bump the version whenever a
// field, option, or rule changes; clients pin the version they rendered.

var workoutTemplate = domain.PlanTemplate{
	ID:       "workout_onboarding",
	Version:  "1.2.0",
	PlanType: domain.PlanTypeWorkout,
	Title:    "Workout Plan Questionnaire",
	Steps: []domain.TemplateStep{
		{
			Title:       "About you",
			Description: "Your training background",
			Fields: []domain.TemplateField{
				{
					Key:      "fitness_level",
					Label:    "Current fitness level",
					Type:     domain.FieldSingleSelect,
					Required: true,
					Options: []domain.FieldOption{
						{Label: "Beginner", Value: "beginner", Description: "New to structured training"},
						{Label: "Intermediate", Value: "intermediate", Description: "6+ months of consistent training"},
						{Label: "Advanced", Value: "advanced", Description: "Several years of training"},
					},
				},
				{
					Key:      "primary_goal",
					Label:    "Primary goal",
					Type:     domain.FieldSingleSelect,
					Required: true,
					Options: []domain.FieldOption{
						{Label: "Build muscle", Value: "build_muscle"},
						{Label: "Lose fat", Value: "lose_fat"},
						{Label: "Get stronger", Value: "get_stronger"},
						{Label: "Improve endurance", Value: "improve_endurance"},
						{Label: "General fitness", Value: "general_fitness"},
					},
				},
			},
		},
		{
			Title:       "Training setup",
			Description: "Where and how often you train",
			Fields: []domain.TemplateField{
				{
					Key:      "training_environment",
					Label:    "Training environment",
					Type:     domain.FieldSingleSelect,
					Required: true,
					Options: []domain.FieldOption{
						{Label: "Commercial gym", Value: "gym"},
						{Label: "Home with equipment", Value: "home"},
						{Label: "Bodyweight only", Value: "bodyweight"},
					},
				},
				{
					Key:      "equipment_available",
					Label:    "Equipment available",
					Type:     domain.FieldMultiSelect,
					Required: true,
					Visibility: &domain.Visibility{
						DependsOn: "training_environment",
						ShowWhen:  []string{"home"},
					},
					MinSelections: 1,
					Options: []domain.FieldOption{
						{Label: "Dumbbells", Value: "dumbbells"},
						{Label: "Barbell and plates", Value: "barbell"},
						{Label: "Resistance bands", Value: "bands"},
						{Label: "Pull-up bar", Value: "pullup_bar"},
						{Label: "Kettlebells", Value: "kettlebells"},
					},
				},
				{
					Key:      "weekly_frequency",
					Label:    "Workouts per week",
					Type:     domain.FieldSingleSelect,
					Required: true,
					Options: []domain.FieldOption{
						{Label: "2 days", Value: "2"},
						{Label: "3 days", Value: "3"},
						{Label: "4 days", Value: "4"},
						{Label: "5 days", Value: "5"},
						{Label: "6 days", Value: "6"},
					},
				},
				{
					Key:          "session_length_minutes",
					Label:        "Preferred session length (minutes)",
					Type:         domain.FieldNumber,
					Required:     false,
					DefaultValue: float64(60),
				},
			},
		},
		{
			Title:       "Focus and limitations",
			Description: "What to emphasize and what to work around",
			Fields: []domain.TemplateField{
				{
					Key:           "focus_areas",
					Label:         "Areas to emphasize",
					Type:          domain.FieldMultiSelect,
					Required:      false,
					MinSelections: 1,
					MaxSelections: 3,
					Options: []domain.FieldOption{
						{Label: "Upper body", Value: "upper_body"},
						{Label: "Lower body", Value: "lower_body"},
						{Label: "Core", Value: "core"},
						{Label: "Conditioning", Value: "conditioning"},
						{Label: "Mobility", Value: "mobility"},
					},
				},
				{
					Key:          "has_injuries",
					Label:        "Any current injuries or limitations?",
					Type:         domain.FieldBoolean,
					Required:     true,
					DefaultValue: false,
				},
				{
					Key:      "injury_details",
					Label:    "Describe your injuries or limitations",
					Type:     domain.FieldText,
					Required: true,
					Visibility: &domain.Visibility{
						DependsOn: "has_injuries",
						ShowWhen:  []string{"true"},
					},
					Placeholder: "e.g. lower back pain when deadlifting",
				},
			},
		},
	},
}

var nutritionTemplate = domain.PlanTemplate{
	ID:       "nutrition_onboarding",
	Version:  "1.1.0",
	PlanType: domain.PlanTypeNutrition,
	Title:    "Nutrition Plan Questionnaire",
	Steps: []domain.TemplateStep{
		{
			Title:       "Goals",
			Description: "What you want from your nutrition",
			Fields: []domain.TemplateField{
				{
					Key:      "nutrition_goal",
					Label:    "Primary nutrition goal",
					Type:     domain.FieldSingleSelect,
					Required: true,
					Options: []domain.FieldOption{
						{Label: "Lose weight", Value: "lose_weight"},
						{Label: "Maintain weight", Value: "maintain"},
						{Label: "Gain muscle", Value: "gain_muscle"},
						{Label: "Improve energy", Value: "improve_energy"},
					},
				},
				{
					Key:      "target_weight_kg",
					Label:    "Target weight (kg)",
					Type:     domain.FieldNumber,
					Required: false,
				},
			},
		},
		{
			Title:       "Eating habits",
			Description: "How you eat today",
			Fields: []domain.TemplateField{
				{
					Key:      "dietary_style",
					Label:    "Dietary style",
					Type:     domain.FieldSingleSelect,
					Required: true,
					Options: []domain.FieldOption{
						{Label: "No restrictions", Value: "omnivore"},
						{Label: "Vegetarian", Value: "vegetarian"},
						{Label: "Vegan", Value: "vegan"},
						{Label: "Pescatarian", Value: "pescatarian"},
					},
				},
				{
					Key:          "meals_per_day",
					Label:        "Meals per day",
					Type:         domain.FieldNumber,
					Required:     false,
					DefaultValue: float64(3),
				},
				{
					Key:          "has_allergies",
					Label:        "Any food allergies or intolerances?",
					Type:         domain.FieldBoolean,
					Required:     true,
					DefaultValue: false,
				},
				{
					Key:      "allergies",
					Label:    "Allergies and intolerances",
					Type:     domain.FieldMultiSelect,
					Required: true,
					Visibility: &domain.Visibility{
						DependsOn: "has_allergies",
						ShowWhen:  []string{"true"},
					},
					MinSelections: 1,
					Options: []domain.FieldOption{
						{Label: "Dairy", Value: "dairy"},
						{Label: "Gluten", Value: "gluten"},
						{Label: "Nuts", Value: "nuts"},
						{Label: "Shellfish", Value: "shellfish"},
						{Label: "Eggs", Value: "eggs"},
						{Label: "Soy", Value: "soy"},
					},
				},
				{
					Key:          "cooking_time",
					Label:        "Time available for cooking",
					Type:         domain.FieldSingleSelect,
					Required:     false,
					DefaultValue: "moderate",
					Options: []domain.FieldOption{
						{Label: "Minimal (under 15 min)", Value: "minimal"},
						{Label: "Moderate (15-45 min)", Value: "moderate"},
						{Label: "Plenty (45+ min)", Value: "plenty"},
					},
				},
			},
		},
	},
}
