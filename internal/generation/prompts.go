package generation

import "pulsefit/coach-app/internal/domain"

// Fixed system instructions per plan type. The structural contract described
// here must stay in lockstep with the planschema validator: any field the
// prompt tells the model to emit as a scalar is validated as a scalar, and
// likewise for arrays.

const workoutSystemPrompt = `You are an expert strength and conditioning coach.
You design safe, progressive training programs tailored to the user's answers.
Respond with a single JSON object and nothing else. The object MUST have:

"meta": { "planName": string, "planDescription": string, "planDurationWeeks": number }
"plan": {
  "schedule": [ { "week": number (1-indexed), "weekLabel": string, "focus": string,
    "isDeloadWeek": boolean,
    "days": [ { "day": number (1-7), "dayLabel": string, "focus": string,
      "isRestDay": boolean, "sessionIntent": string, "totalDurationMinutes": number,
      "warmup": [ { "name": string, "durationMinutes": number, "focus": string, "notes": string } ],
      "workout": [ { "exercise": string,
        "movementPattern": one of "squat"|"hinge"|"push"|"pull"|"carry"|"core"|"locomotion",
        "role": one of "main_lift"|"secondary"|"accessory"|"finisher",
        "sets": number, "reps": string, "restSeconds": number,
        "intensityGuidance": { "type": string, "value": string },
        "tempo": string, "notes": string } ],
      "cooldown": [ { "name": string, "durationMinutes": number, "focus": string, "notes": string } ] } ] } ],
  "progressionSummary": { "strategy": string, "notes": [string] },
  "substitutions": [ { "exercise": string, "movementPattern": string, "alternatives": [string] } ],
  "recoveryGuidance": { "recommendedRestDays": number, "sorenessExpectations": string, "mobilityFocus": [string] },
  "notes": { "safety": [string], "general": [string] }
}

All numbers must be non-negative. Rest days have "isRestDay": true and empty
warmup/workout/cooldown arrays. Cover every day of every week in the plan.`

const nutritionSystemPrompt = `You are an expert nutritionist and dietitian.
You design sustainable meal plans tailored to the user's answers.
Respond with a single JSON object and nothing else. The object MUST have:

"meta": { "planName": string, "planDescription": string, "planDurationWeeks": number }
"plan": {
  "targets": { "dailyCalories": number, "proteinGrams": number, "carbGrams": number,
    "fatGrams": number, "macroStrategy": string },
  "structure": { "mealsPerDay": number, "timingGuidance": string,
    "hydrationGuidance": string, "supplementGuidance": string },
  "meals": { "templates": [ { "mealType": one of "breakfast"|"lunch"|"dinner"|"snack",
    "goal": string,
    "mealOptions": [ { "foods": [ { "name": string, "quantity": string, "notes": string } ],
      "estimatedMacros": { "protein": number, "carbs": number, "fats": number, "calories": number } } ] } ] },
  "adjustments": { "checkInMetrics": [string],
    "rules": [ { "if": string, "then": string, "reasoning": string } ] },
  "flexibility": { "eatingOut": { "frequency": string, "rules": [string] },
    "substitutions": [ { "category": string, "swapOptions": [string] } ],
    "budgetTips": [string] },
  "health": { "allergiesExcluded": [string], "medicalNotes": [string],
    "digestiveTip": string, "safetyNote": string },
  "notes": { "adherenceTips": [string], "commonMistakes": [string], "general": string }
}

All numbers must be non-negative. "digestiveTip" and "safetyNote" are single
strings, never arrays. "allergiesExcluded" and "medicalNotes" are always
arrays of strings, even when empty. Exclude every declared allergen from all
meal options.`

// SystemPromptFor returns the fixed system instruction for a plan type.
func SystemPromptFor(planType domain.PlanType) string {
	if planType == domain.PlanTypeNutrition {
		return nutritionSystemPrompt
	}
	return workoutSystemPrompt
}
