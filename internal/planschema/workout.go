package planschema

import (
	"pulsefit/coach-app/internal/domain"
)

var movementPatterns = []string{
	domain.MovementSquat, domain.MovementHinge, domain.MovementPush, domain.MovementPull,
	domain.MovementCarry, domain.MovementCore, domain.MovementLocomotion,
}

var exerciseRoles = []string{
	domain.RoleMainLift, domain.RoleSecondary, domain.RoleAccessory, domain.RoleFinisher,
}

// ValidateWorkoutPlan parses and structurally validates a workout plan
// document. An empty schedule is accepted: semantic completeness is the
// generation prompt's job, not this layer's.
func ValidateWorkoutPlan(raw string) (*domain.WorkoutPlanDoc, error) {
	root, err := parseRoot(raw)
	if err != nil {
		return nil, err
	}

	doc := &domain.WorkoutPlanDoc{}
	if doc.Meta, err = parseMeta(root); err != nil {
		return nil, err
	}

	planObj, err := objField(root, "$", "plan")
	if err != nil {
		return nil, err
	}

	weeks, weeksPath, err := arrField(planObj, "plan", "schedule")
	if err != nil {
		return nil, err
	}
	doc.Schedule = make([]domain.WorkoutWeek, 0, len(weeks))
	for wi := range weeks {
		weekObj, weekPath, err := itemObj(weeks, weeksPath, wi)
		if err != nil {
			return nil, err
		}
		week, err := parseWorkoutWeek(weekObj, weekPath)
		if err != nil {
			return nil, err
		}
		doc.Schedule = append(doc.Schedule, week)
	}

	if doc.ProgressionSummary, err = parseProgression(planObj); err != nil {
		return nil, err
	}
	if doc.Substitutions, err = parseSubstitutions(planObj); err != nil {
		return nil, err
	}
	if doc.RecoveryGuidance, err = parseRecovery(planObj); err != nil {
		return nil, err
	}

	notesObj, err := objField(planObj, "plan", "notes")
	if err != nil {
		return nil, err
	}
	if doc.Notes.Safety, err = strSliceField(notesObj, "plan.notes", "safety"); err != nil {
		return nil, err
	}
	if doc.Notes.General, err = strSliceField(notesObj, "plan.notes", "general"); err != nil {
		return nil, err
	}

	return doc, nil
}

func parseWorkoutWeek(obj map[string]interface{}, path string) (domain.WorkoutWeek, error) {
	var week domain.WorkoutWeek
	var err error
	if week.Week, err = intField(obj, path, "week"); err != nil {
		return week, err
	}
	if week.WeekLabel, err = strField(obj, path, "weekLabel"); err != nil {
		return week, err
	}
	if week.Focus, err = strField(obj, path, "focus"); err != nil {
		return week, err
	}
	if week.IsDeloadWeek, err = boolField(obj, path, "isDeloadWeek"); err != nil {
		return week, err
	}
	days, daysPath, err := arrField(obj, path, "days")
	if err != nil {
		return week, err
	}
	week.Days = make([]domain.WorkoutDay, 0, len(days))
	for di := range days {
		dayObj, dayPath, err := itemObj(days, daysPath, di)
		if err != nil {
			return week, err
		}
		day, err := parseWorkoutDay(dayObj, dayPath)
		if err != nil {
			return week, err
		}
		week.Days = append(week.Days, day)
	}
	return week, nil
}

func parseWorkoutDay(obj map[string]interface{}, path string) (domain.WorkoutDay, error) {
	var day domain.WorkoutDay
	var err error
	if day.Day, err = intField(obj, path, "day"); err != nil {
		return day, err
	}
	if day.DayLabel, err = strField(obj, path, "dayLabel"); err != nil {
		return day, err
	}
	if day.Focus, err = strField(obj, path, "focus"); err != nil {
		return day, err
	}
	if day.IsRestDay, err = boolField(obj, path, "isRestDay"); err != nil {
		return day, err
	}
	if day.SessionIntent, err = strField(obj, path, "sessionIntent"); err != nil {
		return day, err
	}
	if day.TotalDurationMinutes, err = intField(obj, path, "totalDurationMinutes"); err != nil {
		return day, err
	}
	if day.Warmup, err = parseMobilityList(obj, path, "warmup"); err != nil {
		return day, err
	}
	if day.Workout, err = parseExerciseList(obj, path); err != nil {
		return day, err
	}
	if day.Cooldown, err = parseMobilityList(obj, path, "cooldown"); err != nil {
		return day, err
	}
	return day, nil
}

func parseMobilityList(obj map[string]interface{}, path, key string) ([]domain.MobilityItem, error) {
	arr, arrPath, err := arrField(obj, path, key)
	if err != nil {
		return nil, err
	}
	items := make([]domain.MobilityItem, 0, len(arr))
	for i := range arr {
		entryObj, entryPath, err := itemObj(arr, arrPath, i)
		if err != nil {
			return nil, err
		}
		var item domain.MobilityItem
		if item.Name, err = strField(entryObj, entryPath, "name"); err != nil {
			return nil, err
		}
		if item.DurationMinutes, err = intField(entryObj, entryPath, "durationMinutes"); err != nil {
			return nil, err
		}
		if item.Focus, err = strField(entryObj, entryPath, "focus"); err != nil {
			return nil, err
		}
		if item.Notes, err = strField(entryObj, entryPath, "notes"); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func parseExerciseList(obj map[string]interface{}, path string) ([]domain.ExercisePrescription, error) {
	arr, arrPath, err := arrField(obj, path, "workout")
	if err != nil {
		return nil, err
	}
	items := make([]domain.ExercisePrescription, 0, len(arr))
	for i := range arr {
		exObj, exPath, err := itemObj(arr, arrPath, i)
		if err != nil {
			return nil, err
		}
		var ex domain.ExercisePrescription
		if ex.Exercise, err = strField(exObj, exPath, "exercise"); err != nil {
			return nil, err
		}
		if ex.MovementPattern, err = enumField(exObj, exPath, "movementPattern", movementPatterns); err != nil {
			return nil, err
		}
		if ex.Role, err = enumField(exObj, exPath, "role", exerciseRoles); err != nil {
			return nil, err
		}
		if ex.Sets, err = intField(exObj, exPath, "sets"); err != nil {
			return nil, err
		}
		if ex.Reps, err = strField(exObj, exPath, "reps"); err != nil {
			return nil, err
		}
		if ex.RestSeconds, err = intField(exObj, exPath, "restSeconds"); err != nil {
			return nil, err
		}
		intObj, err := objField(exObj, exPath, "intensityGuidance")
		if err != nil {
			return nil, err
		}
		intPath := exPath + ".intensityGuidance"
		if ex.Intensity.Type, err = strField(intObj, intPath, "type"); err != nil {
			return nil, err
		}
		if ex.Intensity.Value, err = strField(intObj, intPath, "value"); err != nil {
			return nil, err
		}
		if ex.Tempo, err = strField(exObj, exPath, "tempo"); err != nil {
			return nil, err
		}
		if ex.Notes, err = strField(exObj, exPath, "notes"); err != nil {
			return nil, err
		}
		items = append(items, ex)
	}
	return items, nil
}

func parseProgression(planObj map[string]interface{}) (domain.ProgressionSummary, error) {
	var out domain.ProgressionSummary
	obj, err := objField(planObj, "plan", "progressionSummary")
	if err != nil {
		return out, err
	}
	if out.Strategy, err = strField(obj, "plan.progressionSummary", "strategy"); err != nil {
		return out, err
	}
	if out.Notes, err = strSliceField(obj, "plan.progressionSummary", "notes"); err != nil {
		return out, err
	}
	return out, nil
}

func parseSubstitutions(planObj map[string]interface{}) ([]domain.ExerciseSwap, error) {
	arr, arrPath, err := arrField(planObj, "plan", "substitutions")
	if err != nil {
		return nil, err
	}
	out := make([]domain.ExerciseSwap, 0, len(arr))
	for i := range arr {
		obj, path, err := itemObj(arr, arrPath, i)
		if err != nil {
			return nil, err
		}
		var swap domain.ExerciseSwap
		if swap.Exercise, err = strField(obj, path, "exercise"); err != nil {
			return nil, err
		}
		if swap.MovementPattern, err = enumField(obj, path, "movementPattern", movementPatterns); err != nil {
			return nil, err
		}
		if swap.Alternatives, err = strSliceField(obj, path, "alternatives"); err != nil {
			return nil, err
		}
		out = append(out, swap)
	}
	return out, nil
}

func parseRecovery(planObj map[string]interface{}) (domain.RecoveryGuidance, error) {
	var out domain.RecoveryGuidance
	obj, err := objField(planObj, "plan", "recoveryGuidance")
	if err != nil {
		return out, err
	}
	path := "plan.recoveryGuidance"
	if out.RecommendedRestDays, err = intField(obj, path, "recommendedRestDays"); err != nil {
		return out, err
	}
	if out.SorenessExpectations, err = strField(obj, path, "sorenessExpectations"); err != nil {
		return out, err
	}
	if out.MobilityFocus, err = strSliceField(obj, path, "mobilityFocus"); err != nil {
		return out, err
	}
	return out, nil
}
