package planschema

import (
	"pulsefit/coach-app/internal/domain"
)

var mealTypes = []string{
	string(domain.MealBreakfast), string(domain.MealLunch),
	string(domain.MealDinner), string(domain.MealSnack),
}

// ValidateNutritionPlan parses and structurally validates a nutrition plan
// document. Array-vs-scalar typing is enforced exactly; in particular the
// health section uses scalar digestiveTip/safetyNote and array
// allergiesExcluded/medicalNotes, matching the generation system prompt.
func ValidateNutritionPlan(raw string) (*domain.NutritionPlanDoc, error) {
	root, err := parseRoot(raw)
	if err != nil {
		return nil, err
	}

	doc := &domain.NutritionPlanDoc{}
	if doc.Meta, err = parseMeta(root); err != nil {
		return nil, err
	}

	planObj, err := objField(root, "$", "plan")
	if err != nil {
		return nil, err
	}

	if doc.Targets, err = parseTargets(planObj); err != nil {
		return nil, err
	}
	if doc.Structure, err = parseStructure(planObj); err != nil {
		return nil, err
	}
	if doc.Meals, err = parseMeals(planObj); err != nil {
		return nil, err
	}
	if doc.Adjustments, err = parseAdjustments(planObj); err != nil {
		return nil, err
	}
	if doc.Flexibility, err = parseFlexibility(planObj); err != nil {
		return nil, err
	}
	if doc.Health, err = parseHealth(planObj); err != nil {
		return nil, err
	}

	notesObj, err := objField(planObj, "plan", "notes")
	if err != nil {
		return nil, err
	}
	if doc.Notes.AdherenceTips, err = strSliceField(notesObj, "plan.notes", "adherenceTips"); err != nil {
		return nil, err
	}
	if doc.Notes.CommonMistakes, err = strSliceField(notesObj, "plan.notes", "commonMistakes"); err != nil {
		return nil, err
	}
	if doc.Notes.General, err = strField(notesObj, "plan.notes", "general"); err != nil {
		return nil, err
	}

	return doc, nil
}

func parseTargets(planObj map[string]interface{}) (domain.NutritionTargets, error) {
	var out domain.NutritionTargets
	obj, err := objField(planObj, "plan", "targets")
	if err != nil {
		return out, err
	}
	path := "plan.targets"
	if out.DailyCalories, err = numField(obj, path, "dailyCalories"); err != nil {
		return out, err
	}
	if out.ProteinGrams, err = numField(obj, path, "proteinGrams"); err != nil {
		return out, err
	}
	if out.CarbGrams, err = numField(obj, path, "carbGrams"); err != nil {
		return out, err
	}
	if out.FatGrams, err = numField(obj, path, "fatGrams"); err != nil {
		return out, err
	}
	if out.MacroStrategy, err = strField(obj, path, "macroStrategy"); err != nil {
		return out, err
	}
	return out, nil
}

func parseStructure(planObj map[string]interface{}) (domain.NutritionStructure, error) {
	var out domain.NutritionStructure
	obj, err := objField(planObj, "plan", "structure")
	if err != nil {
		return out, err
	}
	path := "plan.structure"
	if out.MealsPerDay, err = intField(obj, path, "mealsPerDay"); err != nil {
		return out, err
	}
	if out.TimingGuidance, err = strField(obj, path, "timingGuidance"); err != nil {
		return out, err
	}
	if out.HydrationGuidance, err = strField(obj, path, "hydrationGuidance"); err != nil {
		return out, err
	}
	if out.SupplementGuidance, err = strField(obj, path, "supplementGuidance"); err != nil {
		return out, err
	}
	return out, nil
}

func parseMeals(planObj map[string]interface{}) (domain.MealPlanSection, error) {
	var out domain.MealPlanSection
	mealsObj, err := objField(planObj, "plan", "meals")
	if err != nil {
		return out, err
	}
	templates, templatesPath, err := arrField(mealsObj, "plan.meals", "templates")
	if err != nil {
		return out, err
	}
	out.Templates = make([]domain.MealTemplate, 0, len(templates))
	for i := range templates {
		tplObj, tplPath, err := itemObj(templates, templatesPath, i)
		if err != nil {
			return out, err
		}
		var tpl domain.MealTemplate
		mealType, err := enumField(tplObj, tplPath, "mealType", mealTypes)
		if err != nil {
			return out, err
		}
		tpl.MealType = domain.MealType(mealType)
		if tpl.Goal, err = strField(tplObj, tplPath, "goal"); err != nil {
			return out, err
		}
		options, optionsPath, err := arrField(tplObj, tplPath, "mealOptions")
		if err != nil {
			return out, err
		}
		tpl.MealOptions = make([]domain.MealOption, 0, len(options))
		for oi := range options {
			optObj, optPath, err := itemObj(options, optionsPath, oi)
			if err != nil {
				return out, err
			}
			option, err := parseMealOption(optObj, optPath)
			if err != nil {
				return out, err
			}
			tpl.MealOptions = append(tpl.MealOptions, option)
		}
		out.Templates = append(out.Templates, tpl)
	}
	return out, nil
}

func parseMealOption(obj map[string]interface{}, path string) (domain.MealOption, error) {
	var out domain.MealOption
	foods, foodsPath, err := arrField(obj, path, "foods")
	if err != nil {
		return out, err
	}
	out.Foods = make([]domain.FoodItem, 0, len(foods))
	for i := range foods {
		foodObj, foodPath, err := itemObj(foods, foodsPath, i)
		if err != nil {
			return out, err
		}
		var food domain.FoodItem
		if food.Name, err = strField(foodObj, foodPath, "name"); err != nil {
			return out, err
		}
		if food.Quantity, err = strField(foodObj, foodPath, "quantity"); err != nil {
			return out, err
		}
		if food.Notes, err = strField(foodObj, foodPath, "notes"); err != nil {
			return out, err
		}
		out.Foods = append(out.Foods, food)
	}
	macrosObj, err := objField(obj, path, "estimatedMacros")
	if err != nil {
		return out, err
	}
	macrosPath := path + ".estimatedMacros"
	if out.EstimatedMacros.Protein, err = numField(macrosObj, macrosPath, "protein"); err != nil {
		return out, err
	}
	if out.EstimatedMacros.Carbs, err = numField(macrosObj, macrosPath, "carbs"); err != nil {
		return out, err
	}
	if out.EstimatedMacros.Fats, err = numField(macrosObj, macrosPath, "fats"); err != nil {
		return out, err
	}
	if out.EstimatedMacros.Calories, err = numField(macrosObj, macrosPath, "calories"); err != nil {
		return out, err
	}
	return out, nil
}

func parseAdjustments(planObj map[string]interface{}) (domain.PlanAdjustments, error) {
	var out domain.PlanAdjustments
	obj, err := objField(planObj, "plan", "adjustments")
	if err != nil {
		return out, err
	}
	path := "plan.adjustments"
	if out.CheckInMetrics, err = strSliceField(obj, path, "checkInMetrics"); err != nil {
		return out, err
	}
	rules, rulesPath, err := arrField(obj, path, "rules")
	if err != nil {
		return out, err
	}
	out.Rules = make([]domain.AdjustmentRule, 0, len(rules))
	for i := range rules {
		ruleObj, rulePath, err := itemObj(rules, rulesPath, i)
		if err != nil {
			return out, err
		}
		var rule domain.AdjustmentRule
		if rule.If, err = strField(ruleObj, rulePath, "if"); err != nil {
			return out, err
		}
		if rule.Then, err = strField(ruleObj, rulePath, "then"); err != nil {
			return out, err
		}
		if rule.Reasoning, err = strField(ruleObj, rulePath, "reasoning"); err != nil {
			return out, err
		}
		out.Rules = append(out.Rules, rule)
	}
	return out, nil
}

func parseFlexibility(planObj map[string]interface{}) (domain.PlanFlexibility, error) {
	var out domain.PlanFlexibility
	obj, err := objField(planObj, "plan", "flexibility")
	if err != nil {
		return out, err
	}
	path := "plan.flexibility"
	eatingOutObj, err := objField(obj, path, "eatingOut")
	if err != nil {
		return out, err
	}
	if out.EatingOut.Frequency, err = strField(eatingOutObj, path+".eatingOut", "frequency"); err != nil {
		return out, err
	}
	if out.EatingOut.Rules, err = strSliceField(eatingOutObj, path+".eatingOut", "rules"); err != nil {
		return out, err
	}
	subs, subsPath, err := arrField(obj, path, "substitutions")
	if err != nil {
		return out, err
	}
	out.Substitutions = make([]domain.FoodSubstitution, 0, len(subs))
	for i := range subs {
		subObj, subPath, err := itemObj(subs, subsPath, i)
		if err != nil {
			return out, err
		}
		var sub domain.FoodSubstitution
		if sub.Category, err = strField(subObj, subPath, "category"); err != nil {
			return out, err
		}
		if sub.SwapOptions, err = strSliceField(subObj, subPath, "swapOptions"); err != nil {
			return out, err
		}
		out.Substitutions = append(out.Substitutions, sub)
	}
	if out.BudgetTips, err = strSliceField(obj, path, "budgetTips"); err != nil {
		return out, err
	}
	return out, nil
}

func parseHealth(planObj map[string]interface{}) (domain.HealthGuidance, error) {
	var out domain.HealthGuidance
	obj, err := objField(planObj, "plan", "health")
	if err != nil {
		return out, err
	}
	path := "plan.health"
	if out.AllergiesExcluded, err = strSliceField(obj, path, "allergiesExcluded"); err != nil {
		return out, err
	}
	if out.MedicalNotes, err = strSliceField(obj, path, "medicalNotes"); err != nil {
		return out, err
	}
	if out.DigestiveTip, err = strField(obj, path, "digestiveTip"); err != nil {
		return out, err
	}
	if out.SafetyNote, err = strField(obj, path, "safetyNote"); err != nil {
		return out, err
	}
	return out, nil
}
