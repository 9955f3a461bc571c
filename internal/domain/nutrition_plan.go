package domain

// NutritionPlanDoc is the structurally-validated nutrition plan document
// returned by the generation collaborator.
//
// Health fields follow the canonical scalar/array split: digestiveTip and
// safetyNote are scalars, allergiesExcluded and medicalNotes are arrays. The
// generation system prompt and the validator both enforce this shape.
type NutritionPlanDoc struct {
	Meta        PlanMeta           `bson:"meta" json:"meta"`
	Targets     NutritionTargets   `bson:"targets" json:"targets"`
	Structure   NutritionStructure `bson:"structure" json:"structure"`
	Meals       MealPlanSection    `bson:"meals" json:"meals"`
	Adjustments PlanAdjustments    `bson:"adjustments" json:"adjustments"`
	Flexibility PlanFlexibility    `bson:"flexibility" json:"flexibility"`
	Health      HealthGuidance     `bson:"health" json:"health"`
	Notes       NutritionPlanNotes `bson:"notes" json:"notes"`
}

type NutritionTargets struct {
	DailyCalories float64 `bson:"dailyCalories" json:"dailyCalories"`
	ProteinGrams  float64 `bson:"proteinGrams" json:"proteinGrams"`
	CarbGrams     float64 `bson:"carbGrams" json:"carbGrams"`
	FatGrams      float64 `bson:"fatGrams" json:"fatGrams"`
	MacroStrategy string  `bson:"macroStrategy" json:"macroStrategy"`
}

type NutritionStructure struct {
	MealsPerDay        int    `bson:"mealsPerDay" json:"mealsPerDay"`
	TimingGuidance     string `bson:"timingGuidance" json:"timingGuidance"`
	HydrationGuidance  string `bson:"hydrationGuidance" json:"hydrationGuidance"`
	SupplementGuidance string `bson:"supplementGuidance" json:"supplementGuidance"`
}

// MealType values accepted in meal templates and meal logs.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

type MealPlanSection struct {
	Templates []MealTemplate `bson:"templates" json:"templates"`
}

type MealTemplate struct {
	MealType    MealType     `bson:"mealType" json:"mealType"`
	Goal        string       `bson:"goal" json:"goal"`
	MealOptions []MealOption `bson:"mealOptions" json:"mealOptions"`
}

type MealOption struct {
	Foods           []FoodItem `bson:"foods" json:"foods"`
	EstimatedMacros MacroSet   `bson:"estimatedMacros" json:"estimatedMacros"`
}

type FoodItem struct {
	Name     string `bson:"name" json:"name"`
	Quantity string `bson:"quantity" json:"quantity"`
	Notes    string `bson:"notes" json:"notes"`
}

type MacroSet struct {
	Protein  float64 `bson:"protein" json:"protein"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
	Fats     float64 `bson:"fats" json:"fats"`
	Calories float64 `bson:"calories" json:"calories"`
}

type PlanAdjustments struct {
	CheckInMetrics []string         `bson:"checkInMetrics" json:"checkInMetrics"`
	Rules          []AdjustmentRule `bson:"rules" json:"rules"`
}

type AdjustmentRule struct {
	If        string `bson:"if" json:"if"`
	Then      string `bson:"then" json:"then"`
	Reasoning string `bson:"reasoning" json:"reasoning"`
}

type PlanFlexibility struct {
	EatingOut     EatingOutGuidance  `bson:"eatingOut" json:"eatingOut"`
	Substitutions []FoodSubstitution `bson:"substitutions" json:"substitutions"`
	BudgetTips    []string           `bson:"budgetTips" json:"budgetTips"`
}

type EatingOutGuidance struct {
	Frequency string   `bson:"frequency" json:"frequency"`
	Rules     []string `bson:"rules" json:"rules"`
}

type FoodSubstitution struct {
	Category    string   `bson:"category" json:"category"`
	SwapOptions []string `bson:"swapOptions" json:"swapOptions"`
}

type HealthGuidance struct {
	AllergiesExcluded []string `bson:"allergiesExcluded" json:"allergiesExcluded"`
	MedicalNotes      []string `bson:"medicalNotes" json:"medicalNotes"`
	DigestiveTip      string   `bson:"digestiveTip" json:"digestiveTip"`
	SafetyNote        string   `bson:"safetyNote" json:"safetyNote"`
}

type NutritionPlanNotes struct {
	AdherenceTips  []string `bson:"adherenceTips" json:"adherenceTips"`
	CommonMistakes []string `bson:"commonMistakes" json:"commonMistakes"`
	General        string   `bson:"general" json:"general"`
}
