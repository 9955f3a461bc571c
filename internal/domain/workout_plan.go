package domain

// WorkoutPlanDoc is the structurally-validated workout plan document returned
// by the generation collaborator. Once validated it is treated as an opaque,
// immutable document embedded in the plan record.
type WorkoutPlanDoc struct {
	Meta               PlanMeta           `bson:"meta" json:"meta"`
	Schedule           []WorkoutWeek      `bson:"schedule" json:"schedule"`
	ProgressionSummary ProgressionSummary `bson:"progressionSummary" json:"progressionSummary"`
	Substitutions      []ExerciseSwap     `bson:"substitutions" json:"substitutions"`
	RecoveryGuidance   RecoveryGuidance   `bson:"recoveryGuidance" json:"recoveryGuidance"`
	Notes              WorkoutPlanNotes   `bson:"notes" json:"notes"`
}

// PlanMeta carries the display metadata shared by both plan kinds.
type PlanMeta struct {
	PlanName          string `bson:"planName" json:"planName"`
	PlanDescription   string `bson:"planDescription" json:"planDescription"`
	PlanDurationWeeks int    `bson:"planDurationWeeks" json:"planDurationWeeks"`
}

type WorkoutWeek struct {
	Week         int          `bson:"week" json:"week"` // 1-indexed
	WeekLabel    string       `bson:"weekLabel" json:"weekLabel"`
	Focus        string       `bson:"focus" json:"focus"`
	IsDeloadWeek bool         `bson:"isDeloadWeek" json:"isDeloadWeek"`
	Days         []WorkoutDay `bson:"days" json:"days"`
}

type WorkoutDay struct {
	Day                  int                    `bson:"day" json:"day"` // 1-indexed within the week, 1..7
	DayLabel             string                 `bson:"dayLabel" json:"dayLabel"`
	Focus                string                 `bson:"focus" json:"focus"`
	IsRestDay            bool                   `bson:"isRestDay" json:"isRestDay"`
	SessionIntent        string                 `bson:"sessionIntent" json:"sessionIntent"`
	TotalDurationMinutes int                    `bson:"totalDurationMinutes" json:"totalDurationMinutes"`
	Warmup               []MobilityItem         `bson:"warmup" json:"warmup"`
	Workout              []ExercisePrescription `bson:"workout" json:"workout"`
	Cooldown             []MobilityItem         `bson:"cooldown" json:"cooldown"`
}

// MobilityItem is a warmup or cooldown entry.
type MobilityItem struct {
	Name            string `bson:"name" json:"name"`
	DurationMinutes int    `bson:"durationMinutes" json:"durationMinutes"`
	Focus           string `bson:"focus" json:"focus"`
	Notes           string `bson:"notes" json:"notes"`
}

// MovementPattern values accepted in workout prescriptions.
const (
	MovementSquat      = "squat"
	MovementHinge      = "hinge"
	MovementPush       = "push"
	MovementPull       = "pull"
	MovementCarry      = "carry"
	MovementCore       = "core"
	MovementLocomotion = "locomotion"
)

// ExerciseRole values accepted in workout prescriptions.
const (
	RoleMainLift  = "main_lift"
	RoleSecondary = "secondary"
	RoleAccessory = "accessory"
	RoleFinisher  = "finisher"
)

type ExercisePrescription struct {
	Exercise        string            `bson:"exercise" json:"exercise"`
	MovementPattern string            `bson:"movementPattern" json:"movementPattern"`
	Role            string            `bson:"role" json:"role"`
	Sets            int               `bson:"sets" json:"sets"`
	Reps            string            `bson:"reps" json:"reps"` // e.g. "8-10", "AMRAP"
	RestSeconds     int               `bson:"restSeconds" json:"restSeconds"`
	Intensity       IntensityGuidance `bson:"intensityGuidance" json:"intensityGuidance"`
	Tempo           string            `bson:"tempo" json:"tempo"`
	Notes           string            `bson:"notes" json:"notes"`
}

type IntensityGuidance struct {
	Type  string `bson:"type" json:"type"` // e.g. "rpe", "percentage_1rm"
	Value string `bson:"value" json:"value"`
}

type ProgressionSummary struct {
	Strategy string   `bson:"strategy" json:"strategy"`
	Notes    []string `bson:"notes" json:"notes"`
}

type ExerciseSwap struct {
	Exercise        string   `bson:"exercise" json:"exercise"`
	MovementPattern string   `bson:"movementPattern" json:"movementPattern"`
	Alternatives    []string `bson:"alternatives" json:"alternatives"`
}

type RecoveryGuidance struct {
	RecommendedRestDays  int      `bson:"recommendedRestDays" json:"recommendedRestDays"`
	SorenessExpectations string   `bson:"sorenessExpectations" json:"sorenessExpectations"`
	MobilityFocus        []string `bson:"mobilityFocus" json:"mobilityFocus"`
}

type WorkoutPlanNotes struct {
	Safety  []string `bson:"safety" json:"safety"`
	General []string `bson:"general" json:"general"`
}

// FindDay returns the schedule entry for the given (week, day) pair, or nil
// when the plan declares no such day.
func (p *WorkoutPlanDoc) FindDay(week, day int) *WorkoutDay {
	for wi := range p.Schedule {
		if p.Schedule[wi].Week != week {
			continue
		}
		for di := range p.Schedule[wi].Days {
			if p.Schedule[wi].Days[di].Day == day {
				return &p.Schedule[wi].Days[di]
			}
		}
	}
	return nil
}
