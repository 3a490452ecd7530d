package workouts

import "time"

// Muscle group codes, as stored on exercises.
const (
	MuscleGroupFullBody  = "full_body"
	MuscleGroupChest     = "chest"
	MuscleGroupBack      = "back"
	MuscleGroupLegs      = "legs"
	MuscleGroupShoulders = "shoulders"
	MuscleGroupArms      = "arms"
	MuscleGroupCore      = "core"
	MuscleGroupCardio    = "cardio"
)

// muscleGroupLabels maps muscle group codes to their French display labels.
var muscleGroupLabels = map[string]string{
	MuscleGroupFullBody:  "Full body",
	MuscleGroupChest:     "Pectoraux",
	MuscleGroupBack:      "Dos",
	MuscleGroupLegs:      "Jambes",
	MuscleGroupShoulders: "Epaules",
	MuscleGroupArms:      "Bras",
	MuscleGroupCore:      "Core",
	MuscleGroupCardio:    "Cardio",
}

// MuscleGroupLabel returns the display label for a muscle group code,
// falling back to the code itself for unknown groups.
func MuscleGroupLabel(code string) string {
	if label, ok := muscleGroupLabels[code]; ok {
		return label
	}
	return code
}

type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
}

type Exercise struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup"`
	Equipment   string `json:"equipment,omitempty"`
}

type Workout struct {
	ID     int       `json:"id"`
	UserID int       `json:"userId"`
	Title  string    `json:"title"`
	Date   time.Time `json:"date"`
	Sets   []Set     `json:"sets"`
}

type Set struct {
	ID              int     `json:"id"`
	ExerciseID      int     `json:"exerciseId"`
	SetNumber       int     `json:"setNumber"`
	Reps            int     `json:"reps"`
	WeightKg        float64 `json:"weightKg"`
	DurationSeconds int     `json:"durationSeconds,omitempty"`
}

// Volume is reps times weight, and zero for sets missing either.
func (s Set) Volume() float64 {
	if s.Reps > 0 && s.WeightKg > 0 {
		return float64(s.Reps) * s.WeightKg
	}
	return 0
}

// EstimatedOneRM estimates the one-rep max of a set via the Epley formula:
// weight * (1 + reps/30). The second return value is false for sets
// without both reps and weight.
func (s Set) EstimatedOneRM() (float64, bool) {
	if s.Reps > 0 && s.WeightKg > 0 {
		return s.WeightKg * (1 + float64(s.Reps)/30), true
	}
	return 0, false
}
