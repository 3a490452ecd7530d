package workouts

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// DefaultCatalog is the built-in exercise catalog, mirroring the one the
// main application ships with.
func DefaultCatalog() []Exercise {
	return []Exercise{
		{ID: 1, Name: "Squat", MuscleGroup: MuscleGroupLegs, Equipment: "barre"},
		{ID: 2, Name: "Développé couché", MuscleGroup: MuscleGroupChest, Equipment: "barre"},
		{ID: 3, Name: "Soulevé de terre", MuscleGroup: MuscleGroupBack, Equipment: "barre"},
		{ID: 4, Name: "Tractions", MuscleGroup: MuscleGroupBack, Equipment: "barre fixe"},
		{ID: 5, Name: "Rowing barre", MuscleGroup: MuscleGroupBack, Equipment: "barre"},
		{ID: 6, Name: "Développé militaire", MuscleGroup: MuscleGroupShoulders, Equipment: "barre"},
		{ID: 7, Name: "Élévations latérales", MuscleGroup: MuscleGroupShoulders, Equipment: "haltères"},
		{ID: 8, Name: "Curl biceps", MuscleGroup: MuscleGroupArms, Equipment: "haltères"},
		{ID: 9, Name: "Dips", MuscleGroup: MuscleGroupArms, Equipment: "barres parallèles"},
		{ID: 10, Name: "Fentes", MuscleGroup: MuscleGroupLegs, Equipment: "haltères"},
		{ID: 11, Name: "Leg curl", MuscleGroup: MuscleGroupLegs, Equipment: "machine"},
		{ID: 12, Name: "Crunch", MuscleGroup: MuscleGroupCore},
		{ID: 13, Name: "Gainage", MuscleGroup: MuscleGroupCore},
		{ID: 14, Name: "Écarté couché", MuscleGroup: MuscleGroupChest, Equipment: "haltères"},
		{ID: 15, Name: "Course à pied", MuscleGroup: MuscleGroupCardio},
	}
}

// SeedDemo fills the store with the default catalog, a demo user and about
// twelve weeks of generated training history, so the service can be tried
// out without the main application's database.
func SeedDemo(store *MemoryStore, userID int) {
	faker := gofakeit.New(42)

	store.AddUser(User{
		ID:        userID,
		Username:  "demo",
		FirstName: "Léa",
	})

	catalog := DefaultCatalog()
	for _, ex := range catalog {
		store.AddExercise(ex)
	}

	// strength exercises only, cardio sets carry no weight
	var strength []Exercise
	for _, ex := range catalog {
		if ex.MuscleGroup != MuscleGroupCardio {
			strength = append(strength, ex)
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for week := 0; week < 12; week++ {
		sessions := faker.Number(3, 5)
		for session := 0; session < sessions; session++ {
			day := today.AddDate(0, 0, -7*week-faker.Number(0, 6))
			workout := Workout{
				UserID: userID,
				Title:  faker.RandomString([]string{"Push", "Pull", "Legs", "Full body"}),
				Date:   day,
			}

			exercisesCount := faker.Number(2, 4)
			for e := 0; e < exercisesCount; e++ {
				exercise := strength[faker.Number(0, len(strength)-1)]
				sets := faker.Number(3, 5)
				baseWeight := float64(faker.Number(8, 20)) * 5
				for setNum := 1; setNum <= sets; setNum++ {
					workout.Sets = append(workout.Sets, Set{
						ExerciseID: exercise.ID,
						SetNumber:  setNum,
						Reps:       faker.Number(5, 12),
						// weight drifts up over time, so trends have a direction
						WeightKg: baseWeight + float64(12-week)*0.5,
					})
				}
			}

			store.AddWorkout(workout)
		}
	}
}
