package chat_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fittrackr/assistant/internal/chat"
	"github.com/fittrackr/assistant/internal/insights"
	"github.com/fittrackr/assistant/internal/intents"
	"github.com/fittrackr/assistant/internal/telemetry/metrics"
	"github.com/fittrackr/assistant/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestResponder(t *testing.T) (*chat.Responder, *workouts.MemoryStore) {
	t.Helper()

	store := workouts.NewMemoryStore()
	for _, exercise := range workouts.DefaultCatalog() {
		store.AddExercise(exercise)
	}
	store.AddUser(workouts.User{ID: 1, Username: "demo", FirstName: "Léa"})

	analyzer := insights.NewAnalyzer(store)
	trends := insights.NewTrendEstimator(store)
	risk := insights.NewRiskEstimator(analyzer, nil)
	composer := insights.NewComposer(store, analyzer, trends, risk)

	responder := chat.NewResponder(composer, intents.NewDefaultClassifier(), store, metrics.NewTestManager())
	return responder, store
}

func addBenchSessions(store *workouts.MemoryStore, userID int) {
	now := time.Now().UTC()
	for i, weight := range []float64{60, 62.5, 65} {
		store.AddWorkout(workouts.Workout{
			UserID: userID,
			Date:   now.AddDate(0, 0, -14+7*i),
			Sets: []workouts.Set{
				{ExerciseID: 2, SetNumber: 1, Reps: 8, WeightKg: weight},
			},
		})
	}
}

func TestResponder_Greeting_FreshUser(t *testing.T) {
	responder, _ := newTestResponder(t)

	resp, err := responder.Respond(context.Background(), 1, "bonjour", "", "")
	require.NoError(t, err)

	assert.Equal(t, intents.IntentGreeting, resp.Intent)
	assert.InDelta(t, 1.0, resp.Confidence, 1e-9)
	assert.Contains(t, resp.Text, "Salut Léa !")
	assert.Contains(t, resp.Text, "0 séances")
	assert.NotContains(t, resp.Text, "pas sûr d'avoir compris")
	assert.Empty(t, resp.Metadata)
}

func TestResponder_Greeting_PlanAndStoredName(t *testing.T) {
	responder, _ := newTestResponder(t)

	resp, err := responder.Respond(context.Background(), 1, "bonjour", "Premium", "Coach")
	require.NoError(t, err)

	assert.Contains(t, resp.Text, "Salut Coach !")
	assert.Contains(t, resp.Text, "Abonnement actuel : Premium.")
}

func TestResponder_OneRM(t *testing.T) {
	responder, store := newTestResponder(t)
	addBenchSessions(store, 1)

	resp, err := responder.Respond(context.Background(), 1, "mon 1rm bench ?", "", "")
	require.NoError(t, err)

	assert.Equal(t, intents.IntentOneRM, resp.Intent)
	assert.GreaterOrEqual(t, resp.Confidence, intents.OverrideConfidenceFloor)
	assert.Contains(t, resp.Text, "Développé couché")
	assert.Contains(t, resp.Text, "kg estimés")
	assert.Contains(t, resp.Text, "kg/semaine")
}

func TestResponder_OneRM_NoData(t *testing.T) {
	responder, _ := newTestResponder(t)

	resp, err := responder.Respond(context.Background(), 1, "c'est quoi mon max", "", "")
	require.NoError(t, err)

	assert.Equal(t, intents.IntentOneRM, resp.Intent)
	assert.Contains(t, resp.Text, "Pas assez de séries chargées récentes")
}

func TestResponder_Fatigue_NoHistory(t *testing.T) {
	responder, _ := newTestResponder(t)

	resp, err := responder.Respond(context.Background(), 1, "grosse fatigue", "", "")
	require.NoError(t, err)

	assert.Equal(t, intents.IntentFatigue, resp.Intent)
	assert.Contains(t, resp.Text, "Pas assez de recul")
	// keyword override keeps the confidence above the disclaimer bar
	assert.NotContains(t, resp.Text, "pas sûr d'avoir compris")
}

func TestResponder_Fatigue_WithHistory(t *testing.T) {
	responder, store := newTestResponder(t)
	workouts.SeedDemo(store, 1)

	resp, err := responder.Respond(context.Background(), 1, "je suis en surentrainement ?", "", "")
	require.NoError(t, err)

	assert.Equal(t, intents.IntentFatigue, resp.Intent)
	assert.Contains(t, resp.Text, "Risque de surentraînement :")
	assert.Contains(t, resp.Text, "%")
}

func TestResponder_Recommendations_WithSeededHistory(t *testing.T) {
	responder, store := newTestResponder(t)
	workouts.SeedDemo(store, 1)

	resp, err := responder.Respond(context.Background(), 1, "fais moi un programme", "", "")
	require.NoError(t, err)

	assert.Equal(t, intents.IntentRecommendations, resp.Intent)
	assert.NotEmpty(t, resp.Text)
}

func TestResponder_Identity_RemembersName(t *testing.T) {
	responder, _ := newTestResponder(t)

	resp, err := responder.Respond(context.Background(), 1, "je m'appelle Marie", "", "")
	require.NoError(t, err)

	assert.Equal(t, intents.IntentIdentity, resp.Intent)
	assert.Contains(t, resp.Text, "Enchanté Marie")
	assert.Equal(t, "Marie", resp.Metadata[chat.MetadataRememberName])
}

func TestResponder_Identity_NoName(t *testing.T) {
	responder, _ := newTestResponder(t)

	resp, err := responder.Respond(context.Background(), 1, "retient mon nom", "", "")
	require.NoError(t, err)

	assert.Equal(t, intents.IntentIdentity, resp.Intent)
	assert.NotContains(t, resp.Metadata, chat.MetadataRememberName)
}

func TestResponder_Fallback_Clarifies(t *testing.T) {
	responder, _ := newTestResponder(t)

	resp, err := responder.Respond(context.Background(), 1, "xzqwv kjy", "", "")
	require.NoError(t, err)

	assert.Equal(t, intents.IntentFallback, resp.Intent)
	assert.True(t, strings.HasSuffix(resp.Text, "tu veux parler de 1RM, fatigue ou recommandations d'exos ?"))
	assert.Contains(t, resp.Text, "Je m'appuie sur tes données FitTrackR")
}

func TestResponder_Stats(t *testing.T) {
	responder, store := newTestResponder(t)
	addBenchSessions(store, 1)

	resp, err := responder.Respond(context.Background(), 1, "montre mes stats", "Premium", "")
	require.NoError(t, err)

	assert.Equal(t, intents.IntentStats, resp.Intent)
	assert.Contains(t, resp.Text, "Bilan 30j : 3 séances")
	assert.Contains(t, resp.Text, "Plan : Premium.")
	assert.Contains(t, resp.Text, "1RM estimé le plus récent : Développé couché")
}
