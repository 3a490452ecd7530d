package chat

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/fittrackr/assistant/internal/insights"
	"github.com/fittrackr/assistant/internal/intents"
	"github.com/fittrackr/assistant/internal/telemetry/metrics"
	"github.com/fittrackr/assistant/internal/telemetry/tracing"
	"github.com/fittrackr/assistant/internal/workouts"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultLowConfidence is the classifier confidence below which a reply
// carries a clarification suffix. Deliberately higher than the classifier's
// own fallback threshold: an intent can win the nearest-neighbor vote and
// still deserve a disclaimer.
const DefaultLowConfidence = 0.22

const clarificationSuffix = " Je ne suis pas sûr d'avoir compris : tu veux parler de 1RM, fatigue ou recommandations d'exos ?"

const maxRecommendedExercises = 3

// MetadataRememberName carries an extracted first name back to the caller,
// which is expected to persist it and echo it in the next request.
const MetadataRememberName = "remember_name"

// ChatResponse is the reply to one user message.
type ChatResponse struct {
	Text       string            `json:"text"`
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type insightsComposer interface {
	Compose(ctx context.Context, userID int, planName, storedName string) (*insights.UserInsights, error)
}

type intentClassifier interface {
	Classify(ctx context.Context, message string) (string, float64)
}

type exercisesCatalog interface {
	ListExercisesByMuscleGroup(ctx context.Context, muscleGroup string) ([]workouts.Exercise, error)
}

type handlerFunc func(ctx context.Context, message string, userInsights *insights.UserInsights) string

// Responder turns a classified message plus a user's analytics snapshot into
// a French reply. All replies are template driven, one handler per intent.
type Responder struct {
	composer   insightsComposer
	classifier intentClassifier
	catalog    exercisesCatalog
	metrics    *metrics.Manager

	handlers map[string]handlerFunc
}

func NewResponder(
	composer insightsComposer,
	classifier intentClassifier,
	catalog exercisesCatalog,
	metricsManager *metrics.Manager,
) *Responder {
	r := &Responder{
		composer:   composer,
		classifier: classifier,
		catalog:    catalog,
		metrics:    metricsManager,
	}
	r.handlers = map[string]handlerFunc{
		intents.IntentGreeting:        r.handleGreeting,
		intents.IntentOneRM:           r.handleOneRM,
		intents.IntentFatigue:         r.handleFatigue,
		intents.IntentRecommendations: r.handleRecommendations,
		intents.IntentStats:           r.handleStats,
		intents.IntentIdentity:        r.handleIdentity,
		intents.IntentFallback:        r.handleFallback,
	}
	return r
}

// Respond generates the reply for one message. planName and storedName come
// from the caller's session (subscription plan, previously remembered name)
// and may be empty.
func (r *Responder) Respond(ctx context.Context, userID int, message, planName, storedName string) (_ *ChatResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "assistant.chat.respond")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	userInsights, err := r.composer.Compose(ctx, userID, planName, storedName)
	if err != nil {
		return nil, fmt.Errorf("compose insights: %w", err)
	}
	if storedName != "" {
		userInsights.UserName = storedName
	}

	intent, confidence := r.classifier.Classify(ctx, message)
	span.SetAttributes(attribute.String("intent", intent))

	handler, ok := r.handlers[intent]
	if !ok {
		handler = r.handleFallback
	}
	text := handler(ctx, message, userInsights)

	metadata := make(map[string]string)
	if intent == intents.IntentIdentity {
		if extracted := ExtractName(message); extracted != "" {
			metadata[MetadataRememberName] = extracted
			r.metrics.CounterNamesRemembered.Inc()
		}
	}

	if intent == intents.IntentFallback || (confidence < DefaultLowConfidence && intent != intents.IntentIdentity) {
		text += clarificationSuffix
	}

	if userInsights.LoadRisk.Reason == insights.ReasonModelFallback {
		r.metrics.CounterRiskDegraded.Inc()
	}
	r.metrics.CounterChatReplies.WithLabelValues(intent).Inc()

	return &ChatResponse{
		Text:       text,
		Intent:     intent,
		Confidence: confidence,
		Metadata:   metadata,
	}, nil
}

func (r *Responder) handleGreeting(_ context.Context, _ string, ui *insights.UserInsights) string {
	prefix := "Salut !"
	if ui.UserName != "" {
		prefix = fmt.Sprintf("Salut %s !", ui.UserName)
	}
	parts := []string{
		fmt.Sprintf("%s Tu as enregistré %d séances sur 30 jours pour ~%d reps/volume total.", prefix, ui.Workouts30d, int(ui.Volume30d)),
	}
	if ui.PlanName != "" {
		parts = append(parts, fmt.Sprintf("Abonnement actuel : %s.", ui.PlanName))
	}
	if ui.FavoriteMuscle != "" {
		parts = append(parts, fmt.Sprintf("Muscle dominant : %s.", workouts.MuscleGroupLabel(ui.FavoriteMuscle)))
	}
	if ui.WeakMuscle != "" {
		parts = append(parts, fmt.Sprintf("Muscle à rattraper : %s (je peux proposer des exos ciblés).", workouts.MuscleGroupLabel(ui.WeakMuscle)))
	}
	parts = append(parts, "Je peux analyser ton 1RM, le risque de surentraînement ou te proposer un focus d'exercices.")
	return strings.Join(parts, " ")
}

func (r *Responder) handleStats(_ context.Context, _ string, ui *insights.UserInsights) string {
	parts := []string{
		fmt.Sprintf("Bilan 30j : %d séances, ~%d reps/volume.", ui.Workouts30d, int(ui.Volume30d)),
	}
	if ui.FavoriteMuscle != "" {
		parts = append(parts, fmt.Sprintf("Muscle le plus travaillé : %s.", workouts.MuscleGroupLabel(ui.FavoriteMuscle)))
	}
	if ui.LoadRisk.Risk != nil {
		parts = append(parts, fmt.Sprintf("Risque de surentraînement estimé : %d%% (%s).", riskPercent(*ui.LoadRisk.Risk), ui.LoadRisk.Reason))
	}
	if ui.PlanName != "" {
		parts = append(parts, fmt.Sprintf("Plan : %s.", ui.PlanName))
	}
	if len(ui.OneRM) > 0 {
		best := ui.OneRM[0]
		parts = append(parts, fmt.Sprintf("1RM estimé le plus récent : %s ≈ %v kg.", best.Exercise, best.Current))
	}
	parts = append(parts, "Besoin d'un focus précis ? Demande-moi ton 1RM, ton risque fatigue ou un plan d'exos.")
	return strings.Join(parts, " ")
}

func (r *Responder) handleOneRM(_ context.Context, _ string, ui *insights.UserInsights) string {
	if len(ui.OneRM) == 0 {
		return "Pas assez de séries chargées récentes pour estimer un 1RM. Logge 3 séances avec reps + poids (60 derniers jours) et je calcule ta tendance."
	}
	var parts []string
	for _, entry := range ui.OneRM {
		trend := "pas de projection"
		if entry.Predicted != 0 {
			trend = fmt.Sprintf("%v kg prévus si tu maintiens le rythme", entry.Predicted)
		}
		speed := "tendance stable"
		if entry.SlopePerWeek != 0 {
			speed = fmt.Sprintf("%+.3f kg/semaine", entry.SlopePerWeek)
		}
		parts = append(parts, fmt.Sprintf("%s : %v kg estimés, %s, %s.", entry.Exercise, entry.Current, speed, trend))
	}
	parts = append(parts, "Conserve un RPE 7-8 et ajoute 1-2 singles techniques pour sécuriser la progression.")
	return strings.Join(parts, " ")
}

func (r *Responder) handleFatigue(_ context.Context, _ string, ui *insights.UserInsights) string {
	if ui.LoadRisk.Risk == nil {
		return "Pas assez de recul pour détecter un surentraînement. Logge au moins 4 semaines d'entraînements pour une détection fiable."
	}
	riskPct := riskPercent(*ui.LoadRisk.Risk)
	reason := ui.LoadRisk.Reason
	if reason == "" {
		reason = "Analyse 90j"
	}
	var advice string
	switch {
	case riskPct >= 70:
		advice = "Allège le volume de 20-30% cette semaine, garde 2 jours de repos, et dors 8h. Surveille les douleurs."
	case riskPct >= 40:
		advice = "Risque modéré : reste en RPE 7, ajoute un jour léger (mobilité/cardio), et limite les sets à échec."
	default:
		advice = "Risque faible : continue ta progression en surveillant le sommeil et l'hydratation."
	}
	return fmt.Sprintf("Risque de surentraînement : %d%% (%s). %s", riskPct, reason, advice)
}

func (r *Responder) handleRecommendations(ctx context.Context, _ string, ui *insights.UserInsights) string {
	if ui.WeakMuscle != "" {
		names := r.recommendedExercises(ctx, ui.WeakMuscle)
		if len(names) > 0 {
			return fmt.Sprintf(
				"Muscle à renforcer : %s. Ajoute %s 2x/sem, en 3-4 séries contrôlées. Termine par un tempo lent ou un iso pour sécuriser la technique.",
				workouts.MuscleGroupLabel(ui.WeakMuscle), strings.Join(names, ", "),
			)
		}
	}
	if ui.FavoriteMuscle != "" {
		return fmt.Sprintf(
			"Ton volume est surtout sur %s. Pour équilibrer, ajoute 1 séance axée sur jambes/dos/épaules selon ton besoin, et reste en RPE 7.",
			workouts.MuscleGroupLabel(ui.FavoriteMuscle),
		)
	}
	return "Je peux te proposer des exercices dès que tu auras loggé plusieurs séances avec des groupes musculaires variés."
}

func (r *Responder) handleIdentity(_ context.Context, message string, ui *insights.UserInsights) string {
	name := ExtractName(message)
	if name == "" {
		name = ui.UserName
	}
	if name != "" {
		return fmt.Sprintf("Enchanté %s, je le note et je l'utiliserai dans nos échanges.", name)
	}
	return "Je veux bien retenir ton prénom : dis-moi \"je m'appelle <ton prénom>\"."
}

func (r *Responder) handleFallback(_ context.Context, _ string, ui *insights.UserInsights) string {
	return strings.Join([]string{
		"Je m'appuie sur tes données FitTrackR (1RM, fatigue, muscles forts/faibles).",
		fmt.Sprintf("Sur 30 jours : %d séances, ~%d reps/volume.", ui.Workouts30d, int(ui.Volume30d)),
		"Pose une question du style : \"mon 1rm bench ?\", \"je suis fatigué\", \"que travailler cette semaine ?\" ou \"bilan stats\".",
	}, " ")
}

// recommendedExercises lists up to three catalog exercises for the muscle
// group, alphabetically. Catalog errors degrade to no recommendations, the
// handler then falls back to the generic balance advice.
func (r *Responder) recommendedExercises(ctx context.Context, muscleGroup string) []string {
	exercises, err := r.catalog.ListExercisesByMuscleGroup(ctx, muscleGroup)
	if err != nil {
		return nil
	}
	names := make([]string, 0, maxRecommendedExercises)
	for _, exercise := range exercises {
		if len(names) == maxRecommendedExercises {
			break
		}
		names = append(names, exercise.Name)
	}
	return names
}

func riskPercent(risk float64) int {
	return int(math.Round(risk * 100))
}
