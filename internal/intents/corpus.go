package intents

// Intent labels the classifier can produce. Fallback is returned for
// anything the corpus does not cover with enough confidence.
const (
	IntentGreeting        = "greeting"
	IntentOneRM           = "one_rm"
	IntentFatigue         = "fatigue"
	IntentRecommendations = "recommendations"
	IntentStats           = "stats"
	IntentIdentity        = "identity"
	IntentFallback        = "fallback"
)

// IntentExample holds the labeled example phrases for one intent.
type IntentExample struct {
	Label   string
	Phrases []string
}

// KeywordOverride forces an intent when the message contains the keyword,
// regardless of the similarity result.
type KeywordOverride struct {
	Keyword string
	Label   string
}

// DefaultCorpus returns the built-in French training corpus. Loaded once at
// startup, never mutated.
func DefaultCorpus() []IntentExample {
	return []IntentExample{
		{Label: IntentGreeting, Phrases: []string{
			"bonjour", "salut", "hello", "yo", "merci", "ça va",
		}},
		{Label: IntentOneRM, Phrases: []string{
			"1rm", "maxi", "progression force", "mon max", "developpe couche record",
			"squat 1rm", "rm progression", "force tendance",
		}},
		{Label: IntentFatigue, Phrases: []string{
			"surentrainement", "fatigué", "récupération", "repos", "fatigue",
			"courbatures", "je suis crevé", "rpe haut",
		}},
		{Label: IntentRecommendations, Phrases: []string{
			"programme", "recommandation", "que travailler", "push pull legs",
			"exos pour moi", "muscle faible", "plan", "cycle",
		}},
		{Label: IntentStats, Phrases: []string{
			"statistiques", "bilan", "résumé", "derniers entraînements", "volume",
			"progression globale", "graphique",
		}},
		{Label: IntentIdentity, Phrases: []string{
			"je m'appelle", "mon nom", "appelle moi", "je suis", "retient mon nom",
		}},
	}
}

// DefaultOverrides returns the keyword overrides, in the order they are
// checked. The first matching keyword wins.
func DefaultOverrides() []KeywordOverride {
	return []KeywordOverride{
		{Keyword: "1rm", Label: IntentOneRM},
		{Keyword: "max", Label: IntentOneRM},
		{Keyword: "fatigue", Label: IntentFatigue},
		{Keyword: "surentrain", Label: IntentFatigue},
		{Keyword: "repos", Label: IntentFatigue},
		{Keyword: "programme", Label: IntentRecommendations},
		{Keyword: "exercice", Label: IntentRecommendations},
		{Keyword: "stat", Label: IntentStats},
		{Keyword: "m'appel", Label: IntentIdentity},
		{Keyword: "appelle moi", Label: IntentIdentity},
		{Keyword: "prenom", Label: IntentIdentity},
		{Keyword: "prénom", Label: IntentIdentity},
		{Keyword: "mon nom", Label: IntentIdentity},
	}
}
