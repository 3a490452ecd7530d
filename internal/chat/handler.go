package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fittrackr/assistant/internal/insights"
	"github.com/fittrackr/assistant/internal/telemetry/tracing"
	"github.com/fittrackr/assistant/internal/workouts"
	"github.com/fittrackr/assistant/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Session headers set by the main application's proxy.
const (
	HeaderPlanName = "X-Plan-Name"
	HeaderChatName = "X-Chat-Name"
)

type responder interface {
	Respond(ctx context.Context, userID int, message, planName, storedName string) (*ChatResponse, error)
}

type composer interface {
	Compose(ctx context.Context, userID int, planName, storedName string) (*insights.UserInsights, error)
}

type classifier interface {
	Classify(ctx context.Context, message string) (string, float64)
}

type ChatRequest struct {
	UserID  int    `json:"userId"`
	Message string `json:"message"`
}

type ClassifyRequest struct {
	Message string `json:"message"`
}

type ClassifyResponse struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

type Handler struct {
	responder  responder
	composer   composer
	classifier classifier
}

func NewHandler(responder responder, composer composer, classifier classifier) *Handler {
	return &Handler{
		responder:  responder,
		composer:   composer,
		classifier: classifier,
	}
}

func (handler *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.chat.message")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var chatReq ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&chatReq); err != nil {
		log.Errorf("chat message, unmarshal json params: %s", err)
		http.Error(w, "chat message failed", http.StatusBadRequest)
		return
	}
	if chatReq.UserID <= 0 {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	resp, err := handler.responder.Respond(
		ctx, chatReq.UserID, chatReq.Message,
		r.Header.Get(HeaderPlanName), r.Header.Get(HeaderChatName),
	)
	if err != nil {
		if errors.Is(err, workouts.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("chat message for user %d: %s", chatReq.UserID, err)
		http.Error(w, "error, failed to generate reply", http.StatusInternalServerError)
		return
	}

	log.Debugf("chat reply for user %d: intent [%s], confidence %.3f", chatReq.UserID, resp.Intent, resp.Confidence)

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("failed to marshal chat response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.chat.insights")
	defer span.End()

	vars := mux.Vars(r)
	idStr := vars["userId"]
	if idStr == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}
	userID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, user id NaN", http.StatusBadRequest)
		return
	}

	userInsights, err := handler.composer.Compose(
		ctx, userID,
		r.Header.Get(HeaderPlanName), r.Header.Get(HeaderChatName),
	)
	if err != nil {
		if errors.Is(err, workouts.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("compose insights for user %d: %s", userID, err)
		http.Error(w, "error, failed to compose insights", http.StatusInternalServerError)
		return
	}

	insightsJson, err := json.Marshal(userInsights)
	if err != nil {
		log.Errorf("failed to marshal insights: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, insightsJson, http.StatusOK)
}

func (handler *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.chat.classify")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var classifyReq ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&classifyReq); err != nil {
		log.Errorf("classify message, unmarshal json params: %s", err)
		http.Error(w, "classify message failed", http.StatusBadRequest)
		return
	}

	intent, confidence := handler.classifier.Classify(ctx, classifyReq.Message)

	classifyRespJson, err := json.Marshal(ClassifyResponse{
		Intent:     intent,
		Confidence: confidence,
	})
	if err != nil {
		log.Errorf("failed to marshal classify response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(classifyRespJson))
}
