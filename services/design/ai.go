package design

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"mayhouse/models"
	"mayhouse/utils"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	defaultChatReply    = "I'm here to help you refine your experience. What would you like to work on?"
	fallbackChatReply   = "I'm temporarily having trouble processing that. Could you try rephrasing?"
	defaultConfidence   = 0.8
	fallbackConfidence  = 0.3
	defaultChangeType   = "replace"
	errAINotConfigured  = "AI assistant is not configured"
	errSTTNotConfigured = "Speech transcription is not configured"
)

var errInvalidChatJSON = errors.New("assistant reply is not a JSON object")

var validIntents = map[string]bool{
	models.IntentRead: true, models.IntentModify: true, models.IntentGenerate: true,
	models.IntentAdvice: true, models.IntentValidate: true, models.IntentNavigation: true,
}

// stripFences removes a ```json ... ``` wrapper some models add around JSON output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (s *DefaultDesignService) Generate(ctx context.Context, req models.QAGenerationRequest) (*models.ExperienceGenerationResponse, error) {
	if s.LLM == nil {
		return nil, utils.ErrUnavailable(errAINotConfigured)
	}
	raw, err := s.LLM.GenerateJSON(ctx, Prompt{
		System: generateSystemPrompt,
		User:   "Generate experience data from these Q&A answers:\n\n" + qaContext(req.Answers),
	})
	if err != nil {
		utils.GetLogger().Error("Experience generation failed", zap.Error(err))
		return nil, utils.ErrBadGateway("Failed to generate experience from answers")
	}
	var out models.ExperienceGenerationResponse
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		utils.GetLogger().Warn("Unparseable generation output", zap.Error(err), zap.Int("length", len(raw)))
		return nil, utils.ErrBadGateway("AI returned an invalid experience draft")
	}
	out.Domain = strings.ToLower(out.Domain)
	return &out, nil
}

func (s *DefaultDesignService) Transcribe(ctx context.Context, audio []byte) (*models.TranscriptionResponse, error) {
	if s.Speech == nil {
		return nil, utils.ErrUnavailable(errSTTNotConfigured)
	}
	if len(audio) == 0 {
		return nil, utils.ErrBadRequest("Audio file is empty")
	}
	text, err := s.Speech.Transcribe(ctx, audio)
	if err != nil {
		utils.GetLogger().Error("Transcription failed", zap.Error(err))
		return nil, utils.ErrBadGateway("Speech recognition failed")
	}
	return &models.TranscriptionResponse{Transcript: text}, nil
}

func (s *DefaultDesignService) Chat(ctx context.Context, hostID string, req models.ChatRequest) (*models.ChatResponse, error) {
	if s.LLM == nil {
		return nil, utils.ErrUnavailable(errAINotConfigured)
	}
	form := req.FormState
	if req.SessionID != "" {
		session, err := s.session(hostID, req.SessionID)
		if err != nil {
			return nil, err
		}
		if len(form) == 0 {
			form = merged(session.Basics, session.Logistics)
		}
	}
	analysis := Analyze(NormalizeFormState(form))

	var history []models.ChatMessage
	if s.History != nil {
		h, err := s.History.Load(ctx, hostID)
		if err != nil {
			utils.GetLogger().Warn("Failed to load chat history", zap.String("hostID", hostID), zap.Error(err))
		}
		history = trimHistory(h)
	}

	raw, err := s.LLM.GenerateJSON(ctx, Prompt{
		System:  chatSystem(analysis),
		History: history,
		User:    "User query: " + req.Message + "\n\nCurrent form state:\n" + formContext(analysis),
	})
	var resp *models.ChatResponse
	if err == nil {
		resp, err = parseChatResponse(raw)
	}
	if err != nil {
		utils.GetLogger().Error("Design chat failed", zap.String("hostID", hostID), zap.Error(err))
		return fallbackChat(err), nil
	}

	if s.History != nil {
		now := time.Now().UTC()
		if err := s.History.Append(ctx, hostID,
			models.ChatMessage{Role: "user", Content: req.Message, Timestamp: now},
			models.ChatMessage{Role: "assistant", Content: resp.NaturalResponse, Timestamp: now},
		); err != nil {
			utils.GetLogger().Warn("Failed to save chat history", zap.String("hostID", hostID), zap.Error(err))
		}
	}
	return resp, nil
}

func fallbackChat(err error) *models.ChatResponse {
	return &models.ChatResponse{
		NaturalResponse:      fallbackChatReply,
		Intent:               models.IntentAdvice,
		DetectedFields:       []string{},
		Suggestions:          []models.FieldSuggestion{},
		ValidationWarnings:   []string{},
		ProactiveSuggestions: []string{},
		Confidence:           fallbackConfidence,
		Reasoning:            "Error occurred: " + err.Error(),
	}
}

func stringsOf(r gjson.Result) []string {
	out := []string{}
	for _, v := range r.Array() {
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseChatResponse reads the model output leniently; missing keys get defaults.
func parseChatResponse(raw string) (*models.ChatResponse, error) {
	body := stripFences(raw)
	if !gjson.Valid(body) || !gjson.Parse(body).IsObject() {
		return nil, errInvalidChatJSON
	}
	doc := gjson.Parse(body)

	resp := &models.ChatResponse{
		NaturalResponse:      strings.TrimSpace(doc.Get("natural_response").String()),
		Intent:               strings.ToUpper(strings.TrimSpace(doc.Get("intent").String())),
		DetectedFields:       stringsOf(doc.Get("detected_fields")),
		Suggestions:          []models.FieldSuggestion{},
		ValidationWarnings:   stringsOf(doc.Get("validation_warnings")),
		ProactiveSuggestions: stringsOf(doc.Get("proactive_suggestions")),
		Confidence:           defaultConfidence,
		Reasoning:            doc.Get("reasoning").String(),
	}
	if resp.NaturalResponse == "" {
		resp.NaturalResponse = defaultChatReply
	}
	if !validIntents[resp.Intent] {
		resp.Intent = models.IntentAdvice
	}
	if c := doc.Get("confidence"); c.Exists() {
		resp.Confidence = clamp01(c.Float())
	}

	for _, item := range doc.Get("suggestions").Array() {
		if !item.IsObject() || item.Get("field").String() == "" {
			continue
		}
		var sug models.FieldSuggestion
		if err := json.Unmarshal([]byte(item.Raw), &sug); err != nil {
			continue
		}
		if !item.Get("confidence").Exists() {
			sug.Confidence = defaultConfidence
		}
		sug.Confidence = clamp01(sug.Confidence)
		if sug.ChangeType == "" {
			sug.ChangeType = defaultChangeType
		}
		resp.Suggestions = append(resp.Suggestions, sug)
	}
	return resp, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
