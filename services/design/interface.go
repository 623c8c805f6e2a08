package design

import (
	"context"
	"io"

	designRepo "mayhouse/database/repository/design"
	experienceRepo "mayhouse/database/repository/experience"
	"mayhouse/models"
	"mayhouse/services/storage"
)

// DesignService drives the host's experience wizard and its AI helpers.
type DesignService interface {
	StartSession(hostID string, req models.DesignSessionStart) (*models.DesignSessionStartResponse, error)
	SaveBasics(hostID, sessionID string, req models.StepBasicsPayload) (*models.DesignSession, error)
	UploadMedia(ctx context.Context, hostID, sessionID string, file io.Reader) (*models.DesignSession, error)
	ReorderMedia(hostID, sessionID string, req models.StepMediaReorder) (*models.DesignSession, error)
	SaveLogistics(hostID, sessionID string, req models.StepLogisticsPayload) (*models.DesignSession, error)
	Review(hostID, sessionID string) (*models.DesignSessionReview, error)
	Submit(hostID, sessionID string) (*models.DesignSubmitResponse, error)

	Generate(ctx context.Context, req models.QAGenerationRequest) (*models.ExperienceGenerationResponse, error)
	Transcribe(ctx context.Context, audio []byte) (*models.TranscriptionResponse, error)
	Chat(ctx context.Context, hostID string, req models.ChatRequest) (*models.ChatResponse, error)
}

// Prompt is one LLM request: instructions, prior turns and the new user text.
type Prompt struct {
	System  string
	History []models.ChatMessage
	User    string
}

// TextGenerator asks an LLM for a JSON document.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, p Prompt) (string, error)
}

// Transcriber turns LINEAR16 audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// ChatHistory keeps the recent conversation per user.
type ChatHistory interface {
	Load(ctx context.Context, userID string) ([]models.ChatMessage, error)
	Append(ctx context.Context, userID string, msgs ...models.ChatMessage) error
}

// DefaultDesignService works without LLM, Speech or Storage; those routes answer 503.
type DefaultDesignService struct {
	Sessions    designRepo.DesignSessionRepository
	Experiences experienceRepo.ExperienceRepository
	Storage     storage.StorageService
	LLM         TextGenerator
	Speech      Transcriber
	History     ChatHistory
}
