package design

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"mayhouse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	reply   string
	err     error
	prompts []Prompt
}

func (s *stubLLM) GenerateJSON(_ context.Context, p Prompt) (string, error) {
	s.prompts = append(s.prompts, p)
	return s.reply, s.err
}

type stubSpeech struct{ text string }

func (s stubSpeech) Transcribe(context.Context, []byte) (string, error) { return s.text, nil }

func TestGenerateParsesFencedJSON(t *testing.T) {
	svc, _ := newSessionService()
	llm := &stubLLM{reply: "```json\n{\"title\":\"Koli fish market at dawn\",\"domain\":\"Food\",\"duration_minutes\":120,\"max_capacity\":3,\"what_to_bring\":[\"Boots\"]}\n```"}
	svc.LLM = llm

	out, err := svc.Generate(context.Background(), models.QAGenerationRequest{Answers: []models.QAAnswer{
		{QuestionID: "1", QuestionText: "Where do you start?", Answer: "Sassoon Dock"},
		{QuestionID: "2", QuestionText: "Anything else?"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "Koli fish market at dawn", out.Title)
	assert.Equal(t, "food", out.Domain)
	assert.Equal(t, 120, out.DurationMinutes)
	assert.Equal(t, []string{"Boots"}, out.WhatToBring)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0].User, "Q1: Where do you start?\nA: Sassoon Dock")
	assert.Contains(t, llm.prompts[0].User, "Q2: Anything else?\nA: N/A")
}

func TestGenerateErrors(t *testing.T) {
	svc, _ := newSessionService()
	req := models.QAGenerationRequest{Answers: []models.QAAnswer{{QuestionID: "1", QuestionText: "q", Answer: "a"}}}

	_, err := svc.Generate(context.Background(), req)
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(err))

	svc.LLM = &stubLLM{reply: "not json"}
	_, err = svc.Generate(context.Background(), req)
	assert.Equal(t, http.StatusBadGateway, statusOf(err))

	svc.LLM = &stubLLM{err: errors.New("quota")}
	_, err = svc.Generate(context.Background(), req)
	assert.Equal(t, http.StatusBadGateway, statusOf(err))
}

func TestTranscribe(t *testing.T) {
	svc, _ := newSessionService()
	_, err := svc.Transcribe(context.Background(), []byte{1, 2})
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(err))

	svc.Speech = stubSpeech{text: "we meet at the dock"}
	_, err = svc.Transcribe(context.Background(), nil)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	out, err := svc.Transcribe(context.Background(), []byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "we meet at the dock", out.Transcript)
}

func TestChatNormalisesReplyAndKeepsHistory(t *testing.T) {
	svc, _ := newSessionService()
	llm := &stubLLM{reply: `{"intent":"modify","detected_fields":["title"],"suggestions":[{"field":"title","current_value":"Chai","suggested_value":"Cutting chai trail through Dadar"},{"reasoning":"no field"}],"confidence":1.4}`}
	svc.LLM = llm
	ctx := context.Background()

	resp, err := svc.Chat(ctx, "host-1", models.ChatRequest{Message: "improve my title", FormState: map[string]any{"title": "Chai", "price": 800, "duration": 120}})
	require.NoError(t, err)
	assert.Equal(t, models.IntentModify, resp.Intent)
	assert.Equal(t, defaultChatReply, resp.NaturalResponse)
	assert.Equal(t, 1.0, resp.Confidence)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, defaultConfidence, resp.Suggestions[0].Confidence)
	assert.Equal(t, "replace", resp.Suggestions[0].ChangeType)
	assert.Empty(t, resp.ValidationWarnings)
	assert.NotNil(t, resp.ProactiveSuggestions)

	prompt := llm.prompts[0]
	assert.Contains(t, prompt.User, "User query: improve my title")
	assert.Contains(t, prompt.User, "- title: Chai")
	assert.Contains(t, prompt.System, "PRICE PER HOUR: low")
	assert.Empty(t, prompt.History)

	llm.reply = `{"natural_response":"Looks good","intent":"nonsense"}`
	resp, err = svc.Chat(ctx, "host-1", models.ChatRequest{Message: "thoughts?"})
	require.NoError(t, err)
	assert.Equal(t, models.IntentAdvice, resp.Intent)
	assert.Equal(t, defaultConfidence, resp.Confidence)
	require.Len(t, llm.prompts[1].History, 2)
	assert.Equal(t, "improve my title", llm.prompts[1].History[0].Content)
	assert.Equal(t, "assistant", llm.prompts[1].History[1].Role)
}

func TestChatFallback(t *testing.T) {
	svc, _ := newSessionService()
	svc.LLM = &stubLLM{err: errors.New("upstream timeout")}

	resp, err := svc.Chat(context.Background(), "host-1", models.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, fallbackChatReply, resp.NaturalResponse)
	assert.Equal(t, models.IntentAdvice, resp.Intent)
	assert.Equal(t, 0.3, resp.Confidence)
	assert.True(t, strings.HasPrefix(resp.Reasoning, "Error occurred: "))
	assert.Empty(t, resp.Suggestions)

	svc.LLM = &stubLLM{reply: "[1,2]"}
	resp, err = svc.Chat(context.Background(), "host-1", models.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, fallbackChatReply, resp.NaturalResponse)
}

func TestChatUsesSessionState(t *testing.T) {
	svc, _ := newSessionService()
	llm := &stubLLM{reply: `{"natural_response":"ok","intent":"READ"}`}
	svc.LLM = llm

	_, err := svc.Chat(context.Background(), "host-1", models.ChatRequest{SessionID: "missing", Message: "hi"})
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	start, err := svc.StartSession("host-1", models.DesignSessionStart{})
	require.NoError(t, err)
	_, err = svc.SaveBasics("host-1", start.SessionID, basics())
	require.NoError(t, err)

	_, err = svc.Chat(context.Background(), "host-1", models.ChatRequest{SessionID: start.SessionID, Message: "what next?"})
	require.NoError(t, err)
	assert.Contains(t, llm.prompts[0].User, "- title: Bandra street food crawl")
	assert.Contains(t, llm.prompts[0].System, "MISSING REQUIRED: meeting_point")
}

func TestMemoryChatHistoryTrims(t *testing.T) {
	h := NewMemoryChatHistory()
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		require.NoError(t, h.Append(ctx, "u", models.ChatMessage{Role: "user", Content: string(rune('a' + i)), Timestamp: time.Now()}))
	}
	msgs, err := h.Load(ctx, "u")
	require.NoError(t, err)
	require.Len(t, msgs, ChatHistoryLimit)
	assert.Equal(t, "f", msgs[0].Content)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripFences(`  {"a":1} `))
}
