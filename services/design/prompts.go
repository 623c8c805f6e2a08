package design

import (
	"encoding/json"
	"fmt"
	"strings"

	"mayhouse/models"
)

const generateSystemPrompt = `You curate authentic local experiences for Mayhouse.
A host has answered a short questionnaire. Turn the answers into a listing draft and reply with a single JSON object with these keys:
title (10-80 characters), description (100-2000 characters), what_to_expect, domain (one of food, culture, art, history, nature, nightlife, shopping, adventure, wellness, other), theme, duration_minutes (60-480, use 180 when unclear), max_capacity (1-4), price_inr, neighborhood, meeting_point, requirements (array of strings), what_to_bring (array of strings), what_to_know.
Use the answers as the primary source. Be specific and realistic, never generic.`

const chatSystemPrompt = `You are the Mayhouse listing assistant. You help a host refine an experience they are designing.
You can see the current form and an analysis of it below. Answer with one JSON object:
{"natural_response": string, "intent": "READ|MODIFY|GENERATE|ADVICE|VALIDATE|NAVIGATION", "detected_fields": [string], "suggestions": [{"field": string, "current_value": any, "suggested_value": any, "reasoning": string, "confidence": 0..1, "auto_apply_safe": bool, "change_type": "replace|append|refine|generate"}], "validation_warnings": [string], "proactive_suggestions": [string], "confidence": 0..1, "reasoning": string}

Field names: "what to expect", "highlight" or "unique element" mean what_to_expect; "about" or "overview" mean description; "name" or "headline" mean title; "cost" or "pricing" mean price_inr; "length" or "how long" mean duration_minutes; "group size" means max_capacity.
Quote the host's current values when you suggest a change and say why it helps. Point out problems from the analysis even if the host did not ask.`

func qaContext(answers []models.QAAnswer) string {
	blocks := make([]string, 0, len(answers))
	for _, qa := range answers {
		answer := qa.Answer
		if answer == "" && len(qa.StructuredData) > 0 {
			raw, _ := json.Marshal(qa.StructuredData)
			answer = string(raw)
		}
		if answer == "" {
			answer = "N/A"
		}
		blocks = append(blocks, fmt.Sprintf("Q%s: %s\nA: %s", qa.QuestionID, qa.QuestionText, answer))
	}
	return strings.Join(blocks, "\n\n")
}

func chatSystem(a FormAnalysis) string {
	var b strings.Builder
	b.WriteString(chatSystemPrompt)
	fmt.Fprintf(&b, "\n\nCOMPLETION: %.1f%% (%d of %d fields, %d high quality)",
		a.Completion.Percentage, a.Completion.CompletedCount, a.Completion.TotalCount, a.Completion.HighQualityCount)
	if len(a.Completion.MissingRequired) > 0 {
		fmt.Fprintf(&b, "\nMISSING REQUIRED: %s", strings.Join(a.Completion.MissingRequired, ", "))
	}
	if len(a.NextPriorityFields) > 0 {
		fmt.Fprintf(&b, "\nPRIORITY: %s", strings.Join(a.NextPriorityFields, ", "))
	}
	fmt.Fprintf(&b, "\nEXPERIENCE TYPE: %s", a.ExperienceType)
	fmt.Fprintf(&b, "\nTITLE/DESCRIPTION ALIGNMENT: %s", a.Relationships.TitleDescriptionAlignment)
	fmt.Fprintf(&b, "\nPRICE PER HOUR: %s", a.Relationships.PriceDurationRatio)
	for _, issue := range a.ValidationIssues {
		fmt.Fprintf(&b, "\nVALIDATION: %s", issue)
	}
	return b.String()
}

// formContext renders each analysed field with its status and issues for the user turn.
func formContext(a FormAnalysis) string {
	var b strings.Builder
	for _, name := range analysedFields {
		f := a.Fields[name]
		if f.Status == statusEmpty {
			fmt.Fprintf(&b, "- %s: (empty)\n", name)
			continue
		}
		fmt.Fprintf(&b, "- %s: %v [quality %.1f]", name, f.Value, f.QualityScore)
		if len(f.Issues) > 0 {
			fmt.Fprintf(&b, " issues: %s", strings.Join(f.Issues, "; "))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
