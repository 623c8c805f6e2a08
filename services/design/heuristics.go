package design

import (
	"strings"

	"mayhouse/utils"
)

const (
	statusComplete = "complete"
	statusEmpty    = "empty"
)

// analysedFields is the order fields appear in the analysis and the prompt.
var analysedFields = []string{
	"title", "description", "what_to_expect", "domain", "theme",
	"duration_minutes", "price_inr", "max_capacity", "neighborhood", "meeting_point",
}

var requiredFields = []string{
	"title", "description", "domain", "duration_minutes", "price_inr", "max_capacity", "meeting_point",
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true, "in": true,
	"on": true, "at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
}

var typeKeywords = []struct {
	kind  string
	words []string
}{
	{"food", []string{"food", "cuisine", "cooking", "taste", "tasting", "eat", "chai", "snack", "dish", "vada", "biryani"}},
	{"culture", []string{"culture", "heritage", "temple", "festival", "tradition", "history", "colonial", "fort"}},
	{"art", []string{"art", "gallery", "paint", "mural", "craft", "pottery", "design", "photography"}},
	{"nature", []string{"nature", "garden", "beach", "trek", "hike", "bird", "sunrise", "sunset", "mangrove", "park"}},
	{"nightlife", []string{"nightlife", "bar", "pub", "club", "cocktail", "night"}},
}

// FormValues is the wizard state normalised to one set of names.
type FormValues struct {
	Title           string
	Description     string
	WhatToExpect    string
	Domain          string
	Theme           string
	Neighborhood    string
	MeetingPoint    string
	DurationMinutes *float64
	MaxCapacity     *float64
	PriceINR        *float64
	Requirements    []string
	WhatToBring     []string
}

func optNum(m map[string]any, keys ...string) *float64 {
	if v, ok := num(m, keys...); ok {
		return &v
	}
	return nil
}

// NormalizeFormState maps a client form or merged session payload onto FormValues.
// Both snake_case and the frontend's camelCase names are accepted.
func NormalizeFormState(form map[string]any) FormValues {
	return FormValues{
		Title:           str(form, "title"),
		Description:     str(form, "description"),
		WhatToExpect:    str(form, "what_to_expect", "whatToExpect"),
		Domain:          strings.ToLower(str(form, "domain", "experience_domain")),
		Theme:           str(form, "theme", "experience_theme"),
		Neighborhood:    str(form, "neighborhood"),
		MeetingPoint:    str(form, "meeting_point", "meetingPoint"),
		DurationMinutes: optNum(form, "duration_minutes", "duration"),
		MaxCapacity:     optNum(form, "max_capacity", "maxCapacity", "traveler_max_capacity"),
		PriceINR:        optNum(form, "price_inr", "price"),
		Requirements:    strList(form, "requirements"),
		WhatToBring:     strList(form, "what_to_bring", "whatToBring"),
	}
}

type FieldAnalysis struct {
	Value             any      `json:"value"`
	Status            string   `json:"status"`
	QualityScore      float64  `json:"quality_score"`
	Issues            []string `json:"issues"`
	SuggestionsNeeded bool     `json:"suggestions_needed"`
	WordCount         int      `json:"word_count,omitempty"`
}

type Completion struct {
	Percentage       float64  `json:"percentage"`
	CompletedCount   int      `json:"completed_count"`
	TotalCount       int      `json:"total_count"`
	HighQualityCount int      `json:"high_quality_count"`
	MissingRequired  []string `json:"missing_required"`
}

type ContentPatterns struct {
	HasLocation         bool `json:"has_location"`
	HasPricing          bool `json:"has_pricing"`
	HasSchedule         bool `json:"has_schedule"`
	IsFoodExperience    bool `json:"is_food_experience"`
	IsCultureExperience bool `json:"is_culture_experience"`
}

type Relationships struct {
	TitleDescriptionAlignment string `json:"title_description_alignment"`
	PriceDurationRatio        string `json:"price_duration_ratio"`
}

// FormAnalysis is the structured view of a draft handed to the assistant.
type FormAnalysis struct {
	Fields             map[string]FieldAnalysis `json:"fields"`
	Completion         Completion               `json:"completion"`
	Patterns           ContentPatterns          `json:"patterns"`
	Relationships      Relationships            `json:"relationships"`
	NextPriorityFields []string                 `json:"next_priority_fields"`
	ValidationIssues   []string                 `json:"validation_issues"`
	ExperienceType     string                   `json:"experience_type"`
}

func Analyze(v FormValues) FormAnalysis {
	fields := map[string]FieldAnalysis{
		"title":            analyzeTitle(v.Title),
		"description":      analyzeDescription(v.Description),
		"what_to_expect":   analyzeWhatToExpect(v.WhatToExpect),
		"domain":           simpleField(v.Domain, v.Domain != "", true),
		"theme":            simpleField(v.Theme, v.Theme != "", false),
		"duration_minutes": numberField(v.DurationMinutes, true),
		"price_inr":        numberField(v.PriceINR, true),
		"max_capacity":     numberField(v.MaxCapacity, false),
		"neighborhood":     simpleField(v.Neighborhood, v.Neighborhood != "", true),
		"meeting_point":    simpleField(v.MeetingPoint, v.MeetingPoint != "", true),
	}
	return FormAnalysis{
		Fields:             fields,
		Completion:         completion(fields),
		Patterns:           patterns(v),
		Relationships:      Relationships{TitleDescriptionAlignment: Alignment(v.Title, v.Description), PriceDurationRatio: PriceDurationRatio(v.PriceINR, v.DurationMinutes)},
		NextPriorityFields: priorityFields(fields),
		ValidationIssues:   ValidationIssues(v),
		ExperienceType:     ExperienceType(v),
	}
}

func simpleField(value any, complete, needsSuggestion bool) FieldAnalysis {
	if !complete {
		return FieldAnalysis{Value: "", Status: statusEmpty, Issues: []string{}, SuggestionsNeeded: needsSuggestion}
	}
	return FieldAnalysis{Value: value, Status: statusComplete, QualityScore: 1, Issues: []string{}}
}

func numberField(v *float64, needsSuggestion bool) FieldAnalysis {
	if v == nil || *v == 0 {
		return simpleField(nil, false, needsSuggestion)
	}
	return simpleField(*v, true, false)
}

func analyzeTitle(title string) FieldAnalysis {
	if title == "" {
		return simpleField(nil, false, true)
	}
	n := len([]rune(title))
	fa := FieldAnalysis{Value: title, Status: statusComplete, Issues: []string{}}
	switch {
	case n >= 20 && n <= 80:
		fa.QualityScore = 1
	case (n >= 10 && n < 20) || (n > 80 && n <= 200):
		fa.QualityScore = 0.7
	default:
		fa.QualityScore = 0.4
	}
	if n < 20 {
		fa.Issues = append(fa.Issues, "Title is too short (aim for at least 20 characters)")
		fa.SuggestionsNeeded = true
	}
	if n > 100 {
		fa.Issues = append(fa.Issues, "Title is too long (keep it under 100 characters)")
	}
	return fa
}

func analyzeDescription(desc string) FieldAnalysis {
	if desc == "" {
		return simpleField(nil, false, true)
	}
	words := len(strings.Fields(desc))
	fa := FieldAnalysis{Value: desc, Status: statusComplete, Issues: []string{}, WordCount: words}
	switch {
	case words >= 150 && words <= 300:
		fa.QualityScore = 1
	case (words >= 100 && words < 150) || (words > 300 && words <= 500):
		fa.QualityScore = 0.8
	case words >= 50 && words < 100:
		fa.QualityScore = 0.5
	default:
		fa.QualityScore = 0.3
	}
	if len([]rune(desc)) < 100 {
		fa.Issues = append(fa.Issues, "Description is too brief (minimum 100 characters)")
		fa.SuggestionsNeeded = true
	}
	return fa
}

func analyzeWhatToExpect(s string) FieldAnalysis {
	if s == "" {
		return simpleField(nil, false, true)
	}
	n := len([]rune(s))
	fa := FieldAnalysis{Value: s, Status: statusComplete, Issues: []string{}}
	switch {
	case n >= 50 && n <= 300:
		fa.QualityScore = 1
	case (n >= 30 && n < 50) || (n > 300 && n <= 500):
		fa.QualityScore = 0.7
	default:
		fa.QualityScore = 0.4
	}
	if n < 30 {
		fa.Issues = append(fa.Issues, "What to expect is too short (minimum 30 characters)")
	}
	return fa
}

func completion(fields map[string]FieldAnalysis) Completion {
	c := Completion{TotalCount: len(analysedFields), MissingRequired: []string{}}
	for _, name := range analysedFields {
		f := fields[name]
		if f.Status == statusComplete {
			c.CompletedCount++
		}
		if f.QualityScore >= 0.7 {
			c.HighQualityCount++
		}
	}
	for _, name := range requiredFields {
		if fields[name].Status == statusEmpty {
			c.MissingRequired = append(c.MissingRequired, name)
		}
	}
	c.Percentage = utils.RoundTo(float64(c.CompletedCount)/float64(c.TotalCount)*100, 1)
	return c
}

func patterns(v FormValues) ContentPatterns {
	return ContentPatterns{
		HasLocation:         v.Neighborhood != "" || v.MeetingPoint != "",
		HasPricing:          v.PriceINR != nil && *v.PriceINR > 0,
		HasSchedule:         v.DurationMinutes != nil && *v.DurationMinutes > 0,
		IsFoodExperience:    v.Domain == "food",
		IsCultureExperience: v.Domain == "culture",
	}
}

func priorityFields(fields map[string]FieldAnalysis) []string {
	out := []string{}
	for _, name := range requiredFields {
		if fields[name].Status == statusEmpty {
			out = append(out, name)
		}
	}
	for _, name := range analysedFields {
		f := fields[name]
		if f.Status == statusComplete && f.QualityScore < 0.7 {
			out = append(out, name)
		}
	}
	return out
}

func contentWords(s string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,!?;:'\"()-")
		if w != "" && !stopWords[w] {
			out[w] = true
		}
	}
	return out
}

// Alignment rates how much of the title's vocabulary the description picks up.
func Alignment(title, description string) string {
	if title == "" || description == "" {
		return "unknown"
	}
	tw := contentWords(title)
	if len(tw) == 0 {
		return "unknown"
	}
	dw := contentWords(description)
	common := 0
	for w := range tw {
		if dw[w] {
			common++
		}
	}
	ratio := float64(common) / float64(len(tw))
	switch {
	case ratio >= 0.3:
		return "high"
	case ratio >= 0.1:
		return "medium"
	default:
		return "low"
	}
}

// PriceDurationRatio buckets the hourly rate: under ₹500 low, up to ₹2000 reasonable.
func PriceDurationRatio(price, duration *float64) string {
	if price == nil || duration == nil || *price <= 0 || *duration <= 0 {
		return "unknown"
	}
	perHour := *price / (*duration / 60)
	switch {
	case perHour < 500:
		return "low"
	case perHour <= 2000:
		return "reasonable"
	default:
		return "high"
	}
}

func ValidationIssues(v FormValues) []string {
	issues := []string{}
	if d := v.DurationMinutes; d != nil && (*d < 30 || *d > 480) {
		issues = append(issues, "Duration should be between 30 and 480 minutes")
	}
	if c := v.MaxCapacity; c != nil && (*c < 1 || *c > 4) {
		issues = append(issues, "Group size must be between 1 and 4 travelers")
	}
	if p := v.PriceINR; p != nil && *p <= 0 {
		issues = append(issues, "Price must be greater than zero")
	}
	return issues
}

func ExperienceType(v FormValues) string {
	for _, t := range typeKeywords {
		if v.Domain == t.kind {
			return t.kind
		}
	}
	text := contentWords(strings.Join([]string{v.Domain, v.Theme, v.Title, v.Description}, " "))
	for _, t := range typeKeywords {
		for _, w := range t.words {
			if text[w] {
				return t.kind
			}
		}
	}
	return "general"
}
