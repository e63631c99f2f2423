// Package prompt composes personalized system prompts around user messages.
package prompt

import (
	"fmt"
	"strings"

	"github.com/GeorgeMakridis/humaine-chatbot/internal/profile"
)

const contextPlaceholder = "{personalization_context}"

// baseTemplates keys are user types. Each template embeds the
// personalization clause at the placeholder.
var baseTemplates = map[string]string{
	"general": "You are a helpful AI assistant. " + contextPlaceholder +
		" Respond to the user's message in a way that matches their communication preferences.",
	"technical": "You are a technical AI assistant with deep engineering knowledge. " + contextPlaceholder +
		" Give precise, technically accurate answers and include concrete examples where useful.",
	"casual": "You are a friendly AI companion. " + contextPlaceholder +
		" Keep the conversation relaxed and approachable.",
	"professional": "You are a professional AI consultant. " + contextPlaceholder +
		" Maintain a businesslike register and focus on actionable answers.",
	"educational": "You are an AI tutor. " + contextPlaceholder +
		" Teach rather than just answer: build on what the user already knows and check understanding.",
}

// domainContexts add subject-matter framing on top of the base template.
var domainContexts = map[string]string{
	"finance":    "The conversation concerns financial topics; be precise with figures and avoid speculative advice.",
	"healthcare": "The conversation concerns health topics; be accurate, measured, and recommend professional consultation where appropriate.",
	"education":  "The conversation concerns learning material; structure answers so they can be followed step by step.",
	"technology": "The conversation concerns software and technology; prefer concrete, current technical detail.",
	"general":    "",
}

var complexityFragments = map[string]string{
	"simple":  "Use simple, everyday vocabulary and explain things step by step.",
	"medium":  "Use standard vocabulary and keep explanations balanced.",
	"complex": "Use advanced vocabulary where appropriate and provide comprehensive explanations.",
}

var styleFragments = map[string]string{
	"conversational": "Keep a friendly, casual tone.",
	"professional":   "Keep a formal, precise tone.",
	"enthusiastic":   "Keep an upbeat, energetic tone.",
	"balanced":       "Keep a neutral, approachable tone.",
}

var detailFragments = map[string]string{
	"concise":  "Keep responses short and to the point.",
	"medium":   "Provide a moderate amount of detail.",
	"detailed": "Provide thorough, comprehensive responses.",
}

var engagementFragments = map[string]string{
	"high": "The user engages deeply, so longer explorations are welcome.",
	"low":  "The user tends to disengage quickly, so lead with the key point.",
}

// Manager composes enriched prompts from templates and personalization
// parameters. Stateless; safe for concurrent use.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Enrich wraps message in the personalized system prompt for p. The result
// is always strictly longer than the original message.
func (m *Manager) Enrich(message string, p profile.Params) string {
	return m.EnrichForDomain(message, p.Domain, p)
}

// EnrichForDomain is Enrich with an explicit domain override.
func (m *Manager) EnrichForDomain(message, domain string, p profile.Params) string {
	system := m.systemPrompt(domain, p)
	return system + "\n\nUser: " + message + "\n\nAssistant:"
}

func (m *Manager) systemPrompt(domain string, p profile.Params) string {
	tpl, ok := baseTemplates[p.UserType]
	if !ok {
		tpl = baseTemplates["general"]
	}
	system := strings.Replace(tpl, contextPlaceholder, m.personalizationClause(p), 1)

	if dc, ok := domainContexts[domain]; ok && dc != "" {
		system += " " + dc
	}
	return system
}

// personalizationClause renders the preference fragments as one clause.
func (m *Manager) personalizationClause(p profile.Params) string {
	var parts []string

	if f, ok := complexityFragments[p.LanguageComplexity]; ok {
		parts = append(parts, f)
	} else {
		parts = append(parts, complexityFragments["medium"])
	}
	if f, ok := styleFragments[p.ResponseStyle]; ok {
		parts = append(parts, f)
	} else {
		parts = append(parts, styleFragments["balanced"])
	}
	if f, ok := detailFragments[p.DetailLevel]; ok {
		parts = append(parts, f)
	} else {
		parts = append(parts, detailFragments["medium"])
	}
	if f, ok := engagementFragments[p.EngagementLevel]; ok {
		parts = append(parts, f)
	}
	if p.SentimentPreference == "positive" {
		parts = append(parts, "Keep the framing encouraging.")
	}

	return strings.Join(parts, " ")
}

// Turn is one prior exchange in a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// WithConversationContext appends up to the last five turns of history to an
// already enriched prompt.
func (m *Manager) WithConversationContext(enriched string, history []Turn) string {
	if len(history) == 0 {
		return enriched
	}
	if len(history) > 5 {
		history = history[len(history)-5:]
	}

	var b strings.Builder
	b.WriteString("Recent conversation:\n")
	for _, t := range history {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
	}
	b.WriteString("\n")
	b.WriteString(enriched)
	return b.String()
}

// FeedbackPrompt asks the model to adjust after explicit user feedback.
func (m *Manager) FeedbackPrompt(feedback string, p profile.Params) string {
	return fmt.Sprintf(
		"The user gave the following feedback on your previous answer: %q. %s Revise your approach accordingly.",
		feedback, m.personalizationClause(p),
	)
}

// ErrorRecoveryPrompt rebuilds context after a failed generation.
func (m *Manager) ErrorRecoveryPrompt(errorContext string, p profile.Params) string {
	return fmt.Sprintf(
		"The previous attempt to answer failed (%s). Apologize briefly, then answer as well as you can. %s",
		errorContext, m.personalizationClause(p),
	)
}

// EnrichmentStats quantifies how much context enrichment added.
type EnrichmentStats struct {
	OriginalLength int     `json:"original_length"`
	EnrichedLength int     `json:"enriched_length"`
	Ratio          float64 `json:"enrichment_ratio"`
}

// Stats compares an original message with its enriched prompt.
func Stats(original, enriched string) EnrichmentStats {
	s := EnrichmentStats{
		OriginalLength: len(original),
		EnrichedLength: len(enriched),
	}
	if s.OriginalLength > 0 {
		s.Ratio = float64(s.EnrichedLength) / float64(s.OriginalLength)
	}
	return s
}
