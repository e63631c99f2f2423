package llm

import "github.com/GeorgeMakridis/humaine-chatbot/internal/profile"

// ModelParams are the generation knobs derived from personalization
// parameters.
type ModelParams struct {
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

const maxTokenCeiling = 2000

// DeriveModelParams maps the personalization bag onto token and temperature
// settings. Detail level sets the budget, complex language widens it, and
// response style sets the temperature.
func DeriveModelParams(p profile.Params) ModelParams {
	mp := ModelParams{MaxTokens: 1000, Temperature: 0.7}

	switch p.DetailLevel {
	case "concise":
		mp.MaxTokens = 500
	case "detailed":
		mp.MaxTokens = 1500
	}

	if p.LanguageComplexity == "complex" {
		mp.MaxTokens += 200
		if mp.MaxTokens > maxTokenCeiling {
			mp.MaxTokens = maxTokenCeiling
		}
	}

	switch p.ResponseStyle {
	case "conversational":
		mp.Temperature = 0.8
	case "professional":
		mp.Temperature = 0.5
	case "enthusiastic":
		mp.Temperature = 0.9
	}

	return mp
}
