package profile

// Params is the personalization parameter bag handed to the prompt layer
// and the LLM client. The first three fields come from the profile; the
// rest are optional per-request overrides.
type Params struct {
	LanguageComplexity string `json:"language_complexity"`
	ResponseStyle      string `json:"response_style"`
	DetailLevel        string `json:"detail_level"`

	UserType            string `json:"user_type,omitempty"`
	Domain              string `json:"domain,omitempty"`
	EngagementLevel     string `json:"engagement_level,omitempty"`
	SentimentPreference string `json:"sentiment_preference,omitempty"`
}

// DefaultParams is used when no profile is available.
func DefaultParams() Params {
	return Params{
		LanguageComplexity: "medium",
		ResponseStyle:      "balanced",
		DetailLevel:        "medium",
	}
}

// Params derives the parameter bag from a profile, falling back to defaults
// for any unset preference.
func (p *Profile) Params() Params {
	if p == nil {
		return DefaultParams()
	}
	out := DefaultParams()
	if p.PreferredLanguageComplexity != "" {
		out.LanguageComplexity = string(p.PreferredLanguageComplexity)
	}
	if p.PreferredResponseStyle != "" {
		out.ResponseStyle = string(p.PreferredResponseStyle)
	}
	if p.PreferredDetailLevel != "" {
		out.DetailLevel = string(p.PreferredDetailLevel)
	}
	if ins := p.CrossSessionInsights; ins != nil && ins.Patterns.Engagement.Level != "" {
		out.EngagementLevel = ins.Patterns.Engagement.Level
	}
	return out
}
