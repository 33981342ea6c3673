package models

// EligibilityItem is one tender requirement and whether the company meets it
type EligibilityItem struct {
	Requirement string `json:"requirement" yaml:"requirement"`
	Eligible    bool   `json:"eligible" yaml:"eligible"`
}

// VoiceSummary is the result of the text-to-speech adapter
type VoiceSummary struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}
