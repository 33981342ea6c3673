package config

const (
	// MaxProposalContentLength bounds a single draft body (bytes).
	// Request bodies are capped at 10MB; a proposal is far smaller in practice.
	MaxProposalContentLength = 1 << 20

	// MaxCompanyFieldLength bounds the short company profile fields.
	MaxCompanyFieldLength = 255

	// MaxCompanyExperienceLength bounds the free-text experience narrative.
	MaxCompanyExperienceLength = 10000

	// MaxCertifications bounds the certification list.
	MaxCertifications = 50
)
