package assist

import (
	"fmt"
	"strings"

	"tenderly/internal/domain/models"
)

// offlineSummary is the canned summary used without a text generator
func offlineSummary(t *models.Tender) string {
	return fmt.Sprintf("This tender from %s seeks qualified contractors for %s. ", t.Agency, strings.ToLower(t.Title)) +
		fmt.Sprintf("The project involves comprehensive %s services with specific certification and experience requirements. ", strings.ToLower(t.Category)) +
		"Successful bidders must demonstrate relevant expertise and meet all technical specifications outlined in the tender documentation."
}

// offlineEligibility returns the canned checklist for the tender's category
func offlineEligibility(t *models.Tender) []models.EligibilityItem {
	switch t.Category {
	case models.CategoryConstruction:
		return []models.EligibilityItem{
			{Requirement: "Minimum 10 years experience in commercial construction", Eligible: true},
			{Requirement: "ISO 9001:2015 Quality Management certification", Eligible: true},
			{Requirement: "Valid contractor license Grade A", Eligible: false},
			{Requirement: "Previous experience with government projects", Eligible: true},
			{Requirement: "Safety certification (OHSAS 18001 or equivalent)", Eligible: true},
		}
	case models.CategoryITServices:
		return []models.EligibilityItem{
			{Requirement: "Cloud architecture certification (AWS/Azure)", Eligible: false},
			{Requirement: "ISO 27001 Information Security certification", Eligible: false},
			{Requirement: "Minimum 5 years experience in large-scale IT projects", Eligible: true},
			{Requirement: "Proven expertise in government sector IT solutions", Eligible: true},
			{Requirement: "Local presence with certified technical staff", Eligible: true},
		}
	default:
		return []models.EligibilityItem{
			{Requirement: "Relevant industry experience and certifications", Eligible: true},
			{Requirement: "Financial capacity and technical capabilities", Eligible: true},
			{Requirement: "Compliance with regulatory requirements", Eligible: false},
		}
	}
}

// offlineDraft renders the canned proposal body from the tender and profile
func offlineDraft(t *models.Tender, p *models.CompanyProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Proposal for %s\n\n", t.Title)
	b.WriteString("## Executive Summary\n\n")
	b.WriteString("Dear Sir/Madam,\n\n")
	fmt.Fprintf(&b, "%s is pleased to submit our proposal for \"%s\" as advertised by %s. ", p.Name, t.Title, t.Agency)
	fmt.Fprintf(&b, "With our extensive experience in %s and proven track record of successful project delivery, ", strings.ToLower(t.Category))
	b.WriteString("we are confident in our ability to meet and exceed all requirements outlined in this tender.\n\n")
	b.WriteString("## Company Overview\n\n")
	fmt.Fprintf(&b, "%s\n\n", p.Experience)
	b.WriteString("## Our Approach\n\n")
	b.WriteString("We propose a comprehensive approach that addresses all technical requirements while ensuring quality, ")
	b.WriteString("timeline adherence, and cost-effectiveness. Our methodology includes:\n\n")
	b.WriteString("- Detailed project planning and risk assessment\n")
	b.WriteString("- Quality assurance and compliance with all standards\n")
	b.WriteString("- Regular progress reporting and stakeholder communication\n")
	b.WriteString("- Post-implementation support and maintenance\n\n")
	b.WriteString("## Qualifications\n\n")
	fmt.Fprintf(&b, "Our certifications include: %s\n\n", joinOr(p.Certifications, "Various industry certifications"))
	b.WriteString("## Conclusion\n\n")
	fmt.Fprintf(&b, "We look forward to the opportunity to discuss our proposal in detail and demonstrate how %s ", p.Name)
	b.WriteString("can deliver exceptional value for this important project.\n\n")
	b.WriteString("Sincerely,\n")
	fmt.Fprintf(&b, "%s Team\n\n", p.Name)
	b.WriteString("*(This is a mock proposal generated for testing purposes)*")

	return b.String()
}
