package assist

import (
	"fmt"
	"strings"

	"tenderly/internal/domain/models"
	"tenderly/internal/llm"
)

// Generation parameters per operation
var (
	summaryParams     = llm.Request{MaxTokens: 300, Temperature: llm.Float(0.3)}
	eligibilityParams = llm.Request{MaxTokens: 500, Temperature: llm.Float(0.5)}
	draftParams       = llm.Request{MaxTokens: 1500, Temperature: llm.Float(0.7)}
)

func withPrompt(params llm.Request, prompt string) *llm.Request {
	params.Prompt = prompt
	return &params
}

func summaryPrompt(t *models.Tender) string {
	return fmt.Sprintf("Please summarize the following tender in 3-4 sentences, focusing on the key points and requirements.\n\n"+
		"Tender Title: \"%s\"\nTender Description: \"%s\"", t.Title, t.Description)
}

func eligibilityPrompt(t *models.Tender, p *models.CompanyProfile) string {
	tenderText := fmt.Sprintf("Title: %s\nDescription: %s", t.Title, t.Description)
	profileText := fmt.Sprintf("Name: %s\nRegistration Number: %s\nCertifications: %s\nExperience: %s",
		p.Name, p.RegistrationNumber, joinOr(p.Certifications, "None"), p.Experience)

	return "Determine if the company is eligible for the tender. List key requirements from the tender and whether the company meets each.\n\n" +
		"Tender Details:\n" + tenderText + "\n\n" +
		"Company Profile:\n" + profileText + "\n\n" +
		`Provide the answer as a JSON array of objects with "requirement" and "eligible" fields. Example: [{"requirement": "5+ years experience", "eligible": true}]`
}

func draftPrompt(t *models.Tender, p *models.CompanyProfile) string {
	return "You are a professional proposal writer. Write a compelling proposal for the following tender, highlighting the company's qualifications and addressing the tender requirements.\n\n" +
		fmt.Sprintf("Tender:\nTitle: %s\nDescription: %s\n\n", t.Title, t.Description) +
		fmt.Sprintf("Company:\nName: %s\nCertifications: %s\nExperience: %s\n\n", p.Name, joinOr(p.Certifications, "None"), p.Experience) +
		"The proposal should be well-structured with sections like Executive Summary, Company Overview, Approach, and Conclusion. Use a professional tone and format it with markdown headers."
}

// joinOr joins items with ", " or returns fallback when the result is empty
func joinOr(items []string, fallback string) string {
	joined := strings.Join(items, ", ")
	if joined == "" {
		return fallback
	}
	return joined
}
