package assist

import (
	"encoding/json"
	"regexp"

	"tenderly/internal/domain/models"
)

// jsonArray matches from the first '[' to the last ']' across lines
var jsonArray = regexp.MustCompile(`(?s)\[.*\]`)

var (
	// used when the model output contains no JSON array
	genericEligibility = []models.EligibilityItem{
		{Requirement: "General eligibility requirements", Eligible: true},
		{Requirement: "Technical and financial capabilities", Eligible: true},
	}

	// used when the JSON array does not parse
	verificationEligibility = []models.EligibilityItem{
		{Requirement: "Company meets basic tender requirements", Eligible: true},
		{Requirement: "Additional verification may be required", Eligible: false},
	}
)

// parseEligibility extracts the checklist from model output. It never fails;
// the second return value reports whether the model output was used.
func parseEligibility(text string) ([]models.EligibilityItem, bool) {
	match := jsonArray.FindString(text)
	if match == "" {
		return cloneItems(genericEligibility), false
	}

	var items []models.EligibilityItem
	if err := json.Unmarshal([]byte(match), &items); err != nil {
		return cloneItems(verificationEligibility), false
	}
	if items == nil {
		items = []models.EligibilityItem{}
	}
	return items, true
}

func cloneItems(items []models.EligibilityItem) []models.EligibilityItem {
	return append([]models.EligibilityItem(nil), items...)
}
