package models

// Tender is a published procurement opportunity. Tenders are reference data:
// they are loaded from the seed fixture and never mutated by the application.
type Tender struct {
	ID          string `json:"id" db:"id" yaml:"id"`
	Title       string `json:"title" db:"title" yaml:"title"`
	Agency      string `json:"agency" db:"agency" yaml:"agency"`
	Description string `json:"description" db:"description" yaml:"description"`
	Category    string `json:"category" db:"category" yaml:"category"`
	ClosingDate string `json:"closingDate" db:"closing_date" yaml:"closingDate"` // YYYY-MM-DD
	IsNew       bool   `json:"isNew" db:"is_new" yaml:"isNew"`
}

// Known tender categories with dedicated offline eligibility checklists
const (
	CategoryConstruction = "Construction"
	CategoryITServices   = "IT Services"
	CategoryHealthcare   = "Healthcare"
)
