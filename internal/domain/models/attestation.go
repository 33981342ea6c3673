package models

import "time"

// Attestation records that a proposal was submitted, carrying the
// transaction identifier returned by the attestation issuer.
type Attestation struct {
	ID          string    `json:"id" db:"id" yaml:"id"`
	ProposalID  string    `json:"proposalId,omitempty" db:"proposal_id" yaml:"proposalId"`
	TenderTitle string    `json:"tenderTitle" db:"tender_title" yaml:"tenderTitle"`
	Agency      string    `json:"agency" db:"agency" yaml:"agency"`
	SubmittedAt time.Time `json:"submittedAt" db:"submitted_at" yaml:"submittedAt"`
	TxID        string    `json:"txId" db:"tx_id" yaml:"txId"`
	Status      string    `json:"status" db:"status" yaml:"status"`
}
