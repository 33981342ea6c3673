package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ProposalStatus is the lifecycle state of a proposal
type ProposalStatus string

const (
	ProposalStatusDraft     ProposalStatus = "draft"
	ProposalStatusSubmitted ProposalStatus = "submitted"
)

// Proposal is a company's bid document against a tender.
// Content is opaque markdown-like text; only drafts accept edits.
type Proposal struct {
	ID          string         `json:"id" db:"id"`
	TenderID    string         `json:"tenderId" db:"tender_id"`
	TenderTitle string         `json:"tenderTitle" db:"tender_title"` // Snapshot at creation time
	Content     string         `json:"content" db:"content"`
	Status      ProposalStatus `json:"status" db:"status"`
	Version     int            `json:"version" db:"version"`
	TxID        *string        `json:"txId,omitempty" db:"tx_id"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
	SubmittedAt *time.Time     `json:"submittedAt,omitempty" db:"submitted_at"`
}

// IsSubmitted reports whether the proposal has passed the submission gate
func (p *Proposal) IsSubmitted() bool {
	return p.Status == ProposalStatusSubmitted
}

// VersionSnapshot is an immutable copy of a proposal's content.
type VersionSnapshot struct {
	ID          string    `json:"id" db:"id"`
	ProposalID  string    `json:"proposalId" db:"proposal_id"`
	Version     int       `json:"version" db:"version"`
	Content     string    `json:"content" db:"content"`
	ContentHash string    `json:"contentHash" db:"content_hash"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// HashContent returns the hex sha256 used to detect content changes between snapshots
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
