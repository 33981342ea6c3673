package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"tenderly/internal/domain/models"
)

// ErrVersionNotFound is returned when a proposal has no snapshot with the requested version
var ErrVersionNotFound = errors.New("version not found")

// VersionSource lists the snapshots of a proposal. *client.Client implements it.
type VersionSource interface {
	ListVersions(ctx context.Context, proposalID string) ([]models.VersionSnapshot, error)
}

// History browses the snapshots of one proposal
type History struct {
	source     VersionSource
	proposalID string
}

// NewHistory creates a history viewer for proposalID
func NewHistory(source VersionSource, proposalID string) *History {
	return &History{source: source, proposalID: proposalID}
}

// List returns the snapshots ordered by version ascending
func (h *History) List(ctx context.Context) ([]models.VersionSnapshot, error) {
	versions, err := h.source.ListVersions(ctx, h.proposalID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].Version < versions[j].Version
	})
	return versions, nil
}

// Preview returns one snapshot without touching any session
func (h *History) Preview(ctx context.Context, version int) (*models.VersionSnapshot, error) {
	versions, err := h.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range versions {
		if versions[i].Version == version {
			return &versions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrVersionNotFound, version)
}

// Restore copies a snapshot into the session buffer and marks it dirty.
// Nothing is persisted here; the next autosave or SaveNow commits it.
func (h *History) Restore(ctx context.Context, session *Session, version int) (*models.VersionSnapshot, error) {
	snapshot, err := h.Preview(ctx, version)
	if err != nil {
		return nil, err
	}
	if err := session.Edit(snapshot.Content); err != nil {
		return nil, err
	}
	return snapshot, nil
}
