// Package seed loads the demo fixture (tenders, company profile and
// historical attestations) embedded in the binary and writes it to a record store.
package seed

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"tenderly/internal/domain/models"
	"tenderly/internal/domain/repositories"
)

//go:embed data/*.yaml
var dataFiles embed.FS

// Fixture is the decoded demo data set
type Fixture struct {
	Tenders      []models.Tender       `yaml:"tenders"`
	Company      models.CompanyProfile `yaml:"company"`
	Attestations []models.Attestation  `yaml:"attestations"`
}

// Load decodes the embedded fixture files
func Load() (*Fixture, error) {
	var f Fixture
	for _, name := range []string{"tenders", "company", "attestations"} {
		if err := loadFile(name, &f); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

func loadFile(name string, into *Fixture) error {
	filename := fmt.Sprintf("data/%s.yaml", name)
	data, err := dataFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	return nil
}

// Stores groups the repositories a fixture is written to
type Stores struct {
	Tenders      repositories.TenderRepository
	Company      repositories.CompanyRepository
	Attestations repositories.AttestationRepository
}

// Apply writes tenders always. When demo is true it also fills an empty
// company profile and adds the historical attestations not yet present.
func Apply(ctx context.Context, f *Fixture, stores Stores, demo bool, logger *slog.Logger) error {
	for i := range f.Tenders {
		if err := stores.Tenders.Upsert(ctx, &f.Tenders[i]); err != nil {
			return fmt.Errorf("seed tender %s: %w", f.Tenders[i].ID, err)
		}
	}

	if !demo {
		logger.Info("seed applied", "tenders", len(f.Tenders), "demo", false)
		return nil
	}

	current, err := stores.Company.Get(ctx)
	if err != nil {
		return fmt.Errorf("get company profile: %w", err)
	}
	if current.Name == "" {
		company := f.Company
		if err := stores.Company.Save(ctx, &company); err != nil {
			return fmt.Errorf("seed company profile: %w", err)
		}
	}

	existing, err := stores.Attestations.List(ctx)
	if err != nil {
		return fmt.Errorf("list attestations: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, a := range existing {
		seen[a.ID] = true
	}

	added := 0
	for i := range f.Attestations {
		if seen[f.Attestations[i].ID] {
			continue
		}
		if err := stores.Attestations.Create(ctx, &f.Attestations[i]); err != nil {
			return fmt.Errorf("seed attestation %s: %w", f.Attestations[i].ID, err)
		}
		added++
	}

	logger.Info("seed applied",
		"tenders", len(f.Tenders),
		"demo", true,
		"attestations_added", added,
	)
	return nil
}
