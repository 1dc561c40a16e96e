package curated

import (
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

//go:embed seed.toml
var seedData []byte

type seedFile struct {
	Entries []domain.CuratedEntry `toml:"entry"`
}

// Seed decodes the embedded baseline table.
func Seed() ([]domain.CuratedEntry, error) {
	return parseSeed(seedData)
}

func parseSeed(data []byte) ([]domain.CuratedEntry, error) {
	var file seedFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode curated seed: %w", err)
	}
	if len(file.Entries) == 0 {
		return nil, fmt.Errorf("curated seed has no entries")
	}
	return file.Entries, nil
}
