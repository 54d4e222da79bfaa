package manifest

import (
	"encoding/json"
	"os"
	"time"
)

// FileName is the manifest's name inside the export directory.
const FileName = "augset.manifest.json"

// New creates an empty manifest with defaults.
func New(profileName string) *Manifest {
	return &Manifest{
		Version:     1,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		BasePath:    "./",
		Assets:      make(map[string]Asset),
	}
}

// ComputeStats recalculates aggregate statistics from assets.
// CollisionRetries is left alone; it is accumulated by the pipeline.
func (m *Manifest) ComputeStats() {
	retries := m.Stats.CollisionRetries
	var s Stats
	s.TotalSources = len(m.Assets)
	for _, a := range m.Assets {
		s.TotalInputBytes += a.Original.Size
		s.TotalVariants += len(a.Variants)
		for _, v := range a.Variants {
			s.TotalOutputBytes += v.Size
		}
	}
	s.CollisionRetries = retries
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
