package memory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk shape of a memory seed document.
type seedFile struct {
	Examples []Example `yaml:"examples"`
}

// LoadSeed reads past-run examples from a YAML file.
//
// Seed files stand in for the memory a long-running process would accumulate
// across stories, letting a fresh process condition generation on earlier
// work. Expected shape:
//
//	examples:
//	  - story_id: sess-42
//	    title: User updates profile information
//	    acceptance_criteria:
//	      - User can update their name
//	    qa_context: Focus on negative testing.
//
// Returns an error if the file cannot be read or parsed.
func LoadSeed(path string) ([]Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read memory seed: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse memory seed: %w", err)
	}

	return seed.Examples, nil
}

// SeedFromFile loads a seed file and appends every example to m.
//
// Returns the number of examples loaded.
func (m *Memory) SeedFromFile(path string) (int, error) {
	examples, err := LoadSeed(path)
	if err != nil {
		return 0, err
	}
	for _, ex := range examples {
		m.SaveExample(ex)
	}
	return len(examples), nil
}
