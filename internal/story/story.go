// Package story reads user story documents from YAML files.
//
// A story file carries everything one pipeline run needs: title,
// description, acceptance criteria, and the QA context string. Batch files
// hold several stories for queued execution.
//
// Single story file:
//
//	id: profile-update
//	title: User updates profile information
//	description: As a user, I want to update my profile.
//	acceptance_criteria:
//	  - User can update their name
//	  - User receives a validation error for an invalid email
//	qa_context: Focus on negative testing.
//
// Batch file:
//
//	stories:
//	  - title: ...
//	  - title: ...
package story

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for story validation.
var (
	// ErrMissingTitle indicates a story without a title.
	ErrMissingTitle = errors.New("story title is required")

	// ErrMissingCriteria indicates a story without acceptance criteria.
	ErrMissingCriteria = errors.New("story needs at least one acceptance criterion")
)

// Story is one user story to run through the pipeline.
type Story struct {
	// ID is an optional stable identifier used to derive the session id.
	// When empty the runner generates one.
	ID string `yaml:"id"`

	// Title is the story title.
	Title string `yaml:"title"`

	// Description is the story narrative.
	Description string `yaml:"description"`

	// AcceptanceCriteria are the ordered acceptance criteria.
	AcceptanceCriteria []string `yaml:"acceptance_criteria"`

	// QAContext describes QA preferences for this story. May be empty; the
	// runner falls back to the configured default context.
	QAContext string `yaml:"qa_context"`
}

// Validate checks that the story can be run.
func (s *Story) Validate() error {
	if s.Title == "" {
		return ErrMissingTitle
	}
	if len(s.AcceptanceCriteria) == 0 {
		return fmt.Errorf("story %q: %w", s.Title, ErrMissingCriteria)
	}
	return nil
}

// batchFile is the on-disk shape of a batch document.
type batchFile struct {
	Stories []Story `yaml:"stories"`
}

// LoadFile reads a single story from a YAML file and validates it.
func LoadFile(path string) (*Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story file: %w", err)
	}

	var s Story
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse story file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadBatch reads a batch of stories from a YAML file and validates each.
//
// Returns an error when the file holds no stories or any story is invalid;
// a batch either loads completely or not at all.
func LoadBatch(path string) ([]Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var batch batchFile
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	if len(batch.Stories) == 0 {
		return nil, fmt.Errorf("batch file %s contains no stories", path)
	}

	for i := range batch.Stories {
		if err := batch.Stories[i].Validate(); err != nil {
			return nil, fmt.Errorf("batch entry %d: %w", i+1, err)
		}
	}
	return batch.Stories, nil
}
