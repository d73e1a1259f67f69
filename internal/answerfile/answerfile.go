// Package answerfile reads and writes answer sets as YAML, the format used by
// export, import and watch.
package answerfile

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/locale"
)

// File is one exported answer set.
type File struct {
	Language   string                    `yaml:"language"`
	Session    string                    `yaml:"session,omitempty"`
	ExportedAt time.Time                 `yaml:"exported_at,omitempty"`
	Answers    map[int]assessment.Answer `yaml:"answers"`
}

// New builds a File from an answer set.
func New(lang, sessionID string, answers *assessment.Answers, at time.Time) *File {
	return &File{
		Language:   lang,
		Session:    sessionID,
		ExportedAt: at.UTC().Truncate(time.Second),
		Answers:    answers.Map(),
	}
}

// Parse decodes and validates YAML answer data. A missing language selects
// the default.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding answers: %w", err)
	}
	b, err := locale.Get(f.Language)
	if err != nil {
		return nil, err
	}
	f.Language = b.Lang()
	if _, err := f.AnswerSet(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Read parses the answer file at path.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// AnswerSet validates the answers against the question catalog.
func (f *File) AnswerSet() (*assessment.Answers, error) {
	catalog := assessment.StructureCatalog()
	for id := range f.Answers {
		if !catalog.Contains(id) {
			return nil, fmt.Errorf("question %d: %w", id, assessment.ErrUnknownQuestion)
		}
	}
	return assessment.AnswersFromMap(f.Answers)
}

// Marshal encodes the file as YAML.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes the file to path.
func (f *File) Write(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
