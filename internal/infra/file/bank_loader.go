package file

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"timed-quiz/internal/config"
	"timed-quiz/internal/domain"
)

// BankLoader reads a question bank document from disk. JSON documents are
// accepted as-is since they are valid YAML.
type BankLoader struct {
	path string
}

func NewBankLoader(path string) *BankLoader {
	return &BankLoader{path: path}
}

type bankDocument struct {
	Settings struct {
		TotalTime string `yaml:"totalTime"`
	} `yaml:"settings"`
	Questions []questionDocument `yaml:"questions"`
}

type questionDocument struct {
	ID       scalarString `yaml:"id"`
	Category string       `yaml:"category"`
	Question string       `yaml:"question"`
	Options  []string     `yaml:"options"`
	Answer   string       `yaml:"answer"`
}

// scalarString accepts numeric and string ids alike.
type scalarString string

func (s *scalarString) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: id must be a scalar", n.Line)
	}
	*s = scalarString(n.Value)
	return nil
}

func (l *BankLoader) LoadBank(_ context.Context) (domain.Bank, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Bank{}, fmt.Errorf("%w: %s", domain.ErrBankNotFound, l.path)
		}
		return domain.Bank{}, fmt.Errorf("read bank: %w", err)
	}
	return ParseBank(data)
}

// ParseBank decodes a bank document and validates every question.
func ParseBank(data []byte) (domain.Bank, error) {
	var doc bankDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Bank{}, fmt.Errorf("parse bank: %w", err)
	}

	total, ok := config.ParseClock(doc.Settings.TotalTime)
	if !ok {
		log.Printf("bank totalTime %q is not HH:MM:SS, using %s", doc.Settings.TotalTime, config.DefaultTotalTime)
		total = config.ClockDuration(config.DefaultTotalTime)
	}

	bank := domain.Bank{
		Settings:  domain.Settings{TotalTime: total},
		Questions: make([]domain.Question, 0, len(doc.Questions)),
	}
	seen := make(map[string]struct{}, len(doc.Questions))
	for i, q := range doc.Questions {
		question := domain.Question{
			ID:       string(q.ID),
			Category: q.Category,
			Text:     q.Question,
			Options:  q.Options,
			Answer:   q.Answer,
		}
		if err := question.Validate(); err != nil {
			return domain.Bank{}, fmt.Errorf("question %d (%q): %w", i, question.ID, err)
		}
		if _, dup := seen[question.ID]; dup {
			return domain.Bank{}, fmt.Errorf("question %d: duplicate id %q: %w", i, question.ID, domain.ErrInvalidQuestion)
		}
		seen[question.ID] = struct{}{}
		bank.Questions = append(bank.Questions, question)
	}
	return bank, nil
}
