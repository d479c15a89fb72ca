package domain

import "time"

// Default categories offered at the category gate, in display order.
var DefaultCategories = []string{"Easy", "Medium", "Hard"}

// NoAnswer is shown for questions the participant left unanswered.
const NoAnswer = "No Answer"

// Question models an MCQ question whose Answer equals one of its Options.
type Question struct {
	ID       string   `json:"id" yaml:"id"`
	Category string   `json:"category" yaml:"category"`
	Text     string   `json:"question" yaml:"question"`
	Options  []string `json:"options" yaml:"options"`
	Answer   string   `json:"answer" yaml:"answer"`
}

// HasOption reports whether option is one of the question's options.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Validate checks the invariants a bank question must hold.
func (q Question) Validate() error {
	if q.ID == "" || q.Text == "" || len(q.Options) == 0 {
		return ErrInvalidQuestion
	}
	if !q.HasOption(q.Answer) {
		return ErrInvalidQuestion
	}
	return nil
}

// Settings holds session-wide configuration loaded with the bank.
type Settings struct {
	TotalTime time.Duration `json:"totalTime"`
}

// Bank is the static question collection plus its settings.
type Bank struct {
	Settings  Settings   `json:"settings"`
	Questions []Question `json:"questions"`
}

// Categories returns the default categories followed by any extra
// category found in the bank, without duplicates.
func (b Bank) Categories() []string {
	seen := make(map[string]struct{}, len(DefaultCategories))
	out := make([]string, 0, len(DefaultCategories))
	for _, c := range DefaultCategories {
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for _, q := range b.Questions {
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}
	return out
}

// Participant identifies the person taking the quiz.
type Participant struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

// CategoryToggle is one entry of the category gate.
type CategoryToggle struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// ReviewItem is the post-submission outcome of one question.
type ReviewItem struct {
	Number   int    `json:"number"`
	ID       string `json:"id"`
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Answered bool   `json:"answered"`
	Correct  string `json:"correct,omitempty"` // empty until submitted
	Passed   bool   `json:"passed"`
}

// ReportRow is one line of an exported report.
type ReportRow struct {
	Number   int    `json:"number"`
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Correct  string `json:"correct"`
	Passed   bool   `json:"passed"`
}

// Report is what exporters and archives consume.
type Report struct {
	SessionID   string      `json:"sessionId"`
	Name        string      `json:"name"`
	Phone       string      `json:"phone"`
	Score       int         `json:"score"`
	Total       int         `json:"total"`
	CompletedAt time.Time   `json:"completedAt"`
	Rows        []ReportRow `json:"rows"`
}
