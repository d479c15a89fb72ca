package domain

// State is a node of the quiz flow.
type State string

const (
	StateIntake         State = "intake"
	StateCategorySelect State = "categorySelect"
	StateInProgress     State = "inProgress"
	StateSubmitted      State = "submitted"
)

// Palette statuses, mirroring how a question button is drawn.
const (
	PaletteCurrent    = "current"
	PaletteAnswered   = "answered"
	PaletteUnanswered = "unanswered"
	PalettePassed     = "passed"
	PaletteFailed     = "failed"
)

// QuestionView is the renderer-facing form of the current question.
// It never carries the correct answer.
type QuestionView struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Text     string   `json:"question"`
	Options  []string `json:"options"`
	Selected string   `json:"selected,omitempty"`
}

// PaletteEntry describes one button of the question palette.
type PaletteEntry struct {
	Number int    `json:"number"`
	Status string `json:"status"`
}

// Snapshot is an immutable copy of everything a renderer needs to draw.
type Snapshot struct {
	SessionID   string           `json:"sessionId,omitempty"`
	State       State            `json:"state"`
	Participant Participant      `json:"participant"`
	Categories  []CategoryToggle `json:"categories"`
	CanConfirm  bool             `json:"canConfirm"`
	CanStart    bool             `json:"canStart"`

	Index       int            `json:"index"`
	Total       int            `json:"total"`
	NoQuestions bool           `json:"noQuestions"`
	Current     *QuestionView  `json:"current,omitempty"`
	Palette     []PaletteEntry `json:"palette,omitempty"`
	HasPrev     bool           `json:"hasPrev"`
	HasNext     bool           `json:"hasNext"`

	Remaining     int    `json:"remaining"`
	RemainingText string `json:"remainingText"`
	Submitted     bool   `json:"submitted"`

	Score  int          `json:"score"`
	Review []ReviewItem `json:"review,omitempty"`
}
