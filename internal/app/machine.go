package app

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"timed-quiz/internal/domain"
)

// DefaultTickPeriod is one countdown unit.
const DefaultTickPeriod = time.Second

// Event kinds emitted to an EventSink.
const (
	EventSessionStarted   = "session_started"
	EventSessionSubmitted = "session_submitted"
	EventSessionExpired   = "session_expired"
	EventSessionRetried   = "session_retried"
	EventReportExported   = "report_exported"
)

// Event describes a lifecycle change of a quiz session.
type Event struct {
	Kind        string
	SessionID   string
	Participant domain.Participant
	Categories  []string
	Score       int
	Total       int
	Remaining   int
	Time        time.Time
}

// EventSink receives session lifecycle events. Emit must not block.
type EventSink interface {
	Emit(Event)
}

// Option configures a Machine.
type Option func(*Machine)

// WithScheduler replaces the ticker used for the countdown.
func WithScheduler(s Scheduler) Option {
	return func(m *Machine) { m.sched = s }
}

// WithTickPeriod changes the length of one countdown unit.
func WithTickPeriod(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.period = d
		}
	}
}

// WithRand sets the source used to shuffle questions.
func WithRand(rnd *rand.Rand) Option {
	return func(m *Machine) { m.rnd = rnd }
}

// WithClock overrides time.Now for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithEventSink attaches a lifecycle event sink.
func WithEventSink(sink EventSink) Option {
	return func(m *Machine) { m.events = sink }
}

// Machine owns one participant's quiz flow: intake, category gate, the
// live session and its countdown. All intents and ticks are serialized.
type Machine struct {
	bank       domain.Bank
	categories []string
	total      int

	sched  Scheduler
	period time.Duration
	rnd    *rand.Rand
	now    func() time.Time
	events EventSink

	mu          sync.Mutex
	state       domain.State
	participant domain.Participant
	selection   map[string]bool
	session     *session
	gen         uint64
	stopTimer   func()
	closed      bool
	subscribers map[chan domain.Snapshot]struct{}
}

// session is the mutable record of one attempt.
type session struct {
	id          string
	gen         uint64
	questions   []domain.Question
	index       int
	answers     map[string]string
	submitted   bool
	remaining   int
	completedAt time.Time
}

// NewMachine returns a Machine in the intake state for the given bank.
func NewMachine(bank domain.Bank, opts ...Option) *Machine {
	m := &Machine{
		bank:        bank,
		categories:  bank.Categories(),
		total:       wholeSeconds(bank.Settings.TotalTime),
		sched:       TickerScheduler{},
		period:      DefaultTickPeriod,
		now:         time.Now,
		subscribers: make(map[chan domain.Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rnd == nil {
		m.rnd = rand.New(rand.NewSource(m.now().UnixNano()))
	}
	m.resetLocked()
	return m
}

// State returns the current flow state.
func (m *Machine) State() domain.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetName updates the pending full name.
func (m *Machine) SetName(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != domain.StateIntake {
		return domain.ErrWrongState
	}
	m.participant.FullName = name
	m.broadcastLocked()
	return nil
}

// SetPhone updates the pending phone number. Values that are not a prefix
// of a valid phone number are rejected and the previous value is kept.
func (m *Machine) SetPhone(phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != domain.StateIntake {
		return domain.ErrWrongState
	}
	if !AcceptPhoneInput(phone) {
		return domain.ErrInvalidPhone
	}
	m.participant.PhoneNumber = phone
	m.broadcastLocked()
	return nil
}

// CanConfirmIntake reports whether the confirm control should be enabled.
func (m *Machine) CanConfirmIntake() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canConfirmLocked()
}

func (m *Machine) canConfirmLocked() bool {
	return m.state == domain.StateIntake && ValidName(m.participant.FullName) && m.participant.PhoneNumber != ""
}

// ConfirmIntake releases the participant to category selection.
func (m *Machine) ConfirmIntake() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != domain.StateIntake {
		return domain.ErrWrongState
	}
	if !ValidName(m.participant.FullName) {
		return domain.ErrInvalidName
	}
	if !ValidPhone(m.participant.PhoneNumber) {
		return domain.ErrInvalidPhone
	}
	m.state = domain.StateCategorySelect
	m.broadcastLocked()
	return nil
}

// ToggleCategory flips one category of the gate.
func (m *Machine) ToggleCategory(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	on, ok := m.selection[name]
	if !ok {
		return domain.ErrUnknownCategory
	}
	return m.setCategoryLocked(name, !on)
}

// SetCategory enables or disables one category of the gate.
func (m *Machine) SetCategory(name string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.selection[name]; !ok {
		return domain.ErrUnknownCategory
	}
	return m.setCategoryLocked(name, enabled)
}

func (m *Machine) setCategoryLocked(name string, enabled bool) error {
	if m.state != domain.StateCategorySelect {
		return domain.ErrWrongState
	}
	m.selection[name] = enabled
	m.broadcastLocked()
	return nil
}

// CanStart reports whether at least one category is enabled.
func (m *Machine) CanStart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == domain.StateCategorySelect && len(m.enabledLocked()) > 0
}

func (m *Machine) enabledLocked() []string {
	out := make([]string, 0, len(m.categories))
	for _, c := range m.categories {
		if m.selection[c] {
			out = append(out, c)
		}
	}
	return out
}

// Start draws a shuffled session from the enabled categories and starts
// the countdown.
func (m *Machine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != domain.StateCategorySelect {
		return domain.ErrWrongState
	}
	enabled := m.enabledLocked()
	if len(enabled) == 0 {
		return domain.ErrNoCategory
	}

	include := make(map[string]struct{}, len(enabled))
	for _, c := range enabled {
		include[c] = struct{}{}
	}
	questions := make([]domain.Question, 0, len(m.bank.Questions))
	for _, q := range m.bank.Questions {
		if _, ok := include[q.Category]; ok {
			questions = append(questions, q)
		}
	}
	m.rnd.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	m.stopTimerLocked()
	m.gen++
	m.session = &session{
		id:        uuid.NewString(),
		gen:       m.gen,
		questions: questions,
		answers:   make(map[string]string),
		remaining: m.total,
	}
	m.state = domain.StateInProgress
	// An empty session has nothing to time; it waits for an explicit submit.
	if len(questions) > 0 {
		gen := m.gen
		m.stopTimer = m.sched.Every(m.period, func() { m.tick(gen) })
	}
	m.emitLocked(EventSessionStarted, enabled)
	m.broadcastLocked()
	return nil
}

// SelectAnswer records or overwrites the option chosen for a question.
func (m *Machine) SelectAnswer(questionID, option string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != domain.StateInProgress || m.session.submitted {
		return domain.ErrWrongState
	}
	q, ok := m.session.question(questionID)
	if !ok {
		return domain.ErrQuestionNotFound
	}
	if !q.HasOption(option) {
		return domain.ErrOptionNotFound
	}
	m.session.answers[questionID] = option
	m.broadcastLocked()
	return nil
}

// Navigate moves the current index by delta, clamped to the session bounds.
// It works identically while in progress and in review.
func (m *Machine) Navigate(delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasSessionLocked() {
		return domain.ErrWrongState
	}
	s := m.session
	next := s.index + delta
	if next > len(s.questions)-1 {
		next = len(s.questions) - 1
	}
	if next < 0 {
		next = 0
	}
	if next != s.index {
		s.index = next
		m.broadcastLocked()
	}
	return nil
}

// Next is Navigate(+1).
func (m *Machine) Next() error { return m.Navigate(1) }

// Prev is Navigate(-1).
func (m *Machine) Prev() error { return m.Navigate(-1) }

// Jump moves directly to the question at index.
func (m *Machine) Jump(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasSessionLocked() {
		return domain.ErrWrongState
	}
	if index < 0 || index >= len(m.session.questions) {
		return domain.ErrIndexOutOfRange
	}
	m.session.index = index
	m.broadcastLocked()
	return nil
}

// Submit ends the session at the participant's request.
func (m *Machine) Submit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != domain.StateInProgress {
		return domain.ErrWrongState
	}
	m.submitLocked(EventSessionSubmitted)
	m.broadcastLocked()
	return nil
}

// Retry discards the submitted session and all intake state.
func (m *Machine) Retry() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != domain.StateSubmitted {
		return domain.ErrWrongState
	}
	m.emitLocked(EventSessionRetried, nil)
	m.resetLocked()
	m.broadcastLocked()
	return nil
}

// Close stops the countdown and releases every subscriber.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
	m.gen++
	if m.closed {
		return
	}
	m.closed = true
	for ch := range m.subscribers {
		delete(m.subscribers, ch)
		close(ch)
	}
}

func (m *Machine) tick(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session
	if gen != m.gen || s == nil || s.gen != gen || s.submitted || m.state != domain.StateInProgress {
		return
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		m.submitLocked(EventSessionExpired)
	}
	m.broadcastLocked()
}

func (m *Machine) submitLocked(kind string) {
	m.stopTimerLocked()
	m.session.submitted = true
	m.session.completedAt = m.now()
	m.state = domain.StateSubmitted
	m.emitLocked(kind, nil)
}

func (m *Machine) stopTimerLocked() {
	if m.stopTimer != nil {
		m.stopTimer()
		m.stopTimer = nil
	}
}

func (m *Machine) resetLocked() {
	m.stopTimerLocked()
	m.gen++
	m.state = domain.StateIntake
	m.participant = domain.Participant{}
	m.session = nil
	m.selection = make(map[string]bool, len(m.categories))
	for _, c := range m.categories {
		m.selection[c] = true
	}
}

func (m *Machine) hasSessionLocked() bool {
	return m.session != nil && (m.state == domain.StateInProgress || m.state == domain.StateSubmitted)
}

func (m *Machine) emitLocked(kind string, categories []string) {
	if m.events == nil {
		return
	}
	ev := Event{
		Kind:        kind,
		Participant: m.participant,
		Categories:  categories,
		Remaining:   m.total,
		Time:        m.now(),
	}
	if s := m.session; s != nil {
		ev.SessionID = s.id
		ev.Score = s.score()
		ev.Total = len(s.questions)
		ev.Remaining = s.remaining
	}
	m.events.Emit(ev)
}

func (s *session) question(id string) (domain.Question, bool) {
	for _, q := range s.questions {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}

func (s *session) score() int {
	score := 0
	for _, q := range s.questions {
		if a, ok := s.answers[q.ID]; ok && a == q.Answer {
			score++
		}
	}
	return score
}
