package app

import (
	"timed-quiz/internal/domain"
)

// Snapshot returns a renderer-ready copy of the machine state.
func (m *Machine) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Score counts questions whose recorded option equals the correct answer.
func (m *Machine) Score() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return 0
	}
	return m.session.score()
}

// Review lists every session question in order. Correct answers and
// outcomes stay hidden until the session is submitted.
func (m *Machine) Review() []domain.ReviewItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reviewLocked()
}

// Report builds the export tuple stream. It never fails: a missing or
// partial session yields zero or partial rows.
func (m *Machine) Report() domain.Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	report := domain.Report{
		Name:  m.participant.FullName,
		Phone: m.participant.PhoneNumber,
		Rows:  []domain.ReportRow{},
	}
	s := m.session
	if s == nil {
		report.CompletedAt = m.now()
		return report
	}
	report.SessionID = s.id
	report.Score = s.score()
	report.Total = len(s.questions)
	report.CompletedAt = s.completedAt
	if report.CompletedAt.IsZero() {
		report.CompletedAt = m.now()
	}
	for i, q := range s.questions {
		answer, ok := s.answers[q.ID]
		row := domain.ReportRow{
			Number:   i + 1,
			Category: q.Category,
			Question: q.Text,
			Answer:   domain.NoAnswer,
			Correct:  q.Answer,
			Passed:   ok && answer == q.Answer,
		}
		if ok {
			row.Answer = answer
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}

// Subscribe returns a channel receiving a snapshot after every change.
// The current snapshot is delivered first. Cancel is idempotent.
func (m *Machine) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	m.subscribers[ch] = struct{}{}
	ch <- m.snapshotLocked()
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		if _, ok := m.subscribers[ch]; ok {
			delete(m.subscribers, ch)
			close(ch)
		}
		m.mu.Unlock()
	}
	return ch, cancel
}

func (m *Machine) broadcastLocked() {
	if len(m.subscribers) == 0 {
		return
	}
	snap := m.snapshotLocked()
	for ch := range m.subscribers {
		select {
		case ch <- snap:
		default:
			// Slow reader: replace the oldest pending snapshot.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (m *Machine) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		State:       m.state,
		Participant: m.participant,
		CanConfirm:  m.canConfirmLocked(),
		CanStart:    m.state == domain.StateCategorySelect && len(m.enabledLocked()) > 0,
		Remaining:   m.total,
	}
	for _, c := range m.categories {
		snap.Categories = append(snap.Categories, domain.CategoryToggle{Name: c, Enabled: m.selection[c]})
	}

	if s := m.session; s != nil && m.hasSessionLocked() {
		snap.SessionID = s.id
		snap.Index = s.index
		snap.Total = len(s.questions)
		snap.NoQuestions = len(s.questions) == 0
		snap.HasPrev = s.index > 0
		snap.HasNext = s.index < len(s.questions)-1
		snap.Remaining = s.remaining
		snap.Submitted = s.submitted

		if !snap.NoQuestions {
			q := s.questions[s.index]
			snap.Current = &domain.QuestionView{
				ID:       q.ID,
				Category: q.Category,
				Text:     q.Text,
				Options:  append([]string(nil), q.Options...),
				Selected: s.answers[q.ID],
			}
		}
		snap.Palette = make([]domain.PaletteEntry, len(s.questions))
		for i, q := range s.questions {
			snap.Palette[i] = domain.PaletteEntry{Number: i + 1, Status: s.paletteStatus(i, q)}
		}
		if s.submitted {
			snap.Score = s.score()
			snap.Review = m.reviewLocked()
		}
	}
	snap.RemainingText = FormatClock(snap.Remaining)
	return snap
}

func (m *Machine) reviewLocked() []domain.ReviewItem {
	s := m.session
	if s == nil {
		return nil
	}
	items := make([]domain.ReviewItem, 0, len(s.questions))
	for i, q := range s.questions {
		answer, ok := s.answers[q.ID]
		item := domain.ReviewItem{
			Number:   i + 1,
			ID:       q.ID,
			Category: q.Category,
			Question: q.Text,
			Answer:   domain.NoAnswer,
			Answered: ok,
		}
		if ok {
			item.Answer = answer
		}
		if s.submitted {
			item.Correct = q.Answer
			item.Passed = ok && answer == q.Answer
		}
		items = append(items, item)
	}
	return items
}

func (s *session) paletteStatus(i int, q domain.Question) string {
	answer, ok := s.answers[q.ID]
	if s.submitted {
		switch {
		case !ok:
			return domain.PaletteUnanswered
		case answer == q.Answer:
			return domain.PalettePassed
		default:
			return domain.PaletteFailed
		}
	}
	if i == s.index {
		return domain.PaletteCurrent
	}
	if ok {
		return domain.PaletteAnswered
	}
	return domain.PaletteUnanswered
}
