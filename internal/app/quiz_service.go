package app

import (
	"context"
	"errors"
	"log"

	"timed-quiz/internal/domain"
)

// MachineRegistry abstracts where live machines are tracked (in-memory, Redis, etc).
type MachineRegistry interface {
	Put(clientID string, m *Machine)
	Get(clientID string) (*Machine, bool)
	Delete(clientID string)
}

// BankRepository loads the question bank (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context) (domain.Bank, error)
}

// ReportArchive keeps exported reports somewhere outside the process.
type ReportArchive interface {
	Archive(ctx context.Context, report domain.Report) error
}

// MultiArchive fans a report out to several archives.
type MultiArchive []ReportArchive

func (a MultiArchive) Archive(ctx context.Context, report domain.Report) error {
	var errs []error
	for _, archive := range a {
		if err := archive.Archive(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// QuizService wires machines to the bank, archive and event sink shared by
// every renderer.
type QuizService struct {
	machines MachineRegistry
	bank     BankRepository
	archive  ReportArchive
	events   EventSink
	opts     []Option
}

// NewQuizService builds a service. archive and events may be nil.
func NewQuizService(machines MachineRegistry, bank BankRepository, archive ReportArchive, events EventSink, opts ...Option) *QuizService {
	if events != nil {
		opts = append(opts, WithEventSink(events))
	}
	return &QuizService{
		machines: machines,
		bank:     bank,
		archive:  archive,
		events:   events,
		opts:     opts,
	}
}

// Bank returns the question bank new machines are built from.
func (s *QuizService) Bank(ctx context.Context) (domain.Bank, error) {
	return s.bank.GetBank(ctx)
}

// Open creates a fresh machine for clientID, replacing any previous one.
func (s *QuizService) Open(ctx context.Context, clientID string) (*Machine, error) {
	bank, err := s.bank.GetBank(ctx)
	if err != nil {
		return nil, err
	}
	if old, ok := s.machines.Get(clientID); ok {
		old.Close()
	}
	m := NewMachine(bank, s.opts...)
	s.machines.Put(clientID, m)
	return m, nil
}

// Get returns the live machine for clientID.
func (s *QuizService) Get(clientID string) (*Machine, bool) {
	return s.machines.Get(clientID)
}

// Close stops the machine for clientID and forgets it.
func (s *QuizService) Close(clientID string) {
	m, ok := s.machines.Get(clientID)
	if !ok {
		return
	}
	m.Close()
	s.machines.Delete(clientID)
}

// Finish returns the report of a submitted session and hands it to the
// archive. Archive failures are logged, not returned.
func (s *QuizService) Finish(ctx context.Context, m *Machine) (domain.Report, error) {
	if m.State() != domain.StateSubmitted {
		return domain.Report{}, domain.ErrWrongState
	}
	report := m.Report()
	if s.archive != nil {
		if err := s.archive.Archive(ctx, report); err != nil {
			log.Printf("archive report %s: %v", report.SessionID, err)
		}
	}
	if s.events != nil {
		s.events.Emit(Event{
			Kind:        EventReportExported,
			SessionID:   report.SessionID,
			Participant: domain.Participant{FullName: report.Name, PhoneNumber: report.Phone},
			Score:       report.Score,
			Total:       report.Total,
			Time:        report.CompletedAt,
		})
	}
	return report, nil
}
