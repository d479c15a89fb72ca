package domain

import "errors"

var (
	// ErrInvalidName is returned when the participant name is empty.
	ErrInvalidName = errors.New("full name is required")
	// ErrInvalidPhone is returned when the phone number is not exactly 10 digits.
	ErrInvalidPhone = errors.New("phone number must be exactly 10 digits")
	// ErrNoCategory is returned when a session is started with every category disabled.
	ErrNoCategory = errors.New("select at least one category")
	// ErrUnknownCategory indicates a toggle for a category the gate does not offer.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrWrongState is returned when an intent is not allowed in the current state.
	ErrWrongState = errors.New("intent not allowed in current state")
	// ErrQuestionNotFound indicates an answer referenced a question outside the session.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a submitted option is not one of the question's options.
	ErrOptionNotFound = errors.New("option not found")
	// ErrIndexOutOfRange indicates a jump past either end of the session.
	ErrIndexOutOfRange = errors.New("question index out of range")
	// ErrInvalidQuestion marks a bank question that breaks its invariants.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
)
