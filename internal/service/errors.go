package service

import "errors"

var (
	// ErrEmptyText is returned when a session or parse request carries
	// no receipt text.
	ErrEmptyText = errors.New("receipt text is required")

	// ErrNoParticipants is returned when a split is requested for a
	// session with no people.
	ErrNoParticipants = errors.New("session has no participants")

	// ErrNotParticipant is returned when an owner assignment or split
	// references a person that is not in the session.
	ErrNotParticipant = errors.New("person is not a session participant")

	// ErrItemNotFound is returned when an owner assignment references
	// an unknown line item.
	ErrItemNotFound = errors.New("line item not found")

	// ErrMissingVPA is returned when a payment link is requested for a
	// person without a payment address.
	ErrMissingVPA = errors.New("person has no payment address")

	// ErrForbidden is returned when a session belongs to another user.
	ErrForbidden = errors.New("session belongs to another user")
)
