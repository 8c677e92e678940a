package models

// Session is one in-flight bill: the captured text, the parsed receipt,
// and the people splitting it. The service layer owns and serializes all
// mutation; the parser and splitter only ever see immutable snapshots.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string `json:"id"`

	// UserID is the account that created the session.
	UserID string `json:"user_id"`

	// RawText is the OCR text the receipt was parsed from.
	RawText string `json:"raw_text"`

	// Receipt is the parsed receipt. Owner assignments mutate the
	// items in place via the session service.
	Receipt *ReceiptData `json:"receipt"`

	// People are the participants added to this session.
	People []Person `json:"people"`

	// CreatedAt is the Unix timestamp when the session was created.
	CreatedAt int64 `json:"created_at"`
}

// PersonIDs returns the identifiers of all people in the session,
// in insertion order.
func (s *Session) PersonIDs() []string {
	ids := make([]string, len(s.People))
	for i, p := range s.People {
		ids[i] = p.ID
	}
	return ids
}

// Person returns the person with the given ID, or nil.
func (s *Session) Person(id string) *Person {
	for i := range s.People {
		if s.People[i].ID == id {
			return &s.People[i]
		}
	}
	return nil
}
