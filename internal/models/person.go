package models

// Person is someone splitting a bill within a session.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string `json:"id"`

	// Name is the display name shown on the assignment screen.
	Name string `json:"name"`

	// VPA is the person's UPI payment handle (e.g. "name@bank").
	// Optional; required only to generate a payment link for them.
	VPA string `json:"vpa,omitempty"`
}
