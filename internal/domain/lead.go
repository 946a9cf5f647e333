package domain

import "time"

// Lead is an email capture expressing interest in an event's tickets
type Lead struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Consent   bool      `json:"consent"`
	EventID   string    `json:"eventId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsDirect reports whether the lead was captured without an event
func (l *Lead) IsDirect() bool {
	return l.EventID == ""
}

// LeadEventRef is the resolved event reference of a listed lead
type LeadEventRef struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

// LeadWithEvent is a lead with its event reference resolved.
// Event is nil for direct leads and for leads whose event no longer exists.
type LeadWithEvent struct {
	ID        string        `json:"_id"`
	Email     string        `json:"email"`
	Consent   bool          `json:"consent"`
	Event     *LeadEventRef `json:"eventId"`
	CreatedAt time.Time     `json:"createdAt"`
}
