// Package model defines the records exchanged between the case ledger,
// the message cache and the correlation core.
package model

// Case is one collections file from the case ledger. It is read-only for
// the duration of an analysis pass.
type Case struct {
	CaseNumber      string `json:"case_number"`
	AlternateNumber string `json:"alternate_number,omitempty"` // billing system number
	PatientName     string `json:"patient_name"`
	DateOfInjury    string `json:"date_of_injury,omitempty"` // raw ledger text; "2099" years mean unknown
	AttorneyEmail   string `json:"attorney_email,omitempty"`
	LawFirm         string `json:"law_firm,omitempty"`
	Status          string `json:"status,omitempty"`
}

// Message is one cached email.
type Message struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId,omitempty"`
	Date     string `json:"date"` // raw header value, may not parse
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Snippet  string `json:"snippet"`
}

// Direction records whether the operator sent or received a message.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// DirectionClassifier is supplied by the message cache; the core never
// infers direction itself.
type DirectionClassifier interface {
	IsOutbound(msg Message) bool
}

// DirectionFunc adapts a plain function to DirectionClassifier.
type DirectionFunc func(msg Message) bool

func (f DirectionFunc) IsOutbound(msg Message) bool { return f(msg) }

// DirectionOf classifies msg with c.
func DirectionOf(c DirectionClassifier, msg Message) Direction {
	if c.IsOutbound(msg) {
		return DirectionSent
	}
	return DirectionReceived
}
