package consultation

import (
	"time"

	"github.com/google/uuid"

	"diagnose-me/internal/report"
)

// Consultation is one completed diagnosis request.
type Consultation struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SessionID uuid.UUID `json:"session_id" db:"session_id"`

	// Patient input
	Gender   string `json:"gender" db:"gender"`
	Age      int    `json:"age" db:"age"`
	Symptoms string `json:"symptoms" db:"symptoms"`
	History  string `json:"history" db:"history"`

	// Model output
	Diagnosis string `json:"diagnosis" db:"diagnosis"`
	Treatment string `json:"treatment" db:"treatment"`

	// Report is the composed text the exported document is built from.
	Report string `json:"report" db:"report"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Result is what a patient gets back after asking for a diagnosis.
type Result struct {
	Consultation *Consultation
	Report       string
	Blocks       []report.Block
	Reminders    []string
	MoodTrend    []string
	// Document is nil when the export could not be rendered.
	Document *report.Document
}
