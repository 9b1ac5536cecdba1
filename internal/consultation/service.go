package consultation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"diagnose-me/internal/agent"
	"diagnose-me/internal/medication"
	"diagnose-me/internal/mood"
	"diagnose-me/internal/report"
	"diagnose-me/internal/screening"
	"diagnose-me/internal/session"
)

// Pipeline produces the diagnosis and treatment texts.
type Pipeline interface {
	Run(ctx context.Context, in agent.Intake) (agent.Plan, error)
}

// ReportService exports report text and forwards it to the doctor.
type ReportService interface {
	Export(text string) (report.Document, error)
	SendDoctorReport(ctx context.Context, consultationID string, doc report.Document) error
}

type ScreeningResult struct {
	Risk   screening.Risk `json:"risk"`
	Score  int            `json:"score"`
	Advice string         `json:"advice,omitempty"`
}

type Service interface {
	AddMedication(sess *session.State, name, dosage string, freq medication.Frequency)
	DueReminders(sess *session.State) []string
	RecordMood(sess *session.State, label mood.Label) string
	MoodTrend(sess *session.State) []string
	Screen(answers []int) ScreeningResult

	Diagnose(ctx context.Context, sess *session.State, in agent.Intake) (*Result, error)
	GetConsultation(ctx context.Context, id uuid.UUID) (*Consultation, error)
	ExportConsultation(ctx context.Context, id uuid.UUID) (report.Document, error)
}

type service struct {
	repo      Repository
	pipeline  Pipeline
	reportSvc ReportService
	now       func() time.Time
}

func NewService(repo Repository, pipeline Pipeline, reports ReportService, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      repo,
		pipeline:  pipeline,
		reportSvc: reports,
		now:       now,
	}
}

func (s *service) AddMedication(sess *session.State, name, dosage string, freq medication.Frequency) {
	sess.Do(func(st *session.State) {
		st.Medications.Add(name, dosage, freq)
	})
}

func (s *service) DueReminders(sess *session.State) []string {
	var out []string
	sess.Do(func(st *session.State) {
		out = st.Medications.DueReminders(st.Now())
	})
	return out
}

func (s *service) RecordMood(sess *session.State, label mood.Label) string {
	var msg string
	sess.Do(func(st *session.State) {
		msg = st.Moods.Record(label, st.Now())
	})
	return msg
}

func (s *service) MoodTrend(sess *session.State) []string {
	var out []string
	sess.Do(func(st *session.State) {
		out = st.Moods.Trend()
	})
	return out
}

func (s *service) Screen(answers []int) ScreeningResult {
	risk, score := screening.Classify(answers)
	return ScreeningResult{Risk: risk, Score: score, Advice: screening.Advice(risk)}
}

// Diagnose runs the model pipeline and, only once it has succeeded, reads the
// session's reminders and mood trend into the report. A failed model call
// leaves the session untouched.
func (s *service) Diagnose(ctx context.Context, sess *session.State, in agent.Intake) (*Result, error) {
	plan, err := s.pipeline.Run(ctx, in)
	if err != nil {
		return nil, err
	}

	var reminders, trend []string
	sess.Do(func(st *session.State) {
		reminders = st.Medications.DueReminders(st.Now())
		trend = st.Moods.Trend()
	})

	text := report.Compose(report.Sections{
		Diagnosis: plan.Diagnosis,
		Treatment: plan.Treatment,
		Reminders: reminders,
		MoodTrend: trend,
	})

	c := &Consultation{
		ID:        uuid.New(),
		SessionID: sess.ID,
		Gender:    in.Gender,
		Age:       in.Age,
		Symptoms:  in.Symptoms,
		History:   in.History,
		Diagnosis: plan.Diagnosis,
		Treatment: plan.Treatment,
		Report:    text,
		CreatedAt: s.now(),
	}
	if err := s.repo.Save(ctx, c); err != nil {
		log.Printf("Failed to save consultation %s: %v", c.ID, err)
	}

	res := &Result{
		Consultation: c,
		Report:       text,
		Blocks:       report.Parse(text),
		Reminders:    reminders,
		MoodTrend:    trend,
	}

	doc, err := s.reportSvc.Export(text)
	if err != nil {
		log.Printf("Failed to export consultation %s: %v", c.ID, err)
		return res, nil
	}
	res.Document = &doc

	if err := s.reportSvc.SendDoctorReport(ctx, c.ID.String(), doc); err != nil {
		log.Printf("Failed to send report: %v", err)
	}
	return res, nil
}

func (s *service) GetConsultation(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ExportConsultation(ctx context.Context, id uuid.UUID) (report.Document, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return report.Document{}, err
	}
	doc, err := s.reportSvc.Export(c.Report)
	if err != nil {
		return report.Document{}, fmt.Errorf("export consultation %s: %w", id, err)
	}
	return doc, nil
}

// IsNotFound reports whether err means the consultation does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
