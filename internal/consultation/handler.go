package consultation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"diagnose-me/internal/agent"
	"diagnose-me/internal/document"
	"diagnose-me/internal/medication"
	"diagnose-me/internal/mood"
	"diagnose-me/internal/report"
	"diagnose-me/internal/screening"
	"diagnose-me/internal/session"
)

const (
	sessionCookie = "session_id"
	sessionHeader = "X-Session-ID"

	maxAge = 120
)

var genders = []string{"Male", "Female", "Other"}

// parseGender accepts the intake form's choices in any letter case and
// returns the canonical spelling.
func parseGender(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, g := range genders {
		if strings.EqualFold(s, g) {
			return g, true
		}
	}
	return "", false
}

type Handler struct {
	svc      Service
	sessions *session.Store
}

func NewHandler(svc Service, sessions *session.Store) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

// lookup finds the live session named by the header or cookie.
func (h *Handler) lookup(r *http.Request) (*session.State, bool) {
	raw := r.Header.Get(sessionHeader)
	if raw == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			raw = c.Value
		}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return h.sessions.Get(id)
}

// session is lookup for routes that write session state: when the caller
// has no live session a fresh one is started.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.State {
	if s, ok := h.lookup(r); ok {
		return s
	}

	s := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.ID.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(sessionHeader, s.ID.String())
	return s
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	writeJSON(w, http.StatusOK, map[string]string{"session_id": s.ID.String()})
}

type AddMedicationRequest struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
}

func (h *Handler) AddMedication(w http.ResponseWriter, r *http.Request) {
	var req AddMedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, "Medication name is required", http.StatusBadRequest)
		return
	}

	s := h.session(w, r)
	h.svc.AddMedication(s, name, req.Dosage, medication.ParseFrequency(req.Frequency))
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Added " + name + " to your medications.",
	})
}

func (h *Handler) Reminders(w http.ResponseWriter, r *http.Request) {
	var reminders []string
	if s, ok := h.lookup(r); ok {
		reminders = h.svc.DueReminders(s)
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"reminders": nonNil(reminders),
	})
}

type MoodRequest struct {
	Mood string `json:"mood"`
}

func (h *Handler) RecordMood(w http.ResponseWriter, r *http.Request) {
	var req MoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	label, err := mood.ParseLabel(req.Mood)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := h.session(w, r)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": h.svc.RecordMood(s, label),
	})
}

func (h *Handler) MoodTrend(w http.ResponseWriter, r *http.Request) {
	var trend []string
	if s, ok := h.lookup(r); ok {
		trend = h.svc.MoodTrend(s)
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"trend": nonNil(trend),
	})
}

type ScreeningRequest struct {
	Answers []int `json:"answers"`
}

func (h *Handler) Screening(w http.ResponseWriter, r *http.Request) {
	var req ScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if len(req.Answers) != screening.QuestionCount {
		http.Error(w, "Exactly 5 answers are required", http.StatusBadRequest)
		return
	}
	for _, a := range req.Answers {
		if a < 0 || a > screening.MaxAnswer {
			http.Error(w, "Answers must be between 0 and 5", http.StatusBadRequest)
			return
		}
	}
	writeJSON(w, http.StatusOK, h.svc.Screen(req.Answers))
}

func (h *Handler) ScreeningQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"questions":  screening.Questions,
		"max_answer": screening.MaxAnswer,
	})
}

type documentResponse struct {
	FileName    string `json:"filename"`
	ContentType string `json:"content_type"`
	DataURI     string `json:"data_uri"`
}

type DiagnosisResponse struct {
	ConsultationID string            `json:"consultation_id"`
	Report         string            `json:"report"`
	Blocks         []report.Block    `json:"blocks"`
	Reminders      []string          `json:"reminders"`
	MoodTrend      []string          `json:"mood_trend"`
	Document       *documentResponse `json:"document,omitempty"`
}

func (h *Handler) Diagnose(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, document.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(document.MaxUploadBytes); err != nil {
		http.Error(w, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	age, err := strconv.Atoi(strings.TrimSpace(r.FormValue("age")))
	if err != nil || age < 0 || age > maxAge {
		http.Error(w, "Age must be a number between 0 and 120", http.StatusBadRequest)
		return
	}

	gender, ok := parseGender(r.FormValue("gender"))
	if !ok {
		http.Error(w, "Gender must be one of Male, Female or Other", http.StatusBadRequest)
		return
	}

	in := agent.Intake{
		Gender:       gender,
		Age:          age,
		Symptoms:     r.FormValue("symptoms"),
		History:      r.FormValue("history"),
		DocumentText: readUpload(r),
	}

	s := h.session(w, r)
	res, err := h.svc.Diagnose(r.Context(), s, in)
	if err != nil {
		if e, ok := agent.AsError(err); ok {
			log.Printf("Diagnosis failed: %v", e)
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error": "An error occurred: " + e.Message,
				"kind":  string(e.Kind),
			})
			return
		}
		http.Error(w, "Diagnosis failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := DiagnosisResponse{
		ConsultationID: res.Consultation.ID.String(),
		Report:         res.Report,
		Blocks:         res.Blocks,
		Reminders:      nonNil(res.Reminders),
		MoodTrend:      nonNil(res.MoodTrend),
	}
	if res.Document != nil {
		resp.Document = &documentResponse{
			FileName:    res.Document.FileName,
			ContentType: res.Document.ContentType,
			DataURI:     res.Document.DataURI(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// readUpload returns the text of the optional "file" field. Any problem with
// the upload just means no extra context.
func readUpload(r *http.Request) string {
	file, hdr, err := r.FormFile("file")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			log.Printf("Ignoring upload: %v", err)
		}
		return ""
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(file, document.MaxUploadBytes)); err != nil {
		log.Printf("Ignoring upload %s: %v", hdr.Filename, err)
		return ""
	}
	return document.Extract(hdr.Filename, hdr.Header.Get("Content-Type"), buf.Bytes())
}

func (h *Handler) GetConsultation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid consultation ID", http.StatusBadRequest)
		return
	}
	c, err := h.svc.GetConsultation(r.Context(), id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) ConsultationDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid consultation ID", http.StatusBadRequest)
		return
	}
	doc, err := h.svc.ExportConsultation(r.Context(), id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	w.Write(doc.Data)
}

func writeLookupError(w http.ResponseWriter, err error) {
	if IsNotFound(err) {
		http.Error(w, "Consultation not found", http.StatusNotFound)
		return
	}
	log.Printf("Consultation lookup failed: %v", err)
	http.Error(w, "Failed to load consultation", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/session", h.CreateSession)
	r.Post("/medications", h.AddMedication)
	r.Get("/medications/reminders", h.Reminders)
	r.Post("/mood", h.RecordMood)
	r.Get("/mood/trend", h.MoodTrend)
	r.Get("/screening/questions", h.ScreeningQuestions)
	r.Post("/screening", h.Screening)
	r.Post("/diagnosis", h.Diagnose)
	r.Get("/consultations/{id}", h.GetConsultation)
	r.Get("/consultations/{id}/document", h.ConsultationDocument)
}
