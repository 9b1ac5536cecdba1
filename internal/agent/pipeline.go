package agent

import (
	"context"
	"fmt"
	"strings"
)

const (
	StageDiagnosis = "diagnosis"
	StageTreatment = "treatment"
)

const diagnosticianSystem = `You are a Medical Diagnostician, experienced in diagnosing conditions from patient-reported symptoms and medical history.
Analyze the patient information and provide a detailed, step-by-step preliminary diagnosis grounded in the research notes.
Format the answer for a patient: use "# " and "## " headings and keep paragraphs short.`

const treatmentSystem = `You are a Treatment Advisor who creates treatment plans tailored to each patient.
Recommend a comprehensive treatment plan based on the diagnosis, symptoms, medical history and any uploaded documents.
Format the answer for a patient: use "# " and "## " headings and keep paragraphs short.`

// Intake is what the patient submitted.
type Intake struct {
	Gender       string
	Age          int
	Symptoms     string
	History      string
	DocumentText string
}

// Plan is the model's answer, one text per stage.
type Plan struct {
	Diagnosis string
	Treatment string
}

// Pipeline runs the diagnostician and then the treatment advisor. The second
// stage sees the first stage's output; nothing else is shared.
type Pipeline struct {
	llm    Completer
	search Searcher
}

func NewPipeline(llm Completer, search Searcher) *Pipeline {
	return &Pipeline{llm: llm, search: search}
}

func (p *Pipeline) Run(ctx context.Context, in Intake) (Plan, error) {
	research, err := p.search.Search(ctx, searchQuery(in))
	if err != nil {
		return Plan{}, withStage(err, StageDiagnosis)
	}

	diagnosis, err := p.llm.Complete(ctx, diagnosticianSystem, diagnosisPrompt(in, research))
	if err != nil {
		return Plan{}, withStage(err, StageDiagnosis)
	}

	treatment, err := p.llm.Complete(ctx, treatmentSystem, treatmentPrompt(in, diagnosis))
	if err != nil {
		return Plan{}, withStage(err, StageTreatment)
	}

	return Plan{Diagnosis: diagnosis, Treatment: treatment}, nil
}

func withStage(err error, stage string) error {
	if e, ok := AsError(err); ok {
		e.Stage = stage
		return e
	}
	return &Error{Kind: KindCompletion, Stage: stage, Message: "The consultation could not be completed", Err: err}
}

func searchQuery(in Intake) string {
	q := strings.Join(strings.Fields(in.Symptoms), " ")
	if q == "" {
		return ""
	}
	return q + " possible causes and treatment"
}

func patientBlock(in Intake) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Gender: %s\n", in.Gender)
	fmt.Fprintf(&b, "Age: %d\n", in.Age)
	fmt.Fprintf(&b, "Symptoms: %s\n", strings.TrimSpace(in.Symptoms))
	fmt.Fprintf(&b, "Medical history: %s\n", strings.TrimSpace(in.History))
	if doc := strings.TrimSpace(in.DocumentText); doc != "" {
		fmt.Fprintf(&b, "Additional information from uploaded file:\n%s\n", doc)
	}
	return b.String()
}

func diagnosisPrompt(in Intake, research string) string {
	var b strings.Builder
	b.WriteString(patientBlock(in))
	if research != "" {
		b.WriteString("\nResearch notes from a web search:\n")
		b.WriteString(research)
		b.WriteString("\n")
	}
	b.WriteString("\nProvide a preliminary diagnosis.")
	return b.String()
}

func treatmentPrompt(in Intake, diagnosis string) string {
	var b strings.Builder
	b.WriteString(patientBlock(in))
	b.WriteString("\nPreliminary diagnosis:\n")
	b.WriteString(diagnosis)
	b.WriteString("\n\nRecommend a treatment plan.")
	return b.String()
}
