package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeLLM struct {
	replies []string
	errAt   int
	prompts []string
}

func (f *fakeLLM) Complete(_ context.Context, _, user string) (string, error) {
	f.prompts = append(f.prompts, user)
	n := len(f.prompts)
	if n == f.errAt {
		return "", &Error{Kind: KindCompletion, Message: "The language model request failed", Err: errors.New("503")}
	}
	return f.replies[n-1], nil
}

type fakeSearch struct {
	result string
	err    error
	query  string
}

func (f *fakeSearch) Search(_ context.Context, q string) (string, error) {
	f.query = q
	return f.result, f.err
}

var intake = Intake{
	Gender:       "Female",
	Age:          34,
	Symptoms:     "fever,  sore throat",
	History:      "asthma",
	DocumentText: "CRP 40 mg/L",
}

func TestPipeline_ChainsStages(t *testing.T) {
	llm := &fakeLLM{replies: []string{"# Strep throat likely", "## Antibiotics"}}
	search := &fakeSearch{result: "- Strep: bacterial infection (https://example.org)"}

	plan, err := NewPipeline(llm, search).Run(context.Background(), intake)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if plan.Diagnosis != "# Strep throat likely" || plan.Treatment != "## Antibiotics" {
		t.Fatalf("plan=%+v", plan)
	}
	if search.query != "fever, sore throat possible causes and treatment" {
		t.Fatalf("query=%q", search.query)
	}
	if len(llm.prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(llm.prompts))
	}
	first, second := llm.prompts[0], llm.prompts[1]
	for _, want := range []string{"Gender: Female", "Age: 34", "asthma", "CRP 40 mg/L", "Strep: bacterial infection"} {
		if !strings.Contains(first, want) {
			t.Fatalf("diagnosis prompt missing %q:\n%s", want, first)
		}
	}
	if !strings.Contains(second, "# Strep throat likely") {
		t.Fatalf("treatment prompt does not carry diagnosis:\n%s", second)
	}
}

func TestPipeline_DiagnosisFailureSkipsTreatment(t *testing.T) {
	llm := &fakeLLM{replies: []string{"", ""}, errAt: 1}
	_, err := NewPipeline(llm, &fakeSearch{}).Run(context.Background(), intake)

	e, ok := AsError(err)
	if !ok || e.Kind != KindCompletion || e.Stage != StageDiagnosis {
		t.Fatalf("err=%v", err)
	}
	if len(llm.prompts) != 1 {
		t.Fatalf("treatment stage should not run, prompts=%d", len(llm.prompts))
	}
}

func TestPipeline_TreatmentFailure(t *testing.T) {
	llm := &fakeLLM{replies: []string{"dx", ""}, errAt: 2}
	_, err := NewPipeline(llm, &fakeSearch{}).Run(context.Background(), intake)
	if e, ok := AsError(err); !ok || e.Stage != StageTreatment {
		t.Fatalf("err=%v", err)
	}
}

func TestPipeline_SearchFailure(t *testing.T) {
	llm := &fakeLLM{}
	search := &fakeSearch{err: &Error{Kind: KindSearch, Message: "The web search request failed"}}
	_, err := NewPipeline(llm, search).Run(context.Background(), intake)
	if e, ok := AsError(err); !ok || e.Kind != KindSearch {
		t.Fatalf("err=%v", err)
	}
	if len(llm.prompts) != 0 {
		t.Fatalf("llm should not be called after search failure")
	}
}

func TestPipeline_PlainErrorIsWrapped(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	_, err := NewPipeline(&fakeLLM{}, &fakeSearch{err: cause}).Run(context.Background(), intake)
	e, ok := AsError(err)
	if !ok || e.Stage != StageDiagnosis || !errors.Is(err, cause) {
		t.Fatalf("err=%v", err)
	}
}

func TestPipeline_BadSearchEndpointIsSearchError(t *testing.T) {
	llm := &fakeLLM{replies: []string{"dx", "tx"}}
	_, err := NewPipeline(llm, NewSerperClient("k", "://no-scheme")).Run(context.Background(), intake)
	e, ok := AsError(err)
	if !ok || e.Kind != KindSearch {
		t.Fatalf("err=%v", err)
	}
	if len(llm.prompts) != 0 {
		t.Fatalf("model should not be called when search cannot run")
	}
}
