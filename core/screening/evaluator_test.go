package screening

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"
)

type testGenerator struct {
	response string
	err      error

	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (g *testGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	g.model, g.contents, g.config = model, contents, config
	if g.err != nil {
		return nil, g.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: g.response}}},
		}},
	}, nil
}

func TestEvaluateSendsCVWithSchema(t *testing.T) {
	generator := &testGenerator{response: `{
		"candidateName": " Priya Raman ",
		"phoneNumber": "+91 98765 43210",
		"matchScore": 78,
		"strengths": ["Go", "Postgres"],
		"weaknesses": ["Kafka"],
		"recommendation": "Worth a call.",
		"action": "interview"
	}`}
	evaluator := NewEvaluator(generator)

	evaluation, err := evaluator.Evaluate(context.Background(),
		CV{FileName: "priya.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1.7")},
		Role{Title: "Backend Engineer", Requirements: "Go, Postgres, Kafka"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if evaluation.CandidateName != "Priya Raman" || evaluation.MatchScore != 78 || evaluation.Action != ActionInterview {
		t.Fatalf("unexpected evaluation %+v", evaluation)
	}
	if !evaluation.ShouldInterview() {
		t.Fatalf("expected candidate to be interviewed")
	}

	if generator.model != DefaultModel {
		t.Fatalf("expected model %q, got %q", DefaultModel, generator.model)
	}
	if generator.config.Temperature == nil || *generator.config.Temperature != DefaultTemperature {
		t.Fatalf("expected temperature %v", DefaultTemperature)
	}
	if generator.config.ResponseMIMEType != "application/json" || generator.config.ResponseJsonSchema == nil {
		t.Fatalf("expected structured json response")
	}

	parts := generator.contents[0].Parts
	if len(parts) != 2 || !strings.Contains(parts[0].Text, "Go, Postgres, Kafka") {
		t.Fatalf("expected prompt with role requirements")
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MIMEType != "application/pdf" {
		t.Fatalf("expected cv as inline pdf data")
	}
}

func TestEvaluateNormalizesModelOutput(t *testing.T) {
	generator := &testGenerator{response: `{"candidateName":"A","matchScore":140,"action":"maybe later"}`}

	evaluation, err := NewEvaluator(generator).Evaluate(context.Background(),
		CV{FileName: "a.pdf", Data: []byte("x")}, Role{Title: "SRE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evaluation.MatchScore != 100 {
		t.Fatalf("expected score clamped to 100, got %d", evaluation.MatchScore)
	}
	if evaluation.Action != ActionReject {
		t.Fatalf("expected unknown action to reject, got %q", evaluation.Action)
	}
}

func TestEvaluateFailures(t *testing.T) {
	if _, err := NewEvaluator(&testGenerator{}).Evaluate(context.Background(), CV{FileName: "empty.pdf"}, Role{}); err == nil {
		t.Fatalf("expected empty cv to fail")
	}

	quota := errors.New("quota exceeded")
	if _, err := NewEvaluator(&testGenerator{err: quota}).Evaluate(context.Background(),
		CV{Data: []byte("x")}, Role{}); !errors.Is(err, quota) {
		t.Fatalf("expected wrapped generator error, got %v", err)
	}

	if _, err := NewEvaluator(&testGenerator{response: "  "}).Evaluate(context.Background(),
		CV{Data: []byte("x")}, Role{}); !errors.Is(err, ErrEmptyEvaluation) {
		t.Fatalf("expected ErrEmptyEvaluation, got %v", err)
	}

	if _, err := NewEvaluator(&testGenerator{response: "not json"}).Evaluate(context.Background(),
		CV{Data: []byte("x")}, Role{}); err == nil {
		t.Fatalf("expected invalid json to fail")
	}
}

func TestEvaluationSchemaOmitsMetaSchema(t *testing.T) {
	schema := evaluationSchema()
	if schema.Version != "" {
		t.Fatalf("expected no $schema keyword, got %q", schema.Version)
	}
	if _, ok := schema.Properties.Get("matchScore"); !ok {
		t.Fatalf("expected matchScore property")
	}
}
