package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const (
	DefaultModel       = "gemini-3-flash-preview"
	DefaultTemperature = float32(0.2)
)

var ErrEmptyEvaluation = errors.New("model returned no evaluation")

// ContentGenerator is satisfied by genai's Models service.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Evaluator struct {
	models      ContentGenerator
	model       string
	temperature float32
	schema      *jsonschema.Schema
}

type EvaluatorOption func(*Evaluator)

func WithModel(model string) EvaluatorOption {
	return func(e *Evaluator) {
		if model != "" {
			e.model = model
		}
	}
}

func WithTemperature(temperature float32) EvaluatorOption {
	return func(e *Evaluator) {
		e.temperature = temperature
	}
}

func NewEvaluator(models ContentGenerator, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		models:      models,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		schema:      evaluationSchema(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func evaluationSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true, Anonymous: true}
	schema := reflector.Reflect(&Evaluation{})
	// The API rejects the meta-schema keyword.
	schema.Version = ""
	return schema
}

// Evaluate asks the model to score cv against role.
func (e *Evaluator) Evaluate(ctx context.Context, cv CV, role Role) (Evaluation, error) {
	ctx, span := tracer.Start(ctx, "evaluate cv", trace.WithAttributes(
		attribute.String("request.model", e.model),
		attribute.String("cv.file_name", cv.FileName),
		attribute.String("cv.mime_type", cv.MIMEType),
		attribute.String("role.title", role.Title),
	))
	defer span.End()

	if len(cv.Data) == 0 {
		err := fmt.Errorf("cv %q is empty", cv.FileName)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Evaluation{}, err
	}

	mimeType := cv.MIMEType
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(evaluationPrompt(role)),
			genai.NewPartFromBytes(cv.Data, mimeType),
		}, genai.RoleUser),
	}

	temperature := e.temperature
	resp, err := e.models.GenerateContent(ctx, e.model, contents, &genai.GenerateContentConfig{
		Temperature:        &temperature,
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: e.schema,
	})
	if err != nil {
		err = fmt.Errorf("failed to evaluate cv: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Evaluation{}, err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		span.RecordError(ErrEmptyEvaluation)
		span.SetStatus(codes.Error, ErrEmptyEvaluation.Error())
		return Evaluation{}, ErrEmptyEvaluation
	}

	var evaluation Evaluation
	if err := json.Unmarshal([]byte(text), &evaluation); err != nil {
		err = fmt.Errorf("failed to decode evaluation: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Evaluation{}, err
	}
	evaluation.normalize()

	span.SetAttributes(
		attribute.Int("evaluation.match_score", evaluation.MatchScore),
		attribute.String("evaluation.action", string(evaluation.Action)),
	)
	logger.Info("cv evaluated", "file", cv.FileName, "candidate", evaluation.CandidateName,
		"match_score", evaluation.MatchScore, "action", string(evaluation.Action))
	return evaluation, nil
}

func evaluationPrompt(role Role) string {
	var b strings.Builder
	b.WriteString("You are an experienced technical recruiter. Evaluate the attached CV for the ")
	b.WriteString(strings.TrimSpace(role.Title))
	b.WriteString(" role.\n\nRole requirements:\n")
	b.WriteString(strings.TrimSpace(role.Requirements))
	b.WriteString("\n\nExtract the candidate's name and phone number, score how well they match the requirements " +
		"from 0 to 100, list strengths and weaknesses against the requirements and recommend one action: " +
		"Strong Hire, Interview or Reject.")
	return b.String()
}
