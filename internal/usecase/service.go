package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/teammon/teammon/internal/domain"
)

// DefaultDays is the lookback window applied when a caller does not
// specify one.
const DefaultDays = 7

// ErrNoUsername is returned by AnswerQuery when no username could be
// extracted from the query text. Callers surface it as a
// "could not understand query" condition; no aggregation happens.
var ErrNoUsername = errors.New("could not extract username from query")

// Answer is the complete result of one natural-language query.
type Answer struct {
	Query     string                 `json:"query"`
	Parsed    domain.ParsedQuery     `json:"parsed"`
	Activity  *domain.ActivityRecord `json:"activity"`
	Summary   string                 `json:"summary"`
	Narrative string                 `json:"ai_response"`
}

// Service wires the query interpreter, the activity aggregator and
// the response renderer into the single answer-query operation.
type Service struct {
	parser     *Parser
	aggregator *Aggregator
	renderer   *Renderer
	logger     *zap.Logger
}

// NewService creates a Service from its three pipeline stages.
func NewService(parser *Parser, aggregator *Aggregator, renderer *Renderer, logger *zap.Logger) *Service {
	return &Service{
		parser:     parser,
		aggregator: aggregator,
		renderer:   renderer,
		logger:     logger,
	}
}

// AnswerQuery interprets text, aggregates provider activity for the
// extracted user over the last days days, and renders both outputs.
// Partial provider failures do not fail the call; they are annotated
// in the activity record's error list.
func (s *Service) AnswerQuery(ctx context.Context, text string, days int) (*Answer, error) {
	s.logger.Info("processing query", zap.String("query", text), zap.Int("days", days))

	parsed := s.parser.Parse(text)
	if parsed.Username == "" {
		s.logger.Warn("no username extracted", zap.String("query", text))
		return nil, ErrNoUsername
	}

	activity := s.aggregator.UserActivity(ctx, parsed.Username, parsed.Intent, days)
	return &Answer{
		Query:     text,
		Parsed:    parsed,
		Activity:  activity,
		Summary:   s.renderer.Summary(activity),
		Narrative: s.renderer.Narrative(activity, days),
	}, nil
}
