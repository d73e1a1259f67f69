// Package session is the application service shared by the CLI, the REST
// API and the MCP server. It validates input against the question catalog,
// persists through a store.Store and keeps analysis results in a cache.
package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/cache"
	"github.com/blackwell-systems/usermanual/internal/locale"
	"github.com/blackwell-systems/usermanual/internal/logging"
	"github.com/blackwell-systems/usermanual/internal/store"
)

// Service operates on assessment sessions.
type Service struct {
	store store.Store
	cache cache.ResultCache
	log   *zap.Logger
}

// New returns a Service. A nil cache disables caching.
func New(st store.Store, c cache.ResultCache, log *zap.Logger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{store: st, cache: c, log: logging.OrNop(log)}
}

// PromptData is the serialized input for narrative generation.
type PromptData struct {
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
	Answered  int    `json:"answered"`
	Data      string `json:"data"`
	Scores    string `json:"scores"`
}

// Create starts a session in lang.
func (s *Service) Create(ctx context.Context, lang string) (*store.Session, error) {
	b, err := locale.Get(lang)
	if err != nil {
		return nil, err
	}
	return s.store.CreateSession(ctx, b.Lang())
}

func (s *Service) Get(ctx context.Context, id string) (*store.Session, error) {
	return s.store.GetSession(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]store.Session, error) {
	return s.store.ListSessions(ctx)
}

// Delete removes a session and its cached analysis.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteSession(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Bundle returns the locale bundle for the session's language.
func (s *Service) Bundle(sess *store.Session) (*locale.Bundle, error) {
	return locale.Get(sess.Language)
}

// SetAnswer records an answer after checking the question exists.
func (s *Service) SetAnswer(ctx context.Context, id string, questionID int, choice assessment.Choice, intensity int) error {
	if !assessment.StructureCatalog().Contains(questionID) {
		return fmt.Errorf("question %d: %w", questionID, assessment.ErrUnknownQuestion)
	}
	a, err := assessment.NewAnswer(choice, intensity)
	if err != nil {
		return fmt.Errorf("question %d: %w", questionID, err)
	}
	if err := s.store.PutAnswer(ctx, id, questionID, a); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.Debug("answer recorded",
		zap.String("session", id),
		zap.Int("question", questionID),
		zap.Stringer("choice", choice),
		zap.Int("intensity", intensity),
	)
	return nil
}

// ClearAnswer removes the answer to one question.
func (s *Service) ClearAnswer(ctx context.Context, id string, questionID int) error {
	if !assessment.StructureCatalog().Contains(questionID) {
		return fmt.Errorf("question %d: %w", questionID, assessment.ErrUnknownQuestion)
	}
	if err := s.store.DeleteAnswer(ctx, id, questionID); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// ReplaceAnswers swaps the session's answer set, e.g. on import.
func (s *Service) ReplaceAnswers(ctx context.Context, id string, answers *assessment.Answers) error {
	catalog := assessment.StructureCatalog()
	for _, qid := range answers.IDs() {
		if !catalog.Contains(qid) {
			return fmt.Errorf("question %d: %w", qid, assessment.ErrUnknownQuestion)
		}
	}
	if err := s.store.ReplaceAnswers(ctx, id, answers); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) Answers(ctx context.Context, id string) (*assessment.Answers, error) {
	return s.store.LoadAnswers(ctx, id)
}

// Analyze returns the session's analysis, served from the cache when an
// entry exists. Cache failures are logged and fall through to the store.
func (s *Service) Analyze(ctx context.Context, id string) (assessment.AnalysisResult, error) {
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn("cache read failed", zap.String("session", id), zap.Error(err))
	}
	if cached != nil {
		return *cached, nil
	}

	answers, err := s.store.LoadAnswers(ctx, id)
	if err != nil {
		return assessment.AnalysisResult{}, err
	}
	result := assessment.Analyze(answers)
	if err := s.cache.Set(ctx, id, result); err != nil {
		s.log.Warn("cache write failed", zap.String("session", id), zap.Error(err))
	}
	return result, nil
}

// Snapshot records the current analysis so later runs can be compared.
func (s *Service) Snapshot(ctx context.Context, id string) (*store.Snapshot, error) {
	result, err := s.Analyze(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.store.SaveSnapshot(ctx, id, result)
}

// History returns up to n snapshots, newest first.
func (s *Service) History(ctx context.Context, id string, n int) ([]store.Snapshot, error) {
	return s.store.RecentSnapshots(ctx, id, n)
}

// Prompt serializes the session's answers and scores for narrative
// generation, in the session's language.
func (s *Service) Prompt(ctx context.Context, id string) (*PromptData, error) {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := s.Bundle(sess)
	if err != nil {
		return nil, err
	}
	answers, err := s.store.LoadAnswers(ctx, id)
	if err != nil {
		return nil, err
	}
	result, err := s.Analyze(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PromptData{
		SessionID: id,
		Language:  b.Lang(),
		Answered:  answers.Len(),
		Data:      assessment.SerializeForNarrative(answers, b.Catalog()),
		Scores:    assessment.SerializeScores(result, b),
	}, nil
}

func (s *Service) SaveNarrative(ctx context.Context, n *store.Narrative) error {
	return s.store.SaveNarrative(ctx, n)
}

func (s *Service) Narrative(ctx context.Context, id string) (*store.Narrative, error) {
	return s.store.GetNarrative(ctx, id)
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn("cache invalidate failed", zap.String("session", id), zap.Error(err))
	}
}
