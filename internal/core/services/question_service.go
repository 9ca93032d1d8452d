package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type questionService struct {
	repo       ports.QuestionRepository
	clock      domain.Clock
	indexLimit int
}

type Option func(*questionService)

// WithIndexLimit caps the number of questions ListLatest returns. Values
// <= 0 disable the cap.
func WithIndexLimit(limit int) Option {
	return func(s *questionService) {
		s.indexLimit = limit
	}
}

func NewQuestionService(repo ports.QuestionRepository, clock domain.Clock, opts ...Option) ports.QuestionService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	s := &questionService{
		repo:  repo,
		clock: clock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *questionService) Create(ctx context.Context, input ports.CreateQuestionInput) (*domain.Question, error) {
	text := strings.TrimSpace(input.Text)
	if err := validateText(text, domain.MaxQuestionTextLen); err != nil {
		return nil, fmt.Errorf("%w: question text %s", domain.ErrInvalidQuestion, err)
	}

	now := s.clock.Now()
	pubDate := input.PubDate
	if pubDate.IsZero() {
		pubDate = now
	}

	questionID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate question id: %w", err)
	}

	question := &domain.Question{
		ID:        questionID,
		Text:      text,
		PubDate:   pubDate,
		CreatedAt: now,
	}

	for _, choiceText := range input.Choices {
		choice, err := s.newChoice(questionID, choiceText, now)
		if err != nil {
			return nil, err
		}
		question.Choices = append(question.Choices, *choice)
	}

	if err := s.repo.Save(ctx, question); err != nil {
		return nil, err
	}

	return question, nil
}

func (s *questionService) AddChoice(ctx context.Context, questionID string, text string) (*domain.Choice, error) {
	id, err := parseQuestionID(questionID)
	if err != nil {
		return nil, err
	}

	choice, err := s.newChoice(id, text, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddChoice(ctx, choice); err != nil {
		return nil, err
	}

	return choice, nil
}

func (s *questionService) ListLatest(ctx context.Context) ([]*domain.Question, error) {
	questions, err := s.repo.ListPublished(ctx, s.clock.Now(), s.indexLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	if questions == nil {
		questions = []*domain.Question{}
	}
	return questions, nil
}

func (s *questionService) GetDetail(ctx context.Context, id string) (*domain.Question, error) {
	questionID, err := parseQuestionID(id)
	if err != nil {
		return nil, err
	}

	question, err := s.repo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	// Unpublished questions are reported exactly like missing ones.
	if !question.IsPublished(s.clock.Now()) {
		return nil, domain.ErrQuestionNotFound
	}

	return question, nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	questionID, err := parseQuestionID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, questionID)
}

func (s *questionService) newChoice(questionID uuid.UUID, text string, now time.Time) (*domain.Choice, error) {
	text = strings.TrimSpace(text)
	if err := validateText(text, domain.MaxChoiceTextLen); err != nil {
		return nil, fmt.Errorf("%w: choice text %s", domain.ErrInvalidChoice, err)
	}

	choiceID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate choice id: %w", err)
	}

	return &domain.Choice{
		ID:         choiceID,
		QuestionID: questionID,
		Text:       text,
		CreatedAt:  now,
	}, nil
}

func parseQuestionID(id string) (uuid.UUID, error) {
	questionID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidQuestionID
	}
	return questionID, nil
}

func validateText(text string, maxLen int) error {
	if text == "" {
		return errors.New("is required")
	}
	if utf8.RuneCountInString(text) > maxLen {
		return fmt.Errorf("exceeds %d characters", maxLen)
	}
	return nil
}
