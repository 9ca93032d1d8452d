// Package memory keeps questions in process memory. It backs the server when
// no database is configured and the service unit tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type questionRepository struct {
	mu        sync.RWMutex
	questions map[uuid.UUID]*domain.Question
}

func NewQuestionRepository() ports.QuestionRepository {
	return &questionRepository{
		questions: make(map[uuid.UUID]*domain.Question),
	}
}

func (r *questionRepository) Save(ctx context.Context, question *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.questions[question.ID] = cloneQuestion(question)
	return nil
}

func (r *questionRepository) AddChoice(ctx context.Context, choice *domain.Choice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	question, ok := r.questions[choice.QuestionID]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	question.Choices = append(question.Choices, *choice)
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	question, ok := r.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return cloneQuestion(question), nil
}

func (r *questionRepository) ListPublished(ctx context.Context, now time.Time, limit int) ([]*domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var questions []*domain.Question
	for _, question := range r.questions {
		if question.IsListable(now) {
			questions = append(questions, cloneQuestion(question))
		}
	}

	domain.SortLatestFirst(questions)
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	// Choices live inside the question, so they go with it.
	delete(r.questions, id)
	return nil
}

func (r *questionRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func cloneQuestion(q *domain.Question) *domain.Question {
	c := *q
	c.Choices = append([]domain.Choice(nil), q.Choices...)
	return &c
}
