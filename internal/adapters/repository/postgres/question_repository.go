package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

// foreignKeyViolation is the SQLSTATE Postgres reports when a choice points
// at a question that does not exist.
const foreignKeyViolation = "23503"

type questionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) ports.QuestionRepository {
	return &questionRepository{
		db: db,
	}
}

func (r *questionRepository) Save(ctx context.Context, question *domain.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryQuestion := `
		INSERT INTO questions (id, question_text, pub_date, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.ExecContext(ctx, queryQuestion, question.ID, question.Text, question.PubDate, question.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}

	queryChoice := `
		INSERT INTO choices (id, question_id, choice_text, votes, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	stmt, err := tx.PrepareContext(ctx, queryChoice)
	if err != nil {
		return fmt.Errorf("failed to prepare choice statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range question.Choices {
		_, err = stmt.ExecContext(ctx, c.ID, c.QuestionID, c.Text, c.Votes, c.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert choice: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *questionRepository) AddChoice(ctx context.Context, choice *domain.Choice) error {
	query := `
		INSERT INTO choices (id, question_id, choice_text, votes, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, choice.ID, choice.QuestionID, choice.Text, choice.Votes, choice.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return domain.ErrQuestionNotFound
		}
		return fmt.Errorf("failed to insert choice: %w", err)
	}
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	query := `
		SELECT id, question_text, pub_date, created_at
		FROM questions
		WHERE id = $1
	`

	var question domain.Question
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&question.ID, &question.Text, &question.PubDate, &question.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if err := r.attachChoices(ctx, []*domain.Question{&question}); err != nil {
		return nil, err
	}

	return &question, nil
}

func (r *questionRepository) ListPublished(ctx context.Context, now time.Time, limit int) ([]*domain.Question, error) {
	// LIMIT NULL is the same as no limit.
	query := `
		SELECT q.id, q.question_text, q.pub_date, q.created_at
		FROM questions q
		WHERE q.pub_date <= $1
		  AND EXISTS (SELECT 1 FROM choices c WHERE c.question_id = q.id)
		ORDER BY q.pub_date DESC, q.id ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, now, sql.NullInt64{Int64: int64(limit), Valid: limit > 0})
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachChoices(ctx, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// choices.question_id is ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read deleted rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *questionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanQuestions(rows *sql.Rows) ([]*domain.Question, error) {
	var questions []*domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.PubDate, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}

// attachChoices loads the choices of all given questions with one query.
func (r *questionRepository) attachChoices(ctx context.Context, questions []*domain.Question) error {
	if len(questions) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Question, len(questions))
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
		ids = append(ids, q.ID.String())
	}

	query := `
		SELECT id, question_id, choice_text, votes, created_at
		FROM choices
		WHERE question_id = ANY($1::uuid[])
		ORDER BY question_id, id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to get choices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.Votes, &c.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan choice: %w", err)
		}
		if q, ok := byID[c.QuestionID]; ok {
			q.Choices = append(q.Choices, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating choices: %w", err)
	}
	return nil
}
