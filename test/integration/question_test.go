package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

func (app *TestApp) latestQuestionList(t *testing.T) []uuid.UUID {
	t.Helper()
	resp, body := app.get(t, "/api/questions")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		LatestQuestionList []domain.Question `json:"latest_question_list"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	ids := make([]uuid.UUID, 0, len(payload.LatestQuestionList))
	for _, q := range payload.LatestQuestionList {
		ids = append(ids, q.ID)
	}
	return ids
}

// TestQuestionIndexView exercises the index page against a real database.
// Every subtest cleans the tables first so they do not see each other's rows.
func TestQuestionIndexView(t *testing.T) {
	app := setupTestApp(t)

	reset := func(t *testing.T) {
		_, err := app.DB.Exec("DELETE FROM questions")
		require.NoError(t, err)
	}

	t.Run("no questions", func(t *testing.T) {
		reset(t)
		resp, body := app.get(t, "/polls/")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "No poll are available.")
		assert.Empty(t, app.latestQuestionList(t))
	})

	t.Run("past question", func(t *testing.T) {
		reset(t)
		q := app.createQuestion(t, "Past question.", -30)
		app.addChoice(t, q, "y")

		_, body := app.get(t, "/polls/")
		assert.Contains(t, body, "Past question.")
		assert.Equal(t, []uuid.UUID{q.ID}, app.latestQuestionList(t))
	})

	t.Run("future question", func(t *testing.T) {
		reset(t)
		q := app.createQuestion(t, "Future question.", 30)
		app.addChoice(t, q, "y")

		_, body := app.get(t, "/polls/")
		assert.Contains(t, body, "No poll are available.")
		assert.Empty(t, app.latestQuestionList(t))
	})

	t.Run("future question and past question", func(t *testing.T) {
		reset(t)
		past := app.createQuestion(t, "Pas de question.", -30)
		future := app.createQuestion(t, "Future question.", 30)
		app.addChoice(t, past, "y")
		app.addChoice(t, future, "y")

		assert.Equal(t, []uuid.UUID{past.ID}, app.latestQuestionList(t))
	})

	t.Run("two past questions", func(t *testing.T) {
		reset(t)
		q1 := app.createQuestion(t, "Past question1", -40)
		app.addChoice(t, q1, "y")
		q2 := app.createQuestion(t, "Past question2", -30)
		app.addChoice(t, q2, "y")

		assert.Equal(t, []uuid.UUID{q2.ID, q1.ID}, app.latestQuestionList(t))
	})

	t.Run("question without choices", func(t *testing.T) {
		reset(t)
		app.createQuestion(t, "A question", -1)

		_, body := app.get(t, "/polls/")
		assert.Contains(t, body, "No poll are available.")
		assert.Empty(t, app.latestQuestionList(t))
	})
}

func TestQuestionDetailView(t *testing.T) {
	app := setupTestApp(t)

	t.Run("future question", func(t *testing.T) {
		q := app.createQuestion(t, "Future question", 30)
		resp, _ := app.get(t, fmt.Sprintf("/polls/%s/", q.ID))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("past question", func(t *testing.T) {
		q := app.createQuestion(t, "Past question", -2)
		resp, body := app.get(t, fmt.Sprintf("/polls/%s/", q.ID))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, q.Text)
	})

	t.Run("results", func(t *testing.T) {
		q := app.createQuestion(t, "Results question", -1)
		app.addChoice(t, q, "Not much")

		_, err := app.DB.Exec("UPDATE choices SET votes = 3 WHERE question_id = $1", q.ID)
		require.NoError(t, err)

		resp, body := app.get(t, fmt.Sprintf("/polls/%s/results/", q.ID))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Not much -- 3 votes")
	})
}

func TestDeleteQuestionRemovesChoices(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()

	q := app.createQuestion(t, "Doomed question", -1)
	app.addChoice(t, q, "a")
	app.addChoice(t, q, "b")

	require.NoError(t, app.Service.Delete(ctx, q.ID.String()))

	var count int
	require.NoError(t, app.DB.QueryRow("SELECT COUNT(*) FROM choices WHERE question_id = $1", q.ID).Scan(&count))
	assert.Zero(t, count)

	resp, _ := app.get(t, fmt.Sprintf("/polls/%s/", q.ID))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReady(t *testing.T) {
	app := setupTestApp(t)

	resp, body := app.get(t, "/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ready"}`, body)
}
