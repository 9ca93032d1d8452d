package integration

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	handler "github.com/vncsmyrnk/polls/internal/adapters/handler/http"
	repo "github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
	"github.com/vncsmyrnk/polls/internal/core/services"
	"github.com/vncsmyrnk/polls/internal/testutil"
)

type TestApp struct {
	DB      *sql.DB
	Server  *httptest.Server
	Client  *http.Client
	Service ports.QuestionService
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	db := testutil.SetupPostgres(t)

	questionRepo := repo.NewQuestionRepository(db)
	svc := services.NewQuestionService(questionRepo, domain.SystemClock{})

	router := handler.NewHandler(handler.NewQuestionHandler(svc), handler.NewHealthHandler(questionRepo), nil, nil)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestApp{
		DB:      db,
		Server:  server,
		Client:  server.Client(),
		Service: svc,
	}
}

// createQuestion publishes a question offset by days from now: negative for
// the past, positive for the future.
func (app *TestApp) createQuestion(t *testing.T, text string, days int) *domain.Question {
	t.Helper()
	q, err := app.Service.Create(context.Background(), ports.CreateQuestionInput{
		Text:    text,
		PubDate: time.Now().AddDate(0, 0, days),
	})
	require.NoError(t, err)
	return q
}

func (app *TestApp) addChoice(t *testing.T, q *domain.Question, text string) {
	t.Helper()
	_, err := app.Service.AddChoice(context.Background(), q.ID.String(), text)
	require.NoError(t, err)
}

func (app *TestApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := app.Client.Get(app.Server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}
