package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type QuestionHandler struct {
	service ports.QuestionService
}

func NewQuestionHandler(service ports.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		service: service,
	}
}

type questionListResponse struct {
	LatestQuestionList []*domain.Question `json:"latest_question_list"`
}

func (h *QuestionHandler) Index(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.ListLatest(r.Context())
	if err != nil {
		writePageError(w, r, err)
		return
	}

	render(w, r, http.StatusOK, "index.html", indexPage{
		Title:              "Polls",
		LatestQuestionList: questions,
	})
}

func (h *QuestionHandler) Detail(w http.ResponseWriter, r *http.Request) {
	question, err := h.service.GetDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writePageError(w, r, err)
		return
	}

	render(w, r, http.StatusOK, "detail.html", questionPage{Title: question.Text, Question: question})
}

func (h *QuestionHandler) Results(w http.ResponseWriter, r *http.Request) {
	question, err := h.service.GetDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writePageError(w, r, err)
		return
	}

	render(w, r, http.StatusOK, "results.html", questionPage{Title: question.Text, Question: question})
}

// ListQuestions godoc
// @Summary      Lists the latest published questions
// @Description  Questions published up to now that have at least one choice, newest first.
// @Tags         questions
// @Produce      json
// @Success      200  {object}  questionListResponse
// @Router       /api/questions [get]
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.ListLatest(r.Context())
	if err != nil {
		writeAPIError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, questionListResponse{LatestQuestionList: questions})
}

// GetQuestion godoc
// @Summary      Gets a published question
// @Description  Questions with a publish date in the future are reported as not found.
// @Tags         questions
// @Produce      json
// @Param        id   path      string  true  "Question ID"
// @Success      200  {object}  domain.Question
// @Failure      400
// @Failure      404
// @Router       /api/questions/{id} [get]
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.service.GetDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAPIError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, question)
}
