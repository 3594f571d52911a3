package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/docquiz/docquiz/internal/models"
	"github.com/docquiz/docquiz/internal/quiz"
	"github.com/docquiz/docquiz/internal/session"
)

// timerWriteWait bounds each countdown push to a client.
const timerWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // same-host pages only; no cross-origin clients
	},
}

// Handler manages HTTP requests
type Handler struct {
	controller *quiz.Controller
	store      session.Store
	templates  *template.Template
}

// NewHandler creates a new HTTP handler
func NewHandler(controller *quiz.Controller, store session.Store, templates *template.Template) *Handler {
	return &Handler{
		controller: controller,
		store:      store,
		templates:  templates,
	}
}

// optionView pairs an option with its display letter for templates
type optionView struct {
	Label string
	Text  string
}

// questionPage is the data rendered by question.html
type questionPage struct {
	Number           int
	Total            int
	Text             string
	Options          []optionView
	RemainingSeconds int
}

// reviewOption marks each option row so the page can highlight the correct
// answer and the one the client picked
type reviewOption struct {
	Label   string
	Text    string
	Correct bool
	Given   bool
}

// reviewEntry is one wrong answer on the review page
type reviewEntry struct {
	Index       int
	Text        string
	Options     []reviewOption
	Correct     string
	Given       string
	Explanation string
}

// HomeHandler serves the entry page
func (h *Handler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	h.templates.ExecuteTemplate(w, "index.html", map[string]interface{}{
		"Error": r.URL.Query().Get("err"),
	})
}

// NotFoundHandler serves the 404 page
func (h *Handler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	h.templates.ExecuteTemplate(w, "404.html", nil)
}

// StartHandler begins a fresh quiz, discarding any prior session
func (h *Handler) StartHandler(w http.ResponseWriter, r *http.Request) {
	slog.Info("Start request received", "remote_addr", r.RemoteAddr)

	quizSession, err := h.controller.Start(r.Context())
	if err != nil {
		slog.Error("Start failed", "error", err)
		h.redirectHome(w, r, "No questions available. Check that the quiz document is shared with the service account and follows the format.")
		return
	}

	if err := h.store.Save(r, w, quizSession); err != nil {
		slog.Error("Start failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Quiz started", "questions", len(quizSession.Selected))
	http.Redirect(w, r, "/question", http.StatusFound)
}

// QuestionHandler renders the current question
func (h *Handler) QuestionHandler(w http.ResponseWriter, r *http.Request) {
	quizSession, err := h.store.Get(r)
	if err != nil {
		slog.Error("Question failed to load session", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	view, err := h.controller.CurrentQuestion(r.Context(), quizSession)
	switch {
	case errors.Is(err, quiz.ErrQuizComplete):
		http.Redirect(w, r, "/summary", http.StatusFound)
		return
	case errors.Is(err, quiz.ErrNoSession):
		http.Redirect(w, r, "/", http.StatusFound)
		return
	case err != nil:
		slog.Error("Question failed", "error", err)
		h.redirectHome(w, r, "No questions available.")
		return
	}

	options := make([]optionView, 0, len(view.Question.Options))
	for i, opt := range view.Question.Options {
		options = append(options, optionView{Label: models.OptionLabel(i), Text: opt})
	}

	remaining := int(time.Until(view.Deadline).Seconds())
	if remaining < 0 {
		remaining = 0
	}

	h.templates.ExecuteTemplate(w, "question.html", questionPage{
		Number:           view.Number,
		Total:            view.Total,
		Text:             view.Question.Text,
		Options:          options,
		RemainingSeconds: remaining,
	})
}

// SubmitAnswerHandler records the posted answer and advances the quiz
func (h *Handler) SubmitAnswerHandler(w http.ResponseWriter, r *http.Request) {
	quizSession, err := h.store.Get(r)
	if err != nil {
		slog.Error("SubmitAnswer failed to load session", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		slog.Error("SubmitAnswer failed to parse form", "error", err)
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	answer := r.PostFormValue("answer")
	end := r.PostFormValue("action") == "end"

	slog.Info("SubmitAnswer processing", "answer", answer, "end", end)

	if err := h.controller.SubmitAnswer(quizSession, answer, end); err != nil {
		slog.Warn("SubmitAnswer outside active quiz", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if err := h.store.Save(r, w, quizSession); err != nil {
		slog.Error("SubmitAnswer failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	if quizSession.State == models.StateCompleted {
		http.Redirect(w, r, "/summary", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/question", http.StatusFound)
}

// SummaryHandler scores the completed quiz and renders the tally
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	quizSession, err := h.store.Get(r)
	if err != nil {
		slog.Error("Summary failed to load session", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	summary, err := h.controller.Summarize(r.Context(), quizSession)
	switch {
	case errors.Is(err, quiz.ErrNotCompleted):
		http.Redirect(w, r, "/question", http.StatusFound)
		return
	case errors.Is(err, quiz.ErrNoSession):
		http.Redirect(w, r, "/", http.StatusFound)
		return
	case err != nil:
		slog.Error("Summary failed", "error", err)
		h.redirectHome(w, r, "No questions available.")
		return
	}

	if err := h.store.Save(r, w, quizSession); err != nil {
		slog.Error("Summary failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Quiz summarized", "correct", summary.Correct, "total", summary.Total)
	h.templates.ExecuteTemplate(w, "summary.html", summary)
}

// ReviewHandler renders the incorrect answers cached by the summary
func (h *Handler) ReviewHandler(w http.ResponseWriter, r *http.Request) {
	quizSession, err := h.store.Get(r)
	if err != nil {
		slog.Error("Review failed to load session", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	incorrect, err := h.controller.Review(quizSession)
	switch {
	case errors.Is(err, quiz.ErrNotSummarized):
		http.Redirect(w, r, "/summary", http.StatusFound)
		return
	case errors.Is(err, quiz.ErrNoSession):
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	entries := make([]reviewEntry, 0, len(incorrect))
	for _, inc := range incorrect {
		options := make([]reviewOption, 0, len(inc.Options))
		for i, opt := range inc.Options {
			label := models.OptionLabel(i)
			options = append(options, reviewOption{
				Label:   label,
				Text:    opt,
				Correct: label == inc.Correct,
				Given:   label == inc.Given,
			})
		}
		entries = append(entries, reviewEntry{
			Index:       inc.Index,
			Text:        inc.Text,
			Options:     options,
			Correct:     inc.Correct,
			Given:       inc.Given,
			Explanation: inc.Explanation,
		})
	}

	h.templates.ExecuteTemplate(w, "review.html", map[string]interface{}{
		"Incorrect": entries,
	})
}

// TimerHandler streams the remaining quiz time over a websocket, once per
// second until the deadline passes or the client goes away. Display aid only;
// it never ends the quiz itself.
func (h *Handler) TimerHandler(w http.ResponseWriter, r *http.Request) {
	quizSession, err := h.store.Get(r)
	if err != nil {
		http.Error(w, "No session", http.StatusBadRequest)
		return
	}

	deadline, err := h.controller.Deadline(quizSession)
	if err != nil {
		slog.Warn("Timer requested without active quiz", "error", err)
		http.Error(w, "No active quiz", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Timer websocket upgrade error", "error", err)
		return
	}
	defer conn.Close()

	slog.Info("Timer websocket connected", "remote_addr", r.RemoteAddr)

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		// A vanished client must fail the write instead of parking the
		// goroutine until TCP times out.
		conn.SetWriteDeadline(time.Now().Add(timerWriteWait))
		remaining := int(time.Until(deadline).Seconds())
		if remaining <= 0 {
			conn.WriteJSON(models.TimerUpdate{RemainingSeconds: 0, Expired: true})
			return
		}
		if err := conn.WriteJSON(models.TimerUpdate{RemainingSeconds: remaining}); err != nil {
			return
		}
		<-ticker.C
	}
}

func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?err="+url.QueryEscape(msg), http.StatusFound)
}
