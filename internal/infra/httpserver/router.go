package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appethics "github.com/ethosnet/ethosnet/internal/application/ethics"
	appgov "github.com/ethosnet/ethosnet/internal/application/governance"
	appknowledge "github.com/ethosnet/ethosnet/internal/application/knowledge"
	domai "github.com/ethosnet/ethosnet/internal/domain/ai"
	ethdomain "github.com/ethosnet/ethosnet/internal/domain/ethics"
	govdomain "github.com/ethosnet/ethosnet/internal/domain/governance"
	kdomain "github.com/ethosnet/ethosnet/internal/domain/knowledge"
	"github.com/ethosnet/ethosnet/internal/middleware"
)

type Router struct {
	ethicsSvc    *appethics.Service
	knowledgeSvc *appknowledge.Service
	govSvc       *appgov.Service
}

func NewRouter(ethicsSvc *appethics.Service, knowledgeSvc *appknowledge.Service, govSvc *appgov.Service, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{ethicsSvc: ethicsSvc, knowledgeSvc: knowledgeSvc, govSvc: govSvc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/health/ready", middleware.ReadinessHandler)
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api/v1", func(rt chi.Router) {
		rt.Post("/ethics/evaluate", r.wrap(r.handleEvaluate))
		rt.Get("/ethics/evaluations", r.wrap(r.handleLatestEvaluations))
		rt.Get("/ethics/evaluations/{id}", r.wrap(r.handleGetEvaluation))
		rt.Get("/ethics/guidelines", r.wrap(r.handleGuidelines))
		rt.Post("/ethics/guidelines", r.wrap(r.handleAddGuideline))
		rt.Post("/ethics/scenario", r.wrap(r.handleScenario))
		rt.Post("/ethics/standards", r.wrap(r.handleProposeStandard))

		rt.Post("/knowledge/add", r.wrap(r.handleAddEntry))
		rt.Get("/knowledge/search", r.wrap(r.handleSearch))
		rt.Post("/knowledge/summarize", r.wrap(r.handleSummarize))
		rt.Get("/knowledge/latest", r.wrap(r.handleLatest))
		rt.Get("/knowledge/{id}", r.wrap(r.handleGetEntry))
		rt.Put("/knowledge/{id}", r.wrap(r.handleUpdateEntry))
		rt.Delete("/knowledge/{id}", r.wrap(r.handleDeleteEntry))

		rt.Post("/governance/propose", r.wrap(r.handlePropose))
		rt.Get("/governance/proposals", r.wrap(r.handleProposals))
		rt.Get("/governance/proposals/{id}", r.wrap(r.handleGetProposal))
		rt.Post("/governance/proposals/{id}/vote", r.wrap(r.handleVote))

		rt.Get("/reputation/top", r.wrap(r.handleTopReputation))
		rt.Get("/reputation/{user}", r.wrap(r.handleGetReputation))
		rt.Put("/reputation/{user}", r.wrap(r.handleUpdateReputation))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			writeError(w, err)
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, sql.ErrNoRows):
		status = http.StatusNotFound
	case errors.Is(err, kdomain.ErrNotAuthor):
		status = http.StatusForbidden
	case errors.Is(err, domai.ErrQuotaExceeded):
		status = http.StatusTooManyRequests
	case errors.Is(err, ethdomain.ErrEmptyDecision),
		errors.Is(err, ethdomain.ErrLowQuality),
		errors.Is(err, ethdomain.ErrDuplicateStandard),
		errors.Is(err, kdomain.ErrEmptyTitle),
		errors.Is(err, kdomain.ErrEmptyContent),
		errors.Is(err, kdomain.ErrContentTooLong),
		errors.Is(err, kdomain.ErrEmptyQuery):
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// requester resolves the acting user: explicit field first, auth context second.
func requester(req *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if user := middleware.GetUserFromContext(req.Context()); user != "" {
		return user
	}
	return "anonymous"
}

// POST /api/v1/ethics/evaluate
// Body: {"decision": "...", "evaluator_id": "..."}
func (r *Router) handleEvaluate(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Decision    string `json:"decision"`
		EvaluatorID string `json:"evaluator_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return ethdomain.ErrEmptyDecision
	}

	middleware.IncrementEvaluations()
	ev, err := r.ethicsSvc.Evaluate(req.Context(), body.Decision, requester(req, body.EvaluatorID))
	if err != nil {
		middleware.IncrementEvaluationsFailed()
		return err
	}
	return writeJSON(w, http.StatusOK, ev)
}

// GET /api/v1/ethics/evaluations/{id}
func (r *Router) handleGetEvaluation(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	ev, err := r.ethicsSvc.Get(req.Context(), ethdomain.EvaluationID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, ev)
}

// GET /api/v1/ethics/evaluations?evaluator=&limit=
func (r *Router) handleLatestEvaluations(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.ethicsSvc.LatestEvaluations(req.Context(), req.URL.Query().Get("evaluator"), limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*ethdomain.Evaluation{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /api/v1/ethics/guidelines
func (r *Router) handleGuidelines(w http.ResponseWriter, req *http.Request) error {
	texts, err := r.ethicsSvc.GuidelineTexts(req.Context())
	if err != nil {
		return err
	}
	if texts == nil {
		texts = []string{}
	}
	return writeJSON(w, http.StatusOK, texts)
}

// POST /api/v1/ethics/guidelines
func (r *Router) handleAddGuideline(w http.ResponseWriter, req *http.Request) error {
	var g ethdomain.Guideline
	if err := json.NewDecoder(req.Body).Decode(&g); err != nil {
		return err
	}
	g.AuthorID = requester(req, g.AuthorID)
	if err := r.ethicsSvc.AddGuideline(req.Context(), &g); err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, g)
}

// POST /api/v1/ethics/scenario
// Body: {"scenario": "...", "decision": "..."}
func (r *Router) handleScenario(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Scenario string `json:"scenario"`
		Decision string `json:"decision"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	feedback, err := r.ethicsSvc.RunScenario(req.Context(), body.Scenario, body.Decision)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"feedback": feedback})
}

// POST /api/v1/ethics/standards
// Body: {"description": "...", "proposer_id": "..."}
func (r *Router) handleProposeStandard(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Description string `json:"description"`
		ProposerID  string `json:"proposer_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	id, err := r.ethicsSvc.ProposeStandard(req.Context(), body.Description, requester(req, body.ProposerID))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]string{"proposal_id": string(id)})
}

// POST /api/v1/knowledge/add
func (r *Router) handleAddEntry(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Title       string   `json:"title"`
		Content     string   `json:"content"`
		ContentType string   `json:"content_type"`
		Tags        []string `json:"tags"`
		AuthorID    string   `json:"author_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return kdomain.ErrEmptyTitle
	}

	entry, err := r.knowledgeSvc.Add(req.Context(), appknowledge.AddEntryCommand{
		Title:       body.Title,
		Content:     body.Content,
		ContentType: kdomain.ContentType(body.ContentType),
		Tags:        body.Tags,
		AuthorID:    requester(req, body.AuthorID),
	})
	if err != nil {
		return err
	}
	middleware.IncrementEntriesAdded()
	return writeJSON(w, http.StatusCreated, entry)
}

// GET /api/v1/knowledge/search?query=&limit=
func (r *Router) handleSearch(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query().Get("query")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	middleware.IncrementSearches()
	results, err := r.knowledgeSvc.Search(req.Context(), query, limit)
	if err != nil {
		return err
	}
	if results == nil {
		results = []kdomain.SearchResult{}
	}
	return writeJSON(w, http.StatusOK, results)
}

// POST /api/v1/knowledge/summarize
// Body: {"topic": "..."}
func (r *Router) handleSummarize(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Topic string `json:"topic"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return kdomain.ErrEmptyQuery
	}
	summary, err := r.knowledgeSvc.Summarize(req.Context(), body.Topic)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"topic": body.Topic, "summary": summary})
}

// GET /api/v1/knowledge/latest?limit=&offset=
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(req.URL.Query().Get("offset"))
	list, err := r.knowledgeSvc.Latest(req.Context(), limit, offset)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*kdomain.Entry{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /api/v1/knowledge/{id}
func (r *Router) handleGetEntry(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	entry, err := r.knowledgeSvc.Get(req.Context(), kdomain.EntryID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, entry)
}

// PUT /api/v1/knowledge/{id}
func (r *Router) handleUpdateEntry(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	var body struct {
		Title    string   `json:"title"`
		Content  string   `json:"content"`
		Tags     []string `json:"tags"`
		AuthorID string   `json:"author_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return kdomain.ErrEmptyTitle
	}
	entry, err := r.knowledgeSvc.Update(req.Context(), kdomain.EntryID(id), body.Title, body.Content, body.Tags, requester(req, body.AuthorID))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, entry)
}

// DELETE /api/v1/knowledge/{id}
func (r *Router) handleDeleteEntry(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := r.knowledgeSvc.Delete(req.Context(), kdomain.EntryID(id), requester(req, req.URL.Query().Get("author_id"))); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /api/v1/governance/propose
// Body: {"description": "...", "proposer_id": "..."}
func (r *Router) handlePropose(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Description string `json:"description"`
		ProposerID  string `json:"proposer_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	id, err := r.govSvc.CreateProposal(req.Context(), body.Description, requester(req, body.ProposerID))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]string{"proposal_id": string(id)})
}

// GET /api/v1/governance/proposals
func (r *Router) handleProposals(w http.ResponseWriter, req *http.Request) error {
	list, err := r.govSvc.ActiveProposals(req.Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []*govdomain.Proposal{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /api/v1/governance/proposals/{id}
func (r *Router) handleGetProposal(w http.ResponseWriter, req *http.Request) error {
	p, err := r.govSvc.Proposal(req.Context(), govdomain.ProposalID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, p)
}

// POST /api/v1/governance/proposals/{id}/vote
// Body: {"support": true, "voter_id": "..."}
func (r *Router) handleVote(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	var body struct {
		Support bool   `json:"support"`
		VoterID string `json:"voter_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if err := r.govSvc.CastVote(req.Context(), govdomain.ProposalID(id), requester(req, body.VoterID), body.Support); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// GET /api/v1/reputation/top?limit=
func (r *Router) handleTopReputation(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.govSvc.Top(req.Context(), limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*govdomain.Reputation{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /api/v1/reputation/{user}
func (r *Router) handleGetReputation(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	rep, err := r.govSvc.GetReputation(req.Context(), user)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}

// PUT /api/v1/reputation/{user}
// Body: {"delta": 5}
func (r *Router) handleUpdateReputation(w http.ResponseWriter, req *http.Request) error {
	user := chi.URLParam(req, "user")
	var body struct {
		Delta float64 `json:"delta"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	rep, err := r.govSvc.UpdateReputation(req.Context(), user, body.Delta)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}
