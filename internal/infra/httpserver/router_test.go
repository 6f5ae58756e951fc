package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	appethics "github.com/ethosnet/ethosnet/internal/application/ethics"
	appgov "github.com/ethosnet/ethosnet/internal/application/governance"
	appknowledge "github.com/ethosnet/ethosnet/internal/application/knowledge"
	domai "github.com/ethosnet/ethosnet/internal/domain/ai"
	ethdomain "github.com/ethosnet/ethosnet/internal/domain/ethics"
	govdomain "github.com/ethosnet/ethosnet/internal/domain/governance"
	kdomain "github.com/ethosnet/ethosnet/internal/domain/knowledge"
	"github.com/ethosnet/ethosnet/internal/domain/vector"
	"github.com/ethosnet/ethosnet/internal/middleware"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type memEvalRepo struct{ evals map[ethdomain.EvaluationID]*ethdomain.Evaluation }

func (r *memEvalRepo) Save(ctx context.Context, e *ethdomain.Evaluation) error {
	r.evals[e.ID] = e
	return nil
}

func (r *memEvalRepo) Get(ctx context.Context, id ethdomain.EvaluationID) (*ethdomain.Evaluation, error) {
	e, ok := r.evals[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return e, nil
}

func (r *memEvalRepo) Latest(ctx context.Context, evaluator string, limit int) ([]*ethdomain.Evaluation, error) {
	var out []*ethdomain.Evaluation
	for _, e := range r.evals {
		if evaluator == "" || e.EvaluatorID == evaluator {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memGuidelineRepo struct{ list []*ethdomain.Guideline }

func (r *memGuidelineRepo) Save(ctx context.Context, g *ethdomain.Guideline) error {
	r.list = append(r.list, g)
	return nil
}

func (r *memGuidelineRepo) Get(ctx context.Context, id string) (*ethdomain.Guideline, error) {
	for _, g := range r.list {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memGuidelineRepo) List(ctx context.Context) ([]*ethdomain.Guideline, error) {
	return r.list, nil
}

type memEntryRepo struct{ entries map[kdomain.EntryID]*kdomain.Entry }

func (r *memEntryRepo) Save(ctx context.Context, e *kdomain.Entry) error {
	r.entries[e.ID] = e
	return nil
}

func (r *memEntryRepo) Get(ctx context.Context, id kdomain.EntryID) (*kdomain.Entry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return e, nil
}

func (r *memEntryRepo) Delete(ctx context.Context, id kdomain.EntryID) error {
	delete(r.entries, id)
	return nil
}

func (r *memEntryRepo) Latest(ctx context.Context, limit, offset int) ([]*kdomain.Entry, error) {
	return nil, nil
}

type memProposalRepo struct{ proposals map[govdomain.ProposalID]*govdomain.Proposal }

func (r *memProposalRepo) Save(ctx context.Context, p *govdomain.Proposal) error {
	r.proposals[p.ID] = p
	return nil
}

func (r *memProposalRepo) Get(ctx context.Context, id govdomain.ProposalID) (*govdomain.Proposal, error) {
	p, ok := r.proposals[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (r *memProposalRepo) ListActive(ctx context.Context) ([]*govdomain.Proposal, error) {
	var out []*govdomain.Proposal
	for _, p := range r.proposals {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProposalRepo) CastVote(ctx context.Context, id govdomain.ProposalID, support bool) error {
	p, ok := r.proposals[id]
	if !ok {
		return sql.ErrNoRows
	}
	if support {
		p.VotesFor++
	} else {
		p.VotesAgainst++
	}
	return nil
}

type memReputationRepo struct{ scores map[string]float64 }

func (r *memReputationRepo) Get(ctx context.Context, userID string) (*govdomain.Reputation, error) {
	return &govdomain.Reputation{UserID: userID, Score: r.scores[userID]}, nil
}

func (r *memReputationRepo) Add(ctx context.Context, userID string, delta float64) (*govdomain.Reputation, error) {
	r.scores[userID] += delta
	return &govdomain.Reputation{UserID: userID, Score: r.scores[userID]}, nil
}

func (r *memReputationRepo) Top(ctx context.Context, limit int) ([]*govdomain.Reputation, error) {
	return nil, nil
}

type stubAI struct{}

func (stubAI) AssessDecision(ctx context.Context, decision string, guidelines []string) (*domai.Assessment, error) {
	return &domai.Assessment{Score: 82, Explanation: "acceptable", Concerns: []string{"a"}, Suggestions: []string{"b"}}, nil
}

func (stubAI) ScoreEntry(ctx context.Context, title, content string) (float64, float64, error) {
	return 70, 75, nil
}

func (stubAI) ScoreContribution(ctx context.Context, kind, content string) (float64, error) {
	return 1, nil
}

func (stubAI) EvaluateStandard(ctx context.Context, standard string) (float64, error) {
	return 90, nil
}

func (stubAI) ScenarioFeedback(ctx context.Context, scenario, decision string) (string, error) {
	return "consider autonomy", nil
}

func (stubAI) Summarize(ctx context.Context, topic string, passages []string) (string, error) {
	return "summary", nil
}

func (stubAI) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1}, nil
}

type stubIndex struct{ hits []vector.Hit }

func (i *stubIndex) Ensure(ctx context.Context, collection string, dim int) error { return nil }
func (i *stubIndex) Upsert(ctx context.Context, collection string, points ...vector.Point) error {
	return nil
}
func (i *stubIndex) Search(ctx context.Context, collection string, vec []float32, limit int, threshold float64) ([]vector.Hit, error) {
	if threshold > 0 {
		return nil, nil
	}
	return i.hits, nil
}
func (i *stubIndex) Delete(ctx context.Context, collection string, ids ...string) error { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *memEntryRepo, *stubIndex) {
	t.Helper()
	clock := fixedClock{t: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	entryRepo := &memEntryRepo{entries: map[kdomain.EntryID]*kdomain.Entry{}}
	index := &stubIndex{}

	govSvc := &appgov.Service{
		Proposals:  &memProposalRepo{proposals: map[govdomain.ProposalID]*govdomain.Proposal{}},
		Reputation: &memReputationRepo{scores: map[string]float64{}},
		AI:         stubAI{},
		Clock:      clock,
	}
	ethicsSvc := &appethics.Service{
		Evaluations: &memEvalRepo{evals: map[ethdomain.EvaluationID]*ethdomain.Evaluation{}},
		Guidelines:  &memGuidelineRepo{},
		AI:          stubAI{},
		Index:       index,
		Gov:         govSvc,
		Clock:       clock,
	}
	knowledgeSvc := &appknowledge.Service{
		Repo:  entryRepo,
		AI:    stubAI{},
		Index: index,
		Rep:   govSvc,
		Clock: clock,
	}

	checkers := map[string]middleware.HealthChecker{
		"database": middleware.CheckFunc(func(context.Context) error { return nil }),
	}
	srv := httptest.NewServer(NewRouter(ethicsSvc, knowledgeSvc, govSvc, checkers))
	t.Cleanup(srv.Close)
	return srv, entryRepo, index
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestEvaluateEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/ethics/evaluate", `{"decision":"deny the claim","evaluator_id":"u1"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		ID            string   `json:"id"`
		DecisionScore float64  `json:"decision_score"`
		Explanation   string   `json:"explanation"`
		Concerns      []string `json:"concerns"`
		Suggestions   []string `json:"improvement_suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID == "" || out.DecisionScore != 82 || out.Explanation != "acceptable" {
		t.Errorf("unexpected payload: %+v", out)
	}
	if len(out.Concerns) != 1 || len(out.Suggestions) != 1 {
		t.Errorf("expected concern and suggestion lists, got %+v", out)
	}
}

func TestEvaluateEmptyDecision(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/ethics/evaluate", `{"decision":"  "}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error == "" {
		t.Error("expected error text in body")
	}
}

func TestAddEntryReturns201(t *testing.T) {
	srv, repo, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/knowledge/add",
		`{"title":"t","content":"c","tags":["ai"],"author_id":"u1"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var out kdomain.Entry
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID == "" || out.CreatedAt.IsZero() {
		t.Errorf("expected server-populated id and created_at, got %+v", out)
	}
	if _, ok := repo.entries[out.ID]; !ok {
		t.Error("entry not persisted")
	}
}

func TestSearchEndpoint(t *testing.T) {
	srv, repo, index := newTestServer(t)
	repo.entries["k1"] = &kdomain.Entry{ID: "k1", Title: "stored", AuthorID: "u1"}
	index.hits = []vector.Hit{{ID: "k1", Score: 0.88}}

	resp, err := http.Get(srv.URL + "/api/v1/knowledge/search?query=bias")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var out []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0]["title"] != "stored" {
		t.Fatalf("unexpected results: %v", out)
	}
	if out[0]["similarity_score"] != 0.88 {
		t.Errorf("expected flat similarity_score, got %v", out[0])
	}
}

func TestSearchEmptyQueryIs400(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/knowledge/search?query=")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetUnknownEntryIs404(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/knowledge/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestDeleteByNonAuthorIs403(t *testing.T) {
	srv, repo, _ := newTestServer(t)
	repo.entries["k1"] = &kdomain.Entry{ID: "k1", AuthorID: "owner"}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/knowledge/k1?author_id=intruder", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestGovernanceProposeAndVote(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/governance/propose", `{"description":"d","proposer_id":"u1"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		ProposalID string `json:"proposal_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	vote := postJSON(t, srv.URL+"/api/v1/governance/proposals/"+created.ProposalID+"/vote",
		`{"support":true,"voter_id":"u2"}`)
	defer vote.Body.Close()
	if vote.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", vote.StatusCode)
	}

	list, err := http.Get(srv.URL + "/api/v1/governance/proposals")
	if err != nil {
		t.Fatalf("GET proposals: %v", err)
	}
	defer list.Body.Close()
	var proposals []govdomain.Proposal
	if err := json.NewDecoder(list.Body).Decode(&proposals); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(proposals) != 1 || proposals[0].VotesFor != 1 {
		t.Errorf("unexpected proposals: %+v", proposals)
	}

	one, err := http.Get(srv.URL + "/api/v1/governance/proposals/" + created.ProposalID)
	if err != nil {
		t.Fatalf("GET proposal: %v", err)
	}
	defer one.Body.Close()
	var got govdomain.Proposal
	if err := json.NewDecoder(one.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got.ID) != created.ProposalID || got.VotesFor != 1 {
		t.Errorf("unexpected proposal: %+v", got)
	}
}

func TestScenarioEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/ethics/scenario", `{"scenario":"s","decision":"d"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out map[string]string
	json.NewDecoder(resp.Body).Decode(&out)
	if out["feedback"] != "consider autonomy" {
		t.Errorf("unexpected feedback: %v", out)
	}
}

func TestGuidelinesEndpointReturnsTexts(t *testing.T) {
	srv, _, _ := newTestServer(t)

	add := postJSON(t, srv.URL+"/api/v1/ethics/guidelines", `{"principle":"justice","description":"treat like cases alike"}`)
	defer add.Body.Close()
	if add.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", add.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/api/v1/ethics/guidelines")
	if err != nil {
		t.Fatalf("GET guidelines: %v", err)
	}
	defer resp.Body.Close()
	var texts []string
	if err := json.NewDecoder(resp.Body).Decode(&texts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(texts) != 1 || texts[0] != "treat like cases alike" {
		t.Errorf("unexpected guideline texts: %v", texts)
	}
}

func TestLatestEvaluationsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	for _, body := range []string{
		`{"decision":"approve the loan","evaluator_id":"u1"}`,
		`{"decision":"deny the claim","evaluator_id":"u2"}`,
	} {
		resp := postJSON(t, srv.URL+"/api/v1/ethics/evaluate", body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("evaluate: expected 200, got %d", resp.StatusCode)
		}
	}

	all, err := http.Get(srv.URL + "/api/v1/ethics/evaluations")
	if err != nil {
		t.Fatalf("GET evaluations: %v", err)
	}
	defer all.Body.Close()
	var evals []ethdomain.Evaluation
	if err := json.NewDecoder(all.Body).Decode(&evals); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(evals) != 2 {
		t.Fatalf("expected 2 evaluations, got %d", len(evals))
	}

	filtered, err := http.Get(srv.URL + "/api/v1/ethics/evaluations?evaluator=u1")
	if err != nil {
		t.Fatalf("GET evaluations: %v", err)
	}
	defer filtered.Body.Close()
	evals = nil
	if err := json.NewDecoder(filtered.Body).Decode(&evals); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(evals) != 1 || evals[0].EvaluatorID != "u1" {
		t.Errorf("unexpected filtered evaluations: %+v", evals)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var status struct {
		Status string `json:"status"`
		Checks map[string]struct {
			Status string `json:"status"`
		} `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != "healthy" || status.Checks["database"].Status != "healthy" {
		t.Errorf("unexpected health status: %+v", status)
	}

	live, err := http.Get(srv.URL + "/health/live")
	if err != nil {
		t.Fatalf("GET liveness: %v", err)
	}
	defer live.Body.Close()
	if live.StatusCode != http.StatusOK {
		t.Errorf("liveness: expected 200, got %d", live.StatusCode)
	}
}
