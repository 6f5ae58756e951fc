package client

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
)

// Flow identifies one independent submit/render interaction.
type Flow int

const (
	FlowEvaluate Flow = iota
	FlowSearch
	FlowAddEntry
)

// FlowState tracks where a flow is in its lifecycle.
type FlowState int

const (
	StateIdle FlowState = iota
	StateSubmitting
	StateRendered
	StateFailed
)

const (
	evaluateAlert = "An error occurred while evaluating ethics."
	searchAlert   = "An error occurred while searching the knowledge base."
	addEntryAlert = "An error occurred while adding the knowledge entry."

	noResultsMessage = "No results found."
	entryAddedNotice = "Knowledge entry added."

	createdAtLayout = "Jan 2, 2006 3:04 PM"
)

// Orchestrator binds user interactions to API calls and renders the outcome
// through the injected View. Flows are independent; each owns its own state.
type Orchestrator struct {
	api  *API
	view View
	log  *log.Logger

	mu          sync.Mutex
	states      map[Flow]FlowState
	formVisible bool
}

func NewOrchestrator(api *API, view View, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		api:    api,
		view:   view,
		log:    logger,
		states: make(map[Flow]FlowState),
	}
}

// State reports the current state of a flow.
func (o *Orchestrator) State(f Flow) FlowState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.states[f]
}

func (o *Orchestrator) setState(f Flow, s FlowState) {
	o.mu.Lock()
	o.states[f] = s
	o.mu.Unlock()
}

// SubmitEvaluation sends a decision for evaluation and renders the result.
// Empty input is rejected locally without a request.
func (o *Orchestrator) SubmitEvaluation(ctx context.Context, decisionText string) error {
	decision := strings.TrimSpace(decisionText)
	if decision == "" {
		o.view.Alert("Please describe the decision to evaluate.")
		return errors.New("empty decision")
	}

	o.setState(FlowEvaluate, StateSubmitting)
	res, err := o.api.Evaluate(ctx, decision)
	if err != nil {
		o.fail(FlowEvaluate, evaluateAlert, err)
		return err
	}

	o.view.ClearResults()
	o.view.ShowEvaluation(res.DecisionScore, res.Explanation, res.Concerns, res.Suggestions)
	o.setState(FlowEvaluate, StateRendered)
	return nil
}

// SubmitSearch queries the knowledge base and renders entries in server order.
func (o *Orchestrator) SubmitSearch(ctx context.Context, queryText string) error {
	o.setState(FlowSearch, StateSubmitting)
	entries, err := o.api.Search(ctx, queryText)
	if err != nil {
		o.fail(FlowSearch, searchAlert, err)
		return err
	}

	o.view.ClearResults()
	if len(entries) == 0 {
		o.view.ShowMessage(noResultsMessage)
	} else {
		for _, e := range entries {
			created := ""
			if !e.CreatedAt.IsZero() {
				created = e.CreatedAt.Local().Format(createdAtLayout)
			}
			o.view.ShowEntry(e.Title, e.Content, strings.Join(e.Tags, ", "), e.AuthorID, created)
		}
	}
	o.setState(FlowSearch, StateRendered)
	return nil
}

// ToggleAddEntryForm flips the entry form's visibility. No network effect.
func (o *Orchestrator) ToggleAddEntryForm() {
	o.mu.Lock()
	o.formVisible = !o.formVisible
	visible := o.formVisible
	o.mu.Unlock()

	if visible {
		o.view.ShowEntryForm()
	} else {
		o.view.HideEntryForm()
	}
}

// FormVisible reports whether the entry form is currently shown.
func (o *Orchestrator) FormVisible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.formVisible
}

// SubmitNewEntry creates a knowledge entry. Tags are split on commas with
// whitespace trimmed and empty tokens dropped. authorID identifies the caller.
// Empty title or content is rejected locally without a request.
func (o *Orchestrator) SubmitNewEntry(ctx context.Context, title, content, tagsText, authorID string) error {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		o.view.Alert("Please provide a title and content for the entry.")
		return errors.New("empty title or content")
	}

	o.setState(FlowAddEntry, StateSubmitting)

	entry := KnowledgeEntry{
		Title:    title,
		Content:  content,
		Tags:     SplitTags(tagsText),
		AuthorID: authorID,
	}
	created, err := o.api.AddEntry(ctx, entry)
	if err != nil {
		o.fail(FlowAddEntry, addEntryAlert, err)
		return err
	}

	o.view.Notify(entryAddedNotice)
	o.view.ClearEntryForm()
	o.view.HideEntryForm()
	o.mu.Lock()
	o.formVisible = false
	o.mu.Unlock()
	o.setState(FlowAddEntry, StateRendered)

	o.log.Printf("knowledge entry created id=%s", created.ID)
	return nil
}

// FetchGuidelines renders the current ethical guidelines.
func (o *Orchestrator) FetchGuidelines(ctx context.Context) error {
	guidelines, err := o.api.Guidelines(ctx)
	if err != nil {
		o.view.Alert(evaluateAlert)
		o.log.Printf("fetch guidelines failed: %v", err)
		return err
	}
	o.view.ClearResults()
	for _, text := range guidelines {
		o.view.ShowGuideline(text)
	}
	return nil
}

// fail logs the underlying error and surfaces exactly one alert for the flow.
// Server-provided error text is appended to the generic message when present.
func (o *Orchestrator) fail(f Flow, message string, err error) {
	o.setState(f, StateFailed)
	o.log.Printf("flow %d failed: %v", f, err)

	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		message = message + " (" + se.Message + ")"
	}
	o.view.Alert(message)
}

// SplitTags turns a comma-separated string into trimmed, non-empty tags.
func SplitTags(tagsText string) []string {
	parts := strings.Split(tagsText, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
