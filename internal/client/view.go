package client

// View is the presentation port the orchestrator drives. Implementations
// range from a terminal renderer to a recording fake in tests.
type View interface {
	// ClearResults wipes the result surface before a fresh render.
	ClearResults()

	ShowEvaluation(score float64, explanation string, concerns, suggestions []string)
	ShowEntry(title, content, tags, author, created string)
	ShowGuideline(text string)
	ShowMessage(text string)

	// Notify surfaces a confirmation; Alert surfaces a failure.
	Notify(text string)
	Alert(text string)

	ShowEntryForm()
	HideEntryForm()
	ClearEntryForm()
}
