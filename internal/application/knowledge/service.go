package knowledge

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/ethosnet/ethosnet/internal/application"
	domai "github.com/ethosnet/ethosnet/internal/domain/ai"
	"github.com/ethosnet/ethosnet/internal/domain/governance"
	domain "github.com/ethosnet/ethosnet/internal/domain/knowledge"
	"github.com/ethosnet/ethosnet/internal/domain/vector"
)

// EntryCollection is the vector index collection for knowledge entries.
const EntryCollection = "ethosnet_knowledge"

// DefaultSearchLimit bounds a search when the caller does not pass one.
const DefaultSearchLimit = 5

// Recorder is the slice of the governance service the knowledge use-cases need.
type Recorder interface {
	RecordContribution(ctx context.Context, userID string, kind governance.ContributionKind, content string)
}

// AddEntryCommand carries the fields of a new entry.
type AddEntryCommand struct {
	Title       string
	Content     string
	ContentType domain.ContentType
	Tags        []string
	AuthorID    string
}

// Service implements the knowledge base use-cases. Safe for concurrent use.
type Service struct {
	Repo  domain.Repository
	AI    domai.Client
	Index vector.Index
	Rep   Recorder
	Clock application.Clock
}

// Add validates, scores and persists a new entry, indexes its embedding and
// records the contribution. Returns the populated entry (id, created_at).
func (s *Service) Add(ctx context.Context, cmd AddEntryCommand) (*domain.Entry, error) {
	title := strings.TrimSpace(cmd.Title)
	content := strings.TrimSpace(cmd.Content)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if content == "" {
		return nil, domain.ErrEmptyContent
	}
	if len(content) > domain.MaxContentLength {
		return nil, domain.ErrContentTooLong
	}

	contentType := cmd.ContentType
	if contentType == "" {
		contentType = domain.ContentText
	}

	quality, relevance, err := s.AI.ScoreEntry(ctx, title, content)
	if err != nil {
		// Scoring is advisory; a failed call leaves the entry pending at zero.
		log.Printf("entry scoring failed: %v", err)
	}

	now := s.Clock.Now()
	entry := &domain.Entry{
		ID:             domain.EntryID(uuid.New().String()),
		Title:          title,
		Content:        content,
		ContentType:    contentType,
		Tags:           cmd.Tags,
		AuthorID:       cmd.AuthorID,
		CreatedAt:      now,
		UpdatedAt:      now,
		ReviewStatus:   domain.ReviewPending,
		QualityScore:   quality,
		RelevanceScore: relevance,
		Version:        1,
	}

	vec, err := s.AI.Embed(ctx, title+"\n"+content)
	if err != nil {
		return nil, fmt.Errorf("embed entry: %w", err)
	}
	entry.Embedding = vec

	if err := s.Repo.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	if err := s.Index.Upsert(ctx, EntryCollection, vector.Point{
		ID:      string(entry.ID),
		Vector:  vec,
		Payload: map[string]any{"title": title, "author_id": cmd.AuthorID},
	}); err != nil {
		return nil, fmt.Errorf("index entry: %w", err)
	}

	if s.Rep != nil && cmd.AuthorID != "" {
		s.Rep.RecordContribution(ctx, cmd.AuthorID, governance.KindKnowledgeAddition, content)
	}

	return entry, nil
}

// Get returns one entry by id.
func (s *Service) Get(ctx context.Context, id domain.EntryID) (*domain.Entry, error) {
	return s.Repo.Get(ctx, id)
}

// Update replaces an entry's content. Author-only; bumps version, re-embeds
// and resets the review status.
func (s *Service) Update(ctx context.Context, id domain.EntryID, title, content string, tags []string, authorID string) (*domain.Entry, error) {
	existing, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != authorID {
		return nil, domain.ErrNotAuthor
	}

	if t := strings.TrimSpace(title); t != "" {
		existing.Title = t
	}
	if c := strings.TrimSpace(content); c != "" {
		if len(c) > domain.MaxContentLength {
			return nil, domain.ErrContentTooLong
		}
		existing.Content = c
	}
	if tags != nil {
		existing.Tags = tags
	}

	existing.Version++
	existing.UpdatedAt = s.Clock.Now()
	existing.ReviewStatus = domain.ReviewPending

	vec, err := s.AI.Embed(ctx, existing.Title+"\n"+existing.Content)
	if err != nil {
		return nil, fmt.Errorf("embed entry: %w", err)
	}
	existing.Embedding = vec

	if err := s.Repo.Save(ctx, existing); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	if err := s.Index.Upsert(ctx, EntryCollection, vector.Point{
		ID:      string(existing.ID),
		Vector:  vec,
		Payload: map[string]any{"title": existing.Title, "author_id": existing.AuthorID},
	}); err != nil {
		return nil, fmt.Errorf("index entry: %w", err)
	}

	if s.Rep != nil {
		s.Rep.RecordContribution(ctx, authorID, governance.KindKnowledgeUpdate, existing.Content)
	}

	return existing, nil
}

// Delete removes an entry. Author-only.
func (s *Service) Delete(ctx context.Context, id domain.EntryID, requesterID string) error {
	existing, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.AuthorID != requesterID {
		return domain.ErrNotAuthor
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Index.Delete(ctx, EntryCollection, string(id)); err != nil {
		log.Printf("delete index point %s: %v", id, err)
	}
	return nil
}

// Search embeds the query, runs a similarity search and hydrates the rows
// in score order. Points without a backing row are skipped.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	vec, err := s.AI.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := s.Index.Search(ctx, EntryCollection, vec, limit, 0)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		entry, gerr := s.Repo.Get(ctx, domain.EntryID(h.ID))
		if gerr != nil {
			continue
		}
		results = append(results, domain.SearchResult{Entry: *entry, SimilarityScore: h.Score})
	}
	return results, nil
}

// Summarize searches a topic and condenses the matching entries.
func (s *Service) Summarize(ctx context.Context, topic string) (string, error) {
	results, err := s.Search(ctx, topic, DefaultSearchLimit)
	if err != nil {
		return "", err
	}
	passages := make([]string, len(results))
	for i, r := range results {
		passages[i] = r.Content
	}
	return s.AI.Summarize(ctx, topic, passages)
}

// Latest lists recent entries, newest first.
func (s *Service) Latest(ctx context.Context, limit, offset int) ([]*domain.Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.Repo.Latest(ctx, limit, offset)
}
