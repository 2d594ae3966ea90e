package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// GenerativeClient produces text for a prompt.
type GenerativeClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SearchResult is what the search endpoint returns. Err is set only for
// an empty query or a missing client; upstream failures are reported
// in Text.
type SearchResult struct {
	Text string
	Err  error
}

// SearchService forwards free-text queries to a generative model.
// A nil client disables the feature.
type SearchService struct {
	client GenerativeClient
	log    logrus.FieldLogger
}

func NewSearchService(client GenerativeClient, log logrus.FieldLogger) *SearchService {
	return &SearchService{client: client, log: log}
}

func (s *SearchService) Search(ctx context.Context, query string) SearchResult {
	if s.client == nil {
		err := newError(ErrUnavailable, "Gemini search is not configured.")
		return SearchResult{Text: err.Message, Err: err}
	}
	query = strings.TrimSpace(query)
	if query == "" {
		err := newError(ErrValidation, "Please enter a search query.")
		return SearchResult{Text: err.Message, Err: err}
	}

	text, err := s.client.Generate(ctx, query)
	if err != nil {
		s.log.WithError(err).Warn("gemini search failed")
		return SearchResult{Text: fmt.Sprintf("Gemini search error: %v", err)}
	}
	return SearchResult{Text: text}
}
