// Package remote implementa el scorer contra el servicio HTTP de ranking
// visual. El contrato es el mismo que el del endpoint /v1/search: se piden
// candidatos para un caso y vuelven pre-rankeados.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pet-lostfound/internal/domain/search"
	"pet-lostfound/internal/platform/httpclient"
)

const defaultTimeout = 5 * time.Second

type Scorer struct {
	client *httpclient.Client
}

func New(baseURL string) (*Scorer, error) {
	c, err := httpclient.NewWithBaseURL(baseURL, defaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("scorer base url: %w", err)
	}
	return &Scorer{client: c}, nil
}

// NewWithClient permite inyectar el client (para tests con RoundTripper fake).
func NewWithClient(c *httpclient.Client) *Scorer {
	return &Scorer{client: c}
}

type rankRequest struct {
	CaseID string `json:"case_id"`
}

type rankResponse struct {
	Candidates []struct {
		PetID string  `json:"pet_id"`
		Score float64 `json:"score"`
		Band  string  `json:"band"`
	} `json:"candidates"`
}

func (s *Scorer) Candidates(ctx context.Context, caseID string) ([]search.Candidate, error) {
	var resp rankResponse
	err := s.client.DoJSON(ctx, http.MethodPost, "/v1/rank", nil, rankRequest{CaseID: caseID}, &resp)
	if err != nil {
		return nil, fmt.Errorf("remote scorer: %w", err)
	}

	out := make([]search.Candidate, 0, len(resp.Candidates))
	for _, c := range resp.Candidates {
		out = append(out, search.Candidate{
			PetID: c.PetID,
			Score: c.Score,
			Band:  search.Band(c.Band),
		})
	}
	return out, nil
}
