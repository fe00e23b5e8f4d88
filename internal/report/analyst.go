// Package report holds the boundary to the external AI analyst. The core
// hands it a read-only snapshot and treats whatever comes back as opaque
// text; nothing in the ledger depends on its content or availability.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/talalam23/stock-wise/internal/inventory/domain"
	"github.com/talalam23/stock-wise/internal/inventory/usecase/query"
)

// ErrUnavailable is returned when the analyst is not configured or the
// upstream service cannot be reached
var ErrUnavailable = errors.New("analyst unavailable")

// Snapshot is the read-only view handed to the analyst
type Snapshot struct {
	Stats    *query.DashboardStats `json:"stats"`
	Products []domain.Product      `json:"products"`
}

// Analyst generates a report from an inventory snapshot
type Analyst interface {
	GenerateReport(ctx context.Context, snapshot Snapshot) (string, error)
}

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiAnalyst calls the Google Gemini REST API
type GeminiAnalyst struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewGeminiAnalyst creates a Gemini-backed analyst. An empty API key yields
// an analyst that always reports ErrUnavailable.
func NewGeminiAnalyst(apiKey string) *GeminiAnalyst {
	return &GeminiAnalyst{
		apiKey:     apiKey,
		model:      defaultGeminiModel,
		endpoint:   "https://generativelanguage.googleapis.com/v1beta",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateReport asks Gemini for an executive summary of the snapshot
func (a *GeminiAnalyst) GenerateReport(ctx context.Context, snapshot Snapshot) (string, error) {
	if a.apiKey == "" {
		return "", ErrUnavailable
	}

	prompt, err := buildPrompt(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.endpoint, a.model, a.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: upstream returned %d", ErrUnavailable, resp.StatusCode)
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

func buildPrompt(snapshot Snapshot) (string, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You are a supply chain analyst. Based on the following inventory snapshot, ")
	b.WriteString("write a short executive summary in markdown: overall inventory health, ")
	b.WriteString("products that need reordering, and notable recent activity.\n\n")
	b.Write(data)
	return b.String(), nil
}
