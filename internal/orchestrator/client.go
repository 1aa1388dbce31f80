// Package orchestrator drives one scanned note through the full workflow:
// intake, translation, structuring, summarization, conditional patient-language
// re-translation, and referral packet rendering.
package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medpass/medpass/internal/agent"
	"github.com/medpass/medpass/internal/logging"
	"github.com/medpass/medpass/internal/wire"
)

// Stage calls carry OCR images and LLM round-trips; generous by default.
const defaultStageTimeout = 180 * time.Second

// Client posts wire envelopes to agents and resolves their cards.
type Client struct {
	http *http.Client
	log  zerolog.Logger
}

// NewClient builds an agent client with the given per-request timeout.
// A non-positive timeout selects the default.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultStageTimeout
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
		log:  logging.Component("client"),
	}
}

// Send posts one capability invocation to the agent at baseURL and returns
// the reply payload. An error envelope from the agent is returned as a
// *wire.ErrorInfo.
func (c *Client) Send(ctx context.Context, baseURL, capability string, payload map[string]any) (map[string]any, error) {
	body, err := json.Marshal(wire.NewRequest(capability, payload))
	if err != nil {
		return nil, fmt.Errorf("encode request envelope: %w", err)
	}

	url := strings.TrimRight(baseURL, "/") + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug().Str("url", url).Str("capability", capability).Msg("sending message")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("post %s: unexpected status %d", url, resp.StatusCode)
	}

	decoded, err := wire.DecodeResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("response from %s: %w", url, err)
	}
	if decoded.Error != nil {
		return nil, decoded.Error
	}
	return decoded.Payload, nil
}

// FetchCard retrieves the agent card from baseURL. The supervisor polls this
// for readiness; callers use it to discover advertised skills.
func (c *Client) FetchCard(ctx context.Context, baseURL string) (agent.Card, error) {
	url := strings.TrimRight(baseURL, "/") + agent.CardPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return agent.Card{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return agent.Card{}, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return agent.Card{}, fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}
	var card agent.Card
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return agent.Card{}, fmt.Errorf("decode card from %s: %w", url, err)
	}
	return card, nil
}
