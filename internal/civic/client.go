package civic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"ballotguide/internal/platform/config"
	"ballotguide/pkg/platform/sentinel"
)

// The providers keep a fixture address wired to a fixed election so the whole
// pipeline can be exercised outside election season.
const (
	fixtureAddressPrefix = "1263 Pacific Ave"
	fixtureAddressCity   = "Kansas City, KS"
	fixtureElectionID    = "2000"
)

// Client talks to both upstream election-data providers. Failures surface as
// sentinel.ErrNoData when the provider has nothing for the address; the
// caller proceeds with whatever source succeeded.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// New constructs a provider client from configuration.
func New(cfg config.CivicConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
	}
}

// VoterInfo fetches Provider A's official ballot for an address.
func (c *Client) VoterInfo(ctx context.Context, address string) (*VoterInfoResponse, error) {
	q := url.Values{"address": {address}}
	if strings.HasPrefix(address, fixtureAddressPrefix) && strings.Contains(address, fixtureAddressCity) {
		q.Set("electionId", fixtureElectionID)
	}

	var out VoterInfoResponse
	if err := c.get(ctx, "/voterinfo", q, &out); err != nil {
		return nil, fmt.Errorf("voter info for address: %w", err)
	}
	return &out, nil
}

// Representatives fetches Provider B's division mapping for an address.
// Offices are not requested; only the jurisdictions matter here.
func (c *Client) Representatives(ctx context.Context, address string) (*RepresentativesResponse, error) {
	q := url.Values{
		"address":        {address},
		"includeOffices": {"false"},
	}

	var out RepresentativesResponse
	if err := c.get(ctx, "/representatives", q, &out); err != nil {
		return nil, fmt.Errorf("representatives for address: %w", err)
	}
	return &out, nil
}

// Elections fetches Provider A's catalogue of known elections.
func (c *Client) Elections(ctx context.Context) (*ElectionListResponse, error) {
	var out ElectionListResponse
	if err := c.get(ctx, "/elections", url.Values{}, &out); err != nil {
		return nil, fmt.Errorf("election catalogue: %w", err)
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		// The provider answers 400 when it has no data for the address.
		io.Copy(io.Discard, resp.Body)
		return sentinel.ErrNoData
	default:
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
