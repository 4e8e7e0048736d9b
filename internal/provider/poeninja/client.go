package poeninja

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/exilewatch/exilewatch/internal/core"
	"github.com/exilewatch/exilewatch/internal/metrics"
	"github.com/exilewatch/exilewatch/internal/retry"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	pathCurrencyOverview = "/api/data/currencyoverview"
	pathItemOverview     = "/api/data/itemoverview"
	pathCardOverview     = "/poe1/api/economy/stash/current/item/overview"
	pathIndexState       = "/api/data/getindexstate"
	pathHistoricalDump   = "/poe1/api/data/dumps/dump"
)

// Client fetches raw category payloads from poe.ninja. The provider is
// read-only; all calls are GETs. Transient failures (network, 429, 5xx) are
// retried under the configured backoff policy, scoped to one fetch.
type Client struct {
	http    *resty.Client
	retry   retry.Policy
	metrics *metrics.Registry
	log     *zap.Logger
}

// NewClient creates a poe.ninja client.
func NewClient(baseURL string, timeout time.Duration, policy retry.Policy, m *metrics.Registry, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "exilewatch/1.0")

	return &Client{
		http:    httpClient,
		retry:   policy,
		metrics: m,
		log:     log,
	}
}

// CurrencyOverview fetches the current currency snapshot for a league.
func (c *Client) CurrencyOverview(ctx context.Context, league string) (*Overview, error) {
	body, err := c.get(ctx, pathCurrencyOverview, map[string]string{
		"league": league,
		"type":   "Currency",
	})
	if err != nil {
		return nil, err
	}
	return decodeOverview(body)
}

// CardOverview fetches the current divination card snapshot for a league.
func (c *Client) CardOverview(ctx context.Context, league string) (*Overview, error) {
	body, err := c.get(ctx, pathCardOverview, map[string]string{
		"league": league,
		"type":   "DivinationCard",
	})
	if err != nil {
		return nil, err
	}
	return decodeOverview(body)
}

// ItemOverview fetches the current unique item snapshot for a league.
func (c *Client) ItemOverview(ctx context.Context, league string) (*Overview, error) {
	body, err := c.get(ctx, pathItemOverview, map[string]string{
		"league": league,
		"type":   "UniqueWeapon",
	})
	if err != nil {
		return nil, err
	}
	return decodeOverview(body)
}

// LeagueNames returns the provider's indexed economy league names, newest
// first.
func (c *Client) LeagueNames(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, pathIndexState, nil)
	if err != nil {
		return nil, err
	}

	var state indexState
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, core.WrapError(core.ErrTransport, fmt.Errorf("decoding index state: %w", err))
	}

	names := make([]string, 0, len(state.EconomyLeagues))
	for _, lg := range state.EconomyLeagues {
		if lg.Indexed && lg.Name != "" {
			names = append(names, lg.Name)
		}
	}
	return names, nil
}

// HistoricalDump fetches and unpacks the historical dump for an expired
// league: a ZIP archive of semicolon-separated CSV files.
func (c *Client) HistoricalDump(ctx context.Context, league string) (*Dump, error) {
	body, err := c.get(ctx, pathHistoricalDump, map[string]string{
		"name": league,
	})
	if err != nil {
		return nil, err
	}
	return decodeDump(body)
}

// get performs one GET with retries. Client errors other than 429 are not
// retried; the dump endpoint legitimately 404s for leagues without dumps.
func (c *Client) get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	var body []byte
	var permanentErr error

	err := c.retry.Do(ctx, func() error {
		permanentErr = nil
		req := c.http.R().SetContext(ctx)
		if query != nil {
			req.SetQueryParams(query)
		}
		resp, err := req.Get(path)
		if err != nil {
			return err
		}

		status := resp.StatusCode()
		switch {
		case status == http.StatusOK:
			body = resp.Body()
			return nil
		case status == http.StatusTooManyRequests || status >= 500:
			return fmt.Errorf("provider returned status %d", status)
		default:
			permanentErr = fmt.Errorf("provider returned status %d", status)
			return nil
		}
	}, func(attempt int, err error) {
		c.metrics.RecordFetchRetry(path)
		c.log.Warn("provider fetch retrying",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	})

	if err == nil {
		err = permanentErr
	}
	if err != nil {
		return nil, core.WrapError(core.ErrTransport, fmt.Errorf("GET %s: %w", path, err))
	}
	return body, nil
}

func decodeOverview(body []byte) (*Overview, error) {
	var ov Overview
	if err := json.Unmarshal(body, &ov); err != nil {
		return nil, core.WrapError(core.ErrTransport, fmt.Errorf("decoding overview: %w", err))
	}
	ov.Raw = body
	return &ov, nil
}
