// Package practicum implements the Practicum homework statuses API client.
package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"homework-status-bot/internal/config"
	"homework-status-bot/internal/domain"
	"homework-status-bot/internal/domain/ports/adapter"
	"homework-status-bot/internal/infra/metrics"
	"homework-status-bot/internal/usecase"
)

var _ adapter.HomeworkAPI = (*Client)(nil)

// maxBodySize bounds how much of a response we are willing to buffer.
const maxBodySize = 1 << 20

// Client performs one GET per call; retries are the poll loop's business.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	log        *zerolog.Logger
}

// NewClient builds a client from config. httpClient may be nil.
func NewClient(cfg *config.PracticumConfig, httpClient *http.Client, logger *zerolog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("practicum config is nil")
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	compLog := logger.With().Str("component", "PracticumClient").Logger()
	return &Client{
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		httpClient: httpClient,
		log:        &compLog,
	}, nil
}

// GetHomeworkStatuses asks for every status change since fromDate.
func (c *Client) GetHomeworkStatuses(ctx context.Context, fromDate int64) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest("error", time.Since(start))
		return nil, &domain.Error{Kind: domain.KindNetwork, Err: err}
	}
	defer resp.Body.Close()
	metrics.ObserveAPIRequest(strconv.Itoa(resp.StatusCode), time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindNetwork, Err: fmt.Errorf("read response: %w", err)}
	}

	c.log.Debug().
		Int64("from_date", fromDate).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("homework statuses fetched")

	if resp.StatusCode != http.StatusOK {
		// 400 and 401 come with a JSON error envelope worth surfacing.
		var envelope any
		if json.Unmarshal(body, &envelope) == nil {
			if serr := usecase.ServerError(envelope); serr != nil {
				serr.StatusCode = resp.StatusCode
				return nil, serr
			}
		}
		return nil, &domain.Error{Kind: domain.KindHTTPStatus, StatusCode: resp.StatusCode}
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.Error{Kind: domain.KindShapeMismatch, Field: "response", Expected: "dict", Err: err}
	}
	return payload, nil
}

