package bser

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/ksj1368/er-crawler/internal/platform/logging"
	"github.com/ksj1368/er-crawler/internal/platform/resilience"
	"github.com/ksj1368/er-crawler/internal/usecase"
)

const defaultBaseURL = "https://open-api.bser.io"

// apiKeyHeader carries the credential; it never appears in the URL.
const apiKeyHeader = "x-api-key"

var apiKeyHeaderRegex = regexp.MustCompile(`(?i)x-api-key:\s*[^\s"']+`)
var errBserTransient = crerr.New("bser transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight

	static staticCache
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// TopRankers lists the ranked leaderboard for one season and queue.
func (c *Client) TopRankers(ctx context.Context, seasonID, matchingMode int) ([]usecase.ExternalRankedUser, error) {
	if seasonID <= 0 {
		return nil, fmt.Errorf("season id must be greater than zero")
	}

	path := fmt.Sprintf("/v1/rank/top/%d/%d", seasonID, matchingMode)
	var envelope topRankEnvelope
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch top rankers season_id=%d mode=%d: %w", seasonID, matchingMode, err)
	}
	if err := envelope.ok(); err != nil {
		return nil, fmt.Errorf("fetch top rankers season_id=%d mode=%d: %w", seasonID, matchingMode, err)
	}
	return envelope.TopRanks, nil
}

// UserMatchPage fetches one page of a player's match history, newest first.
// next is the pagination token from the previous page, zero for the first.
func (c *Client) UserMatchPage(ctx context.Context, userNum, next int64) (usecase.ExternalUserMatchPage, error) {
	if userNum <= 0 {
		return usecase.ExternalUserMatchPage{}, fmt.Errorf("user num must be greater than zero")
	}

	path := fmt.Sprintf("/v1/user/games/%d", userNum)
	var query map[string]string
	if next > 0 {
		query = map[string]string{"next": strconv.FormatInt(next, 10)}
	}

	var envelope userGamesEnvelope
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return usecase.ExternalUserMatchPage{}, fmt.Errorf("fetch user games user_num=%d next=%d: %w", userNum, next, err)
	}
	// The provider reports an exhausted history as code 404.
	if envelope.Code == http.StatusNotFound {
		return usecase.ExternalUserMatchPage{}, nil
	}
	if err := envelope.ok(); err != nil {
		return usecase.ExternalUserMatchPage{}, fmt.Errorf("fetch user games user_num=%d next=%d: %w", userNum, next, err)
	}

	return usecase.ExternalUserMatchPage{UserGames: envelope.UserGames, Next: envelope.Next}, nil
}

// MatchByID fetches the full record of one match, one entry per participant.
func (c *Client) MatchByID(ctx context.Context, matchID int64) (*usecase.ExternalMatchPayload, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("match id must be greater than zero")
	}

	path := fmt.Sprintf("/v1/games/%d", matchID)
	var envelope matchEnvelope
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch match match_id=%d: %w", matchID, err)
	}
	if envelope.Code == http.StatusNotFound {
		return nil, fmt.Errorf("%w: match %d", usecase.ErrNotFound, matchID)
	}
	if err := envelope.ok(); err != nil {
		return nil, fmt.Errorf("fetch match match_id=%d: %w", matchID, err)
	}

	return &usecase.ExternalMatchPayload{UserGames: envelope.UserGames}, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "bser circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: game data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL, true)
		if c.circuitEnabled {
			if reqErr != nil && isBserCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string, authenticated bool) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if authenticated {
			req.Header.Set(apiKeyHeader, c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errBserTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 24<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errBserTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: provider status=%d body=%s", errBserTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					lastErr = fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				}
				if !isRetryableStatus(resp.StatusCode) {
					return nil, lastErr
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "bser request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	value = apiKeyHeaderRegex.ReplaceAllString(value, "x-api-key: REDACTED")
	return value
}

func isBserCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errBserTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}

type apiEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e apiEnvelope) ok() error {
	if e.Code == http.StatusOK {
		return nil
	}
	return fmt.Errorf("provider code=%d message=%s", e.Code, strings.TrimSpace(e.Message))
}

type topRankEnvelope struct {
	apiEnvelope
	TopRanks []usecase.ExternalRankedUser `json:"topRanks"`
}

type userGamesEnvelope struct {
	apiEnvelope
	UserGames []usecase.ExternalUserGame `json:"userGames"`
	Next      int64                      `json:"next"`
}

type matchEnvelope struct {
	apiEnvelope
	UserGames []usecase.ExternalUserGame `json:"userGames"`
}
