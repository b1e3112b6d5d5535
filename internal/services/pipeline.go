// Pipeline client for the hosted summary database
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsum/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultTimeout = 10 * time.Second

// PipelineClient executes statements against the remote store's HTTP pipeline endpoint.
type PipelineClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// PipelineOpts configures a [PipelineClient].
type PipelineOpts struct {
	BaseURL           string
	AuthToken         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Transport         http.RoundTripper
	Logger            *log.Logger
}

// NewPipelineClient creates a client for the database at opts.BaseURL.
//
// The bearer credential is attached by an [oauth2.Transport] over a static token source.
func NewPipelineClient(opts PipelineOpts) *PipelineClient {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	transport := opts.Transport
	if opts.AuthToken != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.AuthToken, TokenType: "Bearer"}),
			Base:   opts.Transport,
		}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &PipelineClient{
		baseURL:    NormalizeBaseURL(opts.BaseURL),
		httpClient: &http.Client{Timeout: opts.Timeout, Transport: transport},
		limiter:    limiter,
		logger:     opts.Logger,
	}
}

// NormalizeBaseURL rewrites libsql:// URLs to https:// and strips trailing slashes.
func NormalizeBaseURL(u string) string {
	u = strings.TrimSpace(u)
	if rest, ok := strings.CutPrefix(u, "libsql://"); ok {
		u = "https://" + rest
	}
	return strings.TrimRight(u, "/")
}

// BaseURL returns the normalized database URL.
func (c *PipelineClient) BaseURL() string { return c.baseURL }

// Execute runs a single statement and returns its decoded result.
//
// Non-success statuses, timeouts, undecodable bodies and statement errors are all failures;
// they wrap [shared.ErrAPIRequest], [shared.ErrTimeout], [shared.ErrDecode] and [shared.ErrStatement].
func (c *PipelineClient) Execute(ctx context.Context, sql string, args ...any) (*StmtResult, error) {
	values := make([]Value, 0, len(args))
	for _, a := range args {
		v, err := EncodeValue(a)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	body, err := json.Marshal(PipelineRequest{
		Requests: []StreamRequest{{Type: "execute", Stmt: &Stmt{SQL: sql, Args: values}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrTimeout, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PipelinePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	logger := c.logger.With("request_id", requestID)
	logger.Debug("executing statement", "sql", sql, "args", len(args))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %w", shared.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	logger.Debug("pipeline response", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, shared.Truncate(string(data), 200))
	}

	var pr PipelineResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}

	if len(pr.Results) == 0 {
		return nil, fmt.Errorf("%w: no results", shared.ErrDecode)
	}

	result := pr.Results[0]
	if result.Type == "error" || result.Error != nil {
		msg := "unknown error"
		if result.Error != nil {
			msg = result.Error.Error()
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrStatement, msg)
	}

	if result.Response == nil || result.Response.Result == nil {
		return nil, fmt.Errorf("%w: missing statement result", shared.ErrDecode)
	}

	return result.Response.Result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
