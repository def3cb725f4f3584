package bluelink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/voxlink-io/voxlink/internal/vehicle"
	"github.com/voxlink-io/voxlink/pkg/log"
	"github.com/voxlink-io/voxlink/pkg/options"
)

// Credentials are read from the environment, never from flags or files.
type Credentials struct {
	Username string `env:"BLUELINK_USERNAME,required"`
	Password string `env:"BLUELINK_PASSWORD,required"`
	PIN      string `env:"BLUELINK_PIN"`
}

// CredentialsFromEnv loads the Bluelink account credentials.
func CredentialsFromEnv() (Credentials, error) {
	creds, err := env.ParseAs[Credentials]()
	if err != nil {
		return Credentials{}, fmt.Errorf("bluelink credentials: %w", err)
	}
	return creds, nil
}

// Client talks to the regional Bluelink REST API and implements the
// vehicle.Client capability surface. Tokens are short-lived; when one
// expires the client re-authenticates transparently inside the request
// path, which is exactly the hidden latency the command orchestrator's
// minimum-duration floor exists to absorb.
type Client struct {
	baseURL   string
	vehicleID string
	creds     Credentials
	cfg       vehicle.Config
	http      *http.Client
	limiter   *rate.Limiter
	logger    log.Logger

	// txPollInterval/txPollAttempts pace the completion poll behind
	// ProcessRequest. Overridable in tests.
	txPollInterval time.Duration
	txPollAttempts int

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	cached      *vehicle.Status
}

var _ vehicle.Client = (*Client)(nil)

// New creates a Bluelink client from options and credentials.
func New(opts *options.BluelinkOptions, creds Credentials) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("bluelink options are required")
	}

	perSecond := rate.Limit(float64(opts.RequestsPerMinute) / 60.0)

	return &Client{
		baseURL:   opts.BaseURL,
		vehicleID: opts.VehicleID,
		creds:     creds,
		cfg: vehicle.Config{
			ClimateTempWarm: opts.ClimateTempWarm,
			ClimateTempCold: opts.ClimateTempCold,
		},
		http:           &http.Client{Timeout: opts.Timeout},
		limiter:        rate.NewLimiter(perSecond, 2),
		logger:         log.WithName("bluelink"),
		txPollInterval: 2 * time.Second,
		txPollAttempts: 5,
	}, nil
}

// Config returns the account-level climate configuration.
func (c *Client) Config() vehicle.Config { return c.cfg }

// CachedStatus returns the last-known snapshot, nil before the first
// successful Status call.
func (c *Client) CachedStatus() *vehicle.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cached
}

// Status retrieves the vehicle status. refresh=true asks the cloud to poll
// the physical vehicle, which can take tens of seconds server-side. When the
// live read fails and allowCached is set, the last-known snapshot is
// returned instead of the error.
func (c *Client) Status(ctx context.Context, refresh bool, allowCached bool) (*vehicle.Status, error) {
	path := fmt.Sprintf("/v1/vehicles/%s/status", c.vehicleID)
	if refresh {
		path += "?refresh=true"
	}

	var resp statusResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		if allowCached {
			if cached := c.CachedStatus(); cached != nil {
				c.logger.Warn("Live status failed, serving cached snapshot", "error", err)
				return cached, nil
			}
		}
		return nil, err
	}

	st := resp.toStatus()

	c.mu.Lock()
	c.cached = st
	c.mu.Unlock()

	return st, nil
}

// ProcessRequest issues a command asynchronously. The callback fires once as
// soon as the API accepts (or rejects) the submission — the first
// acknowledgement — and once more with the final transaction outcome if the
// completion poll reaches a terminal state. The caller never blocks on the
// second invocation.
func (c *Client) ProcessRequest(ctx context.Context, commandType vehicle.CommandType, payload any, onUpdate vehicle.UpdateFunc) {
	go func() {
		req := commandRequest{
			TransactionID: uuid.NewString(),
			Command:       string(commandType),
			Payload:       payload,
		}

		var resp commandResponse
		path := fmt.Sprintf("/v1/vehicles/%s/commands", c.vehicleID)
		if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
			c.logger.Error(err, "Command submission failed", "command", string(commandType))
			onUpdate(true, false, err)
			return
		}

		onUpdate(false, resp.Accepted, resp)

		if !resp.Accepted {
			c.logger.Warn("Command rejected by Bluelink", "command", string(commandType), "message", resp.Message)
			return
		}

		c.pollTransaction(ctx, resp.TransactionID, onUpdate)
	}()
}

// pollTransaction watches the transaction until it reaches a terminal state
// or the attempt budget runs out. Vehicles routinely take minutes to act, so
// an exhausted budget is reported as incomplete rather than failed.
func (c *Client) pollTransaction(ctx context.Context, txID string, onUpdate vehicle.UpdateFunc) {
	path := fmt.Sprintf("/v1/vehicles/%s/commands/%s", c.vehicleID, txID)

	for i := 0; i < c.txPollAttempts; i++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.txPollInterval):
		}

		var tx transactionResponse
		if err := c.do(ctx, http.MethodGet, path, nil, &tx); err != nil {
			c.logger.Warn("Transaction poll failed", "transactionID", txID, "error", err)
			continue
		}

		switch tx.Status {
		case txStatusSucceeded:
			onUpdate(true, true, tx)
			return
		case txStatusFailed:
			onUpdate(true, false, tx)
			return
		}
	}

	c.logger.Debug("Transaction still pending after poll budget", "transactionID", txID)
}

// do performs one authenticated API call, decoding the JSON response into
// out when non-nil. A 401 triggers exactly one transparent re-login and
// retry; Bluelink tokens expire silently and mid-session.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()

		c.logger.Debug("Token rejected, re-authenticating")
		if err := c.login(ctx); err != nil {
			return fmt.Errorf("re-authentication: %w", err)
		}

		resp, err = c.roundTrip(ctx, method, path, body)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bluelink %s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) (*http.Response, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// ensureToken returns a token believed valid, logging in when none is held
// or the held one is past its expiry.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	token, expiry := c.token, c.tokenExpiry
	c.mu.Unlock()

	if token != "" && time.Now().Before(expiry) {
		return token, nil
	}

	if err := c.login(ctx); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, nil
}

func (c *Client) login(ctx context.Context) error {
	buf, err := json.Marshal(loginRequest{
		Username: c.creds.Username,
		Password: c.creds.Password,
		PIN:      c.creds.PIN,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/login", bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("bluelink login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bluelink login: status %d", resp.StatusCode)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	// Renew a little early so in-flight calls don't race the expiry.
	ttl := time.Duration(lr.ExpiresInSeconds) * time.Second
	if ttl > time.Minute {
		ttl -= 30 * time.Second
	}

	c.mu.Lock()
	c.token = lr.AccessToken
	c.tokenExpiry = time.Now().Add(ttl)
	c.mu.Unlock()

	c.logger.Info("Authenticated with Bluelink", "tokenTTL", ttl)
	return nil
}
