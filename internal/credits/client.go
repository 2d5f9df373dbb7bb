package credits

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"lectern/internal/config"
	"lectern/internal/logging"
)

const defaultTimeout = 10 * time.Second

// CheckResult is the ledger's answer for one owner and action.
type CheckResult struct {
	HasCredits     bool   `json:"has_credits"`
	CurrentCredits int    `json:"current_credits"`
	CreditsNeeded  int    `json:"credits_needed"`
	Message        string `json:"message"`
}

// Client talks to the credit ledger service. A nil-safe disabled client is
// returned when no base URL is configured.
type Client struct {
	baseURL    string
	apiKey     string
	costPerJob int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a ledger client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := defaultTimeout
	if cfg.Credits.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Credits.TimeoutSeconds) * time.Second
	}
	cost := cfg.Credits.CostPerJob
	if cost <= 0 {
		cost = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.Credits.BaseURL), "/"),
		apiKey:     strings.TrimSpace(cfg.Credits.APIKey),
		costPerJob: cost,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger(logger, "credits"),
	}
}

// Enabled reports whether a ledger is configured at all.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Check asks whether owner can afford action without deducting anything.
// Anonymous owners and unconfigured ledgers are always allowed through.
func (c *Client) Check(ctx context.Context, owner, action string) (CheckResult, error) {
	if skipped, result := c.skipCheck(owner); skipped {
		return result, nil
	}
	return c.post(ctx, "/credits/check", owner, action)
}

// Deduct charges owner for action. The returned result reflects the balance
// after the charge.
func (c *Client) Deduct(ctx context.Context, owner, action string) (CheckResult, error) {
	if skipped, result := c.skipCheck(owner); skipped {
		return result, nil
	}
	return c.post(ctx, "/credits/deduct", owner, action)
}

// skipCheck handles the two free paths: no configured ledger and jobs with
// no owner identity attached.
func (c *Client) skipCheck(owner string) (bool, CheckResult) {
	if !c.Enabled() {
		return true, CheckResult{HasCredits: true, Message: "billing not configured"}
	}
	if strings.TrimSpace(owner) == "" {
		return true, CheckResult{HasCredits: true, Message: "free usage (anonymous)"}
	}
	return false, CheckResult{}
}

type ledgerRequest struct {
	Owner  string `json:"owner"`
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

func (c *Client) post(ctx context.Context, path, owner, action string) (CheckResult, error) {
	var result CheckResult

	encoded, err := json.Marshal(ledgerRequest{Owner: owner, Action: action, Amount: c.costPerJob})
	if err != nil {
		return result, fmt.Errorf("credits request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return result, fmt.Errorf("credits request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return result, fmt.Errorf("credits request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return result, fmt.Errorf("credits request: read body: %w", err)
	}

	// 402 is the ledger's way of refusing; it still carries a result body.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPaymentRequired {
		return result, fmt.Errorf("credits request: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return result, fmt.Errorf("credits request: decode response: %w", err)
	}
	if resp.StatusCode == http.StatusPaymentRequired {
		result.HasCredits = false
	}
	return result, nil
}
