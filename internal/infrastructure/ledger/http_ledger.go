package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const defaultAttempts = 3

type transferRequest struct {
	ToID   string `json:"to_id"`
	Amount int64  `json:"amount"`
}

type depositRequest struct {
	PayerID string `json:"payer_id"`
	Amount  int64  `json:"amount"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPLedgerClient talks to the external ledger service that holds escrow
// custody. Calls carry a timeout and a bounded retry with linear backoff;
// 4xx responses are not retried.
type HTTPLedgerClient struct {
	Address string

	client       *http.Client
	attempts     int
	backoff      time.Duration
	retryCounter prometheus.Counter
}

func NewHTTPLedgerClient(address string, timeout time.Duration, retryCounter prometheus.Counter) *HTTPLedgerClient {
	return &HTTPLedgerClient{
		Address:      address,
		client:       &http.Client{Timeout: timeout},
		attempts:     defaultAttempts,
		backoff:      time.Second,
		retryCounter: retryCounter,
	}
}

func (c *HTTPLedgerClient) Transfer(ctx context.Context, accountID, toID string, amount int64) error {
	url := fmt.Sprintf("%s/accounts/%s/transfer", c.Address, accountID)
	return c.post(ctx, url, transferRequest{ToID: toID, Amount: amount})
}

func (c *HTTPLedgerClient) Deposit(ctx context.Context, accountID, payerID string, amount int64) error {
	url := fmt.Sprintf("%s/accounts/%s/deposit", c.Address, accountID)
	return c.post(ctx, url, depositRequest{PayerID: payerID, Amount: amount})
}

func (c *HTTPLedgerClient) post(ctx context.Context, url string, body any) error {
	requestBodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			if c.retryCounter != nil {
				c.retryCounter.Inc()
			}
			select {
			case <-ctx.Done():
				return domain.E(domain.KindLedgerFailure, "ledger call aborted: %v", ctx.Err())
			case <-time.After(time.Duration(attempt-1) * c.backoff):
			}
		}

		retryable, err := c.doPost(ctx, url, requestBodyBytes)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return domain.E(domain.KindLedgerFailure, "ledger call failed after %d attempts: %v", c.attempts, lastErr)
}

func (c *HTTPLedgerClient) doPost(ctx context.Context, url string, body []byte) (retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(req)
	if err != nil {
		return true, err
	}
	defer response.Body.Close()

	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return true, err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return false, nil
	}

	var errResp errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errResp); err != nil || errResp.Error == "" {
		errResp.Error = fmt.Sprintf("ledger responded %d", response.StatusCode)
	}
	return response.StatusCode >= 500, fmt.Errorf("%s", errResp.Error)
}
