// Package horizon implements the rewardissuer.Ledger interface against a
// Horizon-compatible REST frontend of the destination ledger.
//
// The adapter speaks plain HTTP and JSON. Transaction envelope construction
// and signing are ledger cryptography and stay outside the relay: they are
// delegated to an injected EnvelopeBuilder.
package horizon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabapcia/stakebridge/internal/rewardissuer"

	"github.com/hashicorp/go-retryablehttp"
)

// Account is the ledger-side state of an account needed to build a
// transaction from it.
type Account struct {
	ID       string // account id
	Sequence string // current sequence number, as reported by the ledger
}

// EnvelopeBuilder produces signed, base64-encoded transaction envelopes.
// It owns the ledger's cryptography and wire encoding; the relay only
// orchestrates over it.
type EnvelopeBuilder interface {
	// Payment builds a native-asset payment of amount from source to
	// destination.
	Payment(source Account, destination, amount string) (string, error)

	// CreateAccount builds a create-account operation funding destination
	// with startingBalance from source.
	CreateAccount(source Account, destination, startingBalance string) (string, error)
}

// Client talks to one Horizon endpoint on behalf of one issuer account.
type Client struct {
	httpClient    *retryablehttp.Client
	endpoint      string
	issuerAccount string
	envelopes     EnvelopeBuilder
}

// Compile-time assertion that Client satisfies the rewardissuer.Ledger interface.
var _ rewardissuer.Ledger = (*Client)(nil)

// NewClient creates a Horizon adapter submitting from issuerAccount.
//
// The retry budget for transaction submission belongs to the reward issuer;
// pass an httpClient with its own retries disabled to avoid multiplying
// attempts.
func NewClient(httpClient *retryablehttp.Client, endpoint, issuerAccount string, envelopes EnvelopeBuilder) *Client {
	// Surface the final 5xx response instead of a wrapped transport error, so
	// submission failures keep their status code for classification.
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		httpClient:    httpClient,
		endpoint:      strings.TrimRight(endpoint, "/"),
		issuerAccount: issuerAccount,
		envelopes:     envelopes,
	}
}

// accountResponse is the subset of Horizon's account record the relay needs.
type accountResponse struct {
	ID       string `json:"id"`
	Sequence string `json:"sequence"`
	Balances []struct {
		Balance   string `json:"balance"`
		AssetType string `json:"asset_type"`
	} `json:"balances"`
}

// transactionResponse is the success payload of a transaction submission.
type transactionResponse struct {
	Hash string `json:"hash"`
}

// problemResponse is Horizon's RFC 7807 error payload.
type problemResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

// classifyTransportErr maps a failed HTTP round trip onto the issuance error
// taxonomy: timeouts are timeouts, everything else means the ledger frontend
// is unreachable — both transient.
func classifyTransportErr(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", rewardissuer.ErrSubmissionTimeout, err)
	}

	return fmt.Errorf("%w: %v", rewardissuer.ErrLedgerUnavailable, err)
}

// classifySubmissionStatus maps a non-2xx submission response onto the
// issuance error taxonomy.
func classifySubmissionStatus(status int, problem problemResponse) error {
	switch {
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return fmt.Errorf("%w: horizon responded %d", rewardissuer.ErrSubmissionTimeout, status)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: horizon responded %d", rewardissuer.ErrLedgerUnavailable, status)
	default:
		reason := problem.Title
		if problem.Detail != "" {
			reason = fmt.Sprintf("%s: %s", problem.Title, problem.Detail)
		}
		return fmt.Errorf("%w: %s", rewardissuer.ErrSubmissionRejected, reason)
	}
}

// loadAccount fetches the account record. The found flag distinguishes a
// missing account from a transport failure.
func (c *Client) loadAccount(ctx context.Context, account string) (accountResponse, bool, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/accounts/"+url.PathEscape(account), nil)
	if err != nil {
		return accountResponse{}, false, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return accountResponse{}, false, classifyTransportErr(err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return accountResponse{}, false, nil
	case res.StatusCode != http.StatusOK:
		return accountResponse{}, false, fmt.Errorf("horizon responded %d loading account %s", res.StatusCode, account)
	}

	var data accountResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return accountResponse{}, false, err
	}

	return data, true, nil
}

// loadIssuerAccount loads the issuer's own account, wrapping any failure
// (including absence) as ErrAccountLoadFailed.
func (c *Client) loadIssuerAccount(ctx context.Context) (Account, error) {
	data, found, err := c.loadAccount(ctx, c.issuerAccount)
	if err != nil {
		return Account{}, fmt.Errorf("%w: %v", rewardissuer.ErrAccountLoadFailed, err)
	}
	if !found {
		return Account{}, fmt.Errorf("%w: account %s does not exist", rewardissuer.ErrAccountLoadFailed, c.issuerAccount)
	}

	return Account{ID: data.ID, Sequence: data.Sequence}, nil
}

// submitEnvelope posts a signed envelope to the transaction endpoint and
// returns the resulting transaction hash.
func (c *Client) submitEnvelope(ctx context.Context, envelope string) (string, error) {
	form := url.Values{"tx": {envelope}}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/transactions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportErr(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var problem problemResponse
		_ = json.NewDecoder(res.Body).Decode(&problem)
		return "", classifySubmissionStatus(res.StatusCode, problem)
	}

	var data transactionResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return "", err
	}

	return data.Hash, nil
}
