// Package registry implements the HTTP client for the delegation
// registry's provisioning API. The API is asynchronous: accepted
// changes return a task reference to poll, never a final outcome.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/poyrazK/dspilot/internal/core/domain"
	"github.com/poyrazK/dspilot/internal/dns/record"
	"github.com/poyrazK/dspilot/internal/infrastructure/metrics"
)

// RetractMode selects how a retract identifies the DS record to remove.
type RetractMode string

const (
	// RetractAuto probes the registry's capabilities and picks the
	// narrowest form it advertises.
	RetractAuto RetractMode = "auto"
	// RetractKeyTag removes every DS matching the key tag alone.
	RetractKeyTag RetractMode = "key-tag"
	// RetractFull removes only the exact (key tag, algorithm, digest
	// type, digest) tuple.
	RetractFull RetractMode = "full"
)

// ParseRetractMode validates a retract mode from flags or config.
func ParseRetractMode(s string) (RetractMode, error) {
	switch RetractMode(s) {
	case RetractAuto, RetractKeyTag, RetractFull:
		return RetractMode(s), nil
	case "":
		return RetractAuto, nil
	}
	return "", fmt.Errorf("unknown retract mode %q, expected auto, key-tag or full", s)
}

// featureRetractByKeyTag is the capability flag registries advertise
// when a key tag alone is enough to retract.
const featureRetractByKeyTag = "retract-by-key-tag"

// Config carries everything needed to talk to one registry account.
type Config struct {
	// Endpoint is the API base URL, for example
	// https://registry.example/api/v1.
	Endpoint    string
	Credentials domain.Credentials
	// Timeout bounds each HTTP request. Zero means 30 seconds.
	Timeout time.Duration
	// RequestsPerSecond paces outbound calls. Zero or less disables
	// pacing.
	RequestsPerSecond float64
	// Burst is the pacing bucket size. Zero means 1.
	Burst int
	// MaxInflight caps concurrent outbound requests. Zero or less
	// means 1, serializing all registry traffic.
	MaxInflight int
	RetractMode RetractMode
	UserAgent   string
}

// Client talks to the registry provisioning API. It is safe for
// concurrent use.
type Client struct {
	endpoint    string
	base        string
	creds       domain.Credentials
	http        *http.Client
	log         *slog.Logger
	limiter     *rateLimiter
	inflight    *semaphore.Weighted
	retractMode RetractMode
	userAgent   string

	capMu    sync.Mutex
	features map[string]bool
}

// NewClient validates the configuration and builds a registry client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("registry endpoint is required")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("registry endpoint %q is not an absolute http(s) URL", cfg.Endpoint)
	}
	if cfg.Credentials.Account == "" {
		return nil, fmt.Errorf("registry account is required")
	}
	if cfg.Credentials.Token == "" {
		return nil, fmt.Errorf("registry token is required")
	}
	mode, err := ParseRetractMode(string(cfg.RetractMode))
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	agent := cfg.UserAgent
	if agent == "" {
		agent = "dspilot"
	}
	maxInflight := cfg.MaxInflight
	if maxInflight < 1 {
		maxInflight = 1
	}

	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	return &Client{
		endpoint:    endpoint,
		base:        endpoint + "/" + url.PathEscape(cfg.Credentials.Account),
		creds:       cfg.Credentials,
		http:        &http.Client{Timeout: timeout},
		log:         logger,
		limiter:     newRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		inflight:    semaphore.NewWeighted(int64(maxInflight)),
		retractMode: mode,
		userAgent:   agent,
	}, nil
}

// Submit files one DS record with the registry. Forward owners go to
// the delegations collection, reverse owners to the rdns collection
// keyed by address block.
func (c *Client) Submit(ctx context.Context, ds record.DS) (domain.Task, error) {
	u, err := c.resourceURL(ds.Owner, "ds")
	if err != nil {
		return domain.Task{}, err
	}

	payload := dsPayload{
		KeyTag:     ds.KeyTag,
		Algorithm:  ds.Algorithm,
		DigestType: uint8(ds.DigestType),
		Digest:     ds.DigestHex(),
		TTL:        ds.TTL,
	}
	resp, err := c.do(ctx, "submit", http.MethodPost, u, payload)
	if err != nil {
		return domain.Task{}, err
	}
	defer resp.Body.Close()

	if !accepted(resp.StatusCode) {
		return domain.Task{}, c.mapError("submit", ds.Owner, ds.KeyTag, resp)
	}
	task, err := decodeTask(resp)
	if err != nil {
		return domain.Task{}, err
	}
	c.log.Info("registry accepted submission",
		"owner", ds.Owner, "key_tag", ds.KeyTag, "digest_type", uint8(ds.DigestType), "task", task.Ref)
	return task, nil
}

// Retract asks the registry to remove a DS record. Depending on the
// retract mode this names the exact digest tuple or the key tag alone.
func (c *Client) Retract(ctx context.Context, ds record.DS) (domain.Task, error) {
	u, err := c.resourceURL(ds.Owner, "ds", strconv.Itoa(int(ds.KeyTag)))
	if err != nil {
		return domain.Task{}, err
	}

	mode := c.retractMode
	if mode == RetractAuto {
		mode = RetractFull
		if feats, err := c.capabilities(ctx); err != nil {
			c.log.Warn("capabilities probe failed, retracting with full DS parameters", "error", err)
		} else if feats[featureRetractByKeyTag] {
			mode = RetractKeyTag
		}
	}
	if mode == RetractFull {
		q := url.Values{}
		q.Set("algorithm", strconv.Itoa(int(ds.Algorithm)))
		q.Set("digest_type", strconv.Itoa(int(ds.DigestType)))
		q.Set("digest", ds.DigestHex())
		u += "?" + q.Encode()
	}

	resp, err := c.do(ctx, "retract", http.MethodDelete, u, nil)
	if err != nil {
		return domain.Task{}, err
	}
	defer resp.Body.Close()

	if !accepted(resp.StatusCode) {
		return domain.Task{}, c.mapError("retract", ds.Owner, ds.KeyTag, resp)
	}
	task, err := decodeTask(resp)
	if err != nil {
		return domain.Task{}, err
	}
	c.log.Info("registry accepted retraction",
		"owner", ds.Owner, "key_tag", ds.KeyTag, "mode", string(mode), "task", task.Ref)
	return task, nil
}

// TaskStatus polls one task. The reference may be a bare identifier or
// the absolute URL the registry handed back on acceptance.
func (c *Client) TaskStatus(ctx context.Context, ref string) (domain.Task, error) {
	u := ref
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		u = c.base + "/tasks/" + url.PathEscape(ref)
	}

	resp, err := c.do(ctx, "task_status", http.MethodGet, u, nil)
	if err != nil {
		return domain.Task{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Task{}, c.mapError("task_status", ref, 0, resp)
	}
	var task domain.Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return domain.Task{}, fmt.Errorf("%w: task response: %v", domain.ErrTransient, err)
	}
	if task.Ref == "" {
		task.Ref = ref
	}
	return task, nil
}

// Ping verifies endpoint and credentials by fetching the account's
// capability document.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.capabilities(ctx)
	return err
}

// capabilities fetches and caches the registry's feature flags.
func (c *Client) capabilities(ctx context.Context) (map[string]bool, error) {
	c.capMu.Lock()
	cached := c.features
	c.capMu.Unlock()
	if cached != nil {
		return cached, nil
	}

	resp, err := c.do(ctx, "capabilities", http.MethodGet, c.base+"/capabilities", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.mapError("capabilities", "", 0, resp)
	}
	var payload struct {
		Features []string `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: capabilities response: %v", domain.ErrTransient, err)
	}

	feats := make(map[string]bool, len(payload.Features))
	for _, f := range payload.Features {
		feats[f] = true
	}
	c.capMu.Lock()
	c.features = feats
	c.capMu.Unlock()
	return feats, nil
}

type dsPayload struct {
	KeyTag     uint16 `json:"key_tag"`
	Algorithm  uint8  `json:"algorithm"`
	DigestType uint8  `json:"digest_type"`
	Digest     string `json:"digest"`
	TTL        uint32 `json:"ttl,omitempty"`
}

// resourceURL builds the collection URL for an owner name, routing
// reverse-tree owners to the rdns collection.
func (c *Client) resourceURL(owner string, extra ...string) (string, error) {
	if err := domain.ValidateOwnerName(owner); err != nil {
		return "", err
	}

	segs := make([]string, 0, len(extra)+3)
	prefix, reverse, err := ReversePrefix(owner)
	if err != nil {
		return "", err
	}
	if reverse {
		segs = append(segs, "rdns", url.PathEscape(prefix.String()))
	} else {
		segs = append(segs, "delegations", url.PathEscape(strings.TrimSuffix(owner, ".")))
	}
	for _, e := range extra {
		segs = append(segs, url.PathEscape(e))
	}
	return c.base + "/" + strings.Join(segs, "/"), nil
}

// do sends one authenticated request and records metrics around it.
// Transport failures map to the transient class; a cancellation after
// a mutating request went on the wire is additionally marked
// ambiguous, since the registry may still apply the change.
func (c *Client) do(ctx context.Context, op, method, u string, payload any) (*http.Response, error) {
	if err := c.inflight.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	defer c.inflight.Release(1)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.creds.Token)
	req.Header.Set("X-Request-Id", uuid.NewString())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	metrics.InflightRequests.Inc()
	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	metrics.InflightRequests.Dec()
	metrics.RegistryDuration.WithLabelValues(op).Observe(elapsed.Seconds())

	if err != nil {
		metrics.RegistryRequests.WithLabelValues(op, "error").Inc()
		c.log.Warn("registry request failed", "op", op, "method", method, "error", err)
		werr := fmt.Errorf("%w: %s: %v", domain.ErrTransient, op, err)
		if method != http.MethodGet &&
			(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return nil, &domain.AmbiguousError{Op: op, Err: werr}
		}
		return nil, werr
	}

	metrics.RegistryRequests.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
	c.log.Debug("registry request",
		"op", op, "method", method, "status", resp.StatusCode, "duration_ms", elapsed.Milliseconds())
	return resp, nil
}

func accepted(status int) bool {
	return status == http.StatusOK || status == http.StatusCreated || status == http.StatusAccepted
}

// mapError turns a non-success response into the matching failure
// class.
func (c *Client) mapError(op, owner string, keyTag uint16, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	snippet := strings.TrimSpace(string(body))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s returned status %d", domain.ErrAuthentication, op, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s: no registry object for %s", domain.ErrNotFound, op, owner)
	case resp.StatusCode == http.StatusConflict:
		var conflict struct {
			Ref string `json:"ref"`
		}
		_ = json.Unmarshal(body, &conflict)
		return &domain.ConflictError{Owner: owner, KeyTag: keyTag, TaskRef: conflict.Ref}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s returned status %d: %s", domain.ErrTransient, op, resp.StatusCode, snippet)
	}
	return fmt.Errorf("%w: registry rejected %s with status %d: %s", domain.ErrFormat, op, resp.StatusCode, snippet)
}

// decodeTask reads the task reference from an acceptance response,
// falling back to the Location header when the body is empty.
func decodeTask(resp *http.Response) (domain.Task, error) {
	var task domain.Task
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return domain.Task{}, fmt.Errorf("%w: reading task response: %v", domain.ErrTransient, err)
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &task); err != nil {
			return domain.Task{}, fmt.Errorf("%w: task response: %v", domain.ErrTransient, err)
		}
	}
	if task.Ref == "" {
		task.Ref = resp.Header.Get("Location")
	}
	if task.Ref == "" {
		return domain.Task{}, fmt.Errorf("%w: registry accepted the change but returned no task reference", domain.ErrTransient)
	}
	if task.State == "" {
		task.State = domain.TaskPending
	}
	return task, nil
}
