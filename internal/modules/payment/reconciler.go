package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"landshare/internal/domain"
)

// Reconciler applies dispute resolutions against the external payment
// backend. Every call is bounded by the configured timeout; a timeout is
// reported as a plain error and treated by callers like any other
// reconciliation failure.
type Reconciler struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	loggerf func(format string, args ...interface{})
}

func NewReconciler(baseURL string, timeout time.Duration, loggerf func(format string, args ...interface{})) *Reconciler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Reconciler{
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{},
		loggerf: loggerf,
	}
}

type applyResolutionRequest struct {
	// DisputeID doubles as the idempotency key on the payment backend.
	DisputeID      int64   `json:"dispute_id"`
	BookingID      int64   `json:"booking_id"`
	ResolvedAmount float64 `json:"resolved_amount"`
	ResolutionKind string  `json:"resolution_kind"`
}

type applyResolutionResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func (r *Reconciler) ApplyResolution(ctx context.Context, disputeID, bookingID int64, amount float64, kind domain.DisputeResolution) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	payload, err := json.Marshal(applyResolutionRequest{
		DisputeID:      disputeID,
		BookingID:      bookingID,
		ResolvedAmount: amount,
		ResolutionKind: string(kind),
	})
	if err != nil {
		return fmt.Errorf("encode reconciliation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.baseURL+"/internal/reconciliation/apply", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build reconciliation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.loggerf("level=error msg=reconciliation call failed dispute_id=%d err=%v", disputeID, err)
		return fmt.Errorf("reconciliation call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.loggerf("level=error msg=reconciliation rejected dispute_id=%d status=%d", disputeID, resp.StatusCode)
		return fmt.Errorf("reconciliation service returned status %d", resp.StatusCode)
	}

	var body applyResolutionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode reconciliation response: %w", err)
	}
	if !body.OK {
		r.loggerf("level=warn msg=reconciliation declined dispute_id=%d reason=%q", disputeID, body.Reason)
		return fmt.Errorf("reconciliation declined: %s", body.Reason)
	}

	r.loggerf("level=info msg=reconciliation applied dispute_id=%d booking_id=%d amount=%.2f kind=%s",
		disputeID, bookingID, amount, kind)
	return nil
}
