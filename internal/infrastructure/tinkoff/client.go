package tinkoff

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
)

const (
	EndpointInit     = "Init"
	EndpointGetState = "GetState"
	EndpointConfirm  = "Confirm"
	EndpointCancel   = "Cancel"
)

type Config struct {
	BaseURL     string
	TerminalKey string
	Secret      string
	Timeout     time.Duration
}

// CallObserver is notified about every gateway round trip.
type CallObserver func(endpoint string, duration time.Duration, err error)

type Client struct {
	baseURL     string
	terminalKey string
	signer      *Signer
	timeout     time.Duration
	httpClient  *http.Client
	observe     CallObserver
	log         *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithObserver(o CallObserver) Option {
	return func(c *Client) { c.observe = o }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(cfg Config, opts ...Option) *Client {
	baseURL := cfg.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		baseURL:     baseURL,
		terminalKey: cfg.TerminalKey,
		signer:      NewSigner(cfg.Secret),
		timeout:     cfg.Timeout,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "tinkoff_client")
	return c
}

func (c *Client) Signer() *Signer {
	return c.signer
}

func (c *Client) InitPayment(ctx context.Context, req *domain.InitPaymentRequest) (*domain.InitPaymentResult, error) {
	params := map[string]any{
		"Amount":      req.Amount,
		"OrderId":     strconv.FormatInt(req.OrderID, 10),
		"Description": req.Description,
	}
	if req.SuccessURL != "" {
		params["SuccessURL"] = req.SuccessURL
	}
	if req.FailURL != "" {
		params["FailURL"] = req.FailURL
	}
	if req.NotificationURL != "" {
		params["NotificationURL"] = req.NotificationURL
	}
	if req.Receipt != nil {
		params["Receipt"] = req.Receipt
	}
	if len(req.Data) > 0 {
		params["DATA"] = req.Data
	}

	resp, err := c.send(ctx, EndpointInit, params)
	if err != nil {
		return nil, err
	}
	if resp.PaymentURL == "" || resp.PaymentID == 0 {
		return nil, &domain.ProtocolError{
			Endpoint:   EndpointInit,
			StatusCode: http.StatusOK,
			Err:        errors.New("response lacks PaymentURL or PaymentId"),
		}
	}

	return &domain.InitPaymentResult{
		PaymentID:  int64(resp.PaymentID),
		PaymentURL: resp.PaymentURL,
		Status:     resp.Status,
	}, nil
}

func (c *Client) GetState(ctx context.Context, paymentID int64) (*domain.PaymentState, error) {
	return c.paymentCall(ctx, EndpointGetState, paymentID)
}

func (c *Client) Confirm(ctx context.Context, paymentID int64) (*domain.PaymentState, error) {
	return c.paymentCall(ctx, EndpointConfirm, paymentID)
}

func (c *Client) Cancel(ctx context.Context, paymentID int64) (*domain.PaymentState, error) {
	return c.paymentCall(ctx, EndpointCancel, paymentID)
}

func (c *Client) paymentCall(ctx context.Context, endpoint string, paymentID int64) (*domain.PaymentState, error) {
	resp, err := c.send(ctx, endpoint, map[string]any{"PaymentId": paymentID})
	if err != nil {
		return nil, err
	}
	return &domain.PaymentState{
		PaymentID: int64(resp.PaymentID),
		OrderID:   int64(resp.OrderID),
		Amount:    int64(resp.Amount),
		Status:    resp.Status,
	}, nil
}

func (c *Client) send(ctx context.Context, endpoint string, params map[string]any) (resp *response, err error) {
	start := time.Now()
	defer func() {
		if c.observe != nil {
			c.observe(endpoint, time.Since(start), err)
		}
	}()

	params["TerminalKey"] = c.terminalKey
	params["Token"] = c.signer.Sign(params)

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", endpoint, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("sending gateway request", "endpoint", endpoint, "order_id", params["OrderId"], "payment_id", params["PaymentId"])

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("gateway request failed", "endpoint", endpoint, "error", err)
		return nil, &domain.TransportError{Endpoint: endpoint, Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &domain.TransportError{Endpoint: endpoint, Err: err}
	}

	var decoded response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		c.log.Error("failed to decode gateway response", "endpoint", endpoint, "http_status", httpResp.StatusCode, "error", err)
		return nil, &domain.ProtocolError{Endpoint: endpoint, StatusCode: httpResp.StatusCode, Err: err}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 || !decoded.Success {
		message := decoded.Message
		if message == "" {
			message = http.StatusText(httpResp.StatusCode)
		}
		c.log.Warn("gateway rejected request", "endpoint", endpoint, "error_code", decoded.ErrorCode, "message", message)
		return nil, &domain.GatewayError{
			Endpoint:  endpoint,
			ErrorCode: decoded.ErrorCode,
			Message:   message,
			Details:   decoded.Details,
		}
	}

	c.log.Info("gateway request succeeded", "endpoint", endpoint, "payment_id", int64(decoded.PaymentID), "status", decoded.Status)
	return &decoded, nil
}
