package notifier

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
)

// HTTPCallbackNotifier tells the presentation layer about a finalized order
// with a GET request carrying order_id, tg_id and status.
type HTTPCallbackNotifier struct {
	callbackURL string
	client      *http.Client
}

func NewHTTPCallbackNotifier(callbackURL string, timeout time.Duration) *HTTPCallbackNotifier {
	return &HTTPCallbackNotifier{
		callbackURL: callbackURL,
		client:      &http.Client{Timeout: timeout},
	}
}

func (n *HTTPCallbackNotifier) NotifyOrderFinalized(ctx context.Context, event domain.OrderFinalizedEvent) error {
	u, err := url.Parse(n.callbackURL)
	if err != nil {
		return fmt.Errorf("invalid callback url: %w", err)
	}

	q := u.Query()
	q.Set("order_id", strconv.FormatInt(event.OrderID, 10))
	q.Set("tg_id", strconv.FormatInt(event.TgID, 10))
	q.Set("status", string(event.Status))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("callback failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}

	slog.Info("callback sent", "url", n.callbackURL, "order_id", event.OrderID, "status", event.Status)
	return nil
}
