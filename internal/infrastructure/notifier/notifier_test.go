package notifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
)

type recordingPublisher struct {
	topic string
	msgs  []domain.Message
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, msgs ...domain.Message) error {
	p.topic = topic
	p.msgs = append(p.msgs, msgs...)
	return p.err
}

type notifierFunc func(ctx context.Context, event domain.OrderFinalizedEvent) error

func (f notifierFunc) NotifyOrderFinalized(ctx context.Context, event domain.OrderFinalizedEvent) error {
	return f(ctx, event)
}

type countingRecorder struct {
	failures map[string]int
}

func (r *countingRecorder) RecordFulfillmentFailure(notifier string) {
	if r.failures == nil {
		r.failures = map[string]int{}
	}
	r.failures[notifier]++
}

var confirmedEvent = domain.OrderFinalizedEvent{
	EventID:   "e-1",
	OrderID:   42,
	TgID:      777,
	PaymentID: 555,
	Amount:    10000,
	Status:    domain.StatusConfirmed,
}

func TestHTTPCallbackNotifier(t *testing.T) {
	t.Run("Given reachable callback When notifying Then query carries order, purchaser and status", func(t *testing.T) {
		var query map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			query = map[string]string{
				"order_id": r.URL.Query().Get("order_id"),
				"tg_id":    r.URL.Query().Get("tg_id"),
				"status":   r.URL.Query().Get("status"),
				"token":    r.URL.Query().Get("token"),
			}
		}))
		defer srv.Close()

		n := NewHTTPCallbackNotifier(srv.URL+"/order_done?token=abc", time.Second)
		if err := n.NotifyOrderFinalized(context.Background(), confirmedEvent); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := map[string]string{"order_id": "42", "tg_id": "777", "status": "confirmed", "token": "abc"}
		for k, v := range want {
			if query[k] != v {
				t.Errorf("expected %s=%s, got %s", k, v, query[k])
			}
		}
	})

	t.Run("Given failing callback When notifying Then error is returned", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		n := NewHTTPCallbackNotifier(srv.URL, time.Second)
		if err := n.NotifyOrderFinalized(context.Background(), confirmedEvent); err == nil {
			t.Error("expected error for 500 response")
		}
	})
}

func TestKafkaNotifier(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewKafkaNotifier(pub, "order-events")

	if err := n.NotifyOrderFinalized(context.Background(), confirmedEvent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pub.topic != "order-events" || len(pub.msgs) != 1 {
		t.Fatalf("expected one message on order-events, got %d on %q", len(pub.msgs), pub.topic)
	}
	if string(pub.msgs[0].Key) != "42" {
		t.Errorf("expected key 42, got %s", pub.msgs[0].Key)
	}
}

func TestMulti(t *testing.T) {
	t.Run("Given one failing target When notifying Then others still receive the event", func(t *testing.T) {
		var delivered []int64
		recorder := &countingRecorder{}
		m := NewMulti(recorder).
			Add("kafka", NewKafkaNotifier(&recordingPublisher{err: errors.New("broker down")}, "order-events")).
			Add("func", notifierFunc(func(_ context.Context, e domain.OrderFinalizedEvent) error {
				delivered = append(delivered, e.OrderID)
				return nil
			})).
			Add("nil", nil)

		if m.Len() != 2 {
			t.Fatalf("expected nil notifier to be skipped, got %d targets", m.Len())
		}

		err := m.NotifyOrderFinalized(context.Background(), confirmedEvent)
		if err == nil {
			t.Fatal("expected aggregated error")
		}
		if len(delivered) != 1 || delivered[0] != 42 {
			t.Errorf("expected func notifier to receive order 42, got %v", delivered)
		}
		if recorder.failures["kafka"] != 1 {
			t.Errorf("expected kafka failure to be recorded, got %v", recorder.failures)
		}
	})
}
