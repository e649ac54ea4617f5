package promo

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/LavaJover/shvark-acquiring-service/internal/catalog"
	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/metrics"
	"github.com/jaevor/go-nanoid"
)

const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 10

	AcceptedMessage = "Promo code accepted. Your materials are on the way."
)

var rejectionMessages = []string{
	"Sorry, this promo code is not valid. Please check it and send it again.",
	"Unfortunately the promo code is wrong. Please check it and try again.",
	"The promo code you entered is not valid. Let's try once more.",
	"Oops, something is off with this promo code. Please enter it again.",
	"Sorry, this promo code did not work. Check your code and send it again.",
}

type PromoUsecase interface {
	Redeem(ctx context.Context, chatID int64, conferenceID, code string) (*RedeemResult, error)
	Generate(ctx context.Context, conferenceID string, n int) ([]string, error)
}

// RedeemResult carries the purchaser-facing message and, when accepted,
// the full conference selection granted by the code.
type RedeemResult struct {
	Accepted  bool
	Message   string
	Selection domain.Selection
}

type DefaultPromoUsecase struct {
	store    domain.PromoCodeStore
	sessions domain.SessionStore
	catalog  *catalog.Catalog
	metrics  *metrics.PaymentMetrics
	pick     func(n int) int
}

// NewDefaultPromoUsecase builds the promo flow. sessions may be nil when only
// Generate is used; rejection texts are then picked without memory.
func NewDefaultPromoUsecase(
	store domain.PromoCodeStore,
	sessions domain.SessionStore,
	c *catalog.Catalog,
	paymentMetrics *metrics.PaymentMetrics,
) *DefaultPromoUsecase {
	return &DefaultPromoUsecase{
		store:    store,
		sessions: sessions,
		catalog:  c,
		metrics:  paymentMetrics,
		pick:     rand.IntN,
	}
}

func (uc *DefaultPromoUsecase) Redeem(ctx context.Context, chatID int64, conferenceID, code string) (*RedeemResult, error) {
	conf, ok := uc.catalog.Conference(conferenceID)
	if !ok {
		return nil, fmt.Errorf("%w: conference %s", domain.ErrUnknownCatalogID, conferenceID)
	}

	code = strings.TrimSpace(code)
	accepted := false
	if code != "" {
		var err error
		accepted, err = uc.store.Consume(ctx, conferenceID, code)
		if err != nil {
			slog.Error("failed to consume promo code", "chat_id", chatID, "conference", conferenceID, "error", err.Error())
			return nil, err
		}
	}
	uc.metrics.RecordPromoRedemption(conferenceID, accepted)

	if !accepted {
		slog.Info("promo code rejected", "chat_id", chatID, "conference", conferenceID)
		return &RedeemResult{Message: uc.rejectionMessage(ctx, chatID)}, nil
	}
	uc.resetRejection(ctx, chatID)

	slog.Info("promo code redeemed", "chat_id", chatID, "conference", conferenceID)
	return &RedeemResult{
		Accepted:  true,
		Message:   AcceptedMessage,
		Selection: domain.Selection{conferenceID: conf.LectureIDs()},
	}, nil
}

// rejectionMessage never returns the text this chat saw last time. The last
// choice is kept in the chat session and expires with it.
func (uc *DefaultPromoUsecase) rejectionMessage(ctx context.Context, chatID int64) string {
	n := len(rejectionMessages)
	i := uc.pick(n)
	if uc.sessions == nil {
		return rejectionMessages[i]
	}

	session, err := uc.sessions.Get(ctx, chatID)
	if err != nil {
		slog.Warn("failed to load session for promo rejection", "chat_id", chatID, "error", err.Error())
		return rejectionMessages[i]
	}
	if session.PromoRejection == i+1 {
		i = (i + 1 + uc.pick(n-1)) % n
	}
	session.PromoRejection = i + 1
	if err := uc.sessions.Set(ctx, session); err != nil {
		slog.Warn("failed to store promo rejection", "chat_id", chatID, "error", err.Error())
	}
	return rejectionMessages[i]
}

func (uc *DefaultPromoUsecase) resetRejection(ctx context.Context, chatID int64) {
	if uc.sessions == nil {
		return
	}
	session, err := uc.sessions.Get(ctx, chatID)
	if err != nil || session.PromoRejection == 0 {
		return
	}
	session.PromoRejection = 0
	if err := uc.sessions.Set(ctx, session); err != nil {
		slog.Warn("failed to reset promo rejection", "chat_id", chatID, "error", err.Error())
	}
}

func (uc *DefaultPromoUsecase) Generate(ctx context.Context, conferenceID string, n int) ([]string, error) {
	if _, ok := uc.catalog.Conference(conferenceID); !ok {
		return nil, fmt.Errorf("%w: conference %s", domain.ErrUnknownCatalogID, conferenceID)
	}
	if n <= 0 {
		return nil, fmt.Errorf("code count must be positive, got %d", n)
	}

	generate, err := nanoid.CustomASCII(codeAlphabet, codeLength)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for len(codes) < n {
		code := generate()
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	if err := uc.store.Add(ctx, conferenceID, codes); err != nil {
		return nil, err
	}
	slog.Info("promo codes generated", "conference", conferenceID, "count", n)
	return codes, nil
}
