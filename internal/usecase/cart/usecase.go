package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/LavaJover/shvark-acquiring-service/internal/catalog"
	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/payment"
	"github.com/shopspring/decimal"
)

type CartUsecase interface {
	Aggregate(selection domain.Selection) (*domain.Checkout, error)
	GetSession(ctx context.Context, chatID int64) (*domain.Session, error)
	SelectLectures(ctx context.Context, chatID int64, conferenceID string, lectureIDs ...string) (*domain.Session, error)
	SelectConference(ctx context.Context, chatID int64, conferenceID string) (*domain.Session, error)
	RemoveLecture(ctx context.Context, chatID int64, conferenceID, lectureID string) (*domain.Session, error)
	UpdateContacts(ctx context.Context, chatID int64, address, email string) (*domain.Session, error)
	Clear(ctx context.Context, chatID int64) error
	Checkout(ctx context.Context, purchaser domain.PurchaserContext, comment string) (*payment.InitiateResult, *domain.Checkout, error)
}

type DefaultCartUsecase struct {
	catalog  *catalog.Catalog
	sessions domain.SessionStore
	payments payment.SessionUsecase
}

func NewDefaultCartUsecase(c *catalog.Catalog, sessions domain.SessionStore, payments payment.SessionUsecase) *DefaultCartUsecase {
	return &DefaultCartUsecase{catalog: c, sessions: sessions, payments: payments}
}

// Aggregate prices a selection: a fully selected conference costs the
// conference price, otherwise the selected lectures are summed.
func (uc *DefaultCartUsecase) Aggregate(selection domain.Selection) (*domain.Checkout, error) {
	confIDs := make([]string, 0, len(selection))
	for id, lectures := range selection {
		if len(lectures) > 0 {
			confIDs = append(confIDs, id)
		}
	}
	if len(confIDs) == 0 {
		return nil, domain.ErrEmptyCart
	}
	sort.Strings(confIDs)

	checkout := &domain.Checkout{}
	var total decimal.Decimal
	for _, confID := range confIDs {
		conf, ok := uc.catalog.Conference(confID)
		if !ok {
			return nil, fmt.Errorf("%w: conference %s", domain.ErrUnknownCatalogID, confID)
		}

		lectureIDs := unique(selection[confID])
		var sum decimal.Decimal
		for _, lid := range lectureIDs {
			lecture, ok := conf.Lecture(lid)
			if !ok {
				return nil, fmt.Errorf("%w: lecture %s/%s", domain.ErrUnknownCatalogID, confID, lid)
			}
			sum = sum.Add(lecture.Price)
		}
		if len(lectureIDs) == len(conf.Lectures) {
			sum = conf.Price
		}

		if conf.IsMerch() {
			checkout.ShippingRequired = true
		}
		checkout.ItemCount += len(lectureIDs)
		checkout.Lines = append(checkout.Lines, domain.CheckoutLine{
			ConferenceID: confID,
			Title:        conf.Title,
			Amount:       catalog.ToMinor(sum),
		})
		total = total.Add(sum)
	}

	checkout.Amount = catalog.ToMinor(total)
	return checkout, nil
}

func (uc *DefaultCartUsecase) GetSession(ctx context.Context, chatID int64) (*domain.Session, error) {
	return uc.sessions.Get(ctx, chatID)
}

func (uc *DefaultCartUsecase) SelectLectures(ctx context.Context, chatID int64, conferenceID string, lectureIDs ...string) (*domain.Session, error) {
	conf, ok := uc.catalog.Conference(conferenceID)
	if !ok {
		return nil, fmt.Errorf("%w: conference %s", domain.ErrUnknownCatalogID, conferenceID)
	}
	for _, lid := range lectureIDs {
		if _, ok := conf.Lecture(lid); !ok {
			return nil, fmt.Errorf("%w: lecture %s/%s", domain.ErrUnknownCatalogID, conferenceID, lid)
		}
	}

	return uc.update(ctx, chatID, func(s *domain.Session) {
		s.Selection[conferenceID] = unique(append(s.Selection[conferenceID], lectureIDs...))
	})
}

func (uc *DefaultCartUsecase) SelectConference(ctx context.Context, chatID int64, conferenceID string) (*domain.Session, error) {
	conf, ok := uc.catalog.Conference(conferenceID)
	if !ok {
		return nil, fmt.Errorf("%w: conference %s", domain.ErrUnknownCatalogID, conferenceID)
	}
	return uc.update(ctx, chatID, func(s *domain.Session) {
		s.Selection[conferenceID] = conf.LectureIDs()
	})
}

func (uc *DefaultCartUsecase) RemoveLecture(ctx context.Context, chatID int64, conferenceID, lectureID string) (*domain.Session, error) {
	return uc.update(ctx, chatID, func(s *domain.Session) {
		kept := s.Selection[conferenceID][:0]
		for _, lid := range s.Selection[conferenceID] {
			if lid != lectureID {
				kept = append(kept, lid)
			}
		}
		if len(kept) == 0 {
			delete(s.Selection, conferenceID)
			return
		}
		s.Selection[conferenceID] = kept
	})
}

func (uc *DefaultCartUsecase) UpdateContacts(ctx context.Context, chatID int64, address, email string) (*domain.Session, error) {
	return uc.update(ctx, chatID, func(s *domain.Session) {
		if address != "" {
			s.Address = address
		}
		if email != "" {
			s.Email = email
		}
	})
}

func (uc *DefaultCartUsecase) Clear(ctx context.Context, chatID int64) error {
	return uc.sessions.Clear(ctx, chatID)
}

// Checkout prices the chat's cart and opens a payment session for it.
func (uc *DefaultCartUsecase) Checkout(ctx context.Context, purchaser domain.PurchaserContext, comment string) (*payment.InitiateResult, *domain.Checkout, error) {
	session, err := uc.sessions.Get(ctx, purchaser.ChatID)
	if err != nil {
		return nil, nil, err
	}

	checkout, err := uc.Aggregate(session.Selection)
	if err != nil {
		return nil, nil, err
	}

	if purchaser.Address == "" {
		purchaser.Address = session.Address
	}
	if purchaser.Email == "" {
		purchaser.Email = session.Email
	}

	result, err := uc.payments.InitiateOrder(ctx, purchaser, checkout.Amount, checkout.ShippingRequired, payment.InitiateOptions{
		Comment: comment,
		Lines:   checkout.Lines,
	})
	if err != nil {
		return nil, checkout, err
	}

	slog.Info("cart checked out",
		"chat_id", purchaser.ChatID,
		"order_id", result.OrderID,
		"amount", checkout.Amount,
		"items", checkout.ItemCount,
	)
	return result, checkout, nil
}

func (uc *DefaultCartUsecase) update(ctx context.Context, chatID int64, mutate func(*domain.Session)) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if session.Selection == nil {
		session.Selection = domain.Selection{}
	}
	session.ChatID = chatID
	mutate(session)
	if err := uc.sessions.Set(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
