package setup

import (
	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/notifier"
	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/cart"
	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/payment"
	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/promo"
	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/reconcile"
)

type UseCases struct {
	SessionUsecase   payment.SessionUsecase
	ReconcileUsecase reconcile.ReconcileUsecase
	Sweeper          *reconcile.Sweeper
	OutboxRelay      *reconcile.OutboxRelay
	// CartUsecase and PromoUsecase are nil when no catalog is loaded.
	CartUsecase  cart.CartUsecase
	PromoUsecase promo.PromoUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	cfg := deps.Config
	repos := deps.Repositories

	sessions := payment.NewDefaultSessionUsecase(
		repos.OrderRepo,
		deps.Gateway,
		payment.NewOrderIDGenerator(repos.OrderRepo, cfg.App.OrderIDFloor),
		payment.Config{
			BaseURL:     cfg.App.BaseURL,
			Description: cfg.App.Description,
		},
		deps.Metrics,
	)

	relay := reconcile.NewOutboxRelay(repos.OutboxRepo, initNotifier(deps), deps.Metrics, cfg.App.OutboxInterval, 0)
	finalizer := reconcile.NewFinalizer(repos.OrderRepo, relay, deps.Metrics)

	var verifier domain.NotificationVerifier
	if cfg.Gateway.VerifyNotification {
		verifier = deps.Gateway.Signer()
	}

	uc := &UseCases{
		SessionUsecase: sessions,
		ReconcileUsecase: reconcile.NewDefaultReconcileUsecase(
			repos.OrderRepo,
			repos.NotificationLogRepo,
			deps.Gateway,
			verifier,
			finalizer,
			deps.Metrics,
		),
		Sweeper: reconcile.NewSweeper(
			repos.OrderRepo,
			deps.Gateway,
			finalizer,
			deps.Metrics,
			cfg.App.PendingTTL,
			cfg.App.SweepBatch,
		),
		OutboxRelay: relay,
	}

	if deps.Catalog != nil {
		uc.CartUsecase = cart.NewDefaultCartUsecase(deps.Catalog, repos.SessionStore, sessions)
		uc.PromoUsecase = promo.NewDefaultPromoUsecase(repos.PromoStore, repos.SessionStore, deps.Catalog, deps.Metrics)
	}
	return uc
}

func initNotifier(deps *Dependencies) domain.OrderNotifier {
	multi := notifier.NewMulti(deps.Metrics)
	if deps.Publisher != nil {
		multi.Add("kafka", notifier.NewKafkaNotifier(deps.Publisher, deps.Config.KafkaService.Topic))
	}
	if deps.Config.Callback.URL != "" {
		multi.Add("callback", notifier.NewHTTPCallbackNotifier(deps.Config.Callback.URL, deps.Config.Callback.Timeout))
	}
	return multi
}
