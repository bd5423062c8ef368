//go:build wireinject
// +build wireinject

package payment

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/acadly/paperpay/internal/payment/client"
	"github.com/acadly/paperpay/internal/payment/domain"
	"github.com/acadly/paperpay/internal/payment/gateway"
	"github.com/acadly/paperpay/internal/payment/handler"
	"github.com/acadly/paperpay/internal/payment/repository"
	"github.com/acadly/paperpay/internal/payment/usecase/command"
	"github.com/acadly/paperpay/internal/payment/usecase/query"
)

// ProvidePaymentRepository provides the payment repository with tracing
func ProvidePaymentRepository(db *gorm.DB) domain.PaymentRepository {
	return repository.NewGormPaymentRepositoryWithTracing(db)
}

// ProvidePurchaseRepository provides the purchase repository
func ProvidePurchaseRepository(db *gorm.DB) domain.PurchaseRepository {
	return repository.NewGormPurchaseRepository(db)
}

// ProvideSettlementStore provides the transactional settlement store with tracing
func ProvideSettlementStore(db *gorm.DB) domain.SettlementStore {
	return repository.NewGormSettlementStoreWithTracing(db)
}

// ProvidePaperProvider provides the paper catalog client
func ProvidePaperProvider(cfg Config) command.PaperProvider {
	return client.NewPaperServiceClient(cfg.PaperServiceAddr)
}

// ProvideGateway provides the checkout gateway client
func ProvideGateway(cfg Config) gateway.Gateway {
	return gateway.NewCheckoutClient(cfg.GatewayKeyID, cfg.GatewayKeySecret, cfg.GatewayBaseURL)
}

// Command Handlers Providers
func ProvideCreateOrderHandler(payments domain.PaymentRepository, purchases domain.PurchaseRepository, papers command.PaperProvider, gw gateway.Gateway) *command.CreateOrderHandler {
	return command.NewCreateOrderHandler(payments, purchases, papers, gw)
}

func ProvideVerifyPaymentHandler(payments domain.PaymentRepository, purchases domain.PurchaseRepository, store domain.SettlementStore, gw gateway.Gateway, cfg Config) *command.VerifyPaymentHandler {
	return command.NewVerifyPaymentHandler(payments, purchases, store, gw, cfg.OrderSecret)
}

func ProvideProcessWebhookHandler(payments domain.PaymentRepository, purchases domain.PurchaseRepository, store domain.SettlementStore, cfg Config) *command.ProcessWebhookHandler {
	return command.NewProcessWebhookHandler(payments, purchases, store, cfg.WebhookSecret)
}

func ProvideClaimFreeHandler(purchases domain.PurchaseRepository, store domain.SettlementStore, papers command.PaperProvider) *command.ClaimFreeHandler {
	return command.NewClaimFreeHandler(purchases, store, papers)
}

// Query Handlers Providers
func ProvideGetPaymentHandler(repo domain.PaymentRepository) *query.GetPaymentHandler {
	return query.NewGetPaymentHandler(repo)
}

func ProvideListPaymentsHandler(repo domain.PaymentRepository) *query.ListPaymentsHandler {
	return query.NewListPaymentsHandler(repo)
}

func ProvideGetMyPaymentsHandler(repo domain.PaymentRepository) *query.GetMyPaymentsHandler {
	return query.NewGetMyPaymentsHandler(repo)
}

func ProvideGetMyPurchasesHandler(repo domain.PurchaseRepository) *query.GetMyPurchasesHandler {
	return query.NewGetMyPurchasesHandler(repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvidePaymentRepository,
	ProvidePurchaseRepository,
	ProvideSettlementStore,
)

var ClientSet = wire.NewSet(
	ProvidePaperProvider,
	ProvideGateway,
)

var CommandHandlerSet = wire.NewSet(
	ProvideCreateOrderHandler,
	ProvideVerifyPaymentHandler,
	ProvideProcessWebhookHandler,
	ProvideClaimFreeHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetPaymentHandler,
	ProvideListPaymentsHandler,
	ProvideGetMyPaymentsHandler,
	ProvideGetMyPurchasesHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	ClientSet,
	CommandHandlerSet,
	QueryHandlerSet,
	handler.NewMetrics,
)

// InitializeHandler initializes the payment handler with all dependencies
func InitializeHandler(db *gorm.DB, rdb *redis.Client, cfg Config) (*handler.PaymentHandler, error) {
	wire.Build(
		AllHandlersSet,
		handler.NewPaymentHandlerWithDI,
	)
	return nil, nil
}
