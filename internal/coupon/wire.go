//go:build wireinject
// +build wireinject

package coupon

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/acadly/paperpay/internal/coupon/client"
	"github.com/acadly/paperpay/internal/coupon/domain"
	"github.com/acadly/paperpay/internal/coupon/handler"
	"github.com/acadly/paperpay/internal/coupon/repository"
	"github.com/acadly/paperpay/internal/coupon/usecase/command"
	"github.com/acadly/paperpay/internal/coupon/usecase/query"
	paymentdomain "github.com/acadly/paperpay/internal/payment/domain"
	paymentrepository "github.com/acadly/paperpay/internal/payment/repository"
)

// ProvideCouponRepository provides the coupon repository with tracing
func ProvideCouponRepository(db *gorm.DB) domain.CouponRepository {
	return repository.NewGormCouponRepositoryWithTracing(db)
}

// ProvidePurchaseRepository provides the shared entitlement reader
func ProvidePurchaseRepository(db *gorm.DB) paymentdomain.PurchaseRepository {
	return paymentrepository.NewGormPurchaseRepository(db)
}

// ProvideSettlementStore provides the shared transactional grant writer
func ProvideSettlementStore(db *gorm.DB) paymentdomain.SettlementStore {
	return paymentrepository.NewGormSettlementStoreWithTracing(db)
}

// ProvidePaperProvider provides the paper catalog client
func ProvidePaperProvider(cfg Config) command.PaperProvider {
	return client.NewPaperServiceClient(cfg.PaperServiceAddr)
}

// Command Handlers Providers
func ProvideGenerateCouponsHandler(coupons domain.CouponRepository, papers command.PaperProvider, publisher command.CouponPublisher) *command.GenerateCouponsHandler {
	return command.NewGenerateCouponsHandler(coupons, papers, publisher)
}

func ProvideRedeemCouponHandler(coupons domain.CouponRepository, purchases paymentdomain.PurchaseRepository, store paymentdomain.SettlementStore) *command.RedeemCouponHandler {
	return command.NewRedeemCouponHandler(coupons, purchases, store)
}

func ProvideDeleteUnusedHandler(coupons domain.CouponRepository) *command.DeleteUnusedHandler {
	return command.NewDeleteUnusedHandler(coupons)
}

// Query Handlers Providers
func ProvideListCouponsHandler(coupons domain.CouponRepository) *query.ListCouponsHandler {
	return query.NewListCouponsHandler(coupons)
}

func ProvideGetMyCouponsHandler(coupons domain.CouponRepository) *query.GetMyCouponsHandler {
	return query.NewGetMyCouponsHandler(coupons)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideCouponRepository,
	ProvidePurchaseRepository,
	ProvideSettlementStore,
)

var ClientSet = wire.NewSet(
	ProvidePaperProvider,
)

var CommandHandlerSet = wire.NewSet(
	ProvideGenerateCouponsHandler,
	ProvideRedeemCouponHandler,
	ProvideDeleteUnusedHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideListCouponsHandler,
	ProvideGetMyCouponsHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	ClientSet,
	CommandHandlerSet,
	QueryHandlerSet,
	handler.NewMetrics,
)

// InitializeHandler initializes the coupon handler with all dependencies
func InitializeHandler(db *gorm.DB, publisher command.CouponPublisher, cfg Config) (*handler.CouponHandler, error) {
	wire.Build(
		AllHandlersSet,
		handler.NewCouponHandlerWithDI,
	)
	return nil, nil
}
