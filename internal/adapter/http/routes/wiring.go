package routes

import (
	"context"

	"carwash_payouts/internal/adapter/http/handlers"
	"carwash_payouts/internal/adapter/persistence/memory"
	"carwash_payouts/internal/adapter/persistence/repository"
	"carwash_payouts/internal/config"
	"carwash_payouts/internal/infrastructure/authz"
	"carwash_payouts/internal/infrastructure/database"
	"carwash_payouts/internal/infrastructure/payments"
	"carwash_payouts/internal/usecase"
	"carwash_payouts/internal/usecase/interfaces"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Stores is the persistence side chosen by STORE_BACKEND.
type Stores struct {
	Custody         interfaces.ICustodyRepository
	Earnings        interfaces.IEarningsRepository
	PaymentRequests interfaces.IPaymentRequestRepository
	Jobs            interfaces.IJobSource
}

// MemoryStores backs every repository with one in-process store.
func MemoryStores(s *memory.Store) Stores {
	return Stores{
		Custody:         memory.NewCustodyRepository(s),
		Earnings:        memory.NewEarningsRepository(s),
		PaymentRequests: memory.NewPaymentRequestRepository(s),
		Jobs:            memory.NewJobSource(s),
	}
}

func dynamoStores(ctx context.Context) (Stores, error) {
	ddb, err := database.ConnectDynamoDB(ctx)
	if err != nil {
		return Stores{}, err
	}
	return Stores{
		Custody:         repository.NewCustodyDynamoRepository(ddb),
		Earnings:        repository.NewEarningsDynamoRepository(ddb),
		PaymentRequests: repository.NewPaymentRequestDynamoRepository(ddb),
		Jobs:            repository.NewJobDynamoSource(ddb),
	}, nil
}

// NewHandlers builds the use cases on top of stores and wraps them in handlers.
func NewHandlers(stores Stores, authorizer interfaces.IAuthorizer, gateway interfaces.IPayoutGateway, opts usecase.PaymentRequestOptions) Handlers {
	commissionUseCase := usecase.NewCommissionUseCase(stores.Jobs)
	earningsUseCase := usecase.NewEarningsUseCase(stores.Earnings, commissionUseCase)
	custodyUseCase := usecase.NewCustodyUseCase(stores.Custody)
	deductionUseCase := usecase.NewDeductionUseCase(stores.Custody, earningsUseCase)
	paymentRequestUseCase := usecase.NewPaymentRequestUseCase(stores.PaymentRequests, earningsUseCase, deductionUseCase, authorizer, gateway, opts)

	return Handlers{
		Custody:        handlers.NewCustodyHandler(custodyUseCase),
		Earnings:       handlers.NewEarningsHandler(commissionUseCase, earningsUseCase, authorizer),
		PaymentRequest: handlers.NewPaymentRequestHandler(paymentRequestUseCase, deductionUseCase),
	}
}

func buildHandlers(ctx context.Context, cfg config.Config) (Handlers, error) {
	var stores Stores
	switch cfg.StoreBackend {
	case config.StoreMemory:
		logrus.Warn("[app][routes] using in-memory store; data is lost on restart")
		stores = MemoryStores(memory.NewStore())
	default:
		s, err := dynamoStores(ctx)
		if err != nil {
			return Handlers{}, err
		}
		stores = s
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = authz.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}
	authorizer := authz.New(redisClient, cfg.Payout.Admins())

	// A nil gateway still satisfies the interface and fails every payout with
	// a configuration error.
	gateway, err := payments.NewMercadoPagoGateway(cfg.Payout.MercadoPagoToken, cfg.Payout.GatewayMock)
	if err != nil {
		logrus.WithError(err).Warn("[app][routes] payout gateway not configured")
	}

	minAmount, err := cfg.Payout.MinPayout()
	if err != nil {
		return Handlers{}, err
	}
	opts := usecase.PaymentRequestOptions{
		EnforceCeiling: cfg.Payout.EnforceCeiling,
		MinAmount:      minAmount,
	}

	return NewHandlers(stores, authorizer, gateway, opts), nil
}
