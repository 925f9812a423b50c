package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/internal/infrastructure/memory"
	"github.com/balcaohq/balcao-api/pkg/notify"
	"github.com/balcaohq/balcao-api/pkg/pixgw"
)

// fakeGateway is an in-process pixgw.Gateway that hands out sequential
// transaction ids and records refund calls.
type fakeGateway struct {
	mu        sync.Mutex
	created   int
	refunds   int
	createErr error
	refundErr error
}

func (g *fakeGateway) CreateCharge(ctx context.Context, req pixgw.ChargeRequest) (*pixgw.ChargeResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created++
	return &pixgw.ChargeResponse{
		TxID:      fmt.Sprintf("tx-%03d", g.created),
		QRPayload: "qr-payload",
	}, nil
}

func (g *fakeGateway) CancelRefund(ctx context.Context, txID, localID string, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return g.refundErr
	}
	g.refunds++
	return nil
}

// failingPaymentRepo delegates to the real repository but fails Create on
// demand, to exercise the compensating delete of the counter policy.
type failingPaymentRepo struct {
	repository.PaymentRepository
	failCreate bool
}

func (r *failingPaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if r.failCreate {
		return fmt.Errorf("simulated write failure")
	}
	return r.PaymentRepository.Create(ctx, payment)
}

// failingCounterRepo always fails, to exercise the disclosed partial
// success of order creation.
type failingCounterRepo struct{}

func (failingCounterRepo) Next(ctx context.Context, storeID uuid.UUID, day string) (int, error) {
	return 0, fmt.Errorf("counter unavailable")
}

type testEnv struct {
	data    *memory.Dataset
	gateway *fakeGateway

	store    *entity.Store
	operator *entity.User
	coffee   *entity.Product
	cake     *entity.Product
	cashPay  *entity.PaymentMethod

	orderRepo   repository.OrderRepository
	storeRepo   repository.StoreRepository
	paymentRepo repository.PaymentRepository
	sessionRepo repository.CashSessionRepository
	counterRepo repository.CounterRepository
	accountRepo repository.AccountRepository
	chargeRepo  repository.ChargeRepository

	orders   *OrderService
	payments *PaymentService
	accounts *AccountService
	sessions *CashSessionService
	charges  *ChargeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	data := memory.NewDataset()

	store := &entity.Store{
		Name: "Bar do Centro",
		Slug: "bar-do-centro",
		Settings: entity.StoreSettings{
			AcceptingOrders: true,
			DeliveryEnabled: true,
			TipRate:         0.10,
			PixKey:          "bar@pix.example",
		},
	}
	data.SeedStore(store)

	operator := &entity.User{
		StoreID:   store.ID,
		FirstName: "Ana",
		LastName:  "Souza",
		Email:     "ana@example.com",
		Active:    true,
	}
	data.SeedUser(operator)

	coffee := &entity.Product{StoreID: store.ID, Name: "Coffee", Price: 1000, TipEligible: true, Prepare: true}
	cake := &entity.Product{StoreID: store.ID, Name: "Cake", Price: 500, TipEligible: false, Prepare: false}
	data.SeedProduct(coffee)
	data.SeedProduct(cake)

	cashPay := &entity.PaymentMethod{StoreID: store.ID, Name: "Cash", Form: enum.PaymentFormCash, Enabled: true}
	data.SeedPaymentMethod(cashPay)

	gateway := &fakeGateway{}

	env := &testEnv{
		data:        data,
		gateway:     gateway,
		store:       store,
		operator:    operator,
		coffee:      coffee,
		cake:        cake,
		cashPay:     cashPay,
		orderRepo:   memory.NewOrderRepo(data),
		paymentRepo: memory.NewPaymentRepo(data),
		sessionRepo: memory.NewCashSessionRepo(data),
		counterRepo: memory.NewCounterRepo(data),
		accountRepo: memory.NewAccountRepo(data),
		chargeRepo:  memory.NewChargeRepo(data),
	}

	storeRepo := memory.NewStoreRepo(data)
	env.storeRepo = storeRepo
	methodRepo := memory.NewPaymentMethodRepo(data)
	productRepo := memory.NewProductRepo(data)
	userRepo := memory.NewUserRepo(data)
	customerRepo := memory.NewCustomerRepo(data)
	analyticsRepo := memory.NewAnalyticsRepo(data)

	env.payments = NewPaymentService(env.paymentRepo, env.sessionRepo, gateway)
	env.orders = NewOrderService(
		env.orderRepo, env.accountRepo, env.paymentRepo, env.sessionRepo, env.counterRepo,
		storeRepo, methodRepo, productRepo, userRepo, env.payments, notify.NoopNotifier{},
	)
	env.accounts = NewAccountService(env.accountRepo, env.orderRepo, env.paymentRepo, customerRepo)
	env.sessions = NewCashSessionService(env.sessionRepo, userRepo, analyticsRepo)
	env.charges = NewChargeService(env.chargeRepo, env.paymentRepo, storeRepo, gateway, notify.NoopNotifier{})
	return env
}

// openSession opens a till session for the fixture operator.
func (env *testEnv) openSession(t *testing.T) *entity.CashSession {
	t.Helper()
	session, err := env.sessions.Open(context.Background(), &OpenSessionInput{
		StoreID:      env.store.ID,
		OperatorID:   env.operator.ID,
		OpeningFloat: 50.00,
	})
	if err != nil {
		t.Fatalf("open session failed: %v", err)
	}
	return session
}
