package usecase_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
	"github.com/Syarif-H55/smart-cashier/internal/repository/repotest"
	"github.com/Syarif-H55/smart-cashier/internal/usecase"
	"github.com/Syarif-H55/smart-cashier/internal/validator"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

// 呼ばれるたびに1秒進む
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// 決まった順にコードを返す。尽きたら最後を返し続ける
type sequenceCodes struct {
	codes []string
	i     int
}

func (g *sequenceCodes) Generate(time.Time) string {
	c := g.codes[g.i]
	if g.i < len(g.codes)-1 {
		g.i++
	}
	return c
}

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) PublishTransactionCreated(ctx context.Context, ev usecase.TransactionCreatedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func discardLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func i64(v int64) *int64 { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func item(menuID int64, qty int64, price string) usecase.CreateTransactionItemInput {
	return usecase.CreateTransactionItemInput{MenuID: i64(menuID), Quantity: i64(qty), UnitPrice: dec(price)}
}

type ledgerFixture struct {
	store     *repotest.Store
	uc        *usecase.TransactionUsecase
	menus     *usecase.MenuUsecase
	publisher *publisherMock
	clock     *stepClock
	nasi      model.Menu
	esTeh     model.Menu
	sold      model.Menu
}

func newLedgerFixture(t *testing.T, codes usecase.CodeGenerator) *ledgerFixture {
	t.Helper()

	store := repotest.NewStore()
	f := &ledgerFixture{
		store:     store,
		publisher: &publisherMock{},
		clock:     &stepClock{now: testNow},
	}
	f.nasi = store.AddMenu(model.Menu{Name: "Nasi Goreng", Category: model.MenuCategoryFood, Price: decimal.NewFromInt(25000), IsAvailable: true})
	f.esTeh = store.AddMenu(model.Menu{Name: "Es Teh Manis", Category: model.MenuCategoryBeverage, Price: decimal.NewFromInt(5000), IsAvailable: true})
	f.sold = store.AddMenu(model.Menu{Name: "Es Campur", Category: model.MenuCategoryDessert, Price: decimal.NewFromInt(15000), IsAvailable: false})

	if codes == nil {
		codes = usecase.NewRandomCodeGenerator()
	}

	logger := discardLogger()
	f.menus = usecase.NewMenuUsecase(store.Menus(), &repotest.AuditLogRepo{}, validator.NewMenuValidator(), f.clock, logger)
	f.uc = usecase.NewTransactionUsecase(
		store.TxManager(),
		store.Transactions(),
		store.TransactionItems(),
		f.menus,
		validator.NewTransactionValidator(),
		codes,
		f.clock,
		f.publisher,
		logger,
	)
	return f
}
