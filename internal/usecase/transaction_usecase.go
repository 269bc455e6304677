package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
	repo "github.com/Syarif-H55/smart-cashier/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

// コードが被ったときに作り直す回数
const maxCodeAttempts = 5

// 販売中のメニューだけを返す。なければrepo.ErrNotFound
type MenuCatalog interface {
	Lookup(ctx context.Context, id int64) (model.Menu, error)
}

type TransactionUsecase struct {
	tx           repo.TransactionManager
	transactions repo.TransactionRepository
	items        repo.TransactionItemRepository
	catalog      MenuCatalog
	validator    TransactionValidator
	codes        CodeGenerator
	clock        Clock
	events       EventPublisher
	logger       *log.Logger
}

// DI
func NewTransactionUsecase(
	tx repo.TransactionManager,
	transactions repo.TransactionRepository,
	items repo.TransactionItemRepository,
	catalog MenuCatalog,
	validator TransactionValidator,
	codes CodeGenerator,
	clock Clock,
	events EventPublisher,
	logger *log.Logger,
) *TransactionUsecase {
	if events == nil {
		events = NoopPublisher{}
	}
	return &TransactionUsecase{
		tx:           tx,
		transactions: transactions,
		items:        items,
		catalog:      catalog,
		validator:    validator,
		codes:        codes,
		clock:        clock,
		events:       events,
		logger:       logger,
	}
}

// nilと0を区別するためにポインタで受ける
type CreateTransactionItemInput struct {
	MenuID    *int64           `json:"menu_id"`
	Quantity  *int64           `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type CreateTransactionInput struct {
	UserID        *int64                       `json:"user_id"`
	PaymentMethod string                       `json:"payment_method"`
	Items         []CreateTransactionItemInput `json:"items"`
}

type CreateTransactionOutput struct {
	TransactionID   int64           `json:"transaction_id"`
	TransactionCode string          `json:"transaction_code"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CreatedAt       time.Time       `json:"created_at"`
}

type TransactionDetailOutput struct {
	Transaction model.Transaction             `json:"transaction"`
	Items       []model.TransactionItemDetail `json:"items"`
}

// 売上の登録。検証は全部書き込み前に終わらせる
func (u *TransactionUsecase) CreateTransaction(ctx context.Context, in CreateTransactionInput) (CreateTransactionOutput, error) {
	if err := u.validator.ValidateHeader(in); err != nil {
		return CreateTransactionOutput{}, invalidRequest("%s", err.Error())
	}

	//明細ごとに 項目 → メニュー → 数量/単価 の順で確認
	lines := make([]model.TransactionItem, 0, len(in.Items))
	total := decimal.Zero
	for _, item := range in.Items {
		if err := u.validator.ValidateItemFields(item); err != nil {
			return CreateTransactionOutput{}, invalidRequest("%s", err.Error())
		}

		if _, err := u.catalog.Lookup(ctx, *item.MenuID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return CreateTransactionOutput{}, referenceNotFound("Menu item with ID %d not found", *item.MenuID)
			}
			u.logger.Errorf("lookup menu %d: %v", *item.MenuID, err)
			return CreateTransactionOutput{}, persistenceFailure("failed to verify menu items")
		}

		if err := u.validator.ValidateItemValues(item); err != nil {
			return CreateTransactionOutput{}, invalidRequest("%s", err.Error())
		}

		subtotal := item.UnitPrice.Mul(decimal.NewFromInt(*item.Quantity))
		lines = append(lines, model.TransactionItem{
			MenuID:    *item.MenuID,
			Quantity:  *item.Quantity,
			UnitPrice: *item.UnitPrice,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}

	now := u.clock.Now()
	header := model.Transaction{
		TransactionCode: u.codes.Generate(now),
		UserID:          *in.UserID,
		TotalAmount:     total,
		PaymentMethod:   model.PaymentMethod(in.PaymentMethod),
		Status:          model.TransactionStatusCompleted,
		CreatedAt:       now,
	}

	//ヘッダと明細は同じトランザクションで書く
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		code, err := u.freeCode(ctx, r.Transactions(), header.TransactionCode, now)
		if err != nil {
			return fmt.Errorf("check transaction code: %w", err)
		}
		header.TransactionCode = code

		id, err := r.Transactions().Create(ctx, header)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		header.ID = id

		for i := range lines {
			lines[i].TransactionID = id
			if _, err := r.TransactionItems().Create(ctx, lines[i]); err != nil {
				return fmt.Errorf("insert item %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		u.logger.Errorf("create transaction for user %d: %v", header.UserID, err)
		return CreateTransactionOutput{}, persistenceFailure("failed to create transaction")
	}

	//通知はベストエフォート
	ev := TransactionCreatedEvent{
		TransactionID:   header.ID,
		TransactionCode: header.TransactionCode,
		UserID:          header.UserID,
		TotalAmount:     header.TotalAmount,
		PaymentMethod:   string(header.PaymentMethod),
		ItemCount:       len(lines),
		CreatedAt:       header.CreatedAt,
	}
	if err := u.events.PublishTransactionCreated(ctx, ev); err != nil {
		u.logger.Warnf("publish %s for transaction %d: %v", EventTransactionCreated, header.ID, err)
	}

	return CreateTransactionOutput{
		TransactionID:   header.ID,
		TransactionCode: header.TransactionCode,
		TotalAmount:     header.TotalAmount,
		CreatedAt:       header.CreatedAt,
	}, nil
}

// 同じ日のコードと被っていたら作り直す。上限に達したら最後のコードを使う
func (u *TransactionUsecase) freeCode(ctx context.Context, transactions repo.TransactionRepository, code string, now time.Time) (string, error) {
	for attempt := 1; ; attempt++ {
		exists, err := transactions.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists || attempt == maxCodeAttempts {
			return code, nil
		}
		code = u.codes.Generate(now)
	}
}

// 売上1件（明細はid順、メニュー名付き）
func (u *TransactionUsecase) GetTransaction(ctx context.Context, id int64) (TransactionDetailOutput, error) {
	if id <= 0 {
		return TransactionDetailOutput{}, invalidRequest("invalid transaction id")
	}

	t, err := u.transactions.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return TransactionDetailOutput{}, notFound("Transaction not found")
	}
	if err != nil {
		u.logger.Errorf("find transaction %d: %v", id, err)
		return TransactionDetailOutput{}, persistenceFailure("failed to retrieve transaction")
	}

	items, err := u.items.ListByTransactionID(ctx, id)
	if err != nil {
		u.logger.Errorf("list items of transaction %d: %v", id, err)
		return TransactionDetailOutput{}, persistenceFailure("failed to retrieve transaction")
	}
	if items == nil {
		items = []model.TransactionItemDetail{}
	}

	return TransactionDetailOutput{Transaction: t, Items: items}, nil
}

// 新しい順の一覧（明細なし）
func (u *TransactionUsecase) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	list, err := u.transactions.ListAll(ctx)
	if err != nil {
		u.logger.Errorf("list transactions: %v", err)
		return nil, persistenceFailure("failed to retrieve transactions")
	}
	if list == nil {
		list = []model.Transaction{}
	}
	return list, nil
}
