package usecase

// 入力の形だけを見る（DBは見ない）。
// 返すエラーのメッセージはそのまま400の本文になる。
type TransactionValidator interface {
	ValidateHeader(in CreateTransactionInput) error
	ValidateItemFields(item CreateTransactionItemInput) error
	ValidateItemValues(item CreateTransactionItemInput) error
}

type MenuValidator interface {
	ValidateCreate(in CreateMenuInput) error
	ValidateAvailability(in UpdateAvailabilityInput) error
}
