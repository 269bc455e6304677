package repository

import (
	"context"
	"errors"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反（username など）
var ErrDuplicate = errors.New("duplicate")

// メニューの永続化（保存・取得）だけを約束。
type MenuRepository interface {
	// 販売中のメニュー一覧（category, name順）
	ListAvailable(ctx context.Context) ([]model.Menu, error)

	// 販売中のものだけ取得。存在しない/販売停止はどちらもErrNotFound
	FindAvailableByID(ctx context.Context, id int64) (model.Menu, error)

	// 販売状態に関係なく取得（削除済みは除く）
	FindByID(ctx context.Context, id int64) (model.Menu, error)

	Create(ctx context.Context, m model.Menu) (model.Menu, error)
	UpdateAvailability(ctx context.Context, id int64, isAvailable bool) error
	SoftDelete(ctx context.Context, id int64) error
}
