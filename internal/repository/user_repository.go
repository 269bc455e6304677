package repository

import (
	"context"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	// 新規ユーザー作成。username重複はErrDuplicate
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。なければErrNotFound
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	// usernameからユーザーを1件取得する。なければErrNotFound
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}
