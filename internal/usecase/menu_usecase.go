package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
	repo "github.com/Syarif-H55/smart-cashier/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

type MenuUsecase struct {
	menus     repo.MenuRepository
	audits    repo.AuditLogRepository
	validator MenuValidator
	clock     Clock
	logger    *log.Logger
}

// DI
func NewMenuUsecase(
	menus repo.MenuRepository,
	audits repo.AuditLogRepository,
	validator MenuValidator,
	clock Clock,
	logger *log.Logger,
) *MenuUsecase {
	return &MenuUsecase{
		menus:     menus,
		audits:    audits,
		validator: validator,
		clock:     clock,
		logger:    logger,
	}
}

type CreateMenuInput struct {
	Name     string           `json:"name"`
	Category string           `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	ImageURL *string          `json:"image_url"`
}

type UpdateAvailabilityInput struct {
	IsAvailable *bool `json:"is_available"`
}

// GET /audit-logs の入力
type ListAuditLogsInput struct {
	Action     string
	ResourceID *int64
	Limit      int
	Offset     int
}

// 販売中のメニュー一覧
func (u *MenuUsecase) ListMenus(ctx context.Context) ([]model.Menu, error) {
	menus, err := u.menus.ListAvailable(ctx)
	if err != nil {
		u.logger.Errorf("list menus: %v", err)
		return nil, NewHTTPError(http.StatusInternalServerError, "Failed to retrieve menu items")
	}
	if menus == nil {
		menus = []model.Menu{}
	}
	return menus, nil
}

func (u *MenuUsecase) GetMenu(ctx context.Context, id int64) (model.Menu, error) {
	m, err := u.Lookup(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Menu{}, notFound("Menu item not found")
	}
	if err != nil {
		u.logger.Errorf("get menu %d: %v", id, err)
		return model.Menu{}, NewHTTPError(http.StatusInternalServerError, "Failed to retrieve menu item")
	}
	return m, nil
}

// MenuCatalog。販売停止と未登録は区別しない
func (u *MenuUsecase) Lookup(ctx context.Context, id int64) (model.Menu, error) {
	if id <= 0 {
		return model.Menu{}, repo.ErrNotFound
	}
	return u.menus.FindAvailableByID(ctx, id)
}

func (u *MenuUsecase) CreateMenu(ctx context.Context, actorID int64, in CreateMenuInput) (model.Menu, error) {
	if actorID <= 0 {
		return model.Menu{}, NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	if err := u.validator.ValidateCreate(in); err != nil {
		return model.Menu{}, invalidRequest("%s", err.Error())
	}

	created, err := u.menus.Create(ctx, model.Menu{
		Name:        strings.TrimSpace(in.Name),
		Category:    model.MenuCategory(in.Category),
		Price:       *in.Price,
		ImageURL:    in.ImageURL,
		IsAvailable: true,
	})
	if err != nil {
		u.logger.Errorf("create menu: %v", err)
		return model.Menu{}, NewHTTPError(http.StatusInternalServerError, "Failed to create menu item")
	}

	u.audit(ctx, actorID, model.AuditActionCreateMenu, created.ID, nil, created)
	return created, nil
}

func (u *MenuUsecase) UpdateAvailability(ctx context.Context, actorID int64, id int64, in UpdateAvailabilityInput) error {
	if actorID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	if err := u.validator.ValidateAvailability(in); err != nil {
		return invalidRequest("%s", err.Error())
	}

	//変更前（販売停止中も対象）
	before, err := u.menus.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return notFound("Menu item not found")
	}
	if err != nil {
		u.logger.Errorf("find menu %d: %v", id, err)
		return NewHTTPError(http.StatusInternalServerError, "Failed to update menu availability")
	}

	if err := u.menus.UpdateAvailability(ctx, id, *in.IsAvailable); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("Menu item not found")
		}
		u.logger.Errorf("update menu %d availability: %v", id, err)
		return NewHTTPError(http.StatusInternalServerError, "Failed to update menu availability")
	}

	after := before
	after.IsAvailable = *in.IsAvailable
	u.audit(ctx, actorID, model.AuditActionUpdateMenuAvailability, id,
		map[string]bool{"is_available": before.IsAvailable},
		map[string]bool{"is_available": after.IsAvailable})
	return nil
}

func (u *MenuUsecase) DeleteMenu(ctx context.Context, actorID int64, id int64) error {
	if actorID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	before, err := u.menus.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return notFound("Menu item not found")
	}
	if err != nil {
		u.logger.Errorf("find menu %d: %v", id, err)
		return NewHTTPError(http.StatusInternalServerError, "Failed to delete menu item")
	}

	//論理削除
	if err := u.menus.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("Menu item not found")
		}
		u.logger.Errorf("delete menu %d: %v", id, err)
		return NewHTTPError(http.StatusInternalServerError, "Failed to delete menu item")
	}

	u.audit(ctx, actorID, model.AuditActionDeleteMenu, id, before, nil)
	return nil
}

// 監査ログ一覧（admin）
func (u *MenuUsecase) ListAuditLogs(ctx context.Context, in ListAuditLogsInput) ([]model.AuditLog, error) {
	if in.Limit < 0 || in.Limit > 200 {
		return nil, invalidRequest("invalid limit")
	}
	if in.Offset < 0 {
		return nil, invalidRequest("invalid offset")
	}

	filter := repo.AuditLogFilter{
		ResourceID: in.ResourceID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if in.Action != "" {
		action := model.AuditAction(strings.ToUpper(in.Action))
		switch action {
		case model.AuditActionCreateMenu, model.AuditActionUpdateMenuAvailability, model.AuditActionDeleteMenu:
		default:
			return nil, invalidRequest("invalid action")
		}
		filter.Action = &action
	}

	logs, err := u.audits.List(ctx, filter)
	if err != nil {
		u.logger.Errorf("list audit logs: %v", err)
		return nil, NewHTTPError(http.StatusInternalServerError, "Failed to retrieve audit logs")
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}

// 変更は済んでいるので、監査ログの失敗はログに残すだけ
func (u *MenuUsecase) audit(ctx context.Context, actorID int64, action model.AuditAction, menuID int64, before any, after any) {
	entry := model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: model.AuditResourceMenu,
		ResourceID:   menuID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    u.clock.Now(),
	}
	if err := u.audits.Create(ctx, entry); err != nil {
		u.logger.Warnf("audit %s menu %d: %v", action, menuID, err)
	}
}

func toJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
