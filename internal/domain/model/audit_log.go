package model

import "time"

type AuditAction string

const (
	AuditActionCreateMenu             AuditAction = "CREATE_MENU"
	AuditActionUpdateMenuAvailability AuditAction = "UPDATE_MENU_AVAILABILITY"
	AuditActionDeleteMenu             AuditAction = "DELETE_MENU"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceMenu AuditResourceType = "menu"
)

// 監査ログ（メニュー操作）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`
	BeforeJSON   string            `gorm:"type:text" json:"before_json"`
	AfterJSON    string            `gorm:"type:text" json:"after_json"`
	CreatedAt    time.Time         `gorm:"not null;index" json:"created_at"`
}
