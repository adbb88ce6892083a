package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Notification struct {
	NotificationID      uuid.UUID      `gorm:"column:notification_id;type:uuid;default:gen_random_uuid();primaryKey" json:"notification_id"`
	NotificationUserID  uuid.UUID      `gorm:"column:notification_user_id;type:uuid;not null;index:idx_notification_user_read" json:"notification_user_id"`
	NotificationMessage string         `gorm:"column:notification_message;type:text;not null" json:"message"`
	NotificationLink    *string        `gorm:"column:notification_link;type:varchar(255)" json:"link,omitempty"`
	NotificationMeta    datatypes.JSON `gorm:"column:notification_meta;type:jsonb" json:"meta,omitempty"`
	NotificationIsRead  bool           `gorm:"column:notification_is_read;not null;default:false;index:idx_notification_user_read" json:"is_read"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
