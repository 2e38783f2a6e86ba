// iruka/sources/psql/models/session_item.go
package models

import "time"

// SessionItem is one key of one browser session's storage.
type SessionItem struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	SessionID string    `json:"session_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_session_key"`
	Key       string    `json:"key" gorm:"column:item_key;type:varchar(128);not null;uniqueIndex:idx_session_key"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (SessionItem) TableName() string {
	return "session_items"
}
