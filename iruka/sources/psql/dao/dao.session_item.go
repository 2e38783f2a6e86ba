// iruka/sources/psql/dao/dao.session_item.go
package dao

import (
	"context"
	"errors"
	"iruka/iruka/sources/psql/models"
	"iruka/iruka/sources/session"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionItemDAO implements session.Storage on top of the session_items table.
type SessionItemDAO struct {
	DB *gorm.DB
}

func NewSessionItemDAO(db *gorm.DB) *SessionItemDAO {
	return &SessionItemDAO{DB: db}
}

func (dao *SessionItemDAO) GetItem(ctx context.Context, sessionID, key string) (string, error) {
	var item models.SessionItem
	err := dao.DB.WithContext(ctx).
		Where("session_id = ? AND item_key = ?", sessionID, key).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return item.Value, nil
}

// SetItem upserts the value; the whole value is replaced (last write wins).
func (dao *SessionItemDAO) SetItem(ctx context.Context, sessionID, key, value string) error {
	item := models.SessionItem{SessionID: sessionID, Key: key, Value: value}
	return dao.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "item_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&item).Error
}

func (dao *SessionItemDAO) RemoveItem(ctx context.Context, sessionID, key string) error {
	return dao.DB.WithContext(ctx).
		Where("session_id = ? AND item_key = ?", sessionID, key).
		Delete(&models.SessionItem{}).Error
}

// Prune drops every item not written to within maxIdle.
func (dao *SessionItemDAO) Prune(ctx context.Context, maxIdle time.Duration) (int64, error) {
	res := dao.DB.WithContext(ctx).
		Where("updated_at < ?", time.Now().Add(-maxIdle)).
		Delete(&models.SessionItem{})
	return res.RowsAffected, res.Error
}
