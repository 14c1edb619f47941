package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type notificationModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;index"`
	Type      string    `gorm:"column:type"`
	Title     string    `gorm:"column:title"`
	Message   *string   `gorm:"column:message"`
	IsRead    bool      `gorm:"column:is_read"`
	Data      []byte    `gorm:"column:data"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *Notification, data map[string]any) error {
	var raw []byte
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		raw = b
	}

	var msg *string
	if n.Message != "" {
		m := n.Message
		msg = &m
	}

	m := notificationModel{
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   msg,
		IsRead:    n.IsRead,
		Data:      raw,
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

func (r *NotificationRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]Notification, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []notificationModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]Notification, 0, len(rows))
	for _, it := range rows {
		var decoded any
		if len(it.Data) > 0 {
			_ = json.Unmarshal(it.Data, &decoded)
		}

		msg := ""
		if it.Message != nil {
			msg = *it.Message
		}

		out = append(out, Notification{
			ID:        it.ID,
			UserID:    it.UserID,
			Type:      NotificationType(it.Type),
			Title:     it.Title,
			Message:   msg,
			IsRead:    it.IsRead,
			Data:      decoded,
			CreatedAt: it.CreatedAt,
		})
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	res := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
