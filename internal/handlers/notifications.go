package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gampahin-husmak/community-api/internal/auth"
	"github.com/gampahin-husmak/community-api/internal/models"
	"gorm.io/gorm"
)

const defaultNotificationLimit = 20

type NotificationHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewNotificationHandler(db *gorm.DB, authHandler *auth.AuthHandler) *NotificationHandler {
	return &NotificationHandler{db: db, authHandler: authHandler}
}

type ListNotificationsRequest struct {
	auth.AuthInput
	PageInput
	Unread bool `query:"unread" required:"false" doc:"Only unread notifications"`
}

type ListNotificationsResponse struct {
	Body struct {
		Notifications []models.Notification `json:"notifications"`
		Pagination    models.Pagination     `json:"pagination"`
	}
}

func (h *NotificationHandler) HandleListNotifications(ctx context.Context, input *ListNotificationsRequest) (*ListNotificationsResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	page, limit := input.PageLimit()
	page, limit = models.NormalizePage(page, limit, defaultNotificationLimit)

	query := h.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if input.Unread {
		query = query.Where("read = ?", false)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	var notifications []models.Notification
	err = query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, storeUnavailable(err)
	}

	res := &ListNotificationsResponse{}
	res.Body.Notifications = notifications
	res.Body.Pagination = models.NewPagination(int(totalItems), page, limit)
	return res, nil
}

type MarkNotificationReadRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type MarkNotificationReadResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *NotificationHandler) HandleMarkNotificationRead(ctx context.Context, input *MarkNotificationReadRequest) (*MarkNotificationReadResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	result := h.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", input.ID, userID).
		Update("read", true)
	if result.Error != nil {
		return nil, storeUnavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Notification not found")
	}

	res := &MarkNotificationReadResponse{}
	res.Body.Message = "Marked as read"
	return res, nil
}
