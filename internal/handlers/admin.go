package handlers

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gampahin-husmak/community-api/internal/achievements"
	"github.com/gampahin-husmak/community-api/internal/auth"
	"github.com/gampahin-husmak/community-api/internal/models"
	"gorm.io/gorm"
)

const defaultAdminUserLimit = 50

type AdminHandler struct {
	db          *gorm.DB
	engine      *achievements.Engine
	authHandler *auth.AuthHandler
}

func NewAdminHandler(db *gorm.DB, engine *achievements.Engine, authHandler *auth.AuthHandler) *AdminHandler {
	return &AdminHandler{db: db, engine: engine, authHandler: authHandler}
}

type ListUsersRequest struct {
	auth.AuthInput
	PageInput
}

type ListUsersResponse struct {
	Body struct {
		Users      []models.User     `json:"users"`
		Pagination models.Pagination `json:"pagination"`
	}
}

func (h *AdminHandler) HandleListUsers(ctx context.Context, input *ListUsersRequest) (*ListUsersResponse, error) {
	if _, err := h.authHandler.RequireModerator(ctx, input.Cookie); err != nil {
		return nil, err
	}

	page, limit := input.PageLimit()
	page, limit = models.NormalizePage(page, limit, defaultAdminUserLimit)

	var totalItems int64
	if err := h.db.WithContext(ctx).Model(&models.User{}).Count(&totalItems).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	var users []models.User
	err := h.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, storeUnavailable(err)
	}

	res := &ListUsersResponse{}
	res.Body.Users = users
	res.Body.Pagination = models.NewPagination(int(totalItems), page, limit)
	return res, nil
}

type UpdateUserRoleRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Role models.Role `json:"role" required:"true"`
	}
}

type UserMessageResponse struct {
	Body struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
}

func (h *AdminHandler) HandleUpdateUserRole(ctx context.Context, input *UpdateUserRoleRequest) (*UserMessageResponse, error) {
	if _, err := h.authHandler.RequireSuperAdmin(ctx, input.Cookie); err != nil {
		return nil, err
	}

	if !input.Body.Role.Valid() {
		return nil, huma.Error400BadRequest("Invalid role")
	}

	var user models.User
	err := h.db.WithContext(ctx).First(&user, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("User not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}

	user.Role = input.Body.Role
	if err := h.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	res := &UserMessageResponse{}
	res.Body.Message = "User role updated"
	res.Body.User = user
	return res, nil
}

type VerifyUserRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		IsVerified bool `json:"is_verified"`
	}
}

func (h *AdminHandler) HandleVerifyUser(ctx context.Context, input *VerifyUserRequest) (*UserMessageResponse, error) {
	if _, err := h.authHandler.RequireModerator(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var user models.User
	err := h.db.WithContext(ctx).First(&user, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("User not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}

	user.IsVerified = input.Body.IsVerified
	if err := h.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	verb := "unverified"
	if user.IsVerified {
		verb = "verified"
	}

	res := &UserMessageResponse{}
	res.Body.Message = fmt.Sprintf("User %s successfully", verb)
	res.Body.User = user
	return res, nil
}

type DeleteUserRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *AdminHandler) HandleDeleteUser(ctx context.Context, input *DeleteUserRequest) (*MessageResponse, error) {
	if _, err := h.authHandler.RequireSuperAdmin(ctx, input.Cookie); err != nil {
		return nil, err
	}

	result := h.db.WithContext(ctx).Delete(&models.User{}, input.ID)
	if result.Error != nil {
		return nil, storeUnavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, huma.Error404NotFound("User not found")
	}

	res := &MessageResponse{}
	res.Body.Message = "User deleted successfully"
	return res, nil
}

type AdminSummaryRequest struct {
	auth.AuthInput
}

type AdminSummaryResponse struct {
	Body struct {
		Stats struct {
			TotalTrees      int64 `json:"totalTrees"`
			ActiveTrees     int64 `json:"activeTrees"`
			TotalUsers      int64 `json:"totalUsers"`
			TotalAdmins     int64 `json:"totalAdmins"`
			TotalEvents     int64 `json:"totalEvents"`
			UpcomingEvents  int64 `json:"upcomingEvents"`
			PendingContacts int64 `json:"pendingContacts"`
		} `json:"stats"`
		RecentUsers []models.User `json:"recentUsers"`
		RecentTrees []models.Tree `json:"recentTrees"`
	}
}

func (h *AdminHandler) HandleAdminSummary(ctx context.Context, input *AdminSummaryRequest) (*AdminSummaryResponse, error) {
	if _, err := h.authHandler.RequireModerator(ctx, input.Cookie); err != nil {
		return nil, err
	}

	res := &AdminSummaryResponse{}
	db := h.db.WithContext(ctx)
	stats := &res.Body.Stats

	if err := db.Model(&models.Tree{}).Count(&stats.TotalTrees).Error; err != nil {
		return nil, storeUnavailable(err)
	}
	if err := db.Model(&models.Tree{}).Where("status = ?", models.TreeStatusActive).Count(&stats.ActiveTrees).Error; err != nil {
		return nil, storeUnavailable(err)
	}
	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, storeUnavailable(err)
	}
	if err := db.Model(&models.User{}).Where("role IN ?", []models.Role{models.RoleAdmin, models.RoleSuperAdmin}).Count(&stats.TotalAdmins).Error; err != nil {
		return nil, storeUnavailable(err)
	}
	if err := db.Model(&models.Event{}).Count(&stats.TotalEvents).Error; err != nil {
		return nil, storeUnavailable(err)
	}
	if err := db.Model(&models.Event{}).Where("status = ?", models.EventStatusUpcoming).Count(&stats.UpcomingEvents).Error; err != nil {
		return nil, storeUnavailable(err)
	}
	if err := db.Model(&models.Contact{}).Where("status = ?", models.ContactStatusNew).Count(&stats.PendingContacts).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	if err := db.Order("created_at DESC").Limit(5).Find(&res.Body.RecentUsers).Error; err != nil {
		return nil, storeUnavailable(err)
	}
	if err := db.Preload("Planter").Order("created_at DESC").Limit(5).Find(&res.Body.RecentTrees).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	return res, nil
}

type RemindTreeRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

// HandleRemindTree sends the planter an update reminder through the
// notification inbox.
func (h *AdminHandler) HandleRemindTree(ctx context.Context, input *RemindTreeRequest) (*MessageResponse, error) {
	if _, err := h.authHandler.RequireModerator(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var tree models.Tree
	err := h.db.WithContext(ctx).First(&tree, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Tree not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}

	notification := models.Notification{
		UserID:        tree.PlanterID,
		Subject:       fmt.Sprintf("Update Reminder: %s", tree.CommonName),
		Message:       fmt.Sprintf("Hello! Please take a moment to update your %s. Uploading regular updates helps us track the reforestation progress.", tree.CommonName),
		RelatedTreeID: &tree.ID,
	}
	if err := h.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	res := &MessageResponse{}
	res.Body.Message = "Reminder sent successfully"
	return res, nil
}

type AdminMessageRequest struct {
	auth.AuthInput
	UserID uint `path:"userId"`
	Body   struct {
		Subject string `json:"subject,omitempty"`
		Message string `json:"message" required:"true"`
	}
}

func (h *AdminHandler) HandleAdminMessage(ctx context.Context, input *AdminMessageRequest) (*MessageResponse, error) {
	if _, err := h.authHandler.RequireModerator(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var user models.User
	err := h.db.WithContext(ctx).First(&user, input.UserID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("User not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}

	subject := input.Body.Subject
	if subject == "" {
		subject = "Message from the district administration"
	}

	notification := models.Notification{
		UserID:  user.ID,
		Subject: subject,
		Message: input.Body.Message,
	}
	if err := h.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	res := &MessageResponse{}
	res.Body.Message = "Message sent successfully"
	return res, nil
}

type HardDeleteTreeRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

// HandleHardDeleteTree removes a tree record entirely. Regular retirement
// goes through the status field instead.
func (h *AdminHandler) HandleHardDeleteTree(ctx context.Context, input *HardDeleteTreeRequest) (*MessageResponse, error) {
	if _, err := h.authHandler.RequireSuperAdmin(ctx, input.Cookie); err != nil {
		return nil, err
	}

	result := h.db.WithContext(ctx).Unscoped().Delete(&models.Tree{}, input.ID)
	if result.Error != nil {
		return nil, storeUnavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Tree not found")
	}

	res := &MessageResponse{}
	res.Body.Message = "Tree deleted successfully"
	return res, nil
}
