package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gampahin-husmak/community-api/internal/auth"
	"github.com/gampahin-husmak/community-api/internal/models"
	"gorm.io/gorm"
)

type CreateBadgeTemplateRequest struct {
	auth.AuthInput
	Body struct {
		Name         string           `json:"name" required:"true"`
		BadgeType    models.BadgeType `json:"badge_type" required:"true"`
		Description  string           `json:"description,omitempty"`
		Icon         string           `json:"icon,omitempty"`
		TriggerCount *int             `json:"trigger_count,omitempty"`
	}
}

type BadgeTemplateResponse struct {
	Status int
	Body   struct {
		Template models.BadgeTemplate `json:"template"`
	}
}

func (h *AdminHandler) HandleCreateBadgeTemplate(ctx context.Context, input *CreateBadgeTemplateRequest) (*BadgeTemplateResponse, error) {
	user, err := h.authHandler.RequireSuperAdmin(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var existing models.BadgeTemplate
	err = h.db.WithContext(ctx).Where("name = ?", input.Body.Name).First(&existing).Error
	if err == nil {
		return nil, huma.Error409Conflict("A badge with this name already exists")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, storeUnavailable(err)
	}

	if input.Body.BadgeType == models.BadgeTreesPlanted && input.Body.TriggerCount == nil {
		return nil, huma.Error400BadRequest("Threshold badges require a trigger count")
	}

	template := models.BadgeTemplate{
		Name:         input.Body.Name,
		BadgeType:    input.Body.BadgeType,
		Description:  input.Body.Description,
		Icon:         input.Body.Icon,
		TriggerCount: input.Body.TriggerCount,
		IsActive:     true,
		CreatedByID:  &user.ID,
	}
	if err := h.db.WithContext(ctx).Create(&template).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	res := &BadgeTemplateResponse{Status: 201}
	res.Body.Template = template
	return res, nil
}

type ListBadgeTemplatesRequest struct {
	auth.AuthInput
}

type ListBadgeTemplatesResponse struct {
	Body struct {
		Templates []models.BadgeTemplate `json:"templates"`
	}
}

func (h *AdminHandler) HandleListBadgeTemplates(ctx context.Context, input *ListBadgeTemplatesRequest) (*ListBadgeTemplatesResponse, error) {
	if _, err := h.authHandler.RequireModerator(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var templates []models.BadgeTemplate
	err := h.db.WithContext(ctx).Order("badge_type ASC, trigger_count ASC").Find(&templates).Error
	if err != nil {
		return nil, storeUnavailable(err)
	}

	res := &ListBadgeTemplatesResponse{}
	res.Body.Templates = templates
	return res, nil
}

type UpdateBadgeTemplateRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Description  *string `json:"description,omitempty"`
		Icon         *string `json:"icon,omitempty"`
		TriggerCount *int    `json:"trigger_count,omitempty"`
		IsActive     *bool   `json:"is_active,omitempty"`
	}
}

func (h *AdminHandler) HandleUpdateBadgeTemplate(ctx context.Context, input *UpdateBadgeTemplateRequest) (*BadgeTemplateResponse, error) {
	if _, err := h.authHandler.RequireSuperAdmin(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var template models.BadgeTemplate
	err := h.db.WithContext(ctx).First(&template, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Badge template not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}

	if input.Body.Description != nil {
		template.Description = *input.Body.Description
	}
	if input.Body.Icon != nil {
		template.Icon = *input.Body.Icon
	}
	if input.Body.TriggerCount != nil {
		template.TriggerCount = input.Body.TriggerCount
	}
	if input.Body.IsActive != nil {
		template.IsActive = *input.Body.IsActive
	}

	if err := h.db.WithContext(ctx).Save(&template).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	res := &BadgeTemplateResponse{Status: 200}
	res.Body.Template = template
	return res, nil
}

type AwardBadgeRequest struct {
	auth.AuthInput
	Body struct {
		UserID  uint `json:"user_id" required:"true"`
		BadgeID uint `json:"badge_id" required:"true"`
	}
}

// HandleAwardBadge grants a badge to a user manually. Threshold badges are
// granted automatically when trees are registered; this path covers the
// special recognitions an administrator hands out.
func (h *AdminHandler) HandleAwardBadge(ctx context.Context, input *AwardBadgeRequest) (*MessageResponse, error) {
	admin, err := h.authHandler.RequireSuperAdmin(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = h.db.WithContext(ctx).First(&user, input.Body.UserID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("User not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}

	var template models.BadgeTemplate
	err = h.db.WithContext(ctx).First(&template, input.Body.BadgeID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Badge template not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}
	if !template.IsActive {
		return nil, huma.Error400BadRequest("Badge template is not active")
	}

	if err := h.engine.AwardSpecial(ctx, user.ID, &template, admin.ID); err != nil {
		return nil, storeUnavailable(err)
	}

	res := &MessageResponse{}
	res.Body.Message = "Badge awarded successfully"
	return res, nil
}

type MyAchievementsRequest struct {
	auth.AuthInput
}

type MyAchievementsResponse struct {
	Body struct {
		Achievements []models.Achievement `json:"achievements"`
	}
}

func (h *AdminHandler) HandleMyAchievements(ctx context.Context, input *MyAchievementsRequest) (*MyAchievementsResponse, error) {
	user, err := h.authHandler.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var achievements []models.Achievement
	err = h.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("earned_at DESC").
		Find(&achievements).Error
	if err != nil {
		return nil, storeUnavailable(err)
	}

	res := &MyAchievementsResponse{}
	res.Body.Achievements = achievements
	return res, nil
}
