package handlers

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gampahin-husmak/community-api/internal/achievements"
	"github.com/gampahin-husmak/community-api/internal/auth"
	"github.com/gampahin-husmak/community-api/internal/config"
	"github.com/gampahin-husmak/community-api/internal/models"
	"gorm.io/gorm"
)

const defaultTreeLimit = 50

type TreeHandler struct {
	db          *gorm.DB
	engine      *achievements.Engine
	authHandler *auth.AuthHandler
	cfg         *config.Config
}

func NewTreeHandler(db *gorm.DB, engine *achievements.Engine, authHandler *auth.AuthHandler, cfg *config.Config) *TreeHandler {
	return &TreeHandler{db: db, engine: engine, authHandler: authHandler, cfg: cfg}
}

type ListTreesRequest struct {
	PageInput
	Status    string `query:"status" required:"false" doc:"Filter by tree status"`
	PlantedBy uint   `query:"planted_by" required:"false" doc:"Filter by planter id"`
}

type ListTreesResponse struct {
	Body struct {
		Trees      []models.Tree     `json:"trees"`
		Pagination models.Pagination `json:"pagination"`
	}
}

func (h *TreeHandler) HandleListTrees(ctx context.Context, input *ListTreesRequest) (*ListTreesResponse, error) {
	page, limit := input.PageLimit()
	page, limit = models.NormalizePage(page, limit, defaultTreeLimit)

	query := h.db.WithContext(ctx).Model(&models.Tree{})
	if input.Status != "" {
		query = query.Where("status = ?", input.Status)
	}
	if input.PlantedBy != 0 {
		query = query.Where("planter_id = ?", input.PlantedBy)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	var trees []models.Tree
	err := query.
		Preload("Planter").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&trees).Error
	if err != nil {
		return nil, storeUnavailable(err)
	}

	res := &ListTreesResponse{}
	res.Body.Trees = trees
	res.Body.Pagination = models.NewPagination(int(totalItems), page, limit)
	return res, nil
}

type GetTreeRequest struct {
	ID uint `path:"id"`
}

type GetTreeResponse struct {
	Body struct {
		Tree    models.Tree         `json:"tree"`
		Updates []models.TreeUpdate `json:"updates"`
	}
}

func (h *TreeHandler) HandleGetTree(ctx context.Context, input *GetTreeRequest) (*GetTreeResponse, error) {
	var tree models.Tree
	err := h.db.WithContext(ctx).Preload("Planter").First(&tree, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Tree not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}

	var updates []models.TreeUpdate
	err = h.db.WithContext(ctx).
		Preload("UpdatedBy").
		Where("tree_id = ?", tree.ID).
		Order("update_date DESC").
		Find(&updates).Error
	if err != nil {
		return nil, storeUnavailable(err)
	}

	res := &GetTreeResponse{}
	res.Body.Tree = tree
	res.Body.Updates = updates
	return res, nil
}

type CreateTreeRequest struct {
	auth.AuthInput
	Body struct {
		Species     string        `json:"species" required:"true"`
		CommonName  string        `json:"common_name" required:"true"`
		Latitude    float64       `json:"latitude"`
		Longitude   float64       `json:"longitude"`
		Address     string        `json:"address"`
		District    string        `json:"district,omitempty"`
		PlantedDate time.Time     `json:"planted_date,omitempty"`
		Height      float64       `json:"height,omitempty"`
		Health      models.Health `json:"health,omitempty"`
		Images      []string      `json:"images,omitempty"`
		Notes       string        `json:"notes,omitempty"`
	}
}

type CreateTreeResponse struct {
	Status int
	Body   struct {
		Message string      `json:"message"`
		Tree    models.Tree `json:"tree"`
	}
}

func (h *TreeHandler) HandleCreateTree(ctx context.Context, input *CreateTreeRequest) (*CreateTreeResponse, error) {
	user, err := h.authHandler.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	district := input.Body.District
	if district == "" {
		district = h.cfg.District
	}
	plantedDate := input.Body.PlantedDate
	if plantedDate.IsZero() {
		plantedDate = time.Now()
	}
	health := input.Body.Health
	if health == "" {
		health = models.HealthGood
	}
	if !health.Valid() {
		return nil, huma.Error400BadRequest("Invalid health value")
	}

	tree := models.Tree{
		TreeCode:      newTreeCode(),
		PlanterID:     user.ID,
		Species:       input.Body.Species,
		CommonName:    input.Body.CommonName,
		Latitude:      input.Body.Latitude,
		Longitude:     input.Body.Longitude,
		Address:       input.Body.Address,
		District:      district,
		PlantedDate:   plantedDate,
		CurrentHeight: input.Body.Height,
		CurrentHealth: health,
		Images:        input.Body.Images,
		Notes:         input.Body.Notes,
		Status:        models.TreeStatusActive,
	}
	if err := h.db.WithContext(ctx).Create(&tree).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	// Threshold badges are evaluated before responding; a failed evaluation
	// never fails the registration itself.
	if err := h.engine.OnTreeCreated(ctx, tree.ID, user.ID); err != nil {
		log.Printf("Achievement evaluation failed for planter %d: %v", user.ID, err)
	}

	tree.Planter = *user

	res := &CreateTreeResponse{Status: 201}
	res.Body.Message = "Tree registered successfully"
	res.Body.Tree = tree
	return res, nil
}

type UpdateTreeRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Species    string            `json:"species,omitempty"`
		CommonName string            `json:"common_name,omitempty"`
		Address    string            `json:"address,omitempty"`
		Images     []string          `json:"images,omitempty"`
		Notes      string            `json:"notes,omitempty"`
		Status     models.TreeStatus `json:"status,omitempty" doc:"Soft-retire via removed/dead"`
	}
}

type UpdateTreeResponse struct {
	Body struct {
		Message string      `json:"message"`
		Tree    models.Tree `json:"tree"`
	}
}

func (h *TreeHandler) HandleUpdateTree(ctx context.Context, input *UpdateTreeRequest) (*UpdateTreeResponse, error) {
	user, err := h.authHandler.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var tree models.Tree
	err = h.db.WithContext(ctx).First(&tree, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Tree not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}

	if tree.PlanterID != user.ID && !user.Role.CanModerate() {
		return nil, huma.Error403Forbidden("Only the planter or an admin can update this tree")
	}

	if input.Body.Species != "" {
		tree.Species = input.Body.Species
	}
	if input.Body.CommonName != "" {
		tree.CommonName = input.Body.CommonName
	}
	if input.Body.Address != "" {
		tree.Address = input.Body.Address
	}
	if input.Body.Images != nil {
		tree.Images = input.Body.Images
	}
	if input.Body.Notes != "" {
		tree.Notes = input.Body.Notes
	}
	if input.Body.Status != "" {
		switch input.Body.Status {
		case models.TreeStatusActive, models.TreeStatusRemoved, models.TreeStatusDead:
			tree.Status = input.Body.Status
		default:
			return nil, huma.Error400BadRequest("Invalid tree status")
		}
	}

	if err := h.db.WithContext(ctx).Save(&tree).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	res := &UpdateTreeResponse{}
	res.Body.Message = "Tree updated successfully"
	res.Body.Tree = tree
	return res, nil
}

type AddTreeUpdateRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		UpdateDate time.Time     `json:"update_date,omitempty"`
		Height     float64       `json:"height,omitempty"`
		Health     models.Health `json:"health" required:"true"`
		Images     []string      `json:"images,omitempty"`
		Notes      string        `json:"notes,omitempty"`
		Issues     []string      `json:"issues,omitempty"`
	}
}

type AddTreeUpdateResponse struct {
	Status int
	Body   struct {
		Message string            `json:"message"`
		Update  models.TreeUpdate `json:"update"`
	}
}

// HandleAddTreeUpdate appends a growth snapshot and refreshes the tree's
// current height and health in one transaction.
func (h *TreeHandler) HandleAddTreeUpdate(ctx context.Context, input *AddTreeUpdateRequest) (*AddTreeUpdateResponse, error) {
	user, err := h.authHandler.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	if !input.Body.Health.Valid() {
		return nil, huma.Error400BadRequest("Invalid health value")
	}

	var tree models.Tree
	err = h.db.WithContext(ctx).First(&tree, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Tree not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}

	updateDate := input.Body.UpdateDate
	if updateDate.IsZero() {
		updateDate = time.Now()
	}

	update := models.TreeUpdate{
		TreeID:      tree.ID,
		UpdatedByID: user.ID,
		UpdateDate:  updateDate,
		Height:      input.Body.Height,
		Health:      input.Body.Health,
		Images:      input.Body.Images,
		Notes:       input.Body.Notes,
		Issues:      input.Body.Issues,
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&update).Error; err != nil {
			return err
		}

		if input.Body.Height > 0 {
			tree.CurrentHeight = input.Body.Height
		}
		tree.CurrentHealth = input.Body.Health
		return tx.Save(&tree).Error
	})
	if err != nil {
		return nil, storeUnavailable(err)
	}

	res := &AddTreeUpdateResponse{Status: 201}
	res.Body.Message = "Update added successfully"
	res.Body.Update = update
	return res, nil
}

const treeCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newTreeCode() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = treeCodeCharset[rand.Intn(len(treeCodeCharset))]
	}
	return fmt.Sprintf("TREE-%d-%s", time.Now().UnixMilli(), suffix)
}
