package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gampahin-husmak/community-api/internal/auth"
	"github.com/gampahin-husmak/community-api/internal/feed"
	"github.com/gampahin-husmak/community-api/internal/models"
	"gorm.io/gorm"
)

type GalleryHandler struct {
	db          *gorm.DB
	aggregator  *feed.Aggregator
	authHandler *auth.AuthHandler
}

func NewGalleryHandler(db *gorm.DB, aggregator *feed.Aggregator, authHandler *auth.AuthHandler) *GalleryHandler {
	return &GalleryHandler{db: db, aggregator: aggregator, authHandler: authHandler}
}

type FeedRequest struct {
	PageInput
}

type FeedResponse struct {
	Body feed.Page
}

// HandleFeed serves the merged community feed: curated gallery entries plus
// posts synthesized from tree records.
func (h *GalleryHandler) HandleFeed(ctx context.Context, input *FeedRequest) (*FeedResponse, error) {
	pageNum, limit := input.PageLimit()
	page, err := h.aggregator.GetFeed(ctx, pageNum, limit)
	if err != nil {
		return nil, storeUnavailable(err)
	}

	return &FeedResponse{Body: *page}, nil
}

type CreateGalleryRequest struct {
	auth.AuthInput
	Body struct {
		Title          string   `json:"title" required:"true"`
		Description    string   `json:"description,omitempty"`
		Images         []string `json:"images" required:"true" minItems:"1"`
		RelatedTreeID  *uint    `json:"related_tree_id,omitempty"`
		RelatedEventID *uint    `json:"related_event_id,omitempty"`
		Tags           []string `json:"tags,omitempty"`
	}
}

type CreateGalleryResponse struct {
	Status int
	Body   struct {
		Message string         `json:"message"`
		Item    models.Gallery `json:"item"`
	}
}

func (h *GalleryHandler) HandleCreateGallery(ctx context.Context, input *CreateGalleryRequest) (*CreateGalleryResponse, error) {
	user, err := h.authHandler.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	item := models.Gallery{
		Title:          input.Body.Title,
		Description:    input.Body.Description,
		Images:         input.Body.Images,
		UploadedByID:   user.ID,
		RelatedTreeID:  input.Body.RelatedTreeID,
		RelatedEventID: input.Body.RelatedEventID,
		Tags:           input.Body.Tags,
	}
	if err := h.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	res := &CreateGalleryResponse{Status: 201}
	res.Body.Message = "Gallery item created"
	res.Body.Item = item
	return res, nil
}

type LikeGalleryRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type LikeGalleryResponse struct {
	Body struct {
		Message string `json:"message"`
		Likes   int    `json:"likes"`
	}
}

// HandleLikeGallery toggles the caller's like on a gallery item.
func (h *GalleryHandler) HandleLikeGallery(ctx context.Context, input *LikeGalleryRequest) (*LikeGalleryResponse, error) {
	user, err := h.authHandler.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var item models.Gallery
	err = h.db.WithContext(ctx).First(&item, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Gallery item not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}

	var like models.GalleryLike
	err = h.db.WithContext(ctx).
		Where("gallery_id = ? AND user_id = ?", item.ID, user.ID).
		First(&like).Error
	switch err {
	case nil:
		if err := h.db.WithContext(ctx).Unscoped().Delete(&like).Error; err != nil {
			return nil, storeUnavailable(err)
		}
	case gorm.ErrRecordNotFound:
		like = models.GalleryLike{GalleryID: item.ID, UserID: user.ID}
		if err := h.db.WithContext(ctx).Create(&like).Error; err != nil {
			return nil, storeUnavailable(err)
		}
	default:
		return nil, storeUnavailable(err)
	}

	var likes int64
	if err := h.db.WithContext(ctx).Model(&models.GalleryLike{}).Where("gallery_id = ?", item.ID).Count(&likes).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	res := &LikeGalleryResponse{}
	res.Body.Message = "Like toggled"
	res.Body.Likes = int(likes)
	return res, nil
}
