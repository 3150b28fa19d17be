package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gampahin-husmak/community-api/internal/auth"
	"github.com/gampahin-husmak/community-api/internal/models"
	"gorm.io/gorm"
)

const defaultContactLimit = 30

type ContactHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewContactHandler(db *gorm.DB, authHandler *auth.AuthHandler) *ContactHandler {
	return &ContactHandler{db: db, authHandler: authHandler}
}

type SubmitContactRequest struct {
	auth.AuthInput
	Body struct {
		Name          string `json:"name" required:"true"`
		Email         string `json:"email" format:"email" required:"true"`
		Phone         string `json:"phone,omitempty"`
		Subject       string `json:"subject" required:"true"`
		Message       string `json:"message" required:"true"`
		Image         string `json:"image,omitempty"`
		RelatedTreeID *uint  `json:"related_tree_id,omitempty"`
	}
}

type SubmitContactResponse struct {
	Status int
	Body   struct {
		Message string         `json:"message"`
		Contact models.Contact `json:"contact"`
	}
}

// HandleSubmitContact accepts the public inquiry form. A session is
// optional; when present the inquiry is attached to the account.
func (h *ContactHandler) HandleSubmitContact(ctx context.Context, input *SubmitContactRequest) (*SubmitContactResponse, error) {
	contact := models.Contact{
		Name:          input.Body.Name,
		Email:         input.Body.Email,
		Phone:         input.Body.Phone,
		Subject:       input.Body.Subject,
		Message:       input.Body.Message,
		Image:         input.Body.Image,
		RelatedTreeID: input.Body.RelatedTreeID,
		Status:        models.ContactStatusNew,
	}
	if userID, err := h.authHandler.Authorize(ctx, input.Cookie); err == nil {
		contact.UserID = &userID
	}

	if err := h.db.WithContext(ctx).Create(&contact).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	res := &SubmitContactResponse{Status: 201}
	res.Body.Message = "Message sent successfully"
	res.Body.Contact = contact
	return res, nil
}

type MyContactsRequest struct {
	auth.AuthInput
	PageInput
}

type MyContactsResponse struct {
	Body struct {
		Contacts   []models.Contact  `json:"contacts"`
		Pagination models.Pagination `json:"pagination"`
	}
}

func (h *ContactHandler) HandleMyContacts(ctx context.Context, input *MyContactsRequest) (*MyContactsResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	page, limit := input.PageLimit()
	page, limit = models.NormalizePage(page, limit, defaultContactLimit)

	query := h.db.WithContext(ctx).Model(&models.Contact{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	var contacts []models.Contact
	err = query.
		Preload("Responses").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&contacts).Error
	if err != nil {
		return nil, storeUnavailable(err)
	}

	res := &MyContactsResponse{}
	res.Body.Contacts = contacts
	res.Body.Pagination = models.NewPagination(int(totalItems), page, limit)
	return res, nil
}

type MarkContactSeenRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type MarkContactSeenResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *ContactHandler) HandleMarkContactSeen(ctx context.Context, input *MarkContactSeenRequest) (*MarkContactSeenResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	result := h.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ? AND user_id = ?", input.ID, userID).
		Update("status", models.ContactStatusSeen)
	if result.Error != nil {
		return nil, storeUnavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Contact not found")
	}

	res := &MarkContactSeenResponse{}
	res.Body.Message = "Marked as seen"
	return res, nil
}

type AdminListContactsRequest struct {
	auth.AuthInput
	PageInput
}

func (h *ContactHandler) HandleAdminListContacts(ctx context.Context, input *AdminListContactsRequest) (*MyContactsResponse, error) {
	if _, err := h.authHandler.RequireModerator(ctx, input.Cookie); err != nil {
		return nil, err
	}

	page, limit := input.PageLimit()
	page, limit = models.NormalizePage(page, limit, defaultContactLimit)

	var totalItems int64
	if err := h.db.WithContext(ctx).Model(&models.Contact{}).Count(&totalItems).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	var contacts []models.Contact
	err := h.db.WithContext(ctx).
		Preload("Responses").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&contacts).Error
	if err != nil {
		return nil, storeUnavailable(err)
	}

	res := &MyContactsResponse{}
	res.Body.Contacts = contacts
	res.Body.Pagination = models.NewPagination(int(totalItems), page, limit)
	return res, nil
}

type RespondContactRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Reply string `json:"reply" required:"true"`
	}
}

type RespondContactResponse struct {
	Body struct {
		Message string         `json:"message"`
		Contact models.Contact `json:"contact"`
	}
}

func (h *ContactHandler) HandleRespondContact(ctx context.Context, input *RespondContactRequest) (*RespondContactResponse, error) {
	admin, err := h.authHandler.RequireModerator(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var contact models.Contact
	err = h.db.WithContext(ctx).First(&contact, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Contact not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}

	response := models.ContactResponse{
		ContactID:     contact.ID,
		Message:       input.Body.Reply,
		RespondedByID: admin.ID,
		RespondedAt:   time.Now(),
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&response).Error; err != nil {
			return err
		}
		return tx.Model(&contact).Update("status", models.ContactStatusReplied).Error
	})
	if err != nil {
		return nil, storeUnavailable(err)
	}

	contact.Status = models.ContactStatusReplied
	contact.Responses = append(contact.Responses, response)

	res := &RespondContactResponse{}
	res.Body.Message = "Response recorded"
	res.Body.Contact = contact
	return res, nil
}

type UpdateContactStatusRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Status models.ContactStatus `json:"status" required:"true"`
	}
}

type UpdateContactStatusResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *ContactHandler) HandleUpdateContactStatus(ctx context.Context, input *UpdateContactStatusRequest) (*UpdateContactStatusResponse, error) {
	if _, err := h.authHandler.RequireModerator(ctx, input.Cookie); err != nil {
		return nil, err
	}

	if !input.Body.Status.Valid() {
		return nil, huma.Error400BadRequest("Invalid contact status")
	}

	result := h.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ?", input.ID).
		Update("status", input.Body.Status)
	if result.Error != nil {
		return nil, storeUnavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Contact not found")
	}

	res := &UpdateContactStatusResponse{}
	res.Body.Message = "Status updated"
	return res, nil
}
