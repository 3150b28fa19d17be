package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gampahin-husmak/community-api/internal/auth"
	"github.com/gampahin-husmak/community-api/internal/models"
	"gorm.io/gorm"
)

const defaultEventLimit = 20

type EventHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewEventHandler(db *gorm.DB, authHandler *auth.AuthHandler) *EventHandler {
	return &EventHandler{db: db, authHandler: authHandler}
}

type ListEventsRequest struct {
	PageInput
	Status string `query:"status" required:"false" doc:"Filter by event status"`
}

type ListEventsResponse struct {
	Body struct {
		Events     []models.Event    `json:"events"`
		Pagination models.Pagination `json:"pagination"`
	}
}

func (h *EventHandler) HandleListEvents(ctx context.Context, input *ListEventsRequest) (*ListEventsResponse, error) {
	page, limit := input.PageLimit()
	page, limit = models.NormalizePage(page, limit, defaultEventLimit)

	query := h.db.WithContext(ctx).Model(&models.Event{})
	if input.Status != "" {
		query = query.Where("status = ?", input.Status)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	var events []models.Event
	err := query.
		Preload("Organizer").
		Preload("Participants").
		Order("event_date DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, storeUnavailable(err)
	}

	res := &ListEventsResponse{}
	res.Body.Events = events
	res.Body.Pagination = models.NewPagination(int(totalItems), page, limit)
	return res, nil
}

type GetEventRequest struct {
	ID uint `path:"id"`
}

type GetEventResponse struct {
	Body struct {
		Event models.Event `json:"event"`
	}
}

func (h *EventHandler) HandleGetEvent(ctx context.Context, input *GetEventRequest) (*GetEventResponse, error) {
	var event models.Event
	err := h.db.WithContext(ctx).
		Preload("Organizer").
		Preload("Participants").
		First(&event, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Event not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}

	res := &GetEventResponse{}
	res.Body.Event = event
	return res, nil
}

type CreateEventRequest struct {
	auth.AuthInput
	Body struct {
		Title           string    `json:"title" required:"true"`
		Description     string    `json:"description" required:"true"`
		EventDate       time.Time `json:"event_date" required:"true"`
		Address         string    `json:"address"`
		MaxParticipants int       `json:"max_participants,omitempty"`
		TargetTrees     int       `json:"target_trees,omitempty"`
		Images          []string  `json:"images,omitempty"`
	}
}

type CreateEventResponse struct {
	Status int
	Body   struct {
		Message string       `json:"message"`
		Event   models.Event `json:"event"`
	}
}

func (h *EventHandler) HandleCreateEvent(ctx context.Context, input *CreateEventRequest) (*CreateEventResponse, error) {
	user, err := h.authHandler.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event := models.Event{
		Title:           input.Body.Title,
		Description:     input.Body.Description,
		EventDate:       input.Body.EventDate,
		Address:         input.Body.Address,
		OrganizerID:     user.ID,
		MaxParticipants: input.Body.MaxParticipants,
		TargetTrees:     input.Body.TargetTrees,
		Images:          input.Body.Images,
		Status:          models.EventStatusUpcoming,
	}
	if err := h.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	res := &CreateEventResponse{Status: 201}
	res.Body.Message = "Event created successfully"
	res.Body.Event = event
	return res, nil
}

type JoinEventRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type JoinEventResponse struct {
	Body struct {
		Message string       `json:"message"`
		Event   models.Event `json:"event"`
	}
}

func (h *EventHandler) HandleJoinEvent(ctx context.Context, input *JoinEventRequest) (*JoinEventResponse, error) {
	user, err := h.authHandler.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var event models.Event
	err = h.db.WithContext(ctx).Preload("Participants").First(&event, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Event not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}

	for _, p := range event.Participants {
		if p.ID == user.ID {
			return nil, huma.Error400BadRequest("Already joined this event")
		}
	}
	if event.MaxParticipants > 0 && len(event.Participants) >= event.MaxParticipants {
		return nil, huma.Error400BadRequest("Event is full")
	}

	if err := h.db.WithContext(ctx).Model(&event).Association("Participants").Append(user); err != nil {
		return nil, storeUnavailable(err)
	}
	event.Participants = append(event.Participants, *user)

	res := &JoinEventResponse{}
	res.Body.Message = "Joined event successfully"
	res.Body.Event = event
	return res, nil
}
