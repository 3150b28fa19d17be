package models

import (
	"gorm.io/gorm"
)

// Gallery is a curated feed entry, as opposed to the posts the feed
// synthesizes from tree records on the fly.
type Gallery struct {
	gorm.Model
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Images         StringList `json:"images"`
	UploadedByID   uint       `json:"uploaded_by_id"`
	UploadedBy     User       `json:"uploaded_by" gorm:"foreignKey:UploadedByID"`
	RelatedTreeID  *uint      `json:"related_tree_id,omitempty"`
	RelatedTree    *Tree      `json:"related_tree,omitempty" gorm:"foreignKey:RelatedTreeID"`
	RelatedEventID *uint      `json:"related_event_id,omitempty"`
	RelatedEvent   *Event     `json:"related_event,omitempty" gorm:"foreignKey:RelatedEventID"`
	Tags           StringList `json:"tags"`
	Likes          []GalleryLike
}

// GalleryLike is one user's like on one gallery item, toggled on and off.
type GalleryLike struct {
	gorm.Model
	GalleryID uint `json:"gallery_id" gorm:"uniqueIndex:idx_gallery_user"`
	UserID    uint `json:"user_id" gorm:"uniqueIndex:idx_gallery_user"`
}
