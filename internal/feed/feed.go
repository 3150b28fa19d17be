package feed

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gampahin-husmak/community-api/internal/models"
	"gorm.io/gorm"
)

// DefaultLimit is applied when the caller passes a non-positive limit.
const DefaultLimit = 30

const storeTimeout = 5 * time.Second

// Aggregator merges curated gallery items with posts synthesized from tree
// records into one deduplicated public feed.
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Item is one feed entry. IDs are prefixed with the source collection
// ("gallery:" or "tree:") so the two identifier spaces never collide and
// the sort tie-break is total.
type Item struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	Images        []string           `json:"images"`
	UploadedBy    models.UserSummary `json:"uploaded_by"`
	RelatedTreeID *uint              `json:"related_tree_id,omitempty"`
	RelatedEvent  string             `json:"related_event,omitempty"`
	Tags          []string           `json:"tags"`
	Likes         int                `json:"likes"`
	CreatedAt     time.Time          `json:"created_at"`
	CommunityPost bool               `json:"is_community_post"`
}

type Page struct {
	Items      []Item            `json:"items"`
	Pagination models.Pagination `json:"pagination"`
}

// GetFeed builds the merged feed and returns the requested page. Any store
// failure aborts the whole call; no partial feed is returned. Items whose
// uploader or related tree has gone missing are skipped instead.
func (a *Aggregator) GetFeed(ctx context.Context, page, limit int) (*Page, error) {
	page, limit = models.NormalizePage(page, limit, DefaultLimit)

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var galleries []models.Gallery
	err := a.db.WithContext(ctx).
		Preload("UploadedBy").
		Preload("RelatedTree").
		Preload("RelatedEvent").
		Preload("Likes").
		Order("created_at DESC").
		Find(&galleries).Error
	if err != nil {
		return nil, fmt.Errorf("feed: load gallery items: %w", err)
	}

	curatedTrees := make(map[uint]bool)
	items := make([]Item, 0, len(galleries))

	for i := range galleries {
		g := &galleries[i]
		if g.UploadedBy.ID == 0 {
			// dangling uploader reference
			continue
		}

		images := g.Images
		if g.RelatedTreeID != nil {
			if g.RelatedTree == nil || g.RelatedTree.ID == 0 {
				// dangling tree reference
				continue
			}
			curatedTrees[g.RelatedTree.ID] = true

			updateImages, err := a.treeUpdateImages(ctx, g.RelatedTree.ID)
			if err != nil {
				return nil, err
			}
			images = mergeImages(g.Images, updateImages)
		}

		item := Item{
			ID:            fmt.Sprintf("gallery:%d", g.ID),
			Title:         g.Title,
			Description:   g.Description,
			Images:        mergeImages(images),
			UploadedBy:    g.UploadedBy.Summary(),
			RelatedTreeID: g.RelatedTreeID,
			Tags:          g.Tags,
			Likes:         len(g.Likes),
			CreatedAt:     g.CreatedAt,
		}
		if g.RelatedEvent != nil && g.RelatedEvent.ID != 0 {
			item.RelatedEvent = g.RelatedEvent.Title
		}
		items = append(items, item)
	}

	var trees []models.Tree
	err = a.db.WithContext(ctx).
		Preload("Planter").
		Order("created_at DESC").
		Find(&trees).Error
	if err != nil {
		return nil, fmt.Errorf("feed: load trees: %w", err)
	}

	for i := range trees {
		t := &trees[i]
		if len(t.Images) == 0 || curatedTrees[t.ID] {
			continue
		}
		if t.Planter.ID == 0 {
			continue
		}

		updateImages, err := a.treeUpdateImages(ctx, t.ID)
		if err != nil {
			return nil, err
		}

		items = append(items, synthesizeTreeItem(t, mergeImages(t.Images, updateImages)))
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})

	totalItems := len(items)
	skip := (page - 1) * limit
	if skip > totalItems {
		skip = totalItems
	}
	end := skip + limit
	if end > totalItems {
		end = totalItems
	}

	return &Page{
		Items:      items[skip:end],
		Pagination: models.NewPagination(totalItems, page, limit),
	}, nil
}

func (a *Aggregator) treeUpdateImages(ctx context.Context, treeID uint) ([]string, error) {
	var updates []models.TreeUpdate
	err := a.db.WithContext(ctx).
		Where("tree_id = ?", treeID).
		Order("update_date ASC").
		Find(&updates).Error
	if err != nil {
		return nil, fmt.Errorf("feed: load tree updates: %w", err)
	}

	var images []string
	for _, u := range updates {
		images = append(images, u.Images...)
	}
	return images, nil
}

func synthesizeTreeItem(t *models.Tree, images []string) Item {
	description := t.Notes
	if description == "" {
		description = fmt.Sprintf("A young %s tree planted in %s.", t.CommonName, t.District)
	}

	return Item{
		ID:            fmt.Sprintf("tree:%d", t.ID),
		Title:         fmt.Sprintf("%s Planting", t.CommonName),
		Description:   description,
		Images:        images,
		UploadedBy:    t.Planter.Summary(),
		RelatedTreeID: &t.ID,
		Tags:          []string{"community", strings.ToLower(t.CommonName)},
		Likes:         0,
		CreatedAt:     t.CreatedAt,
		CommunityPost: true,
	}
}

// mergeImages unions image lists with first-seen-order dedup; earlier lists
// keep priority position.
func mergeImages(lists ...[]string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, list := range lists {
		for _, img := range list {
			if img == "" || seen[img] {
				continue
			}
			seen[img] = true
			merged = append(merged, img)
		}
	}
	return merged
}
