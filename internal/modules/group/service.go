package group

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/spotter-app/core/internal/models"
	"github.com/spotter-app/core/internal/modules/spot"
	"github.com/spotter-app/core/internal/pkg/media"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("group not found")
	ErrSpotNotFound  = errors.New("spot not found")
	ErrAlreadyLinked = errors.New("spot already in group")
)

// Detail is the group shape returned by the lookup endpoint.
type Detail struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Comment  string   `json:"comment"`
	Category string   `json:"category"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	UserName string   `json:"user_name"`
	UserIcon *string  `json:"user_icon"`
	Date     string   `json:"date"`
	Tags     []string `json:"tags"`
	IsPublic bool     `json:"is_public"`
	Images   []string `json:"images"`
}

// CreateInput carries the trimmed group creation form fields.
type CreateInput struct {
	Title    string
	Comment  string
	Category string
	Lat      float64
	Lng      float64
	IsPublic bool
	Tags     []string
	SpotIDs  []string
}

type Service struct {
	db    *gorm.DB
	store *media.Store
}

func NewService(db *gorm.DB, store *media.Store) *Service {
	return &Service{db: db, store: store}
}

// Get returns the group with its tags, images, and member spots. Member
// spots come through the membership join, non-deleted, newest first, each
// enriched the same way the proximity scan enriches them.
func (s *Service) Get(id string) (*Detail, []spot.Summary, error) {
	var g models.GroupModel
	err := s.db.
		Preload("User").
		Preload("Images").
		Preload("Tags.Tag").
		First(&g, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	var members []models.SpotModel
	err = s.db.
		Joins("JOIN group_spots ON group_spots.spot_id = spots.id").
		Where("group_spots.group_id = ?", id).
		Preload("User").
		Preload("Images").
		Preload("Tags.Tag").
		Order("spots.created_at DESC").
		Find(&members).Error
	if err != nil {
		return nil, nil, err
	}

	spots := make([]spot.Summary, 0, len(members))
	for _, m := range members {
		spots = append(spots, spot.Summarize(m))
	}

	tags := make([]string, 0, len(g.Tags))
	for _, gt := range g.Tags {
		if gt.Tag != nil {
			tags = append(tags, gt.Tag.Name)
		}
	}
	images := make([]string, 0, len(g.Images))
	for _, img := range g.Images {
		images = append(images, img.Path)
	}

	d := &Detail{
		ID:       g.ID,
		Title:    g.Title,
		Comment:  g.Comment,
		Category: g.Category,
		Lat:      g.Lat,
		Lng:      g.Lng,
		Date:     g.CreatedAt.Format(models.DisplayDate),
		Tags:     tags,
		IsPublic: g.IsPublic,
		Images:   images,
	}
	if g.User != nil {
		d.UserName = g.User.Name
		d.UserIcon = g.User.Icon
	}
	return d, spots, nil
}

// Create persists the group row, then the optional image, tag links, and
// initial member spots.
func (s *Service) Create(userID string, in CreateInput, image *multipart.FileHeader) (*models.GroupModel, error) {
	g := models.GroupModel{
		UserID:   userID,
		Title:    in.Title,
		Comment:  in.Comment,
		Category: in.Category,
		Lat:      in.Lat,
		Lng:      in.Lng,
		IsPublic: in.IsPublic,
	}
	if err := s.db.Create(&g).Error; err != nil {
		return nil, err
	}

	if image != nil && image.Filename != "" {
		name := media.BuildName("group", g.ID, image.Filename, time.Now())
		if err := s.store.Save(media.KindGroup, name, image); err != nil {
			return nil, fmt.Errorf("save group image: %w", err)
		}
		if err := s.db.Create(&models.GroupImage{GroupID: g.ID, Path: name}).Error; err != nil {
			return nil, fmt.Errorf("record group image: %w", err)
		}
	}

	if err := spot.LinkTags(s.db, in.Tags, func(tagID uint) error {
		return s.db.Create(&models.GroupTag{GroupID: g.ID, TagID: tagID}).Error
	}); err != nil {
		return nil, err
	}

	for _, spotID := range in.SpotIDs {
		if err := s.AddSpot(g.ID, spotID); err != nil && !errors.Is(err, ErrAlreadyLinked) {
			return nil, err
		}
	}

	return &g, nil
}

// AddSpot links a non-deleted spot into the group. A duplicate pair is a
// conflict resolved by the unique index.
func (s *Service) AddSpot(groupID, spotID string) error {
	var count int64
	if err := s.db.Model(&models.GroupModel{}).Where("id = ?", groupID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	if err := s.db.Model(&models.SpotModel{}).Where("id = ?", spotID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrSpotNotFound
	}

	err := s.db.Create(&models.GroupSpot{GroupID: groupID, SpotID: spotID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyLinked
	}
	return err
}

// React toggles the (group, user, kind) reaction; groups only take good/bad.
func (s *Service) React(groupID, userID string, kind models.ReactionKind) (bool, error) {
	var count int64
	if err := s.db.Model(&models.GroupModel{}).Where("id = ?", groupID).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, ErrNotFound
	}

	res := s.db.Where("group_id = ? AND user_id = ? AND kind = ?", groupID, userID, kind).
		Delete(&models.GroupReaction{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	err := s.db.Create(&models.GroupReaction{GroupID: groupID, UserID: userID, Kind: kind}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true, nil
	}
	return err == nil, err
}

// ReactionCounts returns good/bad counts for a group.
func (s *Service) ReactionCounts(groupID string) (map[models.ReactionKind]int64, error) {
	var count int64
	if err := s.db.Model(&models.GroupModel{}).Where("id = ?", groupID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	counts := map[models.ReactionKind]int64{
		models.ReactionGood: 0,
		models.ReactionBad:  0,
	}
	var rows []struct {
		Kind  models.ReactionKind
		Total int64
	}
	err := s.db.Model(&models.GroupReaction{}).
		Select("kind, COUNT(*) AS total").
		Where("group_id = ?", groupID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.Kind] = r.Total
	}
	return counts, nil
}
