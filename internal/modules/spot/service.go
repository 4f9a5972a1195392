package spot

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/spotter-app/core/internal/models"
	"github.com/spotter-app/core/internal/pkg/geo"
	"github.com/spotter-app/core/internal/pkg/media"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("spot not found")

type Service struct {
	db    *gorm.DB
	store *media.Store
}

func NewService(db *gorm.DB, store *media.Store) *Service {
	return &Service{db: db, store: store}
}

// Nearby scans all non-deleted spots newest-first and keeps those within
// radius kilometers of the query point, stopping once MaxNearbyResults have
// been collected. Deliberately a full scan with no bounding-box pre-filter;
// the data set this serves does not warrant a spatial index.
func (s *Service) Nearby(lat, lng, radius float64) ([]Summary, error) {
	var spots []models.SpotModel
	err := s.db.
		Preload("User").
		Preload("Images").
		Preload("Tags.Tag").
		Order("created_at DESC").
		Find(&spots).Error
	if err != nil {
		return nil, err
	}

	results := make([]Summary, 0)
	for _, sp := range spots {
		if geo.Distance(lat, lng, sp.Lat, sp.Lng) > radius {
			continue
		}
		results = append(results, Summarize(sp))
		if len(results) >= MaxNearbyResults {
			break
		}
	}
	return results, nil
}

// Create persists the spot row, then the optional image, then the tag links.
// The image row must come after the spot row because the stored filename
// embeds the spot's id.
func (s *Service) Create(userID string, in CreateInput, image *multipart.FileHeader) (*models.SpotModel, error) {
	sp := models.SpotModel{
		Title:    in.Title,
		Comment:  in.Comment,
		Category: in.Category,
		Lat:      in.Lat,
		Lng:      in.Lng,
		UserID:   userID,
		// Explicit nils: the storage layer must not default these to now().
		StartDate: nil,
		EndDate:   nil,
	}
	if err := s.db.Create(&sp).Error; err != nil {
		return nil, err
	}

	if image != nil && image.Filename != "" {
		name := media.BuildName("spot", sp.ID, image.Filename, time.Now())
		if err := s.store.Save(media.KindSpot, name, image); err != nil {
			return nil, fmt.Errorf("save spot image: %w", err)
		}
		if err := s.db.Create(&models.SpotImage{SpotID: sp.ID, Path: name}).Error; err != nil {
			return nil, fmt.Errorf("record spot image: %w", err)
		}
	}

	if err := LinkTags(s.db, in.Tags, func(tagID uint) error {
		return s.db.Create(&models.SpotTag{SpotID: sp.ID, TagID: tagID}).Error
	}); err != nil {
		return nil, err
	}

	return &sp, nil
}

// Exists reports whether a non-deleted spot with the id is present.
func (s *Service) Exists(id string) (bool, error) {
	var count int64
	err := s.db.Model(&models.SpotModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// React toggles the (spot, user, kind) reaction: first call inserts the row,
// second call removes it. Concurrent duplicates resolve through the unique
// index. Returns true when the reaction is now present.
func (s *Service) React(spotID, userID string, kind models.ReactionKind) (bool, error) {
	ok, err := s.Exists(spotID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrNotFound
	}

	res := s.db.Where("spot_id = ? AND user_id = ? AND kind = ?", spotID, userID, kind).
		Delete(&models.SpotReaction{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	err = s.db.Create(&models.SpotReaction{SpotID: spotID, UserID: userID, Kind: kind}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with an identical toggle; the reaction is present.
		return true, nil
	}
	return err == nil, err
}

// ReactionCounts returns per-kind counts for a spot.
func (s *Service) ReactionCounts(spotID string) (map[models.ReactionKind]int64, error) {
	ok, err := s.Exists(spotID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	counts := map[models.ReactionKind]int64{
		models.ReactionGood:   0,
		models.ReactionBad:    0,
		models.ReactionSolved: 0,
	}
	var rows []struct {
		Kind  models.ReactionKind
		Total int64
	}
	err = s.db.Model(&models.SpotReaction{}).
		Select("kind, COUNT(*) AS total").
		Where("spot_id = ?", spotID).
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

// Summarize maps a preloaded spot row to its client shape.
func Summarize(sp models.SpotModel) Summary {
	tags := make([]string, 0, len(sp.Tags))
	for _, st := range sp.Tags {
		if st.Tag != nil {
			tags = append(tags, st.Tag.Name)
		}
	}
	images := make([]string, 0, len(sp.Images))
	for _, img := range sp.Images {
		images = append(images, img.Path)
	}

	sum := Summary{
		ID:       sp.ID,
		Title:    sp.Title,
		Lat:      sp.Lat,
		Lng:      sp.Lng,
		Category: sp.Category,
		Date:     sp.CreatedAt.Format(models.DisplayDate),
		Comment:  sp.Comment,
		Tags:     tags,
		Images:   images,
	}
	if sp.User != nil {
		sum.UserName = sp.User.Name
		sum.UserIcon = sp.User.Icon
	}
	return sum
}

// LinkTags gets-or-creates each tag by name and runs link for its id.
// Shared with the group module.
func LinkTags(db *gorm.DB, names []string, link func(tagID uint) error) error {
	for _, name := range names {
		var tag models.TagModel
		if err := db.Where("name = ?", name).First(&tag).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			tag = models.TagModel{Name: name}
			if err := db.Create(&tag).Error; err != nil {
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
				// Another request created it between the lookup and insert.
				if err := db.Where("name = ?", name).First(&tag).Error; err != nil {
					return err
				}
			}
		}
		if err := link(tag.ID); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return nil
}
