// Package reply implements threaded comments on spots and groups, each with
// at most one attached photo.
package reply

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spotter-app/core/internal/middleware"
	"github.com/spotter-app/core/internal/models"
	"github.com/spotter-app/core/internal/pkg/media"
	"github.com/spotter-app/core/internal/pkg/response"
	"gorm.io/gorm"
)

var ErrParentNotFound = errors.New("parent not found")

// Item is the reply shape the client renders. ImageURL points at the first
// attached photo, or is null.
type Item struct {
	ID       string  `json:"id"`
	Comment  string  `json:"comment"`
	UserName string  `json:"user_name"`
	UserIcon *string `json:"user_icon"`
	Date     string  `json:"date"`
	ImageURL *string `json:"imageUrl"`
}

type Service struct {
	db    *gorm.DB
	store *media.Store
}

func NewService(db *gorm.DB, store *media.Store) *Service {
	return &Service{db: db, store: store}
}

// ListForSpot returns the spot's non-deleted replies, newest first.
func (s *Service) ListForSpot(spotID string) ([]Item, error) {
	return s.list("spot_id = ?", spotID)
}

// ListForGroup returns the group's non-deleted replies, newest first.
func (s *Service) ListForGroup(groupID string) ([]Item, error) {
	return s.list("group_id = ?", groupID)
}

func (s *Service) list(cond string, id string) ([]Item, error) {
	var replies []models.ReplyModel
	err := s.db.
		Preload("User").
		Preload("Images").
		Where(cond, id).
		Order("created_at DESC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(replies))
	for _, r := range replies {
		item := Item{
			ID:      r.ID,
			Comment: r.Comment,
			Date:    r.CreatedAt.Format(models.DisplayDate),
		}
		if r.User != nil {
			item.UserName = r.User.Name
			item.UserIcon = r.User.Icon
		}
		if len(r.Images) > 0 {
			url := media.URL(media.KindReply, r.Images[0].Path)
			item.ImageURL = &url
		}
		items = append(items, item)
	}
	return items, nil
}

// CreateForSpot attaches a reply (and optional photo) to a spot.
func (s *Service) CreateForSpot(spotID, userID, comment string, image *multipart.FileHeader) (*models.ReplyModel, error) {
	if err := s.parentExists(&models.SpotModel{}, spotID); err != nil {
		return nil, err
	}
	return s.create(models.ReplyModel{SpotID: &spotID, UserID: userID, Comment: comment}, "reply", image)
}

// CreateForGroup attaches a reply (and optional photo) to a group. Group
// reply photos share the reply directory under a distinct name prefix.
func (s *Service) CreateForGroup(groupID, userID, comment string, image *multipart.FileHeader) (*models.ReplyModel, error) {
	if err := s.parentExists(&models.GroupModel{}, groupID); err != nil {
		return nil, err
	}
	return s.create(models.ReplyModel{GroupID: &groupID, UserID: userID, Comment: comment}, "reply_group", image)
}

func (s *Service) parentExists(model interface{}, id string) error {
	var count int64
	if err := s.db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrParentNotFound
	}
	return nil
}

// create persists the reply row first; the image row follows because its
// stored filename embeds the reply's id.
func (s *Service) create(r models.ReplyModel, namePrefix string, image *multipart.FileHeader) (*models.ReplyModel, error) {
	if err := s.db.Create(&r).Error; err != nil {
		return nil, err
	}

	if image != nil && image.Filename != "" {
		name := media.BuildName(namePrefix, r.ID, image.Filename, time.Now())
		if err := s.store.Save(media.KindReply, name, image); err != nil {
			return nil, fmt.Errorf("save reply image: %w", err)
		}
		if err := s.db.Create(&models.ReplyImage{ReplyID: r.ID, Path: name}).Error; err != nil {
			return nil, fmt.Errorf("record reply image: %w", err)
		}
	}
	return &r, nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, authMW gin.HandlerFunc) {
	r.GET("/spots/:id/replies", h.listForSpot)
	r.POST("/spots/:id/replies", authMW, h.createForSpot)
	r.GET("/groups/:id/replies", h.listForGroup)
	r.POST("/groups/:id/replies", authMW, h.createForGroup)
}

func (h *Handler) listForSpot(c *gin.Context) {
	items, err := h.svc.ListForSpot(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) listForGroup(c *gin.Context) {
	items, err := h.svc.ListForGroup(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) createForSpot(c *gin.Context) {
	h.createCommon(c, func(comment string, image *multipart.FileHeader) error {
		_, err := h.svc.CreateForSpot(c.Param("id"), middleware.CurrentUserID(c), comment, image)
		return err
	})
}

func (h *Handler) createForGroup(c *gin.Context) {
	h.createCommon(c, func(comment string, image *multipart.FileHeader) error {
		_, err := h.svc.CreateForGroup(c.Param("id"), middleware.CurrentUserID(c), comment, image)
		return err
	})
}

func (h *Handler) createCommon(c *gin.Context, create func(comment string, image *multipart.FileHeader) error) {
	comment := strings.TrimSpace(c.PostForm("comment"))
	if comment == "" {
		response.BadRequest(c, "comment is required")
		return
	}

	image, _ := c.FormFile("image")
	if err := create(comment, image); err != nil {
		if errors.Is(err, ErrParentNotFound) {
			response.NotFoundMsg(c, "not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}
