// Package moderation handles user-filed requests against existing content
// (takedown, correction, flagging a user).
package moderation

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/spotter-app/core/internal/models"
	"github.com/spotter-app/core/internal/pkg/pagination"
	"github.com/spotter-app/core/internal/pkg/response"
	"gorm.io/gorm"
)

var (
	ErrUnknownTable   = errors.New("unknown target table")
	ErrTargetNotFound = errors.New("target not found")
	ErrNotFound       = errors.New("request not found")
)

type CreateInput struct {
	TargetTable string `json:"table" binding:"required"`
	TargetID    string `json:"target_id" binding:"required"`
	Comment     string `json:"comment"`
	Necessity   *bool  `json:"necessity"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create files a request after checking the target row actually exists in
// the named table.
func (s *Service) Create(in CreateInput) (*models.RequestModel, error) {
	table := models.TargetTable(in.TargetTable)
	if !models.KnownTargetTable(table) {
		return nil, ErrUnknownTable
	}

	var count int64
	if err := s.db.Table(string(table)).
		Where("id = ? AND deleted_at IS NULL", in.TargetID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrTargetNotFound
	}

	req := models.RequestModel{
		TargetTable: table,
		TargetID:    in.TargetID,
		Comment:     in.Comment,
		Necessity:   in.Necessity,
	}
	if err := s.db.Create(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// List pages through requests, newest first. solved filters by resolution
// state when non-nil.
func (s *Service) List(q pagination.Query, solved *bool) ([]models.RequestModel, response.Pagination, error) {
	query := s.db.Model(&models.RequestModel{}).Order("created_at DESC")
	if solved != nil {
		query = query.Where("solved = ?", *solved)
	}

	var requests []models.RequestModel
	page, err := pagination.Paginate(query, q, &requests)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return requests, page, nil
}

// Solve marks a request resolved. Solving an already solved request is a
// no-op success.
func (s *Service) Solve(id string) error {
	res := s.db.Model(&models.RequestModel{}).Where("id = ?", id).Update("solved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.RequestModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, authMW gin.HandlerFunc) {
	r.POST("/requests", h.create)
	r.GET("/requests", authMW, h.list)
	r.PATCH("/requests/:id/solve", authMW, h.solve)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "table and target_id are required")
		return
	}

	req, err := h.svc.Create(in)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownTable):
			response.BadRequest(c, "unknown table")
		case errors.Is(err, ErrTargetNotFound):
			response.NotFoundMsg(c, "target not found")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, req)
}

func (h *Handler) list(c *gin.Context) {
	var solved *bool
	if raw, ok := c.GetQuery("solved"); ok {
		v := raw == "true" || raw == "1"
		solved = &v
	}

	requests, page, err := h.svc.List(pagination.FromContext(c), solved)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, requests, page)
}

func (h *Handler) solve(c *gin.Context) {
	if err := h.svc.Solve(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "request not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}
