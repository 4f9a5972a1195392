package spot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spotter-app/core/internal/middleware"
	"github.com/spotter-app/core/internal/models"
	"github.com/spotter-app/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, authMW gin.HandlerFunc) {
	r.POST("/spots", h.nearby)
	r.POST("/spots/create", authMW, h.create)
	r.GET("/spots/:id/reactions", h.reactionCounts)
	r.POST("/spots/:id/reactions", authMW, h.react)
}

// nearby is the map client's viewport query: POST body with the center point
// and an optional radius in kilometers.
func (h *Handler) nearby(c *gin.Context) {
	var q NearbyQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if q.Lat == nil || q.Lng == nil {
		response.BadRequest(c, "lat and lng are required")
		return
	}

	radius := DefaultRadiusKm
	if q.Radius != nil {
		radius = *q.Radius
	}

	spots, err := h.svc.Nearby(*q.Lat, *q.Lng, radius)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, spots)
}

func (h *Handler) create(c *gin.Context) {
	in := CreateInput{
		Title:    strings.TrimSpace(c.PostForm("title")),
		Comment:  strings.TrimSpace(c.PostForm("comment")),
		Category: strings.TrimSpace(c.PostForm("category")),
	}
	if in.Title == "" {
		response.BadRequest(c, "title is required")
		return
	}
	if in.Category == "" {
		in.Category = DefaultCategory
	}

	lat, latErr := strconv.ParseFloat(c.PostForm("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.PostForm("lng"), 64)
	if latErr != nil || lngErr != nil {
		response.BadRequest(c, "lat and lng are required")
		return
	}
	in.Lat, in.Lng = lat, lng

	for i := 1; i <= TagSlots; i++ {
		if tag := strings.TrimSpace(c.PostForm(fmt.Sprintf("tag%d", i))); tag != "" {
			in.Tags = append(in.Tags, tag)
		}
	}

	image, _ := c.FormFile("image")
	sp, err := h.svc.Create(middleware.CurrentUserID(c), in, image)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"success": true,
		"spot": gin.H{
			"id":       sp.ID,
			"title":    sp.Title,
			"lat":      sp.Lat,
			"lng":      sp.Lng,
			"category": sp.Category,
		},
	})
}

func (h *Handler) react(c *gin.Context) {
	var body struct {
		Kind models.ReactionKind `json:"kind"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	switch body.Kind {
	case models.ReactionGood, models.ReactionBad, models.ReactionSolved:
	default:
		response.BadRequest(c, "unknown reaction kind")
		return
	}

	active, err := h.svc.React(c.Param("id"), middleware.CurrentUserID(c), body.Kind)
	if err != nil {
		if err == ErrNotFound {
			response.NotFoundMsg(c, "spot not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true, "active": active})
}

func (h *Handler) reactionCounts(c *gin.Context) {
	counts, err := h.svc.ReactionCounts(c.Param("id"))
	if err != nil {
		if err == ErrNotFound {
			response.NotFoundMsg(c, "spot not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, counts)
}
