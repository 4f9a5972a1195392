package group

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spotter-app/core/internal/middleware"
	"github.com/spotter-app/core/internal/models"
	"github.com/spotter-app/core/internal/modules/spot"
	"github.com/spotter-app/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, authMW gin.HandlerFunc) {
	r.GET("/groups/:id", h.get)
	r.POST("/groups/create", authMW, h.create)
	r.POST("/groups/:id/spots", authMW, h.addSpot)
	r.GET("/groups/:id/reactions", h.reactionCounts)
	r.POST("/groups/:id/reactions", authMW, h.react)
}

func (h *Handler) get(c *gin.Context) {
	detail, spots, err := h.svc.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "group not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"group": detail, "spots": spots})
}

func (h *Handler) create(c *gin.Context) {
	in := CreateInput{
		Title:    strings.TrimSpace(c.PostForm("title")),
		Comment:  strings.TrimSpace(c.PostForm("comment")),
		Category: strings.TrimSpace(c.PostForm("category")),
		IsPublic: c.PostForm("is_public") == "true" || c.PostForm("is_public") == "1",
	}
	if in.Title == "" {
		response.BadRequest(c, "title is required")
		return
	}

	lat, latErr := strconv.ParseFloat(c.PostForm("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.PostForm("lng"), 64)
	if latErr != nil || lngErr != nil {
		response.BadRequest(c, "lat and lng are required")
		return
	}
	in.Lat, in.Lng = lat, lng

	for i := 1; i <= spot.TagSlots; i++ {
		if tag := strings.TrimSpace(c.PostForm(fmt.Sprintf("tag%d", i))); tag != "" {
			in.Tags = append(in.Tags, tag)
		}
	}
	for _, id := range c.PostFormArray("spot_ids") {
		if id = strings.TrimSpace(id); id != "" {
			in.SpotIDs = append(in.SpotIDs, id)
		}
	}

	image, _ := c.FormFile("image")
	g, err := h.svc.Create(middleware.CurrentUserID(c), in, image)
	if err != nil {
		if errors.Is(err, ErrSpotNotFound) {
			response.BadRequest(c, "unknown spot id")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"success": true,
		"group": gin.H{
			"id":    g.ID,
			"title": g.Title,
			"lat":   g.Lat,
			"lng":   g.Lng,
		},
	})
}

func (h *Handler) addSpot(c *gin.Context) {
	var body struct {
		SpotID string `json:"spot_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.SpotID) == "" {
		response.BadRequest(c, "spot_id is required")
		return
	}

	err := h.svc.AddSpot(c.Param("id"), strings.TrimSpace(body.SpotID))
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "group not found")
	case errors.Is(err, ErrSpotNotFound):
		response.NotFoundMsg(c, "spot not found")
	case errors.Is(err, ErrAlreadyLinked):
		response.Conflict(c, "spot already in group")
	case err != nil:
		response.InternalError(c, err)
	default:
		response.OK(c, gin.H{"success": true})
	}
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
	case models.ReactionGood, models.ReactionBad:
	default:
		response.BadRequest(c, "unknown reaction kind")
		return
	}

	active, err := h.svc.React(c.Param("id"), middleware.CurrentUserID(c), body.Kind)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "group not found")
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
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "group not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, counts)
}
