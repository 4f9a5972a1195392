package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spotter-app/core/internal/middleware"
	"github.com/spotter-app/core/internal/modules/auth"
	"github.com/spotter-app/core/internal/modules/group"
	"github.com/spotter-app/core/internal/modules/moderation"
	"github.com/spotter-app/core/internal/modules/reply"
	"github.com/spotter-app/core/internal/modules/spot"
	"github.com/spotter-app/core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Client shell. The group view exists so a QR code can deep-link one
	// group; the shell reads the id hint and fetches the JSON itself.
	shell := func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"logged_in": middleware.IsAuthenticated(c),
			"group_id":  c.Param("id"),
		})
	}
	r.GET("/", middleware.OptionalAuth(db), shell)
	r.GET("/groups/:id/view", middleware.OptionalAuth(db), shell)

	// Uploaded media. gin's static handler refuses path escapes.
	r.Static("/uploads", a.store.Root())

	auth.NewHandler(auth.NewService(db, a.store, a.logger), db).RegisterRoutes(r)
	spot.NewHandler(spot.NewService(db, a.store)).RegisterRoutes(r, authMW)
	group.NewHandler(group.NewService(db, a.store)).RegisterRoutes(r, authMW)
	reply.NewHandler(reply.NewService(db, a.store)).RegisterRoutes(r, authMW)
	moderation.NewHandler(moderation.NewService(db)).RegisterRoutes(r, authMW)
}
