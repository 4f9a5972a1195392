package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spotter-app/core/internal/middleware"
	sessionpkg "github.com/spotter-app/core/internal/pkg/session"
	"gorm.io/gorm"
)

const flashCookie = "spotter_flash"

type Handler struct {
	svc *Service
	db  *gorm.DB
}

func NewHandler(svc *Service, db *gorm.DB) *Handler {
	return &Handler{svc: svc, db: db}
}

// RegisterRoutes mounts the form-based auth flow: render on GET, process and
// redirect on POST, feedback through a flash cookie.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/register", h.registerPage)
	r.POST("/register", h.register)
	r.GET("/login", h.loginPage)
	r.POST("/login", h.login)
	r.GET("/logout", middleware.RequireLogin(h.db), h.logout)
}

func (h *Handler) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"flash": takeFlash(c)})
}

func (h *Handler) register(c *gin.Context) {
	in := RegisterInput{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}
	passwordConfirm := c.PostForm("password_confirm")

	if in.Name == "" || in.Email == "" || in.Password == "" {
		setFlash(c, "please fill in all fields")
		c.Redirect(http.StatusFound, "/register")
		return
	}
	if in.Password != passwordConfirm {
		setFlash(c, "passwords do not match")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	if taken, err := h.svc.EmailTaken(in.Email); err == nil && taken {
		setFlash(c, "this email address is already registered")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	icon, _ := c.FormFile("icon")
	if _, err := h.svc.Register(in, icon); err != nil {
		// Covers the race where a concurrent registration won the unique
		// index; the storage engine resolved the conflict, not us.
		setFlash(c, "registration failed")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	setFlash(c, "registration successful")
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"flash": takeFlash(c)})
}

func (h *Handler) login(c *gin.Context) {
	in := LoginInput{
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}
	if in.Email == "" || in.Password == "" {
		setFlash(c, "please enter your email and password")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	token, err := h.svc.Login(in, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, errUserNotFound) || errors.Is(err, errWrongPassword) {
			setFlash(c, "wrong email address or password")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		setFlash(c, "login failed")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	setSessionCookie(c, token)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) logout(c *gin.Context) {
	h.svc.Logout(middleware.CurrentUserID(c), middleware.CurrentSessionID(c))
	clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, token, int(sessionpkg.DefaultTTL.Seconds()), "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, "", -1, "/", "", false, true)
}

// setFlash stores a one-shot feedback message for the next page render.
func setFlash(c *gin.Context, msg string) {
	c.SetCookie(flashCookie, url.QueryEscape(msg), 60, "/", "", false, true)
}

// takeFlash reads and clears the flash message.
func takeFlash(c *gin.Context) string {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	msg, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return msg
}
