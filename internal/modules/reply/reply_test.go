package reply

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spotter-app/core/internal/database"
	"github.com/spotter-app/core/internal/middleware"
	"github.com/spotter-app/core/internal/models"
	"github.com/spotter-app/core/internal/pkg/media"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}
	store, err := media.NewStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return NewService(db, store), db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.UserModel {
	t.Helper()
	u := models.UserModel{Name: name, Email: name + "@example.com", Password: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatal(err)
	}
	return &u
}

func seedSpot(t *testing.T, db *gorm.DB, userID string) *models.SpotModel {
	t.Helper()
	sp := models.SpotModel{Title: "t", Lat: 0, Lng: 0, UserID: userID}
	if err := db.Create(&sp).Error; err != nil {
		t.Fatal(err)
	}
	return &sp
}

func TestCreateAndListForSpot(t *testing.T) {
	svc, db := newTestService(t)
	u := seedUser(t, db, "alice")
	sp := seedSpot(t, db, u.ID)

	if _, err := svc.CreateForSpot(sp.ID, u.ID, "looks great", nil); err != nil {
		t.Fatal(err)
	}

	items, err := svc.ListForSpot(sp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d replies, want 1", len(items))
	}
	if items[0].Comment != "looks great" || items[0].UserName != "alice" {
		t.Fatalf("item mismatch: %+v", items[0])
	}
	if items[0].ImageURL != nil {
		t.Fatal("imageUrl should be null without an upload")
	}
}

func TestCreateForMissingParent(t *testing.T) {
	svc, db := newTestService(t)
	u := seedUser(t, db, "alice")

	if _, err := svc.CreateForSpot("no-such-spot", u.ID, "hello", nil); !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("err = %v, want ErrParentNotFound", err)
	}
	if _, err := svc.CreateForGroup("no-such-group", u.ID, "hello", nil); !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("err = %v, want ErrParentNotFound", err)
	}

	var count int64
	if err := db.Model(&models.ReplyModel{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("got %d reply rows, want 0", count)
	}
}

func TestEmptyCommentRejectedBeforeInsert(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, db := newTestService(t)
	u := seedUser(t, db, "alice")

	g := models.GroupModel{UserID: u.ID, Title: "walk"}
	if err := db.Create(&g).Error; err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	fakeAuth := func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, u.ID)
		c.Next()
	}
	NewHandler(svc).RegisterRoutes(r, fakeAuth)

	form := url.Values{"comment": {"   "}}
	req := httptest.NewRequest(http.MethodPost, "/groups/"+g.ID+"/replies", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var count int64
	if err := db.Model(&models.ReplyModel{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("got %d reply rows, want 0", count)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, db := newTestService(t)
	u := seedUser(t, db, "alice")
	sp := seedSpot(t, db, u.ID)

	for _, comment := range []string{"first", "second", "third"} {
		if _, err := svc.CreateForSpot(sp.ID, u.ID, comment, nil); err != nil {
			t.Fatal(err)
		}
	}

	items, err := svc.ListForSpot(sp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d replies, want 3", len(items))
	}
	if items[0].Comment != "third" {
		t.Fatalf("newest first: got %q, want %q", items[0].Comment, "third")
	}
}
