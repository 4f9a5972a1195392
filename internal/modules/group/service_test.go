package group

import (
	"errors"
	"testing"

	"github.com/spotter-app/core/internal/database"
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

func seedSpot(t *testing.T, db *gorm.DB, userID, title string) *models.SpotModel {
	t.Helper()
	sp := models.SpotModel{Title: title, Lat: 35.0, Lng: 135.0, UserID: userID}
	if err := db.Create(&sp).Error; err != nil {
		t.Fatal(err)
	}
	return &sp
}

func TestCreateAndGetWithMembers(t *testing.T) {
	svc, db := newTestService(t)
	u := seedUser(t, db, "alice")
	s1 := seedSpot(t, db, u.ID, "temple")
	s2 := seedSpot(t, db, u.ID, "garden")

	g, err := svc.Create(u.ID, CreateInput{
		Title:    "Kyoto walk",
		Comment:  "one afternoon",
		Category: "sightseeing",
		Lat:      35.0,
		Lng:      135.0,
		IsPublic: true,
		Tags:     []string{"kyoto"},
		SpotIDs:  []string{s1.ID, s2.ID},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	detail, spots, err := svc.Get(g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.Title != "Kyoto walk" || !detail.IsPublic {
		t.Fatalf("detail mismatch: %+v", detail)
	}
	if detail.UserName != "alice" {
		t.Fatalf("user_name = %q, want alice", detail.UserName)
	}
	if len(detail.Tags) != 1 || detail.Tags[0] != "kyoto" {
		t.Fatalf("tags = %v", detail.Tags)
	}
	if len(spots) != 2 {
		t.Fatalf("got %d member spots, want 2", len(spots))
	}
}

func TestGetNotFound(t *testing.T) {
	svc, db := newTestService(t)
	u := seedUser(t, db, "alice")

	if _, _, err := svc.Get("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	g, err := svc.Create(u.ID, CreateInput{Title: "gone"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Delete(&models.GroupModel{Base: models.Base{ID: g.ID}}).Error; err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Get(g.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("soft-deleted group: err = %v, want ErrNotFound", err)
	}
}

func TestAddSpotDuplicate(t *testing.T) {
	svc, db := newTestService(t)
	u := seedUser(t, db, "alice")
	sp := seedSpot(t, db, u.ID, "temple")

	g, err := svc.Create(u.ID, CreateInput{Title: "walk"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.AddSpot(g.ID, sp.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddSpot(g.ID, sp.ID); !errors.Is(err, ErrAlreadyLinked) {
		t.Fatalf("err = %v, want ErrAlreadyLinked", err)
	}

	if err := svc.AddSpot(g.ID, "no-such-spot"); !errors.Is(err, ErrSpotNotFound) {
		t.Fatalf("err = %v, want ErrSpotNotFound", err)
	}
	if err := svc.AddSpot("no-such-group", sp.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGroupReactionToggle(t *testing.T) {
	svc, db := newTestService(t)
	u := seedUser(t, db, "alice")

	g, err := svc.Create(u.ID, CreateInput{Title: "walk"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	present, err := svc.React(g.ID, u.ID, models.ReactionGood)
	if err != nil {
		t.Fatal(err)
	}
	if !present {
		t.Fatal("first toggle should add the reaction")
	}
	present, err = svc.React(g.ID, u.ID, models.ReactionGood)
	if err != nil {
		t.Fatal(err)
	}
	if present {
		t.Fatal("second toggle should remove the reaction")
	}
}
