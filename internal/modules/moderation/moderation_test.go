package moderation

import (
	"errors"
	"testing"

	"github.com/spotter-app/core/internal/database"
	"github.com/spotter-app/core/internal/models"
	"github.com/spotter-app/core/internal/pkg/pagination"
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
	return NewService(db), db
}

func seedSpot(t *testing.T, db *gorm.DB) *models.SpotModel {
	t.Helper()
	u := models.UserModel{Name: "alice", Email: "alice@example.com", Password: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatal(err)
	}
	sp := models.SpotModel{Title: "t", Lat: 0, Lng: 0, UserID: u.ID}
	if err := db.Create(&sp).Error; err != nil {
		t.Fatal(err)
	}
	return &sp
}

func TestCreateValidatesTarget(t *testing.T) {
	svc, db := newTestService(t)
	sp := seedSpot(t, db)

	if _, err := svc.Create(CreateInput{TargetTable: "sessions", TargetID: sp.ID}); !errors.Is(err, ErrUnknownTable) {
		t.Fatalf("err = %v, want ErrUnknownTable", err)
	}
	if _, err := svc.Create(CreateInput{TargetTable: "spots", TargetID: "no-such-id"}); !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("err = %v, want ErrTargetNotFound", err)
	}

	req, err := svc.Create(CreateInput{TargetTable: "spots", TargetID: sp.ID, Comment: "wrong location"})
	if err != nil {
		t.Fatal(err)
	}
	if req.Solved {
		t.Fatal("new request must start unsolved")
	}
}

func TestListSolvedFilter(t *testing.T) {
	svc, db := newTestService(t)
	sp := seedSpot(t, db)

	first, err := svc.Create(CreateInput{TargetTable: "spots", TargetID: sp.ID})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(CreateInput{TargetTable: "spots", TargetID: sp.ID}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Solve(first.ID); err != nil {
		t.Fatal(err)
	}

	q := pagination.Query{Page: 1, Size: 20}

	all, page, err := svc.List(q, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || page.Total != 2 {
		t.Fatalf("got %d requests (total %d), want 2", len(all), page.Total)
	}

	solved := true
	got, _, err := svc.List(q, &solved)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != first.ID {
		t.Fatalf("solved filter: got %+v", got)
	}

	unsolved := false
	got, _, err = svc.List(q, &unsolved)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID == first.ID {
		t.Fatalf("unsolved filter: got %+v", got)
	}
}

func TestSolveIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	sp := seedSpot(t, db)

	req, err := svc.Create(CreateInput{TargetTable: "spots", TargetID: sp.ID})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Solve(req.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Solve(req.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Solve("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
