package media

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fileHeader(t *testing.T, field, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

func TestBuildName(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 5, 9, 0, time.UTC)

	got := BuildName("spot", "abc-123", "sunset.JPG", now)
	want := "spot_abc-123_20260831_140509.jpg"
	if got != want {
		t.Fatalf("BuildName = %q, want %q", got, want)
	}

	// A hostile original name contributes only an extension.
	got = BuildName("reply", "r1", "../../etc/passwd", now)
	if strings.Contains(got, "..") || strings.Contains(got, "/") {
		t.Fatalf("path components leaked into %q", got)
	}
	if !strings.HasSuffix(got, ".dat") {
		t.Fatalf("suspicious extension should fall back to .dat, got %q", got)
	}
}

func TestSafeName(t *testing.T) {
	cases := map[string]string{
		"spot_1_20260101_000000.png": "spot_1_20260101_000000.png",
		"../evil.png":                "evil.png",
		"a b.png":                    "",
		".hidden":                    "",
		"":                           "",
	}
	for in, want := range cases {
		if got := SafeName(in); got != want {
			t.Errorf("SafeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStoreSaveAndURL(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	fh := fileHeader(t, "image", "photo.png", "png-bytes")
	name := BuildName("spot", "s1", fh.Filename, time.Now())
	if err := store.Save(KindSpot, name, fh); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(store.Root(), "spot", name))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("stored content = %q", data)
	}

	if got, want := URL(KindSpot, name), "/uploads/spot/"+name; got != want {
		t.Fatalf("URL = %q, want %q", got, want)
	}
}

func TestStoreRenameTwoPhase(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	fh := fileHeader(t, "icon", "me.png", "icon-bytes")
	tmp := TempName(fh.Filename)
	if err := store.Save(KindIcon, tmp, fh); err != nil {
		t.Fatal(err)
	}

	final := BuildName("icon", "u1", fh.Filename, time.Now())
	if err := store.Rename(KindIcon, tmp, final); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if store.Exists(KindIcon, tmp) {
		t.Fatal("temp file still present after rename")
	}
	if !store.Exists(KindIcon, final) {
		t.Fatal("final file missing after rename")
	}
}

func TestStoreRenameFailureCleansTemp(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	fh := fileHeader(t, "icon", "me.png", "icon-bytes")
	tmp := TempName(fh.Filename)
	if err := store.Save(KindIcon, tmp, fh); err != nil {
		t.Fatal(err)
	}

	// An unsafe destination forces the rename to fail.
	if err := store.Rename(KindIcon, tmp, "bad name.png"); err == nil {
		t.Fatal("expected rename error")
	}
	if store.Exists(KindIcon, tmp) {
		t.Fatal("temp file should have been removed on failure")
	}
}

func TestTempNameUnique(t *testing.T) {
	a, b := TempName("x.png"), TempName("x.png")
	if a == b {
		t.Fatalf("temp names collide: %q", a)
	}
	if !strings.HasSuffix(a, ".png") {
		t.Fatalf("extension not preserved: %q", a)
	}
}
