// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tomtom215/lightbox/internal/models"
	"github.com/tomtom215/lightbox/internal/prioritize"
)

func TestUpsertMediaFile_PreservesCounters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	id := insertFile(t, db, "/media/photos/a.jpg", models.MediaTypeImage)
	if _, err := db.RecordView(ctx, id); err != nil {
		t.Fatalf("RecordView() error = %v", err)
	}
	if _, err := db.Like(ctx, id); err != nil {
		t.Fatalf("Like() error = %v", err)
	}

	again, err := db.UpsertMediaFile(ctx, &models.MediaFile{
		Path:      "/media/photos/a.jpg",
		Folder:    "media/photos",
		Filename:  "a.jpg",
		MediaType: models.MediaTypeImage,
		SizeBytes: 4096,
	})
	if err != nil {
		t.Fatalf("second UpsertMediaFile() error = %v", err)
	}
	if again != id {
		t.Errorf("upsert returned id %d, want %d", again, id)
	}

	f, err := db.GetMediaFile(ctx, id)
	if err != nil {
		t.Fatalf("GetMediaFile() error = %v", err)
	}
	if f.SizeBytes != 4096 {
		t.Errorf("SizeBytes = %d, want 4096", f.SizeBytes)
	}
	if f.ViewCount != 1 || f.LikeCount != 1 {
		t.Errorf("counters = (views %d, likes %d), want (1, 1)", f.ViewCount, f.LikeCount)
	}
}

func TestUpsertMediaFile_Invalid(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name string
		file *models.MediaFile
	}{
		{"nil", nil},
		{"no path", &models.MediaFile{MediaType: models.MediaTypeImage}},
		{"bad type", &models.MediaFile{Path: "/x.txt", MediaType: "document"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := db.UpsertMediaFile(ctx, tt.file); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGetMediaFile_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetMediaFile(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestReactions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	id := insertFile(t, db, "/media/a.jpg", models.MediaTypeImage)

	steps := []struct {
		name string
		op   func(context.Context, int64) (*models.MediaFile, error)
		want int
	}{
		{"like", db.Like, 1},
		{"like again", db.Like, 2},
		{"dislike", db.Dislike, -1},
		{"dislike again", db.Dislike, -1},
		{"like after dislike", db.Like, 1},
		{"clear", db.ClearReaction, 0},
	}
	for _, s := range steps {
		f, err := s.op(ctx, id)
		if err != nil {
			t.Fatalf("%s: error = %v", s.name, err)
		}
		if f.LikeCount != s.want {
			t.Errorf("%s: LikeCount = %d, want %d", s.name, f.LikeCount, s.want)
		}
	}

	if _, err := db.Like(ctx, 12345); !errors.Is(err, ErrNotFound) {
		t.Errorf("Like(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRecordView(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	id := insertFile(t, db, "/media/a.mp4", models.MediaTypeVideo)

	first, err := db.RecordView(ctx, id)
	if err != nil {
		t.Fatalf("RecordView() error = %v", err)
	}
	if first.ViewCount != 1 || first.LastViewed == nil {
		t.Fatalf("after first view: count %d, last %v", first.ViewCount, first.LastViewed)
	}

	second, err := db.RecordView(ctx, id)
	if err != nil {
		t.Fatalf("RecordView() error = %v", err)
	}
	if second.ViewCount != 2 {
		t.Errorf("ViewCount = %d, want 2", second.ViewCount)
	}
	if !second.LastViewed.After(*first.LastViewed) {
		t.Errorf("LastViewed did not advance: %v then %v", first.LastViewed, second.LastViewed)
	}
}

func TestSoftDelete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	id := insertFile(t, db, "/media/a.jpg", models.MediaTypeImage)

	if err := db.SoftDelete(ctx, id); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if _, err := db.GetMediaFile(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMediaFile() after delete error = %v, want ErrNotFound", err)
	}
	if err := db.SoftDelete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second SoftDelete() error = %v, want ErrNotFound", err)
	}

	// Re-indexing the same path revives the row.
	if got := insertFile(t, db, "/media/a.jpg", models.MediaTypeImage); got != id {
		t.Errorf("revived id = %d, want %d", got, id)
	}
	if _, err := db.GetMediaFile(ctx, id); err != nil {
		t.Errorf("GetMediaFile() after revive error = %v", err)
	}
}

func seedLibrary(t *testing.T, db *DB) map[string]int64 {
	t.Helper()
	paths := map[string]string{
		"/lib/photos/a.jpg":        models.MediaTypeImage,
		"/lib/photos/b.png":        models.MediaTypeImage,
		"/lib/photos/2024/c.jpg":   models.MediaTypeImage,
		"/lib/photos/2024/d.mp4":   models.MediaTypeVideo,
		"/lib/videos/e.mkv":        models.MediaTypeVideo,
		"/lib/photos_old/f.jpg":    models.MediaTypeImage,
		"/lib/photos/2024/x/g.gif": models.MediaTypeImage,
	}
	ids := make(map[string]int64, len(paths))
	for p, mt := range paths {
		ids[p] = insertFile(t, db, p, mt)
	}
	return ids
}

func TestListAndCount_Filters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	ids := seedLibrary(t, db)

	if _, err := db.SetTags(ctx, ids["/lib/photos/a.jpg"], []string{"Beach", "summer"}); err != nil {
		t.Fatalf("SetTags() error = %v", err)
	}
	if _, err := db.SetTags(ctx, ids["/lib/videos/e.mkv"], []string{"beach"}); err != nil {
		t.Fatalf("SetTags() error = %v", err)
	}

	tests := []struct {
		name   string
		filter models.MediaFilter
		want   []string
	}{
		{"all", models.MediaFilter{}, []string{
			"/lib/photos/2024/c.jpg", "/lib/photos/2024/d.mp4", "/lib/photos/2024/x/g.gif",
			"/lib/photos/a.jpg", "/lib/photos/b.png", "/lib/photos_old/f.jpg", "/lib/videos/e.mkv",
		}},
		{"direct folder", models.MediaFilter{Folder: "lib/photos"}, []string{
			"/lib/photos/a.jpg", "/lib/photos/b.png",
		}},
		{"recursive folder excludes sibling prefix", models.MediaFilter{Folder: "lib/photos", Recursive: true}, []string{
			"/lib/photos/2024/c.jpg", "/lib/photos/2024/d.mp4", "/lib/photos/2024/x/g.gif",
			"/lib/photos/a.jpg", "/lib/photos/b.png",
		}},
		{"videos", models.MediaFilter{MediaType: models.MediaTypeVideo}, []string{
			"/lib/photos/2024/d.mp4", "/lib/videos/e.mkv",
		}},
		{"tag", models.MediaFilter{Tag: "beach"}, []string{"/lib/photos/a.jpg", "/lib/videos/e.mkv"}},
		{"tag and type", models.MediaFilter{Tag: "beach", MediaType: models.MediaTypeImage}, []string{"/lib/photos/a.jpg"}},
		{"no match", models.MediaFilter{Folder: "nowhere"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := db.ListMediaFiles(ctx, tt.filter, 100, 0)
			if err != nil {
				t.Fatalf("ListMediaFiles() error = %v", err)
			}
			got := make([]string, 0, len(files))
			for _, f := range files {
				got = append(got, f.Path)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("paths = %v, want %v", got, tt.want)
			}

			n, err := db.CountMediaFiles(ctx, tt.filter)
			if err != nil {
				t.Fatalf("CountMediaFiles() error = %v", err)
			}
			if n != len(tt.want) {
				t.Errorf("count = %d, want %d", n, len(tt.want))
			}

			candidates, err := db.GetCandidates(ctx, tt.filter)
			if err != nil {
				t.Fatalf("GetCandidates() error = %v", err)
			}
			if len(candidates) != len(tt.want) {
				t.Errorf("candidates = %d, want %d", len(candidates), len(tt.want))
			}
		})
	}
}

func TestListMediaFiles_Pagination(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedLibrary(t, db)

	page, err := db.ListMediaFiles(ctx, models.MediaFilter{}, 3, 5)
	if err != nil {
		t.Fatalf("ListMediaFiles() error = %v", err)
	}
	if len(page) != 2 {
		t.Errorf("len(page) = %d, want 2", len(page))
	}

	empty, err := db.ListMediaFiles(ctx, models.MediaFilter{}, 0, 0)
	if err != nil {
		t.Fatalf("ListMediaFiles(limit 0) error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("limit 0 should return an empty non-nil slice, got %v", empty)
	}
}

func TestGetCandidates_FeedsEngine(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	ids := seedLibrary(t, db)

	disliked := ids["/lib/photos/a.jpg"]
	viewed := ids["/lib/photos/b.png"]
	if _, err := db.Dislike(ctx, disliked); err != nil {
		t.Fatal(err)
	}
	if _, err := db.RecordView(ctx, viewed); err != nil {
		t.Fatal(err)
	}
	if err := db.SoftDelete(ctx, ids["/lib/videos/e.mkv"]); err != nil {
		t.Fatal(err)
	}

	candidates, err := db.GetCandidates(ctx, models.MediaFilter{})
	if err != nil {
		t.Fatalf("GetCandidates() error = %v", err)
	}
	if len(candidates) != 6 {
		t.Fatalf("len(candidates) = %d, want 6 (soft-deleted excluded)", len(candidates))
	}

	byID := make(map[int64]prioritize.MediaRecord)
	for _, c := range candidates {
		byID[c.ID] = c
	}
	if !byID[disliked].Disliked() {
		t.Error("disliked candidate lost its like count")
	}
	if !byID[viewed].Viewed() || byID[viewed].ViewCount != 1 {
		t.Errorf("viewed candidate = %+v", byID[viewed])
	}

	ranked, err := prioritize.Randomize(candidates, prioritize.StrategyUnviewedFirst, true)
	if err != nil {
		t.Fatalf("Randomize() error = %v", err)
	}
	if len(ranked) != 5 {
		t.Fatalf("len(ranked) = %d, want 5", len(ranked))
	}
	if ranked[len(ranked)-1].ID != viewed {
		t.Errorf("viewed file should rank last, got order %v", prioritize.IDs(ranked))
	}
}

func TestMarkMissing(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	ids := seedLibrary(t, db)

	seen := map[string]struct{}{
		"/lib/photos/a.jpg":      {},
		"/lib/photos/2024/c.jpg": {},
	}
	marked, err := db.MarkMissing(ctx, "/lib/photos", seen)
	if err != nil {
		t.Fatalf("MarkMissing() error = %v", err)
	}
	// b.png, d.mp4 and g.gif vanished. photos_old and videos are outside the root.
	if marked != 3 {
		t.Errorf("marked = %d, want 3", marked)
	}

	if _, err := db.GetMediaFile(ctx, ids["/lib/photos_old/f.jpg"]); err != nil {
		t.Errorf("file outside root was marked: %v", err)
	}
	if _, err := db.GetMediaFile(ctx, ids["/lib/photos/b.png"]); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file still live: %v", err)
	}

	again, err := db.MarkMissing(ctx, "/lib/photos", seen)
	if err != nil {
		t.Fatalf("second MarkMissing() error = %v", err)
	}
	if again != 0 {
		t.Errorf("second MarkMissing() marked %d, want 0", again)
	}
}

func TestSetTags(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	id := insertFile(t, db, "/media/a.jpg", models.MediaTypeImage)

	f, err := db.SetTags(ctx, id, []string{" Summer", "beach", "summer", ""})
	if err != nil {
		t.Fatalf("SetTags() error = %v", err)
	}
	if !reflect.DeepEqual(f.Tags, []string{"beach", "summer"}) {
		t.Errorf("Tags = %v", f.Tags)
	}

	f, err = db.SetTags(ctx, id, []string{"summer", "family"})
	if err != nil {
		t.Fatalf("SetTags() replace error = %v", err)
	}
	if !reflect.DeepEqual(f.Tags, []string{"family", "summer"}) {
		t.Errorf("Tags after replace = %v", f.Tags)
	}

	f, err = db.SetTags(ctx, id, nil)
	if err != nil {
		t.Fatalf("SetTags(nil) error = %v", err)
	}
	if f.Tags == nil || len(f.Tags) != 0 {
		t.Errorf("Tags after clear = %v, want empty", f.Tags)
	}

	if _, err := db.SetTags(ctx, 404, []string{"x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetTags(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListTagsFoldersAndStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	ids := seedLibrary(t, db)

	mustTags := func(path string, tags ...string) {
		t.Helper()
		if _, err := db.SetTags(ctx, ids[path], tags); err != nil {
			t.Fatalf("SetTags(%s) error = %v", path, err)
		}
	}
	mustTags("/lib/photos/a.jpg", "beach", "summer")
	mustTags("/lib/photos/b.png", "beach")
	mustTags("/lib/videos/e.mkv", "beach", "winter")

	if _, err := db.Like(ctx, ids["/lib/photos/a.jpg"]); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Dislike(ctx, ids["/lib/photos/b.png"]); err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if _, err := db.RecordView(ctx, ids["/lib/photos/2024/c.jpg"]); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.SoftDelete(ctx, ids["/lib/videos/e.mkv"]); err != nil {
		t.Fatal(err)
	}

	tags, err := db.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags() error = %v", err)
	}
	wantTags := []models.TagCount{{Tag: "beach", Count: 2}, {Tag: "summer", Count: 1}}
	if !reflect.DeepEqual(tags, wantTags) {
		t.Errorf("ListTags() = %v, want %v", tags, wantTags)
	}

	folders, err := db.ListFolders(ctx)
	if err != nil {
		t.Fatalf("ListFolders() error = %v", err)
	}
	wantFolders := []models.FolderCount{
		{Folder: "lib/photos", Count: 2},
		{Folder: "lib/photos/2024", Count: 2},
		{Folder: "lib/photos/2024/x", Count: 1},
		{Folder: "lib/photos_old", Count: 1},
	}
	if !reflect.DeepEqual(folders, wantFolders) {
		t.Errorf("ListFolders() = %v, want %v", folders, wantFolders)
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	want := models.LibraryStats{
		Total: 6, Images: 5, Videos: 1, Unviewed: 5,
		Liked: 1, Disliked: 1, TotalViews: 3, Folders: 4, Tags: 2,
	}
	if *stats != want {
		t.Errorf("Stats() = %+v, want %+v", *stats, want)
	}
}

func TestGetMediaFilesByID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	ids := seedLibrary(t, db)

	a := ids["/lib/photos/a.jpg"]
	b := ids["/lib/photos/b.png"]
	if _, err := db.SetTags(ctx, a, []string{"x"}); err != nil {
		t.Fatal(err)
	}
	if err := db.SoftDelete(ctx, b); err != nil {
		t.Fatal(err)
	}

	files, err := db.GetMediaFilesByID(ctx, []int64{a, b, 9999})
	if err != nil {
		t.Fatalf("GetMediaFilesByID() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("len(files) = %d, want 1", len(files))
	}
	if !reflect.DeepEqual(files[a].Tags, []string{"x"}) {
		t.Errorf("tags = %v", files[a].Tags)
	}
}

func TestLoadSeedFile(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seed := `{"media": [
		{"path": "/seed/a.jpg", "media_type": "image", "view_count": 4, "last_viewed": "2026-01-02T03:04:05Z", "like_count": 2, "tags": ["Beach"]},
		{"path": "/seed/b.mp4", "media_type": "video", "like_count": -5}
	]}`
	file := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(file, []byte(seed), 0o600); err != nil {
		t.Fatal(err)
	}

	n, err := db.LoadSeedFile(ctx, file)
	if err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}

	files, err := db.ListMediaFiles(ctx, models.MediaFilter{Folder: "/seed"}, 10, 0)
	if err != nil {
		t.Fatalf("ListMediaFiles() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	a, b := files[0], files[1]
	if a.ViewCount != 4 || a.LikeCount != 2 || a.LastViewed == nil || a.Filename != "a.jpg" {
		t.Errorf("seeded a = %+v", a)
	}
	if !reflect.DeepEqual(a.Tags, []string{"beach"}) {
		t.Errorf("seeded tags = %v", a.Tags)
	}
	if b.LikeCount != -1 || b.LastViewed != nil {
		t.Errorf("seeded b = %+v", b)
	}

	if _, err := db.LoadSeedFile(ctx, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing seed file should fail")
	}
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	got := NormalizeTags([]string{"B", " a ", "b", "", "  "})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("NormalizeTags() = %v", got)
	}
	if got := NormalizeTags(nil); got == nil || len(got) != 0 {
		t.Errorf("NormalizeTags(nil) = %v, want empty", got)
	}
}
