// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lightbox/internal/config"
	"github.com/tomtom215/lightbox/internal/models"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// memStore is an in-memory Store that mirrors the database's soft-delete semantics.
type memStore struct {
	mu      sync.Mutex
	files   map[string]*models.MediaFile
	deleted map[string]bool
	nextID  int64
	failOn  string
	block   chan struct{}
	entered chan struct{}
}

func newMemStore() *memStore {
	return &memStore{files: map[string]*models.MediaFile{}, deleted: map[string]bool{}}
}

func (m *memStore) UpsertMediaFile(_ context.Context, f *models.MediaFile) (int64, error) {
	if m.block != nil {
		m.entered <- struct{}{}
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.Path == m.failOn {
		return 0, errors.New("write failed")
	}
	if existing, ok := m.files[f.Path]; ok {
		delete(m.deleted, f.Path)
		return existing.ID, nil
	}
	m.nextID++
	cp := *f
	cp.ID = m.nextID
	m.files[f.Path] = &cp
	return cp.ID, nil
}

func (m *memStore) MarkMissing(_ context.Context, root string, seen map[string]struct{}) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for p := range m.files {
		if m.deleted[p] {
			continue
		}
		if !strings.HasPrefix(p, root+string(filepath.Separator)) {
			continue
		}
		if _, ok := seen[p]; !ok {
			m.deleted[p] = true
			n++
		}
	}
	return n, nil
}

func (m *memStore) Stats(context.Context) (*models.LibraryStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st models.LibraryStats
	for p, f := range m.files {
		if m.deleted[p] {
			continue
		}
		st.Total++
		if f.MediaType == models.MediaTypeImage {
			st.Images++
		} else {
			st.Videos++
		}
	}
	return &st, nil
}

func (m *memStore) live() []*models.MediaFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.MediaFile{}
	for p, f := range m.files {
		if !m.deleted[p] {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
}

func buildLibrary(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "photos")
	writeFile(t, filepath.Join(root, "a.jpg"), []byte("jpeg"))
	writeFile(t, filepath.Join(root, "B.MP4"), []byte("video"))
	writeFile(t, filepath.Join(root, "notes.txt"), []byte("hello"))
	writeFile(t, filepath.Join(root, ".hidden.jpg"), []byte("jpeg"))
	writeFile(t, filepath.Join(root, ".cache", "thumb.jpg"), []byte("jpeg"))
	writeFile(t, filepath.Join(root, "2024", "beach", "c.png"), []byte("png"))
	writeFile(t, filepath.Join(root, "2024", "noext"), pngHeader)
	return root
}

func newTestScanner(cfg *config.LibraryConfig, store Store) *Scanner {
	return NewScanner(cfg, store, zerolog.Nop())
}

func TestScan_IndexesMedia(t *testing.T) {
	t.Parallel()

	root := buildLibrary(t)
	store := newMemStore()
	s := newTestScanner(&config.LibraryConfig{Roots: []string{root}, SniffContent: true}, store)

	report, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	// a.jpg, B.MP4, c.png and the sniffed PNG; notes.txt and two hidden files skipped.
	if report.Indexed != 4 {
		t.Errorf("Indexed = %d, want 4", report.Indexed)
	}
	if report.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2 (notes.txt, .hidden.jpg)", report.Skipped)
	}
	if report.Errors != 0 || report.Removed != 0 {
		t.Errorf("Errors = %d, Removed = %d", report.Errors, report.Removed)
	}
	if len(report.Roots) != 1 || report.Roots[0].Root != root {
		t.Errorf("Roots = %+v", report.Roots)
	}

	files := store.live()
	byName := map[string]*models.MediaFile{}
	for _, f := range files {
		byName[f.Filename] = f
	}

	tests := []struct {
		name      string
		mediaType string
		mimeType  string
		folder    string
	}{
		{"a.jpg", models.MediaTypeImage, "image/jpeg", "photos"},
		{"B.MP4", models.MediaTypeVideo, "video/mp4", "photos"},
		{"c.png", models.MediaTypeImage, "image/png", "photos/2024/beach"},
		{"noext", models.MediaTypeImage, "image/png", "photos/2024"},
	}
	for _, tt := range tests {
		f, ok := byName[tt.name]
		if !ok {
			t.Errorf("%s not indexed", tt.name)
			continue
		}
		if f.MediaType != tt.mediaType || f.MimeType != tt.mimeType || f.Folder != tt.folder {
			t.Errorf("%s = (%s, %s, %s), want (%s, %s, %s)",
				tt.name, f.MediaType, f.MimeType, f.Folder, tt.mediaType, tt.mimeType, tt.folder)
		}
	}
	if f := byName["a.jpg"]; f != nil && f.SizeBytes != 4 {
		t.Errorf("a.jpg SizeBytes = %d, want 4", f.SizeBytes)
	}

	if st := s.Status(); st.Running || st.Last != report {
		t.Errorf("Status() = %+v", st)
	}
}

func TestScan_HiddenAndSniffOptions(t *testing.T) {
	t.Parallel()

	root := buildLibrary(t)
	store := newMemStore()
	s := newTestScanner(&config.LibraryConfig{Roots: []string{root}, IncludeHidden: true}, store)

	report, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	// Hidden files included, sniffing off so noext is skipped.
	if report.Indexed != 5 {
		t.Errorf("Indexed = %d, want 5", report.Indexed)
	}
	if report.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2 (notes.txt, noext)", report.Skipped)
	}
}

func TestScan_RemovesMissingFiles(t *testing.T) {
	t.Parallel()

	root := buildLibrary(t)
	store := newMemStore()
	s := newTestScanner(&config.LibraryConfig{Roots: []string{root}}, store)

	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(root, "a.jpg")); err != nil {
		t.Fatal(err)
	}

	report, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("second Scan() error = %v", err)
	}
	if report.Removed != 1 {
		t.Errorf("Removed = %d, want 1", report.Removed)
	}
	for _, f := range store.live() {
		if f.Filename == "a.jpg" {
			t.Error("a.jpg still live after removal")
		}
	}
}

func TestScan_ErrorsSkipMissingDetection(t *testing.T) {
	t.Parallel()

	root := buildLibrary(t)
	store := newMemStore()
	s := newTestScanner(&config.LibraryConfig{Roots: []string{root}}, store)

	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(root, "a.jpg")); err != nil {
		t.Fatal(err)
	}
	store.failOn = filepath.Join(root, "B.MP4")

	report, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if report.Errors != 1 {
		t.Errorf("Errors = %d, want 1", report.Errors)
	}
	if report.Removed != 0 {
		t.Errorf("Removed = %d, want 0 after a failed walk", report.Removed)
	}
}

func TestScan_MissingRoot(t *testing.T) {
	t.Parallel()

	good := buildLibrary(t)
	store := newMemStore()
	s := newTestScanner(&config.LibraryConfig{Roots: []string{filepath.Join(t.TempDir(), "gone"), good}}, store)

	report, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if report.Errors != 1 {
		t.Errorf("Errors = %d, want 1", report.Errors)
	}
	if report.Indexed != 3 {
		t.Errorf("Indexed = %d, want 3 from the readable root", report.Indexed)
	}
}

func TestScan_Cancelled(t *testing.T) {
	t.Parallel()

	root := buildLibrary(t)
	s := newTestScanner(&config.LibraryConfig{Roots: []string{root}}, newMemStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Scan(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Scan() error = %v, want context.Canceled", err)
	}
	if s.Status().Last != nil {
		t.Error("aborted scan should not become the last report")
	}
}

func TestScan_SingleFlight(t *testing.T) {
	t.Parallel()

	root := buildLibrary(t)
	store := newMemStore()
	store.block = make(chan struct{})
	store.entered = make(chan struct{}, 16)
	s := newTestScanner(&config.LibraryConfig{Roots: []string{root}}, store)

	done := make(chan error, 1)
	go func() {
		_, err := s.Scan(context.Background())
		done <- err
	}()

	<-store.entered
	if !s.Status().Running {
		t.Error("Status().Running = false during scan")
	}
	if _, err := s.Scan(context.Background()); !errors.Is(err, ErrScanInProgress) {
		t.Errorf("concurrent Scan() error = %v, want ErrScanInProgress", err)
	}

	close(store.block)
	if err := <-done; err != nil {
		t.Fatalf("first Scan() error = %v", err)
	}
	if s.Status().Running {
		t.Error("Status().Running = true after scan")
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sniffed := filepath.Join(dir, "mystery.bin")
	writeFile(t, sniffed, pngHeader)
	text := filepath.Join(dir, "readme")
	writeFile(t, text, []byte("plain text"))

	tests := []struct {
		path      string
		mediaType string
		ok        bool
	}{
		{"/x/photo.JPEG", models.MediaTypeImage, true},
		{"/x/clip.webm", models.MediaTypeVideo, true},
		{"/x/clip.mov", models.MediaTypeVideo, true},
		{sniffed, models.MediaTypeImage, true},
		{text, "", false},
		{"/does/not/exist", "", false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			mediaType, _, ok := Classify(tt.path)
			if ok != tt.ok || mediaType != tt.mediaType {
				t.Errorf("Classify(%s) = (%q, %v), want (%q, %v)", tt.path, mediaType, ok, tt.mediaType, tt.ok)
			}
		})
	}
}
