package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"chatshop/internal/domain"
	"chatshop/internal/repos"
	"chatshop/internal/transport"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := repos.EnsureSchema(db); err != nil {
		t.Fatal(err)
	}
	seed := `
	INSERT INTO items(id,name,description,price,preview) VALUES
	  ('aurora','Aurora','Exclusive set',500,'previews/aurora.jpg');
	INSERT INTO item_photos(item_id,position,path) VALUES
	  ('aurora',0,'photos/aurora/01.jpg'),
	  ('aurora',1,'photos/aurora/02.jpg');
	INSERT INTO item_videos(item_id,position,path) VALUES
	  ('aurora',0,'videos/aurora/01.mp4');
	`
	if _, err := db.Exec(seed); err != nil {
		t.Fatal(err)
	}
	return db
}

// fakeSink records paid events handed to it.
type fakeSink struct {
	mu     sync.Mutex
	events []domain.PaidEvent
}

func (f *fakeSink) Enqueue(ev domain.PaidEvent) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return true
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

// fakeStore resolves handles from an in-memory map; anything else is absent.
type fakeStore struct {
	files map[string][]byte
}

func (f *fakeStore) Resolve(_ context.Context, h domain.MediaHandle) ([]byte, error) {
	b, ok := f.files[h.Path]
	if !ok {
		return nil, fmt.Errorf("handle %q: %w", h.Path, domain.ErrMediaAbsent)
	}
	return b, nil
}

// fakeTransport records calls and plays back scripted media-group failures.
type fakeTransport struct {
	mu         sync.Mutex
	texts      []sentText
	groups     [][]transport.MediaItem
	groupErrs  []error // consumed one per SendMediaGroup call
	sentSignal chan struct{}
}

type sentText struct {
	ChatID int64
	Text   string
}

func (f *fakeTransport) SendText(_ context.Context, chatID int64, text string, _ [][]transport.Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, sentText{ChatID: chatID, Text: text})
	return nil
}

func (f *fakeTransport) SendMediaGroup(_ context.Context, chatID int64, items []transport.MediaItem) error {
	f.mu.Lock()
	var err error
	if len(f.groupErrs) > 0 {
		err, f.groupErrs = f.groupErrs[0], f.groupErrs[1:]
	}
	if err == nil {
		cp := make([]transport.MediaItem, len(items))
		copy(cp, items)
		f.groups = append(f.groups, cp)
	}
	sig := f.sentSignal
	f.mu.Unlock()
	if err == nil && sig != nil {
		select {
		case sig <- struct{}{}:
		default:
		}
	}
	return err
}

func (f *fakeTransport) EditMessage(_ context.Context, _ transport.MessageRef, _ transport.Content, _ [][]transport.Button) error {
	return nil
}

func (f *fakeTransport) Acknowledge(_ context.Context, _, _ string, _ bool) error { return nil }

func (f *fakeTransport) sentGroups() [][]transport.MediaItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]transport.MediaItem, len(f.groups))
	copy(out, f.groups)
	return out
}

func (f *fakeTransport) sentTexts() []sentText {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentText, len(f.texts))
	copy(out, f.texts)
	return out
}
