package repos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"chatshop/internal/domain"
	"chatshop/internal/repos"
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
	INSERT INTO buyers(telegram_id, username) VALUES (100, 'alice');
	INSERT INTO items(id,name,description,price,preview) VALUES
	  ('aurora','Aurora','set',500,'previews/aurora.jpg');
	`
	if _, err := db.Exec(seed); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestOrderRepo_CreateAndGet(t *testing.T) {
	db := memdb(t)
	r := repos.NewOrderRepo(db)
	ctx := context.Background()

	if err := r.Create(ctx, "o1", 100, "aurora", 500); err != nil {
		t.Fatal(err)
	}
	o, err := r.Get(ctx, "o1")
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.StatusPending || o.Amount != 500 || o.BuyerID != 100 {
		t.Fatalf("bad order: %+v", o)
	}

	if _, err := r.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestOrderRepo_TransitionIsCompareAndSet(t *testing.T) {
	db := memdb(t)
	r := repos.NewOrderRepo(db)
	ctx := context.Background()

	if err := r.Create(ctx, "o1", 100, "aurora", 500); err != nil {
		t.Fatal(err)
	}

	if err := r.Transition(ctx, "o1", domain.StatusPaid); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	// second attempt loses the race against itself
	if err := r.Transition(ctx, "o1", domain.StatusPaid); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
	// state is unchanged
	o, _ := r.Get(ctx, "o1")
	if o.Status != domain.StatusPaid {
		t.Fatalf("status mutated: %+v", o)
	}

	// rejecting a paid order is also invalid
	if err := r.Transition(ctx, "o1", domain.StatusRejected); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
	if err := r.Transition(ctx, "ghost", domain.StatusPaid); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestOrderRepo_ListForBuyerStableOrder(t *testing.T) {
	db := memdb(t)
	r := repos.NewOrderRepo(db)
	ctx := context.Background()

	// same created_at second; the id tiebreak keeps the order deterministic
	for _, id := range []string{"a", "b", "c"} {
		if err := r.Create(ctx, id, 100, "aurora", 500); err != nil {
			t.Fatal(err)
		}
		if err := r.Transition(ctx, id, domain.StatusPaid); err != nil {
			t.Fatal(err)
		}
	}

	first, err := r.ListForBuyer(ctx, 100, domain.StatusPaid)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 3 {
		t.Fatalf("want 3 orders, got %d", len(first))
	}
	for i := 0; i < 5; i++ {
		again, err := r.ListForBuyer(ctx, 100, domain.StatusPaid)
		if err != nil {
			t.Fatal(err)
		}
		for j := range first {
			if again[j].ID != first[j].ID {
				t.Fatalf("order not stable on call %d: %v vs %v", i, again[j].ID, first[j].ID)
			}
		}
	}

	pending, err := r.ListForBuyer(ctx, 100, domain.StatusPending)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Fatalf("want no pending orders, got %d", len(pending))
	}
}

func TestBuyerRepo_EnsureUpsertsAndRefreshes(t *testing.T) {
	db := memdb(t)
	r := repos.NewBuyerRepo(db)
	ctx := context.Background()

	b, err := r.Ensure(ctx, 200, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if b.TelegramID != 200 || b.Username != "bob" {
		t.Fatalf("bad buyer: %+v", b)
	}

	// username refresh on sight, no duplicate row
	b, err = r.Ensure(ctx, 200, "bobby")
	if err != nil {
		t.Fatal(err)
	}
	if b.Username != "bobby" {
		t.Fatalf("username not refreshed: %+v", b)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM buyers WHERE telegram_id = 200`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1 row, got %d", n)
	}
}

func TestCatalogRepo_MediaSetOrder(t *testing.T) {
	db := memdb(t)
	r := repos.NewCatalogRepo(db)
	ctx := context.Background()

	seed := `
	INSERT INTO item_photos(item_id,position,path) VALUES
	  ('aurora',1,'photos/aurora/02.jpg'),
	  ('aurora',0,'photos/aurora/01.jpg');
	INSERT INTO item_videos(item_id,position,path) VALUES
	  ('aurora',0,'videos/aurora/01.mp4');
	`
	if _, err := db.Exec(seed); err != nil {
		t.Fatal(err)
	}

	set, err := r.MediaSet(ctx, "aurora")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"photos/aurora/01.jpg", "photos/aurora/02.jpg", "videos/aurora/01.mp4"}
	if len(set) != len(want) {
		t.Fatalf("want %d handles, got %d", len(want), len(set))
	}
	for i, h := range set {
		if h.Path != want[i] {
			t.Fatalf("position %d: want %s, got %s", i, want[i], h.Path)
		}
	}
	if set[2].Kind != domain.MediaVideo || set[0].Kind != domain.MediaPhoto {
		t.Fatalf("kinds wrong: %+v", set)
	}
}
