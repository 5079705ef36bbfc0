package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"chatshop/internal/domain"
	"chatshop/internal/repos"
	"chatshop/internal/services"
)

func TestDispatcher_PaidEventNotifiesAndDelivers(t *testing.T) {
	db := memdb(t)
	store := &fakeStore{files: map[string][]byte{
		"photos/aurora/01.jpg": {1},
		"photos/aurora/02.jpg": {2},
		"videos/aurora/01.mp4": {3},
	}}
	tr := &fakeTransport{sentSignal: make(chan struct{}, 1)}
	delivery := services.NewDelivery(store, tr, services.DeliveryConfig{BatchSize: 10, Retries: 1})
	d := services.NewDispatcher(repos.NewCatalogRepo(db), tr, delivery, 999, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	ok := d.Enqueue(domain.PaidEvent{OrderID: "o1", BuyerID: 100, ItemID: "aurora", Amount: 500})
	if !ok {
		t.Fatal("enqueue rejected")
	}

	select {
	case <-tr.sentSignal:
	case <-time.After(3 * time.Second):
		t.Fatal("delivery never happened")
	}

	texts := tr.sentTexts()
	if len(texts) < 2 {
		t.Fatalf("want operator + buyer texts, got %+v", texts)
	}
	op := texts[0]
	if op.ChatID != 999 {
		t.Fatalf("operator message went to %d", op.ChatID)
	}
	for _, needle := range []string{"o1", "100", "Aurora", "500.00"} {
		if !strings.Contains(op.Text, needle) {
			t.Fatalf("operator message missing %q: %s", needle, op.Text)
		}
	}
	if texts[1].ChatID != 100 {
		t.Fatalf("buyer confirmation went to %d", texts[1].ChatID)
	}

	groups := tr.sentGroups()
	if len(groups) != 1 || len(groups[0]) != 3 {
		t.Fatalf("want one group of 3, got %+v", groups)
	}
	// photos first, then the video, in catalog order
	for i, want := range []byte{1, 2, 3} {
		if groups[0][i].Data[0] != want {
			t.Fatalf("media out of order at %d", i)
		}
	}
	if groups[0][2].Kind != domain.MediaVideo {
		t.Fatal("video kind lost in transit")
	}
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	db := memdb(t)
	tr := &fakeTransport{}
	delivery := services.NewDelivery(&fakeStore{files: map[string][]byte{}}, tr, services.DeliveryConfig{BatchSize: 10, Retries: 1})
	d := services.NewDispatcher(repos.NewCatalogRepo(db), tr, delivery, 999, 2)

	// no worker running; the queue fills and further events are dropped,
	// not blocked on
	done := make(chan struct{})
	go func() {
		defer close(done)
		accepted := 0
		for i := 0; i < 10; i++ {
			if d.Enqueue(domain.PaidEvent{OrderID: "x", BuyerID: 1, ItemID: "aurora"}) {
				accepted++
			}
		}
		if accepted != 2 {
			t.Errorf("want 2 accepted with queue size 2, got %d", accepted)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked")
	}
}
