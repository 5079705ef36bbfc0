package services

import (
	"context"
	"errors"
	"time"

	"chatshop/internal/domain"
	applog "chatshop/internal/log"
	"chatshop/internal/media"
	"chatshop/internal/transport"
)

// DeliveryConfig carries the transport-facing tuning knobs. BatchSize is the
// transport's protocol ceiling on a single media group.
type DeliveryConfig struct {
	BatchSize   int
	Retries     int
	RetryDelay  time.Duration
	GroupDelay  time.Duration
	SendTimeout time.Duration
}

// Delivery pushes a purchased media set to a buyer: best-effort,
// order-preserving, never transactional.
type Delivery struct {
	Media     media.Store
	Transport transport.Client
	Cfg       DeliveryConfig
}

func NewDelivery(store media.Store, client transport.Client, cfg DeliveryConfig) *Delivery {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 1
	}
	return &Delivery{Media: store, Transport: client, Cfg: cfg}
}

// Deliver resolves the handles, partitions them into transport-sized groups
// and sends the groups strictly in sequence. Absent files are dropped with a
// warning; a group whose send fails is skipped, not fatal. Only when zero
// groups go out does the caller get domain.ErrNothingDelivered back.
func (d *Delivery) Deliver(ctx context.Context, chatID int64, handles []domain.MediaHandle) error {
	items := make([]transport.MediaItem, 0, len(handles))
	for _, h := range handles {
		b, err := d.Media.Resolve(ctx, h)
		if err != nil {
			if errors.Is(err, domain.ErrMediaAbsent) {
				applog.Warn("delivery.media.absent", nil, map[string]any{"path": h.Path})
			} else {
				applog.Warn("delivery.media.read", err, map[string]any{"path": h.Path})
			}
			continue
		}
		items = append(items, transport.MediaItem{Kind: h.Kind, Data: b})
	}

	sent := 0
	for gi, group := range chunk(items, d.Cfg.BatchSize) {
		if gi > 0 {
			if err := wait(ctx, d.Cfg.GroupDelay); err != nil {
				break
			}
		}
		if err := d.sendGroup(ctx, chatID, group); err != nil {
			applog.Warn("delivery.group.skip", err, map[string]any{
				"chat_id": chatID, "group": gi, "size": len(group),
			})
			continue
		}
		sent++
	}

	if sent == 0 {
		return domain.ErrNothingDelivered
	}
	applog.Info("delivery.done", map[string]any{
		"chat_id": chatID, "groups_sent": sent, "items": len(items), "handles": len(handles),
	})
	return nil
}

// sendGroup retries transient failures up to the configured attempt count;
// a permanent failure gives up immediately.
func (d *Delivery) sendGroup(ctx context.Context, chatID int64, group []transport.MediaItem) error {
	var lastErr error
	for attempt := 1; attempt <= d.Cfg.Retries; attempt++ {
		sctx := ctx
		var cancel context.CancelFunc
		if d.Cfg.SendTimeout > 0 {
			sctx, cancel = context.WithTimeout(ctx, d.Cfg.SendTimeout)
		}
		err := d.Transport.SendMediaGroup(sctx, chatID, group)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return nil
		}
		lastErr = err
		if !transport.IsTransient(err) {
			return err
		}
		applog.Warn("delivery.group.retry", err, map[string]any{
			"chat_id": chatID, "attempt": attempt,
		})
		if attempt < d.Cfg.Retries {
			if werr := wait(ctx, d.Cfg.RetryDelay); werr != nil {
				return lastErr
			}
		}
	}
	return lastErr
}

// chunk splits items into consecutive groups of at most n, preserving order.
func chunk(items []transport.MediaItem, n int) [][]transport.MediaItem {
	var out [][]transport.MediaItem
	for len(items) > 0 {
		g := items
		if len(g) > n {
			g = g[:n]
		}
		out = append(out, g)
		items = items[len(g):]
	}
	return out
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
