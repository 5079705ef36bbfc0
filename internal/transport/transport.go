// Package transport defines the abstract chat channel the rest of the system
// talks through. Implementations live elsewhere; callers only see this
// interface and its transient/permanent error split.
package transport

import (
	"context"

	"chatshop/internal/domain"
)

// Button is one inline keyboard entry. Token is the opaque action payload;
// URL buttons link out instead of dispatching.
type Button struct {
	Label string
	Token string
	URL   string
}

// MediaItem is one member of an outbound media group.
type MediaItem struct {
	Kind domain.MediaKind
	Data []byte
}

// MessageRef identifies a previously sent message for in-place edits.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Content is the body of an edit: new caption, optionally new media.
type Content struct {
	Text  string
	Photo []byte
}

// Client is the capability set the core needs from a chat transport.
type Client interface {
	SendText(ctx context.Context, chatID int64, text string, buttons [][]Button) error
	SendMediaGroup(ctx context.Context, chatID int64, items []MediaItem) error
	EditMessage(ctx context.Context, ref MessageRef, content Content, buttons [][]Button) error
	Acknowledge(ctx context.Context, callbackID, text string, modal bool) error
}
