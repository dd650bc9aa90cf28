// Package delivery sends finished response batches to the remote chat
// messaging API. The dispatch engine only decides what to send; this is
// the boundary that knows how.
package delivery

import "context"

// Rich is one structured outbound payload. All fields are optional; the
// remote service decides how to render what is present.
type Rich struct {
	Title     string `json:"title,omitempty"`
	TitleLink string `json:"title_link,omitempty"`
	Text      string `json:"text,omitempty"`
	Author    string `json:"author_name,omitempty"`
	Color     string `json:"color,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	ThumbURL  string `json:"thumb_url,omitempty"`
	Fallback  string `json:"fallback,omitempty"`
}

// Delivery is one outbound batch addressed to the user and room that
// triggered it. Text and Rich are mutually exclusive in practice but the
// transport does not enforce that.
type Delivery struct {
	TeamID string
	UserID string
	RoomID string
	Text   []string
	Rich   []Rich
	Reply  bool
}

// Deliverer hands one batch to the remote service and reports the outcome.
type Deliverer interface {
	Deliver(ctx context.Context, d Delivery) error
}
