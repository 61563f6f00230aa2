// Package gateway defines the two backend operations the calculator consumes
// and provides HTTP client implementations for both.
package gateway

import (
	"context"
	"io"
)

// FileRef points at a stored upload: the display name the user chose and the
// URL the backend assigned.
type FileRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// UploadRequest carries one candidate file plus the field it was selected
// for, so responses can be applied by field name.
type UploadRequest struct {
	FieldName string
	FileName  string
	Size      int64
	Content   io.Reader
}

// UploadResult is the upload operation's response envelope. A false OK
// carries a user-facing Message.
type UploadResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	URL     string `json:"url,omitempty"`
	Name    string `json:"name,omitempty"`
}

// UploadGateway stores a file and returns a URL-addressable reference.
type UploadGateway interface {
	Upload(ctx context.Context, req UploadRequest) (UploadResult, error)
}

// SubmitRequest is the final cart-add payload: the configured product, a
// quantity, and the full accumulated value mapping as line-item metadata.
type SubmitRequest struct {
	ProductID int64          `json:"productId"`
	Quantity  int            `json:"quantity"`
	Values    map[string]any `json:"values"`
}

// SubmitResult is the cart operation's response envelope.
type SubmitResult struct {
	OK            bool   `json:"ok"`
	Message       string `json:"message,omitempty"`
	CartURL       string `json:"cartUrl,omitempty"`
	CartItemCount int    `json:"cartItemCount,omitempty"`
}

// CartGateway converts accumulated field values into a purchasable line
// item.
type CartGateway interface {
	Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error)
}
