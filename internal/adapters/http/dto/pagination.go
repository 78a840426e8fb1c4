package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// DefaultLimit and MaxLimit bound page sizes.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var (
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor signals a first-page request; it is not a failure.
	ErrNoCursor = errors.New("no cursor provided")
)

// PaginationRequest holds cursor paging query parameters.
type PaginationRequest struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit applies fallback and MaxLimit to Limit.
func (p *PaginationRequest) GetLimit(fallback int) int {
	switch {
	case p.Limit <= 0 && fallback > 0:
		return min(fallback, MaxLimit)
	case p.Limit <= 0:
		return DefaultLimit
	default:
		return min(p.Limit, MaxLimit)
	}
}

// PaginatedResponse is one page of items.
type PaginatedResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
	Total      int    `json:"total"`
}

// CursorData locates the end of the previous page. ID is the last item
// returned; Offset is the fallback position when that item has since moved
// out of the result set.
type CursorData struct {
	ID     string `json:"id"`
	Offset int    `json:"o"`
}

// EncodeCursor encodes data as URL-safe base64 JSON.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor reverses EncodeCursor.
func DecodeCursor(encoded string) (*CursorData, error) {
	if encoded == "" {
		return nil, ErrNoCursor
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData
	if err := json.Unmarshal(raw, &data); err != nil || data.Offset < 0 {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}

// Paginate slices items into one page starting after the cursor in req.
// Items are matched to the cursor by idOf.
func Paginate[T any](items []T, req *PaginationRequest, fallbackLimit int, idOf func(T) string) (*PaginatedResponse[T], error) {
	start := 0

	cur, err := DecodeCursor(req.Cursor)
	switch {
	case errors.Is(err, ErrNoCursor):
	case err != nil:
		return nil, err
	default:
		start = min(cur.Offset, len(items))

		for i, item := range items {
			if idOf(item) == cur.ID {
				start = i + 1
				break
			}
		}
	}

	limit := req.GetLimit(fallbackLimit)
	end := min(start+limit, len(items))

	page := &PaginatedResponse[T]{
		Items:   append(make([]T, 0, end-start), items[start:end]...),
		HasMore: end < len(items),
		Total:   len(items),
	}

	if page.HasMore && end > start {
		page.NextCursor = EncodeCursor(&CursorData{ID: idOf(items[end-1]), Offset: end})
	}

	return page, nil
}
