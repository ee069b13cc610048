package catalog

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrBadCursor indicates a pagination cursor that this service did not
// produce.
var ErrBadCursor = errors.New("malformed pagination cursor")

// pagePosition identifies the last document of a page within the
// (createdAt desc, _id desc) sort order.
type pagePosition struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
}

// encodeCursor renders a page position as an opaque token. Callers must
// treat the token as a black box; its layout may change between releases.
func encodeCursor(position pagePosition) string {
	raw, err := json.Marshal(position)
	if err != nil {
		// pagePosition contains only marshalable fields.
		panic(err)
	}

	return base64.RawURLEncoding.EncodeToString(raw)
}

// decodeCursor parses a token produced by encodeCursor.
func decodeCursor(token string) (pagePosition, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return pagePosition{}, fmt.Errorf("%w: %w", ErrBadCursor, err)
	}

	var position pagePosition

	err = json.Unmarshal(raw, &position)
	if err != nil {
		return pagePosition{}, fmt.Errorf("%w: %w", ErrBadCursor, err)
	}

	if position.ID == "" {
		return pagePosition{}, ErrBadCursor
	}

	return position, nil
}
