package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	position := pagePosition{
		CreatedAt: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		ID:        "story-42",
	}

	token := encodeCursor(position)
	require.NotEmpty(t, token)

	decoded, err := decodeCursor(token)
	require.NoError(t, err)

	assert.True(t, position.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, position.ID, decoded.ID)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := decodeCursor("not base64!!!")
	require.ErrorIs(t, err, ErrBadCursor)

	_, err = decodeCursor("e30") // "{}" — no id
	require.ErrorIs(t, err, ErrBadCursor)
}
