package pagination

import (
	"encoding/base64"
	"errors"
	"strconv"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Encode derives the opaque cursor for a message id: base64 of the decimal
// id. Cursor ordering matches id ordering.
func Encode(id uint) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

// Decode reverses Encode. Decode(Encode(n)) == n for every representable
// non-negative n.
func Decode(cursor string) (uint, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, ErrInvalidCursor
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, ErrInvalidCursor
	}
	return uint(id), nil
}
