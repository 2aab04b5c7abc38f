package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EncodeToken creates an opaque keyset cursor from a date and a tie-breaking key.
// Listings ordered by (date, key) resume strictly after the pair.
func EncodeToken(date time.Time, key string) string {
	tokenStr := fmt.Sprintf("%s|%s", date.Format(timeFormat), key)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a cursor produced by EncodeToken.
func DecodeToken(token string) (time.Time, string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	return date, parts[1], nil
}

// EncodeSeqToken creates a cursor for listings ordered by (date, insertion sequence).
func EncodeSeqToken(date time.Time, seq int64) string {
	return EncodeToken(date, strconv.FormatInt(seq, 10))
}

// DecodeSeqToken parses a cursor produced by EncodeSeqToken.
func DecodeSeqToken(token string) (time.Time, int64, error) {
	date, key, err := DecodeToken(token)
	if err != nil {
		return time.Time{}, 0, err
	}
	seq, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (sequence parse): %w", err)
	}
	return date, seq, nil
}
