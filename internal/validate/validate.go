package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// ID validates a simple resource identifier (item/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// TelegramID parses a positive chat/user identifier.
func TelegramID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil && n > 0
}
