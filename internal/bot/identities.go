package bot

import (
	"fmt"
	"strings"
)

const idPrefix = "bot-"

// ID returns the synthetic connection-less identifier for bot seat i.
func ID(i int) string {
	return fmt.Sprintf("%s%d", idPrefix, i)
}

// Name returns the display name for bot seat i.
func Name(i int) string {
	return fmt.Sprintf("Bot %d", i+1)
}

// IsBot reports whether the given identifier belongs to a bot seat.
func IsBot(id string) bool {
	return strings.HasPrefix(id, idPrefix)
}
