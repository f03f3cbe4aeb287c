package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ==================== STORAGE KEYS ====================

// GenerateMenuKey builds a unique object key for an uploaded menu image.
// Uploads are PNG-only, so the extension is fixed regardless of the client
// filename.
// Format: menus/YYYY/MM/DD/<unix-millis>-<uuid>.png
func GenerateMenuKey(now time.Time) string {
	return fmt.Sprintf("menus/%04d/%02d/%02d/%d-%s.png",
		now.Year(), now.Month(), now.Day(), now.UnixMilli(), uuid.New())
}
