//go:build !linux && !darwin

package fsutil

import (
	"os"
	"time"
)

// Access times are not portable; fall back to the modification time.
func accessTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
