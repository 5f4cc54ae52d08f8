package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Progress event status values accepted by the engine. Any other status
// records the item as not completed.
const (
	StatusMastered  = "MASTERED"
	StatusCompleted = "COMPLETED"
)

// XPPerLevel is the level step: level = xp/XPPerLevel + 1.
const XPPerLevel = 100

var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
)
