package constants

import "time"

// Database pool settings
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Slot granularity. Every generated slot and every submitted timespan is
// aligned to this interval.
const SlotLengthMinutes = 15

// Wire formats for slot identifiers and timespans
const (
	DateLayout   = "2006-01-02"
	TimeLayout   = "15:04"
	SlotIDLayout = "2006-01-02T15:04"
)

// MaxOptimalBlocks caps the ranked block list stored on an event.
const MaxOptimalBlocks = 5

// Cache settings
const (
	EventCacheTTL    = 5 * time.Minute
	EventCachePrefix = "event:"
)

// Background worker settings
const (
	TaskOptimizeEvent  = "event:optimize"
	OptimizeQueue      = "optimize"
	OptimizeTaskMaxAge = 10 * time.Minute
)
