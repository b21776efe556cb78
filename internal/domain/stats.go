package domain

import "time"

// ScanStats summarises one material scan
type ScanStats struct {
	Materials    int // material prims found
	UsedPaths    int // distinct targets referenced by non-material prims
	Unused       int
	Deletable    int
	Ancestral    int
	SkippedPrims int // prims whose edges could not be read
	Duration     time.Duration
}
