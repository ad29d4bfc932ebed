package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the width below which author and poster columns
	// are dropped.
	LayoutCompactWidth = 100

	// chromeLines is the number of lines taken by the header, command bar
	// and status line.
	chromeLines = 3
)

// Timing constants.
const (
	// RequestTimeout bounds a single UI-triggered backend call chain.
	RequestTimeout = 20 * time.Second

	// StatusTTL is how long an informational status message is shown.
	StatusTTL = 6 * time.Second
)
