// Package ui provides the Bubble Tea TUI for pokedeck.
package ui

import (
	"time"

	"github.com/abelbrown/pokedeck/internal/catalog"
	"github.com/abelbrown/pokedeck/internal/notify"
	"github.com/abelbrown/pokedeck/internal/sprite"
)

// Op names a pager operation carried by PagerUpdated.
type Op string

const (
	OpStart    Op = "start"
	OpNext     Op = "next"
	OpPrevious Op = "previous"
	OpGoto     Op = "goto"
	OpReload   Op = "reload"
	OpSelect   Op = "select"
)

// PagerUpdated is sent when a pager operation finishes. The App reads the
// pager's state afresh rather than trusting any snapshot in flight, since
// completions may arrive out of order.
type PagerUpdated struct {
	Op  Op
	Err error
}

// SelectItem asks the App to load the detail for Item. The first-load hook
// sends it so the list renders before the first detail arrives.
type SelectItem struct {
	Item catalog.SummaryItem
}

// SpritesLoaded carries resolved sprites for the requested IDs. Results
// may be short or zero-valued when the request was cancelled.
type SpritesLoaded struct {
	IDs     []int
	Results []sprite.Result
	Err     error
}

// NoticeReceived wraps a notice from the bus.
type NoticeReceived struct {
	Notice notify.Notice
}

// frameMsg drives the animation.
type frameMsg struct {
	at time.Time
}
