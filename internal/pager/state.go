package pager

import (
	"strconv"

	"github.com/abelbrown/pokedeck/internal/catalog"
)

// PageRef addresses a page either by number or by a continuation token the
// catalog returned earlier.
type PageRef struct {
	number int
	token  string
}

// PageNumber refers to the 1-based page n.
func PageNumber(n int) PageRef { return PageRef{number: n} }

// PageToken refers to the page a Next or Previous token points at.
func PageToken(token string) PageRef { return PageRef{token: token} }

// IsToken reports whether r is a token reference.
func (r PageRef) IsToken() bool { return r.token != "" }

func (r PageRef) String() string {
	if r.IsToken() {
		return r.token
	}
	return "page " + strconv.Itoa(r.number)
}

// Tokens are the continuation tokens of a loaded page. Empty means none.
type Tokens struct {
	Next     string
	Previous string
}

// State is a consistent copy of the pager's state. List fields and detail
// fields are each read under their own lock, so a State never mixes two
// list results or two detail results.
type State struct {
	Items       []catalog.SummaryItem
	CurrentPage int
	PageSize    int
	TotalCount  int
	Tokens      Tokens
	Loading     bool
	ListErr     error

	Selected      *catalog.Detail
	LoadingDetail bool
	DetailErr     error
}

// TotalPages is ceil(TotalCount / PageSize).
func (s State) TotalPages() int {
	if s.PageSize <= 0 || s.TotalCount <= 0 {
		return 0
	}
	return (s.TotalCount + s.PageSize - 1) / s.PageSize
}

// HasNext reports whether a later page exists.
func (s State) HasNext() bool { return s.CurrentPage < s.TotalPages() }

// HasPrevious reports whether an earlier page exists.
func (s State) HasPrevious() bool { return s.CurrentPage > 1 }

// currentPage derives the page number a result sits on. With a next token
// the page is the one just before the token's offset; without one the
// result is the last page.
func currentPage(p catalog.Page, pageSize int) int {
	var offset int
	if p.Next != "" {
		offset = catalog.OffsetFromToken(p.Next) - pageSize
	} else {
		offset = (p.Count - 1) / pageSize * pageSize
	}
	return max(offset/pageSize+1, 1)
}
