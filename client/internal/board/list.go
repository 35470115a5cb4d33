package board

import (
	"context"

	"github.com/itchan-dev/bbs/shared/domain"
	internal_errors "github.com/itchan-dev/bbs/shared/errors"
	"github.com/itchan-dev/bbs/shared/logger"
)

const (
	DefaultPageSize = 10

	MsgListUnavailable = "error while loading posts"
	MsgShowUnavailable = "error while loading post"
	MsgInvalidPageSize = "page size must be a positive number"
)

type ListAPI interface {
	ListBoard(ctx context.Context, page, size int) (domain.Page, error)
	GetBoard(ctx context.Context, idx domain.BoardIdx) (domain.BoardItem, error)
}

// List owns the current page of posts. Every state change that needs new
// data fetches it explicitly. Not safe for concurrent use.
type List struct {
	api ListAPI

	page        int
	size        int
	items       []domain.BoardItem
	totalCount  int
	totalPages  int
	totalsKnown bool

	selected *domain.BoardItem
	err      string
	loading  bool
}

func NewList(listAPI ListAPI, size int) *List {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &List{api: listAPI, page: 1, size: size, items: []domain.BoardItem{}}
}

func (l *List) CurrentPage() int            { return l.page }
func (l *List) Size() int                   { return l.size }
func (l *List) Items() []domain.BoardItem   { return l.items }
func (l *List) TotalCount() int             { return l.totalCount }
func (l *List) TotalPages() int             { return l.totalPages }
func (l *List) TotalsKnown() bool           { return l.totalsKnown }
func (l *List) Err() string                 { return l.err }
func (l *List) Loading() bool               { return l.loading }
func (l *List) Selected() *domain.BoardItem { return l.selected }
func (l *List) Snapshot() domain.Page       { return l.snapshot() }

// Item returns the post with idx from the current page.
func (l *List) Item(idx domain.BoardIdx) (domain.BoardItem, bool) {
	return l.item(idx)
}

func (l *List) item(idx domain.BoardIdx) (domain.BoardItem, bool) {
	for _, it := range l.items {
		if it.Idx == idx {
			return it, true
		}
	}
	return domain.BoardItem{}, false
}

func (l *List) snapshot() domain.Page {
	return domain.Page{
		Items:       l.items,
		CurrentPage: l.page,
		PageSize:    l.size,
		TotalCount:  l.totalCount,
		TotalPages:  l.totalPages,
		TotalsKnown: l.totalsKnown,
	}
}

// HasNext uses the server totals when known. Otherwise a full page is taken
// to mean there is another one, which is wrong when the last page is exactly
// full.
func (l *List) HasNext() bool {
	if l.totalsKnown {
		return l.page < l.totalPages
	}
	return l.size > 0 && len(l.items) == l.size
}

// Fetch loads page p at the current size. On failure items are cleared and
// the error message is set.
func (l *List) Fetch(ctx context.Context, p int) error {
	if l.loading {
		return internal_errors.ErrBusy
	}
	l.loading = true
	defer func() { l.loading = false }()

	return l.fetch(ctx, p, true)
}

func (l *List) fetch(ctx context.Context, p int, clamp bool) error {
	if p < 1 {
		p = 1
	}
	result, err := l.api.ListBoard(ctx, p, l.size)
	if err != nil {
		l.items = []domain.BoardItem{}
		l.err = internal_errors.UserMessage(err, MsgListUnavailable)
		logger.Log.Warn("board list fetch failed", "page", p, "size", l.size, "error", err)
		return err
	}

	l.apply(result, p)

	// the page emptied under us, e.g. its last post was deleted
	if clamp && l.totalsKnown && len(l.items) == 0 && l.page > max(l.totalPages, 1) {
		return l.fetch(ctx, max(l.totalPages, 1), false)
	}
	return nil
}

func (l *List) apply(result domain.Page, requested int) {
	l.err = ""
	// the requested page wins over an echoed one
	l.page = requested
	if result.PageSize > 0 {
		l.size = result.PageSize
	}
	l.items = result.Items
	if l.items == nil {
		l.items = []domain.BoardItem{}
	}
	if len(l.items) > l.size {
		l.items = l.items[:l.size]
	}
	l.totalsKnown = result.TotalsKnown
	if result.TotalsKnown {
		l.totalCount = result.TotalCount
		l.totalPages = result.TotalPages
	} else {
		l.totalCount, l.totalPages = 0, 0
	}
}

// CanGoTo reports whether GoToPage(p) would fetch.
func (l *List) CanGoTo(p int) bool {
	if p < 1 {
		return false
	}
	if l.totalsKnown {
		return p <= max(l.totalPages, 1)
	}
	upper := l.page
	if l.HasNext() {
		upper++
	}
	return p <= upper
}

// GoToPage fetches p unless it is out of range, in which case it does
// nothing and returns false.
func (l *List) GoToPage(ctx context.Context, p int) (bool, error) {
	if !l.CanGoTo(p) {
		return false, nil
	}
	return true, l.Fetch(ctx, p)
}

// ChangeSize switches the page size and goes back to page 1.
func (l *List) ChangeSize(ctx context.Context, size int) error {
	if size <= 0 {
		return &internal_errors.ValidationError{Field: "size", Message: MsgInvalidPageSize}
	}
	if l.loading {
		return internal_errors.ErrBusy
	}
	l.size = size
	l.page = 1
	return l.Fetch(ctx, 1)
}

// Refresh refetches the current page.
func (l *List) Refresh(ctx context.Context) error {
	return l.Fetch(ctx, l.page)
}

// PageNumbers is the block of page links around the current page.
func (l *List) PageNumbers() []int {
	return l.Block().Pages()
}

func (l *List) Block() Block {
	last := l.totalPages
	if !l.totalsKnown {
		last = l.page
		if l.HasNext() {
			last++
		}
	}
	return PageBlock(l.page, last, BlockSize)
}

// Show loads one post for the detail view.
func (l *List) Show(ctx context.Context, idx domain.BoardIdx) error {
	if l.loading {
		return internal_errors.ErrBusy
	}
	l.loading = true
	defer func() { l.loading = false }()

	item, err := l.api.GetBoard(ctx, idx)
	if err != nil {
		l.err = internal_errors.UserMessage(err, MsgShowUnavailable)
		logger.Log.Warn("board item fetch failed", "idx", idx, "error", err)
		return err
	}
	l.err = ""
	l.selected = &item
	return nil
}

func (l *List) CloseDetail() {
	l.selected = nil
}
