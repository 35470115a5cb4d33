package board

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/bbs/shared/domain"
	internal_errors "github.com/itchan-dev/bbs/shared/errors"
)

type listCall struct {
	page, size int
}

type MockListAPI struct {
	MockListBoard func(ctx context.Context, page, size int) (domain.Page, error)
	MockGetBoard  func(ctx context.Context, idx domain.BoardIdx) (domain.BoardItem, error)

	listCalls []listCall
}

func (m *MockListAPI) ListBoard(ctx context.Context, page, size int) (domain.Page, error) {
	m.listCalls = append(m.listCalls, listCall{page, size})
	if m.MockListBoard != nil {
		return m.MockListBoard(ctx, page, size)
	}
	return domain.Page{Items: []domain.BoardItem{}, CurrentPage: page, PageSize: size}, nil
}

func (m *MockListAPI) GetBoard(ctx context.Context, idx domain.BoardIdx) (domain.BoardItem, error) {
	if m.MockGetBoard != nil {
		return m.MockGetBoard(ctx, idx)
	}
	return domain.BoardItem{Idx: idx}, nil
}

func makeItems(from, n int) []domain.BoardItem {
	items := make([]domain.BoardItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.BoardItem{Idx: domain.BoardIdx(from - i), Title: "post", OwnerId: "alice"})
	}
	return items
}

// serverWith answers like a server holding total posts.
func serverWith(total int) func(ctx context.Context, page, size int) (domain.Page, error) {
	return func(ctx context.Context, page, size int) (domain.Page, error) {
		start := (page - 1) * size
		n := max(0, min(size, total-start))
		return domain.Page{
			Items:       makeItems(total-start, n),
			CurrentPage: page,
			PageSize:    size,
			TotalCount:  total,
			TotalPages:  domain.TotalPagesFor(total, size),
			TotalsKnown: true,
		}, nil
	}
}

// bareServer answers with bare arrays, so totals are unknown.
func bareServer(total int) func(ctx context.Context, page, size int) (domain.Page, error) {
	return func(ctx context.Context, page, size int) (domain.Page, error) {
		p, _ := serverWith(total)(ctx, page, size)
		return domain.Page{Items: p.Items, CurrentPage: page, PageSize: size}, nil
	}
}

func TestNewList(t *testing.T) {
	l := NewList(&MockListAPI{}, 0)

	assert.Equal(t, 1, l.CurrentPage())
	assert.Equal(t, DefaultPageSize, l.Size())
	assert.NotNil(t, l.Items())
	assert.Empty(t, l.Items())
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockAPI := &MockListAPI{MockListBoard: serverWith(23)}
		l := NewList(mockAPI, 10)

		require.NoError(t, l.Fetch(ctx, 3))

		assert.Equal(t, []listCall{{3, 10}}, mockAPI.listCalls)
		assert.Equal(t, 3, l.CurrentPage())
		assert.Len(t, l.Items(), 3)
		assert.Equal(t, 23, l.TotalCount())
		assert.Equal(t, 3, l.TotalPages())
		assert.True(t, l.TotalsKnown())
		assert.Empty(t, l.Err())
		assert.False(t, l.Loading())
	})

	t.Run("page below one is fetched as one", func(t *testing.T) {
		mockAPI := &MockListAPI{MockListBoard: serverWith(5)}
		l := NewList(mockAPI, 10)

		require.NoError(t, l.Fetch(ctx, 0))

		assert.Equal(t, []listCall{{1, 10}}, mockAPI.listCalls)
		assert.Equal(t, 1, l.CurrentPage())
	})

	t.Run("requested page wins over echoed page", func(t *testing.T) {
		l := NewList(&MockListAPI{
			MockListBoard: func(ctx context.Context, page, size int) (domain.Page, error) {
				return domain.Page{Items: makeItems(10, 2), CurrentPage: 1, PageSize: size, TotalCount: 12, TotalPages: 2, TotalsKnown: true}, nil
			},
		}, 10)

		require.NoError(t, l.Fetch(ctx, 2))

		assert.Equal(t, 2, l.CurrentPage())
	})

	t.Run("oversized page is truncated", func(t *testing.T) {
		l := NewList(&MockListAPI{
			MockListBoard: func(ctx context.Context, page, size int) (domain.Page, error) {
				return domain.Page{Items: makeItems(50, 15)}, nil
			},
		}, 10)

		require.NoError(t, l.Fetch(ctx, 1))

		assert.Len(t, l.Items(), 10)
	})

	t.Run("failure clears items and keeps totals", func(t *testing.T) {
		mockAPI := &MockListAPI{MockListBoard: serverWith(23)}
		l := NewList(mockAPI, 10)
		require.NoError(t, l.Fetch(ctx, 1))

		mockAPI.MockListBoard = func(ctx context.Context, page, size int) (domain.Page, error) {
			return domain.Page{}, &internal_errors.TransportError{Op: "GET /api/board", Err: errors.New("refused")}
		}
		err := l.Fetch(ctx, 2)

		require.Error(t, err)
		assert.Empty(t, l.Items())
		assert.NotNil(t, l.Items())
		assert.Equal(t, MsgListUnavailable, l.Err())
		assert.Equal(t, 23, l.TotalCount())
		assert.False(t, l.Loading())
	})

	t.Run("server message is shown", func(t *testing.T) {
		l := NewList(&MockListAPI{
			MockListBoard: func(ctx context.Context, page, size int) (domain.Page, error) {
				return domain.Page{}, &internal_errors.ApplicationError{Status: 500, Message: "database down"}
			},
		}, 10)

		require.Error(t, l.Fetch(ctx, 1))
		assert.Equal(t, "database down", l.Err())
	})

	t.Run("success clears previous error", func(t *testing.T) {
		fail := true
		l := NewList(&MockListAPI{
			MockListBoard: func(ctx context.Context, page, size int) (domain.Page, error) {
				if fail {
					return domain.Page{}, errors.New("boom")
				}
				return serverWith(3)(ctx, page, size)
			},
		}, 10)
		require.Error(t, l.Fetch(ctx, 1))

		fail = false
		require.NoError(t, l.Fetch(ctx, 1))
		assert.Empty(t, l.Err())
	})

	t.Run("emptied last page steps back once", func(t *testing.T) {
		mockAPI := &MockListAPI{MockListBoard: serverWith(40)}
		l := NewList(mockAPI, 10)

		require.NoError(t, l.Fetch(ctx, 5))

		assert.Equal(t, []listCall{{5, 10}, {4, 10}}, mockAPI.listCalls)
		assert.Equal(t, 4, l.CurrentPage())
		assert.Len(t, l.Items(), 10)
	})

	t.Run("empty board stays on page one", func(t *testing.T) {
		mockAPI := &MockListAPI{MockListBoard: serverWith(0)}
		l := NewList(mockAPI, 10)

		require.NoError(t, l.Fetch(ctx, 1))

		assert.Len(t, mockAPI.listCalls, 1)
		assert.Empty(t, l.Items())
		assert.Empty(t, l.PageNumbers())
	})

	t.Run("busy while loading", func(t *testing.T) {
		var l *List
		var inner error
		l = NewList(&MockListAPI{
			MockListBoard: func(ctx context.Context, page, size int) (domain.Page, error) {
				assert.True(t, l.Loading())
				inner = l.Fetch(ctx, 2)
				return serverWith(20)(ctx, page, size)
			},
		}, 10)

		require.NoError(t, l.Fetch(ctx, 1))

		assert.ErrorIs(t, inner, internal_errors.ErrBusy)
		assert.Equal(t, 1, l.CurrentPage())
	})
}

func TestHasNext(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown totals and a full page", func(t *testing.T) {
		l := NewList(&MockListAPI{MockListBoard: bareServer(25)}, 10)
		require.NoError(t, l.Fetch(ctx, 1))

		assert.False(t, l.TotalsKnown())
		assert.True(t, l.HasNext())
	})

	t.Run("unknown totals and a short page", func(t *testing.T) {
		l := NewList(&MockListAPI{MockListBoard: bareServer(3)}, 10)
		require.NoError(t, l.Fetch(ctx, 1))

		assert.False(t, l.HasNext())
	})

	t.Run("unknown totals and an exactly full last page", func(t *testing.T) {
		l := NewList(&MockListAPI{MockListBoard: bareServer(10)}, 10)
		require.NoError(t, l.Fetch(ctx, 1))

		// a full page is indistinguishable from more pages
		assert.True(t, l.HasNext())
	})

	t.Run("known totals", func(t *testing.T) {
		l := NewList(&MockListAPI{MockListBoard: serverWith(20)}, 10)
		require.NoError(t, l.Fetch(ctx, 1))
		assert.True(t, l.HasNext())

		require.NoError(t, l.Fetch(ctx, 2))
		assert.False(t, l.HasNext(), "full last page with totals known")
	})
}

func TestGoToPage(t *testing.T) {
	ctx := context.Background()

	t.Run("in range", func(t *testing.T) {
		mockAPI := &MockListAPI{MockListBoard: serverWith(45)}
		l := NewList(mockAPI, 10)
		require.NoError(t, l.Fetch(ctx, 1))

		moved, err := l.GoToPage(ctx, 5)

		require.NoError(t, err)
		assert.True(t, moved)
		assert.Equal(t, 5, l.CurrentPage())
	})

	t.Run("out of range is a no-op", func(t *testing.T) {
		mockAPI := &MockListAPI{MockListBoard: serverWith(45)}
		l := NewList(mockAPI, 10)
		require.NoError(t, l.Fetch(ctx, 2))
		before := l.Snapshot()

		for _, p := range []int{0, -1, 6, 100} {
			moved, err := l.GoToPage(ctx, p)
			require.NoError(t, err)
			assert.False(t, moved, "page %d", p)
		}

		assert.Len(t, mockAPI.listCalls, 1)
		assert.Equal(t, before, l.Snapshot())
	})

	t.Run("unknown totals allow one page ahead", func(t *testing.T) {
		mockAPI := &MockListAPI{MockListBoard: bareServer(25)}
		l := NewList(mockAPI, 10)
		require.NoError(t, l.Fetch(ctx, 1))

		assert.True(t, l.CanGoTo(2))
		assert.False(t, l.CanGoTo(3))

		moved, err := l.GoToPage(ctx, 2)
		require.NoError(t, err)
		assert.True(t, moved)
		moved, err = l.GoToPage(ctx, 3)
		require.NoError(t, err)
		assert.True(t, moved)
		assert.False(t, l.HasNext())
		assert.False(t, l.CanGoTo(4))
		assert.True(t, l.CanGoTo(1))
	})
}

func TestChangeSize(t *testing.T) {
	ctx := context.Background()

	t.Run("goes back to page one", func(t *testing.T) {
		mockAPI := &MockListAPI{MockListBoard: serverWith(45)}
		l := NewList(mockAPI, 10)
		require.NoError(t, l.Fetch(ctx, 3))

		require.NoError(t, l.ChangeSize(ctx, 20))

		assert.Equal(t, listCall{1, 20}, mockAPI.listCalls[len(mockAPI.listCalls)-1])
		assert.Equal(t, 1, l.CurrentPage())
		assert.Equal(t, 20, l.Size())
		assert.Equal(t, 3, l.TotalPages())
	})

	t.Run("invalid size", func(t *testing.T) {
		mockAPI := &MockListAPI{}
		l := NewList(mockAPI, 10)

		err := l.ChangeSize(ctx, 0)

		assert.True(t, internal_errors.Is[*internal_errors.ValidationError](err))
		assert.Empty(t, mockAPI.listCalls)
		assert.Equal(t, 10, l.Size())
	})

	t.Run("server size is adopted", func(t *testing.T) {
		l := NewList(&MockListAPI{
			MockListBoard: func(ctx context.Context, page, size int) (domain.Page, error) {
				return domain.Page{Items: makeItems(100, 5), PageSize: 5, TotalCount: 100, TotalPages: 20, TotalsKnown: true}, nil
			},
		}, 10)

		require.NoError(t, l.ChangeSize(ctx, 500))

		assert.Equal(t, 5, l.Size())
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	mockAPI := &MockListAPI{MockListBoard: serverWith(45)}
	l := NewList(mockAPI, 10)
	require.NoError(t, l.Fetch(ctx, 4))

	require.NoError(t, l.Refresh(ctx))

	assert.Equal(t, []listCall{{4, 10}, {4, 10}}, mockAPI.listCalls)
}

func TestBlock(t *testing.T) {
	ctx := context.Background()

	t.Run("known totals", func(t *testing.T) {
		l := NewList(&MockListAPI{MockListBoard: serverWith(450)}, 10)
		require.NoError(t, l.Fetch(ctx, 23))

		assert.Equal(t, Block{21, 30}, l.Block())
		assert.Equal(t, []int{21, 22, 23, 24, 25, 26, 27, 28, 29, 30}, l.PageNumbers())
	})

	t.Run("unknown totals show up to the next page", func(t *testing.T) {
		l := NewList(&MockListAPI{MockListBoard: bareServer(100)}, 10)
		require.NoError(t, l.Fetch(ctx, 1))

		assert.Equal(t, []int{1, 2}, l.PageNumbers())
	})
}

func TestShow(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		l := NewList(&MockListAPI{
			MockGetBoard: func(ctx context.Context, idx domain.BoardIdx) (domain.BoardItem, error) {
				return domain.BoardItem{Idx: idx, Title: "hello", Content: "world", OwnerId: "bob"}, nil
			},
		}, 10)

		require.NoError(t, l.Show(ctx, 7))

		require.NotNil(t, l.Selected())
		assert.Equal(t, "hello", l.Selected().Title)

		l.CloseDetail()
		assert.Nil(t, l.Selected())
	})

	t.Run("failure", func(t *testing.T) {
		l := NewList(&MockListAPI{
			MockGetBoard: func(ctx context.Context, idx domain.BoardIdx) (domain.BoardItem, error) {
				return domain.BoardItem{}, &internal_errors.ApplicationError{Status: 404, Message: "post not found"}
			},
		}, 10)

		require.Error(t, l.Show(ctx, 7))

		assert.Nil(t, l.Selected())
		assert.Equal(t, "post not found", l.Err())
	})
}

func TestItem(t *testing.T) {
	l := NewList(&MockListAPI{MockListBoard: serverWith(5)}, 10)
	require.NoError(t, l.Fetch(context.Background(), 1))

	item, ok := l.Item(3)
	assert.True(t, ok)
	assert.Equal(t, domain.BoardIdx(3), item.Idx)

	_, ok = l.Item(99)
	assert.False(t, ok)
}
