package service

import (
	"net/http"
	"strings"

	"github.com/itchan-dev/bbs/shared/api"
	"github.com/itchan-dev/bbs/shared/domain"
	"github.com/itchan-dev/bbs/shared/errors"
	"github.com/itchan-dev/bbs/shared/validation"
	"github.com/microcosm-cc/bluemonday"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

var errNotAuthor = &errors.ErrorWithStatusCode{Message: "only the author can modify this post", StatusCode: http.StatusForbidden}

// to mock service in tests
type BoardService interface {
	List(page, size int) (api.BoardListResponse, error)
	Get(idx domain.BoardIdx) (domain.BoardItem, error)
	Create(owner domain.UserId, req api.BoardRequest) (domain.BoardItem, error)
	Update(owner domain.UserId, idx domain.BoardIdx, req api.BoardRequest) (domain.BoardItem, error)
	Delete(owner domain.UserId, idx domain.BoardIdx) error
}

type Board struct {
	storage     BoardStorage
	sanitizer   *bluemonday.Policy
	maxPageSize int
}

type BoardStorage interface {
	CreatePost(item domain.BoardItem) (domain.BoardItem, error)
	Post(idx domain.BoardIdx) (domain.BoardItem, error)
	UpdatePost(idx domain.BoardIdx, title domain.BoardTitle, content domain.BoardContent) (domain.BoardItem, error)
	DeletePost(idx domain.BoardIdx) error
	Posts(page, size int) ([]domain.BoardItem, int, error)
}

func NewBoard(storage BoardStorage, maxPageSize int) *Board {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &Board{storage: storage, sanitizer: bluemonday.StrictPolicy(), maxPageSize: maxPageSize}
}

// List clamps page to >= 1 and size to [1, maxPageSize].
func (b *Board) List(page, size int) (api.BoardListResponse, error) {
	page = max(DefaultPage, page)
	if size <= 0 {
		size = DefaultPageSize
	}
	size = min(size, b.maxPageSize)

	items, total, err := b.storage.Posts(page, size)
	if err != nil {
		return api.BoardListResponse{}, err
	}
	return api.BoardListResponse{
		Items:      items,
		Page:       page,
		Size:       size,
		TotalCount: total,
		TotalPages: domain.TotalPagesFor(total, size),
	}, nil
}

func (b *Board) Get(idx domain.BoardIdx) (domain.BoardItem, error) {
	return b.storage.Post(idx)
}

func (b *Board) Create(owner domain.UserId, req api.BoardRequest) (domain.BoardItem, error) {
	req, err := b.clean(req)
	if err != nil {
		return domain.BoardItem{}, err
	}
	return b.storage.CreatePost(domain.BoardItem{Title: req.Title, Content: req.Content, OwnerId: owner})
}

func (b *Board) Update(owner domain.UserId, idx domain.BoardIdx, req api.BoardRequest) (domain.BoardItem, error) {
	req, err := b.clean(req)
	if err != nil {
		return domain.BoardItem{}, err
	}
	if err := b.checkAuthor(owner, idx); err != nil {
		return domain.BoardItem{}, err
	}
	return b.storage.UpdatePost(idx, req.Title, req.Content)
}

func (b *Board) Delete(owner domain.UserId, idx domain.BoardIdx) error {
	if err := b.checkAuthor(owner, idx); err != nil {
		return err
	}
	return b.storage.DeletePost(idx)
}

func (b *Board) checkAuthor(owner domain.UserId, idx domain.BoardIdx) error {
	item, err := b.storage.Post(idx)
	if err != nil {
		return err
	}
	if item.OwnerId != owner {
		return errNotAuthor
	}
	return nil
}

// clean strips markup and re-validates, since sanitizing can empty a field.
func (b *Board) clean(req api.BoardRequest) (api.BoardRequest, error) {
	req.Title = strings.TrimSpace(b.sanitizer.Sanitize(req.Title))
	req.Content = strings.TrimSpace(b.sanitizer.Sanitize(req.Content))
	if err := validation.Struct(req); err != nil {
		return req, err
	}
	return req, nil
}
