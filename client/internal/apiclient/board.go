package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/itchan-dev/bbs/shared/api"
	"github.com/itchan-dev/bbs/shared/domain"
	internal_errors "github.com/itchan-dev/bbs/shared/errors"
)

// === Board Methods ===

func (c *APIClient) ListBoard(ctx context.Context, page, size int) (domain.Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	env, err := c.Call(ctx, http.MethodGet, "/api/board?"+query.Encode(), nil)
	if err != nil {
		return domain.Page{}, err
	}
	if err := env.Err(c.classifier, MsgListFailed); err != nil {
		return domain.Page{}, err
	}
	result, err := api.DecodeBoardList(env.Data, page, size)
	if err != nil {
		return domain.Page{}, &internal_errors.ParseError{Raw: string(env.Data), Err: err}
	}
	return result, nil
}

func (c *APIClient) GetBoard(ctx context.Context, idx domain.BoardIdx) (domain.BoardItem, error) {
	var item domain.BoardItem
	env, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/api/board/%d", idx), nil)
	if err != nil {
		return item, err
	}
	if err := env.Err(c.classifier, MsgGetFailed); err != nil {
		return item, err
	}
	if err := decodeData(env, &item); err != nil {
		return item, err
	}
	return item, nil
}

// CreateBoard returns the new idx when the server reports it, 0 otherwise.
func (c *APIClient) CreateBoard(ctx context.Context, req api.BoardRequest) (domain.BoardIdx, error) {
	env, err := c.Call(ctx, http.MethodPost, "/api/board", req)
	if err != nil {
		return 0, err
	}
	if err := env.Err(c.classifier, MsgCreateFailed); err != nil {
		return 0, err
	}
	idx, _ := api.CreatedBoardIdx(env.Data)
	return idx, nil
}

func (c *APIClient) UpdateBoard(ctx context.Context, idx domain.BoardIdx, req api.BoardRequest) error {
	env, err := c.Call(ctx, http.MethodPut, fmt.Sprintf("/api/board/%d", idx), req)
	if err != nil {
		return err
	}
	return env.Err(c.classifier, MsgUpdateFailed)
}

func (c *APIClient) DeleteBoard(ctx context.Context, idx domain.BoardIdx) error {
	env, err := c.Call(ctx, http.MethodDelete, fmt.Sprintf("/api/board/%d", idx), nil)
	if err != nil {
		return err
	}
	return env.Err(c.classifier, MsgDeleteFailed)
}
