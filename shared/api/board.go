package api

import (
	"encoding/json"
	"fmt"

	"github.com/itchan-dev/bbs/shared/domain"
)

// Request DTOs

type BoardRequest struct {
	Title   domain.BoardTitle   `json:"title" validate:"notblank,max=45"`
	Content domain.BoardContent `json:"content" validate:"notblank"`
}

// Response DTOs

// BoardListResponse is the paged list payload.
type BoardListResponse struct {
	Items      []domain.BoardItem `json:"items"`
	Page       int                `json:"page"`
	Size       int                `json:"size"`
	TotalCount int                `json:"totalCount"`
	TotalPages int                `json:"totalPages"`
}

// legacyBoardList is the {list, totalCount} shape of older servers.
type legacyBoardList struct {
	List       []domain.BoardItem `json:"list"`
	TotalCount *int               `json:"totalCount"`
}

// DecodeBoardList reads any of the list payload shapes:
// {items,page,size,totalCount,totalPages}, {list,totalCount} or a bare array.
// page and size are the requested values, used when the server omits them.
func DecodeBoardList(data json.RawMessage, page, size int) (domain.Page, error) {
	result := domain.Page{CurrentPage: page, PageSize: size}
	if len(data) == 0 || string(data) == "null" {
		result.Items = []domain.BoardItem{}
		return result, nil
	}

	if data[0] == '[' {
		if err := json.Unmarshal(data, &result.Items); err != nil {
			return result, fmt.Errorf("cannot decode board list: %w", err)
		}
		return result, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return result, fmt.Errorf("cannot decode board list: %w", err)
	}

	if _, ok := probe["items"]; ok {
		var resp BoardListResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return result, fmt.Errorf("cannot decode board list: %w", err)
		}
		result.Items = resp.Items
		if resp.Page > 0 {
			result.CurrentPage = resp.Page
		}
		if resp.Size > 0 {
			result.PageSize = resp.Size
		}
		result.TotalCount = resp.TotalCount
		result.TotalPages = resp.TotalPages
		if _, ok := probe["totalPages"]; !ok {
			result.TotalPages = domain.TotalPagesFor(resp.TotalCount, result.PageSize)
		}
		result.TotalsKnown = true
	} else if _, ok := probe["list"]; ok {
		var legacy legacyBoardList
		if err := json.Unmarshal(data, &legacy); err != nil {
			return result, fmt.Errorf("cannot decode board list: %w", err)
		}
		result.Items = legacy.List
		if legacy.TotalCount != nil {
			result.TotalCount = *legacy.TotalCount
			result.TotalPages = domain.TotalPagesFor(result.TotalCount, result.PageSize)
			result.TotalsKnown = true
		}
	} else {
		return result, fmt.Errorf("cannot decode board list: unknown payload shape")
	}

	if result.Items == nil {
		result.Items = []domain.BoardItem{}
	}
	return result, nil
}

// CreatedBoardIdx reads the POST /api/board payload: a created item or its id.
func CreatedBoardIdx(data json.RawMessage) (domain.BoardIdx, bool) {
	var idx domain.BoardIdx
	if err := json.Unmarshal(data, &idx); err == nil {
		return idx, true
	}
	var item domain.BoardItem
	if err := json.Unmarshal(data, &item); err == nil && item.Idx != 0 {
		return item.Idx, true
	}
	return 0, false
}
