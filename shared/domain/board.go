package domain

import "encoding/json"

// BoardItem is one post. Identity is Idx.
type BoardItem struct {
	Idx       BoardIdx     `json:"idx"`
	Title     BoardTitle   `json:"title"`
	Content   BoardContent `json:"content"`
	OwnerId   UserId       `json:"fk_user_id"`
	CreatedAt Timestamp    `json:"created_at"`
	UpdatedAt Timestamp    `json:"updated_at"`
}

// UnmarshalJSON also accepts "owner_id" for the owner field.
func (b *BoardItem) UnmarshalJSON(data []byte) error {
	type plain BoardItem
	var aux struct {
		plain
		OwnerIdAlt UserId `json:"owner_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*b = BoardItem(aux.plain)
	if b.OwnerId == "" {
		b.OwnerId = aux.OwnerIdAlt
	}
	return nil
}

// Page is one window of the board list.
// TotalsKnown is false when the server answered with a bare array.
type Page struct {
	Items       []BoardItem
	CurrentPage int
	PageSize    int
	TotalCount  int
	TotalPages  int
	TotalsKnown bool
}

// TotalPagesFor returns ceil(count/size).
func TotalPagesFor(count, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	pages := count / size
	if count%size != 0 {
		pages++
	}
	return pages
}
