package domain

type (
	UserId   = string
	Email    = string
	Password = string

	BoardIdx     = int64
	BoardTitle   = string
	BoardContent = string
)

// Column limits of the board schema. Mirrored on the client to fail fast.
const (
	UserIdMaxLen     = 20
	EmailMaxLen      = 45
	BoardTitleMaxLen = 45
)
