package board

import (
	"context"

	"github.com/itchan-dev/bbs/client/internal/session"
	"github.com/itchan-dev/bbs/shared/api"
	"github.com/itchan-dev/bbs/shared/domain"
	internal_errors "github.com/itchan-dev/bbs/shared/errors"
	"github.com/itchan-dev/bbs/shared/logger"
	"github.com/itchan-dev/bbs/shared/validation"
)

const (
	MsgLoginToWrite      = "log in to write a post"
	MsgNotOwnerEdit      = "you can only edit your own posts"
	MsgNotOwnerDelete    = "you can only delete your own posts"
	MsgSaveUnavailable   = "error while saving post"
	MsgDeleteUnavailable = "error while deleting post"
	MsgCreated           = "post created"
	MsgUpdated           = "post updated"
	MsgDeleted           = "post deleted"
	MsgDeletePrompt      = "Delete this post?"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "write"
}

type FormAPI interface {
	CreateBoard(ctx context.Context, req api.BoardRequest) (domain.BoardIdx, error)
	UpdateBoard(ctx context.Context, idx domain.BoardIdx, req api.BoardRequest) error
	DeleteBoard(ctx context.Context, idx domain.BoardIdx) error
}

// Session is the part of the session store the form needs.
type Session interface {
	UserID() domain.UserId
	ExpireSession(ctx context.Context)
}

// Lister is the list the form refreshes after a successful write.
type Lister interface {
	Fetch(ctx context.Context, p int) error
	Refresh(ctx context.Context) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Form is the write/edit state machine. In ModeEdit target is the post being
// edited; every mode change resets fields and messages.
// Not safe for concurrent use.
type Form struct {
	api     FormAPI
	session Session
	list    Lister
	confirm Confirmer

	mode    Mode
	target  *domain.BoardItem
	title   string
	content string
	err     string
	msg     string
	loading bool
}

func NewForm(formAPI FormAPI, sess Session, list Lister, confirm Confirmer) *Form {
	return &Form{api: formAPI, session: sess, list: list, confirm: confirm}
}

func (f *Form) Mode() Mode                { return f.mode }
func (f *Form) Target() *domain.BoardItem { return f.target }
func (f *Form) Title() string             { return f.title }
func (f *Form) Content() string           { return f.content }
func (f *Form) Err() string               { return f.err }
func (f *Form) Msg() string               { return f.msg }
func (f *Form) Loading() bool             { return f.loading }

func (f *Form) SetFields(title, content string) {
	f.title = title
	f.content = content
}

func (f *Form) reset() {
	f.mode = ModeCreate
	f.target = nil
	f.title, f.content = "", ""
	f.err, f.msg = "", ""
}

func (f *Form) owns(item domain.BoardItem) bool {
	uid := f.session.UserID()
	return uid != "" && uid == item.OwnerId
}

// StartEdit enters edit mode for item, prefilling the fields. Only the author
// may do so; otherwise the error is set and nothing else changes.
func (f *Form) StartEdit(item domain.BoardItem) error {
	if !f.owns(item) {
		f.err = MsgNotOwnerEdit
		return &internal_errors.ValidationError{Field: "owner", Message: MsgNotOwnerEdit}
	}
	f.reset()
	f.mode = ModeEdit
	f.target = &item
	f.title = item.Title
	f.content = item.Content
	return nil
}

// CancelEdit goes back to write mode with an empty form.
func (f *Form) CancelEdit() {
	f.reset()
}

// Submit creates or updates a post. Local checks (session, non-blank fields,
// title length) never reach the server. On failure the fields are kept.
func (f *Form) Submit(ctx context.Context) error {
	if f.loading {
		return internal_errors.ErrBusy
	}
	f.err, f.msg = "", ""

	if f.session.UserID() == "" {
		f.err = MsgLoginToWrite
		return &internal_errors.ValidationError{Field: "session", Message: MsgLoginToWrite}
	}
	req := api.BoardRequest{Title: f.title, Content: f.content}
	if err := validation.Struct(req); err != nil {
		f.err = internal_errors.UserMessage(err, MsgSaveUnavailable)
		return err
	}

	f.loading = true
	defer func() { f.loading = false }()

	if f.mode == ModeEdit && f.target != nil {
		if err := f.api.UpdateBoard(ctx, f.target.Idx, req); err != nil {
			return f.fail(ctx, err, MsgSaveUnavailable)
		}
		logger.Log.Info("post updated", "idx", f.target.Idx)
		_ = f.list.Refresh(ctx) // list keeps its own error
		f.reset()
		f.msg = MsgUpdated
		return nil
	}

	idx, err := f.api.CreateBoard(ctx, req)
	if err != nil {
		return f.fail(ctx, err, MsgSaveUnavailable)
	}
	logger.Log.Info("post created", "idx", idx)
	f.reset()
	_ = f.list.Fetch(ctx, 1)
	f.msg = MsgCreated
	return nil
}

// Delete removes item after the user confirms. Returns false when the user
// declined.
func (f *Form) Delete(ctx context.Context, item domain.BoardItem) (bool, error) {
	if f.loading {
		return false, internal_errors.ErrBusy
	}
	f.err, f.msg = "", ""

	if !f.owns(item) {
		f.err = MsgNotOwnerDelete
		return false, &internal_errors.ValidationError{Field: "owner", Message: MsgNotOwnerDelete}
	}
	if !f.confirm.Confirm(MsgDeletePrompt) {
		return false, nil
	}

	f.loading = true
	defer func() { f.loading = false }()

	if err := f.api.DeleteBoard(ctx, item.Idx); err != nil {
		return false, f.fail(ctx, err, MsgDeleteUnavailable)
	}
	logger.Log.Info("post deleted", "idx", item.Idx)

	if f.mode == ModeEdit && f.target != nil && f.target.Idx == item.Idx {
		f.reset()
	}
	_ = f.list.Refresh(ctx)
	f.msg = MsgDeleted
	return true, nil
}

// fail records err on the form. A server saying we are not logged in wins
// over the local session: it is cleared and both the form and the login area
// show the expiry message.
func (f *Form) fail(ctx context.Context, err error, unavailable string) error {
	if internal_errors.Is[*internal_errors.AuthExpiredError](err) {
		f.session.ExpireSession(ctx)
		f.err = session.MsgSessionExpired
		logger.Log.Warn("session rejected by server", "error", err)
		return err
	}
	f.err = internal_errors.UserMessage(err, unavailable)
	if internal_errors.Is[*internal_errors.ApplicationError](err) {
		logger.Log.Warn("board write rejected", "error", err)
	} else {
		logger.Log.Error("board write failed", "error", err)
	}
	return err
}
