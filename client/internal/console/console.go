// Package console is a line-oriented driver for the board controllers.
// It reads one command per line and prints the resulting state.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/itchan-dev/bbs/client/internal/board"
	"github.com/itchan-dev/bbs/client/internal/session"
	"github.com/itchan-dev/bbs/shared/api"
	"github.com/itchan-dev/bbs/shared/domain"
	internal_errors "github.com/itchan-dev/bbs/shared/errors"
)

const helpText = `commands:
  login <id> <password>            register <id> <password> <email>
  logout                           whoami
  list                             page <n> | next | prev | size <n>
  show <idx>                       close
  title <text>                     content <text>
  submit                           edit <idx> | cancel
  delete <idx>                     help | quit
`

type Console struct {
	in  *bufio.Scanner
	out io.Writer

	session *session.Store
	list    *board.List
	form    *board.Form
}

// New wires the form with the console itself as the confirmation prompt.
func New(in io.Reader, out io.Writer, store *session.Store, list *board.List, formAPI board.FormAPI) *Console {
	c := &Console{
		in:      bufio.NewScanner(in),
		out:     out,
		session: store,
		list:    list,
	}
	c.form = board.NewForm(formAPI, store, list, c)
	return c
}

func (c *Console) Form() *board.Form { return c.form }

// Confirm implements board.Confirmer. Anything but y/yes declines.
func (c *Console) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	if !c.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(c.in.Text()))
	return answer == "y" || answer == "yes"
}

// Run restores the session, loads page 1 and serves commands until quit,
// end of input or ctx cancellation.
func (c *Console) Run(ctx context.Context) error {
	c.session.Restore(ctx)
	_ = c.list.Fetch(ctx, 1)
	c.printSession()
	c.printList()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, "> ")
		if !c.in.Scan() {
			return c.in.Err()
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		if quit := c.Exec(ctx, line); quit {
			return nil
		}
	}
}

// Exec runs one command line. Returns true on quit.
func (c *Console) Exec(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprint(c.out, helpText)
	case "login":
		c.login(ctx, args)
	case "logout":
		if err := c.session.Logout(ctx); err != nil {
			fmt.Fprintf(c.out, "warning: %v\n", err)
		}
		c.printSession()
	case "register":
		c.register(ctx, args)
	case "whoami":
		c.printSession()
	case "list":
		_ = c.list.Refresh(ctx)
		c.printList()
	case "page":
		c.goTo(ctx, args)
	case "next":
		c.goToPage(ctx, c.list.CurrentPage()+1)
	case "prev":
		c.goToPage(ctx, c.list.CurrentPage()-1)
	case "size":
		n, ok := c.intArg(args)
		if !ok {
			return false
		}
		if err := c.list.ChangeSize(ctx, n); err != nil && c.list.Err() == "" {
			fmt.Fprintf(c.out, "error: %s\n", internal_errors.UserMessage(err, board.MsgListUnavailable))
		}
		c.printList()
	case "show":
		c.show(ctx, args)
	case "close":
		c.list.CloseDetail()
	case "title":
		c.form.SetFields(rest, c.form.Content())
	case "content":
		c.form.SetFields(c.form.Title(), rest)
	case "submit":
		_ = c.form.Submit(ctx)
		c.printForm()
		c.printList()
	case "edit":
		if item, ok := c.itemArg(args); ok {
			_ = c.form.StartEdit(item)
			c.printForm()
		}
	case "cancel":
		c.form.CancelEdit()
		c.printForm()
	case "delete":
		if item, ok := c.itemArg(args); ok {
			_, _ = c.form.Delete(ctx, item)
			c.printForm()
			c.printList()
		}
	default:
		fmt.Fprintf(c.out, "unknown command %q, type help\n", cmd)
	}
	return false
}

func (c *Console) login(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.out, "usage: login <id> <password>")
		return
	}
	creds := &domain.Credentials{Id: args[0], Password: args[1]}
	_, _ = c.session.Login(ctx, creds)
	c.printSession()
}

func (c *Console) register(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(c.out, "usage: register <id> <password> <email>")
		return
	}
	msg, err := c.session.Register(ctx, api.RegisterRequest{Id: args[0], Password: args[1], Email: args[2]})
	if err != nil {
		fmt.Fprintf(c.out, "error: %s\n", internal_errors.UserMessage(err, session.MsgRegisterUnavailable))
		return
	}
	fmt.Fprintln(c.out, msg)
	c.printSession()
}

func (c *Console) goTo(ctx context.Context, args []string) {
	if p, ok := c.intArg(args); ok {
		c.goToPage(ctx, p)
	}
}

func (c *Console) goToPage(ctx context.Context, p int) {
	moved, _ := c.list.GoToPage(ctx, p)
	if !moved {
		fmt.Fprintf(c.out, "no page %d\n", p)
		return
	}
	c.printList()
}

func (c *Console) show(ctx context.Context, args []string) {
	idx, ok := c.intArg(args)
	if !ok {
		return
	}
	if err := c.list.Show(ctx, domain.BoardIdx(idx)); err != nil {
		fmt.Fprintf(c.out, "error: %s\n", c.list.Err())
		return
	}
	item := c.list.Selected()
	fmt.Fprintf(c.out, "#%d %s (by %s)\n%s\n", item.Idx, item.Title, item.OwnerId, item.Content)
}

func (c *Console) intArg(args []string) (int, bool) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "a number is required")
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "invalid number %q\n", args[0])
		return 0, false
	}
	return n, true
}

// itemArg resolves an idx on the current page.
func (c *Console) itemArg(args []string) (domain.BoardItem, bool) {
	idx, ok := c.intArg(args)
	if !ok {
		return domain.BoardItem{}, false
	}
	item, found := c.list.Item(domain.BoardIdx(idx))
	if !found {
		fmt.Fprintf(c.out, "post #%d is not on this page\n", idx)
		return domain.BoardItem{}, false
	}
	return item, true
}

func (c *Console) printSession() {
	if c.session.LoggedIn() {
		fmt.Fprintf(c.out, "logged in as %s\n", c.session.UserID())
	} else {
		fmt.Fprintln(c.out, "not logged in")
	}
	if msg := c.session.LoginMsg(); msg != "" {
		fmt.Fprintln(c.out, msg)
	}
	if e := c.session.LoginErr(); e != "" {
		fmt.Fprintf(c.out, "login error: %s\n", e)
	}
}

func (c *Console) printForm() {
	fmt.Fprintf(c.out, "[%s]", c.form.Mode())
	if t := c.form.Target(); t != nil {
		fmt.Fprintf(c.out, " #%d", t.Idx)
	}
	fmt.Fprintf(c.out, " title=%q content=%q\n", c.form.Title(), c.form.Content())
	if e := c.form.Err(); e != "" {
		fmt.Fprintf(c.out, "error: %s\n", e)
	}
	if m := c.form.Msg(); m != "" {
		fmt.Fprintln(c.out, m)
	}
	if c.session.LoginErr() == session.MsgSessionExpired {
		c.printSession()
	}
}

func (c *Console) printList() {
	if e := c.list.Err(); e != "" {
		fmt.Fprintf(c.out, "error: %s\n", e)
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IDX\tTITLE\tAUTHOR")
	for _, it := range c.list.Items() {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", it.Idx, it.Title, it.OwnerId)
	}
	_ = tw.Flush()

	if c.list.TotalsKnown() {
		fmt.Fprintf(c.out, "page %d/%d, %d posts:", c.list.CurrentPage(), c.list.TotalPages(), c.list.TotalCount())
	} else {
		fmt.Fprintf(c.out, "page %d:", c.list.CurrentPage())
	}
	block := c.list.Block()
	if prev := block.PrevBlockPage(); prev > 0 {
		fmt.Fprintf(c.out, " «%d", prev)
	}
	for _, p := range block.Pages() {
		if p == c.list.CurrentPage() {
			fmt.Fprintf(c.out, " [%d]", p)
		} else {
			fmt.Fprintf(c.out, " %d", p)
		}
	}
	if next := block.NextBlockPage(c.list.TotalPages()); next > 0 && c.list.TotalsKnown() {
		fmt.Fprintf(c.out, " %d»", next)
	}
	fmt.Fprintln(c.out)
}
