package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// commands defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type commands interface {
	isLoggedIn() bool
	username() string
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	VerifyFace(ctx context.Context) error
	AddNote(ctx context.Context) error
	DeleteNote(ctx context.Context, id string) error
	PinNote(ctx context.Context, id string) error
	ArchiveNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context, filter string) error
	DeleteAccount(ctx context.Context) error
	Logout(ctx context.Context) error
}

func (a *App) getStatus() string {
	if u := a.username(); u != "" {
		return fmt.Sprintf("(%s)", u)
	}
	return ""
}

// Root starts the interactive loop on stdin/stdout.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Facenote (type 'help' for commands)")
	runREPL(ctx, a, bufio.NewScanner(os.Stdin), a.getStatus, a.out)
}

// runREPL reads a line, parses the first token as the command, and
// dispatches to methods on c. Unknown commands are reported back to the
// user. The loop exits on scanner EOF or when the user types "exit" or
// "quit".
//
// Errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the loop focused on I/O.
func runREPL(ctx context.Context, c commands, scanner *bufio.Scanner, statusFn func() string, w io.Writer) {
	for {
		fmt.Fprintf(w, "facenote %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if c.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: add, delete <id>, pin <id>, archive <id>, list [all|pinned|archived], whoami, deleteaccount, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, verifyface, exit")
			}

		case "register":
			_ = c.Register(ctx)

		case "login":
			_ = c.Login(ctx)

		case "verifyface":
			_ = c.VerifyFace(ctx)

		case "add":
			_ = c.AddNote(ctx)

		case "delete":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: delete <id>")
				continue
			}
			_ = c.DeleteNote(ctx, args[0])

		case "pin":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: pin <id>")
				continue
			}
			_ = c.PinNote(ctx, args[0])

		case "archive":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: archive <id>")
				continue
			}
			_ = c.ArchiveNote(ctx, args[0])

		case "l", "list":
			filter := ""
			if len(args) > 0 {
				filter = args[0]
			}
			_ = c.ListNotes(ctx, filter)

		case "whoami":
			if u := c.username(); u != "" {
				fmt.Fprintln(w, u)
			} else {
				fmt.Fprintln(w, "not logged in")
			}

		case "deleteaccount":
			_ = c.DeleteAccount(ctx)

		case "logout":
			_ = c.Logout(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
