package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Create(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, nationalID string) error
	Scan(ctx context.Context, payload string) error
	SaveQR(ctx context.Context, id, file string) error
	Share(ctx context.Context, id string) error
	ListAll(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: register, login, show <id>, scan <payload>, qr <id> <file>, exit"
	helpLoggedIn  = "Available commands: create, (l)ist, show <id>, edit <id>, delete <id>, exists <national_id>, " +
		"scan <payload>, qr <id> <file>, share <id>, all, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the qrregistry CLI.
//
// Each line is split into a command and its arguments and dispatched to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Commands that need an argument print a usage line when it is missing.
// Errors returned by command handlers are ignored here; handlers report
// their own errors to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("qr> %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "create":
			_ = a.Create(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			if len(args) != 1 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "edit":
			if len(args) != 1 {
				printlnFn("Usage: edit <id>")
				continue
			}
			_ = a.Edit(ctx, args[0])

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "exists":
			if len(args) == 0 {
				printlnFn("Usage: exists <national_id>")
				continue
			}
			_ = a.Exists(ctx, strings.Join(args, " "))

		case "scan":
			if len(args) == 0 {
				printlnFn("Usage: scan <payload>")
				continue
			}
			_ = a.Scan(ctx, strings.Join(args, " "))

		case "qr":
			if len(args) != 2 {
				printlnFn("Usage: qr <id> <file>")
				continue
			}
			_ = a.SaveQR(ctx, args[0], args[1])

		case "share":
			if len(args) != 1 {
				printlnFn("Usage: share <id>")
				continue
			}
			_ = a.Share(ctx, args[0])

		case "all":
			_ = a.ListAll(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
