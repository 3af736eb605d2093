package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/cargodesk/internal/client/draft"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	New(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Set(ctx context.Context, args []string) error
	Unset(ctx context.Context, args []string) error
	Select(ctx context.Context, c draft.KeyedCollection, args []string) error
	Entry(ctx context.Context, c draft.PositionalCollection, args []string) error
	Step(ctx context.Context, cmd string, args []string) error
	Show(ctx context.Context) error
	Submit(ctx context.Context) error
	Retry(ctx context.Context) error
	Discard(ctx context.Context) error
	Catalogs(ctx context.Context) error
	Search(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: login [username], help, exit"
	helpLoggedIn  = `Available commands:
  new | edit [id] | discard | show | submit | retry
  set <firm|brutto|netto|coming|declnum|decldate|declfile|payment> <value>
  unset <firm|brutto|netto|declnum|decldate|declfile|payment>
  keeping <id> <days> | working <id> <qty> | mode <id> [off]
  transport add <type-id> <number> | transport rm <n>
  product add <product-id> <storage-id> <qty> | product rm <n>
  photo add <path> | photo rm <n>
  next | back | goto <step|n>
  catalogs | search <firms|products> [query]
  whoami | logout | exit`
)

// runREPL starts a read–eval–print loop for the cargodesk CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches the remaining tokens to a. Errors returned by handlers are
// printed and the loop continues. The loop exits on EOF or when the user
// types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("cd %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn("Error:", err)
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			cmdErr = a.Login(ctx, args)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "new":
			cmdErr = a.New(ctx)

		case "edit":
			cmdErr = a.Edit(ctx, args)

		case "set":
			cmdErr = a.Set(ctx, args)

		case "unset":
			cmdErr = a.Unset(ctx, args)

		case "keeping":
			cmdErr = a.Select(ctx, draft.Keeping, args)

		case "working":
			cmdErr = a.Select(ctx, draft.Working, args)

		case "mode":
			cmdErr = a.Select(ctx, draft.Modes, args)

		case "transport":
			cmdErr = a.Entry(ctx, draft.Transports, args)

		case "product":
			cmdErr = a.Entry(ctx, draft.Products, args)

		case "photo":
			cmdErr = a.Entry(ctx, draft.Photos, args)

		case "next", "back", "goto":
			cmdErr = a.Step(ctx, cmd, args)

		case "show":
			cmdErr = a.Show(ctx)

		case "submit":
			cmdErr = a.Submit(ctx)

		case "retry":
			cmdErr = a.Retry(ctx)

		case "discard":
			cmdErr = a.Discard(ctx)

		case "catalogs":
			cmdErr = a.Catalogs(ctx)

		case "search":
			cmdErr = a.Search(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
