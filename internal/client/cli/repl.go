package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	sessionExpired() bool
	status() string
	help() string
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Dispatch(ctx context.Context, name string, args []string) error
}

// runREPL reads one command per line from in and dispatches it until the
// user types exit/quit or input ends.
//
// login, logout, help and exit are handled here; everything else needs a
// session and goes through Dispatch. Before every prompt the REPL checks
// whether the server ended the session and, if so, asks for a new login.
//
// Errors returned by commands are ignored here; the commands print their
// own notices so the loop keeps running.
func runREPL(ctx context.Context, a execIface, in *bufio.Reader) {
	for {
		if a.sessionExpired() {
			printlnFn("Your session has expired, please log in again.")
			_ = a.Login(ctx)
		}

		printlnFn(fmt.Sprintf("lib %s> ", a.status()))
		line, readErr := in.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			printlnFn(a.help())

		case "login":
			if a.isLoggedIn() {
				printlnFn("Already logged in, type 'logout' first.")
			} else {
				_ = a.Login(ctx)
			}

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if !a.isLoggedIn() {
				printlnFn("Please log in first (type 'login').")
				break
			}
			if err := a.Dispatch(ctx, cmd, args); errors.Is(err, errUnknownCommand) {
				printlnFn("Unknown command:", cmd)
			}
		}

		if readErr != nil {
			return
		}
	}
}
