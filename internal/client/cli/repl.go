package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	Search(ctx context.Context, text string) error
	Filter(ctx context.Context, field, value string) error
	Sort(ctx context.Context, key string) error
	ClearFilters(ctx context.Context) error
	Show(ctx context.Context, id string) error
	New(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Back(ctx context.Context) error
}

const (
	helpGuest = "Available commands: register, login, help, exit"
	helpUser  = "Available commands: (l)ist, next, prev, search <text>, filter status|priority|assignee <value|any>, " +
		"sort <key>, clear, show <id>, new, edit <id>, delete <id>, back, whoami, logout, help, exit"
)

// runREPL starts a simple read-eval-print loop for the tracker CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Issue commands need a session; without one the user is told to log in.
// Errors returned by command handlers are ignored here; handlers print
// their own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printFn(fmt.Sprintf("tracker %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]
		rest := strings.TrimSpace(strings.TrimPrefix(line, cmd))

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}
			continue

		case "register":
			_ = a.Register(ctx)
			continue

		case "login":
			_ = a.Login(ctx)
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !isIssueCommand(cmd) {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if !a.isLoggedIn() {
			printlnFn("You are not logged in. Use 'login' or 'register'.")
			continue
		}

		switch cmd {
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "l", "list":
			_ = a.List(ctx)
		case "next":
			_ = a.NextPage(ctx)
		case "prev":
			_ = a.PrevPage(ctx)
		case "search":
			_ = a.Search(ctx, rest)
		case "filter":
			if len(args) < 2 {
				printlnFn("Usage: filter status|priority|assignee <value|any>")
				continue
			}
			_ = a.Filter(ctx, args[0], strings.Join(args[1:], " "))
		case "sort":
			if len(args) != 1 {
				printlnFn("Usage: sort <key>")
				continue
			}
			_ = a.Sort(ctx, args[0])
		case "clear":
			_ = a.ClearFilters(ctx)
		case "show":
			if len(args) != 1 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])
		case "new":
			_ = a.New(ctx)
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
		case "back":
			_ = a.Back(ctx)
		}
	}
}

func isIssueCommand(cmd string) bool {
	switch cmd {
	case "logout", "whoami", "l", "list", "next", "prev", "search", "filter",
		"sort", "clear", "show", "new", "edit", "delete", "back":
		return true
	}
	return false
}
