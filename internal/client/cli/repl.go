package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context) error
	Filter(ctx context.Context, value string) error
	Stats(ctx context.Context) error
	New(ctx context.Context) error
	Edit(ctx context.Context, ref string) error
	Set(ctx context.Context, field, value string) error
	Show(ctx context.Context) error
	Submit(ctx context.Context) error
	Cancel(ctx context.Context) error
	Delete(ctx context.Context, ref string) error
}

const (
	helpLoggedOut = "Available commands: login, help, exit"
	helpLoggedIn  = "Available commands: (l)ist, filter <all|saved|applied|interviewing|rejected|offer>, stats, " +
		"new, edit <id>, set <field> <value>, show, submit, cancel, delete <id>, whoami, logout, exit\n" +
		"Fields: company, title, status, date_applied, url, notes"
)

// runREPL reads one command per line and dispatches it to a until EOF,
// exit/quit or ctx is cancelled. Command errors are printed and the loop
// continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			printlnFn("Interrupted")
			return
		}
		printlnFn(fmt.Sprintf("jobctl %s> ", statusFn()))
		if !scanner.Scan() || ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "login":
			report(a.Login(ctx))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !knownCommand(cmd) {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		switch cmd {
		case "logout":
			report(a.Logout(ctx))
		case "whoami":
			report(a.Whoami(ctx))
		case "l", "list":
			report(a.List(ctx))
		case "filter":
			report(a.Filter(ctx, rest))
		case "stats":
			report(a.Stats(ctx))
		case "new":
			report(a.New(ctx))
		case "edit":
			if rest == "" {
				printlnFn("Usage: edit <id>")
				continue
			}
			report(a.Edit(ctx, rest))
		case "set":
			field, value, _ := strings.Cut(rest, " ")
			if field == "" {
				printlnFn("Usage: set <field> <value>")
				continue
			}
			report(a.Set(ctx, field, strings.TrimSpace(value)))
		case "show":
			report(a.Show(ctx))
		case "submit":
			report(a.Submit(ctx))
		case "cancel":
			report(a.Cancel(ctx))
		case "delete":
			if rest == "" {
				printlnFn("Usage: delete <id>")
				continue
			}
			report(a.Delete(ctx, rest))
		}
	}
}

func knownCommand(cmd string) bool {
	switch cmd {
	case "logout", "whoami", "l", "list", "filter", "stats", "new", "edit",
		"set", "show", "submit", "cancel", "delete":
		return true
	}
	return false
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", err)
	}
}
