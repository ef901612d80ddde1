package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	Scenarios(ctx context.Context) error
	NewScenario(ctx context.Context) error
	Start(ctx context.Context, args []string) error
	Resume(ctx context.Context, args []string) error
	Say(ctx context.Context, args []string) error
	End(ctx context.Context) error

	Word(ctx context.Context, args []string) error
	Words(ctx context.Context) error
	Langs(ctx context.Context, args []string) error

	Quiz(ctx context.Context, args []string) error
	Questions(ctx context.Context) error
	Answer(ctx context.Context, args []string) error
	Submit(ctx context.Context) error
	History(ctx context.Context) error

	Records(ctx context.Context) error
	Filter(ctx context.Context, args []string) error
	Page(ctx context.Context, args []string) error
	PageSize(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = `Available commands:
  whoami, logout
  word <text>, words, langs [<source> <target>]
  scenarios, newscenario, start <scenario>, resume <session>, say <text>, end
  quiz <easy|medium|hard>, questions, answer <n> <option>, submit, history
  records, filter [word|dialogue|quiz], page <n>, pagesize <n>, stats
  help, exit`
)

// usage lists the commands that need arguments.
var usage = map[string]struct {
	min  int
	text string
}{
	"word":     {1, "Usage: word <text>"},
	"start":    {1, "Usage: start <scenario id>"},
	"resume":   {1, "Usage: resume <session id>"},
	"say":      {1, "Usage: say <text>"},
	"quiz":     {1, "Usage: quiz <easy|medium|hard>"},
	"answer":   {2, "Usage: answer <question number> <option letter or text>"},
	"page":     {1, "Usage: page <n>"},
	"pagesize": {1, "Usage: pagesize <n>"},
}

// runREPL reads commands from reader and dispatches them to a until EOF,
// ctx cancellation or "exit". On the login route only register, login, help
// and exit are accepted.
//
// Errors returned by handlers are ignored here; handlers report their own
// failures and the transport raises a notice for every remote one.
//
// The reader is shared with the interactive prompts of the handlers, so the
// loop takes one line at a time and never reads ahead.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("lk (%s) > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "exit", "quit", "register", "login":
		default:
			if !a.isLoggedIn() {
				printlnFn("Please login first (type 'login' or 'register')")
				continue
			}
		}

		if u, ok := usage[cmd]; ok && len(args) < u.min {
			printlnFn(u.text)
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)

		case "scenarios":
			_ = a.Scenarios(ctx)
		case "newscenario":
			_ = a.NewScenario(ctx)
		case "start":
			_ = a.Start(ctx, args)
		case "resume":
			_ = a.Resume(ctx, args)
		case "say":
			_ = a.Say(ctx, args)
		case "end":
			_ = a.End(ctx)

		case "word":
			_ = a.Word(ctx, args)
		case "words":
			_ = a.Words(ctx)
		case "langs":
			_ = a.Langs(ctx, args)

		case "quiz":
			_ = a.Quiz(ctx, args)
		case "questions":
			_ = a.Questions(ctx)
		case "answer":
			_ = a.Answer(ctx, args)
		case "submit":
			_ = a.Submit(ctx)
		case "history":
			_ = a.History(ctx)

		case "records":
			_ = a.Records(ctx)
		case "filter":
			_ = a.Filter(ctx, args)
		case "page":
			_ = a.Page(ctx, args)
		case "pagesize":
			_ = a.PageSize(ctx, args)
		case "stats":
			_ = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
