package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

type command func(ctx context.Context, args []string) error

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error

	Categories(ctx context.Context, args []string) error
	OpenCategory(ctx context.Context, args []string) error
	ShowIcons(ctx context.Context, args []string) error
	Speak(ctx context.Context, args []string) error
	AddIcon(ctx context.Context, args []string) error
	DeleteIcon(ctx context.Context, args []string) error

	ShowSettings(ctx context.Context, args []string) error
	Set(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error

	ShowProfile(ctx context.Context, args []string) error
	EditProfile(ctx context.Context, args []string) error
	Photo(ctx context.Context, args []string) error

	ListUsers(ctx context.Context, args []string) error
	AddUser(ctx context.Context, args []string) error
	ToggleUser(ctx context.Context, args []string) error
	DeleteUser(ctx context.Context, args []string) error
}

const (
	helpAnon  = "Comandos: register, login, exit"
	helpUser  = "Comandos: cats, cat <categoria>, icons, say <id>, addicon, delicon <id>, settings, set <chave> <valor>, stats, report, profile, editprofile, photo <arquivo>|remove, status, logout, exit"
	helpAdmin = "Administração: users, adduser, toggleuser <id>, deluser <id>"
)

// loggedInCommands maps every command that needs a session to its handler.
func loggedInCommands(a execIface) map[string]command {
	return map[string]command{
		"cats":        a.Categories,
		"cat":         a.OpenCategory,
		"icons":       a.ShowIcons,
		"say":         a.Speak,
		"addicon":     a.AddIcon,
		"delicon":     a.DeleteIcon,
		"settings":    a.ShowSettings,
		"set":         a.Set,
		"stats":       a.Stats,
		"report":      a.Export,
		"profile":     a.ShowProfile,
		"editprofile": a.EditProfile,
		"photo":       a.Photo,
		"users":       a.ListUsers,
		"adduser":     a.AddUser,
		"toggleuser":  a.ToggleUser,
		"deluser":     a.DeleteUser,
		"status":      a.Status,
		"logout":      a.Logout,
	}
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The first token is the command, the rest are its arguments. The loop exits
// on EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	session := loggedInCommands(a)

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("conecta %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if !a.isLoggedIn() {
				printlnFn(helpAnon)
				continue
			}
			printlnFn(helpUser)
			if a.isAdmin() {
				printlnFn(helpAdmin)
			}

		case "register":
			_ = a.Register(ctx, args)

		case "login":
			_ = a.Login(ctx, args)

		case "exit", "quit":
			printlnFn("Até logo!")
			return

		default:
			fn, ok := session[cmd]
			switch {
			case !ok:
				printlnFn("Comando desconhecido:", cmd)
			case !a.isLoggedIn():
				printlnFn("Faça login primeiro (login).")
			default:
				_ = fn(ctx, args)
			}
		}
	}
}
