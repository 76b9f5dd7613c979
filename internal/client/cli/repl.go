package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mapsketch/mapsketch/internal/geo"
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
	Tool(name string) error
	Click(lat, lng float64) error
	Finish() error
	Select(lat, lng float64) error
	Move(id string, vertices []geo.LatLng) error
	Shapes() error
	Clear() error
	Save(ctx context.Context, name string) error
	Load(ctx context.Context, name string) error
	List(ctx context.Context) error
	Export(ctx context.Context, name string) error
	AdminList(ctx context.Context) error
	AdminLoad(ctx context.Context, owner, name string) error
}

func parseLatLng(args []string) (float64, float64, bool) {
	if len(args) < 2 {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(args[0], 64)
	lng, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// runREPL starts a simple read-eval-print loop for the mapsketch CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands
//
//	Not logged in:
//	  - help               — show available commands
//	  - register           — create an account
//	  - login              — authenticate
//	  - exit | quit        — leave the program
//
//	Logged in:
//	  - tool <name>        — switch tool (none, marker, line, polygon, delete)
//	  - click <lat> <lng>  — click the map at a coordinate
//	  - finish             — finalize the in-progress shape (Escape)
//	  - select <lat> <lng> — select the shape at a coordinate
//	  - move <id> <lat> <lng> [...] — drag a shape to new vertices
//	  - shapes             — list shapes on the canvas
//	  - clear              — remove all shapes
//	  - save <name>        — save the canvas under a name
//	  - load <name>        — load a named document
//	  - (l)ist             — list saved documents
//	  - export <name>      — snapshot a document and print a download URL
//	  - admin-list         — list every document (admin only)
//	  - admin-load <o> <n> — load another user's document (admin only)
//	  - logout             — log out
//	  - exit | quit        — leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ms> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: tool, click, finish, select, move, shapes, clear, save, load, (l)ist, export, admin-list, admin-load, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "tool":
			if len(args) == 0 {
				printlnFn("Usage: tool <none|marker|line|polygon|delete>")
				continue
			}
			_ = a.Tool(args[0])

		case "click":
			lat, lng, ok := parseLatLng(args)
			if !ok {
				printlnFn("Usage: click <lat> <lng>")
				continue
			}
			_ = a.Click(lat, lng)

		case "finish":
			_ = a.Finish()

		case "select":
			lat, lng, ok := parseLatLng(args)
			if !ok {
				printlnFn("Usage: select <lat> <lng>")
				continue
			}
			_ = a.Select(lat, lng)

		case "move":
			if len(args) < 3 || len(args)%2 == 0 {
				printlnFn("Usage: move <id> <lat> <lng> [<lat> <lng> ...]")
				continue
			}
			vertices := make([]geo.LatLng, 0, (len(args)-1)/2)
			bad := false
			for i := 1; i < len(args); i += 2 {
				lat, lng, ok := parseLatLng(args[i : i+2])
				if !ok {
					bad = true
					break
				}
				vertices = append(vertices, geo.LatLng{Lat: lat, Lng: lng})
			}
			if bad {
				printlnFn("Usage: move <id> <lat> <lng> [<lat> <lng> ...]")
				continue
			}
			_ = a.Move(args[0], vertices)

		case "shapes":
			_ = a.Shapes()

		case "clear":
			_ = a.Clear()

		case "save":
			if len(args) == 0 {
				printlnFn("Usage: save <name>")
				continue
			}
			_ = a.Save(ctx, args[0])

		case "load":
			if len(args) == 0 {
				printlnFn("Usage: load <name>")
				continue
			}
			_ = a.Load(ctx, args[0])

		case "l", "list":
			_ = a.List(ctx)

		case "export":
			if len(args) == 0 {
				printlnFn("Usage: export <name>")
				continue
			}
			_ = a.Export(ctx, args[0])

		case "admin-list":
			_ = a.AdminList(ctx)

		case "admin-load":
			if len(args) < 2 {
				printlnFn("Usage: admin-load <owner> <name>")
				continue
			}
			_ = a.AdminLoad(ctx, args[0], args[1])

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
