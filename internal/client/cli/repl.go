package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Search(ctx context.Context, term string) error
	Sort(ctx context.Context, args []string) error
	Favorite(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Refresh(ctx context.Context) error
	Pending(ctx context.Context) error
	Sync(ctx context.Context) error
	Image(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Status(ctx context.Context) error
}

const helpText = `Available commands:
  list                 show the catalog
  search [text]        filter by name (no text clears the filter)
  sort [option]        order non-favorites (no option lists the choices)
  fav <n>              toggle favorite for item n of the list
  add                  add a product
  refresh              reload the catalog from the server
  pending              show products waiting for upload
  sync                 re-check the connection and reload the catalog
  image <n>            load the image of item n
  export <file.csv>    write the current list as CSV
  status               show connectivity and counters
  exit | quit          leave the program`

// runREPL reads commands from reader until EOF or "exit"/"quit". When
// promptFn is non-nil its result is printed before every command. Handler
// errors are reported to the user and never stop the loop.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if promptFn != nil {
			fmt.Fprint(w, promptFn())
		}
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
		case "help", "?":
			fmt.Fprintln(w, helpText)
		case "l", "list":
			err = a.List(ctx)
		case "search":
			err = a.Search(ctx, strings.Join(args, " "))
		case "sort":
			err = a.Sort(ctx, args)
		case "fav":
			err = a.Favorite(ctx, args)
		case "add":
			err = a.Add(ctx)
		case "refresh":
			err = a.Refresh(ctx)
		case "pending":
			err = a.Pending(ctx)
		case "sync":
			err = a.Sync(ctx)
		case "image":
			err = a.Image(ctx, args)
		case "export":
			err = a.Export(ctx, args)
		case "status":
			err = a.Status(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintln(w, "Error:", err)
		}
	}
}
