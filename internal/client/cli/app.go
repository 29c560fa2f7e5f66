package cli

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"sync/atomic"

	"github.com/dmitrijs2005/swipecatalog/internal/client/models"
	"github.com/dmitrijs2005/swipecatalog/internal/client/services"
	"github.com/dmitrijs2005/swipecatalog/internal/logging"
	"golang.org/x/term"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Catalog is the part of services.CatalogEngine the shell drives.
type Catalog interface {
	Fetch(ctx context.Context) error
	Products() []models.Product
	All() []models.Product
	SetSearch(term string)
	ChangeSorting(opt models.SortOption)
	SortOption() models.SortOption
	ToggleFavorite(ctx context.Context, id string) bool
	AddProduct(ctx context.Context, form models.ProductForm) (services.SubmitResult, error)
}

type Queue interface {
	Pending(ctx context.Context) []models.OfflineProduct
	Draining() bool
}

// Connectivity is the reachability monitor. Probe applies a fresh check and
// lets the monitor publish any transition it causes.
type Connectivity interface {
	Connected() bool
	Probe(ctx context.Context) bool
}

type ImageLoader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// Deps are the collaborators App needs.
type Deps struct {
	Catalog Catalog
	Queue   Queue
	Conn    Connectivity
	Images  ImageLoader
	Logger  logging.Logger
}

type App struct {
	catalog Catalog
	queue   Queue
	conn    Connectivity
	images  ImageLoader
	logger  logging.Logger

	reader      *bufio.Reader
	out         io.Writer
	interactive bool

	// refreshing is set while a command runs its own fetch; wasLoading
	// tracks the last snapshot seen by OnCatalogChange.
	refreshing atomic.Bool
	wasLoading atomic.Bool
}

// NewApp builds a shell reading from in and writing to out. The prompt is
// only printed when in is a terminal.
func NewApp(d Deps, in io.Reader, out io.Writer) *App {
	a := &App{
		catalog: d.Catalog,
		queue:   d.Queue,
		conn:    d.Conn,
		images:  d.Images,
		logger:  d.Logger.With("component", "cli"),
		reader:  bufio.NewReader(in),
		out:     out,
	}
	if f, ok := in.(*os.File); ok {
		a.interactive = term.IsTerminal(int(f.Fd()))
	}
	return a
}

func (a *App) mode() Mode {
	if a.conn.Connected() {
		return ModeOnline
	}
	return ModeOffline
}

func (a *App) prompt() string {
	return fmt.Sprintf("catalog (%s) > ", a.mode())
}

// OnReachability reports connectivity changes to the user.
func (a *App) OnReachability(connected bool) {
	if connected {
		fmt.Fprintln(a.out, "\nSwitched to online mode")
		return
	}
	fmt.Fprintln(a.out, "\nSwitched to offline mode")
}

// OnCatalogChange tells the user when a fetch they did not ask for, such as
// the one after reconnecting, has finished.
func (a *App) OnCatalogChange(s services.Snapshot) {
	if s.Loading {
		a.wasLoading.Store(true)
		return
	}
	if !a.wasLoading.Swap(false) || a.refreshing.Load() {
		return
	}
	if s.Err != nil {
		fmt.Fprintln(a.out, "\nCould not load products from the server.")
		return
	}
	fmt.Fprintf(a.out, "\nCatalog updated: %d products\n", s.Total)
}

// Run loads the catalog once and then serves commands until the input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Product catalog (type 'help' for commands)")

	if err := a.Refresh(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
	}

	var promptFn func() string
	if a.interactive {
		promptFn = a.prompt
	}
	runREPL(ctx, a, promptFn, a.reader, a.out)
}
