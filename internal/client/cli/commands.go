package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/swipecatalog/internal/client/models"
	"github.com/dmitrijs2005/swipecatalog/internal/client/services"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cast"
)

func (a *App) printProducts(ps []models.Product) {
	if len(ps) == 0 {
		fmt.Fprintln(a.out, "No products.")
		return
	}
	for i, p := range ps {
		star := " "
		if p.Favorite {
			star = "*"
		}
		fmt.Fprintf(a.out, "%3d. %s %s | %s | price %s | tax %s%%\n",
			i+1, star, p.Name, p.Type, p.Price.StringFixed(2), p.Tax.String())
	}
}

func (a *App) List(ctx context.Context) error {
	a.printProducts(a.catalog.Products())
	return nil
}

func (a *App) Search(ctx context.Context, term string) error {
	a.catalog.SetSearch(term)
	return a.List(ctx)
}

func (a *App) Sort(ctx context.Context, args []string) error {
	if len(args) == 0 {
		opts := make([]string, 0, len(models.SortOptions))
		for _, o := range models.SortOptions {
			opts = append(opts, string(o))
		}
		fmt.Fprintf(a.out, "Current: %s\nOptions: %s\n", a.catalog.SortOption(), strings.Join(opts, ", "))
		return nil
	}

	opt, err := models.ParseSortOption(args[0])
	if err != nil {
		return err
	}
	a.catalog.ChangeSorting(opt)
	return a.List(ctx)
}

// pick resolves a 1-based list position from args against the visible list.
func (a *App) pick(args []string, usage string) (models.Product, error) {
	if len(args) == 0 {
		return models.Product{}, errors.New(usage)
	}
	n, err := cast.ToIntE(args[0])
	if err != nil {
		return models.Product{}, fmt.Errorf("not a number: %q", args[0])
	}
	ps := a.catalog.Products()
	if n < 1 || n > len(ps) {
		return models.Product{}, fmt.Errorf("no item %d (list has %d)", n, len(ps))
	}
	return ps[n-1], nil
}

func (a *App) Favorite(ctx context.Context, args []string) error {
	p, err := a.pick(args, "usage: fav <n>")
	if err != nil {
		return err
	}
	if !a.catalog.ToggleFavorite(ctx, p.ID) {
		return fmt.Errorf("%s is no longer in the catalog", p.Name)
	}
	if p.Favorite {
		fmt.Fprintf(a.out, "Removed %s from favorites\n", p.Name)
	} else {
		fmt.Fprintf(a.out, "Added %s to favorites\n", p.Name)
	}
	return nil
}

func (a *App) Add(ctx context.Context) error {
	var form models.ProductForm
	var err error

	if form.Name, err = GetSimpleText(a.reader, "Product name", a.out); err != nil {
		return err
	}

	typePrompt := "Product type (" + strings.Join(models.ProductTypes, ", ") + ", or a number)"
	if form.Type, err = GetSimpleText(a.reader, typePrompt, a.out); err != nil {
		return err
	}
	if n, err := cast.ToIntE(form.Type); err == nil && n >= 1 && n <= len(models.ProductTypes) {
		form.Type = models.ProductTypes[n-1]
	}

	if form.Price, err = GetSimpleText(a.reader, "Price", a.out); err != nil {
		return err
	}
	if form.Tax, err = GetSimpleText(a.reader, "Tax rate", a.out); err != nil {
		return err
	}

	path, err := GetSimpleText(a.reader, "Image file (empty for none)", a.out)
	if err != nil {
		return err
	}
	if path != "" {
		if form.Image, err = readFile(path); err != nil {
			return fmt.Errorf("read image: %w", err)
		}
	}

	res, err := a.catalog.AddProduct(ctx, form)
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(a.out, "%s: %s\n", verr.Title, verr.Message)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s: %s\n", res.Title, res.Message)
	if res.Outcome == services.OutcomeUploaded {
		return a.Refresh(ctx)
	}
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	a.refreshing.Store(true)
	defer a.refreshing.Store(false)

	if err := a.catalog.Fetch(ctx); err != nil {
		a.logger.Warn(ctx, "refresh failed", "error", err)
		fmt.Fprintln(a.out, "Could not load products from the server.")
	}
	return a.List(ctx)
}

func (a *App) Pending(ctx context.Context) error {
	items := a.queue.Pending(ctx)
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Nothing waiting for upload.")
		return nil
	}
	for i, p := range items {
		fmt.Fprintf(a.out, "%3d. %s | %s | price %s | tax %s%% | saved %s\n",
			i+1, p.Name, p.Type, p.Price.StringFixed(2), p.Tax.String(), p.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// Sync re-checks reachability and reloads the catalog. Queued products are
// only uploaded by the monitor's transition to connected, which the probe
// triggers when the API has just come back.
func (a *App) Sync(ctx context.Context) error {
	if !a.conn.Probe(ctx) {
		return errors.New("offline: pending products will upload once connected")
	}
	return a.Refresh(ctx)
}

func (a *App) Image(ctx context.Context, args []string) error {
	p, err := a.pick(args, "usage: image <n>")
	if err != nil {
		return err
	}
	if p.Image == "" {
		fmt.Fprintf(a.out, "%s has no image\n", p.Name)
		return nil
	}

	img, err := a.images.Load(ctx, p.Image)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	b := img.Bounds()
	fmt.Fprintf(a.out, "%s: %dx%d image from %s\n", p.Name, b.Dx(), b.Dy(), p.Image)
	return nil
}

type productRow struct {
	Name     string `csv:"product_name"`
	Type     string `csv:"product_type"`
	Price    string `csv:"price"`
	Tax      string `csv:"tax"`
	Image    string `csv:"image"`
	Favorite bool   `csv:"favorite"`
}

func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: export <file.csv>")
	}

	ps := a.catalog.Products()
	rows := make([]productRow, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, productRow{
			Name:     p.Name,
			Type:     p.Type,
			Price:    p.Price.String(),
			Tax:      p.Tax.String(),
			Image:    p.Image,
			Favorite: p.Favorite,
		})
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gocsv.Marshal(&rows, f); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	fmt.Fprintf(a.out, "Exported %d products to %s\n", len(rows), args[0])
	return nil
}

func (a *App) Status(ctx context.Context) error {
	uploading := "no"
	if a.queue.Draining() {
		uploading = "yes"
	}
	fmt.Fprintf(a.out, "Mode: %s\nProducts: %d (showing %d)\nSort: %s\nPending uploads: %d\nUploading: %s\n",
		a.mode(), len(a.catalog.All()), len(a.catalog.Products()), a.catalog.SortOption(), len(a.queue.Pending(ctx)), uploading)
	return nil
}
