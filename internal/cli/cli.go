// internal/cli/cli.go
package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/your-org/storefront/internal/app"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/pkg/money"
)

// Runner executes storefront commands against one App and prints to out
type Runner struct {
	app *app.App
	out io.Writer
}

// New creates a runner
func New(a *app.App, out io.Writer) *Runner {
	return &Runner{app: a, out: out}
}

// Run parses args (including the program name) and executes the command
func (r *Runner) Run(ctx context.Context, args []string) error {
	return r.Command().Run(ctx, args)
}

// Command builds the command tree
func (r *Runner) Command() *cli.Command {
	return &cli.Command{
		Name:      "storefront",
		Usage:     "Browse the catalog and manage a local cart",
		Writer:    r.out,
		ErrWriter: r.out,
		Commands: []*cli.Command{
			{
				Name:   "products",
				Usage:  "List products with filters and sorting",
				Flags:  listingFlags(),
				Action: r.listProducts,
			},
			{
				Name:   "brands",
				Usage:  "List brands",
				Action: r.listBrands,
			},
			{
				Name:   "categories",
				Usage:  "List categories",
				Action: r.listCategories,
			},
			{
				Name:  "cart",
				Usage: "Manage the cart",
				Commands: []*cli.Command{
					{
						Name:  "show",
						Usage: "Show cart items and totals",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "promo", Usage: "promo code to apply"},
						},
						Action: r.showCart,
					},
					{
						Name:  "add",
						Usage: "Add a product to the cart",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "product", Usage: "product id", Required: true},
							&cli.StringFlag{Name: "size"},
							&cli.StringFlag{Name: "color"},
							&cli.IntFlag{Name: "qty", Value: 1},
						},
						Action: r.addToCart,
					},
					{
						Name:      "update",
						Usage:     "Set the quantity of a cart item; 0 removes it",
						ArgsUsage: "CART_ITEM_ID QTY",
						Action:    r.updateCart,
					},
					{
						Name:      "remove",
						Usage:     "Remove a cart item",
						ArgsUsage: "CART_ITEM_ID",
						Action:    r.removeFromCart,
					},
					{
						Name:   "clear",
						Usage:  "Empty the cart",
						Action: r.clearCart,
					},
				},
			},
		},
	}
}

func listingFlags() []cli.Flag {
	flags := make([]cli.Flag, 0, len(catalog.AllDimensions)+6)
	for _, dim := range catalog.ProductsPage.Dimensions {
		flags = append(flags, &cli.StringSliceFlag{Name: dim.Name, Usage: "filter by " + dim.Name})
	}
	return append(flags,
		&cli.FloatFlag{Name: "min-price"},
		&cli.FloatFlag{Name: "max-price"},
		&cli.StringFlag{Name: "q", Usage: "search name, brand, description, category and tags"},
		&cli.StringFlag{Name: "sort", Value: string(catalog.SortPopularity), Usage: "one of " + sortKeys()},
		&cli.IntFlag{Name: "page", Value: 1},
		&cli.IntFlag{Name: "limit", Value: 0, Usage: "page size; 0 lists everything"},
	)
}

func (r *Runner) listProducts(_ context.Context, cmd *cli.Command) error {
	criteria := catalog.Criteria{
		Query: cmd.String("q"),
		Sort:  catalog.ParseSortKey(cmd.String("sort")),
	}
	for _, name := range catalog.ProductsPage.DimensionNames() {
		if values := splitValues(cmd.StringSlice(name)); len(values) > 0 {
			criteria = criteria.Select(name, values...)
		}
	}
	if cmd.IsSet("min-price") || cmd.IsSet("max-price") {
		pr := catalog.PriceRange{Min: 0, Max: math.MaxFloat64}
		if cmd.IsSet("min-price") {
			pr.Min = float64(cmd.Float("min-price"))
		}
		if cmd.IsSet("max-price") {
			pr.Max = float64(cmd.Float("max-price"))
		}
		if pr.Min > pr.Max {
			return fmt.Errorf("--min-price must not exceed --max-price")
		}
		criteria.PriceRange = &pr
	}

	listing := r.app.Catalog.List(catalog.ProductsPage, criteria, catalog.PageRequest{
		Page:  int(cmd.Int("page")),
		Limit: int(cmd.Int("limit")),
	})
	if listing.Empty {
		fmt.Fprintln(r.out, listing.Message)
		return nil
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tCATEGORY\tPRICE\tRATING\tSTOCK")
	for _, p := range listing.Products {
		stock := "in stock"
		if !p.IsInStock() {
			stock = "out of stock"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.1f\t%s\n", p.ID, p.Name, p.Brand, p.Category, money.FormatFloat(p.Price), p.Rating, stock)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	pg := listing.Pagination
	fmt.Fprintf(r.out, "%d products (page %d of %d)\n", listing.Total, pg.Page, pg.TotalPages)
	return nil
}

func (r *Runner) listBrands(_ context.Context, _ *cli.Command) error {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tNAME\tCOUNTRY")
	for _, b := range r.app.Catalog.Brands() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.Slug, b.Name, b.Country)
	}
	return w.Flush()
}

func (r *Runner) listCategories(_ context.Context, _ *cli.Command) error {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tNAME")
	for _, c := range r.app.Catalog.Categories() {
		fmt.Fprintf(w, "%s\t%s\n", c.Slug, c.Name)
	}
	return w.Flush()
}

func (r *Runner) showCart(ctx context.Context, cmd *cli.Command) error {
	store := r.app.OpenCart(ctx)
	items := store.State().Items

	quote, err := r.app.Promos.Quote(items, store.Rules(), cmd.String("promo"))
	if err != nil {
		return fmt.Errorf("%w: %s", err, cmd.String("promo"))
	}

	if len(items) == 0 {
		fmt.Fprintln(r.out, "Your cart is empty")
	} else {
		w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ITEM\tNAME\tSIZE\tCOLOR\tQTY\tPRICE\tTOTAL")
		for _, it := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\t%s\n",
				it.CartItemID, it.Name, it.SelectedSize, it.SelectedColor,
				it.Quantity, it.MaxQuantity, money.FormatFloat(it.Price), money.FormatFloat(it.TotalPrice))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	printQuote(r.out, quote)
	return nil
}

func printQuote(out io.Writer, q cart.Quote) {
	s := q.Summary
	fmt.Fprintf(out, "Items:    %d\n", s.ItemCount)
	fmt.Fprintf(out, "Subtotal: %s\n", money.Format(s.Subtotal))
	if q.PromoCode != "" {
		fmt.Fprintf(out, "Discount: -%s (%s)\n", money.Format(q.Discount), q.PromoCode)
	}
	if s.Shipping.IsZero() {
		fmt.Fprintln(out, "Shipping: FREE")
	} else {
		fmt.Fprintf(out, "Shipping: %s\n", money.Format(s.Shipping))
	}
	fmt.Fprintf(out, "Tax:      %s\n", money.Format(s.Tax))
	fmt.Fprintf(out, "Total:    %s\n", money.Format(q.Total))
}

func (r *Runner) addToCart(ctx context.Context, cmd *cli.Command) error {
	product, err := r.app.Catalog.Product(int(cmd.Int("product")))
	if err != nil {
		return err
	}

	store := r.app.OpenCart(ctx)
	if cart.AvailableStock(product, store.Rules()) <= 0 {
		return fmt.Errorf("%s is out of stock", product.Name)
	}

	before := store.Summary().ItemCount
	state := store.AddToCart(ctx, *product, cmd.String("size"), cmd.String("color"), int(cmd.Int("qty")))
	added := cart.ComputeSummary(state.Items, store.Rules()).ItemCount - before

	if added == 0 {
		fmt.Fprintf(r.out, "%s is already at the maximum quantity\n", product.Name)
		return nil
	}
	fmt.Fprintf(r.out, "Added %d x %s\n", added, product.Name)
	return nil
}

func (r *Runner) updateCart(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("usage: storefront cart update CART_ITEM_ID QTY")
	}
	id := cmd.Args().Get(0)
	qty, err := strconv.Atoi(cmd.Args().Get(1))
	if err != nil {
		return fmt.Errorf("invalid quantity %q", cmd.Args().Get(1))
	}

	store := r.app.OpenCart(ctx)
	if _, ok := store.State().Find(id); !ok {
		return fmt.Errorf("cart item %q not found", id)
	}

	state := store.UpdateQuantity(ctx, id, qty)
	if line, ok := state.Find(id); ok {
		fmt.Fprintf(r.out, "%s quantity set to %d\n", line.Name, line.Quantity)
	} else {
		fmt.Fprintf(r.out, "Removed %s\n", id)
	}
	return nil
}

func (r *Runner) removeFromCart(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: storefront cart remove CART_ITEM_ID")
	}

	store := r.app.OpenCart(ctx)
	if _, ok := store.State().Find(id); !ok {
		return fmt.Errorf("cart item %q not found", id)
	}

	store.RemoveFromCart(ctx, id)
	fmt.Fprintf(r.out, "Removed %s\n", id)
	return nil
}

func (r *Runner) clearCart(ctx context.Context, _ *cli.Command) error {
	r.app.OpenCart(ctx).ClearCart(ctx)
	fmt.Fprintln(r.out, "Cart cleared")
	return nil
}

func splitValues(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func sortKeys() string {
	keys := catalog.SortKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
