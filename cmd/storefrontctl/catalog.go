package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/domain"
	"storefront/internal/pricing"
	"storefront/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// openCatalog loads the configured catalog. The returned close func releases
// the database connection when the postgres source is used.
func openCatalog(ctx context.Context, cfg *config.Config) (*catalog.Store, func(), error) {
	if cfg.Catalog.Source != config.CatalogSourcePostgres {
		store, err := server.LoadCatalog(ctx, cfg, nil)
		return store, func() {}, err
	}

	dbService, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	store, err := server.LoadCatalog(ctx, cfg, dbService.DB())
	if err != nil {
		dbService.Close()
		return nil, nil, err
	}
	return store, func() { dbService.Close() }, nil
}

func newProductsCmd(cfg *config.Config, log *zap.Logger) *cobra.Command {
	var category, query, tag string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		Long:  `Lists products with their effective price, optionally narrowed by category, search query or tag.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeCatalog, err := openCatalog(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			defer closeCatalog()

			var products []domain.Product
			switch {
			case category != "":
				products = store.GetProductsByCategory(category)
			case tag != "":
				products = store.ProductsByTag(tag)
			default:
				products = store.Search(query)
			}

			log.Debug("Listing products",
				zap.String("category", category),
				zap.String("query", query),
				zap.String("tag", tag),
				zap.Int("count", len(products)),
			)
			return printProducts(cmd, products)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category slug")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search text matched against name and description")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "exact tag")
	return cmd
}

func printProducts(cmd *cobra.Command, products []domain.Product) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tDISCOUNT\tSTOCK")
	for _, p := range products {
		discount := "-"
		if pricing.HasDiscount(p) {
			discount = fmt.Sprintf("%d%%", pricing.DiscountPercent(p))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n",
			p.ID, p.Name, p.Category, pricing.FormatPrice(pricing.EffectiveUnitPrice(p)), discount, p.Stock)
	}
	return tw.Flush()
}

func newQuoteCmd(cfg *config.Config, log *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:     "quote ID:QTY...",
		Short:   "Price a cart",
		Long:    `Prints the order summary for the given product ids and quantities. Unknown products are skipped.`,
		Example: "  storefrontctl quote 1:2 5:1",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := parseLineItems(args)
			if err != nil {
				return err
			}

			policy, err := cfg.Pricing.Policy()
			if err != nil {
				return fmt.Errorf("failed to load pricing policy: %w", err)
			}

			store, closeCatalog, err := openCatalog(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			defer closeCatalog()

			summary := cart.NewCalculator(store, policy).Summarize(items)
			log.Debug("Quoted cart", zap.Int("lines", len(summary.Lines)), zap.String("total", summary.Total.String()))
			return printSummary(cmd, summary)
		},
	}
}

// parseLineItems reads ID:QTY pairs. A bare ID means quantity 1.
func parseLineItems(args []string) ([]domain.CartLineItem, error) {
	items := make([]domain.CartLineItem, 0, len(args))
	for _, arg := range args {
		idPart, qtyPart, hasQty := strings.Cut(arg, ":")

		id, err := strconv.Atoi(idPart)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid product id in %q", arg)
		}

		qty := 1
		if hasQty {
			qty, err = strconv.Atoi(qtyPart)
			if err != nil || qty < 1 {
				return nil, fmt.Errorf("invalid quantity in %q", arg)
			}
		}

		items = append(items, domain.CartLineItem{ProductID: id, Quantity: qty})
	}
	return items, nil
}

func printSummary(cmd *cobra.Command, summary cart.Summary) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tQTY\tUNIT\tTOTAL")
	for _, line := range summary.Lines {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			line.Product.Name, line.Quantity, pricing.FormatPrice(line.UnitPrice), pricing.FormatPrice(line.Total))
	}
	fmt.Fprintln(tw, "\t\t\t")

	shipping := pricing.FormatPrice(summary.Shipping)
	if summary.FreeShipping {
		shipping = "Free"
	}
	fmt.Fprintf(tw, "Subtotal (%d items)\t\t\t%s\n", summary.ItemCount, pricing.FormatPrice(summary.Subtotal))
	fmt.Fprintf(tw, "Shipping\t\t\t%s\n", shipping)
	fmt.Fprintf(tw, "Tax\t\t\t%s\n", pricing.FormatPrice(summary.Tax))
	fmt.Fprintf(tw, "Total\t\t\t%s\n", pricing.FormatPrice(summary.Total))
	return tw.Flush()
}
