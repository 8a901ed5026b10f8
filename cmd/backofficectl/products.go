package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/storefront/backend/internal/infrastructure/csvimport"
	"github.com/storefront/backend/pkg/client"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Product operations",
}

var listProductsCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := listParams(cmd)
		if err != nil {
			return err
		}
		if lowStock, _ := cmd.Flags().GetBool("low-stock"); lowStock {
			params.Filters["low_stock"] = "true"
		}

		ctx, cancel := signalContext()
		defer cancel()
		page, err := backOffice().ListProducts(ctx, params)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSKU\tNAME\tPRICE\tSTOCK\tACTIVE")
		for _, p := range page.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%t\n", p.ID, p.SKU, p.Name, p.FinalPrice.StringFixed(2), p.Stock, p.IsActive)
		}
		return flushPage(w, page.Meta.Page, page.Meta.TotalPages, page.Meta.Total, "products")
	},
}

var importProductsCmd = &cobra.Command{
	Use:   "import <file.json|file.csv>",
	Short: "Create products from a JSON array or a CSV sheet, in batches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skipInvalid, _ := cmd.Flags().GetBool("skip-invalid")
		items, err := readProducts(args[0], skipInvalid)
		if err != nil {
			return err
		}
		opts, err := batchFlags(cmd)
		if err != nil {
			return err
		}
		var vendorID *uuid.UUID
		if s, _ := cmd.Flags().GetString("vendor-id"); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				return fmt.Errorf("invalid --vendor-id: %w", err)
			}
			vendorID = &id
		}

		ctx, cancel := signalContext()
		defer cancel()
		target := backOffice()
		result, err := runBatches(ctx, items, opts, func(ctx context.Context, batch []client.CreateProductRequest) (*client.BulkResult, error) {
			return target.ImportProducts(ctx, client.ImportProductsRequest{VendorID: vendorID, Items: batch},
				client.WithRequestTimeout(opts.timeout))
		})
		return reportBulk(result, err)
	},
}

var bulkUpdateCmd = &cobra.Command{
	Use:   "bulk-update <file.json>",
	Short: "Change price and stock from a JSON array of {id, price, stock}",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var items []client.BulkUpdateItem
		if err := readJSONFile(args[0], &items); err != nil {
			return err
		}
		opts, err := batchFlags(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()
		target := backOffice()
		result, err := runBatches(ctx, items, opts, func(ctx context.Context, batch []client.BulkUpdateItem) (*client.BulkResult, error) {
			return target.BulkUpdateProducts(ctx, client.BulkUpdateRequest{Items: batch},
				client.WithRequestTimeout(opts.timeout))
		})
		return reportBulk(result, err)
	},
}

var toggleProductCmd = &cobra.Command{
	Use:   "toggle <id> <active|featured>",
	Short: "Flip the active or featured flag of a product",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid product id: %w", err)
		}
		ctx, cancel := signalContext()
		defer cancel()

		var resp *client.ToggleResponse
		switch args[1] {
		case "active":
			resp, err = backOffice().ToggleProductActive(ctx, id)
		case "featured":
			resp, err = backOffice().ToggleProductFeatured(ctx, id)
		default:
			return fmt.Errorf("unknown flag %q, want active or featured", args[1])
		}
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

func init() {
	addListFlags(listProductsCmd)
	listProductsCmd.Flags().Bool("low-stock", false, "Only products at or below the low stock threshold")

	for _, c := range []*cobra.Command{importProductsCmd, bulkUpdateCmd} {
		c.Flags().Int("batch-size", 200, "Rows per request")
		c.Flags().Duration("batch-timeout", 2*time.Minute, "Timeout of each batch request")
		c.Flags().Bool("quiet", false, "Hide the progress bar")
	}
	importProductsCmd.Flags().String("vendor-id", "", "Vendor of the imported products (admin only)")
	importProductsCmd.Flags().Bool("skip-invalid", false, "Import the valid CSV rows even when others fail to parse")

	productsCmd.AddCommand(listProductsCmd, importProductsCmd, bulkUpdateCmd, toggleProductCmd)
}

type batchOptions struct {
	size     int
	timeout  time.Duration
	progress io.Writer
}

func batchFlags(cmd *cobra.Command) (batchOptions, error) {
	size, _ := cmd.Flags().GetInt("batch-size")
	if size <= 0 {
		return batchOptions{}, fmt.Errorf("--batch-size must be positive")
	}
	timeout, _ := cmd.Flags().GetDuration("batch-timeout")
	opts := batchOptions{size: size, timeout: timeout, progress: os.Stderr}
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		opts.progress = io.Discard
	}
	return opts, nil
}

// runBatches sends items in chunks and merges the per-row results. Row
// indexes in the merged result refer to the whole input. A failed request
// stops the run; rows already sent keep their results.
func runBatches[T any](
	ctx context.Context,
	items []T,
	opts batchOptions,
	send func(context.Context, []T) (*client.BulkResult, error),
) (*client.BulkResult, error) {
	merged := &client.BulkResult{Total: len(items)}
	bar := progressbar.NewOptions(len(items),
		progressbar.OptionSetWriter(opts.progress),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("sending"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	defer func() { _ = bar.Finish() }()

	for start := 0; start < len(items); start += opts.size {
		if err := ctx.Err(); err != nil {
			return merged, err
		}
		end := min(start+opts.size, len(items))

		res, err := send(ctx, items[start:end])
		if err != nil {
			return merged, fmt.Errorf("batch %d-%d: %w", start, end-1, err)
		}
		for _, r := range res.Results {
			r.Index += start
			merged.Results = append(merged.Results, r)
		}
		merged.Succeeded += res.Succeeded
		merged.Failed += res.Failed
		_ = bar.Add(end - start)
	}
	return merged, nil
}

func reportBulk(result *client.BulkResult, err error) error {
	if result != nil {
		fmt.Fprintf(os.Stderr, "\n%d rows: %d succeeded, %d failed\n", result.Total, result.Succeeded, result.Failed)
		for _, r := range result.Results {
			if r.Error != "" {
				fmt.Fprintf(os.Stderr, "  row %d %s: %s\n", r.Index, r.SKU, r.Error)
			}
		}
	}
	return err
}

// readProducts loads an import file. CSV row errors abort the import
// unless skipInvalid is set.
func readProducts(path string, skipInvalid bool) ([]client.CreateProductRequest, error) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		var items []client.CreateProductRequest
		if err := readJSONFile(path, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	items, rowErrs, err := csvimport.ReadProducts(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, e := range rowErrs {
		fmt.Fprintf(os.Stderr, "  %s\n", e)
	}
	if len(rowErrs) > 0 && !skipInvalid {
		return nil, fmt.Errorf("%s: %d invalid rows, fix them or pass --skip-invalid", path, len(rowErrs))
	}
	return items, nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("page-size", 20, "Rows per page")
	cmd.Flags().String("search", "", "Free text search")
	cmd.Flags().StringToString("filter", nil, "Extra filters, e.g. --filter is_active=true")
}

func listParams(cmd *cobra.Command) (client.ListParams, error) {
	page, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("page-size")
	search, _ := cmd.Flags().GetString("search")
	filters, err := cmd.Flags().GetStringToString("filter")
	if err != nil {
		return client.ListParams{}, err
	}
	if filters == nil {
		filters = map[string]string{}
	}
	if page < 1 {
		return client.ListParams{}, fmt.Errorf("--page must be at least 1, got %d", page)
	}
	return client.ListParams{Page: page, PageSize: size, Search: search, Filters: filters}, nil
}
