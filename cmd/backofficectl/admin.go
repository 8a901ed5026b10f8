package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/storefront/backend/pkg/client"
)

// Admin-only commands. They ignore --surface.

var usersCmd = &cobra.Command{Use: "users", Short: "User accounts (admin)"}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := listParams(cmd)
		if err != nil {
			return err
		}
		if role, _ := cmd.Flags().GetString("role"); role != "" {
			params.Filters["role"] = role
		}
		ctx, cancel := signalContext()
		defer cancel()
		page, err := api.Admin().ListUsers(ctx, params)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tACTIVE\tLOCKED")
		for _, u := range page.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%t\n", u.ID, u.Email, u.Name, u.Role, u.IsActive, u.IsLocked)
		}
		return flushPage(w, page.Meta.Page, page.Meta.TotalPages, page.Meta.Total, "users")
	},
}

var toggleUserCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Activate or deactivate a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		ctx, cancel := signalContext()
		defer cancel()
		resp, err := api.Admin().ToggleUserActive(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "List vendors (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := listParams(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()
		page, err := api.Admin().ListVendors(ctx, params)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSLUG\tNAME\tEMAIL\tACTIVE")
		for _, v := range page.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", v.ID, v.Slug, v.Name, v.Email, v.IsActive)
		}
		return flushPage(w, page.Meta.Page, page.Meta.TotalPages, page.Meta.Total, "vendors")
	},
}

var reviewsCmd = &cobra.Command{Use: "reviews", Short: "Review moderation (admin)"}

var listReviewsCmd = &cobra.Command{
	Use:   "list",
	Short: "List reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := listParams(cmd)
		if err != nil {
			return err
		}
		if pending, _ := cmd.Flags().GetBool("pending"); pending {
			params.Filters["is_approved"] = "false"
		}
		ctx, cancel := signalContext()
		defer cancel()
		page, err := api.Admin().ListReviews(ctx, params)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPRODUCT\tAUTHOR\tRATING\tAPPROVED\tTITLE")
		for _, r := range page.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\t%s\n", r.ID, r.ProductID, r.AuthorName, r.Rating, r.IsApproved, r.Title)
		}
		return flushPage(w, page.Meta.Page, page.Meta.TotalPages, page.Meta.Total, "reviews")
	},
}

var approveReviewCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Flip the approved flag of a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid review id: %w", err)
		}
		ctx, cancel := signalContext()
		defer cancel()
		resp, err := api.Admin().ToggleReviewApproved(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the admin activity log (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := listParams(cmd)
		if err != nil {
			return err
		}
		for _, name := range []string{"resource", "action"} {
			if v, _ := cmd.Flags().GetString(name); v != "" {
				params.Filters[name] = v
			}
		}
		ctx, cancel := signalContext()
		defer cancel()
		page, err := api.Admin().ListAdminLogs(ctx, params)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tACTOR\tACTION\tRESOURCE\tID")
		for _, l := range page.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", l.CreatedAt.Format("2006-01-02 15:04:05"), l.ActorEmail, l.Action, l.Resource, l.ResourceID)
		}
		return flushPage(w, page.Meta.Page, page.Meta.TotalPages, page.Meta.Total, "entries")
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Print the category tree (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		tree, err := api.Admin().CategoryTree(ctx)
		if err != nil {
			return err
		}
		printTree(os.Stdout, tree, 0)
		return nil
	},
}

func printTree(w io.Writer, nodes []client.CategoryTreeNode, depth int) {
	for _, n := range nodes {
		state := ""
		if !n.IsActive {
			state = " (inactive)"
		}
		fmt.Fprintf(w, "%s%s [%s]%s\n", strings.Repeat("  ", depth), n.Name, n.Slug, state)
		printTree(w, n.Children, depth+1)
	}
}

var homepageCmd = &cobra.Command{Use: "homepage", Short: "Homepage sections (admin)"}

var showHomepageCmd = &cobra.Command{
	Use:   "show",
	Short: "List sections in page order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		sections, err := api.Admin().Homepage(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ORDER\tKEY\tSTORED\tLISTS")
		for _, s := range sections {
			fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", s.Order, s.SectionKey, s.Stored, formatCounts(s.Lists))
		}
		return w.Flush()
	},
}

var setSectionCmd = &cobra.Command{
	Use:   "set <key> <content.json>",
	Short: "Replace the content of a section",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var content json.RawMessage
		if err := readJSONFile(args[1], &content); err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()
		section, err := api.Admin().SaveSection(ctx, args[0], content)
		if err != nil {
			return err
		}
		return printJSON(section)
	},
}

var resetSectionCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Restore the built-in content of a section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		section, err := api.Admin().ResetSection(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(section)
	},
}

var paymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Show the payout settings of the signed-in seller",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		settings, err := api.Seller().PaymentSettings(ctx)
		if err != nil {
			return err
		}
		return printJSON(settings)
	},
}

func init() {
	addListFlags(listUsersCmd)
	listUsersCmd.Flags().String("role", "", "Only users with this role")
	usersCmd.AddCommand(listUsersCmd, toggleUserCmd)

	addListFlags(vendorsCmd)

	addListFlags(listReviewsCmd)
	listReviewsCmd.Flags().Bool("pending", false, "Only reviews waiting for approval")
	reviewsCmd.AddCommand(listReviewsCmd, approveReviewCmd)

	addListFlags(logsCmd)
	logsCmd.Flags().String("resource", "", "Only entries for this resource, e.g. product")
	logsCmd.Flags().String("action", "", "Only entries with this action, e.g. delete")

	homepageCmd.AddCommand(showHomepageCmd, setSectionCmd, resetSectionCmd)
}

func flushPage(w *tabwriter.Writer, page, totalPages int, total int64, noun string) error {
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "page %d of %d, %d %s\n", page, totalPages, total, noun)
	return nil
}

// formatCounts renders list sizes as "a=3 b=5" in key order
func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
