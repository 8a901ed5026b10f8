package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/storefront/backend/pkg/client"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

var (
	api *client.Client
	env = viper.New()
)

var rootCmd = &cobra.Command{
	Use:           "backofficectl",
	Short:         "Storefront back-office CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		api, err = client.New(env.GetString("api_url"),
			client.WithToken(env.GetString("api_token")),
			client.WithTimeout(env.GetDuration("timeout")),
		)
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of backofficectl",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("api-url", "http://localhost:8080", "Base URL of the storefront API")
	flags.String("api-token", "", "Bearer token (see `backofficectl login`)")
	flags.String("surface", "/admin", "Back-office to act on: /admin or /seller")
	flags.Duration("timeout", client.DefaultTimeout, "Default timeout of each request")

	// SHOP_API_URL, SHOP_API_TOKEN, SHOP_SURFACE, SHOP_TIMEOUT
	env.SetEnvPrefix("SHOP")
	env.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	env.AutomaticEnv()
	for _, name := range []string{"api-url", "api-token", "surface", "timeout"} {
		_ = env.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}

	rootCmd.AddCommand(versionCmd, loginCmd, productsCmd, ordersCmd, dashboardCmd,
		usersCmd, vendorsCmd, reviewsCmd, logsCmd, categoriesCmd, homepageCmd, paymentCmd)
}

// backOffice returns the admin or seller API selected by --surface
func backOffice() client.ResourceAPI {
	return client.ForPath(api, env.GetString("surface"))
}

// signalContext is cancelled on Ctrl-C so long imports stop between batches
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return &t, nil
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and print an access token for SHOP_API_TOKEN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := os.Getenv("SHOP_API_PASSWORD")
		if password == "" {
			return fmt.Errorf("set SHOP_API_PASSWORD")
		}
		ctx, cancel := signalContext()
		defer cancel()

		tokens, err := api.Store().Login(ctx, args[0], password)
		if err != nil {
			return err
		}
		me, err := api.Store().Me(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Logged in as %s (%s)\n", me.Email, me.Role)
		fmt.Println(tokens.AccessToken)
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the analytics dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		fromFlag, _ := cmd.Flags().GetString("from")
		toFlag, _ := cmd.Flags().GetString("to")
		from, err := parseDate(fromFlag)
		if err != nil {
			return err
		}
		to, err := parseDate(toFlag)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()
		d, err := backOffice().Dashboard(ctx, from, to)
		if err != nil {
			return err
		}
		return printJSON(d)
	},
}

func init() {
	dashboardCmd.Flags().String("from", "", "First day, YYYY-MM-DD (default: 30 days ago)")
	dashboardCmd.Flags().String("to", "", "Last day, YYYY-MM-DD (default: today)")
}
