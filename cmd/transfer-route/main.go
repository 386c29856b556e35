// Command transfer-route evaluates multi-hop transfer routes between banks,
// wallets and exchanges.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"go-transfer-route/broker"
	"go-transfer-route/config"
	httpt "go-transfer-route/http"

	nhttp "net/http"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "transfer-route",
	Short:         "Evaluate multi-hop money transfer routes",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Log.Level = lvl
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(institutionsCmd)
}

func newLogger() log.Logger {
	w := log.NewSyncWriter(os.Stderr)
	logger := log.NewLogfmtLogger(w)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return level.NewFilter(logger, level.Allow(level.ParseDefault(cfg.Log.Level, level.InfoValue())))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("transfer-route %s (%s)\n", version, commit)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate the routes of the config file and print the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Routes) == 0 {
			return fmt.Errorf("no routes configured")
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		logger := newLogger()
		service := wire(ctx, cfg, logger)

		process := service.ProcessAll
		if compare, _ := cmd.Flags().GetBool("compare"); compare {
			process = service.Compare
		}
		results, err := process(ctx, cfg.Routes)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	runCmd.Flags().Bool("compare", false, "rank the routes cheapest first")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		logger := newLogger()
		service := wire(ctx, cfg, logger)
		handler := httpt.NewServer(service, broker.Catalogue, log.With(logger, "component", "http"))

		httpSrv := &nhttp.Server{
			Addr:         cfg.HTTP.Address,
			Handler:      handler,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errs := make(chan error, 1)
		go func() {
			level.Info(logger).Log("msg", "listening", "address", cfg.HTTP.Address)
			errs <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errs:
			return err
		case <-ctx.Done():
		}
		level.Info(logger).Log("msg", "shutting down")

		shutdown, done := context.WithTimeout(context.Background(), 15*time.Second)
		defer done()
		return httpSrv.Shutdown(shutdown)
	},
}

var institutionsCmd = &cobra.Command{
	Use:   "institutions",
	Short: "List the known institutions",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tVARIANT\tPAIRS\tCOMMISSION\tFIXED FEES")
		for _, d := range broker.Catalogue {
			variant := "wallet"
			if d.Convertible {
				variant = "exchange"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n", d.ID, variant, pairs(d), d.Commission, fixedFees(d))
		}
		w.Flush()
	},
}

func pairs(d broker.Definition) string {
	if len(d.Pairs) == 0 {
		return "-"
	}
	out := make([]string, 0, len(d.Pairs))
	for _, p := range d.Pairs {
		out = append(out, p.String())
	}
	return strings.Join(out, ", ")
}

func fixedFees(d broker.Definition) string {
	if len(d.FixedFees) == 0 {
		return "-"
	}
	out := make([]string, 0, len(d.FixedFees))
	for c, fee := range d.FixedFees {
		out = append(out, fmt.Sprintf("%v %v", c, fee))
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
