// Package cmd wires the command line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"absolute-cinema-cli/auth"
	"absolute-cinema-cli/catalog"
	"absolute-cinema-cli/config"
	"absolute-cinema-cli/logger"
	"absolute-cinema-cli/service"
	"absolute-cinema-cli/store"
	"absolute-cinema-cli/tui"
)

const appName = "absolute-cinema-cli"

// app is shared by every subcommand once the root pre-run has resolved
// configuration.
type app struct {
	version string
	commit  string

	cfg     config.Config
	log     *logger.Logger
	logFile io.Closer
	client  *service.Client
	tokens  service.TokenSource
	catalog *catalog.Source

	flags rootFlags
}

type rootFlags struct {
	apiURL    string
	token     string
	logLevel  string
	logFormat string
	maxSeats  int
	refresh   bool
}

// Execute runs the CLI and returns the process exit code.
func Execute(version, commit string) int {
	root := NewRootCmd(version, commit)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func NewRootCmd(version, commit string) *cobra.Command {
	a := &app{version: version, commit: commit}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Absolute Cinema in your terminal",
		Long:          `Browse movies and showtimes, pick seats, book and pay from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.apiURL, "api-url", "", "backend base URL (env CINEMA_API_URL)")
	pf.StringVar(&a.flags.token, "token", "", "bearer token for this run only")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error (env CINEMA_LOG_LEVEL)")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "text or json (env CINEMA_LOG_FORMAT)")
	pf.IntVar(&a.flags.maxSeats, "max-seats", 0, "maximum seats per booking, 0 for no limit (env CINEMA_MAX_SEATS)")
	pf.BoolVar(&a.flags.refresh, "refresh", false, "ignore cached catalog data")

	root.AddCommand(
		newTUICmd(a),
		newVersionCmd(a),
		newMoviesCmd(a),
		newMovieCmd(a),
		newCinemasCmd(a),
		newShowtimesCmd(a),
		newFavoritesCmd(a),
		newSeatsCmd(a),
		newBookCmd(a),
		newBookingCmd(a),
		newBookingsCmd(a),
		newCancelCmd(a),
		newPayCmd(a),
		newRefundCmd(a),
		newTicketCmd(a),
		newReceiptCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newRegisterCmd(a),
		newVerifyCmd(a),
		newPasswordCmd(a),
		newProfileCmd(a),
		newAdminCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = a.flags.apiURL
	}
	if flags.Changed("token") {
		cfg.AuthToken = a.flags.token
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.flags.logFormat
	}
	if flags.Changed("max-seats") {
		cfg.MaxSeats = a.flags.maxSeats
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if err := a.setupLogger(cmd); err != nil {
		return err
	}

	var tokens service.TokenSource = auth.NewChain(a.log)
	if flags.Changed("token") {
		tokens = auth.Static(cfg.AuthToken)
	}
	a.tokens = tokens
	a.client = service.NewClient(
		cfg.APIURL,
		&http.Client{Timeout: cfg.HTTPTimeout},
		service.WithTokenSource(tokens),
		service.WithLogger(a.log),
		service.WithUserAgent(appName+"/"+a.version),
	)
	a.catalog = catalog.NewSource(a.client, a.log)
	if a.flags.refresh {
		a.catalog = a.catalog.Refresh()
	}
	return nil
}

// setupLogger writes to stderr for plain commands. The TUI owns the
// terminal, so it logs to a file under the cache directory instead.
func (a *app) setupLogger(cmd *cobra.Command) error {
	path := a.cfg.LogFile
	if path == "" && isTUI(cmd) {
		dir, err := store.CacheDir()
		if err != nil {
			a.log = logger.Discard()
			return nil
		}
		path = filepath.Join(dir, "tui.log")
	}
	if path == "" {
		a.log = logger.New(logger.Config{Level: a.cfg.LogLevel, Format: a.cfg.LogFormat, Output: cmd.ErrOrStderr()})
		return nil
	}
	f, err := logger.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	a.logFile = f
	a.log = logger.New(logger.Config{Level: a.cfg.LogLevel, Format: a.cfg.LogFormat, Output: f})
	return nil
}

func isTUI(cmd *cobra.Command) bool {
	return cmd.Name() == "tui" || !cmd.HasParent()
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func (a *app) runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	model := tui.New(tui.Options{
		Client:   a.client,
		Catalog:  a.catalog,
		MaxSeats: a.cfg.MaxSeats,
		Log:      a.log,
	})
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive booking interface (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", appName, a.version)
			if a.commit != "none" && a.commit != "" {
				fmt.Fprintf(out, " (%s)", a.commit)
			}
			fmt.Fprintln(out)
		},
	}
}
