package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"saul/config"
	"saul/internal/api"
	"saul/internal/checklist"
	"saul/internal/cli"
	"saul/internal/inputhistory"
	"saul/internal/onboarding"
	"saul/internal/preferences"
	"saul/internal/theme"
	"saul/internal/tui"
	"saul/pkg/db"
	"saul/version"
)

var (
	tuiCPUProfilePath string
	caseFlag          int64
	backendFlag       string
	clientFlag        int64
)

var rootCmd = &cobra.Command{
	Use:   "saul",
	Short: "Case notebook for the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		path, err := config.GetConfigFile()
		if err != nil {
			return err
		}
		if onboarding.IsFirstRun() {
			fmt.Println("Welcome to Saul! Let's point it at your backend.")
			if _, err := onboarding.RunWizard(ctx, path); err != nil {
				if errors.Is(err, onboarding.ErrCancelled) {
					return nil
				}
				return fmt.Errorf("setup failed: %w", err)
			}
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		closeLog := setupLogging(cfg)
		defer closeLog()

		if tuiCPUProfilePath != "" {
			stop, err := startTUICPUProfile(tuiCPUProfilePath)
			if err != nil {
				return fmt.Errorf("failed to start CPU profiling: %w", err)
			}
			defer stop()
		}

		local := openLocalStore(ctx)
		defer local.close()
		prefs := local.prefs

		themes := theme.NewStore(ctx, prefs, theme.ParseMode(cfg.Theme))
		defer themes.Close()

		slog.Info("starting notebook", "version", version.Get(), "backend", cfg.BackendURL, "case", cfg.CaseID)
		return tui.Start(ctx, tui.Options{
			Backend:    newClient(cfg),
			Prefs:      prefs,
			Drafts:     local.drafts,
			History:    local.history,
			Theme:      themes,
			Config:     cfg,
			ConfigPath: path,
		})
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write config.yaml interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigFile()
		if err != nil {
			return err
		}
		cfg, err := onboarding.RunWizard(cmd.Context(), path)
		if errors.Is(err, onboarding.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Saved %s (backend %s)\n", path, cfg.BackendURL)
		return nil
	},
}

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "List cases known to the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		closeLog := setupLogging(cfg)
		defer closeLog()

		var (
			cases   []api.Case
			listErr error
		)
		err = withSpinner("Loading cases…", func() {
			cases, listErr = cli.Cases(cmd.Context(), newClient(cfg), clientFlag)
		})
		if err != nil {
			return err
		}
		if listErr != nil {
			return fmt.Errorf("list cases: %w", listErr)
		}
		cli.PrintCases(cmd.OutOrStdout(), cases, time.Now())
		return nil
	},
}

var casesAddCmd = &cobra.Command{
	Use:   "add [description]",
	Short: "Open a new case for a client",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		var desc string
		if len(args) == 1 {
			desc = args[0]
		}
		c, err := cli.AddCase(cmd.Context(), newClient(cfg), clientFlag, desc)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created case %d (open it with saul --case %d)\n", c.CaseID, c.CaseID)
		return nil
	},
}

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List clients known to the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		closeLog := setupLogging(cfg)
		defer closeLog()

		var (
			clients []api.BackendClient
			listErr error
		)
		err = withSpinner("Loading clients…", func() {
			clients, listErr = newClient(cfg).ListClients(cmd.Context())
		})
		if err != nil {
			return err
		}
		if listErr != nil {
			return fmt.Errorf("list clients: %w", listErr)
		}
		cli.PrintClients(cmd.OutOrStdout(), clients, time.Now())
		return nil
	},
}

var clientsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		phone, _ := cmd.Flags().GetString("phone")
		address, _ := cmd.Flags().GetString("address")
		c, err := cli.AddClient(cmd.Context(), newClient(cfg), args[0], phone, address)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created client %d (%s)\n", c.ClientID, c.ClientName)
		return nil
	},
}

var checklistCmd = &cobra.Command{
	Use:   "checklist <case-id>",
	Short: "Show and tick off a case's procedural checklist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || caseID <= 0 {
			return fmt.Errorf("invalid case id %q", args[0])
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		closeLog := setupLogging(cfg)
		defer closeLog()

		toggle, _ := cmd.Flags().GetStringSlice("toggle")
		reset, _ := cmd.Flags().GetBool("reset")
		asJSON, _ := cmd.Flags().GetBool("json")

		local := openLocalStore(cmd.Context())
		defer local.close()

		return cli.Checklist(cmd.Context(), newClient(cfg), checklist.NewTracker(local.prefs), caseID,
			cli.ChecklistOptions{Toggle: toggle, Reset: reset, JSON: asJSON}, cmd.OutOrStdout())
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, backend and local storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := cli.Doctor(cmd.Context(), cmd.OutOrStdout(), nil)
		if err != nil {
			return err
		}
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func loadConfig() (config.Config, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return cfg, err
	}
	if backendFlag != "" {
		cfg.BackendURL = backendFlag
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	if caseFlag > 0 {
		cfg.CaseID = caseFlag
	}
	return cfg, nil
}

func withSpinner(title string, action func()) error {
	return spinner.New().
		Title(title).
		Style(lipgloss.NewStyle().Foreground(lipgloss.Color("#E8B44F"))).
		Action(action).
		Run()
}

func newClient(cfg config.Config) *api.Client {
	return api.New(cfg.BackendURL, api.WithTimeout(cfg.RequestTimeout))
}

type localStore struct {
	prefs   preferences.KV
	drafts  tui.DraftStore
	history inputhistory.Service
	close   func()
}

// openLocalStore falls back to in-memory stores when the database cannot be
// opened; the notebook still works, settings just do not survive.
func openLocalStore(ctx context.Context) localStore {
	path, err := config.GetDatabasePath()
	if err == nil {
		var conn *sql.DB
		if conn, err = db.Open(ctx, path); err == nil {
			store := preferences.New(conn)
			return localStore{
				prefs:   store,
				drafts:  store,
				history: inputhistory.NewSQLiteService(conn),
				close:   func() { _ = conn.Close() },
			}
		}
	}
	slog.Warn("local database unavailable, using memory", "error", err)
	return localStore{
		prefs:   preferences.NewMemory(),
		history: inputhistory.NewMemory(),
		close:   func() {},
	}
}

// setupLogging sends slog output to a rotating file since the TUI owns the
// terminal.
func setupLogging(cfg config.Config) func() {
	level, _ := config.ParseLevel(cfg.Log.Level)

	path := cfg.Log.File
	if path == "" {
		var err error
		if path, err = config.GetLogPath(); err != nil {
			slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
			return func() {}
		}
	}
	fileLogger := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50,
		MaxAge:     7,
		MaxBackups: 3,
		Compress:   true,
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(fileLogger, &slog.HandlerOptions{Level: level})))
	return func() { _ = fileLogger.Close() }
}

func startTUICPUProfile(path string) (func(), error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(file); err != nil {
		file.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		file.Close()
		fmt.Printf("Saved TUI CPU profile to %s\n", path)
	}, nil
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = true

	rootCmd.Flags().StringVar(&tuiCPUProfilePath, "tui-cpuprofile", "", "Write TUI CPU profile to file")
	rootCmd.Flags().Int64Var(&caseFlag, "case", 0, "Open this case instead of the last one")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Backend URL (overrides config and "+config.BackendURLEnv+")")

	checklistCmd.Flags().StringSlice("toggle", nil, "Item ids to tick or untick, e.g. 7-2")
	checklistCmd.Flags().Bool("reset", false, "Clear all ticks for the case first")
	checklistCmd.Flags().Bool("json", false, "Print the checklist as JSON")

	casesCmd.PersistentFlags().Int64Var(&clientFlag, "client", 0, "Only cases of this client id")
	casesCmd.AddCommand(casesAddCmd)

	clientsAddCmd.Flags().String("phone", "", "Contact phone number")
	clientsAddCmd.Flags().String("address", "", "Postal address")
	clientsCmd.AddCommand(clientsAddCmd)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(casesCmd)
	rootCmd.AddCommand(checklistCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
