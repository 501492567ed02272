// Command ls-deflect assesses asteroid impact risk against Earth and
// simulates kinetic impactor deflection.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/litescript/ls-deflect/internal/config"
	"github.com/litescript/ls-deflect/internal/logging"
	"github.com/litescript/ls-deflect/internal/sim"
	"github.com/litescript/ls-deflect/internal/ui"
	"github.com/litescript/ls-deflect/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the state shared by all commands after the config is loaded.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg     *config.Config
	log     *logging.Logger
	logFile *os.File
	metrics *sim.Metrics

	// now is replaced in tests
	now func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New(), now: time.Now}

	root := &cobra.Command{
		Use:   "ls-deflect",
		Short: "Asteroid impact risk and kinetic impactor deflection",
		Long: `ls-deflect propagates Earth and an asteroid on Keplerian orbits, finds
where their paths come within a threshold distance, and simulates how a
kinetic impactor changes the asteroid's course.

Settings come from built-in defaults, an optional config file (YAML, TOML
or JSON), LSDEFLECT_* environment variables and flags, in increasing
priority. Run without a subcommand on a terminal to open the interactive
view; otherwise the risk summary is printed.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				return a.runTUI(cmd)
			}
			return a.runSummary(cmd, false)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Config file (YAML, TOML or JSON)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-file", "", "Write logs to file instead of stderr")
	flags.String("metrics-file", "", "Write Prometheus metrics to file after the run")
	flags.Float64("start-jd", 0, "Start Julian date (0 = now)")
	flags.Int("samples", 0, "Samples per orbit")
	flags.Float64("threshold", 0, "Intersection threshold in AU")
	a.bind(flags.Lookup("log-level"), "log.level")
	a.bind(flags.Lookup("log-file"), "log.file")
	a.bind(flags.Lookup("metrics-file"), "metrics.file")
	a.bind(flags.Lookup("start-jd"), "simulation.start_jd")
	a.bind(flags.Lookup("samples"), "simulation.samples")
	a.bind(flags.Lookup("threshold"), "simulation.threshold_au")

	root.AddCommand(
		a.riskCmd(),
		a.deflectCmd(),
		a.exportCmd(),
		a.tuiCmd(),
		versionCmd(),
	)
	return root
}

// setup loads the config and creates the logger and metrics.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", a.cfgFile, err)
		}
	}
	cfg, err := config.FromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log = logging.New(logging.ParseLevel(cfg.Log.Level))
	a.log.SetOutput(cmd.ErrOrStderr())
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		a.log.SetOutput(f)
	}
	a.metrics = sim.NewMetrics()

	if a.cfgFile != "" {
		a.log.Debug("Loaded config %s", a.cfgFile)
	}
	return nil
}

// teardown writes the metrics file if configured and closes the log file.
func (a *app) teardown() error {
	var err error
	if a.cfg != nil && a.cfg.Metrics.File != "" {
		if err = a.metrics.WriteFile(a.cfg.Metrics.File); err != nil {
			err = fmt.Errorf("write metrics: %w", err)
		} else {
			a.log.Debug("Wrote metrics to %s", a.cfg.Metrics.File)
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
	return err
}

// bind makes flag f override the config key when set.
func (a *app) bind(f *pflag.Flag, key string) {
	if err := a.v.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", f.Name, err))
	}
}

func (a *app) runner() *sim.Runner {
	return sim.NewRunner(a.log, a.metrics)
}

func (a *app) run(ctx context.Context) (*sim.Report, error) {
	sc, err := a.cfg.Scenario(a.now())
	if err != nil {
		return nil, err
	}
	a.log.Info("Simulating %s from JD %.3f (%d samples)", sc.Name, sc.StartJD, sc.Samples)
	rep, err := a.runner().Run(ctx, sc)
	if err != nil {
		return nil, err
	}
	a.log.Info("Done in %s: %d intersections", rep.Elapsed.Round(time.Millisecond), len(rep.Intersections))
	return rep, nil
}

func (a *app) runSummary(cmd *cobra.Command, asJSON bool) error {
	rep, err := a.run(cmd.Context())
	if err != nil {
		return err
	}
	if asJSON {
		return rep.WriteSummaryJSON(cmd.OutOrStdout())
	}
	rep.WriteSummaryTable(cmd.OutOrStdout())
	return nil
}

func (a *app) runTUI(cmd *cobra.Command) error {
	sc, err := a.cfg.Scenario(a.now())
	if err != nil {
		return err
	}
	// Log lines on stderr would corrupt the alt screen
	if a.logFile == nil {
		a.log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(ui.New(cmd.Context(), a.runner(), sc), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

func (a *app) riskCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Print the risk summary for the configured asteroid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSummary(cmd, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func (a *app) deflectCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "deflect",
		Short: "Simulate a kinetic impactor and print the result",
		Long: `Simulate a kinetic impactor striking the asteroid.

With --impact-index -1 (the default) the impact point is the first
intercept reachable from launch at the spacecraft's speed; otherwise the
spacecraft hits the given sample of the asteroid path.

Examples:
  ls-deflect deflect --velocity 10 --mass 1500
  ls-deflect deflect --impact-index 90 --mode direct --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.Spacecraft.Enabled = true
			return a.runSummary(cmd, asJSON)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	flags.Float64("velocity", 0, "Spacecraft speed relative to the asteroid in km/s")
	flags.Float64("mass", 0, "Spacecraft mass in kg")
	flags.Float64("beta", 0, "Momentum enhancement factor (0 = 1)")
	flags.Float64("launch-offset", 0, "Launch time after the start in days")
	flags.Int("impact-index", -1, "Asteroid path sample to strike (-1 = planned intercept)")
	flags.String("mode", "", "Propagation method: corrected or direct")
	a.bind(flags.Lookup("velocity"), "spacecraft.velocity_kms")
	a.bind(flags.Lookup("mass"), "spacecraft.mass_kg")
	a.bind(flags.Lookup("beta"), "spacecraft.beta")
	a.bind(flags.Lookup("launch-offset"), "spacecraft.launch_offset_days")
	a.bind(flags.Lookup("impact-index"), "spacecraft.impact_index")
	a.bind(flags.Lookup("mode"), "spacecraft.mode")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the full report, including sampled paths, as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.run(cmd.Context())
			if err != nil {
				return err
			}
			if output == "-" {
				if err := rep.WriteJSON(cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("write JSON to stdout: %w", err)
				}
				return nil
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer f.Close()
			if err := rep.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
			a.log.Info("Wrote report to %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file (- for stdout)")
	return cmd
}

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive orbit and deflection view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config loading
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "ls-deflect v%s\n", version.Version)
			return nil
		},
	}
}
