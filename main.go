package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"qgrover/internal/grover"
	"qgrover/internal/sink"
	"qgrover/internal/statevec"
)

// Exit codes per error class.
const (
	exitFailure   = 1
	exitInvalid   = 2
	exitResources = 3
	exitNumerical = 4
)

func main() {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "qgrover: %v\n", err)
		os.Exit(exitFailure)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "qgrover",
		Usage: "simulate Grover's search on a state vector and trace the amplification",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "qubits", Aliases: []string{"n"}, Value: grover.DefaultQubits, Usage: "register size including the ancilla", EnvVars: []string{"GROVER_QUBITS"}},
			&cli.StringFlag{Name: "symbol", Aliases: []string{"s"}, Value: string(rune(grover.DefaultTarget)), Usage: "character whose code point is the target", EnvVars: []string{"GROVER_SYMBOL"}},
			&cli.StringFlag{Name: "target", Aliases: []string{"t"}, Usage: "target pattern (65, 0x41, 0b1000001, 'A'); overrides --symbol", EnvVars: []string{"GROVER_TARGET"}},
			&cli.IntFlag{Name: "iterations", Aliases: []string{"k"}, Value: grover.AutoIterations, Usage: "iteration count, -1 for floor(pi/4*sqrt(2^(n-1))), 0 for the prepared state only", EnvVars: []string{"GROVER_ITERATIONS"}},
			&cli.StringFlag{Name: "mode", Value: string(grover.ModeFolded), Usage: "oracle simulation: folded or literal", EnvVars: []string{"GROVER_MODE"}},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Value: 1, Usage: "goroutines per gate", EnvVars: []string{"GROVER_WORKERS"}},
			&cli.Uint64Flag{Name: "max-bytes", Value: statevec.DefaultMaxBytes, Usage: "amplitude memory ceiling", EnvVars: []string{"GROVER_MAX_BYTES"}},
			&cli.BoolFlag{Name: "no-norm-check", Usage: "skip the normalization check after every gate", EnvVars: []string{"GROVER_NO_NORM_CHECK"}},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write the trace as JSON (probs.json)", EnvVars: []string{"GROVER_OUT"}},
			&cli.BoolFlag{Name: "detailed", Usage: "write the whole run to --out instead of the bare trace"},
			&cli.StringFlag{Name: "db", Usage: "LevelDB directory to record runs in", EnvVars: []string{"GROVER_DB"}},
			&cli.StringFlag{Name: "qasm", Usage: "write the search circuit as OpenQASM 2.0", EnvVars: []string{"GROVER_QASM"}},
			&cli.BoolFlag{Name: "tui", Usage: "animate a word through the amplification"},
			&cli.StringFlag{Name: "word", Value: "Hello, Grover!", Usage: "word shown by --tui", EnvVars: []string{"GROVER_WORD"}},
			&cli.StringFlag{Name: "trace", Usage: "animate a saved probs.json instead of running a search"},
			&cli.Int64Flag{Name: "seed", Usage: "flicker seed, 0 for time based", EnvVars: []string{"GROVER_SEED"}},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error", EnvVars: []string{"GROVER_LOG_LEVEL"}},
			&cli.StringFlag{Name: "log-file", Usage: "append logs to this file", EnvVars: []string{"GROVER_LOG_FILE"}},
		},
		Action: run,
		Commands: []*cli.Command{
			{
				Name:  "runs",
				Usage: "list runs recorded in a LevelDB directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true, Usage: "LevelDB directory", EnvVars: []string{"GROVER_DB"}},
				},
				Action: listRuns,
			},
		},
	}
}

// setupLogger builds the process logger. In TUI mode logs never reach the
// terminal.
func setupLogger(c *cli.Context, tui bool) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(c.String("log-level"))
	if err != nil {
		return nil, nil, cli.Exit(err.Error(), exitInvalid)
	}

	var w io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)
	switch {
	case c.String("log-file") != "":
		f, err := os.OpenFile(c.String("log-file"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	case tui:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "qgrover",
		Level:           level,
	})
	return logger, closer, nil
}

// configFromFlags maps the command line onto a grover.Config.
func configFromFlags(c *cli.Context, logger *log.Logger) (grover.Config, error) {
	cfg := grover.DefaultConfig()
	cfg.Qubits = c.Int("qubits")
	cfg.Iterations = c.Int("iterations")
	cfg.Mode = grover.Mode(c.String("mode"))
	cfg.Workers = c.Int("workers")
	cfg.MaxBytes = c.Uint64("max-bytes")
	cfg.CheckNorm = !c.Bool("no-norm-check")
	cfg.Logger = logger

	if cfg.Qubits < 2 {
		return cfg, fmt.Errorf("%w: register needs at least 2 qubits, got %d", grover.ErrInvalidArgument, cfg.Qubits)
	}
	dataBits := min(cfg.Qubits-1, 62)

	var err error
	if c.IsSet("target") {
		cfg.Target, err = parseTarget(c.String("target"), dataBits)
	} else {
		cfg.Target, err = parseSymbol(c.String("symbol"), dataBits)
	}
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", grover.ErrInvalidArgument, err)
	}
	return cfg, cfg.Validate()
}

// openSinks assembles the outputs requested on the command line.
func openSinks(c *cli.Context, logger *log.Logger) (sink.Multi, error) {
	var out sink.Multi
	if path := c.String("out"); path != "" {
		out = append(out, sink.NewJSONFile(path, c.Bool("detailed")))
	}
	if dir := c.String("db"); dir != "" {
		db, err := sink.OpenLevelDB(dir, logger)
		if err != nil {
			return nil, err
		}
		out = append(out, db)
	}
	return out, nil
}

func run(c *cli.Context) error {
	tui := c.Bool("tui")
	logger, closer, err := setupLogger(c, tui)
	if err != nil {
		return err
	}
	defer closer.Close()

	cfg, err := configFromFlags(c, logger)
	if err != nil {
		return exitError(err)
	}

	out, err := openSinks(c, logger)
	if err != nil {
		return exitError(err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Error("close sinks", "err", err)
		}
	}()

	if path := c.String("qasm"); path != "" {
		if err := writeQASM(path, cfg); err != nil {
			return exitError(err)
		}
		logger.Info("circuit written", "path", path)
	}

	if tui {
		return runTUI(c, cfg, out)
	}

	ctrl, err := grover.NewController(cfg)
	if err != nil {
		return exitError(err)
	}
	res, err := ctrl.Run(c.Context)
	if err != nil {
		return exitError(err)
	}
	if err := out.Write(c.Context, res); err != nil {
		return exitError(err)
	}

	printResult(c.App.Writer, res)
	return nil
}

func runTUI(c *cli.Context, cfg grover.Config, out sink.Multi) error {
	if cfg.Qubits > maxTUIQubits {
		return exitError(fmt.Errorf("%w: --tui animates at most %d qubits, got %d",
			grover.ErrInvalidArgument, maxTUIQubits, cfg.Qubits))
	}

	var trace []float64
	if path := c.String("trace"); path != "" {
		var err error
		if trace, err = sink.ReadTrace(path); err != nil {
			return exitError(err)
		}
	}

	var s sink.Sink
	if len(out) > 0 {
		s = out
	}
	m := initialModel(cfg, c.String("word"), trace, s, c.Int64("seed"))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(c.Context))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return exitError(err)
	}
	return nil
}

func writeQASM(path string, cfg grover.Config) error {
	ctrl, err := grover.NewController(cfg)
	if err != nil {
		return err
	}
	src := ctrl.Plan().ToQASM(ctrl.Iterations())
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func printResult(w io.Writer, res *grover.Result) {
	dataBits := res.Qubits - 1
	fmt.Fprintf(w, "run        %s\n", res.ID)
	fmt.Fprintf(w, "target     %s\n", formatPattern(res.Target, dataBits))
	fmt.Fprintf(w, "mode       %s\n", res.Mode)
	fmt.Fprintf(w, "iterations %d\n", res.Iterations)
	for _, st := range res.Steps {
		fmt.Fprintf(w, "  %3d  %.6f  %s\n", st.Iteration, st.MaxProbability, formatPattern(st.Argmax, dataBits))
	}
	fmt.Fprintf(w, "digest     %s\n", res.Digest)
	fmt.Fprintf(w, "elapsed    %s\n", res.Elapsed)
}

func listRuns(c *cli.Context) error {
	db, err := sink.OpenLevelDB(c.String("db"), log.New(io.Discard))
	if err != nil {
		return exitError(err)
	}
	defer db.Close()

	ids, err := db.IDs()
	if err != nil {
		return exitError(err)
	}
	for _, id := range ids {
		res, err := db.Get(id)
		if err != nil {
			return exitError(err)
		}
		last := res.Last()
		fmt.Fprintf(c.App.Writer, "%s  %s  n=%d  %-7s  k=%-3d  p=%.6f  %s\n",
			id, res.StartedAt.Format("2006-01-02 15:04:05"), res.Qubits, res.Mode,
			res.Iterations, last.MaxProbability, formatPattern(res.Target, res.Qubits-1))
	}
	return nil
}

// exitError attaches the exit code for err's class.
func exitError(err error) error {
	code := exitFailure
	switch {
	case errors.Is(err, grover.ErrInvalidArgument):
		code = exitInvalid
	case errors.Is(err, grover.ErrResourceExhausted):
		code = exitResources
	case errors.Is(err, grover.ErrNumericalIntegrity):
		code = exitNumerical
	}
	return cli.Exit(err.Error(), code)
}
