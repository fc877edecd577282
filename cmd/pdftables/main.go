package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Hanaasagi/pdftables/cmd"
	"github.com/Hanaasagi/pdftables/internal/logger"
	"github.com/Hanaasagi/pdftables/internal/output"
	"github.com/Hanaasagi/pdftables/pkg/tablerecon"
	"github.com/Hanaasagi/pdftables/pkg/tokensource"
)

const (
	appName     = "pdftables"
	logLevelEnv = "PDFTABLES_LOG"
	defaultSize = 4096
)

var (
	Version     = "0.1.0"
	CommitSha   = "unknown"
	FullVersion = Version + "-" + CommitSha
)

// AppOptions holds the command line flags
type AppOptions struct {
	configPath   string
	logLevel     string
	logFile      string
	target       string
	format       string
	strategy     string
	fallback     string
	titleSlicing string
	workers      int
	showVersion  bool
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(c *cobra.Command, opts *AppOptions) (*Config, error) {
	path := opts.configPath
	if path == "" {
		path = defaultConfigPath()
	}

	config, err := LoadConfigFromFile(path)
	if err != nil {
		return nil, err
	}

	flags := c.Flags()
	if flags.Changed("format") {
		config.Output.Format = opts.format
	}
	if flags.Changed("strategy") {
		config.Detection.Strategy = opts.strategy
	}
	if flags.Changed("fallback") {
		config.Detection.Fallback = opts.fallback
	}
	if flags.Changed("title-slicing") {
		config.Detection.TitleSlicing = opts.titleSlicing
	}
	if flags.Changed("workers") {
		config.Detection.Workers = opts.workers
	}

	if err := tablerecon.ValidateConfig(config.Detection); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

// resolveLogLevel picks the flag, then the environment, then the config file.
func resolveLogLevel(opts *AppOptions, config *Config) string {
	if opts.logLevel != "" {
		return opts.logLevel
	}
	if level := os.Getenv(logLevelEnv); level != "" {
		return level
	}
	if config.Log.Level != "" {
		return config.Log.Level
	}
	return "info"
}

// setup loads the configuration and installs the run's logger.
func setup(c *cobra.Command, opts *AppOptions) (*Config, io.Closer, error) {
	config, err := loadConfig(c, opts)
	if err != nil {
		return nil, nil, err
	}

	logFile := opts.logFile
	if logFile == "" {
		logFile = filepath.Join(xdg.StateHome, appName, appName+".log")
	}

	closer, err := logger.InitLogger(logFile, resolveLogLevel(opts, config), "run", uuid.NewString())
	if err != nil {
		return nil, nil, err
	}
	return config, closer, nil
}

// openTarget returns the destination for results, stdout when target is empty.
func openTarget(c *cobra.Command, target string) (io.Writer, func() error, error) {
	if target == "" {
		return c.OutOrStdout(), func() error { return nil }, nil
	}

	file, err := os.Create(target)
	if err != nil {
		return nil, nil, fmt.Errorf("creating target file: %w", err)
	}
	writer := bufio.NewWriterSize(file, defaultSize)
	return writer, func() error {
		if err := writer.Flush(); err != nil {
			file.Close() // nolint: errcheck
			return fmt.Errorf("writing target file: %w", err)
		}
		return file.Close()
	}, nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func extract(ctx context.Context, input string) (tablerecon.Document, error) {
	extractor, err := tokensource.ForPath(input)
	if err != nil {
		return tablerecon.Document{}, err
	}
	if pdfExtractor, ok := extractor.(*tokensource.PDFExtractor); ok {
		pdfExtractor.Logger = slog.Default()
	}

	doc, err := extractor.Extract(ctx, input)
	if err != nil {
		return tablerecon.Document{}, err
	}
	slog.Info("extracted tokens", "input", input, "extractor", extractor.Name(),
		"pages", len(doc.Pages), "tokens", doc.TokenCount())
	return doc, nil
}

// runApp extracts the input, reconstructs its tables and writes them out.
func runApp(c *cobra.Command, opts *AppOptions, input string) error {
	config, closer, err := setup(c, opts)
	if err != nil {
		return err
	}
	defer closer.Close() // nolint: errcheck

	ctx := c.Context()
	doc, err := extract(ctx, input)
	if err != nil {
		return err
	}

	detector := tablerecon.NewDetector(
		tablerecon.WithConfig(config.Detection),
		tablerecon.WithLogger(slog.Default()),
	)
	tables, err := detector.DetectDocument(ctx, doc)
	if err != nil {
		return err
	}
	slog.Info("reconstructed tables", "input", input, "tables", len(tables))

	dst, finish, err := openTarget(c, opts.target)
	if err != nil {
		return err
	}

	colored := config.Output.Format == output.FormatText && opts.target == "" && isTerminal(dst)
	writer, err := output.New(config.Output.Format, config.OutputOptions(colored))
	if err != nil {
		finish() // nolint: errcheck
		return err
	}
	if err := writer.Write(dst, tables); err != nil {
		finish() // nolint: errcheck
		return err
	}
	return finish()
}

// runTokens dumps the extracted token stream as JSON.
func runTokens(c *cobra.Command, opts *AppOptions, input string) error {
	config, closer, err := setup(c, opts)
	if err != nil {
		return err
	}
	defer closer.Close() // nolint: errcheck

	doc, err := extract(c.Context(), input)
	if err != nil {
		return err
	}

	dst, finish, err := openTarget(c, opts.target)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(dst)
	enc.SetEscapeHTML(false)
	if config.Output.Indent > 0 {
		enc.SetIndent("", fmt.Sprintf("%*s", config.Output.Indent, ""))
	}
	if err := enc.Encode(doc); err != nil {
		finish() // nolint: errcheck
		return fmt.Errorf("encoding tokens: %w", err)
	}
	return finish()
}

func newRootCmd() *cobra.Command {
	opts := &AppOptions{}

	rootCmd := &cobra.Command{
		Use:   appName + " <input>",
		Short: "Reconstruct tables from positioned PDF text",
		Long: color.New(color.FgHiMagenta).Sprintf(
			"Reconstruct tables and their footnotes from the positioned text of a PDF. %s",
			color.New(color.FgBlue).Sprintf("(%s)", FullVersion),
		),
		Example:       "  pdftables report.pdf\n  pdftables -f text -s structure report.pdf\n  pdftables tokens report.pdf > tokens.json",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(c.OutOrStdout(), "%s version: %s\n", appName, FullVersion)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("missing input file")
			}
			return runApp(c, opts, args[0])
		},
	}

	tokensCmd := &cobra.Command{
		Use:   "tokens <input>",
		Short: "Dump the extracted token stream as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runTokens(c, opts, args[0])
		},
	}
	rootCmd.AddCommand(tokensCmd)

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&opts.configPath, "config", "c", "", "Config file (default $XDG_CONFIG_HOME/pdftables/config.toml)")
	persistent.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (env "+logLevelEnv+")")
	persistent.StringVar(&opts.logFile, "log-file", "", "Log file (default $XDG_STATE_HOME/pdftables/pdftables.log)")
	persistent.StringVarP(&opts.target, "output", "o", "", "Write the result to this file instead of stdout")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", output.FormatJSON, "Output format: json, yaml or text")
	flags.StringVarP(&opts.strategy, "strategy", "s", tablerecon.StrategyAuto, "Segmentation strategy: auto, title, structure or signature")
	flags.StringVar(&opts.fallback, "fallback", tablerecon.StrategyStructure, "Strategy used by auto on pages without titles: structure or signature")
	flags.StringVar(&opts.titleSlicing, "title-slicing", tablerecon.SliceByStream, "How titled regions are cut: stream or vertical")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "Pages processed concurrently (0 uses every CPU)")
	flags.BoolVarP(&opts.showVersion, "version", "v", false, "Print version and exit")

	rootCmd.SetHelpTemplate(cmd.HelpTemplate)
	rootCmd.SetUsageFunc(func(c *cobra.Command) error {
		return cmd.ColorUsageFunc(c.OutOrStderr(), c)
	})

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("Error executing command", "error", err)
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		stop()
		os.Exit(1)
	}
}
