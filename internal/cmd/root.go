// Package cmd wires the fgr command line: flag parsing, config loading,
// query parsing and the search run itself.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/fgr/internal/config"
	"github.com/harrison/fgr/internal/logger"
	"github.com/harrison/fgr/internal/query"
	"github.com/harrison/fgr/internal/walk"
)

type rootFlags struct {
	expression    string
	configPath    string
	workers       int
	timeout       string
	logLevel      string
	print0        bool
	printTree     bool
	ignoreHidden  bool
	readIgnore    bool
	readGitIgnore bool
}

// NewRootCommand builds the fgr command.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "fgr [flags] [expression] [path...]",
		Short: "Find files matching a boolean query over their attributes",
		Long: `fgr walks one or more directory trees and prints the paths of entries
matching a boolean query over file attributes such as name, size,
modification time, permissions, type and content.

Examples:
  fgr 'name=*.go and size>10Kb'
  fgr -e 'mtime>now-1d' /var/log
  fgr 'type=img or type=vid' ~/Pictures ~/Movies`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.expression, "expression", "e", "", "query expression (default: first positional argument)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "number of evaluation workers (default: CPU count)")
	cmd.Flags().StringVar(&flags.timeout, "timeout", "", "per-file content read timeout, e.g. 500ms (default: 1s)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	cmd.Flags().BoolVarP(&flags.print0, "print0", "0", false, "separate matches with NUL instead of newline")
	cmd.Flags().BoolVarP(&flags.printTree, "print-tree", "q", false, "print the normalized expression tree in DOT format and exit")
	cmd.Flags().BoolVar(&flags.ignoreHidden, "ignore-hidden", false, "skip hidden files and directories")
	cmd.Flags().BoolVar(&flags.readIgnore, "read-ignore", false, "honor .ignore files at each root")
	cmd.Flags().BoolVar(&flags.readGitIgnore, "read-git-ignore", false, "honor .gitignore files at each root")

	return cmd
}

func runSearch(cmd *cobra.Command, flags *rootFlags, args []string) error {
	expression := flags.expression
	roots := args
	if expression == "" {
		if len(args) == 0 {
			return fmt.Errorf("no expression given, pass one as the first argument or with -e")
		}
		expression = args[0]
		roots = args[1:]
	}

	cfg, err := buildConfig(cmd, flags)
	if err != nil {
		return err
	}
	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	expr, err := query.Parse(expression)
	if err != nil {
		return err
	}
	expr = query.Normalize(expr)
	log.Debugf("normalized expression: %s", expr)

	if flags.printTree {
		fmt.Fprint(cmd.OutOrStdout(), query.RenderDOT(expr))
		return nil
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	installInterruptHandler(cancel, log)

	engine := walk.NewEngine(expr, walk.Options{
		Roots:         roots,
		Workers:       cfg.Workers,
		ReadTimeout:   cfg.ReadTimeout,
		IgnoreHidden:  cfg.IgnoreHidden,
		ReadIgnore:    cfg.ReadIgnore,
		ReadGitIgnore: cfg.ReadGitIgnore,
		Logger:        log,
	})

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	separator := byte('\n')
	if flags.print0 {
		separator = 0
	}

	err = engine.Run(ctx, func(r walk.Result) {
		if r.Err != nil {
			log.Errorf("%v", r.Err)
			return
		}
		if r.Matched {
			out.WriteString(r.Path)
			out.WriteByte(separator)
		}
	})
	if err == context.Canceled {
		log.Warnf("search interrupted")
		return nil
	}
	return err
}

// buildConfig merges defaults, the config file, environment variables
// and explicitly set flags, in that order.
func buildConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("workers") {
		cfg.Workers = flags.workers
	}
	if cmd.Flags().Changed("timeout") {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q", flags.timeout)
		}
		cfg.ReadTimeout = d
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if cmd.Flags().Changed("ignore-hidden") {
		cfg.IgnoreHidden = flags.ignoreHidden
	}
	if cmd.Flags().Changed("read-ignore") {
		cfg.ReadIgnore = flags.readIgnore
	}
	if cmd.Flags().Changed("read-git-ignore") {
		cfg.ReadGitIgnore = flags.readGitIgnore
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// installInterruptHandler cancels the run on the first interrupt and
// exits immediately on the second.
func installInterruptHandler(cancel context.CancelFunc, log *logger.ConsoleLogger) {
	interrupts := make(chan os.Signal, 2)
	signal.Notify(interrupts, os.Interrupt)
	go func() {
		<-interrupts
		log.Warnf("interrupt received, finishing in-flight work (interrupt again to exit now)")
		cancel()
		<-interrupts
		os.Exit(130)
	}()
}
