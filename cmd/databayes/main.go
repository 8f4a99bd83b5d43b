// Command databayes is a thin CLI shell over the index, filter, and
// Bayesian engines: a cobra root plus one subcommand per core operation,
// with JSON-lines output when stdout isn't a terminal or --json is passed.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rfaulkner/databayes/internal/bayes"
	"github.com/rfaulkner/databayes/internal/config"
	"github.com/rfaulkner/databayes/internal/emit"
	"github.com/rfaulkner/databayes/internal/index"
	"github.com/rfaulkner/databayes/internal/store"
	"github.com/rfaulkner/databayes/internal/store/memory"
	"github.com/rfaulkner/databayes/internal/store/sqlite"
)

// stopWatch, when non-nil, shuts down the external-write watcher started on
// the backend during PersistentPreRunE.
var stopWatch func()

var (
	rootCtx    = context.Background()
	jsonOutput bool
	verbose    bool
	logFile    string
	watchFile  bool

	emitter *emit.Emitter
	backend store.Store
	idx     *index.Index
	engine  *bayes.Engine
)

var rootCmd = &cobra.Command{
	Use:   "databayes",
	Short: "A relational-probabilistic store: entities, typed relations, Bayesian queries",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if !cmd.Flags().Changed("json") {
			jsonOutput = config.GetBool("json") || !term.IsTerminal(int(os.Stdout.Fd()))
		}
		if !cmd.Flags().Changed("verbose") {
			verbose = config.GetBool("verbose")
		}
		if !cmd.Flags().Changed("log-file") {
			logFile = config.GetString("log.file")
		}
		if logFile != "" {
			emitter = emit.NewRotatingFile(logFile, verbose)
		} else {
			emitter = emit.NewStderr(verbose)
		}

		var err error
		backend, err = openBackend()
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("watch") {
			watchFile = config.GetBool("backend.watch")
		}
		if sqliteStore, ok := backend.(*sqlite.Store); ok && watchFile {
			stop, err := sqliteStore.WatchExternalWrites()
			if err != nil {
				return fmt.Errorf("starting file watcher: %w", err)
			}
			stopWatch = stop
		}

		idx = index.New(backend, emitter, index.WithCounterKey(config.GetString("backend.counter-key")))
		seed := config.GetInt64("sample.seed")
		var rng bayes.RNG
		if seed == 0 {
			rng = bayes.DefaultRNG{}
		} else {
			rng = bayes.NewSeededRNG(uint64(seed))
		}
		engine = bayes.New(idx, rng, emitter)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if stopWatch != nil {
			stopWatch()
			stopWatch = nil
		}
		if backend != nil {
			return backend.Close()
		}
		return nil
	},
}

func openBackend() (store.Store, error) {
	switch driver := config.GetString("backend.driver"); driver {
	case "sqlite":
		return sqlite.Open(rootCtx, config.GetString("backend.path"),
			sqlite.WithEmitter(emitter),
			sqlite.WithFileLock(config.GetBool("backend.file-lock")))
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("databayes: unknown backend driver %q", driver)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON instead of human-readable text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "emit debug notes to stderr")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "rotate emitted output to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&watchFile, "watch", false, "log a note when the sqlite backend file is modified externally")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
