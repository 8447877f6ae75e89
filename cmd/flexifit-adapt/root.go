package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/engine"
	"github.com/claude/flexifit/internal/generator"
	"github.com/claude/flexifit/internal/models"
)

// snapshot is the input document: everything the engine needs for one user.
type snapshot struct {
	Profile  *models.UserProfile   `json:"profile"`
	Plan     *models.WorkoutPlan   `json:"plan,omitempty"`
	Feedback []models.UserFeedback `json:"feedback,omitempty"`
}

type rootOptions struct {
	input    string
	seed     int64
	now      string
	fullWeek bool
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "flexifit-adapt",
		Short:        "Run the FlexiFit adaptive engine on a JSON snapshot",
		Version:      Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.input, "input", "i", "-", "snapshot file, - for stdin")
	root.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "random seed; 0 seeds from the clock")
	root.PersistentFlags().StringVar(&opts.now, "now", "", "evaluate as of this RFC 3339 time instead of the wall clock")
	root.PersistentFlags().BoolVar(&opts.fullWeek, "full-week", false, "pad generated plans to seven days")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log engine decisions to stderr")

	root.AddCommand(newRunCmd(opts), newAnalyzeCmd(opts), newGenerateCmd(opts))
	return root
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var generate bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Adapt the snapshot's plan and print the outcome",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := opts.load(cmd.InOrStdin())
			if err != nil {
				return err
			}
			eng, err := opts.engine(cmd.ErrOrStderr(), generate)
			if err != nil {
				return err
			}
			out, err := eng.Adapt(snap.Profile, snap.Plan, snap.Feedback)
			if err != nil {
				return fmt.Errorf("adapting plan: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&generate, "generate", false, "generate an initial plan when the snapshot has none")
	return cmd
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Print state, progression level and problem exercises",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := opts.load(cmd.InOrStdin())
			if err != nil {
				return err
			}
			eng, err := opts.engine(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), eng.Analyze(snap.Profile, snap.Plan, snap.Feedback))
		},
	}
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Build a fresh plan from the snapshot's profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := opts.load(cmd.InOrStdin())
			if err != nil {
				return err
			}
			clock, err := opts.clock()
			if err != nil {
				return err
			}
			plan, err := generator.New(clock, generator.Options{FullWeek: opts.fullWeek}).Generate(snap.Profile)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), plan)
		},
	}
}

func (o *rootOptions) load(stdin io.Reader) (*snapshot, error) {
	r := stdin
	if o.input != "-" {
		f, err := os.Open(o.input)
		if err != nil {
			return nil, fmt.Errorf("opening snapshot: %w", err)
		}
		defer f.Close()
		r = f
	}
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Profile == nil {
		return nil, fmt.Errorf("snapshot has no profile")
	}
	for i, fb := range snap.Feedback {
		if err := fb.Validate(); err != nil {
			return nil, fmt.Errorf("feedback entry %d: %w", i, err)
		}
	}
	return &snap, nil
}

func (o *rootOptions) clock() (adaptive.Clock, error) {
	if o.now == "" {
		return adaptive.SystemClock, nil
	}
	t, err := time.Parse(time.RFC3339, o.now)
	if err != nil {
		return nil, fmt.Errorf("parsing --now: %w", err)
	}
	return adaptive.FixedClock(t), nil
}

func (o *rootOptions) engine(stderr io.Writer, generate bool) (*engine.Engine, error) {
	clock, err := o.clock()
	if err != nil {
		return nil, err
	}
	log := slog.New(slog.DiscardHandler)
	if o.verbose {
		log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	opts := engine.Options{Clock: clock, Rand: adaptive.NewRand(o.seed), Logger: log}
	if generate {
		opts.Generator = generator.New(clock, generator.Options{FullWeek: o.fullWeek})
	}
	return engine.New(opts), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
