package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teatak/tagseg/config"
	"github.com/teatak/tagseg/segmenter"
	"github.com/teatak/tagseg/session"
)

func main() {
	if err := newCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "seg",
		Short:         "Segment Chinese text into words",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// a missing .env is fine
			_ = godotenv.Load()
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel()})))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to the YAML config (default $TAGSEG_CONFIG)")
	flags.StringP("granularity", "g", string(session.Fine), "Segmentation granularity: fine or coarse")
	flags.StringArray("dict", nil, "User dictionary file, one word per line (repeatable)")
	flags.IntP("jobs", "j", 1, "Number of concurrent workers")
	flags.Float32("factor", 0, "Lexicon interference factor (default from config)")

	rootCmd.AddCommand(newCutCmd(), newBatchCmd())
	return rootCmd
}

// loadSegmenter builds a segmenter from the persistent flags. The caller
// closes it.
func loadSegmenter(cmd *cobra.Command) (*segmenter.Segmenter, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	name, _ := flags.GetString("granularity")
	dicts, _ := flags.GetStringArray("dict")

	g, err := session.ParseGranularity(name)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	seg, err := segmenter.FromConfig(cfg, g, dicts, nil)
	if err != nil {
		return nil, err
	}
	if flags.Changed("factor") {
		f, _ := flags.GetFloat32("factor")
		seg.SetInterferenceFactor(f)
	}
	slog.Debug("segmenter ready", "granularity", g, "lexicon", seg.Lexicon().Len(), "factor", seg.Lexicon().InterferenceFactor())
	return seg, nil
}
