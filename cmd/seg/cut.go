package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newCutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cut [TEXT...]",
		Short: "Segment text from the arguments or standard input",
		Long: `Segment the arguments as one text. Without arguments, segment each
line of standard input; piped input is cut in batches with --jobs workers.`,
		RunE: runCut,
	}
	cmd.Flags().String("sep", " / ", "Word separator in the output")
	return cmd
}

func runCut(cmd *cobra.Command, args []string) error {
	sep, _ := cmd.Flags().GetString("sep")
	jobs, _ := cmd.Flags().GetInt("jobs")

	seg, err := loadSegmenter(cmd)
	if err != nil {
		return err
	}
	defer seg.Close()

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	if len(args) > 0 {
		words, err := seg.Cut(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, strings.Join(words, sep))
		return nil
	}

	if isTerminal(os.Stdin) {
		return interactive(cmd, seg, sep)
	}
	_, err = cutLines(cmd.InOrStdin(), out, seg, jobs, chunkSize(seg, jobs), sep)
	return err
}

// interactive cuts one line at a time and keeps going past bad lines.
func interactive(cmd *cobra.Command, seg cutter, sep string) error {
	fmt.Fprintln(cmd.ErrOrStderr(), "Enter text to segment (Ctrl+D to exit):")
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		res, err := seg.CutBatch([]string{text}, 1)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(res[0], sep))
	}
	return scanner.Err()
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
