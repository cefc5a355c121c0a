package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// cutter is the part of *segmenter.Segmenter the line readers need.
type cutter interface {
	CutBatch(texts []string, jobs int) ([][]string, error)
	MaxBatchSize() int
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Segment a file line by line into a space-separated corpus",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
	cmd.Flags().String("input", "data/text.txt", "Input file path")
	cmd.Flags().String("output", "data/corpus.txt", "Output corpus file path")
	return cmd
}

func runBatch(cmd *cobra.Command, _ []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	jobs, _ := cmd.Flags().GetInt("jobs")

	seg, err := loadSegmenter(cmd)
	if err != nil {
		return err
	}
	defer seg.Close()

	inFile, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer inFile.Close()

	outFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	writer := bufio.NewWriter(outFile)
	count, err := cutLines(inFile, writer, seg, jobs, chunkSize(seg, jobs), " ")
	if err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	slog.Info("done", "lines", count, "output", outputPath)
	return nil
}

// chunkSize keeps every worker busy with full batches.
func chunkSize(seg cutter, jobs int) int {
	return seg.MaxBatchSize() * max(jobs, 1)
}

// cutLines segments the non-blank lines of r in chunks of size lines and
// writes one line of sep-joined words per input line. It returns the number
// of lines written.
func cutLines(r io.Reader, w io.Writer, seg cutter, jobs, size int, sep string) (int, error) {
	size = max(size, 1)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	chunk := make([]string, 0, size)
	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		res, err := seg.CutBatch(chunk, jobs)
		if err != nil {
			return fmt.Errorf("lines %d-%d: %w", count+1, count+len(chunk), err)
		}
		for _, words := range res {
			if _, err := fmt.Fprintln(w, strings.Join(words, sep)); err != nil {
				return err
			}
		}
		count += len(chunk)
		chunk = chunk[:0]
		slog.Debug("processed", "lines", count)
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		chunk = append(chunk, line)
		if len(chunk) == size {
			if err := flush(); err != nil {
				return count, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return count, err
	}
	return count, flush()
}
