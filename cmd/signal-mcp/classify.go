package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ironsheep/traffic-signal-mcp/internal/host"
	"github.com/ironsheep/traffic-signal-mcp/internal/imaging"
	"github.com/ironsheep/traffic-signal-mcp/internal/signal"
)

var (
	annotateDir string
	jsonOutput  bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify <image>...",
	Short: "Classify the signal state of one or more frame files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := newPipeline()
		if err != nil {
			return err
		}
		return runClassify(pipeline, args, cmd.OutOrStdout())
	},
}

func init() {
	classifyCmd.Flags().StringVarP(&annotateDir, "annotate-dir", "a", "", "Write each annotated working frame as PNG into this directory")
	classifyCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print one JSON report per frame instead of '<path>: <STATE>'")
	rootCmd.AddCommand(classifyCmd)
}

// runClassify processes every path in order. A frame that cannot be loaded or
// classified is logged and counted; the rest still run.
func runClassify(pipeline *signal.Pipeline, paths []string, out io.Writer) error {
	if annotateDir != "" {
		if err := os.MkdirAll(annotateDir, 0o755); err != nil {
			return fmt.Errorf("failed to create annotate dir: %w", err)
		}
	}

	var bar *progressbar.ProgressBar
	if len(paths) > 1 {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("Classifying"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	session := uuid.NewString()
	enc := json.NewEncoder(out)
	failed := 0

	for i, path := range paths {
		if err := classifyOne(pipeline, session, uint64(i+1), path, out, enc); err != nil {
			logger.Error().Err(err).Str("frame", path).Msg("failed to classify frame")
			failed++
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d frames failed", failed, len(paths))
	}
	return nil
}

func classifyOne(pipeline *signal.Pipeline, session string, id uint64, path string, out io.Writer, enc *json.Encoder) error {
	img, err := imaging.LoadImage(path)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := pipeline.Process(img)
	if err != nil {
		return err
	}
	frame := &host.Frame{ID: id, Name: path, Image: img, Captured: start}
	report := host.NewReport(session, frame, res, time.Since(start))

	if annotateDir != "" {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".png"
		if err := imaging.SavePNG(filepath.Join(annotateDir, name), res.Annotate()); err != nil {
			return err
		}
	}

	if jsonOutput {
		return enc.Encode(report)
	}
	_, err = fmt.Fprintf(out, "%s: %s\n", path, report.State)
	return err
}
