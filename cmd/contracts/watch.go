package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/contracts-extractor/internal/app"
	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/ingest"
	"github.com/joseph-ayodele/contracts-extractor/internal/pipeline"
)

var (
	watchDir     string
	watchOutDir  string
	watchType    string
	watchInitial bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Extract documents as they land in a directory",
	Long: `watch follows a directory tree and extracts every supported document that is
created or rewritten there. Each record is written to <name>.json in --out-dir,
or next to the document when --out-dir is empty.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := common.NewValidator().
			Field("dir", watchDir, common.Required).
			Field("type", watchType, common.ContractType).
			Err(); err != nil {
			return err
		}
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		if err := cfg.ValidateLLM(); err != nil {
			return err
		}
		if watchOutDir != "" {
			if err := os.MkdirAll(watchOutDir, 0o755); err != nil {
				return err
			}
		}
		ex, err := app.NewExtraction(cfg, logger)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		paths, errs, err := ingest.Watch(ctx, ingest.WatchConfig{
			Roots:       []string{watchDir},
			InitialScan: watchInitial,
			Debounce:    500 * time.Millisecond,
		}, logger)
		if err != nil {
			return err
		}

		for paths != nil || errs != nil {
			select {
			case p, ok := <-paths:
				if !ok {
					paths = nil
					continue
				}
				out := outputPath(p, watchOutDir)
				data, err := os.ReadFile(p)
				if err != nil {
					logger.Warn("watch.read.failed", "file", p, "error", err)
					continue
				}
				res := ex.Processor.Process(ctx, pipeline.Input{Name: filepath.Base(p), Data: data, ContractType: watchType})
				if err := writeRecord(out, res); err != nil {
					logger.Error("watch.write.failed", "file", p, "out", out, "error", err)
					continue
				}
				logger.Info("watch.extracted", "file", p, "out", out, "failed", res.Failed(), "elapsed_ms", res.ElapsedMS())
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("watch.error", "error", err)
			}
		}
		return nil
	},
}

// outputPath maps /in/a/lease.pdf to <outDir or /in/a>/lease.json.
func outputPath(path, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".json"
	if outDir == "" {
		return filepath.Join(filepath.Dir(path), base)
	}
	return filepath.Join(outDir, base)
}

func writeRecord(path string, res pipeline.Result) error {
	var buf bytes.Buffer
	if err := render(&buf, res.Record, "json"); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch recursively (required)")
	watchCmd.Flags().StringVar(&watchOutDir, "out-dir", "", "where <name>.json records are written")
	watchCmd.Flags().StringVar(&watchType, "type", "", "contract type hint applied to every file")
	watchCmd.Flags().BoolVar(&watchInitial, "initial", false, "also extract documents already in the directory")
	_ = watchCmd.MarkFlagRequired("dir")
}
