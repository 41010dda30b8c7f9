package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/contracts-extractor/internal/app"
	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
	"github.com/joseph-ayodele/contracts-extractor/internal/export"
	"github.com/joseph-ayodele/contracts-extractor/internal/ingest"
	"github.com/joseph-ayodele/contracts-extractor/internal/pipeline"
)

var (
	batchDir     string
	batchXLSX    string
	batchType    string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Extract every document under a directory into one XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := common.NewValidator().
			Field("dir", batchDir, common.Required).
			Field("type", batchType, common.ContractType).
			Err(); err != nil {
			return err
		}
		if batchXLSX == "" {
			batchXLSX = filepath.Join(filepath.Dir(filepath.Clean(batchDir)), "contracts.xlsx")
		}
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		if err := cfg.ValidateLLM(); err != nil {
			return err
		}
		if batchWorkers <= 0 {
			batchWorkers = cfg.Queue.Workers
		}
		ex, err := app.NewExtraction(cfg, logger)
		if err != nil {
			return err
		}

		files, stats, err := ingest.CollectFiles(batchDir, true)
		if err != nil {
			return err
		}
		logger.Info("batch.scan", "dir", batchDir, "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)
		if len(files) == 0 {
			return fmt.Errorf("no supported documents under %s", batchDir)
		}

		start := time.Now()
		results := runBatch(cmd.Context(), ex.Processor, files, batchType, batchWorkers, logger)

		failed := 0
		for _, r := range results {
			if !r.Succeeded() {
				failed++
			}
		}
		xlsx, err := export.NewService(logger).ContractsXLSX(cmd.Context(), uuid.New(), results)
		if err != nil {
			return err
		}
		if err := os.WriteFile(batchXLSX, xlsx, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", batchXLSX, err)
		}
		logger.Info("batch.done",
			"files", len(results),
			"failed", failed,
			"out", batchXLSX,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d files, %d failed -> %s\n", len(results), failed, batchXLSX)
		return err
	},
}

// runBatch processes files with at most workers in flight. Results keep the order of files;
// a file that fails still gets its row.
func runBatch(ctx context.Context, proc *pipeline.Processor, files []string, contractType string,
	workers int, logger *slog.Logger) []entity.TaskResult {
	results := make([]entity.TaskResult, len(files))

	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i, path := range files {
		g.Go(func() error {
			name := filepath.Base(path)
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Warn("batch.read.failed", "file", path, "error", err)
				rec := entity.DefaultRecord()
				results[i] = entity.TaskResult{Seq: i + 1, FileName: name, Record: &rec, Error: err.Error()}
				return nil
			}
			tr := proc.Process(ctx, pipeline.Input{Name: name, Data: data, ContractType: contractType}).TaskResult()
			tr.Seq = i + 1
			results[i] = tr
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func init() {
	batchCmd.Flags().StringVar(&batchDir, "dir", "", "directory to scan recursively (required)")
	batchCmd.Flags().StringVar(&batchXLSX, "xlsx", "", "output workbook (default <parent of dir>/contracts.xlsx)")
	batchCmd.Flags().StringVar(&batchType, "type", "", "contract type hint applied to every file")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "files processed at once (default $QUEUE_WORKERS)")
	_ = batchCmd.MarkFlagRequired("dir")
}
