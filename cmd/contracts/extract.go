package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/contracts-extractor/internal/app"
	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/pipeline"
)

var (
	extractFile   string
	extractType   string
	extractOutput string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the contract fields of one document",
	Example: `  contracts extract --file lease.pdf --type lease
  contracts extract --file 采购合同.docx --out yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := common.NewValidator().
			Field("file", extractFile, common.Required, common.FileName).
			Field("type", extractType, common.ContractType).
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
		ex, err := app.NewExtraction(cfg, logger)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(extractFile)
		if err != nil {
			return err
		}
		res := ex.Processor.Process(cmd.Context(), pipeline.Input{
			Name:         filepath.Base(extractFile),
			Data:         data,
			ContractType: extractType,
		})
		if err := render(cmd.OutOrStdout(), res.Record, extractOutput); err != nil {
			return err
		}
		if res.Failed() {
			return fmt.Errorf("extract %s: %w", extractFile, res.Err)
		}
		for _, w := range res.Warnings {
			logger.Warn("extract.warning", "file", extractFile, "warning", w)
		}
		return nil
	},
}

var (
	ocrFile string
)

var ocrCmd = &cobra.Command{
	Use:   "ocr",
	Short: "Print the recognized text of one document",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := common.NewValidator().
			Field("file", ocrFile, common.Required, common.FileName).
			Err(); err != nil {
			return err
		}
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		if cfg.OCR.Engine != app.EngineTesseract && cfg.LLM.APIKey == "" {
			return errors.New("LLM_API_KEY is required for the vision OCR engine")
		}
		ex, err := app.NewExtraction(cfg, logger)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(ocrFile)
		if err != nil {
			return err
		}
		doc, err := ex.Reader.Read(cmd.Context(), filepath.Base(ocrFile), data)
		if err != nil {
			return err
		}
		logger.Info("ocr.done", "file", ocrFile, "method", doc.Method, "pages", doc.Pages, "chars", len([]rune(doc.Text)))
		_, err = fmt.Fprintln(cmd.OutOrStdout(), doc.Text)
		return err
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractFile, "file", "", "document to extract (required)")
	extractCmd.Flags().StringVar(&extractType, "type", "", "contract type hint, e.g. lease or 租赁")
	extractCmd.Flags().StringVar(&extractOutput, "out", "json", "output format: json or yaml")
	_ = extractCmd.MarkFlagRequired("file")

	ocrCmd.Flags().StringVar(&ocrFile, "file", "", "document to read (required)")
	_ = ocrCmd.MarkFlagRequired("file")
}
