package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/contracts-extractor/internal/common"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "contracts",
	Short: "Extract structured fields from contract documents",
	Long: `contracts reads PDF, image, DOCX, XLSX and text contracts, recognizes their text
and asks a language model for the contract fields (parties, amounts, dates, obligations,
type-specific terms). Results are printed as JSON or exported to XLSX.

Configuration comes from --config (YAML), a .env file and the environment
(LLM_API_KEY, LLM_BASE_URL, OCR_ENGINE, DB_DRIVER, DB_URL, ...).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default $CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default $LOG_LEVEL)")

	rootCmd.AddCommand(extractCmd, ocrCmd, batchCmd, watchCmd, dbhealthCmd)
}

// setup loads the configuration and installs the logger. Logs go to stderr so stdout only
// carries results.
func setup() (*common.Config, *slog.Logger, error) {
	cfg, err := common.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger := common.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// render writes v as indented JSON, or as YAML keyed by the JSON field names.
func render(w io.Writer, v any, format string) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	switch format {
	case "", "json":
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		var tree any
		if err := json.Unmarshal(b, &tree); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q (want json or yaml)", format)
}
