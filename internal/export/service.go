package export

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
)

const (
	ContractsSheet   = "Contracts"
	ObligationsSheet = "Obligations"

	// ContentType is the MIME type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var contractHeaders = []string{
	"File",
	"Contract Type",
	"Contract Number",
	"Party A",
	"Party B",
	"Amount",
	"Currency",
	"Signing Date",
	"Effective Date",
	"Expiry Date",
	"Governing Law",
	"Dispute Method",
	"Confidence",
	"OCR Required",
	"Error",
}

var obligationHeaders = []string{"File", "Party", "Kind", "Text"}

// Service produces XLSX bytes for task exports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ContractsXLSX writes one row per file to the Contracts sheet and one row per obligation or
// right to the Obligations sheet. Results without a record are exported as the default record.
func (s *Service) ContractsXLSX(_ context.Context, taskID uuid.UUID, results []entity.TaskResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ContractsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(ObligationsSheet); err != nil {
		return nil, err
	}
	if err := writeHeader(f, ContractsSheet, contractHeaders); err != nil {
		return nil, err
	}
	if err := writeHeader(f, ObligationsSheet, obligationHeaders); err != nil {
		return nil, err
	}

	obRow := 2
	for i, r := range results {
		rec := entity.DefaultRecord()
		if r.Record != nil {
			rec = *r.Record
		}
		if err := setRow(f, ContractsSheet, i+2, contractRow(r.FileName, rec, r.Error)); err != nil {
			return nil, err
		}
		for _, ob := range obligationRows(r.FileName, rec.RightsObligations) {
			if err := setRow(f, ObligationsSheet, obRow, ob); err != nil {
				return nil, err
			}
			obRow++
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(ContractsSheet, "A", "A", 32) // file
	_ = f.SetColWidth(ContractsSheet, "B", "C", 16) // type, number
	_ = f.SetColWidth(ContractsSheet, "D", "E", 28) // parties
	_ = f.SetColWidth(ContractsSheet, "F", "L", 16) // money, dates, law
	_ = f.SetColWidth(ContractsSheet, "O", "O", 48) // error
	_ = f.SetColWidth(ObligationsSheet, "A", "A", 32)
	_ = f.SetColWidth(ObligationsSheet, "D", "D", 80)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"task_id", taskID.String(),
		"rows", len(results),
		"obligations", obRow-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func contractRow(file string, rec entity.ContractRecord, errMsg string) []any {
	return []any{
		file,
		rec.ContractInfo.ContractType,
		rec.ContractInfo.ContractNumber,
		rec.PartyA.Name,
		rec.PartyB.Name,
		rec.Financial.TransactionAmount,
		rec.Financial.Currency,
		rec.ContractInfo.SigningDate,
		rec.ContractInfo.EffectiveDate,
		rec.ContractInfo.ExpiryDate,
		rec.DisputeResolution.GoverningLaw,
		rec.DisputeResolution.ResolutionMethod,
		strconv.FormatFloat(rec.ContractInfo.Confidence, 'f', 2, 64),
		yesNo(rec.OCRRequired),
		errMsg,
	}
}

func obligationRows(file string, ro entity.RightsObligations) [][]any {
	var rows [][]any
	add := func(party, kind string, items []string) {
		for _, it := range items {
			rows = append(rows, []any{file, party, kind, it})
		}
	}
	add("Party A", "obligation", ro.PartyAObligations)
	add("Party B", "obligation", ro.PartyBObligations)
	add("Party A", "right", ro.PartyARights)
	add("Party B", "right", ro.PartyBRights)
	return rows
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := setRow(f, sheet, 1, row); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
