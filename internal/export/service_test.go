package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
)

func TestContractsXLSX(t *testing.T) {
	rec := entity.NewEmptyRecord(entity.PartialConfidence)
	rec.ContractInfo.ContractType = "service"
	rec.ContractInfo.ContractNumber = "SV-2024-001"
	rec.PartyA.Name = "Acme Ltd"
	rec.PartyB.Name = "Beta LLC"
	rec.Financial.TransactionAmount = "120000"
	rec.Financial.Currency = "CNY"
	rec.DisputeResolution.GoverningLaw = "PRC law"
	rec.RightsObligations.PartyAObligations = []string{"Pay monthly"}
	rec.RightsObligations.PartyBRights = []string{"Terminate on 30 days notice"}

	results := []entity.TaskResult{
		{Seq: 1, FileName: "service.pdf", Record: &rec},
		{Seq: 2, FileName: "scan.jpg", Error: "recognize image: decode image: unknown format"},
	}

	out, err := NewService(nil).ContractsXLSX(context.Background(), uuid.New(), results)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{ContractsSheet, ObligationsSheet}, f.GetSheetList())

	rows, err := f.GetRows(ContractsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, contractHeaders, rows[0])
	assert.Equal(t, []string{
		"service.pdf", "service", "SV-2024-001", "Acme Ltd", "Beta LLC", "120000", "CNY",
		"Unknown", "Unknown", "Unknown", "PRC law", "Unknown", "0.80", "no",
	}, rows[1])
	assert.Equal(t, "scan.jpg", rows[2][0])
	assert.Equal(t, "Unknown", rows[2][1])
	assert.Equal(t, "0.00", rows[2][12])
	assert.Equal(t, "yes", rows[2][13])
	assert.Equal(t, "recognize image: decode image: unknown format", rows[2][14])

	obs, err := f.GetRows(ObligationsSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"File", "Party", "Kind", "Text"},
		{"service.pdf", "Party A", "obligation", "Pay monthly"},
		{"service.pdf", "Party B", "right", "Terminate on 30 days notice"},
	}, obs)
}

func TestContractsXLSX_Empty(t *testing.T) {
	out, err := NewService(nil).ContractsXLSX(context.Background(), uuid.New(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(ContractsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
