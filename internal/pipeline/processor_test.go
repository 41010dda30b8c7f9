package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
	"github.com/joseph-ayodele/contracts-extractor/internal/ingest"
	"github.com/joseph-ayodele/contracts-extractor/internal/llm"
)

type fakeExtractor struct {
	got llm.ExtractRequest
	rec entity.ContractRecord
	err error
}

func (f *fakeExtractor) Extract(_ context.Context, req llm.ExtractRequest) (entity.ContractRecord, error) {
	f.got = req
	return f.rec, f.err
}

func leaseRecord() entity.ContractRecord {
	rec := entity.NewEmptyRecord(entity.PartialConfidence)
	rec.ContractInfo.ContractType = "lease"
	rec.PartyA.Name = "Landlord Co"
	return rec
}

func TestProcess_TextFile(t *testing.T) {
	ex := &fakeExtractor{rec: leaseRecord()}
	p := NewProcessor(nil, ingest.NewReader(nil, nil), ex)

	res := p.Process(context.Background(), Input{
		Name:         "lease.txt",
		Data:         []byte("House lease between Landlord Co and Tenant"),
		ContractType: "lease",
	})
	require.NoError(t, res.Err)
	assert.False(t, res.Failed())
	assert.Equal(t, ingest.MethodText, res.Method)
	assert.Equal(t, "House lease between Landlord Co and Tenant", ex.got.DocumentText)
	assert.Equal(t, "lease", ex.got.ContractType)
	assert.Equal(t, "Landlord Co", res.Record.PartyA.Name)

	tr := res.TaskResult()
	assert.True(t, tr.Succeeded())
	assert.Equal(t, "lease.txt", tr.FileName)
	require.NotNil(t, tr.Record)
	assert.Equal(t, "lease", tr.Record.ContractInfo.ContractType)
}

func TestProcess_UnsupportedFile(t *testing.T) {
	ex := &fakeExtractor{}
	p := NewProcessor(nil, ingest.NewReader(nil, nil), ex)

	res := p.Process(context.Background(), Input{Name: "virus.exe", Data: []byte("MZ")})
	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, ingest.ErrUnsupportedFormat)
	assert.Equal(t, entity.DefaultRecord(), res.Record)
	assert.Empty(t, ex.got.DocumentText, "extractor must not run")

	tr := res.TaskResult()
	assert.False(t, tr.Succeeded())
	assert.NotEmpty(t, tr.Error)
}

func TestProcess_ExtractorFailure(t *testing.T) {
	ex := &fakeExtractor{rec: entity.DefaultRecord(), err: errors.New("upstream: 503")}
	p := NewProcessor(nil, ingest.NewReader(nil, nil), ex)

	res := p.Process(context.Background(), Input{Name: "a.txt", Data: []byte("text")})
	require.True(t, res.Failed())
	assert.True(t, res.Record.OCRRequired)
	assert.Equal(t, ingest.MethodText, res.Method)
}

func TestProcess_BlankText(t *testing.T) {
	ex := &fakeExtractor{rec: leaseRecord()}
	p := NewProcessor(nil, ingest.NewReader(nil, nil), ex)

	res := p.Process(context.Background(), Input{Name: "blank.txt", Data: []byte(" \n\t ")})
	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, ErrNoText)
	assert.Equal(t, entity.DefaultRecord(), res.Record)
	assert.Empty(t, ex.got.DocumentText, "extractor must not run")
}
