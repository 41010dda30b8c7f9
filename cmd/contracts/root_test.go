package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
)

func TestRender(t *testing.T) {
	rec := entity.DefaultRecord()

	var js bytes.Buffer
	require.NoError(t, render(&js, rec, "json"))
	assert.Contains(t, js.String(), `"contract_info"`)

	var ym bytes.Buffer
	require.NoError(t, render(&ym, rec, "yaml"))
	assert.Contains(t, ym.String(), "contract_info:")

	assert.Error(t, render(&bytes.Buffer{}, rec, "xml"))
}

func TestOutputPath(t *testing.T) {
	in := filepath.Join("in", "a", "租赁合同.v2.pdf")
	assert.Equal(t, filepath.Join("in", "a", "租赁合同.v2.json"), outputPath(in, ""))
	assert.Equal(t, filepath.Join("out", "租赁合同.v2.json"), outputPath(in, "out"))
}
