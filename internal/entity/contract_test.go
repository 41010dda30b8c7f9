package entity

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contracts-extractor/constants"
)

// walkLeaves calls fn for every leaf value reachable from v.
func walkLeaves(t *testing.T, path string, v reflect.Value, fn func(path string, v reflect.Value)) {
	t.Helper()
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			f := v.Type().Field(i)
			if !f.IsExported() {
				continue
			}
			walkLeaves(t, path+"."+f.Name, v.Field(i), fn)
		}
	default:
		fn(path, v)
	}
}

func TestDefaultRecord_AllSentinels(t *testing.T) {
	rec := DefaultRecord()
	assert.True(t, rec.OCRRequired)
	assert.True(t, rec.TypeSpecific.IsNone())

	walkLeaves(t, "record", reflect.ValueOf(rec), func(path string, v reflect.Value) {
		switch v.Kind() {
		case reflect.String:
			assert.Equal(t, Unknown, v.String(), path)
		case reflect.Float64:
			assert.Equal(t, 0.0, v.Float(), path)
		case reflect.Slice:
			assert.False(t, v.IsNil(), "%s must be an empty list, not nil", path)
			assert.Equal(t, 0, v.Len(), path)
		case reflect.Bool:
			if path != "record.OCRRequired" {
				assert.False(t, v.Bool(), path)
			}
		default:
			t.Errorf("unexpected leaf kind %s at %s", v.Kind(), path)
		}
	})
}

func TestNewEmptyRecord_UsesGivenConfidence(t *testing.T) {
	rec := NewEmptyRecord(PartialConfidence)
	assert.False(t, rec.OCRRequired)
	assert.Equal(t, 0.8, rec.ContractInfo.Confidence)
	assert.Equal(t, 0.8, rec.PartyB.Confidence)
	assert.Equal(t, 0.8, rec.Signature.Confidence)
}

func TestDefaultRecord_JSONHasNoNulls(t *testing.T) {
	b, err := json.Marshal(DefaultRecord())
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, json.Unmarshal(b, &tree))

	refs := tree["contract_info"].(map[string]any)["source_references"]
	assert.Equal(t, []any{}, refs)

	ts := tree["type_specific"].(map[string]any)
	assert.Len(t, ts, 5)
	for k, v := range ts {
		assert.Nil(t, v, k)
	}
	assert.Equal(t, true, tree["ocr_required"])
}

func TestTypeSpecific_RoundTrip(t *testing.T) {
	svc := NewEmptyVariant(constants.Service, 0.9).(ServiceFields)
	svc.ServiceContent = "maintenance"

	rec := NewEmptyRecord(PartialConfidence)
	rec.TypeSpecific = NewTypeSpecific(svc)

	b, err := json.Marshal(rec)
	require.NoError(t, err)

	var slots map[string]map[string]any
	var tree map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &tree))
	require.NoError(t, json.Unmarshal(tree["type_specific"], &slots))
	assert.Nil(t, slots["lease_fields"])
	assert.Equal(t, "maintenance", slots["service_fields"]["service_content"])

	var back ContractRecord
	require.NoError(t, json.Unmarshal(b, &back))
	got, ok := back.TypeSpecific.Service()
	require.True(t, ok)
	assert.Equal(t, svc, got)
	_, isLease := back.TypeSpecific.Lease()
	assert.False(t, isLease)
	assert.Equal(t, constants.Service, back.TypeSpecific.ContractType())
}

func TestNewEmptyVariant(t *testing.T) {
	for _, ct := range VariantOrder {
		v := NewEmptyVariant(ct, 0.8)
		require.NotNil(t, v, ct)
		assert.Equal(t, ct, v.ContractType())
		assert.NotEmpty(t, VariantSlotKey(ct))
	}
	assert.Nil(t, NewEmptyVariant(constants.OtherType, 0.8))
	assert.Equal(t, "", VariantSlotKey(constants.OtherType))
}

func TestTaskProgress(t *testing.T) {
	assert.Equal(t, 0, Task{}.Progress())
	assert.Equal(t, 50, Task{TotalFiles: 4, Processed: 2}.Progress())
}
