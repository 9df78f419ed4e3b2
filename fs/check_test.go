package fs_test

import (
	"testing"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRequiredFields(t *testing.T) {
	t.Parallel()

	data := []byte(`[
  {"id": "FI-1", "symptom": "x", "fixed_in": null},
  {"symptom": "y"}
]`)

	problems, err := fs.CheckRequiredFields(data, []string{"id", "symptom", "fixed_in"})
	require.NoError(t, err)
	assert.Equal(t, []fidata.FieldProblem{
		{Index: 1, ID: "unknown", Field: "id"},
		{Index: 1, ID: "unknown", Field: "fixed_in"},
	}, problems)
}

func TestCheckRequiredFields_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := fs.CheckRequiredFields([]byte(`{`), []string{"id"})
	assert.Equal(t, fidata.EINVALID, fidata.ErrorCode(err))

	_, err = fs.CheckRequiredFields([]byte(`{"id": "FI-1"}`), []string{"id"})
	assert.Equal(t, fidata.EINVALID, fidata.ErrorCode(err))
}
