package dashboard

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetValidatorAcceptsFixture(t *testing.T) {
	raw, err := os.ReadFile("testdata/stations.json")
	require.NoError(t, err)
	validator := NewDatasetValidator()
	assert.NoError(t, validator.Validate(raw))
	assert.NoError(t, validator.Validate([]byte(`[]`)))
}

func TestDatasetValidatorReportsEveryViolation(t *testing.T) {
	err := NewDatasetValidator().Validate([]byte(`[{"daily_data":{}}, {"name": 3}]`))
	require.Error(t, err)

	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Greater(t, len(joined.Unwrap()), 1)
	for _, e := range joined.Unwrap() {
		assert.ErrorIs(t, e, ErrInvalidDataset)
	}
	assert.True(t, strings.Contains(err.Error(), "/0") && strings.Contains(err.Error(), "/1"))
}

func TestDatasetValidatorRejectsMalformedJSON(t *testing.T) {
	err := NewDatasetValidator().Validate([]byte(`{"name":`))
	assert.ErrorIs(t, err, ErrInvalidDataset)
}

func TestDatasetValidatorRejectsObjectRoot(t *testing.T) {
	err := NewDatasetValidator().Validate([]byte(`{"name":"A"}`))
	assert.ErrorIs(t, err, ErrInvalidDataset)
}
