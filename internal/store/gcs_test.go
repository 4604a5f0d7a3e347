package store

import (
	"errors"
	"net/http"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestWriteConditions(t *testing.T) {
	cond, err := writeConditions("")
	require.NoError(t, err)
	assert.Equal(t, storage.Conditions{DoesNotExist: true}, cond)

	cond, err = writeConditions("1712345678")
	require.NoError(t, err)
	assert.Equal(t, storage.Conditions{GenerationMatch: 1712345678}, cond)

	_, err = writeConditions("abc")
	assert.Error(t, err)
}

func TestFormatGeneration(t *testing.T) {
	assert.Equal(t, "", formatGeneration(0))
	assert.Equal(t, "42", formatGeneration(42))
}

func TestMapGCSError(t *testing.T) {
	err := mapGCSError(&googleapi.Error{Code: http.StatusPreconditionFailed})
	assert.ErrorIs(t, err, ErrRevisionConflict)

	err = mapGCSError(errors.New("boom"))
	assert.NotErrorIs(t, err, ErrRevisionConflict)
	assert.Contains(t, err.Error(), "boom")
}
