package apperr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	nf := NotFound("solar data", fs.ErrNotExist)
	assert.Equal(t, KindNotFound, KindOf(nf))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("handler: %w", nf)))
	assert.Equal(t, KindProcessing, KindOf(Processingf("bad row %d", 3)))
	assert.Equal(t, KindProcessing, KindOf(errors.New("plain")))
}

func TestErrorsIs(t *testing.T) {
	nf := NotFound("", fs.ErrNotExist)
	assert.ErrorIs(t, nf, ErrNotFound)
	assert.ErrorIs(t, nf, fs.ErrNotExist)
	assert.NotErrorIs(t, nf, ErrProcessing)
	assert.ErrorIs(t, Processing("x", nil), ErrProcessing)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "read csv: boom", Processing("read csv", errors.New("boom")).Error())
	assert.Equal(t, "no rows", NotFound("no rows", nil).Error())
	assert.Equal(t, "boom", Processing("", errors.New("boom")).Error())
	assert.Equal(t, "not-found", ErrNotFound.Error())
}
