package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("not yours"), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("already resolved"), http.StatusConflict},
		{Internal(errors.New("db down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(tt.err), "error %v", tt.err)
	}
}

func TestMessageOfHidesInternalDetails(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"))
	assert.Equal(t, "internal error", MessageOf(err))
	assert.Contains(t, err.Error(), "connection refused")

	assert.Equal(t, "internal error", MessageOf(errors.New("raw")))
}

func TestWrappedErrorKeepsKind(t *testing.T) {
	inner := NotFound("nft with that id doesn't exist")
	wrapped := fmt.Errorf("get nft: %w", inner)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, http.StatusNotFound, StatusCode(wrapped))
	assert.Equal(t, "nft with that id doesn't exist", MessageOf(wrapped))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
}
