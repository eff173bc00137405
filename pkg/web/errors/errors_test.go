package errors

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	cause := errors.New("missing field title")

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{name: "bad request", err: BadRequest(cause, "title is required"), wantStatus: http.StatusBadRequest, wantMessage: "title is required"},
		{name: "wrapped http error", err: errors.Wrap(ErrUnsupportedMediaType, "content-type text/xml"), wantStatus: http.StatusUnsupportedMediaType, wantMessage: MessageUnsupportedMediaType},
		{name: "unknown error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantMessage: MessageInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, he.Status)
			assert.Equal(t, tt.wantMessage, he.Message)
		})
	}

	assert.Nil(t, FromError(nil))
}

func TestHTTPErrorUnwrap(t *testing.T) {
	cause := errors.New("invalid token")
	he := BadRequest(cause, "Bad Request: invalid apiKey")

	assert.True(t, errors.Is(he, cause))
	assert.Equal(t, "Bad Request: invalid apiKey: invalid token", he.Error())
	assert.Equal(t, MessageNotFound, ErrNotFound.Error())
}
