package feishu

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/alertrelay/pkg/notify"
	"github.com/stretchr/testify/assert"
)

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:   "legacy success envelope",
			status: http.StatusOK,
			body:   `{"Extra":null,"StatusCode":0,"StatusMessage":"success"}`,
		},
		{
			name:   "code envelope success",
			status: http.StatusOK,
			body:   `{"code":0,"data":{},"msg":"success"}`,
		},
		{
			name:    "code envelope error",
			status:  http.StatusOK,
			body:    `{"code":19021,"data":{},"msg":"sign match fail or timestamp is not within one hour from current time"}`,
			wantErr: ErrAPIError,
		},
		{
			name:    "legacy envelope error",
			status:  http.StatusOK,
			body:    `{"Extra":null,"StatusCode":9499,"StatusMessage":"Bad Request"}`,
			wantErr: ErrAPIError,
		},
		{
			name:    "non 2xx",
			status:  http.StatusNotFound,
			body:    `{"code":0}`,
			wantErr: ErrUnexpectedStatus,
		},
		{
			name:    "html body",
			status:  http.StatusOK,
			body:    `<html>gateway</html>`,
			wantErr: ErrResponseInvalid,
		},
		{
			name:    "empty body",
			status:  http.StatusOK,
			body:    ``,
			wantErr: ErrResponseInvalid,
		},
		{
			name:    "json without known fields",
			status:  http.StatusOK,
			body:    `{"ok":true}`,
			wantErr: ErrResponseInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyResponse(tt.status, []byte(tt.body))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.True(t, errors.Is(err, notify.ErrSendFailed))
			for _, other := range []error{ErrAPIError, ErrUnexpectedStatus, ErrResponseInvalid} {
				if other != tt.wantErr {
					assert.False(t, errors.Is(err, other))
				}
			}
		})
	}
}
