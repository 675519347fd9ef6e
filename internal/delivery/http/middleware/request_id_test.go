package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	incoming := uuid.NewString()

	tests := []struct {
		name   string
		header string
		reuse  bool
	}{
		{name: "generated when missing"},
		{name: "reused when valid", header: incoming, reuse: true},
		{name: "replaced when malformed", header: "not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			got := rr.Header().Get(RequestIDHeader)
			require.Equal(t, seen, got)
			_, err := uuid.Parse(got)
			require.NoError(t, err)
			if tt.reuse {
				assert.Equal(t, incoming, got)
			} else {
				assert.NotEqual(t, tt.header, got)
			}
		})
	}
}
