package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-status-bot/internal/config"
)

func TestRoutes(t *testing.T) {
	logger := zerolog.New(io.Discard)
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "homework_poll_cycles_total 1\n")
	})
	srv := NewServer(&config.AdminConfig{Port: 0}, metricsHandler, &logger)
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/health", http.StatusOK, "OK"},
		{"/metrics", http.StatusOK, "homework_poll_cycles_total 1\n"},
		{"/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.body != "" {
				b, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.body, string(b))
			}
		})
	}
}
