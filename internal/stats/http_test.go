package stats

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPSourceFetch(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"statistics":{"sensor.power":[` +
			`{"start":"2026-03-01T00:00:00Z","mean":100.5},` +
			`{"start":"2026-03-01T01:00:00Z","mean":null}]}}`))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, "secret-key", time.Second)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows, err := source.Fetch(context.Background(), []string{"sensor.power"},
		start, start.Add(2*time.Hour), PeriodHour, []string{TypeMean})

	assert.NoError(t, err)
	assert.Equal(t, "/v1/statistics", gotPath)
	assert.Contains(t, gotQuery, "entity_ids=sensor.power")
	assert.Contains(t, gotQuery, "period=hour")
	assert.Equal(t, "secret-key", gotKey)

	assert.Len(t, rows["sensor.power"], 2)
	assert.NotNil(t, rows["sensor.power"][0].Mean)
	assert.Equal(t, 100.5, *rows["sensor.power"][0].Mean)
	assert.Nil(t, rows["sensor.power"][1].Mean)
}

func TestHTTPSourceFetchUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, "", time.Second)
	_, err := source.Fetch(context.Background(), []string{"sensor.power"},
		time.Now().Add(-time.Hour), time.Now(), PeriodHour, []string{TypeMean})

	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestHTTPSourceFetchConnectionRefused(t *testing.T) {
	source := NewHTTPSource("http://127.0.0.1:1", "", 200*time.Millisecond)
	_, err := source.Fetch(context.Background(), []string{"sensor.power"},
		time.Now().Add(-time.Hour), time.Now(), PeriodHour, []string{TypeMean})

	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestHTTPSourceHasState(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected bool
		wantErr  bool
	}{
		{"known state", http.StatusOK, `{"entity_id":"sensor.power","state":"42.5"}`, true, false},
		{"null state", http.StatusOK, `{"entity_id":"sensor.power","state":null}`, false, false},
		{"unknown entity", http.StatusNotFound, ``, false, false},
		{"recorder starting", http.StatusServiceUnavailable, ``, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			source := NewHTTPSource(server.URL, "", time.Second)
			has, err := source.HasState(context.Background(), "sensor.power")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, has)
		})
	}
}
