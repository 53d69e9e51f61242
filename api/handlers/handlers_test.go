package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/aria-lang/protalign-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.MaxTrials = 100
	cfg.Workers = 2
	srv := httptest.NewServer(NewRouter(cfg, 0))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLocalAlign(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/alignment/local", `{"id1":"q","id2":"r","sequence1":"aa","sequence2":"AA"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got AlignmentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 8, got.Score)
	assert.Equal(t, "AA", got.Query)
	assert.Equal(t, "AA", got.Match)
	assert.Equal(t, "AA", got.Reference)
	assert.Equal(t, "2=", got.CIGAR)
	assert.Equal(t, "q", got.ID1)
	assert.Nil(t, got.Significance)
}

func TestLocalAlignWithTrials(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/alignment/local",
		`{"sequence1":"AAAA","sequence2":"AAAA","trials":20,"seed":3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got AlignmentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.NotNil(t, got.Significance)
	assert.Equal(t, 20, got.Significance.Trials)
	assert.Equal(t, 1.0, got.Significance.PValue)
	assert.Equal(t, int64(3), got.Significance.Seed)
	assert.Equal(t, "seq1", got.ID1)
}

func TestLocalAlignErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad json", `{`, "invalid request body"},
		{"invalid residue", `{"sequence1":"MKB","sequence2":"MKV"}`, "sequence1"},
		{"empty sequence", `{"sequence1":"MKV","sequence2":""}`, "sequence2"},
		{"positive gap", `{"sequence1":"MKV","sequence2":"MKV","gap_cost":2}`, "gap cost"},
		{"negative trials", `{"sequence1":"MKV","sequence2":"MKV","trials":-1}`, "trial count"},
		{"too many trials", `{"sequence1":"MKV","sequence2":"MKV","trials":101}`, "too many trials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, "/api/alignment/local", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var got ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Contains(t, got.Error, tt.want)
		})
	}
}

func TestScoreEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/alignment/score", `{"sequence1":"A","sequence2":"R"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got ScoreResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 0, got.Score)
}

func TestScoreEndpointIgnoresTrials(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{
		`{"sequence1":"AA","sequence2":"AA","trials":101}`,
		`{"sequence1":"AA","sequence2":"AA","trials":-1}`,
	} {
		resp := post(t, srv, "/api/alignment/score", body)
		require.Equal(t, http.StatusOK, resp.StatusCode, body)

		var got ScoreResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, 8, got.Score)
	}
}

// failingWriter accepts headers but fails every body write.
type failingWriter struct {
	header http.Header
	status int
}

func (w *failingWriter) Header() http.Header       { return w.header }
func (w *failingWriter) WriteHeader(status int)    { w.status = status }
func (w *failingWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestReportLogsWriteFailure(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	h := NewAlignment(nil)
	req := httptest.NewRequest(http.MethodPost, "/api/alignment/report",
		strings.NewReader(`{"sequence1":"AA","sequence2":"AA"}`))
	w := &failingWriter{header: make(http.Header)}

	h.Report(w, req)

	assert.Contains(t, logs.String(), "writing report: connection reset")
}

func TestReportEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/alignment/report", `{"id1":"q","id2":"r","sequence1":"AA","sequence2":"AA","trials":5,"seed":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	buf := new(bytes.Buffer)
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "COMPARISON OF q AND r")
	assert.Contains(t, buf.String(), "Score:8")
	assert.Contains(t, buf.String(), "p-value:")
}

func TestValidateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/sequence/validate", `{"sequence":"mkvv"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got ValidateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, got.Valid)
	assert.Equal(t, 4, got.Length)
	assert.Equal(t, map[string]int{"M": 1, "K": 1, "V": 2}, got.Composition)

	resp = post(t, srv, "/api/sequence/validate", `{"sequence":"MKX"}`)
	got = ValidateResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.False(t, got.Valid)
	assert.Contains(t, got.Error, "position 2")
}

func TestMatrixEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/matrix/W/w")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got MatrixScoreResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 11, got.Score)
	assert.Equal(t, "BLOSUM62", got.Matrix)

	bad, err := http.Get(srv.URL + "/api/matrix/B/A")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	long, err := http.Get(srv.URL + "/api/matrix/AA/A")
	require.NoError(t, err)
	defer long.Body.Close()
	assert.Equal(t, http.StatusBadRequest, long.StatusCode)
}
