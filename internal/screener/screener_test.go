package screener

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/spigell/resume-screener/internal/intake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(zap.NewNop(), server.URL, "secret-token")
}

func resumes() []intake.File {
	return []intake.File{
		{Name: "a.pdf", MIMEType: intake.MIMETypePDF, Content: []byte("%PDF-a")},
		{Name: `b "quoted".docx`, MIMEType: intake.MIMETypeDOCX, Content: []byte("docx-b")},
	}
}

func TestRankSendsMultipartRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, RankPath, r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "sub-1", r.Header.Get(headerRequestID))

		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, []string{"Go developer"}, r.MultipartForm.Value[fieldJobDescription])

		parts := r.MultipartForm.File[fieldResumes]
		if !assert.Len(t, parts, 2) {
			return
		}
		assert.Equal(t, "a.pdf", parts[0].Filename)
		assert.Equal(t, intake.MIMETypePDF, parts[0].Header.Get("Content-Type"))
		assert.Equal(t, `b "quoted".docx`, parts[1].Filename)

		f, err := parts[1].Open()
		if assert.NoError(t, err) {
			content, _ := io.ReadAll(f)
			f.Close()
			assert.Equal(t, "docx-b", string(content))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[
			{"filename":"b.docx","score":91.5,"details":{"name":"Bob","email":null,"skills":["Go","SQL"]}},
			{"filename":"a.pdf","score":85,"details":{"name":"Jane","email":"j@x.com","skills":["Go"]}}
		]}`))
	})

	ranking, err := client.Rank(context.Background(), "sub-1", "Go developer", resumes())
	require.NoError(t, err)

	require.Equal(t, 2, ranking.Len())
	assert.Equal(t, []string{"b.docx", "a.pdf"}, ranking.Filenames())
	assert.Equal(t, 91.5, ranking.Candidates[0].Score)
	assert.Equal(t, "Bob", ranking.Candidates[0].Details.Name)
	assert.Empty(t, ranking.Candidates[0].Details.Email)
	assert.Equal(t, []string{"Go", "SQL"}, ranking.Candidates[0].Details.Skills)
	assert.Equal(t, "j@x.com", ranking.Candidates[1].Details.Email)
}

func TestRankPreservesServerOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[
			{"filename":"low.pdf","score":10,"details":{"skills":[]}},
			{"filename":"high.pdf","score":99,"details":{"skills":[]}}
		]}`))
	})

	ranking, err := client.Rank(context.Background(), "", "jd", resumes())
	require.NoError(t, err)
	assert.Equal(t, []string{"low.pdf", "high.pdf"}, ranking.Filenames())
}

func TestRankEmptyAndMissingCandidates(t *testing.T) {
	for name, body := range map[string]string{
		"empty":   `{"candidates":[]}`,
		"missing": `{}`,
		"null":    `{"candidates":null}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			ranking, err := client.Rank(context.Background(), "", "jd", resumes())
			require.NoError(t, err)
			assert.Equal(t, 0, ranking.Len())
			assert.NotNil(t, ranking.Candidates)
		})
	}
}

func TestRankStatusOnlyFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Rank(context.Background(), "", "jd", resumes())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.False(t, apiErr.Structured)
	assert.Contains(t, err.Error(), "503")
}

func TestRankStructuredFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Job description and at least one resume must be provided."}`))
	})

	_, err := client.Rank(context.Background(), "", "jd", resumes())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Structured)
	assert.Equal(t, "Job description and at least one resume must be provided.", err.Error())
}

func TestRankNonStringErrorBodyFallsBack(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"msg":"field required"}]}`))
	})

	_, err := client.Rank(context.Background(), "", "jd", resumes())
	require.Error(t, err)
	assert.Equal(t, "ranking service returned HTTP 422", err.Error())
}

func TestRankMalformedSuccessBody(t *testing.T) {
	for name, body := range map[string]string{
		"not json":        `<html>oops</html>`,
		"wrong root":      `[1,2,3]`,
		"missing score":   `{"candidates":[{"filename":"a.pdf"}]}`,
		"score as string": `{"candidates":[{"filename":"a.pdf","score":"high"}]}`,
		"score too large": `{"candidates":[{"filename":"a.pdf","score":150}]}`,
		"skills not list": `{"candidates":[{"filename":"a.pdf","score":5,"details":{"skills":"Go"}}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := client.Rank(context.Background(), "", "jd", resumes())

			var malformed *MalformedResponseError
			require.True(t, errors.As(err, &malformed), "got %v", err)
		})
	}
}

func TestRankGzipResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gzip", r.Header.Get("Accept-Encoding"))
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(`{"candidates":[{"filename":"a.pdf","score":42,"details":{"skills":[]}}]}`))
		_ = gz.Close()
	})

	ranking, err := client.Rank(context.Background(), "", "jd", resumes())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, ranking.Filenames())
}

func TestRankTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(zap.NewNop(), url, "")

	_, err := client.Rank(context.Background(), "", "jd", resumes())

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Contains(t, err.Error(), "could not reach the ranking service")
}

func TestRankMakesExactlyOneRequest(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Rank(context.Background(), "", "jd", resumes())
	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestRankCancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Rank(ctx, "", "jd", resumes())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, HealthPath, r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	require.NoError(t, client.Health(context.Background()))

	unhealthy := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"starting"}`))
	})
	require.Error(t, unhealthy.Health(context.Background()))

	down := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	err := down.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestNewDefaults(t *testing.T) {
	client := New(nil, "  http://ranker:8000/ ", "")

	assert.Equal(t, "http://ranker:8000", client.APIURL)
	assert.Equal(t, userAgent, client.UserAgent)
	assert.Zero(t, client.HTTPClient.Timeout)

	assert.Equal(t, apiURL, New(nil, "", "").APIURL)
}

func TestRankLogsRankedOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"filename":"b.pdf","score":70},{"filename":"a.pdf","score":40}]}`))
	}))
	t.Cleanup(server.Close)

	core, logs := observer.New(zapcore.DebugLevel)
	client := New(zap.New(core), server.URL, "")

	_, err := client.Rank(context.Background(), "sub-9", "jd", resumes())
	require.NoError(t, err)

	entries := logs.FilterMessage("got ranking from the service").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "sub-9", fields["submission_id"])
	assert.Equal(t, server.URL, fields["service_url"])
	assert.Equal(t, []interface{}{"b.pdf", "a.pdf"}, fields["ranked"])
}
