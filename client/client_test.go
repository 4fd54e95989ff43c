package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/algoviz/storyboard"
)

const storyboardBody = `{"storyboard": [
  {"step": 0, "explanation": "start", "line_highlighted": 1,
   "data_structure_state": {"type": "array", "values": [5, 1], "highlights": {"comparing": [0, 1]}}},
  {"step": 1, "explanation": "swap", "line_highlighted": 2,
   "data_structure_state": {"type": "array", "values": [1, 5], "highlights": {"swapping": [0, 1]}}}
]}`

func TestVisualize(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, VisualizePath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(storyboardBody))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second)
	frames, err := c.Visualize(context.Background(), Request{Code: "def f(): pass", InputData: "arr = [5, 1]"})
	require.NoError(t, err)

	assert.Equal(t, Request{Code: "def f(): pass", InputData: "arr = [5, 1]"}, got)
	require.Len(t, frames, 2)
	assert.Equal(t, []storyboard.Value{"1", "5"}, frames[1].DataStructureState.Values)
	assert.Equal(t, 2, frames[1].Line())
}

func TestVisualizeServiceError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		detail  string
		message string
	}{
		{"string detail", 500, `{"detail": "Failed to parse JSON response from AI."}`, "Failed to parse JSON response from AI.", "Failed to load data: Failed to parse JSON response from AI."},
		{"structured detail", 422, `{"detail": [{"loc": ["body", "code"], "msg": "field required"}]}`, `[{"loc":["body","code"],"msg":"field required"}]`, `Failed to load data: [{"loc":["body","code"],"msg":"field required"}]`},
		{"no detail", 503, `upstream down`, "", "Failed to load data: " + Unreachable},
		{"null detail", 500, `{"detail": null}`, "", "Failed to load data: " + Unreachable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, time.Second).Visualize(context.Background(), Request{})
			var se *ServiceError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.Status)
			assert.Equal(t, tt.detail, se.Detail)
			assert.Equal(t, tt.message, Message(err))
		})
	}
}

func TestVisualizeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).Visualize(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, "Failed to load data: "+Unreachable, Message(err))
}

func TestVisualizeBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"storyboard": "nope"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Visualize(context.Background(), Request{})
	assert.Error(t, err)
}

type countingFetcher struct {
	calls int
	err   error
}

func (f *countingFetcher) Visualize(ctx context.Context, req Request) (storyboard.Storyboard, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return storyboard.Storyboard{{Step: 0, Explanation: req.Code}}, nil
}

func TestCache(t *testing.T) {
	next := &countingFetcher{}
	c := NewCache(next)
	ctx := context.Background()

	a, err := c.Visualize(ctx, Request{Code: "a", InputData: "x"})
	require.NoError(t, err)
	b, err := c.Visualize(ctx, Request{Code: "a", InputData: "x"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, next.calls)

	// The separator keeps ("ax", "") and ("a", "x") apart.
	_, err = c.Visualize(ctx, Request{Code: "ax"})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, 2, c.Len())

	next.err = errors.New("boom")
	_, err = c.Visualize(ctx, Request{Code: "b"})
	assert.Error(t, err)
	assert.Equal(t, 2, c.Len())
}
