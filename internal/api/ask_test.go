package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/cinematen/wabliefteru/internal/errors"
)

func TestExtractReply(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
		wantErr     bool
	}{
		{
			name:        "message field",
			contentType: "application/json",
			body:        `{"message":"hello"}`,
			want:        "hello",
		},
		{
			name:        "reply field",
			contentType: "application/json; charset=utf-8",
			body:        `{"reply":"hi"}`,
			want:        "hi",
		},
		{
			name:        "message wins over reply",
			contentType: "application/json",
			body:        `{"reply":"second","message":"first"}`,
			want:        "first",
		},
		{
			name:        "repeated message key keeps the last value",
			contentType: "application/json",
			body:        `{"message":"a","message":"b"}`,
			want:        "b",
		},
		{
			name:        "repeated key with empty last value falls through",
			contentType: "application/json",
			body:        `{"message":"a","message":"","reply":"r"}`,
			want:        "r",
		},
		{
			name:        "stringified body keeps number spelling",
			contentType: "application/json",
			body:        `{"n": 1.0, "e": 1e2}`,
			want:        `{"n":1.0,"e":1e2}`,
		},
		{
			name:        "non-string message falls through to reply",
			contentType: "application/json",
			body:        `{"message":42,"reply":"fallback"}`,
			want:        "fallback",
		},
		{
			name:        "empty message falls through to reply",
			contentType: "application/json",
			body:        `{"message":"","reply":"from reply"}`,
			want:        "from reply",
		},
		{
			name:        "neither field stringifies body",
			contentType: "application/json",
			body:        `{"foo":"bar"}`,
			want:        `{"foo":"bar"}`,
		},
		{
			name:        "stringified body is compact",
			contentType: "application/json",
			body:        "{\n  \"foo\": \"bar\",\n  \"n\": [1, 2]\n}\n",
			want:        `{"foo":"bar","n":[1,2]}`,
		},
		{
			name:        "array body is stringified",
			contentType: "application/json",
			body:        `[{"message":"nested"}]`,
			want:        `[{"message":"nested"}]`,
		},
		{
			name:        "null body",
			contentType: "application/json",
			body:        `null`,
			want:        "null",
		},
		{
			name:        "markdown text body",
			contentType: "text/plain; charset=utf-8",
			body:        "**plain** answer",
			want:        "**plain** answer",
		},
		{
			name:        "missing content type is text",
			contentType: "",
			body:        `{"message":"not parsed"}`,
			want:        `{"message":"not parsed"}`,
		},
		{
			name:        "empty text body",
			contentType: "text/html",
			body:        "",
			want:        "",
		},
		{
			name:        "content type is case insensitive",
			contentType: "Application/JSON",
			body:        `{"message":"hello"}`,
			want:        "hello",
		},
		{
			name:        "invalid JSON",
			contentType: "application/json",
			body:        `{"message":`,
			wantErr:     true,
		},
		{
			name:        "empty JSON body",
			contentType: "application/json",
			body:        "",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractReply(tt.contentType, []byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apierrors.IsParseError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractReply_InvalidUTF8Text(t *testing.T) {
	got, err := ExtractReply("text/plain", []byte{'o', 'k', 0xff})
	require.NoError(t, err)
	assert.Equal(t, "ok�", got)
}

func TestAsk_SendsJSONRequest(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"message":"hello"}`), 200, "application/json")
	client, err := NewClient("https://hook.test/ask", WithHTTPClient(mock))
	require.NoError(t, err)

	reply, err := client.Ask(context.Background(), "Wie is <Jan> & co?")
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)

	require.NotNil(t, mock.LastRequest)
	assert.Equal(t, fhttp.MethodPost, mock.LastRequest.Method)
	assert.Equal(t, "https://hook.test/ask", mock.LastRequest.URL.String())
	assert.Equal(t, "application/json", mock.LastRequest.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Wie is <Jan> & co?"}`, string(mock.LastBody))
	assert.NotContains(t, string(mock.LastBody), `\u003c`)
}

func TestAsk_KeepsUntrimmedText(t *testing.T) {
	mock := NewMockHttpClient([]byte("ok"), 200, "text/plain")
	client, err := NewClient("https://hook.test/ask", WithHTTPClient(mock))
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), "  vraag  ")
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"  vraag  "}`, string(mock.LastBody))
}

func TestAsk_EmptyQuestion(t *testing.T) {
	mock := NewMockHttpClient(nil, 200, "")
	client, err := NewClient("https://hook.test/ask", WithHTTPClient(mock))
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), "   \n\t")
	assert.ErrorIs(t, err, apierrors.ErrEmptyQuestion)
	assert.Equal(t, 0, mock.Calls)
}

func TestAsk_ClosedClient(t *testing.T) {
	mock := NewMockHttpClient(nil, 200, "")
	client, err := NewClient("https://hook.test/ask", WithHTTPClient(mock))
	require.NoError(t, err)
	client.Close()

	_, err = client.Ask(context.Background(), "vraag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
	assert.Equal(t, 0, mock.Calls)
}

func TestAsk_NetworkError(t *testing.T) {
	mock := NewMockHttpClientWithError(errors.New("connection refused"))
	client, err := NewClient("https://hook.test/ask", WithHTTPClient(mock))
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), "vraag")
	require.Error(t, err)
	assert.True(t, apierrors.IsNetworkError(err))
	assert.Equal(t, "https://hook.test/ask", apierrors.GetEndpoint(err))
}

func TestAsk_BodyReadError(t *testing.T) {
	body := NewMockResponseBody(nil)
	body.err = io.ErrUnexpectedEOF
	mock := &MockHttpClient{Response: &fhttp.Response{StatusCode: 200, Header: make(fhttp.Header), Body: body}}
	client, err := NewClient("https://hook.test/ask", WithHTTPClient(mock))
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), "vraag")
	require.Error(t, err)
	assert.True(t, apierrors.IsNetworkError(err))
	assert.True(t, body.closed, "response body should be closed")
}

func TestAsk_InvalidJSON(t *testing.T) {
	mock := NewMockHttpClient([]byte("<html>oops</html>"), 200, "application/json")
	client, err := NewClient("https://hook.test/ask", WithHTTPClient(mock))
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), "vraag")
	require.Error(t, err)
	assert.True(t, apierrors.IsParseError(err))
}

func TestAsk_StatusNotCheckedByDefault(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"message":"server says no"}`), 500, "application/json")
	client, err := NewClient("https://hook.test/ask", WithHTTPClient(mock))
	require.NoError(t, err)

	reply, err := client.Ask(context.Background(), "vraag")
	require.NoError(t, err)
	assert.Equal(t, "server says no", reply)
}

func TestAsk_StrictStatus(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"message":"server says no"}`), 503, "application/json")
	client, err := NewClient("https://hook.test/ask", WithHTTPClient(mock), WithStrictStatus(true))
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), "vraag")
	require.Error(t, err)
	assert.Equal(t, 503, apierrors.GetHTTPStatus(err))
	assert.Contains(t, apierrors.GetResponseBody(err), "server says no")
}

// blockingDoer waits until the request context ends
type blockingDoer struct{}

func (blockingDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	<-req.Context().Done()
	return nil, req.Context().Err()
}

func TestAsk_Timeout(t *testing.T) {
	client, err := NewClient("https://hook.test/ask",
		WithHTTPClient(blockingDoer{}),
		WithTimeout(20*time.Millisecond),
	)
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), "vraag")
	require.Error(t, err)
	assert.True(t, apierrors.IsTimeoutError(err))
}

func TestAsk_Cancelled(t *testing.T) {
	client, err := NewClient("https://hook.test/ask", WithHTTPClient(blockingDoer{}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Ask(ctx, "vraag")
	require.Error(t, err)
	assert.True(t, apierrors.IsNetworkError(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAsk_AgainstHTTPServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reply":"echo ` + strings.ReplaceAll(string(body), `"`, `'`) + `"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)
	defer client.Close()

	reply, err := client.Ask(context.Background(), "hallo")
	require.NoError(t, err)
	assert.Equal(t, "echo {'message':'hallo'}", reply)
}
