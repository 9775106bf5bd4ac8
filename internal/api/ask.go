package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	apierrors "github.com/cinematen/wabliefteru/internal/errors"
	"github.com/cinematen/wabliefteru/internal/models"
)

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// replyFields are checked in order for a non-empty string answer
var replyFields = []string{"message", "reply"}

// askRequest is the JSON body posted to the webhook
type askRequest struct {
	Message string `json:"message"`
}

// Ask posts question to the webhook and returns the extracted reply.
// The reply may be empty; substituting a placeholder is up to the caller.
// The HTTP status is only checked when strict status is enabled.
func (c *WebhookClient) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apierrors.ErrEmptyQuestion
	}

	if c.IsClosed() {
		return "", fmt.Errorf("client is closed")
	}

	payload, err := encodeRequest(question)
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.RequestHeaders() {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.transportError(ctx, "ask", err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.transportError(ctx, "read response", err)
	}

	contentType := resp.Header.Get("Content-Type")
	c.logger.Debug().
		Int("status", resp.StatusCode).
		Str("content_type", contentType).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("webhook responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if c.strictStatus {
			return "", apierrors.NewAPIErrorWithBody(resp.StatusCode, c.endpoint, "webhook request failed", truncateBody(body))
		}
		c.logger.Warn().Int("status", resp.StatusCode).Msg("webhook returned non-success status, using body as answer")
	}

	return ExtractReply(contentType, body)
}

// ExtractReply turns a webhook response body into answer text.
//
// JSON bodies (by content type) yield the "message" field, else the "reply"
// field, when either is a non-empty string; otherwise the whole document in
// compact form. Anything else is returned verbatim. Declared JSON that does
// not parse is a ParseError.
func ExtractReply(contentType string, body []byte) (string, error) {
	if !IsJSONContentType(contentType) {
		return toValidText(body), nil
	}

	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("invalid JSON body", contentType)
	}

	parsed := gjson.ParseBytes(body)
	if parsed.IsObject() {
		// a repeated key resolves to its last occurrence
		fields := make(map[string]gjson.Result, len(replyFields))
		parsed.ForEach(func(key, value gjson.Result) bool {
			fields[key.Str] = value
			return true
		})
		for _, field := range replyFields {
			value := fields[field]
			if value.Type == gjson.String && value.Str != "" {
				return value.Str, nil
			}
		}
	}

	return string(bytes.TrimSpace(pretty.Ugly(body))), nil
}

// IsJSONContentType reports whether a Content-Type header declares JSON.
// Media types are case-insensitive, so "Application/JSON" matches too.
func IsJSONContentType(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

// encodeRequest marshals the request body without HTML escaping so the
// question reaches the webhook exactly as typed
func encodeRequest(question string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(askRequest{Message: question}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// transportError classifies a failed round trip
func (c *WebhookClient) transportError(ctx context.Context, operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierrors.NewTimeoutErrorWithEndpoint(c.endpoint, err)
	}
	return apierrors.NewNetworkErrorWithEndpoint(operation, c.endpoint, err)
}

func toValidText(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	return strings.ToValidUTF8(string(body), "�")
}

func truncateBody(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return toValidText(body)
}
