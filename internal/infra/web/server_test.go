package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-chat/config"
	"voice-chat/internal/application"
	"voice-chat/internal/domain"
	"voice-chat/internal/infra/openai"
	"voice-chat/internal/infra/web"
)

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type mockCompleter struct {
	contents []string
	reply    string
	err      error
}

func (m *mockCompleter) Complete(_ context.Context, content string, _ int) (string, error) {
	m.contents = append(m.contents, content)
	return m.reply, m.err
}

func newTestServer(t *testing.T, completer application.Completer, staticDir string) *web.Server {
	t.Helper()
	if staticDir == "" {
		staticDir = filepath.Join(t.TempDir(), "missing")
	}
	chat := application.NewChatService(completer, 0, discardLogger())
	return web.NewServer(config.HTTPConfig{Addr: ":0", StaticDir: staticDir}, chat, 0, discardLogger())
}

func postChat(t *testing.T, server *web.Server, body string) (int, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := server.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestChat_EmptyMessage(t *testing.T) {
	completer := &mockCompleter{reply: "unused"}
	server := newTestServer(t, completer, "")

	for _, body := range []string{
		`{"message": ""}`,
		`{"message": "   \t\n"}`,
		`{}`,
		`not json`,
	} {
		t.Run(body, func(t *testing.T) {
			status, respBody := postChat(t, server, body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.JSONEq(t, `{"error":"Empty message"}`, respBody)
		})
	}

	assert.Empty(t, completer.contents)
}

func TestChat_Reply(t *testing.T) {
	completer := &mockCompleter{reply: "Hi there"}
	server := newTestServer(t, completer, "")

	status, body := postChat(t, server, `{"message": "Hello"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"reply":"Hi there"}`, body)
	assert.Equal(t, []string{"Hello" + domain.InstructionSuffix}, completer.contents)
}

func TestChat_TrimsMessage(t *testing.T) {
	completer := &mockCompleter{reply: "ok"}
	server := newTestServer(t, completer, "")

	status, _ := postChat(t, server, `{"message": "  Hello  "}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Hello" + domain.InstructionSuffix}, completer.contents)
}

func TestChat_CompletionError(t *testing.T) {
	server := newTestServer(t, &mockCompleter{err: errors.New("boom")}, "")

	status, body := postChat(t, server, `{"message": "Hello"}`)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"boom"}`, body)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, &mockCompleter{}, "")

	resp, err := server.App().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFrontPage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>voice chat</h1>"), 0644))

	server := newTestServer(t, &mockCompleter{}, dir)

	resp, err := server.App().Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "voice chat")
}

// TestChat_AzureRoundTrip wires the real completer against a fake Azure
// OpenAI endpoint.
func TestChat_AzureRoundTrip(t *testing.T) {
	var requests int
	azure := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++

		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Messages) != 1 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "\nGo is a programming language.\n"}},
			},
		})
	}))
	defer azure.Close()

	completer := openai.NewCompleter(config.OpenAIConfig{
		APIKey:     "key",
		Endpoint:   azure.URL,
		Deployment: "gpt",
		APIVersion: "2024-02-01",
	})
	server := newTestServer(t, completer, "")

	status, body := postChat(t, server, `{"message": "What is Go?"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"reply":"Go is a programming language."}`, body)
	assert.Equal(t, 1, requests)
}
