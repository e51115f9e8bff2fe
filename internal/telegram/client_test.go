package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient("test-token", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("Expected error for blank token")
	}
}

func TestSendMessage(t *testing.T) {
	var got sendMessageRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))

	if err := c.SendMessage(context.Background(), 99, "hola"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if got.ChatID != 99 || got.Text != "hola" {
		t.Errorf("Unexpected request: %+v", got)
	}
	if got.ParseMode != "Markdown" {
		t.Errorf("ParseMode: %q", got.ParseMode)
	}
}

func TestSendMessageChunksLongText(t *testing.T) {
	var texts []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Decode request: %v", err)
		}
		texts = append(texts, req.Text)
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))

	long := strings.Repeat("línea de texto bastante larga\n", 300)
	if err := c.SendMessage(context.Background(), 1, long); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if len(texts) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(texts))
	}
	for i, chunk := range texts {
		if n := len([]rune(chunk)); n > maxMessageRunes {
			t.Errorf("Chunk %d exceeds limit: %d runes", i, n)
		}
	}
}

func TestSendMessageAPIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "Bad Request: chat not found"})
	}))

	err := c.SendMessage(context.Background(), 1, "hola")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("Expected API error, got %v", err)
	}
}

func TestSendDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 demo"), 0644); err != nil {
		t.Fatalf("Write fixture: %v", err)
	}

	var gotChatID, gotCaption, gotName, gotBody string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/sendDocument" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		gotChatID = r.FormValue("chat_id")
		gotCaption = r.FormValue("caption")
		file, header, err := r.FormFile("document")
		if err != nil {
			t.Errorf("FormFile: %v", err)
		} else {
			defer file.Close()
			gotName = header.Filename
			buf := make([]byte, header.Size)
			file.Read(buf)
			gotBody = string(buf)
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))

	if err := c.SendDocument(context.Background(), 42, path, "Plan de aula"); err != nil {
		t.Fatalf("SendDocument failed: %v", err)
	}
	if gotChatID != "42" || gotCaption != "Plan de aula" {
		t.Errorf("Unexpected form fields: chat_id=%q caption=%q", gotChatID, gotCaption)
	}
	if gotName != "plan.pdf" || gotBody != "%PDF-1.4 demo" {
		t.Errorf("Unexpected document: name=%q body=%q", gotName, gotBody)
	}
}

func TestDownloadFile(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bottest-token/getFile":
			if r.URL.Query().Get("file_id") != "voice-123" {
				t.Errorf("Unexpected file_id: %s", r.URL.Query().Get("file_id"))
			}
			json.NewEncoder(w).Encode(map[string]any{
				"ok":     true,
				"result": map[string]string{"file_path": "voice/file_7.oga"},
			})
		case "/file/bottest-token/voice/file_7.oga":
			w.Write([]byte("OggS audio bytes"))
		default:
			t.Errorf("Unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	data, err := c.DownloadFile(context.Background(), "voice-123")
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}
	if string(data) != "OggS audio bytes" {
		t.Errorf("Unexpected bytes: %q", data)
	}
}

func TestDownloadFileEmptyPath(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": map[string]string{}})
	}))

	if _, err := c.DownloadFile(context.Background(), "voice-123"); err == nil {
		t.Fatal("Expected error for empty file_path")
	}
}

func TestSplitMessage(t *testing.T) {
	if got := SplitMessage("", 10); got != nil {
		t.Errorf("Expected nil for empty text, got %v", got)
	}
	if got := SplitMessage("corto", 10); len(got) != 1 || got[0] != "corto" {
		t.Errorf("Expected single chunk, got %v", got)
	}

	text := strings.Repeat("aaaa ", 10) + "\n" + strings.Repeat("bbbb ", 10)
	chunks := SplitMessage(text, 60)
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if !strings.HasPrefix(chunks[0], "aaaa") || !strings.HasPrefix(chunks[1], "bbbb") {
		t.Errorf("Expected split at the newline, got %v", chunks)
	}
}
