package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"
)

func testClient(url string, on NotifySettings) *Client {
	c := NewClient(&Config{Enabled: true, WebhookURL: url, NotifyOn: on})
	c.retryDelay = time.Millisecond
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		enabled bool
	}{
		{name: "nil config", cfg: nil, enabled: false},
		{name: "disabled config", cfg: &Config{Enabled: false, WebhookURL: "https://hooks.example.com/x"}, enabled: false},
		{name: "empty webhook", cfg: &Config{Enabled: true}, enabled: false},
		{name: "valid config", cfg: &Config{Enabled: true, WebhookURL: "https://hooks.example.com/x"}, enabled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewClient(tt.cfg).Enabled(); got != tt.enabled {
				t.Errorf("NewClient().Enabled() = %v, want %v", got, tt.enabled)
			}
		})
	}
}

func TestClientPost(t *testing.T) {
	var received message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected application/json content type")
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(server.URL, NotifySettings{Login: true})
	client.channel = "#erp"

	err := client.Post(context.Background(), EventLogin, map[string]string{
		FieldUser: "admin",
		FieldRole: "Admin",
	})
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	if received.Text == "" {
		t.Error("expected non-empty fallback text")
	}
	if received.Channel != "#erp" {
		t.Errorf("channel = %q, want #erp", received.Channel)
	}
	if len(received.Blocks) != 3 {
		t.Errorf("blocks = %d, want 3 (header, fields, context)", len(received.Blocks))
	}
}

func TestClientPostDisabled(t *testing.T) {
	client := NewClient(&Config{Enabled: false})
	if err := client.Post(context.Background(), EventLogin, nil); err != nil {
		t.Errorf("disabled client should not error: %v", err)
	}
}

func TestClientPostEventFiltering(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(server.URL, NotifySettings{Login: true, Logout: false, ModuleInitFailed: true})
	ctx := context.Background()

	_ = client.Post(ctx, EventLogin, nil)
	_ = client.Post(ctx, EventLogout, nil)
	_ = client.Post(ctx, EventModuleInitFailed, nil)

	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

func TestClientPostRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(server.URL, NotifySettings{Login: true})
	if err := client.Post(context.Background(), EventLogin, nil); err != nil {
		t.Fatalf("Post failed after retries: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestClientPostDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := testClient(server.URL, NotifySettings{Login: true})
	if err := client.Post(context.Background(), EventLogin, nil); err == nil {
		t.Fatal("expected error for 403")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestClientPostTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(server.URL, NotifySettings{Login: true})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := client.Post(ctx, EventLogin, nil); err == nil {
		t.Error("expected timeout error")
	}
}

func TestNotifyNilClient(t *testing.T) {
	var c *Client
	// Should not panic.
	c.Notify(context.Background(), EventLogin, nil)
}

func TestFormatMessage(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)
	tests := []struct {
		name       string
		event      EventType
		fields     map[string]string
		wantBlocks int
	}{
		{name: "login", event: EventLogin, fields: map[string]string{FieldUser: "bob", FieldRole: "User"}, wantBlocks: 3},
		{name: "init failed", event: EventModuleInitFailed, fields: map[string]string{FieldModule: "hr", FieldError: "boom"}, wantBlocks: 3},
		{name: "no fields", event: EventLogout, fields: nil, wantBlocks: 2},
		{name: "unknown event", event: EventType("custom"), fields: map[string]string{"b": "2", "a": "1"}, wantBlocks: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := formatMessage(tt.event, tt.fields, now)
			if msg.Text == "" {
				t.Error("expected non-empty fallback text")
			}
			if len(msg.Blocks) != tt.wantBlocks {
				t.Errorf("blocks = %d, want %d", len(msg.Blocks), tt.wantBlocks)
			}
			if _, err := json.Marshal(msg); err != nil {
				t.Errorf("message should be valid JSON: %v", err)
			}
		})
	}

	generic := formatMessage(EventType("custom"), map[string]string{"b": "2", "a": "1"}, now)
	if got := generic.Blocks[1].Fields[0].Text; got != "*a:*\n1" {
		t.Errorf("generic fields should be sorted, first = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a long string", 10, "this is..."},
		{"", 10, ""},
		{"Operațiune eșuată", 10, "Operați..."},
		{"José García", 11, "José García"},
		{"🚀🚀🚀🚀🚀🚀", 5, "🚀🚀..."},
	}

	for _, tt := range tests {
		got := truncate(tt.input, tt.maxLen)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) = %q is not valid UTF-8", tt.input, tt.maxLen, got)
		}
		if n := utf8.RuneCountInString(got); n > tt.maxLen {
			t.Errorf("truncate(%q, %d) has %d runes", tt.input, tt.maxLen, n)
		}
	}
}
