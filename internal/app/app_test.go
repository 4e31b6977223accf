package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"
)

var reCode = regexp.MustCompile(`code is (\d+)`)

// outbox is a fake SendGrid API that keeps the codes it was asked to send.
type outbox struct {
	mu    sync.Mutex
	codes []string
}

func (o *outbox) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for _, c := range body.Content {
		if m := reCode.FindStringSubmatch(c.Value); c.Type == "text/plain" && m != nil {
			o.mu.Lock()
			o.codes = append(o.codes, m[1])
			o.mu.Unlock()
		}
	}
	w.WriteHeader(http.StatusAccepted)
}

func (o *outbox) last() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.codes) == 0 {
		return ""
	}
	return o.codes[len(o.codes)-1]
}

func startApp(t *testing.T, mailHost string) string {
	t.Helper()

	cfg := fmt.Sprintf(`
server:
  address: "127.0.0.1:0"
mail:
  driver: sendgrid
  from: noreply@example.com
  sendgrid:
    api_key: test-key
    host: %q
modules:
  verification:
    channels: email
    throttle_per_minute: 0
`, mailHost)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	application := New()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	application.Serve(l)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		application.Stop(ctx)
	})

	return "http://" + l.Addr().String()
}

func post(t *testing.T, url string, payload any) int {
	t.Helper()

	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode
}

func TestApp_VerificationRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping app test in short mode")
	}

	// Arrange
	box := &outbox{}
	mailSrv := httptest.NewServer(box)
	t.Cleanup(mailSrv.Close)
	base := startApp(t, mailSrv.URL)
	identifier := map[string]string{"identifier": "user@example.com"}

	// Act
	requested := post(t, base+"/api/v1/verification/request", identifier)
	again := post(t, base+"/api/v1/verification/request", identifier)
	code := box.last()
	verified := post(t, base+"/api/v1/verification/submit", map[string]string{"identifier": "user@example.com", "code": code})
	replayed := post(t, base+"/api/v1/verification/submit", map[string]string{"identifier": "user@example.com", "code": code})

	// Assert
	if requested != http.StatusOK {
		t.Fatalf("request status = %d, want 200", requested)
	}
	if again != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", again)
	}
	if len(code) != 6 {
		t.Fatalf("code = %q, want 6 digits", code)
	}
	if verified != http.StatusOK {
		t.Fatalf("submit status = %d, want 200", verified)
	}
	if replayed != http.StatusUnauthorized {
		t.Fatalf("replay status = %d, want 401", replayed)
	}
}

func TestApp_Health(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping app test in short mode")
	}

	// Arrange
	base := startApp(t, "http://127.0.0.1:1")

	// Act
	resp, err := http.Get(base + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
