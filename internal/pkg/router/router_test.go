package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/pkg/jwt"
	"github.com/shandysiswandi/goverify/internal/pkg/validator"
)

type fakeJWT struct{}

func (fakeJWT) Generate(int64, string) (string, error) { return "token", nil }

func (fakeJWT) Verify(token string) (jwt.Claims, error) {
	if token != "good" {
		return jwt.Claims{}, jwt.ErrInvalidToken
	}
	return jwt.Claims{UserID: 9, Identifier: "user@example.com"}, nil
}

type fixedUUID struct{}

func (fixedUUID) Generate() string { return "cid-generated" }

type created struct {
	ID int64 `json:"id"`
}

func (created) StatusCode() int { return http.StatusCreated }
func (created) Message() string { return "created" }

func newTestRouter() *Router {
	return NewRouter(Config{UUID: fixedUUID{}, JWT: fakeJWT{}, Instrument: instrument.NewNoop()})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestChain_Order(t *testing.T) {
	// Arrange
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }), mw("a"), mw("b"))

	// Act
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	if got := strings.Join(order, ","); got != "a,b,handler" {
		t.Fatalf("order = %s", got)
	}
}

func TestRouter_SuccessEnvelope(t *testing.T) {
	// Arrange
	r := newTestRouter()
	r.POST("/api/v1/verification/request", func(*Request) (any, error) { return created{ID: 1}, nil })
	req := httptest.NewRequest(http.MethodPost, "/api/v1/verification/request", strings.NewReader(`{}`))
	req.Header.Set(HeaderCorrelationID, "cid-1")
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(HeaderCorrelationID) != "cid-1" {
		t.Fatalf("correlation id = %q", rec.Header().Get(HeaderCorrelationID))
	}
	body := decode(t, rec)
	if body["message"] != "created" {
		t.Fatalf("body = %v", body)
	}
	if data, _ := body["data"].(map[string]any); data["id"] != float64(1) {
		t.Fatalf("data = %v", body["data"])
	}
}

func TestRouter_NoContent(t *testing.T) {
	r := newTestRouter()
	r.POST("/api/v1/verification/submit", func(*Request) (any, error) { return nil, nil })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/verification/submit", nil))

	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("status = %d body = %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(HeaderCorrelationID) != "cid-generated" {
		t.Fatal("expected generated correlation id")
	}
}

func TestRouter_ErrorCodec(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantField  string
	}{
		{
			name:       "rate limited",
			err:        goerror.NewBusiness("Too many requests", goerror.CodeTooManyRequest),
			wantStatus: http.StatusTooManyRequests,
			wantMsg:    "Too many requests",
		},
		{
			name:       "upstream",
			err:        goerror.NewUpstream(errors.New("smtp: connection refused"), "Failed to deliver the code"),
			wantStatus: http.StatusBadGateway,
			wantMsg:    "Failed to deliver the code",
		},
		{
			name:       "validation",
			err:        goerror.NewInvalidInput(validator.V10ValidationError{"identifier": "identifier is a required field"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Validation error",
			wantField:  "identifier",
		},
		{
			name:       "plain error hides details",
			err:        errors.New("dial tcp: secret host"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			r := newTestRouter()
			r.POST("/api/v1/verification/request", func(*Request) (any, error) { return nil, tt.err })
			rec := httptest.NewRecorder()

			// Act
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/verification/request", nil))

			// Assert
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decode(t, rec)
			if body["message"] != tt.wantMsg {
				t.Fatalf("message = %v, want %s", body["message"], tt.wantMsg)
			}
			if tt.wantField != "" {
				fields, _ := body["error"].(map[string]any)
				if _, ok := fields[tt.wantField]; !ok {
					t.Fatalf("error = %v", body["error"])
				}
			}
		})
	}
}

func TestRouter_Authentication(t *testing.T) {
	r := newTestRouter()
	r.GET("/api/v1/identity/users/:id", func(req *Request) (any, error) {
		claims := jwt.GetAuth(req.Context())
		return map[string]any{"uid": claims.UserID, "id": req.GetParam("id")}, nil
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", want: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer good", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/identity/users/5", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRouter_Recover(t *testing.T) {
	r := newTestRouter()
	r.POST("/api/v1/verification/request", func(*Request) (any, error) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/verification/request", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestThrottle(t *testing.T) {
	// Arrange
	r := newTestRouter()
	r.POST("/api/v1/verification/request", func(*Request) (any, error) { return created{}, nil }, Throttle(2))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/verification/request", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	// Act & Assert
	if got := send("198.51.100.7"); got != http.StatusCreated {
		t.Fatalf("first = %d", got)
	}
	if got := send("198.51.100.7"); got != http.StatusCreated {
		t.Fatalf("second = %d", got)
	}
	if got := send("198.51.100.7"); got != http.StatusTooManyRequests {
		t.Fatalf("third = %d, want 429", got)
	}
	if got := send("198.51.100.8"); got != http.StatusCreated {
		t.Fatalf("other ip = %d", got)
	}
}

func TestRequest_DecodeBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"identifier":"a@b.co"}`},
		{name: "unknown field", body: `{"identifier":"a@b.co","x":1}`, wantErr: true},
		{name: "trailing data", body: `{"identifier":"a@b.co"}{}`, wantErr: true},
		{name: "malformed", body: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))}
			var dst struct {
				Identifier string `json:"identifier"`
			}

			err := req.DecodeBody(&dst)

			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeBody() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !goerror.HasCode(err, goerror.CodeInvalidFormat) {
				t.Fatalf("expected invalid format, got %v", err)
			}
		})
	}
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	if got := realIP(req); got != "203.0.113.5" {
		t.Fatalf("realIP() = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:1234"
	if got := realIP(req); got != "192.0.2.10" {
		t.Fatalf("realIP() = %q", got)
	}
}
