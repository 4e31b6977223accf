package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/pkg/jwt"
	"github.com/shandysiswandi/goverify/internal/pkg/router"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
	"github.com/shandysiswandi/goverify/internal/verification/usecase"
)

type fakeUsecase struct {
	requested  usecase.RequestCodeInput
	requestErr error
	verified   bool
	verifyErr  error
}

func (f *fakeUsecase) RequestCode(_ context.Context, in usecase.RequestCodeInput) error {
	f.requested = in
	return f.requestErr
}

func (f *fakeUsecase) Verify(context.Context, usecase.VerifyInput) (bool, error) {
	return f.verified, f.verifyErr
}

func (f *fakeUsecase) CodeTTL() time.Duration { return 5 * time.Minute }

type noJWT struct{}

func (noJWT) Generate(int64, string) (string, error) { return "", nil }
func (noJWT) Verify(string) (jwt.Claims, error)      { return jwt.Claims{}, jwt.ErrInvalidToken }

type staticUUID struct{}

func (staticUUID) Generate() string { return "cid" }

func serve(t *testing.T, fu *fakeUsecase, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := router.NewRouter(router.Config{UUID: staticUUID{}, JWT: noJWT{}, Instrument: instrument.NewNoop()})
	RegisterHTTPEndpoint(r, fu)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestRequest(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		err         error
		wantStatus  int
		wantChannel entity.Channel
	}{
		{name: "email", body: `{"identifier":"user@example.com","channel":"email"}`, wantStatus: http.StatusOK, wantChannel: entity.ChannelEmail},
		{name: "inferred", body: `{"identifier":"+15551234567"}`, wantStatus: http.StatusOK, wantChannel: entity.ChannelUnknown},
		{name: "bad channel", body: `{"identifier":"+15551234567","channel":"fax"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "bad json", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "rate limited", body: `{"identifier":"user@example.com"}`, err: usecase.ErrRateLimited, wantStatus: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			fu := &fakeUsecase{requestErr: tt.err}

			// Act
			rec := serve(t, fu, "/api/v1/verification/request", tt.body)

			// Assert
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK && fu.requested.Channel != tt.wantChannel {
				t.Fatalf("channel = %v, want %v", fu.requested.Channel, tt.wantChannel)
			}
		})
	}
}

func TestRequest_ResponseBody(t *testing.T) {
	rec := serve(t, &fakeUsecase{}, "/api/v1/verification/request", `{"identifier":"user@example.com","channel":"email"}`)

	var out struct {
		Data RequestCodeResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Data.ExpiresInSeconds != 300 || out.Data.Channel != "email" {
		t.Fatalf("data = %+v", out.Data)
	}
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name       string
		verified   bool
		err        error
		wantStatus int
	}{
		{name: "verified", verified: true, wantStatus: http.StatusOK},
		{name: "rejected", verified: false, wantStatus: http.StatusUnauthorized},
		{name: "server error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fu := &fakeUsecase{verified: tt.verified, verifyErr: tt.err}

			rec := serve(t, fu, "/api/v1/verification/submit", `{"identifier":"user@example.com","code":"123456"}`)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.verified && !strings.Contains(rec.Body.String(), `"verified":true`) {
				t.Fatalf("body = %s", rec.Body.String())
			}
		})
	}
}
