package inbound

import (
	"strings"
	"time"

	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	"github.com/shandysiswandi/goverify/internal/pkg/router"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
	"github.com/shandysiswandi/goverify/internal/verification/usecase"
)

// HTTPEndpoint exposes the code request and submit handlers.
type HTTPEndpoint struct {
	uc uc
}

// Request sends a one-time code to an email address or phone number.
// @Summary Request verification code
// @Description Issues a new code and delivers it over email, SMS or WhatsApp. At most one code per minute per identifier.
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body RequestCodeRequest true "Code request payload"
// @Success 200 {object} router.successResponse{data=RequestCodeResponse} "Code sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Requested within cooldown"
// @Failure 502 {object} router.errorResponse "Delivery failed"
// @Router /api/v1/verification/request [post]
func (h *HTTPEndpoint) Request(r *router.Request) (any, error) {
	var req RequestCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	ch := entity.ChannelFromString(req.Channel)
	if ch == entity.ChannelUnknown && strings.TrimSpace(req.Channel) != "" {
		return nil, goerror.NewInvalidInput(nil, "channel", "channel must be one of email, sms, whatsapp")
	}

	if err := h.uc.RequestCode(r.Context(), usecase.RequestCodeInput{
		Identifier: req.Identifier,
		Channel:    ch,
	}); err != nil {
		return nil, err
	}

	resp := RequestCodeResponse{ExpiresInSeconds: int(h.uc.CodeTTL() / time.Second)}
	if ch != entity.ChannelUnknown {
		resp.Channel = ch.String()
	}

	return resp, nil
}

// Submit checks a code. The pending code is consumed whatever the outcome.
// @Summary Submit verification code
// @Description Verifies the code last sent to the identifier. Wrong, expired or missing codes are rejected and a new code must be requested.
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body SubmitCodeRequest true "Code submit payload"
// @Success 200 {object} router.successResponse{data=SubmitCodeResponse} "Code verified"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired code"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/verification/submit [post]
func (h *HTTPEndpoint) Submit(r *router.Request) (any, error) {
	var req SubmitCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	ok, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		Identifier: req.Identifier,
		Code:       req.Code,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, usecase.ErrInvalidOrExpiredCode
	}

	return SubmitCodeResponse{Verified: true}, nil
}
