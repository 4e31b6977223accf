package inbound

import (
	"github.com/shandysiswandi/goverify/internal/identity/usecase"
	"github.com/shandysiswandi/goverify/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// Register creates an account and sends the first verification code.
// @Summary Register
// @Description Creates an unverified account and sends a code over the chosen channel.
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Register payload"
// @Success 201 {object} router.successResponse{data=RegisterResponse} "Registered"
// @Failure 409 {object} router.errorResponse "Email or phone already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Requested within cooldown"
// @Failure 502 {object} router.errorResponse "Delivery failed"
// @Router /api/v1/identity/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Email: req.Email,
		Phone: req.Phone,
		Via:   req.Via,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{User: toUser(out.User), SentTo: out.SentTo}, nil
}

// RegisterResend sends a new code to an unverified account.
// @Summary Resend registration code
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body CodeSendRequest true "Resend payload"
// @Success 200 {object} router.successResponse{data=CodeSentResponse} "Code sent"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Failure 409 {object} router.errorResponse "Account already verified"
// @Failure 429 {object} router.errorResponse "Requested within cooldown"
// @Router /api/v1/identity/register/resend [post]
func (h *HTTPEndpoint) RegisterResend(r *router.Request) (any, error) {
	var req CodeSendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.RegisterResend(r.Context(), usecase.RegisterResendInput{Identifier: req.Identifier, Via: req.Via})
	if err != nil {
		return nil, err
	}

	return CodeSentResponse{SentTo: out.SentTo}, nil
}

// RegisterVerify
// @Summary Verify registration
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body CodeVerifyRequest true "Verify payload"
// @Success 200 {object} router.successResponse{data=RegisterVerifyResponse} "Account verified"
// @Failure 401 {object} router.errorResponse "Invalid or expired code"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Router /api/v1/identity/register/verify [post]
func (h *HTTPEndpoint) RegisterVerify(r *router.Request) (any, error) {
	var req CodeVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	user, err := h.uc.RegisterVerify(r.Context(), usecase.RegisterVerifyInput{Identifier: req.Identifier, Code: req.Code})
	if err != nil {
		return nil, err
	}

	return RegisterVerifyResponse{User: toUser(*user)}, nil
}

// Login sends a sign-in code to a verified account.
// @Summary Login
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body CodeSendRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=CodeSentResponse} "Code sent"
// @Failure 403 {object} router.errorResponse "Account not verified"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Failure 429 {object} router.errorResponse "Requested within cooldown"
// @Router /api/v1/identity/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req CodeSendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Login(r.Context(), usecase.LoginInput{Identifier: req.Identifier, Via: req.Via})
	if err != nil {
		return nil, err
	}

	return CodeSentResponse{SentTo: out.SentTo}, nil
}

// LoginVerify
// @Summary Verify login
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body CodeVerifyRequest true "Verify payload"
// @Success 200 {object} router.successResponse{data=LoginVerifyResponse} "Access token"
// @Failure 401 {object} router.errorResponse "Invalid or expired code"
// @Router /api/v1/identity/login/verify [post]
func (h *HTTPEndpoint) LoginVerify(r *router.Request) (any, error) {
	var req CodeVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.LoginVerify(r.Context(), usecase.LoginVerifyInput{Identifier: req.Identifier, Code: req.Code})
	if err != nil {
		return nil, err
	}

	return LoginVerifyResponse{AccessToken: out.AccessToken, TokenType: "Bearer", ExpiresIn: out.ExpiresIn}, nil
}

// UserList
// @Summary List users
// @Tags Identity
// @Produce json
// @Security BearerAuth
// @Param search query string false "Email or phone substring"
// @Param page query int false "Page, starting at 1"
// @Param size query int false "Page size, at most 100"
// @Success 200 {object} router.successResponse{data=UserListResponse} "Users"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Router /api/v1/identity/users [get]
func (h *HTTPEndpoint) UserList(r *router.Request) (any, error) {
	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.UserList(r.Context(), usecase.UserListInput{
		Search: r.GetQuery("search"),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		return nil, err
	}

	users := make([]User, 0, len(out.Users))
	for _, u := range out.Users {
		users = append(users, toUser(u))
	}

	return UserListResponse{Users: users, total: out.Total, page: out.Page, size: out.Size}, nil
}

// UserDetail
// @Summary User detail
// @Tags Identity
// @Produce json
// @Security BearerAuth
// @Param id path string true "User id"
// @Success 200 {object} router.successResponse{data=User} "User"
// @Failure 404 {object} router.errorResponse "User not found"
// @Router /api/v1/identity/users/{id} [get]
func (h *HTTPEndpoint) UserDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	user, err := h.uc.UserDetail(r.Context(), usecase.UserDetailInput{ID: id})
	if err != nil {
		return nil, err
	}

	return toUser(*user), nil
}

// UserUpdate changes the email or phone of a user.
// @Summary Update user
// @Tags Identity
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User id"
// @Param request body UserUpdateRequest true "Fields to change"
// @Success 200 {object} router.successResponse{data=User} "Updated"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 409 {object} router.errorResponse "Email or phone already registered"
// @Router /api/v1/identity/users/{id} [put]
func (h *HTTPEndpoint) UserUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req UserUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	user, err := h.uc.UserUpdate(r.Context(), usecase.UserUpdateInput{ID: id, Email: req.Email, Phone: req.Phone})
	if err != nil {
		return nil, err
	}

	return toUser(*user), nil
}

// UserDelete
// @Summary Delete user
// @Tags Identity
// @Security BearerAuth
// @Param id path string true "User id"
// @Success 204 "Deleted"
// @Failure 404 {object} router.errorResponse "User not found"
// @Router /api/v1/identity/users/{id} [delete]
func (h *HTTPEndpoint) UserDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.UserDelete(r.Context(), usecase.UserDeleteInput{ID: id}); err != nil {
		return nil, err
	}

	return UserDeleteResponse{}, nil
}
