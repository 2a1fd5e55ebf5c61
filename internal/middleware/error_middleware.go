package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oguzhan/projecthub/internal/app/models/dto"
	"github.com/oguzhan/projecthub/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to HTTP responses. Service methods
// return sentinel errors (possibly wrapped in a CustomError carrying a
// user-facing message); the switch below decides status code and error code.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// 404
	case errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrMentorNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrTeamNotFound),
		errors.Is(err, apperrors.ErrInvitationNotFound),
		errors.Is(err, apperrors.ErrMentorRequestNotFound),
		errors.Is(err, apperrors.ErrProjectNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err)

	// 403
	case errors.Is(err, apperrors.ErrNotRecipient):
		respondError(c, http.StatusForbidden, dto.ErrorCodeNotRecipient, err)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeUnauthorized, err)

	// 401
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, err)
	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, err)
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, err)
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenRevoked):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, err)

	// 409
	case errors.Is(err, apperrors.ErrAlreadyPaired):
		respondError(c, http.StatusConflict, dto.ErrorCodeAlreadyPaired, err)
	case errors.Is(err, apperrors.ErrDuplicateInvite):
		respondError(c, http.StatusConflict, dto.ErrorCodeDuplicateInvite, err)
	case errors.Is(err, apperrors.ErrDuplicateRequest):
		respondError(c, http.StatusConflict, dto.ErrorCodeDuplicateRequest, err)
	case errors.Is(err, apperrors.ErrMentorAtCapacity):
		respondError(c, http.StatusConflict, dto.ErrorCodeMentorAtCapacity, err)
	case errors.Is(err, apperrors.ErrDuplicateProject):
		respondError(c, http.StatusConflict, dto.ErrorCodeDuplicateProject, err)
	case errors.Is(err, apperrors.ErrInvalidState):
		respondError(c, http.StatusConflict, dto.ErrorCodeInvalidState, err)
	case errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrRegistrationNoExists),
		errors.Is(err, apperrors.ErrResourceAlreadyExists):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err)
	case errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceInvalid, err)

	// 400
	case errors.Is(err, apperrors.ErrSemesterMismatch):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeSemesterMismatch, err)
	case errors.Is(err, apperrors.ErrPhaseNotAllowed):
		respondError(c, http.StatusBadRequest, dto.ErrorCodePhaseNotAllowed, err)
	case errors.Is(err, apperrors.ErrProjectNotApproved):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeProjectNotApproved, err)
	case errors.Is(err, apperrors.ErrInvalidDocumentLink):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeInvalidDocumentLink, err)
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err)

	default:
		// Never leak internal error text to the client
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
	}
}

// respondError writes a standard error body. A CustomError's message (set at
// the call site) takes precedence over the sentinel's generic text.
func respondError(c *gin.Context, status int, code dto.ErrorCode, err error) {
	message := err.Error()
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		message = custom.Message
	}
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

// HandleBindingError responds to request body binding failures.
func HandleBindingError(c *gin.Context, err error) {
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
	detail = detail.WithDetails(err.Error())
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
