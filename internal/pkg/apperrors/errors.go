package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Pairing and invitation errors
var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrRegistrationNoExists = errors.New("registration number already exists")
	ErrAlreadyPaired        = errors.New("student already belongs to an active team")
	ErrDuplicateInvite      = errors.New("a pending invitation already exists between these students")
	ErrNotRecipient         = errors.New("only the invitation recipient may respond")
	ErrInvalidState         = errors.New("operation not allowed in the current state")
	ErrSemesterMismatch     = errors.New("students are not in the same phase pool")
	ErrInvitationNotFound   = errors.New("invitation not found")
)

// Mentor assignment errors
var (
	ErrMentorNotFound        = errors.New("mentor not found")
	ErrDuplicateRequest      = errors.New("a pending mentor request already exists for this team")
	ErrMentorAtCapacity      = errors.New("mentor has reached capacity for this phase")
	ErrMentorRequestNotFound = errors.New("mentor request not found")
)

// Team and project errors
var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrDuplicateProject    = errors.New("an active project already exists for this team and phase")
	ErrPhaseNotAllowed     = errors.New("team semester does not allow this project phase")
	ErrProjectNotApproved  = errors.New("project has not been approved by the mentor")
	ErrInvalidDocumentLink = errors.New("document link is not a valid storage URL")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
