package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Webhook ───────────────────────────────────────────────────────
	ErrBadSecret     ErrCode = "UNAUTHORIZED"
	ErrValidation    ErrCode = "VALIDATION_ERROR"
	ErrGroupNotFound ErrCode = "GROUP_NOT_FOUND"

	// ─── Dashboard auth ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Dashboard data ────────────────────────────────────────────────
	ErrGradesNotFound ErrCode = "GRADES_NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
// Dashboard-facing messages are Ukrainian; webhook codes are consumed by
// the Apps Script and only need the code itself.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrBadSecret:
		return "Unauthorized"
	case ErrValidation:
		return "Missing required fields"
	case ErrGroupNotFound:
		return "Group not found"
	case ErrInvalidCredentials:
		return "Невірний логін або пароль."
	case ErrTokenRequired:
		return "Потрібен токен автентифікації."
	case ErrTokenInvalid:
		return "Недійсний токен автентифікації."
	case ErrGradesNotFound:
		return "Оцінки не знайдено."
	case ErrRateLimitExceeded:
		return "Забагато запитів. Спробуйте пізніше."
	case ErrInternal:
		return "Internal server error"
	default:
		return "Unexpected error"
	}
}
