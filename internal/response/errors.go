package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrRefreshInvalid     ErrCode = "REFRESH_TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden           ErrCode = "FORBIDDEN"
	ErrLevelTestRestricted ErrCode = "LEVEL_TEST_RESTRICTED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrEmailTaken    ErrCode = "EMAIL_TAKEN"
	ErrUsernameTaken ErrCode = "USERNAME_TAKEN"

	// ─── Test engine ───────────────────────────────────────────────────
	ErrTestNotFound    ErrCode = "TEST_NOT_FOUND"
	ErrTestMalformed   ErrCode = "TEST_MALFORMED"
	ErrInvalidSession  ErrCode = "INVALID_SESSION"
	ErrInvalidQuestion ErrCode = "INVALID_QUESTION"
	ErrInvalidOption   ErrCode = "INVALID_OPTION"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Неверный логин или пароль."
	case ErrTokenRequired:
		return "Требуется токен авторизации."
	case ErrTokenInvalid:
		return "Недействительный токен."
	case ErrRefreshInvalid:
		return "Недействительный токен обновления."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Доступ запрещён."
	case ErrLevelTestRestricted:
		return "Для прохождения тестов по уровням необходимо войти в систему."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Некорректные данные. Проверьте введённые значения."
	case ErrInvalidPayload:
		return "Некорректный формат запроса."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Ресурс не найден."
	case ErrEmailTaken:
		return "Пользователь с таким email уже существует."
	case ErrUsernameTaken:
		return "Пользователь с таким именем пользователя уже существует."

	// ─── Test engine ───────────────────────────────────────────────────
	case ErrTestNotFound:
		return "Тест не найден."
	case ErrTestMalformed:
		return "Файл теста повреждён или имеет неверный формат."
	case ErrInvalidSession:
		return "Недействительная сессия теста."
	case ErrInvalidQuestion:
		return "Вопрос не найден в тесте."
	case ErrInvalidOption:
		return "Выбранный вариант ответа не существует."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Слишком много запросов. Попробуйте позже."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Ошибка сервера."
	default:
		return "Произошла непредвиденная ошибка."
	}
}
