package constant

// Localized user-facing error strings. Korean is the site's primary
// audience, English mirrors for international visitors.
const (
	ErrEmptyMessageKo = "메시지가 없습니다."
	ErrEmptyMessageEn = "Message is required."

	ErrServerKo = "서버 오류가 발생했습니다."
	ErrServerEn = "A server error occurred."
)
