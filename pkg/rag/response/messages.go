package response

import "digital-twin-be/pkg/language"

// generationFailure is returned when the model call itself fails; localized
// so the visitor always gets an answer in their own language.
func generationFailure(lang string) string {
	if lang == language.Korean {
		return "죄송합니다. 응답을 생성하는 중에 오류가 발생했습니다. 다시 시도해주세요."
	}
	return "Sorry, an error occurred while generating the response. Please try again."
}
