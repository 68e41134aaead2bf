// Package i18n holds the fixed fallback messages shown when the backend
// returns no parseable error message.
package i18n

import "strings"

// DefaultLanguage is used for unknown or empty languages.
const DefaultLanguage = "ru"

// Message codes.
const (
	CartLoadFailed       = "cart_load_failed"
	AnalysisLoadFailed   = "analysis_load_failed"
	PigmentAddFailed     = "pigment_add_failed"
	PigmentRemoveFailed  = "pigment_remove_failed"
	PigmentUpdateFailed  = "pigment_update_failed"
	AnalysisUpdateFailed = "analysis_update_failed"
	AnalysisFormFailed   = "analysis_form_failed"
	AnalysisDeleteFailed = "analysis_delete_failed"
	AnalysisCompleteFail = "analysis_complete_failed"
	AnalysesLoadFailed   = "analyses_load_failed"
	PigmentsLoadFailed   = "pigments_load_failed"
	LoginFailed          = "login_failed"
	RegisterFailed       = "register_failed"
	LogoutFailed         = "logout_failed"
	RefreshFailed        = "refresh_failed"
	ProfileLoadFailed    = "profile_load_failed"
	ProfileUpdateFailed  = "profile_update_failed"
)

var messages = map[string]map[string]string{
	"ru": {
		CartLoadFailed:       "Ошибка при загрузке корзины",
		AnalysisLoadFailed:   "Ошибка при загрузке заявки",
		PigmentAddFailed:     "Ошибка при добавлении пигмента",
		PigmentRemoveFailed:  "Ошибка при удалении пигмента",
		PigmentUpdateFailed:  "Ошибка при обновлении пигмента",
		AnalysisUpdateFailed: "Ошибка при обновлении заявки",
		AnalysisFormFailed:   "Ошибка при формировании заявки",
		AnalysisDeleteFailed: "Ошибка при удалении заявки",
		AnalysisCompleteFail: "Ошибка при завершении заявки",
		AnalysesLoadFailed:   "Ошибка при загрузке заявок",
		PigmentsLoadFailed:   "Ошибка при загрузке данных",
		LoginFailed:          "Ошибка авторизации",
		RegisterFailed:       "Ошибка регистрации",
		LogoutFailed:         "Ошибка при выходе из системы",
		RefreshFailed:        "Ошибка обновления токена",
		ProfileLoadFailed:    "Ошибка загрузки профиля",
		ProfileUpdateFailed:  "Ошибка обновления профиля",
	},
	"en": {
		CartLoadFailed:       "Failed to load cart",
		AnalysisLoadFailed:   "Failed to load analysis",
		PigmentAddFailed:     "Failed to add pigment",
		PigmentRemoveFailed:  "Failed to remove pigment",
		PigmentUpdateFailed:  "Failed to update pigment",
		AnalysisUpdateFailed: "Failed to update analysis",
		AnalysisFormFailed:   "Failed to submit analysis",
		AnalysisDeleteFailed: "Failed to delete analysis",
		AnalysisCompleteFail: "Failed to complete analysis",
		AnalysesLoadFailed:   "Failed to load analyses",
		PigmentsLoadFailed:   "Failed to load data",
		LoginFailed:          "Authorization failed",
		RegisterFailed:       "Registration failed",
		LogoutFailed:         "Logout failed",
		RefreshFailed:        "Token refresh failed",
		ProfileLoadFailed:    "Failed to load profile",
		ProfileUpdateFailed:  "Failed to update profile",
	},
}

// Normalize maps a language tag such as "en-US" to a supported language,
// falling back to DefaultLanguage.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	if _, ok := messages[lang]; ok {
		return lang
	}
	return DefaultLanguage
}

// T returns the message for code in lang. Unknown languages use
// DefaultLanguage; unknown codes return the code itself.
func T(lang, code string) string {
	if msg, ok := messages[Normalize(lang)][code]; ok {
		return msg
	}
	if msg, ok := messages[DefaultLanguage][code]; ok {
		return msg
	}
	return code
}
