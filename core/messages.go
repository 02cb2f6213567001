package core

import ut "github.com/go-playground/universal-translator"

// Message keys of the user facing generic messages.
const (
	MsgLoadFailed     = "msg_load_failed"
	MsgSaveFailed     = "msg_save_failed"
	MsgDeleteFailed   = "msg_delete_failed"
	MsgPartialLoad    = "msg_partial_load"
	MsgSessionExpired = "msg_session_expired"
	MsgForbidden      = "msg_forbidden"
	MsgServerError    = "msg_server_error"
)

var messages = map[string]map[string]string{
	"en": {
		MsgLoadFailed:     "Unable to load data. Please try again.",
		MsgSaveFailed:     "Unable to save changes. Please try again.",
		MsgDeleteFailed:   "Unable to delete this item. Please try again.",
		MsgPartialLoad:    "Some data could not be loaded.",
		MsgSessionExpired: "Your session has expired. Please log in again.",
		MsgForbidden:      "You are not allowed to access this page.",
		MsgServerError:    "Something went wrong on our side.",
	},
	"fr": {
		MsgLoadFailed:     "Impossible de charger les données. Veuillez réessayer.",
		MsgSaveFailed:     "Impossible d'enregistrer les modifications. Veuillez réessayer.",
		MsgDeleteFailed:   "Impossible de supprimer cet élément. Veuillez réessayer.",
		MsgPartialLoad:    "Certaines données n'ont pas pu être chargées.",
		MsgSessionExpired: "Votre session a expiré. Veuillez vous reconnecter.",
		MsgForbidden:      "Vous n'êtes pas autorisé à accéder à cette page.",
		MsgServerError:    "Une erreur est survenue de notre côté.",
	},
}

func registerMessages(translator ut.Translator) {
	texts, ok := messages[translator.Locale()]
	if !ok {
		texts = messages["en"]
	}
	for key, text := range texts {
		_ = translator.Add(key, text, true)
	}
}

// Localize returns the text of a message key, or the key itself when the translator does not know it.
func Localize(translator ut.Translator, key string) string {
	if translator != nil {
		if s, err := translator.T(key); err == nil && s != "" {
			return s
		}
	}
	if s, ok := messages["en"][key]; ok {
		return s
	}
	return key
}
