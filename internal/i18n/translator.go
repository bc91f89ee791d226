package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Sidebar strings that have translations.
const (
	MsgAddTag   = "Add Tag"
	MsgOrganize = "Organize"
	MsgDone     = "Done"
	MsgTags     = "Tags"
	MsgPriority = "Priority"
)

var translations = map[language.Tag]map[string]string{
	language.German: {
		MsgAddTag:   "Tag hinzufügen",
		MsgOrganize: "Ordnen",
		MsgDone:     "Fertig",
		MsgTags:     "Tags",
		MsgPriority: "Wichtig",
		"Inbox":     "Posteingang",
		"Drafts":    "Entwürfe",
		"Outbox":    "Postausgang",
		"Sent":      "Gesendet",
		"Spam":      "Spam",
		"Trash":     "Papierkorb",
	},
	language.French: {
		MsgAddTag:   "Ajouter un tag",
		MsgOrganize: "Organiser",
		MsgDone:     "Terminé",
		MsgTags:     "Tags",
		MsgPriority: "Prioritaires",
		"Inbox":     "Boîte de réception",
		"Drafts":    "Brouillons",
		"Outbox":    "Boîte d'envoi",
		"Sent":      "Envoyés",
		"Spam":      "Indésirables",
		"Trash":     "Corbeille",
	},
}

var supported = []language.Tag{language.English, language.German, language.French}

var matcher = language.NewMatcher(supported)

var cat = mustCatalog()

func mustCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic("i18n: " + err.Error())
			}
		}
	}
	return b
}

// Translator looks up UI strings for one language. Keys without a
// translation are returned unchanged.
type Translator struct {
	lang    language.Tag
	printer *message.Printer
}

// New returns a Translator for the closest supported match of lang.
// Unparsable or unknown languages fall back to English.
func New(lang string) *Translator {
	tag := language.English
	if parsed, err := language.Parse(strings.TrimSpace(lang)); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Translator{
		lang:    tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// Language returns the BCP 47 tag in use.
func (t *Translator) Language() string {
	return t.lang.String()
}

// T translates key. User-supplied strings such as tag names pass through
// here too, so anything that looks like a format string is left alone.
func (t *Translator) T(key string) string {
	if key == "" || strings.ContainsRune(key, '%') {
		return key
	}
	return t.printer.Sprintf(key)
}
