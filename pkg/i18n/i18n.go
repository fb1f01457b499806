package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves message ids against the embedded en/id catalogs.
type Translator struct {
	bundle   *goi18n.Bundle
	fallback string
}

func New(defaultLang string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, name := range []string{"locales/active.en.json", "locales/active.id.json"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, name); err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
	}

	if defaultLang == "" {
		defaultLang = "en"
	}
	return &Translator{bundle: bundle, fallback: defaultLang}, nil
}

// T localizes messageID for the given Accept-Language style tags.
// Unknown ids come back unchanged so callers always have something to show.
func (t *Translator) T(lang, messageID string, data map[string]any) string {
	localizer := goi18n.NewLocalizer(t.bundle, lang, t.fallback)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}
