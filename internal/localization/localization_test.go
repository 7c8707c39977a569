package localization_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"opsdash/backend/internal/localization"
)

func writeLocale(t *testing.T, dir, lang, body string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, lang+".json"), []byte(body), 0o644)
	assert.NoError(t, err)
}

func TestNewLocalizer_LoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "en", `{"system.joined_group": "%s joined the group"}`)
	writeLocale(t, dir, "uk", `{"system.joined_group": "%s приєднується до групи"}`)

	l, err := localization.NewLocalizer(dir, "en")
	assert.NoError(t, err)
	assert.Equal(t, "%s приєднується до групи", l.GetString("uk", "system.joined_group"))
}

func TestNewLocalizer_BadDirectory(t *testing.T) {
	_, err := localization.NewLocalizer("/nonexistent/locales", "en")
	assert.Error(t, err)
}

func TestGetString_FallbackChain(t *testing.T) {
	l := localization.NewStaticLocalizer("en", map[string]map[string]string{
		"en": {"system.left_group": "%s left the group"},
		"uk": {},
	})

	// Відсутній український переклад падає на en, потім на сам ключ.
	assert.Equal(t, "%s left the group", l.GetString("uk", "system.left_group"))
	assert.Equal(t, "system.unknown", l.GetString("uk", "system.unknown"))
}

func TestFormat_Interpolates(t *testing.T) {
	l := localization.NewStaticLocalizer("en", map[string]map[string]string{
		"en": {
			"system.joined_group":  "%s joined the group",
			"system.group_created": "Group created",
		},
	})

	assert.Equal(t, "Alice joined the group", l.Format("system.joined_group", "Alice"))
	assert.Equal(t, "Group created", l.Format("system.group_created"))
	assert.Equal(t, "system.missing", l.Format("system.missing", "x"))
}
