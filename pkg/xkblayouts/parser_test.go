package xkblayouts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryXML = `<?xml version="1.0" encoding="UTF-8"?>
<xkbConfigRegistry version="1.1">
  <layoutList>
    <layout>
      <configItem>
        <name>us</name>
        <description>English (US)</description>
        <languageList><iso639Id>eng</iso639Id></languageList>
      </configItem>
      <variantList>
        <variant>
          <configItem>
            <name>intl</name>
            <description>English (US, intl., with dead keys)</description>
          </configItem>
        </variant>
      </variantList>
    </layout>
    <layout>
      <configItem>
        <name>ch</name>
        <description>German (Switzerland)</description>
        <languageList><iso639Id>ger</iso639Id></languageList>
      </configItem>
      <variantList>
        <variant>
          <configItem>
            <name>fr</name>
            <description>French (Switzerland)</description>
            <languageList><iso639Id>fra</iso639Id></languageList>
          </configItem>
        </variant>
      </variantList>
    </layout>
  </layoutList>
</xkbConfigRegistry>`

func parseTestRegistry(t *testing.T) *Registry {
	t.Helper()

	registry, err := Parse(strings.NewReader(registryXML))
	require.NoError(t, err)

	return registry
}

func TestPrettyName(t *testing.T) {
	registry := parseTestRegistry(t)

	assert.Equal(t, "English (US)", registry.PrettyName("us", ""))
	assert.Equal(t, "English (US, intl., with dead keys)", registry.PrettyName("us", "intl"))
	assert.Equal(t, "French (Switzerland)", registry.PrettyName("ch", "fr"))
	assert.Empty(t, registry.PrettyName("us", "nonexistent"))
	assert.Empty(t, registry.PrettyName("nonexistent", ""))
}

func TestLanguages(t *testing.T) {
	registry := parseTestRegistry(t)

	assert.Equal(t, []string{"eng"}, registry.Languages("us", ""))
	// variant without its own language list inherits the layout's
	assert.Equal(t, []string{"eng"}, registry.Languages("us", "intl"))
	// variant with its own list overrides
	assert.Equal(t, []string{"fra"}, registry.Languages("ch", "fr"))
	assert.Nil(t, registry.Languages("nonexistent", ""))
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(strings.NewReader("not xml at all"))
	assert.Error(t, err)
}
