package hyprland

import (
	"strings"
	"testing"

	"codeberg.org/miketth/inputdeck/pkg/inputsource"
	"codeberg.org/miketth/inputdeck/pkg/xkblayouts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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
            <name>colemak</name>
            <description>English (Colemak)</description>
          </configItem>
        </variant>
      </variantList>
    </layout>
    <layout>
      <configItem>
        <name>hu</name>
        <description>Hungarian</description>
        <languageList><iso639Id>hun</iso639Id></languageList>
      </configItem>
      <variantList/>
    </layout>
  </layoutList>
</xkbConfigRegistry>`

func testProvider(t *testing.T) *Provider {
	t.Helper()

	registry, err := xkblayouts.Parse(strings.NewReader(registryXML))
	require.NoError(t, err)

	return NewProvider(registry, zap.NewNop().Sugar())
}

func TestToKeyboardPadsVariants(t *testing.T) {
	kb := keyboard{
		Name:    "at-translated-set-2-keyboard",
		Layout:  "us,us,hu",
		Variant: "colemak",
		Main:    true,
	}.toKeyboard()

	assert.Equal(t, []string{"us", "us", "hu"}, kb.Layouts)
	assert.Equal(t, []string{"colemak", "", ""}, kb.Variants)
}

func TestKeyboardSources(t *testing.T) {
	p := testProvider(t)

	sources := p.keyboardSources(Keyboard{
		Name:     "kbd",
		Layouts:  []string{"us", "us", "hu", "xx"},
		Variants: []string{"", "colemak", "", ""},
	})
	require.Len(t, sources, 4)

	assert.Equal(t, "kbd/0", sources[0].ID)
	assert.Equal(t, "English (US)", sources[0].Name)
	assert.Equal(t, []string{"eng"}, sources[0].Languages)
	assert.Equal(t, inputsource.CategoryLayout, sources[0].Category)
	assert.True(t, sources[0].Selectable)
	assert.True(t, sources[0].Enabled)

	assert.Equal(t, "English (Colemak)", sources[1].Name)
	assert.Equal(t, "Hungarian", sources[2].Name)

	// unknown layout falls back to the raw code
	assert.Equal(t, "xx", sources[3].Name)
	assert.Empty(t, sources[3].Languages)
}

func TestMainKeyboard(t *testing.T) {
	keyboards := []Keyboard{
		{Name: "first"},
		{Name: "the-main-one", Main: true},
	}
	assert.Equal(t, "the-main-one", mainKeyboard(keyboards).Name)

	// without a main flag the first keyboard wins
	assert.Equal(t, "first", mainKeyboard(keyboards[:1]).Name)
}

func TestParseID(t *testing.T) {
	device, idx, err := parseID("at-translated-set-2-keyboard/2")
	require.NoError(t, err)
	assert.Equal(t, "at-translated-set-2-keyboard", device)
	assert.Equal(t, 2, idx)

	_, _, err = parseID("no-separator")
	assert.ErrorIs(t, err, inputsource.ErrNotFound)

	_, _, err = parseID("kbd/notanumber")
	assert.ErrorIs(t, err, inputsource.ErrNotFound)

	_, _, err = parseID("kbd/-1")
	assert.ErrorIs(t, err, inputsource.ErrNotFound)
}

func TestMapSwitchError(t *testing.T) {
	assert.NoError(t, mapSwitchError("ok"))
	assert.NoError(t, mapSwitchError("ok\n"))
	assert.ErrorIs(t, mapSwitchError("layout idx out of range or invalid"), ErrIndexOutOfRange)
	assert.ErrorIs(t, mapSwitchError("device not found"), ErrDeviceNotFound)
	assert.Error(t, mapSwitchError("something exploded"))
}
