package main

import (
	"fmt"
	"runtime"

	"codeberg.org/miketth/inputdeck/pkg/hyprland"
	"codeberg.org/miketth/inputdeck/pkg/inputsource"
	"codeberg.org/miketth/inputdeck/pkg/inputsource/memory"
	"codeberg.org/miketth/inputdeck/pkg/tis"
	"codeberg.org/miketth/inputdeck/pkg/xkblayouts"
	"go.uber.org/zap"
)

func newProvider(demo bool, evdevXMLPath string, log *zap.SugaredLogger) (inputsource.Provider, error) {
	if demo {
		return memory.NewProvider(demoSources()...), nil
	}

	switch runtime.GOOS {
	case "darwin":
		return tis.NewProvider(log)

	case "linux":
		registry, err := xkblayouts.ParseFile(evdevXMLPath)
		if err != nil {
			return nil, fmt.Errorf("parse xkb registry: %w", err)
		}
		return hyprland.NewProvider(registry, log), nil
	}

	return nil, fmt.Errorf("no provider for %s, try -demo: %w", runtime.GOOS, inputsource.ErrUnavailable)
}

func demoSources() []inputsource.Source {
	return []inputsource.Source{
		{
			ID:         "demo.keylayout.US",
			Category:   inputsource.CategoryLayout,
			Name:       "U.S.",
			Selectable: true,
			Enabled:    true,
			Languages:  []string{"en"},
		},
		{
			ID:         "demo.keylayout.German",
			Category:   inputsource.CategoryLayout,
			Name:       "German",
			Selectable: true,
			Enabled:    true,
			Languages:  []string{"de"},
		},
		{
			ID:         "demo.keylayout.Greek",
			Category:   inputsource.CategoryLayout,
			Name:       "Greek",
			Selectable: true,
			Enabled:    false,
			Languages:  []string{"el"},
		},
		{
			ID:         "demo.inputmethod.Pinyin",
			Category:   inputsource.CategoryInputMethod,
			Name:       "Pinyin - Simplified",
			Selectable: true,
			Enabled:    true,
			Languages:  []string{"zh-Hans"},
		},
		{
			ID:         "demo.palette.Emoji",
			Category:   inputsource.CategoryPalette,
			Name:       "Emoji & Symbols",
			Selectable: false,
			Enabled:    true,
		},
	}
}
