package xkblayouts

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

func Parse(r io.Reader) (*Registry, error) {
	registry := &Registry{}
	if err := xml.NewDecoder(r).Decode(registry); err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}

	return registry, nil
}

func ParseFile(path string) (*Registry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// PrettyName returns the display name for a layout/variant pair, or "" if
// the registry doesn't know it.
func (r *Registry) PrettyName(layout, variant string) string {
	for _, l := range r.LayoutList.Layout {
		if l.ConfigItem.Name != layout {
			continue
		}

		if variant == "" {
			return l.ConfigItem.Description
		}

		for _, v := range l.VariantList.Variant {
			if v.ConfigItem.Name == variant {
				return v.ConfigItem.Description
			}
		}
	}

	return ""
}

// Languages returns the iso639 tags for a layout/variant pair. Variants
// without their own language list inherit the layout's.
func (r *Registry) Languages(layout, variant string) []string {
	for _, l := range r.LayoutList.Layout {
		if l.ConfigItem.Name != layout {
			continue
		}

		if variant != "" {
			for _, v := range l.VariantList.Variant {
				if v.ConfigItem.Name == variant && len(v.ConfigItem.Languages) > 0 {
					return v.ConfigItem.Languages
				}
			}
		}

		return l.ConfigItem.Languages
	}

	return nil
}
