//go:build darwin && cgo

// Package tis wraps the macOS Text Input Source Services API.
package tis

/*
#cgo LDFLAGS: -framework Carbon -framework CoreFoundation
#include <Carbon/Carbon.h>
#include <CoreFoundation/CoreFoundation.h>

static bool deck_copy_cfstring(CFStringRef str, char *buf, size_t n) {
	if (!str) return false;
	return CFStringGetCString(str, buf, n, kCFStringEncodingUTF8);
}

static bool deck_string_prop(TISInputSourceRef src, CFStringRef key, char *buf, size_t n) {
	CFStringRef prop = (CFStringRef)TISGetInputSourceProperty(src, key);
	return deck_copy_cfstring(prop, buf, n);
}

static bool deck_bool_prop(TISInputSourceRef src, CFStringRef key) {
	CFBooleanRef prop = (CFBooleanRef)TISGetInputSourceProperty(src, key);
	if (!prop) return false;
	return CFBooleanGetValue(prop);
}

static CFArrayRef deck_languages(TISInputSourceRef src) {
	return (CFArrayRef)TISGetInputSourceProperty(src, kTISPropertyInputSourceLanguages);
}

// Only keyboard-usable sources; NULL filter would also return ineligible
// ones like handwriting.
static CFArrayRef deck_copy_source_list(void) {
	CFStringRef keys[1] = { kTISPropertyInputSourceCategory };
	CFStringRef values[1] = { kTISCategoryKeyboardInputSource };
	CFDictionaryRef filter = CFDictionaryCreate(kCFAllocatorDefault,
		(const void **)keys, (const void **)values, 1,
		&kCFTypeDictionaryKeyCallBacks, &kCFTypeDictionaryValueCallBacks);
	CFArrayRef list = TISCreateInputSourceList(filter, true);
	CFRelease(filter);
	return list;
}

static TISInputSourceRef deck_source_at(CFArrayRef list, CFIndex i) {
	return (TISInputSourceRef)CFArrayGetValueAtIndex(list, i);
}

// Drain pending input source change notifications so the properties we read
// reflect the present state.
static void deck_pump_runloop(void) {
	CFRunLoopRunInMode(kCFRunLoopDefaultMode, 0, false);
}
*/
import "C"

import (
	"context"
	"fmt"

	"codeberg.org/miketth/inputdeck/pkg/inputsource"
	"go.uber.org/zap"
)

const propBufferSize = 512

type Provider struct {
	log *zap.SugaredLogger
}

func NewProvider(log *zap.SugaredLogger) (*Provider, error) {
	return &Provider{log: log}, nil
}

func (p *Provider) Sources(ctx context.Context) ([]inputsource.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	C.deck_pump_runloop()

	list := C.deck_copy_source_list()
	if list == nil {
		return nil, fmt.Errorf("TISCreateInputSourceList returned nothing: %w", inputsource.ErrUnavailable)
	}
	defer C.CFRelease(C.CFTypeRef(list))

	count := int(C.CFArrayGetCount(list))
	out := make([]inputsource.Source, 0, count)
	for i := 0; i < count; i++ {
		ref := C.deck_source_at(list, C.CFIndex(i))
		out = append(out, sourceFromRef(ref))
	}

	return out, nil
}

func (p *Provider) Current(ctx context.Context) (inputsource.Source, error) {
	if err := ctx.Err(); err != nil {
		return inputsource.Source{}, err
	}

	C.deck_pump_runloop()

	ref := C.TISCopyCurrentKeyboardInputSource()
	if ref == nil {
		return inputsource.Source{}, fmt.Errorf("no current keyboard input source: %w", inputsource.ErrUnavailable)
	}
	defer C.CFRelease(C.CFTypeRef(ref))

	return sourceFromRef(ref), nil
}

func (p *Provider) Select(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	list := C.deck_copy_source_list()
	if list == nil {
		return fmt.Errorf("TISCreateInputSourceList returned nothing: %w", inputsource.ErrUnavailable)
	}
	defer C.CFRelease(C.CFTypeRef(list))

	count := int(C.CFArrayGetCount(list))
	for i := 0; i < count; i++ {
		ref := C.deck_source_at(list, C.CFIndex(i))
		if stringProp(ref, C.kTISPropertyInputSourceID) != id {
			continue
		}

		if !boolProp(ref, C.kTISPropertyInputSourceIsSelectCapable) {
			return fmt.Errorf("source %q: %w", id, inputsource.ErrNotSelectable)
		}

		if status := C.TISSelectInputSource(ref); status != 0 {
			return fmt.Errorf("TISSelectInputSource %q: OSStatus %d", id, int(status))
		}

		p.log.Debugw("selected input source", "id", id)
		return nil
	}

	return fmt.Errorf("source %q: %w", id, inputsource.ErrNotFound)
}

func sourceFromRef(ref C.TISInputSourceRef) inputsource.Source {
	return inputsource.Source{
		ID:         stringProp(ref, C.kTISPropertyInputSourceID),
		Category:   categoryFromType(stringProp(ref, C.kTISPropertyInputSourceType)),
		Name:       stringProp(ref, C.kTISPropertyLocalizedName),
		Selectable: boolProp(ref, C.kTISPropertyInputSourceIsSelectCapable),
		Enabled:    boolProp(ref, C.kTISPropertyInputSourceIsEnabled),
		Languages:  languagesProp(ref),
	}
}

func stringProp(ref C.TISInputSourceRef, key C.CFStringRef) string {
	var buf [propBufferSize]C.char
	if !C.deck_string_prop(ref, key, &buf[0], propBufferSize) {
		return ""
	}
	return C.GoString(&buf[0])
}

func boolProp(ref C.TISInputSourceRef, key C.CFStringRef) bool {
	return bool(C.deck_bool_prop(ref, key))
}

func languagesProp(ref C.TISInputSourceRef) []string {
	langs := C.deck_languages(ref)
	if langs == nil {
		return nil
	}

	count := int(C.CFArrayGetCount(langs))
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		str := C.CFStringRef(C.CFArrayGetValueAtIndex(langs, C.CFIndex(i)))
		var buf [propBufferSize]C.char
		if C.deck_copy_cfstring(str, &buf[0], propBufferSize) {
			out = append(out, C.GoString(&buf[0]))
		}
	}

	return out
}

func categoryFromType(sourceType string) inputsource.Category {
	switch sourceType {
	case "TISTypeKeyboardLayout":
		return inputsource.CategoryLayout
	case "TISTypeKeyboardInputMethodWithoutModes",
		"TISTypeKeyboardInputMethodModeEnabled",
		"TISTypeKeyboardInputMode":
		return inputsource.CategoryInputMethod
	case "TISTypeCharacterPalette", "TISTypeKeyboardViewer":
		return inputsource.CategoryPalette
	}
	return inputsource.Category(sourceType)
}
