//go:build !darwin || !cgo

// Package tis wraps the macOS Text Input Source Services API. This stub
// covers non-darwin platforms and builds without cgo.
package tis

import (
	"context"
	"fmt"

	"codeberg.org/miketth/inputdeck/pkg/inputsource"
	"go.uber.org/zap"
)

type Provider struct{}

func NewProvider(_ *zap.SugaredLogger) (*Provider, error) {
	return nil, fmt.Errorf("text input source services need a darwin cgo build: %w", inputsource.ErrUnavailable)
}

func (p *Provider) Sources(_ context.Context) ([]inputsource.Source, error) {
	return nil, inputsource.ErrUnavailable
}

func (p *Provider) Current(_ context.Context) (inputsource.Source, error) {
	return inputsource.Source{}, inputsource.ErrUnavailable
}

func (p *Provider) Select(_ context.Context, _ string) error {
	return inputsource.ErrUnavailable
}
