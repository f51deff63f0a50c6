// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package fpga holds the electrical limits of FPGA clock management tiles
// and the registry used to look them up by model, speed grade and voltage.
package fpga

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/cmtgen/internal/primitive"
)

var (
	// ErrUnknownModel is returned when no registered model matches a lookup.
	ErrUnknownModel = errors.New("unknown FPGA model")
	// ErrDuplicateModel is returned when two models share a key.
	ErrDuplicateModel = errors.New("duplicate FPGA model")
	// ErrNoBlock is returned when a model has no limits for a primitive kind.
	ErrNoBlock = errors.New("model has no limits for primitive")
)

// Bounds are the frequency limits of one primitive kind, all in MHz.
type Bounds struct {
	InMin, InMax   float64
	OutMin, OutMax float64
	VCOMin, VCOMax float64
	PFDMin, PFDMax float64
}

// Validate checks that every range is positive and ordered.
func (b Bounds) Validate() error {
	ranges := []struct {
		name     string
		min, max float64
	}{
		{"f_in", b.InMin, b.InMax},
		{"f_out", b.OutMin, b.OutMax},
		{"f_vco", b.VCOMin, b.VCOMax},
		{"f_pfd", b.PFDMin, b.PFDMax},
	}
	for _, r := range ranges {
		if r.min <= 0 || r.max < r.min {
			return fmt.Errorf("invalid %s range [%v; %v]", r.name, r.min, r.max)
		}
	}
	return nil
}

// Model is an FPGA family with the speed grades that share its limits.
// Models are immutable once loaded.
type Model struct {
	Name        string
	SpeedGrades []string
	// Voltage is optional.
	Voltage string
	Blocks  map[primitive.Kind]Bounds
}

// Bounds returns the limits for a primitive kind.
func (m *Model) Bounds(kind primitive.Kind) (Bounds, error) {
	b, ok := m.Blocks[kind]
	if !ok {
		return Bounds{}, fmt.Errorf("%w: %s has no %s block", ErrNoBlock, m.Name, kind)
	}
	return b, nil
}

// ValidateInput reports whether f is an acceptable input frequency.
func (m *Model) ValidateInput(kind primitive.Kind, f float64) bool {
	b, err := m.Bounds(kind)
	return err == nil && b.InMin <= f && f <= b.InMax
}

// ValidateOutput reports whether f is an achievable output frequency.
func (m *Model) ValidateOutput(kind primitive.Kind, f float64) bool {
	b, err := m.Bounds(kind)
	return err == nil && b.OutMin <= f && f <= b.OutMax
}

// Keys lists one key per speed grade.
func (m *Model) Keys() []Key {
	keys := make([]Key, 0, len(m.SpeedGrades))
	for _, g := range m.SpeedGrades {
		keys = append(keys, Key{Name: m.Name, SpeedGrade: g, Voltage: m.Voltage})
	}
	return keys
}

// Key identifies a model for one speed grade.
type Key struct {
	Name       string
	SpeedGrade string
	Voltage    string
}

func (k Key) String() string {
	if k.Voltage == "" {
		return k.Name + " " + k.SpeedGrade
	}
	return k.Name + " " + k.SpeedGrade + " " + k.Voltage
}

func compareKeys(a, b Key) int {
	return cmp.Or(
		strings.Compare(a.Name, b.Name),
		strings.Compare(a.SpeedGrade, b.SpeedGrade),
		strings.Compare(a.Voltage, b.Voltage),
	)
}

func sortKeys(keys []Key) {
	slices.SortFunc(keys, compareKeys)
}
