// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors matched by [*LoadError] through errors.Is.
var (
	ErrUnreadable        = errors.New("catalog: unreadable input")
	ErrMalformed         = errors.New("catalog: malformed catalog")
	ErrUnsupportedFormat = errors.New("catalog: unsupported catalog format")
	ErrInvalidLocale     = errors.New("catalog: invalid locale")
)

// ErrorKind classifies a [LoadError].
type ErrorKind int

const (
	ErrKindUnreadable ErrorKind = iota + 1
	ErrKindMalformed
	ErrKindUnsupported
	ErrKindInvalidLocale
)

func (k ErrorKind) sentinel() error {
	switch k {
	case ErrKindUnreadable:
		return ErrUnreadable
	case ErrKindMalformed:
		return ErrMalformed
	case ErrKindUnsupported:
		return ErrUnsupportedFormat
	case ErrKindInvalidLocale:
		return ErrInvalidLocale
	default:
		return nil
	}
}

// LoadError reports why a catalogue could not be loaded.
type LoadError struct {
	Locale string
	Path   string // empty when decoding from a plain stream
	Kind   ErrorKind
	Line   int // 0 when unknown
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder

	b.WriteString("catalog: load")

	if e.Locale != "" {
		b.WriteString(" locale " + strconv.Quote(e.Locale))
	}

	if e.Path != "" {
		b.WriteString(" from " + e.Path)
	}

	if e.Line > 0 {
		b.WriteString(" line " + strconv.Itoa(e.Line))
	}

	if s := e.Kind.sentinel(); s != nil {
		b.WriteString(": " + strings.TrimPrefix(s.Error(), "catalog: "))
	}

	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}

	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is matches the sentinel error for e's kind.
func (e *LoadError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func malformed(line int, format string, args ...any) *LoadError {
	return &LoadError{Kind: ErrKindMalformed, Line: line, Err: fmt.Errorf(format, args...)}
}

// withSource fills in the locale and path of err if it is a [*LoadError].
func withSource(err error, locale, path string) error {
	var le *LoadError
	if errors.As(err, &le) {
		if le.Locale == "" {
			le.Locale = locale
		}

		if le.Path == "" {
			le.Path = path
		}
	}

	return err
}

// WarningKind classifies a [Warning].
type WarningKind int

const (
	// WarnDuplicateKey means a later record replaced an earlier one with the same key.
	WarnDuplicateKey WarningKind = iota + 1
	// WarnPlaceholderMismatch means the %n markers of a translation differ from its source.
	WarnPlaceholderMismatch
	// WarnLocaleMismatch means the catalogue declares a different language than requested.
	WarnLocaleMismatch
)

func (k WarningKind) String() string {
	switch k {
	case WarnDuplicateKey:
		return "duplicate-key"
	case WarnPlaceholderMismatch:
		return "placeholder-mismatch"
	case WarnLocaleMismatch:
		return "locale-mismatch"
	default:
		return "WarningKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Warning is a non-fatal problem found while building a catalogue.
type Warning struct {
	Kind   WarningKind
	Key    Key
	Line   int
	Detail string
}

func (w Warning) String() string {
	s := w.Kind.String()
	if w.Line > 0 {
		s += " at line " + strconv.Itoa(w.Line)
	}

	if w.Key != (Key{}) {
		s += " " + strconv.Quote(w.Key.String())
	}

	if w.Detail != "" {
		s += ": " + w.Detail
	}

	return s
}
