// Package core holds the domain records exchanged with the backend and the
// parsing/formatting utilities shared by the terminal client and the server.
//
// This file contains monetary parsing and BRL formatting. Amounts travel on
// the wire as plain floats ("valor"); parsing goes through cents with half-up
// rounding so form input like "12,345" never carries extra precision.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseValor converts a decimal string to a valor with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// performs half-up rounding on the third decimal place. Only positive values
// are accepted.
//
// Examples:
//
//	ParseValor("12.34")  -> 12.34, nil
//	ParseValor("12,34")  -> 12.34, nil
//	ParseValor("12.346") -> 12.35, nil (rounds up)
func ParseValor(s string) (float64, error) {
	cents, err := parseDecimalToCents(s)
	if err != nil {
		return 0, err
	}
	return float64(cents) / 100.0, nil
}

func parseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrValorInvalido
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrValorInvalido
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrValorInvalido
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrValorInvalido
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrValorInvalido
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrValorInvalido
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrValorInvalido
	}
	// Take first two fractional digits; then half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrValorInvalido
	}
	return cents, nil
}

// FormatBRL renders a valor as Brazilian currency, e.g. "R$ 1.234,56".
func FormatBRL(valor float64) string {
	neg := valor < 0
	if neg {
		valor = -valor
	}
	// Round to cents first so 12.345 prints as 12,35 rather than truncating.
	cents := int64(valor*100 + 0.5)
	reais := cents / 100
	rem := cents % 100

	digits := strconv.FormatInt(reais, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	out := "R$ " + b.String() + "," + pad2(rem)
	if neg {
		return "-" + out
	}
	return out
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
