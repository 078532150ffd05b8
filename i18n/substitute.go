// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import "strings"

// Substitute replaces the positional markers "%1" through "%9" in s with
// args[0] through args[8] in a single pass, so markers inside arguments
// are left alone. A marker without a matching argument stays literal and
// a "%" not followed by 1-9 is copied unchanged.
func Substitute(s string, args ...string) string {
	out, _ := substitute(s, args)

	return out
}

// substitute is [Substitute] that also returns the marker indices that had
// no argument.
func substitute(s string, args []string) (string, []int) {
	if strings.IndexByte(s, '%') < 0 {
		return s, nil
	}

	var (
		b       strings.Builder
		missing []int
	)

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' || i+1 == len(s) || s[i+1] < '1' || s[i+1] > '9' {
			b.WriteByte(c)

			continue
		}

		n := int(s[i+1] - '0')
		if n <= len(args) {
			b.WriteString(args[n-1])
		} else {
			b.WriteString(s[i : i+2])

			missing = append(missing, n)
		}

		i++
	}

	return b.String(), missing
}
