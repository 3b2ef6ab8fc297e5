// SPDX-License-Identifier: MIT

package llm

import (
	"regexp"
	"strconv"
)

// scalarRe matches the first decimal in [0,1]-ish shape: .x, 0.x, 1, 1.0, 0.
var scalarRe = regexp.MustCompile(`0?\.\d+|1(\.0+)?|0`)

// ParseScalar extracts the first number from a model response and clamps it
// to [0,1]. Services occasionally answer with prose around the value, or with
// a bare "1"; both are accepted. No number means absent.
func ParseScalar(text string) (float64, bool) {
	m := scalarRe.FindString(text)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v, true
}
