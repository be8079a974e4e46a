package stringutil

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI escape codes from the input string.
func StripANSI(str string) string {
	return ansiRegex.ReplaceAllString(str, "")
}

// PrintDotTable writes rows of left/right strings with dots filling the gap.
// Each row is [2]string: left column and right column.
func PrintDotTable(w io.Writer, rows [][2]string) {
	maxLeftLen := 0
	maxRightLen := 0
	for _, row := range rows {
		maxLeftLen = max(maxLeftLen, runewidth.StringWidth(StripANSI(row[0])))
		maxRightLen = max(maxRightLen, runewidth.StringWidth(StripANSI(row[1])))
	}

	spacingLeft := 1
	spacingRight := 1
	extraDots := 5

	totalPadding := spacingLeft + spacingRight + extraDots

	divider := strings.Repeat("⎯", maxLeftLen+totalPadding+maxRightLen)
	fmt.Fprintln(w, divider)

	leftSpace := strings.Repeat(" ", spacingLeft)
	rightSpace := strings.Repeat(" ", spacingRight)

	for _, row := range rows {
		left, right := row[0], row[1]
		numDots := maxLeftLen - runewidth.StringWidth(StripANSI(left)) + extraDots
		dots := strings.Repeat(".", numDots)
		fmt.Fprintf(w, "%s%s%s%s%s\n", left, leftSpace, dots, rightSpace, right)
	}
	fmt.Fprintln(w, divider)
}
