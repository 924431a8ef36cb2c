package utils

import (
	"strings"
	"unicode/utf8"
)

const (
	lineFeed       = "\n"
	carriageReturn = "\r"
	spaceCharacter = ' '
)

// SplitLines splits text into lines without their terminators.
// A single trailing newline does not produce an empty final line, and
// carriage returns preceding a newline are dropped.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	trimmedText := strings.TrimSuffix(text, lineFeed)
	lines := strings.Split(trimmedText, lineFeed)
	for lineIndex, line := range lines {
		lines[lineIndex] = strings.TrimSuffix(line, carriageReturn)
	}
	return lines
}

// LeadingSpaces counts the space characters at the start of line.
// Tabs are not counted.
func LeadingSpaces(line string) int {
	count := 0
	for count < len(line) && line[count] == spaceCharacter {
		count++
	}
	return count
}

// IsText reports whether data is valid UTF-8 without NUL bytes.
func IsText(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return false
		}
	}
	return true
}
