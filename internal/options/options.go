// Package options parses the option string that trails a snippet directive.
//
// The option string is a whitespace separated sequence of tokens:
//
//	noscopes                     a bare flag
//	language=yaml                a field with a bare alphabetic value
//	highlight=232-233            a highlight field with a bare line list
//	comment="<!-- {} -->"        a field with a quoted value
//	markdown!                    a macro expanding into several fields
//
// The comment value places the info comment text at the {} placeholder.
//
// Tokens are folded left to right into a configuration so the last token
// setting a field wins. A macro is folded as if its expansion were spliced in
// at its position. Any unrecognized token discards the whole option string
// and the default configuration is used instead.
package options

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/temirov/snippets/internal/types"
)

const (
	FlagKeepCopyrightComment = "keep_copyright_comment"
	FlagNoScopes             = "noscopes"

	FieldLanguage  = "language"
	FieldComment   = "comment"
	FieldHighlight = "highlight"

	MacroMarkdown = "markdown"

	// CustomLexerQualifier marks a language value as a reference to a lexer
	// class in a Python file, whose case must be preserved.
	CustomLexerQualifier = ".py:"

	// MarkdownLexer is the lexer selected by the markdown macro.
	MarkdownLexer = "lexers.py:MarkdownWithCommentsLexer -x"

	// MarkdownComment is the info comment syntax selected by the markdown macro.
	MarkdownComment = "<!-- {} -->"

	macroSuffix        = "!"
	commentPlaceholder = "{}"
)

// ErrUnknownMacro reports a macro invocation whose name is not defined.
var ErrUnknownMacro = errors.New("unknown option macro")

type optionKind int

const (
	flagOption optionKind = iota
	fieldOption
	macroOption
)

// option is a single parsed token.
type option struct {
	kind  optionKind
	name  string
	value string
}

var macros = map[string][]option{
	MacroMarkdown: {
		{kind: fieldOption, name: FieldLanguage, value: MarkdownLexer},
		{kind: fieldOption, name: FieldComment, value: MarkdownComment},
	},
}

var knownFlags = map[string]struct{}{
	FlagKeepCopyrightComment: {},
	FlagNoScopes:             {},
}

var knownFields = map[string]struct{}{
	FieldLanguage:  {},
	FieldComment:   {},
	FieldHighlight: {},
}

var (
	macroTokenPattern = regexp.MustCompile(`^([a-z_]+)!`)
	fieldTokenPattern = regexp.MustCompile(`^([a-z_]+)=(?:"([^"]*)"|'([^']*)'|([A-Za-z]+)|([0-9][0-9,-]*))`)
	flagTokenPattern  = regexp.MustCompile(`^[a-z_]+`)
	bareValuePattern  = regexp.MustCompile(`^[A-Za-z]+$`)
	bareLinesPattern  = regexp.MustCompile(`^[0-9][0-9,-]*$`)
	commentPattern    = regexp.MustCompile(`^([^{}]*)\{\}([^{}]*)$`)
)

// Result is the outcome of parsing an option string.
type Result struct {
	Configuration types.Configuration
	// Discarded holds the first unrecognized token when the option string was
	// thrown away in favour of the default configuration.
	Discarded string
}

// Parse folds the option string into a configuration.
//
// Only an unknown macro name is reported as an error. Any other unrecognized
// token yields the default configuration with Result.Discarded set.
func Parse(rawOptions string) (Result, error) {
	parsedOptions, unrecognized := tokenize(rawOptions)

	for _, parsedOption := range parsedOptions {
		if parsedOption.kind != macroOption {
			continue
		}
		if _, known := macros[parsedOption.name]; !known {
			return Result{}, fmt.Errorf("%w %q (defined: %s)", ErrUnknownMacro, parsedOption.name+macroSuffix, strings.Join(MacroNames(), ", "))
		}
	}

	if unrecognized != "" {
		return Result{Configuration: types.DefaultConfiguration(), Discarded: unrecognized}, nil
	}

	configuration := types.DefaultConfiguration()
	for _, parsedOption := range parsedOptions {
		apply(&configuration, parsedOption)
	}
	return Result{Configuration: configuration}, nil
}

// tokenize splits the option string into options. It returns the first token
// that could not be recognized, or an empty string.
func tokenize(rawOptions string) ([]option, string) {
	var parsedOptions []option
	firstUnrecognized := ""
	remaining := rawOptions
	for remaining != "" {
		trimmed := strings.TrimLeftFunc(remaining, unicode.IsSpace)
		if trimmed == remaining {
			// Every token must be preceded by whitespace.
			token := nextWord(remaining)
			if firstUnrecognized == "" {
				firstUnrecognized = token
			}
			remaining = remaining[len(token):]
			continue
		}
		remaining = trimmed
		if remaining == "" {
			break
		}
		parsedOption, consumed, ok := matchToken(remaining)
		if !ok {
			token := nextWord(remaining)
			if firstUnrecognized == "" {
				firstUnrecognized = token
			}
			remaining = remaining[len(token):]
			continue
		}
		parsedOptions = append(parsedOptions, parsedOption)
		remaining = remaining[consumed:]
	}
	return parsedOptions, firstUnrecognized
}

// matchToken recognizes a single token at the start of input.
func matchToken(input string) (option, int, bool) {
	if match := macroTokenPattern.FindStringSubmatch(input); match != nil && atBoundary(input, len(match[0])) {
		return option{kind: macroOption, name: match[1]}, len(match[0]), true
	}
	if match := fieldTokenPattern.FindStringSubmatchIndex(input); match != nil && atBoundary(input, match[1]) {
		name := input[match[2]:match[3]]
		if _, known := knownFields[name]; !known {
			return option{}, 0, false
		}
		value := ""
		for group := 2; group <= 5; group++ {
			if match[2*group] >= 0 {
				value = input[match[2*group]:match[2*group+1]]
				break
			}
		}
		// A bare line list is only meaningful for highlight.
		if match[10] >= 0 && name != FieldHighlight {
			return option{}, 0, false
		}
		if name == FieldComment && !commentPattern.MatchString(value) {
			return option{}, 0, false
		}
		return option{kind: fieldOption, name: name, value: value}, match[1], true
	}
	if match := flagTokenPattern.FindString(input); match != "" && atBoundary(input, len(match)) {
		if _, known := knownFlags[match]; !known {
			return option{}, 0, false
		}
		return option{kind: flagOption, name: match}, len(match), true
	}
	return option{}, 0, false
}

func atBoundary(input string, offset int) bool {
	if offset >= len(input) {
		return true
	}
	return unicode.IsSpace(rune(input[offset]))
}

func nextWord(input string) string {
	end := strings.IndexFunc(input, unicode.IsSpace)
	if end < 0 {
		return input
	}
	if end == 0 {
		return input[:1]
	}
	return input[:end]
}

func apply(configuration *types.Configuration, parsedOption option) {
	switch parsedOption.kind {
	case flagOption:
		switch parsedOption.name {
		case FlagKeepCopyrightComment:
			configuration.KeepCopyrightComment = true
		case FlagNoScopes:
			configuration.NoScopes = true
		}
	case fieldOption:
		switch parsedOption.name {
		case FieldLanguage:
			configuration.Language = normalizeLanguage(parsedOption.value)
		case FieldComment:
			configuration.InfoComment = parseCommentSyntax(parsedOption.value)
		case FieldHighlight:
			configuration.HighlightLines = parsedOption.value
		}
	case macroOption:
		for _, expanded := range macros[parsedOption.name] {
			apply(configuration, expanded)
		}
	}
}

// parseCommentSyntax splits a comment value at its placeholder. The value has
// already been matched against commentPattern.
func parseCommentSyntax(value string) types.InfoCommentSyntax {
	match := commentPattern.FindStringSubmatch(value)
	return types.InfoCommentSyntax{Before: match[1], After: match[2]}
}

func normalizeLanguage(language string) string {
	if strings.Contains(language, CustomLexerQualifier) {
		return language
	}
	return strings.ToLower(language)
}

// MacroNames lists the defined macros.
func MacroNames() []string {
	names := make([]string, 0, len(macros))
	for name := range macros {
		names = append(names, name+macroSuffix)
	}
	sort.Strings(names)
	return names
}

// Details renders the configuration back into option-token form.
//
// The result is empty or starts with a space, and parsing it yields the same
// configuration. Only fields that differ from the defaults are written.
func Details(configuration types.Configuration) string {
	defaults := types.DefaultConfiguration()
	var builder strings.Builder
	if configuration.KeepCopyrightComment {
		builder.WriteString(" " + FlagKeepCopyrightComment)
	}
	if configuration.NoScopes {
		builder.WriteString(" " + FlagNoScopes)
	}
	if configuration.Language != defaults.Language {
		builder.WriteString(" " + FieldLanguage + "=" + quoteValue(FieldLanguage, configuration.Language))
	}
	if configuration.InfoComment != defaults.InfoComment {
		comment := configuration.InfoComment.Before + commentPlaceholder + configuration.InfoComment.After
		builder.WriteString(" " + FieldComment + "=" + quoteValue(FieldComment, comment))
	}
	if configuration.HighlightLines != defaults.HighlightLines {
		builder.WriteString(" " + FieldHighlight + "=" + quoteValue(FieldHighlight, configuration.HighlightLines))
	}
	return builder.String()
}

func quoteValue(name, value string) string {
	if bareValuePattern.MatchString(value) {
		return value
	}
	if name == FieldHighlight && bareLinesPattern.MatchString(value) {
		return value
	}
	if !strings.Contains(value, `"`) {
		return `"` + value + `"`
	}
	return "'" + value + "'"
}
