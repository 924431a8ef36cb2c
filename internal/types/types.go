// Package types defines every cross‑package data structure used by the snippets CLI.
package types

const (
	CommandProcess = "process"
	CommandRender  = "render"

	FormatRaw  = "raw"
	FormatJSON = "json"

	// DefaultLanguage is the lexer used when a directive does not name one.
	DefaultLanguage = "python"
	// DefaultInfoCommentBefore opens the informational comment lines.
	DefaultInfoCommentBefore = "# "
	// DefaultInfoCommentAfter closes the informational comment lines.
	DefaultInfoCommentAfter = ""

	// RevisionLength is the number of hex digits in a full revision identifier.
	RevisionLength = 40
	// ShortRevisionLength is the number of hex digits shown in diagnostics.
	ShortRevisionLength = 7
)

// LineRange is an inclusive, 1-indexed span of lines.
type LineRange struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// Directive is the structured form of a two-line snippet comment.
type Directive struct {
	// Source is the exact document text the directive was parsed from.
	Source     string      `json:"-"`
	// Offset is the byte position of Source in the scanned document.
	Offset     int         `json:"-"`
	Revision   string      `json:"revision"`
	FilePath   string      `json:"filePath"`
	LineRanges []LineRange `json:"lineRanges,omitempty"`
	RawOptions string      `json:"rawOptions,omitempty"`
}

// ShortRevision returns the abbreviated revision identifier.
func (directive Directive) ShortRevision() string {
	return ShortenRevision(directive.Revision)
}

// ShortenRevision abbreviates a revision identifier for messages.
func ShortenRevision(revision string) string {
	if len(revision) <= ShortRevisionLength {
		return revision
	}
	return revision[:ShortRevisionLength]
}

// InfoCommentSyntax brackets the informational comment lines of a rendered block.
type InfoCommentSyntax struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Configuration holds the typed rendering options of a directive.
type Configuration struct {
	Language             string            `json:"language"`
	InfoComment          InfoCommentSyntax `json:"infoComment"`
	KeepCopyrightComment bool              `json:"keepCopyrightComment"`
	NoScopes             bool              `json:"noScopes"`
	HighlightLines       string            `json:"highlightLines,omitempty"`
}

// DefaultConfiguration returns the configuration used when no options apply.
func DefaultConfiguration() Configuration {
	return Configuration{
		Language: DefaultLanguage,
		InfoComment: InfoCommentSyntax{
			Before: DefaultInfoCommentBefore,
			After:  DefaultInfoCommentAfter,
		},
	}
}

// ResolvedBody is one contiguous excerpt with its bounds in the original file.
type ResolvedBody struct {
	Text      string `json:"text"`
	FirstLine int    `json:"firstLine"`
	LastLine  int    `json:"lastLine"`
}

// ScopeLine is a reconstructed enclosing-scope line.
type ScopeLine struct {
	LineNumber int    `json:"lineNumber"`
	Text       string `json:"text"`
}

// ResolvedSnippet aggregates everything needed to render one directive.
type ResolvedSnippet struct {
	Revision      string         `json:"revision"`
	FilePath      string         `json:"filePath"`
	Configuration Configuration  `json:"configuration"`
	Scopes        []ScopeLine    `json:"scopes"`
	Bodies        []ResolvedBody `json:"bodies"`
}

// LineJump is one entry of the line-number jump table.
//
// When the visible counter reaches ResumeMarker it is reset to JumpTarget.
type LineJump struct {
	ResumeMarker int `json:"resumeMarker"`
	JumpTarget   int `json:"jumpTarget"`
}

// IsGap reports whether the jump skips at least one original line.
func (jump LineJump) IsGap() bool {
	return jump.JumpTarget >= jump.ResumeMarker
}
