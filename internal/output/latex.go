package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/temirov/snippets/internal/types"
)

const (
	lineNumberPreamble = "\\renewcommand\\theFancyVerbLine{ \\ttfamily\n" +
		"\t\\textcolor[rgb]{0.5,0.5,1}{\n" +
		"\t\t\\footnotesize\n" +
		"\t\t\\oldstylenums{\n" +
		"\t\t\t\\ifnum\\value{FancyVerbLine}=-3 \\else\n" +
		"\t\t\t\\ifnum\\value{FancyVerbLine}=-2 \\else\n"
	lineNumberPrimeFormat   = "\t\t\t\\ifnum\\value{FancyVerbLine}=%d\\setcounter{FancyVerbLine}{%d}\\else\n"
	lineNumberGapFormat     = "\t\t\t\\ifnum\\value{FancyVerbLine}=%d\\setcounter{FancyVerbLine}{%d}... \\else\n"
	lineNumberResumeFormat  = "\t\t\t\\ifnum\\value{FancyVerbLine}=%d\\setcounter{FancyVerbLine}{%d}\\arabic{FancyVerbLine}\\else\n"
	lineNumberFallthrough   = "\t\t\t\t\\arabic{FancyVerbLine}\n\t\t\t\\fi\\fi"
	lineNumberConditionEnd  = "\\fi"
	lineNumberPostamble     = "\n\t\t}\n\t}\n}\n"
	mintedBeginFormat       = "\\begin{minted}[%s]{%s}\n"
	mintedEnd               = "\\end{minted}\n"
	mintedFirstNumberOption = "firstnumber=-3"
	mintedHighlightFormat   = "highlightlines={%s}"
	mintedOptionSeparator   = ", "
	blockOpen               = "{\n"
	blockClose              = "}"
	bodySeparator           = "\n\n"
	jsonIndent              = "  "
)

// parkedCounterBase numbers the counter values used to step over the blank
// separator line between adjacent intervals. Numbering never reaches them on
// its own.
const parkedCounterBase = -100

// RenderLineNumbering renders the FancyVerb line-number macro driven by jumps.
//
// The first jump only primes the counter. Later jumps print an ellipsis when
// they skip at least one line.
//
// A jump without a gap cannot simply reset the counter to its target: the next
// line would count up to the resume marker again and fire the same rule. Such
// a jump parks the counter on a value of its own for the blank separator line
// and a second rule restores the real line number on the line after it.
func RenderLineNumbering(jumps []types.LineJump) string {
	var builder strings.Builder
	builder.WriteString(lineNumberPreamble)
	conditions := 0
	for jumpIndex, jump := range jumps {
		switch {
		case jumpIndex == 0:
			fmt.Fprintf(&builder, lineNumberPrimeFormat, jump.ResumeMarker, jump.JumpTarget)
			conditions++
		case jump.IsGap():
			fmt.Fprintf(&builder, lineNumberGapFormat, jump.ResumeMarker, jump.JumpTarget)
			conditions++
		default:
			parked := parkedCounterBase - 2*jumpIndex
			fmt.Fprintf(&builder, lineNumberPrimeFormat, jump.ResumeMarker, parked)
			fmt.Fprintf(&builder, lineNumberResumeFormat, parked+1, jump.JumpTarget+1)
			conditions += 2
		}
	}
	builder.WriteString(lineNumberFallthrough)
	for range conditions {
		builder.WriteString(lineNumberConditionEnd)
	}
	builder.WriteString(lineNumberPostamble)
	return builder.String()
}

// RenderLatex renders a resolved snippet as a brace-delimited minted block.
func RenderLatex(snippet types.ResolvedSnippet) string {
	configuration := snippet.Configuration
	jumps := BuildLineMap(snippet.Scopes, snippet.Bodies)

	var builder strings.Builder
	builder.WriteString(blockOpen)
	builder.WriteString(RenderLineNumbering(jumps))

	mintedOptions := mintedFirstNumberOption
	if configuration.HighlightLines != "" {
		mintedOptions += mintedOptionSeparator + fmt.Sprintf(mintedHighlightFormat, configuration.HighlightLines)
	}
	fmt.Fprintf(&builder, mintedBeginFormat, mintedOptions, configuration.Language)

	writeInfoComment(&builder, configuration.InfoComment, snippet.Revision)
	writeInfoComment(&builder, configuration.InfoComment, snippet.FilePath)
	builder.WriteString("\n")

	for _, scopeLine := range snippet.Scopes {
		builder.WriteString(scopeLine.Text)
		builder.WriteString(bodySeparator)
	}

	bodyTexts := make([]string, 0, len(snippet.Bodies))
	for _, body := range snippet.Bodies {
		bodyTexts = append(bodyTexts, body.Text)
	}
	builder.WriteString(strings.Join(bodyTexts, bodySeparator))
	builder.WriteString("\n")

	builder.WriteString(mintedEnd)
	builder.WriteString(blockClose)
	return builder.String()
}

func writeInfoComment(builder *strings.Builder, syntax types.InfoCommentSyntax, text string) {
	builder.WriteString(syntax.Before)
	builder.WriteString(text)
	builder.WriteString(syntax.After)
	builder.WriteString("\n")
}

// jsonSnippet is the machine-readable form of a rendered snippet.
type jsonSnippet struct {
	types.ResolvedSnippet
	LineMap []types.LineJump `json:"lineMap"`
	Latex   string           `json:"latex"`
}

// RenderJSON renders a resolved snippet, its line map and its LaTeX block as JSON.
func RenderJSON(snippet types.ResolvedSnippet) (string, error) {
	payload := jsonSnippet{
		ResolvedSnippet: snippet,
		LineMap:         BuildLineMap(snippet.Scopes, snippet.Bodies),
		Latex:           RenderLatex(snippet),
	}
	encoded, marshalError := json.MarshalIndent(payload, "", jsonIndent)
	if marshalError != nil {
		return "", fmt.Errorf("failed to marshal snippet to JSON: %w", marshalError)
	}
	return string(encoded), nil
}
