package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/temirov/snippets/internal/directive"
	"github.com/temirov/snippets/internal/output"
	"github.com/temirov/snippets/internal/resolver"
)

const (
	yamlRevision      = "39a3727fca69ea65571a15c55741578abce1e763"
	objectsRevision   = "5455265a51666e29ab976152c1a758a422e1004a"
	changelogRevision = "47c68c7f4780d0e2c374cf12b9b54c031277af6d"
	parserRevision    = "8d7143fc33ea7bd4199e0f01b6a5308dfcf03ff9"
)

const yamlLatexExpected = `{
\renewcommand\theFancyVerbLine{ \ttfamily
	\textcolor[rgb]{0.5,0.5,1}{
		\footnotesize
		\oldstylenums{
			\ifnum\value{FancyVerbLine}=-3 \else
			\ifnum\value{FancyVerbLine}=-2 \else
			\ifnum\value{FancyVerbLine}=-1\setcounter{FancyVerbLine}{0}\else
				\arabic{FancyVerbLine}
			\fi\fi\fi
		}
	}
}
\begin{minted}[firstnumber=-3]{yaml}
# 39a3727fca69ea65571a15c55741578abce1e763
# .github/workflows/compile-docs.yaml

name: Compile docs

on:
  push:
    branches: [ main ]
\end{minted}
}`

const objectsLatexExpected = `{
\renewcommand\theFancyVerbLine{ \ttfamily
	\textcolor[rgb]{0.5,0.5,1}{
		\footnotesize
		\oldstylenums{
			\ifnum\value{FancyVerbLine}=-3 \else
			\ifnum\value{FancyVerbLine}=-2 \else
			\ifnum\value{FancyVerbLine}=-1\setcounter{FancyVerbLine}{0}\else
				\arabic{FancyVerbLine}
			\fi\fi\fi
		}
	}
}
\begin{minted}[firstnumber=-3]{lexers.py:SphObjInvTextLexer -x}
# 5455265a51666e29ab976152c1a758a422e1004a
# docs/pyqt5-objects.txt

# === Classes

QApplication py:class 1 qapplication.html -
\end{minted}
}`

const changelogLatexExpected = `{
\renewcommand\theFancyVerbLine{ \ttfamily
	\textcolor[rgb]{0.5,0.5,1}{
		\footnotesize
		\oldstylenums{
			\ifnum\value{FancyVerbLine}=-3 \else
			\ifnum\value{FancyVerbLine}=-2 \else
			\ifnum\value{FancyVerbLine}=-1\setcounter{FancyVerbLine}{0}\else
				\arabic{FancyVerbLine}
			\fi\fi\fi
		}
	}
}
\begin{minted}[firstnumber=-3]{lexers.py:MarkdownWithCommentsLexer -x}
<!-- 47c68c7f4780d0e2c374cf12b9b54c031277af6d -->
<!-- CHANGELOG.md -->

# Changelog

All notable changes to this project will be documented in this file.
\end{minted}
}`

const parserLatexExpected = `{
\renewcommand\theFancyVerbLine{ \ttfamily
	\textcolor[rgb]{0.5,0.5,1}{
		\footnotesize
		\oldstylenums{
			\ifnum\value{FancyVerbLine}=-3 \else
			\ifnum\value{FancyVerbLine}=-2 \else
			\ifnum\value{FancyVerbLine}=-1\setcounter{FancyVerbLine}{135}\else
			\ifnum\value{FancyVerbLine}=137\setcounter{FancyVerbLine}{219}... \else
			\ifnum\value{FancyVerbLine}=221\setcounter{FancyVerbLine}{230}... \else
				\arabic{FancyVerbLine}
			\fi\fi\fi\fi\fi
		}
	}
}
\begin{minted}[firstnumber=-3, highlightlines={232-233}]{python}
# 8d7143fc33ea7bd4199e0f01b6a5308dfcf03ff9
# src/lintrans/matrices/parse.py

class ExpressionParser:

    def _parse_matrix_part(self) -> bool:

        if self.char.isdigit() or self.char == '-':
            if self.current_token.multiplier != '' \
                    or (self.current_token.multiplier == '' and self.current_token.identifier != ''):
                return False

            self._parse_multiplier()
\end{minted}
}`

const parserExcerpt = `        if self.char.isdigit() or self.char == '-':
            if self.current_token.multiplier != '' \
                    or (self.current_token.multiplier == '' and self.current_token.identifier != ''):
                return False

            self._parse_multiplier()`

// parserSource places the excerpt at lines 231-236 under a class opened on
// line 136 and a method opened on line 220.
func parserSource() string {
	lines := make([]string, 0, 236)
	for len(lines) < 135 {
		lines = append(lines, "")
	}
	lines = append(lines, "class ExpressionParser:")
	for len(lines) < 219 {
		lines = append(lines, "        pass")
	}
	lines = append(lines, "    def _parse_matrix_part(self) -> bool:")
	for len(lines) < 230 {
		lines = append(lines, "        pass")
	}
	lines = append(lines, strings.Split(parserExcerpt, "\n")...)
	return strings.Join(lines, "\n") + "\n"
}

func renderingResolver() *resolver.Resolver {
	return resolver.New(fixtureProvider{
		yamlRevision + ":.github/workflows/compile-docs.yaml": "name: Compile docs\n\non:\n  push:\n    branches: [ main ]\n",
		objectsRevision + ":docs/pyqt5-objects.txt":           "# === Classes\n\nQApplication py:class 1 qapplication.html -\n",
		changelogRevision + ":CHANGELOG.md":                   "# Changelog\n\nAll notable changes to this project will be documented in this file.\n",
		parserRevision + ":src/lintrans/matrices/parse.py":    parserSource(),
	})
}

func TestRenderedDirectivesMatchReferenceBlocks(t *testing.T) {
	testCases := []struct {
		name      string
		directive string
		expected  string
	}{
		{
			name:      "yaml_language",
			directive: "%: " + yamlRevision + "\n%: .github/workflows/compile-docs.yaml language=yaml",
			expected:  yamlLatexExpected,
		},
		{
			name:      "custom_lexer_single_quotes",
			directive: "%: " + objectsRevision + "\n%: docs/pyqt5-objects.txt language='lexers.py:SphObjInvTextLexer -x'",
			expected:  objectsLatexExpected,
		},
		{
			name:      "custom_lexer_double_quotes",
			directive: "%: " + objectsRevision + "\n%: docs/pyqt5-objects.txt language=\"lexers.py:SphObjInvTextLexer -x\"",
			expected:  objectsLatexExpected,
		},
		{
			name:      "comment_syntax_double_quotes",
			directive: "%: " + changelogRevision + "\n%: CHANGELOG.md language=\"lexers.py:MarkdownWithCommentsLexer -x\" comment=\"<!-- {} -->\"",
			expected:  changelogLatexExpected,
		},
		{
			name:      "comment_syntax_single_quotes",
			directive: "%: " + changelogRevision + "\n%: CHANGELOG.md language=\"lexers.py:MarkdownWithCommentsLexer -x\" comment='<!-- {} -->'",
			expected:  changelogLatexExpected,
		},
		{
			name:      "markdown_macro",
			directive: "%: " + changelogRevision + "\n%: CHANGELOG.md markdown!",
			expected:  changelogLatexExpected,
		},
		{
			name:      "highlight_lines",
			directive: "%: " + parserRevision + "\n%: src/lintrans/matrices/parse.py:231-236 highlight=232-233",
			expected:  parserLatexExpected,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			parsedDirective, matched := directive.Parse(testCase.directive)
			if !matched {
				t.Fatalf("directive did not parse: %q", testCase.directive)
			}
			snippetData, snippetError := GetSnippetData(context.Background(), renderingResolver(), parsedDirective)
			if snippetError != nil {
				t.Fatalf("unexpected error: %v", snippetError)
			}
			if snippetData.DiscardedOption != "" {
				t.Fatalf("unexpected discarded option %q", snippetData.DiscardedOption)
			}
			if diff := cmp.Diff(testCase.expected, output.RenderLatex(snippetData.Snippet)); diff != "" {
				t.Fatalf("unexpected LaTeX (-want +got):\n%s", diff)
			}
		})
	}
}
