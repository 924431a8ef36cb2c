package resolver

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/temirov/snippets/internal/types"
)

const testRevision = "29ec1fedbf307e3b7ca731c4a381535fec899b0b"

const licenseNotice = "# lintrans - The linear transformation visualizer\n" +
	"# Copyright (C) 2021-2022 D. Dyson (DoctorDalek1963)\n" +
	"\n" +
	"# This program is licensed under GNU GPLv3, available here:\n" +
	"# <https://www.gnu.org/licenses/gpl-3.0.html>\n" +
	"\n"

type mapProvider map[string]string

func (provider mapProvider) FileText(_ context.Context, revision string, filePath string) (string, error) {
	text, found := provider[revision+":"+filePath]
	if !found {
		return "", errors.New("missing fixture")
	}
	return text, nil
}

func resolveFixture(t *testing.T, fileText string, lineRanges []types.LineRange, configuration types.Configuration) (Resolution, error) {
	t.Helper()
	provider := mapProvider{testRevision + ":module.py": fileText}
	parsedDirective := types.Directive{Revision: testRevision, FilePath: "module.py", LineRanges: lineRanges}
	return New(provider).Resolve(context.Background(), parsedDirective, configuration)
}

func TestResolveWholeFile(t *testing.T) {
	keepHeader := types.DefaultConfiguration()
	keepHeader.KeepCopyrightComment = true

	testCases := []struct {
		name          string
		fileText      string
		configuration types.Configuration
		expected      types.ResolvedBody
	}{
		{
			name:          "no_header",
			fileText:      "import os\n\nprint(os.name)\n",
			configuration: types.DefaultConfiguration(),
			expected:      types.ResolvedBody{Text: "import os\n\nprint(os.name)", FirstLine: 1, LastLine: 3},
		},
		{
			name:          "plain_header_stripped",
			fileText:      licenseNotice + "import os\n",
			configuration: types.DefaultConfiguration(),
			expected:      types.ResolvedBody{Text: "import os", FirstLine: 7, LastLine: 7},
		},
		{
			name:          "shebang_header_stripped",
			fileText:      "#!/usr/bin/env python\n\n" + licenseNotice + "main()\n",
			configuration: types.DefaultConfiguration(),
			expected:      types.ResolvedBody{Text: "main()", FirstLine: 9, LastLine: 9},
		},
		{
			name:          "header_kept_on_request",
			fileText:      licenseNotice + "import os\n",
			configuration: keepHeader,
			expected:      types.ResolvedBody{Text: strings.TrimSuffix(licenseNotice, "\n") + "\nimport os", FirstLine: 1, LastLine: 7},
		},
		{
			name:          "single_year_header",
			fileText:      strings.Replace(licenseNotice, "2021-2022", "2022", 1) + "x = 1\n",
			configuration: types.DefaultConfiguration(),
			expected:      types.ResolvedBody{Text: "x = 1", FirstLine: 7, LastLine: 7},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			resolution, resolveError := resolveFixture(t, testCase.fileText, nil, testCase.configuration)
			if resolveError != nil {
				t.Fatalf("unexpected error: %v", resolveError)
			}
			if diff := cmp.Diff([]types.ResolvedBody{testCase.expected}, resolution.Bodies); diff != "" {
				t.Fatalf("unexpected bodies (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveExplicitRangesKeepOrderAndHeader(t *testing.T) {
	fileText := licenseNotice + "a = 1\nb = 2\nc = 3\n"
	resolution, resolveError := resolveFixture(t, fileText, []types.LineRange{{First: 9, Last: 9}, {First: 1, Last: 2}}, types.DefaultConfiguration())
	if resolveError != nil {
		t.Fatalf("unexpected error: %v", resolveError)
	}
	expected := []types.ResolvedBody{
		{Text: "c = 3", FirstLine: 9, LastLine: 9},
		{Text: "# lintrans - The linear transformation visualizer\n# Copyright (C) 2021-2022 D. Dyson (DoctorDalek1963)", FirstLine: 1, LastLine: 2},
	}
	if diff := cmp.Diff(expected, resolution.Bodies); diff != "" {
		t.Fatalf("unexpected bodies (-want +got):\n%s", diff)
	}
	if resolution.FirstLine() != 1 {
		t.Fatalf("expected first line 1, got %d", resolution.FirstLine())
	}
	if len(resolution.Lines) != 9 {
		t.Fatalf("expected 9 lines, got %d", len(resolution.Lines))
	}
}

func TestResolveReportsOutOfRange(t *testing.T) {
	_, resolveError := resolveFixture(t, "a\nb\n", []types.LineRange{{First: 2, Last: 5}}, types.DefaultConfiguration())
	if !errors.Is(resolveError, ErrLineOutOfRange) {
		t.Fatalf("expected ErrLineOutOfRange, got %v", resolveError)
	}
}

func TestResolvePropagatesProviderError(t *testing.T) {
	parsedDirective := types.Directive{Revision: testRevision, FilePath: "absent.py"}
	if _, resolveError := New(mapProvider{}).Resolve(context.Background(), parsedDirective, types.DefaultConfiguration()); resolveError == nil {
		t.Fatalf("expected provider error")
	}
}

func TestCopyrightHeaderLength(t *testing.T) {
	header := DefaultCopyrightHeader()
	testCases := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "plain", text: licenseNotice + "x\n", expected: 6},
		{name: "shebang", text: "#!/usr/bin/env python\n\n" + licenseNotice, expected: 8},
		{name: "hash_separator_line", text: strings.Replace(licenseNotice, "\n\n#", "\n#\n#", 1) + "x\n", expected: 6},
		{name: "other_project", text: strings.Replace(licenseNotice, "lintrans", "other", 1) + "x\n", expected: 0},
		{name: "too_short", text: "# lintrans\n", expected: 0},
		{name: "notice_without_blank_line", text: strings.TrimSuffix(licenseNotice, "\n") + "x = 1\n", expected: 0},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			lines := strings.Split(strings.TrimSuffix(testCase.text, "\n"), "\n")
			if length := header.Length(lines); length != testCase.expected {
				t.Fatalf("expected %d, got %d", testCase.expected, length)
			}
		})
	}
}

func TestSliceBodiesAllowsEmptyWholeFile(t *testing.T) {
	bodies, sliceError := SliceBodies(nil, []types.LineRange{{First: 1, Last: 0}})
	if sliceError != nil {
		t.Fatalf("unexpected error: %v", sliceError)
	}
	if diff := cmp.Diff([]types.ResolvedBody{{Text: "", FirstLine: 1, LastLine: 0}}, bodies); diff != "" {
		t.Fatalf("unexpected bodies (-want +got):\n%s", diff)
	}
}

func TestResolveWithCustomCopyrightHeader(t *testing.T) {
	header := CopyrightHeader{Plain: regexp.MustCompile(`\A// SPDX-License-Identifier: MIT\n(?:\n.*){4}\z`)}
	provider := mapProvider{testRevision + ":main.go": "// SPDX-License-Identifier: MIT\n\n\n\n\n\npackage main\n"}
	parsedDirective := types.Directive{Revision: testRevision, FilePath: "main.go"}

	resolution, resolveError := New(provider).WithCopyrightHeader(header).Resolve(context.Background(), parsedDirective, types.DefaultConfiguration())
	if resolveError != nil {
		t.Fatalf("unexpected error: %v", resolveError)
	}
	if diff := cmp.Diff([]types.ResolvedBody{{Text: "package main", FirstLine: 7, LastLine: 7}}, resolution.Bodies); diff != "" {
		t.Fatalf("unexpected bodies (-want +got):\n%s", diff)
	}
}
