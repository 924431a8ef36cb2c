package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
	}{
		{name: "defaults_to_false", defaultValue: false, arguments: []string{}, expected: false},
		{name: "sets_true_without_value", defaultValue: false, arguments: []string{"--copy"}, expected: true},
		{name: "sets_false_with_equals", defaultValue: true, arguments: []string{"--copy=false"}, expected: false},
		{name: "sets_false_with_no_literal", defaultValue: true, arguments: []string{"--copy", "no"}, expected: false},
		{name: "sets_true_with_on_literal", defaultValue: false, arguments: []string{"--copy", "on"}, expected: true},
		{name: "leaves_option_token_positional", defaultValue: false, arguments: []string{"--copy", "noscopes"}, expected: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			flagValue := !testCase.defaultValue
			registerBooleanFlag(command.Flags(), &flagValue, "copy", testCase.defaultValue, "copy output")
			if parseErr := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments)); parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestRegisterBooleanFlagRejectsUnknownLiteral(t *testing.T) {
	command := &cobra.Command{Use: "boolean-test"}
	var flagValue bool
	registerBooleanFlag(command.Flags(), &flagValue, "force", false, "overwrite")
	if parseErr := command.ParseFlags([]string{"--force=maybe"}); parseErr == nil {
		t.Fatalf("expected parse error for unknown literal")
	}
}

func TestNormalizeBooleanFlagArgumentsStopsAtTerminator(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	var verbose bool
	registerBooleanFlag(root.PersistentFlags(), &verbose, "verbose", false, "verbose")
	child := &cobra.Command{Use: "render"}
	var copyEnabled bool
	registerBooleanFlag(child.Flags(), &copyEnabled, "copy", false, "copy")
	root.AddCommand(child)

	arguments := []string{"--verbose", "yes", "render", "--copy", "off", "--", "--copy", "on"}
	expected := []string{"--verbose=yes", "render", "--copy=off", "--", "--copy", "on"}
	if diff := cmp.Diff(expected, normalizeBooleanFlagArguments(root, arguments)); diff != "" {
		t.Fatalf("unexpected normalized arguments (-want +got):\n%s", diff)
	}
}
