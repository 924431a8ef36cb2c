package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName     = "bool"
	toggleImplicitLiteral  = "true"
	toggleAcceptedListing  = "true, false, yes, no, on, off, 1, 0"
	toggleInvalidValueText = "invalid boolean value"
	flagPrefix             = "--"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseToggleLiteral interprets a boolean flag value. The empty string means true.
func parseToggleLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return true, true
	}
	value, known := toggleLiterals[normalized]
	return value, known
}

// toggleValue is a pflag.Value accepting the literals above.
type toggleValue struct {
	target *bool
	name   string
}

func (value *toggleValue) Set(input string) error {
	parsed, known := parseToggleLiteral(input)
	if !known || value.target == nil {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", toggleInvalidValueText, input, value.name, toggleAcceptedListing)
	}
	*value.target = parsed
	return nil
}

func (value *toggleValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleValue) Type() string {
	return toggleFlagTypeName
}

// registerBooleanFlag defines a flag that may be given bare, with =value or
// followed by a separate boolean literal.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.Var(&toggleValue{target: target, name: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = toggleImplicitLiteral
}

// normalizeBooleanFlagArguments joins "--flag literal" pairs into "--flag=literal"
// for every boolean flag known to command or its children. Arguments after "--"
// are left alone so render option tokens pass through unchanged.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	booleanFlags := map[string]struct{}{}
	collectBooleanFlagNames(command, booleanFlags)
	if len(booleanFlags) == 0 {
		return arguments
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == flagPrefix {
			return append(normalized, arguments[index:]...)
		}
		name, isLongFlag := strings.CutPrefix(current, flagPrefix)
		_, isBoolean := booleanFlags[name]
		if isLongFlag && isBoolean && index+1 < len(arguments) {
			next := arguments[index+1]
			if next != "" && !strings.HasPrefix(next, "-") {
				if _, known := toggleLiterals[strings.ToLower(strings.TrimSpace(next))]; known {
					normalized = append(normalized, current+"="+next)
					index++
					continue
				}
			}
		}
		normalized = append(normalized, current)
	}
	return normalized
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	if command == nil {
		return
	}
	record := func(flag *pflag.Flag) {
		if flag.Value != nil && flag.Value.Type() == toggleFlagTypeName {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(record)
	command.Flags().VisitAll(record)
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}
