// Package output builds the line-number jump table and renders resolved snippets.
package output

import "github.com/temirov/snippets/internal/types"

// CounterSentinel is the counter value of the blank line separating the
// informational comment from the code. Numbering starts at -3 so that the two
// informational lines occupy -3 and -2.
const CounterSentinel = -1

// BuildLineMap computes the jump table for a snippet.
//
// Each scope line is an interval of one line and each body is the interval of
// its bounds; scopes come first. Every interval yields one jump: the first
// primes the counter at the sentinel, and each later one resumes just after the
// previous interval and jumps to just before the current one.
func BuildLineMap(scopes []types.ScopeLine, bodies []types.ResolvedBody) []types.LineJump {
	jumps := make([]types.LineJump, 0, len(scopes)+len(bodies))
	resumeMarker := CounterSentinel
	for _, scopeLine := range scopes {
		jumps = append(jumps, types.LineJump{ResumeMarker: resumeMarker, JumpTarget: scopeLine.LineNumber - 1})
		resumeMarker = scopeLine.LineNumber + 1
	}
	for _, body := range bodies {
		jumps = append(jumps, types.LineJump{ResumeMarker: resumeMarker, JumpTarget: body.FirstLine - 1})
		resumeMarker = body.LastLine + 1
	}
	return jumps
}
