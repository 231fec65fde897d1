package corpus

import _ "embed"

//go:embed sample_hamlet.md
var sampleHamlet string

// Sample returns the bundled demonstration text, a prose chronicle of
// Hamlet, for index builds run without any source files.
func Sample() SourceDoc {
	return SourceDoc{
		Title: "Hamlet",
		Path:  "(embedded sample)",
		Text:  sampleHamlet,
	}
}
