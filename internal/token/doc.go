// Package token defines the classified tokens produced by the line tokenizer.
// Invariants:
//   - Token.Text is exactly the source bytes covered by Token.Span.
//   - Col/EndCol are 0-based byte columns relative to the line the token starts on.
//   - Trivia (whitespace, newlines, comments) are ordinary tokens here; callers that
//     need the first meaningful token skip kinds for which Kind.IsTrivia is true.
//   - A preprocessor line (#if/#else/#endif) is one Directive token; a line inside an
//     inactive branch is one Inactive token (plus its leading Whitespace).
package token
