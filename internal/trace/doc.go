// Package trace records request and step spans of the formatting pipeline.
//
// Enable tracing via command-line flags:
//
//	reindent align --trace=- --trace-level=step --line 3 --col 5 file.sg
//
// LevelRequest records one span per formatting request or CLI file.
// LevelStep adds the steps inside a request (snapshot, config, tokenize,
// brace match, print).
//
// Tracers travel with the request context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopeStep, "tokenize")
//	defer span.End("")
package trace
