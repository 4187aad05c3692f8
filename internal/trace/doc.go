// Package trace records what the linter is doing: the batch, each file, and
// the scan, parse and lint phases of every document.
//
// # Usage
//
//	yamlcheck lint --trace=- --trace-level=phase catalog/
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: failures only
//   - LevelPhase: the batch and each file
//   - LevelDetail: scan, parse and lint phases
//   - LevelDebug: everything, including per-rule events
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopeFile, path)
//	defer span.End("")
package trace
