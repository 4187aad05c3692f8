// Package diag defines the diagnostic model shared by the scanner, the parser
// and the rule engine.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error. Disabled rules never produce records,
//     so there is no "off" severity here.
//   - Code – numeric identifier with a stable string form (LEX1001, SYN2003,
//     LNT3001). Rule findings share LintRuleViolation and carry Rule.
//   - Rule – rule id for rule findings, empty for scanner/parser findings.
//   - Primary span plus resolved Start/End positions.
//   - Fatal – set on the single closing note of a document whose lint was
//     aborted by an encoding error or an unterminated flow collection.
//   - Notes and Fixes – optional. A fix is a set of text edits; its covering
//     span is the diagnostic's fix range. Fixes are never applied here.
//
// # Emitting
//
// Phases report through a Reporter. BagReporter collects into a Bag, which
// sorts (position, then rule id), deduplicates and counts. Rendering lives in
// internal/diagfmt.
package diag
