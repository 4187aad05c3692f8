package diagfmt

import (
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"

	"yamlcheck/internal/diag"
	"yamlcheck/internal/source"
)

type fixPreview struct {
	before []string
	after  []string
}

// buildFixPreview applies every edit of fix to the whole lines it touches.
func buildFixPreview(file *source.File, fix diag.Fix) (fixPreview, error) {
	if file == nil {
		return fixPreview{}, fmt.Errorf("nil file")
	}
	if len(fix.Edits) == 0 {
		return fixPreview{}, fmt.Errorf("fix %q has no edits", fix.Title)
	}
	edits := slices.Clone(fix.Edits)
	slices.SortFunc(edits, func(a, b diag.FixEdit) int { return int(a.Span.Start) - int(b.Span.Start) })

	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fixPreview{}, fmt.Errorf("len file content overflow: %w", err)
	}
	first, last := edits[0].Span, edits[len(edits)-1].Span
	blockStart := lineStartOffset(file, file.Pos(min(first.Start, size)).Line)
	blockEnd := lineEndOffset(file, file.Pos(min(last.End, size)).Line, size)

	var after strings.Builder
	cur := blockStart
	for _, e := range edits {
		if e.Span.Start < cur || e.Span.End > blockEnd || e.Span.End < e.Span.Start {
			return fixPreview{}, fmt.Errorf("edit %d..%d overlaps or leaves the preview block", e.Span.Start, e.Span.End)
		}
		after.Write(file.Content[cur:e.Span.Start])
		after.WriteString(e.NewText)
		cur = e.Span.End
	}
	after.Write(file.Content[cur:blockEnd])

	return fixPreview{
		before: splitPreviewLines(string(file.Content[blockStart:blockEnd])),
		after:  splitPreviewLines(after.String()),
	}, nil
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// lineStartOffset returns the offset of a zero-based line.
func lineStartOffset(f *source.File, line uint32) uint32 {
	if line == 0 {
		return 0
	}
	if int(line-1) < len(f.LineIdx) {
		return f.LineIdx[line-1] + 1
	}
	return 0
}

// lineEndOffset returns the offset just past the newline of a zero-based line.
func lineEndOffset(f *source.File, line, size uint32) uint32 {
	if int(line) < len(f.LineIdx) {
		return f.LineIdx[line] + 1
	}
	return size
}
