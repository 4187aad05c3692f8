package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short or relative paths and shortens long absolute ones.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode converts a flag value to a PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	BaseDir  string // для PathModeRelative, по умолчанию рабочая директория
	// ShowNotes prints notes under the source excerpt.
	ShowNotes bool
	// ShowFixes prints the lines a fix would produce.
	ShowFixes bool
}

// JSONOpts configures JSON and MessagePack output.
type JSONOpts struct {
	PathMode        PathMode
	BaseDir         string
	Max             int // обрезка вывода на файл, не Bag
	IncludeNotes    bool
	IncludeFixes    bool
	IncludePreviews bool
}

// SarifRule describes one rule in the SARIF driver block.
type SarifRule struct {
	ID          string
	Description string
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
	Rules          []SarifRule
	PathMode       PathMode
	BaseDir        string
}
