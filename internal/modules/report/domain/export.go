package domain

import "time"

// ExportMeta is the frontmatter written at the top of an exported report.
type ExportMeta struct {
	SessionID  string    `yaml:"session_id"`
	Title      string    `yaml:"title"`
	ExportedAt time.Time `yaml:"exported_at"`
	Sections   int       `yaml:"sections"`
}

type Exported struct {
	Path string
	Meta ExportMeta
}

const exportTimeLayout = "20060102-150405"

func ExportName(at time.Time, slug string) string {
	return at.UTC().Format(exportTimeLayout) + "-" + slug + ".md"
}
