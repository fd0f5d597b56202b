package ingest

import (
	"path/filepath"
	"strings"
)

// FileMeta is the metadata encoded in an input file name:
// YYYY-MM-DD[_explanation][_description].ext
type FileMeta struct {
	Date        string
	Explanation string
	Description string
}

// GroupName returns the date joined with the file's own description
func (m FileMeta) GroupName() string {
	if m.Description == "" {
		return m.Date
	}
	return m.Date + "_" + m.Description
}

// ParseFileName extracts the date, explanation and description from a file name.
// A single tag is a description unless the name ends in "_<ext>", which marks
// an explanation with an empty description.
func ParseFileName(name, ext string) FileMeta {
	name = filepath.Base(name)
	stem, _, _ := strings.Cut(name, ".")
	parts := strings.Split(stem, "_")

	meta := FileMeta{Date: parts[0]}
	switch {
	case len(parts) == 2 && strings.HasSuffix(name, "_"+ext):
		meta.Explanation = parts[1]
	case len(parts) == 2:
		meta.Description = parts[1]
	case len(parts) >= 3:
		meta.Explanation = parts[1]
		meta.Description = strings.Join(parts[2:], "_")
	}
	return meta
}
