// Package intake accumulates the resume files selected for a ranking submission.
package intake

import (
	"go.uber.org/zap"
)

const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// AllowedMIMETypes lists the only file kinds the ranking service accepts.
var AllowedMIMETypes = []string{MIMETypePDF, MIMETypeDOCX}

// File is a single resume picked by the user.
type File struct {
	Name     string
	MIMEType string
	Content  []byte
}

// Size returns the length of the file content in bytes.
func (f File) Size() int {
	return len(f.Content)
}

// Set is an ordered collection of files, unique by name.
type Set struct {
	files []File
}

// Len returns the number of files in the set.
func (s Set) Len() int {
	return len(s.files)
}

// IsEmpty reports whether the set has no files.
func (s Set) IsEmpty() bool {
	return len(s.files) == 0
}

// Files returns a copy of the files in selection order.
func (s Set) Files() []File {
	files := make([]File, len(s.files))
	copy(files, s.files)
	return files
}

// Names returns the file names in selection order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s.files))
	for _, f := range s.files {
		names = append(names, f.Name)
	}
	return names
}

// Intake turns raw file selections into a Set by running its filter chain.
type Intake struct {
	steps  []Filter
	logger *zap.Logger
}

// New creates an Intake with the default filters: allowed types first, then unique names.
func New(logger *zap.Logger) *Intake {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Intake{
		steps: []Filter{
			NewAllowedTypes(AllowedMIMETypes...),
			NewUniqueNames(),
		},
		logger: logger,
	}
}

// Select builds a fresh Set from raw. It never fails: files that do not pass
// the filters are dropped silently.
func (i *Intake) Select(raw []File) Set {
	files := make([]File, len(raw))
	copy(files, raw)

	return Set{files: Run(i.logger, i.steps, files)}
}

// Select runs the default intake filters without logging.
func Select(raw []File) Set {
	return New(nil).Select(raw)
}
