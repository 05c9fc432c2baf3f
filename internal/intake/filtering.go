package intake

import (
	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to selected files.
type Filter interface {
	Name() string
	Apply(files []File) ([]File, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially and returns the remaining files.
func Run(logger *zap.Logger, steps []Filter, files []File) []File {
	for _, step := range steps {
		next, info := step.Apply(files)

		if logger != nil {
			logger.Debug("intake filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		files = next
	}

	return files
}

type allowedTypesFilter struct {
	allowed map[string]struct{}
}

// NewAllowedTypes creates a filter that drops files whose MIME type is not listed.
func NewAllowedTypes(types ...string) Filter {
	allowed := make(map[string]struct{}, len(types))
	for _, t := range types {
		allowed[t] = struct{}{}
	}
	return &allowedTypesFilter{allowed: allowed}
}

func (f *allowedTypesFilter) Name() string { return "allowed_types" }

func (f *allowedTypesFilter) Apply(files []File) ([]File, Step) {
	kept := make([]File, 0, len(files))
	for _, file := range files {
		if _, ok := f.allowed[file.MIMEType]; ok {
			kept = append(kept, file)
		}
	}

	return kept, Step{Initial: len(files), Dropped: len(files) - len(kept), Left: len(kept)}
}

type uniqueNamesFilter struct{}

// NewUniqueNames creates a filter that keeps only the first file of each name.
// Names are compared exactly, so "CV.pdf" and "cv.pdf" are different files.
func NewUniqueNames() Filter {
	return &uniqueNamesFilter{}
}

func (f *uniqueNamesFilter) Name() string { return "unique_names" }

func (f *uniqueNamesFilter) Apply(files []File) ([]File, Step) {
	seen := make(map[string]struct{}, len(files))
	kept := make([]File, 0, len(files))
	for _, file := range files {
		if _, ok := seen[file.Name]; ok {
			continue
		}
		seen[file.Name] = struct{}{}
		kept = append(kept, file)
	}

	return kept, Step{Initial: len(files), Dropped: len(files) - len(kept), Left: len(kept)}
}
