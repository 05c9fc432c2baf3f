package session

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spigell/resume-screener/internal/intake"
)

const (
	msgMissingBoth           = "Please provide a job description and at least one resume."
	msgMissingJobDescription = "Please provide a job description."
	msgMissingResumes        = "Please select at least one resume file."
)

// ErrValidation is matched by every local validation failure.
var ErrValidation = errors.New("invalid submission")

// ValidationError is a submission rejected before anything was sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type submission struct {
	JobDescription string        `validate:"required"`
	Files          []intake.File `validate:"min=1"`
}

func validateSubmission(v *validator.Validate, jobDescription string, files []intake.File) error {
	err := v.Struct(submission{
		JobDescription: strings.TrimSpace(jobDescription),
		Files:          files,
	})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var missingDescription, missingFiles bool
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "JobDescription":
			missingDescription = true
		case "Files":
			missingFiles = true
		}
	}

	switch {
	case missingDescription && missingFiles:
		return &ValidationError{Message: msgMissingBoth}
	case missingDescription:
		return &ValidationError{Message: msgMissingJobDescription}
	default:
		return &ValidationError{Message: msgMissingResumes}
	}
}
