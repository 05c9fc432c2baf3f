package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldSubmissionID = "submission_id"
	FieldFiles        = "files"
	FieldService      = "service_url"
)

// Strings turns key/value pairs into zap fields. Pairs with a blank key or
// value are skipped and a trailing key without a value is ignored.
func Strings(kv ...string) []zap.Field {
	fields := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, value := strings.TrimSpace(kv[i]), strings.TrimSpace(kv[i+1])
		if key == "" || value == "" {
			continue
		}
		fields = append(fields, zap.String(key, value))
	}

	return fields
}

// With attaches fields to logger. A nil logger becomes a no-op one.
func With(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ForSubmission scopes logger to one ranking submission.
func ForSubmission(logger *zap.Logger, submissionID string, files []string) *zap.Logger {
	fields := Strings(FieldSubmissionID, submissionID)
	if len(files) > 0 {
		fields = append(fields, zap.Strings(FieldFiles, files))
	}

	return With(logger, fields...)
}

// ForService scopes logger to the ranking service at url.
func ForService(logger *zap.Logger, url string) *zap.Logger {
	return With(logger, Strings(FieldService, url)...)
}
