// Package screener talks to the remote resume ranking service.
package screener

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/spigell/resume-screener/internal/intake"
	"github.com/spigell/resume-screener/internal/logger"
	"go.uber.org/zap"
)

const (
	apiURL    = "http://localhost:8000"
	userAgent = "spigell/resume-screener"

	RankPath   = "/api/rank_resumes/"
	HealthPath = "/health"

	fieldJobDescription = "job_description"
	fieldResumes        = "resumes"

	headerRequestID = "X-Request-ID"
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New returns a client for the ranking service at url. An empty url falls
// back to a local service, an empty token disables authorization. The HTTP
// client has no timeout of its own; callers bound requests with ctx.
func New(log *zap.Logger, url, token string) *Client {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "" {
		url = apiURL
	}

	return &Client{
		token:      token,
		APIURL:     url,
		HTTPClient: &http.Client{},
		logger:     logger.ForService(log, url),
		UserAgent:  userAgent,
	}
}

// Rank submits the job description and every file in one multipart request
// and returns the candidates in the order the service ranked them. It never
// retries.
func (c *Client) Rank(ctx context.Context, submissionID, jobDescription string, files []intake.File) (*Ranking, error) {
	fields := []formField{{name: fieldJobDescription, value: jobDescription}}
	for _, f := range files {
		fields = append(fields, formField{
			name:        fieldResumes,
			filename:    f.Name,
			contentType: f.MIMEType,
			content:     f.Content,
		})
	}

	ranking, err := c.postMultipart(ctx, submissionID, c.APIURL+RankPath, fields)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got ranking from the service",
		zap.String(logger.FieldSubmissionID, submissionID),
		zap.Int("candidates", ranking.Len()),
		zap.Strings("ranked", ranking.Filenames()),
	)

	return ranking, nil
}

// Health checks that the ranking service is up.
func (c *Client) Health(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}

	if err := c.getJSON(ctx, c.APIURL+HealthPath, &status); err != nil {
		return err
	}

	if status.Status != "ok" {
		return fmt.Errorf("ranking service is not healthy: status %q", status.Status)
	}

	return nil
}
