// Package session owns the state of one screening session: the selected
// files, the submission lifecycle, the last results and the current error.
// Nothing outside this package writes that state.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/intake"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/render"
	"github.com/spigell/resume-screener/internal/report"
	"github.com/spigell/resume-screener/internal/results"
	"github.com/spigell/resume-screener/internal/screener"
)

const (
	defaultThreshold = 50
	msgUnreachable   = "Could not reach the ranking service. Check your connection and try again."
	msgCancelled     = "Submission cancelled."
	maxLoggedJD      = 80
)

// ErrSuperseded is returned by a submission whose result was discarded
// because a newer submission started after it.
var ErrSuperseded = errors.New("submission superseded by a newer one")

// Ranker sends one ranking request.
type Ranker interface {
	Rank(ctx context.Context, submissionID, jobDescription string, files []intake.File) (*screener.Ranking, error)
}

type Option func(*Controller)

// WithThreshold sets the initial score threshold. Out of range values are clamped.
func WithThreshold(threshold float64) Option {
	return func(c *Controller) { c.threshold = render.ClampThreshold(threshold) }
}

// WithMode sets the initial display mode.
func WithMode(mode render.Mode) Option {
	return func(c *Controller) { c.mode = mode }
}

// WithIDGenerator replaces the submission ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

type Controller struct {
	ranker   Ranker
	intake   *intake.Intake
	store    *results.Store
	errors   *report.Reporter
	validate *validator.Validate
	logger   *zap.Logger
	newID    func() string

	mu         sync.Mutex
	files      intake.Set
	state      State
	generation uint64
	cancel     context.CancelFunc
	threshold  float64
	mode       render.Mode
}

func New(ranker Ranker, log *zap.Logger, opts ...Option) *Controller {
	if log == nil {
		log = zap.NewNop()
	}

	c := &Controller{
		ranker:    ranker,
		intake:    intake.New(log),
		store:     results.New(),
		errors:    report.New(log),
		validate:  validator.New(),
		logger:    log,
		newID:     uuid.NewString,
		state:     idle(),
		threshold: defaultThreshold,
		mode:      render.ModeAll,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SelectFiles replaces the selected files with the filtered raw selection.
// An empty selection is ignored and the previous files stay selected.
func (c *Controller) SelectFiles(raw []intake.File) intake.Set {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(raw) == 0 {
		c.logger.Debug("empty file selection ignored", zap.Int("selected", c.files.Len()))
		return c.files
	}

	c.files = c.intake.Select(raw)
	c.logger.Info("files selected",
		zap.Int("offered", len(raw)),
		zap.Strings("selected", c.files.Names()),
	)

	return c.files
}

// Submit validates the input, then sends exactly one ranking request for the
// selected files. Starting a submission cancels the one in flight; a
// submission that has been superseded returns ErrSuperseded and leaves the
// state alone. The returned state is the session state after the call.
func (c *Controller) Submit(ctx context.Context, jobDescription string) (State, error) {
	c.mu.Lock()

	files := c.files.Files()
	names := c.files.Names()
	if err := validateSubmission(c.validate, jobDescription, files); err != nil {
		msg := err.Error()
		c.state = failure("", msg)
		c.errors.Report(msg)
		state := c.snapshot()
		c.mu.Unlock()

		c.logger.Info("submission rejected", zap.String("reason", msg))
		return state, err
	}

	if c.cancel != nil {
		c.cancel()
	}

	c.generation++
	generation := c.generation
	id := c.newID()

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.cancel = cancel

	c.errors.Clear()
	c.state = loading(id)
	c.mu.Unlock()

	var size int
	for _, f := range files {
		size += f.Size()
	}

	log := logger.ForSubmission(c.logger, id, names)
	log.Info("submitting resumes",
		zap.Int("bytes", size),
		zap.String("job_description", logger.TruncateForLog(jobDescription, maxLoggedJD)),
	)

	ranking, err := c.ranker.Rank(reqCtx, id, jobDescription, files)

	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		log.Info("discarding superseded submission", zap.NamedError("outcome", err))
		return c.snapshot(), ErrSuperseded
	}
	c.cancel = nil

	if err != nil {
		msg := describe(err)
		c.state = failure(id, msg)
		c.errors.Report(msg)
		log.Warn("submission failed", zap.Error(err))
		return c.snapshot(), err
	}

	c.store.Set(ranking)
	c.errors.Clear()
	c.state = success(id, c.store.Get())
	log.Info("submission ranked", zap.Int("candidates", ranking.Len()))

	return c.snapshot(), nil
}

// Cancel aborts the submission in flight, if any, and returns to idle.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return
	}

	c.cancel()
	c.cancel = nil
	c.generation++
	c.state = idle()
	c.logger.Info("submission cancelled")
}

func describe(err error) string {
	var apiErr *screener.APIError
	var transportErr *screener.TransportError

	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, context.Canceled):
		return msgCancelled
	case errors.As(err, &transportErr):
		return msgUnreachable
	default:
		return err.Error()
	}
}

// State returns a snapshot of the current UI state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot()
}

// snapshot copies the state so callers cannot reach the stored results.
// c.mu must be held.
func (c *Controller) snapshot() State {
	state := c.state
	if state.Kind == KindSuccess {
		state.Results = c.store.Get()
	}
	return state
}

// Files returns the currently selected files.
func (c *Controller) Files() intake.Set {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.files
}

// Results returns the candidates of the last successful submission.
func (c *Controller) Results() []screener.Candidate {
	return c.store.Get()
}

// Error returns the message currently shown to the user, if any.
func (c *Controller) Error() (string, bool) {
	return c.errors.Current()
}

// DumpResults writes the last results to a temporary JSON file.
func (c *Controller) DumpResults() (string, error) {
	if !c.store.Loaded() {
		return "", errors.New("no results to dump yet")
	}
	return c.store.DumpToTmpFile()
}

// SetThreshold changes the score cutoff used by View.
func (c *Controller) SetThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < render.MinThreshold || threshold > render.MaxThreshold {
		return fmt.Errorf("threshold must be between %d and %d, got %v", render.MinThreshold, render.MaxThreshold, threshold)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.threshold = threshold
	return nil
}

func (c *Controller) Threshold() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.threshold
}

func (c *Controller) SetMode(mode render.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mode = mode
}

func (c *Controller) Mode() render.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.mode
}

// View renders the stored results with the current threshold and mode.
// It never touches the network.
func (c *Controller) View() render.View {
	c.mu.Lock()
	threshold, mode := c.threshold, c.mode
	c.mu.Unlock()

	return render.Render(c.store.Get(), threshold, mode)
}
