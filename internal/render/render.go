// Package render projects ranked candidates and a score threshold into
// display-ready records. Nothing here does I/O except the writers in
// console.go, so re-rendering on every threshold change is free.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spigell/resume-screener/internal/screener"
)

const (
	Placeholder  = "Not Found"
	EmptyMessage = "No valid candidates found or processed."

	MinThreshold = 0
	MaxThreshold = 100
)

// Tier is the visual category of a score.
type Tier string

const (
	TierSuccess Tier = "success"
	TierPrimary Tier = "primary"
	TierWarning Tier = "warning"
	TierError   Tier = "error"
)

// Tiers lists every tier from best to worst.
var Tiers = []Tier{TierSuccess, TierPrimary, TierWarning, TierError}

// TierFor buckets score. Each tier includes its lower bound.
func TierFor(score float64) Tier {
	switch {
	case score >= 80:
		return TierSuccess
	case score >= 60:
		return TierPrimary
	case score >= 40:
		return TierWarning
	default:
		return TierError
	}
}

// Mode decides what happens to candidates below the threshold.
type Mode string

const (
	// ModeAll keeps every candidate and flags the ones below the threshold.
	ModeAll Mode = "all"
	// ModeQualified hides candidates below the threshold.
	ModeQualified Mode = "qualified"
)

// ParseMode accepts "all" or "qualified"; an empty value means ModeAll.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAll:
		return ModeAll, nil
	case ModeQualified:
		return ModeQualified, nil
	default:
		return "", fmt.Errorf("unknown display mode %q (want %q or %q)", s, ModeAll, ModeQualified)
	}
}

// Record is one candidate ready for display. Every field is always set.
type Record struct {
	Filename   string
	Name       string
	Email      string
	Phone      string
	Education  string
	Experience string
	Skills     []string
	Score      float64
	ScoreLabel string
	Qualified  bool
	Tier       Tier
}

// Status returns "qualified" or "disqualified".
func (r Record) Status() string {
	if r.Qualified {
		return "qualified"
	}
	return "disqualified"
}

// ClampThreshold forces threshold into [0,100]. NaN becomes 0.
func ClampThreshold(threshold float64) float64 {
	if math.IsNaN(threshold) {
		return MinThreshold
	}
	return math.Min(MaxThreshold, math.Max(MinThreshold, threshold))
}

// Project returns one record per candidate, in input order, flagging the
// ones whose score reaches the threshold.
func Project(candidates []screener.Candidate, threshold float64) []Record {
	threshold = ClampThreshold(threshold)

	records := make([]Record, 0, len(candidates))
	for _, c := range candidates {
		records = append(records, project(c, threshold))
	}
	return records
}

func project(c screener.Candidate, threshold float64) Record {
	skills := make([]string, 0, len(c.Details.Skills))
	for _, skill := range c.Details.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}

	return Record{
		Filename:   orPlaceholder(c.Filename),
		Name:       orPlaceholder(c.Details.Name),
		Email:      orPlaceholder(c.Details.Email),
		Phone:      orPlaceholder(c.Details.Phone),
		Education:  orPlaceholder(c.Details.Education),
		Experience: orPlaceholder(c.Details.Experience),
		Skills:     skills,
		Score:      c.Score,
		ScoreLabel: ScoreLabel(c.Score),
		Qualified:  c.Score >= threshold,
		Tier:       TierFor(c.Score),
	}
}

// ScoreLabel formats a score the way it is shown next to a candidate.
func ScoreLabel(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64) + "% Match"
}

func orPlaceholder(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return Placeholder
	}
	return s
}

// View is everything the presentation layer needs for one render.
type View struct {
	Threshold float64
	Mode      Mode
	Records   []Record
	Total     int
	Qualified int
	Tiers     map[Tier]int
	// Empty is set when the service returned no candidates at all. It is an
	// informational state, not an error.
	Empty   bool
	Message string
}

// Render projects candidates and applies mode. Counters always describe the
// full list, whatever the mode hides.
func Render(candidates []screener.Candidate, threshold float64, mode Mode) View {
	threshold = ClampThreshold(threshold)
	if mode == "" {
		mode = ModeAll
	}

	view := View{
		Threshold: threshold,
		Mode:      mode,
		Total:     len(candidates),
		Tiers:     make(map[Tier]int, len(Tiers)),
		Records:   []Record{},
	}

	if len(candidates) == 0 {
		view.Empty = true
		view.Message = EmptyMessage
		return view
	}

	for _, record := range Project(candidates, threshold) {
		view.Tiers[record.Tier]++
		if record.Qualified {
			view.Qualified++
		}

		if mode == ModeQualified && !record.Qualified {
			continue
		}
		view.Records = append(view.Records, record)
	}

	if len(view.Records) == 0 {
		view.Message = fmt.Sprintf("No candidates reach the threshold of %s.", strconv.FormatFloat(threshold, 'f', -1, 64))
	}

	return view
}
