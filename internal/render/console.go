package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

const (
	NoSkillsMessage = "No matching skills found"

	qualifiedIcon    = "✅"
	disqualifiedIcon = "❌"
)

// WriteConsole prints view as candidate cards.
func WriteConsole(w io.Writer, view View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)

	fmt.Fprintf(tw, "Threshold: %s\tMode: %s\tQualified: %d/%d\n",
		strconv.FormatFloat(view.Threshold, 'f', -1, 64), view.Mode, view.Qualified, view.Total)

	if view.Total > 0 {
		parts := make([]string, 0, len(Tiers))
		for _, tier := range Tiers {
			parts = append(parts, fmt.Sprintf("%s=%d", tier, view.Tiers[tier]))
		}
		fmt.Fprintf(tw, "Tiers: %s\n", strings.Join(parts, " "))
	}

	if view.Message != "" {
		fmt.Fprintf(tw, "\n%s\n", view.Message)
	}

	for idx, r := range view.Records {
		icon := disqualifiedIcon
		if r.Qualified {
			icon = qualifiedIcon
		}

		fmt.Fprintf(tw, "\n%d. %s %s\t%s\t[%s]\n", idx+1, icon, r.Name, r.ScoreLabel, r.Tier)
		fmt.Fprintf(tw, "   Email:\t%s\n", r.Email)
		fmt.Fprintf(tw, "   Phone:\t%s\n", r.Phone)
		fmt.Fprintf(tw, "   Education:\t%s\n", r.Education)
		fmt.Fprintf(tw, "   Experience:\t%s\n", r.Experience)
		fmt.Fprintf(tw, "   File:\t%s\n", r.Filename)
		fmt.Fprintf(tw, "   Skills:\t%s\n", SkillTags(r.Skills))
	}

	return tw.Flush()
}

// SkillTags renders skills as bracketed tags, or a placeholder when there are none.
func SkillTags(skills []string) string {
	if len(skills) == 0 {
		return NoSkillsMessage
	}

	tags := make([]string, 0, len(skills))
	for _, s := range skills {
		tags = append(tags, "["+s+"]")
	}
	return strings.Join(tags, " ")
}
