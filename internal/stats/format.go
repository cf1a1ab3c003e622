package stats

import (
	"fmt"
	"strings"
)

// Format renders a Summary as aligned terminal output.
func Format(s Summary, label string) string {
	if s.TotalRuns == 0 {
		if label != "" {
			return fmt.Sprintf("mls stats --label %s\n\n  No runs found for label %q.\n", label, label)
		}
		return "mls stats\n\n  No runs recorded. Run `mls concept` or `mls rebuild` first.\n"
	}

	var b strings.Builder

	if label != "" {
		fmt.Fprintf(&b, "mls stats --label %s\n", label)
	} else {
		b.WriteString("mls stats\n")
	}

	// Overview
	b.WriteString("\nOverview\n")
	fmt.Fprintf(&b, "  %-20s %s\n", "runs", formatInt(s.TotalRuns))
	fmt.Fprintf(&b, "  %-20s %s\n", "concepts", formatInt(s.Titles))
	fmt.Fprintf(&b, "  %-20s %s\n", "created", formatInt(s.Created))
	fmt.Fprintf(&b, "  %-20s %s\n", "failed", formatInt(s.Failed))
	if s.Rebuilt > 0 {
		fmt.Fprintf(&b, "  %-20s %s\n", "rebuilt", formatInt(s.Rebuilt))
	}
	if s.Created+s.Failed > 0 {
		fmt.Fprintf(&b, "  %-20s %d%%\n", "success rate", int(s.SuccessRate+0.5))
	}

	// Labels (omit when filtered by label)
	if label == "" && len(s.Labels) > 0 {
		b.WriteString("\nPrompt Labels\n")
		limit := 5
		if len(s.Labels) < limit {
			limit = len(s.Labels)
		}
		for _, l := range s.Labels[:limit] {
			fmt.Fprintf(&b, "  %-24s %3d runs   %3d created   %3d failed\n", l.Name, l.Runs, l.Created, l.Failed)
		}
		if len(s.Labels) > 5 {
			fmt.Fprintf(&b, "  ... and %d more\n", len(s.Labels)-5)
		}
	}

	// Models
	if len(s.Models) > 0 {
		b.WriteString("\nModels\n")
		for _, m := range s.Models {
			fmt.Fprintf(&b, "  %-24s %3d runs\n", m.Name, m.Runs)
		}
	}

	// Monthly Trend
	if len(s.Monthly) > 0 {
		b.WriteString("\nMonthly Trend\n")
		for _, m := range s.Monthly {
			fmt.Fprintf(&b, "  %-12s %3d runs   %3d created   %3d failed\n", m.Month, m.Runs, m.Created, m.Failed)
		}
	}

	// Failures
	if len(s.Errors) > 0 {
		b.WriteString("\nCommon Failures\n")
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "  %3d  %s\n", e.Count, truncate(e.Message, 60))
		}
	}

	return b.String()
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// formatInt formats an integer with comma separators.
func formatInt(n int) string {
	if n < 0 {
		return "0"
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}
