package stats

import (
	"sort"
	"strings"

	"github.com/suykerbuyk/mlsummary/internal/index"
)

// Summary holds aggregate metrics computed from the concept ledger.
type Summary struct {
	TotalRuns int
	Created   int
	Failed    int
	Rebuilt   int
	Titles    int // distinct titles

	SuccessRate float64 // percent of generated runs (created+failed) that created a note

	Labels  []LabelStats
	Models  []ModelStats
	Errors  []ErrorStats
	Monthly []MonthStats
}

// LabelStats holds per-prompt-label counts.
type LabelStats struct {
	Name    string
	Runs    int
	Created int
	Failed  int
}

// ModelStats holds per-model counts.
type ModelStats struct {
	Name string
	Runs int
}

// ErrorStats counts one failure message.
type ErrorStats struct {
	Message string
	Count   int
}

// MonthStats holds per-month counts.
type MonthStats struct {
	Month   string // YYYY-MM
	Runs    int
	Created int
	Failed  int
}

// Compute builds a Summary from ledger entries, optionally filtered by
// prompt label.
func Compute(entries []index.Entry, label string) Summary {
	var s Summary

	titles := make(map[string]bool)
	labelMap := make(map[string]*LabelStats)
	modelMap := make(map[string]*ModelStats)
	errorMap := make(map[string]int)
	monthMap := make(map[string]*MonthStats)

	for _, e := range entries {
		if label != "" && e.PromptLabel != label {
			continue
		}

		s.TotalRuns++
		titles[strings.ToLower(e.Title)] = true

		created, failed := 0, 0
		switch e.Status {
		case index.StatusCreated:
			s.Created++
			created = 1
		case index.StatusFailed:
			s.Failed++
			failed = 1
			if e.Error != "" {
				errorMap[e.Error]++
			}
		case index.StatusRebuilt:
			s.Rebuilt++
		}

		// Label breakdown
		name := e.PromptLabel
		if name == "" {
			name = "(empty)"
		}
		ls, ok := labelMap[name]
		if !ok {
			ls = &LabelStats{Name: name}
			labelMap[name] = ls
		}
		ls.Runs++
		ls.Created += created
		ls.Failed += failed

		// Model breakdown
		model := e.Model
		if model == "" {
			model = "unknown"
		}
		ms, ok := modelMap[model]
		if !ok {
			ms = &ModelStats{Name: model}
			modelMap[model] = ms
		}
		ms.Runs++

		// Monthly breakdown
		if !e.CreatedAt.IsZero() {
			month := e.CreatedAt.UTC().Format("2006-01")
			mm, ok := monthMap[month]
			if !ok {
				mm = &MonthStats{Month: month}
				monthMap[month] = mm
			}
			mm.Runs++
			mm.Created += created
			mm.Failed += failed
		}
	}

	s.Titles = len(titles)
	if generated := s.Created + s.Failed; generated > 0 {
		s.SuccessRate = float64(s.Created) / float64(generated) * 100
	}

	// Sort labels by runs desc
	for _, ls := range labelMap {
		s.Labels = append(s.Labels, *ls)
	}
	sort.Slice(s.Labels, func(i, j int) bool {
		if s.Labels[i].Runs != s.Labels[j].Runs {
			return s.Labels[i].Runs > s.Labels[j].Runs
		}
		return strings.ToLower(s.Labels[i].Name) < strings.ToLower(s.Labels[j].Name)
	})

	// Sort models by runs desc
	for _, ms := range modelMap {
		s.Models = append(s.Models, *ms)
	}
	sort.Slice(s.Models, func(i, j int) bool {
		if s.Models[i].Runs != s.Models[j].Runs {
			return s.Models[i].Runs > s.Models[j].Runs
		}
		return strings.ToLower(s.Models[i].Name) < strings.ToLower(s.Models[j].Name)
	})

	// Most common failures first, cap at 5
	for msg, count := range errorMap {
		s.Errors = append(s.Errors, ErrorStats{Message: msg, Count: count})
	}
	sort.Slice(s.Errors, func(i, j int) bool {
		if s.Errors[i].Count != s.Errors[j].Count {
			return s.Errors[i].Count > s.Errors[j].Count
		}
		return s.Errors[i].Message < s.Errors[j].Message
	})
	if len(s.Errors) > 5 {
		s.Errors = s.Errors[:5]
	}

	// Sort months recent-first, cap at 6
	for _, mm := range monthMap {
		s.Monthly = append(s.Monthly, *mm)
	}
	sort.Slice(s.Monthly, func(i, j int) bool {
		return s.Monthly[i].Month > s.Monthly[j].Month
	})
	if len(s.Monthly) > 6 {
		s.Monthly = s.Monthly[:6]
	}

	return s
}
