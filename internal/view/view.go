// Package view builds display projections and aggregates from a task
// collection snapshot. Functions here never mutate their input and never do I/O.
package view

import (
	"math"
	"slices"
	"time"

	"github.com/BuzzLyutic/todo-app/internal/model"
)

// Statistics buckets completed tasks by createdAt, not by completion time:
// a task counts in a period if it was created then and is completed now.
type Statistics struct {
	CompletedToday     int `json:"completedToday"`
	CompletedThisWeek  int `json:"completedThisWeek"`
	CompletedThisMonth int `json:"completedThisMonth"`
	CompletedTotal     int `json:"completedTotal"`
}

type Summary struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
	Rounded   int     `json:"rounded"`
}

// SortedActive orders incomplete tasks first, then by descending priority.
// The sort is stable, so equal keys keep their stored order.
func SortedActive(c model.Collection) model.Collection {
	out := c.Clone()
	slices.SortStableFunc(out, func(a, b model.Task) int {
		if a.Completed != b.Completed {
			if a.Completed {
				return 1
			}
			return -1
		}
		return b.Priority.Rank() - a.Priority.Rank()
	})
	return out
}

// SortedCompleted returns completed tasks, newest createdAt first.
func SortedCompleted(c model.Collection) model.Collection {
	out := completed(c)
	slices.SortStableFunc(out, func(a, b model.Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// ComputeStatistics evaluates the calendar buckets in now's location.
func ComputeStatistics(c model.Collection, now time.Time) Statistics {
	loc := now.Location()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	var s Statistics
	for _, t := range completed(c) {
		created := t.CreatedAt.In(loc)
		s.CompletedTotal++
		if sameDay(created, now) {
			s.CompletedToday++
		}
		if !created.Before(weekAgo) {
			s.CompletedThisWeek++
		}
		if !created.Before(monthStart) {
			s.CompletedThisMonth++
		}
	}
	return s
}

// Progress is the completed share in percent; 0 for an empty collection.
func Progress(c model.Collection) float64 {
	if len(c) == 0 {
		return 0
	}
	return float64(countCompleted(c)) / float64(len(c)) * 100
}

func Summarize(c model.Collection) Summary {
	p := Progress(c)
	return Summary{
		Completed: countCompleted(c),
		Total:     len(c),
		Percent:   p,
		Rounded:   int(math.Round(p)),
	}
}

func completed(c model.Collection) model.Collection {
	out := make(model.Collection, 0, len(c))
	for _, t := range c {
		if t.Completed {
			out = append(out, t)
		}
	}
	return out
}

func countCompleted(c model.Collection) int {
	n := 0
	for _, t := range c {
		if t.Completed {
			n++
		}
	}
	return n
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
