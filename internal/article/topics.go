// Package article runs stage one of the pipeline: it picks the day's topic,
// asks the text backend for the front-page article and its sidebars, and
// maps the decoded reply onto a record.
package article

import (
	"strings"
	"time"
)

// Theme is a topic family the editor writes about.
type Theme struct {
	Slug  string
	Label string
}

// Weekday themes. The label is what the model sees.
var weekdayThemes = map[string]Theme{
	"Monday":    {Slug: "animals-nature", Label: "Animals and nature (e.g. endangered animals, amazing creatures)"},
	"Tuesday":   {Slug: "science-technology", Label: "Science and technology (e.g. nanotechnology, future inventions)"},
	"Wednesday": {Slug: "history-people", Label: "History and people (e.g. people who showed courage, wisdom from history)"},
	"Thursday":  {Slug: "mind-care", Label: "Mind care (e.g. friendships, expressing feelings, the art of saying no)"},
	"Friday":    {Slug: "dreams-growth", Label: "Dreams and growth (e.g. imagination training, reaching goals)"},
	"Saturday":  {Slug: "money-life", Label: "Money and everyday life (e.g. spending allowance wisely, how things are made)"},
	"Sunday":    {Slug: "world-news", Label: "World news (e.g. social change, predicting the future)"},
}

// DefaultTheme covers any day label missing from the table.
var DefaultTheme = Theme{Slug: "free-topic", Label: "Free topic (stories children would find fascinating)"}

// ThemeFor returns the theme of a weekday label such as "Thursday".
func ThemeFor(dayLabel string) Theme {
	label := strings.TrimSpace(dayLabel)
	if label != "" {
		label = strings.ToUpper(label[:1]) + strings.ToLower(label[1:])
	}
	if th, ok := weekdayThemes[label]; ok {
		return th
	}
	return DefaultTheme
}

// DayLabel returns the weekday label used by ThemeFor.
func DayLabel(t time.Time) string {
	return t.Weekday().String()
}
