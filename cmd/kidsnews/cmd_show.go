package main

import (
	"errors"
	"fmt"
	"strings"

	"kidsnews/internal/activity"
	"kidsnews/internal/edition"
	"kidsnews/internal/record"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var showDate string

// showCmd prints a stored edition in the terminal
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a stored edition in the terminal",
	Long: `Reads docs/<date>/data.json and prints both pages as formatted text.
No model calls are made.

Example:
  kidsnews show --date 2026-10-15`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showDate, "date", "", "Edition date as YYYY-MM-DD (default: today)")
}

var (
	mastheadStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// runShow renders the stored record as markdown.
func runShow(cmd *cobra.Command, args []string) error {
	loc := cfg.GetLocation()
	ed := edition.Today(cfg.Output.DocsDir, loc)
	if showDate != "" {
		var err error
		ed, err = edition.Parse(cfg.Output.DocsDir, showDate, loc)
		if err != nil {
			return err
		}
	}

	rec, err := ed.Store().Load()
	if errors.Is(err, record.ErrNotFound) {
		fmt.Printf("No edition for %s. Run `kidsnews publish --date %s` first.\n", ed.Name(), ed.Name())
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println(mastheadStyle.Render(cfg.Newspaper.Name))
	fmt.Println(subtitleStyle.Render(fmt.Sprintf("%s · %s · %s", ed.DisplayDate(), ed.DayLabel(), rec.CleanTopic())))

	md := issueMarkdown(rec)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Plain markdown is still readable.
		fmt.Println(md)
		return nil
	}
	out, err := renderer.Render(md)
	if err != nil {
		fmt.Println(md)
		return nil
	}
	fmt.Print(out)
	return nil
}

// issueMarkdown lays out both pages of rec as markdown.
func issueMarkdown(rec *record.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", rec.Headline())
	if rec.Page1 != nil {
		for _, p := range rec.Page1.ArticleBody {
			fmt.Fprintf(&b, "%s\n\n", p)
		}
	}

	word, wisdom, hidden := rec.Word(), rec.Wisdom(), rec.Hidden()
	fmt.Fprintf(&b, "**Word of the day:** %s - %s\n\n", word.Word, word.Definition)
	fmt.Fprintf(&b, "**Wisdom window:** %s - %s\n\n", wisdom.Title, wisdom.Meaning)
	fmt.Fprintf(&b, "**Hidden word mission:** %s\n\n", hidden.Mission)

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "## Activity: %s\n\n", rec.ActivityType)

	switch a := rec.ActivityData.(type) {
	case nil:
		b.WriteString("_No activity generated yet._\n")
	case activity.TrueFalseQuiz:
		fmt.Fprintf(&b, "%s\n\n", a.Instruction)
		for i, item := range a.Items {
			fmt.Fprintf(&b, "%d. %s  ( O / X )\n", i+1, item)
		}
	case activity.HiddenObjects:
		fmt.Fprintf(&b, "%s\n\n", a.Instruction)
		for _, item := range a.Items {
			fmt.Fprintf(&b, "- [ ] %s\n", item)
		}
	case activity.InitialConsonantQuiz:
		fmt.Fprintf(&b, "%s\n\n", a.Instruction)
		for i, item := range a.Items {
			fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, item.Clue, strings.Join(item.Initials, " "))
		}
	case activity.EmotionGuess:
		fmt.Fprintf(&b, "%s\n\n", a.Scenario)
		for i := range a.Emotions {
			fmt.Fprintf(&b, "%d. How does this face feel? ____\n", i+1)
		}
	case activity.ColoringPage:
		fmt.Fprintf(&b, "%s\n", a.Instruction)
	case activity.FourPanelComic:
		fmt.Fprintf(&b, "%s\n\n> %s\n", a.Instruction, a.FirstCutDialogue)
	case activity.FreeResponse:
		if a.Title != "" {
			fmt.Fprintf(&b, "### %s\n\n", a.Title)
		}
		fmt.Fprintf(&b, "%s\n", a.Instruction)
	}
	return b.String()
}
