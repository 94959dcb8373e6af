package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haxor-news/haxor/internal/hackernews"
)

var storyLists = map[string]hackernews.StoryList{
	"ask":  hackernews.AskStories,
	"best": hackernews.BestStories,
	"jobs": hackernews.JobStories,
	"new":  hackernews.NewStories,
	"show": hackernews.ShowStories,
	"top":  hackernews.TopStories,
}

// runStories lists posts for ask, best, jobs, new, show and top, and
// remembers their ids for `hn view <index>`.
func (app *App) runStories(cmd *cobra.Command, args []string) error {
	list, ok := storyLists[cmd.Name()]
	if !ok {
		return fmt.Errorf("no story list for %q", cmd.Name())
	}
	limit, err := parseLimit(args)
	if err != nil {
		return err
	}

	ids, err := app.Client.Stories(cmd.Context(), list, limit)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", list, err)
	}
	items, err := app.Client.Items(cmd.Context(), ids)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", list, err)
	}
	app.printItems(cmd, items)
	return nil
}

// printItems writes a numbered listing and stores the listed ids.
func (app *App) printItems(cmd *cobra.Command, items []*hackernews.Item) {
	out := cmd.OutOrStdout()
	now := app.Now()
	ids := make([]int, 0, len(items))
	for i, item := range items {
		writeStory(out, i+1, item, now)
		ids = append(ids, item.ID)
	}
	if len(ids) > 0 && app.Config.ShowTip {
		fmt.Fprintf(out, "\n%s\n  %s\n",
			subtleStyle.Render(fmt.Sprintf("Tip: View the page or comments for 1 through %d with the following command:", len(ids))),
			subtleStyle.Render(`hn view [#] optional: [-c] [-cr] [-cu] [-cq "(?i)regex"] [-ch] [-b] [--help]`))
	}
	app.Log.Debug().Int("count", len(ids)).Str("cmd", cmd.Name()).Msg("listed items")
	app.Config.SetItemIDs(ids)
	app.saveConfig()
}

// runOnion prints built-in satirical headlines.
func (app *App) runOnion(cmd *cobra.Command, args []string) error {
	limit, err := parseLimit(args)
	if err != nil {
		return err
	}
	if limit == 0 || limit > len(onions) {
		limit = len(onions)
	}
	out := cmd.OutOrStdout()
	for i, headline := range onions[:limit] {
		fmt.Fprintf(out, "%s %s\n", indexStyle.Render(fmt.Sprintf("%3d.", i+1)), titleStyle.Render(headline))
	}
	return nil
}

var onions = []string{
	"Senior Engineer Deletes Entire Test Suite To Make CI Green.",
	"Startup Pivots From Blockchain To AI To Blockchain In Single Board Meeting.",
	"Local Developer Discovers Tab Completion, Types Half As Much.",
	"Team Adopts Microservices, Now Has More Services Than Users.",
	"Code Review Approved After Reviewer Scrolls To Bottom Of Diff.",
	"Man Who Wrote 'Temporary Fix' In 2009 Asked To Explain Himself.",
	"Regex Written At 2am Still Works, Nobody Knows Why.",
	"Company Replaces Standup With Sitdown, Productivity Unchanged.",
	"Engineer Estimates Task At Two Days, Delivers It In Two Quarters.",
	"Open Source Maintainer Thanked, Collapses From Shock.",
	"New Framework Released Between Breakfast And Lunch.",
	"Intern Asks Why The Monolith Exists, Is Never Seen Again.",
}
