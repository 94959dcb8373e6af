package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/haxor-news/haxor/internal/hackernews"
	"github.com/haxor-news/haxor/internal/herrors"
)

// recentWindow is how far back --comments_recent looks.
const recentWindow = time.Hour

// commentFilter selects which comments of a post are printed in full.
type commentFilter struct {
	query        *regexp.Regexp
	recent       bool
	unseen       bool
	hideNonMatch bool
	recentCutoff time.Time
	markSeen     func(id int) bool
	alreadySeen  func(id int) bool
}

// matches reports whether item passes every active filter.
func (f commentFilter) matches(item *hackernews.Item) bool {
	if f.recent && item.Created().Before(f.recentCutoff) {
		return false
	}
	if f.unseen && f.alreadySeen(item.ID) {
		return false
	}
	if f.query != nil {
		return f.query.MatchString(item.By) || f.query.MatchString(plainText(item.Text))
	}
	return true
}

// resolveItemID maps a list position to the remembered item id. Positions
// that are too large, or that were never listed, are taken as literal ids.
func (app *App) resolveItemID(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil || index < 1 {
		return 0, herrors.NewInvalidArgumentError(arg, "index must be a positive number", err)
	}
	if index < maxListIndex {
		if id, ok := app.Config.ItemID(index); ok {
			return id, nil
		}
	}
	return index, nil
}

// runView shows a post, or its comments when any comment flag is set.
func (app *App) runView(cmd *cobra.Command, args []string) error {
	fs := cmd.Flags()
	query, _ := fs.GetString("comments_regex_query")
	comments, _ := fs.GetBool("comments")
	recent, _ := fs.GetBool("comments_recent")
	unseen, _ := fs.GetBool("comments_unseen")
	hide, _ := fs.GetBool("comments_hide_non_matching")
	clearCache, _ := fs.GetBool("clear_cache")
	browser, _ := fs.GetBool("browser")

	id, err := app.resolveItemID(args[0])
	if err != nil {
		return err
	}
	if clearCache {
		app.Config.ClearItemCache()
		app.saveConfig()
	}

	query = unquote(query)
	showComments := comments || recent || unseen || hide || query != ""
	out := cmd.OutOrStdout()

	item, err := app.Client.Item(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("view %d: %w", id, err)
	}

	if browser {
		target := item.URL
		if showComments || target == "" {
			target = itemURL(item.ID)
		}
		fmt.Fprintf(out, "Open in your browser: %s\n", target)
		return nil
	}

	if !showComments {
		app.writeItem(cmd, item)
		return nil
	}

	filter := commentFilter{
		recent:       recent,
		unseen:       unseen,
		hideNonMatch: hide,
		recentCutoff: app.Now().Add(-recentWindow),
		markSeen:     app.Config.MarkSeen,
		alreadySeen:  app.Config.Seen,
	}
	if query != "" {
		re, err := regexp.Compile(query)
		if err != nil {
			return herrors.NewInvalidArgumentError(query, "invalid comments regex", err)
		}
		filter.query = re
	}

	writeHeader(out, "Fetching comments from "+itemURL(item.ID))
	if err := app.printComments(cmd, item, filter); err != nil {
		return err
	}
	app.saveConfig()
	return nil
}

func (app *App) writeItem(cmd *cobra.Command, item *hackernews.Item) {
	out := cmd.OutOrStdout()
	writeStory(out, 1, item, app.Now())
	if item.URL != "" {
		fmt.Fprintln(out, "\n"+item.URL)
	}
	if text := strings.TrimSpace(plainText(item.Text)); text != "" {
		fmt.Fprintln(out, "\n"+text)
	}
	fmt.Fprintln(out, "\n"+subtleStyle.Render(fmt.Sprintf("Tip: hn view %s -c shows the comments.", cmd.Flags().Arg(0))))
}

// printComments prints the direct comments of item. Comments that pass the
// filter are printed in full and marked seen; the rest are collapsed to a
// snippet, or left out entirely when hideNonMatch is set.
func (app *App) printComments(cmd *cobra.Command, item *hackernews.Item, f commentFilter) error {
	kids, err := app.Client.Items(cmd.Context(), item.Kids)
	if err != nil {
		return fmt.Errorf("fetch comments of %d: %w", item.ID, err)
	}
	out := cmd.OutOrStdout()
	now := app.Now()
	shown := 0
	for _, kid := range kids {
		if kid.Deleted || kid.Dead {
			continue
		}
		if !f.matches(kid) {
			if !f.hideNonMatch {
				writeCollapsed(out, kid)
			}
			continue
		}
		writeComment(out, kid, now)
		f.markSeen(kid.ID)
		shown++
	}
	app.Log.Debug().Int("item", item.ID).Int("shown", shown).Int("total", len(kids)).Msg("printed comments")
	if shown == 0 {
		fmt.Fprintln(out, "\n"+subtleStyle.Render("No matching comments."))
	}
	return nil
}
