package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haxor-news/haxor/internal/herrors"
)

// runUser prints a user's profile followed by their latest submissions.
func (app *App) runUser(cmd *cobra.Command, args []string) error {
	name := unquote(args[0])
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return herrors.NewInvalidArgumentError(fmt.Sprint(limit), "limit must be a non-negative number", nil)
	}

	user, err := app.Client.User(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("user %s: %w", name, err)
	}

	out := cmd.OutOrStdout()
	now := app.Now()
	writeHeader(out, "User: "+user.ID)
	fmt.Fprintf(out, "Created: %s\n", ago(user.Created, now))
	fmt.Fprintf(out, "Karma: %d\n", user.Karma)
	if about := strings.TrimSpace(plainText(user.About)); about != "" {
		fmt.Fprintf(out, "About:\n%s\n", about)
	}

	ids := user.Submitted
	if len(ids) > limit {
		ids = ids[:limit]
	}
	if len(ids) == 0 {
		return nil
	}
	items, err := app.Client.Items(cmd.Context(), ids)
	if err != nil {
		return fmt.Errorf("user %s submissions: %w", name, err)
	}
	fmt.Fprintln(out)
	app.printItems(cmd, items)
	return nil
}

// runHiring prints the comments of the monthly hiring or freelance post that
// match the optional regex.
func (app *App) runHiring(cmd *cobra.Command, args []string) error {
	postID, _ := cmd.Flags().GetInt("id_post")

	query := ""
	if len(args) > 0 {
		query = unquote(args[0])
	}
	var re *regexp.Regexp
	if query != "" {
		var err error
		if re, err = regexp.Compile(query); err != nil {
			return herrors.NewInvalidArgumentError(query, "invalid regex", err)
		}
	}

	post, err := app.Client.Item(cmd.Context(), postID)
	if err != nil {
		return fmt.Errorf("%s post %d: %w", cmd.Name(), postID, err)
	}
	writeHeader(cmd.OutOrStdout(), "Searching "+itemURL(post.ID))

	return app.printComments(cmd, post, commentFilter{
		query:        re,
		hideNonMatch: true,
		markSeen:     func(int) bool { return false },
		alreadySeen:  app.Config.Seen,
	})
}
