// Package hackernews is a small client for the Hacker News Firebase API.
package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/haxor-news/haxor/internal/herrors"
	"github.com/haxor-news/haxor/internal/logger"
)

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 10 * time.Second

// maxParallel caps concurrent item fetches.
const maxParallel = 8

// StoryList names one of the API's story id lists.
type StoryList string

const (
	TopStories  StoryList = "topstories"
	NewStories  StoryList = "newstories"
	BestStories StoryList = "beststories"
	AskStories  StoryList = "askstories"
	ShowStories StoryList = "showstories"
	JobStories  StoryList = "jobstories"
)

// Item is a story, comment, job, poll or poll option.
type Item struct {
	ID          int    `json:"id"`
	Deleted     bool   `json:"deleted"`
	Type        string `json:"type"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Text        string `json:"text"`
	Dead        bool   `json:"dead"`
	Parent      int    `json:"parent"`
	Kids        []int  `json:"kids"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Title       string `json:"title"`
	Descendants int    `json:"descendants"`
}

// Created returns the item's submission time.
func (i *Item) Created() time.Time { return time.Unix(i.Time, 0) }

// User is a Hacker News account.
type User struct {
	ID        string `json:"id"`
	Created   int64  `json:"created"`
	Karma     int    `json:"karma"`
	About     string `json:"about"`
	Submitted []int  `json:"submitted"`
}

// Client talks to the API rooted at a base URL.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewClient returns a Client for baseURL. A nil log discards output.
func NewClient(baseURL string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     log,
	}
}

// Stories returns up to limit ids from list. A limit <= 0 returns them all.
func (c *Client) Stories(ctx context.Context, list StoryList, limit int) ([]int, error) {
	var ids []int
	if _, err := c.get(ctx, string(list)+".json", &ids); err != nil {
		return nil, err
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// Item fetches a single item.
func (c *Client) Item(ctx context.Context, id int) (*Item, error) {
	var item *Item
	found, err := c.get(ctx, fmt.Sprintf("item/%d.json", id), &item)
	if err != nil {
		return nil, err
	}
	if !found || item == nil {
		return nil, herrors.NewItemNotFoundError(id)
	}
	return item, nil
}

// Items fetches ids concurrently and returns them in input order. Items that
// do not exist are left out; any other failure aborts the whole call.
func (c *Client) Items(ctx context.Context, ids []int) ([]*Item, error) {
	items := make([]*Item, len(ids))
	errs := make([]error, len(ids))

	sem := make(chan struct{}, maxParallel)
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			items[i], errs[i] = c.Item(ctx, id)
		}(i, id)
	}
	wg.Wait()

	out := make([]*Item, 0, len(ids))
	for i, err := range errs {
		switch {
		case err == nil:
			out = append(out, items[i])
		case herrors.IsNotFound(err):
			c.log.Debug().Int("id", ids[i]).Msg("item missing, skipped")
		default:
			return nil, err
		}
	}
	return out, nil
}

// User fetches a user by id. The id is escaped, so it always names a single
// user resource.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	var user *User
	found, err := c.get(ctx, "user/"+url.PathEscape(id)+".json", &user)
	if err != nil {
		return nil, err
	}
	if !found || user == nil {
		return nil, herrors.NewUserNotFoundError(id)
	}
	return user, nil
}

// get decodes the JSON document at path into out. found is false when the API
// answers with a JSON null, which is how it reports unknown ids.
func (c *Client) get(ctx context.Context, path string, out any) (found bool, err error) {
	target := c.baseURL + "/" + path
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false, herrors.NewAPIError(target, 0, "failed to build request", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, herrors.NewAPIError(target, 0, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, herrors.NewAPIError(target, resp.StatusCode, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, herrors.NewAPIError(target, resp.StatusCode, "failed to read response", err)
	}
	c.log.Debug().Str("url", target).Dur("took", time.Since(start)).Msg("fetched")

	if strings.TrimSpace(string(body)) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, herrors.NewAPIError(target, resp.StatusCode, "failed to decode response", err)
	}
	return true, nil
}
