package wiki

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// buildMoveParams encodes action=move wire parameters. The CSRF token is
// attached by the caller.
func buildMoveParams(args MovePageArgs) (url.Values, error) {
	if args.From == "" && args.FromID == 0 {
		return nil, &ValidationError{
			Field:      "from",
			Message:    "either 'from' or 'fromid' must be provided",
			Suggestion: "Identify the page to rename by title or by numeric page ID",
		}
	}
	if args.To == "" {
		return nil, &ValidationError{
			Field:      "to",
			Message:    "'to' parameter is required",
			Suggestion: "Provide the new title for the page",
		}
	}

	params := url.Values{}
	params.Set("action", "move")
	params.Set("to", args.To)

	if args.From != "" {
		params.Set("from", args.From)
	} else {
		params.Set("fromid", strconv.Itoa(args.FromID))
	}

	if args.Reason != "" {
		params.Set("reason", args.Reason)
	}
	if args.MoveTalk {
		params.Set("movetalk", "1")
	}
	if args.MoveSubpages {
		params.Set("movesubpages", "1")
	}
	if args.NoRedirect {
		params.Set("noredirect", "1")
	}
	if args.Watchlist != "" && args.Watchlist != "preferences" {
		params.Set("watchlist", args.Watchlist)
	}
	if args.WatchlistExpiry != "" {
		params.Set("watchlistexpiry", args.WatchlistExpiry)
	}
	if args.IgnoreWarnings {
		params.Set("ignorewarnings", "1")
	}
	if len(args.Tags) > 0 {
		params.Set("tags", strings.Join(args.Tags, "|"))
	}

	applyAdditional(params, args.AdditionalParameters)
	return params, nil
}

// MovePage renames a page and reports the outcome, including talk page and
// subpage moves when the wiki performed them.
func (c *Client) MovePage(ctx context.Context, args MovePageArgs) (string, error) {
	params, err := buildMoveParams(args)
	if err != nil {
		return "", err
	}

	token, err := c.csrf(ctx)
	if err != nil {
		return "", err
	}
	params.Set("token", token)

	resp, err := c.requestObject(ctx, "POST", params)
	if err != nil {
		return "", err
	}
	c.noteTokenFailure(resp)

	return formatMoveResult(resp, args), nil
}

func formatMoveResult(resp map[string]interface{}, args MovePageArgs) string {
	// The success payload lives under "move"; error envelopes stay top-level
	target := resp
	if move := getMap(resp, "move"); move != nil {
		target = move
	}

	_, hasFrom := target["from"]
	_, hasTo := target["to"]
	if !hasFrom || !hasTo {
		if errObj := getMap(target, "error"); errObj != nil {
			return fmt.Sprintf("Move failed (%s): %s",
				strOr(errObj, "code", "unknown"), strOr(errObj, "info", "Unknown error"))
		}
		return fmt.Sprintf("Move failed: %s", rawDump(target))
	}

	fromFallback := args.From
	if fromFallback == "" {
		fromFallback = fmt.Sprintf("Page ID %d", args.FromID)
	}
	fromPage := strOr(target, "from", fromFallback)
	toPage := strOr(target, "to", args.To)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Successfully moved page '%s' to '%s'", fromPage, toPage))

	// An explicitly empty reason from the API suppresses the suffix
	reason := "No reason provided"
	if r, present := target["reason"]; present {
		reason, _ = r.(string)
	}
	if reason != "" {
		sb.WriteString(fmt.Sprintf(". Reason: %s", reason))
	}

	if talkFrom, ok := target["talkfrom"]; ok {
		if talkTo, ok := target["talkto"]; ok {
			sb.WriteString(fmt.Sprintf(". Talk page moved from '%v' to '%v'", talkFrom, talkTo))
		}
	}
	if subpages := getSlice(target, "subpages"); subpages != nil {
		sb.WriteString(fmt.Sprintf(". %d subpages moved", len(subpages)))
	}

	return sb.String()
}

// buildDeleteParams encodes action=delete wire parameters. The deprecated
// watch/unwatch flags take precedence over the watchlist value.
func buildDeleteParams(args DeletePageArgs) (url.Values, error) {
	if args.Title == "" && args.PageID == 0 {
		return nil, &ValidationError{
			Field:      "title",
			Message:    "either 'title' or 'pageid' must be provided",
			Suggestion: "Identify the page to delete by title or by numeric page ID",
		}
	}

	params := url.Values{}
	params.Set("action", "delete")

	if args.Title != "" {
		params.Set("title", args.Title)
	} else {
		params.Set("pageid", strconv.Itoa(args.PageID))
	}

	if args.Reason != "" {
		params.Set("reason", args.Reason)
	}
	if len(args.Tags) > 0 {
		params.Set("tags", strings.Join(args.Tags, "|"))
	}
	if args.DeleteTalk {
		params.Set("deletetalk", "1")
	}
	if args.OldImage != "" {
		params.Set("oldimage", args.OldImage)
	}

	switch {
	case args.Watch:
		params.Set("watchlist", "watch")
	case args.Unwatch:
		params.Set("watchlist", "unwatch")
	case args.Watchlist != "" && args.Watchlist != "preferences":
		params.Set("watchlist", args.Watchlist)
	}
	if args.WatchlistExpiry != "" {
		params.Set("watchlistexpiry", args.WatchlistExpiry)
	}

	applyAdditional(params, args.AdditionalParameters)
	return params, nil
}

// DeletePage deletes a page and reports the deletion log entry
func (c *Client) DeletePage(ctx context.Context, args DeletePageArgs) (string, error) {
	params, err := buildDeleteParams(args)
	if err != nil {
		return "", err
	}

	token, err := c.csrf(ctx)
	if err != nil {
		return "", err
	}
	params.Set("token", token)

	resp, err := c.requestObject(ctx, "POST", params)
	if err != nil {
		return "", err
	}
	c.noteTokenFailure(resp)

	return formatDeleteResult(resp, args), nil
}

func formatDeleteResult(resp map[string]interface{}, args DeletePageArgs) string {
	target := resp
	if del := getMap(resp, "delete"); del != nil {
		target = del
	}

	if _, ok := target["title"]; !ok {
		return fmt.Sprintf("Delete failed: %s", rawDump(target))
	}

	fallback := args.Title
	if fallback == "" {
		fallback = fmt.Sprintf("Page ID %d", args.PageID)
	}
	title := strOr(target, "title", fallback)
	reason := strOr(target, "reason", "No reason provided")
	logID := numOr(target, "logid", "unknown")

	return fmt.Sprintf("Successfully deleted page '%s'. Reason: %s. Log ID: %s", title, reason, logID)
}

// buildUndeleteParams encodes action=undelete wire parameters. Empty
// timestamps and fileids restore every deleted revision.
func buildUndeleteParams(args UndeletePageArgs) (url.Values, error) {
	if args.Title == "" {
		return nil, &ValidationError{
			Field:      "title",
			Message:    "'title' parameter is required",
			Suggestion: "Provide the title of the deleted page to restore",
		}
	}

	params := url.Values{}
	params.Set("action", "undelete")
	params.Set("title", args.Title)

	if args.Reason != "" {
		params.Set("reason", args.Reason)
	}
	if len(args.Tags) > 0 {
		params.Set("tags", strings.Join(args.Tags, "|"))
	}
	if len(args.Timestamps) > 0 {
		params.Set("timestamps", strings.Join(args.Timestamps, "|"))
	}
	if len(args.FileIDs) > 0 {
		params.Set("fileids", joinInts(args.FileIDs))
	}
	if args.UndeleteTalk {
		params.Set("undeletetalk", "1")
	}
	if args.Watchlist != "" && args.Watchlist != "preferences" {
		params.Set("watchlist", args.Watchlist)
	}
	if args.WatchlistExpiry != "" {
		params.Set("watchlistexpiry", args.WatchlistExpiry)
	}

	applyAdditional(params, args.AdditionalParameters)
	return params, nil
}

// UndeletePage restores deleted revisions of a page and reports how many
// revisions and file versions came back.
func (c *Client) UndeletePage(ctx context.Context, args UndeletePageArgs) (string, error) {
	params, err := buildUndeleteParams(args)
	if err != nil {
		return "", err
	}

	token, err := c.csrf(ctx)
	if err != nil {
		return "", err
	}
	params.Set("token", token)

	resp, err := c.requestObject(ctx, "POST", params)
	if err != nil {
		return "", err
	}
	c.noteTokenFailure(resp)

	return formatUndeleteResult(resp, args), nil
}

func formatUndeleteResult(resp map[string]interface{}, args UndeletePageArgs) string {
	target := resp
	if und := getMap(resp, "undelete"); und != nil {
		target = und
	}

	if _, ok := target["title"]; !ok {
		return fmt.Sprintf("Undelete failed: %s", rawDump(target))
	}

	title := strOr(target, "title", args.Title)
	reason := strOr(target, "reason", "No reason provided")
	revisions := numOr(target, "revisions", "0")
	fileVersions := numOr(target, "fileversions", "0")

	return fmt.Sprintf("Successfully undeleted page '%s'. Reason: %s. Revisions restored: %s. File versions restored: %s.",
		title, reason, revisions, fileVersions)
}
