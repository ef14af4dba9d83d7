package wiki

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// buildEditParams encodes edit arguments as action=edit wire parameters.
// The CSRF token is attached by the caller.
func buildEditParams(args EditPageArgs) (url.Values, error) {
	if args.Title == "" && args.PageID == 0 {
		return nil, &ValidationError{
			Field:      "title",
			Message:    "either 'title' or 'pageid' must be provided",
			Suggestion: "Identify the page to edit by title or by numeric page ID",
		}
	}

	params := url.Values{}
	params.Set("action", "edit")

	// Title wins when both identifiers are present
	if args.Title != "" {
		params.Set("title", args.Title)
	} else {
		params.Set("pageid", strconv.Itoa(args.PageID))
	}

	if args.Text != "" {
		params.Set("text", args.Text)
	}
	if args.AppendText != "" {
		params.Set("appendtext", args.AppendText)
	}
	if args.PrependText != "" {
		params.Set("prependtext", args.PrependText)
	}

	if args.Section != "" {
		params.Set("section", args.Section)
	}
	if args.SectionTitle != "" {
		params.Set("sectiontitle", args.SectionTitle)
	}

	if args.Summary != "" {
		params.Set("summary", args.Summary)
	}
	if args.Minor {
		params.Set("minor", "1")
	}
	if args.Bot == nil || *args.Bot {
		params.Set("bot", "1")
	}
	if args.CreateOnly {
		params.Set("createonly", "1")
	}
	if args.NoCreate {
		params.Set("nocreate", "1")
	}

	applyAdditional(params, args.AdditionalParameters)
	return params, nil
}

// EditPage creates or modifies a page and reports the outcome.
func (c *Client) EditPage(ctx context.Context, args EditPageArgs) (string, error) {
	params, err := buildEditParams(args)
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

	return formatEditResult(resp, args), nil
}

// formatEditResult renders the edit outcome. API failures are part of the
// report, not errors.
func formatEditResult(resp map[string]interface{}, args EditPageArgs) string {
	edit := getMap(resp, "edit")
	if edit == nil || getString(edit, "result") != "Success" {
		return fmt.Sprintf("Edit failed: %s", rawDump(resp))
	}

	fallback := args.Title
	if fallback == "" {
		fallback = fmt.Sprintf("Page ID %d", args.PageID)
	}
	title := strOr(edit, "title", fallback)
	revision := numOr(edit, "newrevid", "unknown")
	timestamp := strOr(edit, "newtimestamp", "unknown")

	return fmt.Sprintf("Successfully edited page '%s'. New revision ID: %s, Timestamp: %s",
		title, revision, timestamp)
}
