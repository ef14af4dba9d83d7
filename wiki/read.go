package wiki

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// GetPage retrieves page content via one of four methods: the Revisions API
// (default), the raw action, the Parse API, or the TextExtracts API.
func (c *Client) GetPage(ctx context.Context, args GetPageArgs) (string, error) {
	if args.Title == "" && args.PageID == 0 {
		return "", &ValidationError{
			Field:      "title",
			Message:    "either 'title' or 'pageid' must be provided",
			Suggestion: "Identify the page to retrieve by title or by numeric page ID",
		}
	}

	switch args.Method {
	case "raw":
		return c.getPageRaw(ctx, args)
	case "parse":
		return c.getPageParse(ctx, args)
	case "extracts":
		return c.getPageExtracts(ctx, args)
	default:
		return c.getPageRevisions(ctx, args)
	}
}

// pageIdentifier names the page in reports when the API echoes nothing back
func pageIdentifier(title string, pageID int) string {
	if title != "" {
		return title
	}
	return fmt.Sprintf("ID: %d", pageID)
}

// getPageRevisions fetches the current wikitext through prop=revisions with
// formatversion=2 slot-aware parsing.
func (c *Client) getPageRevisions(ctx context.Context, args GetPageArgs) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("formatversion", "2")
	params.Set("prop", "revisions")
	params.Set("rvslots", "*")
	params.Set("rvprop", "content")
	if args.Title != "" {
		params.Set("titles", args.Title)
	} else {
		params.Set("pageids", strconv.Itoa(args.PageID))
	}

	resp, err := c.requestObject(ctx, http.MethodGet, params)
	if err != nil {
		return "", err
	}
	return formatRevisionsResult(resp, args)
}

func formatRevisionsResult(resp map[string]interface{}, args GetPageArgs) (string, error) {
	query := getMap(resp, "query")
	pages := getSlice(query, "pages")
	if query == nil || pages == nil {
		return "", shapeError("Revisions API", resp)
	}
	if len(pages) == 0 {
		return "No pages found", nil
	}

	page, ok := pages[0].(map[string]interface{})
	if !ok {
		return "", shapeError("Revisions API", resp)
	}
	if _, missing := page["missing"]; missing {
		return fmt.Sprintf("Page not found: %s", pageIdentifier(args.Title, args.PageID)), nil
	}

	title := strOr(page, "title", "Unknown")
	pageID := numOr(page, "pageid", "Unknown")

	content := "No content available"
	if revisions := getSlice(page, "revisions"); len(revisions) > 0 {
		if rev, ok := revisions[0].(map[string]interface{}); ok {
			main := getMap(getMap(rev, "slots"), "main")
			if text := getString(main, "content"); text != "" {
				content = text
			}
		}
	}

	return fmt.Sprintf("Page: %s (ID: %s)\nMethod: Revisions API\nFormat: Wikitext\n\nContent:\n%s",
		title, pageID, content), nil
}

// getPageRaw fetches wikitext through action=raw, the fastest path. The
// response body is plain text, so no JSON decoding is involved.
func (c *Client) getPageRaw(ctx context.Context, args GetPageArgs) (string, error) {
	params := url.Values{}
	params.Set("action", "raw")
	if args.Title != "" {
		params.Set("title", args.Title)
	} else {
		params.Set("curid", strconv.Itoa(args.PageID))
	}

	content, err := c.requestRaw(ctx, params)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Page: %s (Raw Wikitext)\n\n%s", pageIdentifier(args.Title, args.PageID), content), nil
}

// getPageParse fetches rendered HTML or wikitext through action=parse
func (c *Client) getPageParse(ctx context.Context, args GetPageArgs) (string, error) {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("formatversion", "2")
	if args.Title != "" {
		params.Set("page", args.Title)
	} else {
		params.Set("oldid", strconv.Itoa(args.PageID))
	}
	if args.Format == "html" {
		params.Set("prop", "text")
	} else {
		params.Set("prop", "wikitext")
	}

	resp, err := c.requestObject(ctx, http.MethodGet, params)
	if err != nil {
		return "", err
	}
	return formatParsedPage(resp, args)
}

func formatParsedPage(resp map[string]interface{}, args GetPageArgs) (string, error) {
	parse := getMap(resp, "parse")
	if parse == nil {
		return "", shapeError("Parse API", resp)
	}

	title := strOr(parse, "title", "Unknown")
	pageID := numOr(parse, "pageid", "Unknown")

	var content, formatLabel string
	switch {
	case args.Format == "html" && getString(parse, "text") != "":
		content = getString(parse, "text")
		formatLabel = "HTML"
	case getString(parse, "wikitext") != "":
		content = getString(parse, "wikitext")
		formatLabel = "Wikitext"
	default:
		content = "No content available"
		formatLabel = capitalize(strOrDefault(args.Format, "wikitext"))
	}

	return fmt.Sprintf("Page: %s (ID: %s)\nMethod: Parse API\nFormat: %s\n\nContent:\n%s",
		title, pageID, formatLabel, content), nil
}

// getPageExtracts fetches a plain-text or limited-HTML summary through the
// TextExtracts extension. sentences wins over chars when both are set.
func (c *Client) getPageExtracts(ctx context.Context, args GetPageArgs) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("formatversion", "2")
	params.Set("prop", "extracts")
	params.Set("exlimit", "1")
	if args.Title != "" {
		params.Set("titles", args.Title)
	} else {
		params.Set("pageids", strconv.Itoa(args.PageID))
	}
	if args.Sentences > 0 {
		params.Set("exsentences", strconv.Itoa(args.Sentences))
	} else if args.Chars > 0 {
		params.Set("exchars", strconv.Itoa(args.Chars))
	}
	if args.Format == "text" {
		params.Set("explaintext", "1")
	}

	resp, err := c.requestObject(ctx, http.MethodGet, params)
	if err != nil {
		return "", err
	}
	return formatExtractsResult(resp, args)
}

func formatExtractsResult(resp map[string]interface{}, args GetPageArgs) (string, error) {
	query := getMap(resp, "query")
	pages := getSlice(query, "pages")
	if query == nil || pages == nil {
		return "", shapeError("TextExtracts API", resp)
	}
	if len(pages) == 0 {
		return "No pages found", nil
	}

	page, ok := pages[0].(map[string]interface{})
	if !ok {
		return "", shapeError("TextExtracts API", resp)
	}
	if _, missing := page["missing"]; missing {
		return fmt.Sprintf("Page not found: %s", pageIdentifier(args.Title, args.PageID)), nil
	}

	title := strOr(page, "title", "Unknown")
	pageID := numOr(page, "pageid", "Unknown")
	extract := strOr(page, "extract", "No extract available")

	var limitInfo string
	if args.Sentences > 0 {
		limitInfo = fmt.Sprintf(" (Limited to %d sentences)", args.Sentences)
	} else if args.Chars > 0 {
		limitInfo = fmt.Sprintf(" (Limited to %d characters)", args.Chars)
	}

	formatLabel := "Limited HTML"
	if args.Format == "text" {
		formatLabel = "Plain Text"
	}

	return fmt.Sprintf("Page: %s (ID: %s)\nMethod: TextExtracts API\nFormat: %s%s\n\nExtract:\n%s",
		title, pageID, formatLabel, limitInfo, extract), nil
}
