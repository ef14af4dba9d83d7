package wiki

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// buildParseParams encodes action=parse wire parameters. Exactly one content
// source is selected by precedence: oldid, then pageid, then page, then
// title naming an existing page, then text (title as context), then summary.
func buildParseParams(args ParsePageArgs) (url.Values, error) {
	if args.Title == "" && args.PageID == 0 && args.OldID == 0 &&
		args.Text == "" && args.Page == "" && args.Summary == "" {
		return nil, &ValidationError{
			Field:      "title",
			Message:    "must provide one of: title, pageid, oldid, text, page, or summary",
			Suggestion: "Name the content to parse: an existing page, a revision, raw wikitext, or an edit summary",
		}
	}

	params := url.Values{}
	params.Set("action", "parse")
	params.Set("formatversion", "2")

	prop := args.Prop
	summaryOnly := false

	switch {
	case args.OldID != 0:
		params.Set("oldid", strconv.Itoa(args.OldID))
	case args.PageID != 0:
		params.Set("pageid", strconv.Itoa(args.PageID))
	case args.Page != "":
		params.Set("page", args.Page)
	case args.Title != "" && args.Text == "" && args.Summary == "":
		// A bare title names an existing page, which the API calls "page"
		params.Set("page", args.Title)
	case args.Text != "":
		params.Set("text", args.Text)
		if args.Title != "" {
			params.Set("title", args.Title)
		}
	default:
		params.Set("summary", args.Summary)
		summaryOnly = true
	}

	if args.RevID != 0 {
		params.Set("revid", strconv.Itoa(args.RevID))
	}
	if args.Redirects {
		params.Set("redirects", "1")
	}

	switch {
	case summaryOnly && prop == nil:
		// Summary-only parsing requires prop to be present but empty,
		// otherwise the API renders page properties for a missing page
		params.Set("prop", "")
	case prop == nil:
		params.Set("prop", strings.Join(defaultParseProps(args), "|"))
	case len(prop) > 0:
		params.Set("prop", strings.Join(prop, "|"))
	}

	if args.WrapOutputClass != "" {
		params.Set("wrapoutputclass", args.WrapOutputClass)
	}
	if args.UseArticle {
		params.Set("usearticle", "1")
	}
	if args.Parsoid {
		params.Set("parsoid", "1")
	}
	if args.PST {
		params.Set("pst", "1")
	}
	if args.OnlyPST {
		params.Set("onlypst", "1")
	}

	if args.Section != "" {
		if !validSectionID(args.Section) {
			return nil, &ValidationError{
				Field:      "section",
				Message:    "section must be a number, 'new', or a 'T-' prefixed template section",
				Suggestion: "Use a section index from the page's section list, 'new' to add a section, or 'T-1' style for template sections",
			}
		}
		params.Set("section", args.Section)
	}
	if args.SectionTitle != "" {
		params.Set("sectiontitle", args.SectionTitle)
	}

	if args.DisableLimitReport {
		params.Set("disablelimitreport", "1")
	}
	if args.DisableEditSection {
		params.Set("disableeditsection", "1")
	}
	if args.DisableStyleDeduplication {
		params.Set("disablestylededuplication", "1")
	}
	if args.ShowStrategyKeys {
		params.Set("showstrategykeys", "1")
	}
	if args.Preview {
		params.Set("preview", "1")
	}
	if args.SectionPreview {
		params.Set("sectionpreview", "1")
	}
	if args.DisableTOC {
		params.Set("disabletoc", "1")
	}

	if args.UseSkin != "" {
		params.Set("useskin", args.UseSkin)
	}
	if args.MobileFormat {
		params.Set("mobileformat", "1")
	}
	if args.ContentFormat != "" {
		params.Set("contentformat", args.ContentFormat)
	}
	if args.ContentModel != "" {
		params.Set("contentmodel", args.ContentModel)
	}

	if len(args.TemplateSandboxPrefix) > 0 {
		params.Set("templatesandboxprefix", strings.Join(args.TemplateSandboxPrefix, "|"))
	}
	if args.TemplateSandboxTitle != "" {
		params.Set("templatesandboxtitle", args.TemplateSandboxTitle)
	}
	if args.TemplateSandboxText != "" {
		params.Set("templatesandboxtext", args.TemplateSandboxText)
	}
	if args.TemplateSandboxContentModel != "" {
		params.Set("templatesandboxcontentmodel", args.TemplateSandboxContentModel)
	}
	if args.TemplateSandboxContentFormat != "" {
		params.Set("templatesandboxcontentformat", args.TemplateSandboxContentFormat)
	}

	applyAdditional(params, args.AdditionalParameters)
	return params, nil
}

// defaultParseProps assembles the property set when the caller names none.
// Arbitrary text gets conservative basics; existing pages get progressively
// richer metadata.
func defaultParseProps(args ParsePageArgs) []string {
	prop := []string{"text", "categories", "links", "sections", "revid"}

	existingPage := args.Title != "" || args.PageID != 0 || args.OldID != 0 || args.Page != ""

	if args.Text == "" && args.Summary == "" {
		prop = append(prop, "displaytitle", "parsewarnings")
	}
	if existingPage {
		prop = append(prop, "templates", "images", "externallinks")
	}
	if existingPage && !args.PST && !args.OnlyPST {
		prop = append(prop, "langlinks", "iwlinks", "properties")
	}
	return prop
}

// validSectionID accepts a section index, "new", or a template section
func validSectionID(section string) bool {
	if section == "new" || strings.HasPrefix(section, "T-") {
		return true
	}
	for _, r := range section {
		if r < '0' || r > '9' {
			return false
		}
	}
	return section != ""
}

// ParsePage renders page content or arbitrary wikitext through action=parse
// and formats the returned properties as a sectioned report.
func (c *Client) ParsePage(ctx context.Context, args ParsePageArgs) (string, error) {
	params, err := buildParseParams(args)
	if err != nil {
		return "", err
	}

	resp, err := c.requestObject(ctx, http.MethodGet, params)
	if err != nil {
		return "", err
	}
	return formatParseResult(resp, args.Prop)
}

func formatParseResult(resp map[string]interface{}, requestedProp []string) (string, error) {
	// API errors on parse are part of the report, not Go errors
	if errVal, present := resp["error"]; present {
		if errObj, ok := errVal.(map[string]interface{}); ok {
			return fmt.Sprintf("MediaWiki API Error (%s): %s",
				strOr(errObj, "code", "unknown"), strOr(errObj, "info", "Unknown error")), nil
		}
		return fmt.Sprintf("MediaWiki API Error: %v", errVal), nil
	}

	warningText := formatAPIWarnings(getMap(resp, "warnings"))

	parse := getMap(resp, "parse")
	if parse == nil {
		return "", shapeError("Parse API", resp)
	}

	lines := []string{
		fmt.Sprintf("Parse Results for: %s", strOr(parse, "title", "Unknown")),
		fmt.Sprintf("Page ID: %s", numOr(parse, "pageid", "Unknown")),
		fmt.Sprintf("Revision ID: %s", numOr(parse, "revid", "Unknown")),
		"",
	}

	if warningText != "" {
		lines = append(lines, warningText, "")
	}
	if len(requestedProp) > 0 {
		lines = append(lines, fmt.Sprintf("Requested properties: %s", strings.Join(requestedProp, ", ")), "")
	}

	sections := parsePropertySections(parse)
	if len(sections) > 0 {
		lines = append(lines, sections...)
	} else {
		lines = append(lines, "No content available in the parsed output.")
	}

	return strings.Join(lines, "\n"), nil
}

// formatAPIWarnings renders the top-level warnings object with stable
// ordering
func formatAPIWarnings(warnings map[string]interface{}) string {
	if len(warnings) == 0 {
		return ""
	}

	keys := make([]string, 0, len(warnings))
	for k := range warnings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	messages := make([]string, 0, len(keys))
	for _, key := range keys {
		switch w := warnings[key].(type) {
		case map[string]interface{}:
			if star, ok := w["*"].(string); ok {
				messages = append(messages, fmt.Sprintf("%s: %s", key, star))
			} else {
				messages = append(messages, fmt.Sprintf("%s: %s", key, rawDump(w)))
			}
		case string:
			messages = append(messages, fmt.Sprintf("%s: %s", key, w))
		default:
			messages = append(messages, fmt.Sprintf("%s: %s", key, rawDump(w)))
		}
	}
	return "API Warnings:\n" + strings.Join(messages, "\n")
}

// parsePropertySections renders every property the wiki returned, in a fixed
// order so identical responses produce identical reports
func parsePropertySections(parse map[string]interface{}) []string {
	var sections []string

	if textVal, present := parse["text"]; present {
		sections = append(sections, formatParsedText(contentValue(textVal)))
	} else if pageID, ok := getNumber(parse, "pageid"); ok && pageID > 0 {
		sections = append(sections, formatSection("Parsed HTML",
			"WARNING: No text content in parse result for existing page. This may indicate the page is empty or a parsing error occurred."))
	}

	if wikitextVal, present := parse["wikitext"]; present {
		sections = append(sections, formatSection("Wikitext", contentValue(wikitextVal)))
	}

	if list := titleList(getSlice(parse, "categories"), "category"); len(list) > 0 {
		sections = append(sections, formatSection("Categories", strings.Join(list, "\n")))
	}
	if list := titleList(getSlice(parse, "links"), "title"); len(list) > 0 {
		sections = append(sections, formatSection("Internal Links", strings.Join(list, "\n")))
	}
	if list := titleList(getSlice(parse, "templates"), "title"); len(list) > 0 {
		sections = append(sections, formatSection("Templates", strings.Join(list, "\n")))
	}
	if list := stringList(getSlice(parse, "images")); len(list) > 0 {
		sections = append(sections, formatSection("Images", strings.Join(list, "\n")))
	}
	if list := stringList(getSlice(parse, "externallinks")); len(list) > 0 {
		sections = append(sections, formatSection("External Links", strings.Join(list, "\n")))
	}

	if entries := getSlice(parse, "sections"); len(entries) > 0 {
		list := make([]string, 0, len(entries))
		for _, entry := range entries {
			if section, ok := entry.(map[string]interface{}); ok {
				list = append(list, fmt.Sprintf("Level %s: %s",
					sectionLevel(section), getString(section, "line")))
			}
		}
		sections = append(sections, formatSection("Sections", strings.Join(list, "\n")))
	}

	if entries := getSlice(parse, "langlinks"); len(entries) > 0 {
		list := make([]string, 0, len(entries))
		for _, entry := range entries {
			if link, ok := entry.(map[string]interface{}); ok {
				list = append(list, fmt.Sprintf("%s: %s",
					getString(link, "lang"), linkTitle(link)))
			}
		}
		sections = append(sections, formatSection("Language Links", strings.Join(list, "\n")))
	}

	if entries := getSlice(parse, "iwlinks"); len(entries) > 0 {
		list := make([]string, 0, len(entries))
		for _, entry := range entries {
			if link, ok := entry.(map[string]interface{}); ok {
				list = append(list, fmt.Sprintf("%s: %s",
					getString(link, "prefix"), linkTitle(link)))
			}
		}
		sections = append(sections, formatSection("Interwiki Links", strings.Join(list, "\n")))
	}

	if entries := getSlice(parse, "properties"); len(entries) > 0 {
		list := make([]string, 0, len(entries))
		for _, entry := range entries {
			if prop, ok := entry.(map[string]interface{}); ok {
				value := getString(prop, "*")
				if value == "" {
					value = getString(prop, "value")
				}
				list = append(list, fmt.Sprintf("%s: %s", getString(prop, "name"), value))
			}
		}
		sections = append(sections, formatSection("Properties", strings.Join(list, "\n")))
	}

	if list := stringList(getSlice(parse, "parsewarnings")); len(list) > 0 {
		sections = append(sections, formatSection("Parse Warnings", strings.Join(list, "\n")))
	}

	if display, present := parse["displaytitle"]; present {
		sections = append(sections, formatSection("Display Title", contentValue(display)))
	}

	return sections
}

// formatParsedText renders the HTML property, flagging suspiciously minimal
// output so callers notice wrapper-only responses.
func formatParsedText(text string) string {
	if strings.TrimSpace(text) == "" {
		return formatSection("Parsed HTML",
			"WARNING: No HTML content returned. The page may be empty or there may be a parsing issue.")
	}
	if looksMinimal(text) {
		return formatSection("Parsed HTML",
			fmt.Sprintf("WARNING: Content appears minimal. This may indicate a page parsing issue.\n\n%s", text))
	}
	return formatSection("Parsed HTML", text)
}

var (
	wrapperDivPattern     = regexp.MustCompile(`(?s)<div[^>]*>|</div>`)
	emptyParagraphPattern = regexp.MustCompile(`<p[^>]*>\s*</p>`)
	anyTagPattern         = regexp.MustCompile(`(?s)<[^>]*>`)
)

// looksMinimal reports whether parsed HTML is essentially an empty wrapper.
// Short div-wrapped output with almost no tags counts, as does markup whose
// text content nearly vanishes once wrapper divs and empty paragraphs are
// stripped.
func looksMinimal(text string) bool {
	trimmed := strings.TrimSpace(text)
	if strings.Contains(trimmed, "<div") &&
		len(trimmed) < 200 &&
		strings.Count(trimmed, "<") <= 3 {
		return true
	}

	stripped := wrapperDivPattern.ReplaceAllString(trimmed, "")
	stripped = emptyParagraphPattern.ReplaceAllString(stripped, "")
	stripped = anyTagPattern.ReplaceAllString(stripped, "")
	return len(strings.TrimSpace(stripped)) < 10
}

// formatSection renders one "## Title" block, truncating oversized content
func formatSection(title, content string) string {
	if content == "" {
		return fmt.Sprintf("## %s\n(No content)\n", title)
	}
	if len(content) > SectionCharacterLimit {
		content = content[:SectionCharacterLimit] + "\n... (content truncated)"
	}
	return fmt.Sprintf("## %s\n%s\n", title, content)
}

// contentValue unwraps a parse property that may be a plain string or a
// legacy {"*": ...} object
func contentValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]interface{}:
		return getString(val, "*")
	}
	return ""
}

// titleList extracts display names from a list of link-like objects, trying
// the legacy "*" key and then the given formatversion=2 key
func titleList(entries []interface{}, key string) []string {
	var out []string
	for _, entry := range entries {
		switch e := entry.(type) {
		case map[string]interface{}:
			if star := getString(e, "*"); star != "" {
				out = append(out, star)
			} else if v := getString(e, key); v != "" {
				out = append(out, v)
			} else {
				out = append(out, rawDump(e))
			}
		case string:
			out = append(out, e)
		}
	}
	return out
}

// stringList coerces a JSON array into strings
func stringList(entries []interface{}) []string {
	var out []string
	for _, entry := range entries {
		if s, ok := entry.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, rawDump(entry))
		}
	}
	return out
}

// linkTitle resolves the display title of a language or interwiki link
func linkTitle(link map[string]interface{}) string {
	if star := getString(link, "*"); star != "" {
		return star
	}
	return getString(link, "title")
}

// sectionLevel renders a section level that may arrive as a string or number
func sectionLevel(section map[string]interface{}) string {
	if s := getString(section, "level"); s != "" {
		return s
	}
	return numOr(section, "level", "")
}
