package wiki

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

var (
	validSearchTypes = []string{"text", "title", "nearmatch"}

	validQIProfiles = []string{
		"classic", "classic_noboostlinks", "empty", "engine_autoselect",
		"popular_inclinks", "popular_inclinks_pv", "wsum_inclinks", "wsum_inclinks_pv",
	}

	validSearchInfo = []string{"rewrittenquery", "suggestion", "totalhits"}

	validSearchProps = []string{
		"categorysnippet", "extensiondata", "isfilematch", "redirectsnippet",
		"redirecttitle", "sectionsnippet", "sectiontitle", "size", "snippet",
		"timestamp", "titlesnippet", "wordcount",
	}

	validSearchSorts = []string{
		"create_timestamp_asc", "create_timestamp_desc", "incoming_links_asc",
		"incoming_links_desc", "just_match", "last_edit_asc", "last_edit_desc",
		"none", "random", "relevance", "user_random",
	}

	validOpenSearchProfiles = []string{
		"strict", "normal", "normal-subphrases", "fuzzy", "fast-fuzzy",
		"fuzzy-subphrases", "classic", "engine_autoselect",
	}
)

// buildSearchParams encodes full-text search arguments as list=search wire
// parameters. Out-of-range limits are clamped and unknown enum values are
// dropped so the remote API's defaults apply.
func buildSearchParams(args SearchArgs) (url.Values, error) {
	if args.Query == "" {
		return nil, &ValidationError{
			Field:      "query",
			Message:    "search query is required",
			Suggestion: "Provide the text to search for",
		}
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", args.Query)

	namespaces := args.Namespaces
	if namespaces == nil {
		namespaces = []int{0}
	}
	if len(namespaces) > 0 {
		params.Set("srnamespace", joinInts(namespaces))
	}

	limit := DefaultSearchLimit
	if args.Limit != nil {
		limit = *args.Limit
	}
	params.Set("srlimit", strconv.Itoa(clampLimit(limit, 1, MaxSearchLimit)))
	if args.Offset > 0 {
		params.Set("sroffset", strconv.Itoa(args.Offset))
	}

	what := strOrDefault(args.What, "text")
	if contains(validSearchTypes, what) {
		params.Set("srwhat", what)
	}

	qiprofile := strOrDefault(args.QIProfile, "engine_autoselect")
	if contains(validQIProfiles, qiprofile) {
		params.Set("srqiprofile", qiprofile)
	}

	info := args.Info
	if info == nil {
		info = []string{"totalhits", "suggestion", "rewrittenquery"}
	}
	if filtered := filterAllowed(info, validSearchInfo); len(filtered) > 0 {
		params.Set("srinfo", strings.Join(filtered, "|"))
	}

	prop := args.Prop
	if prop == nil {
		prop = []string{"size", "wordcount", "timestamp", "snippet"}
	}
	if filtered := filterAllowed(prop, validSearchProps); len(filtered) > 0 {
		params.Set("srprop", strings.Join(filtered, "|"))
	}

	if args.Interwiki {
		params.Set("srinterwiki", "1")
	}
	if args.EnableRewrites == nil || *args.EnableRewrites {
		params.Set("srenablerewrites", "1")
	}

	sort := strOrDefault(args.Sort, "relevance")
	if contains(validSearchSorts, sort) {
		params.Set("srsort", sort)
	}

	return params, nil
}

// SearchPages performs a full-text search and renders the results as a
// numbered report with metadata and highlighted snippets.
func (c *Client) SearchPages(ctx context.Context, args SearchArgs) (string, error) {
	params, err := buildSearchParams(args)
	if err != nil {
		return "", err
	}

	resp, err := c.requestObject(ctx, http.MethodGet, params)
	if err != nil {
		return "", err
	}

	c.logger.Info("Search completed", "query", args.Query)
	return formatSearchResults(resp, args.Query, args.Offset)
}

func formatSearchResults(resp map[string]interface{}, query string, offset int) (string, error) {
	queryData := getMap(resp, "query")
	if queryData == nil {
		return "", shapeError("search", resp)
	}

	var sb strings.Builder
	header := fmt.Sprintf("Search Results for: '%s'", query)
	sb.WriteString(header + "\n" + underline(header) + "\n\n")

	if searchInfo := getMap(queryData, "searchinfo"); searchInfo != nil {
		if total, ok := getNumber(searchInfo, "totalhits"); ok {
			sb.WriteString(fmt.Sprintf("Total hits: %d\n", total))
		}
		if suggestion := getString(searchInfo, "suggestion"); suggestion != "" {
			sb.WriteString(fmt.Sprintf("Did you mean: %s\n", suggestion))
		}
		if rewritten := getString(searchInfo, "rewrittenquery"); rewritten != "" {
			sb.WriteString(fmt.Sprintf("Query rewritten to: %s\n", rewritten))
		}
		sb.WriteString("\n")
	}

	results := getSlice(queryData, "search")
	if len(results) == 0 {
		sb.WriteString("No search results found.")
	} else {
		sb.WriteString(fmt.Sprintf("Showing %d results", len(results)))
		if offset > 0 {
			sb.WriteString(fmt.Sprintf(" (starting from result #%d)", offset+1))
		}
		sb.WriteString(":\n\n")

		for i, entry := range results {
			page, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			writeSearchResult(&sb, page, offset+i+1)
		}
	}

	if cont := getMap(resp, "continue"); cont != nil {
		if next, ok := getNumber(cont, "sroffset"); ok {
			sb.WriteString(fmt.Sprintf("\nMore results available. Use offset=%d to see the next page.", next))
		}
	}

	return sb.String(), nil
}

// writeSearchResult renders one search hit with whichever properties the
// wiki returned for it
func writeSearchResult(sb *strings.Builder, page map[string]interface{}, number int) {
	sb.WriteString(fmt.Sprintf("%d. **%s**\n", number, strOr(page, "title", "Unknown Title")))

	if pageID, ok := getNumber(page, "pageid"); ok {
		sb.WriteString(fmt.Sprintf("   Page ID: %d", pageID))
	}
	if ns, ok := getNumber(page, "ns"); ok {
		sb.WriteString(fmt.Sprintf(" | Namespace: %d", ns))
	}
	sb.WriteString("\n")

	var metadata []string
	if size, ok := getNumber(page, "size"); ok {
		metadata = append(metadata, fmt.Sprintf("Size: %d bytes", size))
	}
	if words, ok := getNumber(page, "wordcount"); ok {
		metadata = append(metadata, fmt.Sprintf("Words: %d", words))
	}
	if ts := getString(page, "timestamp"); ts != "" {
		metadata = append(metadata, fmt.Sprintf("Last edited: %s", ts))
	}
	if len(metadata) > 0 {
		sb.WriteString(fmt.Sprintf("   %s\n", strings.Join(metadata, " | ")))
	}

	if snippet := getString(page, "snippet"); snippet != "" {
		sb.WriteString(fmt.Sprintf("   Preview: %s\n", rewriteSearchMatches(snippet)))
	}

	if titleSnippet := getString(page, "titlesnippet"); titleSnippet != "" && titleSnippet != getString(page, "title") {
		sb.WriteString(fmt.Sprintf("   Title match: %s\n", rewriteSearchMatches(titleSnippet)))
	}

	if redirect := getString(page, "redirecttitle"); redirect != "" {
		sb.WriteString(fmt.Sprintf("   Redirected from: %s\n", redirect))
	}
	if redirectSnippet := getString(page, "redirectsnippet"); redirectSnippet != "" {
		sb.WriteString(fmt.Sprintf("   Redirect match: %s\n", rewriteSearchMatches(redirectSnippet)))
	}

	if section := getString(page, "sectiontitle"); section != "" {
		sb.WriteString(fmt.Sprintf("   Section: %s\n", section))
	}
	if sectionSnippet := getString(page, "sectionsnippet"); sectionSnippet != "" {
		snippet := rewriteSearchMatches(sectionSnippet)
		snippet = strings.TrimPrefix(snippet, "Section ")
		sb.WriteString(fmt.Sprintf("   Section match: %s\n", snippet))
	}

	if categorySnippet := getString(page, "categorysnippet"); categorySnippet != "" {
		sb.WriteString(fmt.Sprintf("   Category: %s\n", rewriteSearchMatches(categorySnippet)))
	}

	if getBool(page, "isfilematch") {
		sb.WriteString("   File content match: Yes\n")
	}

	sb.WriteString("\n")
}

// buildOpenSearchParams encodes suggestion arguments for the OpenSearch
// protocol endpoint
func buildOpenSearchParams(args OpenSearchArgs) (url.Values, error) {
	if args.Search == "" {
		return nil, &ValidationError{
			Field:      "search",
			Message:    "search parameter is required",
			Suggestion: "Provide the prefix or phrase to match page titles against",
		}
	}

	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", args.Search)

	namespace := args.Namespace
	if namespace == nil {
		namespace = []int{0}
	}
	if len(namespace) > 0 {
		params.Set("namespace", joinInts(namespace))
	}

	limit := DefaultSearchLimit
	if args.Limit != nil {
		limit = *args.Limit
	}
	params.Set("limit", strconv.Itoa(clampLimit(limit, 1, MaxSearchLimit)))

	profile := strOrDefault(args.Profile, "engine_autoselect")
	if contains(validOpenSearchProfiles, profile) {
		params.Set("profile", profile)
	}

	if args.Redirects == "return" || args.Redirects == "resolve" {
		params.Set("redirects", args.Redirects)
	}
	if args.WarningsAsError {
		params.Set("warningsaserror", "1")
	}

	return params, nil
}

// OpenSearch queries the OpenSearch suggestion protocol. The response is a
// four-element array of parallel lists, not an object.
func (c *Client) OpenSearch(ctx context.Context, args OpenSearchArgs) (string, error) {
	params, err := buildOpenSearchParams(args)
	if err != nil {
		return "", err
	}

	result, err := c.request(ctx, http.MethodGet, params)
	if err != nil {
		return "", err
	}

	c.logger.Info("OpenSearch completed", "search", args.Search)
	return formatOpenSearchResults(result)
}

func formatOpenSearchResults(result interface{}) (string, error) {
	arr, ok := result.([]interface{})
	if !ok || len(arr) != 4 {
		return "", &UnexpectedShapeError{Operation: "OpenSearch"}
	}

	searchTerm, _ := arr[0].(string)
	titles, _ := arr[1].([]interface{})
	descriptions, _ := arr[2].([]interface{})
	urls, _ := arr[3].([]interface{})

	var sb strings.Builder
	header := fmt.Sprintf("OpenSearch Results for: '%s'", searchTerm)
	sb.WriteString(header + "\n" + underline(header) + "\n\n")

	if len(titles) == 0 {
		sb.WriteString("No results found.")
		return sb.String(), nil
	}

	sb.WriteString(fmt.Sprintf("Found %d result(s):\n\n", len(titles)))
	for i, t := range titles {
		title, _ := t.(string)
		sb.WriteString(fmt.Sprintf("%d. **%s**\n", i+1, title))

		if i < len(descriptions) {
			if desc, _ := descriptions[i].(string); desc != "" {
				sb.WriteString(fmt.Sprintf("   Description: %s\n", desc))
			}
		}
		if i < len(urls) {
			if u, _ := urls[i].(string); u != "" {
				sb.WriteString(fmt.Sprintf("   URL: %s\n", u))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
