package wiki

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// buildCompareParams encodes action=compare wire parameters. At least one
// "from" locator and one "to" locator are required; the check happens
// locally, before any network call.
func buildCompareParams(args ComparePageArgs) (url.Values, error) {
	hasFrom := args.FromTitle != "" || args.FromID != 0 || args.FromRev != 0 || args.FromText != ""
	hasTo := args.ToTitle != "" || args.ToID != 0 || args.ToRev != 0 || args.ToRelative != "" || args.ToText != ""

	if !hasFrom {
		return nil, &ValidationError{
			Field:      "fromtitle",
			Message:    "at least one 'from' locator is required (fromtitle, fromid, fromrev, or fromtext)",
			Suggestion: "Name the first side of the comparison",
		}
	}
	if !hasTo {
		return nil, &ValidationError{
			Field:      "totitle",
			Message:    "at least one 'to' locator is required (totitle, toid, torev, torelative, or totext)",
			Suggestion: "Name the second side of the comparison",
		}
	}

	params := url.Values{}
	params.Set("action", "compare")

	if args.FromTitle != "" {
		params.Set("fromtitle", args.FromTitle)
	}
	if args.FromID != 0 {
		params.Set("fromid", strconv.Itoa(args.FromID))
	}
	if args.FromRev != 0 {
		params.Set("fromrev", strconv.Itoa(args.FromRev))
	}
	if args.FromText != "" {
		params.Set("fromtext", args.FromText)
	}
	if args.FromContentFormat != "" {
		params.Set("fromcontentformat", args.FromContentFormat)
	}
	if args.FromContentModel != "" {
		params.Set("fromcontentmodel", args.FromContentModel)
	}
	if args.FromSlots != "" {
		params.Set("fromslots", args.FromSlots)
	}

	if args.ToTitle != "" {
		params.Set("totitle", args.ToTitle)
	}
	if args.ToID != 0 {
		params.Set("toid", strconv.Itoa(args.ToID))
	}
	if args.ToRev != 0 {
		params.Set("torev", strconv.Itoa(args.ToRev))
	}
	if args.ToRelative != "" {
		params.Set("torelative", args.ToRelative)
	}
	if args.ToText != "" {
		params.Set("totext", args.ToText)
	}
	if args.ToContentFormat != "" {
		params.Set("tocontentformat", args.ToContentFormat)
	}
	if args.ToContentModel != "" {
		params.Set("tocontentmodel", args.ToContentModel)
	}
	if args.ToSection != "" {
		params.Set("tosection", args.ToSection)
	}
	if args.ToSlots != "" {
		params.Set("toslots", args.ToSlots)
	}

	if len(args.Prop) > 0 {
		params.Set("prop", strings.Join(args.Prop, "|"))
	}
	if args.DiffType != "" {
		params.Set("difftype", args.DiffType)
	}

	// Slot-templated keys (fromtext-main, tocontentmodel-main, ...) are part
	// of the wire contract and pass through verbatim
	applyAdditional(params, args.SlotParameters)
	return params, nil
}

// ComparePage diffs two revisions, pages, or texts and renders the result
func (c *Client) ComparePage(ctx context.Context, args ComparePageArgs) (string, error) {
	params, err := buildCompareParams(args)
	if err != nil {
		return "", err
	}

	resp, err := c.requestObject(ctx, http.MethodGet, params)
	if err != nil {
		return "", err
	}
	return formatCompareResult(resp, args)
}

func formatCompareResult(resp map[string]interface{}, args ComparePageArgs) (string, error) {
	compare := getMap(resp, "compare")
	if compare == nil {
		return "", shapeError("Compare API", resp)
	}

	lines := []string{"# Page Comparison Result\n"}

	lines = append(lines, fmt.Sprintf("**From:** %s", compareSideInfo(compare, "from")))
	lines = append(lines, fmt.Sprintf("**To:** %s", compareSideInfo(compare, "to")))
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("**Diff format:** %s", strOrDefault(args.DiffType, "default")))
	lines = append(lines, "")

	// Diff content preference: body, then legacy "*", then generic fields,
	// then a raw dump so nothing is silently lost. Presence decides, not
	// emptiness: an identical-revision diff comes back as an empty body.
	body, hasBody := compare["body"]
	legacy, hasLegacy := compare["*"]
	switch {
	case hasBody:
		lines = append(lines, "## Comparison Output\n", stringOrDump(body))
	case hasLegacy:
		lines = append(lines, "## Comparison Output\n", stringOrDump(legacy))
	default:
		found := false
		for _, field := range []string{"diff", "text", "html"} {
			if v, present := compare[field]; present {
				lines = append(lines, fmt.Sprintf("## %s Comparison\n", capitalize(field)), stringOrDump(v))
				found = true
				break
			}
		}
		if !found {
			lines = append(lines, "## Raw API Response\n", rawDump(compare))
		}
	}

	var metadata []string
	if size, ok := getNumber(compare, "fromsize"); ok {
		metadata = append(metadata, fmt.Sprintf("From size: %d bytes", size))
	}
	if size, ok := getNumber(compare, "tosize"); ok {
		metadata = append(metadata, fmt.Sprintf("To size: %d bytes", size))
	}
	if len(metadata) > 0 {
		lines = append(lines, "\n## Metadata\n")
		lines = append(lines, metadata...)
	}

	return strings.Join(lines, "\n"), nil
}

func stringOrDump(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return rawDump(v)
}

// compareSideInfo summarizes one side of the diff from whichever identity
// fields the wiki echoed back
func compareSideInfo(compare map[string]interface{}, side string) string {
	var info []string
	if title := getString(compare, side+"title"); title != "" {
		info = append(info, fmt.Sprintf("Title: %s", title))
	}
	if id, ok := getNumber(compare, side+"id"); ok {
		info = append(info, fmt.Sprintf("ID: %d", id))
	}
	if rev, ok := getNumber(compare, side+"revid"); ok {
		info = append(info, fmt.Sprintf("Revision: %d", rev))
	}
	if ns, ok := getNumber(compare, side+"ns"); ok {
		info = append(info, fmt.Sprintf("Namespace: %d", ns))
	}
	if len(info) == 0 {
		return "Unknown"
	}
	return strings.Join(info, ", ")
}
