package tools

// AllTools contains all tool specifications for the MediaWiki Action API
// MCP server. Tool descriptions follow a structured format for optimal LLM
// tool selection:
// - USE WHEN: Natural language triggers
// - NOT FOR: Disambiguation from similar tools
// - PARAMETERS: Key arguments with defaults
// - RETURNS: What the tool returns
var AllTools = []ToolSpec{
	// ==========================================================================
	// PAGE TOOLS
	// ==========================================================================
	{
		Name:     "wiki_page_edit",
		Method:   "EditPage",
		Title:    "Edit Wiki Page",
		Category: "page",
		Description: `Create or modify a wiki page's content.

USE WHEN: User asks to "create page X", "update page X", "append Y to page X", "add a section to X".

NOT FOR: Renaming pages (use wiki_page_move) or removing pages (use wiki_page_delete).

PARAMETERS:
- title: Page to edit (or pageid)
- text: Full replacement content
- appendtext / prependtext: Partial additions
- summary: Edit summary
- section: Section to edit (0 for top, "new" for a new section)

RETURNS: Confirmation with the new revision ID and timestamp.`,
		Destructive: true,
		OpenWorld:   true,
	},
	{
		Name:     "wiki_page_get",
		Method:   "GetPage",
		Title:    "Get Wiki Page",
		Category: "page",
		Description: `Retrieve the content of a wiki page.

USE WHEN: User asks "show me page X", "what does page X say", "get the wikitext of X".

NOT FOR: Finding which page contains information (use wiki_search) or rendered-HTML analysis of arbitrary text (use wiki_page_parse).

PARAMETERS:
- title: Page name (or pageid)
- method: "revisions" (default), "raw" (fastest), "parse" (HTML), or "extracts" (plain-text summary)
- format: "wikitext" (default), "html", or "text"
- sentences / chars: Length limits for extracts

RETURNS: Page content in the requested representation.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wiki_page_move",
		Method:   "MovePage",
		Title:    "Move Wiki Page",
		Category: "page",
		Description: `Rename a wiki page, optionally together with its talk page and subpages.

USE WHEN: User asks to "rename page X to Y", "move X to Y".

NOT FOR: Editing content (use wiki_page_edit).

PARAMETERS:
- from: Current title (or fromid)
- to: New title (required)
- reason: Rename reason
- movetalk / movesubpages / noredirect: Behavior flags

RETURNS: Confirmation including talk page and subpage moves if performed.`,
		Destructive: true,
		OpenWorld:   true,
	},
	{
		Name:     "wiki_page_delete",
		Method:   "DeletePage",
		Title:    "Delete Wiki Page",
		Category: "page",
		Description: `Delete a wiki page.

USE WHEN: User asks to "delete page X", "remove page X from the wiki".

NOT FOR: Blanking content (use wiki_page_edit) or renaming (use wiki_page_move).

PARAMETERS:
- title: Page to delete (or pageid)
- reason: Deletion reason
- deletetalk: Also delete the talk page
- oldimage: Specific file revision for files

RETURNS: Confirmation with the deletion log entry ID.`,
		Destructive: true,
		OpenWorld:   true,
	},
	{
		Name:     "wiki_page_undelete",
		Method:   "UndeletePage",
		Title:    "Undelete Wiki Page",
		Category: "page",
		Description: `Restore the deleted revisions of a wiki page.

USE WHEN: User asks to "restore page X", "undelete X", "bring back the deleted page".

NOT FOR: Reverting live edits (use wiki_page_edit with earlier content).

PARAMETERS:
- title: Deleted page to restore (required)
- reason: Restore reason
- timestamps / fileids: Specific revisions to restore (empty restores all)

RETURNS: Confirmation with counts of restored revisions and file versions.`,
		Destructive: true,
		OpenWorld:   true,
	},
	{
		Name:     "wiki_page_parse",
		Method:   "ParsePage",
		Title:    "Parse Wiki Content",
		Category: "page",
		Description: `Parse a page, a revision, or arbitrary wikitext into HTML and structured metadata.

USE WHEN: User asks "render page X", "what templates does X use", "parse this wikitext", "list the sections of X".

NOT FOR: Fetching raw wikitext (use wiki_page_get with method "raw").

PARAMETERS:
- title / pageid / oldid / page: Existing content to parse
- text: Arbitrary wikitext (title gives context)
- summary: Edit summary to parse
- prop: Properties to return (sensible defaults per source kind)
- section: Restrict to one section

RETURNS: A sectioned report: parsed HTML, links, templates, categories, sections, and more.`,
		ReadOnly:  true,
		OpenWorld: true,
	},
	{
		Name:     "wiki_page_compare",
		Method:   "ComparePage",
		Title:    "Compare Revisions",
		Category: "page",
		Description: `Diff two pages, revisions, or texts.

USE WHEN: User asks "what changed between revision A and B", "diff page X against Y", "compare this text with the live page".

NOT FOR: Retrieving a single revision's content (use wiki_page_get).

PARAMETERS:
- fromtitle / fromid / fromrev / fromtext: First side (at least one required)
- totitle / toid / torev / torelative / totext: Second side (at least one required)
- difftype: "table", "inline", or "unified"

RETURNS: The diff body plus revision identity and size metadata.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// SEARCH TOOLS
	// ==========================================================================
	{
		Name:     "wiki_search",
		Method:   "SearchPages",
		Title:    "Search Wiki",
		Category: "search",
		Description: `Search ACROSS the entire wiki for pages containing specific text.

USE WHEN: User asks "find pages about X", "where is X documented", "search for X", or doesn't know which page contains information.

NOT FOR: Title autocomplete or quick suggestions (use wiki_opensearch).

PARAMETERS:
- query: Search text (required)
- limit: Max results (1-500, default 10)
- namespaces: Namespace IDs (default main)
- what: "text" (default), "title", or "nearmatch"

RETURNS: Numbered results with snippets, sizes, word counts, and pagination hints.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wiki_opensearch",
		Method:   "OpenSearch",
		Title:    "OpenSearch Suggestions",
		Category: "search",
		Description: `Quick title suggestions using the OpenSearch protocol.

USE WHEN: User wants autocomplete-style matches: "pages starting with X", "suggest titles like X".

NOT FOR: Full-text search inside page content (use wiki_search).

PARAMETERS:
- search: Search string (required)
- limit: Max results (1-500, default 10)
- redirects: "return" or "resolve"

RETURNS: Matching titles with descriptions and URLs.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// META TOOLS
	// ==========================================================================
	{
		Name:     "wiki_meta_siteinfo",
		Method:   "SiteInfo",
		Title:    "Site Information",
		Category: "meta",
		Description: `Get configuration and status information about the wiki itself.

USE WHEN: User asks "what version is this wiki", "list the namespaces", "how many pages does the wiki have", "which extensions are installed".

NOT FOR: Information about a specific page (use wiki_page_get or wiki_page_parse).

PARAMETERS:
- siprop: Sections to fetch (default "general"; e.g. statistics, namespaces, extensions)
- sinumberingroup: Include user counts per group

RETURNS: A formatted report with one section per requested property.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
}
