package wiki

// Limits shared by the search encoders
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 500

	// Formatted report sections are capped at this many characters
	SectionCharacterLimit = 5000
)

// ========== Edit Types ==========

type EditPageArgs struct {
	Title        string `json:"title,omitempty" jsonschema:"description=Title of the page to edit"`
	PageID       int    `json:"pageid,omitempty" jsonschema:"description=Page ID of the page to edit (used when title absent)"`
	Text         string `json:"text,omitempty" jsonschema:"description=New page content (replaces existing content)"`
	Summary      string `json:"summary,omitempty" jsonschema:"description=Edit summary"`
	Section      string `json:"section,omitempty" jsonschema:"description=Section identifier (0 for top, 'new' for new section)"`
	SectionTitle string `json:"sectiontitle,omitempty" jsonschema:"description=Title for a new section"`
	AppendText   string `json:"appendtext,omitempty" jsonschema:"description=Text to append to the page"`
	PrependText  string `json:"prependtext,omitempty" jsonschema:"description=Text to prepend to the page"`
	Minor        bool   `json:"minor,omitempty" jsonschema:"description=Mark as minor edit"`
	Bot          *bool  `json:"bot,omitempty" jsonschema:"description=Mark as bot edit (default true)"`
	CreateOnly   bool   `json:"createonly,omitempty" jsonschema:"description=Don't edit if the page already exists"`
	NoCreate     bool   `json:"nocreate,omitempty" jsonschema:"description=Don't create the page if it doesn't exist"`

	// AdditionalParameters is an escape hatch: extra wire parameters merged
	// last, overriding any computed field (last-write-wins)
	AdditionalParameters map[string]string `json:"additional_parameters,omitempty" jsonschema:"description=Extra wire parameters merged last (last-write-wins)"`
}

// ========== Read Types ==========

type GetPageArgs struct {
	Title     string `json:"title,omitempty" jsonschema:"description=Title of the page to retrieve"`
	PageID    int    `json:"pageid,omitempty" jsonschema:"description=Page ID of the page to retrieve (used when title absent)"`
	Method    string `json:"method,omitempty" jsonschema:"description=Retrieval method: 'revisions' (default), 'raw', 'parse', or 'extracts'"`
	Format    string `json:"format,omitempty" jsonschema:"description=Content format: 'wikitext' (default), 'html', or 'text' (extracts only)"`
	Sentences int    `json:"sentences,omitempty" jsonschema:"description=Limit extracts to this many sentences (takes precedence over chars)"`
	Chars     int    `json:"chars,omitempty" jsonschema:"description=Limit extracts to this many characters"`
}

// ========== Search Types ==========

type SearchArgs struct {
	Query          string   `json:"query" jsonschema:"required,description=Search query text"`
	Namespaces     []int    `json:"namespaces,omitempty" jsonschema:"description=Namespace IDs to search (default [0])"`
	Limit          *int     `json:"limit,omitempty" jsonschema:"description=Maximum results (1-500, default 10)"`
	Offset         int      `json:"offset,omitempty" jsonschema:"description=Result offset for pagination"`
	What           string   `json:"what,omitempty" jsonschema:"description=Search type: 'text' (default), 'title', or 'nearmatch'"`
	Info           []string `json:"info,omitempty" jsonschema:"description=Metadata to return from: rewrittenquery, suggestion, totalhits"`
	Prop           []string `json:"prop,omitempty" jsonschema:"description=Result properties to return (default: size, wordcount, timestamp, snippet)"`
	Interwiki      bool     `json:"interwiki,omitempty" jsonschema:"description=Include interwiki results if available"`
	EnableRewrites *bool    `json:"enable_rewrites,omitempty" jsonschema:"description=Enable internal query rewriting (default true)"`
	Sort           string   `json:"srsort,omitempty" jsonschema:"description=Sort order (default 'relevance')"`
	QIProfile      string   `json:"qiprofile,omitempty" jsonschema:"description=Query independent ranking profile (default 'engine_autoselect')"`
}

type OpenSearchArgs struct {
	Search          string `json:"search" jsonschema:"required,description=Search string"`
	Namespace       []int  `json:"namespace,omitempty" jsonschema:"description=Namespace IDs to search (default [0])"`
	Limit           *int   `json:"limit,omitempty" jsonschema:"description=Maximum results (1-500, default 10)"`
	Profile         string `json:"profile,omitempty" jsonschema:"description=Search profile (default 'engine_autoselect')"`
	Redirects       string `json:"redirects,omitempty" jsonschema:"description=Redirect handling: 'return' or 'resolve'"`
	WarningsAsError bool   `json:"warningsaserror,omitempty" jsonschema:"description=Treat API warnings as errors"`
}

// ========== Move / Delete / Undelete Types ==========

type MovePageArgs struct {
	From            string   `json:"from,omitempty" jsonschema:"description=Title of the page to rename"`
	FromID          int      `json:"fromid,omitempty" jsonschema:"description=Page ID of the page to rename (used when 'from' absent)"`
	To              string   `json:"to" jsonschema:"required,description=New title for the page"`
	Reason          string   `json:"reason,omitempty" jsonschema:"description=Reason for the rename"`
	MoveTalk        bool     `json:"movetalk,omitempty" jsonschema:"description=Rename the talk page if it exists"`
	MoveSubpages    bool     `json:"movesubpages,omitempty" jsonschema:"description=Rename subpages if applicable"`
	NoRedirect      bool     `json:"noredirect,omitempty" jsonschema:"description=Don't create a redirect"`
	Watchlist       string   `json:"watchlist,omitempty" jsonschema:"description=Watchlist behavior: nochange, preferences (default), unwatch, watch"`
	WatchlistExpiry string   `json:"watchlistexpiry,omitempty" jsonschema:"description=Watchlist expiry timestamp"`
	IgnoreWarnings  bool     `json:"ignorewarnings,omitempty" jsonschema:"description=Ignore any warnings"`
	Tags            []string `json:"tags,omitempty" jsonschema:"description=Change tags to apply to the move log"`

	AdditionalParameters map[string]string `json:"additional_parameters,omitempty" jsonschema:"description=Extra wire parameters merged last (last-write-wins)"`
}

type DeletePageArgs struct {
	Title           string   `json:"title,omitempty" jsonschema:"description=Title of the page to delete"`
	PageID          int      `json:"pageid,omitempty" jsonschema:"description=Page ID of the page to delete (used when title absent)"`
	Reason          string   `json:"reason,omitempty" jsonschema:"description=Reason for the deletion"`
	Tags            []string `json:"tags,omitempty" jsonschema:"description=Change tags to apply to the deletion log"`
	DeleteTalk      bool     `json:"deletetalk,omitempty" jsonschema:"description=Delete the talk page if it exists"`
	Watch           bool     `json:"watch,omitempty" jsonschema:"description=Add the page to the watchlist (deprecated, wins over watchlist)"`
	Unwatch         bool     `json:"unwatch,omitempty" jsonschema:"description=Remove the page from the watchlist (deprecated)"`
	Watchlist       string   `json:"watchlist,omitempty" jsonschema:"description=Watchlist behavior: nochange, preferences (default), unwatch, watch"`
	WatchlistExpiry string   `json:"watchlistexpiry,omitempty" jsonschema:"description=Watchlist expiry timestamp"`
	OldImage        string   `json:"oldimage,omitempty" jsonschema:"description=Name of the old image revision to delete for files"`

	AdditionalParameters map[string]string `json:"additional_parameters,omitempty" jsonschema:"description=Extra wire parameters merged last (last-write-wins)"`
}

type UndeletePageArgs struct {
	Title           string   `json:"title" jsonschema:"required,description=Title of the page to undelete"`
	Reason          string   `json:"reason,omitempty" jsonschema:"description=Reason for restoring"`
	Tags            []string `json:"tags,omitempty" jsonschema:"description=Change tags to apply to the deletion log entry"`
	Timestamps      []string `json:"timestamps,omitempty" jsonschema:"description=Timestamps of the revisions to restore (empty restores all)"`
	FileIDs         []int    `json:"fileids,omitempty" jsonschema:"description=IDs of the file revisions to restore (empty restores all)"`
	UndeleteTalk    bool     `json:"undeletetalk,omitempty" jsonschema:"description=Undelete the associated talk page revisions"`
	Watchlist       string   `json:"watchlist,omitempty" jsonschema:"description=Watchlist behavior: nochange, preferences (default), unwatch, watch"`
	WatchlistExpiry string   `json:"watchlistexpiry,omitempty" jsonschema:"description=Watchlist expiry timestamp"`

	AdditionalParameters map[string]string `json:"additional_parameters,omitempty" jsonschema:"description=Extra wire parameters merged last (last-write-wins)"`
}

// ========== Parse Types ==========

type ParsePageArgs struct {
	Title     string `json:"title,omitempty" jsonschema:"description=Title of the page to parse, or context title when parsing text"`
	PageID    int    `json:"pageid,omitempty" jsonschema:"description=ID of the page to parse"`
	OldID     int    `json:"oldid,omitempty" jsonschema:"description=Revision ID to parse (highest precedence)"`
	Text      string `json:"text,omitempty" jsonschema:"description=Arbitrary wikitext to parse"`
	RevID     int    `json:"revid,omitempty" jsonschema:"description=Revision ID for {{REVISIONID}} and similar variables"`
	Summary   string `json:"summary,omitempty" jsonschema:"description=Edit summary to parse"`
	Page      string `json:"page,omitempty" jsonschema:"description=Title of the page to parse (wins over title)"`
	Redirects bool   `json:"redirects,omitempty" jsonschema:"description=Resolve redirects before parsing"`

	Prop []string `json:"prop,omitempty" jsonschema:"description=Parse properties to return (defaults assembled per source kind)"`

	WrapOutputClass string `json:"wrapoutputclass,omitempty" jsonschema:"description=CSS class to wrap the parser output in"`
	UseArticle      bool   `json:"usearticle,omitempty" jsonschema:"description=Use the ArticleParserOptions hook"`
	Parsoid         bool   `json:"parsoid,omitempty" jsonschema:"description=Generate Parsoid HTML"`
	PST             bool   `json:"pst,omitempty" jsonschema:"description=Run a pre-save transform on the input"`
	OnlyPST         bool   `json:"onlypst,omitempty" jsonschema:"description=Only run the pre-save transform, don't parse"`

	Section      string `json:"section,omitempty" jsonschema:"description=Only parse this section: a number, 'new', or a 'T-' prefixed template section"`
	SectionTitle string `json:"sectiontitle,omitempty" jsonschema:"description=New section title when section is 'new'"`

	DisableLimitReport        bool `json:"disablelimitreport,omitempty" jsonschema:"description=Omit the parser limit report"`
	DisableEditSection        bool `json:"disableeditsection,omitempty" jsonschema:"description=Omit edit section links"`
	DisableStyleDeduplication bool `json:"disablestylededuplication,omitempty" jsonschema:"description=Don't deduplicate inline stylesheets"`
	ShowStrategyKeys          bool `json:"showstrategykeys,omitempty" jsonschema:"description=Include internal merge strategy info"`
	Preview                   bool `json:"preview,omitempty" jsonschema:"description=Parse in preview mode"`
	SectionPreview            bool `json:"sectionpreview,omitempty" jsonschema:"description=Parse in section preview mode"`
	DisableTOC                bool `json:"disabletoc,omitempty" jsonschema:"description=Omit the table of contents"`

	UseSkin       string `json:"useskin,omitempty" jsonschema:"description=Apply this skin to the parser output"`
	ContentFormat string `json:"contentformat,omitempty" jsonschema:"description=Serialization format of the input text"`
	ContentModel  string `json:"contentmodel,omitempty" jsonschema:"description=Content model of the input text"`
	MobileFormat  bool   `json:"mobileformat,omitempty" jsonschema:"description=Return output suitable for mobile devices"`

	TemplateSandboxPrefix        []string `json:"templatesandboxprefix,omitempty" jsonschema:"description=Template sandbox prefixes"`
	TemplateSandboxTitle         string   `json:"templatesandboxtitle,omitempty" jsonschema:"description=Parse as if from this title"`
	TemplateSandboxText          string   `json:"templatesandboxtext,omitempty" jsonschema:"description=Parse as if with this content"`
	TemplateSandboxContentModel  string   `json:"templatesandboxcontentmodel,omitempty" jsonschema:"description=Content model of templatesandboxtext"`
	TemplateSandboxContentFormat string   `json:"templatesandboxcontentformat,omitempty" jsonschema:"description=Content format of templatesandboxtext"`

	AdditionalParameters map[string]string `json:"additional_parameters,omitempty" jsonschema:"description=Extra wire parameters merged last (last-write-wins)"`
}

// ========== Compare Types ==========

type ComparePageArgs struct {
	FromTitle         string `json:"fromtitle,omitempty" jsonschema:"description=First title to compare"`
	FromID            int    `json:"fromid,omitempty" jsonschema:"description=First page ID to compare"`
	FromRev           int    `json:"fromrev,omitempty" jsonschema:"description=First revision to compare"`
	FromText          string `json:"fromtext,omitempty" jsonschema:"description=Text to compare from (legacy, use slot parameters instead)"`
	FromContentFormat string `json:"fromcontentformat,omitempty" jsonschema:"description=Serialization format of fromtext"`
	FromContentModel  string `json:"fromcontentmodel,omitempty" jsonschema:"description=Content model of fromtext"`
	FromSlots         string `json:"fromslots,omitempty" jsonschema:"description=Pipe-joined slots to override in the from revision"`

	ToTitle         string `json:"totitle,omitempty" jsonschema:"description=Second title to compare"`
	ToID            int    `json:"toid,omitempty" jsonschema:"description=Second page ID to compare"`
	ToRev           int    `json:"torev,omitempty" jsonschema:"description=Second revision to compare"`
	ToRelative      string `json:"torelative,omitempty" jsonschema:"description=Revision relative to from: 'cur', 'next', or 'prev'"`
	ToText          string `json:"totext,omitempty" jsonschema:"description=Text to compare to (legacy, use slot parameters instead)"`
	ToContentFormat string `json:"tocontentformat,omitempty" jsonschema:"description=Serialization format of totext"`
	ToContentModel  string `json:"tocontentmodel,omitempty" jsonschema:"description=Content model of totext"`
	ToSection       string `json:"tosection,omitempty" jsonschema:"description=Only compare against this section of totext"`
	ToSlots         string `json:"toslots,omitempty" jsonschema:"description=Pipe-joined slots to override in the to revision"`

	Prop     []string `json:"prop,omitempty" jsonschema:"description=Which pieces of diff information to return"`
	DiffType string   `json:"difftype,omitempty" jsonschema:"description=Diff format: 'table', 'inline', or 'unified'"`

	// SlotParameters carries slot-templated keys such as fromtext-main or
	// tocontentmodel-main, passed through verbatim as wire parameters
	SlotParameters map[string]string `json:"slot_parameters,omitempty" jsonschema:"description=Slot-templated parameters (e.g. fromtext-main) passed through verbatim"`
}

// ========== Siteinfo Types ==========

type SiteInfoArgs struct {
	Prop           []string `json:"siprop,omitempty" jsonschema:"description=Which site information to get (default ['general'])"`
	FilterIW       string   `json:"sifilteriw,omitempty" jsonschema:"description=Interwiki map filter: 'local' or '!local'"`
	ShowAllDB      bool     `json:"sishowalldb,omitempty" jsonschema:"description=List all database servers, not just the most lagged"`
	NumberInGroup  bool     `json:"sinumberingroup,omitempty" jsonschema:"description=List the number of users in user groups"`
	InLanguageCode string   `json:"siinlanguagecode,omitempty" jsonschema:"description=Language code for localised language and skin names"`
}
