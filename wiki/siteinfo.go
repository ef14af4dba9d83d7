package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// validSiteInfoProps is the closed allow-list for siprop; its order also
// fixes the order sections appear in the report
var validSiteInfoProps = []string{
	"general", "namespaces", "namespacealiases", "specialpagealiases",
	"magicwords", "interwikimap", "dbrepllag", "statistics", "usergroups",
	"autocreatetempuser", "clientlibraries", "libraries", "extensions",
	"fileextensions", "rightsinfo", "restrictions", "languages",
	"languagevariants", "skins", "extensiontags", "functionhooks",
	"showhooks", "variables", "protocols", "defaultoptions",
	"uploaddialog", "autopromote", "autopromoteonce", "copyuploaddomains",
}

// buildSiteInfoParams encodes meta=siteinfo wire parameters. Unknown siprop
// values are silently dropped.
func buildSiteInfoParams(args SiteInfoArgs) url.Values {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("meta", "siteinfo")

	prop := args.Prop
	if prop == nil {
		prop = []string{"general"}
	}
	if filtered := filterAllowed(prop, validSiteInfoProps); len(filtered) > 0 {
		params.Set("siprop", strings.Join(filtered, "|"))
	}

	if args.FilterIW == "local" || args.FilterIW == "!local" {
		params.Set("sifilteriw", args.FilterIW)
	}
	if args.ShowAllDB {
		params.Set("sishowalldb", "1")
	}
	if args.NumberInGroup {
		params.Set("sinumberingroup", "1")
	}
	if args.InLanguageCode != "" {
		params.Set("siinlanguagecode", args.InLanguageCode)
	}

	return params
}

// SiteInfo queries site metadata and renders each returned section with a
// bespoke formatter.
func (c *Client) SiteInfo(ctx context.Context, args SiteInfoArgs) (string, error) {
	params := buildSiteInfoParams(args)

	resp, err := c.requestObject(ctx, http.MethodGet, params)
	if err != nil {
		return "", err
	}

	c.logger.Info("Siteinfo query completed")
	return formatSiteInfo(resp)
}

func formatSiteInfo(resp map[string]interface{}) (string, error) {
	query := getMap(resp, "query")
	if query == nil {
		return "", shapeError("siteinfo", resp)
	}

	var sb strings.Builder
	sb.WriteString("MediaWiki Site Information\n")
	sb.WriteString(strings.Repeat("=", 29) + "\n\n")

	// Known sections render in allow-list order, anything else sorted after
	seen := make(map[string]bool, len(query))
	for _, section := range validSiteInfoProps {
		if data, present := query[section]; present {
			seen[section] = true
			sb.WriteString(formatSiteInfoSection(section, data))
			sb.WriteString("\n")
		}
	}
	var leftovers []string
	for section := range query {
		if !seen[section] {
			leftovers = append(leftovers, section)
		}
	}
	sort.Strings(leftovers)
	for _, section := range leftovers {
		sb.WriteString(formatSiteInfoSection(section, query[section]))
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func formatSiteInfoSection(section string, data interface{}) string {
	switch section {
	case "general":
		return formatGeneralSection(data)
	case "namespaces":
		return formatNamespacesSection(data)
	case "namespacealiases":
		return formatNamespaceAliasesSection(data)
	case "statistics":
		return formatStatisticsSection(data)
	case "usergroups":
		return formatUserGroupsSection(data)
	case "extensions":
		return formatExtensionsSection(data)
	case "skins":
		return formatSkinsSection(data)
	case "languages":
		return formatLanguagesSection(data)
	case "interwikimap":
		return formatInterwikiSection(data)
	case "dbrepllag":
		return formatDBReplLagSection(data)
	case "fileextensions":
		return formatFileExtensionsSection(data)
	default:
		return formatGenericSection(section, data)
	}
}

// sectionHeader renders a section title with a dash underline
func sectionHeader(title string) string {
	return title + ":\n" + strings.Repeat("-", len(title)+1) + "\n"
}

// indentedValue renders nested values the way a human can skim them
func indentedValue(v interface{}) string {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		if b, err := json.MarshalIndent(v, "", "  "); err == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("%v", v)
}

func formatGeneralSection(data interface{}) string {
	general, ok := data.(map[string]interface{})
	if !ok {
		return formatGenericSection("general", data)
	}

	out := sectionHeader("General Information")

	keyFields := []struct{ field, label string }{
		{"sitename", "Site name"},
		{"mainpage", "Main page"},
		{"base", "Base URL"},
		{"server", "Server"},
		{"wikiid", "Wiki ID"},
		{"generator", "MediaWiki version"},
		{"phpversion", "PHP version"},
		{"dbtype", "Database type"},
		{"dbversion", "Database version"},
		{"lang", "Language"},
		{"fallback", "Language fallback"},
		{"legaltitlechars", "Legal title characters"},
		{"case", "Case sensitivity"},
		{"timezone", "Timezone"},
		{"timeoffset", "Time offset"},
		{"articlepath", "Article path"},
		{"scriptpath", "Script path"},
		{"script", "Script"},
		{"variantarticlepath", "Variant article path"},
		{"favicon", "Favicon"},
		{"logo", "Logo"},
	}
	for _, kf := range keyFields {
		if value, present := general[kf.field]; present {
			out += fmt.Sprintf("  %s: %s\n", kf.label, indentedValue(value))
		}
	}

	if rights, present := general["rights"]; present {
		out += fmt.Sprintf("  Rights: %v\n", rights)
	}
	if rightsURL, present := general["rightsurl"]; present {
		out += fmt.Sprintf("  Rights URL: %v\n", rightsURL)
	}
	return out
}

func formatNamespacesSection(data interface{}) string {
	namespaces, ok := data.(map[string]interface{})
	if !ok {
		return formatGenericSection("namespaces", data)
	}

	out := sectionHeader("Namespaces")
	for _, id := range sortedNumericKeys(namespaces) {
		ns, ok := namespaces[id].(map[string]interface{})
		if !ok {
			continue
		}
		name := getString(ns, "*")
		if name == "" {
			name = strOr(ns, "name", fmt.Sprintf("Namespace %s", id))
		}
		out += fmt.Sprintf("  %s: %s", id, name)
		if canonical := getString(ns, "canonical"); canonical != "" && canonical != name {
			out += fmt.Sprintf(" (canonical: %s)", canonical)
		}
		if caseRule := getString(ns, "case"); caseRule != "" {
			out += fmt.Sprintf(" [%s]", caseRule)
		}
		out += "\n"
	}
	return out
}

func formatNamespaceAliasesSection(data interface{}) string {
	aliases, ok := data.([]interface{})
	if !ok {
		return formatGenericSection("namespacealiases", data)
	}

	out := sectionHeader("Namespace Aliases")
	for _, entry := range aliases {
		if alias, ok := entry.(map[string]interface{}); ok {
			name := getString(alias, "*")
			if name == "" {
				name = getString(alias, "alias")
			}
			out += fmt.Sprintf("  %s -> Namespace %s\n", name, numOr(alias, "id", ""))
		}
	}
	return out
}

func formatStatisticsSection(data interface{}) string {
	stats, ok := data.(map[string]interface{})
	if !ok {
		return formatGenericSection("statistics", data)
	}

	out := sectionHeader("Site Statistics")
	statFields := []struct{ field, label string }{
		{"pages", "Total pages"},
		{"articles", "Content pages"},
		{"edits", "Total edits"},
		{"images", "Uploaded files"},
		{"users", "Registered users"},
		{"activeusers", "Active users"},
		{"admins", "Administrators"},
		{"jobs", "Job queue length"},
	}
	for _, sf := range statFields {
		if n, present := getNumber(stats, sf.field); present {
			out += fmt.Sprintf("  %s: %s\n", sf.label, groupThousands(n))
		}
	}
	return out
}

func formatUserGroupsSection(data interface{}) string {
	groups, ok := data.([]interface{})
	if !ok {
		return formatGenericSection("usergroups", data)
	}

	out := sectionHeader("User Groups")
	for _, entry := range groups {
		group, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		out += fmt.Sprintf("  %s:\n", getString(group, "name"))
		rights := stringList(getSlice(group, "rights"))
		if len(rights) > 0 {
			shown := rights
			if len(rights) > 5 {
				shown = rights[:5]
			}
			out += fmt.Sprintf("    Rights: %s", strings.Join(shown, ", "))
			if len(rights) > 5 {
				out += fmt.Sprintf(" (and %d more)", len(rights)-5)
			}
			out += "\n"
		}
	}
	return out
}

func formatExtensionsSection(data interface{}) string {
	extensions, ok := data.([]interface{})
	if !ok {
		return formatGenericSection("extensions", data)
	}

	out := sectionHeader("Extensions")
	for _, entry := range extensions {
		if ext, ok := entry.(map[string]interface{}); ok {
			out += fmt.Sprintf("  %s", getString(ext, "name"))
			if version := getString(ext, "version"); version != "" {
				out += fmt.Sprintf(" (v%s)", version)
			}
			out += "\n"
		}
	}
	return out
}

// formatSkinsSection accepts both the modern list-of-object shape and the
// legacy code-keyed object shape
func formatSkinsSection(data interface{}) string {
	out := sectionHeader("Skins")

	switch skins := data.(type) {
	case []interface{}:
		for _, entry := range skins {
			if skin, ok := entry.(map[string]interface{}); ok {
				name := getString(skin, "*")
				if name == "" {
					name = strOr(skin, "name", getString(skin, "code"))
				}
				out += fmt.Sprintf("  %s\n", name)
			}
		}
	case map[string]interface{}:
		for _, key := range sortedKeys(skins) {
			if skin, ok := skins[key].(map[string]interface{}); ok {
				out += fmt.Sprintf("  %s\n", strOr(skin, "*", key))
			}
		}
	default:
		return formatGenericSection("skins", data)
	}
	return out
}

// formatLanguagesSection accepts both the modern list-of-object shape and
// the legacy code-to-name object shape
func formatLanguagesSection(data interface{}) string {
	out := sectionHeader("Supported Languages")

	switch languages := data.(type) {
	case []interface{}:
		for _, entry := range languages {
			if lang, ok := entry.(map[string]interface{}); ok {
				name := getString(lang, "*")
				if name == "" {
					name = getString(lang, "name")
				}
				out += fmt.Sprintf("  %s: %s\n", getString(lang, "code"), name)
			}
		}
	case map[string]interface{}:
		for _, code := range sortedKeys(languages) {
			if name, ok := languages[code].(string); ok {
				out += fmt.Sprintf("  %s: %s\n", code, name)
			}
		}
	default:
		return formatGenericSection("languages", data)
	}
	return out
}

func formatInterwikiSection(data interface{}) string {
	entries, ok := data.([]interface{})
	if !ok {
		return formatGenericSection("interwikimap", data)
	}

	out := sectionHeader("Interwiki Map")
	for _, entry := range entries {
		if iw, ok := entry.(map[string]interface{}); ok {
			local := ""
			if getBool(iw, "local") {
				local = " (local)"
			}
			out += fmt.Sprintf("  %s: %s%s\n", getString(iw, "prefix"), getString(iw, "url"), local)
		}
	}
	return out
}

func formatDBReplLagSection(data interface{}) string {
	entries, ok := data.([]interface{})
	if !ok {
		return formatGenericSection("dbrepllag", data)
	}

	out := sectionHeader("Database Replication Lag")
	for _, entry := range entries {
		if db, ok := entry.(map[string]interface{}); ok {
			out += fmt.Sprintf("  %s: %s seconds\n", getString(db, "host"), numOr(db, "lag", ""))
		}
	}
	return out
}

func formatFileExtensionsSection(data interface{}) string {
	entries, ok := data.([]interface{})
	if !ok {
		return formatGenericSection("fileextensions", data)
	}

	var extensions []string
	for _, entry := range entries {
		if ext, ok := entry.(map[string]interface{}); ok {
			extensions = append(extensions, getString(ext, "ext"))
		}
	}

	out := sectionHeader("Allowed File Extensions")
	for i := 0; i < len(extensions); i += 10 {
		end := i + 10
		if end > len(extensions) {
			end = len(extensions)
		}
		out += fmt.Sprintf("  %s\n", strings.Join(extensions[i:end], ", "))
	}
	return out
}

// formatGenericSection is the fallback for sections with no bespoke rule
func formatGenericSection(section string, data interface{}) string {
	title := sectionTitle(section)
	out := title + ":\n" + strings.Repeat("-", len(title)) + "\n"

	switch d := data.(type) {
	case map[string]interface{}:
		for _, key := range sortedKeys(d) {
			out += fmt.Sprintf("  %s: %s\n", key, indentedValue(d[key]))
		}
	case []interface{}:
		for _, item := range d {
			if obj, ok := item.(map[string]interface{}); ok {
				display := getString(obj, "name")
				if display == "" {
					display = getString(obj, "*")
				}
				if display == "" {
					display = getString(obj, "title")
				}
				if display == "" {
					display = rawDump(obj)
				}
				out += fmt.Sprintf("  %s\n", display)
			} else {
				out += fmt.Sprintf("  %v\n", item)
			}
		}
	default:
		out += fmt.Sprintf("  %v\n", data)
	}
	return out
}

// sectionTitle turns a siprop key into a display title
func sectionTitle(section string) string {
	words := strings.Split(strings.ReplaceAll(section, "_", " "), " ")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// sortedKeys returns map keys in lexicographic order for stable output
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedNumericKeys sorts keys numerically where possible (namespace IDs),
// falling back to lexicographic order
func sortedNumericKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
