package notion

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// Column names of a Notion lead database. Each page property is flattened
// into a record cell under these keys; the ingest alias table resolves them
// to canonical fields.
const (
	colLeadID        = "Lead ID"
	colFirstName     = "First Name"
	colLastName      = "Last Name"
	colStage         = "Stage"
	colEmail         = "Email"
	colPhone         = "Phone"
	colLastActivity  = "Last Activity"
	colPriority      = "Priority"
	colHeat          = "Heat"
	colValue         = "Value"
	colRelationship  = "Relationship"
	colRepeatViews   = "Repeat Views"
	colHighFavorites = "High Favorites"
	colActivityBurst = "Activity Burst"
	colSharing       = "Sharing"

	colIntentSignals = "Intent Signals"
)

// leadColumns is every cell key a lead record carries. Records always
// include all of them so a batch of sparse pages still resolves as one
// complete dataset.
var leadColumns = []string{
	colLeadID, colFirstName, colLastName, colStage, colEmail, colPhone,
	colLastActivity, colPriority, colHeat, colValue, colRelationship,
	colRepeatViews, colHighFavorites, colActivityBurst, colSharing,
}

// FetchLeadRecords queries every row of a Notion lead database and flattens
// each page into a named record of raw cell text.
func FetchLeadRecords(ctx context.Context, c Client, dbID string) ([]map[string]string, error) {
	pages, err := QueryAll(ctx, c, dbID, nil)
	if err != nil {
		return nil, eris.Wrap(err, "notion: fetch lead records")
	}

	records := make([]map[string]string, len(pages))
	for i, p := range pages {
		records[i] = LeadRecord(p)
	}
	return records, nil
}

// LeadRecord flattens one database page into a record of raw cell text.
// Missing or differently-typed properties read as empty cells; the page ID
// stands in for a lead ID so rows without an email still dedup stably.
func LeadRecord(p notionapi.Page) map[string]string {
	rec := make(map[string]string, len(leadColumns))
	for _, col := range leadColumns {
		rec[col] = ""
	}

	rec[colLeadID] = string(p.ID)

	first := pageText(p, colFirstName)
	last := pageText(p, colLastName)
	if first == "" && last == "" {
		first, last = splitName(pageText(p, "Name"))
	}
	rec[colFirstName] = first
	rec[colLastName] = last

	rec[colStage] = pageText(p, colStage)
	rec[colEmail] = pageText(p, colEmail)
	rec[colPhone] = pageText(p, colPhone)
	rec[colLastActivity] = pageDate(p, colLastActivity)
	rec[colPriority] = pageNumber(p, colPriority)
	rec[colHeat] = pageNumber(p, colHeat)
	rec[colValue] = pageNumber(p, colValue)
	rec[colRelationship] = pageNumber(p, colRelationship)

	for _, opt := range pageMultiSelect(p, colIntentSignals) {
		if col := signalColumn(opt); col != "" {
			rec[col] = "true"
		}
	}

	return rec
}

// pageText extracts the plain text of a property regardless of whether the
// database models it as a title, rich_text, email, phone, select, or
// status column.
func pageText(p notionapi.Page, name string) string {
	prop, ok := p.Properties[name]
	if !ok {
		return ""
	}
	switch v := prop.(type) {
	case *notionapi.TitleProperty:
		return plainText(v.Title)
	case *notionapi.RichTextProperty:
		return plainText(v.RichText)
	case *notionapi.EmailProperty:
		return v.Email
	case *notionapi.PhoneNumberProperty:
		return v.PhoneNumber
	case *notionapi.SelectProperty:
		return v.Select.Name
	case *notionapi.StatusProperty:
		return v.Status.Name
	}
	return ""
}

// pageNumber extracts a number property as cell text.
func pageNumber(p notionapi.Page, name string) string {
	prop, ok := p.Properties[name]
	if !ok {
		return ""
	}
	np, ok := prop.(*notionapi.NumberProperty)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(np.Number, 'f', -1, 64)
}

// pageDate extracts the start of a date property as RFC3339 cell text.
func pageDate(p notionapi.Page, name string) string {
	prop, ok := p.Properties[name]
	if !ok {
		return ""
	}
	dp, ok := prop.(*notionapi.DateProperty)
	if !ok || dp.Date == nil || dp.Date.Start == nil {
		return ""
	}
	return time.Time(*dp.Date.Start).UTC().Format(time.RFC3339)
}

// pageMultiSelect extracts the selected option names of a multi_select
// property.
func pageMultiSelect(p notionapi.Page, name string) []string {
	prop, ok := p.Properties[name]
	if !ok {
		return nil
	}
	msp, ok := prop.(*notionapi.MultiSelectProperty)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(msp.MultiSelect))
	for _, opt := range msp.MultiSelect {
		names = append(names, opt.Name)
	}
	return names
}

// signalColumn maps an Intent Signals option name to its record column.
// Option spellings vary across databases ("repeat_views", "Repeat Views"),
// so matching ignores case, spaces, underscores, and hyphens.
func signalColumn(option string) string {
	key := strings.ToLower(strings.TrimSpace(option))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "repeatviews":
		return colRepeatViews
	case "highfavorites":
		return colHighFavorites
	case "activityburst":
		return colActivityBurst
	case "sharing":
		return colSharing
	}
	return ""
}

// plainText concatenates the plain_text values from a slice of RichText.
func plainText(rts []notionapi.RichText) string {
	var s string
	for _, rt := range rts {
		s += rt.PlainText
	}
	return s
}

// splitName breaks a page title into first and last name at the final
// space. Single-token titles become a first name only.
func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	i := strings.LastIndex(full, " ")
	if i < 0 {
		return full, ""
	}
	return strings.TrimSpace(full[:i]), strings.TrimSpace(full[i+1:])
}
