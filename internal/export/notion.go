package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/pkg/notion"
)

// Call-sheet database property names.
const (
	propName         = "Name"
	propLeadID       = "Lead ID"
	propTier         = "Tier"
	propReason       = "Reason"
	propStage        = "Stage"
	propEmail        = "Email"
	propPhone        = "Phone"
	propPriority     = "Priority"
	propHeat         = "Heat"
	propValue        = "Value"
	propRelationship = "Relationship"
	propDays         = "Days Since Activity"
	propIntent       = "Intent Count"
	propSynced       = "Synced"
)

// PushPages mirrors the action queue into a Notion database. Existing pages
// are matched by the Lead ID property and updated in place; everything else
// is created. One QueryAll up front keeps the match pass to a single scan.
func PushPages(ctx context.Context, c notion.Client, dbID string, entries []model.ActionQueueEntry, now time.Time) (*Result, error) {
	res := &Result{}
	if len(entries) == 0 {
		return res, nil
	}

	pages, err := notion.QueryAll(ctx, c, dbID, nil)
	if err != nil {
		return res, eris.Wrap(err, "export: query call sheet")
	}

	// Lead ID → page ID. First page wins on duplicates.
	existing := make(map[string]string, len(pages))
	for _, p := range pages {
		key := pageLeadID(p)
		if key == "" {
			continue
		}
		if _, ok := existing[key]; !ok {
			existing[key] = string(p.ID)
		}
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return res, eris.Wrap(err, "export: push pages cancelled")
		}

		props := pageProperties(e, now)

		if pageID, ok := existing[e.ID]; ok {
			if _, err := c.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{Properties: props}); err != nil {
				return res, eris.Wrap(err, fmt.Sprintf("export: update page for lead %s", e.ID))
			}
			res.Updated++
			continue
		}

		req := &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(dbID),
			},
			Properties: props,
		}
		if _, err := c.CreatePage(ctx, req); err != nil {
			return res, eris.Wrap(err, fmt.Sprintf("export: create page for lead %s", e.ID))
		}
		res.Created++
	}

	zap.L().Info("export: notion pages pushed",
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
	)
	return res, nil
}

// pageProperties converts a queue entry to Notion page properties. Email and
// phone are omitted when empty so Notion does not reject blank values.
func pageProperties(e model.ActionQueueEntry, now time.Time) notionapi.Properties {
	synced := notionapi.Date(now)

	props := notionapi.Properties{
		propName: notionapi.TitleProperty{
			Type:  notionapi.PropertyTypeTitle,
			Title: richText(e.Name),
		},
		propLeadID: notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(e.ID),
		},
		propTier: notionapi.NumberProperty{Number: float64(e.Tier)},
		propReason: notionapi.SelectProperty{
			Select: notionapi.Option{Name: e.Reason},
		},
		propStage: notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(e.Stage),
		},
		propPriority:     notionapi.NumberProperty{Number: e.Priority},
		propHeat:         notionapi.NumberProperty{Number: e.Heat},
		propValue:        notionapi.NumberProperty{Number: e.Value},
		propRelationship: notionapi.NumberProperty{Number: e.Relationship},
		propDays:         notionapi.NumberProperty{Number: float64(e.DaysSinceActivity)},
		propIntent:       notionapi.NumberProperty{Number: float64(e.IntentCount)},
		propSynced: notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &synced},
		},
	}

	if e.Email != "" {
		props[propEmail] = notionapi.EmailProperty{Email: e.Email}
	}
	if e.Phone != "" {
		props[propPhone] = notionapi.PhoneNumberProperty{PhoneNumber: e.Phone}
	}

	return props
}

// richText wraps a string as a single-element rich text value.
func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
	}
}

// pageLeadID reads the Lead ID property from an existing call-sheet page.
// Returns "" when the property is missing or not rich text.
func pageLeadID(p notionapi.Page) string {
	prop, ok := p.Properties[propLeadID]
	if !ok {
		return ""
	}
	rtp, ok := prop.(*notionapi.RichTextProperty)
	if !ok {
		return ""
	}

	var id string
	for _, rt := range rtp.RichText {
		id += rt.PlainText
	}
	return strings.TrimSpace(id)
}
