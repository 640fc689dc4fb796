package sink

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/notion"
)

// Notion creates one page per lead in a Notion database. The database is
// expected to have properties named after model.LeadColumns.
type Notion struct {
	client notion.Client
	dbID   string
}

// NewNotion creates a Notion sink for the database dbID.
func NewNotion(client notion.Client, dbID string) *Notion {
	return &Notion{client: client, dbID: dbID}
}

// Name implements Sink.
func (n *Notion) Name() string { return "notion" }

// AppendRows implements Sink. Pages are created in order and the first
// failure stops the write.
func (n *Notion) AppendRows(ctx context.Context, leads []model.Lead) error {
	for i, lead := range leads {
		if _, err := n.client.AddRow(ctx, n.dbID, leadProperties(lead)); err != nil {
			return eris.Wrapf(err, "notion: lead %d of %d (%s)", i+1, len(leads), lead.BusinessName)
		}
	}
	return nil
}

func leadProperties(l model.Lead) notionapi.Properties {
	props := notionapi.Properties{
		"Business Name":  notion.Title(l.BusinessName),
		"Rating":         notion.RichText(l.Rating),
		"Address":        notion.RichText(l.Address),
		"Website Exists": notion.Checkbox(l.WebsiteExists),
		"Cold Email":     notion.RichText(l.ColdEmail),
	}
	// Notion rejects empty email, phone and url values.
	if l.Email != "" {
		props["Email"] = notion.Email(l.Email)
	}
	if l.Phone != "" {
		props["Phone"] = notion.Phone(l.Phone)
	}
	if l.HasWebsite() {
		props["Website"] = notion.URL(l.Website)
	}
	return props
}
