package sink

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/salesforce"
)

const (
	leadSObject  = "Lead"
	leadSource   = "Lead Generator"
	unknownOwner = "Unknown"
)

// Salesforce inserts leads as Salesforce Lead records.
type Salesforce struct {
	client salesforce.Client
}

// NewSalesforce creates a Salesforce sink.
func NewSalesforce(client salesforce.Client) *Salesforce {
	return &Salesforce{client: client}
}

// Name implements Sink.
func (s *Salesforce) Name() string { return "salesforce" }

// AppendRows implements Sink. Any rejected record fails the write.
func (s *Salesforce) AppendRows(ctx context.Context, leads []model.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	records := make([]map[string]any, len(leads))
	for i, l := range leads {
		records[i] = leadRecord(l)
	}

	results, err := s.client.InsertCollection(ctx, leadSObject, records)
	if err != nil {
		return err
	}

	var failed []string
	for i, r := range results {
		if !r.Success {
			failed = append(failed, leads[i].BusinessName+": "+strings.Join(r.Errors, ", "))
		}
	}
	if len(failed) > 0 {
		return eris.Errorf("salesforce: %d of %d leads rejected: %s", len(failed), len(leads), strings.Join(failed, "; "))
	}

	zap.L().Info("salesforce: inserted leads", zap.Int("count", len(results)))
	return nil
}

// leadRecord maps a lead onto standard Lead fields. LastName is required by
// Salesforce.
func leadRecord(l model.Lead) map[string]any {
	rec := map[string]any{
		"Company":     l.BusinessName,
		"LastName":    unknownOwner,
		"Phone":       l.Phone,
		"Street":      l.Address,
		"Description": l.ColdEmail,
		"LeadSource":  leadSource,
	}
	if name := strings.TrimSpace(l.OwnerName); name != "" {
		if first, last, ok := strings.Cut(name, " "); ok {
			rec["FirstName"] = first
			rec["LastName"] = strings.TrimSpace(last)
		} else {
			rec["LastName"] = name
		}
	}
	if l.Email != "" {
		rec["Email"] = l.Email
	}
	if l.HasWebsite() {
		rec["Website"] = l.Website
	}
	return rec
}
