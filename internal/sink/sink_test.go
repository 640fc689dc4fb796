package sink

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

type recordingSink struct {
	name string
	err  error
	got  []model.Lead
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) AppendRows(_ context.Context, leads []model.Lead) error {
	r.got = append(r.got, leads...)
	return r.err
}

func sampleLeads() []model.Lead {
	return []model.Lead{
		{
			BusinessName:  "Iron Temple Gym",
			OwnerName:     "Ravi Kumar",
			Rating:        "4.5",
			Phone:         "+91 98765 43210",
			Address:       "Mall Road, Bageshwar",
			Email:         "info@irontemple.in",
			Website:       "https://irontemple.in",
			WebsiteExists: true,
			ColdEmail:     "Hi,\n\nBody.\n\n[Your Name]",
		},
		{
			BusinessName: "Shiva Fitness",
			Rating:       "4.0",
			Address:      "Near bus stand",
			Website:      model.WebsiteNA,
			ColdEmail:    "Hi,\n\nFallback.\n\n[Your Name]",
		},
	}
}

func TestNop(t *testing.T) {
	err := Nop{}.AppendRows(context.Background(), sampleLeads())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, "none", Nop{}.Name())
}

func TestMulti_AllSucceed(t *testing.T) {
	a, b := &recordingSink{name: "a"}, &recordingSink{name: "b"}
	m := Multi{a, b}

	require.NoError(t, m.AppendRows(context.Background(), sampleLeads()))
	assert.Len(t, a.got, 2)
	assert.Len(t, b.got, 2)
	assert.Equal(t, "multi(a,b)", m.Name())
}

func TestMulti_OneFailsOthersStillWritten(t *testing.T) {
	a := &recordingSink{name: "a", err: errors.New("disk full")}
	b := &recordingSink{name: "b"}

	err := Multi{a, b}.AppendRows(context.Background(), sampleLeads())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, b.got, 2)
}

func TestClear_ClearsSupportingMembers(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	x := NewXLSX(path, "Leads")
	require.NoError(t, x.AppendRows(ctx, sampleLeads()))

	cleared, err := Clear(ctx, Multi{&recordingSink{name: "a"}, Multi{x}})
	require.NoError(t, err)
	assert.Equal(t, []string{"xlsx"}, cleared)
	assert.Len(t, readSheet(t, path, "Leads"), 1)
}

func TestClear_Unsupported(t *testing.T) {
	_, err := Clear(context.Background(), Nop{})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestList_ReadsFirstLister(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLite(t)
	require.NoError(t, db.AppendRows(ctx, sampleLeads()))

	leads, err := List(ctx, Multi{&recordingSink{name: "a"}, db}, 1)
	require.NoError(t, err)
	assert.Len(t, leads, 1)
}

func TestList_Unsupported(t *testing.T) {
	_, err := List(context.Background(), &recordingSink{name: "a"}, 10)
	assert.ErrorIs(t, err, ErrUnsupported)
}
