package store

import (
	"testing"
	"time"

	"github.com/mbolis/quick-contract/model"
	"github.com/stretchr/testify/assert"
)

func TestStamp(t *testing.T) {
	now := time.Date(2026, 1, 18, 9, 30, 0, 0, time.UTC)

	var r model.Record
	Stamp(&r, now)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, now, r.CreatedAt)
	assert.Equal(t, now, r.UpdatedAt)

	id := r.ID
	later := now.Add(time.Hour)
	Stamp(&r, later)
	assert.Equal(t, id, r.ID)
	assert.Equal(t, now, r.CreatedAt)
	assert.Equal(t, later, r.UpdatedAt)
}

func TestPrepareBlueprintCountsFields(t *testing.T) {
	f, _ := model.NewField(model.TypeText, "Party Name")
	bp := model.Blueprint{Record: model.Record{Name: "NDA"}, TotalFields: 12, Fields: []model.FormField{f}}

	saved := PrepareBlueprint(bp, UTC())
	assert.Equal(t, 1, saved.TotalFields)
	assert.Empty(t, bp.ID, "input is not modified")
}

func TestPrepareContractDefaultsStatus(t *testing.T) {
	c := PrepareContract(model.Contract{Record: model.Record{Name: "x"}}, UTC())
	assert.Equal(t, model.StatusCreated, c.Status)
}

func TestSortAndFilter(t *testing.T) {
	t0 := time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC)
	cs := []model.Contract{
		{Record: model.Record{Name: "Freelance", UpdatedAt: t0}, Status: model.StatusSent},
		{Record: model.Record{Name: "SaaS", UpdatedAt: t0.Add(48 * time.Hour)}, Status: model.StatusCreated},
		{Record: model.Record{Name: "NDA", UpdatedAt: t0.Add(24 * time.Hour)}, Status: model.StatusLocked},
	}
	SortContracts(cs)
	assert.Equal(t, "SaaS", cs[0].Name)
	assert.Equal(t, "NDA", cs[1].Name)
	assert.Equal(t, "Freelance", cs[2].Name)

	signed := FilterContracts(cs, ContractFilter{Bucket: model.BucketSigned})
	assert.Len(t, signed, 1)
	assert.Equal(t, "NDA", signed[0].Name)

	assert.Len(t, FilterContracts(cs, ContractFilter{Query: "a"}), 3)
	assert.Len(t, FilterContracts(cs, ContractFilter{Query: "free"}), 1)

	bps := []model.Blueprint{{Record: model.Record{Name: "Standard NDA"}}, {Record: model.Record{Name: "SaaS"}}}
	assert.Len(t, FilterBlueprints(bps, "nda"), 1)
}
