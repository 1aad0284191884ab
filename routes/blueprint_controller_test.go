package routes

import (
	"io"
	"net/http"
	"testing"

	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlueprintCRUD(t *testing.T) {
	srv, _ := newServer(t)

	var created model.Blueprint
	status := do(t, srv, call{method: "POST", path: "/api/blueprints", body: storetest.Blueprint(t, "NDA")}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 5, created.TotalFields)

	var got model.Blueprint
	require.Equal(t, http.StatusOK, do(t, srv, call{method: "GET", path: "/api/blueprints/" + created.ID}, &got))
	assert.Equal(t, created.Fields, got.Fields)

	replacement := storetest.Blueprint(t, "NDA v2")
	replacement.Fields = replacement.Fields[:2]
	var updated model.Blueprint
	require.Equal(t, http.StatusOK, do(t, srv, call{method: "PUT", path: "/api/blueprints/" + created.ID, body: replacement}, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "NDA v2", updated.Name)
	assert.Equal(t, 2, updated.TotalFields)

	assert.Equal(t, http.StatusNotFound, do(t, srv, call{method: "PUT", path: "/api/blueprints/missing", body: replacement}, nil))

	require.Equal(t, http.StatusNoContent, do(t, srv, call{method: "DELETE", path: "/api/blueprints/" + created.ID}, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, call{method: "GET", path: "/api/blueprints/" + created.ID}, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, call{method: "DELETE", path: "/api/blueprints/" + created.ID}, nil))
}

func TestCreateBlueprintValidates(t *testing.T) {
	srv, _ := newServer(t)

	empty := storetest.Blueprint(t, "Empty")
	empty.Fields = nil
	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: "POST", path: "/api/blueprints", body: empty}, nil))

	offPage := storetest.Blueprint(t, "Off page")
	offPage.Fields[0].Position.X = 2000
	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: "POST", path: "/api/blueprints", body: offPage}, nil))

	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: "POST", path: "/api/blueprints", body: "not a blueprint"}, nil))
}

func TestListBlueprintsSearch(t *testing.T) {
	srv, _ := newServer(t)
	for _, name := range []string{"NDA", "Lease", "Consulting"} {
		require.Equal(t, http.StatusCreated, do(t, srv, call{method: "POST", path: "/api/blueprints", body: storetest.Blueprint(t, name)}, nil))
	}

	var list struct {
		Blueprints []model.Blueprint `json:"blueprints"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, call{method: "GET", path: "/api/blueprints"}, &list))
	require.Len(t, list.Blueprints, 3)
	assert.Equal(t, "Consulting", list.Blueprints[0].Name, "most recent first")

	require.Equal(t, http.StatusOK, do(t, srv, call{method: "GET", path: "/api/blueprints?q=lEaSe"}, &list))
	require.Len(t, list.Blueprints, 1)
	assert.Equal(t, "Lease", list.Blueprints[0].Name)

	require.Equal(t, http.StatusOK, do(t, srv, call{method: "GET", path: "/api/blueprints?q=nothing"}, &list))
	assert.Empty(t, list.Blueprints)
}

func TestBlueprintPreviewAndContractDraft(t *testing.T) {
	srv, _ := newServer(t)
	var bp model.Blueprint
	require.Equal(t, http.StatusCreated, do(t, srv, call{method: "POST", path: "/api/blueprints", body: storetest.Blueprint(t, "NDA")}, &bp))

	resp, err := srv.Client().Get(srv.URL + "/api/blueprints/" + bp.ID + "/preview.svg")
	require.NoError(t, err)
	defer resp.Body.Close()
	svg, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("content-type"))
	assert.Contains(t, string(svg), "Party Name")

	var draft model.Contract
	require.Equal(t, http.StatusOK, do(t, srv, call{method: "GET", path: "/api/blueprints/" + bp.ID + "/contract-draft"}, &draft))
	assert.Empty(t, draft.ID)
	assert.Equal(t, "NDA Contract", draft.Name)
	assert.Equal(t, "NDA template", draft.DescriptionText())
	assert.Equal(t, bp.ID, draft.BlueprintID)
	assert.Equal(t, model.StatusCreated, draft.Status)
	assert.Equal(t, model.TextValue(""), draft.Fields[0].Value)
	assert.Equal(t, model.FixedValue("This agreement is confidential."), draft.Fields[4].Value)

	assert.Equal(t, http.StatusNotFound, do(t, srv, call{method: "GET", path: "/api/blueprints/missing/contract-draft"}, nil))
}
