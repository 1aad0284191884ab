package routes

import (
	"net/http"
	"testing"

	"github.com/mbolis/quick-contract/canvas"
	"github.com/mbolis/quick-contract/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draftResponse struct {
	ID     string            `json:"id"`
	Canvas canvas.Canvas     `json:"canvas"`
	Fields []model.FormField `json:"fields"`
	Drag   struct {
		Dragging bool `json:"dragging"`
		Index    *int `json:"index"`
	} `json:"drag"`
}

func TestDraftAuthoring(t *testing.T) {
	srv, app := newServer(t)

	var d draftResponse
	require.Equal(t, http.StatusCreated, do(t, srv, call{method: "POST", path: "/api/drafts"}, &d))
	require.NotEmpty(t, d.ID)
	assert.Equal(t, canvas.A4, d.Canvas)
	assert.Empty(t, d.Fields)
	path := "/api/drafts/" + d.ID

	require.Equal(t, http.StatusOK, do(t, srv, call{method: "POST", path: path + "/fields", body: map[string]string{"type": "text", "label": "Party Name"}}, &d))
	require.Equal(t, http.StatusOK, do(t, srv, call{method: "POST", path: path + "/fields", body: map[string]string{"type": "fixed", "label": "MUTUAL NDA"}}, &d))
	require.Len(t, d.Fields, 2)
	assert.Equal(t, canvas.Rect{X: 40, Y: 40, W: 200, H: 35}, d.Fields[0].Position)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: "POST", path: path + "/fields", body: map[string]string{"type": "radio", "label": "x"}}, nil))

	index := 0
	require.Equal(t, http.StatusOK, do(t, srv, call{method: "POST", path: path + "/pointer", body: map[string]any{"event": "down", "x": 50, "y": 50, "index": index}}, &d))
	assert.True(t, d.Drag.Dragging)
	require.NotNil(t, d.Drag.Index)
	assert.Equal(t, 0, *d.Drag.Index)

	require.Equal(t, http.StatusOK, do(t, srv, call{method: "POST", path: path + "/pointer", body: map[string]any{"event": "move", "x": 9000, "y": 210}}, &d))
	assert.Equal(t, canvas.Point{X: canvas.Width - 200, Y: 200}, d.Fields[0].Position.Origin())

	require.Equal(t, http.StatusOK, do(t, srv, call{method: "POST", path: path + "/pointer", body: map[string]any{"event": "leave"}}, &d))
	assert.False(t, d.Drag.Dragging)
	require.Equal(t, http.StatusOK, do(t, srv, call{method: "POST", path: path + "/pointer", body: map[string]any{"event": "move", "x": 0, "y": 0}}, &d))
	assert.Equal(t, canvas.Point{X: canvas.Width - 200, Y: 200}, d.Fields[0].Position.Origin())
	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: "POST", path: path + "/pointer", body: map[string]any{"event": "click"}}, nil))

	// down without index grabs the field under the pointer
	require.Equal(t, http.StatusOK, do(t, srv, call{method: "POST", path: path + "/pointer", body: map[string]any{"event": "down", "x": 45, "y": 45}}, &d))
	require.NotNil(t, d.Drag.Index)
	assert.Equal(t, 1, *d.Drag.Index)
	require.Equal(t, http.StatusOK, do(t, srv, call{method: "POST", path: path + "/pointer", body: map[string]any{"event": "up"}}, &d))

	var bp model.Blueprint
	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: "POST", path: path + "/save", body: map[string]string{"name": ""}}, nil))
	require.Equal(t, http.StatusCreated, do(t, srv, call{method: "POST", path: path + "/save", body: map[string]string{"name": "NDA", "description": "Mutual"}}, &bp))
	assert.Equal(t, 2, bp.TotalFields)
	assert.Equal(t, model.FixedValue("MUTUAL NDA"), bp.Fields[1].Value)
	assert.Equal(t, 0, app.Drafts.Len())

	assert.Equal(t, http.StatusNotFound, do(t, srv, call{method: "GET", path: path}, nil))
}

func TestDraftEditsBlueprint(t *testing.T) {
	srv, _ := newServer(t)

	var d draftResponse
	require.Equal(t, http.StatusCreated, do(t, srv, call{method: "POST", path: "/api/drafts"}, &d))
	require.Equal(t, http.StatusOK, do(t, srv, call{method: "POST", path: "/api/drafts/" + d.ID + "/fields", body: map[string]string{"type": "date", "label": "Effective Date"}}, nil))
	var bp model.Blueprint
	require.Equal(t, http.StatusCreated, do(t, srv, call{method: "POST", path: "/api/drafts/" + d.ID + "/save", body: map[string]string{"name": "NDA"}}, &bp))

	require.Equal(t, http.StatusCreated, do(t, srv, call{method: "POST", path: "/api/drafts", body: map[string]string{"blueprintId": bp.ID}}, &d))
	require.Len(t, d.Fields, 1)
	path := "/api/drafts/" + d.ID
	require.Equal(t, http.StatusOK, do(t, srv, call{method: "DELETE", path: path + "/fields/0"}, &d))
	assert.Empty(t, d.Fields)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: "DELETE", path: path + "/fields/0"}, nil))

	require.Equal(t, http.StatusNoContent, do(t, srv, call{method: "DELETE", path: path}, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, call{method: "DELETE", path: path}, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, call{method: "POST", path: "/api/drafts", body: map[string]string{"blueprintId": "missing"}}, nil))
}
