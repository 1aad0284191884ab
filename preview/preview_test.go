package preview

import (
	"bytes"
	"testing"

	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlueprintPreview(t *testing.T) {
	bp := storetest.Blueprint(t, "NDA <draft>")

	var buf bytes.Buffer
	require.NoError(t, Blueprint(&buf, bp))
	svg := buf.String()

	assert.Contains(t, svg, `width="794" height="1123"`)
	assert.Contains(t, svg, "<title>NDA &lt;draft&gt;</title>")
	assert.Contains(t, svg, "Party Name")
	assert.Contains(t, svg, "This agreement is confidential.")
	assert.NotContains(t, svg, "<image")
}

func TestContractPreview(t *testing.T) {
	bp := storetest.Blueprint(t, "NDA")
	bp.ID = "bp"
	c := storetest.Contract(t, bp, "Acme NDA")

	var buf bytes.Buffer
	require.NoError(t, Contract(&buf, c))
	svg := buf.String()

	assert.Contains(t, svg, "Acme Corp")
	assert.Contains(t, svg, "2026-01-18")
	assert.Contains(t, svg, `href="data:image/png;base64,iVBORw0KGgo="`)
	assert.Contains(t, svg, "☑")
}

func TestPreviewDropsUntrustedSignature(t *testing.T) {
	bp := storetest.Blueprint(t, "NDA")
	c := model.Contract{Record: model.Record{Name: "x"}, Fields: model.Materialize(bp.Fields)}
	c.Fields[3].Value = model.SignatureValue("javascript:alert(1)")

	var buf bytes.Buffer
	require.NoError(t, Contract(&buf, c))
	assert.NotContains(t, buf.String(), "javascript:")
}
