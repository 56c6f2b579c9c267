package painxml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerialize(t *testing.T) {
	root := NewElement("Document")
	root.SetAttr("xmlns", Namespace)

	grpHdr := root.Add("GrpHdr")
	grpHdr.AddText("MsgId", "MSG-1")
	grpHdr.AddText("NbOfTxs", "2")

	out := string(Serialize(root))

	assert.True(t, strings.HasPrefix(out, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"))
	assert.Contains(t, out, "<Document xmlns=\""+Namespace+"\">")
	assert.Contains(t, out, "  <GrpHdr>\n")
	assert.Contains(t, out, "    <MsgId>MSG-1</MsgId>\n")
	assert.Contains(t, out, "    <NbOfTxs>2</NbOfTxs>\n")
}

func TestSerializeEscapes(t *testing.T) {
	root := NewElement("Nm")
	root.Value = `Björk & Söner <AB> "quoted"`

	out := string(Serialize(root))
	assert.Contains(t, out, "Björk &amp; Söner &lt;AB&gt; &quot;quoted&quot;")
}

func TestSerializeSelfClosesEmpty(t *testing.T) {
	root := NewElement("PstlAdr")
	out := string(Serialize(root))
	assert.Contains(t, out, "<PstlAdr/>")
}

func TestAppendIgnoresNil(t *testing.T) {
	root := NewElement("CdtTrfTxInf")
	root.Append(nil)
	root.AddText("InstrId", "X")

	assert.Len(t, root.Children, 1)
}

func TestAttributeValue(t *testing.T) {
	amt := NewElement("InstdAmt")
	amt.Value = "1000.00"
	amt.SetAttr("Ccy", "SEK")

	out := string(Serialize(amt))
	assert.Contains(t, out, `<InstdAmt Ccy="SEK">1000.00</InstdAmt>`)
}
