package htmldom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentsearch/internal/dom"
)

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := ParseString(src, "https://example.com/")
	require.NoError(t, err)
	return doc
}

func TestBodyAndText(t *testing.T) {
	doc := mustParse(t, `<html><head><title>x</title></head><body><p>Hello <b>big</b> world</p></body></html>`)
	body := doc.Body()
	require.NotNil(t, body)
	assert.Equal(t, "body", body.Tag())
	assert.Equal(t, "Hello big world", body.Text())
	assert.Equal(t, "https://example.com/", doc.URL())
}

func TestReplaceWithKeepsOrder(t *testing.T) {
	doc := mustParse(t, `<p>abc</p>`)
	p := doc.QuerySelector("p")
	require.NotNil(t, p)
	text := p.FirstChild()
	require.Equal(t, dom.Text, text.Kind())

	span := doc.CreateElement("span")
	span.SetText("b")
	require.NoError(t, text.ReplaceWith(doc.CreateText("a"), span, doc.CreateText("c")))

	assert.Equal(t, "abc", p.Text())
	assert.Nil(t, text.Parent())
	assert.Contains(t, doc.String(), "<p>a<span>b</span>c</p>")
}

func TestReplaceWithDetached(t *testing.T) {
	doc := mustParse(t, `<p>x</p>`)
	orphan := doc.CreateText("y")
	assert.ErrorIs(t, orphan.ReplaceWith(doc.CreateText("z")), dom.ErrDetached)
}

func TestNormalizeMergesAndDropsEmpty(t *testing.T) {
	doc := mustParse(t, `<p>x</p>`)
	p := doc.QuerySelector("p")
	p.AppendChild(doc.CreateText(""))
	p.AppendChild(doc.CreateText("y"))
	p.AppendChild(doc.CreateText("z"))

	p.Normalize()

	first := p.FirstChild()
	require.NotNil(t, first)
	assert.Equal(t, "xyz", first.Text())
	assert.Nil(t, first.NextSibling())
}

func TestClassesAndStyle(t *testing.T) {
	doc := mustParse(t, `<div class="a b">t</div>`)
	div := doc.QuerySelector("div.a.b")
	require.NotNil(t, div)

	div.AddClass("c")
	div.AddClass("c")
	assert.Equal(t, "a b c", div.Attr("class"))
	div.RemoveClass("a")
	assert.True(t, div.HasClass("b"))
	assert.False(t, div.HasClass("a"))

	div.SetStyle("color", "red")
	div.SetStyle("opacity", "0.7")
	div.SetStyle("color", "blue")
	assert.Equal(t, "opacity: 0.7; color: blue", div.Attr("style"))
}

func TestQuerySelector(t *testing.T) {
	doc := mustParse(t, `<body>
		<span class="p-nickname">outside</span>
		<div data-hovercard-type="user"><span class="p-nickname vcard-username">inside</span></div>
		<span itemprop="additionalName">alt</span>
		<i id="main">id</i>
	</body>`)

	tests := []struct {
		sel  string
		want string
	}{
		{".p-nickname", "outside"},
		{".p-nickname.vcard-username", "inside"},
		{`[data-hovercard-type="user"] .p-nickname`, "inside"},
		{`[itemprop="additionalName"]`, "alt"},
		{"[itemprop]", "alt"},
		{"i#main", "id"},
		{"#main", "id"},
	}
	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			n := doc.QuerySelector(tt.sel)
			require.NotNil(t, n)
			assert.Equal(t, tt.want, n.Text())
		})
	}

	assert.Nil(t, doc.QuerySelector(".missing"))
	assert.Nil(t, doc.QuerySelector(".p-nickname.d-block"))
	assert.Nil(t, doc.QuerySelector(""))
}

func TestWalkPreOrder(t *testing.T) {
	doc := mustParse(t, `<body><p>a<b>b</b></p><p>c</p></body>`)
	var texts []string
	dom.Walk(doc.Body(), func(n dom.Node) bool {
		if n.Kind() == dom.Text {
			texts = append(texts, n.Text())
		}
		return n.Tag() != "b"
	})
	assert.Equal(t, []string{"a", "c"}, texts)
}
