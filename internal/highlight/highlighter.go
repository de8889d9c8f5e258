package highlight

import (
	"strconv"

	"contentsearch/internal/dom"
)

// IndexAttr carries a marker's registry index.
const IndexAttr = "data-search-index"

// Record is one live highlight marker. The DOM owns Element; the registry
// only keeps a reference for restoring it.
type Record struct {
	Index   int
	Element dom.Node
}

// Registry is the ordered list of live markers for one session.
type Registry struct {
	records []Record
}

func (r *Registry) Len() int { return len(r.records) }

// Records returns a copy of the records in insertion order.
func (r *Registry) Records() []Record {
	return append([]Record(nil), r.records...)
}

func (r *Registry) at(i int) Record { return r.records[i] }

func (r *Registry) add(recs ...Record) { r.records = append(r.records, recs...) }

func (r *Registry) reset() { r.records = nil }

// Wrap replaces text with an ordered mix of plain text nodes and marker
// spans, one span per match, and registers every span. Marker indices
// continue from the registry's current size. A node with no match is left
// alone and 0 is returned.
func Wrap(doc dom.Document, text dom.Node, p *Pattern, reg *Registry, class string) (int, error) {
	segs := p.Split(text.Text())
	if len(segs) == 0 {
		return 0, nil
	}

	nodes := make([]dom.Node, 0, len(segs))
	var recs []Record
	for _, seg := range segs {
		if !seg.Match {
			nodes = append(nodes, doc.CreateText(seg.Text))
			continue
		}
		idx := reg.Len() + len(recs)
		span := doc.CreateElement("span")
		span.AddClass(class)
		span.SetAttr(IndexAttr, strconv.Itoa(idx))
		span.SetText(seg.Text)
		nodes = append(nodes, span)
		recs = append(recs, Record{Index: idx, Element: span})
	}

	if err := text.ReplaceWith(nodes...); err != nil {
		return 0, err
	}
	reg.add(recs...)
	return len(recs), nil
}
