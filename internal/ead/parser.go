package ead

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"iiifgen/internal/selection"
	"iiifgen/internal/textutil"
)

// Level attribute values recognized while descending the finding aid.
const (
	levelSeries    = "series"
	levelSubseries = "subseries"
	levelFile      = "file"
	otherFileGrp   = "filegrp"
)

// Parse reads an EAD finding aid and returns the fonds tree. When filter
// is non-empty, only archival files whose inventory number is a member are
// retained; containers keep their place in the tree and are pruned later
// by the graph builder if they end up empty.
//
// Missing titles or identifiers on fonds, series, or file group nodes are
// hard errors: that is broken source data the operator must fix. A file
// without an inventory number is silently dropped, which finding aids use
// to mark units that were never digitized.
func Parse(r io.Reader, filter selection.Set) (*Node, error) {
	var doc eadDocument
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode ead: %w", err)
	}

	code := textutil.CollapseWhitespace(doc.Header.EADID.Value)
	if code == "" {
		return nil, fmt.Errorf("ead header: missing eadid")
	}
	title := textutil.CollapseWhitespace(doc.Header.TitleProper)
	if title == "" {
		return nil, fmt.Errorf("ead header: missing titleproper for fonds %s", code)
	}

	fonds := &Node{
		Kind:  KindFonds,
		Code:  code,
		Title: title,
		URI:   strings.TrimSpace(doc.Header.EADID.URL),
	}

	for _, el := range collectSeries(doc.ArchDesc.DSC.Components) {
		series, err := parseSeries(el, filter)
		if err != nil {
			return nil, err
		}
		fonds.Parts = append(fonds.Parts, series)
	}

	return fonds, nil
}

// collectSeries finds level="series" components at any depth above the
// series level itself.
func collectSeries(components []component) []component {
	var out []component
	for _, el := range components {
		if el.Level == levelSeries {
			out = append(out, el)
			continue
		}
		out = append(out, collectSeries(el.Children)...)
	}
	return out
}

func parseSeries(el component, filter selection.Set) (*Node, error) {
	title := textutil.CollapseWhitespace(el.Did.UnitTitle.Text)
	if title == "" {
		return nil, fmt.Errorf("series: missing unittitle")
	}

	code := title
	if id, ok := el.Did.unitIDByType("series_code"); ok {
		code = textutil.SanitizeCode(id.Value)
	}

	node := &Node{Kind: KindSeries, Code: code, Title: title}
	parts, err := parseParts(el.Children, filter)
	if err != nil {
		return nil, fmt.Errorf("series %s: %w", code, err)
	}
	node.Parts = parts
	return node, nil
}

// parseParts dispatches the direct children of a container on their level
// discriminator. Unrecognized levels are skipped, not errors.
func parseParts(children []component, filter selection.Set) ([]*Node, error) {
	var parts []*Node
	for _, el := range children {
		var (
			node *Node
			err  error
		)
		switch {
		case el.Level == levelFile:
			node, err = parseFile(el, filter)
		case el.OtherLevel == otherFileGrp:
			node, err = parseFileGroup(el, filter)
		case el.Level == levelSubseries:
			node, err = parseSeries(el, filter)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		if node != nil {
			parts = append(parts, node)
		}
	}
	return parts, nil
}

func parseFileGroup(el component, filter selection.Set) (*Node, error) {
	if len(el.Did.UnitIDs) == 0 {
		return nil, fmt.Errorf("filegrp: missing unitid")
	}
	code := textutil.CollapseWhitespace(el.Did.UnitIDs[0].Value)
	if code == "" {
		return nil, fmt.Errorf("filegrp: empty unitid")
	}

	title := textutil.CollapseWhitespace(el.Did.UnitTitle.Text)
	if title == "" {
		return nil, fmt.Errorf("filegrp %s: missing unittitle", code)
	}

	node := &Node{
		Kind:  KindFileGroup,
		Code:  code,
		Title: title,
		Date:  el.Did.UnitDate.normalized(),
	}
	parts, err := parseParts(el.Children, filter)
	if err != nil {
		return nil, fmt.Errorf("filegrp %s: %w", code, err)
	}
	node.Parts = parts
	return node, nil
}

// parseFile returns (nil, nil) when the file lacks an inventory number or
// is excluded by the selection filter. Both are deliberate drops.
func parseFile(el component, filter selection.Set) (*Node, error) {
	id, ok := el.Did.unitIDWithIdentifier()
	if !ok {
		return nil, nil
	}
	code := textutil.CollapseWhitespace(id.Value)
	if code == "" {
		return nil, nil
	}
	if !filter.Admits(code) {
		return nil, nil
	}

	title := textutil.CollapseWhitespace(el.Did.UnitTitle.Text)
	if title == "" {
		return nil, fmt.Errorf("file %s: missing unittitle", code)
	}

	var uri string
	if handle, ok := el.Did.unitIDByType("handle"); ok {
		uri = strings.TrimSpace(handle.Value)
	}

	var metsid string
	if el.Did.DAO != nil {
		href := strings.TrimSpace(el.Did.DAO.Href)
		if idx := strings.LastIndex(href, "/"); idx >= 0 {
			metsid = href[idx+1:]
		} else {
			metsid = href
		}
	}

	return &Node{
		Kind:   KindFile,
		Code:   code,
		Title:  title,
		URI:    uri,
		Date:   el.Did.UnitTitle.Date.normalized(),
		METSID: metsid,
	}, nil
}

type eadDocument struct {
	XMLName  xml.Name  `xml:"ead"`
	Header   eadHeader `xml:"eadheader"`
	ArchDesc struct {
		DSC struct {
			Components []component `xml:"c"`
		} `xml:"dsc"`
	} `xml:"archdesc"`
}

type eadHeader struct {
	EADID struct {
		URL   string `xml:"url,attr"`
		Value string `xml:",chardata"`
	} `xml:"eadid"`
	TitleProper string `xml:"filedesc>titlestmt>titleproper"`
}

type component struct {
	Level      string      `xml:"level,attr"`
	OtherLevel string      `xml:"otherlevel,attr"`
	Did        didElement  `xml:"did"`
	Children   []component `xml:"c"`
}

type didElement struct {
	UnitIDs   []unitID  `xml:"unitid"`
	UnitTitle unitTitle `xml:"unittitle"`
	UnitDate  *unitDate `xml:"unitdate"`
	DAO       *dao      `xml:"dao"`
}

func (d didElement) unitIDByType(typ string) (unitID, bool) {
	for _, id := range d.UnitIDs {
		if id.Type == typ {
			return id, true
		}
	}
	return unitID{}, false
}

func (d didElement) unitIDWithIdentifier() (unitID, bool) {
	for _, id := range d.UnitIDs {
		if strings.TrimSpace(id.Identifier) != "" {
			return id, true
		}
	}
	return unitID{}, false
}

type unitID struct {
	Type       string `xml:"type,attr"`
	Identifier string `xml:"identifier,attr"`
	Value      string `xml:",chardata"`
}

type dao struct {
	Href string `xml:"href,attr"`
}

// unitDate carries the machine-readable date in the normal attribute and a
// free-text fallback in the text attribute.
type unitDate struct {
	Normal string `xml:"normal,attr"`
	Text   string `xml:"text,attr"`
}

// normalized prefers the machine-readable form, then free text, else "".
func (d *unitDate) normalized() string {
	if d == nil {
		return ""
	}
	if strings.TrimSpace(d.Normal) != "" {
		return strings.TrimSpace(d.Normal)
	}
	return strings.TrimSpace(d.Text)
}

// unitTitle collects the element's full text content, including text
// inside nested elements such as unitdate, mirroring how catalog titles
// are displayed. The first nested unitdate's attributes are kept so file
// dates can be read from it.
type unitTitle struct {
	Text string
	Date *unitDate
}

func (t *unitTitle) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch el := token.(type) {
		case xml.StartElement:
			depth++
			if el.Name.Local == "unitdate" && t.Date == nil {
				date := &unitDate{}
				for _, attr := range el.Attr {
					switch attr.Name.Local {
					case "normal":
						date.Normal = attr.Value
					case "text":
						date.Text = attr.Value
					}
				}
				t.Date = date
			}
		case xml.EndElement:
			depth--
		case xml.CharData:
			text.Write(el)
		}
	}
	t.Text = text.String()
	return nil
}
