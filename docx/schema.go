package docx

import (
	"encoding/xml"
	"strconv"
)

// XML namespaces used in DOCX files
const (
	nsW  = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsDC = "http://purl.org/dc/elements/1.1/"
	nsCP = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
)

// documentXML represents word/document.xml for reading.
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    flowXML  `xml:"body"`
}

// flowXML is a sequence of paragraphs and tables. Blocks is populated
// manually to preserve document order.
type flowXML struct {
	Blocks []flowBlockXML
}

// flowBlockXML holds exactly one of a paragraph or a table.
type flowBlockXML struct {
	Paragraph *paragraphXML
	Table     *tableXML
}

func (f *flowXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				p := &paragraphXML{}
				if err := d.DecodeElement(p, &el); err != nil {
					return err
				}
				f.Blocks = append(f.Blocks, flowBlockXML{Paragraph: p})
			case "tbl":
				t := &tableXML{}
				if err := d.DecodeElement(t, &el); err != nil {
					return err
				}
				f.Blocks = append(f.Blocks, flowBlockXML{Table: t})
			case "sdt":
				// Block-level content controls wrap ordinary blocks.
				var sdt struct {
					Content flowXML `xml:"sdtContent"`
				}
				if err := d.DecodeElement(&sdt, &el); err != nil {
					return err
				}
				f.Blocks = append(f.Blocks, sdt.Content.Blocks...)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// paragraphXML represents a paragraph element. Runs inside inline content
// controls and hyperlinks are read as runs of the paragraph.
type paragraphXML struct {
	Properties paragraphPropsXML
	Runs       []runXML
}

func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "pPr":
				if err := d.DecodeElement(&p.Properties, &el); err != nil {
					return err
				}
			case "r":
				var r runXML
				if err := d.DecodeElement(&r, &el); err != nil {
					return err
				}
				p.Runs = append(p.Runs, r)
			case "sdt", "sdtContent", "hyperlink", "smartTag", "ins":
				depth++
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

type paragraphPropsXML struct {
	Style   valXML     `xml:"pStyle"`
	Justify valXML     `xml:"jc"`
	Spacing spacingXML `xml:"spacing"`
}

type spacingXML struct {
	Line     string `xml:"line,attr"`
	LineRule string `xml:"lineRule,attr"`
}

// valXML is an element whose only interesting content is its w:val attribute.
type valXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

// present reports whether the element appeared in the source.
func (v valXML) present() bool {
	return v.XMLName.Local != ""
}

// enabled interprets a toggle property such as w:b.
func (v valXML) enabled() bool {
	if !v.present() {
		return false
	}
	switch v.Val {
	case "0", "false", "off", "none":
		return false
	}
	return true
}

// runXML represents a text run. Items is populated manually to preserve
// the order of text, breaks and drawings.
type runXML struct {
	Properties runPropsXML
	Items      []runItemXML
}

type runItemXML struct {
	Kind itemKind
	Text string
}

type runPropsXML struct {
	Fonts     fontsXML `xml:"rFonts"`
	Bold      valXML   `xml:"b"`
	Italic    valXML   `xml:"i"`
	Underline valXML   `xml:"u"`
	Color     valXML   `xml:"color"`
	Size      valXML   `xml:"sz"`
}

type fontsXML struct {
	ASCII string `xml:"ascii,attr"`
}

func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "rPr":
				if err := d.DecodeElement(&r.Properties, &el); err != nil {
					return err
				}
			case "t":
				var s string
				if err := d.DecodeElement(&s, &el); err != nil {
					return err
				}
				r.Items = append(r.Items, runItemXML{Kind: itemText, Text: s})
			case "br":
				kind := itemBreak
				for _, a := range el.Attr {
					if a.Name.Local == "type" && a.Value == "page" {
						kind = itemPageBreak
					}
				}
				r.Items = append(r.Items, runItemXML{Kind: kind})
				if err := d.Skip(); err != nil {
					return err
				}
			case "tab":
				r.Items = append(r.Items, runItemXML{Kind: itemTab})
				if err := d.Skip(); err != nil {
					return err
				}
			case "drawing":
				r.Items = append(r.Items, runItemXML{Kind: itemPicture})
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// tableXML represents a table element.
type tableXML struct {
	Rows []rowXML `xml:"tr"`
}

type rowXML struct {
	Cells []cellXML `xml:"tc"`
}

// cellXML represents a table cell: its properties and a block flow.
type cellXML struct {
	Properties cellPropsXML
	Content    flowXML
}

type cellPropsXML struct {
	Width   widthXML   `xml:"tcW"`
	Margins marginsXML `xml:"tcMar"`
	VAlign  valXML     `xml:"vAlign"`
}

type widthXML struct {
	W string `xml:"w,attr"`
}

type marginsXML struct {
	XMLName xml.Name
	Top     widthXML `xml:"top"`
	Left    widthXML `xml:"left"`
	Start   widthXML `xml:"start"`
	Bottom  widthXML `xml:"bottom"`
	Right   widthXML `xml:"right"`
	End     widthXML `xml:"end"`
}

func (c *cellXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "tcPr":
				if err := d.DecodeElement(&c.Properties, &el); err != nil {
					return err
				}
			case "p":
				p := &paragraphXML{}
				if err := d.DecodeElement(p, &el); err != nil {
					return err
				}
				c.Content.Blocks = append(c.Content.Blocks, flowBlockXML{Paragraph: p})
			case "tbl":
				t := &tableXML{}
				if err := d.DecodeElement(t, &el); err != nil {
					return err
				}
				c.Content.Blocks = append(c.Content.Blocks, flowBlockXML{Table: t})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName xml.Name `xml:"coreProperties"`
	Title   string   `xml:"title"`
	Subject string   `xml:"subject"`
	Creator string   `xml:"creator"`
}

// relationshipsXML represents a .rels part for reading.
type relationshipsXML struct {
	Relationships []packageRel `xml:"Relationship"`
}

// twipsAttr parses a twips attribute, returning 0 when absent or malformed.
func twipsAttr(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
