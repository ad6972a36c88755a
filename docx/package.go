package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Part names and content types of a WordprocessingML package.
const (
	partContentTypes = "[Content_Types].xml"
	partRootRels     = "_rels/.rels"
	partDocument     = "word/document.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partStyles       = "word/styles.xml"
	partNumbering    = "word/numbering.xml"
	partSettings     = "word/settings.xml"
	partCore         = "docProps/core.xml"
	partApp          = "docProps/app.xml"

	ctDocumentMain = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctTemplateMain = "application/vnd.openxmlformats-officedocument.wordprocessingml.template.main+xml"
	ctStyles       = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctNumbering    = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	ctSettings     = "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"
	ctCore         = "application/vnd.openxmlformats-package.core-properties+xml"
	ctApp          = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relNumbering      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relSettings       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relCore           = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relApp            = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
)

// contentTypesXML represents [Content_Types].xml.
type contentTypesXML struct {
	XMLName   xml.Name     `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ensureDefault adds a Default entry unless the extension is already mapped.
func (ct *contentTypesXML) ensureDefault(ext, contentType string) {
	for _, d := range ct.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return
		}
	}
	ct.Defaults = append(ct.Defaults, ctDefault{Extension: ext, ContentType: contentType})
}

// packageRelsXML represents a .rels part for writing.
type packageRelsXML struct {
	XMLName       xml.Name     `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Relationships []packageRel `xml:"Relationship"`
}

type packageRel struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Save writes the document to path, creating parent directories as needed.
// The file is written to a temporary name first and renamed into place.
func (d *Document) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	data, err := d.Bytes()
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming document: %w", err)
	}
	return nil
}

// Bytes returns the document serialized as a DOCX package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var err error
	if d.template != nil {
		err = d.writeTemplatePackage(zw)
	} else {
		err = d.writeBlankPackage(zw)
	}
	if err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing package: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Document) writeBlankPackage(zw *zip.Writer) error {
	ct := &contentTypesXML{
		Defaults: []ctDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []ctOverride{
			{PartName: "/" + partDocument, ContentType: ctDocumentMain},
			{PartName: "/" + partStyles, ContentType: ctStyles},
			{PartName: "/" + partNumbering, ContentType: ctNumbering},
			{PartName: "/" + partSettings, ContentType: ctSettings},
			{PartName: "/" + partCore, ContentType: ctCore},
			{PartName: "/" + partApp, ContentType: ctApp},
		},
	}
	d.addMediaContentTypes(ct)

	rootRels := &packageRelsXML{Relationships: []packageRel{
		{ID: "rId1", Type: relOfficeDocument, Target: partDocument},
		{ID: "rId2", Type: relCore, Target: partCore},
		{ID: "rId3", Type: relApp, Target: partApp},
	}}

	docRels := &packageRelsXML{Relationships: []packageRel{
		{ID: "rId1", Type: relStyles, Target: "styles.xml"},
		{ID: "rId2", Type: relNumbering, Target: "numbering.xml"},
		{ID: "rId3", Type: relSettings, Target: "settings.xml"},
	}}
	d.addMediaRels(docRels)

	var doc strings.Builder
	doc.WriteString(xml.Header)
	doc.WriteString(`<w:document xmlns:w="` + nsW + `" xmlns:r="` + nsR + `" xmlns:wp="` + nsWP + `">`)
	doc.WriteString("<w:body>")
	doc.WriteString(d.bodyXML())
	doc.WriteString(blankSectPr)
	doc.WriteString("</w:body></w:document>")

	if err := writeXMLPart(zw, partContentTypes, ct); err != nil {
		return err
	}
	if err := writeXMLPart(zw, partRootRels, rootRels); err != nil {
		return err
	}
	if err := writePart(zw, partDocument, []byte(doc.String())); err != nil {
		return err
	}
	if err := writeXMLPart(zw, partDocumentRels, docRels); err != nil {
		return err
	}
	if err := writePart(zw, partStyles, []byte(blankStylesXML)); err != nil {
		return err
	}
	if err := writePart(zw, partNumbering, []byte(blankNumberingXML)); err != nil {
		return err
	}
	if err := writePart(zw, partSettings, []byte(blankSettingsXML)); err != nil {
		return err
	}
	if err := writePart(zw, partCore, d.coreXML()); err != nil {
		return err
	}
	if err := writePart(zw, partApp, []byte(blankAppXML)); err != nil {
		return err
	}
	return d.writeMedia(zw)
}

func (d *Document) writeTemplatePackage(zw *zip.Writer) error {
	t := d.template

	ct := &contentTypesXML{}
	if err := xml.Unmarshal(t.part(partContentTypes), ct); err != nil {
		return fmt.Errorf("parsing template content types: %w", err)
	}
	for i, o := range ct.Overrides {
		if o.ContentType == ctTemplateMain {
			ct.Overrides[i].ContentType = ctDocumentMain
		}
	}
	d.addMediaContentTypes(ct)

	docRels := &packageRelsXML{}
	if data := t.part(partDocumentRels); data != nil {
		if err := xml.Unmarshal(data, docRels); err != nil {
			return fmt.Errorf("parsing template relationships: %w", err)
		}
	}
	d.addMediaRels(docRels)

	body, err := d.mergedDocumentXML()
	if err != nil {
		return err
	}

	for _, p := range t.parts {
		var err error
		switch p.name {
		case partContentTypes:
			err = writeXMLPart(zw, p.name, ct)
		case partDocumentRels:
			err = writeXMLPart(zw, p.name, docRels)
		case partDocument:
			err = writePart(zw, p.name, body)
		default:
			err = writePart(zw, p.name, p.data)
		}
		if err != nil {
			return err
		}
	}
	if t.part(partDocumentRels) == nil {
		if err := writeXMLPart(zw, partDocumentRels, docRels); err != nil {
			return err
		}
	}
	return d.writeMedia(zw)
}

// mergedDocumentXML inserts the generated body before the template's final
// section properties.
func (d *Document) mergedDocumentXML() ([]byte, error) {
	src := d.template.document
	end := bytes.LastIndex(src, []byte("</w:body>"))
	if end < 0 {
		return nil, fmt.Errorf("template document has no w:body")
	}

	at := end
	if sect := bytes.LastIndex(src[:end], []byte("<w:sectPr")); sect >= 0 {
		closeTag := bytes.Index(src[sect:end], []byte("</w:sectPr>"))
		selfClose := bytes.Index(src[sect:end], []byte("/>"))
		var sectEnd int
		switch {
		case closeTag >= 0:
			sectEnd = sect + closeTag + len("</w:sectPr>")
		case selfClose >= 0:
			sectEnd = sect + selfClose + len("/>")
		}
		if sectEnd > 0 && len(bytes.TrimSpace(src[sectEnd:end])) == 0 {
			at = sect
		}
	}

	var out bytes.Buffer
	out.Grow(len(src) + 4096)
	out.Write(src[:at])
	out.WriteString(d.bodyXML())
	out.Write(src[at:])
	return out.Bytes(), nil
}

func (d *Document) addMediaContentTypes(ct *contentTypesXML) {
	for _, m := range d.media {
		ext := strings.TrimPrefix(filepath.Ext(m.name), ".")
		ct.ensureDefault(ext, m.contentType)
	}
}

func (d *Document) addMediaRels(rels *packageRelsXML) {
	for _, m := range d.media {
		rels.Relationships = append(rels.Relationships, packageRel{
			ID:     m.relID,
			Type:   relImage,
			Target: "media/" + m.name,
		})
	}
}

func (d *Document) writeMedia(zw *zip.Writer) error {
	for _, m := range d.media {
		if err := writePart(zw, "word/media/"+m.name, m.data); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) coreXML() []byte {
	now := time.Now().UTC().Format(time.RFC3339)
	var b xmlBuilder
	b.raw(xml.Header)
	b.open("cp:coreProperties",
		"xmlns:cp", nsCP,
		"xmlns:dc", nsDC,
		"xmlns:dcterms", "http://purl.org/dc/terms/",
		"xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	writeSimple(&b, "dc:title", d.core.Title)
	writeSimple(&b, "dc:subject", d.core.Subject)
	writeSimple(&b, "dc:creator", d.core.Creator)
	b.open("dcterms:created", "xsi:type", "dcterms:W3CDTF")
	b.text(now)
	b.close("dcterms:created")
	b.open("dcterms:modified", "xsi:type", "dcterms:W3CDTF")
	b.text(now)
	b.close("dcterms:modified")
	b.close("cp:coreProperties")
	return []byte(b.String())
}

func writeSimple(b *xmlBuilder, name, value string) {
	if value == "" {
		return
	}
	b.open(name)
	b.text(value)
	b.close(name)
}

func writeXMLPart(zw *zip.Writer, name string, v any) error {
	data, err := xml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	return writePart(zw, name, append([]byte(xml.Header), data...))
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
