package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/Dharanish-AM/InterVueAI/pkg/apperror"
)

// Docx extracts plain text from a DOCX upload. A .docx file is a zip
// archive whose word/document.xml holds the text runs; paragraphs
// become lines so the line-oriented extractor downstream keeps working.
type Docx struct{}

func (Docx) Decode(data []byte, _ string) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperror.BadRequest("Unable to read DOCX file", err)
	}

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", apperror.BadRequest("Unable to read DOCX file", err)
		}
		defer rc.Close()
		return docxText(rc)
	}

	return "", apperror.BadRequest("DOCX file has no document body", nil)
}

// docxText walks the WordprocessingML token stream collecting text
// runs (<w:t>) and inserting newlines at paragraph ends (</w:p>).
func docxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", apperror.BadRequest("Malformed DOCX document body", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
