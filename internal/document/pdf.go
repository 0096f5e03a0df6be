package document

import (
	"bytes"
	"strings"

	"github.com/Dharanish-AM/InterVueAI/pkg/apperror"

	"github.com/ledongthuc/pdf"
)

// PDF extracts plain text from a PDF upload.
type PDF struct{}

func (PDF) Decode(data []byte, _ string) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperror.BadRequest("Unable to read PDF file", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for _, word := range row.Content {
				sb.WriteString(word.S)
				sb.WriteByte(' ')
			}
			sb.WriteByte('\n')
		}
	}

	return sb.String(), nil
}
