package services

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"golang.org/x/text/unicode/norm"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// Supported document formats.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

type ResumeParserService interface {
	ParseResume(filename string, data []byte) (*models.ParsedResume, error)
}

type resumeParserService struct{}

func NewResumeParserService() ResumeParserService {
	return &resumeParserService{}
}

// DetectFormat sniffs the document format from the filename extension.
func DetectFormat(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func (p *resumeParserService) ParseResume(filename string, data []byte) (*models.ParsedResume, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	var raw string
	switch format {
	case FormatPDF:
		raw, err = ExtractPDFText(data)
	case FormatDOCX:
		raw, err = ExtractDOCXText(data)
	}
	if err != nil {
		return nil, &ExtractionError{Format: format, Cause: err}
	}

	cleaned := CleanText(raw)
	return &models.ParsedResume{
		RawText:     raw,
		CleanedText: cleaned,
		Length:      utf8.RuneCountInString(cleaned),
	}, nil
}

// ExtractPDFText concatenates the plain text of every page in page order.
func ExtractPDFText(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable pages are skipped, the rest of the document still counts.
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

// ExtractDOCXText returns the paragraph text of a DOCX document, one line
// per paragraph.
func ExtractDOCXText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer doc.Close()

	text, err := paragraphText(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX body: %w", err)
	}
	return text, nil
}

// paragraphText walks WordprocessingML and keeps run text, tabs and breaks.
func paragraphText(documentXML string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(documentXML))

	var (
		out        strings.Builder
		paragraphs []*strings.Builder
		inText     bool
	)

	current := func() *strings.Builder {
		if len(paragraphs) == 0 {
			return nil
		}
		return paragraphs[len(paragraphs)-1]
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				paragraphs = append(paragraphs, &strings.Builder{})
			case "t":
				inText = true
			case "tab":
				if b := current(); b != nil {
					b.WriteByte('\t')
				}
			case "br", "cr":
				if b := current(); b != nil {
					b.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if b := current(); b != nil {
					out.WriteString(b.String())
					out.WriteByte('\n')
					paragraphs = paragraphs[:len(paragraphs)-1]
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if b := current(); inText && b != nil {
				b.Write(t)
			}
		}
	}

	return out.String(), nil
}

// CleanText normalises extracted text: it drops every character that is not
// a word character, whitespace, '.', '-' or '@', collapses whitespace runs
// to a single space and trims the ends.
func CleanText(text string) string {
	text = norm.NFC.String(text)

	filtered := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsSpace(r):
			return r
		case r == '_', r == '.', r == '-', r == '@':
			return r
		}
		return -1
	}, text)

	return strings.Join(strings.Fields(filtered), " ")
}
