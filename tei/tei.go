// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package tei

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

// Namespace is the TEI P5 XML namespace.
const Namespace = "http://www.tei-c.org/ns/1.0"

var (
	// ErrMalformedXML indicates a payload that is not well-formed XML.
	ErrMalformedXML = errors.New("malformed tei xml")

	// ErrHeaderMissing indicates a document without a teiHeader element.
	ErrHeaderMissing = errors.New("tei header missing from parsed payload")

	// ErrTitleMissing indicates a header whose fileDesc title is absent or blank.
	ErrTitleMissing = errors.New("tei header title missing from parsed payload")
)

// HeaderPayload is a parsed TEI header: the extracted title plus the header
// subtree as a string-keyed map ready for enrichment and persistence.
type HeaderPayload struct {
	Title   string
	Payload map[string]any
}

type teiDocument struct {
	XMLName xml.Name   `xml:"TEI"`
	Xmlns   string     `xml:"xmlns,attr"`
	Header  *teiHeader `xml:"teiHeader"`
	Text    teiText    `xml:"text"`
}

type teiHeader struct {
	FileDesc teiFileDesc `xml:"fileDesc"`
}

type teiFileDesc struct {
	TitleStmt teiTitleStmt `xml:"titleStmt"`
}

type teiTitleStmt struct {
	Title string `xml:"title"`
}

type teiText struct {
	Body teiBody `xml:"body"`
}

type teiBody struct {
	Paragraphs []string `xml:"p"`
}

// Build constructs a minimal valid TEI document from a title and raw source
// content. Content is segmented into paragraphs on blank lines; each
// paragraph's lines are joined with single spaces. Empty content produces an
// empty body.
func Build(title, content string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", ErrTitleMissing
	}

	doc := teiDocument{
		Xmlns: Namespace,
		Header: &teiHeader{
			FileDesc: teiFileDesc{
				TitleStmt: teiTitleStmt{Title: strings.TrimSpace(title)},
			},
		},
		Text: teiText{Body: teiBody{Paragraphs: SplitParagraphs(content)}},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedXML, err)
	}
	return xml.Header + string(out), nil
}

// SplitParagraphs segments content into paragraphs on blank lines. Lines
// within a paragraph are trimmed and joined with single spaces; blank-only
// content yields no paragraphs.
func SplitParagraphs(content string) []string {
	var (
		paragraphs []string
		current    []string
	)
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
	}
	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		current = append(current, trimmed)
	}
	flush()
	return paragraphs
}

// ParseHeader parses a TEI XML payload and extracts its header.
//
// Returns ErrMalformedXML for payloads that do not parse, ErrHeaderMissing
// when the teiHeader element is absent, and ErrTitleMissing when the
// fileDesc title is absent or blank.
func ParseHeader(payload string) (HeaderPayload, error) {
	var doc teiDocument
	if err := xml.Unmarshal([]byte(payload), &doc); err != nil {
		return HeaderPayload{}, fmt.Errorf("%w: %w", ErrMalformedXML, err)
	}
	if doc.Header == nil {
		return HeaderPayload{}, ErrHeaderMissing
	}

	title := strings.TrimSpace(doc.Header.FileDesc.TitleStmt.Title)
	if title == "" {
		return HeaderPayload{}, ErrTitleMissing
	}

	return HeaderPayload{
		Title: title,
		Payload: map[string]any{
			"fileDesc": map[string]any{
				"title": title,
			},
		},
	}, nil
}

// Paragraphs returns the body paragraphs of a TEI document.
func Paragraphs(payload string) ([]string, error) {
	var doc teiDocument
	if err := xml.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedXML, err)
	}
	return doc.Text.Body.Paragraphs, nil
}
