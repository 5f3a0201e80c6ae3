package services

import (
	"strings"

	"github.com/custodia-labs/caselib/internal/core/domain"
)

// unknownTitle replaces the title of an anonymized result that has no
// alternative title.
const unknownTitle = "Unknown"

// assembleResult produces the response-owned fragment for one entry.
//
// The entry's document may be shared with the index's internal cache,
// so it is deep-copied before any field is rewritten. The copy belongs
// to this response alone and is discarded after serialization.
func (s *QueryService) assembleResult(lib *domain.Library, q *domain.Query, entry domain.IndexEntry) *domain.Document {
	doc := entry.Document.Clone()

	doc.DocRef = s.docRef(lib.ID, doc.Path, q)
	// The raw filename is superseded by the computed reference.
	doc.Filename = ""

	if q.Unknown {
		redact(doc)
	}

	// Unused alternates must never leak into output, redacted or not.
	doc.AlternativeTitle = ""
	doc.AlternativeAbstract = ""
	return doc
}

// docRef builds the absolute reference for a document, appending the
// pass-through rendering parameters in a fixed order.
func (s *QueryService) docRef(libraryID, path string, q *domain.Query) string {
	ref := s.baseAddress + libraryID + "/" + path
	var params []string
	if q.Unknown {
		params = append(params, "unknown=yes")
	}
	if q.BGColor != "" {
		params = append(params, "bgcolor="+q.BGColor)
	}
	if q.Display != "" {
		params = append(params, "display="+q.Display)
	}
	if q.Icons != "" {
		params = append(params, "icons="+q.Icons)
	}
	if len(params) > 0 {
		ref += "?" + strings.Join(params, "&")
	}
	return ref
}

// redact anonymizes a response-owned document copy. The alternative
// title and abstract, when present, replace the primary fields; a
// missing alternative title falls back to "Unknown" qualified by the
// category, and a missing alternative abstract removes the abstract.
func redact(doc *domain.Document) {
	if doc.AlternativeTitle != "" {
		doc.Title = doc.AlternativeTitle
	} else {
		title := unknownTitle
		if cat := strings.TrimSpace(doc.Category); cat != "" {
			title += " - " + cat
		}
		doc.Title = title
	}

	if doc.AlternativeAbstract != "" {
		doc.Abstract = doc.AlternativeAbstract
	} else {
		doc.Abstract = ""
	}
}
