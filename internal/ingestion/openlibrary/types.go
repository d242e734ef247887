package openlibrary

import (
	"fmt"
	"strings"

	"readhub/internal/http-api/models"
)

// SearchResponse is the shape of GET /search.json.
type SearchResponse struct {
	NumFound int       `json:"numFound"`
	Start    int       `json:"start"`
	Docs     []WorkDoc `json:"docs"`
}

// WorkDoc is one work from the Open Library search index, limited to the
// fields the importer asks for.
type WorkDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	PagesMedian      int      `json:"number_of_pages_median"`
	ISBNs            []string `json:"isbn"`
	CoverID          int64    `json:"cover_i"`
	Languages        []string `json:"language"`
	FirstSentences   []string `json:"first_sentence"`
}

// Page-count tiers used for the default difficulty of imported books.
const (
	beginnerMaxPages     = 160
	intermediateMaxPages = 400
)

// ExtractBook maps a search doc onto a catalog entry under the given
// category. Docs without a title or author are not importable.
func ExtractBook(doc WorkDoc, category string) (*models.Book, error) {
	title := strings.TrimSpace(doc.Title)
	if title == "" {
		return nil, fmt.Errorf("work %s has no title", doc.Key)
	}
	if len(doc.AuthorNames) == 0 || strings.TrimSpace(doc.AuthorNames[0]) == "" {
		return nil, fmt.Errorf("work %q has no author", title)
	}

	book := &models.Book{
		Title:      title,
		Author:     strings.TrimSpace(doc.AuthorNames[0]),
		Category:   category,
		Difficulty: difficultyForPages(doc.PagesMedian),
		Pages:      doc.PagesMedian,
		Language:   languageCode(doc.Languages),
	}

	if isbn := pickISBN(doc.ISBNs); isbn != "" {
		book.ISBN = &isbn
	}
	if doc.CoverID > 0 {
		url := coverURL(doc.CoverID)
		book.CoverURL = &url
	}
	if len(doc.FirstSentences) > 0 {
		if sentence := strings.TrimSpace(doc.FirstSentences[0]); sentence != "" {
			book.Description = &sentence
		}
	}

	return book, nil
}

// difficultyForPages buckets a book by length. Unknown lengths get the
// catalog default.
func difficultyForPages(pages int) string {
	switch {
	case pages <= 0:
		return models.DifficultyBeginner
	case pages <= beginnerMaxPages:
		return models.DifficultyBeginner
	case pages <= intermediateMaxPages:
		return models.DifficultyIntermediate
	default:
		return models.DifficultyAdvanced
	}
}

// pickISBN prefers an ISBN-13, falls back to an ISBN-10, and returns ""
// when the doc carries neither.
func pickISBN(isbns []string) string {
	fallback := ""
	for _, raw := range isbns {
		isbn := strings.ReplaceAll(strings.TrimSpace(raw), "-", "")
		switch len(isbn) {
		case 13:
			return isbn
		case 10:
			if fallback == "" {
				fallback = isbn
			}
		}
	}
	return fallback
}

func coverURL(coverID int64) string {
	return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", coverID)
}

// marcLanguages maps the MARC codes Open Library uses onto the two-letter
// codes the catalog stores.
var marcLanguages = map[string]string{
	"eng": "en",
	"fre": "fr",
	"ger": "de",
	"spa": "es",
	"ita": "it",
	"por": "pt",
	"rus": "ru",
	"jpn": "ja",
	"chi": "zh",
}

func languageCode(languages []string) string {
	for _, marc := range languages {
		if code, ok := marcLanguages[marc]; ok {
			return code
		}
	}
	return "en"
}

// CategoryLabel turns an Open Library subject slug into the display
// category stored on the book ("science_fiction" -> "Science Fiction").
func CategoryLabel(subject string) string {
	words := strings.Split(strings.ReplaceAll(subject, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
