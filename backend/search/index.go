package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Document kinds stored in the index. Theses have a relational row as well;
// titling-format records live only here.
const (
	KindThesis = "thesis"
	KindFormat = "format"
)

// DefaultField is where free-text queries land when no field is named,
// mirroring the search page's single query box.
const DefaultField = "content"

const maxResults = 1000

// Document is one indexed record with its stored fields.
type Document struct {
	ID     string
	Fields map[string]string
}

// Indexer is the contract the workflow consumes. It exists so the submit
// path can be tested against an index that fails on write.
type Indexer interface {
	AddDocument(id string, fields map[string]string) error
	Delete(id string) error
	Search(kind, field, queryStr string) ([]Document, error)
	Close() error
}

// Index is the bleve-backed implementation.
type Index struct {
	idx bleve.Index
}

// Open opens the index at path, creating it on first run.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, bleve.NewIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	return &Index{idx: idx}, nil
}

// OpenInMemory builds a throwaway index. Used by tests.
func OpenInMemory() (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("open in-memory search index: %w", err)
	}
	return &Index{idx: idx}, nil
}

// AddDocument indexes fields under id. The caller is expected to include a
// "kind" field so the document can be filtered on later.
func (s *Index) AddDocument(id string, fields map[string]string) error {
	if err := s.idx.Index(id, fields); err != nil {
		return fmt.Errorf("index document %s: %w", id, err)
	}
	return nil
}

// Delete removes a document. It is the compensating action when a thesis
// row fails to persist after its document was already indexed.
func (s *Index) Delete(id string) error {
	if err := s.idx.Delete(id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// Search runs queryStr against one document kind. "*" matches every document
// of the kind; a query containing ':' goes through bleve's query-string
// grammar (field-qualified terms, implicit AND); anything else is matched
// against field, defaulting to the content field.
func (s *Index) Search(kind, field, queryStr string) ([]Document, error) {
	kindQuery := bleve.NewMatchQuery(kind)
	kindQuery.SetField("kind")

	req := bleve.NewSearchRequest(bleve.NewConjunctionQuery(kindQuery, userQuery(field, queryStr)))
	req.Fields = []string{"*"}
	req.Size = maxResults

	res, err := s.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", queryStr, err)
	}

	docs := make([]Document, 0, len(res.Hits))
	for _, hit := range res.Hits {
		fields := make(map[string]string, len(hit.Fields))
		for name, value := range hit.Fields {
			if str, ok := value.(string); ok {
				fields[name] = str
			}
		}
		docs = append(docs, Document{ID: hit.ID, Fields: fields})
	}
	return docs, nil
}

func (s *Index) Close() error {
	return s.idx.Close()
}

func userQuery(field, queryStr string) query.Query {
	queryStr = strings.TrimSpace(queryStr)
	switch {
	case queryStr == "" || queryStr == "*":
		return bleve.NewMatchAllQuery()
	case strings.Contains(queryStr, ":"):
		return bleve.NewQueryStringQuery(queryStr)
	default:
		q := bleve.NewMatchQuery(queryStr)
		if field == "" {
			field = DefaultField
		}
		q.SetField(field)
		return q
	}
}
