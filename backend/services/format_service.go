package services

import (
	"fmt"

	"github.com/AtzinLeyva/TesisRepositorio/backend/search"
	"github.com/google/uuid"
)

// FormatService manages formas de titulación: the catalogue of ways a degree
// can be completed. These records live only in the search index, there is no
// relational row behind them.
type FormatService struct {
	Index search.Indexer
}

func NewFormatService(index search.Indexer) *FormatService {
	return &FormatService{Index: index}
}

type RegisterFormatInput struct {
	Title        string `json:"title" validate:"required"`
	Requirements string `json:"requirements" validate:"required"`
}

func (s *FormatService) Register(input RegisterFormatInput) (string, error) {
	if err := validate.Struct(input); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	docID := uuid.NewString()
	fields := map[string]string{
		"kind":    search.KindFormat,
		"title":   input.Title,
		"content": input.Requirements,
	}
	if err := s.Index.AddDocument(docID, fields); err != nil {
		return "", fmt.Errorf("%w: %v", ErrIndexWrite, err)
	}
	return docID, nil
}

// List enumerates every registered format.
func (s *FormatService) List() ([]search.Document, error) {
	docs, err := s.Index.Search(search.KindFormat, "", "*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return docs, nil
}

func (s *FormatService) Search(queryStr string) ([]search.Document, error) {
	docs, err := s.Index.Search(search.KindFormat, search.DefaultField, queryStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return docs, nil
}
