// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"farmstock/internal/core/apperror"
	"farmstock/internal/core/id"
	"farmstock/internal/domain/inventory"
)

// PageResponse wraps one page of a listing.
type PageResponse[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// FromPage converts a domain page, mapping every item.
func FromPage[S, T any](p inventory.Page[S], convert func(S) T) PageResponse[T] {
	items := make([]T, len(p.Items))
	for i, it := range p.Items {
		items[i] = convert(it)
	}
	return PageResponse[T]{
		Items:      items,
		Page:       p.Page,
		Size:       p.Size,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ParseID parses a required id field.
func ParseID(field, raw string) (id.ID, error) {
	v, err := id.Parse(raw)
	if err != nil {
		return id.ID{}, apperror.NewValidation("invalid " + field + " format").WithDetail("field", field)
	}
	return v, nil
}

// ParseOptionalID parses an optional id field; empty means nil.
func ParseOptionalID(field string, raw *string) (*id.ID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	v, err := ParseID(field, *raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func idString(v *id.ID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
