package domain

import (
	"fmt"
	"math"
)

// Page страница результатов с данными для навигации
type Page[T any] struct {
	Items   []T  `json:"items"`
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// NewPage собирает страницу; items == nil превращается в пустой срез,
// чтобы в JSON уходил [] а не null
func NewPage[T any](items []T, page, perPage, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
		HasNext: page < pageCount(total, perPage),
		HasPrev: page > 1,
	}
}

// pageCount число страниц без переполнения page*perPage
func pageCount(total, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 0
	}
	n := total / perPage
	if total%perPage != 0 {
		n++
	}
	return n
}

// ValidatePage проверяет, что page и perPage положительные и что смещение
// страницы помещается в int
func ValidatePage(page, perPage int) error {
	if page < 1 || perPage < 1 {
		return fmt.Errorf("%w: page и per_page должны быть положительными (page=%d, per_page=%d)", ErrInvalidInput, page, perPage)
	}
	if page > math.MaxInt/perPage {
		return fmt.Errorf("%w: page=%d слишком велик для per_page=%d", ErrInvalidInput, page, perPage)
	}
	return nil
}

// Offset смещение для LIMIT/OFFSET запросов
func Offset(page, perPage int) int {
	return (page - 1) * perPage
}
