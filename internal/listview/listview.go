// Package listview berisi pola list view yang dipakai berulang oleh semua
// entitas dashboard: filter AND atas beberapa field lalu pagination dengan
// ukuran halaman tetap. Semua fungsi pure, bekerja di atas slice hasil
// snapshot koleksi.
package listview

import (
	"math"
	"strings"
)

// Matcher menilai satu record terhadap satu field filter yang aktif.
type Matcher[T any] func(T) bool

// Equals cocok bila field record sama persis dengan pilihan filter.
// Nilai "all" atau kosong berarti filter tidak aktif (selalu lolos).
func Equals[T any](selected string, field func(T) string) Matcher[T] {
	if selected == "" || selected == "all" {
		return func(T) bool { return true }
	}
	return func(item T) bool { return field(item) == selected }
}

// Contains cocok bila field record mengandung kata kunci (case-insensitive).
// Kata kunci kosong berarti pencarian tidak aktif.
func Contains[T any](query string, field func(T) string) Matcher[T] {
	q := strings.ToLower(query)
	if q == "" {
		return func(T) bool { return true }
	}
	return func(item T) bool {
		return strings.Contains(strings.ToLower(field(item)), q)
	}
}

// Filter mengembalikan subset items yang lolos SEMUA matcher (AND).
func Filter[T any](items []T, matchers ...Matcher[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		ok := true
		for _, m := range matchers {
			if !m(item) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, item)
		}
	}
	return out
}

// TotalPages menghitung ceil(len/perPage).
func TotalPages(n, perPage int) int {
	if perPage < 1 {
		return 0
	}
	return int(math.Ceil(float64(n) / float64(perPage)))
}

// Paginate memotong items ke halaman [(page-1)*perPage, page*perPage).
// Invariant: kalau page melewati total halaman hasil filter terbaru
// (misalnya filter menyusut saat user di halaman belakang), halaman
// kembali ke 1 — tidak ada anchoring ke item yang sedang dilihat.
func Paginate[T any](items []T, page, perPage int) (pageItems []T, currentPage int, totalPages int) {
	totalPages = TotalPages(len(items), perPage)

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = 1
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return items[start:end], page, totalPages
}
