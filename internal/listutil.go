package internal

import (
	"cmp"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hotel-inventory-api/internal/handlers"
)

// listParams holds common query parameters for list endpoints
type listParams struct {
	limit      int
	offset     int
	q          string
	sort       string
	status     string
	category   string
	department string
}

// parseListParams parses limit, offset, q, sort and the status/category/department
// filters from the request. Defaults: limit=50 (max 200), offset=0.
func parseListParams(r *http.Request) listParams {
	values := r.URL.Query()

	limit := 50
	if s := strings.TrimSpace(values.Get("limit")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			if v > 200 {
				v = 200
			}
			limit = v
		}
	}

	offset := 0
	if s := strings.TrimSpace(values.Get("offset")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	return listParams{
		limit:      limit,
		offset:     offset,
		q:          strings.TrimSpace(values.Get("q")),
		sort:       strings.TrimSpace(values.Get("sort")),
		status:     strings.TrimSpace(values.Get("status")),
		category:   strings.TrimSpace(values.Get("category")),
		department: strings.TrimSpace(values.Get("department")),
	}
}

// fold lowercases with Turkish rules and maps the dotless i onto i, so "YILMAZ",
// "Yılmaz" and "yilmaz" fold to the same key. A Caser is stateful, hence one per call.
func fold(s string) string {
	return strings.ReplaceAll(cases.Lower(language.Turkish).String(s), "ı", "i")
}

// matches reports whether any field contains q, ignoring case.
func matches(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = fold(q)
	for _, f := range fields {
		if strings.Contains(fold(f), q) {
			return true
		}
	}
	return false
}

// equalOrEmpty is a filter that passes when want is unset.
func equalOrEmpty(want, got string) bool {
	return want == "" || fold(want) == fold(got)
}

// sortKey compares two rows on one field.
type sortKey[T any] func(a, b T) int

func byString[T any](f func(T) string) sortKey[T] {
	return func(a, b T) int { return cmp.Compare(fold(f(a)), fold(f(b))) }
}

// sortRows orders rows using a whitelist of allowed keys. The sort parameter is
// comma-separated; prefix with '-' for descending. Unknown keys are ignored and rows
// keep their incoming order when nothing applies.
func sortRows[T any](rows []T, sortParam string, allowed map[string]sortKey[T]) {
	var keys []sortKey[T]
	for _, raw := range strings.Split(sortParam, ",") {
		s := strings.TrimSpace(raw)
		desc := strings.HasPrefix(s, "-")
		key, ok := allowed[strings.TrimPrefix(s, "-")]
		if !ok {
			continue
		}
		if desc {
			asc := key
			key = func(a, b T) int { return asc(b, a) }
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return
	}
	slices.SortStableFunc(rows, func(a, b T) int {
		for _, k := range keys {
			if c := k(a, b); c != 0 {
				return c
			}
		}
		return 0
	})
}

// page returns the window selected by limit and offset.
func page[T any](rows []T, p listParams) []T {
	if p.offset >= len(rows) {
		return []T{}
	}
	end := min(p.offset+p.limit, len(rows))
	return rows[p.offset:end]
}

type listMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// sendListResponse sorts, pages and writes rows with their meta block.
func sendListResponse[T any](w http.ResponseWriter, rows []T, p listParams, allowed map[string]sortKey[T]) {
	sortRows(rows, p.sort, allowed)
	handlers.WriteJSON(w, http.StatusOK, map[string]any{
		"data": page(rows, p),
		"meta": listMeta{Total: len(rows), Limit: p.limit, Offset: p.offset},
	})
}
