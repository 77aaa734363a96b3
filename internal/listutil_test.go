package internal

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesFoldsTurkish(t *testing.T) {
	tests := []struct {
		q, field string
		want     bool
	}{
		{"yılmaz", "Ahmet YILMAZ", true},
		{"YILMAZ", "Ahmet Yılmaz", true},
		{"istanbul", "İSTANBUL Şube", true},
		{"ışık", "IŞIK", true},
		{"monitör", "MONİTÖR", true},
		{"", "anything", true},
		{"yazıcı", "Laptop", false},
	}
	for _, tt := range tests {
		t.Run(tt.q+"/"+tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, matches(tt.q, tt.field))
		})
	}
}

func TestEqualOrEmpty(t *testing.T) {
	assert.True(t, equalOrEmpty("", "Laptop"))
	assert.True(t, equalOrEmpty("ön büro", "ÖN BÜRO"))
	assert.True(t, equalOrEmpty("bilgi işlem", "Bilgi İşlem"))
	assert.False(t, equalOrEmpty("Laptop", "Masaüstü"))
}

func TestSortRowsFoldsAndPages(t *testing.T) {
	rows := []string{"zeynep", "İbrahim", "ahmet", "Can"}
	allowed := map[string]sortKey[string]{"name": byString(func(s string) string { return s })}

	sortRows(rows, "name", allowed)
	assert.Equal(t, []string{"ahmet", "Can", "İbrahim", "zeynep"}, rows)

	sortRows(rows, "-name,unknown", allowed)
	assert.Equal(t, []string{"zeynep", "İbrahim", "Can", "ahmet"}, rows)

	p := parseListParams(httptest.NewRequest("GET", "/x?limit=2&offset=3", nil))
	assert.Equal(t, []string{"ahmet"}, page(rows, p))
	p = parseListParams(httptest.NewRequest("GET", "/x?limit=500&offset=9", nil))
	assert.Equal(t, 200, p.limit)
	assert.Empty(t, page(rows, p))
}
