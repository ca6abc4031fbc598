package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int64
		want  Pagination
	}{
		{
			name: "exact multiple", page: 1, limit: 10, total: 30,
			want: Pagination{CurrentPage: 1, TotalPages: 3, TotalCount: 30, HasNext: true, HasPrev: false},
		},
		{
			name: "partial last page", page: 2, limit: 10, total: 25,
			want: Pagination{CurrentPage: 2, TotalPages: 3, TotalCount: 25, HasNext: true, HasPrev: true},
		},
		{
			name: "last page", page: 3, limit: 10, total: 25,
			want: Pagination{CurrentPage: 3, TotalPages: 3, TotalCount: 25, HasNext: false, HasPrev: true},
		},
		{
			name: "empty listing", page: 1, limit: 10, total: 0,
			want: Pagination{CurrentPage: 1, TotalPages: 0, TotalCount: 0, HasNext: false, HasPrev: false},
		},
		{
			name: "zero limit does not panic", page: 0, limit: 0, total: 0,
			want: Pagination{CurrentPage: 1, TotalPages: 0, TotalCount: 0, HasNext: false, HasPrev: false},
		},
		{
			name: "negative limit degrades to one per page", page: 1, limit: -5, total: 3,
			want: Pagination{CurrentPage: 1, TotalPages: 3, TotalCount: 3, HasNext: true, HasPrev: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NewPagination(tt.page, tt.limit, tt.total))
		})
	}
}
