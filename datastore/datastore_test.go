package datastore

import "testing"

func TestParseListOptions(t *testing.T) {
	tests := []struct {
		name          string
		limit, offset int
		want          ListOptions
	}{
		{"zero limit uses the default", 0, 0, ListOptions{Limit: DefaultLimit, Offset: 0}},
		{"explicit values pass through", 10, 20, ListOptions{Limit: 10, Offset: 20}},
		{"negative limit disables paging", -5, 20, ListOptions{Limit: -1, Offset: 0}},
		{"negative offset is clamped", 10, -3, ListOptions{Limit: 10, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseListOptions(tt.limit, tt.offset); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
