package book

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListParams_Offset(t *testing.T) {
	tests := []struct {
		name       string
		params     ListParams
		wantOffset int
		wantOK     bool
	}{
		{"first page", ListParams{Page: 1, PageSize: 10}, 0, true},
		{"third page", ListParams{Page: 3, PageSize: 10}, 20, true},
		{"page below one", ListParams{Page: 0, PageSize: 10}, 0, true},
		{"largest page that fits", ListParams{Page: math.MaxInt/10 + 1, PageSize: 10}, math.MaxInt / 10 * 10, true},
		{"wraps to small offset", ListParams{Page: 1844674407370955163, PageSize: 10}, 0, false},
		{"wraps negative", ListParams{Page: 922337203685477582, PageSize: 10}, 0, false},
		{"max int", ListParams{Page: math.MaxInt, PageSize: 10}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, ok := tt.params.Offset()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestListParams_BeyondTotal(t *testing.T) {
	assert.False(t, ListParams{Page: 3, PageSize: 10}.BeyondTotal(25))
	assert.True(t, ListParams{Page: 4, PageSize: 10}.BeyondTotal(25))
	assert.True(t, ListParams{Page: 1, PageSize: 10}.BeyondTotal(0))
	assert.True(t, ListParams{Page: 1844674407370955163, PageSize: 10}.BeyondTotal(25))
}
