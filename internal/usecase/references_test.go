package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProductReferences(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantText string
		wantIDs  []int64
	}{
		{
			name:     "no markers",
			text:     "We have no TVs today.",
			wantText: "We have no TVs today.",
		},
		{
			name:     "both spellings collapse to one id",
			text:     "Try A (product_id:5) or A (product id: 5)",
			wantText: "Try A or A",
			wantIDs:  []int64{5},
		},
		{
			name:     "first seen order without duplicates",
			text:     "X (product_id:7), Y (product_id:3) and X again (product_id:7).",
			wantText: "X, Y and X again.",
			wantIDs:  []int64{7, 3},
		},
		{
			name:     "marker without leading space",
			text:     "EcoBulb(product_id:12)!",
			wantText: "EcoBulb!",
			wantIDs:  []int64{12},
		},
		{
			name:     "overflowing id is stripped and ignored",
			text:     "Odd (product_id:99999999999999999999999) item (product_id:2)",
			wantText: "Odd item",
			wantIDs:  []int64{2},
		},
		{
			name:     "malformed marker is left alone",
			text:     "See (product_id:abc)",
			wantText: "See (product_id:abc)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotIDs := ParseProductReferences(tt.text)
			assert.Equal(t, tt.wantText, gotText)
			if tt.wantIDs == nil {
				assert.Empty(t, gotIDs)
			} else {
				assert.Equal(t, tt.wantIDs, gotIDs)
			}
		})
	}
}
