package stage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxzhao/bilicache/pkg/discover"
	"github.com/hxzhao/bilicache/pkg/pipeline"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		content     []byte
		wantErr     bool
		errContains string
	}{
		{
			name:    "non_empty_content",
			content: []byte(`{"title":"test"}`),
		},
		{
			name:        "empty_content",
			content:     []byte{},
			wantErr:     true,
			errContains: "entry file is empty",
		},
		{
			name:        "nil_content",
			content:     nil,
			wantErr:     true,
			errContains: "entry file is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &pipeline.FileContext{
				Entry:   discover.Entry{RelativePath: "a/entry.json"},
				Content: tt.content,
			}

			err := Validate{}.Run(context.Background(), fc, pipeline.Options{})
			if tt.wantErr {
				require.Error(t, err, "Run should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				assert.Contains(t, err.Error(), "a/entry.json", "error should carry the entry path")
				return
			}
			require.NoError(t, err, "Run should succeed")
		})
	}
}
