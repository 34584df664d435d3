package ports_test

import (
	"math"
	"testing"

	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageRequest(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		size    int
		wantErr bool
	}{
		{name: "first page", page: 0, size: 20},
		{name: "max size", page: 3, size: 100},
		{name: "huge page", page: math.MaxInt, size: 100},
		{name: "negative page", page: -1, size: 20, wantErr: true},
		{name: "zero size", page: 0, size: 0, wantErr: true},
		{name: "size above max", page: 0, size: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ports.NewPageRequest(tt.page, tt.size, 100)

			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.size, p.Size)
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, ports.PageRequest{Page: 0, Size: 20}.Offset())
	assert.Equal(t, 40, ports.PageRequest{Page: 2, Size: 20}.Offset())
	assert.Equal(t, math.MaxInt, ports.PageRequest{Page: math.MaxInt / 50, Size: 100}.Offset())
	assert.Equal(t, math.MaxInt, ports.PageRequest{Page: math.MaxInt, Size: 2}.Offset())
	assert.Equal(t, 0, ports.PageRequest{Page: -3, Size: 20}.Offset())
}

func TestPageRequest_Validate(t *testing.T) {
	require.NoError(t, ports.PageRequest{Page: 0, Size: 1}.Validate())
	require.ErrorIs(t, ports.PageRequest{}.Validate(), errs.ErrValueIsOutOfRange)
	require.ErrorIs(t, ports.PageRequest{Page: -1, Size: 20}.Validate(), errs.ErrValueIsOutOfRange)
}
