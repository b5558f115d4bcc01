package gas

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGwei(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantWei int64
		wantErr bool
	}{
		{name: "whole", amount: "2", wantWei: 2_000_000_000},
		{name: "fractional", amount: "0.5", wantWei: 500_000_000},
		{name: "nine decimals", amount: "1.000000001", wantWei: 1_000_000_001},
		{name: "zero", amount: "0", wantWei: 0},
		{name: "padded", amount: " 3 ", wantWei: 3_000_000_000},
		{name: "sub-wei", amount: "0.0000000001", wantErr: true},
		{name: "negative", amount: "-1", wantErr: true},
		{name: "garbage", amount: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wei, err := ParseGwei(tt.amount)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantWei, wei.Int64())
		})
	}
}

func TestFormatGwei(t *testing.T) {
	tests := []struct {
		wei  int64
		want string
	}{
		{wei: 2_000_000_000, want: "2"},
		{wei: 500_000_000, want: "0.5"},
		{wei: 1_000_000_001, want: "1.000000001"},
		{wei: 0, want: "0"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, FormatGwei(big.NewInt(tt.wei)))
	}
	require.Equal(t, "0", FormatGwei(nil))
}
