package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func TestMethodID(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		want      string
	}{
		{
			name:      "erc20 transfer",
			signature: "transfer(address,uint256)",
			want:      "a9059cbb",
		},
		{
			name:      "erc20 approve",
			signature: "approve(address,uint256)",
			want:      "095ea7b3",
		},
		{
			name:      "erc20 transferFrom",
			signature: "transferFrom(address,address,uint256)",
			want:      "23b872dd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MethodID(tt.signature)
			require.Len(t, got, 4)
			require.Equal(t, tt.want, common.Bytes2Hex(got))
		})
	}
}

func TestTransfer(t *testing.T) {
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	amount := big.NewInt(42)

	inv := Transfer(to, amount)

	require.Equal(t, to, inv.Target)
	require.Empty(t, inv.Calldata)
	require.Equal(t, int64(42), inv.Value.Int64())

	// The invocation must hold its own copy of the amount.
	amount.SetInt64(99)
	require.Equal(t, int64(42), inv.Value.Int64())
}

func TestCallValueNilValue(t *testing.T) {
	inv := Invocation{Target: common.HexToAddress("0x01")}
	require.Equal(t, int64(0), inv.CallValue().Int64())
}

func TestCallMsg(t *testing.T) {
	from := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	target := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	inv := NewInvocation(target, []byte{0x01, 0x02})

	msg := inv.CallMsg(from)

	require.Equal(t, from, msg.From)
	require.NotNil(t, msg.To)
	require.Equal(t, target, *msg.To)
	require.Equal(t, []byte{0x01, 0x02}, msg.Data)
	require.Equal(t, int64(0), msg.Value.Int64())
}

func TestReceiptFromTypes(t *testing.T) {
	tests := []struct {
		name        string
		status      uint64
		wantSuccess bool
	}{
		{name: "successful execution", status: types.ReceiptStatusSuccessful, wantSuccess: true},
		{name: "reverted execution", status: types.ReceiptStatusFailed, wantSuccess: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &types.Receipt{
				TxHash:      common.HexToHash("0xdead"),
				BlockNumber: big.NewInt(7),
				Status:      tt.status,
				GasUsed:     21000,
			}

			got := ReceiptFromTypes(src)

			require.Equal(t, src.TxHash, got.TxHash)
			require.Equal(t, uint64(7), got.BlockNumber)
			require.Equal(t, tt.wantSuccess, got.Success)
			require.Equal(t, uint64(21000), got.GasUsed)
		})
	}
}
