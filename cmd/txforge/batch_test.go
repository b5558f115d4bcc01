package main

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestParseCall(t *testing.T) {
	inv, err := parseCall("0x1111111111111111111111111111111111111111:0xa9059cbb")
	if err != nil {
		t.Fatalf("parseCall failed: %v", err)
	}

	want := common.HexToAddress("0x1111111111111111111111111111111111111111")
	if inv.Target != want {
		t.Errorf("target = %s, want %s", inv.Target.Hex(), want.Hex())
	}
	if len(inv.Calldata) != 4 {
		t.Errorf("calldata = %x, want the 4-byte selector", inv.Calldata)
	}
	if inv.Value != nil {
		t.Errorf("value should stay unset, got %s", inv.Value)
	}
}

func TestParseCallWithValue(t *testing.T) {
	inv, err := parseCall("0x2222222222222222222222222222222222222222:0x:2gwei")
	if err != nil {
		t.Fatalf("parseCall failed: %v", err)
	}

	if len(inv.Calldata) != 0 {
		t.Errorf("calldata should be empty, got %x", inv.Calldata)
	}
	if inv.Value == nil || inv.Value.Cmp(big.NewInt(2_000_000_000)) != 0 {
		t.Errorf("value = %v, want 2 gwei in wei", inv.Value)
	}
}

func TestParseCallRejects(t *testing.T) {
	args := []string{
		"0x1111111111111111111111111111111111111111",
		"nope:0x01",
		"0x1111111111111111111111111111111111111111:zz",
		"0x1111111111111111111111111111111111111111:0x01:lots",
	}
	for _, arg := range args {
		if _, err := parseCall(arg); err == nil {
			t.Errorf("parseCall(%q) should fail", arg)
		}
	}
}
