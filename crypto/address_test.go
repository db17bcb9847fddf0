package crypto

import "testing"

func TestAddressRoundTrip(t *testing.T) {
	var raw [20]byte
	raw[0] = 0xab
	raw[19] = 0x01

	addr := MustNewAddress(RepPrefix, raw[:])
	encoded := addr.String()

	decoded, err := DecodeAddress(encoded)
	if err != nil {
		t.Fatalf("decode %q: %v", encoded, err)
	}
	if decoded.Raw() != raw {
		t.Fatalf("raw bytes changed across round trip")
	}
	if decoded.Prefix() != RepPrefix {
		t.Fatalf("prefix = %q, want %q", decoded.Prefix(), RepPrefix)
	}
}

func TestNewAddressRejectsShortInput(t *testing.T) {
	if _, err := NewAddress(RepPrefix, []byte{0x01, 0x02}); err == nil {
		t.Fatalf("expected error for short payload")
	}
}

func TestDecodeAddressRejectsGarbage(t *testing.T) {
	if _, err := DecodeAddress("not-bech32"); err == nil {
		t.Fatalf("expected error for malformed address")
	}
}
