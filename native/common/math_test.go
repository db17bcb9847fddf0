package common

import (
	"math"
	"math/big"
	"testing"

	"repledger/core/errors"
)

func TestSafeAdd(t *testing.T) {
	sum, err := SafeAdd(40, 2)
	if err != nil {
		t.Fatalf("safe add: %v", err)
	}
	if sum != 42 {
		t.Fatalf("expected 42, got %d", sum)
	}
	if _, err := SafeAdd(math.MaxUint64, 1); err != errors.ErrArithmeticOverflow {
		t.Fatalf("expected overflow, got %v", err)
	}
	if _, err := SafeAdd(math.MaxUint64, 0); err != nil {
		t.Fatalf("boundary add should succeed: %v", err)
	}
}

func TestSafeSub(t *testing.T) {
	diff, err := SafeSub(42, 2)
	if err != nil {
		t.Fatalf("safe sub: %v", err)
	}
	if diff != 40 {
		t.Fatalf("expected 40, got %d", diff)
	}
	if _, err := SafeSub(1, 2); err != errors.ErrArithmeticUnderflow {
		t.Fatalf("expected underflow, got %v", err)
	}
	if diff, err := SafeSub(5, 5); err != nil || diff != 0 {
		t.Fatalf("boundary sub should yield zero: %d %v", diff, err)
	}
}

func TestSafeMul(t *testing.T) {
	product, err := SafeMul(6, 7)
	if err != nil {
		t.Fatalf("safe mul: %v", err)
	}
	if product != 42 {
		t.Fatalf("expected 42, got %d", product)
	}
	if _, err := SafeMul(math.MaxUint64, 2); err != errors.ErrArithmeticOverflow {
		t.Fatalf("expected overflow, got %v", err)
	}
	if product, err := SafeMul(0, math.MaxUint64); err != nil || product != 0 {
		t.Fatalf("zero factor should short-circuit: %d %v", product, err)
	}
}

func TestNarrowBig(t *testing.T) {
	narrowed, err := NarrowBig(big.NewInt(1234))
	if err != nil {
		t.Fatalf("narrow: %v", err)
	}
	if narrowed != 1234 {
		t.Fatalf("expected 1234, got %d", narrowed)
	}
	huge := new(big.Int).Lsh(big.NewInt(1), 80)
	if _, err := NarrowBig(huge); err != errors.ErrArithmeticOverflow {
		t.Fatalf("expected overflow, got %v", err)
	}
	if _, err := NarrowBig(big.NewInt(-1)); err != errors.ErrArithmeticUnderflow {
		t.Fatalf("expected underflow for negative, got %v", err)
	}
}
