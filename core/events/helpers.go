package events

import (
	"strconv"

	"repledger/crypto"
)

func formatAddress(addr [20]byte) string {
	return crypto.MustNewAddress(crypto.RepPrefix, addr[:]).String()
}

func formatAmount(amount uint64) string {
	return strconv.FormatUint(amount, 10)
}
