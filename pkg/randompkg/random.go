// Package randompkg provides functionality for generating random applications common items.
package randompkg

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Intn is a shortcut for generating a random integer in [0, max) using crypto/rand.
func Intn(max int64) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// IntBetween generates a uniformly distributed random integer in [min, max], both ends included.
func IntBetween(min, max int64) int64 {
	return min + Intn(max-min+1)
}

// NumericString renders a random integer in [min, max] as a decimal string.
func NumericString(min, max int64) string {
	return strconv.FormatInt(IntBetween(min, max), 10)
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := int64(len(alphabet))

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// Owner generates a random external user id.
func Owner() string {
	return String(6)
}
