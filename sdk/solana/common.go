package solana

import (
	"crypto/sha256"
)

// Anchor discriminators are the first 8 bytes of sha256("<namespace>:<name>").
const discriminatorLength = 8

func anchorDiscriminator(namespace, name string) [discriminatorLength]byte {
	sum := sha256.Sum256([]byte(namespace + ":" + name))

	var d [discriminatorLength]byte
	copy(d[:], sum[:discriminatorLength])

	return d
}

const (
	// accountStorageOverhead is the number of bytes the runtime charges rent for on top of the
	// account data.
	accountStorageOverhead = 128
	lamportsPerByteYear    = 3480
	exemptionThresholdYrs  = 2
)

// RentExemptMinimum returns the minimum balance that makes an account holding dataLen bytes
// exempt from rent under the default rent parameters.
func RentExemptMinimum(dataLen int) uint64 {
	return uint64(accountStorageOverhead+dataLen) * lamportsPerByteYear * exemptionThresholdYrs
}

func chunkIndexes(numItems int, chunkSize int) [][2]int {
	indexes := make([][2]int, 0)

	for i := 0; i < numItems; i += chunkSize {
		end := i + chunkSize
		if end > numItems {
			end = numItems
		}
		indexes = append(indexes, [2]int{i, end})
	}

	return indexes
}
