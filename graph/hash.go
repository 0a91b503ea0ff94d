package graph

import (
	"github.com/minio/highwayhash"
	"strconv"
)

var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns 64-bit highway hash of data
func Hash(data []byte) (uint64, error) {
	hasher, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	if _, err = hasher.Write(data); err != nil {
		return 0, err
	}
	return hasher.Sum64(), nil
}

// HashID returns hex encoded hash of a logical id, the id itself is returned when hashing fails
func HashID(logicalID string) string {
	value, err := Hash([]byte(logicalID))
	if err != nil {
		return logicalID
	}
	return strconv.FormatUint(value, 16)
}
