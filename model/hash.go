package model

import (
	"strconv"

	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns content fingerprint
func Hash(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}

// HashHex returns content fingerprint as fixed width hex
func HashHex(data []byte) (string, error) {
	sum, err := Hash(data)
	if err != nil {
		return "", err
	}
	text := strconv.FormatUint(sum, 16)
	for len(text) < 16 {
		text = "0" + text
	}
	return text, nil
}
