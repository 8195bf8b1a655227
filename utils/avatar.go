package utils

import (
	"net/url"
	"time"

	"golang.org/x/exp/rand"
)

const seedCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var seedRand = func() *rand.Rand {
	src := &rand.LockedSource{}
	src.Seed(uint64(time.Now().UnixNano()))
	return rand.New(src)
}()

// NewAvatarSeed returns a random alphanumeric seed of length n.
func NewAvatarSeed(n int) string {
	seed := make([]byte, n)
	for i := range seed {
		seed[i] = seedCharset[seedRand.Intn(len(seedCharset))]
	}
	return string(seed)
}

// AvatarURL builds a placeholder avatar link for the given seed.
func AvatarURL(baseURL, seed string) string {
	return baseURL + "?seed=" + url.QueryEscape(seed)
}
