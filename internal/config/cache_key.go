package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RefreshTokenKey returns the cache key holding the user id behind a
// refresh token.
func (r *CacheKeyStruct) RefreshTokenKey(token string) string {
	return fmt.Sprintf("refresh_token:%s", token)
}

var CacheKey = NewCacheKeyStruct()
