package server

import (
	DB "kvvec/internal/db"
	"kvvec/internal/vector"
)

// CreateVectorRequest represents the request body for creating a vector.
// A zero capacity uses the configured default.
type CreateVectorRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity"`
}

// GetVectorResponse is a vector's metadata plus its entries in order
type GetVectorResponse struct {
	DB.Info
	Entries []vector.Entry `json:"entries"`
}

type ListVectorsResponse struct {
	Vectors []DB.Info `json:"vectors"`
}

// PushRequest uses pointers so that a missing key or value is rejected
// instead of read as zero.
type PushRequest struct {
	Key   *int32 `json:"key" binding:"required"`
	Value *int32 `json:"value" binding:"required"`
}

type FindResponse struct {
	Key   int32 `json:"key"`
	Index int   `json:"index"`
}

type SeedResponse struct {
	Seed uint64 `json:"seed"`
}

type MemoryResponse struct {
	RSSKiB uint64 `json:"rss_kib"`
}

type RandomResponse struct {
	Value string `json:"value"`
}

type CombinatoricsResponse struct {
	N           uint64 `json:"n"`
	R           uint64 `json:"r"`
	Permutation uint64 `json:"permutation"`
	Combination uint64 `json:"combination"`
}

type DivCeilResponse struct {
	A      uint32 `json:"a"`
	B      uint32 `json:"b"`
	Result uint32 `json:"result"`
}
