package server

import (
	"errors"
	"net/http"
	"strconv"

	"kvvec/internal/vector"
	pkgerrors "kvvec/pkg/errors"
	"kvvec/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	maxRandomLength = 4096
	// n! overflows uint64 past 20
	maxCombinatoricsN = 20
)

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, pkgerrors.ErrVectorNotFound),
		errors.Is(err, pkgerrors.ErrEntryNotFound),
		errors.Is(err, pkgerrors.ErrEmptyVector):
		return http.StatusNotFound
	case errors.Is(err, pkgerrors.ErrVectorExists):
		return http.StatusConflict
	case errors.Is(err, pkgerrors.ErrInvalidName),
		errors.Is(err, pkgerrors.ErrInvalidCapacity):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

func parseKey(c *gin.Context) (int32, bool) {
	key, err := strconv.ParseInt(c.Param("key"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key must be a 32-bit integer"})
		return 0, false
	}
	return int32(key), true
}

func queryUint(c *gin.Context, name string, bits int) (uint64, bool) {
	v, err := strconv.ParseUint(c.Query(name), 10, bits)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a non-negative integer"})
		return 0, false
	}
	return v, true
}

func (s *Server) handleHealthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (s *Server) handleCreateVector() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateVectorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		info, err := s.db.CreateVector(req.Name, req.Capacity)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusCreated, info)
	}
}

func (s *Server) handleListVectors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, ListVectorsResponse{Vectors: s.db.ListVectors()})
	}
}

func (s *Server) handleGetVector() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		info, err := s.db.GetVector(name)
		if err != nil {
			abortWithError(c, err)
			return
		}
		entries, err := s.db.Entries(name)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, GetVectorResponse{Info: info, Entries: entries})
	}
}

func (s *Server) handleDeleteVector() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.db.DeleteVector(c.Param("name")); err != nil {
			abortWithError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func (s *Server) handlePush() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PushRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		info, err := s.db.Push(c.Param("name"), vector.Entry{Key: *req.Key, Value: *req.Value})
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, info)
	}
}

func (s *Server) handlePop() gin.HandlerFunc {
	return func(c *gin.Context) {
		e, err := s.db.Pop(c.Param("name"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, e)
	}
}

func (s *Server) handleFind() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := parseKey(c)
		if !ok {
			return
		}

		idx, err := s.db.Find(c.Param("name"), key)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, FindResponse{Key: key, Index: idx})
	}
}

func (s *Server) handleDeleteEntry() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := parseKey(c)
		if !ok {
			return
		}

		if err := s.db.Delete(c.Param("name"), key); err != nil {
			abortWithError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func (s *Server) handleSort() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.db.Sort(c.Param("name")); err != nil {
			abortWithError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func (s *Server) handleSeed() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, SeedResponse{Seed: utils.StrongSeed()})
	}
}

func (s *Server) handleMemory() gin.HandlerFunc {
	return func(c *gin.Context) {
		rss, err := utils.MemUsage()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, MemoryResponse{RSSKiB: rss})
	}
}

func (s *Server) handleRandom() gin.HandlerFunc {
	return func(c *gin.Context) {
		n, ok := queryUint(c, "length", 32)
		if !ok {
			return
		}
		if n == 0 || n > maxRandomLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": "length must be between 1 and 4096"})
			return
		}

		c.JSON(http.StatusOK, RandomResponse{Value: utils.NewRandomString(int(n))})
	}
}

func (s *Server) handleCombinatorics() gin.HandlerFunc {
	return func(c *gin.Context) {
		n, ok := queryUint(c, "n", 64)
		if !ok {
			return
		}
		r, ok := queryUint(c, "r", 64)
		if !ok {
			return
		}
		if n > maxCombinatoricsN {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be at most 20"})
			return
		}

		c.JSON(http.StatusOK, CombinatoricsResponse{
			N:           n,
			R:           r,
			Permutation: utils.Permutation(n, r),
			Combination: utils.Combination(n, r),
		})
	}
}

func (s *Server) handleDivCeil() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := queryUint(c, "a", 32)
		if !ok {
			return
		}
		b, ok := queryUint(c, "b", 32)
		if !ok {
			return
		}
		if b == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": pkgerrors.ErrDivideByZero.Error()})
			return
		}

		c.JSON(http.StatusOK, DivCeilResponse{
			A:      uint32(a),
			B:      uint32(b),
			Result: utils.DivCeil(uint32(a), uint32(b)),
		})
	}
}
