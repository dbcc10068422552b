package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"kvvec/internal/config"
	"kvvec/internal/db"
	"kvvec/internal/vector"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	conf, err := config.NewConfig(t.TempDir())
	require.NoError(t, err)
	conf.DefaultCapacity = 2
	conf.Server.Mode = gin.TestMode

	database, err := db.New(conf)
	require.NoError(t, err)
	require.NoError(t, database.Open())
	t.Cleanup(func() { _ = database.Close() })

	server := New(database, conf)
	require.NotNil(t, server)
	return server
}

func do(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func push(t *testing.T, s *Server, name string, key, value int32) {
	t.Helper()
	w := do(t, s, http.MethodPost, "/v1/vectors/"+name+"/entries", PushRequest{Key: &key, Value: &value})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHandleHealthCheck(t *testing.T) {
	server := setupTestServer(t)
	w := do(t, server, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleCreateVector(t *testing.T) {
	server := setupTestServer(t)

	w := do(t, server, http.MethodPost, "/v1/vectors", CreateVectorRequest{Name: "orders", Capacity: 8})
	require.Equal(t, http.StatusCreated, w.Code)
	var info db.Info
	decode(t, w, &info)
	assert.Equal(t, db.Info{Name: "orders", Capacity: 8}, info)

	// duplicate
	w = do(t, server, http.MethodPost, "/v1/vectors", CreateVectorRequest{Name: "orders"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// missing name
	w = do(t, server, http.MethodPost, "/v1/vectors", CreateVectorRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// bad name and capacity
	w = do(t, server, http.MethodPost, "/v1/vectors", CreateVectorRequest{Name: "a b"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, server, http.MethodPost, "/v1/vectors", CreateVectorRequest{Name: "neg", Capacity: -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// oversized capacity leaves nothing behind
	w = do(t, server, http.MethodPost, "/v1/vectors", CreateVectorRequest{Name: "huge", Capacity: 1 << 46})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, server, http.MethodGet, "/v1/vectors/huge", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// default capacity
	w = do(t, server, http.MethodPost, "/v1/vectors", CreateVectorRequest{Name: "small"})
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &info)
	assert.Equal(t, 2, info.Capacity)
}

func TestHandleCreateVector_OversizedKeepsStoreOpenable(t *testing.T) {
	dir := t.TempDir()
	conf, err := config.NewConfig(dir)
	require.NoError(t, err)
	conf.Server.Mode = gin.TestMode
	database, err := db.New(conf)
	require.NoError(t, err)
	require.NoError(t, database.Open())
	server := New(database, conf)

	w := do(t, server, http.MethodPost, "/v1/vectors", CreateVectorRequest{Name: "huge", Capacity: conf.MaxCapacity + 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, server, http.MethodPost, "/v1/vectors", CreateVectorRequest{Name: "ok", Capacity: 4})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, database.Close())

	reopened, err := db.New(conf)
	require.NoError(t, err)
	require.NoError(t, reopened.Open())
	t.Cleanup(func() { _ = reopened.Close() })
	w = do(t, New(reopened, conf), http.MethodGet, "/v1/vectors", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list ListVectorsResponse
	decode(t, w, &list)
	require.Len(t, list.Vectors, 1)
	assert.Equal(t, "ok", list.Vectors[0].Name)
}

func TestHandleGetListDeleteVector(t *testing.T) {
	server := setupTestServer(t)
	for _, name := range []string{"b", "a"} {
		w := do(t, server, http.MethodPost, "/v1/vectors", CreateVectorRequest{Name: name})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	push(t, server, "a", 1, 10)

	w := do(t, server, http.MethodGet, "/v1/vectors/a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got GetVectorResponse
	decode(t, w, &got)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, 1, got.Length)
	assert.Equal(t, []vector.Entry{{Key: 1, Value: 10}}, got.Entries)

	w = do(t, server, http.MethodGet, "/v1/vectors", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list ListVectorsResponse
	decode(t, w, &list)
	require.Len(t, list.Vectors, 2)
	assert.Equal(t, "a", list.Vectors[0].Name)
	assert.Equal(t, "b", list.Vectors[1].Name)

	w = do(t, server, http.MethodDelete, "/v1/vectors/a", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, server, http.MethodGet, "/v1/vectors/a", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, server, http.MethodDelete, "/v1/vectors/a", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleEntries(t *testing.T) {
	server := setupTestServer(t)
	w := do(t, server, http.MethodPost, "/v1/vectors", CreateVectorRequest{Name: "v", Capacity: 1})
	require.Equal(t, http.StatusCreated, w.Code)

	push(t, server, "v", 3, 1)
	push(t, server, "v", 1, 5)
	push(t, server, "v", 1, 2)
	push(t, server, "v", 2, 9)

	// find returns the first match
	w = do(t, server, http.MethodGet, "/v1/vectors/v/entries/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found FindResponse
	decode(t, w, &found)
	assert.Equal(t, FindResponse{Key: 1, Index: 1}, found)

	w = do(t, server, http.MethodGet, "/v1/vectors/v/entries/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, server, http.MethodGet, "/v1/vectors/v/entries/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, server, http.MethodGet, "/v1/vectors/v/entries/4294967296", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, server, http.MethodPost, "/v1/vectors/v/sort", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, server, http.MethodDelete, "/v1/vectors/v/entries/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, server, http.MethodDelete, "/v1/vectors/v/entries/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, server, http.MethodGet, "/v1/vectors/v", nil)
	var got GetVectorResponse
	decode(t, w, &got)
	assert.Equal(t, []vector.Entry{{Key: 1, Value: 5}, {Key: 2, Value: 9}, {Key: 3, Value: 1}}, got.Entries)
	assert.Equal(t, 4, got.Capacity)
	assert.Equal(t, 2, got.Grows)

	w = do(t, server, http.MethodPost, "/v1/vectors/v/entries/pop", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var e vector.Entry
	decode(t, w, &e)
	assert.Equal(t, vector.Entry{Key: 3, Value: 1}, e)
}

func TestHandlePush_Invalid(t *testing.T) {
	server := setupTestServer(t)
	w := do(t, server, http.MethodPost, "/v1/vectors", CreateVectorRequest{Name: "v"})
	require.Equal(t, http.StatusCreated, w.Code)

	// value missing
	w = do(t, server, http.MethodPost, "/v1/vectors/v/entries", map[string]int{"key": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// key out of int32 range
	w = do(t, server, http.MethodPost, "/v1/vectors/v/entries", map[string]int64{"key": 1 << 40, "value": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// zero values are accepted
	push(t, server, "v", 0, 0)

	key, value := int32(1), int32(1)
	w = do(t, server, http.MethodPost, "/v1/vectors/missing/entries", PushRequest{Key: &key, Value: &value})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlePop_Empty(t *testing.T) {
	server := setupTestServer(t)
	w := do(t, server, http.MethodPost, "/v1/vectors", CreateVectorRequest{Name: "v"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, server, http.MethodPost, "/v1/vectors/v/entries/pop", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, server, http.MethodGet, "/v1/vectors/v", nil)
	var got GetVectorResponse
	decode(t, w, &got)
	assert.Equal(t, 0, got.Length)
}

func TestHandleUtils(t *testing.T) {
	server := setupTestServer(t)

	w := do(t, server, http.MethodGet, "/v1/utils/seed", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, server, http.MethodGet, "/v1/utils/random?length=24", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rnd RandomResponse
	decode(t, w, &rnd)
	assert.Len(t, rnd.Value, 24)
	assert.Equal(t, "", strings.Trim(rnd.Value, "abcdefghijklmnopqrstuvwxyz0123456789"))

	for _, q := range []string{"", "?length=0", "?length=5000", "?length=-1"} {
		w = do(t, server, http.MethodGet, "/v1/utils/random"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}

	w = do(t, server, http.MethodGet, "/v1/utils/combinatorics?n=5&r=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var comb CombinatoricsResponse
	decode(t, w, &comb)
	assert.Equal(t, CombinatoricsResponse{N: 5, R: 2, Permutation: 20, Combination: 10}, comb)

	w = do(t, server, http.MethodGet, "/v1/utils/combinatorics?n=21&r=2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, server, http.MethodGet, "/v1/utils/divceil?a=10&b=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var div DivCeilResponse
	decode(t, w, &div)
	assert.Equal(t, uint32(4), div.Result)

	w = do(t, server, http.MethodGet, "/v1/utils/divceil?a=10&b=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMemory(t *testing.T) {
	if _, err := os.Stat("/proc/self/statm"); err != nil {
		t.Skip("no /proc on this platform")
	}
	server := setupTestServer(t)

	w := do(t, server, http.MethodGet, "/v1/utils/memory", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mem MemoryResponse
	decode(t, w, &mem)
	assert.Greater(t, mem.RSSKiB, uint64(0))
}

func TestHandleMetrics(t *testing.T) {
	server := setupTestServer(t)
	w := do(t, server, http.MethodPost, "/v1/vectors", CreateVectorRequest{Name: "m"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, server, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kvvec_operations_total")
	assert.Contains(t, w.Body.String(), "kvvec_vectors")
}
