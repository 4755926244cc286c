package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey = "response_meta"
	cacheHitKey     = "cache_hit"
)

type responseMeta struct {
	start  time.Time
	values map[string]interface{}
}

// WithResponseMeta starts the per-request metadata that handlers may attach to
// the response envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, &responseMeta{start: time.Now(), values: map[string]interface{}{}})
		c.Next()
	}
}

// SetCacheHit records whether the response was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	SetMeta(c, cacheHitKey, hit)
}

// SetMeta stores an arbitrary key on the response metadata.
func SetMeta(c *gin.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	meta := lookupMeta(c)
	if meta == nil {
		meta = &responseMeta{values: map[string]interface{}{}}
		c.Set(responseMetaKey, meta)
	}
	meta.values[key] = value
}

// ExtractMeta returns a snapshot of the metadata for the envelope. When
// WithResponseMeta is installed it includes processing_time_ms up to now.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	meta := lookupMeta(c)
	if meta == nil {
		return nil
	}
	out := make(map[string]interface{}, len(meta.values)+1)
	for k, v := range meta.values {
		out[k] = v
	}
	if !meta.start.IsZero() {
		out["processing_time_ms"] = time.Since(meta.start).Milliseconds()
	}
	return out
}

func lookupMeta(c *gin.Context) *responseMeta {
	v, exists := c.Get(responseMetaKey)
	if !exists {
		return nil
	}
	meta, _ := v.(*responseMeta)
	return meta
}
