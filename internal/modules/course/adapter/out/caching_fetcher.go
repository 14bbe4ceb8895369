package out

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"coursemenu/internal/modules/course/domain"
	courseout "coursemenu/internal/modules/course/port/out"
)

// CachingFetcher memoizes objects by class and id so an object referenced
// twice during a run is requested once. Course listings are not cached.
type CachingFetcher struct {
	inner courseout.ObjectFetcher
	cache *cache.Cache
}

func NewCachingFetcher(inner courseout.ObjectFetcher, ttl time.Duration) courseout.ObjectFetcher {
	return &CachingFetcher{inner: inner, cache: cache.New(ttl, 2*ttl)}
}

func cacheKey(class domain.EntityClass, id int64) string {
	return string(class) + ":" + strconv.FormatInt(id, 10)
}

func (c *CachingFetcher) FetchObject(ctx context.Context, cred domain.Credential, class domain.EntityClass, id int64) (json.RawMessage, error) {
	if v, ok := c.cache.Get(cacheKey(class, id)); ok {
		return v.(json.RawMessage), nil
	}
	raw, err := c.inner.FetchObject(ctx, cred, class, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(cacheKey(class, id), raw)
	return raw, nil
}

// FetchObjects returns cached objects first, then whatever the inner fetcher
// returned for the missing ids.
func (c *CachingFetcher) FetchObjects(ctx context.Context, cred domain.Credential, class domain.EntityClass, ids []int64) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(ids))
	missing := make([]int64, 0, len(ids))
	for _, id := range ids {
		if v, ok := c.cache.Get(cacheKey(class, id)); ok {
			out = append(out, v.(json.RawMessage))
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}
	fetched, err := c.inner.FetchObjects(ctx, cred, class, missing)
	if err != nil {
		return nil, err
	}
	for _, raw := range fetched {
		var probe struct {
			ID int64 `json:"id"`
		}
		if json.Unmarshal(raw, &probe) == nil && probe.ID != 0 {
			c.cache.SetDefault(cacheKey(class, probe.ID), raw)
		}
		out = append(out, raw)
	}
	return out, nil
}

func (c *CachingFetcher) ListCourses(ctx context.Context, cred domain.Credential, page int) ([]json.RawMessage, bool, error) {
	return c.inner.ListCourses(ctx, cred, page)
}
