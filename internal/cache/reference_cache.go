package cache

import (
	"time"

	ncmdomain "github.com/fiscalbr/classtrib/internal/ncm/domain"
)

const defaultReferenceTTL = 10 * time.Minute

// ReferenceCache stores the NCM hierarchy lists. They change only on data
// reloads, so a short TTL keeps the hot read path off the database without a
// dedicated invalidation channel.
type ReferenceCache interface {
	GetChapters() ([]ncmdomain.Chapter, bool)
	SetChapters(chapters []ncmdomain.Chapter)
	GetPositions() ([]ncmdomain.Position, bool)
	SetPositions(positions []ncmdomain.Position)
	GetSubpositions() ([]ncmdomain.Subposition, bool)
	SetSubpositions(subpositions []ncmdomain.Subposition)
	Purge()
}

type referenceCache struct {
	chapters     Cache[string, []ncmdomain.Chapter]
	positions    Cache[string, []ncmdomain.Position]
	subpositions Cache[string, []ncmdomain.Subposition]
	ttl          time.Duration
}

const listKey = "all"

func NewReferenceCache() ReferenceCache {
	return &referenceCache{
		chapters:     NewTTLCache[string, []ncmdomain.Chapter](),
		positions:    NewTTLCache[string, []ncmdomain.Position](),
		subpositions: NewTTLCache[string, []ncmdomain.Subposition](),
		ttl:          defaultReferenceTTL,
	}
}

func (c *referenceCache) GetChapters() ([]ncmdomain.Chapter, bool) {
	return c.chapters.Get(listKey)
}

func (c *referenceCache) SetChapters(chapters []ncmdomain.Chapter) {
	if len(chapters) == 0 {
		return
	}
	c.chapters.Set(listKey, chapters, c.ttl)
}

func (c *referenceCache) GetPositions() ([]ncmdomain.Position, bool) {
	return c.positions.Get(listKey)
}

func (c *referenceCache) SetPositions(positions []ncmdomain.Position) {
	if len(positions) == 0 {
		return
	}
	c.positions.Set(listKey, positions, c.ttl)
}

func (c *referenceCache) GetSubpositions() ([]ncmdomain.Subposition, bool) {
	return c.subpositions.Get(listKey)
}

func (c *referenceCache) SetSubpositions(subpositions []ncmdomain.Subposition) {
	if len(subpositions) == 0 {
		return
	}
	c.subpositions.Set(listKey, subpositions, c.ttl)
}

func (c *referenceCache) Purge() {
	c.chapters.Purge()
	c.positions.Purge()
	c.subpositions.Purge()
}
