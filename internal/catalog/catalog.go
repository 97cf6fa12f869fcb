// Package catalog holds the immutable list of titles reviewed in a session.
package catalog

import (
	"sort"
	"strings"
)

// Item is one catalog title. Items are never mutated after load.
type Item struct {
	ID            int64
	Title         string
	OriginalTitle string
	Score         *float64
	ImageRef      string
	Synopsis      string
	EpisodeCount  int
	Year          int
	// Tags keeps the raw delimited tag text; matching against it is substring based.
	Tags string
}

// ScoreOrZero returns the score, treating an absent score as 0.
func (i Item) ScoreOrZero() float64 {
	if i.Score == nil {
		return 0
	}
	return *i.Score
}

// TagList splits the raw tag text into trimmed, non-empty tags.
func (i Item) TagList() []string {
	return splitTags(i.Tags)
}

// Catalog is an ordered, id-indexed collection of items.
type Catalog struct {
	items   []Item
	index   map[int64]int
	dropped int
}

// New builds a catalog preserving the given order. Later items reusing an id
// already present are discarded so that ids stay unique.
func New(items []Item) *Catalog {
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		index: make(map[int64]int, len(items)),
	}
	for _, item := range items {
		if _, exists := c.index[item.ID]; exists {
			c.dropped++
			continue
		}
		c.index[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}
	return c
}

// Items returns the items in catalog order. The slice must not be modified.
func (c *Catalog) Items() []Item {
	return c.items
}

// Len reports the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Dropped reports how many source rows were discarded while building the catalog.
func (c *Catalog) Dropped() int {
	return c.dropped
}

// Get looks up an item by id.
func (c *Catalog) Get(id int64) (Item, bool) {
	idx, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[idx], true
}

// Contains reports whether id is part of the catalog.
func (c *Catalog) Contains(id int64) bool {
	_, ok := c.index[id]
	return ok
}

// HeadIDs returns the ids of the first n items.
func (c *Catalog) HeadIDs(n int) []int64 {
	n = min(max(n, 0), len(c.items))
	ids := make([]int64, 0, n)
	for _, item := range c.items[:n] {
		ids = append(ids, item.ID)
	}
	return ids
}

// UniqueTags returns every distinct tag in the catalog, sorted.
func (c *Catalog) UniqueTags() []string {
	seen := make(map[string]struct{})
	for _, item := range c.items {
		for _, tag := range item.TagList() {
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// TagCount pairs a tag with the number of items carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TopTags returns the n most frequent tags, most frequent first.
func (c *Catalog) TopTags(n int) []TagCount {
	counts := make(map[string]int)
	for _, item := range c.items {
		for _, tag := range item.TagList() {
			counts[tag]++
		}
	}
	result := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		result = append(result, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Tag < result[j].Tag
	})
	if n > 0 && len(result) > n {
		result = result[:n]
	}
	return result
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '、'
	})
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
