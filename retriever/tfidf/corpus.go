package tfidf

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/w-h-a/research/extractor"
	"github.com/w-h-a/research/store"
)

type document struct {
	id   string
	text string
}

// entry is extracted text tagged with the digest of the bytes it came from.
type entry struct {
	digest uint64
	text   string
}

// corpus loads every stored document as text. Raw bytes are read on every
// load; extraction is skipped only when they hash to a cached entry.
type corpus struct {
	store     store.Store
	extractor extractor.Extractor
	minLength int
	mtx       sync.RWMutex
	entries   map[string]entry
}

func (c *corpus) load(ctx context.Context) ([]document, error) {
	ids, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]document, 0, len(ids))

	for _, id := range ids {
		text, err := c.text(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable document", "document", id, "error", err)
			continue
		}

		if len(strings.TrimSpace(text)) <= c.minLength {
			continue
		}

		docs = append(docs, document{id: id, text: text})
	}

	c.retain(ids)

	return docs, nil
}

func (c *corpus) text(ctx context.Context, id string) (string, error) {
	raw, err := c.store.Read(ctx, id)
	if err != nil {
		return "", err
	}

	digest := xxhash.Sum64(raw)

	if e, ok := c.cached(id); ok && e.digest == digest {
		return e.text, nil
	}

	text, err := c.extractor.Extract(ctx, id, raw)
	if err != nil {
		return "", err
	}

	c.remember(id, entry{digest: digest, text: text})

	return text, nil
}

func (c *corpus) cached(id string) (entry, bool) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	e, ok := c.entries[id]
	return e, ok
}

func (c *corpus) remember(id string, e entry) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.entries[id] = e
}

func (c *corpus) forget(id string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	delete(c.entries, id)
}

// retain drops entries for documents no longer listed.
func (c *corpus) retain(ids []string) {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	for id := range c.entries {
		if _, ok := keep[id]; !ok {
			delete(c.entries, id)
		}
	}
}

// watch evicts every id the store reports as changed so replaced text is
// released before the next load.
func (c *corpus) watch(ctx context.Context, w store.Watcher) {
	events, err := w.Watch(ctx)
	if err != nil {
		slog.WarnContext(ctx, "document change events unavailable", "error", err)
		return
	}

	go func() {
		for id := range events {
			c.forget(id)
		}
	}()
}

func (c *corpus) size() int {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	return len(c.entries)
}

func newCorpus(s store.Store, x extractor.Extractor, minLength int) *corpus {
	return &corpus{
		store:     s,
		extractor: x,
		minLength: minLength,
		entries:   map[string]entry{},
	}
}
