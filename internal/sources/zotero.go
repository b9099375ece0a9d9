// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/awindex/awindex/internal/fetch"
	"github.com/awindex/awindex/pkg/types"
)

// zoteroBase is the Zotero web API root. Declared as a var so tests can
// substitute it.
var zoteroBase = "https://api.zotero.org"

// zoteroPageSize is the page size used when paging items and collections.
var zoteroPageSize = 100

// ZoteroAdapter harvests a Zotero group or user library. Items are mapped
// one-to-one to records; collection memberships become hierarchical
// category paths.
type ZoteroAdapter struct {
	Fetcher fetch.Fetcher
}

// Name returns the adapter identifier.
func (a *ZoteroAdapter) Name() string { return "zotero" }

// Harvest fetches the library's full item set and collection tree, then
// yields one record per indexable item. Attachments, notes, and
// annotations are ignored; items without a URL are counted as errors and
// skipped with a warning. When src.Collection is set, the collection tree
// is restricted to that subtree and items resolving to no in-scope
// collection are skipped entirely.
func (a *ZoteroAdapter) Harvest(ctx context.Context, src types.Source, sum *Summary, w io.Writer) error {
	collections, err := a.fetchCollections(ctx, src)
	if err != nil {
		return err
	}
	byKey := indexCollections(collections)
	if src.Collection != "" {
		byKey = scopeCollections(byKey, src.Collection)
	}

	items, err := a.fetchItems(ctx, src)
	if err != nil {
		return err
	}

	for _, item := range items {
		switch item.Data.ItemType {
		case "attachment", "note", "annotation":
			sum.NumIgnored++
			continue
		}

		if item.Data.URL == "" {
			sum.NumErrors++
			sum.Warn(w, "item %q (%s) has no URL, skipping", item.Data.Title, item.Key)
			continue
		}

		var paths []string
		for _, key := range item.Data.Collections {
			if path := collectionPath(byKey, key); path != "" {
				paths = append(paths, path)
			}
		}
		if src.Collection != "" && len(paths) == 0 {
			// Outside the requested subtree even though the broader fetch
			// returned it.
			sum.NumIgnored++
			continue
		}

		rec := &types.IndexRecord{
			Title:      item.Data.Title,
			URL:        item.Data.URL,
			Abstract:   item.Data.AbstractNote,
			Type:       item.Data.ItemType,
			Categories: paths,
			Source:     src.Name,
			SourceURL:  src.Homepage,
		}
		for _, c := range item.Data.Creators {
			if name := c.displayName(); name != "" {
				rec.Creators = append(rec.Creators, name)
			}
		}
		for _, t := range item.Data.Tags {
			if t.Tag != "" {
				rec.Keywords = append(rec.Keywords, t.Tag)
			}
		}
		sum.Add(rec)
	}

	fmt.Fprintf(w, "%s: %d items found, %d records, %d ignored, %d errors\n",
		src.Name, len(items), sum.NumRecords, sum.NumIgnored, sum.NumErrors)
	return nil
}

// fetchItems pages through the library's items until a short page.
func (a *ZoteroAdapter) fetchItems(ctx context.Context, src types.Source) ([]zoteroItem, error) {
	var all []zoteroItem
	for start := 0; ; start += zoteroPageSize {
		body, err := a.Fetcher.Fetch(ctx, a.pageURL(src, "items", start))
		if err != nil {
			return nil, err
		}
		var page []zoteroItem
		if err := json.Unmarshal([]byte(body), &page); err != nil {
			return nil, fmt.Errorf("parsing Zotero items page: %w", err)
		}
		all = append(all, page...)
		if len(page) < zoteroPageSize {
			return all, nil
		}
	}
}

// fetchCollections pages through the library's collections until a short page.
func (a *ZoteroAdapter) fetchCollections(ctx context.Context, src types.Source) ([]zoteroCollection, error) {
	var all []zoteroCollection
	for start := 0; ; start += zoteroPageSize {
		body, err := a.Fetcher.Fetch(ctx, a.pageURL(src, "collections", start))
		if err != nil {
			return nil, err
		}
		var page []zoteroCollection
		if err := json.Unmarshal([]byte(body), &page); err != nil {
			return nil, fmt.Errorf("parsing Zotero collections page: %w", err)
		}
		all = append(all, page...)
		if len(page) < zoteroPageSize {
			return all, nil
		}
	}
}

func (a *ZoteroAdapter) pageURL(src types.Source, what string, start int) string {
	libraryType := src.LibraryType
	if libraryType == "" {
		libraryType = "group"
	}
	params := url.Values{
		"format": {"json"},
		"limit":  {fmt.Sprintf("%d", zoteroPageSize)},
		"start":  {fmt.Sprintf("%d", start)},
	}
	if src.APIKey != "" {
		params.Set("key", src.APIKey)
	}
	return fmt.Sprintf("%s/%ss/%s/%s?%s", zoteroBase, libraryType, src.LibraryID, what, params.Encode())
}

func indexCollections(collections []zoteroCollection) map[string]zoteroCollection {
	byKey := make(map[string]zoteroCollection, len(collections))
	for _, c := range collections {
		byKey[c.Key] = c
	}
	return byKey
}

// scopeCollections keeps only the collection whose key is scope and its
// descendants, so memberships outside the subtree resolve to nothing.
func scopeCollections(byKey map[string]zoteroCollection, scope string) map[string]zoteroCollection {
	scoped := make(map[string]zoteroCollection)
	for key, c := range byKey {
		for cur, depth := key, 0; cur != "" && depth < len(byKey)+1; depth++ {
			if cur == scope {
				scoped[key] = c
				break
			}
			parent, ok := byKey[cur]
			if !ok {
				break
			}
			cur = string(parent.Data.ParentCollection)
		}
	}
	return scoped
}

// collectionPath walks key's parent chain to the root of the indexed map,
// joining collection names with " > ". A key missing from the map yields "".
func collectionPath(byKey map[string]zoteroCollection, key string) string {
	var names []string
	for cur, depth := key, 0; cur != ""; {
		c, ok := byKey[cur]
		if !ok {
			break
		}
		names = append([]string{c.Data.Name}, names...)
		cur = string(c.Data.ParentCollection)
		if depth++; depth > len(byKey) {
			break // cycle guard
		}
	}
	return strings.Join(names, " > ")
}

// Zotero web API JSON structures.
type zoteroItem struct {
	Key  string         `json:"key"`
	Data zoteroItemData `json:"data"`
}

type zoteroItemData struct {
	ItemType     string          `json:"itemType"`
	Title        string          `json:"title"`
	URL          string          `json:"url"`
	AbstractNote string          `json:"abstractNote"`
	Collections  []string        `json:"collections"`
	Creators     []zoteroCreator `json:"creators"`
	Tags         []zoteroTag     `json:"tags"`
}

type zoteroCreator struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (c zoteroCreator) displayName() string {
	if c.Name != "" {
		return c.Name
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type zoteroTag struct {
	Tag string `json:"tag"`
}

type zoteroCollection struct {
	Key  string               `json:"key"`
	Data zoteroCollectionData `json:"data"`
}

type zoteroCollectionData struct {
	Name             string       `json:"name"`
	ParentCollection zoteroParent `json:"parentCollection"`
}

// zoteroParent is a collection's parent key. The API encodes "no parent"
// as the JSON literal false rather than null or an empty string.
type zoteroParent string

func (p *zoteroParent) UnmarshalJSON(data []byte) error {
	if string(data) == "false" || string(data) == "null" {
		*p = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing parentCollection: %w", err)
	}
	*p = zoteroParent(s)
	return nil
}
