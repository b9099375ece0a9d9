// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/awindex/awindex/pkg/types"
)

var zoteroSource = types.Source{
	Type:        types.SourceZotero,
	Name:        "Group Library",
	Homepage:    "https://www.zotero.org/groups/5564150",
	LibraryID:   "5564150",
	LibraryType: "group",
}

const zoteroCollectionsJSON = `[
  {"key": "AAA", "data": {"name": "Root", "parentCollection": false}},
  {"key": "BBB", "data": {"name": "Child", "parentCollection": "AAA"}},
  {"key": "CCC", "data": {"name": "Other", "parentCollection": false}}
]`

const zoteroItemsJSON = `[
  {
    "key": "I1",
    "data": {
      "itemType": "webpage",
      "title": "In The Child Collection",
      "url": "http://example.com/one",
      "abstractNote": "A note.",
      "collections": ["BBB"],
      "creators": [{"firstName": "Jane", "lastName": "Doe"}],
      "tags": [{"tag": "preservation"}]
    }
  },
  {
    "key": "I2",
    "data": {
      "itemType": "attachment",
      "title": "attachment.pdf",
      "url": "http://example.com/attachment.pdf"
    }
  },
  {
    "key": "I3",
    "data": {
      "itemType": "journalArticle",
      "title": "No URL Here",
      "collections": ["AAA"]
    }
  },
  {
    "key": "I4",
    "data": {
      "itemType": "webpage",
      "title": "In The Other Collection",
      "url": "http://example.com/four",
      "collections": ["CCC", "ZZZ"],
      "creators": [{"name": "Acme Corp"}]
    }
  }
]`

func zoteroFetcher() *fakeFetcher {
	return &fakeFetcher{bodies: map[string]string{
		"https://zotero.example/groups/5564150/items?format=json&limit=100&start=0":       zoteroItemsJSON,
		"https://zotero.example/groups/5564150/collections?format=json&limit=100&start=0": zoteroCollectionsJSON,
	}}
}

func withZoteroBase(t *testing.T) {
	t.Helper()
	orig := zoteroBase
	zoteroBase = "https://zotero.example"
	t.Cleanup(func() { zoteroBase = orig })
}

func TestZoteroHarvest(t *testing.T) {
	withZoteroBase(t)

	a := &ZoteroAdapter{Fetcher: zoteroFetcher()}
	sum := &Summary{}
	if err := a.Harvest(context.Background(), zoteroSource, sum, io.Discard); err != nil {
		t.Fatal(err)
	}
	requiredFieldsSet(t, sum)

	if sum.NumRecords != 2 {
		t.Fatalf("NumRecords = %d, want 2", sum.NumRecords)
	}
	// The attachment is structurally irrelevant; the URL-less article is
	// a malformed entry.
	if sum.NumIgnored != 1 {
		t.Errorf("NumIgnored = %d, want 1", sum.NumIgnored)
	}
	if sum.NumErrors != 1 {
		t.Errorf("NumErrors = %d, want 1", sum.NumErrors)
	}
	if len(sum.Warnings) != 1 || !strings.Contains(sum.Warnings[0], "No URL Here") {
		t.Errorf("Warnings = %v, want one naming the URL-less item", sum.Warnings)
	}

	first := sum.Records[0]
	if len(first.Categories) != 1 || first.Categories[0] != "Root > Child" {
		t.Errorf("Categories = %v, want the full parent-chain path", first.Categories)
	}
	if first.Abstract != "A note." || first.Type != "webpage" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if len(first.Creators) != 1 || first.Creators[0] != "Jane Doe" {
		t.Errorf("Creators = %v, want [Jane Doe]", first.Creators)
	}
	if len(first.Keywords) != 1 || first.Keywords[0] != "preservation" {
		t.Errorf("Keywords = %v, want [preservation]", first.Keywords)
	}

	// The unknown membership key ZZZ is skipped, not an error.
	second := sum.Records[1]
	if len(second.Categories) != 1 || second.Categories[0] != "Other" {
		t.Errorf("Categories = %v, want [Other]", second.Categories)
	}
}

func TestZoteroHarvestCollectionScope(t *testing.T) {
	withZoteroBase(t)

	scoped := zoteroSource
	scoped.Collection = "BBB"

	a := &ZoteroAdapter{Fetcher: zoteroFetcher()}
	sum := &Summary{}
	if err := a.Harvest(context.Background(), scoped, sum, io.Discard); err != nil {
		t.Fatal(err)
	}

	// Only the item inside the BBB subtree survives; the CCC item is
	// outside the requested scope even though the broader fetch returned it.
	if sum.NumRecords != 1 {
		t.Fatalf("NumRecords = %d, want 1", sum.NumRecords)
	}
	rec := sum.Records[0]
	if rec.Title != "In The Child Collection" {
		t.Errorf("Title = %q, want the in-scope item", rec.Title)
	}
	// The path roots at the scope subtree, not the library root.
	if len(rec.Categories) != 1 || rec.Categories[0] != "Child" {
		t.Errorf("Categories = %v, want [Child]", rec.Categories)
	}
}

func TestCollectionPath(t *testing.T) {
	byKey := indexCollections([]zoteroCollection{
		{Key: "AAA", Data: zoteroCollectionData{Name: "Root"}},
		{Key: "BBB", Data: zoteroCollectionData{Name: "Child", ParentCollection: "AAA"}},
		{Key: "DDD", Data: zoteroCollectionData{Name: "Grandchild", ParentCollection: "BBB"}},
	})

	tests := []struct {
		key  string
		want string
	}{
		{"DDD", "Root > Child > Grandchild"},
		{"BBB", "Root > Child"},
		{"AAA", "Root"},
		{"ZZZ", ""},
	}
	for _, tt := range tests {
		if got := collectionPath(byKey, tt.key); got != tt.want {
			t.Errorf("collectionPath(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestZoteroParentCollectionUnmarshal(t *testing.T) {
	var p zoteroParent
	if err := p.UnmarshalJSON([]byte(`false`)); err != nil || p != "" {
		t.Errorf("false: got %q, err %v", p, err)
	}
	if err := p.UnmarshalJSON([]byte(`"AAA"`)); err != nil || p != "AAA" {
		t.Errorf("string: got %q, err %v", p, err)
	}
}

func TestZoteroHarvestFetchError(t *testing.T) {
	a := &ZoteroAdapter{Fetcher: failingFetcher{}}
	sum := &Summary{}
	if err := a.Harvest(context.Background(), zoteroSource, sum, io.Discard); err == nil {
		t.Fatal("expected the fetch error to propagate")
	}
}
