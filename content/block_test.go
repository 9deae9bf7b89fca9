// ABOUTME: Tests for block copy, language filtering, and version construction helpers.
// ABOUTME: Verifies copies never alias caller storage and ULID version IDs are well formed.

package content_test

import (
	"testing"

	"github.com/2389-research/quire/content"
	"github.com/oklog/ulid/v2"
)

func sampleBlocks() []content.Block {
	return []content.Block{
		{BlockKey: "hero", SectionKey: "home", Language: "en", Content: "Hello", SortOrder: 1},
		{BlockKey: "hero", SectionKey: "home", Language: "de", Content: "Hallo", SortOrder: 1},
		{BlockKey: "cta", SectionKey: "home", Language: "en", Content: "Buy", Metadata: `{"color":"red"}`, SortOrder: 2},
	}
}

func TestCloneBlocksIsIndependent(t *testing.T) {
	src := sampleBlocks()
	cp := content.CloneBlocks(src)

	cp[0].Content = "changed"
	if src[0].Content != "Hello" {
		t.Fatalf("mutating clone changed source: %q", src[0].Content)
	}
	if !content.EqualBlocks(src[1:], cp[1:]) {
		t.Fatal("expected untouched blocks to match")
	}
}

func TestCloneBlocksNilYieldsEmpty(t *testing.T) {
	cp := content.CloneBlocks(nil)
	if cp == nil {
		t.Fatal("expected non-nil slice")
	}
	if len(cp) != 0 {
		t.Fatalf("expected empty slice, got %d", len(cp))
	}
}

func TestFilterLanguage(t *testing.T) {
	en := content.FilterLanguage(sampleBlocks(), "en")
	if len(en) != 2 {
		t.Fatalf("expected 2 english blocks, got %d", len(en))
	}
	for _, b := range en {
		if b.Language != "en" {
			t.Errorf("unexpected language %q", b.Language)
		}
	}
	if got := content.FilterLanguage(sampleBlocks(), "fr"); len(got) != 0 {
		t.Fatalf("expected no french blocks, got %d", len(got))
	}
}

func TestLanguagesSorted(t *testing.T) {
	langs := content.Languages(sampleBlocks())
	if len(langs) != 2 || langs[0] != "de" || langs[1] != "en" {
		t.Fatalf("languages = %v, want [de en]", langs)
	}
}

func TestEqualBlocks(t *testing.T) {
	a := sampleBlocks()
	b := sampleBlocks()
	if !content.EqualBlocks(a, b) {
		t.Fatal("expected equal")
	}
	b[2].Metadata = "{}"
	if content.EqualBlocks(a, b) {
		t.Fatal("expected metadata difference to count")
	}
	if content.EqualBlocks(a, a[:2]) {
		t.Fatal("expected length difference to count")
	}
}

func TestNewVersion(t *testing.T) {
	blocks := sampleBlocks()
	v := content.NewVersion("Spring launch", "editor@example.com", blocks)

	if _, err := ulid.Parse(v.ID); err != nil {
		t.Fatalf("version id %q is not a ULID: %v", v.ID, err)
	}
	if v.Status != content.StatusDraft {
		t.Errorf("status = %q, want %q", v.Status, content.StatusDraft)
	}
	if v.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	blocks[0].Content = "mutated"
	if v.ContentBlocks[0].Content != "Hello" {
		t.Fatal("version shares storage with caller blocks")
	}
}

func TestVersionClone(t *testing.T) {
	v := content.NewVersion("v1", "me", sampleBlocks())
	c := v.Clone()
	c.ContentBlocks[0].Content = "other"
	if v.ContentBlocks[0].Content != "Hello" {
		t.Fatal("clone shares block storage")
	}
	if c.ID != v.ID {
		t.Fatal("clone should keep the version id")
	}
}

func TestNewVersionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := content.NewVersionID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
