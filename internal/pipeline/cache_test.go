package pipeline

import (
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func TestResultCache_Disabled(t *testing.T) {
	c, err := NewResultCache(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Add("h", doctree.Result{Title: "x"})
	if _, ok := c.Get("h"); ok {
		t.Error("disabled cache should never hit")
	}
	if c.Len() != 0 {
		t.Errorf("expected 0 entries, got %d", c.Len())
	}
}

func TestResultCache_Eviction(t *testing.T) {
	c, err := NewResultCache(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Add("a", doctree.Result{Title: "A"})
	c.Add("b", doctree.Result{Title: "B"})
	c.Get("a")
	c.Add("c", doctree.Result{Title: "C"})

	if _, ok := c.Get("b"); ok {
		t.Error("expected least recently used entry to be evicted")
	}
	if res, ok := c.Get("a"); !ok || res.Title != "A" {
		t.Errorf("expected A to survive, got %+v ok=%v", res, ok)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
}

func TestResultCache_ReturnsCopies(t *testing.T) {
	c, _ := NewResultCache(4)
	outline := doctree.Outline{{Level: doctree.H1, Text: "Intro", Page: 1}}
	c.Add("h", doctree.Result{Title: "T", Outline: outline})
	outline[0].Text = "changed"

	got, ok := c.Get("h")
	if !ok || got.Outline[0].Text != "Intro" {
		t.Fatalf("cache should hold its own copy, got %+v", got)
	}
	got.Outline[0].Text = "mutated"
	again, _ := c.Get("h")
	if again.Outline[0].Text != "Intro" {
		t.Error("callers must not mutate cached outlines")
	}
}
