package toc

import "testing"

func TestNest_SiblingsAndRoots(t *testing.T) {
	flat := []Heading{
		{Level: 1, Text: "A"},
		{Level: 2, Text: "B"},
		{Level: 2, Text: "C"},
		{Level: 1, Text: "D"},
	}
	forest := Nest(flat)

	if len(forest) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(forest))
	}
	a, d := forest[0], forest[1]
	if a.Text != "A" || d.Text != "D" {
		t.Fatalf("expected roots A, D, got %q, %q", a.Text, d.Text)
	}
	if len(a.Children) != 2 || a.Children[0].Text != "B" || a.Children[1].Text != "C" {
		t.Errorf("expected A.children = [B C], got %+v", a.Children)
	}
	if len(d.Children) != 0 {
		t.Errorf("expected D to have no children, got %d", len(d.Children))
	}
}

func TestNest_DeepAndSkippedLevels(t *testing.T) {
	flat := []Heading{
		{Level: 1, Text: "A"},
		{Level: 3, Text: "A.x"},
		{Level: 2, Text: "A.1"},
		{Level: 3, Text: "A.1.a"},
		{Level: 4, Text: "A.1.a.i"},
		{Level: 2, Text: "A.2"},
	}
	forest := Nest(flat)

	if len(forest) != 1 {
		t.Fatalf("expected 1 root, got %d", len(forest))
	}
	a := forest[0]
	if len(a.Children) != 3 {
		t.Fatalf("expected 3 children under A, got %d", len(a.Children))
	}
	want := []string{"A.x", "A.1", "A.2"}
	for i, w := range want {
		if a.Children[i].Text != w {
			t.Errorf("child[%d]: expected %q, got %q", i, w, a.Children[i].Text)
		}
	}
	a1 := a.Children[1]
	if len(a1.Children) != 1 || a1.Children[0].Text != "A.1.a" {
		t.Fatalf("expected A.1.children = [A.1.a], got %+v", a1.Children)
	}
	if len(a1.Children[0].Children) != 1 || a1.Children[0].Children[0].Text != "A.1.a.i" {
		t.Errorf("expected A.1.a.children = [A.1.a.i], got %+v", a1.Children[0].Children)
	}
}

func TestNest_LeadingDeeperHeadingIsRoot(t *testing.T) {
	forest := Nest([]Heading{
		{Level: 3, Text: "deep"},
		{Level: 1, Text: "top"},
		{Level: 2, Text: "mid"},
	})
	if len(forest) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(forest))
	}
	if forest[0].Text != "deep" || forest[1].Text != "top" {
		t.Errorf("expected roots deep, top, got %q, %q", forest[0].Text, forest[1].Text)
	}
	if len(forest[1].Children) != 1 {
		t.Errorf("expected top to have 1 child, got %d", len(forest[1].Children))
	}
}

func TestNest_DoesNotModifyInput(t *testing.T) {
	flat := []Heading{{Level: 1, Text: "A"}, {Level: 2, Text: "B"}}
	Nest(flat)
	if flat[0].Children != nil {
		t.Errorf("expected input to stay flat, got children %+v", flat[0].Children)
	}
}

func TestNest_Empty(t *testing.T) {
	if got := Nest(nil); len(got) != 0 {
		t.Errorf("expected empty forest, got %d roots", len(got))
	}
}

func TestCount(t *testing.T) {
	forest := Build("## A\n### B\n### C\n## D\n")
	if got := Count(forest); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
}
