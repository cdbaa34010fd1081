package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_SectionsAndTitle(t *testing.T) {
	input := `<html><head><title>CS301 Final 2023</title><style>p{}</style></head>
<body>
<nav>Home | Papers</nav>
<p>Answer all questions.</p>
<h1>Part A</h1>
<p>Q1. Define deadlock.</p>
<h2>Section A.1</h2>
<ul><li>Q2. Explain paging.</li></ul>
<h1>Part B</h1>
<p>Q3. Normalize the schema.</p>
<script>var x = 1;</script>
</body></html>`

	p := &HTMLParser{}
	tree, err := p.Parse(strings.NewReader(input), "final.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "CS301 Final 2023" {
		t.Errorf("expected title from <title>, got %q", tree.Title)
	}
	if len(tree.Children) != 3 {
		t.Fatalf("expected preamble + 2 parts, got %d", len(tree.Children))
	}
	if tree.Children[0].Title != "" || tree.Children[0].Text != "Answer all questions." {
		t.Errorf("unexpected preamble node %+v", tree.Children[0])
	}
	partA := tree.Children[1]
	if partA.Title != "Part A" || partA.Text != "Q1. Define deadlock." {
		t.Errorf("unexpected Part A %+v", partA)
	}
	if len(partA.Children) != 1 || partA.Children[0].Text != "Q2. Explain paging." {
		t.Errorf("expected nested section under Part A, got %+v", partA.Children)
	}

	flat := tree.Children[2].Text
	if strings.Contains(flat, "var x") {
		t.Error("expected script content to be skipped")
	}
}

func TestHTMLParser_FallsBackToFilenameTitle(t *testing.T) {
	p := &HTMLParser{}
	tree, err := p.Parse(strings.NewReader("<p>hello</p>"), "paper.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "paper" {
		t.Errorf("expected %q, got %q", "paper", tree.Title)
	}
}
