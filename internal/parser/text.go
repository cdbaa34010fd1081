package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/examprep/internal/doctree"
)

// TextParser handles plain text papers. Form feeds split pages; within a
// single-page file each paragraph becomes its own node.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	tree := &doctree.DocTree{Title: trimExt(filename)}

	pages := strings.Split(string(data), "\f")
	if len(pages) > 1 {
		for i, page := range pages {
			page = strings.TrimSpace(page)
			if page == "" {
				continue
			}
			tree.Children = append(tree.Children, &doctree.DocNode{Text: page, Page: i + 1})
		}
		return tree, nil
	}

	paragraphs, err := splitParagraphs(pages[0])
	if err != nil {
		return nil, err
	}
	for _, para := range paragraphs {
		tree.Children = append(tree.Children, &doctree.DocNode{Text: para})
	}
	return tree, nil
}

// splitParagraphs groups lines separated by blank (or whitespace-only) lines.
func splitParagraphs(text string) ([]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return paragraphs, scanner.Err()
}
