package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/examprep/internal/doctree"
)

// NoTextExtracted is returned in place of text when none of the uploaded
// files yielded any readable content.
const NoTextExtracted = "No text extracted from the uploaded files."

// ErrNoFiles is returned when ExtractText is called without uploads.
var ErrNoFiles = errors.New("no files uploaded")

// Upload is one file received from a client. Data is released by the caller
// once ExtractText returns.
type Upload struct {
	Filename string
	Data     []byte
}

// ExtractText parses every upload and concatenates the text in upload order,
// with "--- Page N ---" markers for paged formats. Files that cannot be
// parsed are reported as warnings and skipped. When nothing readable is
// found the NoTextExtracted sentinel is returned instead of an error.
func ExtractText(uploads []Upload, opts Options) (text string, warnings []string, err error) {
	if len(uploads) == 0 {
		return "", nil, ErrNoFiles
	}

	var sb strings.Builder
	for _, up := range uploads {
		p, err := ForFile(up.Filename, opts)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", up.Filename, err))
			continue
		}
		tree, err := parseSafely(p, up)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", up.Filename, err))
			continue
		}
		for _, w := range tree.Warnings {
			warnings = append(warnings, fmt.Sprintf("%s: %s", up.Filename, w))
		}
		sb.WriteString(doctree.Flatten(tree))
	}

	text = strings.TrimSpace(sb.String())
	if text == "" {
		return NoTextExtracted, warnings, nil
	}
	return text, warnings, nil
}

// HasText reports whether text is real extracted content rather than empty
// or the NoTextExtracted sentinel.
func HasText(text string) bool {
	t := strings.TrimSpace(text)
	return t != "" && t != NoTextExtracted
}

func parseSafely(p Parser, up Upload) (tree *doctree.DocTree, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("parser panic: %v", rec)
		}
	}()
	return p.Parse(bytes.NewReader(up.Data), up.Filename)
}
