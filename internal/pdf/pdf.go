// Package pdf extracts plain text from PDF attachments.
package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	lpdf "github.com/ledongthuc/pdf"

	apierrors "github.com/diogo/codexside/internal/errors"
)

const (
	// MaxBytes is the largest PDF accepted.
	MaxBytes = 16 * 1024 * 1024
	// MaxPages is the number of pages extracted; the rest are noted as trimmed.
	MaxPages = 50
)

var whitespace = regexp.MustCompile(`\s+`)

// ToText returns the text of the first MaxPages pages as "Page N:" blocks.
func ToText(data []byte) (text string, err error) {
	if len(data) > MaxBytes {
		return "", apierrors.ErrPDFTooLarge
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = apierrors.NewPDFError("failed to parse PDF", fmt.Errorf("%v", r))
		}
	}()

	reader, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apierrors.NewPDFError("failed to open PDF", err)
	}

	total := reader.NumPage()
	count := total
	if count > MaxPages {
		count = MaxPages
	}

	pages := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", apierrors.NewPDFError(fmt.Sprintf("failed to read page %d", i), err)
		}
		pages = append(pages, content)
	}

	return FormatPages(pages, total), nil
}

// FormatPages renders extracted page texts. Whitespace inside a page is
// collapsed, empty pages are skipped, and a trailing note is added when
// total exceeds MaxPages.
func FormatPages(pages []string, total int) string {
	var parts []string
	for i, raw := range pages {
		if i >= MaxPages {
			break
		}
		text := strings.TrimSpace(whitespace.ReplaceAllString(raw, " "))
		if text == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("Page %d:\n%s", i+1, text))
	}

	if total > MaxPages {
		parts = append(parts, fmt.Sprintf("(Trimmed to first %d pages of %d)", MaxPages, total))
	}

	return strings.Join(parts, "\n\n")
}
