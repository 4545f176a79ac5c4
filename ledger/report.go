package ledger

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lewtec/photoledger/internal/domain"
	"github.com/russross/blackfriday/v2"
)

type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "txt", "":
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatHTML, "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown report format '%s'", s)
	}
}

// FormatFromPath guesses the report format from the file extension,
// falling back to fallback
func FormatFromPath(filename string, fallback Format) Format {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return fallback
	}
	format, err := ParseFormat(ext)
	if err != nil {
		return fallback
	}
	return format
}

func markdownReport(counts []domain.PhotographerCount) string {
	var b strings.Builder
	fmt.Fprintf(&b, "| Photographer | Selected |\n")
	fmt.Fprintf(&b, "| --- | --- |\n")
	for _, count := range counts {
		name := strings.ReplaceAll(count.Name, "|", `\|`)
		fmt.Fprintf(&b, "| %s | %d |\n", name, count.SelectedCount)
	}
	return b.String()
}

// RenderReport writes the per photographer selection counts to w
func RenderReport(w io.Writer, counts []domain.PhotographerCount, format Format) error {
	switch format {
	case FormatText:
		for _, count := range counts {
			if _, err := fmt.Fprintf(w, "%s: %d selected\n", count.Name, count.SelectedCount); err != nil {
				return err
			}
		}
		return nil
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"photographer", "selected_count"}); err != nil {
			return err
		}
		for _, count := range counts {
			if err := cw.Write([]string{count.Name, strconv.Itoa(count.SelectedCount)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case FormatMarkdown:
		_, err := io.WriteString(w, markdownReport(counts))
		return err
	case FormatHTML:
		_, err := w.Write(blackfriday.Run([]byte(markdownReport(counts))))
		return err
	default:
		return fmt.Errorf("unknown report format '%s'", format)
	}
}

// ExportReport writes the report next to filename under a temporary name and
// moves it into place once complete
func ExportReport(filename string, counts []domain.PhotographerCount, format Format) error {
	var buf bytes.Buffer
	if err := RenderReport(&buf, counts, format); err != nil {
		return err
	}
	tempFile := filepath.Join(filepath.Dir(filename), fmt.Sprintf(".%s.tmp", uuid.New()))
	if err := os.WriteFile(tempFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("while writing report: %w", err)
	}
	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("while moving report into place: %w", err)
	}
	return nil
}
