package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/abtkit/abt/internal/models"
	"github.com/abtkit/abt/internal/tui"
	"github.com/jedib0t/go-pretty/v6/table"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func newTable(w io.Writer, header ...any) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row(header))
	return tw
}

func renderPublishResult(w io.Writer, artifact string, res models.PublishResult) {
	if !res.Success {
		fmt.Fprintf(w, "%s %s: %s\n", tui.ErrorStyle.Render("❌ Publish failed"), artifact, res.Message)
		return
	}

	fmt.Fprintf(w, "%s %s: %s\n", tui.SuccessStyle.Render("✅ Published"), artifact, res.Message)
	for _, kv := range [][2]string{
		{"Download URL", res.DownloadURL},
		{"QR code", res.QRCodeURL},
		{"Build key", res.BuildKey},
		{"Short link", res.BuildShortcutURL},
	} {
		if kv[1] != "" {
			fmt.Fprintf(w, "  %s %s\n", tui.LabelStyle.Render(kv[0]+":"), kv[1])
		}
	}
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func orDash(s *string) string {
	if v := models.Deref(s); v != "" {
		return v
	}
	return "-"
}

// mask keeps the first four characters of a secret.
func mask(s *string) string {
	v := models.Deref(s)
	switch {
	case v == "":
		return "-"
	case len(v) <= 4:
		return "****"
	default:
		return v[:4] + "****"
	}
}
