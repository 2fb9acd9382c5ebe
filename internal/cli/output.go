package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	cmsconsole "github.com/kailas-cloud/cmsconsole/pkg/sdk"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	faint  = color.New(color.Faint)
)

// printChangeSet writes one colored line per operation. current names the
// fields being deleted, which the change-set only carries by id.
func printChangeSet(w io.Writer, cs cmsconsole.ChangeSet, current []cmsconsole.Field) {
	if cs.IsEmpty() {
		green.Fprintln(w, "✓ No changes")
		return
	}

	keys := make(map[string]string, len(current))
	for _, f := range current {
		keys[f.ID] = f.Key
	}

	for _, d := range cs.ToCreate {
		green.Fprintf(w, "  + create %s (%s)", d.FieldConfig.Key, d.FieldConfig.Type)
		faint.Fprintf(w, " at %s\n", d.IndexOrder)
	}
	for _, d := range cs.ToUpdate {
		yellow.Fprintf(w, "  ~ update %s (%s)", d.FieldConfig.Key, d.FieldConfig.Type)
		faint.Fprintf(w, " id %s\n", d.ID)
	}
	deletes := make([]string, 0, len(cs.ToDelete))
	for _, d := range cs.ToDelete {
		name := d.ID
		if k := keys[d.ID]; k != "" {
			name = k + " [" + d.ID + "]"
		}
		deletes = append(deletes, name)
	}
	sort.Strings(deletes)
	for _, name := range deletes {
		red.Fprintf(w, "  - delete %s\n", name)
	}

	fmt.Fprintf(w, "\n%d to create, %d to update, %d to delete\n",
		len(cs.ToCreate), len(cs.ToUpdate), len(cs.ToDelete))
}

func printNotice(w io.Writer, n cmsconsole.Notice) {
	switch n.Level {
	case "success":
		green.Fprintf(w, "✓ %s\n", n.Message)
	case "error":
		red.Fprintf(w, "✗ %s\n", n.Message)
	default:
		faint.Fprintf(w, "· %s\n", n.Message)
	}
}
