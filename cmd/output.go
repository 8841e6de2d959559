package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/vrerv/md-to-notion/pkg/pathkey"
	"github.com/vrerv/md-to-notion/pkg/source"
	mdsync "github.com/vrerv/md-to-notion/pkg/sync"
)

var (
	primary = lipgloss.Color("#7C3AED")
	success = lipgloss.Color("#10B981")
	muted   = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	labelStyle = lipgloss.NewStyle().
			Foreground(muted).
			Width(24)

	noteStyle = lipgloss.NewStyle().
			Foreground(muted)

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(success)

	folderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	branchStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginRight(1)
)

// hierarchy renders the folder tree with files listed before subfolders, the
// order pages are created in.
func hierarchy(f *source.Folder) *tree.Tree {
	t := tree.Root(folderStyle.Render(f.Name + "/")).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(branchStyle)
	for _, file := range f.Files {
		t.Child(file.Name + pathkey.Extension)
	}
	for _, sub := range f.Subfolders {
		t.Child(hierarchy(sub))
	}
	return t
}

func printHierarchy(w io.Writer, f *source.Folder) {
	fmt.Fprintln(w, hierarchy(f).String())
	files, folders := f.Count()
	fmt.Fprintln(w, noteStyle.Render(fmt.Sprintf("%d file(s) in %d folder(s)", files, folders)))
}

func printSummary(w io.Writer, res mdsync.Result) {
	rows := []struct {
		label string
		value int
	}{
		{"pages created", res.PagesCreated},
		{"blocks appended", res.BlocksAppended},
		{"blocks deleted", res.BlocksDeleted},
		{"first blocks relocated", res.FirstBlocksRelocated},
		{"pages archived", res.PagesArchived},
	}

	fmt.Fprintln(w, titleStyle.Render("Summary"))
	for _, row := range rows {
		fmt.Fprintln(w, labelStyle.Render(row.label)+valueStyle.Render(fmt.Sprint(row.value)))
	}
	if res.Changes() == 0 {
		fmt.Fprintln(w, noteStyle.Render("already up to date"))
	}
}
