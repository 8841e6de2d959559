// Package source reads a local directory of markdown documents into the tree
// the sync engine mirrors.
package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/vrerv/md-to-notion/pkg/block"
	"github.com/vrerv/md-to-notion/pkg/pathkey"
)

// ContentFunc produces the blocks of a document once the URLs of the remote
// pages are known.
type ContentFunc func(links pathkey.LinkMap) ([]block.Block, error)

// File is a document. Name is the page title.
type File struct {
	Name    string
	Path    string // relative to the tree root, e.g. "./guide/setup.md"
	Content ContentFunc
}

// Folder is a directory holding at least one document somewhere below it.
type Folder struct {
	Name       string
	Files      []File
	Subfolders []*Folder
}

// Count returns the number of files and folders below f, f excluded.
func (f *Folder) Count() (files, folders int) {
	stack := []*Folder{f}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		files += len(cur.Files)
		folders += len(cur.Subfolders)
		stack = append(stack, cur.Subfolders...)
	}
	return files, folders
}

// PrintHierarchy writes an indented outline of the tree.
func PrintHierarchy(w io.Writer, f *Folder) error {
	return printFolder(w, f, 0)
}

func printFolder(w io.Writer, f *Folder, depth int) error {
	indent := strings.Repeat("  ", depth)
	if _, err := fmt.Fprintf(w, "%s%s/\n", indent, f.Name); err != nil {
		return err
	}
	for _, file := range f.Files {
		if _, err := fmt.Fprintf(w, "%s  %s%s\n", indent, file.Name, pathkey.Extension); err != nil {
			return err
		}
	}
	for _, sub := range f.Subfolders {
		if err := printFolder(w, sub, depth+1); err != nil {
			return err
		}
	}
	return nil
}
