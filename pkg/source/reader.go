package source

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vrerv/md-to-notion/pkg/block"
	"github.com/vrerv/md-to-notion/pkg/markdown"
	"github.com/vrerv/md-to-notion/pkg/pathkey"
	"github.com/vrerv/md-to-notion/pkg/utils/fileutils"
	"go.uber.org/zap"
)

var ErrNoMarkdown = errors.New("no markdown files found")

// DefaultExclude skips dependency trees.
var DefaultExclude = []string{"node_modules"}

type Options struct {
	// Exclude lists rules matched against paths relative to the root. A rule
	// with glob characters matches a path or a base name, others match any
	// path containing them. Nil means DefaultExclude.
	Exclude []string

	Logger *zap.Logger
}

// ReadMarkdown reads the markdown documents below dir. Symbolic links are
// followed. Folders without documents are dropped, and a directory without
// any document yields ErrNoMarkdown.
func ReadMarkdown(dir string, opts Options) (*Folder, error) {
	root, err := fileutils.CanonicalPath(dir)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	ctx := readContext{
		exclude: opts.Exclude,
		log:     opts.Logger,
		inStack: make(map[string]struct{}, 8),
	}
	if ctx.exclude == nil {
		ctx.exclude = DefaultExclude
	}
	if ctx.log == nil {
		ctx.log = zap.NewNop()
	}

	folder, err := ctx.read(root, pathkey.Root, filepath.Base(root))
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoMarkdown)
	}
	return folder, nil
}

type readContext struct {
	exclude []string
	log     *zap.Logger
	inStack map[string]struct{}
}

// read returns nil when dir holds no documents.
func (ctx *readContext) read(dir, rel, name string) (*Folder, error) {
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	if _, seen := ctx.inStack[canonical]; seen {
		ctx.log.Warn("skipping symlink cycle", zap.String("path", rel), zap.String("target", canonical))
		return nil, nil
	}
	ctx.inStack[canonical] = struct{}{}
	defer delete(ctx.inStack, canonical)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	folder := &Folder{Name: name}
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		childRel := path.Join(rel, entry.Name())
		if ctx.excluded(childRel, entry.Name()) {
			continue
		}

		info, err := os.Stat(full)
		if err != nil {
			ctx.log.Warn("skipping unreadable entry", zap.String("path", childRel), zap.Error(err))
			continue
		}

		switch {
		case info.IsDir():
			sub, err := ctx.read(full, childRel, entry.Name())
			if err != nil {
				ctx.log.Warn("skipping unreadable folder", zap.String("path", childRel), zap.Error(err))
				continue
			}
			if sub != nil {
				folder.Subfolders = append(folder.Subfolders, sub)
			}
		case info.Mode().IsRegular() && strings.HasSuffix(entry.Name(), pathkey.Extension):
			filePath := pathkey.Key(pathkey.Root, childRel)
			folder.Files = append(folder.Files, File{
				Name:    pathkey.Document(entry.Name()),
				Path:    filePath,
				Content: markdownContent(full, filePath),
			})
		}
	}

	if len(folder.Files) == 0 && len(folder.Subfolders) == 0 {
		return nil, nil
	}
	return folder, nil
}

func (ctx *readContext) excluded(rel, name string) bool {
	for _, rule := range ctx.exclude {
		if rule == "" {
			continue
		}
		if strings.ContainsAny(rule, "*?[") {
			if ok, _ := path.Match(rule, name); ok {
				return true
			}
			if ok, _ := path.Match(rule, rel); ok {
				return true
			}
			continue
		}
		if strings.Contains(rel, rule) {
			return true
		}
	}
	return false
}

// markdownContent returns a producer that reads and converts the file each
// time it is called.
func markdownContent(full, filePath string) ContentFunc {
	return func(links pathkey.LinkMap) ([]block.Block, error) {
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filePath, err)
		}
		text := string(StripFrontMatter(data))
		text = pathkey.ReplaceLinks(text, links, filePath)
		text = pathkey.RemoveLinks(text)
		return markdown.Convert([]byte(text)), nil
	}
}
