// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"fmt"
	"path"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/overpack/overpack/pkg/vpkfs"
)

// DefaultLitterDirs are directories left behind by archive tools that never
// hold package content.
var DefaultLitterDirs = []string{"__MACOSX"}

type (
	// JavaSdkCode is an SDK source file. Path is relative to the package root
	// and slash-separated.
	JavaSdkCode struct {
		Path    string
		Content string
	}

	// CodeOptions control CollectCodes.
	CodeOptions struct {
		// LitterDirs are directory names whose subtrees are skipped wherever
		// they occur. Nil selects DefaultLitterDirs.
		LitterDirs []string
		// Ignore holds doublestar patterns matched against root-relative paths.
		// A matching directory is skipped with its whole subtree.
		Ignore []string

		logger *log.Logger
	}
)

// CollectCodes walks root breadth-first and returns every .java file outside
// litter and ignored directories, in visit order.
func CollectCodes(root vpkfs.Path, opts CodeOptions) ([]JavaSdkCode, error) {
	litter := opts.LitterDirs
	if litter == nil {
		litter = DefaultLitterDirs
	}
	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	logger := opts.logger
	if logger == nil {
		logger = discardLogger()
	}

	var codes []JavaSdkCode
	queue := []vpkfs.Path{root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		children, err := dir.Children()
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if ignored(opts.Ignore, child.Rel()) {
				logger.Debug("skipping ignored path", "path", child.Rel())
				continue
			}
			if child.IsDir() {
				if slices.Contains(litter, child.Name()) {
					logger.Debug("skipping litter directory", "path", child.Rel())
					continue
				}
				queue = append(queue, child)
				continue
			}
			if child.Ext() != extJavaCode {
				continue
			}
			content, err := child.ReadText()
			if err != nil {
				return nil, err
			}
			codes = append(codes, JavaSdkCode{Path: child.Rel(), Content: content})
		}
	}
	return codes, nil
}

// Dump writes the file to root/<Path> on fs and returns the written path.
func (c JavaSdkCode) Dump(fs afero.Fs, root string) (string, error) {
	target := path.Join(root, c.Path)
	if err := vpkfs.WriteFile(fs, target, []byte(c.Content)); err != nil {
		return "", err
	}
	return target, nil
}

func ignored(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
