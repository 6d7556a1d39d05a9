// Package guide provides access to the embedded usage guide rendered by
// the CLI's --guide flag, following the teacher's guide package shape
// (embed.FS, Get/List) reduced to the single page grep needs.
package guide

import "embed"

//go:embed *.md
var files embed.FS

// Get returns the content of the guide page name (read from name + ".md").
// An empty name selects "guide", the single page grepr ships; the name
// parameter keeps the signature of the teacher's multi-page Get(name).
func Get(name string) (string, error) {
	if name == "" {
		name = "guide"
	}
	data, err := files.ReadFile(name + ".md")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
