// Package walk is the traversal driver: it expands the user-supplied path
// list into an ordered stream of sources, honouring directory policy and
// include/exclude/exclude-dir glob rules.
//
// Recursive descent is grounded on the teacher's os.OpenRoot-based
// importer (internal/importer/importer.go), generalised from a
// hidden-file-skipping markdown importer into a policy-driven file-system
// walk: unlike the importer, grep has no reason to skip dotfiles, so that
// quirk is dropped rather than carried over.
package walk

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/evanj-au/grepr/internal/globset"
)

// Policy is the directory-handling mode (-d/--directories, -r/-R).
type Policy int

const (
	// PolicyRead yields a directory as a source that will error with
	// "is a directory" when opened, matching reference behaviour.
	PolicyRead Policy = iota
	// PolicySkip yields nothing for a directory, only an info note.
	PolicySkip
	// PolicyRecurse descends into directories, not following symlinks.
	PolicyRecurse
	// PolicyRecurseFollowSymlinks descends into directories and follows
	// symlinked directories, with cycle detection.
	PolicyRecurseFollowSymlinks
)

// Options configures a traversal.
type Options struct {
	Policy     Policy
	Include    *globset.Set
	Exclude    *globset.Set
	ExcludeDir *globset.Set
}

// Entry is one yielded source: a path to open, or the default stream.
type Entry struct {
	Path            string
	IsDefaultStream bool
}

// Note is non-fatal traversal information: "is a directory", a symlink
// cycle, a permission error while listing. IsError distinguishes the error
// list from the info list in the caller's result bundle.
type Note struct {
	Path    string
	Message string
	IsError bool
}

// Visitor receives traversal output in order.
type Visitor struct {
	Entry func(Entry)
	Note  func(Note)
}

// Expand walks paths (already resolved: "-" literally means the default
// stream, may appear anywhere in the list, not only alone) and reports
// entries and notes to v in order. An empty paths list yields exactly one
// default-stream entry.
func Expand(paths []string, opts Options, v Visitor) {
	if len(paths) == 0 {
		v.Entry(Entry{IsDefaultStream: true})
		return
	}

	for _, p := range paths {
		if p == "-" {
			v.Entry(Entry{IsDefaultStream: true})
			continue
		}

		info, err := os.Lstat(p)
		if err != nil {
			v.Note(Note{Path: p, Message: err.Error(), IsError: true})
			continue
		}

		if info.IsDir() {
			switch opts.Policy {
			case PolicySkip:
				v.Note(Note{Path: p, Message: "is a directory", IsError: false})
			case PolicyRead:
				v.Entry(Entry{Path: p})
			case PolicyRecurse, PolicyRecurseFollowSymlinks:
				walkDir(p, opts, v)
			}
			continue
		}

		ok, err := matches(opts.Include, opts.Exclude, filepath.Base(p))
		if err != nil {
			v.Note(Note{Path: p, Message: err.Error(), IsError: true})
			continue
		}
		if ok {
			v.Entry(Entry{Path: p})
		}
	}
}

func matches(include, exclude *globset.Set, name string) (bool, error) {
	if !include.Empty() {
		ok, err := include.Match(name)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	if !exclude.Empty() {
		ok, err := exclude.Match(name)
		if err != nil {
			return false, err
		}
		if ok {
			return false, nil
		}
	}
	return true, nil
}

func walkDir(root string, opts Options, v Visitor) {
	r, err := os.OpenRoot(root)
	if err != nil {
		v.Note(Note{Path: root, Message: err.Error(), IsError: true})
		return
	}
	defer r.Close()

	visited := &visitedSet{}
	walkRel(r, ".", root, opts, v, visited)
}

func walkRel(r *os.Root, rel, displayRoot string, opts Options, v Visitor, visited *visitedSet) {
	f, err := r.Open(rel)
	if err != nil {
		v.Note(Note{Path: displayPath(displayRoot, rel), Message: err.Error(), IsError: true})
		return
	}
	entries, err := f.ReadDir(-1)
	f.Close()
	if err != nil {
		v.Note(Note{Path: displayPath(displayRoot, rel), Message: err.Error(), IsError: true})
		return
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		name := e.Name()
		childRel := path.Join(rel, name)
		display := displayPath(displayRoot, childRel)

		isSymlink := e.Type()&fs.ModeSymlink != 0

		if e.IsDir() || (isSymlink && dirTarget(r, childRel)) {
			ok, err := excludeDir(opts.ExcludeDir, name)
			if err != nil {
				v.Note(Note{Path: display, Message: err.Error(), IsError: true})
				continue
			}
			if ok {
				continue
			}
			if isSymlink && opts.Policy != PolicyRecurseFollowSymlinks {
				continue
			}
			if isSymlink {
				info, err := r.Stat(childRel)
				if err != nil {
					v.Note(Note{Path: display, Message: err.Error(), IsError: true})
					continue
				}
				if visited.seen(info) {
					v.Note(Note{Path: display, Message: "symlink loop detected", IsError: false})
					continue
				}
				visited.add(info)
			}
			walkRel(r, childRel, displayRoot, opts, v, visited)
			continue
		}

		if isSymlink && opts.Policy != PolicyRecurseFollowSymlinks {
			continue
		}

		ok, err := matches(opts.Include, opts.Exclude, name)
		if err != nil {
			v.Note(Note{Path: display, Message: err.Error(), IsError: true})
			continue
		}
		if ok {
			v.Entry(Entry{Path: display})
		}
	}
}

func excludeDir(set *globset.Set, name string) (bool, error) {
	if set.Empty() {
		return false, nil
	}
	return set.Match(name)
}

// dirTarget reports whether a symlink entry resolves to a directory,
// consulting Stat only for symlinks (Stat follows symlinks; Lstat does
// not, so DirEntry.IsDir() alone is not enough for a symlink entry).
func dirTarget(r *os.Root, rel string) bool {
	info, err := r.Stat(rel)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func displayPath(root, rel string) string {
	if rel == "." {
		return root
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}

// visitedSet detects symlink cycles within one traversal by identity
// comparison (os.SameFile), scoped to a single follow-mode walk.
type visitedSet struct {
	infos []fs.FileInfo
}

func (v *visitedSet) seen(info fs.FileInfo) bool {
	for _, existing := range v.infos {
		if os.SameFile(existing, info) {
			return true
		}
	}
	return false
}

func (v *visitedSet) add(info fs.FileInfo) {
	v.infos = append(v.infos, info)
}
