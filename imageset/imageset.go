// Package imageset loads the photographs of a batch run.
//
// A collection is a directory tree three levels deep: the collection root
// holds one directory per case, each case holds one directory per
// sub-category (a room, for example), and each sub-category holds the
// images. Only .jpg, .jpeg and .png files are images; anything else is
// ignored. Every level is sorted lexicographically.
//
//	coll, err := imageset.FromArchive("photos.zip", extractDir)
//	for _, c := range coll.Cases {
//		header, ok := c.Images.Header()
//		...
//	}
package imageset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tsawler/reportgen/format"
)

// HeaderGroup is the sub-category whose first image heads the report.
const HeaderGroup = "home"

// ErrNoFolders is returned when an archive holds no top-level directory.
var ErrNoFolders = errors.New("archive did not contain any folders")

// Group is a named sub-category of images.
type Group struct {
	Name   string
	Images []string
}

// Set is the ordered image groups of one case.
type Set struct {
	Groups []Group
}

// Header returns the group named "home", compared case-insensitively.
func (s Set) Header() (Group, bool) {
	for _, g := range s.Groups {
		if strings.EqualFold(g.Name, HeaderGroup) {
			return g, true
		}
	}
	return Group{}, false
}

// Rooms returns every group except the header group.
func (s Set) Rooms() []Group {
	var out []Group
	for _, g := range s.Groups {
		if !strings.EqualFold(g.Name, HeaderGroup) {
			out = append(out, g)
		}
	}
	return out
}

// ImageCount returns the number of images across all groups.
func (s Set) ImageCount() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Images)
	}
	return n
}

// Empty reports whether the set holds no images.
func (s Set) Empty() bool {
	return s.ImageCount() == 0
}

// Case is one case directory and its images.
type Case struct {
	Name   string
	Images Set
}

// Collection is the ordered cases found under a root directory.
type Collection struct {
	Root  string
	Cases []Case
}

// Len returns the number of cases.
func (c *Collection) Len() int {
	return len(c.Cases)
}

// FromDir loads every case directory under root. Cases without images are
// dropped.
func FromDir(root string) (*Collection, error) {
	dirs, err := subdirs(root)
	if err != nil {
		return nil, err
	}
	coll := &Collection{Root: root}
	for _, name := range dirs {
		set, err := LoadCase(filepath.Join(root, name))
		if err != nil {
			return nil, err
		}
		if set.Empty() {
			continue
		}
		coll.Cases = append(coll.Cases, Case{Name: name, Images: set})
	}
	return coll, nil
}

// LoadCase loads the image groups of one case directory. Groups without
// images are dropped.
func LoadCase(dir string) (Set, error) {
	groups, err := subdirs(dir)
	if err != nil {
		return Set{}, err
	}
	var set Set
	for _, name := range groups {
		images, err := listImages(filepath.Join(dir, name))
		if err != nil {
			return Set{}, err
		}
		if len(images) == 0 {
			continue
		}
		set.Groups = append(set.Groups, Group{Name: name, Images: images})
	}
	return set, nil
}

// subdirs returns the sorted names of the visible directories in dir.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && !hidden(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// listImages returns the sorted paths of the image files in dir.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && !hidden(e.Name()) && format.IsImageFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// hidden reports whether a name is a dot file or archive metadata folder.
func hidden(name string) bool {
	return strings.HasPrefix(name, ".") || name == "__MACOSX"
}
