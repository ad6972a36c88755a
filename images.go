package reportgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tsawler/reportgen/format"
	"github.com/tsawler/reportgen/imageset"
	"github.com/tsawler/reportgen/runlog"
)

// ErrUnsupportedImages is returned when an image collection is neither a
// directory nor a zip archive.
var ErrUnsupportedImages = errors.New("image collection must be a folder or a ZIP archive")

// LoadImages reads a case collection from a directory, or from a zip
// archive extracted into a fresh directory under workDir.
func LoadImages(path, workDir string, fn runlog.Func) (*imageset.Collection, error) {
	log := runlog.New(fn)

	coll, err := loadImages(path, workDir, log)
	if err != nil {
		if errors.Is(err, imageset.ErrNoFolders) {
			log.Error("ZIP did not contain any folders.")
		} else {
			log.Error("Failed to process uploaded folder ZIP: %v", err)
		}
		return nil, err
	}

	if coll.Len() == 0 {
		log.Warn("No valid claim folders or images found.")
	} else {
		log.Success("Found %d claim(s) inside %s", coll.Len(), coll.Root)
	}
	return coll, nil
}

func loadImages(path, workDir string, log *runlog.Logger) (*imageset.Collection, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return imageset.FromDir(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	kind, err := format.DetectFromReader(f, info.Size())
	f.Close()
	if err != nil {
		return nil, err
	}
	if kind != format.ZIP {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedImages, filepath.Base(path), kind)
	}

	log.Info("Received folder ZIP: %s", filepath.Base(path))
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dest := filepath.Join(workDir, stem+"-"+uuid.NewString()[:8])
	coll, err := imageset.FromArchive(path, dest)
	if err != nil {
		return nil, err
	}
	log.Info("Detected parent folder: %s", filepath.Base(coll.Root))
	return coll, nil
}
