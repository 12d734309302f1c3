package filesystem

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// PathOperations maps logical asset paths onto the host filesystem
type PathOperations interface {
	Path(string) string
}

// Assets gives read access to the files below an asset root. Logical paths
// always use '/' as separator.
type Assets interface {
	PathOperations
	Exists(string) bool
	Open(string) (io.ReadCloser, error)
	ReadFile(string) ([]byte, error)
}

type assetDir string

// NewAssets returns the assets found below basedir
func NewAssets(basedir string) (Assets, error) {
	absdir, err := filepath.Abs(basedir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absdir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset root %s is not a directory", absdir)
	}
	return assetDir(absdir), nil
}

func (fs assetDir) Path(logical string) string {
	return filepath.Join(string(fs), filepath.FromSlash(path.Clean("/"+logical)))
}

// Exists reports whether a regular file exists at the logical path
func (fs assetDir) Exists(logical string) bool {
	info, err := os.Stat(fs.Path(logical))
	return err == nil && info.Mode().IsRegular()
}

func (fs assetDir) Open(logical string) (io.ReadCloser, error) {
	return os.Open(fs.Path(logical))
}

func (fs assetDir) ReadFile(logical string) ([]byte, error) {
	return os.ReadFile(fs.Path(logical))
}
