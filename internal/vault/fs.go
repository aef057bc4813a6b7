package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Permissions for entries created in the vault.
const (
	DirPerm  os.FileMode = 0o755
	FilePerm os.FileMode = 0o644
)

// ErrNotDocument is returned by ReadDocument when p is a folder.
var ErrNotDocument = errors.New("not a document")

// FS is a Vault backed by an afero filesystem.
type FS struct {
	fs afero.Fs
}

var _ Vault = (*FS)(nil)

// New wraps fs. The root of fs is the vault root.
func New(fs afero.Fs) *FS {
	return &FS{fs: fs}
}

// Open returns a vault rooted at dir on the OS filesystem.
func Open(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving vault directory %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening vault %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening vault %s: not a directory", abs)
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), abs)), nil
}

// Exists implements Vault.
func (v *FS) Exists(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := afero.Exists(v.fs, native(p))
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", p, err)
	}
	return ok, nil
}

// IsDocument implements Vault.
func (v *FS) IsDocument(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := v.fs.Stat(native(p))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", p, err)
	}
	return info.Mode().IsRegular(), nil
}

// CreateFolder implements Vault.
func (v *FS) CreateFolder(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := v.fs.MkdirAll(native(p), DirPerm); err != nil {
		return fmt.Errorf("creating folder %s: %w", p, err)
	}
	return nil
}

// CreateDocument implements Vault. The create is exclusive, so a writer that
// got there first makes this call fail rather than being overwritten.
func (v *FS) CreateDocument(ctx context.Context, p, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := v.fs.OpenFile(native(p), os.O_WRONLY|os.O_CREATE|os.O_EXCL, FilePerm)
	if err != nil {
		return fmt.Errorf("creating document %s: %w", p, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing document %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing document %s: %w", p, err)
	}
	return nil
}

// ReadDocument implements Vault.
func (v *FS) ReadDocument(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	isDir, err := afero.IsDir(v.fs, native(p))
	if err == nil && isDir {
		return "", fmt.Errorf("reading %s: %w", p, ErrNotDocument)
	}
	data, err := afero.ReadFile(v.fs, native(p))
	if err != nil {
		return "", fmt.Errorf("reading document %s: %w", p, err)
	}
	return string(data), nil
}

// native converts a slash-delimited vault path to the host separator.
// Leading slashes are dropped so every path stays relative to the root.
func native(p string) string {
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "."
	}
	return filepath.FromSlash(path.Clean(p))
}
