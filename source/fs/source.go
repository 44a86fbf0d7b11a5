// Package fs provides a file source. Saves take an exclusive flock on the
// target and replace it atomically; changes are observed with fsnotify.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/yacchi/zoomify/source"
)

type lockFile interface {
	Stat() (os.FileInfo, error)
	ReadAt(p []byte, off int64) (n int, err error)
	Close() error
	Fd() uintptr
}

var (
	userHomeDir  = os.UserHomeDir
	osReadFile   = os.ReadFile
	osStat       = os.Stat
	osMkdirAll   = os.MkdirAll
	fileLockFunc = fileLock

	openFile = func(name string, flag int, perm os.FileMode) (lockFile, error) {
		return os.OpenFile(name, flag, perm)
	}
)

// fileLock takes an exclusive lock on fd. Filesystems without lock support
// (NFS, SMB) proceed unlocked.
func fileLock(fd int) (unlock func(), err error) {
	if err := flockExclusive(fd); err != nil {
		if isLockNotSupportedError(err) {
			return func() {}, nil
		}
		return nil, err
	}
	return func() { flockUnlock(fd) }, nil
}

// Default permission modes.
const (
	DefaultFileMode = 0644
	DefaultDirMode  = 0755
)

// Source reads and writes one file.
type Source struct {
	path      string
	fileMode  os.FileMode
	dirMode   os.FileMode
	missingOK bool
}

var (
	_ source.Source     = (*Source)(nil)
	_ source.Prober     = (*Source)(nil)
	_ source.Subscriber = (*Source)(nil)
)

// Option configures a Source.
type Option func(*Source)

// WithFileMode sets the permission used when saving. Default 0644.
func WithFileMode(mode os.FileMode) Option {
	return func(s *Source) {
		s.fileMode = mode
	}
}

// WithDirMode sets the permission for created parent directories. Default 0755.
func WithDirMode(mode os.FileMode) Option {
	return func(s *Source) {
		s.dirMode = mode
	}
}

// WithMissingOK makes Load return empty data instead of an error when the
// file does not exist yet. Used for the user settings file, which is only
// created on first save.
func WithMissingOK() Option {
	return func(s *Source) {
		s.missingOK = true
	}
}

// New creates a file source. A leading "~" is expanded to the home directory.
//
//	src := fs.New("~/.minecraft/config/ok_zoomer/config.toml")
//	src := fs.New("config/zoomify.json", fs.WithMissingOK())
func New(path string, opts ...Option) *Source {
	s := &Source{
		path:     path,
		fileMode: DefaultFileMode,
		dirMode:  DefaultDirMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the path as given to New.
func (s *Source) Path() string {
	return s.path
}

// Exists reports whether the file is present. It never reads the file and
// treats any stat failure as absent.
func (s *Source) Exists() bool {
	p, err := expandTilde(s.path)
	if err != nil {
		return false
	}
	info, err := osStat(p)
	return err == nil && !info.IsDir()
}

// Load reads the whole file.
func (s *Source) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := expandTilde(s.path)
	if err != nil {
		return nil, err
	}
	data, err := osReadFile(p)
	if err != nil {
		if s.missingOK && errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read file %q: %w", s.path, err)
	}
	return data, nil
}

// Save locks the file, hands its current content to updateFunc and replaces
// it atomically with the result. Parent directories are created as needed.
func (s *Source) Save(ctx context.Context, updateFunc source.UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := expandTilde(s.path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(target)
	if err := osMkdirAll(dir, s.dirMode); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	lf, stat, unlock, err := s.lockTarget(target)
	if err != nil {
		return err
	}
	defer lf.Close()
	defer unlock()

	var current []byte
	if stat.Size() > 0 {
		current = make([]byte, stat.Size())
		if _, err := lf.ReadAt(current, 0); err != nil {
			return fmt.Errorf("failed to read current file %q: %w", target, err)
		}
	}

	next, err := updateFunc(current)
	if err != nil {
		return err
	}
	if err := writeAtomic(target, next, s.fileMode); err != nil {
		return fmt.Errorf("failed to replace %q: %w", target, err)
	}
	return nil
}

// lockTarget opens target and locks it. Each save replaces the file with a
// new inode, so a writer that waited on the lock may hold the replaced file;
// it then reopens until the locked file is the one at target.
func (s *Source) lockTarget(target string) (lockFile, os.FileInfo, func(), error) {
	for {
		lf, err := openFile(target, os.O_RDWR|os.O_CREATE, s.fileMode)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open file %q for locking: %w", target, err)
		}
		unlock, err := fileLockFunc(int(lf.Fd()))
		if err != nil {
			lf.Close()
			return nil, nil, nil, fmt.Errorf("failed to acquire lock on %q: %w", target, err)
		}
		held, err := lf.Stat()
		if err != nil {
			unlock()
			lf.Close()
			return nil, nil, nil, fmt.Errorf("failed to stat file %q: %w", target, err)
		}
		cur, err := osStat(target)
		if err == nil && os.SameFile(held, cur) {
			return lf, held, unlock, nil
		}
		unlock()
		lf.Close()
		if err != nil && !errors.Is(err, iofs.ErrNotExist) {
			return nil, nil, nil, fmt.Errorf("failed to stat file %q: %w", target, err)
		}
	}
}

// CanSave returns true.
func (s *Source) CanSave() bool {
	return true
}

// Subscribe watches the file's directory, so atomic replacements and
// re-creation are seen, and calls notify(nil) for every write, create or
// rename of the file.
func (s *Source) Subscribe(ctx context.Context, notify source.NotifyFunc) (source.StopFunc, error) {
	target, err := expandTilde(s.path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(target)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch directory %q: %w", dir, err)
	}
	name := filepath.Base(target)

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					notify(nil)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				notify(err)
			case <-ctx.Done():
				return
			}
		}
	}()

	return w.Close, nil
}

// expandTilde expands "~" and "~/..." to the home directory.
func expandTilde(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	if len(path) > 1 && path[1] != '/' && path[1] != filepath.Separator {
		return path, nil
	}
	home, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand home directory: %w", err)
	}
	if len(path) == 1 {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
