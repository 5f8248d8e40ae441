package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/hostctl/internal/errors"
	"github.com/shirou/gopsutil/v3/process"
)

const DefaultName = "hostctl.pid"

// File is a single-instance lock backed by a PID file.
type File struct {
	path string
}

// New returns a PID file at path, or DefaultName in the temp dir when
// path is empty.
func New(path string) *File {
	if path == "" {
		path = filepath.Join(os.TempDir(), DefaultName)
	}

	return &File{path: path}
}

func (f *File) Path() string {
	return f.path
}

// Write records the current process ID. It fails with ErrAlreadyRunning
// when the file names a live process other than this one. Stale or
// garbled files are overwritten.
func (f *File) Write() error {
	errFactory := errors.New()
	self := os.Getpid()

	if other, ok := f.read(); ok && other != self {
		running, err := process.PidExists(int32(other))
		if err != nil {
			return errFactory.Wrap(errors.ErrInternal, err)
		}
		if running {
			return errFactory.WithMessage(errors.ErrAlreadyRunning,
				"another instance is running with pid "+strconv.Itoa(other))
		}
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	err := os.WriteFile(f.path, []byte(strconv.Itoa(self)), 0o600)
	if err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove deletes the PID file. A missing file is not an error.
func (f *File) Remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}

func (f *File) read() (int, bool) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return 0, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || pid <= 0 {
		return 0, false
	}

	return pid, true
}
