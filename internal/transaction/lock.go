// Package transaction serializes mutating zpm commands with an advisory
// lock file. It guards the versions directory and the current pointer
// against concurrent installs; it does not make them atomic.
package transaction

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
)

// StaleLockThreshold is the age after which a lock that names no readable
// holder pid is taken over. Locks with a pid are held while that process
// runs, however long a download takes.
const StaleLockThreshold = 10 * time.Minute

// Holder describes the process recorded in a lock file.
type Holder struct {
	PID       int32
	Operation string
	Started   time.Time
}

func (h Holder) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pid %d", h.PID)
	if h.Operation != "" {
		fmt.Fprintf(&b, " (%s)", h.Operation)
	}
	if !h.Started.IsZero() {
		fmt.Fprintf(&b, " since %s", h.Started.Local().Format(time.Kitchen))
	}
	return b.String()
}

// Lock is a held lock file.
type Lock struct {
	path string
	file *os.File
}

// AcquireLock creates lockPath exclusively and records this process as
// running op. An existing lock is taken over once when its holder process
// is gone, or when it names no pid and is older than StaleLockThreshold;
// otherwise the result is ErrLocked naming the holder.
func AcquireLock(ctx context.Context, lockPath, op string) (*Lock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	file, err := createExclusive(lockPath)
	if os.IsExist(err) {
		holder, _ := ReadHolder(lockPath)
		if !isStale(ctx, lockPath, holder) {
			return nil, lockedError(lockPath, holder)
		}
		os.Remove(lockPath)
		file, err = createExclusive(lockPath)
		if os.IsExist(err) {
			holder, _ = ReadHolder(lockPath)
			return nil, lockedError(lockPath, holder)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	data := fmt.Sprintf("pid=%d\nop=%s\ntimestamp=%s\n", os.Getpid(), op, time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(data); err == nil {
		err = file.Sync()
	}
	if err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock file: %w", err)
	}

	return &Lock{path: lockPath, file: file}, nil
}

// Release removes the lock file. It is safe to call more than once.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if l.path == "" {
		return nil
	}

	path := l.path
	l.path = ""
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

// ReadHolder parses the key=value lines of a lock file. Unknown keys and
// malformed values are ignored.
func ReadHolder(lockPath string) (Holder, error) {
	f, err := os.Open(lockPath)
	if err != nil {
		return Holder{}, err
	}
	defer f.Close()

	var h Holder
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "pid":
			if pid, err := strconv.ParseInt(value, 10, 32); err == nil {
				h.PID = int32(pid)
			}
		case "op":
			h.Operation = value
		case "timestamp":
			h.Started, _ = time.Parse(time.RFC3339, value)
		}
	}
	return h, scanner.Err()
}

func createExclusive(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
}

func isStale(ctx context.Context, lockPath string, holder Holder) bool {
	if holder.PID > 0 {
		alive, err := process.PidExistsWithContext(ctx, holder.PID)
		if err == nil {
			return !alive
		}
	}

	info, err := os.Stat(lockPath)
	if err != nil {
		return os.IsNotExist(err)
	}
	return time.Since(info.ModTime()) > StaleLockThreshold
}

func lockedError(lockPath string, holder Holder) error {
	if holder.PID <= 0 {
		return zpmerrors.New(zpmerrors.ErrLocked, "%s", lockPath)
	}
	return zpmerrors.New(zpmerrors.ErrLocked, "%s held by %s", lockPath, holder)
}
