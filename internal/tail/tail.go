// Package tail watches a growing file and delivers complete lines in file
// order.
package tail

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Source follows a single log file. Lines are delivered exactly once, in
// file order, and never partially: bytes after the last newline stay
// buffered until the writer completes the line.
type Source struct {
	path         string
	file         *os.File
	watcher      *fsnotify.Watcher
	pollInterval time.Duration
	fromStart    bool

	lines chan string
	errs  chan error
	done  chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup

	offset  int64
	partial []byte
}

// Option configures a Source.
type Option func(*Source)

// WithPollInterval sets the fallback poll period used when no filesystem
// notification arrives. Some filesystems coalesce or drop write events.
func WithPollInterval(d time.Duration) Option {
	return func(s *Source) { s.pollInterval = d }
}

// FromEnd starts delivery at the current end of file instead of replaying
// existing content first.
func FromEnd() Option {
	return func(s *Source) { s.fromStart = false }
}

// Open starts following the file at path. It fails if the file does not
// exist at open time; errors.Is(err, os.ErrNotExist) holds in that case.
func Open(path string, opts ...Option) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	s := &Source{
		path:         path,
		file:         f,
		pollInterval: 500 * time.Millisecond,
		fromStart:    true,
		lines:        make(chan string, 256),
		errs:         make(chan error, 16),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if !s.fromStart {
		if s.offset, err = f.Seek(0, io.SeekEnd); err != nil {
			f.Close()
			return nil, fmt.Errorf("seek %s: %w", path, err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		f.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	s.watcher = watcher

	s.wg.Add(1)
	go s.loop()
	return s, nil
}

// Lines returns the channel of complete lines, without trailing newlines.
// The channel closes after Close.
func (s *Source) Lines() <-chan string { return s.lines }

// Errs returns the channel of transient read errors. Errors here never stop
// the watch; only Close does.
func (s *Source) Errs() <-chan error { return s.errs }

// Close stops the watch and releases the file handle and watcher. It is
// idempotent and safe to call from a signal handler path.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
	return nil
}

func (s *Source) loop() {
	defer s.wg.Done()
	defer func() {
		s.watcher.Close()
		s.file.Close()
		close(s.lines)
	}()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	// Drain whatever is already there.
	s.drain()

	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.drain()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.report(err)
		case <-ticker.C:
			s.drain()
		}
	}
}

// drain reads everything between the current offset and EOF and emits the
// complete lines found. Handles truncation by restarting from the top.
func (s *Source) drain() {
	info, err := s.file.Stat()
	if err != nil {
		s.report(err)
		return
	}
	if info.Size() < s.offset {
		// File was truncated or rewritten from the start.
		if _, err := s.file.Seek(0, io.SeekStart); err != nil {
			s.report(err)
			return
		}
		s.offset = 0
		s.partial = s.partial[:0]
	}

	buf := make([]byte, 64*1024)
	for {
		n, err := s.file.ReadAt(buf, s.offset)
		if n > 0 {
			s.offset += int64(n)
			s.split(buf[:n])
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			s.report(err)
			return
		}
	}
}

// split appends data to the partial buffer and emits every complete line.
func (s *Source) split(data []byte) {
	s.partial = append(s.partial, data...)
	for {
		i := bytes.IndexByte(s.partial, '\n')
		if i < 0 {
			return
		}
		line := string(bytes.TrimSuffix(s.partial[:i], []byte("\r")))
		s.partial = s.partial[i+1:]
		select {
		case s.lines <- line:
		case <-s.done:
			return
		}
	}
}

func (s *Source) report(err error) {
	select {
	case s.errs <- err:
	default:
		// Error channel full; drop rather than block the watch.
	}
}

// ReadAll reads the file once and returns its complete lines, including a
// final line without a trailing newline. Used by one-shot (no-follow) mode.
func ReadAll(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var lines []string
	for _, raw := range bytes.Split(data, []byte("\n")) {
		raw = bytes.TrimSuffix(raw, []byte("\r"))
		lines = append(lines, string(raw))
	}
	// Split leaves one empty trailing element when the file ends in a newline.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines, nil
}
