package scan

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/openclaw/sentinel/internal/domain"
	"github.com/openclaw/sentinel/internal/ports"
)

const (
	sessionSuffix = ".jsonl"
	indexFileName = "sessions.json"
	archivedTag   = ".archived."

	// Session records are one logical line each; runaway injection
	// loops produce very long lines, so the scan buffer grows well
	// past bufio's default.
	initialBuf = 64 * 1024
	maxLineLen = 16 * 1024 * 1024
)

var messageTypeTag = []byte(`"type":"message"`)

// Scanner walks the sessions directory and computes size and marker
// statistics for every live session log. It treats files as raw text:
// detection does not need structural JSON parsing, and bloated files
// frequently contain truncated or interleaved records anyway.
type Scanner struct {
	dir    string
	logger *log.Logger
}

var _ ports.SessionScanner = (*Scanner)(nil)

func New(dir string, logger *log.Logger) *Scanner {
	return &Scanner{dir: filepath.Clean(dir), logger: logger}
}

// Scan returns one Session per live log file. Unreadable files are
// logged and skipped; a missing sessions directory yields an empty
// result rather than an error, since the gateway may simply not have
// started yet.
func (s *Scanner) Scan(ctx context.Context) ([]domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	sessions := make([]domain.Session, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !isSessionLog(entry.Name()) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		sess, err := s.analyze(path)
		if err != nil {
			s.logger.Warn("skipping unreadable session file", "path", path, "err", err)
			continue
		}
		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions, nil
}

func (s *Scanner) analyze(path string) (domain.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Session{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return domain.Session{}, err
	}

	sess := domain.Session{
		ID:        sessionID(path),
		Path:      path,
		SizeBytes: info.Size(),
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, initialBuf), maxLineLen)
	for sc.Scan() {
		line := sc.Bytes()

		markers := domain.CountMarkers(line)
		sess.MarkerCount += markers
		if markers > 1 {
			sess.NestedCount++
		}
		if bytes.Contains(line, messageTypeTag) {
			sess.MessageCount++
		}
	}
	if err := sc.Err(); err != nil {
		return domain.Session{}, err
	}

	return sess, nil
}

func isSessionLog(name string) bool {
	if name == indexFileName {
		return false
	}
	if strings.Contains(name, archivedTag) {
		return false
	}
	return strings.HasSuffix(name, sessionSuffix)
}

func sessionID(path string) domain.SessionID {
	name := filepath.Base(path)
	return domain.SessionID(strings.TrimSuffix(name, sessionSuffix))
}
