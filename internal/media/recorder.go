// Package media records voice clips and plays spoken replies by driving
// external audio tools (arecord, ffplay or whatever the config names).
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FilePlaceholder is replaced by the temp file path in command templates.
const FilePlaceholder = "{file}"

var (
	ErrRecordingActive = errors.New("media: a recording is already in progress")
	ErrNotRecording    = errors.New("media: no recording in progress")
	ErrEmptyRecording  = errors.New("media: recording produced no audio")
)

// DefaultStopGrace is how long Stop waits after SIGINT before killing.
const DefaultStopGrace = 2 * time.Second

// Recorder captures one clip at a time into a temp file.
// States: idle → recording → idle (after Stop).
type Recorder struct {
	argv   []string
	ext    string
	grace  time.Duration
	logger *zap.Logger

	mu   sync.Mutex
	cmd  *exec.Cmd
	path string
	done chan error
}

// NewRecorder creates a Recorder for an argv template containing
// FilePlaceholder, e.g. arecord -q -f cd -t wav {file}. ext is the temp
// file extension (".wav" when empty).
func NewRecorder(argv []string, ext string, grace time.Duration, logger *zap.Logger) (*Recorder, error) {
	if len(argv) == 0 {
		return nil, errors.New("media: empty record command")
	}
	if ext == "" {
		ext = ".wav"
	}
	if grace <= 0 {
		grace = DefaultStopGrace
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{argv: argv, ext: ext, grace: grace, logger: logger}, nil
}

// Recording reports whether a capture is running.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}

// Start launches the capture command.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return ErrRecordingActive
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(os.TempDir(), "sarathi-rec-"+uuid.NewString()+r.ext)
	args := expand(r.argv, path)
	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("media: start recorder %s: %w", args[0], err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	r.cmd, r.path, r.done = cmd, path, done
	r.logger.Debug("media: recording started", zap.String("file", path), zap.Int("pid", cmd.Process.Pid))
	return nil
}

// Stop interrupts the capture and returns the recorded clip. The process
// is killed when it does not exit within the grace period or ctx ends.
func (r *Recorder) Stop(ctx context.Context) (domain.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil {
		return domain.Attachment{}, ErrNotRecording
	}
	waitErr := r.halt(ctx)
	path := r.path
	r.cmd, r.path, r.done = nil, "", nil
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		if waitErr != nil {
			return domain.Attachment{}, fmt.Errorf("media: recorder exited: %w", waitErr)
		}
		return domain.Attachment{}, ErrEmptyRecording
	}

	r.logger.Debug("media: recording stopped", zap.Int("bytes", len(data)))
	return domain.Attachment{
		FileName:    "voice_message" + r.ext,
		ContentType: contentType(r.ext),
		Data:        data,
	}, nil
}

// Close discards a running capture.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil {
		return nil
	}
	_ = r.halt(context.Background())
	os.Remove(r.path)
	r.cmd, r.path, r.done = nil, "", nil
	return nil
}

// halt sends SIGINT and waits for exit, escalating to SIGKILL.
// Must be called with r.mu held.
func (r *Recorder) halt(ctx context.Context) error {
	if err := r.cmd.Process.Signal(os.Interrupt); err != nil {
		r.logger.Debug("media: interrupt failed", zap.Error(err))
	}

	timer := time.NewTimer(r.grace)
	defer timer.Stop()

	select {
	case err := <-r.done:
		return err
	case <-timer.C:
	case <-ctx.Done():
	}

	r.logger.Warn("media: recorder did not stop, killing", zap.Int("pid", r.cmd.Process.Pid))
	_ = r.cmd.Process.Kill()
	return <-r.done
}

func expand(argv []string, path string) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		out[i] = strings.ReplaceAll(a, FilePlaceholder, path)
	}
	return out
}

func contentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/m4a"
	case ".mp3":
		return "audio/mpeg"
	case ".ogg", ".oga":
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}
