package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Player downloads a sound and plays it with an external command. Only one
// sound plays at a time: Play releases the previous one first.
type Player struct {
	argv   []string
	client *http.Client
	logger *zap.Logger

	mu      sync.Mutex
	current *playback
}

type playback struct {
	cmd  *exec.Cmd
	path string
	done chan struct{}
}

// NewPlayer creates a Player for an argv template containing
// FilePlaceholder, e.g. ffplay -nodisp -autoexit -loglevel quiet {file}.
func NewPlayer(argv []string, httpClient *http.Client, logger *zap.Logger) (*Player, error) {
	if len(argv) == 0 {
		return nil, errors.New("media: empty play command")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{argv: argv, client: httpClient, logger: logger}, nil
}

// Play fetches url and starts playing it. It returns once playback has
// started; the temp file is removed when the command exits.
func (p *Player) Play(ctx context.Context, url string) error {
	file, err := p.download(ctx, url)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.release()

	args := expand(p.argv, file)
	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		os.Remove(file)
		return fmt.Errorf("media: start player %s: %w", args[0], err)
	}

	pb := &playback{cmd: cmd, path: file, done: make(chan struct{})}
	go func() {
		defer close(pb.done)
		if err := cmd.Wait(); err != nil {
			p.logger.Debug("media: player exited", zap.Error(err))
		}
		os.Remove(file)
	}()
	p.current = pb

	p.logger.Debug("media: playing", zap.String("url", url))
	return nil
}

// Wait blocks until the current sound finishes or ctx ends.
func (p *Player) Wait(ctx context.Context) error {
	p.mu.Lock()
	pb := p.current
	p.mu.Unlock()
	if pb == nil {
		return nil
	}
	select {
	case <-pb.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop ends the current sound, if any.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.release()
	return nil
}

// Close releases everything the player holds.
func (p *Player) Close() error {
	return p.Stop()
}

// release kills the current playback and waits for cleanup.
// Must be called with p.mu held.
func (p *Player) release() {
	if p.current == nil {
		return
	}
	select {
	case <-p.current.done:
	default:
		_ = p.current.cmd.Process.Kill()
		<-p.current.done
	}
	p.current = nil
}

func (p *Player) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("media: build audio request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("media: fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("media: fetch audio: status %d", resp.StatusCode)
	}

	ext := path.Ext(req.URL.Path)
	if ext == "" {
		ext = ".mp3"
	}
	name := filepath.Join(os.TempDir(), "sarathi-play-"+uuid.NewString()+ext)
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("media: save audio: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
