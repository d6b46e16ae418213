package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	wishlog "github.com/charmbracelet/wish/logging"

	"github.com/tomz197/astral-shooter/internal/config"
	"github.com/tomz197/astral-shooter/internal/draw"
	"github.com/tomz197/astral-shooter/internal/game"
	"github.com/tomz197/astral-shooter/internal/logging"
	"github.com/tomz197/astral-shooter/internal/loop"
	"github.com/tomz197/astral-shooter/internal/score"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultIdleTimeout = 120 * time.Second
	shutdownTimeout    = 5 * time.Second
)

// server holds what every connection shares: the tuning and the score store.
// Each connection gets its own engine and session.
type server struct {
	tuning config.Tuning
	store  *score.AsyncStore
	log    *log.Logger
	idle   time.Duration
}

func main() {
	logger := logging.New(config.GetEnv("LOG_LEVEL", "info"), os.Stderr)
	if err := run(logger); err != nil {
		logger.Fatal("ssh server failed", "err", err)
	}
}

func run(logger *log.Logger) error {
	if err := config.LoadEnvFile(); err != nil {
		return err
	}
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)

	tuning, err := config.TuningFromEnv()
	if err != nil {
		return err
	}
	inner, err := score.Open(score.Options{
		Backend:    config.GetEnv("SCORE_BACKEND", score.BackendSQLite),
		AppName:    "astral-shooter",
		SQLitePath: config.GetEnv("SCORE_DB", "astral.db"),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("open score store: %w", err)
	}

	srv := &server{
		tuning: tuning,
		store:  score.NewAsyncStore(inner, logger),
		log:    logging.Component(logger, "ssh"),
		idle:   config.GetEnvDuration("IDLE_TIMEOUT", defaultIdleTimeout),
	}
	defer func() {
		if err := srv.store.Close(); err != nil {
			logger.Error("failed to close score store", "err", err)
		}
	}()

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			srv.gameMiddleware,
			activeterm.Middleware(),
			wishlog.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Game input is latency sensitive
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port), "hostKey", hostKeyPath)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// gameMiddleware runs one game per SSH session.
func (srv *server) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}
		logger := srv.log.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("game session started", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		size := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				size.update(win.Width, win.Height)
			}
		}()

		tuning := srv.tuning
		eng, err := game.NewEngine(game.Options{Tuning: &tuning, Store: srv.store, Logger: logger})
		if err != nil {
			logger.Error("failed to create engine", "err", err)
			return
		}
		r := loop.New(sess, sess, loop.Options{
			Engine:      eng,
			TermSize:    size.getSize,
			Logger:      logger,
			IdleTimeout: srv.idle,
		})
		if err := r.Run(sess.Context()); err != nil {
			logger.Warn("game session failed", "err", err)
		}

		logger.Info("game session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
