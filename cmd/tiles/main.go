// Command tiles serves the place-value addition game in a terminal, either
// locally or to SSH clients.
package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"placevalue/internal/app"
	"placevalue/internal/config"
	"placevalue/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/muesli/termenv"
	cryptoSsh "golang.org/x/crypto/ssh"
)

func main() {
	cfg, err := loadConfig(".env")
	if err != nil {
		log.Fatal("Could not load config", "error", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if err := config.LoadGameConfig(cfg.GameConfig); err != nil {
		log.Warn("Using default game config", "path", cfg.GameConfig, "error", err)
	}

	if cfg.Mode == modeLocal {
		runLocal(cfg)
		return
	}
	runSSH(cfg)
}

func newModel(cfg Config, opts tui.Options) tui.Model {
	game := config.GetGameConfig()
	opts.Service = app.NewService(nil, game)
	opts.ResultDelay = cfg.handoffDelay(game)
	return tui.New(opts)
}

func runLocal(cfg Config) {
	// The program owns the terminal, so logs go to a file.
	f, err := tea.LogToFile("tiles.log", "tiles")
	if err != nil {
		log.Fatal("Could not open log file", "error", err)
	}
	defer f.Close()
	log.SetOutput(f)

	p := tea.NewProgram(newModel(cfg, tui.Options{Logger: log.Default()}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal("Program failed", "error", err)
	}
}

func runSSH(cfg Config) {
	s, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithPublicKeyAuth(func(_ ssh.Context, key ssh.PublicKey) bool {
			return true
		}),
		wish.WithMiddleware(
			bubbletea.MiddlewareWithProgramHandler(programHandler(cfg), termenv.ANSI256),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatal("Could not start server", "error", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	log.Info("Starting SSH server", "host", cfg.Host, "port", cfg.Port)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error("Could not start server", "error", err)
			done <- nil
		}
	}()

	<-done
	log.Info("Stopping SSH server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Error("Could not stop server", "error", err)
	}
}

// programHandler starts one independent game per SSH session.
func programHandler(cfg Config) bubbletea.ProgramHandler {
	return func(sess ssh.Session) *tea.Program {
		_, _, active := sess.Pty()
		if !active {
			wish.Fatalln(sess, "no active terminal, skipping")
			return nil
		}

		user := sess.User()
		if key := sess.PublicKey(); key != nil {
			user = cryptoSsh.FingerprintSHA256(key)
		}

		m := newModel(cfg, tui.Options{
			Renderer: bubbletea.MakeRenderer(sess),
			Logger:   log.Default(),
			User:     user,
		})

		go func() {
			<-sess.Context().Done()
			log.Info("Good bye", "user", user)
		}()

		return tea.NewProgram(m, append(bubbletea.MakeOptions(sess), tea.WithAltScreen())...)
	}
}
