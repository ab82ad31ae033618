package webtui

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/gorilla/websocket"
)

type wsMsg struct {
	Type string `json:"type"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin:     sameOrigin,
}

// sameOrigin accepts requests without an Origin header (non-browser clients)
// and browser requests whose Origin host matches the Host header.
func sameOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	host := strings.TrimSpace(r.Host)
	return strings.HasSuffix(origin, "://"+host)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		s.log.Printf("webtui: upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ptmx, cmd, cleanup, err := s.startPTYSession()
	if err != nil {
		s.log.Printf("webtui: start session: %v", err)
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to start session: "+err.Error()))
		return
	}
	defer cleanup()
	s.log.Printf("webtui: session started pid=%d remote=%s", cmd.Process.Pid, r.RemoteAddr)

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- pumpPTYToWS(ctx, ptmx, conn)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- pumpWSToPTY(ctx, conn, ptmx)
	}()

	select {
	case <-ctx.Done():
	case <-errCh:
	}
	cancel()

	// Unblock both pumps: killing the child ends the PTY read, closing the
	// socket ends the websocket read.
	_ = cmd.Process.Kill()
	_ = conn.Close()

	wg.Wait()
	s.log.Printf("webtui: session ended pid=%d", cmd.Process.Pid)
}

// sessionArgs are the arguments for one dashboard subprocess. No subcommand
// means the interactive dashboard.
func (s *Server) sessionArgs() []string {
	var args []string
	if api := strings.TrimSpace(s.cfg.APIURL); api != "" {
		args = append(args, "--api", api)
	}
	return args
}

func (s *Server) executable() (string, error) {
	if exe := strings.TrimSpace(s.cfg.Executable); exe != "" {
		return exe, nil
	}
	return os.Executable()
}

func (s *Server) startPTYSession() (*os.File, *exec.Cmd, func(), error) {
	exe, err := s.executable()
	if err != nil {
		return nil, nil, nil, err
	}

	cmd := exec.Command(exe, s.sessionArgs()...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: 120, Rows: 40})
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		_ = ptmx.Close()
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	}

	return ptmx, cmd, cleanup, nil
}

func pumpPTYToWS(ctx context.Context, ptmx *os.File, conn *websocket.Conn) error {
	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := ptmx.Read(buf)
		if n > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// parseResize returns the window size carried by a JSON control frame.
func parseResize(data []byte) (*pty.Winsize, bool) {
	var m wsMsg
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	if strings.ToLower(strings.TrimSpace(m.Type)) != "resize" || m.Cols <= 0 || m.Rows <= 0 {
		return nil, false
	}
	if m.Cols > 0xffff || m.Rows > 0xffff {
		return nil, false
	}
	return &pty.Winsize{Cols: uint16(m.Cols), Rows: uint16(m.Rows)}, true
}

func pumpWSToPTY(ctx context.Context, conn *websocket.Conn, ptmx *os.File) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		// Control messages are JSON text. Keystroke frames are plain text or binary.
		if mt == websocket.TextMessage && len(data) > 0 && data[0] == '{' {
			if ws, ok := parseResize(data); ok {
				_ = pty.Setsize(ptmx, ws)
			}
			continue
		}

		if len(data) == 0 {
			continue
		}
		if _, err := ptmx.Write(data); err != nil {
			return err
		}
	}
}
