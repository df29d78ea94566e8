package instance

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	. "quill/internal/logger"
	"quill/internal/launch"
)

type ShowMode int

const (
	ShowNormal ShowMode = iota
	ShowRestore
	ShowMaximize
)

func (m ShowMode) String() string {
	switch m {
	case ShowRestore:
		return "restore"
	case ShowMaximize:
		return "maximize"
	}
	return "show"
}

// ChooseShowMode keeps a maximised window maximised and brings a minimised one back.
func ChooseShowMode(isZoomed, isIconic bool) ShowMode {
	if isZoomed { return ShowMaximize }
	if isIconic { return ShowRestore }
	return ShowNormal
}

// Handler is the primary instance's side of the channel. Calls come from the server goroutine.
type Handler interface {
	IsZoomed() bool
	IsIconic() bool
	ShowWindow(mode ShowMode)
	OnOpen(params launch.CmdLineParams, files []string)
}

const readTimeout = 5 * time.Second

type Server struct {
	listener net.Listener
	handler  Handler
	closed   atomic.Bool
	wg       sync.WaitGroup
}

// Listen opens the endpoint other processes forward to and starts serving it.
func Listen(name string, handler Handler) (*Server, error) {
	object, err := objectName(name)
	if err != nil { return nil, err }
	return ListenAddress(address(object), handler)
}

func ListenAddress(addr string, handler Handler) (*Server, error) {
	listener, err := listen(addr)
	if err != nil { return nil, fmt.Errorf("listen on %s: %w", addr, err) }

	s := &Server{listener: listener, handler: handler}
	s.wg.Add(1)
	go s.serve()

	Log.Info("instance server listening on", addr)
	return s, nil
}

func (s *Server) Address() string { return s.listener.Addr().String() }

func (s *Server) Close() error {
	if s.closed.Swap(true) { return nil }
	err := s.listener.Close()
	s.wg.Wait()
	return err
}

// one connection at a time, requests are applied in the order they arrive
func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) { return }
			Log.Error("accept:", err.Error())
			continue
		}
		s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

	reader := bufio.NewReader(conn)
	params := launch.NewCmdLineParams()

	for {
		m, err := ReadMessage(reader)
		if err == io.EOF { return }
		if err != nil { Log.Error("instance message:", err.Error()); return }
		s.Dispatch(m, &params)
	}
}

// Dispatch applies one message. params carries the last params record seen on the connection.
func (s *Server) Dispatch(m Message, params *launch.CmdLineParams) {
	switch m.Kind {
	case CopyDataActivate:
		mode := ChooseShowMode(s.handler.IsZoomed(), s.handler.IsIconic())
		Log.Info("activate requested:", mode.String())
		s.handler.ShowWindow(mode)

	case CopyDataParams:
		var received launch.CmdLineParams
		if err := received.UnmarshalBinary(m.Data); err != nil {
			Log.Error("params record:", err.Error())
			return
		}
		*params = received

	case CopyDataFileNames:
		files := launch.SplitFileNames(string(m.Data))
		Log.Info("open requested:", fmt.Sprint(files))
		s.handler.OnOpen(*params, files)

	default:
		Log.Info("ignoring message kind", fmt.Sprint(m.Kind))
	}
}
