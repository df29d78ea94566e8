package instance

import (
	"fmt"
	"time"

	"quill/internal/launch"
)

// Handle points at a running instance. It is only good for the forwarding attempt that found it.
type Handle struct {
	Address string
}

// Payload is what a new process hands over to the running one.
type Payload struct {
	Params    launch.CmdLineParams
	FileNames string // quoted block, see launch.QuoteFileNames
}

type Channel interface {
	FindRunningInstance() (Handle, bool)
	Activate(h Handle) error
	SendPayload(h Handle, p Payload) error
}

const DefaultDialTimeout = 200 * time.Millisecond

// SocketChannel talks to the running instance over a unix socket, or a named pipe on Windows.
type SocketChannel struct {
	Address string
	Timeout time.Duration
}

func NewSocketChannel(name string) (*SocketChannel, error) {
	object, err := objectName(name)
	if err != nil { return nil, err }
	return &SocketChannel{Address: address(object), Timeout: DefaultDialTimeout}, nil
}

func (c *SocketChannel) FindRunningInstance() (Handle, bool) {
	conn, err := dial(c.Address, c.Timeout)
	if err != nil { return Handle{}, false }
	conn.Close()
	return Handle{Address: c.Address}, true
}

func (c *SocketChannel) Activate(h Handle) error {
	return c.send(h, Message{Kind: CopyDataActivate})
}

// SendPayload sends the params record first and the file names second, on one connection.
func (c *SocketChannel) SendPayload(h Handle, p Payload) error {
	record, err := p.Params.MarshalBinary()
	if err != nil { return err }

	paramData := Message{Kind: CopyDataParams, Data: record}
	fileNamesData := Message{Kind: CopyDataFileNames, Data: append([]byte(p.FileNames), 0)}
	return c.send(h, paramData, fileNamesData)
}

func (c *SocketChannel) send(h Handle, messages ...Message) error {
	conn, err := dial(h.Address, c.Timeout)
	if err != nil { return fmt.Errorf("connect to running instance: %w", err) }
	defer conn.Close()

	for _, m := range messages {
		if err := WriteMessage(conn, m); err != nil {
			return fmt.Errorf("send message %d: %w", m.Kind, err)
		}
	}
	return nil
}
