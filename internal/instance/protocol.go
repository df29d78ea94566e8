package instance

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Message kinds, the receiver tells the blocks apart by these.
const (
	CopyDataParams    uint32 = 0
	CopyDataFileNames uint32 = 2
	CopyDataActivate  uint32 = 16
)

const maxMessageSize = 1 << 20

type Message struct {
	Kind uint32 `json:"dwData"`
	Data []byte `json:"lpData,omitempty"`
}

var ErrMessageTooLarge = errors.New("message too large")

func WriteMessage(w io.Writer, m Message) error {
	body, err := json.Marshal(m)
	if err != nil { return err }

	message := fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
	_, err = io.WriteString(w, message)
	return err
}

// ReadMessage returns io.EOF when the peer closed the connection between messages.
func ReadMessage(reader *bufio.Reader) (Message, error) {
	const LEN_HEADER = "Content-Length: "
	messageSize := -1

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && line == "" && messageSize == -1 { return Message{}, io.EOF }
			return Message{}, fmt.Errorf("read header: %w", err)
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" { break } // end of headers

		if strings.HasPrefix(line, LEN_HEADER) {
			size, err := strconv.Atoi(strings.TrimPrefix(line, LEN_HEADER))
			if err != nil { return Message{}, fmt.Errorf("bad content length %q: %w", line, err) }
			messageSize = size
		}
	}

	if messageSize < 0 { return Message{}, errors.New("missing Content-Length header") }
	if messageSize > maxMessageSize { return Message{}, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, messageSize) }

	buf := make([]byte, messageSize)
	if _, err := io.ReadFull(reader, buf); err != nil { return Message{}, fmt.Errorf("read body: %w", err) }

	var m Message
	if err := json.Unmarshal(buf, &m); err != nil { return Message{}, fmt.Errorf("decode message: %w", err) }
	return m, nil
}
