package instance

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"quill/internal/cmdline"
	"quill/internal/launch"

	"github.com/stretchr/testify/assert"
)

type opened struct {
	params launch.CmdLineParams
	files  []string
}

type fakeHandler struct {
	mu      sync.Mutex
	zoomed  bool
	iconic  bool
	shows   []ShowMode
	opens   []opened
	updates chan struct{}
}

func newFakeHandler() *fakeHandler {
	return &fakeHandler{updates: make(chan struct{}, 10)}
}

func (h *fakeHandler) IsZoomed() bool { return h.zoomed }
func (h *fakeHandler) IsIconic() bool { return h.iconic }

func (h *fakeHandler) ShowWindow(mode ShowMode) {
	h.mu.Lock()
	h.shows = append(h.shows, mode)
	h.mu.Unlock()
	h.updates <- struct{}{}
}

func (h *fakeHandler) OnOpen(params launch.CmdLineParams, files []string) {
	h.mu.Lock()
	h.opens = append(h.opens, opened{params, files})
	h.mu.Unlock()
	h.updates <- struct{}{}
}

func (h *fakeHandler) wait(t *testing.T, n int) {
	for i := 0; i < n; i++ {
		select {
		case <-h.updates:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for update %d", i+1)
		}
	}
}

func TestMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sent := []Message{
		{Kind: CopyDataActivate},
		{Kind: CopyDataParams, Data: []byte{0, 1, 2, 255}},
		{Kind: CopyDataFileNames, Data: []byte("\"/tmp/a b.txt\" \x00")},
	}
	for _, m := range sent {
		assert.NoError(t, WriteMessage(&buf, m))
	}
	assert.True(t, strings.HasPrefix(buf.String(), "Content-Length: "))

	reader := bufio.NewReader(&buf)
	for _, want := range sent {
		got, err := ReadMessage(reader)
		assert.NoError(t, err)
		assert.Equal(t, want.Kind, got.Kind)
		assert.Equal(t, len(want.Data), len(got.Data))
		assert.Equal(t, string(want.Data), string(got.Data))
	}

	_, err := ReadMessage(reader)
	assert.Equal(t, io.EOF, err)
}

func TestReadMessageErrors(t *testing.T) {
	_, err := ReadMessage(bufio.NewReader(strings.NewReader("X-Other: 1\r\n\r\n{}")))
	assert.Error(t, err)

	_, err = ReadMessage(bufio.NewReader(strings.NewReader("Content-Length: 99999999\r\n\r\n")))
	assert.ErrorIs(t, err, ErrMessageTooLarge)

	_, err = ReadMessage(bufio.NewReader(strings.NewReader("Content-Length: 10\r\n\r\n{}")))
	assert.Error(t, err)
}

func TestDispatchPairsParamsWithFileNames(t *testing.T) {
	handler := newFakeHandler()
	server := &Server{handler: handler}
	params := launch.NewCmdLineParams()

	sent := launch.NewCmdLineParams()
	sent.IsReadOnly = true
	record, err := sent.MarshalBinary()
	assert.NoError(t, err)

	server.Dispatch(Message{Kind: CopyDataParams, Data: record}, &params)
	server.Dispatch(Message{Kind: 99}, &params)
	server.Dispatch(Message{Kind: CopyDataFileNames, Data: []byte("\"/a\" \x00")}, &params)

	assert.Len(t, handler.opens, 1)
	assert.Equal(t, sent, handler.opens[0].params)
	assert.Equal(t, []string{"/a"}, handler.opens[0].files)
}

func TestForwardedPayloadIsReconstructed(t *testing.T) {
	handler := newFakeHandler()
	handler.iconic = true
	name := testName(t)

	server, err := Listen(name, handler)
	assert.NoError(t, err)
	defer server.Close()

	channel, err := NewSocketChannel(name)
	assert.NoError(t, err)

	params := cmdline.Params{"-ro", "-lgo", "-n7", "-c2"}
	options := launch.Parse(&params)
	files := []string{"/tmp/one.txt", "/tmp/with space/two.go"}
	payload := Payload{Params: options.Params, FileNames: launch.QuoteFileNames(files)}

	arbiter := NewArbiter(name, channel)
	arbiter.Acquire = func(string) (func(), bool, error) { return func() {}, false, nil }
	assert.Equal(t, ForwardAndExit, arbiter.Decide(false, payload))

	handler.wait(t, 2)
	handler.mu.Lock()
	defer handler.mu.Unlock()

	assert.Equal(t, []ShowMode{ShowRestore}, handler.shows)
	assert.Len(t, handler.opens, 1)
	assert.Equal(t, options.Params, handler.opens[0].params)
	assert.Equal(t, files, handler.opens[0].files)
}

func TestNoServerMeansNotFound(t *testing.T) {
	channel, err := NewSocketChannel(testName(t))
	assert.NoError(t, err)

	_, found := channel.FindRunningInstance()
	assert.False(t, found)
}

func TestServerCloseTwice(t *testing.T) {
	server, err := Listen(testName(t), newFakeHandler())
	assert.NoError(t, err)
	assert.NoError(t, server.Close())
	assert.NoError(t, server.Close())
}
