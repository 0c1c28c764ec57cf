package chat

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"
)

// Transport frames Message records over one byte stream. Reads are driven by
// the session goroutine and writes by the client's outbound writer; a
// Transport never needs to support two concurrent readers or writers.
type Transport interface {
	ReadMessage() (*Message, error)
	WriteMessage(*Message) error
	Close() error
	RemoteAddr() net.Addr
}

// lineTransport carries one JSON-encoded Message per newline-terminated line.
type lineTransport struct {
	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
}

// NewLineTransport wraps a stream connection in newline-delimited JSON framing.
func NewLineTransport(conn net.Conn) Transport {
	return &lineTransport{
		conn:   conn,
		reader: bufio.NewReader(conn),
		writer: bufio.NewWriter(conn),
	}
}

func (t *lineTransport) ReadMessage() (*Message, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		// A final record without a trailing newline is still a record.
		if err == io.EOF && strings.TrimSpace(line) != "" {
			return decodeMessage(line)
		}
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read: %w", err)
	}
	return decodeMessage(line)
}

func (t *lineTransport) WriteMessage(m *Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if _, err := t.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := t.writer.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func (t *lineTransport) Close() error {
	return t.conn.Close()
}

func (t *lineTransport) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}

func decodeMessage(line string) (*Message, error) {
	var m Message
	if err := json.Unmarshal([]byte(strings.TrimRight(line, "\r\n")), &m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &m, nil
}
