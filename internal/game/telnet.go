package game

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	telnetIAC  byte = 255
	telnetDONT byte = 254
	telnetDO   byte = 253
	telnetWONT byte = 252
	telnetWILL byte = 251
	telnetSB   byte = 250
	telnetSE   byte = 240
)

const (
	telnetOptEcho       byte = 1
	telnetOptSuppressGA byte = 3
	telnetOptLineMode   byte = 34
)

// Charset resolves a configured client character set. UTF-8 clients get a
// nil encoding and see bytes unchanged.
func Charset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "cp437", "ibm437":
		return charmap.CodePage437, nil
	}
	return nil, fmt.Errorf("unknown charset %q", name)
}

// TelnetSession is a telnet line transport. It answers option negotiation,
// strips IAC sequences from input and transcodes text for clients that do
// not speak UTF-8.
type TelnetSession struct {
	conn    net.Conn
	reader  *bufio.Reader
	charset encoding.Encoding
	mu      sync.Mutex
}

// NewTelnetSession wraps conn and announces the options the server uses.
func NewTelnetSession(conn net.Conn, charset encoding.Encoding) *TelnetSession {
	s := &TelnetSession{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		charset: charset,
	}
	_ = s.writeCommand(telnetWILL, telnetOptSuppressGA)
	_ = s.writeCommand(telnetWONT, telnetOptEcho)
	_ = s.writeCommand(telnetDONT, telnetOptLineMode)
	return s
}

func (s *TelnetSession) writeCommand(cmd, opt byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn.Write([]byte{telnetIAC, cmd, opt})
	return err
}

// WriteString sends msg with bare newlines expanded to CRLF.
func (s *TelnetSession) WriteString(msg string) error {
	if s.charset != nil {
		encoded, err := encoding.ReplaceUnsupported(s.charset.NewEncoder()).String(msg)
		if err != nil {
			return fmt.Errorf("telnet: encode: %w", err)
		}
		msg = encoded
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn.Write(translateForTelnet(msg))
	return err
}

func translateForTelnet(msg string) []byte {
	var buf bytes.Buffer
	var prev byte
	for i := 0; i < len(msg); i++ {
		b := msg[i]
		switch b {
		case '\n':
			if prev != '\r' {
				buf.WriteByte('\r')
			}
			buf.WriteByte('\n')
		case telnetIAC:
			buf.WriteByte(telnetIAC)
			buf.WriteByte(telnetIAC)
		default:
			buf.WriteByte(b)
		}
		prev = b
	}
	return buf.Bytes()
}

// ReadLine returns the next line of input without its terminator.
func (s *TelnetSession) ReadLine() (string, error) {
	var buf bytes.Buffer
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			return "", err
		}
		switch b {
		case '\r':
			if next, err := s.reader.Peek(1); err == nil && (next[0] == '\n' || next[0] == 0) {
				_, _ = s.reader.ReadByte()
			}
			return s.decode(buf.Bytes())
		case '\n':
			return s.decode(buf.Bytes())
		case 0x08, 0x7f:
			if n := buf.Len(); n > 0 {
				buf.Truncate(n - 1)
			}
		case 0x00:
		case telnetIAC:
			if err := s.handleIAC(&buf); err != nil {
				return "", err
			}
		default:
			buf.WriteByte(b)
		}
	}
}

func (s *TelnetSession) decode(line []byte) (string, error) {
	if s.charset == nil {
		return string(line), nil
	}
	decoded, err := s.charset.NewDecoder().Bytes(line)
	if err != nil {
		return "", fmt.Errorf("telnet: decode: %w", err)
	}
	return string(decoded), nil
}

func (s *TelnetSession) handleIAC(buf *bytes.Buffer) error {
	cmd, err := s.reader.ReadByte()
	if err != nil {
		return err
	}
	switch cmd {
	case telnetIAC:
		buf.WriteByte(telnetIAC)
	case telnetDO, telnetDONT, telnetWILL, telnetWONT:
		opt, err := s.reader.ReadByte()
		if err != nil {
			return err
		}
		s.answer(cmd, opt)
	case telnetSB:
		return s.skipSubnegotiation()
	}
	return nil
}

// answer accepts suppress-go-ahead and refuses every other option.
func (s *TelnetSession) answer(cmd, opt byte) {
	switch cmd {
	case telnetDO:
		if opt == telnetOptSuppressGA {
			_ = s.writeCommand(telnetWILL, opt)
		} else {
			_ = s.writeCommand(telnetWONT, opt)
		}
	case telnetDONT:
		_ = s.writeCommand(telnetWONT, opt)
	case telnetWILL:
		_ = s.writeCommand(telnetDONT, opt)
	}
}

func (s *TelnetSession) skipSubnegotiation() error {
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			return err
		}
		if b != telnetIAC {
			continue
		}
		next, err := s.reader.ReadByte()
		if err != nil {
			return err
		}
		if next == telnetSE {
			return nil
		}
	}
}

// Close closes the underlying connection.
func (s *TelnetSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}
