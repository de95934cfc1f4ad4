package toggle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// MaxLineLength bounds a request or response line, excluding the newline.
	MaxLineLength = 4096

	// DefaultMessage is what the firmware client sends.
	DefaultMessage = "Toggle LED"

	statePrefix = "LED state: "
	stateOn     = "ON"
	stateOff    = "OFF"
)

var (
	// ErrMalformedResponse is returned by ParseState for anything other than a state line.
	ErrMalformedResponse = errors.New("toggle: malformed response")
	// ErrLineTooLong is returned when a line exceeds MaxLineLength.
	ErrLineTooLong = errors.New("toggle: line too long")
	// ErrServerClosed is returned by Start after Stop.
	ErrServerClosed = errors.New("toggle: server closed")
	// ErrNoResponse is returned by the client when the server closes without replying.
	ErrNoResponse = errors.New("toggle: no response")
)

// FormatState renders the reply line for a state, without the newline.
func FormatState(on bool) string {
	if on {
		return statePrefix + stateOn
	}
	return statePrefix + stateOff
}

// ParseState parses a reply line produced by FormatState. Trailing CR/LF is ignored.
func ParseState(line string) (bool, error) {
	switch strings.TrimRight(line, "\r\n") {
	case statePrefix + stateOn:
		return true, nil
	case statePrefix + stateOff:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrMalformedResponse, line)
	}
}

// ReadLine reads one line of at most limit bytes and strips the trailing
// "\n" or "\r\n". Bytes followed by EOF count as a line. It returns io.EOF
// only when the reader ends before a single byte arrives.
func ReadLine(r *bufio.Reader, limit int) (string, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice('\n')
		line = append(line, chunk...)

		n := len(line)
		if n > 0 && line[n-1] == '\n' {
			n--
		}
		if n > 0 && line[n-1] == '\r' {
			n--
		}
		if n > limit {
			return "", ErrLineTooLong
		}

		switch {
		case err == nil:
			return trimEOL(line), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if len(line) == 0 {
				return "", io.EOF
			}
			return trimEOL(line), nil
		default:
			return "", err
		}
	}
}

func trimEOL(line []byte) string {
	s := strings.TrimSuffix(string(line), "\n")
	return strings.TrimSuffix(s, "\r")
}
