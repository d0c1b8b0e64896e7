package core

// input.go reads pasted data from a stream (stdin, a file, a request body)
// without ever holding more than the size cap in memory.

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// cappedReader fails with ErrInputTooLarge once more than max bytes were read.
type cappedReader struct {
	r    io.Reader
	max  int64
	read int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.read > c.max {
		return n, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, c.max)
	}
	return n, err
}

// ReadInput reads raw data from r. A leading UTF-8 byte order mark is
// dropped and invalid UTF-8 becomes U+FFFD. Zero or negative maxBytes
// disables the size cap.
func ReadInput(r io.Reader, maxBytes int) (string, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
	}

	var src io.Reader = br
	if maxBytes > 0 {
		src = &cappedReader{r: br, max: int64(maxBytes)}
	}

	data, err := io.ReadAll(src)
	if err != nil {
		if errors.Is(err, ErrInputTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), "\uFFFD"), nil
	}
	return string(data), nil
}

// ReadInput reads raw data from r under the service's size cap.
func (s *Service) ReadInput(r io.Reader) (string, error) {
	return ReadInput(r, s.maxInputBytes)
}
