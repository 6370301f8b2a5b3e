// Package laxdoc reads, canonicalizes, verifies and writes json-lax
// documents as files.
//
// A canonical document file is the RFC 8785 rendering of a value followed by
// exactly one LF:
//
//	file = Canonical(value) || 0x0A
//
// Any input the lax parser accepts can be canonicalized. Verification is
// strict: the file must already be byte-for-byte what Canonicalize and
// Envelope would produce for its own value.
package laxdoc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/lattice-substrate/json-lax/laxemit"
	"github.com/lattice-substrate/json-lax/laxerr"
	"github.com/lattice-substrate/json-lax/laxvalue"
)

// ReadBounded reads all of r, failing with BOUND_EXCEEDED once more than limit
// bytes arrive.
func ReadBounded(r io.Reader, limit int) ([]byte, error) {
	lr := io.LimitReader(r, int64(limit)+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, laxerr.Wrap(laxerr.InternalIO, "read input", err)
	}
	if len(data) > limit {
		return nil, laxerr.Newf(laxerr.BoundExceeded, "input exceeds maximum size %d bytes", limit)
	}
	return data, nil
}

// Parse parses input with the lax parser, reporting failure as an
// INVALID_INPUT error.
func Parse(input []byte, opts *laxvalue.Options) (laxvalue.Value, error) {
	v, ok := laxvalue.ParseWithOptions(input, opts)
	if !ok {
		return laxvalue.Value{}, laxerr.New(laxerr.InvalidInput, "malformed JSON")
	}
	return *v, nil
}

// Canonicalize parses input and returns its canonical bytes without the
// trailing LF.
func Canonicalize(input []byte, opts *laxvalue.Options) ([]byte, error) {
	v, err := Parse(input, opts)
	if err != nil {
		return nil, err
	}
	return laxemit.Canonical(v)
}

// Envelope appends the single trailing LF to a canonical body.
func Envelope(body []byte) []byte {
	out := make([]byte, len(body)+1)
	copy(out, body)
	out[len(body)] = '\n'
	return out
}

// Verify checks that data is a canonical document file. File-level problems
// and unparsable bodies fail with INVALID_INPUT; a body that parses but
// differs from its canonical form fails with NOT_CANONICAL.
func Verify(data []byte, opts *laxvalue.Options) error {
	body, err := checkEnvelope(data)
	if err != nil {
		return err
	}
	canonical, err := Canonicalize(body, opts)
	if err != nil {
		return err
	}
	if !bytes.Equal(body, canonical) {
		return laxerr.New(laxerr.NotCanonical, "body bytes differ from canonical re-serialization")
	}
	return nil
}

func envelopeErr(format string, args ...any) error {
	return laxerr.Newf(laxerr.InvalidInput, "envelope: "+format, args...)
}

// checkEnvelope returns data without its trailing LF after the file-level
// checks pass.
func checkEnvelope(data []byte) ([]byte, error) {
	switch {
	case len(data) == 0:
		return nil, envelopeErr("file is empty")
	case data[len(data)-1] != '\n':
		return nil, envelopeErr("missing trailing LF")
	case len(data) == 1:
		return nil, envelopeErr("empty body (file contains only LF)")
	}
	body := data[:len(data)-1]

	if bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}) {
		return nil, envelopeErr("UTF-8 BOM detected")
	}
	if i := bytes.IndexByte(data, '\r'); i >= 0 {
		return nil, envelopeErr("CR byte at offset %d", i)
	}
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		if i == len(body)-1 {
			return nil, envelopeErr("multiple trailing LFs")
		}
		return nil, envelopeErr("LF byte in body at offset %d", i)
	}
	if !utf8.Valid(body) {
		return nil, envelopeErr("invalid UTF-8 at offset %d", invalidUTF8Offset(body))
	}
	return body, nil
}

func invalidUTF8Offset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}

// WriteAtomic writes data to path through a temp file in the same
// directory and a rename. On failure no file is left at path and the temp
// file is removed.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".laxdoc-*.tmp")
	if err != nil {
		return laxerr.Wrap(laxerr.InternalIO, "create temp file", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return laxerr.Wrap(laxerr.InternalIO, "write temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		return laxerr.Wrap(laxerr.InternalIO, "sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return laxerr.Wrap(laxerr.InternalIO, "close temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return laxerr.Wrap(laxerr.InternalIO, fmt.Sprintf("rename temp file to %q", path), err)
	}
	success = true

	syncDir(dir)
	return nil
}

// syncDir fsyncs dir. Errors are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

// WriteDocument canonicalizes input and writes it to path as a document
// file.
func WriteDocument(path string, input []byte, opts *laxvalue.Options) error {
	body, err := Canonicalize(input, opts)
	if err != nil {
		return fmt.Errorf("laxdoc: %s: %w", path, err)
	}
	return WriteAtomic(path, Envelope(body))
}
