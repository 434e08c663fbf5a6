// Package xmlio opens MATSim-style XML inputs, transparently handling gzip
// framing, and provides small helpers for reading attributes off decoder
// tokens without every call site repeating the same boilerplate.
package xmlio

import (
	"bufio"
	"compress/gzip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	ErrNoFileExtension      = errors.New("xmlio: file missing extension")
	ErrUnknownFileExtension = errors.New("xmlio: unknown file extension")
)

// Open returns a buffered reader for path, transparently decompressing
// ".gz" files. The caller is responsible for closing the returned file
// handle via the returned io.Closer once done with the reader.
func Open(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("xmlio: open %q: %w", path, err)
	}

	ext := filepath.Ext(path)
	switch ext {
	case "":
		f.Close()
		return nil, nil, fmt.Errorf("xmlio: %q: %w", path, ErrNoFileExtension)
	case ".xml":
		return bufio.NewReader(f), f, nil
	case ".gz":
		gz, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("xmlio: gzip %q: %w", path, err)
		}
		return bufio.NewReader(gz), f, nil
	default:
		f.Close()
		return nil, nil, fmt.Errorf("xmlio: %q (ext %q): %w", path, ext, ErrUnknownFileExtension)
	}
}

// NewDecoder opens path and wraps it in an *xml.Decoder, returning a closer
// the caller must invoke once decoding is finished.
func NewDecoder(path string) (*xml.Decoder, io.Closer, error) {
	r, closer, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	return xml.NewDecoder(r), closer, nil
}

// Attr looks up an attribute by local name on a start element.
func Attr(tok xml.StartElement, key string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Name.Local == key {
			return a.Value, true
		}
	}
	return "", false
}

// MustAttr looks up an attribute by local name, returning an error naming
// both the element and the missing key when absent.
func MustAttr(tok xml.StartElement, key string) (string, error) {
	v, ok := Attr(tok, key)
	if !ok {
		return "", fmt.Errorf("xmlio: element %q missing %q attribute", tok.Name.Local, key)
	}
	return v, nil
}
