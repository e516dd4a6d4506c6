package motor

import (
	"bytes"
	"encoding/json"
	"io"
)

// stdlibDecoder wraps encoding/json.Decoder to satisfy HARDecoder
type stdlibDecoder struct {
	*json.Decoder
}

func newHARDecoder(r io.Reader) HARDecoder {
	d := json.NewDecoder(r)
	d.UseNumber()
	return &stdlibDecoder{Decoder: d}
}

// skipValue consumes the next value, descending into objects and arrays.
func skipValue(decoder HARDecoder) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}

	switch token {
	case json.Delim('{'), json.Delim('['):
		for decoder.More() {
			if token == json.Delim('{') {
				// object key
				if _, err := decoder.Token(); err != nil {
					return err
				}
			}
			if err := skipValue(decoder); err != nil {
				return err
			}
		}
		// closing delimiter
		_, err = decoder.Token()
		return err
	}

	return nil
}

// trimEntry strips the array separator and whitespace that precede an entry
// when it is sliced out of the file by offset.
func trimEntry(raw []byte) []byte {
	return bytes.TrimLeft(raw, ", \t\r\n")
}
