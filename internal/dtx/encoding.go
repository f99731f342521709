package dtx

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// Candidate chains for the two file kinds. Authoring tools emit SET.def
// as UTF-16 or Shift-JIS and chart files as Shift-JIS, none of them with
// a declared encoding, so decoding is trial and error.
var (
	setDefEncodings = []encoding.Encoding{
		unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM),
		japanese.ShiftJIS,
		unicode.UTF8,
	}
	chartEncodings = []encoding.Encoding{
		japanese.ShiftJIS,
	}
)

// DecodeText decodes raw file bytes by trying each candidate encoding in
// order and keeping the first strict success. A candidate fails when the
// transformer reports an error or when the decoded text contains a
// replacement character, which the x/text decoders substitute for input
// they cannot map. When every candidate fails the bytes are decoded as
// UTF-8 with invalid sequences dropped, so callers always get text back.
func DecodeText(data []byte, candidates []encoding.Encoding) string {
	for _, enc := range candidates {
		if s, ok := tryDecode(data, enc); ok {
			return s
		}
	}
	return strings.ToValidUTF8(string(data), "")
}

func tryDecode(data []byte, enc encoding.Encoding) (string, bool) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

// DecodeSetDef decodes SET.def bytes (UTF-16 with BOM, Shift-JIS or
// UTF-8).
func DecodeSetDef(data []byte) string {
	return DecodeText(data, setDefEncodings)
}

// DecodeChart decodes chart file bytes (Shift-JIS, with a lossy UTF-8
// fallback).
func DecodeChart(data []byte) string {
	return DecodeText(data, chartEncodings)
}
