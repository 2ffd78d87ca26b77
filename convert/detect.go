package convert

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// how much of the file is looked at to decide its type
const headSize = 1024

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

type docKind int

const (
	kindUnknown docKind = iota
	kindHTML
	kindXHTML
)

func (k docKind) String() string {
	switch k {
	case kindHTML:
		return "html"
	case kindXHTML:
		return "xhtml"
	}
	return "unknown"
}

var (
	typeHTML  = filetype.NewType("html", "text/html")
	typeXHTML = filetype.NewType("xhtml", "application/xhtml+xml")

	documentExts = []string{".html", ".htm", ".shtml", ".xhtml", ".xht"}
)

func init() {
	filetype.AddMatcher(typeHTML, htmlMatcher)
	filetype.AddMatcher(typeXHTML, xhtmlMatcher)
}

// markup returns lower cased head of decoded document without leading white
// space.
func markup(buf []byte) []byte {
	return bytes.ToLower(bytes.TrimLeft(buf, " \t\r\n\f"))
}

func xhtmlMatcher(buf []byte) bool {
	head := markup(buf)
	return bytes.HasPrefix(head, []byte("<?xml")) && bytes.Contains(head, []byte("<html"))
}

func htmlMatcher(buf []byte) bool {
	head := markup(buf)
	if bytes.HasPrefix(head, []byte("<?xml")) {
		return false
	}
	for _, marker := range []string{"<!doctype html", "<html", "<head", "<body"} {
		if bytes.Contains(head, []byte(marker)) {
			return true
		}
	}
	return false
}

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF looks for byte order mark. UTF-32 is checked first since its
// little endian mark starts with UTF-16 one.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

// selectReader returns reader producing UTF-8 with BOM removed. Unknown
// encoding is left to the parser.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	case encUTF16BigEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF16LittleEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF32BigEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder())
	case encUTF32LittleEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder())
	default:
		// this should never happen
		panic("unsupported encoding")
	}
}

// sniff decides document kind from its head. Heads with BOM are decoded
// before looking.
func sniff(head []byte, name string) (docKind, srcEncoding) {
	enc := detectUTF(head)
	if enc != encUnknown {
		// partial trailing sequence at the end of head is irrelevant
		decoded, _ := io.ReadAll(selectReader(bytes.NewReader(head), enc))
		head = decoded
	}
	switch {
	case filetype.Is(head, typeXHTML.Extension):
		return kindXHTML, enc
	case filetype.Is(head, typeHTML.Extension):
		return kindHTML, enc
	}
	// fragments saved to files have no markers
	if bytes.HasPrefix(markup(head), []byte("<")) {
		if ext := strings.ToLower(filepath.Ext(name)); ext == ".xhtml" || ext == ".xht" {
			return kindXHTML, enc
		}
		return kindHTML, enc
	}
	return kindUnknown, enc
}

func hasDocumentExt(name string) bool {
	return slices.Contains(documentExts, strings.ToLower(filepath.Ext(name)))
}

func readHead(r io.Reader) ([]byte, error) {
	buf := make([]byte, headSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return buf[:n], nil
}

// isArchiveFile checks if file is a zip archive by name and content.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head, err := readHead(f)
	if err != nil {
		return false, err
	}
	return filetype.Is(head, "zip"), nil
}

// isDocumentFile checks if file has document extension and looks like HTML
// or XHTML.
func isDocumentFile(path string) (docKind, srcEncoding, error) {
	if !hasDocumentExt(path) {
		return kindUnknown, encUnknown, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return kindUnknown, encUnknown, err
	}
	defer f.Close()

	head, err := readHead(f)
	if err != nil {
		return kindUnknown, encUnknown, err
	}
	kind, enc := sniff(head, path)
	return kind, enc, nil
}

// isDocumentInArchive is isDocumentFile for archive entries.
func isDocumentInArchive(f *zip.File) (docKind, srcEncoding, error) {
	if !hasDocumentExt(f.FileHeader.Name) {
		return kindUnknown, encUnknown, nil
	}
	r, err := f.Open()
	if err != nil {
		return kindUnknown, encUnknown, err
	}
	defer r.Close()

	head, err := readHead(r)
	if err != nil {
		return kindUnknown, encUnknown, err
	}
	kind, enc := sniff(head, f.FileHeader.Name)
	return kind, enc, nil
}
