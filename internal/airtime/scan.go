package airtime

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/transform"
)

// CompressedSuffix marks gzip-compressed log archives
const CompressedSuffix = ".gz"

// dropIllFormed removes byte sequences that are not valid UTF-8 so a damaged
// line can still match around them. An encoded U+FFFD is valid and kept.
type dropIllFormed struct{ transform.NopResetter }

func (dropIllFormed) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if c := src[nSrc]; c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size == 1 {
			nSrc++
			continue
		}
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
	}
	return nDst, nSrc, nil
}

// ScanLines calls fn for every line in r. Lines are not length limited and
// undecodable bytes are removed rather than failing the read.
func ScanLines(r io.Reader, fn func(line string)) error {
	br := bufio.NewReader(transform.NewReader(r, dropIllFormed{}))
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			fn(strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Scan reads every line of r, correlating recognized events with seen as the
// deduplication set, and aggregates the resulting sessions
func Scan(r io.Reader, opts Options, seen TimestampSet) (*FileResult, error) {
	extract := opts.Extractor()
	correlator := opts.NewCorrelator(seen)
	result := &FileResult{Totals: NewMonthlyTotals()}

	lines := 0
	err := ScanLines(r, func(line string) {
		lines++
		ev, ok := extract(line)
		if !ok {
			return
		}
		session, ok := correlator.Observe(ev)
		if !ok {
			return
		}
		result.Sessions = append(result.Sessions, session)
		result.Totals.AddSession(session)
	})

	result.Stats = correlator.Stats()
	result.Stats.Lines = lines
	return result, err
}

// OpenLog opens path for reading, decompressing it when it ends in .gz
func OpenLog(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, CompressedSuffix) {
		return file, nil
	}
	zr, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	return &gzipFile{Reader: zr, file: file}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	zerr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return zerr
}

// ScanFile scans the log at path. A read error part way through still
// returns the partial result alongside the error.
func ScanFile(path string, opts Options, seen TimestampSet) (*FileResult, error) {
	rc, err := OpenLog(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	result, err := Scan(rc, opts, seen)
	result.Path = path
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return result, nil
}
