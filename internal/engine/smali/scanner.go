// Package smali recognises class and method declarations in smali
// disassembly text.
package smali

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

var (
	classPattern  = regexp.MustCompile(`^\s*\.class\s+.*?(\S+;)\s*$`)
	methodPattern = regexp.MustCompile(`^\s*\.method\s+.*?(\S+?)\((\S*?)\)(\S+)\s*$`)
)

// Scanner walks the lines of one unit. It keeps the most recent class
// declaration and numbers methods seen after it.
type Scanner struct {
	class   string
	methods []MethodEntry
}

// Line feeds one line to the scanner.
func (s *Scanner) Line(line string) {
	line = strings.TrimRight(line, "\r")
	if m := classPattern.FindStringSubmatch(line); m != nil {
		s.class = m[1]
		return
	}
	if s.class == "" {
		return
	}
	if m := methodPattern.FindStringSubmatch(line); m != nil {
		s.methods = append(s.methods, MethodEntry{
			Ordinal: len(s.methods),
			Name:    m[1],
			Params:  m[2],
		})
	}
}

// Result returns the scanned unit. ok is false when no class declaration was
// recognised, in which case the unit should be skipped.
func (s *Scanner) Result() (Unit, bool) {
	if s.class == "" {
		return Unit{}, false
	}
	methods := make([]MethodEntry, len(s.methods))
	copy(methods, s.methods)
	return Unit{Class: s.class, Methods: methods}, true
}

// Scan scans a whole unit held in memory.
func Scan(text string) (Unit, bool) {
	var s Scanner
	for _, line := range strings.Split(text, "\n") {
		s.Line(line)
	}
	return s.Result()
}

// ScanReader scans a unit line by line from r.
func ScanReader(r io.Reader) (Unit, bool, error) {
	var s Scanner
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		s.Line(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return Unit{}, false, err
	}
	unit, ok := s.Result()
	return unit, ok, nil
}
