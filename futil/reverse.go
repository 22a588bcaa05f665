/*
 * reverse.go, part of goqchem.
 *
 *
 * Copyright 2016 Esteban Gampel <egampel{at}gmailDOTcom>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package futil

import (
	"bytes"
	"io"
	"os"
)

const reverseChunkSize = 4096

//ReverseLineScanner yields the lines of an io.ReaderAt from the last
//one to the first, reading the underlying data in chunks from the end.
//It only works on uncompressed data, since compressed streams cannot
//be read backward.
type ReverseLineScanner struct {
	r      io.ReaderAt
	offset int64 //start of the yet unread region
	buf    []byte
	line   []byte
	err    error
	done   bool
}

//NewReverseLineScanner returns a scanner over the first size bytes
//of r.
func NewReverseLineScanner(r io.ReaderAt, size int64) *ReverseLineScanner {
	return &ReverseLineScanner{r: r, offset: size}
}

//Scan advances to the previous line. It returns false at the beginning
//of the data or on a read error.
func (s *ReverseLineScanner) Scan() bool {
	if s.err != nil || s.done {
		return false
	}
	for {
		if i := bytes.LastIndexByte(s.buf, '\n'); i >= 0 {
			s.line = s.buf[i+1:]
			s.buf = s.buf[:i]
			return true
		}
		if s.offset == 0 {
			s.line = s.buf
			s.buf = nil
			s.done = true
			return true
		}
		n := int64(reverseChunkSize)
		if n > s.offset {
			n = s.offset
		}
		chunk := make([]byte, n, n+int64(len(s.buf)))
		if _, err := s.r.ReadAt(chunk, s.offset-n); err != nil {
			s.err = err
			return false
		}
		s.buf = append(chunk, s.buf...)
		s.offset -= n
	}
}

//Text returns the current line, without its trailing newline.
func (s *ReverseLineScanner) Text() string {
	return string(bytes.TrimSuffix(s.line, []byte{'\r'}))
}

//Err returns the first read error hit by Scan, if any.
func (s *ReverseLineScanner) Err() error { return s.err }

//TailLines returns up to n trailing lines of the named file, last line
//first.
func TailLines(name string, n int) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	sc := NewReverseLineScanner(f, info.Size())
	var lines []string
	for len(lines) < n && sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
