/*
 * futil_test.go, part of goqchem.
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
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func roundTrip(Te *testing.T, name, payload string) {
	w, err := Create(name)
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := w.Write([]byte(payload)); err != nil {
		Te.Fatal(err)
	}
	if err := w.Close(); err != nil {
		Te.Fatal(err)
	}
	r, err := Open(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	back, err := io.ReadAll(r)
	if err != nil {
		Te.Fatal(err)
	}
	if string(back) != payload {
		Te.Errorf("%s: payload changed across the round trip", filepath.Base(name))
	}
}

func TestCompressionRoundTrips(Te *testing.T) {
	dir := Te.TempDir()
	payload := strings.Repeat("Total energy in the final basis set =      -76.0233154795\n", 50)
	for _, name := range []string{"plain.out", "zipped.out.gz", "zipped.out.zst"} {
		roundTrip(Te, filepath.Join(dir, name), payload)
	}
}

func TestCompressedFilesAreSmaller(Te *testing.T) {
	dir := Te.TempDir()
	payload := strings.Repeat("SCF converges in 11 cycles\n", 500)
	plain := filepath.Join(dir, "log.out")
	zipped := filepath.Join(dir, "log.out.gz")
	roundTrip(Te, plain, payload)
	roundTrip(Te, zipped, payload)
	pi, err := os.Stat(plain)
	if err != nil {
		Te.Fatal(err)
	}
	zi, err := os.Stat(zipped)
	if err != nil {
		Te.Fatal(err)
	}
	if zi.Size() >= pi.Size() {
		Te.Error("the gz file should be smaller:", zi.Size(), "vs", pi.Size())
	}
}

func TestReverseLineScanner(Te *testing.T) {
	data := "first\nsecond\nthird"
	sc := NewReverseLineScanner(strings.NewReader(data), int64(len(data)))
	var got []string
	for sc.Scan() {
		got = append(got, sc.Text())
	}
	if sc.Err() != nil {
		Te.Fatal(sc.Err())
	}
	want := []string{"third", "second", "first"}
	if len(got) != len(want) {
		Te.Fatal("wrong line count:", got)
	}
	for i := range want {
		if got[i] != want[i] {
			Te.Errorf("line %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestReverseLineScannerLargeInput(Te *testing.T) {
	//spans several read chunks
	var b strings.Builder
	for i := 0; i < 3000; i++ {
		b.WriteString("cycle line with some padding to cross chunk borders\n")
	}
	b.WriteString("the very last line")
	data := b.String()
	sc := NewReverseLineScanner(strings.NewReader(data), int64(len(data)))
	if !sc.Scan() {
		Te.Fatal("no lines at all")
	}
	if sc.Text() != "the very last line" {
		Te.Fatal("wrong last line:", sc.Text())
	}
	count := 1
	for sc.Scan() {
		count++
	}
	if sc.Err() != nil {
		Te.Fatal(sc.Err())
	}
	if count != 3001 {
		Te.Error("wrong total line count:", count)
	}
}

func TestTailLines(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "tail.out")
	content := "one\ntwo\nthree\nfour\nThank you very much for using Q-Chem.\n"
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		Te.Fatal(err)
	}
	lines, err := TailLines(name, 3)
	if err != nil {
		Te.Fatal(err)
	}
	if len(lines) != 3 {
		Te.Fatal("expected three lines, got", lines)
	}
	//the file ends with a newline, so the first yielded line is empty
	if lines[0] != "" || lines[1] != "Thank you very much for using Q-Chem." || lines[2] != "four" {
		Te.Error("wrong tail:", lines)
	}
}
