/*
 * sequence_test.go, part of goqchem.
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

package qcio

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestJobSequenceRoundTrip(Te *testing.T) {
	opt, err := NewJob(water(), &Options{Jobtype: "opt", Exchange: "b3lyp", BasisSet: "6-31+g*"})
	if err != nil {
		Te.Fatal(err)
	}
	freq, err := NewCheckpointJob(&Options{Jobtype: "freq", Exchange: "b3lyp", BasisSet: "6-31+g*"})
	if err != nil {
		Te.Fatal(err)
	}
	seq := NewJobSequence(opt, freq)
	text := seq.String()
	if strings.Count(text, "@@@") != 1 {
		Te.Fatal("two jobs should be joined by one separator:\n" + text)
	}
	back, err := ParseJobSequence(text)
	if err != nil {
		Te.Fatal(err)
	}
	if len(back.Jobs) != 2 {
		Te.Fatal("expected two jobs back, got", len(back.Jobs))
	}
	if back.Jobs[0].Jobtype() != "opt" || back.Jobs[1].Jobtype() != "freq" {
		Te.Error("jobtypes did not survive the round trip")
	}
	if !back.Jobs[1].ReadsMolecule() {
		Te.Error("the checkpoint job lost its read sentinel")
	}
	if back.String() != text {
		Te.Error("reserializing is not stable:\n" + back.String())
	}
}

func TestJobSequenceFile(Te *testing.T) {
	job, err := NewJob(water(), nil)
	if err != nil {
		Te.Fatal(err)
	}
	seq := NewJobSequence(job)
	name := filepath.Join(Te.TempDir(), "water.qcinp.gz")
	if err := seq.WriteFile(name); err != nil {
		Te.Fatal(err)
	}
	back, err := ReadJobSequence(name)
	if err != nil {
		Te.Fatal(err)
	}
	if len(back.Jobs) != 1 {
		Te.Fatal("expected one job back, got", len(back.Jobs))
	}
	if back.String() != seq.String() {
		Te.Error("the gzip round trip changed the text")
	}
}
