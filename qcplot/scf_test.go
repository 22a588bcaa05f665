/*
 * scf_test.go, part of goqchem.
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

package qcplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/egampel/goqchem/qcio"
)

func sampleResult() *qcio.Result {
	return &qcio.Result{
		SCFIterations: [][]qcio.SCFStep{
			{
				{Energy: -75.98003, DIISError: 7.8e-02},
				{Energy: -76.02331, DIISError: 1.59e-03},
			},
			{
				{Energy: -76.02330, DIISError: 2.1e-04},
				{Energy: -76.02332, DIISError: 8.0e-06},
			},
		},
		Frequencies: []qcio.Frequency{
			{Frequency: 1638.34},
			{Frequency: 3789.21},
			{Frequency: 3884.27},
		},
	}
}

func TestPlots(Te *testing.T) {
	dir := Te.TempDir()
	res := sampleResult()
	cases := []struct {
		name string
		draw func(*qcio.Result, string, string) error
	}{
		{"scf", SCFConvergence},
		{"diis", DIISError},
		{"spectrum", FrequencySpectrum},
	}
	for _, c := range cases {
		base := filepath.Join(dir, c.name)
		if err := c.draw(res, "water/hf", base); err != nil {
			Te.Fatal(c.name, err)
		}
		info, err := os.Stat(base + ".png")
		if err != nil {
			Te.Fatal(c.name, err)
		}
		if info.Size() == 0 {
			Te.Error(c.name, "produced an empty file")
		}
	}
}

func TestPlotsRejectEmptyResults(Te *testing.T) {
	empty := &qcio.Result{}
	if err := SCFConvergence(empty, "t", "x"); err == nil {
		Te.Error("a result with no SCF history should be rejected")
	}
	if err := FrequencySpectrum(empty, "t", "x"); err == nil {
		Te.Error("a result with no frequencies should be rejected")
	}
}
