/*
 * output_test.go, part of goqchem.
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
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/egampel/goqchem"
)

const separator50 = "--------------------------------------------------"

//sampleLog builds a small healthy single point log.
func sampleLog() string {
	return strings.Join([]string{
		"Welcome to Q-Chem",
		"",
		"User input:",
		separator50,
		"$molecule",
		" 0  1",
		" O        0.00000000        0.00000000        0.00000000",
		" H        0.00000000        0.00000000        0.95700000",
		" H        0.92000000        0.00000000       -0.24000000",
		"$end",
		"",
		"$rem",
		"   jobtype = sp",
		"  exchange = hf",
		"     basis = 6-31+g*",
		"$end",
		separator50,
		"",
		"There are        5 alpha and        5 beta electrons",
		"",
		"             Standard Nuclear Orientation (Angstroms)",
		"    I     Atom         X            Y            Z",
		" ----------------------------------------------------------------",
		"    1      O       0.000000     0.000000     0.000000",
		"    2      H       0.000000     0.000000     0.957000",
		"    3      H       0.920000     0.000000    -0.240000",
		" ----------------------------------------------------------------",
		"",
		" ---------------------------------------",
		"  Cycle       Energy         DIIS Error",
		" ---------------------------------------",
		"    1     -75.9800354784      7.80E-02",
		"    2     -76.0233154795      1.59E-03  Convergence criterion met",
		" ---------------------------------------",
		" SCF time:  CPU 0.57 s",
		"",
		" Total energy in the final basis set =      -76.0233154795",
		"",
		" Sum of atomic charges =     0.000000",
		"",
		"          Ground-State Mulliken Net Atomic Charges",
		"",
		"     Atom                 Charge (a.u.)",
		"  ----------------------------------------",
		"      1 O                    -0.713877",
		"      2 H                     0.356939",
		"      3 H                     0.356938",
		"  ----------------------------------------",
		"",
		" Thank you very much for using Q-Chem.  Have a nice day.",
		"",
	}, "\n")
}

func TestParseOutputSinglePoint(Te *testing.T) {
	results := ParseOutput(sampleLog())
	if len(results) != 1 {
		Te.Fatal("expected one job, got", len(results))
	}
	res := results[0]
	if res.HasError {
		Te.Fatal("a healthy log should have no errors, got", res.Errors)
	}
	if res.Input == nil {
		Te.Fatal("the echoed input was not parsed")
	}
	if res.Jobtype != "sp" {
		Te.Error("wrong jobtype", res.Jobtype)
	}
	if len(res.Energies) != 1 || res.Energies[0].Name != "SCF" {
		Te.Fatal("expected one SCF energy, got", res.Energies)
	}
	wantEV := -76.0233154795 * chem.H2eV
	if math.Abs(res.Energies[0].Value-wantEV) > 1e-8 {
		Te.Error("wrong Hartree to eV conversion:", res.Energies[0].Value, "want", wantEV)
	}
	if len(res.Molecules) != 1 || res.Molecules[0].Len() != 3 {
		Te.Fatal("expected one three-atom geometry, got", res.Molecules)
	}
	if res.Molecules[0].Charge() != 0 || res.Molecules[0].Multi() != 1 {
		Te.Error("geometries should be stamped with the job's charge and spin")
	}
	if len(res.SCFIterations) != 1 || len(res.SCFIterations[0]) != 2 {
		Te.Fatal("wrong SCF iteration history", res.SCFIterations)
	}
	if res.SCFIterations[0][1].DIISError != 1.59e-03 {
		Te.Error("wrong DIIS error", res.SCFIterations[0][1])
	}
	if !res.SCFSuccessful {
		Te.Error("the convergence marker was missed")
	}
	if !res.GracefullyTerminated {
		Te.Error("the sign off line was missed")
	}
	mulliken, ok := res.Charges["mulliken"]
	if !ok || len(mulliken) != 3 {
		Te.Fatal("wrong Mulliken charges", res.Charges)
	}
	if mulliken[0] != -0.713877 {
		Te.Error("wrong first Mulliken charge", mulliken[0])
	}
	if res.SolventMethod != "NA" {
		Te.Error("a gas phase job should report solvent method NA, got", res.SolventMethod)
	}
}

func TestParseOutputMultiJob(Te *testing.T) {
	log := sampleLog() + "\n\nRunning Job 2 of 2 water.in\n" + sampleLog()
	results := ParseOutput(log)
	if len(results) != 2 {
		Te.Fatal("expected two jobs, got", len(results))
	}
	for i, res := range results {
		if res.HasError {
			Te.Error("job", i, "should be clean, got", res.Errors)
		}
	}
}

func TestParseOutputFailedRun(Te *testing.T) {
	log := "some garbage\nthat is not a Q-Chem log\n"
	res := ParseOutput(log)[0]
	if !res.HasError {
		Te.Fatal("a garbage log should carry errors")
	}
	for _, want := range []string{"Molecular charge is not found", "No input text", "Bad SCF convergence"} {
		found := false
		for _, e := range res.Errors {
			if e == want {
				found = true
			}
		}
		if !found {
			Te.Errorf("errors should contain %q, got %v", want, res.Errors)
		}
	}
}

func TestErrorScanIsStateIndependent(Te *testing.T) {
	//an error signature inside the coordinate block must still be
	//classified
	log := strings.Join([]string{
		"             Standard Nuclear Orientation (Angstroms)",
		"    I     Atom         X            Y            Z",
		" ----------------------------------------------------------------",
		"    1      O       0.000000     0.000000     0.000000",
		" Convergence failure",
		"    2      H       0.000000     0.000000     0.957000",
		" ----------------------------------------------------------------",
	}, "\n")
	res := ParseOutput(log)[0]
	found := 0
	for _, e := range res.Errors {
		if e == "Bad SCF convergence" {
			found++
		}
	}
	if found == 0 {
		Te.Error("error signatures must be scanned in every state, got", res.Errors)
	}
	if len(res.Molecules) != 1 || res.Molecules[0].Len() != 2 {
		Te.Error("the coordinate block should still parse around the error line")
	}
}

func TestGradientBlock(Te *testing.T) {
	log := strings.Join([]string{
		" Gradient of SCF Energy",
		"            1           2           3",
		"    1   0.0000000   0.0000000   0.0000025",
		"    2   0.0000000   0.0000000   0.0000000",
		"    3   0.0000012  -0.0000034   0.0000022",
		" Max gradient component =       3.4E-06",
		" RMS gradient           =       1.9E-06",
	}, "\n")
	res := ParseOutput(log)[0]
	if len(res.Gradients) != 1 {
		Te.Fatal("expected one gradient record, got", len(res.Gradients))
	}
	g := res.Gradients[0]
	if g.MaxGradient != 3.4e-06 || g.RMSGradient != 1.9e-06 {
		Te.Error("wrong gradient summary values", g.MaxGradient, g.RMSGradient)
	}
	if len(g.Gradients) != 3 {
		Te.Fatal("expected three per-atom vectors, got", len(g.Gradients))
	}
	//rows are x, y and z components; columns are atoms
	if g.Gradients[0] != [3]float64{0.0, 0.0, 0.0000012} {
		Te.Error("wrong first atom gradient", g.Gradients[0])
	}
	if g.Gradients[2] != [3]float64{0.0000025, 0.0, 0.0000022} {
		Te.Error("wrong third atom gradient", g.Gradients[2])
	}
}

func TestGradientCrowdRepair(Te *testing.T) {
	//two touching numbers in a fixed-width row must come apart as two
	//floats
	crowded := "    1   -0.123456-1108.987654   0.0000022"
	fixed := repairCrowdedColumns(crowded)
	fields := strings.Fields(fixed)
	if len(fields) != 4 {
		Te.Fatal("the cramped row should split into four fields, got", fields)
	}
	if strings.Contains(fields[1], "-1108") || strings.Contains(fields[2], "0.123456") {
		Te.Error("the two numbers are still concatenated:", fields)
	}
}

func TestFrequencies(Te *testing.T) {
	log := strings.Join([]string{
		"User input:",
		separator50,
		"$molecule",
		" 0  1",
		" read",
		"$end",
		"$rem",
		"   jobtype = freq",
		"  exchange = hf",
		"     basis = 6-31+g*",
		"$end",
		separator50,
		" **                    VIBRATIONAL ANALYSIS                    **",
		" Frequency:   1638.34  3789.21  3884.27",
		"               X      Y      Z        X      Y      Z        X      Y      Z",
		" O          0.000  0.000  0.070    0.000  0.000  0.048    0.000  0.071  0.000",
		" H          0.000  0.430 -0.556    0.000 -0.571  0.382    0.000 -0.439  0.445",
		" H          0.000 -0.430 -0.556    0.000  0.571  0.382    0.000 -0.439 -0.445",
		" TransDip   0.000 -0.000 -0.158    0.000 -0.159  0.000    0.000 -0.000 -0.056",
		" STANDARD THERMODYNAMIC QUANTITIES AT  298.18 K  AND   1.00 ATM",
		" Zero point vibrational energy:      13.415 kcal/mol",
		" Total Enthalpy:                     15.870 kcal/mol",
		" Total Entropy:                      45.415 cal/mol.K",
	}, "\n")
	res := ParseOutput(log)[0]
	if len(res.Frequencies) != 3 {
		Te.Fatal("expected three modes, got", len(res.Frequencies))
	}
	if res.Frequencies[0].Frequency != 1638.34 {
		Te.Error("wrong first frequency", res.Frequencies[0].Frequency)
	}
	mode := res.Frequencies[0].VibMode
	if len(mode) != 3 {
		Te.Fatal("a mode should carry one vector per atom, got", len(mode))
	}
	if mode[1] != [3]float64{0.000, 0.430, -0.556} {
		Te.Error("wrong displacement for the second atom", mode[1])
	}
	zpe, ok := res.Corrections["ZPE"]
	if !ok {
		Te.Fatal("missing ZPE correction", res.Corrections)
	}
	wantZPE := 13.415 * chem.Kcal2eV
	if math.Abs(zpe-wantZPE) > 1e-12 {
		Te.Error("ZPE should convert from kcal/mol to eV:", zpe, "want", wantZPE)
	}
	entropy, ok := res.Corrections["Total Entropy"]
	if !ok {
		Te.Fatal("missing entropy correction", res.Corrections)
	}
	wantEntropy := 45.415 * chem.Kcal2eV * 1e-3
	if math.Abs(entropy-wantEntropy) > 1e-15 {
		Te.Error("entropy-like corrections get the extra 1e-3 factor:", entropy, "want", wantEntropy)
	}
}

func TestFrequenciesBlankLines(Te *testing.T) {
	//truncated or padded displacement blocks happen in killed runs and
	//must never abort the parse
	truncated := strings.Join([]string{
		" **                    VIBRATIONAL ANALYSIS                    **",
		" Frequency:   1638.34",
		"               X      Y      Z",
		" O          0.000  0.000  0.070",
		"",
	}, "\n")
	res := ParseOutput(truncated)[0]
	if len(res.Frequencies) != 0 {
		Te.Error("a block with no TransDip line should yield no modes, got", res.Frequencies)
	}

	padded := strings.Join([]string{
		" **                    VIBRATIONAL ANALYSIS                    **",
		" Frequency:   1638.34",
		"               X      Y      Z",
		" O          0.000  0.000  0.070",
		"",
		" H          0.000  0.430 -0.556",
		" TransDip   0.000 -0.000 -0.158",
	}, "\n")
	res = ParseOutput(padded)[0]
	if len(res.Frequencies) != 1 {
		Te.Fatal("expected one mode, got", len(res.Frequencies))
	}
	if len(res.Frequencies[0].VibMode) != 2 {
		Te.Error("the blank line should be skipped, not end the block:", res.Frequencies[0].VibMode)
	}
}

func TestSolventMethodFromInput(Te *testing.T) {
	log := strings.Join([]string{
		"User input:",
		separator50,
		"$molecule",
		" 0  1",
		" read",
		"$end",
		"$rem",
		"         jobtype = sp",
		"        exchange = hf",
		"           basis = 6-31+g*",
		"  solvent_method = cosmo",
		"$end",
		separator50,
	}, "\n")
	res := ParseOutput(log)[0]
	if res.SolventMethod != "cosmo" {
		Te.Error("the solvent method should come from the echoed input, got", res.SolventMethod)
	}
}

func TestReadOutputFile(Te *testing.T) {
	dir := Te.TempDir()
	name := filepath.Join(dir, "water.qcout")
	if err := os.WriteFile(name, []byte(sampleLog()), 0644); err != nil {
		Te.Fatal(err)
	}
	results, err := ReadOutput(name)
	if err != nil {
		Te.Fatal(err)
	}
	if len(results) != 1 || results[0].HasError {
		Te.Error("reading back the log changed the outcome")
	}
	if !NormalTermination(name) {
		Te.Error("NormalTermination should spot the sign off at the tail")
	}
}
