/*
 * output.go, part of goqchem.
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
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/egampel/goqchem"
	"github.com/egampel/goqchem/futil"
	"gonum.org/v1/gonum/mat"
)

//EnergyEntry is one reported energy, already converted to eV.
type EnergyEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

//SCFStep is one iteration of an SCF attempt.
type SCFStep struct {
	Energy    float64 `json:"energy"`
	DIISError float64 `json:"diis_error"`
}

//Gradient is one gradient block: per atom force components plus the
//summary values reported after the block.
type Gradient struct {
	Gradients   [][3]float64 `json:"gradients"`
	MaxGradient float64      `json:"max_gradient"`
	RMSGradient float64      `json:"rms_gradient"`
}

//Frequency is one vibrational mode: the frequency and one displacement
//vector per atom.
type Frequency struct {
	Frequency float64      `json:"frequency"`
	VibMode   [][3]float64 `json:"vib_mode"`
}

//Result is the structured record extracted from one job's section of a
//run log. A log that documents a failed run still yields a complete
//Result; the failure shows up in Errors.
type Result struct {
	Jobtype              string               `json:"jobtype"`
	Energies             []EnergyEntry        `json:"energies"`
	Charges              map[string][]float64 `json:"charges"`
	Corrections          map[string]float64   `json:"corrections"`
	Molecules            []*chem.Molecule     `json:"molecules"`
	Errors               []string             `json:"errors"`
	HasError             bool                 `json:"has_error"`
	Frequencies          []Frequency          `json:"frequencies"`
	Gradients            []Gradient           `json:"gradients"`
	Input                *Job                 `json:"-"`
	GracefullyTerminated bool                 `json:"gracefully_terminated"`
	SCFIterations        [][]SCFStep          `json:"scf_iteration_energies"`
	SCFSuccessful        bool                 `json:"scf_successful"`
	OptSuccessful        bool                 `json:"opt_successful"`
	SolventMethod        string               `json:"solvent_method"`
}

//parseState enumerates the mutually exclusive line grammars of the log.
type parseState int

const (
	stateIdle parseState = iota
	stateEchoInput
	stateCoordinates
	stateSCFIteration
	stateGradient
	stateFrequencies
	statePopulationCharges
)

var (
	scfEnergyPattern      = regexp.MustCompile(`Total energy in the final basis set =\s+(-\d+\.\d+)`)
	corrEnergyPattern     = regexp.MustCompile(`([A-Z\-\(\)0-9]+)\s+([tT]otal\s+)?[eE]nergy\s+=\s+(-\d+\.\d+)`)
	coordPattern          = regexp.MustCompile(`\s*\d+\s+([A-Z][a-z]*)\s+(-?\d+\.\d+)\s+(-?\d+\.\d+)\s+(-?\d+\.\d+)`)
	numElePattern         = regexp.MustCompile(`There are\s+(\d+)\s+alpha and\s+(\d+)\s+beta electrons`)
	totalChargePattern    = regexp.MustCompile(`Sum of atomic charges =\s+(-?\d+\.\d+)`)
	scfIterPattern        = regexp.MustCompile(`\d+\s+(-\d+\.\d+)\s+(\d+\.\d+E[-+]\d+)`)
	zpePattern            = regexp.MustCompile(`Zero point vibrational energy:\s+(\d+\.\d+)\s+kcal/mol`)
	thermalCorrPattern    = regexp.MustCompile(`(\S.*\S):\s+(\d+\.\d+)\s+k?cal/mol`)
	detailedChargePattern = regexp.MustCompile(`Ground-State (\w+) Net Atomic Charges`)
	jobSplitPattern       = regexp.MustCompile(`\n\nRunning Job \d+ of \d+ \S+`)
)

//errorSignatures is scanned against every line of the log, in every
//state. Order matters only for the order labels land in Errors.
var errorSignatures = []struct {
	pattern *regexp.Regexp
	label   string
}{
	{regexp.MustCompile(`Convergence failure`), "Bad SCF convergence"},
	{regexp.MustCompile(`Coordinates do not transform within specified threshold`), "autoz error"},
	{regexp.MustCompile(`MAXIMUM OPTIMIZATION CYCLES REACHED`), "Geometry optimization failed"},
	{regexp.MustCompile(`\s+[Nn][Aa][Nn]\s+`), "NAN values"},
	{regexp.MustCompile(`energy\s+=\s*(\*)+`), "Numerical disaster"},
	{regexp.MustCompile(`NewFileMan::OpenFile\(\):\s+nopenfiles=\d+\s+maxopenfiles=\d+s+errno=\d+`), "Open file error"},
	{regexp.MustCompile(`Application \d+ exit codes: 1[34]\d+`), "Exit Code 134"},
	{regexp.MustCompile(`Negative overlap matrix eigenvalue. Tighten integral threshold \(REM_THRESH\)!`), "Negative Eigen"},
	{regexp.MustCompile(`Unable to allocate requested memory in mega_alloc`), "Insufficient static memory"},
	{regexp.MustCompile(`Application \d+ exit signals: Killed`), "Killed"},
}

const (
	dashes50 = "--------------------------------------------------"
	dashes20 = "--------------------"
)

//ParseOutput splits a run log into per job chunks and extracts one
//Result per chunk.
func ParseOutput(text string) []*Result {
	chunks := jobSplitPattern.Split(text, -1)
	results := make([]*Result, len(chunks))
	for i, chunk := range chunks {
		results[i] = parseJobLog(chunk)
	}
	return results
}

//ReadOutput parses the run log in the named file, transparently
//decompressing it when needed.
func ReadOutput(filename string) ([]*Result, error) {
	f, err := futil.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return ParseOutput(string(data)), nil
}

//NormalTermination reports whether the named log ends with Q-Chem's
//sign off, without reading the whole file.
func NormalTermination(filename string) bool {
	lines, err := futil.TailLines(filename, 10)
	if err != nil {
		return false
	}
	for _, l := range lines {
		if strings.Contains(l, "Thank you very much for using Q-Chem.") {
			return true
		}
	}
	return false
}

//jobParser carries the line by line extraction state for one job
//chunk.
type jobParser struct {
	res          *Result
	state        parseState
	parsingModes bool

	echoLines []string

	species []string
	coords  []float64

	gradOpen bool
	gradComp [][]float64

	vibFreqs []float64
	vibModes [][][3]float64

	popMethod string

	thermal   map[string]float64
	charge    int
	hasCharge bool
	multi     int
	hasMulti  bool
}

func parseJobLog(text string) *Result {
	p := &jobParser{
		res: &Result{
			Charges:       make(map[string][]float64),
			SolventMethod: "NA",
		},
		thermal: make(map[string]float64),
	}
	for _, line := range strings.Split(text, "\n") {
		p.step(line)
	}
	p.post(text)
	return p.res
}

func (p *jobParser) step(line string) {
	for _, sig := range errorSignatures {
		if sig.pattern.MatchString(line) {
			p.res.Errors = append(p.res.Errors, sig.label)
		}
	}
	switch p.state {
	case stateEchoInput:
		p.stepEchoInput(line)
	case stateCoordinates:
		p.stepCoordinates(line)
	case stateSCFIteration:
		p.stepSCFIteration(line)
	case stateGradient:
		p.stepGradient(line)
	case stateFrequencies:
		p.stepFrequencies(line)
	case statePopulationCharges:
		p.stepPopulationCharges(line)
	default:
		p.stepIdle(line)
	}
}

func (p *jobParser) stepEchoInput(line string) {
	if strings.Contains(line, dashes50) {
		if len(p.echoLines) == 0 {
			//leading separator, the input follows
			return
		}
		if j, err := ParseJob(strings.Join(p.echoLines, "\n")); err == nil {
			p.res.Input = j
			p.res.Jobtype = j.Jobtype()
		}
		p.state = stateIdle
		return
	}
	p.echoLines = append(p.echoLines, line)
}

func (p *jobParser) stepCoordinates(line string) {
	if strings.Contains(line, dashes50) {
		if len(p.coords) == 0 {
			return
		}
		atoms := make([]*chem.Atom, len(p.species))
		for i, s := range p.species {
			atoms[i] = &chem.Atom{Symbol: s}
		}
		if mol, err := chem.NewMolecule(atoms, mat.NewDense(len(atoms), 3, p.coords)); err == nil {
			p.res.Molecules = append(p.res.Molecules, mol)
		}
		p.coords = nil
		p.species = nil
		p.state = stateIdle
		return
	}
	if strings.Contains(line, "Atom") {
		return
	}
	if m := coordPattern.FindStringSubmatch(line); m != nil {
		x, _ := strconv.ParseFloat(m[2], 64)
		y, _ := strconv.ParseFloat(m[3], 64)
		z, _ := strconv.ParseFloat(m[4], 64)
		p.species = append(p.species, m[1])
		p.coords = append(p.coords, x, y, z)
	}
}

func (p *jobParser) stepSCFIteration(line string) {
	if strings.Contains(line, "SCF time:  CPU") {
		p.state = stateIdle
		return
	}
	if strings.Contains(line, "Convergence criterion met") {
		p.res.SCFSuccessful = true
	}
	if m := scfIterPattern.FindStringSubmatch(line); m != nil {
		energy, _ := strconv.ParseFloat(m[1], 64)
		diis, _ := strconv.ParseFloat(m[2], 64)
		last := len(p.res.SCFIterations) - 1
		p.res.SCFIterations[last] = append(p.res.SCFIterations[last], SCFStep{Energy: energy, DIISError: diis})
	}
}

func (p *jobParser) stepGradient(line string) {
	last := len(p.res.Gradients) - 1
	switch {
	case strings.Contains(line, "Max gradient component"):
		p.res.Gradients[last].MaxGradient = floatAfterEquals(line)
		p.flushGradientBlock(last)
	case strings.Contains(line, "RMS gradient"):
		p.res.Gradients[last].RMSGradient = floatAfterEquals(line)
		p.state = stateIdle
		p.gradOpen = false
		p.gradComp = nil
	case !strings.Contains(line, "."):
		//an index-only header row opens the next transposed block
		p.flushGradientBlock(last)
		p.gradOpen = true
		p.gradComp = nil
	default:
		fixed := repairCrowdedColumns(line)
		fields := strings.Fields(fixed)
		var row []float64
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return
			}
			row = append(row, v)
		}
		p.gradComp = append(p.gradComp, row)
	}
}

//flushGradientBlock transposes the buffered x, y and z rows into per
//atom vectors.
func (p *jobParser) flushGradientBlock(last int) {
	if !p.gradOpen || len(p.gradComp) == 0 {
		return
	}
	if len(p.gradComp) != 3 {
		p.res.Errors = append(p.res.Errors, "Gradient section parsing failed")
		p.gradComp = nil
		return
	}
	n := len(p.gradComp[0])
	if len(p.gradComp[1]) < n {
		n = len(p.gradComp[1])
	}
	if len(p.gradComp[2]) < n {
		n = len(p.gradComp[2])
	}
	for i := 0; i < n; i++ {
		p.res.Gradients[last].Gradients = append(p.res.Gradients[last].Gradients,
			[3]float64{p.gradComp[0][i], p.gradComp[1][i], p.gradComp[2][i]})
	}
	p.gradComp = nil
}

//repairCrowdedColumns fixes fixed-width gradient rows where a wide
//value ran into its neighbor, leaving no separating space. Column
//boundaries sit every 12 characters starting at offset 5; a non-space
//character at a boundary that is not followed by a space within the
//column is split off from the previous number.
func repairCrowdedColumns(line string) string {
	tokens := []byte(line)
	crowded := false
	for i := 5; i < len(tokens); i += 12 {
		if tokens[i] == ' ' {
			continue
		}
		crowded = true
		end := i + 7
		if end > len(tokens) {
			end = len(tokens)
		}
		seg := tokens[i+1 : end]
		if len(seg) < 6 || strings.Contains(string(seg), " ") {
			continue
		}
		tokens[i-1] = ' '
	}
	if crowded {
		return string(tokens)
	}
	return line
}

func floatAfterEquals(line string) float64 {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) < 2 {
		return 0
	}
	v, _ := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	return v
}

func (p *jobParser) stepFrequencies(line string) {
	if p.parsingModes {
		if strings.Contains(line, "TransDip") {
			p.parsingModes = false
			for fi, f := range p.vibFreqs {
				var mode [][3]float64
				for _, atomRow := range p.vibModes {
					if fi < len(atomRow) {
						mode = append(mode, atomRow[fi])
					}
				}
				p.res.Frequencies = append(p.res.Frequencies, Frequency{Frequency: f, VibMode: mode})
			}
			p.vibModes = nil
			return
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return
		}
		var flat []float64
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return
			}
			flat = append(flat, v)
		}
		var atomRow [][3]float64
		for i := 0; i+2 < len(flat); i += 3 {
			atomRow = append(atomRow, [3]float64{flat[i], flat[i+1], flat[i+2]})
		}
		p.vibModes = append(p.vibModes, atomRow)
	}
	switch {
	case strings.Contains(line, "STANDARD THERMODYNAMIC QUANTITIES"),
		strings.Contains(line, "Imaginary Frequencies"):
		p.state = stateIdle
	case strings.Contains(line, "Frequency:"):
		fields := strings.Fields(line)
		p.vibFreqs = nil
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return
			}
			p.vibFreqs = append(p.vibFreqs, v)
		}
	case strings.Contains(line, "X      Y      Z"):
		p.parsingModes = true
	}
}

func (p *jobParser) stepPopulationCharges(line string) {
	if strings.Contains(line, dashes20) {
		if len(p.res.Charges[p.popMethod]) == 0 {
			return
		}
		p.popMethod = ""
		p.state = stateIdle
		return
	}
	if strings.TrimSpace(line) == "" || strings.Contains(line, "Atom") {
		return
	}
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return
	}
	if v, err := strconv.ParseFloat(fields[2], 64); err == nil {
		p.res.Charges[p.popMethod] = append(p.res.Charges[p.popMethod], v)
	}
}

func (p *jobParser) stepIdle(line string) {
	if !p.hasMulti {
		if m := numElePattern.FindStringSubmatch(line); m != nil {
			alpha, _ := strconv.Atoi(m[1])
			beta, _ := strconv.Atoi(m[2])
			p.multi = alpha - beta + 1
			p.hasMulti = true
		}
	}
	if !p.hasCharge {
		if m := totalChargePattern.FindStringSubmatch(line); m != nil {
			v, _ := strconv.ParseFloat(m[1], 64)
			p.charge = int(v)
			p.hasCharge = true
		}
	}
	if p.res.Jobtype == "freq" {
		if m := zpePattern.FindStringSubmatch(line); m != nil {
			v, _ := strconv.ParseFloat(m[1], 64)
			p.thermal["ZPE"] = v
		}
		if m := thermalCorrPattern.FindStringSubmatch(line); m != nil {
			v, _ := strconv.ParseFloat(m[2], 64)
			p.thermal[m[1]] = v
		}
	}
	name := ""
	energy := 0.0
	if m := scfEnergyPattern.FindStringSubmatch(line); m != nil {
		name = "SCF"
		v, _ := strconv.ParseFloat(m[1], 64)
		energy = v * chem.H2eV
	}
	if m := corrEnergyPattern.FindStringSubmatch(line); m != nil && m[1] != "SCF" {
		name = m[1]
		v, _ := strconv.ParseFloat(m[3], 64)
		energy = v * chem.H2eV
	}
	if m := detailedChargePattern.FindStringSubmatch(line); m != nil {
		p.popMethod = strings.ToLower(m[1])
		p.res.Charges[p.popMethod] = []float64{}
		p.state = statePopulationCharges
	}
	if name != "" && energy != 0 {
		p.res.Energies = append(p.res.Energies, EnergyEntry{Name: name, Value: energy})
	}
	switch {
	case strings.Contains(line, "User input:"):
		p.state = stateEchoInput
	case strings.Contains(line, "Standard Nuclear Orientation (Angstroms)"):
		p.state = stateCoordinates
	case strings.Contains(line, "Cycle       Energy         DIIS Error"),
		strings.Contains(line, "Cycle       Energy        RMS Gradient"):
		p.state = stateSCFIteration
		p.res.SCFIterations = append(p.res.SCFIterations, nil)
		p.res.SCFSuccessful = false
	case strings.Contains(line, "Gradient of SCF Energy"):
		p.state = stateGradient
		p.gradOpen = false
		p.res.Gradients = append(p.res.Gradients, Gradient{})
	case strings.Contains(line, "VIBRATIONAL ANALYSIS"):
		p.state = stateFrequencies
	case strings.Contains(line, "Thank you very much for using Q-Chem."):
		p.res.GracefullyTerminated = true
	case strings.Contains(line, "OPTIMIZATION CONVERGED"):
		p.res.OptSuccessful = true
	}
}

//post finishes the record: stamps parsed geometries with the final
//charge and spin, converts thermal corrections to eV, and classifies
//the run when no explicit error was seen.
func (p *jobParser) post(text string) {
	res := p.res
	if !p.hasCharge {
		res.Errors = append(res.Errors, "Molecular charge is not found")
	} else if !p.hasMulti {
		res.Errors = append(res.Errors, "Molecular spin multiplicity is not found")
	} else {
		for _, mol := range res.Molecules {
			mol.SetChargeAndMulti(p.charge, p.multi)
		}
	}
	res.Corrections = make(map[string]float64, len(p.thermal))
	for k, v := range p.thermal {
		if strings.Contains(k, "Entropy") {
			v *= chem.Kcal2eV * 1.0e-3
		} else {
			v *= chem.Kcal2eV
		}
		res.Corrections[k] = v
	}
	if res.Input != nil {
		if sm, ok := res.Input.RemValue("solvent_method"); ok {
			if s, isStr := sm.(string); isStr {
				res.SolventMethod = s
			}
		}
	} else {
		res.Errors = append(res.Errors, "No input text")
	}
	if !res.SCFSuccessful && !containsString(res.Errors, "Bad SCF convergence") {
		res.Errors = append(res.Errors, "Bad SCF convergence")
	}
	if res.Jobtype == "opt" && !res.OptSuccessful && !containsString(res.Errors, "Geometry optimization failed") {
		res.Errors = append(res.Errors, "Geometry optimization failed")
	}
	if len(res.Errors) == 0 && res.Input != nil {
		for _, pattern := range expectedSuccessPatterns(res.Input) {
			if !regexp.MustCompile(pattern).MatchString(text) {
				res.Errors = append(res.Errors, "Can't find text to indicate success")
			}
		}
	}
	res.HasError = len(res.Errors) > 0
}

//expectedSuccessPatterns lists the texts a healthy log of the given
//job must contain.
func expectedSuccessPatterns(j *Job) []string {
	patterns := []string{"Convergence criterion met"}
	if corr, ok := j.RemValue("correlation"); ok {
		if s, isStr := corr.(string); isStr &&
			(strings.Contains(s, "ccsd") || strings.Contains(s, "qcisd")) {
			patterns = append(patterns, `CC.*converged`)
		}
	}
	switch j.Jobtype() {
	case "opt", "ts":
		patterns = append(patterns, "OPTIMIZATION CONVERGED")
	case "freq":
		patterns = append(patterns, "VIBRATIONAL ANALYSIS")
	case "gradient":
		patterns = append(patterns, "Gradient of SCF Energy")
	}
	return patterns
}

func containsString(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
