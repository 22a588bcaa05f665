/*
 * parse.go, part of goqchem.
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
	"regexp"
	"strconv"
	"strings"

	"github.com/egampel/goqchem"
)

//parsedSections carries the raw results of the per-section parsers
//until the final Job is assembled.
type parsedSections struct {
	mol          *chem.Molecule
	readMol      bool
	charge       int
	multi        int
	hasCharge    bool
	comment      string
	hasComment   bool
	rem          map[string]interface{}
	basis        map[string]string
	auxBasis     map[string]string
	ecp          map[string]string
	pcm          map[string]interface{}
	pcmSolvent   map[string]interface{}
	solventAtoms []SolventAtom
}

type sectionParser func(*parsedSections, []string) error

//sectionParsers is the dispatch table of the grammar. A section name
//missing here but present in the allow-list parses as
//UnsupportedSection.
var sectionParsers = map[string]sectionParser{
	"comment":     parseCommentSection,
	"molecule":    parseMoleculeSection,
	"rem":         parseRemSection,
	"basis":       parseBasisSection,
	"aux_basis":   parseAuxBasisSection,
	"ecp":         parseECPSection,
	"pcm":         parsePCMSection,
	"pcm_solvent": parsePCMSolventSection,
}

//ParseJob reads one job from its $section text form. The result goes
//through the same construction path as a hand-built Job, so all of the
//validation rules apply.
func ParseJob(text string) (*Job, error) {
	ps := &parsedSections{}
	inSection := false
	sectionName := ""
	var sectionText []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		l := strings.ToLower(strings.TrimSpace(line))
		if len(l) == 0 {
			continue
		}
		if !inSection && (l == "$end" || !strings.HasPrefix(l, "$")) {
			return nil, newError(Grammar, "", TextOutsideSection)
		}
		if inSection && l != "$end" {
			sectionText = append(sectionText, line)
		}
		if strings.HasPrefix(l, "$") && !inSection {
			inSection = true
			sectionName = l[1:]
			if sectionName != "comment" && sectionName != "molecule" && sectionName != "rem" && !optionalSections[sectionName] {
				return nil, newError(Grammar, sectionName, SectionUnknown)
			}
			if seen[sectionName] {
				return nil, newError(Grammar, sectionName, SectionDuplicated)
			}
			seen[sectionName] = true
		}
		if inSection && l == "$end" {
			parse, ok := sectionParsers[sectionName]
			if !ok {
				return nil, newError(UnsupportedSection, sectionName, "No parser registered for this section")
			}
			if err := parse(ps, sectionText); err != nil {
				return nil, err
			}
			inSection = false
			sectionName = ""
			sectionText = nil
		}
	}
	if inSection {
		return nil, newError(Grammar, sectionName, SectionUnterminated)
	}
	return ps.build()
}

//build funnels the parsed sections through the Job constructors.
func (ps *parsedSections) build() (*Job, error) {
	opts := &Options{Rem: ps.rem}
	if ps.hasComment {
		opts.Title = ps.comment
	}
	if ps.rem != nil {
		if jt, ok := ps.rem["jobtype"].(string); ok {
			opts.Jobtype = jt
		}
		if x, ok := ps.rem["exchange"].(string); ok {
			opts.Exchange = x
		}
		if corr, ok := ps.rem["correlation"].(string); ok {
			opts.Correlation = corr
		}
		if basis, ok := ps.rem["basis"].(string); ok {
			opts.BasisSet = basis
		}
		if aux, ok := ps.rem["aux_basis"].(string); ok {
			opts.AuxBasisSet = aux
		}
		if ecp, ok := ps.rem["ecp"].(string); ok {
			opts.ECP = ecp
		}
	}
	if ps.basis != nil {
		opts.PerAtomBasis = ps.basis
	}
	if ps.auxBasis != nil {
		opts.PerAtomAuxBasis = ps.auxBasis
	}
	if ps.ecp != nil {
		opts.PerAtomECP = ps.ecp
	}
	var j *Job
	var err error
	switch {
	//a missing molecule section behaves like an explicit "read"
	case ps.mol == nil && ps.hasCharge:
		j, err = NewCheckpointJobWithChargeAndMulti(ps.charge, ps.multi, opts)
	case ps.mol == nil:
		j, err = NewCheckpointJob(opts)
	default:
		j, err = NewJobWithChargeAndMulti(ps.mol, ps.charge, ps.multi, opts)
	}
	if err != nil {
		return nil, err
	}
	if ps.pcm != nil {
		j.pcm = ps.pcm
	}
	if ps.pcmSolvent != nil || len(ps.solventAtoms) > 0 {
		j.pcmSolvent = ps.pcmSolvent
		j.solventAtoms = ps.solventAtoms
	}
	return j, nil
}

func parseCommentSection(ps *parsedSections, contents []string) error {
	ps.comment = strings.TrimSpace(strings.Join(contents, "\n"))
	ps.hasComment = true
	return nil
}

var chargeMultiPattern = regexp.MustCompile(`^\s*([-+]?\d+)\s+(\d+)\s*$`)

func parseMoleculeSection(ps *parsedSections, contents []string) error {
	if len(contents) == 0 {
		return newError(Grammar, "molecule", BadChargeLine)
	}
	line := contents[0]
	rest := contents[1:]
	if m := chargeMultiPattern.FindStringSubmatch(line); m != nil {
		ps.charge, _ = strconv.Atoi(m[1])
		ps.multi, _ = strconv.Atoi(m[2])
		ps.hasCharge = true
		if len(rest) == 0 {
			return newError(Grammar, "molecule", "No geometry follows the charge line")
		}
		line = rest[0]
	}
	if strings.ToLower(strings.TrimSpace(line)) == "read" {
		ps.readMol = true
		return nil
	}
	if !ps.hasCharge {
		return newError(Grammar, "molecule", BadChargeLine)
	}
	mol, err := chem.ParseCoords(rest)
	if err != nil {
		if _, ok := err.(*chem.UndefinedParameterError); ok {
			return newError(UndefinedParameter, "molecule", "%v", err)
		}
		return newError(Grammar, "molecule", "%v", err)
	}
	mol.SetChargeAndMulti(ps.charge, ps.multi)
	ps.mol = mol
	return nil
}

var (
	intValuePattern   = regexp.MustCompile(`^[-+]?\d+$`)
	floatValuePattern = regexp.MustCompile(`^[-+]?\d+\.\d+([eE][-+]?\d+)?$`)
)

//typedValue applies the type coercion rules shared by the rem, pcm and
//pcm_solvent sections.
func typedValue(v string) interface{} {
	if alt, ok := alternativeValues[v]; ok {
		v = alt
	}
	switch {
	case v == "True":
		return true
	case v == "False":
		return false
	case intValuePattern.MatchString(v):
		n, _ := strconv.Atoi(v)
		return n
	case floatValuePattern.MatchString(v):
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return strings.ToLower(v)
}

func parseKeyValue(section, line string) (string, string, error) {
	tokens := strings.Fields(strings.ReplaceAll(line, "=", " "))
	if len(tokens) < 2 {
		return "", "", newError(Grammar, section, "%s: there should be at least a key and a value", BadSectionLine)
	}
	k := strings.ToLower(tokens[0])
	if alt, ok := alternativeKeys[k]; ok {
		k = alt
	}
	return k, tokens[1], nil
}

func parseRemSection(ps *parsedSections, contents []string) error {
	d := make(map[string]interface{})
	for _, line := range contents {
		k, v, err := parseKeyValue("rem", line)
		if err != nil {
			return err
		}
		if k == "xc_grid" {
			//grid codes look numeric but must stay verbatim
			d[k] = v
		} else {
			d[k] = typedValue(v)
		}
	}
	ps.rem = d
	return nil
}

func parseElementSection(section string, contents []string) (map[string]string, error) {
	if len(contents)%3 != 0 {
		return nil, newError(Grammar, section, "Element, value and **** lines must come in triplets")
	}
	d := make(map[string]string)
	for i := 0; i < len(contents); i += 3 {
		element := strings.TrimSpace(contents[i])
		if element != "" {
			element = strings.ToUpper(element[:1]) + strings.ToLower(element[1:])
		}
		d[element] = strings.ToLower(strings.TrimSpace(contents[i+1]))
	}
	return d, nil
}

func parseBasisSection(ps *parsedSections, contents []string) error {
	d, err := parseElementSection("basis", contents)
	ps.basis = d
	return err
}

func parseAuxBasisSection(ps *parsedSections, contents []string) error {
	d, err := parseElementSection("aux_basis", contents)
	ps.auxBasis = d
	return err
}

func parseECPSection(ps *parsedSections, contents []string) error {
	d, err := parseElementSection("ecp", contents)
	ps.ecp = d
	return err
}

func parsePCMSection(ps *parsedSections, contents []string) error {
	d := make(map[string]interface{})
	for _, line := range contents {
		k, v, err := parseKeyValue("pcm", line)
		if err != nil {
			return err
		}
		d[k] = typedValue(v)
	}
	ps.pcm = d
	return nil
}

func parsePCMSolventSection(ps *parsedSections, contents []string) error {
	d := make(map[string]interface{})
	var atoms []SolventAtom
	for _, line := range contents {
		tokens := strings.Fields(strings.ReplaceAll(line, "=", " "))
		if len(tokens) < 2 {
			return newError(Grammar, "pcm_solvent", "%s: there should be at least a key and a value", BadSectionLine)
		}
		k := strings.ToLower(tokens[0])
		if alt, ok := alternativeKeys[k]; ok {
			k = alt
		}
		if k == "solventatom" {
			if len(tokens) < 5 {
				return newError(Grammar, "pcm_solvent", "A solventatom entry needs three indices and a radius")
			}
			var sa SolventAtom
			var err error
			if sa.A, err = strconv.Atoi(tokens[1]); err != nil {
				return newError(Grammar, "pcm_solvent", "%s: %v", BadSectionLine, err)
			}
			if sa.B, err = strconv.Atoi(tokens[2]); err != nil {
				return newError(Grammar, "pcm_solvent", "%s: %v", BadSectionLine, err)
			}
			if sa.C, err = strconv.Atoi(tokens[3]); err != nil {
				return newError(Grammar, "pcm_solvent", "%s: %v", BadSectionLine, err)
			}
			if sa.Radius, err = strconv.ParseFloat(tokens[4], 64); err != nil {
				return newError(Grammar, "pcm_solvent", "%s: %v", BadSectionLine, err)
			}
			atoms = append(atoms, sa)
			continue
		}
		d[k] = typedValue(tokens[1])
	}
	ps.pcmSolvent = d
	ps.solventAtoms = atoms
	return nil
}
