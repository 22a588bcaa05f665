/*
 * serialize.go, part of goqchem.
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
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//String renders the job in the $section input format. Sections come
//out as comment, molecule and rem first, then the remaining sections
//in alphabetical order.
func (j *Job) String() string {
	var lines []string
	write := func(name string, body []string) {
		lines = append(lines, "$"+name)
		lines = append(lines, body...)
		lines = append(lines, "$end", "\n")
	}
	if j.hasComment {
		write("comment", j.formatComment())
	}
	write("molecule", j.formatMolecule())
	write("rem", j.formatRem())
	names := make([]string, 0, len(optionalSections))
	for name := range optionalSections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		switch name {
		case "basis":
			if j.basis != nil {
				write(name, formatElementMap(j.basis))
			}
		case "aux_basis":
			if j.auxBasis != nil {
				write(name, formatElementMap(j.auxBasis))
			}
		case "ecp":
			if j.ecp != nil {
				write(name, formatElementMap(j.ecp))
			}
		case "pcm":
			if j.pcm != nil {
				write(name, formatAlignedSection(j.pcm, nil, "   "))
			}
		case "pcm_solvent":
			if j.pcmSolvent != nil || len(j.solventAtoms) > 0 {
				write(name, j.formatPCMSolvent())
			}
		default:
			if body, ok := j.other[name]; ok {
				write(name, formatAlignedSection(body, nil, "   "))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (j *Job) formatComment() []string {
	return []string{" " + strings.TrimSpace(j.comment)}
}

func (j *Job) formatMolecule() []string {
	var lines []string
	if j.hasCharge {
		lines = append(lines, fmt.Sprintf(" %d  %d", j.charge, j.multi))
	}
	if j.readMol {
		return append(lines, " read")
	}
	for i := 0; i < j.mol.Len(); i++ {
		x, y, z := j.mol.Coord(i)
		lines = append(lines, fmt.Sprintf(" %-4s %17.8f %17.8f %17.8f", j.mol.Atom(i).Symbol, x, y, z))
	}
	return lines
}

//formatRem right-aligns the keys to the widest one, with jobtype,
//exchange and basis always first.
func (j *Job) formatRem() []string {
	priority := []string{"jobtype", "exchange", "basis"}
	return formatAlignedSection(j.rem, priority, " = ")
}

func formatElementMap(bs map[string]string) []string {
	elements := make([]string, 0, len(bs))
	for e := range bs {
		elements = append(elements, e)
	}
	sort.Strings(elements)
	var lines []string
	for _, e := range elements {
		lines = append(lines, " "+e, " "+bs[e], " ****")
	}
	return lines
}

func formatAlignedSection(body map[string]interface{}, priority []string, sep string) []string {
	width := 0
	for name := range body {
		if len(name) > width {
			width = len(name)
		}
	}
	var ordered []string
	seen := make(map[string]bool)
	for _, name := range priority {
		if _, ok := body[name]; ok {
			ordered = append(ordered, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range body {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	ordered = append(ordered, rest...)
	var lines []string
	for _, name := range ordered {
		lines = append(lines, fmt.Sprintf("  %*s%s%s", width, name, sep, formatValue(body[name])))
	}
	return lines
}

//formatPCMSolvent keeps the conventional key order of the section:
//dielectric, nonels, nsolventatoms and the solventatom list lead,
//anything else follows alphabetically.
func (j *Job) formatPCMSolvent() []string {
	body := j.pcmSolvent
	if body == nil {
		body = map[string]interface{}{}
	}
	width := 0
	if len(j.solventAtoms) > 0 {
		width = len("solventatom")
	}
	for name := range body {
		if len(name) > width {
			width = len(name)
		}
	}
	var lines []string
	appendKey := func(name string) {
		if v, ok := body[name]; ok {
			lines = append(lines, fmt.Sprintf("  %*s   %s", width, name, formatValue(v)))
		}
	}
	appendKey("dielectric")
	appendKey("nonels")
	appendKey("nsolventatoms")
	for _, sa := range j.solventAtoms {
		value := fmt.Sprintf("%-4d %-4d %-4d %4.2f", sa.A, sa.B, sa.C, sa.Radius)
		lines = append(lines, fmt.Sprintf("  %*s   %s", width, "solventatom", value))
	}
	var rest []string
	for name := range body {
		if name != "dielectric" && name != "nonels" && name != "nsolventatoms" {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		appendKey(name)
	}
	return lines
}

func formatValue(v interface{}) string {
	switch value := v.(type) {
	case bool:
		if value {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	case string:
		return value
	}
	return fmt.Sprintf("%v", v)
}
