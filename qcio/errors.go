/*
 * errors.go, part of goqchem.
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

import "fmt"

//Kind classifies what went wrong while parsing or validating a job.
type Kind int

const (
	//Grammar covers malformed section framing and unparseable lines.
	Grammar Kind = iota
	//UnsupportedSection marks a section that is recognized by the
	//grammar but has no registered parser.
	UnsupportedSection
	//InvalidConfiguration marks a job whose fields are individually
	//well formed but mutually inconsistent.
	InvalidConfiguration
	//UndefinedParameter marks a Z-matrix line referencing a parameter
	//that was never declared.
	UndefinedParameter
)

func (k Kind) String() string {
	switch k {
	case Grammar:
		return "grammar"
	case UnsupportedSection:
		return "unsupported section"
	case InvalidConfiguration:
		return "invalid configuration"
	case UndefinedParameter:
		return "undefined parameter"
	}
	return "unknown"
}

//Errors

type Error struct {
	Kind    Kind
	Section string //the section being processed, or empty if none.
	message string
}

func (err Error) Error() string {
	if err.Section != "" {
		return fmt.Sprintf("qchem input %s error in section %s: %s", err.Kind, err.Section, err.message)
	}
	return fmt.Sprintf("qchem input %s error: %s", err.Kind, err.message)
}

const (
	TextOutsideSection  = "Text outside a section"
	SectionUnterminated = "Section is not terminated"
	SectionDuplicated   = "Section appears more than once"
	SectionUnknown      = "Unrecognized section name"
	BadChargeLine       = "Charge and spin multiplicity line is malformed"
	BadSectionLine      = "Line cannot be parsed in this section"
)

func newError(kind Kind, section, format string, args ...interface{}) Error {
	return Error{Kind: kind, Section: section, message: fmt.Sprintf(format, args...)}
}
