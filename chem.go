/*
 * chem.go, part of goqchem.
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

package chem

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//Atom contains the per-atom data of a molecule other than the
//coordinates, which live in a separate matrix.
type Atom struct {
	Symbol string
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	return &Atom{Symbol: A.Symbol}
}

//Molecule contains a set of atoms, their Cartesian coordinates (one row
//per atom, in Angstroms) and the total charge and spin multiplicity.
type Molecule struct {
	Atoms  []*Atom
	Coords *mat.Dense
	charge int
	multi  int
}

//NewMolecule makes a molecule from the given atoms and coordinates,
//with charge 0 and spin multiplicity 1. It returns an error if the
//slices are nil or their dimensions don't match.
func NewMolecule(atoms []*Atom, coords *mat.Dense) (*Molecule, error) {
	if atoms == nil {
		return nil, fmt.Errorf("Supplied a nil atom slice")
	}
	if coords == nil {
		return nil, fmt.Errorf("Supplied nil coordinates")
	}
	r, c := coords.Dims()
	if c != 3 {
		return nil, fmt.Errorf("Malformed coord matrix: %d columns", c)
	}
	if r != len(atoms) {
		return nil, fmt.Errorf("Inconsistent coordinates/atoms: %d atoms, %d coords", len(atoms), r)
	}
	return &Molecule{Atoms: atoms, Coords: coords, charge: 0, multi: 1}, nil
}

//Molecule methods

//Len returns the number of atoms in the molecule.
func (M *Molecule) Len() int {
	return len(M.Atoms)
}

//Atom returns the Atom corresponding to the index i.
//Panics if out of range.
func (M *Molecule) Atom(i int) *Atom {
	if i >= M.Len() {
		panic("Molecule: Requested Atom out of bounds")
	}
	return M.Atoms[i]
}

//Coord returns the x, y, z coordinates of the ith atom.
//Panics if out of range.
func (M *Molecule) Coord(i int) (x, y, z float64) {
	if i >= M.Len() {
		panic("Molecule: Requested coordinate out of bounds")
	}
	return M.Coords.At(i, 0), M.Coords.At(i, 1), M.Coords.At(i, 2)
}

//Charge returns the total charge of the molecule.
func (M *Molecule) Charge() int {
	return M.charge
}

//Multi returns the spin multiplicity of the molecule.
func (M *Molecule) Multi() int {
	return M.multi
}

//SetChargeAndMulti sets the total charge and spin multiplicity.
//It does not check electron-count consistency; that is the job of
//whoever owns the charge (see qcio.NewJob).
func (M *Molecule) SetChargeAndMulti(charge, multi int) {
	M.charge = charge
	M.multi = multi
}

//Elements returns the distinct element symbols of the molecule, in
//order of first appearance.
func (M *Molecule) Elements() []string {
	seen := make(map[string]bool)
	var ret []string
	for _, at := range M.Atoms {
		if !seen[at.Symbol] {
			seen[at.Symbol] = true
			ret = append(ret, at.Symbol)
		}
	}
	return ret
}

//Electrons returns the total number of electrons in the molecule,
//taking the current charge into account. It returns an error if any
//element symbol is unknown.
func (M *Molecule) Electrons() (int, error) {
	n := 0
	for _, at := range M.Atoms {
		z, err := AtomicNumber(at.Symbol)
		if err != nil {
			return 0, err
		}
		n += z
	}
	return n - M.charge, nil
}

//Mass returns the total mass of the molecule. It returns an error if
//any element has no tabulated mass.
func (M *Molecule) Mass() (float64, error) {
	total := 0.0
	for _, at := range M.Atoms {
		m, err := Mass(at.Symbol)
		if err != nil {
			return 0, err
		}
		total += m
	}
	return total, nil
}

//Copy returns a deep copy of the molecule.
func (M *Molecule) Copy() *Molecule {
	atoms := make([]*Atom, M.Len())
	for i, at := range M.Atoms {
		atoms[i] = at.Copy()
	}
	coords := mat.DenseCopyOf(M.Coords)
	return &Molecule{Atoms: atoms, Coords: coords, charge: M.charge, multi: M.multi}
}

//MarshalJSON serializes the molecule as a charge/multiplicity pair plus
//a list of sites, each with its element symbol and xyz coordinates.
func (M *Molecule) MarshalJSON() ([]byte, error) {
	type site struct {
		Species string     `json:"species"`
		XYZ     [3]float64 `json:"xyz"`
	}
	doc := struct {
		Charge int    `json:"charge"`
		Multi  int    `json:"spin_multiplicity"`
		Sites  []site `json:"sites"`
	}{Charge: M.charge, Multi: M.multi}
	for i := range M.Atoms {
		x, y, z := M.Coord(i)
		doc.Sites = append(doc.Sites, site{Species: M.Atoms[i].Symbol, XYZ: [3]float64{x, y, z}})
	}
	return json.Marshal(doc)
}
