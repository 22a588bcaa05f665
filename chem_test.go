/*
 * chem_test.go, part of goqchem.
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
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func water() *Molecule {
	atoms := []*Atom{{Symbol: "O"}, {Symbol: "H"}, {Symbol: "H"}}
	coords := mat.NewDense(3, 3, []float64{
		0.0, 0.0, 0.0,
		0.0, 0.0, 0.957,
		0.92, 0.0, -0.24,
	})
	mol, err := NewMolecule(atoms, coords)
	if err != nil {
		panic(err)
	}
	return mol
}

func TestMoleculeBasics(Te *testing.T) {
	mol := water()
	if mol.Len() != 3 {
		Te.Error("wrong number of atoms", mol.Len())
	}
	if c := mol.Charge(); c != 0 {
		Te.Error("default charge should be 0, got", c)
	}
	if m := mol.Multi(); m != 1 {
		Te.Error("default multiplicity should be 1, got", m)
	}
	elements := mol.Elements()
	if len(elements) != 2 || elements[0] != "O" || elements[1] != "H" {
		Te.Error("wrong element set", elements)
	}
	n, err := mol.Electrons()
	if err != nil {
		Te.Error(err)
	}
	if n != 10 {
		Te.Error("water should have 10 electrons, got", n)
	}
	mol.SetChargeAndMulti(-1, 2)
	n, _ = mol.Electrons()
	if n != 11 {
		Te.Error("anionic water should have 11 electrons, got", n)
	}
}

func TestMass(Te *testing.T) {
	m, err := Mass("O")
	if err != nil {
		Te.Fatal(err)
	}
	if m != 16.00 {
		Te.Error("wrong mass for oxygen:", m)
	}
	if _, err := Mass("U"); err == nil {
		Te.Error("elements outside the mass table should be rejected")
	}
	total, err := water().Mass()
	if err != nil {
		Te.Fatal(err)
	}
	if total != 18.0 {
		Te.Error("wrong molecular mass for water:", total)
	}
	uranium := &Molecule{Atoms: []*Atom{{Symbol: "U"}}, Coords: mat.NewDense(1, 3, make([]float64, 3))}
	if _, err := uranium.Mass(); err == nil {
		Te.Error("a molecule with an untabulated element has no total mass")
	}
}

func TestMoleculeCopy(Te *testing.T) {
	mol := water()
	clone := mol.Copy()
	clone.SetChargeAndMulti(1, 2)
	clone.Atoms[0] = &Atom{Symbol: "S"}
	if mol.Charge() != 0 || mol.Atom(0).Symbol != "O" {
		Te.Error("Copy should not share state with the original")
	}
}

func TestParseSpecies(Te *testing.T) {
	cases := map[string]string{
		"8":  "O",
		"C":  "C",
		"C1": "C",
		"c1": "C",
		"cl": "Cl",
	}
	for in, want := range cases {
		got, err := ParseSpecies(in)
		if err != nil {
			Te.Error(err)
			continue
		}
		if got != want {
			Te.Errorf("ParseSpecies(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseSpecies("Xx"); err == nil {
		Te.Error("ParseSpecies should reject made-up elements")
	}
}

func TestAtomicNumberRoundTrip(Te *testing.T) {
	z, err := AtomicNumber("Fe")
	if err != nil {
		Te.Error(err)
	}
	if z != 26 {
		Te.Error("Fe should be element 26, got", z)
	}
	s, err := SymbolFromNumber(26)
	if err != nil {
		Te.Error(err)
	}
	if s != "Fe" {
		Te.Error("element 26 should be Fe, got", s)
	}
}

func TestMoleculeJSON(Te *testing.T) {
	mol := water()
	data, err := mol.MarshalJSON()
	if err != nil {
		Te.Error(err)
	}
	s := string(data)
	for _, want := range []string{`"charge":0`, `"spin_multiplicity":1`, `"species":"O"`} {
		if !strings.Contains(s, want) {
			Te.Errorf("marshaled molecule lacks %s: %s", want, s)
		}
	}
}
