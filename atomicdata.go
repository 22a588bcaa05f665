/*
 * atomicdata.go, part of goqchem.
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
	"fmt"
	"strconv"
	"strings"
)

//A map for assigning atomic numbers to element symbols.
//Needed for electron counting, so unlike the mass table it
//covers most of the periodic table, not just bio-elements.
var symbolNumber = map[string]int{
	"H": 1, "He": 2,
	"Li": 3, "Be": 4, "B": 5, "C": 6, "N": 7, "O": 8, "F": 9, "Ne": 10,
	"Na": 11, "Mg": 12, "Al": 13, "Si": 14, "P": 15, "S": 16, "Cl": 17, "Ar": 18,
	"K": 19, "Ca": 20, "Sc": 21, "Ti": 22, "V": 23, "Cr": 24, "Mn": 25,
	"Fe": 26, "Co": 27, "Ni": 28, "Cu": 29, "Zn": 30, "Ga": 31, "Ge": 32,
	"As": 33, "Se": 34, "Br": 35, "Kr": 36,
	"Rb": 37, "Sr": 38, "Y": 39, "Zr": 40, "Nb": 41, "Mo": 42, "Tc": 43,
	"Ru": 44, "Rh": 45, "Pd": 46, "Ag": 47, "Cd": 48, "In": 49, "Sn": 50,
	"Sb": 51, "Te": 52, "I": 53, "Xe": 54,
	"Cs": 55, "Ba": 56, "La": 57, "Ce": 58, "Pr": 59, "Nd": 60, "Pm": 61,
	"Sm": 62, "Eu": 63, "Gd": 64, "Tb": 65, "Dy": 66, "Ho": 67, "Er": 68,
	"Tm": 69, "Yb": 70, "Lu": 71, "Hf": 72, "Ta": 73, "W": 74, "Re": 75,
	"Os": 76, "Ir": 77, "Pt": 78, "Au": 79, "Hg": 80, "Tl": 81, "Pb": 82,
	"Bi": 83, "Po": 84, "At": 85, "Rn": 86,
	"Fr": 87, "Ra": 88, "Ac": 89, "Th": 90, "Pa": 91, "U": 92, "Np": 93,
	"Pu": 94, "Am": 95, "Cm": 96,
}

//numberSymbol is the inverse of symbolNumber, filled at init time.
var numberSymbol = map[int]string{}

func init() {
	for s, z := range symbolNumber {
		numberSymbol[z] = s
	}
}

//A map for assigning mass to elements.
//Note that just common "bio-elements" are present
var symbolMass = map[string]float64{
	"H":  1.0,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.1,
	"Ca": 40.08,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Cu": 63.55,
	"Zn": 65.38,
	"Co": 58.93,
	"Fe": 55.84,
	"Mn": 54.94,
	"Cr": 51.996,
	"Si": 28.08,
	"Be": 9.012,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

//AtomicNumber returns the atomic number for the given element symbol,
//or an error if the symbol is not in the table.
func AtomicNumber(symbol string) (int, error) {
	z, ok := symbolNumber[symbol]
	if !ok {
		return 0, fmt.Errorf("Unknown element symbol: %s", symbol)
	}
	return z, nil
}

//SymbolFromNumber returns the element symbol for the given atomic
//number, or an error if the number is not in the table.
func SymbolFromNumber(z int) (string, error) {
	s, ok := numberSymbol[z]
	if !ok {
		return "", fmt.Errorf("Unknown atomic number: %d", z)
	}
	return s, nil
}

//Mass returns the atomic mass for the given element symbol, or an
//error if the symbol is not in the mass table.
func Mass(symbol string) (float64, error) {
	m, ok := symbolMass[symbol]
	if !ok {
		return 0, fmt.Errorf("No mass tabulated for element: %s", symbol)
	}
	return m, nil
}

//ParseSpecies normalizes a species token into an element symbol. The
//token can be an atomic number ("8"), a symbol ("C"), a labelled symbol
//("C1") or a badly capitalized one ("c1"). Labels (any digits) are
//stripped and the remainder is capitalized.
func ParseSpecies(token string) (string, error) {
	if z, err := strconv.Atoi(token); err == nil {
		return SymbolFromNumber(z)
	}
	var b strings.Builder
	for _, r := range token {
		if r < '0' || r > '9' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return "", fmt.Errorf("Bad species token: %q", token)
	}
	s = strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	if _, ok := symbolNumber[s]; !ok {
		return "", fmt.Errorf("Unknown element symbol: %s", s)
	}
	return s, nil
}
