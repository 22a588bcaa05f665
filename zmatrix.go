/*
 * zmatrix.go, part of goqchem.
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
	"math"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//UndefinedParameterError is returned when a Z-matrix line references a
//symbolic parameter that was never defined in the variable block.
type UndefinedParameterError struct {
	Name string
}

func (e *UndefinedParameterError) Error() string {
	return fmt.Sprintf("Z-matrix parameter %q is not defined", e.Name)
}

var (
	varPattern  = regexp.MustCompile(`^([A-Za-z]+\S*)[\s=,]+([\d\-\.]+)$`)
	xyzPattern  = regexp.MustCompile(`^(\w+)[\s,]+([\d\.eE\-]+)[\s,]+([\d\.eE\-]+)[\s,]+([\d\.eE\-]+)[-\.\s,\w.]*$`)
	zmatPattern = regexp.MustCompile(`^(\w+)*([\s,]+(\w+)[\s,]+(\w+))*[-\.\s,\w]*$`)
	tokenSplit  = regexp.MustCompile(`[,\s]+`)
)

//ParseCoords builds a molecule from a list of coordinate specification
//lines. Each line is either Cartesian (element plus three floats) or
//Z-matrix style (element plus up to three reference-atom/value pairs,
//where a value can be a float literal, a named parameter from a
//preceding "name = value" block, or a negated named parameter). Both
//styles can be mixed, but once a Z-matrix line is seen the rest of the
//input is parsed as Z-matrix. The returned molecule has charge 0 and
//multiplicity 1; callers set the real values afterwards.
func ParseCoords(lines []string) (*Molecule, error) {
	params := make(map[string]float64)
	for _, l := range lines {
		if m := varPattern.FindStringSubmatch(strings.TrimSpace(l)); m != nil {
			v, err := strconv.ParseFloat(m[2], 64)
			if err == nil {
				params[m[1]] = v
			}
		}
	}
	var species []string
	var coords []r3.Vec
	zmode := false
	for _, raw := range lines {
		l := strings.TrimSpace(raw)
		if l == "" {
			break
		}
		if !zmode && xyzPattern.MatchString(l) {
			m := xyzPattern.FindStringSubmatch(l)
			species = append(species, m[1])
			toks := tokenSplit.Split(l, -1)
			start := 1
			if len(toks) > 4 {
				start = 2
			}
			var xyz [3]float64
			for i := 0; i < 3; i++ {
				v, err := strconv.ParseFloat(toks[start+i], 64)
				if err != nil {
					return nil, fmt.Errorf("Bad Cartesian line %q: %v", l, err)
				}
				xyz[i] = v
			}
			coords = append(coords, r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]})
		} else if zmatPattern.MatchString(l) {
			zmode = true
			toks := tokenSplit.Split(l, -1)
			species = append(species, toks[0])
			toks = toks[1:]
			var nn []int
			var pars []float64
			for len(toks) > 1 {
				ind, data := toks[0], toks[1]
				toks = toks[2:]
				if n, err := strconv.Atoi(ind); err == nil {
					nn = append(nn, n)
				} else {
					found := -1
					for i, sp := range species {
						if sp == ind {
							found = i
							break
						}
					}
					if found < 0 {
						return nil, fmt.Errorf("Z-matrix reference %q does not name a previous atom", ind)
					}
					nn = append(nn, found+1)
				}
				if v, err := strconv.ParseFloat(data, 64); err == nil {
					pars = append(pars, v)
				} else if strings.HasPrefix(data, "-") {
					v, ok := params[data[1:]]
					if !ok {
						return nil, &UndefinedParameterError{Name: data[1:]}
					}
					pars = append(pars, -v)
				} else {
					v, ok := params[data]
					if !ok {
						return nil, &UndefinedParameterError{Name: data}
					}
					pars = append(pars, v)
				}
			}
			coord, err := placeAtom(coords, nn, pars)
			if err != nil {
				return nil, err
			}
			coords = append(coords, coord)
		}
	}
	atoms := make([]*Atom, len(species))
	data := make([]float64, 0, 3*len(coords))
	for i, sp := range species {
		symbol, err := ParseSpecies(sp)
		if err != nil {
			return nil, err
		}
		atoms[i] = &Atom{Symbol: symbol}
		data = append(data, coords[i].X, coords[i].Y, coords[i].Z)
	}
	if len(atoms) == 0 {
		return nil, fmt.Errorf("No atoms found in coordinate section")
	}
	return NewMolecule(atoms, mat.NewDense(len(atoms), 3, data))
}

//placeAtom computes the Cartesian position of a Z-matrix atom from its
//0-3 references. Angles and dihedrals are in degrees.
func placeAtom(coords []r3.Vec, nn []int, pars []float64) (r3.Vec, error) {
	for _, n := range nn {
		if n < 1 || n > len(coords) {
			return r3.Vec{}, fmt.Errorf("Z-matrix reference %d out of range", n)
		}
	}
	switch len(nn) {
	case 0:
		return r3.Vec{}, nil
	case 1:
		if len(pars) < 1 {
			return r3.Vec{}, fmt.Errorf("Z-matrix line with one reference needs a bond length")
		}
		return r3.Vec{Z: pars[0]}, nil
	case 2:
		if len(pars) < 2 {
			return r3.Vec{}, fmt.Errorf("Z-matrix line with two references needs a bond length and an angle")
		}
		c1 := coords[nn[0]-1]
		c2 := coords[nn[1]-1]
		bl, angle := pars[0], pars[1]
		coord := rotateAbout(c2, c1, r3.Vec{Y: 1}, angle)
		return rescaleBond(coord, c1, bl), nil
	default:
		if len(pars) < 3 {
			return r3.Vec{}, fmt.Errorf("Z-matrix line with three references needs a bond length, an angle and a dihedral")
		}
		c1 := coords[nn[0]-1]
		c2 := coords[nn[1]-1]
		c3 := coords[nn[2]-1]
		bl, angle, dih := pars[0], pars[1], pars[2]
		axis := r3.Cross(r3.Sub(c3, c2), r3.Sub(c1, c2))
		coord := rotateAbout(c2, c1, axis, angle)
		//The rotation above fixes the bond angle; a second rotation
		//about the c1-c2 axis by the torsion defect fixes the dihedral.
		v3 := r3.Cross(r3.Sub(coord, c1), r3.Sub(c1, c2))
		adj := vecAngle(v3, axis)
		coord = rotateAbout(coord, c1, r3.Sub(c1, c2), dih-adj)
		return rescaleBond(coord, c1, bl), nil
	}
}

//rotateAbout rotates v around the axis passing through origin, by angle
//degrees.
func rotateAbout(v, origin, axis r3.Vec, angle float64) r3.Vec {
	if r3.Norm(axis) == 0 {
		return v
	}
	rotated := r3.Rotate(r3.Sub(v, origin), angle*Deg2Rad, r3.Unit(axis))
	return r3.Add(rotated, origin)
}

//rescaleBond moves v along the origin-v direction so that it sits at
//exactly bl from origin.
func rescaleBond(v, origin r3.Vec, bl float64) r3.Vec {
	vec := r3.Sub(v, origin)
	return r3.Add(r3.Scale(bl/r3.Norm(vec), vec), origin)
}

//vecAngle returns the angle between two vectors, in degrees, clamped
//against floating point drift at the +-1 cosine boundaries.
func vecAngle(v1, v2 r3.Vec) float64 {
	arg := r3.Dot(v1, v2) / (r3.Norm(v1) * r3.Norm(v2))
	if arg > 1 {
		arg = 1
	} else if arg < -1 {
		arg = -1
	}
	return math.Acos(arg) * Rad2Deg
}
