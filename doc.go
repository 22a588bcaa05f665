/*
 * doc.go, part of goqchem.
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

/*
Package chem provides the molecule model shared by the goqchem
subpackages, together with atomic data tables, unit conversion constants
and a builder that turns internal (Z-matrix) coordinate specifications
into Cartesian coordinates.

The Q-Chem input grammar and output-log parsing live in the qcio
subpackage. Plotting of SCF convergence histories lives in qcplot, and
the YAML-driven extract-transform-load runner that feeds parsed results
into record streams lives in etl.

Coordinates are kept in gonum dense matrices of shape Nx3, one row per
atom, in Angstroms. Parsed energies are in Hartree on the wire and in eV
in result records, using the factors in conversion.go.
*/
package chem
