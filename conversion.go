/*
 * conversion.go, part of goqchem.
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

//This provides useful conversion factors and other constants

//Conversions
const (
	Deg2Rad = 0.0174533
	Rad2Deg = 1 / 0.0174533
	H2eV    = 27.21138386 //Hartree to eV
	EV2H    = 1 / 27.21138386
	Kcal2eV = 4.3363e-2 //kcal/mol to eV
	H2Kcal  = 627.509   //Hartree to Kcal/mol
	Kcal2H  = 1 / 627.509
)
