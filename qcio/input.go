/*
 * input.go, part of goqchem.
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

//Package qcio builds, serializes and parses Q-Chem job descriptions,
//and parses the run logs Q-Chem writes back. A Job holds one $section
//structured job specification; ParseOutput digests a (possibly
//multi-job) run log into structured Result records.
package qcio

import (
	"sort"
	"strconv"
	"strings"

	"github.com/egampel/goqchem"
)

//SolventAtom is one repeatable solventatom entry of the pcm_solvent
//section.
type SolventAtom struct {
	A      int
	B      int
	C      int
	Radius float64
}

//Options collects the optional construction arguments of a Job. The
//zero value yields a single point HF/6-31+G* job.
type Options struct {
	Jobtype         string //default "sp"
	Title           string
	Exchange        string //default "hf"
	Correlation     string
	BasisSet        string //default "6-31+g*", ignored when PerAtomBasis is given
	PerAtomBasis    map[string]string
	AuxBasisSet     string
	PerAtomAuxBasis map[string]string
	ECP             string
	PerAtomECP      map[string]string
	Rem             map[string]interface{}
	//Sections holds extra optional sections, keyed by section name
	//restricted to the known section allow-list.
	Sections map[string]map[string]interface{}
}

//Job is one computational job specification. It is valid from
//construction on, and stays valid through its setters, each of which
//re-checks the rules it can break.
type Job struct {
	mol          *chem.Molecule
	readMol      bool //geometry comes from a previous job's checkpoint
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
	other        map[string]map[string]interface{}
}

var jobtypes = map[string]bool{
	"sp": true, "opt": true, "ts": true, "freq": true, "force": true,
	"rpath": true, "nmr": true, "bsse": true, "eda": true,
	"pes_scan": true, "fsm": true, "aimd": true, "pimc": true,
	"makeefp": true,
}

var exchanges = map[string]bool{
	"hf": true, "b": true, "b3lyp": true, "b3lyp5": true, "b3p86": true,
	"b3pw91": true, "blyp": true, "edf1": true, "edf2": true,
	"pbe": true, "pbe0": true, "pw91": true, "m05": true, "m052x": true,
	"m06": true, "m06l": true, "m062x": true, "wb97x": true,
	"wb97xd": true, "xyg3": true, "xygjos": true, "lxygjos": true,
	"gen": true,
}

var alternativeKeys = map[string]string{
	"job_type":        "jobtype",
	"symmetry_ignore": "sym_ignore",
	"scf_max_cycles":  "max_scf_cycles",
}

var alternativeValues = map[string]string{
	"optimization": "opt",
	"frequency":    "freq",
}

//optionalSections is the allow-list of section names beyond comment,
//molecule and rem.
var optionalSections = map[string]bool{
	"basis": true, "ecp": true, "empirical_dispersion": true,
	"external_charges": true, "force_field_params": true,
	"intracule": true, "isotopes": true, "aux_basis": true,
	"localized_diabatization": true, "multipole_field": true,
	"nbo": true, "occupied": true, "swap_occupied_virtual": true,
	"opt": true, "pcm": true, "pcm_solvent": true, "plots": true,
	"qm_atoms": true, "svp": true, "svpirf": true,
	"van_der_waals": true, "xc_functional": true, "cdft": true,
	"efp_fragments": true, "efp_params": true,
}

//NewJob builds a job around mol, taking the charge from the molecule
//and deriving the spin multiplicity from the electron count parity.
func NewJob(mol *chem.Molecule, opts *Options) (*Job, error) {
	if mol == nil {
		return nil, newError(InvalidConfiguration, "", "A molecule is required; use NewCheckpointJob to read the previous geometry")
	}
	charge := mol.Charge()
	n, err := electronCount(mol, charge)
	if err != nil {
		return nil, err
	}
	multi := 1
	if n%2 != 0 {
		multi = 2
	}
	return newJob(mol, false, charge, multi, true, opts)
}

//NewJobWithChargeAndMulti builds a job around mol with an explicit
//charge and spin multiplicity, which must be consistent with the
//molecule's electron count.
func NewJobWithChargeAndMulti(mol *chem.Molecule, charge, multi int, opts *Options) (*Job, error) {
	if mol == nil {
		return nil, newError(InvalidConfiguration, "", "A molecule is required; use NewCheckpointJob to read the previous geometry")
	}
	n, err := electronCount(mol, charge)
	if err != nil {
		return nil, err
	}
	if (n+multi)%2 != 1 {
		return nil, newError(InvalidConfiguration, "", "Charge of %d and spin multiplicity of %d is not possible for this molecule", charge, multi)
	}
	return newJob(mol, false, charge, multi, true, opts)
}

//NewCheckpointJob builds a job whose geometry is read from the
//previous job in the sequence. Charge and multiplicity stay unset.
func NewCheckpointJob(opts *Options) (*Job, error) {
	return newJob(nil, true, 0, 0, false, opts)
}

//NewCheckpointJobWithChargeAndMulti is NewCheckpointJob with an
//explicit charge and spin multiplicity.
func NewCheckpointJobWithChargeAndMulti(charge, multi int, opts *Options) (*Job, error) {
	return newJob(nil, true, charge, multi, true, opts)
}

func electronCount(mol *chem.Molecule, charge int) (int, error) {
	n := 0
	for i := 0; i < mol.Len(); i++ {
		z, err := chem.AtomicNumber(mol.Atom(i).Symbol)
		if err != nil {
			return 0, newError(InvalidConfiguration, "molecule", "%v", err)
		}
		n += z
	}
	return n - charge, nil
}

func newJob(mol *chem.Molecule, readMol bool, charge, multi int, hasCharge bool, opts *Options) (*Job, error) {
	if opts == nil {
		opts = &Options{}
	}
	if mol != nil {
		mol = mol.Copy()
		if hasCharge {
			mol.SetChargeAndMulti(charge, multi)
		}
	}
	j := &Job{
		mol:       mol,
		readMol:   readMol,
		charge:    charge,
		multi:     multi,
		hasCharge: hasCharge,
		rem:       make(map[string]interface{}),
	}
	if opts.Title != "" {
		j.comment = opts.Title
		j.hasComment = true
	}
	exchange := strings.ToLower(opts.Exchange)
	if exchange == "" {
		exchange = "hf"
	}
	if !exchanges[exchange] {
		return nil, newError(InvalidConfiguration, "rem", "Exchange %s is not supported yet", opts.Exchange)
	}
	j.rem["exchange"] = exchange
	jt := strings.ToLower(opts.Jobtype)
	if jt == "" {
		jt = "sp"
	}
	if alt, ok := alternativeValues[jt]; ok {
		jt = alt
	}
	if !jobtypes[jt] {
		return nil, newError(InvalidConfiguration, "rem", "Job type %s is not supported yet", opts.Jobtype)
	}
	j.rem["jobtype"] = jt
	if opts.Correlation != "" {
		j.rem["correlation"] = strings.ToLower(opts.Correlation)
	}
	for k, v := range opts.Rem {
		k = strings.ToLower(k)
		if alt, ok := alternativeKeys[k]; ok {
			k = alt
		}
		switch value := v.(type) {
		case string:
			value = strings.ToLower(value)
			if alt, ok := alternativeValues[value]; ok {
				value = alt
			}
			j.rem[k] = value
		case int, float64, bool:
			j.rem[k] = v
		default:
			return nil, newError(InvalidConfiguration, "rem", "The value of %s can only be a string, a number or a bool", k)
		}
	}
	for name, body := range opts.Sections {
		name = strings.ToLower(name)
		if !optionalSections[name] {
			return nil, newError(Grammar, name, SectionUnknown)
		}
		switch name {
		case "pcm":
			j.pcm = lowerSection(body)
		case "pcm_solvent":
			j.pcmSolvent, j.solventAtoms = splitSolventSection(body)
		default:
			if j.other == nil {
				j.other = make(map[string]map[string]interface{})
			}
			j.other[name] = lowerSection(body)
		}
	}
	var err error
	if opts.PerAtomBasis != nil {
		err = j.SetPerAtomBasisSet(opts.PerAtomBasis)
	} else {
		basis := opts.BasisSet
		if basis == "" {
			basis = "6-31+g*"
		}
		err = j.SetBasisSet(basis)
	}
	if err != nil {
		return nil, err
	}
	if opts.PerAtomAuxBasis != nil {
		err = j.SetPerAtomAuxBasisSet(opts.PerAtomAuxBasis)
	} else if opts.AuxBasisSet != "" {
		err = j.SetAuxBasisSet(opts.AuxBasisSet)
	} else if j.auxBasisRequired() {
		if basis, ok := j.rem["basis"].(string); ok {
			if strings.HasPrefix(basis, "6-31+g") {
				err = j.SetAuxBasisSet("rimp2-aug-cc-pvdz")
			} else if strings.HasPrefix(basis, "6-311+g") {
				err = j.SetAuxBasisSet("rimp2-aug-cc-pvtz")
			}
		}
		if err == nil {
			if _, ok := j.rem["aux_basis"]; !ok {
				err = newError(InvalidConfiguration, "rem", "Auxiliary basis set is missing")
			}
		}
	}
	if err != nil {
		return nil, err
	}
	if opts.PerAtomECP != nil {
		err = j.SetPerAtomECP(opts.PerAtomECP)
	} else if opts.ECP != "" {
		err = j.SetECP(opts.ECP)
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

func lowerSection(body map[string]interface{}) map[string]interface{} {
	d := make(map[string]interface{}, len(body))
	for k, v := range body {
		if s, ok := v.(string); ok {
			v = strings.ToLower(s)
		}
		d[strings.ToLower(k)] = v
	}
	return d
}

func splitSolventSection(body map[string]interface{}) (map[string]interface{}, []SolventAtom) {
	d := make(map[string]interface{}, len(body))
	var atoms []SolventAtom
	for k, v := range body {
		k = strings.ToLower(k)
		if k == "solventatom" {
			if list, ok := v.([]SolventAtom); ok {
				atoms = append(atoms, list...)
				continue
			}
		}
		if s, ok := v.(string); ok {
			v = strings.ToLower(s)
		}
		d[k] = v
	}
	return d, atoms
}

func (j *Job) auxBasisRequired() bool {
	if x, _ := j.rem["exchange"].(string); x == "xygjos" || x == "xyg3" || x == "lxygjos" {
		return true
	}
	if corr, ok := j.rem["correlation"].(string); ok {
		return strings.HasPrefix(corr, "ri")
	}
	return false
}

//Molecule returns the geometry, or nil for a checkpoint job.
func (j *Job) Molecule() *chem.Molecule { return j.mol }

//ReadsMolecule reports whether the geometry is read from a checkpoint.
func (j *Job) ReadsMolecule() bool { return j.readMol }

//Charge returns the net charge; ok is false when charge and spin were
//left unset.
func (j *Job) Charge() (charge int, ok bool) { return j.charge, j.hasCharge }

//Multi returns the spin multiplicity; ok is false when charge and spin
//were left unset.
func (j *Job) Multi() (multi int, ok bool) { return j.multi, j.hasCharge }

//Jobtype returns the normalized job type, e.g. "sp" or "opt".
func (j *Job) Jobtype() string {
	jt, _ := j.rem["jobtype"].(string)
	return jt
}

//Comment returns the comment section text, if any.
func (j *Job) Comment() (string, bool) { return j.comment, j.hasComment }

//RemValue returns the value stored under the given rem key.
func (j *Job) RemValue(key string) (interface{}, bool) {
	v, ok := j.rem[strings.ToLower(key)]
	return v, ok
}

//checkCoverage compares the element keys of a per-atom mapping against
//the molecule's element set. When exact is false, molecule elements
//without an entry are tolerated (the ECP rule).
func (j *Job) checkCoverage(section string, bs map[string]string, exact bool) error {
	if j.mol == nil {
		return nil
	}
	molElements := make(map[string]bool)
	for _, e := range j.mol.Elements() {
		molElements[e] = true
	}
	if exact {
		var missing []string
		for e := range molElements {
			if _, ok := bs[e]; !ok {
				missing = append(missing, e)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return newError(InvalidConfiguration, section, "The set for elements %s is missing", strings.Join(missing, ", "))
		}
	}
	var extra []string
	for e := range bs {
		if !molElements[e] {
			extra = append(extra, e)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return newError(InvalidConfiguration, section, "The molecule doesn't contain element %s", strings.Join(extra, ", "))
	}
	return nil
}

func normalizeElementMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for element, value := range in {
		element = strings.TrimSpace(element)
		if element != "" {
			element = strings.ToUpper(element[:1]) + strings.ToLower(element[1:])
		}
		out[element] = strings.ToLower(value)
	}
	return out
}

//SetBasisSet sets a single basis set for the whole molecule.
func (j *Job) SetBasisSet(basis string) error {
	j.rem["basis"] = strings.ToLower(basis)
	return nil
}

//SetPerAtomBasisSet sets one basis set per element. Every element of
//the molecule must be covered, and no extra elements are allowed.
func (j *Job) SetPerAtomBasisSet(basis map[string]string) error {
	bs := normalizeElementMap(basis)
	if err := j.checkCoverage("basis", bs, true); err != nil {
		return err
	}
	j.rem["basis"] = "gen"
	j.basis = bs
	return nil
}

//SetAuxBasisSet sets a single auxiliary basis set for the whole
//molecule.
func (j *Job) SetAuxBasisSet(auxBasis string) error {
	j.rem["aux_basis"] = strings.ToLower(auxBasis)
	return nil
}

//SetPerAtomAuxBasisSet sets one auxiliary basis set per element, with
//the same coverage rule as SetPerAtomBasisSet.
func (j *Job) SetPerAtomAuxBasisSet(auxBasis map[string]string) error {
	bs := normalizeElementMap(auxBasis)
	if err := j.checkCoverage("aux_basis", bs, true); err != nil {
		return err
	}
	j.rem["aux_basis"] = "gen"
	j.auxBasis = bs
	return nil
}

//SetECP sets a single effective core potential for the whole molecule.
func (j *Job) SetECP(ecp string) error {
	j.rem["ecp"] = strings.ToLower(ecp)
	return nil
}

//SetPerAtomECP sets one effective core potential per element. Elements
//of the molecule without a potential are fine, but a potential for an
//element the molecule lacks is an error.
func (j *Job) SetPerAtomECP(ecp map[string]string) error {
	ps := normalizeElementMap(ecp)
	if err := j.checkCoverage("ecp", ps, false); err != nil {
		return err
	}
	j.rem["ecp"] = "gen"
	j.ecp = ps
	return nil
}

//SetMemory sets the total and static memory limits in megabytes. A
//zero value leaves the corresponding limit untouched.
func (j *Job) SetMemory(total, static int) {
	if total > 0 {
		j.rem["mem_total"] = total
	}
	if static > 0 {
		j.rem["mem_static"] = static
	}
}

//SetMaxScratchFiles sets the maximum number of scratch files. Each
//scratch file is limited to 2GB, so this bounds the scratch space.
func (j *Job) SetMaxScratchFiles(num int) {
	j.rem["max_sub_file_num"] = num
}

//SetSCFAlgorithmAndIterations picks the SCF convergence algorithm and
//the iteration cap.
func (j *Job) SetSCFAlgorithmAndIterations(algorithm string, iterations int) error {
	available := map[string]bool{
		"diis": true, "dm": true, "diis_dm": true, "diis_gdm": true,
		"gdm": true, "rca": true, "rca_diis": true, "roothaan": true,
	}
	a := strings.ToLower(algorithm)
	if !available[a] {
		return newError(InvalidConfiguration, "rem", "Algorithm %s is not available", algorithm)
	}
	j.rem["scf_algorithm"] = a
	j.rem["max_scf_cycles"] = iterations
	return nil
}

//SetSCFConvergenceThreshold declares SCF converged when the
//wavefunction error drops below 10^-exponent.
func (j *Job) SetSCFConvergenceThreshold(exponent int) {
	j.rem["scf_convergence"] = exponent
}

//SetIntegralThreshold sets the 10^-thresh cutoff below which two
//electron integrals are neglected.
func (j *Job) SetIntegralThreshold(thresh int) {
	j.rem["thresh"] = thresh
}

var lebedevAngularPoints = map[int]bool{
	6: true, 18: true, 26: true, 38: true, 50: true, 74: true, 86: true,
	110: true, 146: true, 170: true, 194: true, 230: true, 266: true,
	302: true, 350: true, 434: true, 590: true, 770: true, 974: true,
	1202: true, 1454: true, 1730: true, 2030: true, 2354: true,
	2702: true, 3074: true, 3470: true, 3890: true, 4334: true,
	4802: true, 5294: true,
}

//SetDFTGrid sets the numerical integration grid. gridType is one of
//"SG-0", "SG-1", "Lebedev" or "Gauss-Legendre"; the point counts only
//apply to the last two.
func (j *Job) SetDFTGrid(radialPoints, angularPoints int, gridType string) error {
	switch strings.ToLower(gridType) {
	case "sg-0":
		j.rem["xc_grid"] = 0
	case "sg-1":
		j.rem["xc_grid"] = 1
	case "lebedev":
		if !lebedevAngularPoints[angularPoints] {
			return newError(InvalidConfiguration, "rem", "%d is not a valid Lebedev angular points number", angularPoints)
		}
		j.rem["xc_grid"] = gridCode(radialPoints, angularPoints, false)
	case "gauss-legendre":
		j.rem["xc_grid"] = gridCode(radialPoints, angularPoints, true)
	default:
		return newError(InvalidConfiguration, "rem", "Grid type %s is not supported currently", gridType)
	}
	return nil
}

func gridCode(radial, angular int, negative bool) string {
	code := zeroPad(radial) + zeroPad(angular)
	if negative {
		return "-" + code
	}
	return code
}

func zeroPad(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 6 {
		s = "0" + s
	}
	return s
}

//SetSCFInitialGuess picks the initial guess method for SCF.
func (j *Job) SetSCFInitialGuess(guess string) error {
	available := map[string]bool{"core": true, "sad": true, "gwh": true, "read": true, "fragmo": true}
	g := strings.ToLower(guess)
	if !available[g] {
		return newError(InvalidConfiguration, "rem", "The guess method %s is not supported yet", guess)
	}
	j.rem["scf_guess"] = g
	return nil
}

//SetGeomMaxIterations caps the geometry optimization cycles.
func (j *Job) SetGeomMaxIterations(iterations int) {
	j.rem["geom_opt_max_cycles"] = iterations
}

//SetGeomOptCoordsType picks the coordinate system for geometry
//optimization: "cartesian", "internal", "internal-switch", "z-matrix"
//or "z-matrix-switch". The -switch variants fall back to Cartesian
//coordinates when the preferred system fails.
func (j *Job) SetGeomOptCoordsType(coordsType string) error {
	coordsMap := map[string]int{
		"cartesian": 0, "internal": 1, "internal-switch": -1,
		"z-matrix": 2, "z-matrix-switch": -2,
	}
	code, ok := coordsMap[strings.ToLower(coordsType)]
	if !ok {
		return newError(InvalidConfiguration, "rem", "Coordinate system %s is not supported yet", coordsType)
	}
	j.rem["geom_opt_coords"] = code
	return nil
}

//ScaleGeomOptThreshold scales the geometry optimization convergence
//criteria. Factors below 1.0 tighten the thresholds; the base values
//are 300e-6 for the gradient, 1200e-6 for the displacement and 100e-8
//for the energy change, and the scaled integer settings must stay
//positive.
func (j *Job) ScaleGeomOptThreshold(gradient, displacement, energy float64) error {
	if gradient < 1.0/(300-1) || displacement < 1.0/(1200-1) || energy < 1.0/(100-1) {
		return newError(InvalidConfiguration, "rem", "The geometry optimization convergence criteria is too tight")
	}
	j.rem["geom_opt_tol_gradient"] = int(gradient * 300)
	j.rem["geom_opt_tol_displacement"] = int(displacement * 1200)
	j.rem["geom_opt_tol_energy"] = int(energy * 100)
	return nil
}

//SetGeomOptUseGDIIS turns on the GDIIS algorithm for geometry
//optimization. A subspaceSize below zero keeps Q-Chem's default,
//min(NDEG, NATOMS, 4).
func (j *Job) SetGeomOptUseGDIIS(subspaceSize int) {
	if subspaceSize <= 0 {
		subspaceSize = -1
	}
	j.rem["geom_opt_max_diis"] = subspaceSize
}

//DisableSymmetry turns point group symmetry off.
func (j *Job) DisableSymmetry() {
	j.rem["sym_ignore"] = true
	j.rem["symmetry"] = false
}

//UseCOSMO sets the solvent model to COSMO with the given dielectric
//constant.
func (j *Job) UseCOSMO(dielectricConstant float64) {
	j.rem["solvent_method"] = "cosmo"
	j.rem["solvent_dielectric"] = dielectricConstant
}

//UsePCM sets the solvent model to PCM. Missing pcm parameters default
//to theory ssvpe, vdwscale 1.1 and radii uff; a missing solvent block
//defaults to water's dielectric constant. A non-empty radiiForceField
//overrides the solute radii source with the named force field.
func (j *Job) UsePCM(pcmParams, solventParams map[string]interface{}, radiiForceField string) {
	j.pcm = make(map[string]interface{})
	j.pcmSolvent = make(map[string]interface{})
	j.solventAtoms = nil
	for k, v := range lowerSection(pcmParams) {
		j.pcm[k] = v
	}
	defaults := map[string]interface{}{"theory": "ssvpe", "vdwscale": 1.1, "radii": "uff"}
	for k, v := range defaults {
		if _, ok := j.pcm[k]; !ok {
			j.pcm[k] = v
		}
	}
	if solventParams == nil {
		j.pcmSolvent["dielectric"] = 78.3553
	} else {
		j.pcmSolvent, j.solventAtoms = splitSolventSection(solventParams)
	}
	j.rem["solvent_method"] = "pcm"
	if radiiForceField != "" {
		j.pcm["radii"] = "bondi"
		j.rem["force_fied"] = strings.ToLower(radiiForceField)
	}
}
