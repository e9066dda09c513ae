// Package chem is the chemistry toolkit boundary: molfile (V2000)
// parsing, per-molecule property extraction, and canonical SMILES
// serialization.
//
// The package exposes exactly the contract the conversion engine needs:
//   - ParseRecord: one SD record -> *Molecule or a parse error
//   - ToSMILES: *Molecule -> canonical SMILES or *CanonicalizationError
//   - Molecule keeps its verbatim source text for re-serialization
//
// Sanitization happens in two stages, mirroring how structure toolkits
// triage failures: structural defects (bad counts, dangling bond
// indexes, unknown elements) fail the parse; chemically impossible
// valence states parse fine but fail serialization.
package chem

import "fmt"

// Atom is one atom of a parsed molecule. Hydrogens explicit in the
// source stay in the atom list; they are never stripped.
type Atom struct {
	Symbol  string
	Charge  int
	Isotope int // absolute mass number; 0 means natural abundance
}

// Bond connects two atoms by 0-based index with an integer order (1-3).
type Bond struct {
	A, B  int
	Order int
}

// Property is one tag/value data item from the record's property block.
// Order matches the source file.
type Property struct {
	Key   string
	Value string
}

// Molecule is one parsed SD record.
type Molecule struct {
	name   string
	atoms  []Atom
	bonds  []Bond
	props  []Property
	source string
}

// Name returns the molecule's display name (the molfile title line),
// which may be empty.
func (m *Molecule) Name() string { return m.name }

// Atoms returns the atom list.
func (m *Molecule) Atoms() []Atom { return m.atoms }

// Bonds returns the bond list.
func (m *Molecule) Bonds() []Bond { return m.bonds }

// Properties returns the record's data items in file order.
func (m *Molecule) Properties() []Property { return m.props }

// Source returns the verbatim record text the molecule was parsed from.
func (m *Molecule) Source() string { return m.source }

// ParseError reports a structural defect that prevented a record from
// being parsed into a molecule at all.
type ParseError struct {
	Line int // 1-based line within the record; 0 when unknown
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("chem: parse: line %d: %s", e.Line, e.Msg)
	}
	return "chem: parse: " + e.Msg
}

// CanonicalizationError is the single failure kind of the SMILES
// serializer. Toolkits raise many distinct error types for malformed
// valence, kekulization and the like; at this boundary the contract is
// only "succeeded" vs "failed".
type CanonicalizationError struct {
	AtomIndex int // 0-based; -1 when the failure is not atom-specific
	Msg       string
}

func (e *CanonicalizationError) Error() string {
	if e.AtomIndex >= 0 {
		return fmt.Sprintf("chem: canonicalize: atom %d: %s", e.AtomIndex+1, e.Msg)
	}
	return "chem: canonicalize: " + e.Msg
}

// atomicNumbers maps element symbols to atomic numbers. Unknown symbols
// fail the parse.
var atomicNumbers = map[string]int{
	"H": 1, "He": 2, "Li": 3, "Be": 4, "B": 5, "C": 6, "N": 7, "O": 8,
	"F": 9, "Ne": 10, "Na": 11, "Mg": 12, "Al": 13, "Si": 14, "P": 15,
	"S": 16, "Cl": 17, "Ar": 18, "K": 19, "Ca": 20, "Sc": 21, "Ti": 22,
	"V": 23, "Cr": 24, "Mn": 25, "Fe": 26, "Co": 27, "Ni": 28, "Cu": 29,
	"Zn": 30, "Ga": 31, "Ge": 32, "As": 33, "Se": 34, "Br": 35, "Kr": 36,
	"Rb": 37, "Sr": 38, "Y": 39, "Zr": 40, "Nb": 41, "Mo": 42, "Tc": 43,
	"Ru": 44, "Rh": 45, "Pd": 46, "Ag": 47, "Cd": 48, "In": 49, "Sn": 50,
	"Sb": 51, "Te": 52, "I": 53, "Xe": 54, "Cs": 55, "Ba": 56, "La": 57,
	"Ce": 58, "Pr": 59, "Nd": 60, "Pm": 61, "Sm": 62, "Eu": 63, "Gd": 64,
	"Tb": 65, "Dy": 66, "Ho": 67, "Er": 68, "Tm": 69, "Yb": 70, "Lu": 71,
	"Hf": 72, "Ta": 73, "W": 74, "Re": 75, "Os": 76, "Ir": 77, "Pt": 78,
	"Au": 79, "Hg": 80, "Tl": 81, "Pb": 82, "Bi": 83, "Po": 84, "At": 85,
	"Rn": 86, "Fr": 87, "Ra": 88, "Ac": 89, "Th": 90, "Pa": 91, "U": 92,
	"Np": 93, "Pu": 94, "Am": 95, "Cm": 96, "Bk": 97, "Cf": 98, "Es": 99,
	"Fm": 100, "Md": 101, "No": 102, "Lr": 103, "Rf": 104, "Db": 105,
	"Sg": 106, "Bh": 107, "Hs": 108, "Mt": 109, "Ds": 110, "Rg": 111,
	"Cn": 112, "Nh": 113, "Fl": 114, "Mc": 115, "Lv": 116, "Ts": 117,
	"Og": 118,
}
