package chem

import (
	"strconv"
	"strings"
)

// chargeCodes maps the V2000 atom-block charge column to a formal
// charge. Code 4 is "doublet radical", which carries no charge.
var chargeCodes = map[int]int{1: 3, 2: 2, 3: 1, 5: -1, 6: -2, 7: -3}

// ParseRecord parses one raw SD record into a Molecule.
//
// The structural block is read with full sanitization: counts must be
// consistent, bond indexes in range, bond orders supported, and element
// symbols known. Explicit hydrogen atoms are retained. The tag/value
// data items following `M  END` become the molecule's properties, in
// file order.
//
// Errors:
//   - Any structural defect returns a *ParseError; the engine counts it
//     as a parse failure and moves on.
func ParseRecord(raw string) (*Molecule, error) {
	lines := strings.Split(raw, "\n")
	if len(lines) < 4 {
		return nil, &ParseError{Msg: "record shorter than a molfile header"}
	}

	m := &Molecule{
		name:   strings.TrimSpace(strings.TrimRight(lines[0], "\r")),
		source: raw,
	}

	counts := lines[3]
	if strings.Contains(counts, "V3000") {
		return nil, &ParseError{Line: 4, Msg: "V3000 connection tables are not supported"}
	}
	natoms, nbonds, ok := parseCounts(counts)
	if !ok {
		return nil, &ParseError{Line: 4, Msg: "malformed counts line"}
	}

	atomStart := 4
	bondStart := atomStart + natoms
	propStart := bondStart + nbonds
	if propStart > len(lines) {
		return nil, &ParseError{Line: 4, Msg: "counts line exceeds record length"}
	}

	m.atoms = make([]Atom, 0, natoms)
	for i := 0; i < natoms; i++ {
		atom, perr := parseAtomLine(lines[atomStart+i])
		if perr != nil {
			perr.Line = atomStart + i + 1
			return nil, perr
		}
		m.atoms = append(m.atoms, atom)
	}

	m.bonds = make([]Bond, 0, nbonds)
	seenBonds := make(map[[2]int]bool, nbonds)
	for i := 0; i < nbonds; i++ {
		bond, perr := parseBondLine(lines[bondStart+i], natoms)
		if perr != nil {
			perr.Line = bondStart + i + 1
			return nil, perr
		}
		pair := [2]int{bond.A, bond.B}
		if pair[0] > pair[1] {
			pair[0], pair[1] = pair[1], pair[0]
		}
		if seenBonds[pair] {
			return nil, &ParseError{
				Line: bondStart + i + 1,
				Msg:  "duplicate bond between atoms " + strconv.Itoa(bond.A+1) + " and " + strconv.Itoa(bond.B+1),
			}
		}
		seenBonds[pair] = true
		m.bonds = append(m.bonds, bond)
	}

	// Properties block: M CHG / M ISO supersede the atom-block columns.
	idx := propStart
	sawEnd := false
	chargesReset := false
	for ; idx < len(lines); idx++ {
		line := strings.TrimRight(lines[idx], "\r")
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "M" && fields[1] == "END" {
			sawEnd = true
			idx++
			break
		}
		if len(fields) >= 3 && fields[0] == "M" && (fields[1] == "CHG" || fields[1] == "ISO") {
			if fields[1] == "CHG" && !chargesReset {
				for i := range m.atoms {
					m.atoms[i].Charge = 0
				}
				chargesReset = true
			}
			if perr := applyAtomPairs(m, fields[1], fields[2:]); perr != nil {
				perr.Line = idx + 1
				return nil, perr
			}
		}
		// Other property lines (A, V, G, M RAD, ...) carry nothing the
		// converter outputs; skip them.
	}
	if !sawEnd {
		return nil, &ParseError{Msg: "missing M  END"}
	}

	m.props = parseDataItems(lines[idx:])
	return m, nil
}

// parseCounts reads the atom and bond counts, fixed-width first (the
// columns run together for >=1000 atoms), whitespace-split as fallback.
func parseCounts(line string) (natoms, nbonds int, ok bool) {
	if len(line) >= 6 {
		a, aok := fixedInt(line, 0, 3)
		b, bok := fixedInt(line, 3, 3)
		if aok && bok && a >= 0 && b >= 0 {
			return a, b, true
		}
	}
	f := strings.Fields(line)
	if len(f) < 2 {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(f[0])
	b, err2 := strconv.Atoi(f[1])
	if err1 != nil || err2 != nil || a < 0 || b < 0 {
		return 0, 0, false
	}
	return a, b, true
}

func parseAtomLine(line string) (Atom, *ParseError) {
	f := strings.Fields(line)
	if len(f) < 4 {
		return Atom{}, &ParseError{Msg: "short atom line"}
	}
	for i := 0; i < 3; i++ {
		if _, err := strconv.ParseFloat(f[i], 64); err != nil {
			return Atom{}, &ParseError{Msg: "malformed atom coordinates"}
		}
	}

	atom := Atom{Symbol: f[3]}
	switch atom.Symbol {
	case "D":
		atom.Symbol, atom.Isotope = "H", 2
	case "T":
		atom.Symbol, atom.Isotope = "H", 3
	}
	if _, known := atomicNumbers[atom.Symbol]; !known {
		return Atom{}, &ParseError{Msg: "unknown element symbol " + strconv.Quote(f[3])}
	}

	if len(f) >= 6 {
		if code, err := strconv.Atoi(f[5]); err == nil {
			atom.Charge = chargeCodes[code]
		}
	}
	return atom, nil
}

func parseBondLine(line string, natoms int) (Bond, *ParseError) {
	a, b, order, ok := parseBondTriplet(line)
	if !ok {
		return Bond{}, &ParseError{Msg: "malformed bond line"}
	}
	if a < 1 || a > natoms || b < 1 || b > natoms || a == b {
		return Bond{}, &ParseError{Msg: "bond references atom out of range"}
	}
	if order < 1 || order > 3 {
		return Bond{}, &ParseError{Msg: "unsupported bond type " + strconv.Itoa(order)}
	}
	return Bond{A: a - 1, B: b - 1, Order: order}, nil
}

func parseBondTriplet(line string) (a, b, order int, ok bool) {
	if len(line) >= 9 {
		av, aok := fixedInt(line, 0, 3)
		bv, bok := fixedInt(line, 3, 3)
		ov, ook := fixedInt(line, 6, 3)
		if aok && bok && ook {
			return av, bv, ov, true
		}
	}
	f := strings.Fields(line)
	if len(f) < 3 {
		return 0, 0, 0, false
	}
	av, err1 := strconv.Atoi(f[0])
	bv, err2 := strconv.Atoi(f[1])
	ov, err3 := strconv.Atoi(f[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return av, bv, ov, true
}

func fixedInt(line string, start, width int) (int, bool) {
	if len(line) < start+width {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(line[start : start+width]))
	if err != nil {
		return 0, false
	}
	return v, true
}

// applyAtomPairs applies `M  CHG` / `M  ISO` (count, then index/value
// pairs) to the atom list.
func applyAtomPairs(m *Molecule, kind string, fields []string) *ParseError {
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 || len(fields) < 1+2*n {
		return &ParseError{Msg: "malformed M  " + kind + " line"}
	}
	for i := 0; i < n; i++ {
		idx, err1 := strconv.Atoi(fields[1+2*i])
		val, err2 := strconv.Atoi(fields[2+2*i])
		if err1 != nil || err2 != nil || idx < 1 || idx > len(m.atoms) {
			return &ParseError{Msg: "M  " + kind + " references atom out of range"}
		}
		if kind == "CHG" {
			m.atoms[idx-1].Charge = val
		} else {
			m.atoms[idx-1].Isotope = val
		}
	}
	return nil
}

// parseDataItems reads the `>  <TAG>` data items that follow M END.
// Values may span lines; a blank line ends one item. Stray lines outside
// an item are ignored, matching the lenient behavior of structure
// toolkits.
func parseDataItems(lines []string) []Property {
	var props []Property
	i := 0
	for i < len(lines) {
		line := strings.TrimRight(lines[i], "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "$$$$" {
			break
		}
		if !strings.HasPrefix(trimmed, ">") {
			i++
			continue
		}
		open := strings.Index(trimmed, "<")
		end := strings.LastIndex(trimmed, ">")
		if open < 0 || end <= open {
			i++
			continue
		}
		key := trimmed[open+1 : end]

		var value []string
		i++
		for i < len(lines) {
			vline := strings.TrimRight(lines[i], "\r")
			vtrim := strings.TrimSpace(vline)
			if vtrim == "" || vtrim == "$$$$" {
				break
			}
			value = append(value, vline)
			i++
		}
		props = append(props, Property{Key: key, Value: strings.Join(value, "\n")})
	}
	return props
}
