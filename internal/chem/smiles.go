package chem

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SMILESOptions controls serialization.
type SMILESOptions struct {
	// Isomeric encodes isotope labels. Formal charges are always
	// written; they are not isomer information.
	Isomeric bool
}

// defaultValences lists permitted total bond orders per atomic number,
// smallest first. These are the SMILES organic-subset valences, so an
// atom written bare implies exactly the hydrogen count computed here.
// Elements absent from the table are unconstrained (no implicit
// hydrogens, no valence check).
var defaultValences = map[int][]int{
	1:  {1},       // H
	5:  {3},       // B
	6:  {4},       // C
	7:  {3},       // N (pentavalent neutral N is a serialization failure)
	8:  {2},       // O
	9:  {1},       // F
	14: {4},       // Si
	15: {3, 5},    // P
	16: {2, 4, 6}, // S
	17: {1},       // Cl
	33: {3, 5},    // As
	34: {2, 4, 6}, // Se
	35: {1},       // Br
	53: {1},       // I
}

// organicSubset lists symbols that may be written without brackets.
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true,
	"S": true, "F": true, "Cl": true, "Br": true, "I": true,
}

// ToSMILES serializes a molecule as canonical SMILES: a deterministic
// string, stable across runs and independent of input atom order up to
// graph symmetry.
//
// Errors:
//   - Returns a *CanonicalizationError when the structure cannot be
//     serialized (the only defined cause today is an atom whose bond
//     order total exceeds its permitted valence).
func ToSMILES(m *Molecule, opts SMILESOptions) (string, error) {
	n := len(m.atoms)
	if n == 0 {
		return "", nil
	}

	w := &smilesWriter{m: m, opts: opts}
	w.buildAdjacency()

	if err := w.computeImplicitH(); err != nil {
		return "", err
	}
	w.ranks = w.canonicalRanks()
	w.sortNeighbors()

	return w.write(), nil
}

type neighbor struct {
	to    int
	order int
}

type smilesWriter struct {
	m    *Molecule
	opts SMILESOptions

	nbrs  [][]neighbor
	hcnt  []int
	ranks []int

	// ring closure state
	ringDigits map[[2]int]int
	nextDigit  int
	opened     map[int]bool
	visited    []bool
}

func (w *smilesWriter) buildAdjacency() {
	n := len(w.m.atoms)
	w.nbrs = make([][]neighbor, n)
	for _, b := range w.m.bonds {
		w.nbrs[b.A] = append(w.nbrs[b.A], neighbor{to: b.B, order: b.Order})
		w.nbrs[b.B] = append(w.nbrs[b.B], neighbor{to: b.A, order: b.Order})
	}
}

// computeImplicitH fills per-atom hydrogen counts from the valence
// model. The formal charge shifts the lookup isoelectronically (N+
// bonds like C, O- like F), which is how toolkits handle charged
// organics without a per-charge table.
func (w *smilesWriter) computeImplicitH() error {
	n := len(w.m.atoms)
	w.hcnt = make([]int, n)
	for i := 0; i < n; i++ {
		a := w.m.atoms[i]
		sum := 0
		for _, nb := range w.nbrs[i] {
			sum += nb.order
		}

		zEff := atomicNumbers[a.Symbol] - a.Charge
		allowed, constrained := defaultValences[zEff]
		if !constrained {
			continue
		}
		found := false
		for _, v := range allowed {
			if sum <= v {
				w.hcnt[i] = v - sum
				found = true
				break
			}
		}
		if !found {
			return &CanonicalizationError{
				AtomIndex: i,
				Msg: fmt.Sprintf("explicit valence %d for %s is greater than permitted %v",
					sum, a.Symbol, allowed),
			}
		}
	}
	return nil
}

// canonicalRanks assigns each atom a rank by invariant refinement:
// start from local invariants, repeatedly fold in sorted neighbor ranks
// until the partition is stable, then break remaining ties
// deterministically and refine again.
func (w *smilesWriter) canonicalRanks() []int {
	n := len(w.m.atoms)

	keys := make([]string, n)
	for i, a := range w.m.atoms {
		deg := len(w.nbrs[i])
		sum := 0
		for _, nb := range w.nbrs[i] {
			sum += nb.order
		}
		iso := a.Isotope
		if !w.opts.Isomeric {
			iso = 0
		}
		keys[i] = fmt.Sprintf("%03d|%02d|%02d|%+03d|%03d|%d",
			atomicNumbers[a.Symbol], deg, sum, a.Charge, iso, w.hcnt[i])
	}
	ranks := rankByKey(keys)

	refine := func() {
		for {
			distinct := countDistinct(ranks)
			for i := range keys {
				nbrRanks := make([]int, 0, len(w.nbrs[i]))
				for _, nb := range w.nbrs[i] {
					// Fold the bond order in so that =O and -O neighbors
					// discriminate.
					nbrRanks = append(nbrRanks, ranks[nb.to]*4+nb.order)
				}
				sort.Ints(nbrRanks)
				var b strings.Builder
				fmt.Fprintf(&b, "%06d", ranks[i])
				for _, r := range nbrRanks {
					fmt.Fprintf(&b, ",%06d", r)
				}
				keys[i] = b.String()
			}
			ranks = rankByKey(keys)
			if countDistinct(ranks) == distinct {
				return
			}
		}
	}

	refine()
	for countDistinct(ranks) < n {
		// Promote the lowest-index atom of the lowest tied rank class.
		tied := -1
		for i := 0; i < n; i++ {
			if tied == -1 || ranks[i] < ranks[tied] {
				if rankClassSize(ranks, ranks[i]) > 1 {
					tied = i
				}
			}
		}
		for i := range ranks {
			ranks[i] *= 2
		}
		ranks[tied]--
		for i := range keys {
			keys[i] = fmt.Sprintf("%06d", ranks[i])
		}
		ranks = rankByKey(keys)
		refine()
	}
	return ranks
}

func rankByKey(keys []string) []int {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	pos := make(map[string]int, len(sorted))
	rank := 0
	for i, k := range sorted {
		if i == 0 || k != sorted[i-1] {
			pos[k] = rank
			rank++
		}
	}
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = pos[k]
	}
	return out
}

func countDistinct(ranks []int) int {
	seen := make(map[int]struct{}, len(ranks))
	for _, r := range ranks {
		seen[r] = struct{}{}
	}
	return len(seen)
}

func rankClassSize(ranks []int, r int) int {
	n := 0
	for _, v := range ranks {
		if v == r {
			n++
		}
	}
	return n
}

func (w *smilesWriter) sortNeighbors() {
	for i := range w.nbrs {
		nb := w.nbrs[i]
		sort.Slice(nb, func(a, b int) bool {
			if w.ranks[nb[a].to] != w.ranks[nb[b].to] {
				return w.ranks[nb[a].to] < w.ranks[nb[b].to]
			}
			return nb[a].to < nb[b].to
		})
	}
}

// write emits all connected components, lowest-rank start atom first,
// joined by the dot disconnect.
func (w *smilesWriter) write() string {
	n := len(w.m.atoms)
	w.ringDigits = make(map[[2]int]int)
	w.nextDigit = 1
	w.opened = make(map[int]bool)

	starts := make([]int, 0, 1)
	seen := make([]bool, n)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return w.ranks[order[a]] < w.ranks[order[b]] })
	for _, i := range order {
		if !seen[i] {
			starts = append(starts, i)
			markComponent(w.nbrs, seen, i)
		}
	}

	// Pass 1: discover ring-closure bonds in emission order so digits
	// are assigned deterministically.
	w.visited = make([]bool, n)
	for _, s := range starts {
		w.findRings(s, -1)
	}

	// Pass 2: emit.
	w.visited = make([]bool, n)
	parts := make([]string, 0, len(starts))
	for _, s := range starts {
		var b strings.Builder
		w.emit(s, -1, 0, &b)
		parts = append(parts, b.String())
	}
	return strings.Join(parts, ".")
}

func markComponent(nbrs [][]neighbor, seen []bool, start int) {
	stack := []int{start}
	seen[start] = true
	for len(stack) > 0 {
		a := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, nb := range nbrs[a] {
			if !seen[nb.to] {
				seen[nb.to] = true
				stack = append(stack, nb.to)
			}
		}
	}
}

func bondKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func (w *smilesWriter) findRings(a, parent int) {
	w.visited[a] = true
	for _, nb := range w.nbrs[a] {
		if nb.to == parent {
			parent = -1 // skip the tree bond back to the parent exactly once
			continue
		}
		if w.visited[nb.to] {
			key := bondKey(a, nb.to)
			if _, ok := w.ringDigits[key]; !ok {
				w.ringDigits[key] = w.nextDigit
				w.nextDigit++
			}
			continue
		}
		w.findRings(nb.to, a)
	}
}

func (w *smilesWriter) emit(a, parent, parentOrder int, b *strings.Builder) {
	w.visited[a] = true
	b.WriteString(bondSymbol(parentOrder))
	b.WriteString(w.atomToken(a))

	// Ring closure digits at this atom, ascending for determinism. The
	// bond symbol is written at the opening occurrence only.
	type closure struct{ digit, order int }
	var closures []closure
	for _, nb := range w.nbrs[a] {
		if d, ok := w.ringDigits[bondKey(a, nb.to)]; ok {
			closures = append(closures, closure{digit: d, order: nb.order})
		}
	}
	sort.Slice(closures, func(i, j int) bool { return closures[i].digit < closures[j].digit })
	for _, c := range closures {
		if !w.opened[c.digit] {
			w.opened[c.digit] = true
			b.WriteString(bondSymbol(c.order))
		}
		b.WriteString(ringDigit(c.digit))
	}

	var children []neighbor
	for _, nb := range w.nbrs[a] {
		if nb.to == parent {
			parent = -1
			continue
		}
		if _, ring := w.ringDigits[bondKey(a, nb.to)]; ring {
			continue
		}
		if !w.visited[nb.to] {
			children = append(children, nb)
		}
	}
	for i, ch := range children {
		if i < len(children)-1 {
			b.WriteByte('(')
			w.emit(ch.to, a, ch.order, b)
			b.WriteByte(')')
		} else {
			w.emit(ch.to, a, ch.order, b)
		}
	}
}

func bondSymbol(order int) string {
	switch order {
	case 2:
		return "="
	case 3:
		return "#"
	default:
		return ""
	}
}

func ringDigit(d int) string {
	if d < 10 {
		return strconv.Itoa(d)
	}
	return "%" + fmt.Sprintf("%02d", d)
}

func (w *smilesWriter) atomToken(i int) string {
	a := w.m.atoms[i]
	iso := a.Isotope
	if !w.opts.Isomeric {
		iso = 0
	}
	if a.Charge == 0 && iso == 0 && a.Symbol != "H" && organicSubset[a.Symbol] {
		return a.Symbol
	}

	var b strings.Builder
	b.WriteByte('[')
	if iso > 0 {
		b.WriteString(strconv.Itoa(iso))
	}
	b.WriteString(a.Symbol)
	switch h := w.hcnt[i]; {
	case h == 1:
		b.WriteString("H")
	case h > 1:
		b.WriteString("H" + strconv.Itoa(h))
	}
	switch c := a.Charge; {
	case c == 1:
		b.WriteString("+")
	case c > 1:
		b.WriteString("+" + strconv.Itoa(c))
	case c == -1:
		b.WriteString("-")
	case c < -1:
		b.WriteString("-" + strconv.Itoa(-c))
	}
	b.WriteByte(']')
	return b.String()
}
