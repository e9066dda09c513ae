package chem

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// molBlock assembles a minimal V2000 record for tests.
func molBlock(title string, atoms, bonds []string, tail string) string {
	var b strings.Builder
	b.WriteString(title + "\n  test\n\n")
	b.WriteString(countsLine(len(atoms), len(bonds)))
	for _, a := range atoms {
		b.WriteString(a + "\n")
	}
	for _, bd := range bonds {
		b.WriteString(bd + "\n")
	}
	b.WriteString("M  END\n")
	b.WriteString(tail)
	b.WriteString("$$$$\n")
	return b.String()
}

func countsLine(na, nb int) string {
	return fmt.Sprintf("%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", na, nb)
}

func atomLine(sym string) string {
	return fmt.Sprintf("    0.0000    0.0000    0.0000 %-3s 0  0  0  0  0  0  0  0  0  0  0  0", sym)
}

func bondLine(a, b, order int) string {
	return fmt.Sprintf("%3d%3d%3d  0", a, b, order)
}

const ethanolTail = ">  <MW>\n46.07\n\n"

func ethanolBlock(title, tail string) string {
	return molBlock(title,
		[]string{atomLine("C"), atomLine("C"), atomLine("O")},
		[]string{bondLine(1, 2, 1), bondLine(2, 3, 1)},
		tail)
}

func TestParseRecord_WellFormed(t *testing.T) {
	t.Parallel()

	raw := ethanolBlock("Aspirin", ethanolTail)
	m, err := ParseRecord(raw)
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if m.Name() != "Aspirin" {
		t.Fatalf("Name = %q, want Aspirin", m.Name())
	}
	if len(m.Atoms()) != 3 || len(m.Bonds()) != 2 {
		t.Fatalf("got %d atoms / %d bonds, want 3 / 2", len(m.Atoms()), len(m.Bonds()))
	}
	props := m.Properties()
	if len(props) != 1 || props[0].Key != "MW" || props[0].Value != "46.07" {
		t.Fatalf("properties = %+v", props)
	}
	if m.Source() != raw {
		t.Fatal("Source() must be verbatim")
	}
}

func TestParseRecord_MultilineProperty(t *testing.T) {
	t.Parallel()

	tail := ">  <Comment>\nline one\nline two\n\n>  <Other>\nx\n\n"
	m, err := ParseRecord(ethanolBlock("m", tail))
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	props := m.Properties()
	if len(props) != 2 {
		t.Fatalf("got %d properties, want 2", len(props))
	}
	if props[0].Value != "line one\nline two" {
		t.Fatalf("multiline value = %q", props[0].Value)
	}
	if props[1].Key != "Other" {
		t.Fatalf("property order not preserved: %+v", props)
	}
}

func TestParseRecord_ChargeAndIsotopeLines(t *testing.T) {
	t.Parallel()

	// Atom-block charge code 3 (+1) is superseded by M CHG.
	raw := "salt\n  test\n\n" + countsLine(2, 0) +
		"    0.0000    0.0000    0.0000 N   0  3  0  0  0  0  0  0  0  0  0  0\n" +
		atomLine("C") + "\n" +
		"M  CHG  1   2  -1\n" +
		"M  ISO  1   2  13\n" +
		"M  END\n$$$$\n"
	m, err := ParseRecord(raw)
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	atoms := m.Atoms()
	if atoms[0].Charge != 0 {
		t.Fatalf("M CHG must supersede atom-block charges; N charge = %d", atoms[0].Charge)
	}
	if atoms[1].Charge != -1 || atoms[1].Isotope != 13 {
		t.Fatalf("atom 2 = %+v, want charge -1 isotope 13", atoms[1])
	}
}

func TestParseRecord_AtomBlockChargeCode(t *testing.T) {
	t.Parallel()

	raw := "ion\n  test\n\n" + countsLine(1, 0) +
		"    0.0000    0.0000    0.0000 N   0  3  0  0  0  0  0  0  0  0  0  0\n" +
		"M  END\n$$$$\n"
	m, err := ParseRecord(raw)
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if m.Atoms()[0].Charge != 1 {
		t.Fatalf("charge code 3 should mean +1, got %d", m.Atoms()[0].Charge)
	}
}

func TestParseRecord_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage counts line", "x\n\n\nnot a molfile\nM  END\n$$$$\n"},
		{"counts exceed record", "x\n\n\n 99 99  0  0  0  0  0  0  0  0999 V2000\nM  END\n$$$$\n"},
		{"unknown element", molBlock("x", []string{atomLine("Xx")}, nil, "")},
		{"bond index out of range", molBlock("x",
			[]string{atomLine("C"), atomLine("C")},
			[]string{bondLine(1, 5, 1)}, "")},
		{"self bond", molBlock("x", []string{atomLine("C")}, []string{bondLine(1, 1, 1)}, "")},
		{"duplicate bond", molBlock("x",
			[]string{atomLine("C"), atomLine("C"), atomLine("O")},
			[]string{bondLine(1, 2, 1), bondLine(2, 3, 1), bondLine(1, 2, 1)}, "")},
		{"duplicate bond reversed indexes", molBlock("x",
			[]string{atomLine("C"), atomLine("C"), atomLine("O")},
			[]string{bondLine(1, 2, 1), bondLine(2, 3, 1), bondLine(2, 1, 2)}, "")},
		{"aromatic bond type", molBlock("x",
			[]string{atomLine("C"), atomLine("C")},
			[]string{bondLine(1, 2, 4)}, "")},
		{"missing M END", "x\n\n\n  1  0  0  0  0  0  0  0  0  0999 V2000\n" + atomLine("C") + "\n$$$$\n"},
		{"too short", "x\n$$$$\n"},
		{"v3000", "x\n\n\n  0  0  0  0  0  0  0  0  0  0999 V3000\nM  END\n$$$$\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseRecord(tt.raw)
			if err == nil {
				t.Fatal("expected parse error")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
		})
	}
}

func TestParseRecord_DeuteriumTritium(t *testing.T) {
	t.Parallel()

	m, err := ParseRecord(molBlock("heavy", []string{atomLine("D")}, nil, ""))
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	a := m.Atoms()[0]
	if a.Symbol != "H" || a.Isotope != 2 {
		t.Fatalf("D should parse as H isotope 2, got %+v", a)
	}
}

func TestParseRecord_EmptyNameIsNotAnError(t *testing.T) {
	t.Parallel()

	m, err := ParseRecord(ethanolBlock("", ""))
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if m.Name() != "" {
		t.Fatalf("Name = %q, want empty", m.Name())
	}
}
