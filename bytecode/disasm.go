package bytecode

import (
	"fmt"
	"math/big"
	"regexp"
	"slices"
	"strconv"
	"strings"

	deepkit "github.com/wilcoxmd/deepkit-framework"
)

// Disassemble returns the text form of p accepted by Assemble.  Address
// operands are replaced by labels.  Instructions that cannot be decoded
// are reported in a trailing comment.
func Disassemble(p *Program) string {
	var b strings.Builder
	b.WriteString(".decl ")
	b.WriteString(p.Name)
	if p.Class != nil {
		b.WriteString(" class")
	}
	b.WriteByte('\n')
	for k, v := range p.Literals {
		b.WriteString(FormatLiteralDirective(v))
		fmt.Fprintf(&b, " # %d\n", k)
	}
	insns, err := Decode(p.Code)
	labels := make(map[int]string)
	for _, insn := range insns {
		for _, k := range addressOperands(insn.Op) {
			a := insn.Operands[k]
			labels[a] = "L" + strconv.Itoa(a)
		}
	}
	for _, insn := range insns {
		if l, ok := labels[insn.Addr]; ok {
			b.WriteString(l)
			b.WriteString(":\n")
		}
		b.WriteString("    ")
		b.WriteString(insn.Op.String())
		addrs := addressOperands(insn.Op)
		for k, n := range insn.Operands {
			b.WriteByte(' ')
			if slices.Contains(addrs, k) {
				b.WriteString(labels[n])
			} else if _, ok := deepkit.LookupBrand(deepkit.NumberBrand(n).String()); ok && insn.Op == NumberBrand {
				b.WriteString(deepkit.NumberBrand(n).String())
			} else {
				b.WriteString(strconv.Itoa(n))
			}
		}
		b.WriteByte('\n')
	}
	if l, ok := labels[len(p.Code)]; ok {
		// A jump may target the end of the program.
		b.WriteString(l)
		b.WriteString(":\n")
	}
	if err != nil {
		fmt.Fprintf(&b, "# %s\n", err)
	}
	return b.String()
}

// FormatLiteralDirective returns the directive that appends v to a
// literal table.
func FormatLiteralDirective(v any) string {
	switch v := v.(type) {
	case nil:
		return ".literal undefined"
	case string:
		return ".literal " + strconv.Quote(v)
	case float64:
		return ".literal " + strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return ".literal " + strconv.FormatBool(v)
	case *big.Int:
		return ".literal " + v.String() + "n"
	case *regexp.Regexp:
		return ".literal /" + v.String() + "/"
	case *deepkit.Symbol:
		return ".symbol " + strconv.Quote(v.Description)
	case *deepkit.Class:
		return ".class " + v.Name
	case *Program:
		return ".program " + v.Name
	}
	return fmt.Sprintf("# unsupported literal %T", v)
}
