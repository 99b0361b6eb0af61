package charm

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
)

var helpFlags = []string{"h", "help", "hidden"}

func writeHelp(w io.Writer, p path, showHidden bool) {
	inst := p.last()
	spec := inst.spec
	fmt.Fprintf(w, "NAME\n    %s - %s\n\n", p.name(), spec.Short)
	fmt.Fprintf(w, "USAGE\n    %s\n", usage(p))
	if opts := options(inst, showHidden); opts != "" {
		fmt.Fprintf(w, "\nOPTIONS\n%s", opts)
	}
	if long := strings.TrimSpace(spec.Long); long != "" {
		fmt.Fprintf(w, "\nDESCRIPTION\n")
		for _, line := range strings.Split(long, "\n") {
			if line == "" {
				fmt.Fprintln(w)
				continue
			}
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	if len(spec.Examples) > 0 {
		fmt.Fprintf(w, "\nEXAMPLES\n")
		for _, ex := range spec.Examples {
			fmt.Fprintf(w, "    %s\n", ex)
		}
	}
	var children []*Spec
	for _, child := range spec.children {
		if !child.Hidden || showHidden {
			children = append(children, child)
		}
	}
	if len(children) > 0 {
		fmt.Fprintf(w, "\nCOMMANDS\n")
		for _, child := range children {
			fmt.Fprintf(w, "    %-12s %s\n", child.Name, child.Short)
		}
	}
}

func usage(p path) string {
	var prefix []string
	for _, inst := range p[:len(p)-1] {
		prefix = append(prefix, inst.spec.Name)
	}
	prefix = append(prefix, p.last().spec.Usage)
	return strings.Join(prefix, " ")
}

func options(inst *instance, showHidden bool) string {
	hidden := strings.Split(inst.spec.HiddenFlags, ",")
	redacted := strings.Split(inst.spec.RedactedFlags, ",")
	var b strings.Builder
	inst.flags.VisitAll(func(f *flag.Flag) {
		if slices.Contains(helpFlags, f.Name) {
			return
		}
		if slices.Contains(hidden, f.Name) && !showHidden {
			return
		}
		name, usage := flag.UnquoteUsage(f)
		fmt.Fprintf(&b, "    -%s", f.Name)
		if name != "" {
			fmt.Fprintf(&b, " %s", name)
		}
		fmt.Fprintf(&b, "\n        %s", usage)
		if f.DefValue != "" && f.DefValue != "false" && !slices.Contains(redacted, f.Name) {
			fmt.Fprintf(&b, " (default %q)", f.DefValue)
		}
		b.WriteByte('\n')
	})
	return b.String()
}
