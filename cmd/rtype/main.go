package main

import (
	_ "github.com/wilcoxmd/deepkit-framework/cmd/rtype/dis"
	_ "github.com/wilcoxmd/deepkit-framework/cmd/rtype/infer"
	_ "github.com/wilcoxmd/deepkit-framework/cmd/rtype/resolve"
	"github.com/wilcoxmd/deepkit-framework/cmd/rtype/root"
)

func main() {
	root.Rtype.ExecMain()
}
