package runtime_test

import (
	"testing"

	"github.com/wilcoxmd/deepkit-framework/ztest"
)

func TestZTest(t *testing.T) { ztest.Run(t, "testdata/ztest") }
