package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	deepkit "github.com/wilcoxmd/deepkit-framework"
)

func TestPublishKeepsFirstEntry(t *testing.T) {
	for _, size := range []int{0, 4} {
		c, err := NewCache(size)
		require.NoError(t, err)
		first := &deepkit.TypeArray{Type: deepkit.TypeString}
		second := &deepkit.TypeArray{Type: deepkit.TypeString}
		c.publish(map[string]deepkit.Type{"k": first})
		c.publish(map[string]deepkit.Type{"k": second, "j": second})
		typ, ok := c.peek("k")
		require.True(t, ok)
		assert.Same(t, first, typ, "size %d", size)
		typ, ok = c.peek("j")
		require.True(t, ok)
		assert.Same(t, second, typ, "size %d", size)
		assert.Equal(t, 2, c.Len())
	}
}
