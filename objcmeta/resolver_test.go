package objcmeta_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strongarm-go/strongarm/objcmeta"
)

func TestNoneResolver_neverResolves(t *testing.T) {
	info, ok := objcmeta.NoneResolver{}.SelectorForSelref(0x1234)
	require.False(t, ok)
	require.Equal(t, objcmeta.SelectorInfo{}, info)
}
