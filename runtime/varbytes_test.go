package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/diffingo/runtime"
)

func TestVarBytes_Owned(t *testing.T) {
	v := runtime.OwnedVarBytes([]byte("hello"))
	assert.Equal(t, 5, v.Len())
	assert.Equal(t, []byte("hello"), v.Bytes(nil))
}

func TestVarBytes_BorrowedResolvesAgainstSource(t *testing.T) {
	source := []byte("xx-payload-yy")
	v := runtime.BorrowedVarBytes(runtime.StreamRange{Start: 3, Len: 7})
	assert.Equal(t, 7, v.Len())
	assert.Equal(t, []byte("payload"), v.Bytes(source))
}

func TestVarString_OwnedAndBorrowed(t *testing.T) {
	owned := runtime.OwnedVarString([]byte("ok"))
	assert.Equal(t, "ok", owned.String(nil))

	source := []byte("prefix-ok-suffix")
	borrowed := runtime.BorrowedVarString(runtime.StreamRange{Start: 7, Len: 2})
	assert.Equal(t, "ok", borrowed.String(source))
	assert.Equal(t, 2, borrowed.Len())
}
