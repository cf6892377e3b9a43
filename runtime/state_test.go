package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/diffingo/runtime"
)

type fakeUnit struct{ X int }

func TestParserState_PushTopPopRoundTrip(t *testing.T) {
	var s runtime.ParserState
	assert.Equal(t, 0, s.Depth())

	s.Push(&fakeUnit{X: 1})
	require.Equal(t, 1, s.Depth())

	top, ok := s.Top()
	require.True(t, ok)
	top.PC = 3
	top.Unit.(*fakeUnit).X = 42

	top2, ok := s.Top()
	require.True(t, ok)
	assert.Equal(t, 3, top2.PC, "mutations through Top must be visible to the same frame")
	assert.Equal(t, 42, top2.Unit.(*fakeUnit).X)

	frame, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, 3, frame.PC)
	assert.Equal(t, 0, s.Depth())

	_, ok = s.Pop()
	assert.False(t, ok, "popping an empty stack must report failure, not panic")
}

func TestParserState_ResetClearsStack(t *testing.T) {
	var s runtime.ParserState
	s.Push(&fakeUnit{})
	s.Push(&fakeUnit{})
	require.Equal(t, 2, s.Depth())

	s.Reset()
	assert.Equal(t, 0, s.Depth())
	_, ok := s.Top()
	assert.False(t, ok)
}

func TestParserState_NestedFramesResumeIndependently(t *testing.T) {
	var s runtime.ParserState
	s.Push(&fakeUnit{X: 1})
	top, _ := s.Top()
	top.PC = 5

	s.Push(&fakeUnit{X: 2})
	inner, _ := s.Top()
	inner.PC = 1

	s.Pop()
	outer, ok := s.Top()
	require.True(t, ok)
	assert.Equal(t, 5, outer.PC, "popping the inner frame must restore the outer frame's own PC")
}
