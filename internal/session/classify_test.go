package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMarksEachPosition(t *testing.T) {
	got := Classify("cx", "cats")
	assert.Equal(t, []Class{Correct, Incorrect, Current, Pending}, got)
}

func TestClassifyNoCurrentWhenInputReachesEnd(t *testing.T) {
	assert.Equal(t, []Class{Correct, Correct}, Classify("ab", "ab"))
	assert.Equal(t, []Class{Correct, Incorrect}, Classify("axyz", "ab"))
}

func TestClassifyEmptyInput(t *testing.T) {
	assert.Equal(t, []Class{Current, Pending, Pending}, Classify("", "abc"))
	assert.Empty(t, Classify("abc", ""))
}

func TestStateClassesMatchClassify(t *testing.T) {
	s := New("hello").ApplyInput("hex", t0)
	assert.Equal(t, Classify("hex", "hello"), s.Classes())
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "current", Current.String())
	assert.Equal(t, "unknown", Class(42).String())
}
