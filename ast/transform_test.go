package ast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainEmpty(t *testing.T) {
	prog := &Program{SourceFile: "test.js"}
	result, err := Chain().Transform(prog)
	require.NoError(t, err)
	assert.Same(t, prog, result, "empty chain returns same program")
}

func TestChainSingle(t *testing.T) {
	called := false
	transform := TransformFunc{
		N: "test",
		F: func(prog *Program) (*Program, error) {
			called = true
			return &Program{SourceFile: "modified"}, nil
		},
	}
	prog := &Program{SourceFile: "original"}
	result, err := Chain(transform).Transform(prog)
	require.NoError(t, err)
	assert.True(t, called, "transform was called")
	assert.Equal(t, "modified", result.SourceFile)
}

func TestChainOrdering(t *testing.T) {
	var order []string
	record := func(name string) Transform {
		return TransformFunc{
			N: name,
			F: func(prog *Program) (*Program, error) {
				order = append(order, name)
				return prog, nil
			},
		}
	}
	_, err := Chain(record("first"), record("second"), record("third")).Transform(&Program{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestChainStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	reached := false
	failing := TransformFunc{N: "fail", F: func(*Program) (*Program, error) { return nil, boom }}
	after := TransformFunc{N: "after", F: func(p *Program) (*Program, error) {
		reached = true
		return p, nil
	}}

	result, err := Chain(failing, after).Transform(&Program{})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, result)
	assert.False(t, reached, "transforms after a failure must not run")
}

func TestChainOfChains(t *testing.T) {
	appendTransform := func(name, suffix string) Transform {
		return TransformFunc{
			N: name,
			F: func(prog *Program) (*Program, error) {
				return &Program{SourceFile: prog.SourceFile + suffix}, nil
			},
		}
	}
	inner := Chain(appendTransform("a", "+a"), appendTransform("b", "+b"))
	outer := Chain(inner, appendTransform("c", "+c"))
	result, err := outer.Transform(&Program{SourceFile: "start"})
	require.NoError(t, err)
	assert.Equal(t, "start+a+b+c", result.SourceFile)
}

func TestChainName(t *testing.T) {
	assert.Equal(t, "chain", Chain().Name())
}

func TestTransformFuncName(t *testing.T) {
	tf := TransformFunc{N: "my-transform", F: func(p *Program) (*Program, error) { return p, nil }}
	assert.Equal(t, "my-transform", tf.Name())
}
