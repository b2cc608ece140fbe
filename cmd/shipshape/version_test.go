package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionCommandOutput(t *testing.T) {
	cmd := newVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())

	out := buf.String()
	require.Contains(t, out, "shipshape ")
	require.Contains(t, out, "commit: ")
	require.Contains(t, out, "go: go")
}
