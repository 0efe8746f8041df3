// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package xgettext

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestGoParserTarget(t *testing.T) {
	t.Parallel()

	p := &GoParser{}

	tests := []struct {
		file string
		want bool
	}{
		{file: "i18n/msgkey.go", want: true},
		{file: "i18n/msgkey_test.go", want: false},
		{file: "views/index.haml", want: false},
	}

	for _, tt := range tests {
		if got := p.Target(tt.file); got != tt.want {
			t.Errorf("Target(%q): expected %v, got %v", tt.file, tt.want, got)
		}
	}
}

func TestGoParserParse(t *testing.T) {
	t.Parallel()

	const file = "testdata/gosrc/messages.go"

	entries, err := (&GoParser{}).Parse(file)
	require.NoError(t, err)

	want := [][]string{
		{"Cancel", file + ":32"},
		{"Front page", file + ":19"},
		{"Hello %s!", file + ":23"},
		{"Home", file + ":14"},
		{"Settings", file + ":15"},
		{"Upload", file + ":31"},
	}

	got := make([][]string, len(entries))
	for i, e := range entries {
		got[i] = e.Strings()
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}
