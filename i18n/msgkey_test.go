// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"testing"

	"github.com/a-h/templ"
)

func TestMsgKeyAsComponent(t *testing.T) {
	var _ templ.Component = MsgKey("foo")
}

func TestT(t *testing.T) {
	Disable()

	if got := T("Hello %s!", "Ann"); got != "Hello Ann!" {
		t.Errorf("Expected %q, got %q", "Hello Ann!", got)
	}
}
