// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package gosrc

import "codeberg.org/pixivfe/magictr/i18n"

type menuItem struct {
	Label i18n.MsgKey
	Href  string
}

var menu = []menuItem{
	{Label: "Home", Href: "/"},
	{"Settings", "/settings"},
}

var titles = map[string]i18n.MsgKey{
	"index": "Front page",
}

func greet(name string) string {
	return i18n.T("Hello %s!", name)
}

func heading(key i18n.MsgKey) string {
	return key.Tr()
}

func page(dynamic string) string {
	_ = heading("Upload")
	_ = i18n.MsgKey("Cancel").Tr()
	_ = i18n.T(dynamic)

	return greet("Ann") + string(titles["index"]) + string(menu[0].Label)
}
