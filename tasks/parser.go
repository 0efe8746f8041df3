// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package tasks

import (
	"reflect"
	"sync"

	"codeberg.org/pixivfe/magictr/i18n"
)

// Parser extracts msgids from the source files it targets.
type Parser interface {
	Target(file string) bool
	Parse(file string) ([]i18n.Entry, error)
}

var (
	parsersMu sync.RWMutex
	parsers   []Parser
)

// AddParser registers p for the files it targets. Registering an equal
// parser of a comparable type twice has no effect. Parsers registered later
// take precedence.
func AddParser(p Parser) {
	parsersMu.Lock()
	defer parsersMu.Unlock()

	if reflect.TypeOf(p).Comparable() {
		for _, q := range parsers {
			if q == p {
				return
			}
		}
	}

	parsers = append(parsers, p)
}

// parserFor returns the most recently registered parser targeting file.
func parserFor(file string) Parser {
	parsersMu.RLock()
	defer parsersMu.RUnlock()

	for i := len(parsers) - 1; i >= 0; i-- {
		if parsers[i].Target(file) {
			return parsers[i]
		}
	}

	return nil
}
